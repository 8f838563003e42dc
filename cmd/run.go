package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"shortcutbot/bot"
	"shortcutbot/config"
	"shortcutbot/database"
	"shortcutbot/events"
	"shortcutbot/repository"
	"shortcutbot/service"

	logrus "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting shortcut bot...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Initialize event bus and audit logging
	eventBus := events.NewBus()
	subscribeAuditLog(eventBus)

	// Initialize repositories and services
	settingsRepo := repository.NewGuildSettingsRepository(db)
	shortcutRepo := repository.NewShortcutRepository(db)
	shortcutService := service.NewShortcutService(settingsRepo, shortcutRepo, eventBus)
	dispatcher := service.NewPrefixDispatcher(shortcutService)
	importer := service.NewImportEngine(shortcutService, eventBus)
	exporter := service.NewExportEngine(shortcutService)

	// Initialize Discord bot
	log.Println("Initializing Discord bot...")
	discordBot, err := bot.New(bot.Config{Token: cfg.DiscordToken}, shortcutService, dispatcher, importer, exporter, eventBus)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Println("Discord bot initialized successfully")

	// Wait for context cancellation
	log.Printf("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Println("Shutting down bot...")

	// Close Discord bot connection
	if err := discordBot.Close(); err != nil {
		log.Printf("Error closing Discord bot: %v", err)
	}

	// Give cleanup operations time to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Close database connection
	log.Println("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Println("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Println("Shutdown completed")
	}

	return nil
}

// subscribeAuditLog writes a structured log line for every shortcut
// mutation so guild changes stay traceable
func subscribeAuditLog(bus *events.Bus) {
	bus.Subscribe(events.EventTypeSettingsUpdated, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.SettingsUpdatedEvent); ok {
			logrus.WithFields(logrus.Fields{
				"guild_id":  e.GuildID,
				"prefix":    e.Prefix,
				"page_size": e.PageSize,
			}).Info("Guild shortcut settings updated")
		}
	})
	bus.Subscribe(events.EventTypeShortcutSet, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.ShortcutSetEvent); ok {
			logrus.WithFields(logrus.Fields{
				"guild_id": e.GuildID,
				"name":     e.Name,
				"category": e.Category,
			}).Info("Shortcut saved")
		}
	})
	bus.Subscribe(events.EventTypeShortcutRemoved, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.ShortcutRemovedEvent); ok {
			logrus.WithFields(logrus.Fields{
				"guild_id": e.GuildID,
				"name":     e.Name,
			}).Info("Shortcut removed")
		}
	})
	bus.Subscribe(events.EventTypeShortcutRenamed, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.ShortcutRenamedEvent); ok {
			logrus.WithFields(logrus.Fields{
				"guild_id": e.GuildID,
				"old_name": e.OldName,
				"new_name": e.NewName,
			}).Info("Shortcut renamed")
		}
	})
	bus.Subscribe(events.EventTypeShortcutMoved, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.ShortcutMovedEvent); ok {
			logrus.WithFields(logrus.Fields{
				"guild_id": e.GuildID,
				"name":     e.Name,
				"category": e.Category,
			}).Info("Shortcut moved")
		}
	})
	bus.Subscribe(events.EventTypeShortcutsImported, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.ShortcutsImportedEvent); ok {
			logrus.WithFields(logrus.Fields{
				"guild_id": e.GuildID,
				"imported": e.Imported,
				"skipped":  e.Skipped,
			}).Info("Shortcut CSV import finished")
		}
	})
	bus.Subscribe(events.EventTypeShortcutsDeleted, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.ShortcutsDeletedEvent); ok {
			logrus.WithFields(logrus.Fields{
				"guild_id": e.GuildID,
				"category": e.Category,
				"deleted":  e.Deleted,
			}).Info("Shortcuts bulk deleted")
		}
	})
}
