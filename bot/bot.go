package bot

import (
	"fmt"
	"strings"

	"shortcutbot/bot/features/shortcuts"
	"shortcutbot/events"
	"shortcutbot/service"

	"github.com/bwmarrin/discordgo"
)

// Config holds bot configuration
type Config struct {
	Token string
}

type Bot struct {
	config           Config
	session          *discordgo.Session
	shortcutsFeature *shortcuts.Feature
	eventBus         *events.Bus
}

func New(config Config, shortcutService service.ShortcutService, dispatcher *service.PrefixDispatcher, importer service.ImportEngine, exporter service.ExportEngine, eventBus *events.Bus) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}

	// message content intent is required for the prefix scanner
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent

	bot := &Bot{
		config:   config,
		session:  dg,
		eventBus: eventBus,
	}
	bot.shortcutsFeature = shortcuts.NewFeature(dg, shortcutService, dispatcher, importer, exporter)

	// Register slash command and component handlers
	dg.AddHandler(bot.handleInteractions)

	// Register the passive prefix scanner over guild messages
	dg.AddHandler(bot.handleMessageCreate)

	// Open websocket connection
	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	// Register slash commands with Discord
	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	// Start periodic cleanup of idle browser sessions
	go bot.shortcutsFeature.StartSessionCleanup()

	return bot, nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) handleInteractions(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		if i.ApplicationCommandData().Name == "shortcuts" {
			b.shortcutsFeature.HandleCommand(s, i)
		}
	case discordgo.InteractionMessageComponent:
		if strings.HasPrefix(i.MessageComponentData().CustomID, "shortcuts_") {
			b.shortcutsFeature.HandleComponent(s, i)
		}
	}
}

func (b *Bot) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author != nil && s.State.User != nil && m.Author.ID == s.State.User.ID {
		return
	}
	b.shortcutsFeature.HandleMessage(s, m)
}
