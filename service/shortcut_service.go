package service

import (
	"context"
	"strings"

	"shortcutbot/events"
	"shortcutbot/models"
)

// shortcutService implements the ShortcutService interface
type shortcutService struct {
	settingsRepo GuildSettingsRepository
	shortcutRepo ShortcutRepository
	eventBus     *events.Bus

	// Owned memoization layers, constructed empty at startup. Every
	// mutation invalidates the affected keys after its store write.
	settingsCache *ConfigCache[models.GuildSettings]
	entryCache    *ConfigCache[models.Shortcut]
}

// NewShortcutService creates a new shortcut service with empty caches
func NewShortcutService(settingsRepo GuildSettingsRepository, shortcutRepo ShortcutRepository, eventBus *events.Bus) ShortcutService {
	return &shortcutService{
		settingsRepo:  settingsRepo,
		shortcutRepo:  shortcutRepo,
		eventBus:      eventBus,
		settingsCache: NewConfigCache[models.GuildSettings](),
		entryCache:    NewConfigCache[models.Shortcut](),
	}
}

func settingsKey(guildID int64) CacheKey {
	return CacheKey{GuildID: guildID}
}

func entryKey(guildID int64, name string) CacheKey {
	return CacheKey{GuildID: guildID, Sub: strings.ToLower(name)}
}

// Settings returns a guild's settings through the config cache
func (s *shortcutService) Settings(ctx context.Context, guildID int64) (*models.GuildSettings, error) {
	return s.settingsCache.QueryOne(ctx, settingsKey(guildID), func(ctx context.Context) (*models.GuildSettings, error) {
		return s.settingsRepo.Get(ctx, guildID)
	})
}

// SetPrefix sets the guild's shortcut prefix
func (s *shortcutService) SetPrefix(ctx context.Context, guildID int64, prefix string) error {
	if prefix == "" {
		return NewValidationError("prefix cannot be empty")
	}

	if err := s.settingsRepo.UpsertPrefix(ctx, guildID, prefix); err != nil {
		return err
	}
	s.settingsCache.InvalidateEntry(settingsKey(guildID))

	s.eventBus.Emit(ctx, events.SettingsUpdatedEvent{GuildID: guildID, Prefix: prefix})
	return nil
}

// SetPageSize sets the guild's browser page size
func (s *shortcutService) SetPageSize(ctx context.Context, guildID int64, pageSize int) error {
	if pageSize < models.MinPageSize || pageSize > models.MaxPageSize {
		return NewValidationError("page size must be between %d and %d", models.MinPageSize, models.MaxPageSize)
	}

	updated, err := s.settingsRepo.UpdatePageSize(ctx, guildID, pageSize)
	if err != nil {
		return err
	}
	if !updated {
		return NewValidationError("this server has no shortcut configuration, set a prefix first")
	}
	s.settingsCache.InvalidateEntry(settingsKey(guildID))

	s.eventBus.Emit(ctx, events.SettingsUpdatedEvent{GuildID: guildID, PageSize: pageSize})
	return nil
}

// Get returns a shortcut through the config cache
func (s *shortcutService) Get(ctx context.Context, guildID int64, name string) (*models.Shortcut, error) {
	return s.entryCache.QueryOne(ctx, entryKey(guildID, name), func(ctx context.Context) (*models.Shortcut, error) {
		return s.shortcutRepo.Get(ctx, guildID, name)
	})
}

// Set validates and upserts a shortcut
func (s *shortcutService) Set(ctx context.Context, guildID int64, name, value, category string) error {
	if err := models.ValidateName(name); err != nil {
		return &ValidationError{Message: err.Error()}
	}
	if err := models.ValidateValue(value); err != nil {
		return &ValidationError{Message: err.Error()}
	}
	category, err := models.NormalizeCategory(category)
	if err != nil {
		return &ValidationError{Message: err.Error()}
	}

	shortcut := &models.Shortcut{
		GuildID:  guildID,
		Name:     name,
		Value:    value,
		Category: category,
	}
	if err := s.shortcutRepo.Upsert(ctx, shortcut); err != nil {
		return err
	}
	s.entryCache.InvalidateEntry(entryKey(guildID, name))

	s.eventBus.Emit(ctx, events.ShortcutSetEvent{GuildID: guildID, Name: name, Category: category})
	return nil
}

// Remove deletes a shortcut. A missing name is reported, not an error.
func (s *shortcutService) Remove(ctx context.Context, guildID int64, name string) (bool, error) {
	removed, err := s.shortcutRepo.Delete(ctx, guildID, name)
	if err != nil {
		return false, err
	}
	if !removed {
		return false, nil
	}
	s.entryCache.InvalidateEntry(entryKey(guildID, name))

	s.eventBus.Emit(ctx, events.ShortcutRemovedEvent{GuildID: guildID, Name: name})
	return true, nil
}

// Rename moves a shortcut's value and category under a new name
func (s *shortcutService) Rename(ctx context.Context, guildID int64, oldName, newName string) error {
	if err := models.ValidateName(newName); err != nil {
		return &ValidationError{Message: err.Error()}
	}

	old, err := s.shortcutRepo.Get(ctx, guildID, oldName)
	if err != nil {
		return err
	}
	if old == nil {
		return s.notFound(ctx, guildID, oldName)
	}

	existing, err := s.shortcutRepo.Get(ctx, guildID, newName)
	if err != nil {
		return err
	}
	if existing != nil {
		return NewConflictError("a shortcut named %q already exists", existing.Name)
	}

	if err := s.shortcutRepo.Rename(ctx, guildID, oldName, newName); err != nil {
		return err
	}
	s.entryCache.InvalidateEntry(entryKey(guildID, oldName))
	s.entryCache.InvalidateEntry(entryKey(guildID, newName))

	s.eventBus.Emit(ctx, events.ShortcutRenamedEvent{GuildID: guildID, OldName: oldName, NewName: newName})
	return nil
}

// Move reassigns a shortcut's category tag
func (s *shortcutService) Move(ctx context.Context, guildID int64, name, category string) error {
	category, err := models.NormalizeCategory(category)
	if err != nil {
		return &ValidationError{Message: err.Error()}
	}

	updated, err := s.shortcutRepo.UpdateCategory(ctx, guildID, name, category)
	if err != nil {
		return err
	}
	if !updated {
		return s.notFound(ctx, guildID, name)
	}
	s.entryCache.InvalidateEntry(entryKey(guildID, name))

	s.eventBus.Emit(ctx, events.ShortcutMovedEvent{GuildID: guildID, Name: name, Category: category})
	return nil
}

// ListShortcuts returns the guild's full shortcut list, never cached
func (s *shortcutService) ListShortcuts(ctx context.Context, guildID int64) ([]*models.Shortcut, error) {
	return s.shortcutRepo.ListByGuild(ctx, guildID)
}

// ListByCategory returns the guild's shortcuts in a category, never cached
func (s *shortcutService) ListByCategory(ctx context.Context, guildID int64, category string) ([]*models.Shortcut, error) {
	return s.shortcutRepo.ListByCategory(ctx, guildID, category)
}

// CategoryCounts returns the guild's categories with counts, never
// cached: full-table aggregates are not served from the config cache
func (s *shortcutService) CategoryCounts(ctx context.Context, guildID int64) ([]*models.CategoryCount, error) {
	return s.shortcutRepo.CountByCategory(ctx, guildID)
}

// DeleteByCategory removes every shortcut in a category
func (s *shortcutService) DeleteByCategory(ctx context.Context, guildID int64, category string) (int64, error) {
	category, err := models.NormalizeCategory(category)
	if err != nil {
		return 0, &ValidationError{Message: err.Error()}
	}

	deleted, err := s.shortcutRepo.DeleteByCategory(ctx, guildID, category)
	if err != nil {
		return 0, err
	}
	s.entryCache.InvalidateGuild(guildID)

	s.eventBus.Emit(ctx, events.ShortcutsDeletedEvent{GuildID: guildID, Category: category, Deleted: deleted})
	return deleted, nil
}

// DeleteAll removes every shortcut for a guild
func (s *shortcutService) DeleteAll(ctx context.Context, guildID int64) (int64, error) {
	deleted, err := s.shortcutRepo.DeleteAll(ctx, guildID)
	if err != nil {
		return 0, err
	}
	s.entryCache.InvalidateGuild(guildID)

	s.eventBus.Emit(ctx, events.ShortcutsDeletedEvent{GuildID: guildID, Deleted: deleted})
	return deleted, nil
}

// notFound builds a NotFoundError carrying up to MaxListedNames existing
// names for the informational reply
func (s *shortcutService) notFound(ctx context.Context, guildID int64, name string) *NotFoundError {
	notFound := &NotFoundError{Name: name}

	shortcuts, err := s.shortcutRepo.ListByGuild(ctx, guildID)
	if err != nil {
		// The lookup is advisory; the not-found result stands on its own
		return notFound
	}

	for _, shortcut := range shortcuts {
		if len(notFound.Existing) < MaxListedNames {
			notFound.Existing = append(notFound.Existing, shortcut.Name)
		} else {
			notFound.Overflow++
		}
	}
	return notFound
}
