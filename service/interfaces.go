package service

import (
	"context"
	"io"

	"shortcutbot/models"
)

// GuildSettingsRepository defines the interface for guild settings data access
type GuildSettingsRepository interface {
	// Get retrieves settings for a guild, or nil if the guild has never
	// configured a prefix
	Get(ctx context.Context, guildID int64) (*models.GuildSettings, error)

	// UpsertPrefix sets the shortcut prefix, creating the settings row on
	// first configuration
	UpsertPrefix(ctx context.Context, guildID int64, prefix string) error

	// UpdatePageSize updates the browser page size; false if the guild
	// has no settings row
	UpdatePageSize(ctx context.Context, guildID int64, pageSize int) (bool, error)
}

// ShortcutRepository defines the interface for shortcut data access
type ShortcutRepository interface {
	// Get retrieves a shortcut by case-insensitive name, or nil if absent
	Get(ctx context.Context, guildID int64, name string) (*models.Shortcut, error)

	// ListByGuild returns all shortcuts for a guild in stored order
	ListByGuild(ctx context.Context, guildID int64) ([]*models.Shortcut, error)

	// ListByCategory returns a guild's shortcuts carrying a category tag
	ListByCategory(ctx context.Context, guildID int64, category string) ([]*models.Shortcut, error)

	// CountByCategory returns distinct categories with counts, sorted
	CountByCategory(ctx context.Context, guildID int64) ([]*models.CategoryCount, error)

	// Upsert creates or overwrites a shortcut by case-insensitive name
	Upsert(ctx context.Context, shortcut *models.Shortcut) error

	// Delete removes a shortcut; false if it did not exist
	Delete(ctx context.Context, guildID int64, name string) (bool, error)

	// Rename atomically copies value and category to a new name and
	// removes the old row
	Rename(ctx context.Context, guildID int64, oldName, newName string) error

	// UpdateCategory overwrites the category tag; false if the shortcut
	// does not exist
	UpdateCategory(ctx context.Context, guildID int64, name, category string) (bool, error)

	// DeleteByCategory removes every shortcut in a category, returning
	// the number deleted
	DeleteByCategory(ctx context.Context, guildID int64, category string) (int64, error)

	// DeleteAll removes every shortcut for a guild, returning the number deleted
	DeleteAll(ctx context.Context, guildID int64) (int64, error)
}

// ShortcutService defines the interface for shortcut configuration operations
type ShortcutService interface {
	// Settings returns a guild's settings through the config cache, or
	// nil for unconfigured guilds
	Settings(ctx context.Context, guildID int64) (*models.GuildSettings, error)

	// SetPrefix sets the guild's shortcut prefix, creating the settings
	// row on first use
	SetPrefix(ctx context.Context, guildID int64, prefix string) error

	// SetPageSize sets the guild's browser page size (1-25); the guild
	// must already have a settings row
	SetPageSize(ctx context.Context, guildID int64, pageSize int) error

	// Get returns a shortcut through the config cache, or nil if absent
	Get(ctx context.Context, guildID int64, name string) (*models.Shortcut, error)

	// Set validates and upserts a shortcut; an empty category maps to the default
	Set(ctx context.Context, guildID int64, name, value, category string) error

	// Remove deletes a shortcut; removed is false when no such shortcut existed
	Remove(ctx context.Context, guildID int64, name string) (removed bool, err error)

	// Rename moves a shortcut's value and category under a new name
	Rename(ctx context.Context, guildID int64, oldName, newName string) error

	// Move reassigns a shortcut's category tag
	Move(ctx context.Context, guildID int64, name, category string) error

	// ListShortcuts returns the guild's full shortcut list, always fresh
	ListShortcuts(ctx context.Context, guildID int64) ([]*models.Shortcut, error)

	// ListByCategory returns the guild's shortcuts in a category, always fresh
	ListByCategory(ctx context.Context, guildID int64, category string) ([]*models.Shortcut, error)

	// CategoryCounts returns distinct categories with counts, always fresh
	CategoryCounts(ctx context.Context, guildID int64) ([]*models.CategoryCount, error)

	// DeleteByCategory removes every shortcut in a category. The CONFIRM
	// gate for this destructive operation lives at the command layer.
	DeleteByCategory(ctx context.Context, guildID int64, category string) (int64, error)

	// DeleteAll removes every shortcut for a guild. The CONFIRM gate for
	// this destructive operation lives at the command layer.
	DeleteAll(ctx context.Context, guildID int64) (int64, error)
}

// ImportEngine defines the interface for CSV bulk import
type ImportEngine interface {
	// Import ingests a CSV stream for a guild and reports per-row results
	Import(ctx context.Context, guildID int64, r io.Reader) (*ImportReport, error)
}

// ExportEngine defines the interface for CSV export
type ExportEngine interface {
	// Export serializes all of a guild's shortcuts to CSV
	Export(ctx context.Context, guildID int64) ([]byte, error)
}
