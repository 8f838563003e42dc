package repository

import (
	"context"
	"fmt"

	"shortcutbot/database"
	"shortcutbot/models"

	"github.com/jackc/pgx/v5"
)

// GuildSettingsRepository implements the service.GuildSettingsRepository interface
type GuildSettingsRepository struct {
	q queryable
}

// NewGuildSettingsRepository creates a new guild settings repository
func NewGuildSettingsRepository(db *database.DB) *GuildSettingsRepository {
	return &GuildSettingsRepository{q: db.Pool}
}

// Get retrieves settings for a guild, or nil if the guild has never
// configured a prefix
func (r *GuildSettingsRepository) Get(ctx context.Context, guildID int64) (*models.GuildSettings, error) {
	query := `
		SELECT guild_id, prefix, page_size
		FROM guild_settings
		WHERE guild_id = $1
	`

	var settings models.GuildSettings
	err := r.q.QueryRow(ctx, query, guildID).Scan(
		&settings.GuildID,
		&settings.Prefix,
		&settings.PageSize,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get guild settings for guild %d: %w", guildID, err)
	}

	return &settings, nil
}

// UpsertPrefix sets the shortcut prefix for a guild, creating the
// settings row on first configuration
func (r *GuildSettingsRepository) UpsertPrefix(ctx context.Context, guildID int64, prefix string) error {
	query := `
		INSERT INTO guild_settings (guild_id, prefix)
		VALUES ($1, $2)
		ON CONFLICT (guild_id) DO UPDATE SET prefix = EXCLUDED.prefix
	`

	if _, err := r.q.Exec(ctx, query, guildID, prefix); err != nil {
		return fmt.Errorf("failed to upsert prefix for guild %d: %w", guildID, err)
	}

	return nil
}

// UpdatePageSize updates the browser page size for a guild. Returns false
// if the guild has no settings row.
func (r *GuildSettingsRepository) UpdatePageSize(ctx context.Context, guildID int64, pageSize int) (bool, error) {
	query := `
		UPDATE guild_settings
		SET page_size = $2
		WHERE guild_id = $1
	`

	result, err := r.q.Exec(ctx, query, guildID, pageSize)
	if err != nil {
		return false, fmt.Errorf("failed to update page size for guild %d: %w", guildID, err)
	}

	return result.RowsAffected() > 0, nil
}
