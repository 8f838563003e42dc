package repository

import (
	"context"
	"fmt"

	"shortcutbot/database"
	"shortcutbot/models"

	"github.com/jackc/pgx/v5"
)

// ShortcutRepository implements the service.ShortcutRepository interface
type ShortcutRepository struct {
	db *database.DB
	q  queryable
}

// NewShortcutRepository creates a new shortcut repository
func NewShortcutRepository(db *database.DB) *ShortcutRepository {
	return &ShortcutRepository{db: db, q: db.Pool}
}

// Get retrieves a shortcut by its case-insensitive name, or nil if absent
func (r *ShortcutRepository) Get(ctx context.Context, guildID int64, name string) (*models.Shortcut, error) {
	query := `
		SELECT guild_id, name, value, category
		FROM shortcuts
		WHERE guild_id = $1 AND LOWER(name) = LOWER($2)
	`

	var shortcut models.Shortcut
	err := r.q.QueryRow(ctx, query, guildID, name).Scan(
		&shortcut.GuildID,
		&shortcut.Name,
		&shortcut.Value,
		&shortcut.Category,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shortcut %q for guild %d: %w", name, guildID, err)
	}

	return &shortcut, nil
}

// ListByGuild returns all shortcuts for a guild in stored (name) order
func (r *ShortcutRepository) ListByGuild(ctx context.Context, guildID int64) ([]*models.Shortcut, error) {
	query := `
		SELECT guild_id, name, value, category
		FROM shortcuts
		WHERE guild_id = $1
		ORDER BY name
	`

	rows, err := r.q.Query(ctx, query, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shortcuts for guild %d: %w", guildID, err)
	}
	defer rows.Close()

	return scanShortcuts(rows)
}

// ListByCategory returns all of a guild's shortcuts carrying a category tag
func (r *ShortcutRepository) ListByCategory(ctx context.Context, guildID int64, category string) ([]*models.Shortcut, error) {
	query := `
		SELECT guild_id, name, value, category
		FROM shortcuts
		WHERE guild_id = $1 AND category = $2
		ORDER BY name
	`

	rows, err := r.q.Query(ctx, query, guildID, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list shortcuts in category %q for guild %d: %w", category, guildID, err)
	}
	defer rows.Close()

	return scanShortcuts(rows)
}

// CountByCategory returns the guild's distinct categories with entry
// counts, sorted by category name
func (r *ShortcutRepository) CountByCategory(ctx context.Context, guildID int64) ([]*models.CategoryCount, error) {
	query := `
		SELECT category, COUNT(*)
		FROM shortcuts
		WHERE guild_id = $1
		GROUP BY category
		ORDER BY category
	`

	rows, err := r.q.Query(ctx, query, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to count categories for guild %d: %w", guildID, err)
	}
	defer rows.Close()

	var counts []*models.CategoryCount
	for rows.Next() {
		var count models.CategoryCount
		if err := rows.Scan(&count.Category, &count.Count); err != nil {
			return nil, fmt.Errorf("failed to scan category count: %w", err)
		}
		counts = append(counts, &count)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate category counts: %w", err)
	}

	return counts, nil
}

// Upsert creates a shortcut or overwrites the value and category of an
// existing one. Matching is case-insensitive and the stored name takes
// the casing of the latest write.
func (r *ShortcutRepository) Upsert(ctx context.Context, shortcut *models.Shortcut) error {
	query := `
		INSERT INTO shortcuts (guild_id, name, value, category)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (guild_id, LOWER(name)) DO UPDATE
		SET name = EXCLUDED.name,
		    value = EXCLUDED.value,
		    category = EXCLUDED.category
	`

	_, err := r.q.Exec(ctx, query,
		shortcut.GuildID,
		shortcut.Name,
		shortcut.Value,
		shortcut.Category,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert shortcut %q for guild %d: %w", shortcut.Name, shortcut.GuildID, err)
	}

	return nil
}

// Delete removes a shortcut by its case-insensitive name. Returns false
// if no such shortcut existed.
func (r *ShortcutRepository) Delete(ctx context.Context, guildID int64, name string) (bool, error) {
	query := `
		DELETE FROM shortcuts
		WHERE guild_id = $1 AND LOWER(name) = LOWER($2)
	`

	result, err := r.q.Exec(ctx, query, guildID, name)
	if err != nil {
		return false, fmt.Errorf("failed to delete shortcut %q for guild %d: %w", name, guildID, err)
	}

	return result.RowsAffected() > 0, nil
}

// Rename copies a shortcut's value and category to a new name and removes
// the old row. Both steps run in one transaction so a failure between
// them cannot leave a duplicate.
func (r *ShortcutRepository) Rename(ctx context.Context, guildID int64, oldName, newName string) error {
	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		return r.renameOn(ctx, tx, guildID, oldName, newName)
	})
}

func (r *ShortcutRepository) renameOn(ctx context.Context, q queryable, guildID int64, oldName, newName string) error {
	insertQuery := `
		INSERT INTO shortcuts (guild_id, name, value, category)
		SELECT guild_id, $3, value, category
		FROM shortcuts
		WHERE guild_id = $1 AND LOWER(name) = LOWER($2)
	`

	result, err := q.Exec(ctx, insertQuery, guildID, oldName, newName)
	if err != nil {
		return fmt.Errorf("failed to rename shortcut %q to %q for guild %d: %w", oldName, newName, guildID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("shortcut %q for guild %d not found", oldName, guildID)
	}

	deleteQuery := `
		DELETE FROM shortcuts
		WHERE guild_id = $1 AND LOWER(name) = LOWER($2)
	`

	if _, err := q.Exec(ctx, deleteQuery, guildID, oldName); err != nil {
		return fmt.Errorf("failed to remove old shortcut %q for guild %d: %w", oldName, guildID, err)
	}

	return nil
}

// UpdateCategory overwrites the category tag of a shortcut. Returns false
// if no such shortcut exists.
func (r *ShortcutRepository) UpdateCategory(ctx context.Context, guildID int64, name, category string) (bool, error) {
	query := `
		UPDATE shortcuts
		SET category = $3
		WHERE guild_id = $1 AND LOWER(name) = LOWER($2)
	`

	result, err := r.q.Exec(ctx, query, guildID, name, category)
	if err != nil {
		return false, fmt.Errorf("failed to move shortcut %q for guild %d: %w", name, guildID, err)
	}

	return result.RowsAffected() > 0, nil
}

// DeleteByCategory removes every shortcut carrying a category tag and
// returns the number deleted
func (r *ShortcutRepository) DeleteByCategory(ctx context.Context, guildID int64, category string) (int64, error) {
	query := `
		DELETE FROM shortcuts
		WHERE guild_id = $1 AND category = $2
	`

	result, err := r.q.Exec(ctx, query, guildID, category)
	if err != nil {
		return 0, fmt.Errorf("failed to delete category %q for guild %d: %w", category, guildID, err)
	}

	return result.RowsAffected(), nil
}

// DeleteAll removes every shortcut for a guild and returns the number deleted
func (r *ShortcutRepository) DeleteAll(ctx context.Context, guildID int64) (int64, error) {
	query := `
		DELETE FROM shortcuts
		WHERE guild_id = $1
	`

	result, err := r.q.Exec(ctx, query, guildID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete shortcuts for guild %d: %w", guildID, err)
	}

	return result.RowsAffected(), nil
}

func scanShortcuts(rows pgx.Rows) ([]*models.Shortcut, error) {
	var shortcuts []*models.Shortcut
	for rows.Next() {
		var shortcut models.Shortcut
		err := rows.Scan(
			&shortcut.GuildID,
			&shortcut.Name,
			&shortcut.Value,
			&shortcut.Category,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shortcut: %w", err)
		}
		shortcuts = append(shortcuts, &shortcut)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shortcuts: %w", err)
	}

	return shortcuts, nil
}
