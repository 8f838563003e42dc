package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"shortcutbot/models"
)

// csvExportEngine implements the ExportEngine interface
type csvExportEngine struct {
	svc ShortcutService
}

// NewExportEngine creates a new CSV export engine
func NewExportEngine(svc ShortcutService) ExportEngine {
	return &csvExportEngine{svc: svc}
}

// Export serializes all of a guild's shortcuts: a header row, then one
// row per entry with the prefixed name, the raw value, and the category.
// encoding/csv handles quoting of embedded delimiters and newlines.
func (e *csvExportEngine) Export(ctx context.Context, guildID int64) ([]byte, error) {
	settings, err := e.svc.Settings(ctx, guildID)
	if err != nil {
		return nil, err
	}
	if settings == nil || !settings.HasPrefix() {
		return nil, NewValidationError("this server has no shortcut configuration, set a prefix first")
	}

	shortcuts, err := e.svc.ListShortcuts(ctx, guildID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"Shortcut", "Value", "Category"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, shortcut := range shortcuts {
		category := shortcut.Category
		if category == "" {
			category = models.DefaultCategory
		}
		row := []string{settings.Prefix + shortcut.Name, shortcut.Value, category}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}

	return buf.Bytes(), nil
}
