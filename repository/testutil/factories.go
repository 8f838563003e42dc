package testutil

import (
	"shortcutbot/models"
)

// CreateTestShortcut creates a test shortcut with default values
func CreateTestShortcut(guildID int64, name string) *models.Shortcut {
	return &models.Shortcut{
		GuildID:  guildID,
		Name:     name,
		Value:    "value for " + name,
		Category: models.DefaultCategory,
	}
}

// CreateTestShortcutInCategory creates a test shortcut with a specific category
func CreateTestShortcutInCategory(guildID int64, name, category string) *models.Shortcut {
	shortcut := CreateTestShortcut(guildID, name)
	shortcut.Category = category
	return shortcut
}
