package models

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Validation limits for shortcut fields
const (
	MaxNameLength     = 20
	MaxCategoryLength = 50
	DefaultCategory   = "General"
)

// Shortcut represents a stored name -> value alias, scoped to a guild.
// Names are case-insensitively unique within a guild.
type Shortcut struct {
	GuildID  int64  `db:"guild_id"`
	Name     string `db:"name"`
	Value    string `db:"value"`
	Category string `db:"category"`
}

// CategoryCount is an aggregate of how many shortcuts carry a category tag
type CategoryCount struct {
	Category string `db:"category"`
	Count    int    `db:"count"`
}

// NormalizedName returns the lowercase name used for uniqueness checks
func (s *Shortcut) NormalizedName() string {
	return strings.ToLower(s.Name)
}

// ValidateName checks the shortcut name constraints
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("shortcut name cannot be empty")
	}
	// Limits count characters, not bytes, matching the VARCHAR columns
	if utf8.RuneCountInString(name) > MaxNameLength {
		return fmt.Errorf("shortcut names can only be up to %d chars long", MaxNameLength)
	}
	return nil
}

// ValidateValue checks the shortcut value constraints
func ValidateValue(value string) error {
	if value == "" {
		return fmt.Errorf("shortcut value cannot be empty")
	}
	return nil
}

// NormalizeCategory validates a category name and returns the value to
// store. An empty category maps to the default.
func NormalizeCategory(category string) (string, error) {
	if category == "" {
		return DefaultCategory, nil
	}
	if utf8.RuneCountInString(category) > MaxCategoryLength {
		return "", fmt.Errorf("category names can only be up to %d chars long", MaxCategoryLength)
	}
	for _, r := range category {
		if !isCategoryRune(r) {
			return "", fmt.Errorf("category names may only contain letters, digits, spaces, hyphens and underscores")
		}
	}
	return category, nil
}

func isCategoryRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == ' ' || r == '-' || r == '_':
		return true
	}
	return false
}
