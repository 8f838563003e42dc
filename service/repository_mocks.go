package service

import (
	"context"

	"shortcutbot/models"

	"github.com/stretchr/testify/mock"
)

// MockGuildSettingsRepository is a mock implementation of GuildSettingsRepository
type MockGuildSettingsRepository struct {
	mock.Mock
}

func (m *MockGuildSettingsRepository) Get(ctx context.Context, guildID int64) (*models.GuildSettings, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GuildSettings), args.Error(1)
}

func (m *MockGuildSettingsRepository) UpsertPrefix(ctx context.Context, guildID int64, prefix string) error {
	args := m.Called(ctx, guildID, prefix)
	return args.Error(0)
}

func (m *MockGuildSettingsRepository) UpdatePageSize(ctx context.Context, guildID int64, pageSize int) (bool, error) {
	args := m.Called(ctx, guildID, pageSize)
	return args.Bool(0), args.Error(1)
}

// MockShortcutRepository is a mock implementation of ShortcutRepository
type MockShortcutRepository struct {
	mock.Mock
}

func (m *MockShortcutRepository) Get(ctx context.Context, guildID int64, name string) (*models.Shortcut, error) {
	args := m.Called(ctx, guildID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Shortcut), args.Error(1)
}

func (m *MockShortcutRepository) ListByGuild(ctx context.Context, guildID int64) ([]*models.Shortcut, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Shortcut), args.Error(1)
}

func (m *MockShortcutRepository) ListByCategory(ctx context.Context, guildID int64, category string) ([]*models.Shortcut, error) {
	args := m.Called(ctx, guildID, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Shortcut), args.Error(1)
}

func (m *MockShortcutRepository) CountByCategory(ctx context.Context, guildID int64) ([]*models.CategoryCount, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CategoryCount), args.Error(1)
}

func (m *MockShortcutRepository) Upsert(ctx context.Context, shortcut *models.Shortcut) error {
	args := m.Called(ctx, shortcut)
	return args.Error(0)
}

func (m *MockShortcutRepository) Delete(ctx context.Context, guildID int64, name string) (bool, error) {
	args := m.Called(ctx, guildID, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockShortcutRepository) Rename(ctx context.Context, guildID int64, oldName, newName string) error {
	args := m.Called(ctx, guildID, oldName, newName)
	return args.Error(0)
}

func (m *MockShortcutRepository) UpdateCategory(ctx context.Context, guildID int64, name, category string) (bool, error) {
	args := m.Called(ctx, guildID, name, category)
	return args.Bool(0), args.Error(1)
}

func (m *MockShortcutRepository) DeleteByCategory(ctx context.Context, guildID int64, category string) (int64, error) {
	args := m.Called(ctx, guildID, category)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockShortcutRepository) DeleteAll(ctx context.Context, guildID int64) (int64, error) {
	args := m.Called(ctx, guildID)
	return args.Get(0).(int64), args.Error(1)
}
