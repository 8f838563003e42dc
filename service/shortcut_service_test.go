package service

import (
	"context"
	"fmt"
	"testing"

	"shortcutbot/events"
	"shortcutbot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestService() (ShortcutService, *MockGuildSettingsRepository, *MockShortcutRepository) {
	settingsRepo := new(MockGuildSettingsRepository)
	shortcutRepo := new(MockShortcutRepository)
	svc := NewShortcutService(settingsRepo, shortcutRepo, events.NewBus())
	return svc, settingsRepo, shortcutRepo
}

func TestShortcutService_Settings_CachedAcrossReads(t *testing.T) {
	ctx := context.Background()
	svc, settingsRepo, _ := newTestService()

	stored := &models.GuildSettings{GuildID: 100, Prefix: "!", PageSize: 10}
	settingsRepo.On("Get", ctx, int64(100)).Return(stored, nil)

	first, err := svc.Settings(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, stored, first)

	_, err = svc.Settings(ctx, 100)
	require.NoError(t, err)

	settingsRepo.AssertNumberOfCalls(t, "Get", 1)
}

func TestShortcutService_SetPrefix_EmptyRejected(t *testing.T) {
	ctx := context.Background()
	svc, settingsRepo, _ := newTestService()

	err := svc.SetPrefix(ctx, 100, "")

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	settingsRepo.AssertNotCalled(t, "UpsertPrefix")
}

func TestShortcutService_SetPrefix_InvalidatesSettingsCache(t *testing.T) {
	ctx := context.Background()
	svc, settingsRepo, _ := newTestService()

	before := &models.GuildSettings{GuildID: 100, Prefix: "!", PageSize: 10}
	after := &models.GuildSettings{GuildID: 100, Prefix: "?", PageSize: 10}
	settingsRepo.On("Get", ctx, int64(100)).Return(before, nil).Once()
	settingsRepo.On("UpsertPrefix", ctx, int64(100), "?").Return(nil)
	settingsRepo.On("Get", ctx, int64(100)).Return(after, nil).Once()

	cached, err := svc.Settings(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, "!", cached.Prefix)

	require.NoError(t, svc.SetPrefix(ctx, 100, "?"))

	fresh, err := svc.Settings(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, "?", fresh.Prefix)
	settingsRepo.AssertExpectations(t)
}

func TestShortcutService_SetPageSize(t *testing.T) {
	tests := []struct {
		name       string
		pageSize   int
		rowUpdated bool
		wantErr    string
	}{
		{name: "valid size", pageSize: 25, rowUpdated: true},
		{name: "below minimum", pageSize: 0, wantErr: "page size must be between 1 and 25"},
		{name: "above maximum", pageSize: 26, wantErr: "page size must be between 1 and 25"},
		{name: "no settings row", pageSize: 10, rowUpdated: false, wantErr: "set a prefix first"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			svc, settingsRepo, _ := newTestService()
			settingsRepo.On("UpdatePageSize", ctx, int64(100), tt.pageSize).Return(tt.rowUpdated, nil).Maybe()

			err := svc.SetPageSize(ctx, 100, tt.pageSize)

			if tt.wantErr != "" {
				var validationErr *ValidationError
				require.ErrorAs(t, err, &validationErr)
				assert.Contains(t, validationErr.Message, tt.wantErr)
				return
			}
			require.NoError(t, err)
			settingsRepo.AssertCalled(t, "UpdatePageSize", ctx, int64(100), tt.pageSize)
		})
	}
}

func TestShortcutService_Set_Validation(t *testing.T) {
	longName := make([]byte, models.MaxNameLength+1)
	for i := range longName {
		longName[i] = 'a'
	}

	tests := []struct {
		name     string
		shortcut string
		value    string
		category string
		wantErr  string
	}{
		{name: "empty name", shortcut: "", value: "v", wantErr: "name cannot be empty"},
		{name: "name too long", shortcut: string(longName), value: "v", wantErr: "up to 20 chars"},
		{name: "empty value", shortcut: "greet", value: "", wantErr: "value cannot be empty"},
		{name: "bad category rune", shortcut: "greet", value: "v", category: "no/slashes", wantErr: "letters, digits, spaces"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			svc, _, shortcutRepo := newTestService()

			err := svc.Set(ctx, 100, tt.shortcut, tt.value, tt.category)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Contains(t, validationErr.Message, tt.wantErr)
			shortcutRepo.AssertNotCalled(t, "Upsert")
		})
	}
}

func TestShortcutService_Set_EmptyCategoryDefaults(t *testing.T) {
	ctx := context.Background()
	svc, _, shortcutRepo := newTestService()

	shortcutRepo.On("Upsert", ctx, mock.MatchedBy(func(s *models.Shortcut) bool {
		return s.GuildID == 100 && s.Name == "greet" && s.Value == "hello" && s.Category == models.DefaultCategory
	})).Return(nil)

	require.NoError(t, svc.Set(ctx, 100, "greet", "hello", ""))
	shortcutRepo.AssertExpectations(t)
}

func TestShortcutService_Set_InvalidatesEntryCache(t *testing.T) {
	ctx := context.Background()
	svc, _, shortcutRepo := newTestService()

	before := &models.Shortcut{GuildID: 100, Name: "greet", Value: "old"}
	after := &models.Shortcut{GuildID: 100, Name: "greet", Value: "new"}
	shortcutRepo.On("Get", ctx, int64(100), "greet").Return(before, nil).Once()
	shortcutRepo.On("Upsert", ctx, mock.Anything).Return(nil)
	// case-insensitive key: the recased read must also see the fresh row
	shortcutRepo.On("Get", ctx, int64(100), "GREET").Return(after, nil).Once()

	cached, err := svc.Get(ctx, 100, "greet")
	require.NoError(t, err)
	assert.Equal(t, "old", cached.Value)

	require.NoError(t, svc.Set(ctx, 100, "greet", "new", ""))

	fresh, err := svc.Get(ctx, 100, "GREET")
	require.NoError(t, err)
	assert.Equal(t, "new", fresh.Value)
	shortcutRepo.AssertExpectations(t)
}

func TestShortcutService_Remove_MissingIsNotAnError(t *testing.T) {
	ctx := context.Background()
	svc, _, shortcutRepo := newTestService()

	shortcutRepo.On("Delete", ctx, int64(100), "ghost").Return(false, nil)

	removed, err := svc.Remove(ctx, 100, "ghost")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestShortcutService_Rename_SourceMissing(t *testing.T) {
	ctx := context.Background()
	svc, _, shortcutRepo := newTestService()

	shortcutRepo.On("Get", ctx, int64(100), "ghost").Return(nil, nil)
	shortcutRepo.On("ListByGuild", ctx, int64(100)).Return([]*models.Shortcut{
		{GuildID: 100, Name: "greet"},
		{GuildID: 100, Name: "bye"},
	}, nil)

	err := svc.Rename(ctx, 100, "ghost", "hail")

	var notFoundErr *NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
	assert.Equal(t, "ghost", notFoundErr.Name)
	assert.Equal(t, []string{"greet", "bye"}, notFoundErr.Existing)
	assert.Zero(t, notFoundErr.Overflow)
	shortcutRepo.AssertNotCalled(t, "Rename")
}

func TestShortcutService_Rename_ExistingNamesCapped(t *testing.T) {
	ctx := context.Background()
	svc, _, shortcutRepo := newTestService()

	all := make([]*models.Shortcut, MaxListedNames+3)
	for i := range all {
		all[i] = &models.Shortcut{GuildID: 100, Name: fmt.Sprintf("name%02d", i)}
	}
	shortcutRepo.On("Get", ctx, int64(100), "ghost").Return(nil, nil)
	shortcutRepo.On("ListByGuild", ctx, int64(100)).Return(all, nil)

	err := svc.Rename(ctx, 100, "ghost", "hail")

	var notFoundErr *NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
	assert.Len(t, notFoundErr.Existing, MaxListedNames)
	assert.Equal(t, 3, notFoundErr.Overflow)
}

func TestShortcutService_Rename_TargetConflict(t *testing.T) {
	ctx := context.Background()
	svc, _, shortcutRepo := newTestService()

	shortcutRepo.On("Get", ctx, int64(100), "greet").Return(&models.Shortcut{GuildID: 100, Name: "greet"}, nil)
	shortcutRepo.On("Get", ctx, int64(100), "bye").Return(&models.Shortcut{GuildID: 100, Name: "bye"}, nil)

	err := svc.Rename(ctx, 100, "greet", "bye")

	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)
	shortcutRepo.AssertNotCalled(t, "Rename")
}

func TestShortcutService_Rename_RecaseConflicts(t *testing.T) {
	ctx := context.Background()
	svc, _, shortcutRepo := newTestService()

	// Renaming greet to GREET finds the source itself under the target
	// name, since names are case-insensitively unique
	stored := &models.Shortcut{GuildID: 100, Name: "greet"}
	shortcutRepo.On("Get", ctx, int64(100), "greet").Return(stored, nil)
	shortcutRepo.On("Get", ctx, int64(100), "GREET").Return(stored, nil)

	err := svc.Rename(ctx, 100, "greet", "GREET")

	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)
}

func TestShortcutService_Rename_Success(t *testing.T) {
	ctx := context.Background()
	svc, _, shortcutRepo := newTestService()

	shortcutRepo.On("Get", ctx, int64(100), "greet").Return(&models.Shortcut{GuildID: 100, Name: "greet"}, nil)
	shortcutRepo.On("Get", ctx, int64(100), "hail").Return(nil, nil)
	shortcutRepo.On("Rename", ctx, int64(100), "greet", "hail").Return(nil)

	require.NoError(t, svc.Rename(ctx, 100, "greet", "hail"))
	shortcutRepo.AssertExpectations(t)
}

func TestShortcutService_Move_MissingShortcut(t *testing.T) {
	ctx := context.Background()
	svc, _, shortcutRepo := newTestService()

	shortcutRepo.On("UpdateCategory", ctx, int64(100), "ghost", "Fun").Return(false, nil)
	shortcutRepo.On("ListByGuild", ctx, int64(100)).Return([]*models.Shortcut{}, nil)

	err := svc.Move(ctx, 100, "ghost", "Fun")

	var notFoundErr *NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
	assert.Empty(t, notFoundErr.Existing)
}

func TestShortcutService_DeleteByCategory_InvalidatesGuildCache(t *testing.T) {
	ctx := context.Background()
	svc, _, shortcutRepo := newTestService()

	stored := &models.Shortcut{GuildID: 100, Name: "greet", Category: "Fun"}
	shortcutRepo.On("Get", ctx, int64(100), "greet").Return(stored, nil).Once()
	shortcutRepo.On("DeleteByCategory", ctx, int64(100), "Fun").Return(int64(3), nil)
	shortcutRepo.On("Get", ctx, int64(100), "greet").Return(nil, nil).Once()

	_, err := svc.Get(ctx, 100, "greet")
	require.NoError(t, err)

	deleted, err := svc.DeleteByCategory(ctx, 100, "Fun")
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	// The bulk delete dropped every cached entry for the guild
	fresh, err := svc.Get(ctx, 100, "greet")
	require.NoError(t, err)
	assert.Nil(t, fresh)
	shortcutRepo.AssertExpectations(t)
}

func TestShortcutService_DeleteAll(t *testing.T) {
	ctx := context.Background()
	svc, _, shortcutRepo := newTestService()

	shortcutRepo.On("DeleteAll", ctx, int64(100)).Return(int64(7), nil)

	deleted, err := svc.DeleteAll(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(7), deleted)
}
