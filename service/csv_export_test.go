package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"shortcutbot/events"
	"shortcutbot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newExportEngine(settings *models.GuildSettings, shortcuts []*models.Shortcut) ExportEngine {
	settingsRepo := new(MockGuildSettingsRepository)
	shortcutRepo := new(MockShortcutRepository)
	settingsRepo.On("Get", mock.Anything, mock.Anything).Return(settings, nil).Maybe()
	shortcutRepo.On("ListByGuild", mock.Anything, mock.Anything).Return(shortcuts, nil).Maybe()
	return NewExportEngine(NewShortcutService(settingsRepo, shortcutRepo, events.NewBus()))
}

func TestExport_WritesHeaderAndPrefixedNames(t *testing.T) {
	engine := newExportEngine(
		&models.GuildSettings{GuildID: 100, Prefix: "!", PageSize: 10},
		[]*models.Shortcut{
			{GuildID: 100, Name: "bye", Value: "see you", Category: "Fun"},
			{GuildID: 100, Name: "greet", Value: "hello there", Category: ""},
		},
	)

	data, err := engine.Export(context.Background(), 100)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"Shortcut", "Value", "Category"}, records[0])
	assert.Equal(t, []string{"!bye", "see you", "Fun"}, records[1])
	// Entries without a category tag export as the default
	assert.Equal(t, []string{"!greet", "hello there", models.DefaultCategory}, records[2])
}

func TestExport_QuotesEmbeddedDelimiters(t *testing.T) {
	engine := newExportEngine(
		&models.GuildSettings{GuildID: 100, Prefix: "!", PageSize: 10},
		[]*models.Shortcut{
			{GuildID: 100, Name: "multi", Value: "line one\nline two, with comma", Category: "Fun"},
		},
	)

	data, err := engine.Export(context.Background(), 100)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "line one\nline two, with comma", records[1][1])
}

func TestExport_RequiresConfiguredPrefix(t *testing.T) {
	engine := newExportEngine(nil, nil)

	_, err := engine.Export(context.Background(), 100)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Message, "set a prefix first")
}

func TestExport_EmptyGuildExportsHeaderOnly(t *testing.T) {
	engine := newExportEngine(
		&models.GuildSettings{GuildID: 100, Prefix: "!", PageSize: 10},
		[]*models.Shortcut{},
	)

	data, err := engine.Export(context.Background(), 100)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []string{"Shortcut", "Value", "Category"}, records[0])
}

func TestExportImportRoundTrip(t *testing.T) {
	settings := &models.GuildSettings{GuildID: 100, Prefix: "!", PageSize: 10}
	stored := []*models.Shortcut{
		{GuildID: 100, Name: "greet", Value: "hello, \"world\"", Category: "Fun"},
		{GuildID: 100, Name: "bye", Value: "multi\nline", Category: ""},
	}

	data, err := newExportEngine(settings, stored).Export(context.Background(), 100)
	require.NoError(t, err)

	fixture := newImportFixture(t, settings)
	report, err := fixture.engine.Import(context.Background(), 100, bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, 2, report.Imported)
	assert.Zero(t, report.Skipped)
	require.Len(t, fixture.upserted, 2)
	assert.Equal(t, "greet", fixture.upserted[0].Name)
	assert.Equal(t, "hello, \"world\"", fixture.upserted[0].Value)
	assert.Equal(t, "Fun", fixture.upserted[0].Category)
	assert.Equal(t, "bye", fixture.upserted[1].Name)
	assert.Equal(t, "multi\nline", fixture.upserted[1].Value)
	assert.Equal(t, models.DefaultCategory, fixture.upserted[1].Category)
}
