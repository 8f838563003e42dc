package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"shortcutbot/events"
	"shortcutbot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// importFixture wires an import engine over mock repos. Upserted rows are
// captured so tests can inspect what actually got stored.
type importFixture struct {
	engine   ImportEngine
	upserted []*models.Shortcut
}

func newImportFixture(t *testing.T, settings *models.GuildSettings) *importFixture {
	t.Helper()

	fixture := &importFixture{}
	settingsRepo := new(MockGuildSettingsRepository)
	shortcutRepo := new(MockShortcutRepository)
	settingsRepo.On("Get", mock.Anything, mock.Anything).Return(settings, nil).Maybe()
	shortcutRepo.On("Upsert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		fixture.upserted = append(fixture.upserted, args.Get(1).(*models.Shortcut))
	}).Return(nil).Maybe()

	bus := events.NewBus()
	svc := NewShortcutService(settingsRepo, shortcutRepo, bus)
	fixture.engine = NewImportEngine(svc, bus)
	return fixture
}

func configuredGuild() *models.GuildSettings {
	return &models.GuildSettings{GuildID: 100, Prefix: "!", PageSize: 10}
}

func TestImport_PositionalRows(t *testing.T) {
	fixture := newImportFixture(t, configuredGuild())

	csv := "greet,hello there,Fun\nbye,see you\n"
	report, err := fixture.engine.Import(context.Background(), 100, strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 2, report.Imported)
	assert.Zero(t, report.Skipped)
	require.Len(t, fixture.upserted, 2)
	assert.Equal(t, "greet", fixture.upserted[0].Name)
	assert.Equal(t, "Fun", fixture.upserted[0].Category)
	// A missing category column falls back to the default
	assert.Equal(t, models.DefaultCategory, fixture.upserted[1].Category)
}

func TestImport_HeaderRowResolvesColumnsByName(t *testing.T) {
	fixture := newImportFixture(t, configuredGuild())

	csv := "Shortcut,Value,Category\ngreet,hello,Fun\n"
	report, err := fixture.engine.Import(context.Background(), 100, strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 1, report.Imported)
	require.Len(t, fixture.upserted, 1)
	assert.Equal(t, "greet", fixture.upserted[0].Name)
	assert.Equal(t, "hello", fixture.upserted[0].Value)
	assert.Equal(t, "Fun", fixture.upserted[0].Category)
}

func TestImport_HeaderWithoutCategoryColumn(t *testing.T) {
	fixture := newImportFixture(t, configuredGuild())

	csv := "shortcut,value\ngreet,hello\n"
	report, err := fixture.engine.Import(context.Background(), 100, strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 1, report.Imported)
	require.Len(t, fixture.upserted, 1)
	assert.Equal(t, models.DefaultCategory, fixture.upserted[0].Category)
}

func TestImport_StripsConfiguredPrefix(t *testing.T) {
	fixture := newImportFixture(t, configuredGuild())

	// Exported files carry prefixed names; they must import back cleanly
	csv := "Shortcut,Value,Category\n!greet,hello,General\n"
	report, err := fixture.engine.Import(context.Background(), 100, strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 1, report.Imported)
	require.Len(t, fixture.upserted, 1)
	assert.Equal(t, "greet", fixture.upserted[0].Name)
}

func TestImport_RowErrorsSkipRowOnly(t *testing.T) {
	fixture := newImportFixture(t, configuredGuild())

	csv := strings.Join([]string{
		"Shortcut,Value,Category",
		"greet,hello,Fun",
		",missing name,Fun",
		"bye,,Fun",
		"solo",
		"wave,hi,Fun",
	}, "\n")
	report, err := fixture.engine.Import(context.Background(), 100, strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 2, report.Imported)
	assert.Equal(t, 3, report.Skipped)
	require.Len(t, report.Errors, 3)
	// Row numbers are 1-based physical file rows, header included
	assert.Contains(t, report.Errors[0], "row 3:")
	assert.Contains(t, report.Errors[1], "row 4:")
	assert.Contains(t, report.Errors[2], "row 5:")
}

func TestImport_ErrorListCapped(t *testing.T) {
	fixture := newImportFixture(t, configuredGuild())

	var sb strings.Builder
	sb.WriteString("Shortcut,Value\n")
	for i := 0; i < MaxImportErrors+4; i++ {
		fmt.Fprintf(&sb, "bad%d,\n", i)
	}
	report, err := fixture.engine.Import(context.Background(), 100, strings.NewReader(sb.String()))
	require.NoError(t, err)

	assert.Equal(t, MaxImportErrors+4, report.Skipped)
	assert.Len(t, report.Errors, MaxImportErrors)
	assert.Equal(t, 4, report.MoreErrors)

	summary := report.Summary()
	require.Len(t, summary, MaxImportErrors+1)
	assert.Equal(t, "+4 more", summary[len(summary)-1])
}

func TestImport_RejectsInvalidUTF8(t *testing.T) {
	fixture := newImportFixture(t, configuredGuild())

	_, err := fixture.engine.Import(context.Background(), 100, strings.NewReader("greet,\xff\xfe\n"))

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Message, "UTF-8")
	assert.Empty(t, fixture.upserted)
}

func TestImport_RejectsMalformedCSV(t *testing.T) {
	fixture := newImportFixture(t, configuredGuild())

	_, err := fixture.engine.Import(context.Background(), 100, strings.NewReader("greet,\"unterminated\n"))

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Message, "malformed CSV")
}

func TestImport_RequiresConfiguredPrefix(t *testing.T) {
	fixture := newImportFixture(t, nil)

	_, err := fixture.engine.Import(context.Background(), 100, strings.NewReader("greet,hello\n"))

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Message, "set a prefix first")
	assert.Empty(t, fixture.upserted)
}

func TestImport_EmptyFile(t *testing.T) {
	fixture := newImportFixture(t, configuredGuild())

	report, err := fixture.engine.Import(context.Background(), 100, strings.NewReader(""))
	require.NoError(t, err)

	assert.Zero(t, report.Imported)
	assert.Zero(t, report.Skipped)
}
