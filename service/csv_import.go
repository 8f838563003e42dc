package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"shortcutbot/events"
)

// MaxImportErrors bounds how many per-row errors an ImportReport lists;
// the rest are summarized as a count
const MaxImportErrors = 10

// ImportReport aggregates the outcome of a CSV bulk import
type ImportReport struct {
	Imported   int
	Skipped    int
	Errors     []string // first MaxImportErrors row errors
	MoreErrors int      // how many further errors were suppressed
}

func (r *ImportReport) recordError(row int, reason string) {
	r.Skipped++
	if len(r.Errors) < MaxImportErrors {
		r.Errors = append(r.Errors, fmt.Sprintf("row %d: %s", row, reason))
	} else {
		r.MoreErrors++
	}
}

// Summary renders the report's error list with the overflow suffix
func (r *ImportReport) Summary() []string {
	if r.MoreErrors == 0 {
		return r.Errors
	}
	return append(append([]string{}, r.Errors...), fmt.Sprintf("+%d more", r.MoreErrors))
}

// csvImportEngine implements the ImportEngine interface. Rows are
// processed sequentially with no cross-batch atomicity: a row failure
// skips that row only, and valid rows before a crash stay applied.
type csvImportEngine struct {
	svc      ShortcutService
	eventBus *events.Bus
}

// NewImportEngine creates a new CSV import engine
func NewImportEngine(svc ShortcutService, eventBus *events.Bus) ImportEngine {
	return &csvImportEngine{svc: svc, eventBus: eventBus}
}

// Import ingests a CSV stream for a guild. Whole-file problems (bad
// encoding, malformed CSV, missing prefix configuration) abort before
// any row is applied; per-row validation failures skip that row only.
func (e *csvImportEngine) Import(ctx context.Context, guildID int64, r io.Reader) (*ImportReport, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read import file: %w", err)
	}
	if !utf8.Valid(data) {
		return nil, NewValidationError("file is not valid UTF-8 text")
	}

	settings, err := e.svc.Settings(ctx, guildID)
	if err != nil {
		return nil, err
	}
	if settings == nil || !settings.HasPrefix() {
		return nil, NewValidationError("this server has no shortcut configuration, set a prefix first")
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, NewValidationError("malformed CSV: %v", err)
	}

	nameCol, valueCol, categoryCol, start := detectSchema(records)

	report := &ImportReport{}
	for i, record := range records[start:] {
		row := start + i + 1 // 1-based file row, header included

		if len(record) <= nameCol || len(record) <= valueCol {
			report.recordError(row, "not enough columns")
			continue
		}

		name := strings.TrimSpace(record[nameCol])
		name = strings.TrimPrefix(name, settings.Prefix)

		category := ""
		if categoryCol >= 0 && len(record) > categoryCol {
			category = strings.TrimSpace(record[categoryCol])
		}

		if err := e.svc.Set(ctx, guildID, name, record[valueCol], category); err != nil {
			var validationErr *ValidationError
			if errors.As(err, &validationErr) {
				report.recordError(row, validationErr.Message)
				continue
			}
			// Store failures are fatal for the invocation, not skippable
			return nil, err
		}
		report.Imported++
	}

	e.eventBus.Emit(ctx, events.ShortcutsImportedEvent{
		GuildID:  guildID,
		Imported: report.Imported,
		Skipped:  report.Skipped,
	})
	return report, nil
}

// detectSchema decides between header-bearing and positional layouts.
// A file whose first two cells are literally "shortcut" and "value"
// (case-insensitive) is header-bearing and columns are resolved by name,
// category optional in any position; anything else is positional with
// the first row treated as data.
//
// A genuine data row that happens to start with those two literals is
// misread as a header. That ambiguity is inherent to the format; the
// exporter always writes a header, so round-trips are safe.
func detectSchema(records [][]string) (nameCol, valueCol, categoryCol, start int) {
	nameCol, valueCol, categoryCol = 0, 1, 2
	if len(records) == 0 {
		return nameCol, valueCol, categoryCol, 0
	}

	first := records[0]
	if len(first) < 2 {
		return nameCol, valueCol, categoryCol, 0
	}
	if !strings.EqualFold(strings.TrimSpace(first[0]), "shortcut") ||
		!strings.EqualFold(strings.TrimSpace(first[1]), "value") {
		return nameCol, valueCol, categoryCol, 0
	}

	nameCol, valueCol, categoryCol = -1, -1, -1
	for i, cell := range first {
		switch strings.ToLower(strings.TrimSpace(cell)) {
		case "shortcut":
			nameCol = i
		case "value":
			valueCol = i
		case "category":
			categoryCol = i
		}
	}
	return nameCol, valueCol, categoryCol, 1
}
