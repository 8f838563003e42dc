package service

import (
	"errors"
	"time"

	"shortcutbot/models"
)

// Browser session limits
const (
	// BrowserTimeout is the inactivity window after which a browser
	// session expires and rejects every further interaction
	BrowserTimeout = 300 * time.Second

	// DisplayValueLimit caps rendered shortcut values; longer values are
	// truncated for display only, never in the store
	DisplayValueLimit = 1024
)

// ErrBrowserExpired is returned for any interaction with an expired session
var ErrBrowserExpired = errors.New("browser session expired")

// BrowserState identifies where a browsing session is in its lifecycle
type BrowserState string

const (
	BrowserCategorySelect BrowserState = "category_select"
	BrowserPagedList      BrowserState = "paged_list"
	BrowserExpired        BrowserState = "expired"
)

// Browser is the state machine behind the interactive shortcut list. It
// holds plain data only; callers load category counts and entries fresh
// from the store on every transition that needs them, and a render layer
// maps the state to a display.
type Browser struct {
	GuildID    int64
	State      BrowserState
	Category   string
	Page       int
	PageSize   int
	Categories []*models.CategoryCount
	Entries    []*models.Shortcut
	LastActive time.Time
}

// NewBrowser starts a session in category selection
func NewBrowser(guildID int64, pageSize int, categories []*models.CategoryCount, now time.Time) *Browser {
	if pageSize < models.MinPageSize || pageSize > models.MaxPageSize {
		pageSize = models.DefaultPageSize
	}
	return &Browser{
		GuildID:    guildID,
		State:      BrowserCategorySelect,
		PageSize:   pageSize,
		Categories: categories,
		LastActive: now,
	}
}

// touch enforces the inactivity timeout. Once expired, the session stays
// expired regardless of further interactions.
func (b *Browser) touch(now time.Time) error {
	if b.State == BrowserExpired {
		return ErrBrowserExpired
	}
	if now.Sub(b.LastActive) > BrowserTimeout {
		b.State = BrowserExpired
		return ErrBrowserExpired
	}
	b.LastActive = now
	return nil
}

// SelectCategory enters the paged list for a category at page 0. The
// entries must be freshly loaded for that category.
func (b *Browser) SelectCategory(category string, entries []*models.Shortcut, now time.Time) error {
	if err := b.touch(now); err != nil {
		return err
	}
	b.State = BrowserPagedList
	b.Category = category
	b.Entries = entries
	b.Page = 0
	return nil
}

// Next advances one page. A request past the last page is accepted with
// the state unchanged.
func (b *Browser) Next(now time.Time) error {
	if err := b.touch(now); err != nil {
		return err
	}
	if b.State != BrowserPagedList {
		return nil
	}
	if b.Page < b.MaxPages()-1 {
		b.Page++
	}
	return nil
}

// Previous steps back one page. A request before page 0 is accepted with
// the state unchanged.
func (b *Browser) Previous(now time.Time) error {
	if err := b.touch(now); err != nil {
		return err
	}
	if b.State != BrowserPagedList {
		return nil
	}
	if b.Page > 0 {
		b.Page--
	}
	return nil
}

// Back returns to category selection. The category counts must be
// freshly recomputed.
func (b *Browser) Back(categories []*models.CategoryCount, now time.Time) error {
	if err := b.touch(now); err != nil {
		return err
	}
	b.State = BrowserCategorySelect
	b.Categories = categories
	b.Category = ""
	b.Entries = nil
	b.Page = 0
	return nil
}

// MaxPages returns ceil(len(Entries) / PageSize)
func (b *Browser) MaxPages() int {
	return (len(b.Entries) + b.PageSize - 1) / b.PageSize
}

// PageEntries returns the slice of entries on the current page
func (b *Browser) PageEntries() []*models.Shortcut {
	start := b.Page * b.PageSize
	if start >= len(b.Entries) {
		return nil
	}
	end := start + b.PageSize
	if end > len(b.Entries) {
		end = len(b.Entries)
	}
	return b.Entries[start:end]
}

// TruncateValue caps a value for display, marking the cut with an
// ellipsis. Stored data is never mutated.
func TruncateValue(value string) string {
	runes := []rune(value)
	if len(runes) <= DisplayValueLimit {
		return value
	}
	return string(runes[:DisplayValueLimit-1]) + "…"
}
