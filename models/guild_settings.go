package models

// Page size bounds for the interactive shortcut browser
const (
	MinPageSize     = 1
	MaxPageSize     = 25
	DefaultPageSize = 10
)

// GuildSettings represents per-guild shortcut configuration.
// A row is created when a guild first sets its prefix; shortcuts are
// unreachable until the prefix exists.
type GuildSettings struct {
	GuildID  int64  `db:"guild_id"`
	Prefix   string `db:"prefix"`
	PageSize int    `db:"page_size"`
}

// HasPrefix checks if a shortcut prefix is configured
func (gs *GuildSettings) HasPrefix() bool {
	return gs.Prefix != ""
}

// EffectivePageSize returns the configured page size, falling back to the
// default for rows that predate the page_size column.
func (gs *GuildSettings) EffectivePageSize() int {
	if gs.PageSize < MinPageSize || gs.PageSize > MaxPageSize {
		return DefaultPageSize
	}
	return gs.PageSize
}
