package service

import (
	"context"
	"strings"
)

// PrefixDispatcher scans inbound guild messages and decides whether a
// shortcut reply should be emitted. Settings come from the config cache;
// the entry list is always read fresh from the store.
type PrefixDispatcher struct {
	svc ShortcutService
}

// NewPrefixDispatcher creates a new prefix dispatcher
func NewPrefixDispatcher(svc ShortcutService) *PrefixDispatcher {
	return &PrefixDispatcher{svc: svc}
}

// Dispatch returns the stored value for the first shortcut whose name
// matches the message remainder, or ok=false when no reply is due. The
// prefix match is case-sensitive, the name match case-insensitive.
func (d *PrefixDispatcher) Dispatch(ctx context.Context, guildID int64, content string) (string, bool, error) {
	if guildID == 0 {
		return "", false, nil
	}

	settings, err := d.svc.Settings(ctx, guildID)
	if err != nil {
		return "", false, err
	}
	if settings == nil || !settings.HasPrefix() {
		return "", false, nil
	}

	if len(content) < len(settings.Prefix) {
		return "", false, nil
	}
	if !strings.HasPrefix(content, settings.Prefix) {
		return "", false, nil
	}

	shortcuts, err := d.svc.ListShortcuts(ctx, guildID)
	if err != nil {
		return "", false, err
	}

	remainder := strings.ToLower(content[len(settings.Prefix):])
	for _, shortcut := range shortcuts {
		if remainder == shortcut.NormalizedName() {
			return shortcut.Value, true, nil
		}
	}

	return "", false, nil
}
