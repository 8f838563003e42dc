package shortcuts

import (
	"context"
	"errors"
	"sync"
	"time"

	"shortcutbot/bot/common"
	"shortcutbot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Component custom IDs for the interactive browser
const (
	browserComponentPrefix  = "shortcuts_browse"
	browserCategorySelectID = "shortcuts_browse_category"
	browserPreviousButtonID = "shortcuts_browse_prev"
	browserNextButtonID     = "shortcuts_browse_next"
	browserBackButtonID     = "shortcuts_browse_back"
	sessionCleanupInterval  = 5 * time.Minute
)

// browserSessions tracks active browser state keyed by the message the
// browser is rendered on
type browserSessions struct {
	mu       sync.Mutex
	sessions map[string]*service.Browser
}

func newBrowserSessions() *browserSessions {
	return &browserSessions{
		sessions: make(map[string]*service.Browser),
	}
}

func (bs *browserSessions) get(messageID string) (*service.Browser, bool) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	b, ok := bs.sessions[messageID]
	return b, ok
}

func (bs *browserSessions) put(messageID string, b *service.Browser) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.sessions[messageID] = b
}

func (bs *browserSessions) remove(messageID string) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	delete(bs.sessions, messageID)
}

// sweep drops sessions idle past the browser timeout
func (bs *browserSessions) sweep(now time.Time) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	for id, b := range bs.sessions {
		if now.Sub(b.LastActive) > service.BrowserTimeout {
			delete(bs.sessions, id)
		}
	}
}

// StartSessionCleanup periodically removes expired browser sessions.
// Runs until the process exits.
func (f *Feature) StartSessionCleanup() {
	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()
	for range ticker.C {
		f.sessions.sweep(time.Now())
	}
}

// handleList opens a new browser session in category selection
func (f *Feature) handleList(s *discordgo.Session, i *discordgo.InteractionCreate, guildID int64) {
	ctx := context.Background()

	counts, err := f.svc.CategoryCounts(ctx, guildID)
	if err != nil {
		respondServiceError(s, i, err)
		return
	}
	if len(counts) == 0 {
		common.RespondWithMessage(s, i, "This server has no shortcuts yet", true)
		return
	}

	pageSize := 0
	settings, err := f.svc.Settings(ctx, guildID)
	if err != nil {
		respondServiceError(s, i, err)
		return
	}
	if settings != nil {
		pageSize = settings.EffectivePageSize()
	}

	browser := service.NewBrowser(guildID, pageSize, counts, time.Now())
	embed, components := renderBrowser(browser, f.displayPrefix(ctx, guildID))
	if err := common.RespondWithEmbed(s, i, embed, components, false); err != nil {
		log.Errorf("Failed to open shortcut browser: %v", err)
		return
	}

	// the session is keyed by the response message so component
	// interactions can find it
	msg, err := s.InteractionResponse(i.Interaction)
	if err != nil {
		log.Errorf("Failed to fetch browser response message: %v", err)
		return
	}
	f.sessions.put(msg.ID, browser)
}

// handleBrowserInteraction advances an existing session
func (f *Feature) handleBrowserInteraction(s *discordgo.Session, i *discordgo.InteractionCreate, customID string) {
	if i.Message == nil {
		return
	}

	browser, ok := f.sessions.get(i.Message.ID)
	if !ok {
		f.expireBrowser(s, i, i.Message.ID)
		return
	}

	guildID, err := common.ParseGuildID(i.GuildID)
	if err != nil {
		common.RespondWithError(s, i, "This browser only works in a server")
		return
	}

	ctx := context.Background()
	now := time.Now()

	switch customID {
	case browserCategorySelectID:
		values := i.MessageComponentData().Values
		if len(values) == 0 {
			return
		}
		entries, listErr := f.svc.ListByCategory(ctx, guildID, values[0])
		if listErr != nil {
			respondServiceError(s, i, listErr)
			return
		}
		err = browser.SelectCategory(values[0], entries, now)
	case browserNextButtonID:
		err = browser.Next(now)
	case browserPreviousButtonID:
		err = browser.Previous(now)
	case browserBackButtonID:
		counts, listErr := f.svc.CategoryCounts(ctx, guildID)
		if listErr != nil {
			respondServiceError(s, i, listErr)
			return
		}
		err = browser.Back(counts, now)
	default:
		return
	}

	if errors.Is(err, service.ErrBrowserExpired) {
		f.expireBrowser(s, i, i.Message.ID)
		return
	}
	if err != nil {
		respondServiceError(s, i, err)
		return
	}

	embed, components := renderBrowser(browser, f.displayPrefix(ctx, guildID))
	if err := common.UpdateWithEmbed(s, i, embed, components); err != nil {
		log.Errorf("Failed to update shortcut browser: %v", err)
	}
}

// expireBrowser replaces the browser message with an expiry notice and
// drops the session
func (f *Feature) expireBrowser(s *discordgo.Session, i *discordgo.InteractionCreate, messageID string) {
	f.sessions.remove(messageID)
	if err := common.UpdateWithEmbed(s, i, expiredEmbed(), nil); err != nil {
		log.Errorf("Failed to render expired browser: %v", err)
	}
}

// displayPrefix returns the guild prefix for rendering, or empty when
// none is configured
func (f *Feature) displayPrefix(ctx context.Context, guildID int64) string {
	settings, err := f.svc.Settings(ctx, guildID)
	if err != nil || settings == nil {
		return ""
	}
	return settings.Prefix
}
