package shortcuts

import (
	"context"
	"errors"
	"strings"

	"shortcutbot/bot/common"
	"shortcutbot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature handles the shortcut command surface, the interactive browser
// and the passive prefix scan on guild messages
type Feature struct {
	session    *discordgo.Session
	svc        service.ShortcutService
	dispatcher *service.PrefixDispatcher
	importer   service.ImportEngine
	exporter   service.ExportEngine
	sessions   *browserSessions
}

// NewFeature creates a new shortcuts feature instance
func NewFeature(session *discordgo.Session, svc service.ShortcutService, dispatcher *service.PrefixDispatcher, importer service.ImportEngine, exporter service.ExportEngine) *Feature {
	return &Feature{
		session:    session,
		svc:        svc,
		dispatcher: dispatcher,
		importer:   importer,
		exporter:   exporter,
		sessions:   newBrowserSessions(),
	}
}

// HandleCommand routes /shortcuts subcommands to appropriate handlers
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return
	}

	guildID, err := common.ParseGuildID(i.GuildID)
	if err != nil {
		log.Errorf("Failed to parse guild ID %q: %v", i.GuildID, err)
		common.RespondWithError(s, i, "This command only works in a server")
		return
	}

	sub := options[0]
	switch sub.Name {
	case "info":
		f.handleInfo(s, i, guildID)
	case "setprefix":
		f.handleSetPrefix(s, i, guildID, sub.Options)
	case "setpagesize":
		f.handleSetPageSize(s, i, guildID, sub.Options)
	case "set":
		f.handleSet(s, i, guildID, sub.Options)
	case "remove":
		f.handleRemove(s, i, guildID, sub.Options)
	case "rename":
		f.handleRename(s, i, guildID, sub.Options)
	case "move":
		f.handleMove(s, i, guildID, sub.Options)
	case "list":
		f.handleList(s, i, guildID)
	case "categories":
		f.handleCategories(s, i, guildID)
	case "bulk_delete":
		f.handleBulkDelete(s, i, guildID, sub.Options)
	case "csv":
		f.handleExport(s, i, guildID)
	case "import":
		f.handleImport(s, i, guildID, sub.Options)
	}
}

// HandleComponent routes browser button and select interactions
func (f *Feature) HandleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID
	if !strings.HasPrefix(customID, browserComponentPrefix) {
		return
	}
	f.handleBrowserInteraction(s, i, customID)
}

// HandleMessage is the passive prefix scanner over guild messages
func (f *Feature) HandleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.GuildID == "" || m.Author == nil || m.Author.Bot {
		return
	}

	guildID, err := common.ParseGuildID(m.GuildID)
	if err != nil {
		return
	}

	reply, ok, err := f.dispatcher.Dispatch(context.Background(), guildID, m.Content)
	if err != nil {
		log.WithFields(log.Fields{
			"guild_id": guildID,
			"error":    err,
		}).Error("Failed to dispatch shortcut message")
		return
	}
	if !ok {
		return
	}

	if _, err := s.ChannelMessageSend(m.ChannelID, reply); err != nil {
		log.Errorf("Failed to send shortcut reply in channel %s: %v", m.ChannelID, err)
	}
}

// respondServiceError maps the service error taxonomy onto Discord replies
func respondServiceError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		common.RespondWithError(s, i, validationErr.Message)
		return
	}

	var notFoundErr *service.NotFoundError
	if errors.As(err, &notFoundErr) {
		common.RespondWithMessage(s, i, formatNotFound(notFoundErr), true)
		return
	}

	var conflictErr *service.ConflictError
	if errors.As(err, &conflictErr) {
		common.RespondWithError(s, i, conflictErr.Message)
		return
	}

	log.WithFields(log.Fields{
		"command": i.ApplicationCommandData().Name,
		"error":   err,
	}).Error("Unexpected error in shortcuts command")
	common.RespondWithError(s, i, "Something went wrong. Please try again later.")
}
