package shortcuts

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"shortcutbot/bot/common"
	"shortcutbot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// bulkDeleteToken must be typed verbatim before any bulk delete runs
const bulkDeleteToken = "CONFIRM"

// maxImportDownloadBytes bounds attachment downloads
const maxImportDownloadBytes = 8 << 20

func optionMap(options []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		m[opt.Name] = opt
	}
	return m
}

func requireManagePermission(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	if !common.CanManageShortcuts(i) {
		common.RespondWithError(s, i, "You need the Manage Messages permission to manage shortcuts")
		return false
	}
	return true
}

func (f *Feature) handleInfo(s *discordgo.Session, i *discordgo.InteractionCreate, guildID int64) {
	ctx := context.Background()

	settings, err := f.svc.Settings(ctx, guildID)
	if err != nil {
		respondServiceError(s, i, err)
		return
	}
	if settings == nil || !settings.HasPrefix() {
		common.RespondWithMessage(s, i, "This server has no shortcut configuration yet. Set one up with `/shortcuts setprefix`.", true)
		return
	}

	counts, err := f.svc.CategoryCounts(ctx, guildID)
	if err != nil {
		respondServiceError(s, i, err)
		return
	}

	if err := common.RespondWithEmbed(s, i, infoEmbed(settings, counts), nil, true); err != nil {
		log.Errorf("Failed to send shortcuts info: %v", err)
	}
}

func (f *Feature) handleSetPrefix(s *discordgo.Session, i *discordgo.InteractionCreate, guildID int64, options []*discordgo.ApplicationCommandInteractionDataOption) {
	if !requireManagePermission(s, i) {
		return
	}

	prefix := optionMap(options)["prefix"].StringValue()
	if err := f.svc.SetPrefix(context.Background(), guildID, prefix); err != nil {
		respondServiceError(s, i, err)
		return
	}

	common.RespondWithMessage(s, i, fmt.Sprintf("✅ Shortcut prefix set to `%s`", prefix), false)
}

func (f *Feature) handleSetPageSize(s *discordgo.Session, i *discordgo.InteractionCreate, guildID int64, options []*discordgo.ApplicationCommandInteractionDataOption) {
	if !requireManagePermission(s, i) {
		return
	}

	size := int(optionMap(options)["size"].IntValue())
	if err := f.svc.SetPageSize(context.Background(), guildID, size); err != nil {
		respondServiceError(s, i, err)
		return
	}

	common.RespondWithMessage(s, i, fmt.Sprintf("✅ Browser page size set to %d", size), false)
}

func (f *Feature) handleSet(s *discordgo.Session, i *discordgo.InteractionCreate, guildID int64, options []*discordgo.ApplicationCommandInteractionDataOption) {
	if !requireManagePermission(s, i) {
		return
	}

	opts := optionMap(options)
	name := opts["name"].StringValue()
	value := opts["value"].StringValue()
	category := ""
	if opt, ok := opts["category"]; ok {
		category = opt.StringValue()
	}

	if err := f.svc.Set(context.Background(), guildID, name, value, category); err != nil {
		respondServiceError(s, i, err)
		return
	}

	common.RespondWithMessage(s, i, fmt.Sprintf("✅ Shortcut `%s` saved", name), false)
}

func (f *Feature) handleRemove(s *discordgo.Session, i *discordgo.InteractionCreate, guildID int64, options []*discordgo.ApplicationCommandInteractionDataOption) {
	if !requireManagePermission(s, i) {
		return
	}

	name := optionMap(options)["name"].StringValue()
	removed, err := f.svc.Remove(context.Background(), guildID, name)
	if err != nil {
		respondServiceError(s, i, err)
		return
	}
	if !removed {
		common.RespondWithMessage(s, i, fmt.Sprintf("No shortcut named `%s` exists", name), true)
		return
	}

	common.RespondWithMessage(s, i, fmt.Sprintf("✅ Shortcut `%s` removed", name), false)
}

func (f *Feature) handleRename(s *discordgo.Session, i *discordgo.InteractionCreate, guildID int64, options []*discordgo.ApplicationCommandInteractionDataOption) {
	if !requireManagePermission(s, i) {
		return
	}

	opts := optionMap(options)
	oldName := opts["old"].StringValue()
	newName := opts["new"].StringValue()

	if err := f.svc.Rename(context.Background(), guildID, oldName, newName); err != nil {
		respondServiceError(s, i, err)
		return
	}

	common.RespondWithMessage(s, i, fmt.Sprintf("✅ Renamed `%s` to `%s`", oldName, newName), false)
}

func (f *Feature) handleMove(s *discordgo.Session, i *discordgo.InteractionCreate, guildID int64, options []*discordgo.ApplicationCommandInteractionDataOption) {
	if !requireManagePermission(s, i) {
		return
	}

	opts := optionMap(options)
	name := opts["name"].StringValue()
	category := opts["category"].StringValue()

	if err := f.svc.Move(context.Background(), guildID, name, category); err != nil {
		respondServiceError(s, i, err)
		return
	}

	common.RespondWithMessage(s, i, fmt.Sprintf("✅ Moved `%s` to category `%s`", name, category), false)
}

func (f *Feature) handleCategories(s *discordgo.Session, i *discordgo.InteractionCreate, guildID int64) {
	counts, err := f.svc.CategoryCounts(context.Background(), guildID)
	if err != nil {
		respondServiceError(s, i, err)
		return
	}
	if len(counts) == 0 {
		common.RespondWithMessage(s, i, "This server has no shortcuts yet", true)
		return
	}

	if err := common.RespondWithEmbed(s, i, categoriesEmbed(counts), nil, false); err != nil {
		log.Errorf("Failed to send categories embed: %v", err)
	}
}

func (f *Feature) handleBulkDelete(s *discordgo.Session, i *discordgo.InteractionCreate, guildID int64, options []*discordgo.ApplicationCommandInteractionDataOption) {
	if !requireManagePermission(s, i) {
		return
	}

	opts := optionMap(options)
	category := ""
	if opt, ok := opts["category"]; ok {
		category = opt.StringValue()
	}
	confirm := ""
	if opt, ok := opts["confirm"]; ok {
		confirm = opt.StringValue()
	}

	target := "all shortcuts"
	if category != "" {
		target = fmt.Sprintf("every shortcut in `%s`", category)
	}
	if confirm != bulkDeleteToken {
		common.RespondWithMessage(s, i,
			fmt.Sprintf("This will permanently delete %s. Run the command again with `confirm: %s` to proceed.", target, bulkDeleteToken),
			true)
		return
	}

	ctx := context.Background()
	var deleted int64
	var err error
	if category == "" {
		deleted, err = f.svc.DeleteAll(ctx, guildID)
	} else {
		deleted, err = f.svc.DeleteByCategory(ctx, guildID, category)
	}
	if err != nil {
		respondServiceError(s, i, err)
		return
	}

	common.RespondWithMessage(s, i, fmt.Sprintf("✅ Deleted %s", common.Pluralize(int(deleted), "shortcut")), false)
}

func (f *Feature) handleExport(s *discordgo.Session, i *discordgo.InteractionCreate, guildID int64) {
	data, err := f.exporter.Export(context.Background(), guildID)
	if err != nil {
		respondServiceError(s, i, err)
		return
	}

	file := &discordgo.File{
		Name:        fmt.Sprintf("shortcuts-%d-%s.csv", guildID, time.Now().UTC().Format("2006-01-02")),
		ContentType: "text/csv",
		Reader:      bytes.NewReader(data),
	}
	if err := common.RespondWithFile(s, i, "Here are this server's shortcuts:", file); err != nil {
		log.Errorf("Failed to send shortcut export: %v", err)
	}
}

func (f *Feature) handleImport(s *discordgo.Session, i *discordgo.InteractionCreate, guildID int64, options []*discordgo.ApplicationCommandInteractionDataOption) {
	if !requireManagePermission(s, i) {
		return
	}

	opts := optionMap(options)
	attachmentID, ok := opts["file"]
	if !ok {
		common.RespondWithError(s, i, "Attach a CSV file to import")
		return
	}

	attachment := i.ApplicationCommandData().Resolved.Attachments[attachmentID.Value.(string)]
	if attachment == nil {
		common.RespondWithError(s, i, "Could not resolve the attached file")
		return
	}

	// downloads and bulk upserts can exceed the 3 second interaction window
	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Failed to defer import response: %v", err)
		return
	}

	body, err := downloadAttachment(attachment.URL)
	if err != nil {
		log.Errorf("Failed to download import attachment: %v", err)
		common.FollowUpWithError(s, i, "Could not download the attached file")
		return
	}

	report, err := f.importer.Import(context.Background(), guildID, bytes.NewReader(body))
	if err != nil {
		followUpServiceError(s, i, err)
		return
	}

	if _, err := s.FollowupMessageCreate(i.Interaction, false, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{importReportEmbed(report)},
	}); err != nil {
		log.Errorf("Failed to send import report: %v", err)
	}
}

func downloadAttachment(url string) ([]byte, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch attachment: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("attachment fetch returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxImportDownloadBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read attachment body: %w", err)
	}
	return body, nil
}

// followUpServiceError is respondServiceError for deferred interactions
func followUpServiceError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	switch e := err.(type) {
	case *service.ValidationError:
		common.FollowUpWithError(s, i, e.Message)
	case *service.ConflictError:
		common.FollowUpWithError(s, i, e.Message)
	default:
		log.WithField("error", err).Error("Unexpected error in deferred shortcuts command")
		common.FollowUpWithError(s, i, "Something went wrong. Please try again later.")
	}
}

func formatNotFound(err *service.NotFoundError) string {
	if len(err.Existing) == 0 {
		return fmt.Sprintf("No shortcut named `%s` exists, and this server has no shortcuts yet", err.Name)
	}

	msg := fmt.Sprintf("No shortcut named `%s` exists. Available shortcuts: ", err.Name)
	for idx, name := range err.Existing {
		if idx > 0 {
			msg += ", "
		}
		msg += fmt.Sprintf("`%s`", name)
	}
	if err.Overflow > 0 {
		msg += fmt.Sprintf(" (+%d more)", err.Overflow)
	}
	return msg
}
