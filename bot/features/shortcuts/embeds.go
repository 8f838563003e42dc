package shortcuts

import (
	"fmt"
	"strings"

	"shortcutbot/bot/common"
	"shortcutbot/models"
	"shortcutbot/service"

	"github.com/bwmarrin/discordgo"
)

// renderBrowser maps a browser state onto an embed plus its components
func renderBrowser(b *service.Browser, prefix string) (*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	switch b.State {
	case service.BrowserPagedList:
		return pagedListEmbed(b, prefix), pagedListComponents()
	case service.BrowserExpired:
		return expiredEmbed(), nil
	default:
		return categorySelectEmbed(b), categorySelectComponents(b)
	}
}

func categorySelectEmbed(b *service.Browser) *discordgo.MessageEmbed {
	var sb strings.Builder
	sb.WriteString("Pick a category to browse its shortcuts.\n\n")
	for _, c := range b.Categories {
		sb.WriteString(fmt.Sprintf("**%s** · %s\n", c.Category, common.Pluralize(c.Count, "shortcut")))
	}
	sb.WriteString(fmt.Sprintf("\nThis browser expires %s without further interaction.",
		common.FormatDiscordTimestamp(b.LastActive.Add(service.BrowserTimeout), "R")))

	return &discordgo.MessageEmbed{
		Title:       "📂 Shortcut Categories",
		Description: sb.String(),
		Color:       common.ColorPrimary,
	}
}

func categorySelectComponents(b *service.Browser) []discordgo.MessageComponent {
	options := make([]discordgo.SelectMenuOption, 0, len(b.Categories))
	for _, c := range b.Categories {
		if len(options) == common.MaxSelectOptions {
			break
		}
		options = append(options, discordgo.SelectMenuOption{
			Label:       c.Category,
			Value:       c.Category,
			Description: common.Pluralize(c.Count, "shortcut"),
		})
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.SelectMenu{
					CustomID:    browserCategorySelectID,
					Placeholder: "Choose a category",
					Options:     options,
				},
			},
		},
	}
}

func pagedListEmbed(b *service.Browser, prefix string) *discordgo.MessageEmbed {
	entries := b.PageEntries()
	fields := make([]*discordgo.MessageEmbedField, 0, len(entries))
	for _, entry := range entries {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  prefix + entry.Name,
			Value: service.TruncateValue(entry.Value),
		})
	}

	return &discordgo.MessageEmbed{
		Title:  fmt.Sprintf("🔖 Shortcuts · %s", b.Category),
		Color:  common.ColorPrimary,
		Fields: fields,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Page %d of %d", b.Page+1, b.MaxPages()),
		},
	}
}

func pagedListComponents() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "◀ Previous",
					Style:    discordgo.SecondaryButton,
					CustomID: browserPreviousButtonID,
				},
				discordgo.Button{
					Label:    "Next ▶",
					Style:    discordgo.SecondaryButton,
					CustomID: browserNextButtonID,
				},
				discordgo.Button{
					Label:    "Categories",
					Style:    discordgo.PrimaryButton,
					CustomID: browserBackButtonID,
				},
			},
		},
	}
}

func expiredEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "⏰ Browser Expired",
		Description: "This shortcut browser timed out. Run `/shortcuts list` to start a new one.",
		Color:       common.ColorWarning,
	}
}

func infoEmbed(settings *models.GuildSettings, counts []*models.CategoryCount) *discordgo.MessageEmbed {
	total := 0
	for _, c := range counts {
		total += c.Count
	}

	return &discordgo.MessageEmbed{
		Title: "🔖 Shortcut Configuration",
		Color: common.ColorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Prefix", Value: fmt.Sprintf("`%s`", settings.Prefix), Inline: true},
			{Name: "Page Size", Value: fmt.Sprintf("%d", settings.EffectivePageSize()), Inline: true},
			{Name: "Shortcuts", Value: fmt.Sprintf("%d across %d categories", total, len(counts)), Inline: true},
		},
	}
}

func categoriesEmbed(counts []*models.CategoryCount) *discordgo.MessageEmbed {
	var sb strings.Builder
	for _, c := range counts {
		sb.WriteString(fmt.Sprintf("**%s** · %s\n", c.Category, common.Pluralize(c.Count, "shortcut")))
	}

	return &discordgo.MessageEmbed{
		Title:       "📂 Shortcut Categories",
		Description: sb.String(),
		Color:       common.ColorInfo,
	}
}

func importReportEmbed(report *service.ImportReport) *discordgo.MessageEmbed {
	color := common.ColorSuccess
	if report.Skipped > 0 {
		color = common.ColorWarning
	}
	if report.Imported == 0 && report.Skipped > 0 {
		color = common.ColorDanger
	}

	embed := &discordgo.MessageEmbed{
		Title: "📥 Import Complete",
		Color: color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Imported", Value: fmt.Sprintf("%d", report.Imported), Inline: true},
			{Name: "Skipped", Value: fmt.Sprintf("%d", report.Skipped), Inline: true},
		},
	}

	if lines := report.Summary(); len(lines) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Errors",
			Value: strings.Join(lines, "\n"),
		})
	}
	return embed
}
