package shortcuts

import (
	"fmt"
	"testing"
	"time"

	"shortcutbot/bot/common"
	"shortcutbot/models"
	"shortcutbot/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategorySelectEmbedShowsExpiryTimestamp(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	counts := []*models.CategoryCount{{Category: "General", Count: 3}}
	browser := service.NewBrowser(100, models.DefaultPageSize, counts, now)

	embed, components := renderBrowser(browser, "!")
	require.NotNil(t, embed)
	require.NotEmpty(t, components)

	expiry := common.FormatDiscordTimestamp(now.Add(service.BrowserTimeout), "R")
	assert.Contains(t, embed.Description, expiry)
	assert.Contains(t, embed.Description, "**General** · 3 shortcuts")
}

func TestImportReportEmbedColor(t *testing.T) {
	tests := []struct {
		name   string
		report *service.ImportReport
		want   int
	}{
		{name: "all imported", report: &service.ImportReport{Imported: 5}, want: common.ColorSuccess},
		{name: "partial failure", report: &service.ImportReport{Imported: 3, Skipped: 2}, want: common.ColorWarning},
		{name: "nothing imported", report: &service.ImportReport{Skipped: 4}, want: common.ColorDanger},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			embed := importReportEmbed(tt.report)
			assert.Equal(t, tt.want, embed.Color)
			assert.Equal(t, fmt.Sprintf("%d", tt.report.Imported), embed.Fields[0].Value)
			assert.Equal(t, fmt.Sprintf("%d", tt.report.Skipped), embed.Fields[1].Value)
		})
	}
}
