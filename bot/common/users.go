package common

import (
	"strconv"

	"github.com/bwmarrin/discordgo"
)

// ParseGuildID converts a Discord guild ID string to int64
func ParseGuildID(guildID string) (int64, error) {
	return strconv.ParseInt(guildID, 10, 64)
}

// CanManageShortcuts checks whether the invoking member may mutate
// shortcut configuration. Mirrors the Manage Messages requirement on the
// command surface.
func CanManageShortcuts(i *discordgo.InteractionCreate) bool {
	if i.Member == nil {
		return false
	}
	return i.Member.Permissions&(discordgo.PermissionManageMessages|discordgo.PermissionAdministrator) != 0
}
