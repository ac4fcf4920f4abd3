package common

import (
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"
)

// InteractionUser returns the invoking user for guild and DM interactions
func InteractionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

// ParseGuildID converts a Discord guild snowflake to int64
func ParseGuildID(guildID string) (int64, error) {
	if guildID == "" {
		return 0, fmt.Errorf("interaction has no guild")
	}
	id, err := strconv.ParseInt(guildID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid guild ID %q: %w", guildID, err)
	}
	return id, nil
}

// GetUserMention returns the Discord mention string for a user
func GetUserMention(userID string) string {
	return fmt.Sprintf("<@%s>", userID)
}
