package pool

import (
	"fmt"
	"strings"

	"lotterypool/bot/common"
	"lotterypool/domain/entities"
	"lotterypool/domain/interfaces"

	"github.com/bwmarrin/discordgo"
)

// CreatePoolCreatedEmbed announces a new guild pool
func CreatePoolCreatedEmbed(pool *entities.LotteryPool, managerUserID string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s Lottery Pool #%d", common.CurrencyEmoji, pool.ID),
		Color:       common.ColorPrimary,
		Description: fmt.Sprintf("%s opened a pool. Enter with `/pool enter`.", common.GetUserMention(managerUserID)),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Manager",
				Value:  common.FormatAddress(pool.Manager),
				Inline: true,
			},
			{
				Name:   "Minimum Entry",
				Value:  common.FormatCoinsWithUnit(entities.MinimumEntry),
				Inline: true,
			},
		},
	}
}

// CreateEntryEmbed confirms an entry and shows the updated pot
func CreateEntryEmbed(entry *entities.PoolEntry, pool *entities.LotteryPool, userID string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Entered!",
		Color:       common.ColorSuccess,
		Description: fmt.Sprintf("%s staked %s", common.GetUserMention(userID), common.FormatCoinsWithUnit(entry.Stake)),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Entry",
				Value:  fmt.Sprintf("%s in round %d", common.FormatOrdinal(entry.Position+1), entry.Round),
				Inline: true,
			},
			{
				Name:   "Pot",
				Value:  common.FormatCoinsWithUnit(pool.Balance),
				Inline: true,
			},
		},
	}
}

// CreatePlayersEmbed lists the current round's participants in entry order.
// Players found in userIDs are shown as mentions.
func CreatePlayersEmbed(pool *entities.LotteryPool, players []entities.Address, userIDs map[entities.Address]string) *discordgo.MessageEmbed {
	playerStr := "No participants yet"
	if len(players) > 0 {
		maxShow := min(len(players), common.MaxPlayersListed)
		lines := make([]string, 0, maxShow+1)
		for i := 0; i < maxShow; i++ {
			line := fmt.Sprintf("%d. %s", i+1, common.FormatAddress(players[i]))
			if userID, ok := userIDs[players[i]]; ok {
				line = fmt.Sprintf("%d. %s (%s)", i+1, common.GetUserMention(userID), common.FormatAddress(players[i]))
			}
			lines = append(lines, line)
		}
		if len(players) > maxShow {
			lines = append(lines, fmt.Sprintf("...and %s more", common.FormatCount(len(players)-maxShow)))
		}
		playerStr = strings.Join(lines, "\n")
	}

	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Pool #%d - Round %d", pool.ID, pool.Round),
		Color: common.ColorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Pot",
				Value:  common.FormatCoinsWithUnit(pool.Balance),
				Inline: true,
			},
			{
				Name:   "Entries",
				Value:  common.FormatCount(len(players)),
				Inline: true,
			},
			{
				Name:   "Participants",
				Value:  playerStr,
				Inline: false,
			},
		},
	}
}

// CreateDrawResultEmbed announces the winner of a round.
// winnerUserID is set when the winner is known to be a Discord user.
func CreateDrawResultEmbed(result *interfaces.PoolDrawResult, winnerUserID string) *discordgo.MessageEmbed {
	draw := result.Draw

	winner := common.FormatAddress(draw.Winner)
	if winnerUserID != "" {
		winner = fmt.Sprintf("%s (%s)", common.GetUserMention(winnerUserID), winner)
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🎉 Pool #%d - Round %d drawn", draw.PoolID, draw.Round),
		Color:       common.ColorGold,
		Description: fmt.Sprintf("%s wins **%s**", winner, common.FormatCoinsWithUnit(draw.Payout)),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Winning Entry",
				Value:  fmt.Sprintf("#%d of %s", draw.WinningIndex+1, common.FormatCount(draw.ParticipantCount)),
				Inline: true,
			},
			{
				Name:   "Next Round",
				Value:  fmt.Sprintf("%d", result.Pool.Round),
				Inline: true,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Seed %s at block %d", draw.Seed, draw.BlockHeight),
		},
	}
}

// CreateBalanceEmbed shows a user's ledger account
func CreateBalanceEmbed(account *entities.Account) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "💰 Balance",
		Color:       common.ColorPrimary,
		Description: fmt.Sprintf("**%s**", common.FormatCoinsWithUnit(account.Balance)),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Address",
				Value:  fmt.Sprintf("`%s`", account.Address),
				Inline: false,
			},
		},
	}
	if account.Frozen {
		embed.Color = common.ColorWarning
		embed.Footer = &discordgo.MessageEmbedFooter{Text: "This account is frozen"}
	}
	return embed
}

// CreateHistoryEmbed lists recent draws, newest first
func CreateHistoryEmbed(pool *entities.LotteryPool, draws []*entities.PoolDraw) *discordgo.MessageEmbed {
	description := "No rounds have been drawn yet"
	if len(draws) > 0 {
		lines := make([]string, 0, len(draws))
		for _, draw := range draws {
			lines = append(lines, fmt.Sprintf("**Round %d** %s won %s %s",
				draw.Round,
				common.FormatAddress(draw.Winner),
				common.FormatCoinsWithUnit(draw.Payout),
				common.FormatDiscordTimestamp(draw.DrawnAt, "R"),
			))
		}
		description = strings.Join(lines, "\n")
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Pool #%d - Recent Draws", pool.ID),
		Color:       common.ColorInfo,
		Description: description,
	}
}
