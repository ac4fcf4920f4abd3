package pool

import (
	"context"
	"fmt"

	"lotterypool/application"
	"lotterypool/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature implements the /pool slash command. Each guild has one pool and
// Discord users play through the ledger address derived from their user ID.
type Feature struct {
	pools           application.LotteryPoolHandler
	startingBalance int64
}

// NewFeature creates a new pool feature instance
func NewFeature(pools application.LotteryPoolHandler, startingBalance int64) *Feature {
	return &Feature{
		pools:           pools,
		startingBalance: startingBalance,
	}
}

// HandleCommand routes /pool subcommands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		common.RespondWithError(s, i, "Please choose a subcommand")
		return
	}
	sub := data.Options[0]

	user := common.InteractionUser(i)
	if user == nil {
		common.RespondWithError(s, i, "Could not identify you")
		return
	}

	guildID, err := common.ParseGuildID(i.GuildID)
	if err != nil && sub.Name != "balance" {
		common.RespondWithError(s, i, "The pool lives in a server. Use this command there.")
		return
	}

	// Balances are private; everything else is posted to the channel
	if err := common.DeferResponse(s, i, sub.Name == "balance"); err != nil {
		log.Errorf("Failed to defer response: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), common.InteractionTimeout)
	defer cancel()

	var embed *discordgo.MessageEmbed
	switch sub.Name {
	case "create":
		embed, err = f.create(ctx, guildID, user.ID)
	case "enter":
		embed, err = f.enter(ctx, guildID, user.ID, stringOption(sub, "amount"))
	case "players":
		embed, err = f.players(ctx, guildID)
	case "draw":
		embed, err = f.draw(ctx, guildID, user.ID)
	case "history":
		embed, err = f.history(ctx, guildID)
	case "balance":
		embed, err = f.balance(ctx, user.ID)
	default:
		err = common.NewUserError("Unknown subcommand", fmt.Errorf("unknown pool subcommand %q", sub.Name))
	}

	if err != nil {
		common.HandleError(s, i, err, true)
		return
	}

	if err := common.UpdateMessage(s, i, embed); err != nil {
		log.Errorf("Failed to send /pool %s response: %v", sub.Name, err)
	}
}

// stringOption returns the named option of a subcommand, or ""
func stringOption(sub *discordgo.ApplicationCommandInteractionDataOption, name string) string {
	for _, opt := range sub.Options {
		if opt.Name == name {
			return opt.StringValue()
		}
	}
	return ""
}
