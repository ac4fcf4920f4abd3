package pool

import (
	"context"
	"fmt"
	"strings"

	"lotterypool/bot/common"
	"lotterypool/domain/entities"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// ensurePlayer returns the caller's account, opening it with the starting
// balance and linking it to the user on first use
func (f *Feature) ensurePlayer(ctx context.Context, userID string) (*entities.Account, error) {
	account, err := f.pools.EnsureDiscordAccount(ctx, userID, f.startingBalance)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure account for user %s: %w", userID, err)
	}
	return account, nil
}

// resolveUsers maps addresses to Discord users. Lookup failures only cost the
// mentions, so they are logged rather than returned.
func (f *Feature) resolveUsers(ctx context.Context, addresses []entities.Address) map[entities.Address]string {
	userIDs, err := f.pools.DiscordUserIDs(ctx, addresses)
	if err != nil {
		log.WithError(err).Warn("Failed to resolve discord users")
		return nil
	}
	return userIDs
}

func (f *Feature) create(ctx context.Context, guildID int64, userID string) (*discordgo.MessageEmbed, error) {
	manager, err := f.ensurePlayer(ctx, userID)
	if err != nil {
		return nil, err
	}

	pool, err := f.pools.DeployForGuild(ctx, guildID, manager.Address)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"guild_id": guildID,
		"pool_id":  pool.ID,
		"user_id":  userID,
	}).Info("Guild pool created")

	return CreatePoolCreatedEmbed(pool, userID), nil
}

func (f *Feature) enter(ctx context.Context, guildID int64, userID string, amount string) (*discordgo.MessageEmbed, error) {
	value, err := entities.ParseAmount(strings.TrimSpace(amount))
	if err != nil {
		return nil, err
	}

	pool, err := f.pools.GetPoolByGuild(ctx, guildID)
	if err != nil {
		return nil, err
	}

	player, err := f.ensurePlayer(ctx, userID)
	if err != nil {
		return nil, err
	}

	entry, err := f.pools.Enter(ctx, pool.ID, player.Address, value)
	if err != nil {
		return nil, err
	}

	// Reload for the pot after this entry
	pool, err = f.pools.GetPool(ctx, pool.ID)
	if err != nil {
		return nil, err
	}

	return CreateEntryEmbed(entry, pool, userID), nil
}

func (f *Feature) players(ctx context.Context, guildID int64) (*discordgo.MessageEmbed, error) {
	pool, err := f.pools.GetPoolByGuild(ctx, guildID)
	if err != nil {
		return nil, err
	}

	players, err := f.pools.GetPlayers(ctx, pool.ID)
	if err != nil {
		return nil, err
	}

	return CreatePlayersEmbed(pool, players, f.resolveUsers(ctx, players)), nil
}

func (f *Feature) draw(ctx context.Context, guildID int64, userID string) (*discordgo.MessageEmbed, error) {
	pool, err := f.pools.GetPoolByGuild(ctx, guildID)
	if err != nil {
		return nil, err
	}

	result, err := f.pools.PickWinner(ctx, pool.ID, entities.DiscordAddress(userID))
	if err != nil {
		return nil, err
	}

	winnerUserID := f.resolveUsers(ctx, []entities.Address{result.Draw.Winner})[result.Draw.Winner]

	log.WithFields(log.Fields{
		"guild_id": guildID,
		"pool_id":  pool.ID,
		"round":    result.Draw.Round,
		"winner":   result.Draw.Winner,
		"payout":   result.Draw.Payout,
	}).Info("Guild pool drawn")

	return CreateDrawResultEmbed(result, winnerUserID), nil
}

func (f *Feature) history(ctx context.Context, guildID int64) (*discordgo.MessageEmbed, error) {
	pool, err := f.pools.GetPoolByGuild(ctx, guildID)
	if err != nil {
		return nil, err
	}

	draws, err := f.pools.ListDraws(ctx, pool.ID, common.DrawHistoryLimit)
	if err != nil {
		return nil, err
	}

	return CreateHistoryEmbed(pool, draws), nil
}

func (f *Feature) balance(ctx context.Context, userID string) (*discordgo.MessageEmbed, error) {
	account, err := f.ensurePlayer(ctx, userID)
	if err != nil {
		return nil, err
	}
	return CreateBalanceEmbed(account), nil
}
