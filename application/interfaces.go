package application

import (
	"context"

	"lotterypool/domain/entities"
	"lotterypool/domain/interfaces"
)

// LotteryPoolHandler runs every pool and account operation inside its own unit of work.
// Implemented by the application layer and called by the HTTP server, the Discord bot and the CLI.
type LotteryPoolHandler interface {
	// Deploy constructs a pool managed by caller
	Deploy(ctx context.Context, caller entities.Address) (*entities.LotteryPool, error)

	// DeployForGuild constructs the single pool of a Discord guild
	DeployForGuild(ctx context.Context, guildID int64, caller entities.Address) (*entities.LotteryPool, error)

	// Enter stakes value from caller into the pool
	Enter(ctx context.Context, poolID int64, caller entities.Address, value int64) (*entities.PoolEntry, error)

	// PickWinner draws the current round; only the manager may call it
	PickWinner(ctx context.Context, poolID int64, caller entities.Address) (*interfaces.PoolDrawResult, error)

	GetPlayers(ctx context.Context, poolID int64) ([]entities.Address, error)
	GetPool(ctx context.Context, poolID int64) (*entities.LotteryPool, error)
	GetPoolByGuild(ctx context.Context, guildID int64) (*entities.LotteryPool, error)
	ListDraws(ctx context.Context, poolID int64, limit int) ([]*entities.PoolDraw, error)

	// Account operations
	EnsureAccount(ctx context.Context, address entities.Address, initialBalance int64) (*entities.Account, error)
	GetBalance(ctx context.Context, address entities.Address) (int64, error)
	Fund(ctx context.Context, address entities.Address, amount int64) (*entities.Account, error)
	SetFrozen(ctx context.Context, address entities.Address, frozen bool) error

	// Discord identities
	EnsureDiscordAccount(ctx context.Context, discordUserID string, initialBalance int64) (*entities.Account, error)
	DiscordUserIDs(ctx context.Context, addresses []entities.Address) (map[entities.Address]string, error)
}
