package interfaces

import (
	"context"

	"lotterypool/domain/entities"
)

// LotteryPoolService defines the pool state machine
type LotteryPoolService interface {
	// Deploy constructs a pool managed by the caller
	Deploy(ctx context.Context, call entities.ExecutionContext) (*entities.LotteryPool, error)

	// DeployForGuild constructs a pool bound to a Discord guild; a guild owns at most one pool
	DeployForGuild(ctx context.Context, guildID int64, call entities.ExecutionContext) (*entities.LotteryPool, error)

	// Enter appends the caller to the participant list and moves call.Value into the pool
	Enter(ctx context.Context, poolID int64, call entities.ExecutionContext) (*entities.PoolEntry, error)

	// GetPlayers returns the current participant list in entry order
	GetPlayers(ctx context.Context, poolID int64) ([]entities.Address, error)

	// PickWinner selects a participant, pays out the whole balance and resets the pool
	PickWinner(ctx context.Context, poolID int64, call entities.ExecutionContext) (*PoolDrawResult, error)

	GetPool(ctx context.Context, poolID int64) (*entities.LotteryPool, error)
	GetPoolByGuild(ctx context.Context, guildID int64) (*entities.LotteryPool, error)
	ListDraws(ctx context.Context, poolID int64, limit int) ([]*entities.PoolDraw, error)
}

// PoolDrawResult contains the outcome of a draw
type PoolDrawResult struct {
	Draw          *entities.PoolDraw
	Pool          *entities.LotteryPool
	Players       []entities.Address
	WinnerBalance int64
}

// AccountService defines ledger account operations
type AccountService interface {
	// GetOrCreateAccount returns the account, creating it with initialBalance if absent
	GetOrCreateAccount(ctx context.Context, address entities.Address, initialBalance int64) (*entities.Account, error)

	// Fund credits an account, creating it if needed
	Fund(ctx context.Context, address entities.Address, amount int64) (*entities.Account, error)

	// GetBalance returns the balance of an address; unknown addresses hold zero
	GetBalance(ctx context.Context, address entities.Address) (int64, error)

	SetFrozen(ctx context.Context, address entities.Address, frozen bool) error

	// EnsureDiscordAccount opens the account derived from a Discord user and remembers the link
	EnsureDiscordAccount(ctx context.Context, discordUserID string, initialBalance int64) (*entities.Account, error)

	// DiscordUserIDs maps linked addresses back to Discord users
	DiscordUserIDs(ctx context.Context, addresses []entities.Address) (map[entities.Address]string, error)
}

// EntropySource derives the draw seed from the block context and participant list
type EntropySource interface {
	Seed(block entities.BlockContext, pool *entities.LotteryPool, players []entities.Address) []byte
}
