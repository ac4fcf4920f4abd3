package interfaces

import (
	"context"

	"lotterypool/domain/entities"
	"lotterypool/domain/events"
)

// LotteryPoolRepository defines the interface for pool data access.
// No method ever changes a pool's manager.
type LotteryPoolRepository interface {
	// Create inserts a new pool with zero balance in round 1
	Create(ctx context.Context, manager entities.Address, guildID *int64) (*entities.LotteryPool, error)

	// GetByID returns the pool or nil if it does not exist
	GetByID(ctx context.Context, id int64) (*entities.LotteryPool, error)

	// GetByIDForUpdate returns the pool and locks its row until the transaction ends
	GetByIDForUpdate(ctx context.Context, id int64) (*entities.LotteryPool, error)

	// GetByGuildID returns the pool bound to a guild or nil
	GetByGuildID(ctx context.Context, guildID int64) (*entities.LotteryPool, error)

	// UpdateState persists balance and round
	UpdateState(ctx context.Context, pool *entities.LotteryPool) error
}

// PoolEntryRepository defines the interface for participant list access
type PoolEntryRepository interface {
	// Append inserts an entry; ID and EnteredAt are populated on success
	Append(ctx context.Context, entry *entities.PoolEntry) error

	// GetByRound returns the entries of a round ordered by position
	GetByRound(ctx context.Context, poolID, round int64) ([]*entities.PoolEntry, error)

	// CountByRound returns the number of entries in a round
	CountByRound(ctx context.Context, poolID, round int64) (int, error)
}

// PoolDrawRepository defines the interface for draw history
type PoolDrawRepository interface {
	Create(ctx context.Context, draw *entities.PoolDraw) error
	GetByPool(ctx context.Context, poolID int64, limit int) ([]*entities.PoolDraw, error)
}

// AccountRepository defines the interface for ledger account access
type AccountRepository interface {
	GetByAddress(ctx context.Context, address entities.Address) (*entities.Account, error)
	GetByAddressForUpdate(ctx context.Context, address entities.Address) (*entities.Account, error)
	// Create inserts an account, or returns the existing one with created false
	Create(ctx context.Context, address entities.Address, initialBalance int64) (account *entities.Account, created bool, err error)
	UpdateBalance(ctx context.Context, address entities.Address, newBalance int64) error
	SetFrozen(ctx context.Context, address entities.Address, frozen bool) error

	// Discord identities behind derived addresses
	LinkDiscordUser(ctx context.Context, address entities.Address, discordUserID string) error
	GetDiscordUserIDs(ctx context.Context, addresses []entities.Address) (map[entities.Address]string, error)
}

// BalanceHistoryRepository defines the interface for balance history data access
type BalanceHistoryRepository interface {
	Record(ctx context.Context, history *entities.BalanceHistory) error
	GetByAddress(ctx context.Context, address entities.Address, limit int) ([]*entities.BalanceHistory, error)

	// GetLatestID returns the highest history id, the ledger's current sequence number
	GetLatestID(ctx context.Context) (int64, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event) error
}
