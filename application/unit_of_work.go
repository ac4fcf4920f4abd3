package application

import (
	"context"

	"lotterypool/domain/interfaces"
)

// UnitOfWork defines the interface for transactional repository operations.
// Every repository it hands out shares one database transaction.
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and publishes the events staged during it
	Commit() error

	// Rollback rolls back the transaction and drops the staged events
	Rollback() error

	// Repository getters
	LotteryPoolRepository() interfaces.LotteryPoolRepository
	PoolEntryRepository() interfaces.PoolEntryRepository
	PoolDrawRepository() interfaces.PoolDrawRepository
	AccountRepository() interfaces.AccountRepository
	BalanceHistoryRepository() interfaces.BalanceHistoryRepository
	EventBus() interfaces.EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// TransactionalEventPublisher stages events until the transaction outcome is known
type TransactionalEventPublisher interface {
	interfaces.EventPublisher

	// Flush publishes all staged events
	Flush(ctx context.Context) error

	// Discard drops all staged events
	Discard()
}
