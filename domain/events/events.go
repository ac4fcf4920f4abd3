package events

import "lotterypool/domain/entities"

// EventType represents different types of events in the system
type EventType string

const (
	EventTypePoolDeployed  EventType = "pool_deployed"
	EventTypePlayerEntered EventType = "player_entered"
	EventTypeWinnerPicked  EventType = "winner_picked"
	EventTypeBalanceChange EventType = "balance_change"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// PoolDeployedEvent is emitted when a new pool is constructed
type PoolDeployedEvent struct {
	PoolID  int64
	Manager entities.Address
	GuildID *int64
}

func (e PoolDeployedEvent) Type() EventType {
	return EventTypePoolDeployed
}

// PlayerEnteredEvent is emitted for every successful enter call
type PlayerEnteredEvent struct {
	PoolID      int64
	Round       int64
	Position    int
	Player      entities.Address
	Stake       int64
	PoolBalance int64
}

func (e PlayerEnteredEvent) Type() EventType {
	return EventTypePlayerEntered
}

// WinnerPickedEvent is emitted once a round has been paid out
type WinnerPickedEvent struct {
	PoolID           int64
	Round            int64
	Winner           entities.Address
	WinningIndex     int
	ParticipantCount int
	Payout           int64
	Seed             string
}

func (e WinnerPickedEvent) Type() EventType {
	return EventTypeWinnerPicked
}

// BalanceChangeEvent represents a balance change that occurred
type BalanceChangeEvent struct {
	Address         entities.Address
	OldBalance      int64
	NewBalance      int64
	TransactionType entities.TransactionType
	ChangeAmount    int64
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}
