package infrastructure

import (
	"fmt"

	"lotterypool/domain/events"
)

const (
	SubjectPoolDeployed   = "lottery.pool.deployed"
	SubjectPlayerEntered  = "lottery.pool.entered"
	SubjectWinnerPicked   = "lottery.pool.winner_picked"
	SubjectBalanceChanged = "ledger.balance.changed"
)

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts a domain event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	switch event.Type() {
	case events.EventTypePoolDeployed:
		return SubjectPoolDeployed
	case events.EventTypePlayerEntered:
		return SubjectPlayerEntered
	case events.EventTypeWinnerPicked:
		return SubjectWinnerPicked
	case events.EventTypeBalanceChange:
		return SubjectBalanceChanged
	default:
		return fmt.Sprintf("unknown.%s", event.Type())
	}
}

// GetAllSubjects returns all subjects that this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{
		SubjectPoolDeployed,
		SubjectPlayerEntered,
		SubjectWinnerPicked,
		SubjectBalanceChanged,
	}
}
