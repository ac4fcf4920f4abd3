package infrastructure

import (
	"sync/atomic"

	"lotterypool/domain/events"

	log "github.com/sirupsen/logrus"
)

// NoopEventPublisher stands in for NATS when NATS_SERVERS is unset.
// Events are counted and dropped.
type NoopEventPublisher struct {
	dropped atomic.Int64
}

// NewNoopEventPublisher creates a new no-op event publisher
func NewNoopEventPublisher() *NoopEventPublisher {
	return &NoopEventPublisher{}
}

// Publish drops the event
func (n *NoopEventPublisher) Publish(event events.Event) error {
	total := n.dropped.Add(1)
	log.WithFields(log.Fields{
		"event_type": event.Type(),
		"dropped":    total,
	}).Trace("No message bus configured, dropping event")
	return nil
}

// Dropped returns how many events have been dropped
func (n *NoopEventPublisher) Dropped() int64 {
	return n.dropped.Load()
}
