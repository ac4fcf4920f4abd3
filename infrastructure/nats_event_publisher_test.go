package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"lotterypool/domain/entities"
	"lotterypool/domain/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type publishedMessage struct {
	subject string
	data    []byte
}

type fakeMessageClient struct {
	messages []publishedMessage
	err      error
}

func (f *fakeMessageClient) Publish(ctx context.Context, subject string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, publishedMessage{subject: subject, data: data})
	return nil
}

func TestEventSubjectMapper(t *testing.T) {
	mapper := NewEventSubjectMapper()

	tests := []struct {
		event   events.Event
		subject string
	}{
		{events.PoolDeployedEvent{}, "lottery.pool.deployed"},
		{events.PlayerEnteredEvent{}, "lottery.pool.entered"},
		{events.WinnerPickedEvent{}, "lottery.pool.winner_picked"},
		{events.BalanceChangeEvent{}, "ledger.balance.changed"},
	}

	for _, tt := range tests {
		t.Run(string(tt.event.Type()), func(t *testing.T) {
			subject := mapper.MapEventToSubject(tt.event)
			assert.Equal(t, tt.subject, subject)
			assert.Contains(t, mapper.GetAllSubjects(), subject)
		})
	}
}

func TestNATSEventPublisher_PublishesEnvelope(t *testing.T) {
	client := &fakeMessageClient{}
	publisher := newEventPublisher(client, NewEventSubjectMapper())

	event := events.BalanceChangeEvent{
		Address:         entities.Address("0x000000000000000000000000000000000000000a"),
		OldBalance:      entities.BaseUnitsPerCoin,
		NewBalance:      entities.BaseUnitsPerCoin - 20_000_000,
		TransactionType: entities.TransactionTypePoolEntry,
		ChangeAmount:    -20_000_000,
	}
	require.NoError(t, publisher.Publish(event))

	require.Len(t, client.messages, 1)
	assert.Equal(t, SubjectBalanceChanged, client.messages[0].subject)

	var envelope EventEnvelope
	require.NoError(t, json.Unmarshal(client.messages[0].data, &envelope))
	assert.Equal(t, "balance_change", envelope.EventType)
	assert.Equal(t, "lotterypool", envelope.SourceService)
	_, err := uuid.Parse(envelope.EventID)
	assert.NoError(t, err)

	var payload events.BalanceChangeEvent
	require.NoError(t, json.Unmarshal(envelope.Payload, &payload))
	assert.Equal(t, event, payload)
}

func TestNATSEventPublisher_Errors(t *testing.T) {
	t.Run("missing stream is tolerated", func(t *testing.T) {
		client := &fakeMessageClient{err: errors.New("nats: no response from stream")}
		publisher := newEventPublisher(client, NewEventSubjectMapper())
		assert.NoError(t, publisher.Publish(testWinnerPicked()))
	})

	t.Run("other failures are returned", func(t *testing.T) {
		client := &fakeMessageClient{err: errors.New("nats: connection closed")}
		publisher := newEventPublisher(client, NewEventSubjectMapper())
		assert.Error(t, publisher.Publish(testWinnerPicked()))
	})
}
