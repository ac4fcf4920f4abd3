package utils

import (
	"context"
	"fmt"
	"math"

	"lotterypool/domain"
	"lotterypool/domain/entities"
	"lotterypool/domain/events"
	"lotterypool/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// RecordBalanceChange records a balance history entry and emits a BalanceChangeEvent.
// Every account balance change goes through here.
func RecordBalanceChange(ctx context.Context, balanceHistoryRepo interfaces.BalanceHistoryRepository, eventPublisher interfaces.EventPublisher, history *entities.BalanceHistory) error {
	if err := balanceHistoryRepo.Record(ctx, history); err != nil {
		return fmt.Errorf("failed to record balance history: %w", err)
	}

	event := events.BalanceChangeEvent{
		Address:         history.Address,
		OldBalance:      history.BalanceBefore,
		NewBalance:      history.BalanceAfter,
		TransactionType: history.TransactionType,
		ChangeAmount:    history.ChangeAmount,
	}
	log.WithFields(log.Fields{
		"address":         event.Address,
		"oldBalance":      event.OldBalance,
		"newBalance":      event.NewBalance,
		"transactionType": event.TransactionType,
		"changeAmount":    event.ChangeAmount,
	}).Debug("Publishing BalanceChangeEvent")
	if err := eventPublisher.Publish(event); err != nil {
		log.WithError(err).Error("Failed to publish balance change event")
	}

	return nil
}

// ApplyBalanceChange writes the new balance of an already locked account and records
// the change. The account struct is updated in place.
func ApplyBalanceChange(
	ctx context.Context,
	accountRepo interfaces.AccountRepository,
	balanceHistoryRepo interfaces.BalanceHistoryRepository,
	eventPublisher interfaces.EventPublisher,
	account *entities.Account,
	change int64,
	transactionType entities.TransactionType,
	metadata map[string]any,
	relatedPoolID *int64,
) (*entities.BalanceHistory, error) {
	if change > 0 && account.Balance > math.MaxInt64-change {
		return nil, fmt.Errorf("%w: crediting %d to %s overflows its balance", domain.ErrInvalidAmount, change, account.Address)
	}

	newBalance := account.Balance + change
	if newBalance < 0 {
		return nil, fmt.Errorf("balance of %s would become negative", account.Address)
	}

	if err := accountRepo.UpdateBalance(ctx, account.Address, newBalance); err != nil {
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}

	history := &entities.BalanceHistory{
		Address:             account.Address,
		BalanceBefore:       account.Balance,
		BalanceAfter:        newBalance,
		ChangeAmount:        change,
		TransactionType:     transactionType,
		TransactionMetadata: metadata,
	}
	if relatedPoolID != nil {
		history.RelatedID, history.RelatedType = entities.PoolRelation(*relatedPoolID)
	}

	if err := RecordBalanceChange(ctx, balanceHistoryRepo, eventPublisher, history); err != nil {
		return nil, err
	}

	account.Balance = newBalance
	return history, nil
}
