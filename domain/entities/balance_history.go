package entities

import "time"

// RelatedType represents what type of entity the related_id refers to
type RelatedType string

const (
	RelatedTypePool RelatedType = "lottery_pool"
)

// BalanceHistory represents a historical balance change
type BalanceHistory struct {
	ID                  int64           `db:"id"`
	Address             Address         `db:"address"`
	BalanceBefore       int64           `db:"balance_before"`
	BalanceAfter        int64           `db:"balance_after"`
	ChangeAmount        int64           `db:"change_amount"`
	TransactionType     TransactionType `db:"transaction_type"`
	TransactionMetadata map[string]any  `db:"transaction_metadata"`
	RelatedID           *int64          `db:"related_id"`
	RelatedType         *RelatedType    `db:"related_type"`
	CreatedAt           time.Time       `db:"created_at"`
}

// IsPositiveChange returns true if the change amount is positive
func (bh *BalanceHistory) IsPositiveChange() bool {
	return bh.ChangeAmount > 0
}

// IsNegativeChange returns true if the change amount is negative
func (bh *BalanceHistory) IsNegativeChange() bool {
	return bh.ChangeAmount < 0
}

// GetTransactionDescription returns a human-readable description of the transaction
func (bh *BalanceHistory) GetTransactionDescription() string {
	switch bh.TransactionType {
	case TransactionTypeInitial:
		return "Initial balance"
	case TransactionTypeFunding:
		return "Funding"
	case TransactionTypePoolEntry:
		return "Pool entry"
	case TransactionTypePoolPayout:
		return "Pool payout"
	default:
		return string(bh.TransactionType)
	}
}

// PoolRelation returns the related id/type pair pointing at a pool
func PoolRelation(poolID int64) (*int64, *RelatedType) {
	relatedType := RelatedTypePool
	return &poolID, &relatedType
}
