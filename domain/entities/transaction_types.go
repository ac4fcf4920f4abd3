package entities

// TransactionType represents the type of balance change
type TransactionType string

const (
	TransactionTypeInitial    TransactionType = "initial"
	TransactionTypeFunding    TransactionType = "funding"
	TransactionTypePoolEntry  TransactionType = "pool_entry"
	TransactionTypePoolPayout TransactionType = "pool_payout"
)

// IsCredit returns true for transaction types that increase a balance
func (t TransactionType) IsCredit() bool {
	switch t {
	case TransactionTypeInitial, TransactionTypeFunding, TransactionTypePoolPayout:
		return true
	default:
		return false
	}
}

// IsPoolRelated returns true for transactions that move funds in or out of a pool
func (t TransactionType) IsPoolRelated() bool {
	return t == TransactionTypePoolEntry || t == TransactionTypePoolPayout
}
