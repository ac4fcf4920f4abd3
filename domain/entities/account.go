package entities

import "time"

// Account holds a native-currency balance on the ledger.
// A frozen account can neither send nor receive funds.
type Account struct {
	Address   Address   `db:"address"`
	Balance   int64     `db:"balance"`
	Frozen    bool      `db:"frozen"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// CanSend reports whether the account can pay amount
func (a *Account) CanSend(amount int64) bool {
	return !a.Frozen && amount >= 0 && a.Balance >= amount
}

// CanReceive reports whether the account accepts incoming funds
func (a *Account) CanReceive() bool {
	return !a.Frozen
}
