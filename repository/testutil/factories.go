package testutil

import (
	"context"
	"fmt"
	"testing"

	"lotterypool/database"
	"lotterypool/domain/entities"

	"github.com/stretchr/testify/require"
)

// TestAddress returns a deterministic valid address for index n
func TestAddress(n int) entities.Address {
	return entities.Address(fmt.Sprintf("0x%040x", n))
}

// CreateFundedAccount inserts an account holding balance base units
func CreateFundedAccount(t *testing.T, db *database.DB, address entities.Address, balance int64) {
	t.Helper()
	_, err := db.Exec(context.Background(),
		`INSERT INTO accounts (address, balance) VALUES ($1, $2)`, address, balance)
	require.NoError(t, err)
}

// CreateTestBalanceHistory creates a balance history entry for address
func CreateTestBalanceHistory(address entities.Address, transactionType entities.TransactionType) *entities.BalanceHistory {
	return &entities.BalanceHistory{
		Address:         address,
		BalanceBefore:   entities.BaseUnitsPerCoin,
		BalanceAfter:    entities.BaseUnitsPerCoin - entities.MinimumEntry,
		ChangeAmount:    -entities.MinimumEntry,
		TransactionType: transactionType,
		TransactionMetadata: map[string]any{
			"test": true,
		},
	}
}

// AccountBalance reads an account balance directly
func AccountBalance(t *testing.T, db *database.DB, address entities.Address) int64 {
	t.Helper()
	var balance int64
	err := db.QueryRow(context.Background(), `SELECT balance FROM accounts WHERE address = $1`, address).Scan(&balance)
	require.NoError(t, err)
	return balance
}

// LedgerTotal sums every account and pool balance; transfers between them never change it
func LedgerTotal(t *testing.T, db *database.DB) int64 {
	t.Helper()
	var total int64
	err := db.QueryRow(context.Background(), `
		SELECT (
			(SELECT COALESCE(SUM(balance), 0) FROM accounts) +
			(SELECT COALESCE(SUM(balance), 0) FROM lottery_pools)
		)::BIGINT
	`).Scan(&total)
	require.NoError(t, err)
	return total
}
