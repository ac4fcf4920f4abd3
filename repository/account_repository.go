package repository

import (
	"context"
	"errors"
	"fmt"

	"lotterypool/database"
	"lotterypool/domain/entities"

	"github.com/jackc/pgx/v5"
)

// AccountRepository implements the AccountRepository interface
type AccountRepository struct {
	q Queryable
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{q: db.Pool}
}

// NewAccountRepositoryScoped creates a new account repository bound to a transaction
func NewAccountRepositoryScoped(tx Queryable) *AccountRepository {
	return &AccountRepository{q: tx}
}

const accountColumns = `address, balance, frozen, created_at, updated_at`

// GetByAddress retrieves an account, or nil if it does not exist
func (r *AccountRepository) GetByAddress(ctx context.Context, address entities.Address) (*entities.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE address = $1`
	return r.getOne(ctx, query, address)
}

// GetByAddressForUpdate retrieves an account and locks its row until the transaction ends
func (r *AccountRepository) GetByAddressForUpdate(ctx context.Context, address entities.Address) (*entities.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE address = $1 FOR UPDATE`
	return r.getOne(ctx, query, address)
}

func (r *AccountRepository) getOne(ctx context.Context, query string, address entities.Address) (*entities.Account, error) {
	var account entities.Account
	err := r.q.QueryRow(ctx, query, address).Scan(
		&account.Address,
		&account.Balance,
		&account.Frozen,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", address, err)
	}
	return &account, nil
}

// Create inserts a new account. If another transaction created the address first,
// the existing row is returned and created is false.
func (r *AccountRepository) Create(ctx context.Context, address entities.Address, initialBalance int64) (*entities.Account, bool, error) {
	query := `
		INSERT INTO accounts (address, balance)
		VALUES ($1, $2)
		ON CONFLICT (address) DO NOTHING
		RETURNING ` + accountColumns

	var account entities.Account
	err := r.q.QueryRow(ctx, query, address, initialBalance).Scan(
		&account.Address,
		&account.Balance,
		&account.Frozen,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		existing, err := r.GetByAddress(ctx, address)
		if err != nil {
			return nil, false, err
		}
		if existing == nil {
			return nil, false, fmt.Errorf("account %s vanished after conflicting insert", address)
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to create account %s: %w", address, err)
	}
	return &account, true, nil
}

// UpdateBalance sets an account balance
func (r *AccountRepository) UpdateBalance(ctx context.Context, address entities.Address, newBalance int64) error {
	query := `
		UPDATE accounts
		SET balance = $2, updated_at = NOW()
		WHERE address = $1
	`

	result, err := r.q.Exec(ctx, query, address, newBalance)
	if err != nil {
		return fmt.Errorf("failed to update balance of %s: %w", address, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("account %s not found", address)
	}
	return nil
}

// SetFrozen sets the frozen flag of an account
func (r *AccountRepository) SetFrozen(ctx context.Context, address entities.Address, frozen bool) error {
	query := `
		UPDATE accounts
		SET frozen = $2, updated_at = NOW()
		WHERE address = $1
	`

	result, err := r.q.Exec(ctx, query, address, frozen)
	if err != nil {
		return fmt.Errorf("failed to set frozen flag of %s: %w", address, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("account %s not found", address)
	}
	return nil
}

// LinkDiscordUser records which Discord user owns a derived address. Relinking is a no-op.
func (r *AccountRepository) LinkDiscordUser(ctx context.Context, address entities.Address, discordUserID string) error {
	query := `
		INSERT INTO discord_accounts (address, discord_user_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`

	if _, err := r.q.Exec(ctx, query, address, discordUserID); err != nil {
		return fmt.Errorf("failed to link %s to discord user %s: %w", address, discordUserID, err)
	}
	return nil
}

// GetDiscordUserIDs returns the Discord user behind each linked address.
// Addresses without a link are absent from the map.
func (r *AccountRepository) GetDiscordUserIDs(ctx context.Context, addresses []entities.Address) (map[entities.Address]string, error) {
	userIDs := make(map[entities.Address]string, len(addresses))
	if len(addresses) == 0 {
		return userIDs, nil
	}

	raw := make([]string, len(addresses))
	for i, addr := range addresses {
		raw[i] = addr.String()
	}

	rows, err := r.q.Query(ctx, `SELECT address, discord_user_id FROM discord_accounts WHERE address = ANY($1)`, raw)
	if err != nil {
		return nil, fmt.Errorf("failed to query discord users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var address entities.Address
		var userID string
		if err := rows.Scan(&address, &userID); err != nil {
			return nil, fmt.Errorf("failed to scan discord user: %w", err)
		}
		userIDs[address] = userID
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating discord users: %w", err)
	}
	return userIDs, nil
}
