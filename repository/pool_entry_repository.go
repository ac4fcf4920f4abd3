package repository

import (
	"context"
	"fmt"

	"lotterypool/database"
	"lotterypool/domain/entities"
)

// PoolEntryRepository implements the PoolEntryRepository interface
type PoolEntryRepository struct {
	q Queryable
}

// NewPoolEntryRepository creates a new pool entry repository
func NewPoolEntryRepository(db *database.DB) *PoolEntryRepository {
	return &PoolEntryRepository{q: db.Pool}
}

// NewPoolEntryRepositoryScoped creates a new pool entry repository bound to a transaction
func NewPoolEntryRepositoryScoped(tx Queryable) *PoolEntryRepository {
	return &PoolEntryRepository{q: tx}
}

// Append inserts an entry at its position in the round
func (r *PoolEntryRepository) Append(ctx context.Context, entry *entities.PoolEntry) error {
	query := `
		INSERT INTO pool_entries (pool_id, round, position, player, stake, balance_history_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, entered_at
	`

	err := r.q.QueryRow(ctx, query,
		entry.PoolID,
		entry.Round,
		entry.Position,
		entry.Player,
		entry.Stake,
		entry.BalanceHistoryID,
	).Scan(&entry.ID, &entry.EnteredAt)
	if err != nil {
		return fmt.Errorf("failed to append entry to pool %d round %d: %w", entry.PoolID, entry.Round, err)
	}
	return nil
}

// GetByRound returns the entries of a round ordered by position
func (r *PoolEntryRepository) GetByRound(ctx context.Context, poolID, round int64) ([]*entities.PoolEntry, error) {
	query := `
		SELECT id, pool_id, round, position, player, stake, balance_history_id, entered_at
		FROM pool_entries
		WHERE pool_id = $1 AND round = $2
		ORDER BY position ASC
	`

	rows, err := r.q.Query(ctx, query, poolID, round)
	if err != nil {
		return nil, fmt.Errorf("failed to get entries of pool %d round %d: %w", poolID, round, err)
	}
	defer rows.Close()

	entries := make([]*entities.PoolEntry, 0)
	for rows.Next() {
		var entry entities.PoolEntry
		err := rows.Scan(
			&entry.ID,
			&entry.PoolID,
			&entry.Round,
			&entry.Position,
			&entry.Player,
			&entry.Stake,
			&entry.BalanceHistoryID,
			&entry.EnteredAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pool entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pool entries: %w", err)
	}

	return entries, nil
}

// CountByRound returns the number of entries in a round
func (r *PoolEntryRepository) CountByRound(ctx context.Context, poolID, round int64) (int, error) {
	query := `SELECT COUNT(*) FROM pool_entries WHERE pool_id = $1 AND round = $2`

	var count int
	if err := r.q.QueryRow(ctx, query, poolID, round).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count entries of pool %d round %d: %w", poolID, round, err)
	}
	return count, nil
}
