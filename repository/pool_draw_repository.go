package repository

import (
	"context"
	"fmt"
	"time"

	"lotterypool/database"
	"lotterypool/domain/entities"
)

// PoolDrawRepository implements the PoolDrawRepository interface
type PoolDrawRepository struct {
	q Queryable
}

// NewPoolDrawRepository creates a new pool draw repository
func NewPoolDrawRepository(db *database.DB) *PoolDrawRepository {
	return &PoolDrawRepository{q: db.Pool}
}

// NewPoolDrawRepositoryScoped creates a new pool draw repository bound to a transaction
func NewPoolDrawRepositoryScoped(tx Queryable) *PoolDrawRepository {
	return &PoolDrawRepository{q: tx}
}

// Create records a completed draw. A zero DrawnAt is replaced by the database clock.
func (r *PoolDrawRepository) Create(ctx context.Context, draw *entities.PoolDraw) error {
	query := `
		INSERT INTO pool_draws
		(pool_id, round, winner, winning_index, participant_count, payout, seed, block_height, drawn_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, COALESCE($9, NOW()))
		RETURNING id, drawn_at
	`

	var drawnAt *time.Time
	if !draw.DrawnAt.IsZero() {
		drawnAt = &draw.DrawnAt
	}

	err := r.q.QueryRow(ctx, query,
		draw.PoolID,
		draw.Round,
		draw.Winner,
		draw.WinningIndex,
		draw.ParticipantCount,
		draw.Payout,
		draw.Seed,
		draw.BlockHeight,
		drawnAt,
	).Scan(&draw.ID, &draw.DrawnAt)
	if err != nil {
		return fmt.Errorf("failed to record draw for pool %d round %d: %w", draw.PoolID, draw.Round, err)
	}
	return nil
}

// GetByPool returns the most recent draws of a pool, newest first
func (r *PoolDrawRepository) GetByPool(ctx context.Context, poolID int64, limit int) ([]*entities.PoolDraw, error) {
	query := `
		SELECT id, pool_id, round, winner, winning_index, participant_count, payout, seed, block_height, drawn_at
		FROM pool_draws
		WHERE pool_id = $1
		ORDER BY round DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, poolID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get draws of pool %d: %w", poolID, err)
	}
	defer rows.Close()

	draws := make([]*entities.PoolDraw, 0)
	for rows.Next() {
		var draw entities.PoolDraw
		err := rows.Scan(
			&draw.ID,
			&draw.PoolID,
			&draw.Round,
			&draw.Winner,
			&draw.WinningIndex,
			&draw.ParticipantCount,
			&draw.Payout,
			&draw.Seed,
			&draw.BlockHeight,
			&draw.DrawnAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pool draw: %w", err)
		}
		draws = append(draws, &draw)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pool draws: %w", err)
	}

	return draws, nil
}
