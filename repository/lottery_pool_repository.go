package repository

import (
	"context"
	"errors"
	"fmt"

	"lotterypool/database"
	"lotterypool/domain"
	"lotterypool/domain/entities"

	"github.com/jackc/pgx/v5"
)

// LotteryPoolRepository implements the LotteryPoolRepository interface
type LotteryPoolRepository struct {
	q Queryable
}

// NewLotteryPoolRepository creates a new lottery pool repository
func NewLotteryPoolRepository(db *database.DB) *LotteryPoolRepository {
	return &LotteryPoolRepository{q: db.Pool}
}

// NewLotteryPoolRepositoryScoped creates a new lottery pool repository bound to a transaction
func NewLotteryPoolRepositoryScoped(tx Queryable) *LotteryPoolRepository {
	return &LotteryPoolRepository{q: tx}
}

const poolColumns = `id, manager, balance, round, guild_id, created_at, updated_at`

func scanPool(row pgx.Row) (*entities.LotteryPool, error) {
	var pool entities.LotteryPool
	err := row.Scan(
		&pool.ID,
		&pool.Manager,
		&pool.Balance,
		&pool.Round,
		&pool.GuildID,
		&pool.CreatedAt,
		&pool.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &pool, nil
}

// Create inserts a new pool with zero balance in round 1
func (r *LotteryPoolRepository) Create(ctx context.Context, manager entities.Address, guildID *int64) (*entities.LotteryPool, error) {
	query := `
		INSERT INTO lottery_pools (manager, guild_id)
		VALUES ($1, $2)
		RETURNING ` + poolColumns

	pool, err := scanPool(r.q.QueryRow(ctx, query, manager, guildID))
	if err != nil {
		if guildID != nil && isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: guild %d", domain.ErrPoolAlreadyExists, *guildID)
		}
		return nil, fmt.Errorf("failed to create pool for manager %s: %w", manager, err)
	}
	return pool, nil
}

// GetByID retrieves a pool by ID
func (r *LotteryPoolRepository) GetByID(ctx context.Context, id int64) (*entities.LotteryPool, error) {
	query := `SELECT ` + poolColumns + ` FROM lottery_pools WHERE id = $1`

	pool, err := scanPool(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pool %d: %w", id, err)
	}
	return pool, nil
}

// GetByIDForUpdate retrieves a pool by ID and locks its row for the rest of the transaction
func (r *LotteryPoolRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.LotteryPool, error) {
	query := `SELECT ` + poolColumns + ` FROM lottery_pools WHERE id = $1 FOR UPDATE`

	pool, err := scanPool(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock pool %d: %w", id, err)
	}
	return pool, nil
}

// GetByGuildID retrieves the pool bound to a guild
func (r *LotteryPoolRepository) GetByGuildID(ctx context.Context, guildID int64) (*entities.LotteryPool, error) {
	query := `SELECT ` + poolColumns + ` FROM lottery_pools WHERE guild_id = $1`

	pool, err := scanPool(r.q.QueryRow(ctx, query, guildID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pool for guild %d: %w", guildID, err)
	}
	return pool, nil
}

// UpdateState persists balance and round. The manager column is never written.
func (r *LotteryPoolRepository) UpdateState(ctx context.Context, pool *entities.LotteryPool) error {
	query := `
		UPDATE lottery_pools
		SET balance = $2, round = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.q.QueryRow(ctx, query, pool.ID, pool.Balance, pool.Round).Scan(&pool.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %d", domain.ErrPoolNotFound, pool.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to update pool %d: %w", pool.ID, err)
	}
	return nil
}
