package services

import (
	"context"
	"fmt"

	"lotterypool/domain"
	"lotterypool/domain/entities"
	"lotterypool/domain/events"
	"lotterypool/domain/interfaces"
	"lotterypool/domain/utils"

	log "github.com/sirupsen/logrus"
)

const (
	defaultDrawHistoryLimit = 10
	maxDrawHistoryLimit     = 100
)

// lotteryPoolService implements the pool state machine on top of the ledger
type lotteryPoolService struct {
	poolRepo           interfaces.LotteryPoolRepository
	entryRepo          interfaces.PoolEntryRepository
	drawRepo           interfaces.PoolDrawRepository
	accountRepo        interfaces.AccountRepository
	balanceHistoryRepo interfaces.BalanceHistoryRepository
	entropy            interfaces.EntropySource
	eventPublisher     interfaces.EventPublisher
}

// NewLotteryPoolService creates a new lottery pool service
func NewLotteryPoolService(
	poolRepo interfaces.LotteryPoolRepository,
	entryRepo interfaces.PoolEntryRepository,
	drawRepo interfaces.PoolDrawRepository,
	accountRepo interfaces.AccountRepository,
	balanceHistoryRepo interfaces.BalanceHistoryRepository,
	entropy interfaces.EntropySource,
	eventPublisher interfaces.EventPublisher,
) interfaces.LotteryPoolService {
	return &lotteryPoolService{
		poolRepo:           poolRepo,
		entryRepo:          entryRepo,
		drawRepo:           drawRepo,
		accountRepo:        accountRepo,
		balanceHistoryRepo: balanceHistoryRepo,
		entropy:            entropy,
		eventPublisher:     eventPublisher,
	}
}

// Deploy constructs a pool managed by the caller
func (s *lotteryPoolService) Deploy(ctx context.Context, call entities.ExecutionContext) (*entities.LotteryPool, error) {
	return s.deploy(ctx, nil, call)
}

// DeployForGuild constructs the pool of a Discord guild
func (s *lotteryPoolService) DeployForGuild(ctx context.Context, guildID int64, call entities.ExecutionContext) (*entities.LotteryPool, error) {
	existing, err := s.poolRepo.GetByGuildID(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing pool: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: guild %d has pool %d", domain.ErrPoolAlreadyExists, guildID, existing.ID)
	}

	return s.deploy(ctx, &guildID, call)
}

func (s *lotteryPoolService) deploy(ctx context.Context, guildID *int64, call entities.ExecutionContext) (*entities.LotteryPool, error) {
	if !call.Caller.IsValid() {
		return nil, fmt.Errorf("%w: manager %q", domain.ErrInvalidAddress, call.Caller)
	}

	account, err := s.accountRepo.GetByAddress(ctx, call.Caller)
	if err != nil {
		return nil, fmt.Errorf("failed to get manager account: %w", err)
	}
	if account == nil {
		if _, _, err := s.accountRepo.Create(ctx, call.Caller, 0); err != nil {
			return nil, fmt.Errorf("failed to create manager account: %w", err)
		}
	}

	pool, err := s.poolRepo.Create(ctx, call.Caller, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := s.eventPublisher.Publish(events.PoolDeployedEvent{
		PoolID:  pool.ID,
		Manager: pool.Manager,
		GuildID: pool.GuildID,
	}); err != nil {
		log.WithError(err).Error("Failed to publish pool deployed event")
	}

	log.WithFields(log.Fields{
		"poolID":  pool.ID,
		"manager": pool.Manager,
	}).Debug("Pool deployed")

	return pool, nil
}

// Enter moves call.Value from the caller into the pool and appends the caller to the participant list
func (s *lotteryPoolService) Enter(ctx context.Context, poolID int64, call entities.ExecutionContext) (*entities.PoolEntry, error) {
	if call.Value < entities.MinimumEntry {
		return nil, fmt.Errorf("%w: sent %s, minimum is %s",
			domain.ErrInsufficientStake, entities.FormatAmount(call.Value), entities.FormatAmount(entities.MinimumEntry))
	}

	pool, err := s.poolRepo.GetByIDForUpdate(ctx, poolID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock pool: %w", err)
	}
	if pool == nil {
		return nil, fmt.Errorf("%w: %d", domain.ErrPoolNotFound, poolID)
	}

	account, err := s.accountRepo.GetByAddressForUpdate(ctx, call.Caller)
	if err != nil {
		return nil, fmt.Errorf("failed to lock caller account: %w", err)
	}
	if account == nil {
		return nil, fmt.Errorf("%w: %s has no account", domain.ErrInsufficientFunds, call.Caller)
	}
	if account.Frozen {
		return nil, fmt.Errorf("%w: %s", domain.ErrAccountFrozen, call.Caller)
	}
	if !account.CanSend(call.Value) {
		return nil, fmt.Errorf("%w: have %s, need %s",
			domain.ErrInsufficientFunds, entities.FormatAmount(account.Balance), entities.FormatAmount(call.Value))
	}

	position, err := s.entryRepo.CountByRound(ctx, pool.ID, pool.Round)
	if err != nil {
		return nil, fmt.Errorf("failed to count entries: %w", err)
	}

	history, err := utils.ApplyBalanceChange(ctx, s.accountRepo, s.balanceHistoryRepo, s.eventPublisher,
		account, -call.Value, entities.TransactionTypePoolEntry,
		map[string]any{
			"pool_id":  pool.ID,
			"round":    pool.Round,
			"position": position,
		},
		&pool.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to debit stake: %w", err)
	}

	entry := &entities.PoolEntry{
		PoolID:           pool.ID,
		Round:            pool.Round,
		Position:         position,
		Player:           call.Caller,
		Stake:            call.Value,
		BalanceHistoryID: history.ID,
	}
	if err := s.entryRepo.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to append entry: %w", err)
	}

	pool.Balance += call.Value
	if err := s.poolRepo.UpdateState(ctx, pool); err != nil {
		return nil, fmt.Errorf("failed to update pool balance: %w", err)
	}

	if err := s.eventPublisher.Publish(events.PlayerEnteredEvent{
		PoolID:      pool.ID,
		Round:       pool.Round,
		Position:    position,
		Player:      call.Caller,
		Stake:       call.Value,
		PoolBalance: pool.Balance,
	}); err != nil {
		log.WithError(err).Error("Failed to publish player entered event")
	}

	log.WithFields(log.Fields{
		"poolID":   pool.ID,
		"round":    pool.Round,
		"player":   call.Caller,
		"stake":    call.Value,
		"position": position,
	}).Debug("Player entered pool")

	return entry, nil
}

// GetPlayers returns the participant list of the current round
func (s *lotteryPoolService) GetPlayers(ctx context.Context, poolID int64) ([]entities.Address, error) {
	pool, err := s.GetPool(ctx, poolID)
	if err != nil {
		return nil, err
	}

	entries, err := s.entryRepo.GetByRound(ctx, pool.ID, pool.Round)
	if err != nil {
		return nil, fmt.Errorf("failed to get entries: %w", err)
	}

	return entities.Players(entries), nil
}

// PickWinner pays the whole pool balance to one participant and starts a new round.
// Local state is staged before the payout so that a failed transfer, which aborts
// the surrounding transaction, leaves the pool exactly as it was.
func (s *lotteryPoolService) PickWinner(ctx context.Context, poolID int64, call entities.ExecutionContext) (*interfaces.PoolDrawResult, error) {
	pool, err := s.poolRepo.GetByIDForUpdate(ctx, poolID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock pool: %w", err)
	}
	if pool == nil {
		return nil, fmt.Errorf("%w: %d", domain.ErrPoolNotFound, poolID)
	}

	if !pool.IsManager(call.Caller) {
		return nil, fmt.Errorf("%w: %s cannot draw pool %d", domain.ErrUnauthorized, call.Caller, pool.ID)
	}

	entries, err := s.entryRepo.GetByRound(ctx, pool.ID, pool.Round)
	if err != nil {
		return nil, fmt.Errorf("failed to get entries: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: pool %d round %d", domain.ErrNoParticipants, pool.ID, pool.Round)
	}

	players := entities.Players(entries)
	seed := s.entropy.Seed(call.Block, pool, players)
	index := WinnerIndex(seed, len(players))

	draw := &entities.PoolDraw{
		PoolID:           pool.ID,
		Round:            pool.Round,
		Winner:           players[index],
		WinningIndex:     index,
		ParticipantCount: len(players),
		Payout:           pool.Balance,
		Seed:             SeedHex(seed),
		BlockHeight:      call.Block.Height,
		DrawnAt:          call.Block.Timestamp,
	}
	if err := s.drawRepo.Create(ctx, draw); err != nil {
		return nil, fmt.Errorf("failed to record draw: %w", err)
	}

	pool.ResetForNextRound()
	if err := s.poolRepo.UpdateState(ctx, pool); err != nil {
		return nil, fmt.Errorf("failed to reset pool: %w", err)
	}

	winnerBalance, err := s.payout(ctx, draw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrTransferFailure, err)
	}

	if err := s.eventPublisher.Publish(events.WinnerPickedEvent{
		PoolID:           draw.PoolID,
		Round:            draw.Round,
		Winner:           draw.Winner,
		WinningIndex:     draw.WinningIndex,
		ParticipantCount: draw.ParticipantCount,
		Payout:           draw.Payout,
		Seed:             draw.Seed,
	}); err != nil {
		log.WithError(err).Error("Failed to publish winner picked event")
	}

	log.WithFields(log.Fields{
		"poolID":       draw.PoolID,
		"round":        draw.Round,
		"winner":       draw.Winner,
		"winningIndex": draw.WinningIndex,
		"participants": draw.ParticipantCount,
		"payout":       draw.Payout,
	}).Debug("Pool winner picked")

	return &interfaces.PoolDrawResult{
		Draw:          draw,
		Pool:          pool,
		Players:       players,
		WinnerBalance: winnerBalance,
	}, nil
}

// payout credits the draw's winner with the payout
func (s *lotteryPoolService) payout(ctx context.Context, draw *entities.PoolDraw) (int64, error) {
	account, err := s.accountRepo.GetByAddressForUpdate(ctx, draw.Winner)
	if err != nil {
		return 0, fmt.Errorf("failed to lock winner account: %w", err)
	}
	if account == nil {
		return 0, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, draw.Winner)
	}
	if !account.CanReceive() {
		return 0, fmt.Errorf("%w: %s", domain.ErrAccountFrozen, draw.Winner)
	}

	if _, err := utils.ApplyBalanceChange(ctx, s.accountRepo, s.balanceHistoryRepo, s.eventPublisher,
		account, draw.Payout, entities.TransactionTypePoolPayout,
		map[string]any{
			"pool_id":           draw.PoolID,
			"round":             draw.Round,
			"winning_index":     draw.WinningIndex,
			"participant_count": draw.ParticipantCount,
		},
		&draw.PoolID,
	); err != nil {
		return 0, err
	}

	return account.Balance, nil
}

// GetPool returns a pool by ID
func (s *lotteryPoolService) GetPool(ctx context.Context, poolID int64) (*entities.LotteryPool, error) {
	pool, err := s.poolRepo.GetByID(ctx, poolID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pool: %w", err)
	}
	if pool == nil {
		return nil, fmt.Errorf("%w: %d", domain.ErrPoolNotFound, poolID)
	}
	return pool, nil
}

// GetPoolByGuild returns the pool bound to a guild
func (s *lotteryPoolService) GetPoolByGuild(ctx context.Context, guildID int64) (*entities.LotteryPool, error) {
	pool, err := s.poolRepo.GetByGuildID(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get guild pool: %w", err)
	}
	if pool == nil {
		return nil, fmt.Errorf("%w: guild %d", domain.ErrPoolNotFound, guildID)
	}
	return pool, nil
}

// ListDraws returns the most recent draws of a pool, newest first
func (s *lotteryPoolService) ListDraws(ctx context.Context, poolID int64, limit int) ([]*entities.PoolDraw, error) {
	if _, err := s.GetPool(ctx, poolID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultDrawHistoryLimit
	}
	if limit > maxDrawHistoryLimit {
		limit = maxDrawHistoryLimit
	}

	draws, err := s.drawRepo.GetByPool(ctx, poolID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get draws: %w", err)
	}
	return draws, nil
}
