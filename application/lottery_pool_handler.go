package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lotterypool/domain"
	"lotterypool/domain/entities"
	"lotterypool/domain/interfaces"
	"lotterypool/domain/services"
	"lotterypool/infrastructure/observability"

	log "github.com/sirupsen/logrus"
)

// lotteryPoolHandler implements LotteryPoolHandler
type lotteryPoolHandler struct {
	uowFactory UnitOfWorkFactory
	entropy    interfaces.EntropySource
	now        func() time.Time
}

// NewLotteryPoolHandler creates a new lottery pool handler
func NewLotteryPoolHandler(uowFactory UnitOfWorkFactory) LotteryPoolHandler {
	return &lotteryPoolHandler{
		uowFactory: uowFactory,
		entropy:    services.NewBlockEntropy(),
		now:        time.Now,
	}
}

// execute runs fn in a unit of work and commits when it succeeds
func (h *lotteryPoolHandler) execute(ctx context.Context, fn func(uow UnitOfWork) error) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := fn(uow); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// query runs fn in a unit of work that is always rolled back
func (h *lotteryPoolHandler) query(ctx context.Context, fn func(uow UnitOfWork) error) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return fn(uow)
}

func (h *lotteryPoolHandler) poolService(uow UnitOfWork) interfaces.LotteryPoolService {
	return services.NewLotteryPoolService(
		uow.LotteryPoolRepository(),
		uow.PoolEntryRepository(),
		uow.PoolDrawRepository(),
		uow.AccountRepository(),
		uow.BalanceHistoryRepository(),
		h.entropy,
		uow.EventBus(),
	)
}

func (h *lotteryPoolHandler) accountService(uow UnitOfWork) interfaces.AccountService {
	return services.NewAccountService(
		uow.AccountRepository(),
		uow.BalanceHistoryRepository(),
		uow.EventBus(),
	)
}

// executionContext builds the call context; the ledger head stands in for the block height
func (h *lotteryPoolHandler) executionContext(ctx context.Context, uow UnitOfWork, caller entities.Address, value int64) (entities.ExecutionContext, error) {
	height, err := uow.BalanceHistoryRepository().GetLatestID(ctx)
	if err != nil {
		return entities.ExecutionContext{}, fmt.Errorf("failed to read ledger height: %w", err)
	}

	return entities.ExecutionContext{
		Caller: caller,
		Value:  value,
		Block: entities.BlockContext{
			Height:    height,
			Timestamp: h.now().UTC(),
		},
	}, nil
}

func (h *lotteryPoolHandler) Deploy(ctx context.Context, caller entities.Address) (*entities.LotteryPool, error) {
	return h.deploy(ctx, nil, caller)
}

func (h *lotteryPoolHandler) DeployForGuild(ctx context.Context, guildID int64, caller entities.Address) (*entities.LotteryPool, error) {
	return h.deploy(ctx, &guildID, caller)
}

func (h *lotteryPoolHandler) deploy(ctx context.Context, guildID *int64, caller entities.Address) (*entities.LotteryPool, error) {
	var pool *entities.LotteryPool
	err := h.execute(ctx, func(uow UnitOfWork) error {
		call, err := h.executionContext(ctx, uow, caller, 0)
		if err != nil {
			return err
		}

		service := h.poolService(uow)
		if guildID != nil {
			pool, err = service.DeployForGuild(ctx, *guildID, call)
		} else {
			pool, err = service.Deploy(ctx, call)
		}
		return err
	})
	if err != nil {
		recordRejection(observability.OperationDeploy, err)
		return nil, err
	}

	log.WithFields(log.Fields{
		"pool_id": pool.ID,
		"manager": pool.Manager,
	}).Info("Lottery pool deployed")

	return pool, nil
}

func (h *lotteryPoolHandler) Enter(ctx context.Context, poolID int64, caller entities.Address, value int64) (*entities.PoolEntry, error) {
	if !caller.IsValid() {
		return nil, fmt.Errorf("%w: caller %q", domain.ErrInvalidAddress, caller)
	}

	var entry *entities.PoolEntry
	err := h.execute(ctx, func(uow UnitOfWork) error {
		call, err := h.executionContext(ctx, uow, caller, value)
		if err != nil {
			return err
		}

		entry, err = h.poolService(uow).Enter(ctx, poolID, call)
		return err
	})
	if err != nil {
		recordRejection(observability.OperationEnter, err)
		return nil, err
	}

	observability.GetMetrics().RecordPoolEntry(entry.Stake)

	log.WithFields(log.Fields{
		"pool_id":  poolID,
		"round":    entry.Round,
		"position": entry.Position,
		"player":   entry.Player,
		"stake":    entities.FormatAmount(entry.Stake),
	}).Info("Player entered lottery pool")

	return entry, nil
}

func (h *lotteryPoolHandler) PickWinner(ctx context.Context, poolID int64, caller entities.Address) (*interfaces.PoolDrawResult, error) {
	var result *interfaces.PoolDrawResult
	err := h.execute(ctx, func(uow UnitOfWork) error {
		call, err := h.executionContext(ctx, uow, caller, 0)
		if err != nil {
			return err
		}

		result, err = h.poolService(uow).PickWinner(ctx, poolID, call)
		return err
	})
	if err != nil {
		recordRejection(observability.OperationPickWinner, err)
		if errors.Is(err, domain.ErrTransferFailure) {
			log.WithFields(log.Fields{
				"pool_id": poolID,
				"error":   err,
			}).Warn("Payout failed, draw rolled back")
		}
		return nil, err
	}

	observability.GetMetrics().RecordDraw(result.Draw.Payout)

	log.WithFields(log.Fields{
		"pool_id":           poolID,
		"round":             result.Draw.Round,
		"winner":            result.Draw.Winner,
		"winning_index":     result.Draw.WinningIndex,
		"participant_count": result.Draw.ParticipantCount,
		"payout":            entities.FormatAmount(result.Draw.Payout),
	}).Info("Lottery pool winner picked")

	return result, nil
}

func (h *lotteryPoolHandler) GetPlayers(ctx context.Context, poolID int64) ([]entities.Address, error) {
	var players []entities.Address
	err := h.query(ctx, func(uow UnitOfWork) error {
		var err error
		players, err = h.poolService(uow).GetPlayers(ctx, poolID)
		return err
	})
	return players, err
}

func (h *lotteryPoolHandler) GetPool(ctx context.Context, poolID int64) (*entities.LotteryPool, error) {
	var pool *entities.LotteryPool
	err := h.query(ctx, func(uow UnitOfWork) error {
		var err error
		pool, err = h.poolService(uow).GetPool(ctx, poolID)
		return err
	})
	return pool, err
}

func (h *lotteryPoolHandler) GetPoolByGuild(ctx context.Context, guildID int64) (*entities.LotteryPool, error) {
	var pool *entities.LotteryPool
	err := h.query(ctx, func(uow UnitOfWork) error {
		var err error
		pool, err = h.poolService(uow).GetPoolByGuild(ctx, guildID)
		return err
	})
	return pool, err
}

func (h *lotteryPoolHandler) ListDraws(ctx context.Context, poolID int64, limit int) ([]*entities.PoolDraw, error) {
	var draws []*entities.PoolDraw
	err := h.query(ctx, func(uow UnitOfWork) error {
		var err error
		draws, err = h.poolService(uow).ListDraws(ctx, poolID, limit)
		return err
	})
	return draws, err
}

func (h *lotteryPoolHandler) EnsureAccount(ctx context.Context, address entities.Address, initialBalance int64) (*entities.Account, error) {
	var account *entities.Account
	err := h.execute(ctx, func(uow UnitOfWork) error {
		var err error
		account, err = h.accountService(uow).GetOrCreateAccount(ctx, address, initialBalance)
		return err
	})
	return account, err
}

func (h *lotteryPoolHandler) GetBalance(ctx context.Context, address entities.Address) (int64, error) {
	var balance int64
	err := h.query(ctx, func(uow UnitOfWork) error {
		var err error
		balance, err = h.accountService(uow).GetBalance(ctx, address)
		return err
	})
	return balance, err
}

func (h *lotteryPoolHandler) Fund(ctx context.Context, address entities.Address, amount int64) (*entities.Account, error) {
	var account *entities.Account
	err := h.execute(ctx, func(uow UnitOfWork) error {
		var err error
		account, err = h.accountService(uow).Fund(ctx, address, amount)
		return err
	})
	if err != nil {
		recordRejection(observability.OperationFund, err)
		return nil, err
	}

	log.WithFields(log.Fields{
		"address": address,
		"amount":  entities.FormatAmount(amount),
		"balance": entities.FormatAmount(account.Balance),
	}).Info("Account funded")

	return account, nil
}

func (h *lotteryPoolHandler) SetFrozen(ctx context.Context, address entities.Address, frozen bool) error {
	err := h.execute(ctx, func(uow UnitOfWork) error {
		return h.accountService(uow).SetFrozen(ctx, address, frozen)
	})
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"address": address,
		"frozen":  frozen,
	}).Info("Account frozen state changed")
	return nil
}

func (h *lotteryPoolHandler) EnsureDiscordAccount(ctx context.Context, discordUserID string, initialBalance int64) (*entities.Account, error) {
	var account *entities.Account
	err := h.execute(ctx, func(uow UnitOfWork) error {
		var err error
		account, err = h.accountService(uow).EnsureDiscordAccount(ctx, discordUserID, initialBalance)
		return err
	})
	return account, err
}

func (h *lotteryPoolHandler) DiscordUserIDs(ctx context.Context, addresses []entities.Address) (map[entities.Address]string, error) {
	var userIDs map[entities.Address]string
	err := h.query(ctx, func(uow UnitOfWork) error {
		var err error
		userIDs, err = h.accountService(uow).DiscordUserIDs(ctx, addresses)
		return err
	})
	return userIDs, err
}

// recordRejection counts a rolled back call under the reason its error maps to
func recordRejection(operation string, err error) {
	observability.GetMetrics().RecordRejectedCall(operation, RejectionReason(err))
}

// RejectionReason maps an error to a metric label
func RejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientStake):
		return observability.ReasonInsufficientStake
	case errors.Is(err, domain.ErrUnauthorized):
		return observability.ReasonUnauthorized
	case errors.Is(err, domain.ErrNoParticipants):
		return observability.ReasonNoParticipants
	case errors.Is(err, domain.ErrTransferFailure):
		return observability.ReasonTransferFailure
	case errors.Is(err, domain.ErrInsufficientFunds):
		return observability.ReasonInsufficientFunds
	case errors.Is(err, domain.ErrAccountFrozen):
		return observability.ReasonAccountFrozen
	case errors.Is(err, domain.ErrPoolNotFound), errors.Is(err, domain.ErrAccountNotFound):
		return observability.ReasonNotFound
	case errors.Is(err, domain.ErrPoolAlreadyExists):
		return observability.ReasonAlreadyExists
	case errors.Is(err, domain.ErrInvalidAddress), errors.Is(err, domain.ErrInvalidAmount):
		return observability.ReasonInvalidInput
	default:
		return observability.ReasonInternal
	}
}
