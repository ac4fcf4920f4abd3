package services

import (
	"context"
	"fmt"

	"lotterypool/domain"
	"lotterypool/domain/entities"
	"lotterypool/domain/interfaces"
	"lotterypool/domain/utils"

	log "github.com/sirupsen/logrus"
)

// accountService implements ledger account operations
type accountService struct {
	accountRepo        interfaces.AccountRepository
	balanceHistoryRepo interfaces.BalanceHistoryRepository
	eventPublisher     interfaces.EventPublisher
}

// NewAccountService creates a new account service
func NewAccountService(
	accountRepo interfaces.AccountRepository,
	balanceHistoryRepo interfaces.BalanceHistoryRepository,
	eventPublisher interfaces.EventPublisher,
) interfaces.AccountService {
	return &accountService{
		accountRepo:        accountRepo,
		balanceHistoryRepo: balanceHistoryRepo,
		eventPublisher:     eventPublisher,
	}
}

// GetOrCreateAccount retrieves an existing account or creates one with initialBalance
func (s *accountService) GetOrCreateAccount(ctx context.Context, address entities.Address, initialBalance int64) (*entities.Account, error) {
	if !address.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidAddress, address)
	}
	if initialBalance < 0 {
		return nil, fmt.Errorf("%w: negative initial balance", domain.ErrInvalidAmount)
	}

	account, err := s.accountRepo.GetByAddress(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account != nil {
		return account, nil
	}

	account, created, err := s.accountRepo.Create(ctx, address, initialBalance)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	if !created {
		return account, nil
	}

	if initialBalance > 0 {
		history := &entities.BalanceHistory{
			Address:         address,
			BalanceBefore:   0,
			BalanceAfter:    initialBalance,
			ChangeAmount:    initialBalance,
			TransactionType: entities.TransactionTypeInitial,
			TransactionMetadata: map[string]any{
				"initial_balance": initialBalance,
			},
		}
		if err := utils.RecordBalanceChange(ctx, s.balanceHistoryRepo, s.eventPublisher, history); err != nil {
			return nil, fmt.Errorf("failed to record initial balance: %w", err)
		}
	}

	log.WithFields(log.Fields{
		"address":        address,
		"initialBalance": initialBalance,
	}).Debug("Account created")

	return account, nil
}

// Fund credits amount to an account, creating the account if needed
func (s *accountService) Fund(ctx context.Context, address entities.Address, amount int64) (*entities.Account, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: funding amount must be positive", domain.ErrInvalidAmount)
	}

	if _, err := s.GetOrCreateAccount(ctx, address, 0); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.GetByAddressForUpdate(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("failed to lock account: %w", err)
	}
	if account == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, address)
	}
	if !account.CanReceive() {
		return nil, fmt.Errorf("%w: %s", domain.ErrAccountFrozen, address)
	}

	if _, err := utils.ApplyBalanceChange(ctx, s.accountRepo, s.balanceHistoryRepo, s.eventPublisher,
		account, amount, entities.TransactionTypeFunding, map[string]any{"amount": amount}, nil); err != nil {
		return nil, fmt.Errorf("failed to fund account: %w", err)
	}

	return account, nil
}

// GetBalance returns the balance of an address. Unknown addresses hold zero.
func (s *accountService) GetBalance(ctx context.Context, address entities.Address) (int64, error) {
	account, err := s.accountRepo.GetByAddress(ctx, address)
	if err != nil {
		return 0, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return 0, nil
	}
	return account.Balance, nil
}

// SetFrozen freezes or unfreezes an account
func (s *accountService) SetFrozen(ctx context.Context, address entities.Address, frozen bool) error {
	account, err := s.accountRepo.GetByAddressForUpdate(ctx, address)
	if err != nil {
		return fmt.Errorf("failed to lock account: %w", err)
	}
	if account == nil {
		return fmt.Errorf("%w: %s", domain.ErrAccountNotFound, address)
	}

	if err := s.accountRepo.SetFrozen(ctx, address, frozen); err != nil {
		return fmt.Errorf("failed to set frozen flag: %w", err)
	}

	log.WithFields(log.Fields{
		"address": address,
		"frozen":  frozen,
	}).Info("Account frozen flag changed")
	return nil
}

// EnsureDiscordAccount opens the account derived from a Discord user and links the two
func (s *accountService) EnsureDiscordAccount(ctx context.Context, discordUserID string, initialBalance int64) (*entities.Account, error) {
	if discordUserID == "" {
		return nil, fmt.Errorf("%w: empty discord user id", domain.ErrInvalidAddress)
	}

	address := entities.DiscordAddress(discordUserID)
	account, err := s.GetOrCreateAccount(ctx, address, initialBalance)
	if err != nil {
		return nil, err
	}

	if err := s.accountRepo.LinkDiscordUser(ctx, address, discordUserID); err != nil {
		return nil, fmt.Errorf("failed to link discord user: %w", err)
	}
	return account, nil
}

// DiscordUserIDs maps linked addresses back to Discord users
func (s *accountService) DiscordUserIDs(ctx context.Context, addresses []entities.Address) (map[entities.Address]string, error) {
	userIDs, err := s.accountRepo.GetDiscordUserIDs(ctx, addresses)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve discord users: %w", err)
	}
	return userIDs, nil
}
