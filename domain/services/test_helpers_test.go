package services

import (
	"testing"
	"time"

	"lotterypool/domain/entities"
	"lotterypool/domain/interfaces"
	"lotterypool/domain/testhelpers"

	"github.com/stretchr/testify/mock"
)

// Test constants for consistent test data
const (
	TestPoolID  = int64(1)
	TestGuildID = int64(555555555)

	TestManager = entities.Address("0x00000000000000000000000000000000000000aa")
	TestPlayerA = entities.Address("0x000000000000000000000000000000000000000a")
	TestPlayerB = entities.Address("0x000000000000000000000000000000000000000b")
	TestPlayerC = entities.Address("0x000000000000000000000000000000000000000c")

	TestStake = int64(20_000_000) // 0.02 coin
	OneCoin   = entities.BaseUnitsPerCoin
)

// PoolMocks aggregates the mocks used by the lottery pool service
type PoolMocks struct {
	PoolRepo           *testhelpers.MockLotteryPoolRepository
	EntryRepo          *testhelpers.MockPoolEntryRepository
	DrawRepo           *testhelpers.MockPoolDrawRepository
	AccountRepo        *testhelpers.MockAccountRepository
	BalanceHistoryRepo *testhelpers.MockBalanceHistoryRepository
	Entropy            *testhelpers.MockEntropySource
	EventPublisher     *testhelpers.MockEventPublisher
}

// NewPoolMocks creates a new set of mocks
func NewPoolMocks() *PoolMocks {
	return &PoolMocks{
		PoolRepo:           new(testhelpers.MockLotteryPoolRepository),
		EntryRepo:          new(testhelpers.MockPoolEntryRepository),
		DrawRepo:           new(testhelpers.MockPoolDrawRepository),
		AccountRepo:        new(testhelpers.MockAccountRepository),
		BalanceHistoryRepo: new(testhelpers.MockBalanceHistoryRepository),
		Entropy:            new(testhelpers.MockEntropySource),
		EventPublisher:     new(testhelpers.MockEventPublisher),
	}
}

// Service builds a lottery pool service wired to the mocks
func (m *PoolMocks) Service() interfaces.LotteryPoolService {
	return NewLotteryPoolService(m.PoolRepo, m.EntryRepo, m.DrawRepo, m.AccountRepo, m.BalanceHistoryRepo, m.Entropy, m.EventPublisher)
}

// AssertAllExpectations verifies all mock expectations were met
func (m *PoolMocks) AssertAllExpectations(t *testing.T) {
	m.PoolRepo.AssertExpectations(t)
	m.EntryRepo.AssertExpectations(t)
	m.DrawRepo.AssertExpectations(t)
	m.AccountRepo.AssertExpectations(t)
	m.BalanceHistoryRepo.AssertExpectations(t)
	m.Entropy.AssertExpectations(t)
	m.EventPublisher.AssertExpectations(t)
}

func testCall(caller entities.Address, value int64) entities.ExecutionContext {
	return entities.ExecutionContext{
		Caller: caller,
		Value:  value,
		Block: entities.BlockContext{
			Height:    42,
			Timestamp: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		},
	}
}

func testPool(balance, round int64) *entities.LotteryPool {
	return &entities.LotteryPool{
		ID:      TestPoolID,
		Manager: TestManager,
		Balance: balance,
		Round:   round,
	}
}

func testEntries(round int64, players ...entities.Address) []*entities.PoolEntry {
	entries := make([]*entities.PoolEntry, 0, len(players))
	for i, p := range players {
		entries = append(entries, &entities.PoolEntry{
			ID:       int64(i + 1),
			PoolID:   TestPoolID,
			Round:    round,
			Position: i,
			Player:   p,
			Stake:    TestStake,
		})
	}
	return entries
}

// expectBalanceChange registers the calls made when an account balance changes
func expectBalanceChange(m *PoolMocks, address entities.Address, newBalance int64, txType entities.TransactionType, historyID int64) {
	m.AccountRepo.On("UpdateBalance", mock.Anything, address, newBalance).Return(nil).Once()
	m.BalanceHistoryRepo.On("Record", mock.Anything, mock.MatchedBy(func(h *entities.BalanceHistory) bool {
		return h.Address == address && h.BalanceAfter == newBalance && h.TransactionType == txType
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*entities.BalanceHistory).ID = historyID
	}).Return(nil).Once()
}
