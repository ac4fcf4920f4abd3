package testhelpers

import (
	"context"

	"lotterypool/domain/entities"
	"lotterypool/domain/events"

	"github.com/stretchr/testify/mock"
)

// MockLotteryPoolRepository is a mock implementation of LotteryPoolRepository
type MockLotteryPoolRepository struct {
	mock.Mock
}

func (m *MockLotteryPoolRepository) Create(ctx context.Context, manager entities.Address, guildID *int64) (*entities.LotteryPool, error) {
	args := m.Called(ctx, manager, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LotteryPool), args.Error(1)
}

func (m *MockLotteryPoolRepository) GetByID(ctx context.Context, id int64) (*entities.LotteryPool, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LotteryPool), args.Error(1)
}

func (m *MockLotteryPoolRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.LotteryPool, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LotteryPool), args.Error(1)
}

func (m *MockLotteryPoolRepository) GetByGuildID(ctx context.Context, guildID int64) (*entities.LotteryPool, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LotteryPool), args.Error(1)
}

func (m *MockLotteryPoolRepository) UpdateState(ctx context.Context, pool *entities.LotteryPool) error {
	args := m.Called(ctx, pool)
	return args.Error(0)
}

// MockPoolEntryRepository is a mock implementation of PoolEntryRepository
type MockPoolEntryRepository struct {
	mock.Mock
}

func (m *MockPoolEntryRepository) Append(ctx context.Context, entry *entities.PoolEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockPoolEntryRepository) GetByRound(ctx context.Context, poolID, round int64) ([]*entities.PoolEntry, error) {
	args := m.Called(ctx, poolID, round)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.PoolEntry), args.Error(1)
}

func (m *MockPoolEntryRepository) CountByRound(ctx context.Context, poolID, round int64) (int, error) {
	args := m.Called(ctx, poolID, round)
	return args.Int(0), args.Error(1)
}

// MockPoolDrawRepository is a mock implementation of PoolDrawRepository
type MockPoolDrawRepository struct {
	mock.Mock
}

func (m *MockPoolDrawRepository) Create(ctx context.Context, draw *entities.PoolDraw) error {
	args := m.Called(ctx, draw)
	return args.Error(0)
}

func (m *MockPoolDrawRepository) GetByPool(ctx context.Context, poolID int64, limit int) ([]*entities.PoolDraw, error) {
	args := m.Called(ctx, poolID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.PoolDraw), args.Error(1)
}

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetByAddress(ctx context.Context, address entities.Address) (*entities.Account, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByAddressForUpdate(ctx context.Context, address entities.Address) (*entities.Account, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, address entities.Address, initialBalance int64) (*entities.Account, bool, error) {
	args := m.Called(ctx, address, initialBalance)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*entities.Account), args.Bool(1), args.Error(2)
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, address entities.Address, newBalance int64) error {
	args := m.Called(ctx, address, newBalance)
	return args.Error(0)
}

func (m *MockAccountRepository) SetFrozen(ctx context.Context, address entities.Address, frozen bool) error {
	args := m.Called(ctx, address, frozen)
	return args.Error(0)
}

func (m *MockAccountRepository) LinkDiscordUser(ctx context.Context, address entities.Address, discordUserID string) error {
	args := m.Called(ctx, address, discordUserID)
	return args.Error(0)
}

func (m *MockAccountRepository) GetDiscordUserIDs(ctx context.Context, addresses []entities.Address) (map[entities.Address]string, error) {
	args := m.Called(ctx, addresses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[entities.Address]string), args.Error(1)
}

// MockBalanceHistoryRepository is a mock implementation of BalanceHistoryRepository
type MockBalanceHistoryRepository struct {
	mock.Mock
}

func (m *MockBalanceHistoryRepository) Record(ctx context.Context, history *entities.BalanceHistory) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

func (m *MockBalanceHistoryRepository) GetByAddress(ctx context.Context, address entities.Address, limit int) ([]*entities.BalanceHistory, error) {
	args := m.Called(ctx, address, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.BalanceHistory), args.Error(1)
}

func (m *MockBalanceHistoryRepository) GetLatestID(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// MockEntropySource returns a fixed seed
type MockEntropySource struct {
	mock.Mock
}

func (m *MockEntropySource) Seed(block entities.BlockContext, pool *entities.LotteryPool, players []entities.Address) []byte {
	args := m.Called(block, pool, players)
	return args.Get(0).([]byte)
}
