package testhelpers

import (
	"context"

	"lotterypool/domain/entities"
	"lotterypool/domain/interfaces"

	"github.com/stretchr/testify/mock"
)

// MockLotteryPoolHandler is a testify mock of application.LotteryPoolHandler
type MockLotteryPoolHandler struct {
	mock.Mock
}

func (m *MockLotteryPoolHandler) Deploy(ctx context.Context, caller entities.Address) (*entities.LotteryPool, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LotteryPool), args.Error(1)
}

func (m *MockLotteryPoolHandler) DeployForGuild(ctx context.Context, guildID int64, caller entities.Address) (*entities.LotteryPool, error) {
	args := m.Called(ctx, guildID, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LotteryPool), args.Error(1)
}

func (m *MockLotteryPoolHandler) Enter(ctx context.Context, poolID int64, caller entities.Address, value int64) (*entities.PoolEntry, error) {
	args := m.Called(ctx, poolID, caller, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PoolEntry), args.Error(1)
}

func (m *MockLotteryPoolHandler) PickWinner(ctx context.Context, poolID int64, caller entities.Address) (*interfaces.PoolDrawResult, error) {
	args := m.Called(ctx, poolID, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*interfaces.PoolDrawResult), args.Error(1)
}

func (m *MockLotteryPoolHandler) GetPlayers(ctx context.Context, poolID int64) ([]entities.Address, error) {
	args := m.Called(ctx, poolID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Address), args.Error(1)
}

func (m *MockLotteryPoolHandler) GetPool(ctx context.Context, poolID int64) (*entities.LotteryPool, error) {
	args := m.Called(ctx, poolID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LotteryPool), args.Error(1)
}

func (m *MockLotteryPoolHandler) GetPoolByGuild(ctx context.Context, guildID int64) (*entities.LotteryPool, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LotteryPool), args.Error(1)
}

func (m *MockLotteryPoolHandler) ListDraws(ctx context.Context, poolID int64, limit int) ([]*entities.PoolDraw, error) {
	args := m.Called(ctx, poolID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.PoolDraw), args.Error(1)
}

func (m *MockLotteryPoolHandler) EnsureAccount(ctx context.Context, address entities.Address, initialBalance int64) (*entities.Account, error) {
	args := m.Called(ctx, address, initialBalance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockLotteryPoolHandler) GetBalance(ctx context.Context, address entities.Address) (int64, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLotteryPoolHandler) Fund(ctx context.Context, address entities.Address, amount int64) (*entities.Account, error) {
	args := m.Called(ctx, address, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockLotteryPoolHandler) SetFrozen(ctx context.Context, address entities.Address, frozen bool) error {
	args := m.Called(ctx, address, frozen)
	return args.Error(0)
}

func (m *MockLotteryPoolHandler) EnsureDiscordAccount(ctx context.Context, discordUserID string, initialBalance int64) (*entities.Account, error) {
	args := m.Called(ctx, discordUserID, initialBalance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockLotteryPoolHandler) DiscordUserIDs(ctx context.Context, addresses []entities.Address) (map[entities.Address]string, error) {
	args := m.Called(ctx, addresses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[entities.Address]string), args.Error(1)
}
