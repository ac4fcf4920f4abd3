package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"lotterypool/domain/entities"
	"lotterypool/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := testutil.SetupTestDatabase(t)
	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	address := testutil.TestAddress(1)

	t.Run("missing account is nil", func(t *testing.T) {
		account, err := repo.GetByAddress(ctx, address)
		require.NoError(t, err)
		assert.Nil(t, account)
	})

	t.Run("create and get", func(t *testing.T) {
		created, ok, err := repo.Create(ctx, address, entities.BaseUnitsPerCoin)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, address, created.Address)
		assert.False(t, created.Frozen)

		account, err := repo.GetByAddressForUpdate(ctx, address)
		require.NoError(t, err)
		require.NotNil(t, account)
		assert.Equal(t, entities.BaseUnitsPerCoin, account.Balance)
	})

	t.Run("second create returns the existing row", func(t *testing.T) {
		again, ok, err := repo.Create(ctx, address, 3*entities.BaseUnitsPerCoin)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, entities.BaseUnitsPerCoin, again.Balance)
	})

	t.Run("concurrent creates of one address all succeed", func(t *testing.T) {
		racer := testutil.TestAddress(42)
		const workers = 8

		var wg sync.WaitGroup
		var inserted atomic.Int32
		errs := make(chan error, workers)
		for range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, ok, err := repo.Create(ctx, racer, 0)
				if err != nil {
					errs <- err
					return
				}
				if ok {
					inserted.Add(1)
				}
			}()
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			assert.NoError(t, err)
		}
		assert.Equal(t, int32(1), inserted.Load())

		account, err := repo.GetByAddress(ctx, racer)
		require.NoError(t, err)
		require.NotNil(t, account)
	})

	t.Run("update balance", func(t *testing.T) {
		require.NoError(t, repo.UpdateBalance(ctx, address, 5))

		account, err := repo.GetByAddress(ctx, address)
		require.NoError(t, err)
		assert.Equal(t, int64(5), account.Balance)
	})

	t.Run("negative balance is rejected by the schema", func(t *testing.T) {
		err := repo.UpdateBalance(ctx, address, -1)
		assert.Error(t, err)
	})

	t.Run("freeze", func(t *testing.T) {
		require.NoError(t, repo.SetFrozen(ctx, address, true))

		account, err := repo.GetByAddress(ctx, address)
		require.NoError(t, err)
		assert.True(t, account.Frozen)
	})

	t.Run("unknown account cannot be updated", func(t *testing.T) {
		err := repo.UpdateBalance(ctx, testutil.TestAddress(99), 1)
		assert.Error(t, err)
	})
}

func TestAccountRepository_DiscordLinks(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := testutil.SetupTestDatabase(t)
	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	const userID = "123456789012345678"
	linked := entities.DiscordAddress(userID)
	unlinked := testutil.TestAddress(7)
	testutil.CreateFundedAccount(t, testDB.DB, linked, 0)
	testutil.CreateFundedAccount(t, testDB.DB, unlinked, 0)

	require.NoError(t, repo.LinkDiscordUser(ctx, linked, userID))
	require.NoError(t, repo.LinkDiscordUser(ctx, linked, userID), "relinking is a no-op")

	userIDs, err := repo.GetDiscordUserIDs(ctx, []entities.Address{linked, unlinked})
	require.NoError(t, err)
	assert.Equal(t, map[entities.Address]string{linked: userID}, userIDs)

	empty, err := repo.GetDiscordUserIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	err = repo.LinkDiscordUser(ctx, testutil.TestAddress(8), "999")
	assert.Error(t, err, "the address must have an account")
}

func TestBalanceHistoryRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := testutil.SetupTestDatabase(t)
	repo := NewBalanceHistoryRepository(testDB.DB)
	ctx := context.Background()

	address := testutil.TestAddress(1)
	testutil.CreateFundedAccount(t, testDB.DB, address, entities.BaseUnitsPerCoin)

	latest, err := repo.GetLatestID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), latest)

	first := testutil.CreateTestBalanceHistory(address, entities.TransactionTypePoolEntry)
	first.RelatedID, first.RelatedType = entities.PoolRelation(7)
	require.NoError(t, repo.Record(ctx, first))
	assert.NotZero(t, first.ID)

	second := testutil.CreateTestBalanceHistory(address, entities.TransactionTypeFunding)
	second.BalanceBefore = first.BalanceAfter
	second.BalanceAfter = first.BalanceAfter + 10
	second.ChangeAmount = 10
	second.TransactionMetadata = nil
	require.NoError(t, repo.Record(ctx, second))

	latest, err = repo.GetLatestID(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest)

	histories, err := repo.GetByAddress(ctx, address, 10)
	require.NoError(t, err)
	require.Len(t, histories, 2)
	assert.Equal(t, second.ID, histories[0].ID)
	assert.Equal(t, entities.TransactionTypeFunding, histories[0].TransactionType)
	assert.Nil(t, histories[0].RelatedType)

	assert.Equal(t, entities.TransactionTypePoolEntry, histories[1].TransactionType)
	require.NotNil(t, histories[1].RelatedID)
	assert.Equal(t, int64(7), *histories[1].RelatedID)
	assert.Equal(t, entities.RelatedTypePool, *histories[1].RelatedType)
	assert.Equal(t, true, histories[1].TransactionMetadata["test"])
}
