package application_test

import (
	"context"
	"sync"
	"testing"

	"lotterypool/application"
	"lotterypool/domain"
	"lotterypool/domain/entities"
	"lotterypool/domain/events"
	"lotterypool/domain/interfaces"
	"lotterypool/infrastructure"
	"lotterypool/repository"
	"lotterypool/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingPublisher keeps every event that survives a commit
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) ofType(eventType events.EventType) []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var matched []events.Event
	for _, e := range p.events {
		if e.Type() == eventType {
			matched = append(matched, e)
		}
	}
	return matched
}

type poolFixture struct {
	handler   application.LotteryPoolHandler
	db        *testutil.TestDatabase
	publisher *recordingPublisher
	manager   entities.Address
}

func setupPoolFixture(t *testing.T) *poolFixture {
	t.Helper()

	testDB := testutil.SetupTestDatabase(t)
	publisher := &recordingPublisher{}
	uowFactory := infrastructure.NewUnitOfWorkFactory(testDB.DB, publisher)

	return &poolFixture{
		handler:   application.NewLotteryPoolHandler(uowFactory),
		db:        testDB,
		publisher: publisher,
		manager:   testutil.TestAddress(1),
	}
}

func (f *poolFixture) fund(t *testing.T, address entities.Address, amount int64) {
	t.Helper()
	_, err := f.handler.Fund(context.Background(), address, amount)
	require.NoError(t, err)
}

func (f *poolFixture) balance(t *testing.T, address entities.Address) int64 {
	t.Helper()
	balance, err := f.handler.GetBalance(context.Background(), address)
	require.NoError(t, err)
	return balance
}

func TestLotteryPoolHandler_ThreePlayerRound(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	f := setupPoolFixture(t)

	pool, err := f.handler.Deploy(ctx, f.manager)
	require.NoError(t, err)
	assert.Equal(t, f.manager, pool.Manager)

	stake, err := entities.ParseAmount("0.02")
	require.NoError(t, err)

	players := []entities.Address{testutil.TestAddress(10), testutil.TestAddress(11), testutil.TestAddress(12)}
	for _, player := range players {
		f.fund(t, player, entities.BaseUnitsPerCoin)
	}
	for i, player := range players {
		entry, err := f.handler.Enter(ctx, pool.ID, player, stake)
		require.NoError(t, err)
		assert.Equal(t, i, entry.Position)
	}

	current, err := f.handler.GetPlayers(ctx, pool.ID)
	require.NoError(t, err)
	assert.Equal(t, players, current)

	pool, err = f.handler.GetPool(ctx, pool.ID)
	require.NoError(t, err)
	assert.Equal(t, 3*stake, pool.Balance)

	// A participant cannot trigger the draw
	_, err = f.handler.PickWinner(ctx, pool.ID, players[0])
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	current, err = f.handler.GetPlayers(ctx, pool.ID)
	require.NoError(t, err)
	assert.Len(t, current, 3)

	result, err := f.handler.PickWinner(ctx, pool.ID, f.manager)
	require.NoError(t, err)
	assert.Contains(t, players, result.Draw.Winner)
	assert.Equal(t, players[result.Draw.WinningIndex], result.Draw.Winner)
	assert.Equal(t, 3*stake, result.Draw.Payout)
	assert.Equal(t, 3, result.Draw.ParticipantCount)

	for _, player := range players {
		expected := entities.BaseUnitsPerCoin - stake
		if player == result.Draw.Winner {
			expected += 3 * stake
		}
		assert.Equal(t, expected, f.balance(t, player), "balance of %s", player)
	}

	pool, err = f.handler.GetPool(ctx, pool.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), pool.Balance)
	assert.Equal(t, int64(2), pool.Round)

	current, err = f.handler.GetPlayers(ctx, pool.ID)
	require.NoError(t, err)
	assert.Empty(t, current)

	// Events only leave after commit; the rejected draw staged nothing
	assert.Len(t, f.publisher.ofType(events.EventTypePlayerEntered), 3)
	picked := f.publisher.ofType(events.EventTypeWinnerPicked)
	require.Len(t, picked, 1)
	assert.Equal(t, result.Draw.Winner, picked[0].(events.WinnerPickedEvent).Winner)

	draws, err := f.handler.ListDraws(ctx, pool.ID, 0)
	require.NoError(t, err)
	require.Len(t, draws, 1)
	assert.Equal(t, result.Draw.Seed, draws[0].Seed)
}

func TestLotteryPoolHandler_PayoutAndReset(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	f := setupPoolFixture(t)

	pool, err := f.handler.Deploy(ctx, f.manager)
	require.NoError(t, err)

	player := testutil.TestAddress(20)
	f.fund(t, player, 3*entities.BaseUnitsPerCoin)

	t.Run("stake below minimum leaves nothing behind", func(t *testing.T) {
		_, err := f.handler.Enter(ctx, pool.ID, player, entities.MinimumEntry-1)
		assert.ErrorIs(t, err, domain.ErrInsufficientStake)

		players, err := f.handler.GetPlayers(ctx, pool.ID)
		require.NoError(t, err)
		assert.Empty(t, players)
		assert.Equal(t, 3*entities.BaseUnitsPerCoin, f.balance(t, player))
	})

	t.Run("empty pool cannot be drawn", func(t *testing.T) {
		_, err := f.handler.PickWinner(ctx, pool.ID, f.manager)
		assert.ErrorIs(t, err, domain.ErrNoParticipants)
	})

	t.Run("stake above balance is rejected", func(t *testing.T) {
		broke := testutil.TestAddress(21)
		f.fund(t, broke, entities.MinimumEntry)
		_, err := f.handler.Enter(ctx, pool.ID, broke, 2*entities.MinimumEntry)
		assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	})

	t.Run("two coin payout", func(t *testing.T) {
		twoCoins := 2 * entities.BaseUnitsPerCoin
		_, err := f.handler.Enter(ctx, pool.ID, player, twoCoins)
		require.NoError(t, err)
		assert.Equal(t, entities.BaseUnitsPerCoin, f.balance(t, player))

		result, err := f.handler.PickWinner(ctx, pool.ID, f.manager)
		require.NoError(t, err)
		assert.Equal(t, player, result.Draw.Winner)
		assert.Equal(t, twoCoins, result.Draw.Payout)
		assert.Equal(t, 3*entities.BaseUnitsPerCoin, result.WinnerBalance)
		assert.Equal(t, 3*entities.BaseUnitsPerCoin, f.balance(t, player))

		pool, err := f.handler.GetPool(ctx, pool.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), pool.Balance)
		assert.Equal(t, int64(2), pool.Round)
	})
}

func TestLotteryPoolHandler_ConservationOverManyRounds(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	f := setupPoolFixture(t)

	pool, err := f.handler.Deploy(ctx, f.manager)
	require.NoError(t, err)

	players := []entities.Address{testutil.TestAddress(30), testutil.TestAddress(31), testutil.TestAddress(32), testutil.TestAddress(33)}
	for _, player := range players {
		f.fund(t, player, entities.BaseUnitsPerCoin)
	}
	total := testutil.LedgerTotal(t, f.db.DB)
	assert.Equal(t, 4*entities.BaseUnitsPerCoin, total)

	for round := 1; round <= 6; round++ {
		// A rotating subset enters, some more than once
		var entered []entities.Address
		for i := 0; i < round%3+2; i++ {
			player := players[(round+i)%len(players)]
			_, err := f.handler.Enter(ctx, pool.ID, player, entities.MinimumEntry*int64(i+1))
			require.NoError(t, err)
			entered = append(entered, player)
		}

		current, err := f.handler.GetPlayers(ctx, pool.ID)
		require.NoError(t, err)
		assert.Equal(t, entered, current)
		assert.Equal(t, total, testutil.LedgerTotal(t, f.db.DB), "round %d after entries", round)

		result, err := f.handler.PickWinner(ctx, pool.ID, f.manager)
		require.NoError(t, err)
		assert.Contains(t, entered, result.Draw.Winner)
		assert.Equal(t, int64(round), result.Draw.Round)
		assert.Equal(t, total, testutil.LedgerTotal(t, f.db.DB), "round %d after draw", round)
	}

	pool, err = f.handler.GetPool(ctx, pool.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), pool.Round)
	assert.Equal(t, int64(0), pool.Balance)

	draws, err := f.handler.ListDraws(ctx, pool.ID, 3)
	require.NoError(t, err)
	require.Len(t, draws, 3)
	assert.Equal(t, int64(6), draws[0].Round)
}

func TestLotteryPoolHandler_ConcurrentEntriesAndDraw(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	f := setupPoolFixture(t)

	pool, err := f.handler.Deploy(ctx, f.manager)
	require.NoError(t, err)

	const racers = 12
	early := []entities.Address{testutil.TestAddress(60), testutil.TestAddress(61)}
	players := make([]entities.Address, racers)
	for i := range players {
		players[i] = testutil.TestAddress(100 + i)
	}
	for _, player := range append(early, players...) {
		f.fund(t, player, entities.BaseUnitsPerCoin)
	}

	// Two entries up front so the racing draw always has someone to pay
	for _, player := range early {
		_, err := f.handler.Enter(ctx, pool.ID, player, entities.MinimumEntry)
		require.NoError(t, err)
	}
	total := testutil.LedgerTotal(t, f.db.DB)

	var (
		wg      sync.WaitGroup
		start   = make(chan struct{})
		entries = make([]*entities.PoolEntry, racers)
		errs    = make([]error, racers)
		result  *interfaces.PoolDrawResult
		drawErr error
	)
	for i, player := range players {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			entries[i], errs[i] = f.handler.Enter(ctx, pool.ID, player, entities.MinimumEntry*int64(i%3+1))
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-start
		result, drawErr = f.handler.PickWinner(ctx, pool.ID, f.manager)
	}()
	close(start)
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "enter by %s", players[i])
	}
	require.NoError(t, drawErr)
	assert.Equal(t, int64(1), result.Draw.Round)

	entryRepo := repository.NewPoolEntryRepository(f.db.DB)
	drawn, err := entryRepo.GetByRound(ctx, pool.ID, 1)
	require.NoError(t, err)
	open, err := entryRepo.GetByRound(ctx, pool.ID, 2)
	require.NoError(t, err)

	// Each round's positions are exactly 0..n-1
	for round, list := range map[int64][]*entities.PoolEntry{1: drawn, 2: open} {
		for i, entry := range list {
			assert.Equal(t, i, entry.Position, "round %d", round)
		}
	}
	assert.Equal(t, result.Draw.ParticipantCount, len(drawn))
	assert.Equal(t, entities.TotalStake(drawn), result.Draw.Payout)
	assert.Equal(t, len(early)+racers, len(drawn)+len(open))

	// Every entry landed in exactly one round, where its caller was told it would be
	stored := make(map[int64]*entities.PoolEntry)
	for _, entry := range append(drawn, open...) {
		_, dup := stored[entry.ID]
		require.False(t, dup, "entry %d stored twice", entry.ID)
		stored[entry.ID] = entry
	}
	for i, entry := range entries {
		got, ok := stored[entry.ID]
		require.True(t, ok, "entry of %s is missing", players[i])
		assert.Equal(t, entry.Round, got.Round)
		assert.Equal(t, entry.Position, got.Position)
		assert.Equal(t, players[i], got.Player)
	}

	current, err := f.handler.GetPool(ctx, pool.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), current.Round)
	assert.Equal(t, entities.TotalStake(open), current.Balance)

	assert.Equal(t, total, testutil.LedgerTotal(t, f.db.DB))
	assert.Len(t, f.publisher.ofType(events.EventTypePlayerEntered), len(early)+racers)
}

func TestLotteryPoolHandler_FrozenWinnerRollsBackDraw(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	f := setupPoolFixture(t)

	pool, err := f.handler.Deploy(ctx, f.manager)
	require.NoError(t, err)

	player := testutil.TestAddress(40)
	f.fund(t, player, entities.BaseUnitsPerCoin)

	_, err = f.handler.Enter(ctx, pool.ID, player, 5*entities.MinimumEntry)
	require.NoError(t, err)
	require.NoError(t, f.handler.SetFrozen(ctx, player, true))

	before := testutil.LedgerTotal(t, f.db.DB)

	_, err = f.handler.PickWinner(ctx, pool.ID, f.manager)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransferFailure)
	assert.ErrorIs(t, err, domain.ErrAccountFrozen)

	// Everything is exactly as before the draw
	players, err := f.handler.GetPlayers(ctx, pool.ID)
	require.NoError(t, err)
	assert.Equal(t, []entities.Address{player}, players)

	stored, err := f.handler.GetPool(ctx, pool.ID)
	require.NoError(t, err)
	assert.Equal(t, 5*entities.MinimumEntry, stored.Balance)
	assert.Equal(t, int64(1), stored.Round)

	draws, err := f.handler.ListDraws(ctx, pool.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, draws)

	assert.Equal(t, before, testutil.LedgerTotal(t, f.db.DB))
	assert.Empty(t, f.publisher.ofType(events.EventTypeWinnerPicked))

	// Once thawed the same round can be drawn
	require.NoError(t, f.handler.SetFrozen(ctx, player, false))
	result, err := f.handler.PickWinner(ctx, pool.ID, f.manager)
	require.NoError(t, err)
	assert.Equal(t, player, result.Draw.Winner)
	assert.Equal(t, entities.BaseUnitsPerCoin, f.balance(t, player))
}

func TestLotteryPoolHandler_GuildPool(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	f := setupPoolFixture(t)

	const guildID = int64(987654321)
	pool, err := f.handler.DeployForGuild(ctx, guildID, f.manager)
	require.NoError(t, err)

	_, err = f.handler.DeployForGuild(ctx, guildID, testutil.TestAddress(2))
	assert.ErrorIs(t, err, domain.ErrPoolAlreadyExists)

	byGuild, err := f.handler.GetPoolByGuild(ctx, guildID)
	require.NoError(t, err)
	assert.Equal(t, pool.ID, byGuild.ID)

	_, err = f.handler.GetPoolByGuild(ctx, guildID+1)
	assert.ErrorIs(t, err, domain.ErrPoolNotFound)

	account, err := f.handler.EnsureAccount(ctx, testutil.TestAddress(50), entities.BaseUnitsPerCoin)
	require.NoError(t, err)
	assert.Equal(t, entities.BaseUnitsPerCoin, account.Balance)

	// A second call does not grant the starting balance again
	account, err = f.handler.EnsureAccount(ctx, testutil.TestAddress(50), entities.BaseUnitsPerCoin)
	require.NoError(t, err)
	assert.Equal(t, entities.BaseUnitsPerCoin, account.Balance)
}

func TestLotteryPoolHandler_DiscordAccounts(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	f := setupPoolFixture(t)

	users := []string{"100000000000000001", "100000000000000002"}
	for _, userID := range users {
		account, err := f.handler.EnsureDiscordAccount(ctx, userID, entities.BaseUnitsPerCoin)
		require.NoError(t, err)
		assert.Equal(t, entities.DiscordAddress(userID), account.Address)
	}

	// A second visit neither re-credits nor relinks
	again, err := f.handler.EnsureDiscordAccount(ctx, users[0], entities.BaseUnitsPerCoin)
	require.NoError(t, err)
	assert.Equal(t, entities.BaseUnitsPerCoin, again.Balance)
	assert.Equal(t, 2*entities.BaseUnitsPerCoin, testutil.LedgerTotal(t, f.db.DB))

	stranger := testutil.TestAddress(70)
	userIDs, err := f.handler.DiscordUserIDs(ctx, []entities.Address{
		entities.DiscordAddress(users[0]),
		entities.DiscordAddress(users[1]),
		stranger,
	})
	require.NoError(t, err)
	assert.Equal(t, map[entities.Address]string{
		entities.DiscordAddress(users[0]): users[0],
		entities.DiscordAddress(users[1]): users[1],
	}, userIDs)
}
