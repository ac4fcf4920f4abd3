package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lotterypool/application/testhelpers"
	"lotterypool/domain"
	"lotterypool/domain/entities"
	"lotterypool/domain/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testManager = entities.Address("0x00000000000000000000000000000000000000aa")
	testPlayer  = entities.Address("0x000000000000000000000000000000000000000a")
)

func serve(t *testing.T, mux http.Handler, method, path, caller, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if caller != "" {
		req.Header.Set(CallerHeader, caller)
	}

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	mux := NewRouter(&testhelpers.MockLotteryPoolHandler{}, Options{})

	w := serve(t, mux, "GET", "/health", "", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestDeployEndpoint(t *testing.T) {
	pools := &testhelpers.MockLotteryPoolHandler{}
	mux := NewRouter(pools, Options{})

	pools.On("Deploy", mock.Anything, testManager).Return(&entities.LotteryPool{
		ID:      7,
		Manager: testManager,
		Round:   1,
	}, nil)

	w := serve(t, mux, "POST", "/pools", strings.ToUpper(string(testManager)[2:]), "")
	assert.Equal(t, http.StatusBadRequest, w.Code, "missing 0x prefix")

	// Mixed case is normalised before reaching the handler
	w = serve(t, mux, "POST", "/pools", "0x00000000000000000000000000000000000000AA", "")
	require.Equal(t, http.StatusCreated, w.Code)

	var resp PoolResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(7), resp.ID)
	assert.Equal(t, testManager, resp.Manager)
	assert.Equal(t, "0", resp.Balance)

	w = serve(t, mux, "POST", "/pools", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code, "missing caller header")

	pools.AssertExpectations(t)
}

func TestPlayersEndpoint(t *testing.T) {
	pools := &testhelpers.MockLotteryPoolHandler{}
	mux := NewRouter(pools, Options{})

	pools.On("GetPlayers", mock.Anything, int64(1)).Return([]entities.Address{testPlayer, testManager, testPlayer}, nil)
	pools.On("GetPlayers", mock.Anything, int64(2)).Return([]entities.Address{}, nil)
	pools.On("GetPlayers", mock.Anything, int64(3)).Return(nil, fmt.Errorf("%w: 3", domain.ErrPoolNotFound))

	w := serve(t, mux, "GET", "/pools/1/players", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp PlayersResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []entities.Address{testPlayer, testManager, testPlayer}, resp.Players)

	w = serve(t, mux, "GET", "/pools/2/players", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"players":[]`)

	w = serve(t, mux, "GET", "/pools/3/players", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(t, mux, "GET", "/pools/abc/players", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEnterEndpoint(t *testing.T) {
	pools := &testhelpers.MockLotteryPoolHandler{}
	mux := NewRouter(pools, Options{})

	pools.On("Enter", mock.Anything, int64(1), testPlayer, int64(20_000_000)).Return(&entities.PoolEntry{
		PoolID:   1,
		Round:    1,
		Position: 2,
		Player:   testPlayer,
		Stake:    20_000_000,
	}, nil)
	pools.On("Enter", mock.Anything, int64(1), testPlayer, int64(5_000_000)).
		Return(nil, fmt.Errorf("%w: sent 0.005", domain.ErrInsufficientStake))

	w := serve(t, mux, "POST", "/pools/1/enter", string(testPlayer), `{"value":"0.02"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var resp EntryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Position)
	assert.Equal(t, "0.02", resp.Stake)

	w = serve(t, mux, "POST", "/pools/1/enter", string(testPlayer), `{"value":"0.005"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(t, mux, "POST", "/pools/1/enter", string(testPlayer), `{"value":"-1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(t, mux, "POST", "/pools/1/enter", string(testPlayer), `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	pools.AssertExpectations(t)
}

func TestPickWinnerEndpoint(t *testing.T) {
	pools := &testhelpers.MockLotteryPoolHandler{}
	mux := NewRouter(pools, Options{})

	drawnAt := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	pools.On("PickWinner", mock.Anything, int64(1), testManager).Return(&interfaces.PoolDrawResult{
		Draw: &entities.PoolDraw{
			PoolID:           1,
			Round:            1,
			Winner:           testPlayer,
			WinningIndex:     1,
			ParticipantCount: 3,
			Payout:           60_000_000,
			Seed:             "0xabc",
			BlockHeight:      42,
			DrawnAt:          drawnAt,
		},
	}, nil)

	w := serve(t, mux, "POST", "/pools/1/pick-winner", string(testManager), "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp DrawResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, testPlayer, resp.Winner)
	assert.Equal(t, "0.06", resp.Payout)
	assert.Equal(t, int64(42), resp.BlockHeight)
	assert.True(t, drawnAt.Equal(resp.DrawnAt))
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"unauthorized", domain.ErrUnauthorized, http.StatusForbidden},
		{"no participants", domain.ErrNoParticipants, http.StatusConflict},
		{"insufficient funds", domain.ErrInsufficientFunds, http.StatusConflict},
		{"frozen caller", domain.ErrAccountFrozen, http.StatusConflict},
		{"transfer failure", fmt.Errorf("%w: %w", domain.ErrTransferFailure, domain.ErrAccountFrozen), http.StatusBadGateway},
		{"unknown", fmt.Errorf("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pools := &testhelpers.MockLotteryPoolHandler{}
			mux := NewRouter(pools, Options{})
			pools.On("PickWinner", mock.Anything, int64(1), testManager).Return(nil, tt.err)

			w := serve(t, mux, "POST", "/pools/1/pick-winner", string(testManager), "")
			assert.Equal(t, tt.status, w.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			if tt.status == http.StatusInternalServerError {
				assert.Equal(t, "internal error", resp.Message)
			} else {
				assert.Equal(t, tt.err.Error(), resp.Message)
			}
		})
	}
}

func TestDrawsEndpoint(t *testing.T) {
	pools := &testhelpers.MockLotteryPoolHandler{}
	mux := NewRouter(pools, Options{})

	pools.On("ListDraws", mock.Anything, int64(1), 5).Return([]*entities.PoolDraw{
		{PoolID: 1, Round: 2, Winner: testPlayer, Payout: 10_000_000},
		{PoolID: 1, Round: 1, Winner: testManager, Payout: 20_000_000},
	}, nil)
	pools.On("ListDraws", mock.Anything, int64(1), 0).Return([]*entities.PoolDraw{}, nil)

	w := serve(t, mux, "GET", "/pools/1/draws?limit=5", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp DrawsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Draws, 2)
	assert.Equal(t, int64(2), resp.Draws[0].Round)

	w = serve(t, mux, "GET", "/pools/1/draws", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"draws":[]`)

	w = serve(t, mux, "GET", "/pools/1/draws?limit=-2", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAccountEndpoints(t *testing.T) {
	t.Run("balance", func(t *testing.T) {
		pools := &testhelpers.MockLotteryPoolHandler{}
		mux := NewRouter(pools, Options{})
		pools.On("GetBalance", mock.Anything, testPlayer).Return(int64(1_500_000_000), nil)

		w := serve(t, mux, "GET", "/accounts/"+string(testPlayer), "", "")
		require.Equal(t, http.StatusOK, w.Code)
		var resp AccountResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "1.5", resp.Balance)

		w = serve(t, mux, "GET", "/accounts/not-an-address", "", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("funding disabled", func(t *testing.T) {
		pools := &testhelpers.MockLotteryPoolHandler{}
		mux := NewRouter(pools, Options{})

		w := serve(t, mux, "POST", "/accounts/"+string(testPlayer)+"/fund", "", `{"amount":"1"}`)
		assert.Equal(t, http.StatusForbidden, w.Code)
		pools.AssertNotCalled(t, "Fund", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("funding enabled", func(t *testing.T) {
		pools := &testhelpers.MockLotteryPoolHandler{}
		mux := NewRouter(pools, Options{AllowFunding: true})
		pools.On("Fund", mock.Anything, testPlayer, int64(1_500_000_000)).Return(&entities.Account{
			Address: testPlayer,
			Balance: 2_500_000_000,
		}, nil)

		w := serve(t, mux, "POST", "/accounts/"+string(testPlayer)+"/fund", "", `{"amount":"1.5"}`)
		require.Equal(t, http.StatusOK, w.Code)
		var resp AccountResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "2.5", resp.Balance)
		pools.AssertExpectations(t)
	})
}

func TestCallerKeyAuthentication(t *testing.T) {
	const secret = "router-test-secret"

	serveAs := func(mux http.Handler, method, path, caller, key, body string) *httptest.ResponseRecorder {
		var req *http.Request
		if body != "" {
			req = httptest.NewRequest(method, path, strings.NewReader(body))
		} else {
			req = httptest.NewRequest(method, path, nil)
		}
		req.Header.Set(CallerHeader, caller)
		if key != "" {
			req.Header.Set(CallerKeyHeader, key)
		}
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		return w
	}

	t.Run("impersonating the manager is rejected", func(t *testing.T) {
		pools := &testhelpers.MockLotteryPoolHandler{}
		mux := NewRouter(pools, Options{CallerKeySecret: secret})

		tests := []struct {
			name string
			key  string
		}{
			{"missing key", ""},
			{"key of another address", GenerateCallerKey(testPlayer, secret)},
			{"key signed with another secret", GenerateCallerKey(testManager, "other-secret")},
			{"garbage", "not-a-key"},
		}
		for _, tt := range tests {
			w := serveAs(mux, "POST", "/pools/1/pick-winner", string(testManager), tt.key, "")
			assert.Equal(t, http.StatusUnauthorized, w.Code, tt.name)
		}

		pools.AssertNotCalled(t, "PickWinner", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("spending another account is rejected", func(t *testing.T) {
		pools := &testhelpers.MockLotteryPoolHandler{}
		mux := NewRouter(pools, Options{CallerKeySecret: secret})

		w := serveAs(mux, "POST", "/pools/1/enter", string(testPlayer), GenerateCallerKey(testManager, secret), `{"value":"0.02"}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = serveAs(mux, "POST", "/pools", string(testManager), "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		pools.AssertNotCalled(t, "Enter", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		pools.AssertNotCalled(t, "Deploy", mock.Anything, mock.Anything)
	})

	t.Run("valid key reaches the handler", func(t *testing.T) {
		pools := &testhelpers.MockLotteryPoolHandler{}
		mux := NewRouter(pools, Options{CallerKeySecret: secret})
		pools.On("PickWinner", mock.Anything, int64(1), testManager).
			Return(nil, fmt.Errorf("%w: pool 1", domain.ErrNoParticipants))

		// Keys are bound to the canonical address, so mixed-case headers still match
		w := serveAs(mux, "POST", "/pools/1/pick-winner", "0x00000000000000000000000000000000000000AA",
			GenerateCallerKey(testManager, secret), "")
		assert.Equal(t, http.StatusConflict, w.Code)
		pools.AssertExpectations(t)
	})

	t.Run("reads need no key", func(t *testing.T) {
		pools := &testhelpers.MockLotteryPoolHandler{}
		mux := NewRouter(pools, Options{CallerKeySecret: secret})
		pools.On("GetPlayers", mock.Anything, int64(1)).Return([]entities.Address{testPlayer}, nil)

		w := serve(t, mux, "GET", "/pools/1/players", "", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
