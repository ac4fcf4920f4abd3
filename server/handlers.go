package server

import (
	"fmt"
	"net/http"
	"strconv"

	"lotterypool/application"
	"lotterypool/domain"
	"lotterypool/domain/entities"
)

// PoolHandler serves the pool and account endpoints
type PoolHandler struct {
	pools           application.LotteryPoolHandler
	allowFunding    bool
	callerKeySecret string
}

// NewPoolHandler creates a new pool HTTP handler
func NewPoolHandler(pools application.LotteryPoolHandler, opts Options) *PoolHandler {
	return &PoolHandler{
		pools:           pools,
		allowFunding:    opts.AllowFunding,
		callerKeySecret: opts.CallerKeySecret,
	}
}

// callerFrom reads the caller identity header and, when a secret is configured,
// checks the caller key that goes with it
func (h *PoolHandler) callerFrom(r *http.Request) (entities.Address, error) {
	raw := r.Header.Get(CallerHeader)
	if raw == "" {
		return "", fmt.Errorf("%w: %s header is required", domain.ErrInvalidAddress, CallerHeader)
	}
	caller, err := entities.ParseAddress(raw)
	if err != nil {
		return "", err
	}

	if h.callerKeySecret == "" {
		return caller, nil
	}
	if err := ValidateCallerKey(caller, r.Header.Get(CallerKeyHeader), h.callerKeySecret); err != nil {
		return "", fmt.Errorf("%w for %s", err, caller)
	}
	return caller, nil
}

// poolIDFrom reads the {id} path parameter
func poolIDFrom(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Deploy handles POST /pools
func (h *PoolHandler) Deploy(w http.ResponseWriter, r *http.Request) {
	caller, err := h.callerFrom(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	pool, err := h.pools.Deploy(r.Context(), caller)
	if err != nil {
		WriteError(w, err)
		return
	}

	JSONResponse(w, http.StatusCreated, newPoolResponse(pool))
}

// GetPool handles GET /pools/{id}
func (h *PoolHandler) GetPool(w http.ResponseWriter, r *http.Request) {
	poolID, ok := poolIDFrom(r)
	if !ok {
		ErrorResponseWithStatus(w, http.StatusBadRequest, "invalid pool id")
		return
	}

	pool, err := h.pools.GetPool(r.Context(), poolID)
	if err != nil {
		WriteError(w, err)
		return
	}

	JSONResponse(w, http.StatusOK, newPoolResponse(pool))
}

// GetPlayers handles GET /pools/{id}/players
func (h *PoolHandler) GetPlayers(w http.ResponseWriter, r *http.Request) {
	poolID, ok := poolIDFrom(r)
	if !ok {
		ErrorResponseWithStatus(w, http.StatusBadRequest, "invalid pool id")
		return
	}

	players, err := h.pools.GetPlayers(r.Context(), poolID)
	if err != nil {
		WriteError(w, err)
		return
	}
	if players == nil {
		players = []entities.Address{}
	}

	JSONResponse(w, http.StatusOK, PlayersResponse{PoolID: poolID, Players: players})
}

// Enter handles POST /pools/{id}/enter
func (h *PoolHandler) Enter(w http.ResponseWriter, r *http.Request) {
	poolID, ok := poolIDFrom(r)
	if !ok {
		ErrorResponseWithStatus(w, http.StatusBadRequest, "invalid pool id")
		return
	}

	caller, err := h.callerFrom(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req EnterRequest
	if err := ParseJSONBody(r, &req); err != nil {
		ErrorResponseWithStatus(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	value, err := entities.ParseAmount(req.Value)
	if err != nil {
		WriteError(w, err)
		return
	}

	entry, err := h.pools.Enter(r.Context(), poolID, caller, value)
	if err != nil {
		WriteError(w, err)
		return
	}

	JSONResponse(w, http.StatusOK, EntryResponse{
		PoolID:   entry.PoolID,
		Round:    entry.Round,
		Position: entry.Position,
		Player:   entry.Player,
		Stake:    entities.FormatAmount(entry.Stake),
	})
}

// PickWinner handles POST /pools/{id}/pick-winner
func (h *PoolHandler) PickWinner(w http.ResponseWriter, r *http.Request) {
	poolID, ok := poolIDFrom(r)
	if !ok {
		ErrorResponseWithStatus(w, http.StatusBadRequest, "invalid pool id")
		return
	}

	caller, err := h.callerFrom(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	result, err := h.pools.PickWinner(r.Context(), poolID, caller)
	if err != nil {
		WriteError(w, err)
		return
	}

	JSONResponse(w, http.StatusOK, newDrawResponse(result.Draw))
}

// ListDraws handles GET /pools/{id}/draws
func (h *PoolHandler) ListDraws(w http.ResponseWriter, r *http.Request) {
	poolID, ok := poolIDFrom(r)
	if !ok {
		ErrorResponseWithStatus(w, http.StatusBadRequest, "invalid pool id")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			ErrorResponseWithStatus(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	draws, err := h.pools.ListDraws(r.Context(), poolID, limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := DrawsResponse{PoolID: poolID, Draws: make([]DrawResponse, 0, len(draws))}
	for _, draw := range draws {
		resp.Draws = append(resp.Draws, newDrawResponse(draw))
	}
	JSONResponse(w, http.StatusOK, resp)
}

// GetAccount handles GET /accounts/{address}
func (h *PoolHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	address, err := entities.ParseAddress(r.PathValue("address"))
	if err != nil {
		WriteError(w, err)
		return
	}

	balance, err := h.pools.GetBalance(r.Context(), address)
	if err != nil {
		WriteError(w, err)
		return
	}

	JSONResponse(w, http.StatusOK, newAccountResponse(address, balance))
}

// Fund handles POST /accounts/{address}/fund
func (h *PoolHandler) Fund(w http.ResponseWriter, r *http.Request) {
	if !h.allowFunding {
		ErrorResponseWithStatus(w, http.StatusForbidden, "funding is disabled in this environment")
		return
	}

	address, err := entities.ParseAddress(r.PathValue("address"))
	if err != nil {
		WriteError(w, err)
		return
	}

	var req FundRequest
	if err := ParseJSONBody(r, &req); err != nil {
		ErrorResponseWithStatus(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	amount, err := entities.ParseAmount(req.Amount)
	if err != nil {
		WriteError(w, err)
		return
	}

	account, err := h.pools.Fund(r.Context(), address, amount)
	if err != nil {
		WriteError(w, err)
		return
	}

	JSONResponse(w, http.StatusOK, newAccountResponse(account.Address, account.Balance))
}
