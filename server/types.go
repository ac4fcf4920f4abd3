package server

import (
	"time"

	"lotterypool/domain/entities"
)

// CallerHeader carries the address of the account making a call
const CallerHeader = "X-Caller-Address"

// Request types

type EnterRequest struct {
	Value string `json:"value"`
}

type FundRequest struct {
	Amount string `json:"amount"`
}

// Response types

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type PoolResponse struct {
	ID               int64            `json:"id"`
	Manager          entities.Address `json:"manager"`
	Balance          string           `json:"balance"`
	BalanceBaseUnits int64            `json:"balance_base_units"`
	Round            int64            `json:"round"`
	GuildID          *int64           `json:"guild_id,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
}

type PlayersResponse struct {
	PoolID  int64              `json:"pool_id"`
	Players []entities.Address `json:"players"`
}

type EntryResponse struct {
	PoolID   int64            `json:"pool_id"`
	Round    int64            `json:"round"`
	Position int              `json:"position"`
	Player   entities.Address `json:"player"`
	Stake    string           `json:"stake"`
}

type DrawResponse struct {
	PoolID           int64            `json:"pool_id"`
	Round            int64            `json:"round"`
	Winner           entities.Address `json:"winner"`
	WinningIndex     int              `json:"winning_index"`
	ParticipantCount int              `json:"participant_count"`
	Payout           string           `json:"payout"`
	Seed             string           `json:"seed"`
	BlockHeight      int64            `json:"block_height"`
	DrawnAt          time.Time        `json:"drawn_at"`
}

type DrawsResponse struct {
	PoolID int64          `json:"pool_id"`
	Draws  []DrawResponse `json:"draws"`
}

type AccountResponse struct {
	Address          entities.Address `json:"address"`
	Balance          string           `json:"balance"`
	BalanceBaseUnits int64            `json:"balance_base_units"`
}

func newPoolResponse(pool *entities.LotteryPool) PoolResponse {
	return PoolResponse{
		ID:               pool.ID,
		Manager:          pool.Manager,
		Balance:          entities.FormatAmount(pool.Balance),
		BalanceBaseUnits: pool.Balance,
		Round:            pool.Round,
		GuildID:          pool.GuildID,
		CreatedAt:        pool.CreatedAt,
	}
}

func newDrawResponse(draw *entities.PoolDraw) DrawResponse {
	return DrawResponse{
		PoolID:           draw.PoolID,
		Round:            draw.Round,
		Winner:           draw.Winner,
		WinningIndex:     draw.WinningIndex,
		ParticipantCount: draw.ParticipantCount,
		Payout:           entities.FormatAmount(draw.Payout),
		Seed:             draw.Seed,
		BlockHeight:      draw.BlockHeight,
		DrawnAt:          draw.DrawnAt,
	}
}

func newAccountResponse(address entities.Address, balance int64) AccountResponse {
	return AccountResponse{
		Address:          address,
		Balance:          entities.FormatAmount(balance),
		BalanceBaseUnits: balance,
	}
}
