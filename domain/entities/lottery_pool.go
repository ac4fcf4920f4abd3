package entities

import "time"

// LotteryPool is a single-manager lottery that custodies entry stakes until a draw
type LotteryPool struct {
	ID        int64     `db:"id"`
	Manager   Address   `db:"manager"`
	Balance   int64     `db:"balance"`
	Round     int64     `db:"round"`
	GuildID   *int64    `db:"guild_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// IsManager reports whether addr is the manager of the pool
func (p *LotteryPool) IsManager(addr Address) bool {
	return p.Manager == addr
}

// IsGuildPool reports whether the pool is bound to a Discord guild
func (p *LotteryPool) IsGuildPool() bool {
	return p.GuildID != nil
}

// ResetForNextRound empties the pool and advances its round, which clears the participant list
func (p *LotteryPool) ResetForNextRound() {
	p.Balance = 0
	p.Round++
}

// PoolEntry is one successful enter call. Entries of the current round ordered
// by Position form the participant list; the same player may appear more than once.
type PoolEntry struct {
	ID               int64     `db:"id"`
	PoolID           int64     `db:"pool_id"`
	Round            int64     `db:"round"`
	Position         int       `db:"position"`
	Player           Address   `db:"player"`
	Stake            int64     `db:"stake"`
	BalanceHistoryID int64     `db:"balance_history_id"`
	EnteredAt        time.Time `db:"entered_at"`
}

// PoolDraw records a completed round
type PoolDraw struct {
	ID               int64     `db:"id"`
	PoolID           int64     `db:"pool_id"`
	Round            int64     `db:"round"`
	Winner           Address   `db:"winner"`
	WinningIndex     int       `db:"winning_index"`
	ParticipantCount int       `db:"participant_count"`
	Payout           int64     `db:"payout"`
	Seed             string    `db:"seed"`
	BlockHeight      int64     `db:"block_height"`
	DrawnAt          time.Time `db:"drawn_at"`
}

// Players returns the addresses of entries in list order
func Players(entries []*PoolEntry) []Address {
	players := make([]Address, 0, len(entries))
	for _, e := range entries {
		players = append(players, e.Player)
	}
	return players
}

// TotalStake sums the stakes of the given entries
func TotalStake(entries []*PoolEntry) int64 {
	var total int64
	for _, e := range entries {
		total += e.Stake
	}
	return total
}
