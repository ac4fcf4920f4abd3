package services

import (
	"encoding/binary"
	"encoding/hex"
	"math/big"

	"lotterypool/domain/entities"

	"golang.org/x/crypto/sha3"
)

// BlockEntropy derives a draw seed by hashing the block context together with the
// participant list. Every input is known to, and partly controlled by, the ledger
// operator and the participants, so the result is predictable and must not be used
// where verifiable randomness is required.
type BlockEntropy struct{}

// NewBlockEntropy creates a new block entropy source
func NewBlockEntropy() *BlockEntropy {
	return &BlockEntropy{}
}

// Seed returns Keccak256(height ‖ timestamp ‖ poolID ‖ round ‖ players...)
func (e *BlockEntropy) Seed(block entities.BlockContext, pool *entities.LotteryPool, players []entities.Address) []byte {
	h := sha3.NewLegacyKeccak256()

	var buf [8]byte
	writeUint := func(v uint64) {
		binary.BigEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}

	writeUint(uint64(block.Height))
	writeUint(uint64(block.Timestamp.UnixNano()))
	writeUint(uint64(pool.ID))
	writeUint(uint64(pool.Round))
	for _, p := range players {
		h.Write([]byte(p))
	}

	return h.Sum(nil)
}

// WinnerIndex maps a seed onto [0, n) by reducing it as a big-endian integer.
// Every list position is equally likely, so a player with k entries wins with
// probability k/n. Returns -1 when n is not positive.
func WinnerIndex(seed []byte, n int) int {
	if n <= 0 {
		return -1
	}
	v := new(big.Int).SetBytes(seed)
	return int(v.Mod(v, big.NewInt(int64(n))).Int64())
}

// SeedHex renders a seed for storage and display
func SeedHex(seed []byte) string {
	return "0x" + hex.EncodeToString(seed)
}
