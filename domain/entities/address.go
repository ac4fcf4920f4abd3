package entities

import (
	"encoding/hex"
	"fmt"
	"strings"

	"lotterypool/domain"

	"golang.org/x/crypto/sha3"
)

// AddressLength is the number of bytes in an account address
const AddressLength = 20

// Address identifies a ledger account: "0x" followed by 40 lowercase hex characters
type Address string

// ParseAddress validates s and returns it in canonical lowercase form
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	if len(s) != 2+2*AddressLength || !(strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")) {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidAddress, s)
	}

	lower := strings.ToLower(s[2:])
	if _, err := hex.DecodeString(lower); err != nil {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidAddress, s)
	}

	return Address("0x" + lower), nil
}

// IsValid reports whether the address is in canonical form
func (a Address) IsValid() bool {
	parsed, err := ParseAddress(string(a))
	return err == nil && parsed == a
}

// String returns the address as a string
func (a Address) String() string {
	return string(a)
}

// Short returns an abbreviated form like 0x1234…abcd for display
func (a Address) Short() string {
	s := string(a)
	if len(s) < 12 {
		return s
	}
	return s[:6] + "…" + s[len(s)-4:]
}

// DiscordAddress derives the ledger address owned by a Discord user.
// The address is the last 20 bytes of Keccak256("discord:" + userID).
func DiscordAddress(discordUserID string) Address {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte("discord:" + discordUserID))
	sum := h.Sum(nil)
	return Address("0x" + hex.EncodeToString(sum[len(sum)-AddressLength:]))
}
