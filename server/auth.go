package server

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"

	"lotterypool/domain/entities"
)

// CallerKeyHeader carries the key proving the caller controls CallerHeader's address
const CallerKeyHeader = "X-Caller-Key"

var ErrInvalidCallerKey = errors.New("invalid caller key")

// GenerateCallerKey derives the key for a canonical address. Keys are deterministic
// and are never stored.
func GenerateCallerKey(addr entities.Address, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(addr.String()))
	return strings.TrimRight(base64.URLEncoding.EncodeToString(h.Sum(nil)), "=")
}

// ValidateCallerKey checks key against the key derived for addr
func ValidateCallerKey(addr entities.Address, key, secret string) error {
	expected := GenerateCallerKey(addr, secret)
	if !hmac.Equal([]byte(key), []byte(expected)) {
		return ErrInvalidCallerKey
	}
	return nil
}
