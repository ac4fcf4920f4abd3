package entities

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"lotterypool/domain"
)

const (
	// CoinDecimals is the number of fractional digits of one coin
	CoinDecimals = 9

	// BaseUnitsPerCoin is the number of base units in one coin
	BaseUnitsPerCoin int64 = 1_000_000_000

	// MinimumEntry is the smallest stake accepted by a pool (0.01 coin)
	MinimumEntry int64 = BaseUnitsPerCoin / 100
)

// ParseAmount converts a decimal coin string such as "0.02" into base units.
// Negative values, more than CoinDecimals fractional digits and overflow are rejected.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidAmount, s)
	}

	whole, frac, hasDot := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidAmount, s)
	}
	if hasDot && frac == "" {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidAmount, s)
	}
	if len(frac) > CoinDecimals {
		return 0, fmt.Errorf("%w: %q has more than %d decimal places", domain.ErrInvalidAmount, s, CoinDecimals)
	}
	if !isDigits(whole) || !isDigits(frac) {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidAmount, s)
	}

	var wholeUnits int64
	if whole != "" {
		w, err := strconv.ParseInt(whole, 10, 64)
		if err != nil || w > math.MaxInt64/BaseUnitsPerCoin {
			return 0, fmt.Errorf("%w: %q is too large", domain.ErrInvalidAmount, s)
		}
		wholeUnits = w * BaseUnitsPerCoin
	}

	var fracUnits int64
	if frac != "" {
		padded := frac + strings.Repeat("0", CoinDecimals-len(frac))
		f, err := strconv.ParseInt(padded, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", domain.ErrInvalidAmount, s)
		}
		fracUnits = f
	}

	if wholeUnits > math.MaxInt64-fracUnits {
		return 0, fmt.Errorf("%w: %q is too large", domain.ErrInvalidAmount, s)
	}

	return wholeUnits + fracUnits, nil
}

// FormatAmount renders base units as a decimal coin string without trailing zeros
func FormatAmount(units int64) string {
	sign := ""
	u := uint64(units)
	if units < 0 {
		sign = "-"
		u = uint64(-(units + 1)) + 1
	}

	whole := u / uint64(BaseUnitsPerCoin)
	frac := u % uint64(BaseUnitsPerCoin)
	if frac == 0 {
		return sign + strconv.FormatUint(whole, 10)
	}

	fracStr := fmt.Sprintf("%09d", frac)
	fracStr = strings.TrimRight(fracStr, "0")
	return sign + strconv.FormatUint(whole, 10) + "." + fracStr
}

// CoinsToUnits converts a whole number of coins to base units
func CoinsToUnits(coins int64) int64 {
	return coins * BaseUnitsPerCoin
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
