package common

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"lotterypool/domain/entities"

	"github.com/dustin/go-humanize"
)

// FormatCoins renders base units as coins with thousand separators, e.g. 1,234.5
func FormatCoins(units int64) string {
	s := entities.FormatAmount(units)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}

	whole, frac, hasFrac := strings.Cut(s, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return sign + s
	}

	out := sign + humanize.Comma(n)
	if hasFrac {
		out += "." + frac
	}
	return out
}

// FormatCoinsWithUnit appends the currency name to FormatCoins
func FormatCoinsWithUnit(units int64) string {
	return fmt.Sprintf("%s %s", FormatCoins(units), CurrencyName)
}

// FormatCount formats a plain integer with thousand separators
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}

// FormatOrdinal returns 1st, 2nd, 3rd ...
func FormatOrdinal(n int) string {
	return humanize.Ordinal(n)
}

// FormatDiscordTimestamp formats a time as a Discord timestamp that displays in user's local timezone
// Format types: "t" = short time, "T" = long time, "d" = short date, "D" = long date,
// "f" = short date/time, "F" = long date/time, "R" = relative time
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}

// FormatAddress renders an address as inline code in its short form
func FormatAddress(addr entities.Address) string {
	return fmt.Sprintf("`%s`", addr.Short())
}
