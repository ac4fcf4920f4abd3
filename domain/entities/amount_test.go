package entities

import (
	"errors"
	"math"
	"testing"

	"lotterypool/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{name: "minimum entry", input: "0.01", want: MinimumEntry},
		{name: "two hundredths", input: "0.02", want: 20_000_000},
		{name: "whole coins", input: "2", want: 2 * BaseUnitsPerCoin},
		{name: "mixed", input: "1.5", want: 1_500_000_000},
		{name: "leading dot", input: ".5", want: 500_000_000},
		{name: "smallest unit", input: "0.000000001", want: 1},
		{name: "zero", input: "0", want: 0},
		{name: "surrounding whitespace", input: " 3 ", want: 3 * BaseUnitsPerCoin},
		{name: "empty", input: "", wantErr: true},
		{name: "negative", input: "-1", wantErr: true},
		{name: "explicit plus", input: "+1", wantErr: true},
		{name: "trailing dot", input: "1.", wantErr: true},
		{name: "lone dot", input: ".", wantErr: true},
		{name: "too many decimals", input: "0.0000000001", wantErr: true},
		{name: "letters", input: "1e9", wantErr: true},
		{name: "overflow", input: "9223372037", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, domain.ErrInvalidAmount))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		units int64
		want  string
	}{
		{units: 0, want: "0"},
		{units: MinimumEntry, want: "0.01"},
		{units: 60_000_000, want: "0.06"},
		{units: 2 * BaseUnitsPerCoin, want: "2"},
		{units: 1_500_000_000, want: "1.5"},
		{units: 1, want: "0.000000001"},
		{units: -20_000_000, want: "-0.02"},
		{units: math.MinInt64, want: "-9223372036.854775808"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, FormatAmount(tt.units))
		})
	}
}

func TestParseAmount_RoundTripsFormattedValues(t *testing.T) {
	t.Parallel()

	for _, units := range []int64{1, MinimumEntry, 20_000_000, BaseUnitsPerCoin, 123_456_789_012} {
		parsed, err := ParseAmount(FormatAmount(units))
		require.NoError(t, err)
		assert.Equal(t, units, parsed)
	}
}
