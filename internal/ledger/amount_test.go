package ledger

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMinorUnits(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"12.34", 1234},
		{"12.349", 1234},
		{"0.1", 10},
		{"100", 10000},
		{"0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := MinorUnits(decimal.RequireFromString(tt.in))
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("largest representable amount", func(t *testing.T) {
		got, err := MinorUnits(decimal.RequireFromString("92233720368547758.07"))
		assert.NoError(t, err)
		assert.Equal(t, int64(math.MaxInt64), got)
	})

	for _, in := range []string{"92233720368547758.08", "184467440737095516.16", "184467440737095516.20", "100000000000000000000"} {
		t.Run("too large "+in, func(t *testing.T) {
			got, err := MinorUnits(decimal.RequireFromString(in))
			assert.ErrorIs(t, err, ErrAmountTooLarge)
			assert.Zero(t, got)
		})
	}

	t.Run("negative", func(t *testing.T) {
		_, err := MinorUnits(decimal.RequireFromString("-0.01"))
		assert.ErrorIs(t, err, ErrNegativeAmount)
	})
}

func TestMajorUnits(t *testing.T) {
	assert.Equal(t, "12.34", MajorUnits(1234).StringFixed(2))
	assert.Equal(t, "0.05", MajorUnits(5).StringFixed(2))
}
