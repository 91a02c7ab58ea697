package ledger

import (
	"github.com/shopspring/decimal"
)

// MinorUnits converts a dollar amount such as 12.349 to cents, dropping
// anything below one cent. Amounts whose cents do not fit in an int64 are
// rejected rather than wrapped.
func MinorUnits(major decimal.Decimal) (int64, error) {
	if major.IsNegative() {
		return 0, ErrNegativeAmount
	}
	cents := major.Shift(2).Truncate(0).BigInt()
	if !cents.IsInt64() {
		return 0, ErrAmountTooLarge
	}
	return cents.Int64(), nil
}

// MajorUnits renders cents as dollars for display.
func MajorUnits(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}
