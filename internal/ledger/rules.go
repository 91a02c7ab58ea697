package ledger

import (
	"github.com/shopspring/decimal"
)

const (
	DefaultMaxOverdraft    int64 = 100000
	DefaultFreezeThreshold       = 2
	DefaultDisputeWindow         = 3
)

var DefaultInterestRate = decimal.RequireFromString("1.02")

// Rules holds the overdraft and dispute limits applied by the engine.
type Rules struct {
	MaxOverdraft    int64
	InterestRate    decimal.Decimal
	FreezeThreshold int
	DisputeWindow   int
}

func DefaultRules() Rules {
	return Rules{
		MaxOverdraft:    DefaultMaxOverdraft,
		InterestRate:    DefaultInterestRate,
		FreezeThreshold: DefaultFreezeThreshold,
		DisputeWindow:   DefaultDisputeWindow,
	}
}

// IsFrozen reports whether an account with the given reversal count is frozen.
// The count never decreases, so a frozen account stays frozen.
func (r Rules) IsFrozen(numFraudReversals int) bool {
	return numFraudReversals >= r.FreezeThreshold
}

// WithInterest applies the overdraft interest rate, truncating toward zero.
func (r Rules) WithInterest(amount int64) int64 {
	return decimal.NewFromInt(amount).Mul(r.InterestRate).IntPart()
}

// CheckDisputeIndex validates n, the 1-based position counted from the newest transaction.
func (r Rules) CheckDisputeIndex(n int) error {
	if n < 1 || n > r.DisputeWindow {
		return ErrInvalidDisputeIndex
	}
	return nil
}

func CheckAmount(amount int64) error {
	if amount < 0 {
		return ErrNegativeAmount
	}
	return nil
}
