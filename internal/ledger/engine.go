package ledger

import (
	"fmt"
	"math"
)

// Direction says which way money moves relative to the customer.
type Direction int

const (
	Credit Direction = iota + 1
	Debit
)

// Position is the pair of balances the engine works on.
type Position struct {
	Balance   int64
	Overdraft int64
}

// Movement is the result of applying one amount to a Position.
type Movement struct {
	Before Position
	After  Position
	// Repayment is set when a credit paid down an existing overdraft
	// and an overdraft log entry has to be written.
	Repayment bool
	// Interest is the amount charged on top of the newly borrowed sum.
	Interest int64
}

// Apply moves amount cents in the given direction. Credits repay overdraft
// before they reach the main balance. Debits beyond the balance borrow the
// shortfall at the interest rate unless waiveInterest is set.
func (r Rules) Apply(p Position, amount int64, dir Direction, waiveInterest bool) (Movement, error) {
	if err := CheckAmount(amount); err != nil {
		return Movement{}, err
	}

	m := Movement{Before: p, After: p}
	switch dir {
	case Credit:
		if p.Overdraft > 0 {
			m.Repayment = true
			if amount > p.Overdraft {
				if amount-p.Overdraft > math.MaxInt64-p.Balance {
					return Movement{}, ErrAmountTooLarge
				}
				m.After.Balance += amount - p.Overdraft
				m.After.Overdraft = 0
			} else {
				m.After.Overdraft = p.Overdraft - amount
			}
			return m, nil
		}
		if amount > math.MaxInt64-p.Balance {
			return Movement{}, ErrAmountTooLarge
		}
		m.After.Balance += amount
		return m, nil

	case Debit:
		if p.Balance-amount >= 0 {
			m.After.Balance -= amount
			return m, nil
		}

		borrowed := amount - p.Balance
		if borrowed > r.MaxOverdraft || borrowed+p.Overdraft > r.MaxOverdraft {
			return Movement{}, ErrOverdraftLimitExceeded
		}

		owed := borrowed
		if !waiveInterest {
			owed = r.WithInterest(borrowed)
		}
		m.Interest = owed - borrowed
		m.After.Balance = 0
		m.After.Overdraft = p.Overdraft + owed
		return m, nil
	}

	return Movement{}, fmt.Errorf("unknown direction %d", dir)
}

// Deposit is Apply with a credit.
func (r Rules) Deposit(p Position, amount int64) (Movement, error) {
	return r.Apply(p, amount, Credit, false)
}

// Withdraw is Apply with a debit that accrues interest.
func (r Rules) Withdraw(p Position, amount int64) (Movement, error) {
	return r.Apply(p, amount, Debit, false)
}
