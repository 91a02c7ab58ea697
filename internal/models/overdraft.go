package models

import (
	"time"
)

// OverdraftLog records a deposit that paid down an overdraft.
type OverdraftLog struct {
	ID                  int64     `json:"id" db:"id"`
	CustomerID          string    `json:"customerId" db:"customer_id"`
	Timestamp           time.Time `json:"timestamp" db:"occurred_at"`
	DepositAmount       int64     `json:"depositAmt" db:"deposit_amt"`
	OldOverdraftBalance int64     `json:"oldOverBalance" db:"old_over_balance"`
	NewOverdraftBalance int64     `json:"newOverBalance" db:"new_over_balance"`
}
