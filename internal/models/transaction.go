package models

import (
	"time"
)

type Action string

const (
	ActionDeposit  Action = "Deposit"
	ActionWithdraw Action = "Withdraw"
)

// Opposite returns the action that undoes a.
func (a Action) Opposite() Action {
	if a == ActionDeposit {
		return ActionWithdraw
	}
	return ActionDeposit
}

// TransactionRecord is one append-only row of transaction_history
type TransactionRecord struct {
	ID            int64     `json:"id" db:"id"`
	TransactionID string    `json:"transactionId" db:"transaction_id"`
	CustomerID    string    `json:"customerId" db:"customer_id"`
	Timestamp     time.Time `json:"timestamp" db:"occurred_at"`
	Action        Action    `json:"action" db:"action"`
	Amount        int64     `json:"amount" db:"amount"` // in cents
}
