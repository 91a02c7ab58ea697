package ledger

import (
	"errors"
)

// Rejection is a business-rule refusal. The caller's request was understood
// but must not be applied; nothing was written.
type Rejection struct {
	Code    string
	Message string
}

func (r *Rejection) Error() string {
	return r.Message
}

var (
	ErrAuthenticationFailure  = &Rejection{Code: "AUTHENTICATION_FAILURE", Message: "invalid customer id or password"}
	ErrNegativeAmount         = &Rejection{Code: "NEGATIVE_AMOUNT", Message: "amount must not be negative"}
	ErrAmountTooLarge         = &Rejection{Code: "AMOUNT_TOO_LARGE", Message: "amount is too large"}
	ErrAccountFrozen          = &Rejection{Code: "ACCOUNT_FROZEN", Message: "account is frozen after repeated fraud reversals"}
	ErrOverdraftLimitExceeded = &Rejection{Code: "OVERDRAFT_LIMIT_EXCEEDED", Message: "withdrawal would exceed the overdraft limit"}
	ErrInvalidDisputeIndex    = &Rejection{Code: "INVALID_DISPUTE_INDEX", Message: "only one of the three most recent transactions can be disputed"}
	ErrTransactionNotFound    = &Rejection{Code: "TRANSACTION_NOT_FOUND", Message: "not enough transactions to dispute"}
	ErrAccountNotFound        = &Rejection{Code: "ACCOUNT_NOT_FOUND", Message: "account not found"}
)

// AsRejection unwraps err to a *Rejection if it carries one.
func AsRejection(err error) (*Rejection, bool) {
	var rej *Rejection
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}
