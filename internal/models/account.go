package models

// Account is one customer row. Balances are in cents.
type Account struct {
	CustomerID        string `json:"customerId" db:"customer_id" example:"jdoe"`
	FirstName         string `json:"firstName" db:"first_name" example:"John"`
	LastName          string `json:"lastName" db:"last_name" example:"Doe"`
	Balance           int64  `json:"balance" db:"balance" example:"5000"`
	OverdraftBalance  int64  `json:"overdraftBalance" db:"overdraft_balance" example:"0"`
	NumFraudReversals int    `json:"numFraudReversals" db:"num_fraud_reversals" example:"0"`
}

// AccountSnapshot is what a successful operation hands back to the caller.
// @Description Account details shown after login, deposit, withdraw or dispute
type AccountSnapshot struct {
	Account
	Frozen        bool           `json:"frozen" example:"false"`
	OverdraftLogs []OverdraftLog `json:"overdraftLogs"`
}
