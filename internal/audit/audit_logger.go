package audit

import (
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"
)

type AuditEvent struct {
	Timestamp     time.Time `json:"timestamp"`
	EventType     string    `json:"event_type"`
	TransactionID string    `json:"transaction_id,omitempty"`
	AccountID     string    `json:"account_id"`
	Amount        int64     `json:"amount"`
	Status        string    `json:"status"`
	Details       any       `json:"details,omitempty"`
}

// Balances is the before/after view attached to a successful mutation.
type Balances struct {
	BalanceBefore   int64 `json:"balance_before"`
	BalanceAfter    int64 `json:"balance_after"`
	OverdraftBefore int64 `json:"overdraft_before"`
	OverdraftAfter  int64 `json:"overdraft_after"`
}

type AuditLogger struct {
	logger *logrus.Logger
}

func NewAuditLogger(logger *logrus.Logger) *AuditLogger {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &AuditLogger{logger: logger}
}

func (a *AuditLogger) LogOperation(transactionID, accountID, operation string, amount int64, balances Balances) {
	a.log(logrus.InfoLevel, AuditEvent{
		Timestamp:     time.Now().UTC(),
		EventType:     operation,
		TransactionID: transactionID,
		AccountID:     accountID,
		Amount:        amount,
		Status:        "SUCCESS",
		Details:       balances,
	})
}

func (a *AuditLogger) LogRejection(accountID, operation string, amount int64, code string) {
	a.log(logrus.WarnLevel, AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: operation,
		AccountID: accountID,
		Amount:    amount,
		Status:    "REJECTED",
		Details:   map[string]string{"reason": code},
	})
}

func (a *AuditLogger) LogError(accountID, operation string, err error) {
	a.log(logrus.ErrorLevel, AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: operation,
		AccountID: accountID,
		Status:    "FAILED",
		Details:   map[string]string{"error": err.Error()},
	})
}

func (a *AuditLogger) log(level logrus.Level, event AuditEvent) {
	data, _ := json.Marshal(event)
	a.logger.WithFields(logrus.Fields{
		"audit":      true,
		"event_type": event.EventType,
		"account_id": event.AccountID,
		"status":     event.Status,
	}).Logf(level, "AUDIT: %s", string(data))
}
