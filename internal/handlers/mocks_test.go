package handlers

import (
	"context"
	"errors"

	"github.com/ruralpay/webbank/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) snapshot(args mock.Arguments) (*models.AccountSnapshot, error) {
	if s, ok := args.Get(0).(*models.AccountSnapshot); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLedger) Login(ctx context.Context, customerID, password string) (*models.AccountSnapshot, error) {
	return m.snapshot(m.Called(ctx, customerID, password))
}

func (m *MockLedger) Deposit(ctx context.Context, customerID, password string, amount int64) (*models.AccountSnapshot, error) {
	return m.snapshot(m.Called(ctx, customerID, password, amount))
}

func (m *MockLedger) Withdraw(ctx context.Context, customerID, password string, amount int64) (*models.AccountSnapshot, error) {
	return m.snapshot(m.Called(ctx, customerID, password, amount))
}

func (m *MockLedger) Dispute(ctx context.Context, customerID, password string, n int) (*models.AccountSnapshot, error) {
	return m.snapshot(m.Called(ctx, customerID, password, n))
}

func (m *MockLedger) AccountInfo(ctx context.Context, customerID string) (*models.AccountSnapshot, error) {
	return m.snapshot(m.Called(ctx, customerID))
}

func (m *MockLedger) RecentTransactions(ctx context.Context, customerID string, limit int) ([]models.TransactionRecord, error) {
	args := m.Called(ctx, customerID, limit)
	records, _ := args.Get(0).([]models.TransactionRecord)
	return records, args.Error(1)
}

func (m *MockLedger) OverdraftLogs(ctx context.Context, customerID string) ([]models.OverdraftLog, error) {
	args := m.Called(ctx, customerID)
	logs, _ := args.Get(0).([]models.OverdraftLog)
	return logs, args.Error(1)
}

type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) Authenticate(ctx context.Context, customerID, attempt string) bool {
	return m.Called(ctx, customerID, attempt).Bool(0)
}

func (m *MockTokenIssuer) GenerateToken(customerID string) (string, error) {
	args := m.Called(customerID)
	return args.String(0), args.Error(1)
}

func (m *MockTokenIssuer) RevokeToken(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

// stubValidator accepts exactly one token.
type stubValidator struct {
	token      string
	customerID string
}

func (s stubValidator) ValidateToken(ctx context.Context, token string) (string, error) {
	if token != s.token {
		return "", errors.New("unknown token")
	}
	return s.customerID, nil
}
