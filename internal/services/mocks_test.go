package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ruralpay/webbank/internal/database"
	"github.com/ruralpay/webbank/internal/ledger"
	"github.com/ruralpay/webbank/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Authenticate(ctx context.Context, customerID, attempt string) bool {
	args := m.Called(customerID, attempt)
	return args.Bool(0)
}

type MockLocker struct {
	mock.Mock
}

func (m *MockLocker) WithLock(ctx context.Context, customerID string, fn func() error) error {
	args := m.Called(customerID)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn()
}

type MockPasswordStore struct {
	mock.Mock
}

func (m *MockPasswordStore) GetPassword(ctx context.Context, customerID string) (string, error) {
	args := m.Called(customerID)
	return args.String(0), args.Error(1)
}

// memStore is an in-memory LedgerStore. WithTx restores the previous state
// when the callback fails, like a database rollback.
type memStore struct {
	mu            sync.Mutex
	accounts      map[string]models.Account
	passwords     map[string]string
	transactions  []models.TransactionRecord
	overdraftLogs []models.OverdraftLog
	nextID        int64
}

func newMemStore(accounts ...models.Account) *memStore {
	s := &memStore{
		accounts:  map[string]models.Account{},
		passwords: map[string]string{},
	}
	for _, a := range accounts {
		s.accounts[a.CustomerID] = a
	}
	return s
}

func (s *memStore) seedTransaction(customerID string, action models.Action, amount int64, at time.Time) models.TransactionRecord {
	s.nextID++
	record := models.TransactionRecord{
		ID:            s.nextID,
		TransactionID: "seed",
		CustomerID:    customerID,
		Timestamp:     at,
		Action:        action,
		Amount:        amount,
	}
	s.transactions = append(s.transactions, record)
	return record
}

func (s *memStore) seedOverdraftLog(entry models.OverdraftLog) {
	s.nextID++
	entry.ID = s.nextID
	s.overdraftLogs = append(s.overdraftLogs, entry)
}

func (s *memStore) account(id string) models.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts[id]
}

func (s *memStore) GetPassword(ctx context.Context, customerID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.passwords[customerID]
	if !ok {
		return "", ledger.ErrAccountNotFound
	}
	return p, nil
}

func (s *memStore) GetAccount(ctx context.Context, customerID string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[customerID]
	if !ok {
		return nil, ledger.ErrAccountNotFound
	}
	return &a, nil
}

func (s *memStore) ListOverdraftLogs(ctx context.Context, customerID string) ([]models.OverdraftLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	logs := []models.OverdraftLog{}
	for i := len(s.overdraftLogs) - 1; i >= 0; i-- {
		if s.overdraftLogs[i].CustomerID == customerID {
			logs = append(logs, s.overdraftLogs[i])
		}
	}
	return logs, nil
}

func (s *memStore) RecentTransactions(ctx context.Context, customerID string, limit int) ([]models.TransactionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recent(customerID, limit), nil
}

func (s *memStore) recent(customerID string, limit int) []models.TransactionRecord {
	records := []models.TransactionRecord{}
	for _, r := range s.transactions {
		if r.CustomerID == customerID {
			records = append(records, r)
		}
	}
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Timestamp.Equal(records[j].Timestamp) {
			return records[i].ID > records[j].ID
		}
		return records[i].Timestamp.After(records[j].Timestamp)
	})
	if len(records) > limit {
		records = records[:limit]
	}
	return records
}

func (s *memStore) CreateCustomer(ctx context.Context, account *models.Account, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[account.CustomerID] = *account
	s.passwords[account.CustomerID] = password
	return nil
}

func (s *memStore) WithTx(ctx context.Context, fn func(tx database.LedgerTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts := make(map[string]models.Account, len(s.accounts))
	for k, v := range s.accounts {
		accounts[k] = v
	}
	transactions := append([]models.TransactionRecord(nil), s.transactions...)
	logs := append([]models.OverdraftLog(nil), s.overdraftLogs...)
	nextID := s.nextID

	if err := fn(&memTx{s: s}); err != nil {
		s.accounts, s.transactions, s.overdraftLogs, s.nextID = accounts, transactions, logs, nextID
		return err
	}
	return nil
}

type memTx struct {
	s *memStore
}

func (t *memTx) LockAccount(ctx context.Context, customerID string) (*models.Account, error) {
	a, ok := t.s.accounts[customerID]
	if !ok {
		return nil, ledger.ErrAccountNotFound
	}
	return &a, nil
}

func (t *memTx) UpdateAccount(ctx context.Context, account *models.Account) error {
	if _, ok := t.s.accounts[account.CustomerID]; !ok {
		return ledger.ErrAccountNotFound
	}
	t.s.accounts[account.CustomerID] = *account
	return nil
}

func (t *memTx) InsertTransaction(ctx context.Context, record *models.TransactionRecord) error {
	t.s.nextID++
	record.ID = t.s.nextID
	t.s.transactions = append(t.s.transactions, *record)
	return nil
}

func (t *memTx) RecentTransactions(ctx context.Context, customerID string, limit int) ([]models.TransactionRecord, error) {
	return t.s.recent(customerID, limit), nil
}

func (t *memTx) InsertOverdraftLog(ctx context.Context, entry *models.OverdraftLog) error {
	t.s.nextID++
	entry.ID = t.s.nextID
	t.s.overdraftLogs = append(t.s.overdraftLogs, *entry)
	return nil
}

func (t *memTx) DeleteMatchingOverdraftLog(ctx context.Context, customerID string, amount int64, at time.Time) (bool, error) {
	for i, entry := range t.s.overdraftLogs {
		if entry.CustomerID == customerID && entry.DepositAmount == amount && entry.Timestamp.Equal(at) {
			t.s.overdraftLogs = append(t.s.overdraftLogs[:i:i], t.s.overdraftLogs[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
