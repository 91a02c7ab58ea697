package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ruralpay/webbank/internal/ledger"
	"github.com/ruralpay/webbank/internal/models"
)

// LedgerStore is the persistence the ledger service needs outside a transaction.
type LedgerStore interface {
	GetPassword(ctx context.Context, customerID string) (string, error)
	GetAccount(ctx context.Context, customerID string) (*models.Account, error)
	ListOverdraftLogs(ctx context.Context, customerID string) ([]models.OverdraftLog, error)
	RecentTransactions(ctx context.Context, customerID string, limit int) ([]models.TransactionRecord, error)
	CreateCustomer(ctx context.Context, account *models.Account, password string) error
	// WithTx runs fn in one database transaction, committing only when fn returns nil.
	WithTx(ctx context.Context, fn func(tx LedgerTx) error) error
}

// LedgerTx is the set of reads and writes one ledger operation performs atomically.
type LedgerTx interface {
	LockAccount(ctx context.Context, customerID string) (*models.Account, error)
	UpdateAccount(ctx context.Context, account *models.Account) error
	InsertTransaction(ctx context.Context, record *models.TransactionRecord) error
	RecentTransactions(ctx context.Context, customerID string, limit int) ([]models.TransactionRecord, error)
	InsertOverdraftLog(ctx context.Context, entry *models.OverdraftLog) error
	// DeleteMatchingOverdraftLog removes one log row for the given deposit and
	// reports whether such a row existed.
	DeleteMatchingOverdraftLog(ctx context.Context, customerID string, amount int64, at time.Time) (bool, error)
}

type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const (
	accountColumns     = "customer_id, first_name, last_name, balance, overdraft_balance, num_fraud_reversals"
	transactionColumns = "id, transaction_id, customer_id, occurred_at, action, amount"
	overdraftColumns   = "id, customer_id, occurred_at, deposit_amt, old_over_balance, new_over_balance"
)

// dialect adapts the postgres-style queries below to the open driver.
type dialect struct {
	driver string
}

func (d dialect) rebind(query string) string {
	if d.driver == DriverSQLite {
		return strings.ReplaceAll(query, "$", "?")
	}
	return query
}

func (d dialect) forUpdate() string {
	if d.driver == DriverSQLite {
		return ""
	}
	return " FOR UPDATE"
}

type SQLStore struct {
	db      *sql.DB
	dialect dialect
}

func NewLedgerStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, dialect: dialect{driver: driver}}
}

func (s *SQLStore) GetPassword(ctx context.Context, customerID string) (string, error) {
	var password string
	err := s.db.QueryRowContext(ctx,
		s.dialect.rebind("SELECT password FROM passwords WHERE customer_id = $1"),
		customerID).Scan(&password)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ledger.ErrAccountNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get password: %w", err)
	}
	return password, nil
}

func (s *SQLStore) GetAccount(ctx context.Context, customerID string) (*models.Account, error) {
	return getAccount(ctx, s.db, s.dialect, customerID, false)
}

func (s *SQLStore) ListOverdraftLogs(ctx context.Context, customerID string) ([]models.OverdraftLog, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(
		"SELECT "+overdraftColumns+" FROM overdraft_logs WHERE customer_id = $1 ORDER BY occurred_at DESC, id DESC"),
		customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list overdraft logs: %w", err)
	}
	defer rows.Close()

	logs := []models.OverdraftLog{}
	for rows.Next() {
		var entry models.OverdraftLog
		if err := rows.Scan(&entry.ID, &entry.CustomerID, &entry.Timestamp,
			&entry.DepositAmount, &entry.OldOverdraftBalance, &entry.NewOverdraftBalance); err != nil {
			return nil, fmt.Errorf("failed to scan overdraft log: %w", err)
		}
		logs = append(logs, entry)
	}
	return logs, rows.Err()
}

func (s *SQLStore) RecentTransactions(ctx context.Context, customerID string, limit int) ([]models.TransactionRecord, error) {
	return recentTransactions(ctx, s.db, s.dialect, customerID, limit)
}

// CreateCustomer inserts a new account row and its password.
func (s *SQLStore) CreateCustomer(ctx context.Context, account *models.Account, password string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, s.dialect.rebind(
		"INSERT INTO customers ("+accountColumns+") VALUES ($1, $2, $3, $4, $5, $6)"),
		account.CustomerID, account.FirstName, account.LastName,
		account.Balance, account.OverdraftBalance, account.NumFraudReversals)
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}

	_, err = tx.ExecContext(ctx, s.dialect.rebind(
		"INSERT INTO passwords (customer_id, password) VALUES ($1, $2)"),
		account.CustomerID, password)
	if err != nil {
		return fmt.Errorf("failed to store password: %w", err)
	}

	return tx.Commit()
}

func (s *SQLStore) WithTx(ctx context.Context, fn func(tx LedgerTx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&sqlTx{tx: tx, dialect: s.dialect}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type sqlTx struct {
	tx      *sql.Tx
	dialect dialect
}

func (t *sqlTx) LockAccount(ctx context.Context, customerID string) (*models.Account, error) {
	return getAccount(ctx, t.tx, t.dialect, customerID, true)
}

func (t *sqlTx) UpdateAccount(ctx context.Context, account *models.Account) error {
	result, err := t.tx.ExecContext(ctx, t.dialect.rebind(
		"UPDATE customers SET balance = $1, overdraft_balance = $2, num_fraud_reversals = $3 WHERE customer_id = $4"),
		account.Balance, account.OverdraftBalance, account.NumFraudReversals, account.CustomerID)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ledger.ErrAccountNotFound
	}
	return nil
}

func (t *sqlTx) InsertTransaction(ctx context.Context, record *models.TransactionRecord) error {
	_, err := t.tx.ExecContext(ctx, t.dialect.rebind(
		"INSERT INTO transaction_history (transaction_id, customer_id, occurred_at, action, amount) VALUES ($1, $2, $3, $4, $5)"),
		record.TransactionID, record.CustomerID, record.Timestamp, string(record.Action), record.Amount)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

func (t *sqlTx) RecentTransactions(ctx context.Context, customerID string, limit int) ([]models.TransactionRecord, error) {
	return recentTransactions(ctx, t.tx, t.dialect, customerID, limit)
}

func (t *sqlTx) InsertOverdraftLog(ctx context.Context, entry *models.OverdraftLog) error {
	_, err := t.tx.ExecContext(ctx, t.dialect.rebind(
		"INSERT INTO overdraft_logs (customer_id, occurred_at, deposit_amt, old_over_balance, new_over_balance) VALUES ($1, $2, $3, $4, $5)"),
		entry.CustomerID, entry.Timestamp, entry.DepositAmount, entry.OldOverdraftBalance, entry.NewOverdraftBalance)
	if err != nil {
		return fmt.Errorf("failed to insert overdraft log: %w", err)
	}
	return nil
}

func (t *sqlTx) DeleteMatchingOverdraftLog(ctx context.Context, customerID string, amount int64, at time.Time) (bool, error) {
	result, err := t.tx.ExecContext(ctx, t.dialect.rebind(
		"DELETE FROM overdraft_logs WHERE id = (SELECT id FROM overdraft_logs WHERE customer_id = $1 AND deposit_amt = $2 AND occurred_at = $3 ORDER BY id LIMIT 1)"),
		customerID, amount, at)
	if err != nil {
		return false, fmt.Errorf("failed to delete overdraft log: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

func getAccount(ctx context.Context, q queryer, d dialect, customerID string, lock bool) (*models.Account, error) {
	query := "SELECT " + accountColumns + " FROM customers WHERE customer_id = $1"
	if lock {
		query += d.forUpdate()
	}

	var account models.Account
	err := q.QueryRowContext(ctx, d.rebind(query), customerID).Scan(
		&account.CustomerID, &account.FirstName, &account.LastName,
		&account.Balance, &account.OverdraftBalance, &account.NumFraudReversals)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

func recentTransactions(ctx context.Context, q queryer, d dialect, customerID string, limit int) ([]models.TransactionRecord, error) {
	rows, err := q.QueryContext(ctx, d.rebind(
		"SELECT "+transactionColumns+" FROM transaction_history WHERE customer_id = $1 ORDER BY occurred_at DESC, id DESC LIMIT $2"),
		customerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	records := []models.TransactionRecord{}
	for rows.Next() {
		var (
			record models.TransactionRecord
			action string
		)
		if err := rows.Scan(&record.ID, &record.TransactionID, &record.CustomerID,
			&record.Timestamp, &action, &record.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		record.Action = models.Action(action)
		records = append(records, record)
	}
	return records, rows.Err()
}
