package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ruralpay/webbank/internal/audit"
	"github.com/ruralpay/webbank/internal/database"
	"github.com/ruralpay/webbank/internal/ledger"
	"github.com/ruralpay/webbank/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	OpDeposit  = "DEPOSIT"
	OpWithdraw = "WITHDRAW"
	OpDispute  = "DISPUTE"

	maxHistoryLimit = 100
)

type Authenticator interface {
	Authenticate(ctx context.Context, customerID, attempt string) bool
}

// AccountLocker serialises work on one account beyond the database row lock.
type AccountLocker interface {
	WithLock(ctx context.Context, customerID string, fn func() error) error
}

type LedgerOption func(*LedgerService)

func WithLocker(locker AccountLocker) LedgerOption {
	return func(s *LedgerService) { s.locker = locker }
}

func WithClock(now func() time.Time) LedgerOption {
	return func(s *LedgerService) { s.now = now }
}

func WithAuditLogger(a *audit.AuditLogger) LedgerOption {
	return func(s *LedgerService) { s.audit = a }
}

func WithHistoryLimit(limit int) LedgerOption {
	return func(s *LedgerService) {
		if limit > 0 && limit <= maxHistoryLimit {
			s.historyLimit = limit
		}
	}
}

// LedgerService runs deposits, withdrawals and fraud disputes. Every
// mutation happens in one database transaction holding the customer row lock.
type LedgerService struct {
	store        database.LedgerStore
	auth         Authenticator
	locker       AccountLocker
	audit        *audit.AuditLogger
	rules        ledger.Rules
	now          func() time.Time
	newID        func() string
	historyLimit int
}

func NewLedgerService(store database.LedgerStore, auth Authenticator, rules ledger.Rules, opts ...LedgerOption) *LedgerService {
	s := &LedgerService{
		store:        store,
		auth:         auth,
		rules:        rules,
		audit:        audit.NewAuditLogger(nil),
		now:          time.Now,
		newID:        uuid.NewString,
		historyLimit: 10,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *LedgerService) Authenticate(ctx context.Context, customerID, password string) bool {
	return s.auth.Authenticate(ctx, customerID, password)
}

func (s *LedgerService) IsFrozen(ctx context.Context, customerID string) (bool, error) {
	account, err := s.store.GetAccount(ctx, customerID)
	if err != nil {
		return false, err
	}
	return s.rules.IsFrozen(account.NumFraudReversals), nil
}

// Login checks the password and returns the account snapshot.
func (s *LedgerService) Login(ctx context.Context, customerID, password string) (*models.AccountSnapshot, error) {
	if !s.auth.Authenticate(ctx, customerID, password) {
		s.audit.LogRejection(customerID, "LOGIN", 0, ledger.ErrAuthenticationFailure.Code)
		return nil, ledger.ErrAuthenticationFailure
	}
	return s.AccountInfo(ctx, customerID)
}

// Deposit credits amount cents, repaying any overdraft first.
func (s *LedgerService) Deposit(ctx context.Context, customerID, password string, amount int64) (*models.AccountSnapshot, error) {
	return s.mutate(ctx, OpDeposit, customerID, password, amount, ledger.CheckAmount(amount), func(tx database.LedgerTx, account *models.Account, now time.Time) (*models.TransactionRecord, ledger.Movement, error) {
		return s.applyMovement(ctx, tx, account, amount, ledger.Credit, false, now)
	})
}

// Withdraw debits amount cents, borrowing the shortfall with interest when
// the balance does not cover it.
func (s *LedgerService) Withdraw(ctx context.Context, customerID, password string, amount int64) (*models.AccountSnapshot, error) {
	return s.mutate(ctx, OpWithdraw, customerID, password, amount, ledger.CheckAmount(amount), func(tx database.LedgerTx, account *models.Account, now time.Time) (*models.TransactionRecord, ledger.Movement, error) {
		return s.applyMovement(ctx, tx, account, amount, ledger.Debit, false, now)
	})
}

// Dispute reverses the n-th most recent transaction and counts one fraud
// reversal against the account.
func (s *LedgerService) Dispute(ctx context.Context, customerID, password string, n int) (*models.AccountSnapshot, error) {
	return s.mutate(ctx, OpDispute, customerID, password, 0, s.rules.CheckDisputeIndex(n), func(tx database.LedgerTx, account *models.Account, now time.Time) (*models.TransactionRecord, ledger.Movement, error) {
		records, err := tx.RecentTransactions(ctx, customerID, n)
		if err != nil {
			return nil, ledger.Movement{}, err
		}
		if len(records) < n {
			return nil, ledger.Movement{}, ledger.ErrTransactionNotFound
		}
		target := records[n-1]

		reversal := target.Action.Opposite()
		direction := ledger.Credit
		waiveInterest := false
		if reversal == models.ActionWithdraw {
			direction = ledger.Debit
			// a deposit that repaid overdraft is undone without charging interest again
			waiveInterest, err = tx.DeleteMatchingOverdraftLog(ctx, customerID, target.Amount, target.Timestamp)
			if err != nil {
				return nil, ledger.Movement{}, err
			}
		}

		account.NumFraudReversals++
		logrus.WithFields(logrus.Fields{
			"customer_id":    customerID,
			"transaction_id": target.TransactionID,
			"action":         target.Action,
			"reversal":       reversal,
			"waive_interest": waiveInterest,
		}).Info("[LEDGER] reversing disputed transaction")

		return s.applyMovement(ctx, tx, account, target.Amount, direction, waiveInterest, now)
	})
}

// AccountInfo returns the account with its overdraft log, newest first.
func (s *LedgerService) AccountInfo(ctx context.Context, customerID string) (*models.AccountSnapshot, error) {
	account, err := s.store.GetAccount(ctx, customerID)
	if err != nil {
		return nil, err
	}

	logs, err := s.store.ListOverdraftLogs(ctx, customerID)
	if err != nil {
		return nil, err
	}

	return &models.AccountSnapshot{
		Account:       *account,
		Frozen:        s.rules.IsFrozen(account.NumFraudReversals),
		OverdraftLogs: logs,
	}, nil
}

// RecentTransactions returns up to limit transactions, newest first. A
// non-positive limit uses the configured default.
func (s *LedgerService) RecentTransactions(ctx context.Context, customerID string, limit int) ([]models.TransactionRecord, error) {
	if limit <= 0 {
		limit = s.historyLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return s.store.RecentTransactions(ctx, customerID, limit)
}

func (s *LedgerService) OverdraftLogs(ctx context.Context, customerID string) ([]models.OverdraftLog, error) {
	return s.store.ListOverdraftLogs(ctx, customerID)
}

type mutation func(tx database.LedgerTx, account *models.Account, now time.Time) (*models.TransactionRecord, ledger.Movement, error)

// mutate authenticates, reports check if it failed, then runs fn against
// the locked account inside one transaction.
func (s *LedgerService) mutate(ctx context.Context, op, customerID, password string, amount int64, check error, fn mutation) (*models.AccountSnapshot, error) {
	if !s.auth.Authenticate(ctx, customerID, password) {
		return nil, s.reject(op, customerID, amount, ledger.ErrAuthenticationFailure)
	}
	if check != nil {
		return nil, s.reject(op, customerID, amount, check)
	}

	var (
		record   *models.TransactionRecord
		movement ledger.Movement
	)
	run := func() error {
		return s.store.WithTx(ctx, func(tx database.LedgerTx) error {
			account, err := tx.LockAccount(ctx, customerID)
			if err != nil {
				return err
			}
			if s.rules.IsFrozen(account.NumFraudReversals) {
				return ledger.ErrAccountFrozen
			}

			now := s.now().UTC().Truncate(time.Microsecond)
			record, movement, err = fn(tx, account, now)
			return err
		})
	}

	var err error
	if s.locker != nil {
		err = s.locker.WithLock(ctx, customerID, run)
	} else {
		err = run()
	}
	if err != nil {
		if _, ok := ledger.AsRejection(err); ok {
			return nil, s.reject(op, customerID, amount, err)
		}
		s.audit.LogError(customerID, op, err)
		return nil, fmt.Errorf("%s failed: %w", op, err)
	}

	transactionID := ""
	if record != nil {
		transactionID = record.TransactionID
		amount = record.Amount
	}
	s.audit.LogOperation(transactionID, customerID, op, amount, audit.Balances{
		BalanceBefore:   movement.Before.Balance,
		BalanceAfter:    movement.After.Balance,
		OverdraftBefore: movement.Before.Overdraft,
		OverdraftAfter:  movement.After.Overdraft,
	})

	return s.AccountInfo(ctx, customerID)
}

// applyMovement is the single path by which money moves: it runs the engine,
// then writes the overdraft log (on repayment), the account row and the
// transaction record. A zero amount changes nothing.
func (s *LedgerService) applyMovement(ctx context.Context, tx database.LedgerTx, account *models.Account, amount int64, dir ledger.Direction, waiveInterest bool, now time.Time) (*models.TransactionRecord, ledger.Movement, error) {
	position := ledger.Position{Balance: account.Balance, Overdraft: account.OverdraftBalance}
	movement, err := s.rules.Apply(position, amount, dir, waiveInterest)
	if err != nil {
		return nil, ledger.Movement{}, err
	}
	if amount == 0 {
		return nil, movement, nil
	}

	if movement.Repayment {
		if err := tx.InsertOverdraftLog(ctx, &models.OverdraftLog{
			CustomerID:          account.CustomerID,
			Timestamp:           now,
			DepositAmount:       amount,
			OldOverdraftBalance: movement.Before.Overdraft,
			NewOverdraftBalance: movement.After.Overdraft,
		}); err != nil {
			return nil, ledger.Movement{}, err
		}
	}

	account.Balance = movement.After.Balance
	account.OverdraftBalance = movement.After.Overdraft
	if err := tx.UpdateAccount(ctx, account); err != nil {
		return nil, ledger.Movement{}, err
	}

	action := models.ActionDeposit
	if dir == ledger.Debit {
		action = models.ActionWithdraw
	}
	record := &models.TransactionRecord{
		TransactionID: s.newID(),
		CustomerID:    account.CustomerID,
		Timestamp:     now,
		Action:        action,
		Amount:        amount,
	}
	if err := tx.InsertTransaction(ctx, record); err != nil {
		return nil, ledger.Movement{}, err
	}

	return record, movement, nil
}

func (s *LedgerService) reject(op, customerID string, amount int64, err error) error {
	code := "UNKNOWN"
	var rej *ledger.Rejection
	if errors.As(err, &rej) {
		code = rej.Code
	}
	s.audit.LogRejection(customerID, op, amount, code)
	return err
}
