package database_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	migrate "github.com/rubenv/sql-migrate"
	"github.com/ruralpay/webbank/internal/audit"
	"github.com/ruralpay/webbank/internal/config"
	"github.com/ruralpay/webbank/internal/database"
	"github.com/ruralpay/webbank/internal/ledger"
	"github.com/ruralpay/webbank/internal/models"
	"github.com/ruralpay/webbank/internal/services"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLiteStore(t *testing.T) *database.SQLStore {
	t.Helper()
	db, err := database.InitDB(config.DatabaseConfig{
		Driver: database.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "ledger.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	applied, err := database.Migrate(db, database.DriverSQLite, migrate.Up, 0)
	require.NoError(t, err)
	require.Equal(t, 3, applied)

	return database.NewLedgerStore(db, database.DriverSQLite)
}

func newSQLiteLedger(t *testing.T, store *database.SQLStore, now func() time.Time) *services.LedgerService {
	t.Helper()
	logger, _ := test.NewNullLogger()
	auth := services.NewAuthService(store, nil, config.AuthConfig{})
	return services.NewLedgerService(store, auth, ledger.DefaultRules(),
		services.WithClock(now),
		services.WithAuditLogger(audit.NewAuditLogger(logger)),
	)
}

func TestSQLiteStore_DisputedRepaymentIsReversedWithoutInterest(t *testing.T) {
	ctx := context.Background()
	store := openSQLiteStore(t)
	require.NoError(t, store.CreateCustomer(ctx, &models.Account{
		CustomerID: "jdoe", FirstName: "John", LastName: "Doe", OverdraftBalance: 5000,
	}, "pw"))

	// sub-microsecond digits are dropped before anything is written
	now := time.Date(2024, 3, 1, 12, 0, 0, 123456789, time.UTC)
	service := newSQLiteLedger(t, store, func() time.Time { return now })

	snapshot, err := service.Deposit(ctx, "jdoe", "pw", 10000)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), snapshot.Balance)
	assert.Equal(t, int64(0), snapshot.OverdraftBalance)
	require.Len(t, snapshot.OverdraftLogs, 1)
	assert.Equal(t, int64(10000), snapshot.OverdraftLogs[0].DepositAmount)
	assert.Equal(t, int64(5000), snapshot.OverdraftLogs[0].OldOverdraftBalance)

	now = now.Add(time.Minute)
	snapshot, err = service.Dispute(ctx, "jdoe", "pw", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), snapshot.Balance)
	assert.Equal(t, int64(5000), snapshot.OverdraftBalance)
	assert.Equal(t, 1, snapshot.NumFraudReversals)
	assert.Empty(t, snapshot.OverdraftLogs)

	logs, err := store.ListOverdraftLogs(ctx, "jdoe")
	require.NoError(t, err)
	assert.Empty(t, logs)

	records, err := store.RecentTransactions(ctx, "jdoe", 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, models.ActionWithdraw, records[0].Action)
	assert.Equal(t, int64(10000), records[0].Amount)
	assert.Equal(t, models.ActionDeposit, records[1].Action)
	assert.True(t, records[1].Timestamp.Equal(now.Add(-time.Minute).Truncate(time.Microsecond)))
}

func TestSQLiteStore_DisputedPlainDepositChargesInterest(t *testing.T) {
	ctx := context.Background()
	store := openSQLiteStore(t)
	require.NoError(t, store.CreateCustomer(ctx, &models.Account{
		CustomerID: "jdoe", FirstName: "John", LastName: "Doe", Balance: 5000,
	}, "pw"))

	service := newSQLiteLedger(t, store, func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) })

	_, err := service.Deposit(ctx, "jdoe", "pw", 10000)
	require.NoError(t, err)

	snapshot, err := service.Dispute(ctx, "jdoe", "pw", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), snapshot.Balance)
	assert.Equal(t, int64(0), snapshot.OverdraftBalance)

	// the second reversal undoes the reversal itself and freezes the account
	snapshot, err = service.Dispute(ctx, "jdoe", "pw", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(15000), snapshot.Balance)
	assert.True(t, snapshot.Frozen)

	_, err = service.Withdraw(ctx, "jdoe", "pw", 100)
	assert.ErrorIs(t, err, ledger.ErrAccountFrozen)
}

func TestSQLiteStore_DeleteMatchingOverdraftLog(t *testing.T) {
	ctx := context.Background()
	store := openSQLiteStore(t)
	require.NoError(t, store.CreateCustomer(ctx, &models.Account{CustomerID: "jdoe", FirstName: "John", LastName: "Doe"}, "pw"))

	at := time.Date(2024, 3, 1, 12, 0, 0, 654321000, time.UTC)
	require.NoError(t, store.WithTx(ctx, func(tx database.LedgerTx) error {
		return tx.InsertOverdraftLog(ctx, &models.OverdraftLog{
			CustomerID: "jdoe", Timestamp: at, DepositAmount: 700,
			OldOverdraftBalance: 1000, NewOverdraftBalance: 300,
		})
	}))

	tests := []struct {
		name    string
		amount  int64
		at      time.Time
		deleted bool
	}{
		{"different amount", 701, at, false},
		{"different timestamp", 700, at.Add(time.Microsecond), false},
		{"exact match", 700, at, true},
		{"already deleted", 700, at, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var deleted bool
			require.NoError(t, store.WithTx(ctx, func(tx database.LedgerTx) error {
				var err error
				deleted, err = tx.DeleteMatchingOverdraftLog(ctx, "jdoe", tt.amount, tt.at)
				return err
			}))
			assert.Equal(t, tt.deleted, deleted)
		})
	}
}
