package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sirupsen/logrus"
	"github.com/stephenafamo/bob"

	"github.com/carson-networks/finance-tracker/internal/config"
	"github.com/carson-networks/finance-tracker/internal/storage/memory"
	"github.com/carson-networks/finance-tracker/internal/storage/model"
	"github.com/carson-networks/finance-tracker/internal/storage/sqlconfig"
)

// Storage is the ledger store. Reads go through the table fields directly;
// writes go through a Writer obtained from Write.
type Storage struct {
	DB           *sql.DB
	Accounts     model.IAccountTable
	Categories   model.ICategoryTable
	Transactions model.ITransactionTable

	begin func(ctx context.Context) (*Writer, error)
	ping  func(ctx context.Context) error
}

// NewStorage opens the backend selected by env.LedgerBackend.
func NewStorage(ctx context.Context, env *config.Config, logger *logrus.Logger) (*Storage, error) {
	if env.LedgerBackend == config.BackendMemory {
		logger.Warn("Storage.NewStorage.using in-memory ledger, data is lost on exit")
		return NewMemoryStorage(memory.New()), nil
	}

	db, err := sql.Open("pgx", env.PostgresURL())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	retry := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(max(env.DBConnectRetries, 0))),
		ctx,
	)
	err = backoff.RetryNotify(
		func() error { return db.PingContext(ctx) },
		retry,
		func(err error, wait time.Duration) {
			logger.WithError(err).WithField("retryIn", wait.String()).Warn("Storage.NewStorage.ping failed")
		},
	)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	return NewPostgresStorage(db), nil
}

// NewPostgresStorage wires the bob tables onto an open database.
func NewPostgresStorage(db *sql.DB) *Storage {
	exec := bob.NewDB(db)
	return &Storage{
		DB:           db,
		Accounts:     sqlconfig.NewAccountsTable(exec),
		Categories:   sqlconfig.NewCategoriesTable(exec),
		Transactions: sqlconfig.NewTransactionsTable(exec),
		begin: func(ctx context.Context) (*Writer, error) {
			tx, err := exec.BeginTx(ctx, nil)
			if err != nil {
				return nil, err
			}
			return NewWriter(
				&tx,
				sqlconfig.NewLockingAccountsTable(&tx),
				sqlconfig.NewCategoriesTable(&tx),
				sqlconfig.NewTransactionsTable(&tx),
			), nil
		},
		ping: db.PingContext,
	}
}

// NewMemoryStorage wires the in-memory tables of store.
func NewMemoryStorage(store *memory.Store) *Storage {
	return &Storage{
		Accounts:     store.Accounts(),
		Categories:   store.Categories(),
		Transactions: store.Transactions(),
		begin: func(ctx context.Context) (*Writer, error) {
			tx, err := store.Begin(ctx)
			if err != nil {
				return nil, err
			}
			return NewWriter(tx, tx.Accounts(), tx.Categories(), tx.Transactions()), nil
		},
		ping: store.Ping,
	}
}

// Write starts a storage transaction.
func (s *Storage) Write(ctx context.Context) (*Writer, error) {
	return s.begin(ctx)
}

// Ping checks that the backend is reachable.
func (s *Storage) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

// Close releases the database handle, if any.
func (s *Storage) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}
