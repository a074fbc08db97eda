// Package memory is an in-process ledger store. It backs local development
// (LEDGER_BACKEND=memory) and the engine tests.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-tracker/internal/storage/model"
)

var ErrTxDone = errors.New("memory: transaction already finished")

// Store holds every table behind a single lock. Write transactions take the
// lock exclusively for their whole lifetime.
type Store struct {
	mu           sync.RWMutex
	accounts     map[uuid.UUID]*model.Account
	categories   map[uuid.UUID]*model.Category
	transactions map[uuid.UUID]*model.Transaction
	now          func() time.Time
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		accounts:     make(map[uuid.UUID]*model.Account),
		categories:   make(map[uuid.UUID]*model.Category),
		transactions: make(map[uuid.UUID]*model.Transaction),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the timestamp source used for created_at/updated_at.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) Accounts() model.IAccountTable {
	return &accountTable{store: s}
}

func (s *Store) Categories() model.ICategoryTable {
	return &categoryTable{store: s}
}

func (s *Store) Transactions() model.ITransactionTable {
	return &transactionTable{store: s}
}

// Ping always succeeds.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Begin starts a write transaction. It blocks until no other transaction or
// write holds the store.
func (s *Store) Begin(ctx context.Context) (*Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	return &Tx{store: s}, nil
}

// Tx is a write transaction over a Store. Tables obtained from a Tx must not
// be used after Commit or Rollback.
type Tx struct {
	store *Store
	undo  []func()
	done  bool
}

func (t *Tx) Accounts() model.IAccountTable {
	return &accountTable{store: t.store, tx: t}
}

func (t *Tx) Categories() model.ICategoryTable {
	return &categoryTable{store: t.store, tx: t}
}

func (t *Tx) Transactions() model.ITransactionTable {
	return &transactionTable{store: t.store, tx: t}
}

// Commit keeps every write made through the transaction.
func (t *Tx) Commit(_ context.Context) error {
	if t.done {
		return ErrTxDone
	}
	t.done = true
	t.undo = nil
	t.store.mu.Unlock()
	return nil
}

// Rollback reverts every write made through the transaction.
func (t *Tx) Rollback(_ context.Context) error {
	if t.done {
		return ErrTxDone
	}
	t.done = true
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
	t.store.mu.Unlock()
	return nil
}

// read runs fn with at least a shared lock held.
func (s *Store) read(tx *Tx, fn func()) {
	if tx == nil {
		s.mu.RLock()
		defer s.mu.RUnlock()
	}
	fn()
}

// write runs fn with the exclusive lock held. Inside a transaction fn may
// register an undo step.
func (s *Store) write(tx *Tx, fn func(onRollback func(func()))) {
	if tx != nil {
		fn(func(step func()) { tx.undo = append(tx.undo, step) })
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(func(func()) {})
}

func newID() uuid.UUID {
	return uuid.Must(uuid.NewV4())
}

func copyID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	out := *id
	return &out
}
