package operator

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finance-tracker/internal/operator/actions"
	"github.com/carson-networks/finance-tracker/internal/storage"
	"github.com/carson-networks/finance-tracker/internal/storage/memory"
	"github.com/carson-networks/finance-tracker/internal/storage/model"
)

type funcAction func(ctx context.Context, writer *storage.Writer) error

func (f funcAction) Perform(ctx context.Context, writer *storage.Writer) error {
	return f(ctx, writer)
}

func newTestDelegator(t *testing.T) (*OperatorDelegator, *storage.Storage) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	store := storage.NewMemoryStorage(memory.New())
	d := NewOperatorDelegator(store, 2, logger)
	d.Start()
	t.Cleanup(d.Stop)
	return d, store
}

func TestProcess_CommitsAction(t *testing.T) {
	d, store := newTestDelegator(t)
	userID := uuid.Must(uuid.NewV4())

	action := &actions.CreateAccount{UserID: userID, Name: "Demo Cash", Type: "cash", Currency: "IDR"}
	require.NoError(t, d.Process(context.Background(), action))
	require.NotNil(t, action.Created)

	accounts, err := store.Accounts.ListForUser(context.Background(), userID)
	assert.NoError(t, err)
	assert.Len(t, accounts, 1)
}

func TestProcess_RollsBackOnError(t *testing.T) {
	d, store := newTestDelegator(t)
	userID := uuid.Must(uuid.NewV4())
	boom := errors.New("boom")

	err := d.Process(context.Background(), funcAction(func(ctx context.Context, writer *storage.Writer) error {
		if _, err := writer.Accounts.Insert(ctx, &model.AccountCreate{UserID: userID, Name: "x", Type: "cash", Currency: "IDR"}); err != nil {
			return err
		}
		return boom
	}))
	assert.ErrorIs(t, err, boom)

	accounts, err := store.Accounts.ListForUser(context.Background(), userID)
	assert.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestProcess_RecoversFromPanic(t *testing.T) {
	d, _ := newTestDelegator(t)

	err := d.Process(context.Background(), funcAction(func(context.Context, *storage.Writer) error {
		panic("unexpected")
	}))
	assert.ErrorContains(t, err, "panicked")

	// The worker is still alive and the store lock was released.
	assert.NoError(t, d.Process(context.Background(), funcAction(func(context.Context, *storage.Writer) error { return nil })))
}

func TestProcess_CanceledContext(t *testing.T) {
	d, _ := newTestDelegator(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := d.Process(ctx, funcAction(func(context.Context, *storage.Writer) error { return nil }))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProcess_ReportsCommitAfterContextEnds(t *testing.T) {
	d, store := newTestDelegator(t)
	userID := uuid.Must(uuid.NewV4())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err := d.Process(ctx, funcAction(func(_ context.Context, writer *storage.Writer) error {
		cancel()
		_, err := writer.Accounts.Insert(context.Background(), &model.AccountCreate{UserID: userID, Name: "x", Type: "cash", Currency: "IDR"})
		return err
	}))
	require.NoError(t, err)

	accounts, err := store.Accounts.ListForUser(context.Background(), userID)
	assert.NoError(t, err)
	assert.Len(t, accounts, 1)
}

func TestProcess_ReportsFailureAfterContextEnds(t *testing.T) {
	d, _ := newTestDelegator(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	boom := errors.New("boom")

	err := d.Process(ctx, funcAction(func(context.Context, *storage.Writer) error {
		cancel()
		return boom
	}))
	assert.ErrorIs(t, err, boom)
}

func TestProcess_AfterStop(t *testing.T) {
	d, _ := newTestDelegator(t)
	d.Stop()

	err := d.Process(context.Background(), funcAction(func(context.Context, *storage.Writer) error { return nil }))
	assert.ErrorIs(t, err, ErrStopped)
}
