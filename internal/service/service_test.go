package service

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finance-tracker/internal/classifier"
	"github.com/carson-networks/finance-tracker/internal/operator"
	"github.com/carson-networks/finance-tracker/internal/storage"
	"github.com/carson-networks/finance-tracker/internal/storage/memory"
	"github.com/carson-networks/finance-tracker/internal/storage/model"
)

// 2025-02-14 10:00 in Jakarta.
var testNow = time.Date(2025, 2, 14, 3, 0, 0, 0, time.UTC)

type stubPredictor struct {
	prediction classifier.Prediction
}

func (p stubPredictor) Predict(string) classifier.Prediction {
	return p.prediction
}

type recordingInvalidator struct {
	mu    sync.Mutex
	users []uuid.UUID
}

func (r *recordingInvalidator) InvalidateUser(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = append(r.users, userID)
	return nil
}

type fixture struct {
	svc         *Service
	store       *storage.Storage
	invalidator *recordingInvalidator
	userID      uuid.UUID
	account     *model.Account
	makan       *model.Category
	transport   *model.Category
	gaji        *model.Category
}

func newFixture(t *testing.T, predictor classifier.Predictor) *fixture {
	t.Helper()
	ctx := context.Background()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store := storage.NewMemoryStorage(memory.New())
	delegator := operator.NewOperatorDelegator(store, 1, logger)
	delegator.Start()
	t.Cleanup(delegator.Stop)

	invalidator := &recordingInvalidator{}
	opts := Options{
		Location:    mustLocation(t, "Asia/Jakarta"),
		Currency:    "IDR",
		Invalidator: invalidator,
		Now:         fixedNow(testNow),
		Predictor:   predictor,
		Logger:      logger,
	}
	svc := NewService(store, delegator, opts)

	inserted, err := svc.Category.SeedDefaults(ctx)
	require.NoError(t, err)
	require.Equal(t, len(DefaultCategories), inserted)

	userID := uuid.Must(uuid.NewV4())
	account, err := store.Accounts.Insert(ctx, &model.AccountCreate{UserID: userID, Name: "Cash", Type: "cash", Currency: "IDR"})
	require.NoError(t, err)

	f := &fixture{svc: svc, store: store, invalidator: invalidator, userID: userID, account: account}
	categories, err := store.Categories.ListVisible(ctx, userID)
	require.NoError(t, err)
	for _, c := range categories {
		switch c.Name {
		case "Makan":
			f.makan = c
		case "Transport":
			f.transport = c
		case "Gaji":
			f.gaji = c
		}
	}
	return f
}

// add inserts a confirmed transaction straight into the store.
func (f *fixture) add(t *testing.T, kind model.TransactionKind, amount string, category *model.Category, occurredAt time.Time, description string) *model.Transaction {
	t.Helper()
	create := &model.TransactionCreate{
		UserID:      f.userID,
		AccountID:   f.account.ID,
		Kind:        kind,
		Amount:      decimal.RequireFromString(amount),
		Currency:    "IDR",
		Description: description,
		OccurredAt:  occurredAt,
		Status:      model.StatusConfirmed,
		Source:      DefaultSource,
	}
	if category != nil {
		create.CategoryID = &category.ID
	}
	row, err := f.store.Transactions.Insert(context.Background(), create)
	require.NoError(t, err)
	return row
}

func TestNewService_Defaults(t *testing.T) {
	svc := NewService(storage.NewMemoryStorage(memory.New()), nil, Options{})

	assert.Equal(t, time.UTC, svc.Periods.Location())
	assert.NotNil(t, svc.Transaction)
	assert.NotNil(t, svc.Dashboard)
	assert.Nil(t, svc.Prediction.PredictCategory("kopi").CategoryID)
}

func TestSeedDemo(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	userID := uuid.Must(uuid.NewV4())

	created, err := f.svc.SeedDemo(ctx, userID)
	require.NoError(t, err)
	assert.True(t, created)

	accounts, err := f.svc.Account.ListAccounts(ctx, userID)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "Demo Cash", accounts[0].Name)
	assert.Equal(t, "IDR", accounts[0].Currency)

	page, err := f.svc.Transaction.ListTransactions(ctx, userID, TransactionQuery{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Makan Siang Demo", page.Items[0].Description)
	assert.Equal(t, "45000.00", page.Items[0].Amount.StringFixed(2))
	assert.Equal(t, f.makan.ID, *page.Items[0].CategoryID)

	again, err := f.svc.SeedDemo(ctx, userID)
	require.NoError(t, err)
	assert.False(t, again)
}
