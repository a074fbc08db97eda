package service

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finance-tracker/internal/classifier"
	"github.com/carson-networks/finance-tracker/internal/operator/actions"
	"github.com/carson-networks/finance-tracker/internal/storage"
)

// actionProcessor runs a write action inside a storage transaction.
type actionProcessor interface {
	Process(ctx context.Context, action actions.IAction) error
}

// SummaryInvalidator drops cached summaries after a user's ledger changes.
type SummaryInvalidator interface {
	InvalidateUser(ctx context.Context, userID uuid.UUID) error
}

// Options configures NewService. Predictor and Invalidator are optional.
type Options struct {
	Location    *time.Location
	Currency    string
	Predictor   classifier.Predictor
	Invalidator SummaryInvalidator
	Now         func() time.Time
	Logger      *logrus.Logger
}

// Service holds all business logic services.
type Service struct {
	Periods     *PeriodResolver
	Transaction *TransactionService
	Account     *AccountService
	Category    *CategoryService
	Dashboard   *DashboardService
	Prediction  *PredictionService
}

// NewService creates a new Service with the given storage and write queue.
func NewService(store *storage.Storage, processor actionProcessor, opts Options) *Service {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	periods := NewPeriodResolver(opts.Location, opts.Now)
	return &Service{
		Periods:     periods,
		Transaction: NewTransactionService(store, processor, periods, opts.Predictor, opts.Invalidator, opts.Currency, opts.Logger),
		Account:     NewAccountService(store, processor, opts.Currency),
		Category:    NewCategoryService(store, processor),
		Dashboard:   NewDashboardService(store, opts.Currency),
		Prediction:  NewPredictionService(opts.Predictor),
	}
}
