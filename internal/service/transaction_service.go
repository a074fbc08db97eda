package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finance-tracker/internal/classifier"
	"github.com/carson-networks/finance-tracker/internal/operator/actions"
	"github.com/carson-networks/finance-tracker/internal/storage"
	"github.com/carson-networks/finance-tracker/internal/storage/model"
)

const (
	DefaultPageSize       = 20
	MaxPageSize           = 100
	MaxSearchLength       = 100
	MaxDescriptionLength  = 500
	confidencePrecision   = 4
	maxAmountIntegerDigit = 12

	WarningPageReset     = "page reset to 1"
	WarningPageSizeReset = "page_size reset to default 20"
	WarningPageSizeCap   = "page_size capped at 100"
)

var maxAmount = decimal.New(1, maxAmountIntegerDigit)

// TransactionService handles transaction business logic.
type TransactionService struct {
	storage     *storage.Storage
	operator    actionProcessor
	periods     *PeriodResolver
	predictor   classifier.Predictor
	invalidator SummaryInvalidator
	currency    string
	logger      *logrus.Logger
}

// NewTransactionService creates a new TransactionService. predictor and
// invalidator may be nil.
func NewTransactionService(
	store *storage.Storage,
	processor actionProcessor,
	periods *PeriodResolver,
	predictor classifier.Predictor,
	invalidator SummaryInvalidator,
	currency string,
	logger *logrus.Logger,
) *TransactionService {
	return &TransactionService{
		storage:     store,
		operator:    processor,
		periods:     periods,
		predictor:   predictor,
		invalidator: invalidator,
		currency:    currency,
		logger:      logger,
	}
}

// NormalizePaging clamps page and pageSize and explains every correction.
// Warnings is nil when nothing changed.
func NormalizePaging(page, pageSize int) (int, int, []string) {
	var warnings []string
	if page < 1 {
		page = 1
		warnings = append(warnings, WarningPageReset)
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
		warnings = append(warnings, WarningPageSizeReset)
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
		warnings = append(warnings, WarningPageSizeCap)
	}
	return page, pageSize, warnings
}

// PageOffset is the number of rows before page. It saturates at math.MaxInt
// instead of overflowing, so an absurd page is simply past the last row.
func PageOffset(page, pageSize int) int {
	if page <= 1 || pageSize <= 0 {
		return 0
	}
	if page-1 > math.MaxInt/pageSize {
		return math.MaxInt
	}
	return (page - 1) * pageSize
}

// SanitizeSearch trims term and cuts it to MaxSearchLength characters. A
// blank term means no search.
func SanitizeSearch(term string) *string {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}
	if utf8.RuneCountInString(term) > MaxSearchLength {
		term = string([]rune(term)[:MaxSearchLength])
	}
	return &term
}

// TotalPages is ceil(totalItems / pageSize), and 0 for an empty result.
func TotalPages(totalItems, pageSize int) int {
	if totalItems <= 0 || pageSize <= 0 {
		return 0
	}
	return (totalItems + pageSize - 1) / pageSize
}

// ListTransactions returns one page of the user's transactions, newest first.
func (s *TransactionService) ListTransactions(ctx context.Context, userID uuid.UUID, query TransactionQuery) (*TransactionsPage, error) {
	from, to, err := s.periods.Bounds(query.StartDate, query.EndDate)
	if err != nil {
		return nil, err
	}
	if query.Kind != nil && !query.Kind.Valid() {
		return nil, invalidField("type", "type must be one of income, expense, transfer")
	}

	page, pageSize, warnings := NormalizePaging(query.Page, query.PageSize)
	filter := &model.TransactionFilter{
		From:       from,
		To:         to,
		CategoryID: query.CategoryID,
		Kind:       query.Kind,
		Search:     SanitizeSearch(query.Search),
	}

	rows, total, err := s.storage.Transactions.Find(ctx, userID, filter, model.Page{
		Offset: PageOffset(page, pageSize),
		Limit:  pageSize,
	})
	if err != nil {
		return nil, err
	}

	items := make([]Transaction, len(rows))
	for i, row := range rows {
		items[i] = transactionFromStorage(row)
	}

	return &TransactionsPage{
		Items: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			TotalItems: total,
			TotalPages: TotalPages(total, pageSize),
			Warnings:   warnings,
		},
	}, nil
}

// CreateTransaction validates draft, fills in a predicted category when the
// caller gave none, and stores the transaction.
func (s *TransactionService) CreateTransaction(ctx context.Context, userID uuid.UUID, draft TransactionDraft) (*Transaction, error) {
	if err := s.normalizeDraft(&draft); err != nil {
		return nil, err
	}

	action := &actions.CreateTransaction{
		UserID:      userID,
		AccountID:   draft.AccountID,
		CategoryID:  draft.CategoryID,
		Kind:        draft.Kind,
		Amount:      draft.Amount,
		Currency:    draft.Currency,
		Description: draft.Description,
		OccurredAt:  draft.OccurredAt.UTC(),
		Status:      draft.Status,
		Source:      draft.Source,
	}

	if draft.CategoryID == nil {
		prediction := Annotate(s.predictor, draft.Description)
		if prediction.CategoryID != nil {
			action.CategoryID = prediction.CategoryID
			action.Predicted = true
			action.PredictedConfidence = decimal.NewFromFloat(prediction.Confidence).Round(confidencePrecision)
			action.Status = StatusPredicted
			action.FallbackStatus = draft.Status
		}
	}

	if err := s.operator.Process(ctx, action); err != nil {
		switch {
		case errors.Is(err, actions.ErrAccountNotFound):
			return nil, ErrInvalidAccount
		case errors.Is(err, actions.ErrCategoryNotFound):
			return nil, ErrInvalidCategory
		case errors.Is(err, model.ErrForeignKeyViolation):
			return nil, fmt.Errorf("%w: %w", ErrInvalidReference, err)
		}
		return nil, err
	}

	if s.invalidator != nil {
		if err := s.invalidator.InvalidateUser(ctx, userID); err != nil {
			s.logger.WithError(err).Warn("TransactionService.CreateTransaction.invalidate summary cache")
		}
	}

	created := transactionFromStorage(action.Created)
	return &created, nil
}

func (s *TransactionService) normalizeDraft(draft *TransactionDraft) error {
	if !draft.Kind.Valid() {
		return invalidField("type", "type must be one of income, expense, transfer")
	}
	if draft.Amount.IsNegative() {
		return invalidField("amount", "amount must be non-negative")
	}
	if !draft.Amount.Equal(draft.Amount.Round(2)) {
		return invalidField("amount", "amount must have at most 2 decimal places")
	}
	if draft.Amount.GreaterThanOrEqual(maxAmount) {
		return invalidField("amount", "amount is too large")
	}
	if draft.OccurredAt.IsZero() {
		return invalidField("occurred_at", "occurred_at is required")
	}
	if utf8.RuneCountInString(draft.Description) > MaxDescriptionLength {
		return invalidField("description", "description must be at most %d characters", MaxDescriptionLength)
	}

	draft.Amount = draft.Amount.Round(2)
	draft.Description = strings.TrimSpace(draft.Description)
	if draft.Status == "" {
		draft.Status = StatusConfirmed
	}
	if !draft.Status.Valid() {
		return invalidField("status", "status must be one of predicted, confirmed")
	}
	if draft.Source == "" {
		draft.Source = DefaultSource
	}
	if draft.Currency == "" {
		draft.Currency = s.currency
	}
	return nil
}
