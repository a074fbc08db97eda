package model

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// ErrForeignKeyViolation is returned by Insert when a referenced account or
// category row does not exist.
var ErrForeignKeyViolation = errors.New("foreign key violation")

// UncategorizedName labels the group of transactions without a category.
const UncategorizedName = "Uncategorized"

type TransactionKind string

const (
	KindIncome   TransactionKind = "income"
	KindExpense  TransactionKind = "expense"
	KindTransfer TransactionKind = "transfer"
)

// Valid reports whether k is one of the known kinds.
func (k TransactionKind) Valid() bool {
	switch k {
	case KindIncome, KindExpense, KindTransfer:
		return true
	}
	return false
}

type TransactionStatus string

const (
	StatusPredicted TransactionStatus = "predicted"
	StatusConfirmed TransactionStatus = "confirmed"
)

// Valid reports whether s is one of the known statuses.
func (s TransactionStatus) Valid() bool {
	return s == StatusPredicted || s == StatusConfirmed
}

// Transaction represents a transaction record.
type Transaction struct {
	ID                  uuid.UUID
	UserID              uuid.UUID
	AccountID           uuid.UUID
	CategoryID          *uuid.UUID
	PredictedCategoryID *uuid.UUID
	PredictedConfidence *decimal.Decimal
	Kind                TransactionKind
	Amount              decimal.Decimal
	Currency            string
	Description         string
	OccurredAt          time.Time
	Status              TransactionStatus
	Source              string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// TransactionCreate is the input for creating a new transaction.
type TransactionCreate struct {
	UserID              uuid.UUID
	AccountID           uuid.UUID
	CategoryID          *uuid.UUID
	PredictedCategoryID *uuid.UUID
	PredictedConfidence *decimal.Decimal
	Kind                TransactionKind
	Amount              decimal.Decimal
	Currency            string
	Description         string
	OccurredAt          time.Time
	Status              TransactionStatus
	Source              string
}

// Window is an inclusive range of instants.
type Window struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t lies within the window, bounds included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From) && !t.After(w.To)
}

// TransactionFilter specifies filters for finding transactions. Nil fields
// are not applied.
type TransactionFilter struct {
	From       *time.Time
	To         *time.Time
	CategoryID *uuid.UUID
	Kind       *TransactionKind
	Search     *string
}

// Page selects a slice of an ordered result set.
type Page struct {
	Offset int
	Limit  int
}

// CategoryTotal is the summed amount of one category group.
type CategoryTotal struct {
	CategoryID *uuid.UUID      `json:"category_id"`
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	Kind       TransactionKind `json:"kind"`
}

// ITransactionTable defines the interface for transaction storage operations.
//
//go:generate mockery --name ITransactionTable --output mock_ITransactionTable.go
type ITransactionTable interface {
	// Find returns one page of the user's transactions matching filter,
	// ordered by occurred_at desc then id desc, and the total match count.
	Find(ctx context.Context, userID uuid.UUID, filter *TransactionFilter, page Page) ([]*Transaction, int, error)
	// SumByKind sums the amounts of the user's transactions of one kind in window.
	SumByKind(ctx context.Context, userID uuid.UUID, window Window, kind TransactionKind) (decimal.Decimal, error)
	// SumGroupedByCategory sums the user's transactions of one kind in window per category.
	SumGroupedByCategory(ctx context.Context, userID uuid.UUID, window Window, kind TransactionKind) ([]*CategoryTotal, error)
	Insert(ctx context.Context, create *TransactionCreate) (*Transaction, error)
}
