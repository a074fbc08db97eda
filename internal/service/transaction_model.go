package service

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-tracker/internal/storage/model"
)

type TransactionKind = model.TransactionKind

const (
	KindIncome   = model.KindIncome
	KindExpense  = model.KindExpense
	KindTransfer = model.KindTransfer
)

type TransactionStatus = model.TransactionStatus

const (
	StatusPredicted = model.StatusPredicted
	StatusConfirmed = model.StatusConfirmed
)

const DefaultSource = "manual"

// Transaction represents a transaction in the service layer.
type Transaction struct {
	ID                  uuid.UUID
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

// TransactionDraft is the caller input for creating a transaction. Empty
// Currency, Status and Source take their defaults.
type TransactionDraft struct {
	AccountID   uuid.UUID
	CategoryID  *uuid.UUID
	Kind        TransactionKind
	Amount      decimal.Decimal
	Currency    string
	Description string
	OccurredAt  time.Time
	Status      TransactionStatus
	Source      string
}

// TransactionQuery holds the listing filters and the raw, unnormalized paging.
type TransactionQuery struct {
	StartDate  *civil.Date
	EndDate    *civil.Date
	CategoryID *uuid.UUID
	Kind       *TransactionKind
	Search     string
	Page       int
	PageSize   int
}

// Pagination describes the page actually served. Warnings is nil when the
// request needed no correction.
type Pagination struct {
	Page       int
	PageSize   int
	TotalItems int
	TotalPages int
	Warnings   []string
}

type TransactionsPage struct {
	Items      []Transaction
	Pagination Pagination
}

func transactionFromStorage(row *model.Transaction) Transaction {
	return Transaction{
		ID:                  row.ID,
		AccountID:           row.AccountID,
		CategoryID:          row.CategoryID,
		PredictedCategoryID: row.PredictedCategoryID,
		PredictedConfidence: row.PredictedConfidence,
		Kind:                row.Kind,
		Amount:              row.Amount,
		Currency:            row.Currency,
		Description:         row.Description,
		OccurredAt:          row.OccurredAt,
		Status:              row.Status,
		Source:              row.Source,
		CreatedAt:           row.CreatedAt,
		UpdatedAt:           row.UpdatedAt,
	}
}
