package actions

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-tracker/internal/storage"
	"github.com/carson-networks/finance-tracker/internal/storage/model"
)

// CreateTransaction checks that the account belongs to the user and that the
// category is visible to the user, then inserts the transaction.
type CreateTransaction struct {
	UserID      uuid.UUID
	AccountID   uuid.UUID
	CategoryID  *uuid.UUID
	Kind        model.TransactionKind
	Amount      decimal.Decimal
	Currency    string
	Description string
	OccurredAt  time.Time
	Status      model.TransactionStatus
	Source      string

	// Predicted marks CategoryID as coming from the classifier. A predicted
	// category the user cannot see is dropped, and the row is stored with
	// FallbackStatus, instead of failing the request.
	Predicted           bool
	PredictedConfidence decimal.Decimal
	FallbackStatus      model.TransactionStatus

	Created *model.Transaction
}

func (t *CreateTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	account, err := writer.Accounts.FindForUser(ctx, t.UserID, t.AccountID)
	if err != nil {
		return err
	}
	if account == nil {
		return ErrAccountNotFound
	}

	storageCreate := &model.TransactionCreate{
		UserID:      t.UserID,
		AccountID:   t.AccountID,
		Kind:        t.Kind,
		Amount:      t.Amount,
		Currency:    t.Currency,
		Description: t.Description,
		OccurredAt:  t.OccurredAt,
		Status:      t.Status,
		Source:      t.Source,
	}

	if t.CategoryID != nil {
		category, err := writer.Categories.FindVisible(ctx, t.UserID, *t.CategoryID)
		if err != nil {
			return err
		}
		switch {
		case category != nil:
			storageCreate.CategoryID = t.CategoryID
			if t.Predicted {
				confidence := t.PredictedConfidence
				storageCreate.PredictedCategoryID = t.CategoryID
				storageCreate.PredictedConfidence = &confidence
			}
		case t.Predicted:
			storageCreate.Status = t.FallbackStatus
		default:
			return ErrCategoryNotFound
		}
	}

	created, err := writer.Transactions.Insert(ctx, storageCreate)
	if err != nil {
		return err
	}

	t.Created = created
	return nil
}
