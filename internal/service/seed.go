package service

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

const (
	demoAccountName     = "Demo Cash"
	demoDescription     = "Makan Siang Demo"
	demoExpenseCategory = "Makan"
)

var demoAmount = decimal.RequireFromString("45000.00")

// SeedDemo gives userID a cash account with one lunch expense dated today.
// Users who already own an account are left alone. It reports whether
// anything was created.
func (s *Service) SeedDemo(ctx context.Context, userID uuid.UUID) (bool, error) {
	existing, err := s.Account.ListAccounts(ctx, userID)
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}

	account, err := s.Account.CreateAccount(ctx, userID, demoAccountName, "cash", "")
	if err != nil {
		return false, err
	}

	categories, err := s.Category.ListCategories(ctx, userID)
	if err != nil {
		return false, err
	}
	var categoryID *uuid.UUID
	for _, category := range categories {
		if category.Name == demoExpenseCategory && category.Kind == KindExpense {
			id := category.ID
			categoryID = &id
			break
		}
	}

	_, err = s.Transaction.CreateTransaction(ctx, userID, TransactionDraft{
		AccountID:   account.ID,
		CategoryID:  categoryID,
		Kind:        KindExpense,
		Amount:      demoAmount,
		Currency:    account.Currency,
		Description: demoDescription,
		OccurredAt:  s.Periods.Now(),
		Status:      StatusConfirmed,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
