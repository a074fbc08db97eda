package service

import (
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-tracker/internal/storage/model"
)

// Account represents an account in the service layer.
type Account struct {
	ID        uuid.UUID
	Name      string
	Type      string
	Currency  string
	CreatedAt time.Time
}

// Category represents a category in the service layer. Global categories
// have no owner.
type Category struct {
	ID     uuid.UUID
	UserID *uuid.UUID
	Name   string
	Kind   TransactionKind
	Global bool
}

func accountFromStorage(row *model.Account) Account {
	return Account{
		ID:        row.ID,
		Name:      row.Name,
		Type:      row.Type,
		Currency:  row.Currency,
		CreatedAt: row.CreatedAt,
	}
}

func categoryFromStorage(row *model.Category) Category {
	return Category{
		ID:     row.ID,
		UserID: row.UserID,
		Name:   row.Name,
		Kind:   row.Kind,
		Global: row.UserID == nil,
	}
}
