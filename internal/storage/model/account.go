package model

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
)

// Account represents an account record.
type Account struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	Type      string
	Currency  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AccountCreate is the input for creating a new account.
type AccountCreate struct {
	UserID   uuid.UUID
	Name     string
	Type     string
	Currency string
}

// IAccountTable defines the interface for account storage operations.
//
//go:generate mockery --name IAccountTable --output mock_IAccountTable.go
type IAccountTable interface {
	// FindForUser returns the account only when it belongs to userID, nil otherwise.
	FindForUser(ctx context.Context, userID, id uuid.UUID) (*Account, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*Account, error)
	Insert(ctx context.Context, create *AccountCreate) (*Account, error)
}
