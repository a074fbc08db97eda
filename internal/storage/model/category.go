package model

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
)

// Category represents a category record. A nil UserID marks a global default.
type Category struct {
	ID        uuid.UUID
	UserID    *uuid.UUID
	Name      string
	Kind      TransactionKind
	CreatedAt time.Time
}

// CategoryCreate is the input for creating a new category.
type CategoryCreate struct {
	UserID *uuid.UUID
	Name   string
	Kind   TransactionKind
}

// ICategoryTable defines the interface for category storage operations.
//
//go:generate mockery --name ICategoryTable --output mock_ICategoryTable.go
type ICategoryTable interface {
	// FindVisible returns the category when it is global or owned by userID, nil otherwise.
	FindVisible(ctx context.Context, userID, id uuid.UUID) (*Category, error)
	// ListVisible returns global and user categories ordered by kind then name.
	ListVisible(ctx context.Context, userID uuid.UUID) ([]*Category, error)
	CountGlobal(ctx context.Context) (int, error)
	Insert(ctx context.Context, create *CategoryCreate) (*Category, error)
}
