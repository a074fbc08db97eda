package actions

import (
	"context"
	"errors"

	"github.com/carson-networks/finance-tracker/internal/storage"
)

var (
	ErrAccountNotFound  = errors.New("account not found")
	ErrCategoryNotFound = errors.New("category not found")
)

// IAction is a unit of work run inside one storage transaction. Returning an
// error rolls the transaction back.
type IAction interface {
	Perform(ctx context.Context, writer *storage.Writer) error
}
