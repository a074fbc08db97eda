package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-tracker/internal/storage"
	"github.com/carson-networks/finance-tracker/internal/storage/model"
)

// CreateCategory inserts a category. A nil UserID creates a global one.
type CreateCategory struct {
	UserID *uuid.UUID
	Name   string
	Kind   model.TransactionKind

	Created *model.Category
}

func (c *CreateCategory) Perform(ctx context.Context, writer *storage.Writer) error {
	category, err := writer.Categories.Insert(ctx, &model.CategoryCreate{
		UserID: c.UserID,
		Name:   c.Name,
		Kind:   c.Kind,
	})
	if err != nil {
		return err
	}

	c.Created = category
	return nil
}

// SeedCategory names one global default category.
type SeedCategory struct {
	Name string
	Kind model.TransactionKind
}

// SeedGlobalCategories inserts the defaults only when no global category
// exists yet, so running it twice is harmless.
type SeedGlobalCategories struct {
	Defaults []SeedCategory

	Inserted int
}

func (s *SeedGlobalCategories) Perform(ctx context.Context, writer *storage.Writer) error {
	count, err := writer.Categories.CountGlobal(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, seed := range s.Defaults {
		if _, err := writer.Categories.Insert(ctx, &model.CategoryCreate{Name: seed.Name, Kind: seed.Kind}); err != nil {
			return err
		}
		s.Inserted++
	}
	return nil
}
