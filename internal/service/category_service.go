package service

import (
	"context"
	"strings"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-tracker/internal/operator/actions"
	"github.com/carson-networks/finance-tracker/internal/storage"
)

// DefaultCategories are the global categories every user sees.
var DefaultCategories = []actions.SeedCategory{
	{Name: "Gaji", Kind: KindIncome},
	{Name: "Lainnya", Kind: KindIncome},
	{Name: "Makan", Kind: KindExpense},
	{Name: "Transport", Kind: KindExpense},
	{Name: "Tagihan", Kind: KindExpense},
	{Name: "Kesehatan", Kind: KindExpense},
}

type CategoryService struct {
	storage  *storage.Storage
	operator actionProcessor
}

func NewCategoryService(store *storage.Storage, processor actionProcessor) *CategoryService {
	return &CategoryService{storage: store, operator: processor}
}

// ListCategories returns the global categories and the user's own.
func (s *CategoryService) ListCategories(ctx context.Context, userID uuid.UUID) ([]Category, error) {
	rows, err := s.storage.Categories.ListVisible(ctx, userID)
	if err != nil {
		return nil, err
	}

	categories := make([]Category, len(rows))
	for i, row := range rows {
		categories[i] = categoryFromStorage(row)
	}
	return categories, nil
}

// CreateCategory adds a category owned by userID.
func (s *CategoryService) CreateCategory(ctx context.Context, userID uuid.UUID, name string, kind TransactionKind) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidField("name", "name is required")
	}
	if !kind.Valid() {
		return nil, invalidField("type", "type must be one of income, expense, transfer")
	}

	action := &actions.CreateCategory{UserID: &userID, Name: name, Kind: kind}
	if err := s.operator.Process(ctx, action); err != nil {
		return nil, err
	}

	category := categoryFromStorage(action.Created)
	return &category, nil
}

// SeedDefaults inserts DefaultCategories unless global categories already
// exist. It returns how many were inserted.
func (s *CategoryService) SeedDefaults(ctx context.Context) (int, error) {
	action := &actions.SeedGlobalCategories{Defaults: DefaultCategories}
	if err := s.operator.Process(ctx, action); err != nil {
		return 0, err
	}
	return action.Inserted, nil
}
