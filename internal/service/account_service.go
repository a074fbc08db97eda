package service

import (
	"context"
	"strings"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-tracker/internal/operator/actions"
	"github.com/carson-networks/finance-tracker/internal/storage"
)

// AccountService handles account business logic.
type AccountService struct {
	storage  *storage.Storage
	operator actionProcessor
	currency string
}

// NewAccountService creates a new AccountService.
func NewAccountService(store *storage.Storage, processor actionProcessor, currency string) *AccountService {
	return &AccountService{storage: store, operator: processor, currency: currency}
}

// CreateAccount stores a new account for userID. An empty currency falls back
// to the reporting currency.
func (s *AccountService) CreateAccount(ctx context.Context, userID uuid.UUID, name, accountType, currency string) (*Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidField("name", "name is required")
	}
	accountType = strings.TrimSpace(accountType)
	if accountType == "" {
		return nil, invalidField("type", "type is required")
	}
	if currency == "" {
		currency = s.currency
	}

	action := &actions.CreateAccount{
		UserID:   userID,
		Name:     name,
		Type:     accountType,
		Currency: strings.ToUpper(currency),
	}
	if err := s.operator.Process(ctx, action); err != nil {
		return nil, err
	}

	account := accountFromStorage(action.Created)
	return &account, nil
}

// ListAccounts returns all of the user's accounts.
func (s *AccountService) ListAccounts(ctx context.Context, userID uuid.UUID) ([]Account, error) {
	rows, err := s.storage.Accounts.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	accounts := make([]Account, len(rows))
	for i, row := range rows {
		accounts[i] = accountFromStorage(row)
	}
	return accounts, nil
}
