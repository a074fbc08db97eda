package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-tracker/internal/storage"
	"github.com/carson-networks/finance-tracker/internal/storage/model"
)

type CreateAccount struct {
	UserID   uuid.UUID
	Name     string
	Type     string
	Currency string

	// Created is set once Perform succeeds.
	Created *model.Account
}

func (c *CreateAccount) Perform(ctx context.Context, writer *storage.Writer) error {
	account, err := writer.Accounts.Insert(ctx, &model.AccountCreate{
		UserID:   c.UserID,
		Name:     c.Name,
		Type:     c.Type,
		Currency: c.Currency,
	})
	if err != nil {
		return err
	}

	c.Created = account
	return nil
}
