package memory

import (
	"context"
	"sort"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-tracker/internal/storage/model"
)

type accountTable struct {
	store *Store
	tx    *Tx
}

var _ model.IAccountTable = (*accountTable)(nil)

func (t *accountTable) FindForUser(_ context.Context, userID, id uuid.UUID) (*model.Account, error) {
	var found *model.Account
	t.store.read(t.tx, func() {
		if row, ok := t.store.accounts[id]; ok && row.UserID == userID {
			copied := *row
			found = &copied
		}
	})
	return found, nil
}

func (t *accountTable) ListForUser(_ context.Context, userID uuid.UUID) ([]*model.Account, error) {
	var result []*model.Account
	t.store.read(t.tx, func() {
		for _, row := range t.store.accounts {
			if row.UserID == userID {
				copied := *row
				result = append(result, &copied)
			}
		}
	})
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID.String() < result[j].ID.String()
	})
	return result, nil
}

func (t *accountTable) Insert(_ context.Context, create *model.AccountCreate) (*model.Account, error) {
	var created model.Account
	t.store.write(t.tx, func(onRollback func(func())) {
		now := t.store.now()
		row := &model.Account{
			ID:        newID(),
			UserID:    create.UserID,
			Name:      create.Name,
			Type:      create.Type,
			Currency:  create.Currency,
			CreatedAt: now,
			UpdatedAt: now,
		}
		t.store.accounts[row.ID] = row
		onRollback(func() { delete(t.store.accounts, row.ID) })
		created = *row
	})
	return &created, nil
}
