package memory

import (
	"bytes"
	"context"
	"sort"
	"strings"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-tracker/internal/storage/model"
)

type transactionTable struct {
	store *Store
	tx    *Tx
}

var _ model.ITransactionTable = (*transactionTable)(nil)

func copyTransaction(row *model.Transaction) *model.Transaction {
	copied := *row
	copied.CategoryID = copyID(row.CategoryID)
	copied.PredictedCategoryID = copyID(row.PredictedCategoryID)
	if row.PredictedConfidence != nil {
		confidence := *row.PredictedConfidence
		copied.PredictedConfidence = &confidence
	}
	return &copied
}

func matches(row *model.Transaction, userID uuid.UUID, filter *model.TransactionFilter) bool {
	if row.UserID != userID {
		return false
	}
	if filter == nil {
		return true
	}
	if filter.From != nil && row.OccurredAt.Before(*filter.From) {
		return false
	}
	if filter.To != nil && row.OccurredAt.After(*filter.To) {
		return false
	}
	if filter.CategoryID != nil && (row.CategoryID == nil || *row.CategoryID != *filter.CategoryID) {
		return false
	}
	if filter.Kind != nil && row.Kind != *filter.Kind {
		return false
	}
	if filter.Search != nil && !strings.Contains(strings.ToLower(row.Description), strings.ToLower(*filter.Search)) {
		return false
	}
	return true
}

func (t *transactionTable) Find(_ context.Context, userID uuid.UUID, filter *model.TransactionFilter, page model.Page) ([]*model.Transaction, int, error) {
	var matched []*model.Transaction
	t.store.read(t.tx, func() {
		for _, row := range t.store.transactions {
			if matches(row, userID, filter) {
				matched = append(matched, copyTransaction(row))
			}
		}
	})

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].OccurredAt.Equal(matched[j].OccurredAt) {
			return matched[i].OccurredAt.After(matched[j].OccurredAt)
		}
		return bytes.Compare(matched[i].ID.Bytes(), matched[j].ID.Bytes()) > 0
	})

	total := len(matched)
	if page.Offset < 0 || page.Offset >= total {
		return nil, total, nil
	}
	end := total
	if page.Limit > 0 && page.Limit < total-page.Offset {
		end = page.Offset + page.Limit
	}
	return matched[page.Offset:end], total, nil
}

func (t *transactionTable) SumByKind(_ context.Context, userID uuid.UUID, window model.Window, kind model.TransactionKind) (decimal.Decimal, error) {
	total := decimal.Zero
	t.store.read(t.tx, func() {
		for _, row := range t.store.transactions {
			if row.UserID == userID && row.Kind == kind && window.Contains(row.OccurredAt) {
				total = total.Add(row.Amount)
			}
		}
	})
	return total, nil
}

func (t *transactionTable) SumGroupedByCategory(_ context.Context, userID uuid.UUID, window model.Window, kind model.TransactionKind) ([]*model.CategoryTotal, error) {
	groups := make(map[uuid.UUID]*model.CategoryTotal)
	var uncategorized *model.CategoryTotal

	t.store.read(t.tx, func() {
		for _, row := range t.store.transactions {
			if row.UserID != userID || row.Kind != kind || !window.Contains(row.OccurredAt) {
				continue
			}
			if row.CategoryID == nil {
				if uncategorized == nil {
					uncategorized = &model.CategoryTotal{Name: model.UncategorizedName, Amount: decimal.Zero, Kind: row.Kind}
				}
				uncategorized.Amount = uncategorized.Amount.Add(row.Amount)
				continue
			}
			group, ok := groups[*row.CategoryID]
			if !ok {
				group = &model.CategoryTotal{
					CategoryID: copyID(row.CategoryID),
					Name:       model.UncategorizedName,
					Amount:     decimal.Zero,
					Kind:       row.Kind,
				}
				if category, found := t.store.categories[*row.CategoryID]; found {
					group.Name = category.Name
					group.Kind = category.Kind
				}
				groups[*row.CategoryID] = group
			}
			group.Amount = group.Amount.Add(row.Amount)
		}
	})

	result := make([]*model.CategoryTotal, 0, len(groups)+1)
	for _, group := range groups {
		result = append(result, group)
	}
	if uncategorized != nil {
		result = append(result, uncategorized)
	}
	return result, nil
}

func (t *transactionTable) Insert(_ context.Context, create *model.TransactionCreate) (*model.Transaction, error) {
	var created *model.Transaction
	var err error
	t.store.write(t.tx, func(onRollback func(func())) {
		if _, ok := t.store.accounts[create.AccountID]; !ok {
			err = model.ErrForeignKeyViolation
			return
		}
		for _, ref := range []*uuid.UUID{create.CategoryID, create.PredictedCategoryID} {
			if ref == nil {
				continue
			}
			if _, ok := t.store.categories[*ref]; !ok {
				err = model.ErrForeignKeyViolation
				return
			}
		}

		now := t.store.now()
		row := &model.Transaction{
			ID:                  newID(),
			UserID:              create.UserID,
			AccountID:           create.AccountID,
			CategoryID:          copyID(create.CategoryID),
			PredictedCategoryID: copyID(create.PredictedCategoryID),
			Kind:                create.Kind,
			Amount:              create.Amount,
			Currency:            create.Currency,
			Description:         create.Description,
			OccurredAt:          create.OccurredAt.UTC(),
			Status:              create.Status,
			Source:              create.Source,
			CreatedAt:           now,
			UpdatedAt:           now,
		}
		if create.PredictedConfidence != nil {
			confidence := *create.PredictedConfidence
			row.PredictedConfidence = &confidence
		}
		t.store.transactions[row.ID] = row
		onRollback(func() { delete(t.store.transactions, row.ID) })
		created = copyTransaction(row)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
