package memory

import (
	"context"
	"sort"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-tracker/internal/storage/model"
)

type categoryTable struct {
	store *Store
	tx    *Tx
}

var _ model.ICategoryTable = (*categoryTable)(nil)

func visibleTo(row *model.Category, userID uuid.UUID) bool {
	return row.UserID == nil || *row.UserID == userID
}

func copyCategory(row *model.Category) *model.Category {
	copied := *row
	copied.UserID = copyID(row.UserID)
	return &copied
}

func (t *categoryTable) FindVisible(_ context.Context, userID, id uuid.UUID) (*model.Category, error) {
	var found *model.Category
	t.store.read(t.tx, func() {
		if row, ok := t.store.categories[id]; ok && visibleTo(row, userID) {
			found = copyCategory(row)
		}
	})
	return found, nil
}

func (t *categoryTable) ListVisible(_ context.Context, userID uuid.UUID) ([]*model.Category, error) {
	var result []*model.Category
	t.store.read(t.tx, func() {
		for _, row := range t.store.categories {
			if visibleTo(row, userID) {
				result = append(result, copyCategory(row))
			}
		}
	})
	sort.Slice(result, func(i, j int) bool {
		if result[i].Kind != result[j].Kind {
			return result[i].Kind < result[j].Kind
		}
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID.String() < result[j].ID.String()
	})
	return result, nil
}

func (t *categoryTable) CountGlobal(_ context.Context) (int, error) {
	count := 0
	t.store.read(t.tx, func() {
		for _, row := range t.store.categories {
			if row.UserID == nil {
				count++
			}
		}
	})
	return count, nil
}

func (t *categoryTable) Insert(_ context.Context, create *model.CategoryCreate) (*model.Category, error) {
	var created *model.Category
	t.store.write(t.tx, func(onRollback func(func())) {
		row := &model.Category{
			ID:        newID(),
			UserID:    copyID(create.UserID),
			Name:      create.Name,
			Kind:      create.Kind,
			CreatedAt: t.store.now(),
		}
		t.store.categories[row.ID] = row
		onRollback(func() { delete(t.store.categories, row.ID) })
		created = copyCategory(row)
	})
	return created, nil
}
