package sqlconfig

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/finance-tracker/internal/storage/model"
)

var categoryColumns = []string{"id", "user_id", "name", "type", "created_at"}

type categoryRow struct {
	ID        uuid.UUID     `db:"id"`
	UserID    uuid.NullUUID `db:"user_id"`
	Name      string        `db:"name"`
	Type      string        `db:"type"`
	CreatedAt time.Time     `db:"created_at"`
}

// CategoriesTable provides access to the categories table.
type CategoriesTable struct {
	exec bob.Executor
}

var _ model.ICategoryTable = (*CategoriesTable)(nil)

// NewCategoriesTable creates a CategoriesTable on the given executor.
func NewCategoriesTable(exec bob.Executor) *CategoriesTable {
	return &CategoriesTable{exec: exec}
}

func visibleTo(userID uuid.UUID) bob.Expression {
	return psql.Or(
		psql.Quote("user_id").IsNull(),
		psql.Quote("user_id").EQ(psql.Arg(userID)),
	)
}

// FindVisible retrieves a category that is global or owned by the user.
func (t *CategoriesTable) FindVisible(ctx context.Context, userID, id uuid.UUID) (*model.Category, error) {
	query := psql.Select(
		sm.Columns(columns(categoryColumns...)...),
		sm.From("categories"),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
		sm.Where(visibleTo(userID)),
	)
	row, err := bob.One(ctx, t.exec, query, scan.StructMapper[categoryRow]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rowToCategory(row), nil
}

// ListVisible returns global and user categories ordered by kind then name.
func (t *CategoriesTable) ListVisible(ctx context.Context, userID uuid.UUID) ([]*model.Category, error) {
	query := psql.Select(
		sm.Columns(columns(categoryColumns...)...),
		sm.From("categories"),
		sm.Where(visibleTo(userID)),
		sm.OrderBy(psql.Quote("type")).Asc(),
		sm.OrderBy(psql.Quote("name")).Asc(),
		sm.OrderBy(psql.Quote("id")).Asc(),
	)
	rows, err := bob.All(ctx, t.exec, query, scan.StructMapper[categoryRow]())
	if err != nil {
		return nil, err
	}
	result := make([]*model.Category, len(rows))
	for i, row := range rows {
		result[i] = rowToCategory(row)
	}
	return result, nil
}

// CountGlobal counts the categories shared by every user.
func (t *CategoriesTable) CountGlobal(ctx context.Context) (int, error) {
	query := psql.Select(
		sm.Columns(psql.Raw("count(*)")),
		sm.From("categories"),
		sm.Where(psql.Quote("user_id").IsNull()),
	)
	count, err := bob.One(ctx, t.exec, query, scan.SingleColumnMapper[int64])
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// Insert creates a new category and returns the stored row.
func (t *CategoriesTable) Insert(ctx context.Context, create *model.CategoryCreate) (*model.Category, error) {
	var owner uuid.NullUUID
	if create.UserID != nil {
		owner = uuid.NullUUID{UUID: *create.UserID, Valid: true}
	}
	query := psql.Insert(
		im.Into(psql.Quote("categories"), "id", "user_id", "name", "type"),
		im.Values(psql.Arg(uuid.Must(uuid.NewV4()), owner, create.Name, string(create.Kind))),
		im.Returning(columns(categoryColumns...)...),
	)
	row, err := bob.One(ctx, t.exec, query, scan.StructMapper[categoryRow]())
	if err != nil {
		return nil, translateError(err)
	}
	return rowToCategory(row), nil
}

func rowToCategory(row categoryRow) *model.Category {
	category := &model.Category{
		ID:        row.ID,
		Name:      row.Name,
		Kind:      model.TransactionKind(row.Type),
		CreatedAt: row.CreatedAt.UTC(),
	}
	if row.UserID.Valid {
		owner := row.UserID.UUID
		category.UserID = &owner
	}
	return category
}
