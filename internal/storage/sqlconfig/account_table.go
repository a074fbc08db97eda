package sqlconfig

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/finance-tracker/internal/storage/model"
)

var accountColumns = []string{"id", "user_id", "name", "type", "currency", "created_at", "updated_at"}

type accountRow struct {
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	Name      string    `db:"name"`
	Type      string    `db:"type"`
	Currency  string    `db:"currency"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// AccountsTable provides access to the accounts table.
type AccountsTable struct {
	exec       bob.Executor
	lockOnRead bool
}

// Ensure AccountsTable implements IAccountTable at compile time.
var _ model.IAccountTable = (*AccountsTable)(nil)

// NewAccountsTable creates an AccountsTable on the given executor.
func NewAccountsTable(exec bob.Executor) *AccountsTable {
	return &AccountsTable{exec: exec}
}

// NewLockingAccountsTable creates an AccountsTable whose lookups take a row
// lock (SELECT ... FOR UPDATE). Only meaningful inside a transaction.
func NewLockingAccountsTable(exec bob.Executor) *AccountsTable {
	return &AccountsTable{exec: exec, lockOnRead: true}
}

// FindForUser retrieves an account by primary key scoped to its owner.
func (t *AccountsTable) FindForUser(ctx context.Context, userID, id uuid.UUID) (*model.Account, error) {
	mods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(columns(accountColumns...)...),
		sm.From("accounts"),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
		sm.Where(psql.Quote("user_id").EQ(psql.Arg(userID))),
	}
	if t.lockOnRead {
		mods = append(mods, sm.ForUpdate())
	}

	row, err := bob.One(ctx, t.exec, psql.Select(mods...), scan.StructMapper[accountRow]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rowToAccount(row), nil
}

// ListForUser returns every account the user owns ordered by name.
func (t *AccountsTable) ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.Account, error) {
	query := psql.Select(
		sm.Columns(columns(accountColumns...)...),
		sm.From("accounts"),
		sm.Where(psql.Quote("user_id").EQ(psql.Arg(userID))),
		sm.OrderBy(psql.Quote("name")).Asc(),
		sm.OrderBy(psql.Quote("id")).Asc(),
	)
	rows, err := bob.All(ctx, t.exec, query, scan.StructMapper[accountRow]())
	if err != nil {
		return nil, err
	}
	result := make([]*model.Account, len(rows))
	for i, row := range rows {
		result[i] = rowToAccount(row)
	}
	return result, nil
}

// Insert creates a new account and returns the stored row.
func (t *AccountsTable) Insert(ctx context.Context, create *model.AccountCreate) (*model.Account, error) {
	query := psql.Insert(
		im.Into(psql.Quote("accounts"), "id", "user_id", "name", "type", "currency"),
		im.Values(psql.Arg(uuid.Must(uuid.NewV4()), create.UserID, create.Name, create.Type, create.Currency)),
		im.Returning(columns(accountColumns...)...),
	)
	row, err := bob.One(ctx, t.exec, query, scan.StructMapper[accountRow]())
	if err != nil {
		return nil, translateError(err)
	}
	return rowToAccount(row), nil
}

func rowToAccount(row accountRow) *model.Account {
	return &model.Account{
		ID:        row.ID,
		UserID:    row.UserID,
		Name:      row.Name,
		Type:      row.Type,
		Currency:  row.Currency,
		CreatedAt: row.CreatedAt.UTC(),
		UpdatedAt: row.UpdatedAt.UTC(),
	}
}
