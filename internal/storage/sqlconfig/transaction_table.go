package sqlconfig

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/finance-tracker/internal/storage/model"
)

var transactionColumns = []string{
	"id", "user_id", "account_id", "category_id", "predicted_category_id", "predicted_confidence",
	"type", "amount", "currency", "description", "occurred_at", "status", "source",
	"created_at", "updated_at",
}

type transactionRow struct {
	ID                  uuid.UUID           `db:"id"`
	UserID              uuid.UUID           `db:"user_id"`
	AccountID           uuid.UUID           `db:"account_id"`
	CategoryID          uuid.NullUUID       `db:"category_id"`
	PredictedCategoryID uuid.NullUUID       `db:"predicted_category_id"`
	PredictedConfidence decimal.NullDecimal `db:"predicted_confidence"`
	Type                string              `db:"type"`
	Amount              decimal.Decimal     `db:"amount"`
	Currency            string              `db:"currency"`
	Description         sql.NullString      `db:"description"`
	OccurredAt          time.Time           `db:"occurred_at"`
	Status              string              `db:"status"`
	Source              string              `db:"source"`
	CreatedAt           time.Time           `db:"created_at"`
	UpdatedAt           time.Time           `db:"updated_at"`
}

type categoryTotalRow struct {
	CategoryID uuid.NullUUID   `db:"category_id"`
	Name       string          `db:"name"`
	Total      decimal.Decimal `db:"total"`
	Kind       string          `db:"kind"`
}

var _ model.ITransactionTable = (*TransactionsTable)(nil)

// TransactionsTable provides access to the transactions table.
type TransactionsTable struct {
	exec bob.Executor
}

// NewTransactionsTable creates a TransactionsTable on the given executor.
func NewTransactionsTable(exec bob.Executor) *TransactionsTable {
	return &TransactionsTable{exec: exec}
}

// escapeLike makes s match literally inside a LIKE pattern using '\' as the escape.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func filterMods(userID uuid.UUID, filter *model.TransactionFilter) []bob.Mod[*dialect.SelectQuery] {
	mods := []bob.Mod[*dialect.SelectQuery]{
		sm.From("transactions"),
		sm.Where(psql.Quote("user_id").EQ(psql.Arg(userID))),
	}
	if filter == nil {
		return mods
	}
	if filter.From != nil {
		mods = append(mods, sm.Where(psql.Quote("occurred_at").GTE(psql.Arg(filter.From.UTC()))))
	}
	if filter.To != nil {
		mods = append(mods, sm.Where(psql.Quote("occurred_at").LTE(psql.Arg(filter.To.UTC()))))
	}
	if filter.CategoryID != nil {
		mods = append(mods, sm.Where(psql.Quote("category_id").EQ(psql.Arg(*filter.CategoryID))))
	}
	if filter.Kind != nil {
		mods = append(mods, sm.Where(psql.Quote("type").EQ(psql.Arg(string(*filter.Kind)))))
	}
	if filter.Search != nil {
		pattern := "%" + escapeLike(*filter.Search) + "%"
		mods = append(mods, sm.Where(psql.Raw(`description ILIKE ? ESCAPE '\'`, pattern)))
	}
	return mods
}

// txRunner is implemented by executors that can open a transaction, such as
// bob.DB. Executors already inside one (bob.Tx) are used as they are.
type txRunner interface {
	RunInTx(ctx context.Context, opts *sql.TxOptions, fn func(context.Context, bob.Executor) error) error
}

var findTxOptions = &sql.TxOptions{ReadOnly: true, Isolation: sql.LevelRepeatableRead}

// Find returns one page of matching transactions and the total match count.
// Both are read from one snapshot so they agree under concurrent inserts.
func (t *TransactionsTable) Find(ctx context.Context, userID uuid.UUID, filter *model.TransactionFilter, page model.Page) ([]*model.Transaction, int, error) {
	var (
		result []*model.Transaction
		total  int
	)
	find := func(ctx context.Context, exec bob.Executor) error {
		var err error
		result, total, err = findPage(ctx, exec, userID, filter, page)
		return err
	}

	runner, ok := t.exec.(txRunner)
	if !ok {
		err := find(ctx, t.exec)
		return result, total, err
	}
	if err := runner.RunInTx(ctx, findTxOptions, find); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func findPage(ctx context.Context, exec bob.Executor, userID uuid.UUID, filter *model.TransactionFilter, page model.Page) ([]*model.Transaction, int, error) {
	countMods := append([]bob.Mod[*dialect.SelectQuery]{sm.Columns(psql.Raw("count(*)"))}, filterMods(userID, filter)...)
	total, err := bob.One(ctx, exec, psql.Select(countMods...), scan.SingleColumnMapper[int64])
	if err != nil {
		return nil, 0, err
	}
	if total == 0 || page.Offset < 0 || int64(page.Offset) >= total {
		return nil, int(total), nil
	}

	pageMods := append([]bob.Mod[*dialect.SelectQuery]{sm.Columns(columns(transactionColumns...)...)}, filterMods(userID, filter)...)
	pageMods = append(pageMods,
		sm.OrderBy(psql.Quote("occurred_at")).Desc(),
		sm.OrderBy(psql.Quote("id")).Desc(),
	)
	if page.Limit > 0 {
		pageMods = append(pageMods, sm.Limit(page.Limit))
	}
	if page.Offset > 0 {
		pageMods = append(pageMods, sm.Offset(page.Offset))
	}

	rows, err := bob.All(ctx, exec, psql.Select(pageMods...), scan.StructMapper[transactionRow]())
	if err != nil {
		return nil, 0, err
	}
	result := make([]*model.Transaction, len(rows))
	for i, row := range rows {
		result[i] = rowToTransaction(row)
	}
	return result, int(total), nil
}

// SumByKind sums amounts of one kind in the window. An empty set sums to zero.
func (t *TransactionsTable) SumByKind(ctx context.Context, userID uuid.UUID, window model.Window, kind model.TransactionKind) (decimal.Decimal, error) {
	query := psql.Select(
		sm.Columns(psql.Raw("COALESCE(SUM(amount), 0)")),
		sm.From("transactions"),
		sm.Where(psql.Quote("user_id").EQ(psql.Arg(userID))),
		sm.Where(psql.Quote("type").EQ(psql.Arg(string(kind)))),
		sm.Where(psql.Quote("occurred_at").GTE(psql.Arg(window.From.UTC()))),
		sm.Where(psql.Quote("occurred_at").LTE(psql.Arg(window.To.UTC()))),
	)
	return bob.One(ctx, t.exec, query, scan.SingleColumnMapper[decimal.Decimal])
}

// SumGroupedByCategory sums amounts of one kind in the window per category.
// Transactions without a category form a single group named Uncategorized.
func (t *TransactionsTable) SumGroupedByCategory(ctx context.Context, userID uuid.UUID, window model.Window, kind model.TransactionKind) ([]*model.CategoryTotal, error) {
	query := psql.Select(
		sm.Columns(
			psql.Raw("t.category_id AS category_id"),
			psql.Raw("COALESCE(c.name, ?) AS name", model.UncategorizedName),
			psql.Raw("SUM(t.amount) AS total"),
			psql.Raw("COALESCE(c.type, t.type) AS kind"),
		),
		sm.From(psql.Raw("transactions AS t")),
		sm.LeftJoin(psql.Raw("categories AS c")).On(psql.Raw("c.id = t.category_id")),
		sm.Where(psql.Raw("t.user_id = ?", userID)),
		sm.Where(psql.Raw("t.type = ?", string(kind))),
		sm.Where(psql.Raw("t.occurred_at >= ?", window.From.UTC())),
		sm.Where(psql.Raw("t.occurred_at <= ?", window.To.UTC())),
		sm.GroupBy(psql.Raw("t.category_id, c.name, c.type, t.type")),
	)
	rows, err := bob.All(ctx, t.exec, query, scan.StructMapper[categoryTotalRow]())
	if err != nil {
		return nil, err
	}
	result := make([]*model.CategoryTotal, len(rows))
	for i, row := range rows {
		total := &model.CategoryTotal{
			Name:   row.Name,
			Amount: row.Total,
			Kind:   model.TransactionKind(row.Kind),
		}
		if row.CategoryID.Valid {
			id := row.CategoryID.UUID
			total.CategoryID = &id
		}
		result[i] = total
	}
	return result, nil
}

// Insert creates a new transaction and returns the stored row.
func (t *TransactionsTable) Insert(ctx context.Context, create *model.TransactionCreate) (*model.Transaction, error) {
	var confidence decimal.NullDecimal
	if create.PredictedConfidence != nil {
		confidence = decimal.NullDecimal{Decimal: *create.PredictedConfidence, Valid: true}
	}
	query := psql.Insert(
		im.Into(psql.Quote("transactions"),
			"id", "user_id", "account_id", "category_id", "predicted_category_id", "predicted_confidence",
			"type", "amount", "currency", "description", "occurred_at", "status", "source",
		),
		im.Values(psql.Arg(
			uuid.Must(uuid.NewV4()),
			create.UserID,
			create.AccountID,
			nullUUID(create.CategoryID),
			nullUUID(create.PredictedCategoryID),
			confidence,
			string(create.Kind),
			create.Amount,
			create.Currency,
			sql.NullString{String: create.Description, Valid: create.Description != ""},
			create.OccurredAt.UTC(),
			string(create.Status),
			create.Source,
		)),
		im.Returning(columns(transactionColumns...)...),
	)
	row, err := bob.One(ctx, t.exec, query, scan.StructMapper[transactionRow]())
	if err != nil {
		return nil, translateError(err)
	}
	return rowToTransaction(row), nil
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

func fromNullUUID(id uuid.NullUUID) *uuid.UUID {
	if !id.Valid {
		return nil
	}
	out := id.UUID
	return &out
}

func rowToTransaction(row transactionRow) *model.Transaction {
	tx := &model.Transaction{
		ID:                  row.ID,
		UserID:              row.UserID,
		AccountID:           row.AccountID,
		CategoryID:          fromNullUUID(row.CategoryID),
		PredictedCategoryID: fromNullUUID(row.PredictedCategoryID),
		Kind:                model.TransactionKind(row.Type),
		Amount:              row.Amount,
		Currency:            row.Currency,
		Description:         row.Description.String,
		OccurredAt:          row.OccurredAt.UTC(),
		Status:              model.TransactionStatus(row.Status),
		Source:              row.Source,
		CreatedAt:           row.CreatedAt.UTC(),
		UpdatedAt:           row.UpdatedAt.UTC(),
	}
	if row.PredictedConfidence.Valid {
		confidence := row.PredictedConfidence.Decimal
		tx.PredictedConfidence = &confidence
	}
	return tx
}
