package storage

import (
	"context"

	"github.com/carson-networks/finance-tracker/internal/storage/model"
)

type transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Writer exposes the tables bound to one storage transaction.
type Writer struct {
	tx           transaction
	Accounts     model.IAccountTable
	Categories   model.ICategoryTable
	Transactions model.ITransactionTable
}

func NewWriter(tx transaction, accounts model.IAccountTable, categories model.ICategoryTable, transactions model.ITransactionTable) *Writer {
	return &Writer{
		tx:           tx,
		Accounts:     accounts,
		Categories:   categories,
		Transactions: transactions,
	}
}

func (w *Writer) Commit() error {
	return w.tx.Commit(context.Background())
}

func (w *Writer) Rollback() error {
	return w.tx.Rollback(context.Background())
}
