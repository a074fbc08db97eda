package sqlconfig

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/carson-networks/finance-tracker/internal/storage/model"
)

const foreignKeyViolationCode = "23503"

// translateError maps driver errors onto the storage error set.
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolationCode {
		return errors.Join(model.ErrForeignKeyViolation, err)
	}
	return err
}

func columns(names ...string) []any {
	out := make([]any, len(names))
	for i, name := range names {
		out[i] = name
	}
	return out
}
