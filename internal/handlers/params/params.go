// Package params parses optional query and body values into domain types,
// failing with a 400 that names the offending field.
package params

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-tracker/internal/handlers/apierror"
	"github.com/carson-networks/finance-tracker/internal/storage/model"
)

// Date parses a YYYY-MM-DD value. Empty means absent.
func Date(ctx context.Context, field, value string) (*civil.Date, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	d, err := civil.ParseDate(value)
	if err != nil {
		return nil, apierror.Validation(ctx, field, field+" must be a date in YYYY-MM-DD format")
	}
	return &d, nil
}

// UUID parses an id. Empty means absent.
func UUID(ctx context.Context, field, value string) (*uuid.UUID, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	id, err := uuid.FromString(value)
	if err != nil {
		return nil, apierror.Validation(ctx, field, field+" must be a UUID")
	}
	return &id, nil
}

// RequiredUUID is UUID for a value that must be present.
func RequiredUUID(ctx context.Context, field, value string) (uuid.UUID, error) {
	id, err := UUID(ctx, field, value)
	if err != nil {
		return uuid.Nil, err
	}
	if id == nil {
		return uuid.Nil, apierror.Validation(ctx, field, field+" is required")
	}
	return *id, nil
}

// Kind parses a transaction type. Empty means absent.
func Kind(ctx context.Context, field, value string) (*model.TransactionKind, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	kind := model.TransactionKind(strings.ToLower(value))
	if !kind.Valid() {
		return nil, apierror.Validation(ctx, field, field+" must be one of income, expense, transfer")
	}
	return &kind, nil
}

// Amount parses a decimal amount.
func Amount(ctx context.Context, field, value string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, apierror.Validation(ctx, field, field+" must be a decimal number")
	}
	return amount, nil
}

// Timestamp parses an RFC 3339 instant.
func Timestamp(ctx context.Context, field, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, apierror.Validation(ctx, field, field+" must be an RFC 3339 timestamp")
	}
	return t, nil
}

// FormatAmount renders money with exactly two decimals.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatTime renders an instant in UTC as RFC 3339.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// OptionalID renders a nullable id.
func OptionalID(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
