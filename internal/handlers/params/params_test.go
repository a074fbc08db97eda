package params

import (
	"context"
	"testing"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finance-tracker/internal/handlers/apierror"
	"github.com/carson-networks/finance-tracker/internal/storage/model"
)

func TestDate(t *testing.T) {
	ctx := context.Background()

	d, err := Date(ctx, "start_date", "")
	assert.NoError(t, err)
	assert.Nil(t, d)

	d, err = Date(ctx, "start_date", "2025-02-01")
	require.NoError(t, err)
	assert.Equal(t, "2025-02-01", d.String())

	_, err = Date(ctx, "start_date", "01/02/2025")
	var apiErr *apierror.ErrorModel
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "start_date", apiErr.Errors[0].Location)
}

func TestUUID(t *testing.T) {
	ctx := context.Background()
	want := uuid.Must(uuid.NewV4())

	id, err := UUID(ctx, "category_id", " "+want.String())
	require.NoError(t, err)
	assert.Equal(t, want, *id)

	_, err = UUID(ctx, "category_id", "nope")
	assert.Error(t, err)

	_, err = RequiredUUID(ctx, "account_id", "")
	assert.ErrorContains(t, err, "account_id is required")
}

func TestKind(t *testing.T) {
	ctx := context.Background()

	kind, err := Kind(ctx, "type", "EXPENSE")
	require.NoError(t, err)
	assert.Equal(t, model.KindExpense, *kind)

	_, err = Kind(ctx, "type", "refund")
	assert.Error(t, err)
}

func TestAmountAndTimestamp(t *testing.T) {
	ctx := context.Background()

	amount, err := Amount(ctx, "amount", "45000.5")
	require.NoError(t, err)
	assert.Equal(t, "45000.50", FormatAmount(amount))

	_, err = Amount(ctx, "amount", "lots")
	assert.Error(t, err)

	ts, err := Timestamp(ctx, "occurred_at", "2025-02-03T12:00:00+07:00")
	require.NoError(t, err)
	assert.Equal(t, "2025-02-03T05:00:00Z", FormatTime(ts))

	_, err = Timestamp(ctx, "occurred_at", "yesterday")
	assert.Error(t, err)
}

func TestOptionalID(t *testing.T) {
	assert.Nil(t, OptionalID(nil))
	id := uuid.Must(uuid.NewV4())
	assert.Equal(t, id.String(), *OptionalID(&id))
	assert.Equal(t, "0.00", FormatAmount(decimal.Zero))
}
