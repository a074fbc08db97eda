package apierror

import (
	"context"
	"errors"

	"github.com/carson-networks/finance-tracker/internal/service"
)

// FromService maps the service layer's client errors to 400 responses. It
// returns nil for anything else, which the caller reports as internal.
func FromService(ctx context.Context, err error) error {
	var validation *service.ValidationError
	switch {
	case errors.As(err, &validation):
		return Validation(ctx, validation.Field, validation.Message)
	case errors.Is(err, service.ErrInvalidRange):
		return Validation(ctx, "start_date", service.ErrInvalidRange.Error())
	case errors.Is(err, service.ErrInvalidAccount):
		return Validation(ctx, "account_id", "Invalid account")
	case errors.Is(err, service.ErrInvalidCategory):
		return Validation(ctx, "category_id", "Invalid category")
	case errors.Is(err, service.ErrInvalidReference):
		return Validation(ctx, "", "referenced record not found")
	}
	return nil
}
