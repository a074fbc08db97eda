// Package apierror defines the single error body every endpoint returns.
package apierror

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/finance-tracker/internal/logging"
)

const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeNotFound     = "NOT_FOUND"
	CodeRateLimited  = "RATE_LIMITED"
	CodeInternal     = "INTERNAL_ERROR"
)

// ErrorModel is the JSON error body. Details are only filled for client
// errors so internal failures never leak.
type ErrorModel struct {
	status  int
	headers http.Header

	Message string              `json:"message" doc:"Human readable description of the problem"`
	Code    string              `json:"code" doc:"Machine readable error code" example:"VALIDATION_ERROR"`
	TraceID string              `json:"trace_id" doc:"Request trace id, also sent as the X-Trace-ID header"`
	Errors  []*huma.ErrorDetail `json:"errors,omitempty" doc:"Per field details"`
}

var (
	_ huma.StatusError  = (*ErrorModel)(nil)
	_ huma.HeadersError = (*ErrorModel)(nil)
)

func (e *ErrorModel) Error() string {
	return e.Message
}

func (e *ErrorModel) GetStatus() int {
	return e.status
}

// GetHeaders lists extra response headers sent with the error.
func (e *ErrorModel) GetHeaders() http.Header {
	return e.headers
}

// Install makes huma build its own errors (schema validation, panics,
// unknown errors) as ErrorModel.
func Install() {
	huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
		return New(context.Background(), status, msg, errs...)
	}
	huma.NewErrorWithContext = func(hctx huma.Context, status int, msg string, errs ...error) huma.StatusError {
		ctx := context.Background()
		if hctx != nil {
			ctx = hctx.Context()
		}
		return New(ctx, status, msg, errs...)
	}
}

// New builds an ErrorModel carrying the trace id found in ctx.
func New(ctx context.Context, status int, msg string, errs ...error) *ErrorModel {
	model := &ErrorModel{
		status:  status,
		Message: msg,
		Code:    CodeFor(status),
		TraceID: logging.TraceID(ctx),
	}
	if status >= http.StatusInternalServerError {
		return model
	}

	for _, err := range errs {
		if err == nil {
			continue
		}
		if detailer, ok := err.(huma.ErrorDetailer); ok {
			model.Errors = append(model.Errors, detailer.ErrorDetail())
			continue
		}
		model.Errors = append(model.Errors, &huma.ErrorDetail{Message: err.Error()})
	}
	return model
}

// CodeFor maps an HTTP status to its error code.
func CodeFor(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return CodeValidation
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusTooManyRequests:
		return CodeRateLimited
	}
	if status >= http.StatusInternalServerError || http.StatusText(status) == "" {
		return CodeInternal
	}
	return strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))
}

// Validation reports bad input with 400. field is echoed as a detail location
// when set.
func Validation(ctx context.Context, field, msg string) error {
	model := New(ctx, http.StatusBadRequest, msg)
	if field != "" {
		model.Errors = []*huma.ErrorDetail{{Message: msg, Location: field}}
	}
	return model
}

func Unauthorized(ctx context.Context, msg string) error {
	return New(ctx, http.StatusUnauthorized, msg)
}

func NotFound(ctx context.Context, msg string) error {
	return New(ctx, http.StatusNotFound, msg)
}

// RateLimited answers 429 with headers such as Retry-After.
func RateLimited(ctx context.Context, msg string, headers http.Header) error {
	model := New(ctx, http.StatusTooManyRequests, msg)
	model.headers = headers
	return model
}

// Internal hides err from the caller. Callers log it first.
func Internal(ctx context.Context, msg string) error {
	return New(ctx, http.StatusInternalServerError, msg)
}
