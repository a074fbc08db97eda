package logging

import (
	"context"
	"net/http"

	"github.com/gofrs/uuid/v5"
)

// TraceHeader carries the request's trace id back to the caller.
const TraceHeader = "X-Trace-ID"

type traceIDKey struct{}

// WithTraceID stores id in ctx.
func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, id)
}

// TraceID returns the request's trace id, or "" when none was assigned.
func TraceID(ctx context.Context) string {
	id, _ := ctx.Value(traceIDKey{}).(string)
	return id
}

// TraceMiddleware gives every request a fresh trace id and echoes it in the
// X-Trace-ID response header.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := newTraceID()
		w.Header().Set(TraceHeader, id)
		next.ServeHTTP(w, r.WithContext(WithTraceID(r.Context(), id)))
	})
}

func newTraceID() string {
	id, err := uuid.NewV4()
	if err != nil {
		return uuid.Nil.String()
	}
	return id.String()
}
