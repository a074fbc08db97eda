// Package ratelimit implements per user sliding window request limits.
package ratelimit

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
)

// Rule limits one scope to Limit requests per Window.
type Rule struct {
	Scope  string
	Limit  int
	Window time.Duration
}

// DashboardSummaryScope is the scope of the dashboard summary endpoint.
const DashboardSummaryScope = "dashboard:summary"

// Decision is the limiter's verdict for one request. Remaining counts the
// requests still allowed in the current window. ResetAt is when the oldest
// counted request leaves the window.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Limiter records a request for userID in rule.Scope and reports whether it
// fits in the window. Denied requests are not recorded.
type Limiter interface {
	Allow(ctx context.Context, userID uuid.UUID, rule Rule) (Decision, error)
}

func bucketKey(userID uuid.UUID, scope string) string {
	return userID.String() + ":" + scope
}
