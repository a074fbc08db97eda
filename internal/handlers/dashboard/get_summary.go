package dashboard

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"cloud.google.com/go/civil"
	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-tracker/internal/auth"
	"github.com/carson-networks/finance-tracker/internal/handlers/apierror"
	"github.com/carson-networks/finance-tracker/internal/handlers/params"
	"github.com/carson-networks/finance-tracker/internal/logging"
	"github.com/carson-networks/finance-tracker/internal/ratelimit"
	"github.com/carson-networks/finance-tracker/internal/service"
)

// GetSummaryInput is the Huma input for the dashboard summary.
type GetSummaryInput struct {
	StartDate string `query:"start_date" doc:"YYYY-MM-DD in the ledger timezone, defaults to the first day of the current month" example:"2025-02-01"`
	EndDate   string `query:"end_date" doc:"YYYY-MM-DD in the ledger timezone, defaults to today" example:"2025-02-14"`
	TopLimit  int    `query:"top_limit" default:"5" doc:"Number of top categories, clamped to 1..10"`
}

// GetSummaryOutput is the Huma output for the dashboard summary.
type GetSummaryOutput struct {
	RateLimitLimit     string `header:"X-RateLimit-Limit"`
	RateLimitRemaining string `header:"X-RateLimit-Remaining"`
	RateLimitReset     string `header:"X-RateLimit-Reset"`
	Body               Summary
}

type periodResolver interface {
	Resolve(start, end *civil.Date) (service.Period, error)
}

type summarizer interface {
	Summarize(ctx context.Context, userID uuid.UUID, period service.Period, topLimit int) (*service.DashboardSummary, error)
}

// GetSummaryHandler handles GET /dashboard/summary. A nil Limiter disables
// rate limiting.
type GetSummaryHandler struct {
	Periods   periodResolver
	Dashboard summarizer
	Limiter   ratelimit.Limiter
	Rule      ratelimit.Rule
}

// NewGetSummaryHandler creates a new GetSummaryHandler.
func NewGetSummaryHandler(periods periodResolver, dashboard summarizer, limiter ratelimit.Limiter, rule ratelimit.Rule) *GetSummaryHandler {
	return &GetSummaryHandler{
		Periods:   periods,
		Dashboard: dashboard,
		Limiter:   limiter,
		Rule:      rule,
	}
}

// Register registers the dashboard summary endpoint with the Huma API.
func (h *GetSummaryHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-dashboard-summary",
		Method:      http.MethodGet,
		Path:        "/dashboard/summary",
		Summary:     "Dashboard summary",
		Description: "Returns income, expense, balance and the top spending categories for a date range in the ledger timezone.",
		Tags:        []string{"Dashboard"},
		Security:    auth.Security,
	}, h.handle)
}

func parseGetSummaryInput(ctx context.Context, input *GetSummaryInput) (start, end *civil.Date, err error) {
	if start, err = params.Date(ctx, "start_date", input.StartDate); err != nil {
		return nil, nil, err
	}
	if end, err = params.Date(ctx, "end_date", input.EndDate); err != nil {
		return nil, nil, err
	}
	return start, end, nil
}

func (h *GetSummaryHandler) handle(ctx context.Context, input *GetSummaryInput) (*GetSummaryOutput, error) {
	logData := logging.GetLogData(ctx)
	userID, err := auth.Require(ctx)
	if err != nil {
		return nil, err
	}

	output := &GetSummaryOutput{}
	if h.Limiter != nil {
		decision, err := h.Limiter.Allow(ctx, userID, h.Rule)
		switch {
		case err != nil:
			// The limiter fails open.
			if logData != nil {
				logData.AddData("rateLimitError", err.Error())
			}
		case !decision.Allowed:
			return nil, apierror.RateLimited(ctx, "Rate limit exceeded, try again later", rateLimitHeaders(decision, true))
		default:
			headers := rateLimitHeaders(decision, false)
			output.RateLimitLimit = headers.Get("X-RateLimit-Limit")
			output.RateLimitRemaining = headers.Get("X-RateLimit-Remaining")
			output.RateLimitReset = headers.Get("X-RateLimit-Reset")
		}
	}

	start, end, err := parseGetSummaryInput(ctx, input)
	if err != nil {
		return nil, err
	}
	period, err := h.Periods.Resolve(start, end)
	if err != nil {
		if apiErr := apierror.FromService(ctx, err); apiErr != nil {
			return nil, apiErr
		}
		return nil, apierror.Internal(ctx, "failed to resolve period")
	}

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("summarizeMs")
	}
	summary, err := h.Dashboard.Summarize(ctx, userID, period, input.TopLimit)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		if logData != nil {
			logData.AddData("summarizeError", err.Error())
		}
		return nil, apierror.Internal(ctx, "failed to build dashboard summary")
	}

	if logData != nil {
		logData.AddData("topCategoryCount", len(summary.TopCategories))
	}

	output.Body = fromService(summary)
	return output, nil
}

func rateLimitHeaders(decision ratelimit.Decision, denied bool) http.Header {
	headers := http.Header{}
	headers.Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
	headers.Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
	headers.Set("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))
	if denied {
		wait := int(time.Until(decision.ResetAt).Seconds() + 0.5)
		headers.Set("Retry-After", strconv.Itoa(max(wait, 1)))
	}
	return headers
}
