package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"
	_ "time/tzdata"

	"cloud.google.com/go/civil"
	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finance-tracker/internal/handlers/apierror"
	"github.com/carson-networks/finance-tracker/internal/handlers/handlertest"
	"github.com/carson-networks/finance-tracker/internal/ratelimit"
	"github.com/carson-networks/finance-tracker/internal/service"
	"github.com/carson-networks/finance-tracker/internal/storage/model"
)

type mockSummarizer struct {
	mock.Mock
}

func (m *mockSummarizer) Summarize(ctx context.Context, userID uuid.UUID, period service.Period, topLimit int) (*service.DashboardSummary, error) {
	args := m.Called(ctx, userID, period, topLimit)
	summary, _ := args.Get(0).(*service.DashboardSummary)
	return summary, args.Error(1)
}

type mockLimiter struct {
	mock.Mock
}

func (m *mockLimiter) Allow(ctx context.Context, userID uuid.UUID, rule ratelimit.Rule) (ratelimit.Decision, error) {
	args := m.Called(ctx, userID, rule)
	return args.Get(0).(ratelimit.Decision), args.Error(1)
}

var (
	jakarta, _ = time.LoadLocation("Asia/Jakarta")
	testNow    = time.Date(2025, 2, 14, 3, 0, 0, 0, time.UTC)
	testRule   = ratelimit.Rule{Scope: ratelimit.DashboardSummaryScope, Limit: 60, Window: time.Minute}
)

func testPeriods() *service.PeriodResolver {
	return service.NewPeriodResolver(jakarta, func() time.Time { return testNow })
}

func newTestAPI(t *testing.T, dashboard summarizer, limiter ratelimit.Limiter) *handlertest.API {
	t.Helper()
	return handlertest.New(t, func(api huma.API) {
		NewGetSummaryHandler(testPeriods(), dashboard, limiter, testRule).Register(api)
	})
}

func sampleSummary(t *testing.T, start, end *civil.Date) *service.DashboardSummary {
	t.Helper()
	period, err := testPeriods().Resolve(start, end)
	require.NoError(t, err)

	makan := uuid.Must(uuid.NewV4())
	return &service.DashboardSummary{
		Period:  period,
		Income:  decimal.RequireFromString("9000000"),
		Expense: decimal.RequireFromString("98500.5"),
		Balance: decimal.RequireFromString("8901499.5"),
		TopCategories: []service.TopCategory{
			{CategoryID: &makan, Name: "Makan", Amount: decimal.RequireFromString("75000.5"), Kind: service.KindExpense},
			{Name: model.UncategorizedName, Amount: decimal.RequireFromString("20000"), Kind: service.KindExpense},
		},
		Currency: "IDR",
	}
}

// -- HTTP integration tests --

func TestHTTP_GetSummary_DefaultPeriod(t *testing.T) {
	dashboard := new(mockSummarizer)
	api := newTestAPI(t, dashboard, nil)
	summary := sampleSummary(t, nil, nil)
	dashboard.On("Summarize", mock.Anything, api.UserID, summary.Period, 5).Return(summary, nil)

	resp := api.Get("/dashboard/summary", api.Auth)

	require.Equal(t, http.StatusOK, resp.Code)
	var body Summary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, Period{StartDate: "2025-02-01", EndDate: "2025-02-14"}, body.Period)
	assert.Equal(t, Totals{Income: "9000000.00", Expense: "98500.50", Balance: "8901499.50"}, body.Totals)
	require.Len(t, body.TopCategories, 2)
	assert.Equal(t, "Makan", body.TopCategories[0].Name)
	assert.Equal(t, "75000.50", body.TopCategories[0].Amount)
	assert.Equal(t, "expense", body.TopCategories[0].Type)
	assert.Nil(t, body.TopCategories[1].CategoryID)
	assert.Equal(t, "Uncategorized", body.TopCategories[1].Name)
	assert.Equal(t, "IDR", body.Currency)
	assert.True(t, summary.Period.Start.Equal(time.Date(2025, 1, 31, 17, 0, 0, 0, time.UTC)))
	dashboard.AssertExpectations(t)
}

func TestHTTP_GetSummary_ExplicitRangeAndTopLimit(t *testing.T) {
	dashboard := new(mockSummarizer)
	api := newTestAPI(t, dashboard, nil)
	start := civil.Date{Year: 2025, Month: 1, Day: 1}
	end := civil.Date{Year: 2025, Month: 1, Day: 31}
	summary := sampleSummary(t, &start, &end)
	dashboard.On("Summarize", mock.Anything, api.UserID, summary.Period, 50).Return(summary, nil)

	resp := api.Get("/dashboard/summary?start_date=2025-01-01&end_date=2025-01-31&top_limit=50", api.Auth)

	assert.Equal(t, http.StatusOK, resp.Code)
	dashboard.AssertExpectations(t)
}

func TestHTTP_GetSummary_InvertedRange(t *testing.T) {
	dashboard := new(mockSummarizer)
	api := newTestAPI(t, dashboard, nil)

	resp := api.Get("/dashboard/summary?start_date=2025-02-10&end_date=2025-02-01", api.Auth)

	require.Equal(t, http.StatusBadRequest, resp.Code)
	var body apierror.ErrorModel
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, apierror.CodeValidation, body.Code)
	assert.Equal(t, "start_date must be before or equal to end_date", body.Message)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "start_date", body.Errors[0].Location)
	dashboard.AssertNotCalled(t, "Summarize", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHTTP_GetSummary_BadDate(t *testing.T) {
	api := newTestAPI(t, new(mockSummarizer), nil)

	resp := api.Get("/dashboard/summary?end_date=14-02-2025", api.Auth)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestHTTP_GetSummary_RateLimited(t *testing.T) {
	dashboard := new(mockSummarizer)
	limiter := new(mockLimiter)
	api := newTestAPI(t, dashboard, limiter)
	limiter.On("Allow", mock.Anything, api.UserID, testRule).Return(ratelimit.Decision{
		Allowed:   false,
		Limit:     60,
		Remaining: 0,
		ResetAt:   time.Now().Add(30 * time.Second),
	}, nil)

	resp := api.Get("/dashboard/summary", api.Auth)

	require.Equal(t, http.StatusTooManyRequests, resp.Code)
	var body apierror.ErrorModel
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, apierror.CodeRateLimited, body.Code)
	assert.Equal(t, "60", resp.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", resp.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, resp.Header().Get("Retry-After"))
	dashboard.AssertNotCalled(t, "Summarize", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHTTP_GetSummary_RateLimitHeaders(t *testing.T) {
	dashboard := new(mockSummarizer)
	limiter := new(mockLimiter)
	api := newTestAPI(t, dashboard, limiter)
	summary := sampleSummary(t, nil, nil)
	limiter.On("Allow", mock.Anything, api.UserID, testRule).Return(ratelimit.Decision{
		Allowed:   true,
		Limit:     60,
		Remaining: 59,
		ResetAt:   testNow.Add(time.Minute),
	}, nil)
	dashboard.On("Summarize", mock.Anything, api.UserID, summary.Period, 5).Return(summary, nil)

	resp := api.Get("/dashboard/summary", api.Auth)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "59", resp.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "1739502060", resp.Header().Get("X-RateLimit-Reset"))
}

func TestHTTP_GetSummary_LimiterErrorFailsOpen(t *testing.T) {
	dashboard := new(mockSummarizer)
	limiter := new(mockLimiter)
	api := newTestAPI(t, dashboard, limiter)
	summary := sampleSummary(t, nil, nil)
	limiter.On("Allow", mock.Anything, api.UserID, testRule).Return(ratelimit.Decision{}, errors.New("redis: connection refused"))
	dashboard.On("Summarize", mock.Anything, api.UserID, summary.Period, 5).Return(summary, nil)

	resp := api.Get("/dashboard/summary", api.Auth)

	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestHTTP_GetSummary_RealLimiter(t *testing.T) {
	dashboard := new(mockSummarizer)
	summary := sampleSummary(t, nil, nil)
	limiter := ratelimit.NewMemoryLimiter()
	api := handlertest.New(t, func(api huma.API) {
		rule := ratelimit.Rule{Scope: ratelimit.DashboardSummaryScope, Limit: 2, Window: time.Minute}
		NewGetSummaryHandler(testPeriods(), dashboard, limiter, rule).Register(api)
	})
	dashboard.On("Summarize", mock.Anything, api.UserID, summary.Period, 5).Return(summary, nil)

	assert.Equal(t, http.StatusOK, api.Get("/dashboard/summary", api.Auth).Code)
	assert.Equal(t, http.StatusOK, api.Get("/dashboard/summary", api.Auth).Code)
	assert.Equal(t, http.StatusTooManyRequests, api.Get("/dashboard/summary", api.Auth).Code)
}

func TestHTTP_GetSummary_ServiceError(t *testing.T) {
	dashboard := new(mockSummarizer)
	api := newTestAPI(t, dashboard, nil)
	dashboard.On("Summarize", mock.Anything, api.UserID, mock.Anything, 5).Return(nil, errors.New("timeout"))

	resp := api.Get("/dashboard/summary", api.Auth)

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
}

func TestHTTP_GetSummary_Unauthenticated(t *testing.T) {
	api := newTestAPI(t, new(mockSummarizer), nil)

	resp := api.Get("/dashboard/summary", "Authorization: Bearer expired.or.bogus")

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
