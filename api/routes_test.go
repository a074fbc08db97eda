package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finance-tracker/internal/auth"
	"github.com/carson-networks/finance-tracker/internal/logging"
	"github.com/carson-networks/finance-tracker/internal/operator"
	"github.com/carson-networks/finance-tracker/internal/ratelimit"
	"github.com/carson-networks/finance-tracker/internal/service"
	"github.com/carson-networks/finance-tracker/internal/storage"
	"github.com/carson-networks/finance-tracker/internal/storage/memory"
)

type testServer struct {
	handler http.Handler
	token   string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	jakarta, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	store := storage.NewMemoryStorage(memory.New())
	delegator := operator.NewOperatorDelegator(store, 1, logger)
	delegator.Start()
	t.Cleanup(delegator.Stop)

	svc := service.NewService(store, delegator, service.Options{
		Location: jakarta,
		Currency: "IDR",
		Now:      func() time.Time { return time.Date(2025, 2, 14, 3, 0, 0, 0, time.UTC) },
		Logger:   logger,
	})
	_, err = svc.Category.SeedDefaults(context.Background())
	require.NoError(t, err)

	authenticator := auth.NewAuthenticator("routes-test-secret", time.Hour)
	token, err := authenticator.Issue(uuid.Must(uuid.NewV4()))
	require.NoError(t, err)

	rest := &Rest{
		Logger:        logger,
		Storage:       store,
		Service:       svc,
		Authenticator: authenticator,
		Limiter:       ratelimit.NewMemoryLimiter(),
		SummaryRule:   ratelimit.Rule{Scope: ratelimit.DashboardSummaryScope, Limit: 60, Window: time.Minute},
		CORSOrigins:   []string{"*"},
	}
	return &testServer{handler: rest.Router(), token: token}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+s.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dest any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(w.Body).Decode(dest))
}

func TestRouter_Status(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(logging.TraceHeader))
}

func TestRouter_RequiresToken(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/transactions", nil))

	require.Equal(t, http.StatusUnauthorized, w.Code)
	var body map[string]any
	decode(t, w, &body)
	assert.Equal(t, "UNAUTHORIZED", body["code"])
	assert.Equal(t, w.Header().Get(logging.TraceHeader), body["trace_id"])
}

func TestRouter_LedgerFlow(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/accounts", map[string]any{"name": "Cash", "type": "cash"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var account map[string]any
	decode(t, w, &account)
	assert.Equal(t, "IDR", account["currency"])

	w = s.do(t, http.MethodGet, "/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var categories []map[string]any
	decode(t, w, &categories)
	var makanID string
	for _, c := range categories {
		if c["name"] == "Makan" {
			makanID = c["id"].(string)
		}
	}
	require.NotEmpty(t, makanID)

	for _, tx := range []map[string]any{
		{"account_id": account["id"], "type": "income", "amount": "9000000", "occurred_at": "2025-02-01T09:00:00+07:00", "description": "Gaji Februari"},
		{"account_id": account["id"], "category_id": makanID, "type": "expense", "amount": "45000.50", "occurred_at": "2025-02-10T12:00:00+07:00", "description": "Makan siang"},
		{"account_id": account["id"], "type": "expense", "amount": "20000", "occurred_at": "2025-02-11T08:00:00+07:00", "description": "Parkir"},
	} {
		w = s.do(t, http.MethodPost, "/transactions", tx)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w = s.do(t, http.MethodGet, "/transactions?page_size=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Items      []map[string]any `json:"items"`
		Pagination map[string]any   `json:"pagination"`
	}
	decode(t, w, &page)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Parkir", page.Items[0]["description"])
	assert.EqualValues(t, 3, page.Pagination["total_items"])
	assert.EqualValues(t, 2, page.Pagination["total_pages"])

	w = s.do(t, http.MethodGet, "/dashboard/summary", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "59", w.Header().Get("X-RateLimit-Remaining"))
	var summary map[string]any
	decode(t, w, &summary)
	assert.Equal(t, map[string]any{"income": "9000000.00", "expense": "65000.50", "balance": "8934999.50"}, summary["totals"])
	top := summary["top_categories"].([]any)
	require.Len(t, top, 2)
	assert.Equal(t, "Makan", top[0].(map[string]any)["name"])
	assert.Equal(t, "Uncategorized", top[1].(map[string]any)["name"])
}

func TestRouter_InvertedRangeNamesStartDate(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/transactions?start_date=2025-02-10&end_date=2025-02-01", nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]any
	decode(t, w, &body)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
	assert.NotEmpty(t, body["trace_id"])
	assert.Contains(t, w.Body.String(), "start_date")
}

func TestRouter_OpenAPI(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))

	require.Equal(t, http.StatusOK, w.Code)
	for _, path := range []string{"/accounts", "/categories", "/transactions", "/dashboard/summary", "/ai/predict_category"} {
		assert.Contains(t, w.Body.String(), `"`+path+`"`)
	}
}
