package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferedLogger(level string) (*logrus.Logger, *bytes.Buffer) {
	logger := SetupLogging(level)
	buf := &bytes.Buffer{}
	logger.SetOutput(buf)
	return logger, buf
}

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &out))
	return out
}

func TestSetupLogging_Level(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, SetupLogging("debug").Level)
	assert.Equal(t, logrus.InfoLevel, SetupLogging("nonsense").Level)
}

func TestLogData_Fields(t *testing.T) {
	logger, buf := newBufferedLogger("info")
	logData := NewLogData(logger)
	logData.AddData("userID", "abc")
	logData.AddTiming("queryMs")()

	logData.Log().Info("done")

	line := lastLine(t, buf)
	assert.Equal(t, "abc", line["userID"])
	assert.Contains(t, line, "queryMs")
	assert.Equal(t, "info", line["loglevel"])
}

func TestGetLogData(t *testing.T) {
	assert.Nil(t, GetLogData(context.Background()))

	logData := NewLogData(logrus.New())
	assert.Same(t, logData, GetLogData(WithLogData(context.Background(), logData)))
}

func TestTraceMiddleware(t *testing.T) {
	var seen string
	handler := TraceMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = TraceID(r.Context())
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get(TraceHeader))
}

func TestMiddleware_LogsStatusAndHandlerData(t *testing.T) {
	logger, buf := newBufferedLogger("info")
	handler := TraceMiddleware(Middleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		GetLogData(r.Context()).AddData("itemCount", 3)
		w.WriteHeader(http.StatusTeapot)
	})))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/transactions", nil))

	line := lastLine(t, buf)
	assert.Equal(t, "Handler.GET /transactions.Complete", line["msg"])
	assert.Equal(t, float64(http.StatusTeapot), line["status"])
	assert.Equal(t, float64(3), line["itemCount"])
	assert.Equal(t, w.Header().Get(TraceHeader), line["traceID"])
	assert.Equal(t, "warning", line["loglevel"])
}

func TestLoggingWrapper_Error(t *testing.T) {
	logger, buf := newBufferedLogger("info")
	wrapped := LoggingWrapper("Status", logger, func(w http.ResponseWriter, r *http.Request, logData *LogData) error {
		assert.Same(t, logData, GetLogData(r.Context()))
		w.WriteHeader(http.StatusServiceUnavailable)
		return errors.New("store down")
	})

	wrapped.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/status", nil))

	line := lastLine(t, buf)
	assert.Equal(t, "Handler.Status.Error", line["msg"])
	assert.Equal(t, "store down", line["error"])
}
