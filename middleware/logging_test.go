package middleware_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/truthapi/core/handler"
	"github.com/dmitrymomot/truthapi/core/logger"
	"github.com/dmitrymomot/truthapi/core/response"
	"github.com/dmitrymomot/truthapi/core/router"
	"github.com/dmitrymomot/truthapi/middleware"
)

// syncBuffer guards a bytes.Buffer shared between the handler goroutine and the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) records(t *testing.T) []map[string]any {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []map[string]any
	for line := range strings.SplitSeq(strings.TrimSpace(b.buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		out = append(out, rec)
	}
	return out
}

func newJSONLogger(buf *syncBuffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestLogging_OneRecordPerRequest(t *testing.T) {
	t.Parallel()

	buf := &syncBuffer{}
	r := router.New[*router.Context](router.WithMiddleware(
		middleware.RequestID[*router.Context](),
		middleware.Logging[*router.Context](newJSONLogger(buf)),
	))
	r.Get("/truth", func(ctx *router.Context) handler.Response {
		middleware.LogAttrs(ctx, logger.TruthID("t-1"), logger.Weekday(time.Friday))
		return response.String("hello")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/truth", nil))
	require.Equal(t, http.StatusOK, w.Code)

	recs := buf.records(t)
	require.Len(t, recs, 1)
	rec := recs[0]

	assert.Equal(t, "INFO", rec["level"])
	assert.Equal(t, "request completed", rec["msg"])
	assert.Equal(t, w.Header().Get("X-Request-ID"), rec["request_id"])
	assert.Equal(t, "GET", rec["method"])
	assert.Equal(t, "/truth", rec["path"])
	assert.EqualValues(t, 200, rec["status_code"])
	assert.EqualValues(t, 5, rec["bytes_out"])
	assert.Equal(t, "t-1", rec["truth_id"])
	assert.Equal(t, "Friday", rec["day"])
	assert.Contains(t, rec, "latency")
}

func TestLogging_Levels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		level  string
	}{
		{"success", http.StatusOK, "INFO"},
		{"client error", http.StatusTooManyRequests, "WARN"},
		{"server error", http.StatusServiceUnavailable, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			buf := &syncBuffer{}
			r := router.New[*router.Context](router.WithMiddleware(
				middleware.Logging[*router.Context](newJSONLogger(buf)),
			))
			r.Get("/", func(ctx *router.Context) handler.Response {
				return response.Status(tt.status)
			})

			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

			recs := buf.records(t)
			require.Len(t, recs, 1)
			assert.Equal(t, tt.level, recs[0]["level"])
			assert.EqualValues(t, tt.status, recs[0]["status_code"])
		})
	}
}

func TestLogging_UnrenderedErrorIsLoggedAsServerError(t *testing.T) {
	t.Parallel()

	buf := &syncBuffer{}
	r := router.New[*router.Context](router.WithMiddleware(
		middleware.Logging[*router.Context](newJSONLogger(buf)),
	))
	r.Get("/", failing(errors.New("boom")))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	recs := buf.records(t)
	require.Len(t, recs, 1)
	assert.Equal(t, "ERROR", recs[0]["level"])
	assert.Equal(t, "boom", recs[0]["error"])
}

func TestLogging_Skip(t *testing.T) {
	t.Parallel()

	buf := &syncBuffer{}
	r := router.New[*router.Context](router.WithMiddleware(
		middleware.LoggingWithConfig[*router.Context](middleware.LoggingConfig{
			Logger: newJSONLogger(buf),
			Skip: func(ctx handler.Context) bool {
				return ctx.Request().URL.Path == "/health"
			},
		}),
	))
	r.Get("/health", okHandler("ok"))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Empty(t, buf.records(t))
}

func TestLogAttrs_OutsideLogging(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := router.NewContext(httptest.NewRecorder(), req, nil)

	assert.NotPanics(t, func() {
		middleware.LogAttrs(ctx, logger.TruthID("x"))
	})
}
