package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/truthapi/core/router"
	"github.com/dmitrymomot/truthapi/middleware"
	"github.com/dmitrymomot/truthapi/pkg/ratelimiter"
)

func newLimiter(t *testing.T, store ratelimiter.Store, limit int) *ratelimiter.SlidingWindow {
	t.Helper()
	if store == nil {
		store = ratelimiter.NewMemoryStore()
	}
	sw, err := ratelimiter.NewSlidingWindow(store, ratelimiter.Config{Limit: limit, Period: time.Minute})
	require.NoError(t, err)
	return sw
}

func newRateLimitRouter(cfg middleware.RateLimitConfig) router.Router[*router.Context] {
	r := router.New[*router.Context](router.WithMiddleware(
		middleware.Boundary[*router.Context](renderJSONError),
		middleware.ClientIP[*router.Context](),
		middleware.RateLimit[*router.Context](cfg),
	))
	r.Get("/truth", okHandler("ok"))
	r.Get("/health", okHandler("up"))
	return r
}

func get(r http.Handler, path, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimit_RejectsOverLimit(t *testing.T) {
	t.Parallel()

	r := newRateLimitRouter(middleware.RateLimitConfig{
		Limiter:    newLimiter(t, nil, 2),
		SetHeaders: true,
	})

	for i := range 2 {
		w := get(r, "/truth", "198.51.100.1:1000")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, strconv.Itoa(1-i), w.Header().Get("X-RateLimit-Remaining"))
		assert.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))
	}

	w := get(r, "/truth", "198.51.100.1:1001")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "rate_limited", decodeError(t, w))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	retry, err := strconv.Atoi(w.Header().Get("Retry-After"))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, retry, 1)
	assert.LessOrEqual(t, retry, 60)

	// Another client has its own window
	w = get(r, "/truth", "198.51.100.2:1000")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimit_GlobalStrategy(t *testing.T) {
	t.Parallel()

	r := newRateLimitRouter(middleware.RateLimitConfig{
		Limiter:  newLimiter(t, nil, 1),
		Strategy: ratelimiter.KeyGlobal,
	})

	assert.Equal(t, http.StatusOK, get(r, "/truth", "198.51.100.1:1").Code)
	w := get(r, "/truth", "198.51.100.2:1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
}

func TestRateLimit_ExemptPaths(t *testing.T) {
	t.Parallel()

	r := newRateLimitRouter(middleware.RateLimitConfig{
		Limiter:     newLimiter(t, nil, 1),
		ExemptPaths: []string{"/health"},
	})

	for range 5 {
		assert.Equal(t, http.StatusOK, get(r, "/health", "198.51.100.1:1").Code)
	}
	assert.Equal(t, http.StatusOK, get(r, "/truth", "198.51.100.1:1").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(r, "/truth", "198.51.100.1:1").Code)
	// Exact match only
	assert.Equal(t, http.StatusTooManyRequests, get(r, "/health/", "198.51.100.1:1").Code)
}

type brokenStore struct{}

func (brokenStore) Record(context.Context, string, time.Time, ratelimiter.Config) (ratelimiter.Window, error) {
	return ratelimiter.Window{}, ratelimiter.ErrStoreUnavailable
}

func (brokenStore) Reset(context.Context, string) error {
	return errors.New("unavailable")
}

func TestRateLimit_StoreFailure(t *testing.T) {
	t.Parallel()

	r := newRateLimitRouter(middleware.RateLimitConfig{Limiter: newLimiter(t, brokenStore{}, 1)})

	w := get(r, "/truth", "198.51.100.1:1")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal", decodeError(t, w))
}

func TestRateLimit_RequiresLimiter(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		middleware.RateLimit[*router.Context](middleware.RateLimitConfig{})
	})
}
