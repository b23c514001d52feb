package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/truthapi/core/handler"
	"github.com/dmitrymomot/truthapi/core/response"
	"github.com/dmitrymomot/truthapi/core/router"
	"github.com/dmitrymomot/truthapi/middleware"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Use(middleware.RequestID[*router.Context]())

	var captured string
	r.Get("/test", func(ctx *router.Context) handler.Response {
		id, ok := middleware.GetRequestID(ctx)
		assert.True(t, ok)
		captured = id
		return response.NoContent()
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Len(t, captured, 36)
	assert.Equal(t, captured, w.Header().Get("X-Request-ID"))
}

func TestRequestID_UniquePerRequest(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Use(middleware.RequestID[*router.Context]())
	r.Get("/", okHandler("ok"))

	seen := map[string]bool{}
	for range 20 {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		id := w.Header().Get("X-Request-ID")
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestRequestID_OnUnmatchedRoute(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context](router.WithMiddleware(middleware.RequestID[*router.Context]()))
	r.Get("/known", okHandler("ok"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/unknown", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRequestIDWithConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		incoming string
		want     string
	}{
		{"accepts well-formed id", "abc-123", "abc-123"},
		{"rejects control characters", "bad\tid", "generated"},
		{"rejects oversized id", strings.Repeat("a", 129), "generated"},
		{"generates when missing", "", "generated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := router.New[*router.Context]()
			r.Use(middleware.RequestIDWithConfig[*router.Context](middleware.RequestIDConfig{
				Generator:   func() string { return "generated" },
				HeaderName:  "X-Trace-ID",
				UseExisting: true,
			}))
			r.Get("/", okHandler("ok"))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				req.Header.Set("X-Trace-ID", tt.incoming)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Header().Get("X-Trace-ID"))
		})
	}
}
