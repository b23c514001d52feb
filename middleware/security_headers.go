package middleware

import (
	"net/http"
	"strings"

	"github.com/dmitrymomot/truthapi/core/handler"
	"github.com/dmitrymomot/truthapi/core/router"
)

// HeadersConfig configures the response headers middleware.
type HeadersConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx handler.Context) bool

	// CacheControl is sent as Cache-Control when non-empty
	CacheControl string

	// Vary is sent as Vary when non-empty
	Vary string

	// Security maps header names to values. Underscores in names become
	// hyphens, so "x_content_type_options" is sent as X-Content-Type-Options.
	Security map[string]string
}

// DefaultSecurityHeaders is a conservative header set for JSON APIs.
var DefaultSecurityHeaders = map[string]string{
	"X-Content-Type-Options": "nosniff",
	"X-Frame-Options":        "DENY",
	"Referrer-Policy":        "no-referrer",
}

// HeaderName converts a configuration key into a canonical header name.
func HeaderName(key string) string {
	return http.CanonicalHeaderKey(strings.ReplaceAll(strings.TrimSpace(key), "_", "-"))
}

// SecurityHeaders sets DefaultSecurityHeaders on every response.
func SecurityHeaders[C handler.Context]() handler.Middleware[C] {
	return ResponseHeaders[C](HeadersConfig{Security: DefaultSecurityHeaders})
}

// ResponseHeaders sets Cache-Control, Vary and the configured security
// headers on every response, including error responses rendered by inner
// layers. Headers are set before the inner response runs, so handlers can
// still override them.
func ResponseHeaders[C handler.Context](cfg HeadersConfig) handler.Middleware[C] {
	headers := make(http.Header, len(cfg.Security)+2)
	if cfg.CacheControl != "" {
		headers.Set("Cache-Control", cfg.CacheControl)
	}
	if cfg.Vary != "" {
		headers.Set("Vary", cfg.Vary)
	}
	for key, value := range cfg.Security {
		if name := HeaderName(key); name != "" {
			headers.Set(name, value)
		}
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			resp := next(ctx)

			return func(w http.ResponseWriter, r *http.Request) error {
				h := w.Header()
				for name, values := range headers {
					h[name] = append([]string(nil), values...)
				}
				if resp == nil {
					return router.ErrNilResponse
				}
				return resp(w, r)
			}
		}
	}
}
