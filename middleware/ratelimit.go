package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/dmitrymomot/truthapi/core/handler"
	"github.com/dmitrymomot/truthapi/core/logger"
	"github.com/dmitrymomot/truthapi/core/router"
	"github.com/dmitrymomot/truthapi/pkg/clientip"
	"github.com/dmitrymomot/truthapi/pkg/ratelimiter"
)

// RateLimitConfig configures the rate limiting middleware.
type RateLimitConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx handler.Context) bool

	// Limiter decides admission. Required.
	Limiter *ratelimiter.SlidingWindow

	// Strategy maps the client address to a key (default: KeyRemoteAddress)
	Strategy ratelimiter.KeyStrategy

	// ExemptPaths bypass the limiter entirely. Matching is exact on the URL path.
	ExemptPaths []string

	// SetHeaders adds X-RateLimit-Limit, X-RateLimit-Remaining and
	// X-RateLimit-Reset to admitted and rejected responses
	SetHeaders bool
}

// RateLimit admits requests through a sliding window limiter. Rejected
// requests never reach the handler: the middleware sets Retry-After and
// returns the limiter's *ratelimiter.ExceededError for an outer Boundary to
// render. Store failures are returned as errors and the request is not
// admitted.
//
// The key comes from the address stored by ClientIP, falling back to the
// connection's remote host.
func RateLimit[C handler.Context](cfg RateLimitConfig) handler.Middleware[C] {
	if cfg.Limiter == nil {
		panic("ratelimit middleware: limiter is required")
	}
	if cfg.Strategy == "" {
		cfg.Strategy = ratelimiter.KeyRemoteAddress
	}

	exempt := make(map[string]struct{}, len(cfg.ExemptPaths))
	for _, p := range cfg.ExemptPaths {
		exempt[p] = struct{}{}
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}
			req := ctx.Request()
			if _, ok := exempt[req.URL.Path]; ok {
				return next(ctx)
			}

			addr, ok := GetClientIP(ctx)
			if !ok {
				addr = clientip.RemoteHost(req)
			}
			key := cfg.Strategy.Key(addr)
			LogAttrs(ctx, logger.ClientKey(key))

			result, err := cfg.Limiter.Allow(ctx, key)
			if err != nil {
				return func(w http.ResponseWriter, r *http.Request) error {
					return fmt.Errorf("rate limit check: %w", err)
				}
			}

			if !result.Allowed() {
				return func(w http.ResponseWriter, r *http.Request) error {
					if cfg.SetHeaders {
						setRateLimitHeaders(w.Header(), result)
					}
					w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfterSeconds))
					return result.Err()
				}
			}

			resp := next(ctx)
			if !cfg.SetHeaders {
				return resp
			}

			return func(w http.ResponseWriter, r *http.Request) error {
				setRateLimitHeaders(w.Header(), result)
				if resp == nil {
					return router.ErrNilResponse
				}
				return resp(w, r)
			}
		}
	}
}

func setRateLimitHeaders(h http.Header, result *ratelimiter.Result) {
	h.Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(max(0, result.Remaining)))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}
