package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dmitrymomot/truthapi/core/handler"
	"github.com/dmitrymomot/truthapi/core/logger"
	"github.com/dmitrymomot/truthapi/core/response"
	"github.com/dmitrymomot/truthapi/core/router"
	"github.com/dmitrymomot/truthapi/internal/truth"
	"github.com/dmitrymomot/truthapi/middleware"
	"github.com/dmitrymomot/truthapi/pkg/ratelimiter"
	"github.com/dmitrymomot/truthapi/pkg/selection"
)

var (
	// ErrReloadDisabled is returned when the admin reload endpoint is off.
	ErrReloadDisabled = errors.New("reload is disabled")

	// ErrUnknownCategory is returned for a category filter no truth matches.
	ErrUnknownCategory = errors.New("unknown category")
)

// ReloadThrottledError rejects a reload requested sooner than the configured interval.
type ReloadThrottledError struct {
	RetryAfterSeconds int
}

func (e *ReloadThrottledError) Error() string {
	return fmt.Sprintf("reload throttled, retry in %ds", e.RetryAfterSeconds)
}

// Error kinds written to the payload's error field.
const (
	KindRateLimited      = "rate_limited"
	KindReloadThrottled  = "reload_throttled"
	KindNotFound         = "not_found"
	KindNoCandidates     = "no_candidates"
	KindMethodNotAllowed = "method_not_allowed"
	KindInternal         = "internal"
)

// problem is the classified form of an error.
type problem struct {
	kind       string
	message    string
	status     int
	retryAfter int
}

func (s *Service) classify(err error) problem {
	sm := s.cfg.Errors.StatusMappings

	var exceeded *ratelimiter.ExceededError
	var throttled *ReloadThrottledError
	var httpErr response.HTTPError

	switch {
	case errors.As(err, &exceeded):
		return problem{KindRateLimited, "Rate limit exceeded", sm.RateLimited, exceeded.RetryAfterSeconds}
	case errors.As(err, &throttled):
		return problem{KindReloadThrottled, "Reload throttled", sm.ReloadThrottled, throttled.RetryAfterSeconds}
	case errors.Is(err, truth.ErrReloadInUse):
		return problem{KindReloadThrottled, "Reload already in progress", sm.ReloadThrottled, 1}
	case errors.Is(err, selection.ErrNotFound):
		return problem{KindNotFound, "Truth not found", sm.NotFound, 0}
	case errors.Is(err, ErrUnknownCategory):
		return problem{KindNotFound, "Category not found", sm.NotFound, 0}
	case errors.Is(err, router.ErrNotFound), errors.Is(err, ErrReloadDisabled):
		return problem{KindNotFound, "Resource not found", sm.NotFound, 0}
	case errors.Is(err, selection.ErrNoCandidates), errors.Is(err, truth.ErrNotLoaded):
		return problem{KindNoCandidates, "No truths available", sm.NoCandidates, 0}
	case errors.Is(err, router.ErrMethodNotAllowed):
		return problem{KindMethodNotAllowed, "Method not allowed", sm.MethodNotAllowed, 0}
	case errors.As(err, &httpErr):
		status := httpErr.Status
		if status == http.StatusNotAcceptable {
			status = sm.NotAcceptable
		}
		return problem{httpErr.Code, httpErr.Message, status, 0}
	}
	return problem{KindInternal, "Internal server error", sm.Internal, 0}
}

// renderError converts err into the configured JSON error payload. Server
// errors are attached to the request log record; the stack of a recovered
// panic is included.
func (s *Service) renderError(ctx *Context, err error) handler.Response {
	p := s.classify(err)

	if p.status >= http.StatusInternalServerError {
		middleware.LogAttrs(ctx, logger.Error(err))
		var pe *router.PanicError
		if errors.As(err, &pe) {
			middleware.LogAttrs(ctx, logger.StackTrace(pe.Stack))
		}
	}

	fn := s.cfg.Errors.FieldNames
	body := map[string]any{
		fn.Error:     p.kind,
		fn.Message:   p.message,
		fn.RequestID: ctx.RequestID(),
	}
	if p.retryAfter > 0 {
		body[fn.RetryAfterSeconds] = p.retryAfter
	}

	resp := response.JSONWithStatus(body, p.status)
	return func(w http.ResponseWriter, r *http.Request) error {
		if p.retryAfter > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(p.retryAfter))
		}
		return resp(w, r)
	}
}

// handleError is the router's last-resort error handler. It runs only for
// errors that escaped the Boundary middleware.
func (s *Service) handleError(ctx *Context, err error) {
	w := ctx.ResponseWriter()
	if router.Written(w) {
		s.logger.ErrorContext(ctx, "error after response was written",
			logger.Component("api"), logger.RequestID(ctx.RequestID()), logger.Error(err))
		return
	}
	if rerr := s.renderError(ctx, err)(w, ctx.Request()); rerr != nil {
		s.logger.ErrorContext(ctx, "failed to render error",
			logger.Component("api"), logger.RequestID(ctx.RequestID()), logger.Error(rerr))
	}
}
