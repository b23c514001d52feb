package ratelimiter

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrStoreUnavailable  = errors.New("store unavailable")
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
)

// ExceededError describes a rejected request. It unwraps to ErrRateLimitExceeded
// and reports 429 through StatusCode.
type ExceededError struct {
	Key               string
	Limit             int
	RetryAfterSeconds int
}

func (e *ExceededError) Error() string {
	return fmt.Sprintf("%s: retry after %ds", ErrRateLimitExceeded, e.RetryAfterSeconds)
}

func (e *ExceededError) Unwrap() error { return ErrRateLimitExceeded }

// StatusCode returns 429 Too Many Requests.
func (e *ExceededError) StatusCode() int { return http.StatusTooManyRequests }

// RetryAfter returns the retry hint as a duration.
func (e *ExceededError) RetryAfter() time.Duration {
	return time.Duration(e.RetryAfterSeconds) * time.Second
}
