package ratelimiter

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Result is the outcome of one admission check.
type Result struct {
	Key       string
	Limit     int
	Remaining int
	// ResetAt is when the oldest admission leaves the window and a slot frees up.
	ResetAt time.Time
	// RetryAfterSeconds is set for rejected requests only.
	RetryAfterSeconds int
}

// Allowed reports whether the request was admitted.
func (r *Result) Allowed() bool {
	return r.RetryAfterSeconds == 0
}

// RetryAfter returns the retry hint as a duration; zero when admitted.
func (r *Result) RetryAfter() time.Duration {
	return time.Duration(r.RetryAfterSeconds) * time.Second
}

// Err returns an *ExceededError for a rejected request and nil otherwise.
func (r *Result) Err() error {
	if r.Allowed() {
		return nil
	}
	return &ExceededError{Key: r.Key, Limit: r.Limit, RetryAfterSeconds: r.RetryAfterSeconds}
}

// SlidingWindow admits at most Config.Limit requests per key in any window of
// Config.Period. Admission state lives in the Store.
type SlidingWindow struct {
	store Store
	cfg   Config
	now   func() time.Time
}

// NewSlidingWindow validates cfg and returns a limiter backed by store.
func NewSlidingWindow(store Store, cfg Config) (*SlidingWindow, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: store is required", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &SlidingWindow{store: store, cfg: cfg, now: time.Now}, nil
}

// Config returns the limiter's window configuration.
func (sw *SlidingWindow) Config() Config {
	return sw.cfg
}

// Allow checks key against the window at the current time.
func (sw *SlidingWindow) Allow(ctx context.Context, key string) (*Result, error) {
	return sw.AllowAt(ctx, key, sw.now())
}

// AllowAt checks key against the window at now. A rejected request records
// nothing; its retry hint is ceil(period - (now - oldest)) seconds clamped to
// [1, period].
func (sw *SlidingWindow) AllowAt(ctx context.Context, key string, now time.Time) (*Result, error) {
	w, err := sw.store.Record(ctx, key, now, sw.cfg)
	if err != nil {
		return nil, fmt.Errorf("record admission for %q: %w", key, err)
	}

	res := &Result{
		Key:       key,
		Limit:     sw.cfg.Limit,
		Remaining: max(sw.cfg.Limit-w.Count, 0),
		ResetAt:   w.Oldest.Add(sw.cfg.Period),
	}
	if !w.Admitted {
		res.RetryAfterSeconds = retryAfterSeconds(sw.cfg.Period, now.Sub(w.Oldest))
	}
	return res, nil
}

// Reset forgets all admissions for key.
func (sw *SlidingWindow) Reset(ctx context.Context, key string) error {
	return sw.store.Reset(ctx, key)
}

func retryAfterSeconds(period, age time.Duration) int {
	maxSeconds := int(math.Ceil(period.Seconds()))
	secs := int(math.Ceil((period - age).Seconds()))
	return min(max(secs, 1), maxSeconds)
}
