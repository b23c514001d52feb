package ratelimiter

import (
	"context"
	"time"
)

// Window is the state of one key's window after a Record call.
type Window struct {
	Admitted bool
	// Count is the number of admissions inside the window, including this one if admitted.
	Count int
	// Oldest is the earliest admission still inside the window. Zero when Count is 0.
	Oldest time.Time
}

// Store holds per-key admission logs. Record must prune, check and append as
// one atomic step per key.
type Store interface {
	Record(ctx context.Context, key string, now time.Time, cfg Config) (Window, error)
	Reset(ctx context.Context, key string) error
}
