// Package ratelimiter implements a sliding-window-log rate limiter.
//
// Each key keeps the times of its admitted requests. A request is admitted when
// fewer than Limit admissions happened in the last Period; admissions exactly
// one Period old no longer count. Rejected requests are not recorded, so a
// client hammering the limit does not extend its own lockout.
//
// # Usage
//
//	store := ratelimiter.NewMemoryStore()
//	limiter, err := ratelimiter.NewSlidingWindow(store, ratelimiter.Config{
//		Limit:  5,
//		Period: time.Minute,
//	})
//	if err != nil {
//		return err
//	}
//
//	res, err := limiter.Allow(ctx, clientIP)
//	if err != nil {
//		return err
//	}
//	if !res.Allowed() {
//		w.Header().Set("Retry-After", strconv.Itoa(res.RetryAfterSeconds))
//		...
//	}
//
// The retry hint is the number of whole seconds until the oldest admission
// leaves the window, never less than 1 and never more than the period.
//
// # Keys
//
// KeyStrategy maps a client address to a key: "remote_address" keys by client
// address ("unknown" when empty), "default" shares one window among all clients.
//
// # Storage
//
// MemoryStore shards keys by xxhash over independently locked maps, so
// prune, check and append happen atomically per key while unrelated keys do not
// contend. Run it under errgroup to drop windows of keys that went idle:
//
//	g.Go(store.Run(ctx))
package ratelimiter
