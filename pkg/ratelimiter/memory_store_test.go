package ratelimiter_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/truthapi/pkg/ratelimiter"
)

func TestMemoryStore_Record(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := ratelimiter.Config{Limit: 3, Period: 10 * time.Second}

	t.Run("admits until limit", func(t *testing.T) {
		t.Parallel()

		store := ratelimiter.NewMemoryStore(ratelimiter.WithShards(4))
		for i := range 3 {
			w, err := store.Record(ctx, "k", at(float64(i)), cfg)
			require.NoError(t, err)
			assert.True(t, w.Admitted)
			assert.Equal(t, i+1, w.Count)
			assert.Equal(t, at(0), w.Oldest)
		}

		w, err := store.Record(ctx, "k", at(3), cfg)
		require.NoError(t, err)
		assert.False(t, w.Admitted)
		assert.Equal(t, 3, w.Count)
	})

	t.Run("ring buffer wraps after pruning", func(t *testing.T) {
		t.Parallel()

		store := ratelimiter.NewMemoryStore()
		for _, s := range []float64{0, 1, 2, 10, 11, 12, 20} {
			w, err := store.Record(ctx, "k", at(s), cfg)
			require.NoError(t, err)
			require.True(t, w.Admitted, "t=%v", s)
		}

		w, err := store.Record(ctx, "k", at(21), cfg)
		require.NoError(t, err)
		assert.True(t, w.Admitted)
		assert.Equal(t, 3, w.Count)
		assert.Equal(t, at(12), w.Oldest)
	})

	t.Run("limit change keeps newest entries", func(t *testing.T) {
		t.Parallel()

		store := ratelimiter.NewMemoryStore()
		for _, s := range []float64{0, 1, 2} {
			_, err := store.Record(ctx, "k", at(s), cfg)
			require.NoError(t, err)
		}

		smaller := ratelimiter.Config{Limit: 2, Period: cfg.Period}
		w, err := store.Record(ctx, "k", at(3), smaller)
		require.NoError(t, err)
		assert.False(t, w.Admitted)
		assert.Equal(t, at(1), w.Oldest)

		larger := ratelimiter.Config{Limit: 4, Period: cfg.Period}
		w, err = store.Record(ctx, "k", at(4), larger)
		require.NoError(t, err)
		assert.True(t, w.Admitted)
		assert.Equal(t, 3, w.Count)
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()

		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := ratelimiter.NewMemoryStore().Record(cctx, "k", at(0), cfg)
		assert.ErrorIs(t, err, ratelimiter.ErrStoreUnavailable)
	})
}

func TestMemoryStore_Lifecycle(t *testing.T) {
	t.Parallel()

	store := ratelimiter.NewMemoryStore(
		ratelimiter.WithCleanupInterval(10*time.Millisecond),
		ratelimiter.WithStaleAfter(20*time.Millisecond),
		ratelimiter.WithMemoryStoreShutdownTimeout(time.Second),
	)

	assert.ErrorIs(t, store.Healthcheck(context.Background()), ratelimiter.ErrStoreUnavailable)

	cfg := ratelimiter.Config{Limit: 1, Period: 10 * time.Millisecond}
	_, err := store.Record(context.Background(), "idle", time.Now(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, store.Stats().ActiveWindows)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- store.Run(ctx)() }()

	require.Eventually(t, func() bool {
		return store.Stats().IsRunning
	}, time.Second, 5*time.Millisecond)
	assert.NoError(t, store.Healthcheck(context.Background()))

	require.Eventually(t, func() bool {
		return store.Stats().ActiveWindows == 0
	}, time.Second, 5*time.Millisecond)

	stats := store.Stats()
	assert.Equal(t, int64(1), stats.WindowsCreated)
	assert.Equal(t, int64(1), stats.WindowsRemoved)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("cleanup did not stop")
	}
}

func TestMemoryStore_CleanupDisabled(t *testing.T) {
	t.Parallel()

	store := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0))
	assert.Error(t, store.Stop())
	assert.NoError(t, store.Healthcheck(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- store.Run(ctx)() }()

	select {
	case err := <-done:
		t.Fatalf("run returned before cancellation: %v", err)
	case <-time.After(50 * time.Millisecond):
	}
	assert.NoError(t, store.Healthcheck(context.Background()))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("run did not stop")
	}
}

func TestMemoryStore_CleanupKeepsWindowsWithinPeriod(t *testing.T) {
	t.Parallel()

	store := ratelimiter.NewMemoryStore(
		ratelimiter.WithCleanupInterval(5*time.Millisecond),
		ratelimiter.WithStaleAfter(20*time.Millisecond),
	)
	limiter, err := ratelimiter.NewSlidingWindow(store, ratelimiter.Config{Limit: 2, Period: time.Hour})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = store.Run(ctx)() }()

	admitted := 0
	allow := func() {
		res, err := limiter.Allow(context.Background(), "client")
		require.NoError(t, err)
		if res.Allowed() {
			admitted++
		}
	}

	for range 3 {
		allow()
	}
	time.Sleep(60 * time.Millisecond)
	for range 3 {
		allow()
	}

	assert.Equal(t, 2, admitted)
	assert.Equal(t, 1, store.Stats().ActiveWindows)
	assert.Zero(t, store.Stats().WindowsRemoved)
}
