package ratelimiter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
)

const defaultShards = 64

// window is a ring buffer of admission times, oldest at head.
type window struct {
	times    []time.Time
	head     int
	count    int
	lastSeen time.Time
	period   time.Duration
}

// idle reports whether cleanup may drop w: unseen for staleAfter and for at
// least one period, so no admission inside the window can be lost.
func (w *window) idle(now time.Time, staleAfter time.Duration) bool {
	return now.Sub(w.lastSeen) > max(staleAfter, w.period)
}

func (w *window) oldest() time.Time {
	return w.times[w.head]
}

func (w *window) prune(now time.Time, period time.Duration) {
	for w.count > 0 && now.Sub(w.oldest()) >= period {
		w.times[w.head] = time.Time{}
		w.head = (w.head + 1) % len(w.times)
		w.count--
	}
}

func (w *window) push(t time.Time) {
	w.times[(w.head+w.count)%len(w.times)] = t
	w.count++
}

// resize keeps the newest entries when the limit changes.
func (w *window) resize(limit int) {
	if len(w.times) == limit {
		return
	}
	times := make([]time.Time, limit)
	skip := max(w.count-limit, 0)
	n := 0
	for i := skip; i < w.count; i++ {
		times[n] = w.times[(w.head+i)%len(w.times)]
		n++
	}
	w.times, w.head, w.count = times, 0, n
}

type shard struct {
	mu      sync.Mutex
	windows map[string]*window
}

// MemoryStore implements Store in process memory. Keys are spread over
// shards by hash; each shard has its own lock.
type MemoryStore struct {
	shards []*shard

	// Configuration
	cleanupInterval time.Duration
	staleAfter      time.Duration
	shutdownTimeout time.Duration
	logger          *slog.Logger

	// State management
	mu      sync.Mutex
	cancel  context.CancelFunc
	running atomic.Bool
	wg      sync.WaitGroup

	// Observability metrics
	windowsCreated atomic.Int64
	windowsRemoved atomic.Int64
}

// MemoryStoreStats provides observability metrics.
type MemoryStoreStats struct {
	WindowsCreated int64 // Total number of key windows created
	WindowsRemoved int64 // Total number of idle windows removed by cleanup
	ActiveWindows  int   // Current number of tracked keys
	IsRunning      bool  // Whether the cleanup goroutine is running
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithCleanupInterval sets how often idle windows are removed.
// Set to 0 to disable automatic cleanup.
func WithCleanupInterval(interval time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) {
		ms.cleanupInterval = interval
	}
}

// WithStaleAfter sets how long a key may go unseen before cleanup drops it.
// Windows are always kept for at least their limiter period.
func WithStaleAfter(d time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if d > 0 {
			ms.staleAfter = d
		}
	}
}

// WithShards sets the number of lock shards.
func WithShards(n int) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if n > 0 {
			ms.shards = newShards(n)
		}
	}
}

// WithMemoryStoreShutdownTimeout sets the graceful shutdown timeout.
func WithMemoryStoreShutdownTimeout(timeout time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if timeout > 0 {
			ms.shutdownTimeout = timeout
		}
	}
}

// WithMemoryStoreLogger sets the logger for internal operations.
func WithMemoryStoreLogger(logger *slog.Logger) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if logger != nil {
			ms.logger = logger
		}
	}
}

func newShards(n int) []*shard {
	shards := make([]*shard, n)
	for i := range shards {
		shards[i] = &shard{windows: make(map[string]*window)}
	}
	return shards
}

// NewMemoryStore creates a new in-memory store.
// Call Start or Run to begin background cleanup.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	ms := &MemoryStore{
		shards:          newShards(defaultShards),
		cleanupInterval: 5 * time.Minute,
		staleAfter:      time.Hour,
		shutdownTimeout: 30 * time.Second,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(ms)
	}

	return ms
}

func (ms *MemoryStore) shardFor(key string) *shard {
	return ms.shards[xxhash.Sum64String(key)%uint64(len(ms.shards))]
}

// Record prunes entries at least one period old, then admits now if fewer
// than cfg.Limit entries remain.
func (ms *MemoryStore) Record(ctx context.Context, key string, now time.Time, cfg Config) (Window, error) {
	if err := ctx.Err(); err != nil {
		return Window{}, errors.Join(ErrStoreUnavailable, err)
	}

	s := ms.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[key]
	if !ok {
		w = &window{times: make([]time.Time, cfg.Limit)}
		s.windows[key] = w
		ms.windowsCreated.Add(1)
	}
	w.resize(cfg.Limit)
	w.lastSeen = now
	w.period = cfg.Period

	w.prune(now, cfg.Period)

	if w.count >= cfg.Limit {
		return Window{Admitted: false, Count: w.count, Oldest: w.oldest()}, nil
	}

	w.push(now)
	return Window{Admitted: true, Count: w.count, Oldest: w.oldest()}, nil
}

// Reset forgets all admissions for key.
func (ms *MemoryStore) Reset(ctx context.Context, key string) error {
	s := ms.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.windows, key)
	return nil
}

// Start runs background cleanup until the context is canceled. It blocks;
// use Run for errgroup or call it in a goroutine. With cleanup disabled it
// only waits for cancellation.
func (ms *MemoryStore) Start(ctx context.Context) error {
	ms.mu.Lock()
	if ms.cancel != nil {
		ms.mu.Unlock()
		return fmt.Errorf("memory store already started")
	}

	ctx, ms.cancel = context.WithCancel(ctx)
	ms.mu.Unlock()

	if ms.cleanupInterval <= 0 {
		ms.logger.InfoContext(ctx, "rate limiter cleanup disabled")
		<-ctx.Done()
		return ctx.Err()
	}

	ms.running.Store(true)
	defer ms.running.Store(false)

	ms.logger.InfoContext(ctx, "rate limiter cleanup started",
		slog.Duration("cleanup_interval", ms.cleanupInterval),
		slog.Duration("stale_after", ms.staleAfter))

	ticker := time.NewTicker(ms.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			ms.logger.InfoContext(context.Background(), "rate limiter cleanup stopping")
			return ctx.Err()
		case <-ticker.C:
			ms.cleanupWithWait()
		}
	}
}

// Stop cancels background cleanup and waits for an in-progress pass,
// up to the shutdown timeout.
func (ms *MemoryStore) Stop() error {
	ms.mu.Lock()
	if ms.cancel == nil {
		ms.mu.Unlock()
		return fmt.Errorf("memory store not started")
	}

	cancel := ms.cancel
	ms.cancel = nil
	ms.mu.Unlock()

	cancel()

	ctx, ctxCancel := context.WithTimeout(context.Background(), ms.shutdownTimeout)
	defer ctxCancel()

	done := make(chan struct{})
	go func() {
		ms.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		ms.logger.InfoContext(context.Background(), "rate limiter cleanup stopped")
		return nil
	case <-ctx.Done():
		ms.logger.WarnContext(context.Background(), "rate limiter shutdown timeout exceeded",
			slog.Duration("timeout", ms.shutdownTimeout))
		return fmt.Errorf("shutdown timeout exceeded after %s", ms.shutdownTimeout)
	}
}

// Run adapts cleanup to errgroup: it runs until ctx is canceled and then stops.
func (ms *MemoryStore) Run(ctx context.Context) func() error {
	return func() error {
		errCh := make(chan error, 1)
		go func() {
			errCh <- ms.Start(ctx)
		}()

		select {
		case <-ctx.Done():
			_ = ms.Stop()
			<-errCh
			return nil
		case err := <-errCh:
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
	}
}

func (ms *MemoryStore) cleanupWithWait() {
	ms.mu.Lock()
	if ms.cancel == nil {
		ms.mu.Unlock()
		return
	}
	ms.wg.Add(1)
	ms.mu.Unlock()
	defer ms.wg.Done()

	if removed := ms.removeStale(time.Now()); removed > 0 {
		ms.logger.Debug("rate limiter windows removed", slog.Int("removed", removed))
	}
}

// removeStale drops idle windows. Shards are locked one
// at a time so admissions on other shards proceed.
func (ms *MemoryStore) removeStale(now time.Time) int {
	removed := 0
	for _, s := range ms.shards {
		s.mu.Lock()
		for key, w := range s.windows {
			if w.idle(now, ms.staleAfter) {
				delete(s.windows, key)
				removed++
			}
		}
		s.mu.Unlock()
	}

	if removed > 0 {
		ms.windowsRemoved.Add(int64(removed))
	}
	return removed
}

// Stats returns current store statistics.
func (ms *MemoryStore) Stats() MemoryStoreStats {
	active := 0
	for _, s := range ms.shards {
		s.mu.Lock()
		active += len(s.windows)
		s.mu.Unlock()
	}

	return MemoryStoreStats{
		WindowsCreated: ms.windowsCreated.Load(),
		WindowsRemoved: ms.windowsRemoved.Load(),
		ActiveWindows:  active,
		IsRunning:      ms.running.Load(),
	}
}

// Healthcheck reports an error when cleanup is configured but not running.
func (ms *MemoryStore) Healthcheck(ctx context.Context) error {
	if ms.cleanupInterval > 0 && !ms.running.Load() {
		return fmt.Errorf("%w: cleanup is configured but not running", ErrStoreUnavailable)
	}
	return nil
}
