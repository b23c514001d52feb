package truth

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/truthapi/core/logger"
	"github.com/dmitrymomot/truthapi/pkg/selection"
)

// Store publishes the current Snapshot. Reads are lock-free; reloads are
// serialized and swap the snapshot only after the new collection validates.
type Store struct {
	source  Source
	table   selection.WeightTable
	rules   Rules
	current atomic.Pointer[Snapshot]
	reload  sync.Mutex
	reloads atomic.Int64
	logger  *slog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the logger used for reload events.
func WithLogger(l *slog.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore creates an empty store. Call Load before serving.
func NewStore(source Source, table selection.WeightTable, rules Rules, opts ...StoreOption) *Store {
	s := &Store{
		source: source,
		table:  table,
		rules:  rules,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load performs the initial load. It is Reload under another name so that
// startup and hot reload share validation.
func (s *Store) Load(ctx context.Context) error {
	_, err := s.Reload(ctx)
	return err
}

// Reload reads the source, validates it and publishes a new snapshot. On any
// failure the previous snapshot stays in place. Concurrent calls fail fast
// with ErrReloadInUse.
func (s *Store) Reload(ctx context.Context) (*Snapshot, error) {
	if !s.reload.TryLock() {
		return nil, ErrReloadInUse
	}
	defer s.reload.Unlock()

	start := time.Now()
	items, err := s.source.Load(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "truth reload failed",
			logger.Component("truth"), slog.String("source", s.source.String()), logger.Error(err))
		return nil, fmt.Errorf("load %s: %w", s.source, err)
	}

	snap, err := NewSnapshot(items, s.table, s.rules)
	if err != nil {
		s.logger.ErrorContext(ctx, "truth collection rejected",
			logger.Component("truth"), slog.String("source", s.source.String()), logger.Error(err))
		return nil, err
	}

	prev := s.current.Swap(snap)
	s.reloads.Add(1)

	attrs := []any{
		logger.Component("truth"),
		slog.String("source", s.source.String()),
		logger.Count("truth_count", snap.Len()),
		logger.Elapsed(start),
	}
	if prev != nil {
		attrs = append(attrs, logger.Count("previous_count", prev.Len()))
	}
	s.logger.InfoContext(ctx, "truth collection loaded", attrs...)
	return snap, nil
}

// Snapshot returns the current snapshot.
func (s *Store) Snapshot() (*Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	return snap, nil
}

// Loaded reports whether a snapshot has been published.
func (s *Store) Loaded() bool {
	return s.current.Load() != nil
}

// Reloads counts successful loads, including the initial one.
func (s *Store) Reloads() int64 {
	return s.reloads.Load()
}

// Healthcheck fails until the first successful load.
func (s *Store) Healthcheck(ctx context.Context) error {
	if !s.Loaded() {
		return ErrNotLoaded
	}
	return nil
}
