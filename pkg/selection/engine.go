package selection

import (
	"math/rand/v2"
	"sort"
	"sync"
	"time"
)

type options struct {
	seed   *uint64
	source rand.Source
	clock  func() time.Time
}

// Option configures an Engine.
type Option func(*options)

// WithSeed makes the engine deterministic: engines built with the same seed
// produce the same sequence of picks for the same inputs.
func WithSeed(seed uint64) Option {
	return func(o *options) { o.seed = &seed }
}

// WithSource sets the random source directly. It takes precedence over WithSeed.
func WithSource(src rand.Source) Option {
	return func(o *options) { o.source = src }
}

// WithClock sets the clock used by SelectToday. The weekday is taken in UTC.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// Engine picks items at random with probability proportional to the weight
// of each item's level on a given weekday. Safe for concurrent use.
type Engine[T Item] struct {
	mu    sync.Mutex
	rng   *rand.Rand
	clock func() time.Time
}

// New creates an Engine. Without WithSeed or WithSource it is seeded randomly.
func New[T Item](opts ...Option) *Engine[T] {
	o := &options{clock: time.Now}
	for _, opt := range opts {
		opt(o)
	}

	src := o.source
	if src == nil {
		if o.seed != nil {
			src = rand.NewPCG(*o.seed, *o.seed^0x9e3779b97f4a7c15)
		} else {
			src = rand.NewPCG(rand.Uint64(), rand.Uint64())
		}
	}

	return &Engine[T]{rng: rand.New(src), clock: o.clock}
}

// Today returns the current weekday in UTC according to the engine's clock.
func (e *Engine[T]) Today() time.Weekday {
	return e.clock().UTC().Weekday()
}

// SelectToday selects using the weekday resolved from the clock at call time.
func (e *Engine[T]) SelectToday(items []T, table WeightTable) (T, time.Weekday, error) {
	day := e.Today()
	item, err := e.Select(items, day, table)
	return item, day, err
}

// Select picks one item. Item i is chosen with probability w_i / sum(w) where
// w_i is the weight of its level on day. Zero-weight items are never chosen.
func (e *Engine[T]) Select(items []T, day time.Weekday, table WeightTable) (T, error) {
	var zero T
	if len(items) == 0 {
		return zero, ErrNoCandidates
	}

	// cumulative[i] is the sum of weights of items[0..i]
	cumulative := make([]float64, len(items))
	var total float64
	for i, it := range items {
		w, err := table.Weight(day, it.WeightLevel())
		if err != nil {
			return zero, err
		}
		if w > 0 {
			total += w
		}
		cumulative[i] = total
	}
	if total <= 0 {
		return zero, ErrConfiguration
	}

	u := e.draw() * total

	// First index whose cumulative weight exceeds u; skips zero-weight items
	i := sort.Search(len(cumulative), func(i int) bool { return cumulative[i] > u })
	if i == len(cumulative) {
		// Float rounding can put u at total; fall back to the last weighted item
		i = len(items) - 1
		for i > 0 && cumulative[i] == cumulative[i-1] {
			i--
		}
	}
	return items[i], nil
}

// draw returns a uniform value in [0, 1).
func (e *Engine[T]) draw() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.Float64()
}

// SelectByID returns the item with the given id.
func SelectByID[T Item](items []T, id string) (T, error) {
	for _, it := range items {
		if it.ItemID() == id {
			return it, nil
		}
	}
	var zero T
	return zero, ErrNotFound
}
