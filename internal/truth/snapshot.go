package truth

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/dmitrymomot/truthapi/pkg/selection"
)

// Snapshot is an immutable, validated truth collection together with the
// weight table it was validated against. Readers never see a partially
// loaded collection.
type Snapshot struct {
	items    []Truth
	byID     map[string]Truth
	byCat    map[string][]Truth
	table    selection.WeightTable
	stats    Stats
	loadedAt time.Time
}

// Stats summarises a snapshot.
type Stats struct {
	Total      int            `json:"total"`
	Categories map[string]int `json:"categories"`
	Weights    map[string]int `json:"weights"`
}

// NewSnapshot validates items against rules and table and returns the
// snapshot. The item slice is copied.
func NewSnapshot(items []Truth, table selection.WeightTable, rules Rules) (*Snapshot, error) {
	if err := rules.Validate(items); err != nil {
		return nil, err
	}
	if err := table.Validate(selection.Levels(items)); err != nil {
		return nil, fmt.Errorf("%w: weight table does not cover the collection: %w", ErrInvalid, err)
	}

	s := &Snapshot{
		items: slices.Clone(items),
		byID:  make(map[string]Truth, len(items)),
		byCat: make(map[string][]Truth),
		table: table,
		stats: Stats{
			Total:      len(items),
			Categories: make(map[string]int),
			Weights:    make(map[string]int),
		},
		loadedAt: time.Now().UTC(),
	}
	for _, t := range s.items {
		s.byID[t.ID] = t
		s.byCat[t.Category] = append(s.byCat[t.Category], t)
		s.stats.Categories[t.Category]++
		s.stats.Weights[t.Weight]++
	}
	return s, nil
}

// Items returns the truths in load order. Callers must not modify the slice.
func (s *Snapshot) Items() []Truth { return s.items }

// Table returns the weight table validated with this snapshot.
func (s *Snapshot) Table() selection.WeightTable { return s.table }

// Len is the number of truths.
func (s *Snapshot) Len() int { return len(s.items) }

// LoadedAt is when the snapshot was built.
func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }

// Get returns the truth with id.
func (s *Snapshot) Get(id string) (Truth, bool) {
	t, ok := s.byID[id]
	return t, ok
}

// InCategory returns the truths of one category in load order, or nil when
// the category is unknown. Callers must not modify the slice.
func (s *Snapshot) InCategory(category string) []Truth {
	return s.byCat[category]
}

// Categories returns the sorted distinct categories.
func (s *Snapshot) Categories() []string {
	return slices.Sorted(maps.Keys(s.stats.Categories))
}

// Stats returns a copy of the snapshot's counters.
func (s *Snapshot) Stats() Stats {
	return Stats{
		Total:      s.stats.Total,
		Categories: maps.Clone(s.stats.Categories),
		Weights:    maps.Clone(s.stats.Weights),
	}
}
