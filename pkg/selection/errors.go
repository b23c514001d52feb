package selection

import "errors"

var (
	// ErrNoCandidates is returned when selecting from an empty collection.
	ErrNoCandidates = errors.New("no candidates available")
	// ErrNotFound is returned by SelectByID when no item has the id.
	ErrNotFound = errors.New("item not found")
	// ErrConfiguration covers a weight table that cannot serve a selection:
	// a missing weekday, a missing weight-level or a non-positive total.
	ErrConfiguration = errors.New("invalid selection configuration")
)
