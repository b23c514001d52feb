package selection

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"
)

// Item is anything the engine can pick from.
type Item interface {
	ItemID() string
	WeightLevel() string
}

// WeightTable maps a weekday to the relative weight of each weight-level.
type WeightTable map[time.Weekday]map[string]float64

// Weight returns the weight of level on day.
func (t WeightTable) Weight(day time.Weekday, level string) (float64, error) {
	levels, ok := t[day]
	if !ok {
		return 0, fmt.Errorf("%w: no weights for %s", ErrConfiguration, day)
	}
	w, ok := levels[level]
	if !ok {
		return 0, fmt.Errorf("%w: no weight for level %q on %s", ErrConfiguration, level, day)
	}
	return w, nil
}

// Validate checks the table against the weight-levels used by the item set:
// every weekday must be present, every used level must have a finite,
// non-negative weight, and each day's total over used levels must be positive.
func (t WeightTable) Validate(levels []string) error {
	var errs []error
	for day := time.Sunday; day <= time.Saturday; day++ {
		weights, ok := t[day]
		if !ok {
			errs = append(errs, fmt.Errorf("missing weekday %s", day))
			continue
		}

		var total float64
		for _, level := range levels {
			w, ok := weights[level]
			switch {
			case !ok:
				errs = append(errs, fmt.Errorf("%s: missing weight for level %q", day, level))
			case math.IsNaN(w) || math.IsInf(w, 0) || w < 0:
				errs = append(errs, fmt.Errorf("%s: weight for level %q must be a finite non-negative number, got %v", day, level, w))
			default:
				total += w
			}
		}
		if len(levels) > 0 && total <= 0 {
			errs = append(errs, fmt.Errorf("%s: total weight of used levels must be positive", day))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrConfiguration, errors.Join(errs...))
	}
	return nil
}

// Levels returns the sorted distinct weight-levels of items.
func Levels[T Item](items []T) []string {
	seen := make(map[string]struct{}, 4)
	for _, it := range items {
		seen[it.WeightLevel()] = struct{}{}
	}
	levels := make([]string, 0, len(seen))
	for l := range seen {
		levels = append(levels, l)
	}
	slices.Sort(levels)
	return levels
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday parses an English weekday name, ignoring case and surrounding spaces.
func ParseWeekday(s string) (time.Weekday, error) {
	d, ok := weekdays[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("%w: unknown weekday %q", ErrConfiguration, s)
	}
	return d, nil
}
