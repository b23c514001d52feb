package truth

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Rules constrain a truth collection at load time.
type Rules struct {
	// MinCount is the minimum number of truths.
	MinCount int
	// AllowedWeights restricts weight-levels. Empty allows any.
	AllowedWeights []string
	// NormalizeText compares texts with Normalize when checking duplicates;
	// otherwise texts must differ byte for byte.
	NormalizeText bool
}

// Validate checks items against r and reports every violation at once.
func (r Rules) Validate(items []Truth) error {
	var errs []error

	if len(items) < r.MinCount {
		errs = append(errs, fmt.Errorf("truth count %d is below the minimum of %d", len(items), r.MinCount))
	}

	ids := make(map[string]struct{}, len(items))
	texts := make(map[string]string, len(items))
	for i, t := range items {
		if strings.TrimSpace(t.ID) == "" {
			errs = append(errs, fmt.Errorf("truth #%d: id is required", i))
		} else if _, dup := ids[t.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate id %q", t.ID))
		}
		ids[t.ID] = struct{}{}

		if strings.TrimSpace(t.Text) == "" {
			errs = append(errs, fmt.Errorf("truth %q: text is required", t.ID))
			continue
		}
		key := t.Text
		if r.NormalizeText {
			key = Normalize(t.Text)
		}
		if other, dup := texts[key]; dup {
			errs = append(errs, fmt.Errorf("truth %q duplicates the text of %q", t.ID, other))
		}
		texts[key] = t.ID

		if t.Weight == "" {
			errs = append(errs, fmt.Errorf("truth %q: weight is required", t.ID))
		} else if len(r.AllowedWeights) > 0 && !slices.Contains(r.AllowedWeights, t.Weight) {
			errs = append(errs, fmt.Errorf("truth %q: weight %q is not one of %v", t.ID, t.Weight, r.AllowedWeights))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}
