package truth

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Normalize folds text for duplicate detection: NFKC compatibility
// composition, Unicode case folding and collapsed whitespace. "Ｈello  World"
// and "hello world" normalize to the same key.
func Normalize(s string) string {
	s = norm.NFKC.String(s)
	s = cases.Fold().String(s)
	return strings.Join(strings.Fields(s), " ")
}
