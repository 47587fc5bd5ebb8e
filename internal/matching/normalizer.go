package matching

import (
	"strings"

	"golang.org/x/text/cases"
)

// Normalize folds case and collapses whitespace for comparison. Accents are
// kept, so "Málaga" and "malaga" do not compare equal.
func Normalize(s string) string {
	return normalizeWith(cases.Fold(), s)
}

// normalizeWith normalizes using c. A Caser is stateful, so each caller
// supplies its own.
func normalizeWith(c cases.Caser, s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return c.String(s)
}
