package matching

import (
	"strings"

	"golang.org/x/text/cases"

	"car-listings-viewer/internal/model"
)

// FilterListings returns the listings whose brand, model or dealer name
// contains term, ignoring case. A blank term returns items unchanged.
// The result preserves the input order.
func FilterListings(items []model.Listing, term string) []model.Listing {
	if strings.TrimSpace(term) == "" {
		return items
	}

	fold := cases.Fold()
	needle := normalizeWith(fold, term)

	matched := make([]model.Listing, 0, len(items))
	for _, l := range items {
		if Matches(fold, l, needle) {
			matched = append(matched, l)
		}
	}
	return matched
}

// Matches reports whether a normalized needle occurs in one of the
// searchable fields of l.
func Matches(fold cases.Caser, l model.Listing, needle string) bool {
	for _, field := range [...]string{l.Brand, l.Model, l.Dealer} {
		if field == "" {
			continue
		}
		if strings.Contains(normalizeWith(fold, field), needle) {
			return true
		}
	}
	return false
}
