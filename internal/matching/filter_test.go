package matching

import (
	"reflect"
	"testing"

	"car-listings-viewer/internal/model"
)

func sampleListings() []model.Listing {
	return []model.Listing{
		{ID: "1", Brand: "SEAT", Model: "Ibiza", Dealer: "Autos Málaga"},
		{ID: "2", Brand: "Volkswagen", Model: "Golf GTI", Dealer: "Motor Sur"},
		{ID: "3", Brand: "Citroën", Model: "C4", Dealer: "Concesionario Norte"},
		{ID: "4", Brand: "Kia", Model: "Ceed", Dealer: ""},
	}
}

func ids(items []model.Listing) []string {
	out := make([]string, 0, len(items))
	for _, l := range items {
		out = append(out, l.ID)
	}
	return out
}

func TestFilterListings_EmptyTermReturnsInput(t *testing.T) {
	items := sampleListings()
	for _, term := range []string{"", "   ", "\t\n"} {
		got := FilterListings(items, term)
		if !reflect.DeepEqual(got, items) {
			t.Errorf("term %q changed the sequence: %v", term, ids(got))
		}
	}
}

func TestFilterListings(t *testing.T) {
	tests := []struct {
		name string
		term string
		want []string
	}{
		{"brand case-insensitive", "seat", []string{"1"}},
		{"model substring", "gti", []string{"2"}},
		{"dealer name", "motor sur", []string{"2"}},
		{"several matches keep order", "c", []string{"3", "4"}},
		{"diacritics compared literally", "malaga", []string{}},
		{"diacritics match when typed", "MÁLAGA", []string{"1"}},
		{"surrounding space ignored", "  kia ", []string{"4"}},
		{"no match", "ferrari", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(FilterListings(sampleListings(), tt.term))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FilterListings(%q) = %v, want %v", tt.term, got, tt.want)
			}
		})
	}
}

func TestFilterListings_DealerMatchIncludesItem(t *testing.T) {
	items := sampleListings()
	got := FilterListings(items, "concesionario norte")
	if len(got) != 1 || got[0].ID != "3" {
		t.Fatalf("expected listing 3, got %v", ids(got))
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize("  Golf   GTI "); got != "golf gti" {
		t.Errorf("Normalize = %q", got)
	}
	if got := Normalize("Citroën"); got != "citroën" {
		t.Errorf("accent should be kept, got %q", got)
	}
}
