package engine

import (
	"reflect"
	"testing"

	"github.com/veracitylabs/veracity/internal/patterns"
)

func TestExtractMarkersDeduplicatesAcrossCaseAndWhitespace(t *testing.T) {
	lib := patterns.Default()
	text := "Definitely true. It is definitely so. DEFINITELY."

	markers := extractMarkers(text, lib.ForCategory(patterns.CategoryCertainty))

	count := 0
	for _, m := range markers {
		if m == "definitely" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected exactly one normalized 'definitely' marker, got %d in %v", count, markers)
	}
}

func TestExtractMarkersSorted(t *testing.T) {
	lib := patterns.Default()
	text := "It will never work, obviously, and is proven to always fail."

	markers := extractMarkers(text, lib.ForCategory(patterns.CategoryCertainty))
	if len(markers) < 4 {
		t.Fatalf("expected at least 4 certainty markers, got %v", markers)
	}
	for i := 1; i < len(markers); i++ {
		if markers[i-1] >= markers[i] {
			t.Errorf("markers not sorted: %v", markers)
		}
	}
}

func TestExtractMarkersGroupSelection(t *testing.T) {
	lib := patterns.Default()

	// "5 percent" matches the quantity pattern whose first group (the decimal
	// part) is empty, so the second group supplies the marker.
	markers := extractMarkers("Revenue rose 5 percent overall.", lib.ForCategory(patterns.CategoryClaim))
	found := false
	for _, m := range markers {
		if m == "percent" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected 'percent' marker from group selection, got %v", markers)
	}
}

func TestExtractMarkersFullMatchWhenNoGroups(t *testing.T) {
	lib := patterns.Default()

	markers := extractMarkers("See (Smith et al., 2020) for details.", lib.ForCategory(patterns.CategoryEvidence))
	found := false
	for _, m := range markers {
		if m == "(smith et al., 2020)" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected parenthetical citation as full match, got %v", markers)
	}
}

func TestExtractMarkersDeterministic(t *testing.T) {
	lib := patterns.Default()
	text := "Studies show this may possibly help, according to [1] and https://example.org/a."

	first := extractMarkers(text, lib.ForCategory(patterns.CategoryEvidence))
	second := extractMarkers(text, lib.ForCategory(patterns.CategoryEvidence))
	if !reflect.DeepEqual(first, second) {
		t.Errorf("extraction not deterministic: %v vs %v", first, second)
	}
}
