package matcher

import (
	"testing"

	"statement-consolidation-service/internal/models"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"case folding", "Deferred Income Taxes", "deferred income taxes"},
		{"collapsed whitespace", "Cash  and   cash equivalents", "cash and cash equivalents"},
		{"trailing colon", "Current assets:", "current assets"},
		{"trailing period", "Total liabilities.", "total liabilities"},
		{"surrounding whitespace", "  Goodwill  ", "goodwill"},
		{"internal punctuation preserved", "Property, plant and equipment", "property, plant and equipment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeName(tt.input); got != tt.expected {
				t.Errorf("NormalizeName(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDepthBucket(t *testing.T) {
	tests := []struct {
		depth    int
		expected int
	}{
		{-1, 0},
		{0, 0},
		{1, 1},
		{2, 2},
		{5, 2},
	}
	for _, tt := range tests {
		if got := DepthBucket(tt.depth); got != tt.expected {
			t.Errorf("DepthBucket(%d) = %d, expected %d", tt.depth, got, tt.expected)
		}
	}
}

func TestBuildIdentityKey(t *testing.T) {
	key := BuildIdentityKey("Deferred Income Taxes", models.SectionAssets, 1)
	if key != "deferred income taxes|Assets|1" {
		t.Errorf("unexpected key %q", key)
	}

	// Same name and depth, different section: distinct identities.
	other := BuildIdentityKey("Deferred Income Taxes", models.SectionLiabilities, 1)
	if key == other {
		t.Error("asset and liability variants of the same name must not share an identity key")
	}

	// Formatting differences collapse to the same identity.
	same := BuildIdentityKey("deferred   income taxes:", models.SectionAssets, 1)
	if key != same {
		t.Errorf("formatting variant produced different key: %q vs %q", key, same)
	}

	// Deep nesting collapses into one bucket.
	a := BuildIdentityKey("Inventory", models.SectionAssets, 2)
	b := BuildIdentityKey("Inventory", models.SectionAssets, 4)
	if a != b {
		t.Errorf("depths 2 and 4 should share a bucket: %q vs %q", a, b)
	}
}

func TestNameSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		min  float64
		max  float64
	}{
		{"identical", "Total assets", "Total assets", 1.0, 1.0},
		{"formatting only", "Total Assets:", "total  assets", 1.0, 1.0},
		{"close variants", "Accounts receivable", "Accounts receivable, net", 0.75, 0.99},
		{"unrelated", "Goodwill", "Accounts payable", 0.0, 0.40},
		{"empty side", "", "Cash", 0.0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NameSimilarity(tt.a, tt.b)
			if got < tt.min || got > tt.max {
				t.Errorf("NameSimilarity(%q, %q) = %.3f, expected in [%.2f, %.2f]",
					tt.a, tt.b, got, tt.min, tt.max)
			}
		})
	}
}

func TestNameSimilaritySymmetry(t *testing.T) {
	a, b := "Deferred income taxes", "Deferred income taxes, net"
	if NameSimilarity(a, b) != NameSimilarity(b, a) {
		t.Error("similarity must be symmetric")
	}
}
