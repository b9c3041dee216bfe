package matcher

import (
	"github.com/agnivade/levenshtein"
)

// NameSimilarity computes a fuzzy similarity in [0.0, 1.0] between two
// account names. Both names are normalized first, so case, spacing, and
// trailing punctuation differences do not count against the score. The
// score is one minus the edit distance relative to the longer name.
func NameSimilarity(a, b string) float64 {
	na := NormalizeName(a)
	nb := NormalizeName(b)

	if na == nb {
		return 1.0
	}
	if na == "" || nb == "" {
		return 0.0
	}

	longest := len([]rune(na))
	if l := len([]rune(nb)); l > longest {
		longest = l
	}

	distance := levenshtein.ComputeDistance(na, nb)
	if distance >= longest {
		return 0.0
	}
	return 1.0 - float64(distance)/float64(longest)
}
