package matcher

import (
	"fmt"
	"strings"

	"statement-consolidation-service/internal/models"
)

// Identity keys deduplicate accounts across sources. The key folds together
// the normalized account name, the section, and a coarse depth bucket, so
// that two items producing the same key are the same account by
// construction and can be merged without scoring.

// trailingPunctuation is stripped from normalized names. Colons and periods
// commonly trail section-like rows ("Current assets:").
const trailingPunctuation = ".:;,"

// NormalizeName canonicalizes an account name for identity and similarity
// comparison: case-folded, whitespace collapsed, trailing punctuation
// removed. The display name on the entry keeps the original text.
func NormalizeName(name string) string {
	fields := strings.Fields(strings.ToLower(name))
	normalized := strings.Join(fields, " ")
	return strings.TrimRight(normalized, trailingPunctuation)
}

// DepthBucket coarsens the indentation depth so that minor nesting
// differences between source documents do not split identities. Depths of
// two or more land in one bucket.
func DepthBucket(depth int) int {
	if depth >= 2 {
		return 2
	}
	if depth < 0 {
		return 0
	}
	return depth
}

// BuildIdentityKey derives the composite identity key for an account.
func BuildIdentityKey(name string, section models.Section, depth int) string {
	return fmt.Sprintf("%s|%s|%d", NormalizeName(name), section, DepthBucket(depth))
}

// ItemIdentityKey derives the identity key for a line item.
func ItemIdentityKey(item *models.LineItem) string {
	return BuildIdentityKey(item.AccountName, item.Section, item.Depth)
}
