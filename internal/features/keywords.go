package features

// Keyword tiers used by the relevance score. Matching is a case-insensitive
// substring scan over title+body; each tier contributes a fixed boost on
// top of the neutral baseline of 50.

const (
	relevanceBaseline = 50.0
	highTierBoost     = 15.0
	mediumTierBoost   = 10.0
	lowTierBoost      = 5.0
)

// buildHighValueKeywords returns keywords signalling major reader interest
func buildHighValueKeywords() []string {
	return []string{
		"breaking",
		"exclusive",
		"election",
		"championship",
		"world cup",
		"record",
		"crisis",
		"scandal",
		"historic",
		"emergency",
	}
}

// buildMediumValueKeywords returns keywords for notable coverage
func buildMediumValueKeywords() []string {
	return []string{
		"announcement",
		"launch",
		"interview",
		"investigation",
		"final",
		"derby",
		"transfer",
		"verdict",
		"winner",
	}
}

// buildLowValueKeywords returns keywords for routine coverage
func buildLowValueKeywords() []string {
	return []string{
		"update",
		"review",
		"preview",
		"recap",
		"weekly",
		"opinion",
		"analysis",
		"highlights",
	}
}
