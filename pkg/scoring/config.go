package scoring

// DefaultSuggestionLimit caps per-platform suggestions.
const DefaultSuggestionLimit = 5

// RemediationThreshold is the health below which a signal earns a suggestion.
const RemediationThreshold = 50.0

// Gap cutoffs (100 - health) for suggestion priority.
const (
	highPriorityGap   = 75.0
	mediumPriorityGap = 50.0
)

// PriorityForGap maps the distance from a perfect signal to a priority.
func PriorityForGap(gap float64) Priority {
	switch {
	case gap >= highPriorityGap:
		return PriorityHigh
	case gap >= mediumPriorityGap:
		return PriorityMedium
	default:
		return PriorityLow
	}
}
