package scoring

import (
	"fmt"
	"sort"
)

// Suggest turns weak detailed scores into prioritized suggestions, capped at
// the analyzer's suggestion limit.
func (a *Analyzer) Suggest(result *AnalyzerResult) []Suggestion {
	if result == nil || len(result.DetailedScores) == 0 {
		return []Suggestion{}
	}

	var suggestions []Suggestion
	for _, key := range a.keys() {
		ss, ok := result.DetailedScores[key]
		if !ok {
			continue
		}
		health := ss.Health()
		if health >= RemediationThreshold {
			continue
		}
		rem := a.remediationFor(key)
		gap := 100 - health
		suggestions = append(suggestions, Suggestion{
			Type:               key,
			Platform:           result.Platform,
			Priority:           PriorityForGap(gap),
			Description:        rem.Description,
			ImplementationHint: fmt.Sprintf("%s (currently %.0f/100)", rem.Hint, health),
			ExpectedImpact:     Round1(gap * rem.Multiplier),
			CurrentScore:       Round1(health),
		})
	}

	SortSuggestions(suggestions)
	return Truncate(suggestions, a.suggestLimit)
}

// keys lists every detail key in table order.
func (a *Analyzer) keys() []string {
	keys := make([]string, 0, len(a.table.Signals)+len(a.table.Composites)+len(a.table.Penalties))
	for _, s := range a.table.Signals {
		keys = append(keys, s.Key)
	}
	for _, c := range a.table.Composites {
		keys = append(keys, c.Key())
	}
	for _, p := range a.table.Penalties {
		keys = append(keys, p.Key)
	}
	return keys
}

// SortSuggestions orders by priority, then expected impact (descending),
// then type for a stable result.
func SortSuggestions(s []Suggestion) {
	sort.SliceStable(s, func(i, j int) bool {
		if ri, rj := s[i].Priority.Rank(), s[j].Priority.Rank(); ri != rj {
			return ri < rj
		}
		if s[i].ExpectedImpact != s[j].ExpectedImpact {
			return s[i].ExpectedImpact > s[j].ExpectedImpact
		}
		return s[i].Type < s[j].Type
	})
}

// Truncate returns at most n suggestions. A non-positive n keeps all.
func Truncate(s []Suggestion, n int) []Suggestion {
	if s == nil {
		return []Suggestion{}
	}
	if n > 0 && len(s) > n {
		return s[:n]
	}
	return s
}
