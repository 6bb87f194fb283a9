// Package suggest aggregates per-platform suggestions across platforms and
// re-ranks them using model feature importance.
package suggest

import (
	"fmt"
	"sort"

	"github.com/citescope/citescope/pkg/features"
	"github.com/citescope/citescope/pkg/platform"
	"github.com/citescope/citescope/pkg/scoring"
)

// ImportanceThreshold is the feature importance, in percent, above which a
// matching suggestion is promoted.
const ImportanceThreshold = 15.0

// CommonOptimization is a suggestion type raised for two or more platforms.
type CommonOptimization struct {
	Type          string              `json:"type"`
	Platforms     []platform.Platform `json:"platforms"`
	Priority      scoring.Priority    `json:"priority"`
	Description   string              `json:"description"`
	AverageImpact float64             `json:"average_impact"`
}

// Common groups suggestions by type. Types that appear for at least two
// platforms are returned; three or more platforms make it high priority.
// Results are ordered by platform count, then type.
func Common(byPlatform map[platform.Platform][]scoring.Suggestion) []CommonOptimization {
	type group struct {
		platforms   []platform.Platform
		description string
		impact      float64
		n           int
	}
	groups := map[string]*group{}

	for _, p := range platform.All() {
		seen := map[string]bool{}
		for _, s := range byPlatform[p] {
			g, ok := groups[s.Type]
			if !ok {
				g = &group{description: s.Description}
				groups[s.Type] = g
			}
			if !seen[s.Type] {
				seen[s.Type] = true
				g.platforms = append(g.platforms, p)
			}
			g.impact += s.ExpectedImpact
			g.n++
		}
	}

	out := []CommonOptimization{}
	for typ, g := range groups {
		if len(g.platforms) < 2 {
			continue
		}
		prio := scoring.PriorityMedium
		if len(g.platforms) >= 3 {
			prio = scoring.PriorityHigh
		}
		out = append(out, CommonOptimization{
			Type:          typ,
			Platforms:     g.platforms,
			Priority:      prio,
			Description:   g.description,
			AverageImpact: scoring.Round1(g.impact / float64(g.n)),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i].Platforms) != len(out[j].Platforms) {
			return len(out[i].Platforms) > len(out[j].Platforms)
		}
		return out[i].Type < out[j].Type
	})
	return out
}

// typeFeatures maps suggestion types to the model feature they move.
var typeFeatures = map[string]string{
	"step_indicators":       features.StepCount,
	"sequential_step_depth": features.StepCount,
	"sequence_words":        features.StepCount,
	"numbered_lists":        features.ListItemCount,
	"list_structure":        features.ListItemCount,
	"list_blocks":           features.ListCount,
	"missing_structure":     features.HeadingCount,
	"headings":              features.HeadingCount,
	"questions":             features.QuestionCount,
	"engagement":            features.QuestionCount,
	"search_intent":         features.QuestionCount,
	"examples":              features.ExampleCount,
	"definitions":           features.DefinitionCount,
	"citations":             features.CitationCount,
	"citation_density":      features.CitationCount,
	"missing_sources":       features.CitationCount,
	"external_links":        features.ExternalLinkCount,
	"source_authority":      features.ExternalLinkCount,
	"reasoning":             features.ReasoningCount,
	"balanced_reasoning":    features.ReasoningCount,
	"nuance":                features.NuanceCount,
	"images":                features.ImageCount,
	"missing_media":         features.ImageCount,
	"multimodal_richness":   features.ImageCount,
	"tables":                features.TableCount,
	"structured_data":       features.TableCount,
	"schema_markup":         features.SchemaCount,
	"statistics":            features.StatisticCount,
	"factual_density":       features.StatisticCount,
	"dates":                 features.DateCount,
	"freshness":             features.DateCount,
	"faq":                   features.FAQCount,
	"faq_coverage":          features.FAQCount,
	"thin_content":          features.WordCount,
	"contextual_depth":      features.WordCount,
	"complex_sentences":     features.AvgSentenceLength,
}

// FeatureForType returns the model feature a suggestion type targets.
func FeatureForType(typ string) (string, bool) {
	f, ok := typeFeatures[typ]
	return f, ok
}

// Promote raises suggestions whose feature carries more than threshold
// percent of the model's importance to very_high priority and re-sorts.
// The input is not modified.
func Promote(suggestions []scoring.Suggestion, importance map[string]float64, threshold float64) []scoring.Suggestion {
	out := make([]scoring.Suggestion, len(suggestions))
	copy(out, suggestions)
	if len(importance) == 0 {
		return out
	}

	for i := range out {
		feat, ok := FeatureForType(out[i].Type)
		if !ok {
			continue
		}
		imp, ok := importance[feat]
		if !ok || imp <= threshold {
			continue
		}
		out[i].Priority = scoring.PriorityVeryHigh
		out[i].MLInsight = fmt.Sprintf("model attributes %.1f%% of the score to %s", imp, feat)
	}
	scoring.SortSuggestions(out)
	return out
}
