package scoring

import (
	"math"

	"github.com/citescope/citescope/pkg/content"
	"github.com/citescope/citescope/pkg/platform"
)

// claudeTable favors context-rich, well-sourced writing that reasons openly
// and acknowledges limitations.
func claudeTable() SignalWeightTable {
	return SignalWeightTable{
		Platform: platform.Claude,
		Signals: []Signal{
			{Key: "citations", Name: "Citations", Patterns: []string{content.CitationPattern}, Weight: 2.5, Saturation: 4},
			{Key: "reasoning", Name: "Explicit reasoning", Patterns: []string{content.ReasoningPattern}, Weight: 2, Saturation: 4},
			{Key: "nuance", Name: "Nuance and caveats", Patterns: []string{content.NuancePattern}, Weight: 2, Saturation: 3},
			{Key: "definitions", Name: "Definitions", Patterns: []string{content.DefinitionPattern}, Weight: 1.5, Saturation: 2},
			{Key: "headings", Name: "Headings", Source: SourceHeadings, Weight: 1, Saturation: 4},
			{Key: "external_links", Name: "External references", Source: SourceExternalLinks, Weight: 1.5, Saturation: 3},
			{Key: "expert_language", Name: "Evidence language", Keywords: []string{
				"research shows", "evidence suggests", "studies show", "peer-reviewed",
				"in practice", "methodology", "data from", "analysis of", "we found",
			}, Weight: 1.5, Saturation: 3},
			{Key: "examples", Name: "Examples", Patterns: []string{content.ExamplePattern}, Weight: 1, Saturation: 2},
		},
		Composites: []Composite{
			&ContextualDepthMetric{Share: 2, TargetWords: 1500, TargetParagraphs: 8},
			&CitationDensityMetric{Share: 2, PerWords: 500, TargetDensity: 3},
			&BalancedReasoningMetric{Share: 1.5},
		},
		Penalties: []Penalty{
			{Key: "thin_content", Name: "Thin content", Kind: PenaltyThinContent, Threshold: 300, Weight: 2},
			{Key: "complex_sentences", Name: "Complex sentences", Kind: PenaltyComplexSentences, Threshold: 40, Unit: 15, Weight: 1},
			{Key: "missing_sources", Name: "Missing sources", Kind: PenaltyMissingSources, Weight: 1.5},
		},
	}
}

// ContextualDepthMetric rewards length and paragraph breadth.
type ContextualDepthMetric struct {
	Share            float64
	TargetWords      float64
	TargetParagraphs float64
}

func (m *ContextualDepthMetric) Key() string     { return "contextual_depth" }
func (m *ContextualDepthMetric) Name() string    { return "Contextual depth" }
func (m *ContextualDepthMetric) Weight() float64 { return m.Share }

func (m *ContextualDepthMetric) Evaluate(ev *Evidence) SignalScore {
	words := float64(ev.Stats.WordCount)
	paras := float64(len(ev.Stats.Paragraphs))
	score := math.Min(60, words/m.TargetWords*60) + math.Min(40, paras/m.TargetParagraphs*40)
	return SignalScore{Count: ev.Stats.WordCount, Score: score}
}

// CitationDensityMetric measures references per PerWords words.
type CitationDensityMetric struct {
	Share         float64
	PerWords      float64
	TargetDensity float64
}

func (m *CitationDensityMetric) Key() string     { return "citation_density" }
func (m *CitationDensityMetric) Name() string    { return "Citation density" }
func (m *CitationDensityMetric) Weight() float64 { return m.Share }

func (m *CitationDensityMetric) Evaluate(ev *Evidence) SignalScore {
	refs := ev.Markers.Citations + ev.Doc.Counts.ExternalLinks
	if ev.Stats.WordCount == 0 {
		return SignalScore{Count: refs}
	}
	density := float64(refs) / (float64(ev.Stats.WordCount) / m.PerWords)
	return SignalScore{Count: refs, Score: density / m.TargetDensity * 100}
}

// BalancedReasoningMetric rewards reasoning that also weighs counterpoints.
type BalancedReasoningMetric struct {
	Share float64
}

func (m *BalancedReasoningMetric) Key() string     { return "balanced_reasoning" }
func (m *BalancedReasoningMetric) Name() string    { return "Balanced reasoning" }
func (m *BalancedReasoningMetric) Weight() float64 { return m.Share }

func (m *BalancedReasoningMetric) Evaluate(ev *Evidence) SignalScore {
	r, n := ev.Markers.Reasoning, ev.Markers.Nuance
	score := math.Min(50, float64(r)/4*50) + math.Min(50, float64(n)/3*50)
	return SignalScore{Count: r + n, Score: score}
}
