package scoring

import (
	"math"
	"regexp"

	"github.com/citescope/citescope/pkg/content"
	"github.com/citescope/citescope/pkg/platform"
)

// bingTable favors search-grounded answers: authoritative links, fresh
// dates and FAQ-style coverage.
func bingTable() SignalWeightTable {
	return SignalWeightTable{
		Platform: platform.Bing,
		Signals: []Signal{
			{Key: "external_links", Name: "External references", Source: SourceExternalLinks, Weight: 2.5, Saturation: 5},
			{Key: "citations", Name: "Citations", Patterns: []string{content.CitationPattern}, Weight: 2, Saturation: 3},
			{Key: "dates", Name: "Dates", Patterns: []string{content.DatePattern}, Weight: 2, Saturation: 2},
			{Key: "faq", Name: "FAQ markers", Patterns: []string{content.FAQPattern}, Weight: 1.5, Saturation: 3},
			{Key: "questions", Name: "Questions answered", Patterns: []string{content.QuestionPattern}, Weight: 1, Saturation: 3},
			{Key: "headings", Name: "Headings", Source: SourceHeadings, Weight: 1.5, Saturation: 4},
			{Key: "statistics", Name: "Statistics", Patterns: []string{content.StatisticPattern}, Weight: 1, Saturation: 3},
			{Key: "search_intent", Name: "Search intent phrases", Keywords: []string{
				"best ", "compare", " vs ", "price", "review", "near me", "latest", "how to", "top 10",
			}, Weight: 1, Saturation: 3},
		},
		Composites: []Composite{
			&SourceAuthorityMetric{Share: 2},
			&FreshnessMetric{Share: 2},
			&FAQCoverageMetric{Share: 1.5},
		},
		Penalties: []Penalty{
			{Key: "missing_sources", Name: "Missing sources", Kind: PenaltyMissingSources, Weight: 2},
			{Key: "long_paragraphs", Name: "Long paragraphs", Kind: PenaltyLongParagraphs, Threshold: 150, Weight: 1},
			{Key: "missing_structure", Name: "Missing structure", Kind: PenaltyMissingStructure, Weight: 1.5},
		},
	}
}

// SourceAuthorityMetric rewards outbound references and inline citations.
type SourceAuthorityMetric struct {
	Share float64
}

func (m *SourceAuthorityMetric) Key() string     { return "source_authority" }
func (m *SourceAuthorityMetric) Name() string    { return "Source authority" }
func (m *SourceAuthorityMetric) Weight() float64 { return m.Share }

func (m *SourceAuthorityMetric) Evaluate(ev *Evidence) SignalScore {
	links, cites := ev.Doc.Counts.ExternalLinks, ev.Markers.Citations
	score := math.Min(60, float64(links)*12) + math.Min(40, float64(cites)*10)
	return SignalScore{Count: links + cites, Score: score}
}

var updateMarker = regexp.MustCompile(`(?i)\b(?:updated|last reviewed|published)\b`)

// FreshnessMetric rewards dated content and explicit update notes.
type FreshnessMetric struct {
	Share float64
}

func (m *FreshnessMetric) Key() string     { return "freshness" }
func (m *FreshnessMetric) Name() string    { return "Freshness" }
func (m *FreshnessMetric) Weight() float64 { return m.Share }

func (m *FreshnessMetric) Evaluate(ev *Evidence) SignalScore {
	score := math.Min(70, float64(ev.Markers.Dates)*35)
	if updateMarker.MatchString(ev.Doc.Text) {
		score += 30
	}
	return SignalScore{Count: ev.Markers.Dates, Score: score}
}

// FAQCoverageMetric rewards question-and-answer formatting.
type FAQCoverageMetric struct {
	Share float64
}

func (m *FAQCoverageMetric) Key() string     { return "faq_coverage" }
func (m *FAQCoverageMetric) Name() string    { return "FAQ coverage" }
func (m *FAQCoverageMetric) Weight() float64 { return m.Share }

func (m *FAQCoverageMetric) Evaluate(ev *Evidence) SignalScore {
	f, q := ev.Markers.FAQs, ev.Markers.Questions
	score := math.Min(60, float64(f)*20) + math.Min(40, float64(q)*10)
	return SignalScore{Count: f + q, Score: score}
}
