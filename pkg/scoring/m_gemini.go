package scoring

import (
	"math"

	"github.com/citescope/citescope/pkg/content"
	"github.com/citescope/citescope/pkg/platform"
)

// geminiTable favors multimodal pages with structured data and concrete
// facts.
func geminiTable() SignalWeightTable {
	return SignalWeightTable{
		Platform: platform.Gemini,
		Signals: []Signal{
			{Key: "images", Name: "Images", Source: SourceImages, Weight: 2.5, Saturation: 3},
			{Key: "tables", Name: "Tables", Source: SourceTables, Weight: 2, Saturation: 2},
			{Key: "schema_markup", Name: "Schema markup", Source: SourceSchemaBlocks, Weight: 2.5, Saturation: 2},
			{Key: "statistics", Name: "Statistics", Patterns: []string{content.StatisticPattern}, Weight: 1.5, Saturation: 5},
			{Key: "dates", Name: "Dates", Patterns: []string{content.DatePattern}, Weight: 1, Saturation: 2},
			{Key: "headings", Name: "Headings", Source: SourceHeadings, Weight: 1.5, Saturation: 4},
			{Key: "multimedia_references", Name: "Media references", Keywords: []string{
				"video", "image", "diagram", "chart", "infographic", "figure", "screenshot", "watch",
			}, Weight: 1, Saturation: 3},
			{Key: "list_blocks", Name: "Lists", Source: SourceLists, Weight: 1, Saturation: 2},
		},
		Composites: []Composite{
			&MultimodalMetric{Share: 2},
			&StructuredDataMetric{Share: 2},
			&FactualDensityMetric{Share: 1.5, PerWords: 100, TargetDensity: 2},
		},
		Penalties: []Penalty{
			{Key: "missing_media", Name: "Missing media", Kind: PenaltyMissingMedia, Weight: 2},
			{Key: "long_paragraphs", Name: "Long paragraphs", Kind: PenaltyLongParagraphs, Threshold: 120, Weight: 1.5},
			{Key: "complex_sentences", Name: "Complex sentences", Kind: PenaltyComplexSentences, Threshold: 35, Unit: 15, Weight: 1},
		},
	}
}

// MultimodalMetric rewards images and tables together.
type MultimodalMetric struct {
	Share float64
}

func (m *MultimodalMetric) Key() string     { return "multimodal_richness" }
func (m *MultimodalMetric) Name() string    { return "Multimodal richness" }
func (m *MultimodalMetric) Weight() float64 { return m.Share }

func (m *MultimodalMetric) Evaluate(ev *Evidence) SignalScore {
	c := ev.Doc.Counts
	score := math.Min(60, float64(c.Images)*20) + math.Min(40, float64(c.Tables)*20)
	return SignalScore{Count: c.Images + c.Tables, Score: score}
}

// StructuredDataMetric rewards machine-readable markup and tabular layout.
type StructuredDataMetric struct {
	Share float64
}

func (m *StructuredDataMetric) Key() string     { return "structured_data" }
func (m *StructuredDataMetric) Name() string    { return "Structured data" }
func (m *StructuredDataMetric) Weight() float64 { return m.Share }

func (m *StructuredDataMetric) Evaluate(ev *Evidence) SignalScore {
	c := ev.Doc.Counts
	score := math.Min(60, float64(c.SchemaBlocks)*30) + math.Min(40, float64(c.Tables+c.Lists)*10)
	return SignalScore{Count: c.SchemaBlocks + c.Tables + c.Lists, Score: score}
}

// FactualDensityMetric measures statistics per PerWords words.
type FactualDensityMetric struct {
	Share         float64
	PerWords      float64
	TargetDensity float64
}

func (m *FactualDensityMetric) Key() string     { return "factual_density" }
func (m *FactualDensityMetric) Name() string    { return "Factual density" }
func (m *FactualDensityMetric) Weight() float64 { return m.Share }

func (m *FactualDensityMetric) Evaluate(ev *Evidence) SignalScore {
	stats := ev.Markers.Statistics
	if ev.Stats.WordCount == 0 {
		return SignalScore{Count: stats}
	}
	density := float64(stats) / (float64(ev.Stats.WordCount) / m.PerWords)
	return SignalScore{Count: stats, Score: density / m.TargetDensity * 100}
}
