// Package features turns a document into the fixed-length numeric vectors
// the statistical scorer consumes.
package features

import (
	"fmt"

	"github.com/citescope/citescope/pkg/content"
	"github.com/citescope/citescope/pkg/platform"
)

// Feature names.
const (
	WordCount          = "word_count"
	ParagraphCount     = "paragraph_count"
	AvgSentenceLength  = "avg_sentence_length"
	AvgParagraphLength = "avg_paragraph_length"
	StepCount          = "step_count"
	ListCount          = "list_count"
	ListItemCount      = "list_item_count"
	QuestionCount      = "question_count"
	HeadingCount       = "heading_count"
	CitationCount      = "citation_count"
	ExternalLinkCount  = "external_link_count"
	ImageCount         = "image_count"
	TableCount         = "table_count"
	SchemaCount        = "schema_count"
	StatisticCount     = "statistic_count"
	DateCount          = "date_count"
	FAQCount           = "faq_count"
	ExampleCount       = "example_count"
	DefinitionCount    = "definition_count"
	ReasoningCount     = "reasoning_count"
	NuanceCount        = "nuance_count"
)

// dimensions lists each platform's vector layout. The order is part of the
// persisted model format.
var dimensions = map[platform.Platform][]string{
	platform.ChatGPT: {StepCount, ListCount, ListItemCount, QuestionCount, HeadingCount, ExampleCount, AvgSentenceLength, WordCount},
	platform.Claude:  {CitationCount, ReasoningCount, NuanceCount, DefinitionCount, ExternalLinkCount, HeadingCount, AvgSentenceLength, WordCount},
	platform.Gemini:  {ImageCount, TableCount, SchemaCount, StatisticCount, DateCount, HeadingCount, ListCount, WordCount},
	platform.Bing:    {ExternalLinkCount, CitationCount, DateCount, FAQCount, QuestionCount, HeadingCount, StatisticCount, WordCount},
}

// Names returns a copy of the platform's feature names in vector order.
func Names(p platform.Platform) ([]string, error) {
	names, ok := dimensions[p]
	if !ok {
		return nil, &platform.UnknownError{Name: string(p)}
	}
	return append([]string(nil), names...), nil
}

// Vector is a platform's named feature vector.
type Vector struct {
	Platform platform.Platform `json:"platform"`
	Names    []string          `json:"names"`
	Values   []float64         `json:"values"`
}

// Get returns the value of the named feature.
func (v Vector) Get(name string) (float64, bool) {
	for i, n := range v.Names {
		if n == name {
			return v.Values[i], true
		}
	}
	return 0, false
}

// Map returns the vector as name -> value.
func (v Vector) Map() map[string]float64 {
	m := make(map[string]float64, len(v.Names))
	for i, n := range v.Names {
		m[n] = v.Values[i]
	}
	return m
}

// Metrics are every raw feature of a document, keyed by feature name.
type Metrics map[string]float64

// Extract computes all raw metrics. Deterministic for a given document.
func Extract(doc *content.Document) Metrics {
	m := Metrics{}
	for _, names := range dimensions {
		for _, n := range names {
			m[n] = 0
		}
	}
	m[ParagraphCount], m[AvgParagraphLength] = 0, 0
	if doc.Empty() {
		return m
	}

	stats := doc.Stats()
	mk := doc.CountMarkers()
	c := doc.Counts

	m[WordCount] = float64(stats.WordCount)
	m[ParagraphCount] = float64(len(stats.Paragraphs))
	m[AvgSentenceLength] = stats.AverageSentenceLength()
	if len(stats.Paragraphs) > 0 {
		m[AvgParagraphLength] = float64(stats.WordCount) / float64(len(stats.Paragraphs))
	}
	m[StepCount] = float64(mk.Steps)
	m[ListCount] = float64(c.Lists)
	m[ListItemCount] = float64(mk.ListItems)
	m[QuestionCount] = float64(mk.Questions)
	m[HeadingCount] = float64(c.Headings)
	m[CitationCount] = float64(mk.Citations)
	m[ExternalLinkCount] = float64(c.ExternalLinks)
	m[ImageCount] = float64(c.Images)
	m[TableCount] = float64(c.Tables)
	m[SchemaCount] = float64(c.SchemaBlocks)
	m[StatisticCount] = float64(mk.Statistics)
	m[DateCount] = float64(mk.Dates)
	m[FAQCount] = float64(mk.FAQs)
	m[ExampleCount] = float64(mk.Examples)
	m[DefinitionCount] = float64(mk.Definitions)
	m[ReasoningCount] = float64(mk.Reasoning)
	m[NuanceCount] = float64(mk.Nuance)
	return m
}

// Select builds the platform's vector from precomputed metrics.
func (m Metrics) Select(p platform.Platform) (Vector, error) {
	names, err := Names(p)
	if err != nil {
		return Vector{}, err
	}
	values := make([]float64, len(names))
	for i, n := range names {
		v, ok := m[n]
		if !ok {
			return Vector{}, fmt.Errorf("feature %q missing from metrics", n)
		}
		values[i] = v
	}
	return Vector{Platform: p, Names: names, Values: values}, nil
}

// ForPlatform extracts the platform's feature vector from doc.
func ForPlatform(doc *content.Document, p platform.Platform) (Vector, error) {
	return Extract(doc).Select(p)
}
