package scoring

import (
	"math"

	"github.com/citescope/citescope/pkg/content"
	"github.com/citescope/citescope/pkg/platform"
)

// chatGPTTable favors step-by-step instructions, lists and direct,
// conversational answers.
func chatGPTTable() SignalWeightTable {
	return SignalWeightTable{
		Platform: platform.ChatGPT,
		Signals: []Signal{
			{Key: "step_indicators", Name: "Step-by-step markers", Patterns: []string{content.StepPattern}, Weight: 3, Saturation: 3},
			{Key: "numbered_lists", Name: "List items", Patterns: []string{content.NumberedItemPattern, content.BulletItemPattern}, Weight: 2, Saturation: 8},
			{Key: "list_blocks", Name: "Lists", Source: SourceLists, Weight: 2, Saturation: 2},
			{Key: "questions", Name: "Questions answered", Patterns: []string{content.QuestionPattern}, Weight: 1.5, Saturation: 2},
			{Key: "sequence_words", Name: "Sequence words", Patterns: []string{content.TransitionPattern}, Weight: 1, Saturation: 4},
			{Key: "headings", Name: "Headings", Source: SourceHeadings, Weight: 1, Saturation: 3},
			{Key: "conversational_tone", Name: "Conversational phrasing", Keywords: []string{
				"you can", "you need", "you should", "let's", "here's how", "in short",
				"quick answer", "tl;dr", "the answer is", "in other words",
			}, Weight: 1, Saturation: 3},
			{Key: "definitions", Name: "Definitions", Patterns: []string{content.DefinitionPattern}, Weight: 1, Saturation: 2},
			{Key: "examples", Name: "Examples", Patterns: []string{content.ExamplePattern}, Weight: 1, Saturation: 2},
		},
		Composites: []Composite{
			&StepDepthMetric{Share: 2, TargetSteps: 4, GapFactor: 0.7},
			&ListStructureMetric{Share: 1.5, TargetItemsPerList: 5},
			&EngagementMetric{Share: 1},
		},
		Penalties: []Penalty{
			{Key: "long_paragraphs", Name: "Long paragraphs", Kind: PenaltyLongParagraphs, Threshold: 150, Weight: 1.5},
			{Key: "complex_sentences", Name: "Complex sentences", Kind: PenaltyComplexSentences, Threshold: 30, Unit: 20, Weight: 1},
			{Key: "missing_structure", Name: "Missing structure", Kind: PenaltyMissingStructure, Weight: 2},
		},
	}
}

// StepDepthMetric rewards a complete, gap-free run of numbered steps.
type StepDepthMetric struct {
	Share       float64 // weight in the table
	TargetSteps float64 // distinct steps for a full score
	GapFactor   float64 // multiplier when numbering skips or does not start at 1
}

func (m *StepDepthMetric) Key() string     { return "sequential_step_depth" }
func (m *StepDepthMetric) Name() string    { return "Sequential step depth" }
func (m *StepDepthMetric) Weight() float64 { return m.Share }

func (m *StepDepthMetric) Evaluate(ev *Evidence) SignalScore {
	distinct := len(ev.Markers.StepNumbers)
	score := math.Min(1, float64(distinct)/m.TargetSteps) * 100
	if distinct > 0 && !ev.Markers.SequentialSteps() {
		score *= m.GapFactor
	}
	return SignalScore{Count: distinct, Score: score}
}

// ListStructureMetric rewards lists of a useful length.
type ListStructureMetric struct {
	Share              float64
	TargetItemsPerList float64
}

func (m *ListStructureMetric) Key() string     { return "list_structure" }
func (m *ListStructureMetric) Name() string    { return "List structure" }
func (m *ListStructureMetric) Weight() float64 { return m.Share }

func (m *ListStructureMetric) Evaluate(ev *Evidence) SignalScore {
	items := ev.Markers.ListItems
	lists := ev.Doc.Counts.Lists

	var score float64
	switch {
	case lists > 0:
		avg := float64(items) / float64(lists)
		score = avg / m.TargetItemsPerList * 100
	case items > 0:
		// List-like lines without list markup.
		score = math.Min(40, float64(items)*10)
	}
	return SignalScore{Count: items, Score: score}
}

// EngagementMetric combines questions, calls to action and examples.
type EngagementMetric struct {
	Share float64
}

func (m *EngagementMetric) Key() string     { return "engagement" }
func (m *EngagementMetric) Name() string    { return "Reader engagement" }
func (m *EngagementMetric) Weight() float64 { return m.Share }

func (m *EngagementMetric) Evaluate(ev *Evidence) SignalScore {
	mk := ev.Markers
	score := math.Min(40, float64(mk.Questions)*20) +
		math.Min(30, float64(mk.CTAs)*15) +
		math.Min(30, float64(mk.Examples)*15)
	return SignalScore{Count: mk.Questions + mk.CTAs + mk.Examples, Score: score}
}
