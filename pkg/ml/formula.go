package ml

import (
	"math"

	"github.com/citescope/citescope/pkg/features"
	"github.com/citescope/citescope/pkg/platform"
)

// Term is one feature of a platform's linear formula, with the range the
// synthetic provider draws it from.
type Term struct {
	Feature    string
	Coef       float64
	Min, Max   float64
	Continuous bool // integer-valued unless set
}

// Formula is a platform's linear scoring formula. It generates synthetic
// targets and doubles as the heuristic fallback.
type Formula struct {
	Intercept float64
	Terms     []Term
}

// Eval applies the formula with every input clamped to its term's range.
func (f Formula) Eval(values map[string]float64) float64 {
	y := f.Intercept
	for _, t := range f.Terms {
		x := math.Max(t.Min, math.Min(t.Max, values[t.Feature]))
		y += t.Coef * x
	}
	return y
}

// Term returns the term for a feature.
func (f Formula) Term(feature string) (Term, bool) {
	for _, t := range f.Terms {
		if t.Feature == feature {
			return t, true
		}
	}
	return Term{}, false
}

var formulas = map[platform.Platform]Formula{
	platform.ChatGPT: {Intercept: 15, Terms: []Term{
		{Feature: features.StepCount, Coef: 4, Max: 8},
		{Feature: features.ListCount, Coef: 4, Max: 5},
		{Feature: features.ListItemCount, Coef: 0.6, Max: 25},
		{Feature: features.QuestionCount, Coef: 2, Max: 6},
		{Feature: features.HeadingCount, Coef: 1.5, Max: 8},
		{Feature: features.ExampleCount, Coef: 2, Max: 4},
		{Feature: features.AvgSentenceLength, Coef: -0.5, Min: 8, Max: 35, Continuous: true},
		{Feature: features.WordCount, Coef: 0.005, Min: 100, Max: 2500},
	}},
	platform.Claude: {Intercept: 15, Terms: []Term{
		{Feature: features.CitationCount, Coef: 3, Max: 10},
		{Feature: features.ReasoningCount, Coef: 2.5, Max: 8},
		{Feature: features.NuanceCount, Coef: 3, Max: 6},
		{Feature: features.DefinitionCount, Coef: 2, Max: 4},
		{Feature: features.ExternalLinkCount, Coef: 1.5, Max: 10},
		{Feature: features.HeadingCount, Coef: 1, Max: 8},
		{Feature: features.AvgSentenceLength, Coef: 0.2, Min: 8, Max: 35, Continuous: true},
		{Feature: features.WordCount, Coef: 0.008, Min: 100, Max: 3000},
	}},
	platform.Gemini: {Intercept: 15, Terms: []Term{
		{Feature: features.ImageCount, Coef: 4, Max: 8},
		{Feature: features.TableCount, Coef: 4, Max: 4},
		{Feature: features.SchemaCount, Coef: 6, Max: 3},
		{Feature: features.StatisticCount, Coef: 1.5, Max: 12},
		{Feature: features.DateCount, Coef: 1.5, Max: 5},
		{Feature: features.HeadingCount, Coef: 1, Max: 8},
		{Feature: features.ListCount, Coef: 1.5, Max: 5},
		{Feature: features.WordCount, Coef: 0.004, Min: 100, Max: 2500},
	}},
	platform.Bing: {Intercept: 15, Terms: []Term{
		{Feature: features.ExternalLinkCount, Coef: 2.5, Max: 12},
		{Feature: features.CitationCount, Coef: 2, Max: 8},
		{Feature: features.DateCount, Coef: 3, Max: 5},
		{Feature: features.FAQCount, Coef: 3, Max: 6},
		{Feature: features.QuestionCount, Coef: 1.5, Max: 6},
		{Feature: features.HeadingCount, Coef: 1.5, Max: 8},
		{Feature: features.StatisticCount, Coef: 1, Max: 10},
		{Feature: features.WordCount, Coef: 0.004, Min: 100, Max: 2500},
	}},
}

// FormulaFor returns the platform's formula.
func FormulaFor(p platform.Platform) (Formula, error) {
	f, ok := formulas[p]
	if !ok {
		return Formula{}, &platform.UnknownError{Name: string(p)}
	}
	return f, nil
}
