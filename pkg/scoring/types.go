// Package scoring implements the rule-based platform analyzers. Each analyzer
// scores a document against one platform's signal weight table and explains
// the score with per-signal detail, strengths and weaknesses.
package scoring

import (
	"math"

	"github.com/citescope/citescope/pkg/platform"
)

// AnalyzerResult is the output of analyzing one document for one platform.
// Immutable once computed.
type AnalyzerResult struct {
	Platform           platform.Platform      `json:"platform"`
	CompatibilityScore float64                `json:"compatibility_score"` // 0-100
	DetailedScores     map[string]SignalScore `json:"detailed_scores"`
	Strengths          []string               `json:"strengths"`
	Weaknesses         []string               `json:"weaknesses"`
	OptimizationLevel  OptimizationLevel      `json:"optimization_level"`
}

// SignalScore is the per-signal detail behind a compatibility score.
type SignalScore struct {
	Key      string     `json:"key"`
	Name     string     `json:"name"`
	Kind     SignalKind `json:"kind"`
	Count    int        `json:"count"`
	Score    float64    `json:"score"` // 0-100; for penalties, higher is worse
	Weight   float64    `json:"weight"`
	Examples []string   `json:"examples,omitempty"` // at most 3
}

// Health is the signal's score on a higher-is-better scale.
func (s SignalScore) Health() float64 {
	if s.Kind == KindPenalty {
		return 100 - s.Score
	}
	return s.Score
}

// SignalKind distinguishes how a detailed score contributes to the total.
type SignalKind string

const (
	KindSignal    SignalKind = "signal"
	KindComposite SignalKind = "composite"
	KindPenalty   SignalKind = "penalty"
)

// OptimizationLevel is the bucketed reading of a compatibility score.
type OptimizationLevel string

const (
	LevelExcellent OptimizationLevel = "Excellent"
	LevelGood      OptimizationLevel = "Good"
	LevelAverage   OptimizationLevel = "Average"
	LevelNeedsWork OptimizationLevel = "Needs Work"
	LevelPoor      OptimizationLevel = "Poor"
)

// LevelFromScore maps a 0-100 score to an optimization level.
func LevelFromScore(score float64) OptimizationLevel {
	switch {
	case score >= 85:
		return LevelExcellent
	case score >= 70:
		return LevelGood
	case score >= 50:
		return LevelAverage
	case score >= 30:
		return LevelNeedsWork
	default:
		return LevelPoor
	}
}

// Rank orders levels from Poor (0) to Excellent (4).
func (l OptimizationLevel) Rank() int {
	switch l {
	case LevelExcellent:
		return 4
	case LevelGood:
		return 3
	case LevelAverage:
		return 2
	case LevelNeedsWork:
		return 1
	default:
		return 0
	}
}

// Suggestion is a concrete content change with an estimated effect.
type Suggestion struct {
	Type               string            `json:"type"`
	Platform           platform.Platform `json:"platform"`
	Priority           Priority          `json:"priority"`
	Description        string            `json:"description"`
	ImplementationHint string            `json:"implementation_hint"`
	ExpectedImpact     float64           `json:"expected_impact"`
	CurrentScore       float64           `json:"current_score"`
	MLInsight          string            `json:"ml_insight,omitempty"`
}

// Priority ranks suggestions.
type Priority string

const (
	PriorityVeryHigh Priority = "very_high"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// Rank orders priorities; lower sorts first.
func (p Priority) Rank() int {
	switch p {
	case PriorityVeryHigh:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	default:
		return 3
	}
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Clamp bounds v to [0, 100].
func Clamp(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
