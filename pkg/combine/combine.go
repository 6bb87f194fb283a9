// Package combine blends the traditional and ML scores into a hybrid
// score with a confidence band.
package combine

import (
	"math"

	"github.com/citescope/citescope/pkg/scoring"
)

// Confidence describes how closely the traditional and ML scores agree.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Method names how FinalScore was computed.
type Method string

const (
	MethodHybridML     Method = "hybrid_ml"
	MethodTripleHybrid Method = "triple_hybrid"
)

// Band thresholds on |traditional - ml|. Each band includes its lower bound.
const (
	MediumConfidenceGap = 10.0
	LowConfidenceGap    = 20.0
)

// Triple hybrid weights.
const (
	TraditionalWeight = 0.4
	MLWeight          = 0.4
	AIWeight          = 0.2
)

// Result is the combined score for one platform.
type Result struct {
	TraditionalScore float64    `json:"traditional_score"`
	MLScore          float64    `json:"ml_score"`
	HybridScore      float64    `json:"hybrid_score"`
	MLConfidence     Confidence `json:"ml_confidence"`
	AIScore          *float64   `json:"ai_score,omitempty"`
	FinalScore       float64    `json:"final_score"`
	ScoringMethod    Method     `json:"scoring_method"`
}

// Combine merges the scores. ai is the optional external evaluator score;
// when present the final score is the weighted triple hybrid.
func Combine(traditional, ml float64, ai *float64) Result {
	traditional = scoring.Round1(scoring.Clamp(traditional))
	ml = scoring.Round1(scoring.Clamp(ml))

	r := Result{
		TraditionalScore: traditional,
		MLScore:          ml,
		HybridScore:      scoring.Clamp(scoring.Round1((traditional + ml) / 2)),
		MLConfidence:     ConfidenceFor(traditional, ml),
		ScoringMethod:    MethodHybridML,
	}
	r.FinalScore = r.HybridScore

	if ai != nil && !math.IsNaN(*ai) {
		a := scoring.Round1(scoring.Clamp(*ai))
		r.AIScore = &a
		r.FinalScore = scoring.Clamp(scoring.Round1(traditional*TraditionalWeight + ml*MLWeight + a*AIWeight))
		r.ScoringMethod = MethodTripleHybrid
	}
	return r
}

// ConfidenceFor bands the rounded absolute difference between the scores.
func ConfidenceFor(traditional, ml float64) Confidence {
	diff := scoring.Round1(math.Abs(traditional - ml))
	switch {
	case diff < MediumConfidenceGap:
		return ConfidenceHigh
	case diff < LowConfidenceGap:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
