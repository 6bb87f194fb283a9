package engine

import (
	"context"

	"github.com/citescope/citescope/pkg/platform"
)

// Evaluation is an external AI evaluator's verdict for one platform.
type Evaluation struct {
	PlatformScore float64 `json:"platform_score"`
	Notes         string  `json:"notes,omitempty"`
}

// Evaluator scores content with an external AI model. A nil Evaluation with
// a nil error means no opinion for that platform.
type Evaluator interface {
	Evaluate(ctx context.Context, text string, p platform.Platform) (*Evaluation, error)
}

// StaticEvaluator serves precomputed platform scores.
type StaticEvaluator map[platform.Platform]float64

// Evaluate returns the stored score for p, if any.
func (s StaticEvaluator) Evaluate(_ context.Context, _ string, p platform.Platform) (*Evaluation, error) {
	v, ok := s[p]
	if !ok {
		return nil, nil
	}
	return &Evaluation{PlatformScore: v}, nil
}
