package ml

import (
	"context"

	"github.com/citescope/citescope/internal/metrics"
	"github.com/citescope/citescope/pkg/content"
	"github.com/citescope/citescope/pkg/features"
	"github.com/citescope/citescope/pkg/platform"
)

// Mode describes how a platform's ML score is produced.
type Mode string

const (
	ModeModel         Mode = "model"
	ModeFallback      Mode = "fallback"
	ModeUninitialized Mode = "uninitialized"
)

// Scorer produces ML scores from the registry's models, or from the
// heuristic fallback when a platform has no model.
type Scorer struct {
	registry *Registry
	fallback HeuristicFallback
}

// NewScorer wraps a registry.
func NewScorer(registry *Registry) *Scorer {
	return &Scorer{registry: registry}
}

// Registry exposes the underlying registry.
func (s *Scorer) Registry() *Registry { return s.registry }

// Predict returns the platform's 0-100 ML score for doc.
func (s *Scorer) Predict(ctx context.Context, p platform.Platform, doc *content.Document) (float64, error) {
	vec, err := features.ForPlatform(doc, p)
	if err != nil {
		return 0, err
	}
	return s.PredictVector(ctx, vec)
}

// PredictVector scores a precomputed feature vector.
func (s *Scorer) PredictVector(ctx context.Context, vec features.Vector) (float64, error) {
	m, err := s.registry.Model(ctx, vec.Platform)
	if err != nil {
		return 0, err
	}
	if m == nil {
		metrics.MLFallbackTotal.WithLabelValues(string(vec.Platform)).Inc()
		return s.fallback.Score(vec)
	}
	return m.Predict(vec.Values)
}

// FeatureImportance returns the platform model's feature importance in
// percent. It is empty in fallback mode.
func (s *Scorer) FeatureImportance(ctx context.Context, p platform.Platform) (map[string]float64, error) {
	m, err := s.registry.Model(ctx, p)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return map[string]float64{}, nil
	}
	return m.ImportanceCopy(), nil
}

// Retrain forwards to the registry.
func (s *Scorer) Retrain(ctx context.Context, p platform.Platform, examples []Example) error {
	return s.registry.Retrain(ctx, p, examples)
}

// Mode reports how the platform is currently served, without loading.
func (s *Scorer) Mode(p platform.Platform) Mode {
	switch s.registry.State(p) {
	case StateReady:
		return ModeModel
	case StateFallback:
		return ModeFallback
	default:
		return ModeUninitialized
	}
}
