// Package app wires configuration into a ready-to-use engine. Both the CLI
// and the daemon build their runtime through it.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/citescope/citescope/internal/blobstore"
	"github.com/citescope/citescope/pkg/config"
	"github.com/citescope/citescope/pkg/engine"
	"github.com/citescope/citescope/pkg/ml"
	"github.com/citescope/citescope/pkg/scoring"
)

// App holds the long-lived components built from a Config.
type App struct {
	Engine   *engine.Engine
	Scorer   *ml.Scorer
	Registry *ml.Registry
	Store    blobstore.Store

	closeStore func() error
}

// New opens the model store and builds the analyzers, registry and engine.
// Models are loaded lazily; call Registry.Init to warm them up.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	store, closeStore, err := blobstore.Open(ctx, cfg.Store.Blobstore())
	if err != nil {
		return nil, fmt.Errorf("open model store: %w", err)
	}

	analyzers, err := scoring.DefaultAnalyzers(cfg.Scoring.Weights, scoring.WithSuggestionLimit(cfg.Scoring.SuggestionLimit))
	if err != nil {
		_ = closeStore()
		return nil, fmt.Errorf("build analyzers: %w", err)
	}

	var backend ml.Backend
	if cfg.ML.Enabled {
		backend = ml.RidgeBackend{L2: cfg.ML.L2}
	}
	registry := ml.NewRegistry(ml.RegistryConfig{
		Store: store,
		Provider: ml.SyntheticProvider{
			Seed:  cfg.ML.Seed,
			Size:  cfg.ML.Samples,
			Noise: cfg.ML.Noise,
		},
		Backend:         backend,
		Logger:          logger,
		MinRetrainBatch: cfg.ML.MinRetrainBatch,
	})
	scorer := ml.NewScorer(registry)

	eng := engine.New(analyzers, scorer,
		engine.WithLogger(logger),
		engine.WithSuggestionLimit(cfg.Scoring.SuggestionLimit),
		engine.WithPromotionThreshold(cfg.Engine.PromotionThreshold),
	)

	return &App{
		Engine:     eng,
		Scorer:     scorer,
		Registry:   registry,
		Store:      store,
		closeStore: closeStore,
	}, nil
}

// Close releases the registry and the store connection.
func (a *App) Close() error {
	if err := a.Registry.Close(); err != nil {
		return err
	}
	return a.closeStore()
}
