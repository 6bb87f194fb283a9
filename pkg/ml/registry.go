package ml

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/citescope/citescope/internal/blobstore"
	"github.com/citescope/citescope/internal/metrics"
	"github.com/citescope/citescope/pkg/features"
	"github.com/citescope/citescope/pkg/platform"
)

// State is a platform model's lifecycle position.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateLoaded
	StateTraining
	StateTrained
	StateReady
	StateFallback
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateTraining:
		return "training"
	case StateTrained:
		return "trained"
	case StateReady:
		return "ready"
	case StateFallback:
		return "fallback"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// DefaultMinRetrainBatch is the smallest accepted retrain batch.
const DefaultMinRetrainBatch = 10

// RegistryConfig configures a Registry.
type RegistryConfig struct {
	Store    blobstore.Store      // defaults to an in-memory store
	Provider TrainingDataProvider // defaults to DefaultSyntheticProvider
	// Backend fits models. Nil means no statistical backend: every platform
	// serves the heuristic fallback.
	Backend         Backend
	Logger          zerolog.Logger
	MinRetrainBatch int
}

// Registry owns one model slot per platform. Each slot loads or trains its
// model at most once; concurrent first callers wait for it.
type Registry struct {
	store      blobstore.Store
	provider   TrainingDataProvider
	backend    Backend
	logger     zerolog.Logger
	minRetrain int
	now        func() time.Time

	slots  map[platform.Platform]*slot
	closed atomic.Bool
}

type slot struct {
	mu     sync.RWMutex
	state  State
	model  *Model
	reason error // set in StateFallback
}

// NewRegistry creates a registry. Nothing is loaded until first use or Init.
func NewRegistry(cfg RegistryConfig) *Registry {
	if cfg.Store == nil {
		cfg.Store = blobstore.NewMemoryStore()
	}
	if cfg.Provider == nil {
		cfg.Provider = DefaultSyntheticProvider()
	}
	if cfg.MinRetrainBatch <= 0 {
		cfg.MinRetrainBatch = DefaultMinRetrainBatch
	}

	r := &Registry{
		store:      cfg.Store,
		provider:   cfg.Provider,
		backend:    cfg.Backend,
		logger:     cfg.Logger.With().Str("component", "ml").Logger(),
		minRetrain: cfg.MinRetrainBatch,
		now:        time.Now,
		slots:      make(map[platform.Platform]*slot),
	}
	for _, p := range platform.All() {
		r.slots[p] = &slot{}
	}
	return r
}

// Init loads or trains every platform's model concurrently. Platforms that
// cannot get a model degrade to the fallback; that is not an error.
func (r *Registry) Init(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, p := range platform.All() {
		g.Go(func() error {
			_, err := r.Model(ctx, p)
			return err
		})
	}
	return g.Wait()
}

// Close marks the registry closed. Later calls return ErrRegistryClosed.
func (r *Registry) Close() error {
	r.closed.Store(true)
	return nil
}

func (r *Registry) slot(p platform.Platform) (*slot, error) {
	if r.closed.Load() {
		return nil, ErrRegistryClosed
	}
	s, ok := r.slots[p]
	if !ok {
		return nil, &platform.UnknownError{Name: string(p)}
	}
	return s, nil
}

// State reports a platform's lifecycle state without triggering a load.
func (r *Registry) State(p platform.Platform) State {
	s, ok := r.slots[p]
	if !ok {
		return StateUninitialized
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Model returns the platform's model, loading or training it on first use.
// A nil model with a nil error means the platform is in fallback mode.
func (r *Registry) Model(ctx context.Context, p platform.Platform) (*Model, error) {
	s, err := r.slot(p)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	state, m := s.state, s.model
	s.mu.RUnlock()
	switch state {
	case StateReady:
		return m, nil
	case StateFallback:
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := r.ensure(ctx, p, s); err != nil {
		return nil, err
	}
	return s.model, nil
}

// FallbackReason returns why a platform is in fallback mode, or nil.
func (r *Registry) FallbackReason(p platform.Platform) error {
	s, ok := r.slots[p]
	if !ok {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reason
}

// ensure drives the slot to Ready or Fallback. Caller holds s.mu.
func (r *Registry) ensure(ctx context.Context, p platform.Platform, s *slot) error {
	if s.state == StateReady || s.state == StateFallback {
		return nil
	}
	log := r.logger.With().Str("platform", string(p)).Logger()

	s.state = StateLoading
	data, err := r.store.Get(ctx, ModelKey(p))
	switch {
	case err == nil:
		m, derr := DecodeModel(data)
		if derr == nil {
			derr = checkModel(m, p)
		}
		if derr != nil {
			r.degrade(s, p, "corrupt", derr)
			return nil
		}
		s.state = StateLoaded
		s.model = m
		s.state = StateReady
		log.Debug().Time("trained_at", m.TrainedAt).Msg("model loaded")
		return nil

	case errors.Is(err, blobstore.ErrNotFound):
		return r.trainInitial(ctx, p, s, true)

	case ctx.Err() != nil:
		s.state = StateUninitialized
		return ctx.Err()

	default:
		// The store may hold a good model we cannot read right now; train in
		// memory and leave the blob alone.
		log.Warn().Err(err).Msg("model store unreadable, training without persisting")
		return r.trainInitial(ctx, p, s, false)
	}
}

func (r *Registry) trainInitial(ctx context.Context, p platform.Platform, s *slot, persist bool) error {
	if r.backend == nil {
		r.degrade(s, p, "no_backend", ErrModelUnavailable)
		return nil
	}

	s.state = StateTraining
	m, err := r.train(ctx, p, nil, "initial")
	if err != nil {
		if ctx.Err() != nil {
			s.state = StateUninitialized
			return ctx.Err()
		}
		r.degrade(s, p, "train_failed", err)
		return nil
	}
	s.state = StateTrained
	s.model = m

	if persist {
		r.persist(ctx, m)
	}
	s.state = StateReady
	return nil
}

func (r *Registry) degrade(s *slot, p platform.Platform, reason string, err error) {
	s.state = StateFallback
	s.model = nil
	s.reason = err
	metrics.ModelDegradedTotal.WithLabelValues(string(p), reason).Inc()
	r.logger.Warn().Str("platform", string(p)).Str("reason", reason).Err(err).
		Msg("statistical model unavailable, using heuristic fallback")
}

func (r *Registry) persist(ctx context.Context, m *Model) {
	data, err := EncodeModel(m)
	if err == nil {
		err = r.store.Put(ctx, ModelKey(m.Platform), data)
	}
	if err != nil {
		// The in-memory model still serves; the next process will retrain.
		r.logger.Warn().Str("platform", string(m.Platform)).Err(err).Msg("failed to persist model")
		return
	}
	r.logger.Info().Str("platform", string(m.Platform)).Int("samples", m.Samples).Msg("model persisted")
}

// train fits a model on the provider's samples plus extra.
func (r *Registry) train(ctx context.Context, p platform.Platform, extra []Example, trigger string) (*Model, error) {
	names, err := features.Names(p)
	if err != nil {
		return nil, err
	}
	base, err := r.provider.Samples(ctx, p, names)
	if err != nil {
		return nil, fmt.Errorf("training data for %s: %w", p, err)
	}

	all := make([]Example, 0, len(base)+len(extra))
	all = append(all, base...)
	all = append(all, extra...)
	X := make([][]float64, len(all))
	y := make([]float64, len(all))
	for i, ex := range all {
		X[i], y[i] = ex.Features, ex.Target
	}

	start := time.Now()
	reg, scaler, err := r.backend.Fit(X, y)
	if err != nil {
		return nil, err
	}
	metrics.ModelTrainingDuration.WithLabelValues(string(p)).Observe(time.Since(start).Seconds())
	metrics.ModelTrainingsTotal.WithLabelValues(string(p), trigger).Inc()

	r.logger.Info().Str("platform", string(p)).Str("trigger", trigger).Int("samples", len(all)).
		Dur("took", time.Since(start)).Msg("model trained")

	return &Model{
		Platform:          p,
		FeatureNames:      names,
		Regressor:         reg,
		Scaler:            scaler,
		FeatureImportance: reg.Importance(names),
		TrainedAt:         r.now().UTC(),
		Samples:           len(all),
		Extra:             extra,
	}, nil
}

// Retrain refits the platform's model with additional labeled examples and
// persists it. Batches smaller than the configured minimum are rejected and
// leave the current model in place.
func (r *Registry) Retrain(ctx context.Context, p platform.Platform, examples []Example) error {
	s, err := r.slot(p)
	if err != nil {
		return err
	}
	if len(examples) < r.minRetrain {
		metrics.RetrainRejectedTotal.WithLabelValues(string(p)).Inc()
		return fmt.Errorf("%w: got %d examples, need at least %d", ErrInsufficientTrainingData, len(examples), r.minRetrain)
	}
	names, err := features.Names(p)
	if err != nil {
		return err
	}
	batch := make([]Example, len(examples))
	for i, ex := range examples {
		if len(ex.Features) != len(names) {
			return fmt.Errorf("example %d: got %d features, want %d", i, len(ex.Features), len(names))
		}
		if math.IsNaN(ex.Target) || math.IsInf(ex.Target, 0) {
			return fmt.Errorf("example %d: invalid target", i)
		}
		batch[i] = Example{
			Features: append([]float64(nil), ex.Features...),
			Target:   math.Max(0, math.Min(100, ex.Target)),
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := r.ensure(ctx, p, s); err != nil {
		return err
	}
	if s.state == StateFallback {
		return fmt.Errorf("retrain %s: %w", p, ErrModelUnavailable)
	}

	extra := append(append([]Example(nil), s.model.Extra...), batch...)
	m, err := r.train(ctx, p, extra, "retrain")
	if err != nil {
		return fmt.Errorf("retrain %s: %w", p, err)
	}
	s.model = m
	r.persist(ctx, m)
	return nil
}

// Rebuild discards the platform's model and trains a fresh one from the
// provider alone.
func (r *Registry) Rebuild(ctx context.Context, p platform.Platform) error {
	s, err := r.slot(p)
	if err != nil {
		return err
	}
	if r.backend == nil {
		return fmt.Errorf("rebuild %s: %w", p, ErrModelUnavailable)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := r.train(ctx, p, nil, "rebuild")
	if err != nil {
		return fmt.Errorf("rebuild %s: %w", p, err)
	}
	s.model, s.state, s.reason = m, StateReady, nil
	r.persist(ctx, m)
	return nil
}

func checkModel(m *Model, p platform.Platform) error {
	if m.Platform != p {
		return fmt.Errorf("%w: blob holds %s model", ErrCorruptModel, m.Platform)
	}
	names, err := features.Names(p)
	if err != nil {
		return err
	}
	if len(names) != len(m.FeatureNames) {
		return fmt.Errorf("%w: feature layout changed", ErrCorruptModel)
	}
	for i := range names {
		if names[i] != m.FeatureNames[i] {
			return fmt.Errorf("%w: feature layout changed", ErrCorruptModel)
		}
	}
	return nil
}
