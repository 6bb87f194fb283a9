// Package engine runs the platform analyzers and the ML scorer over a
// document, combines their scores and summarizes the result.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/citescope/citescope/internal/metrics"
	"github.com/citescope/citescope/pkg/combine"
	"github.com/citescope/citescope/pkg/content"
	"github.com/citescope/citescope/pkg/features"
	"github.com/citescope/citescope/pkg/ml"
	"github.com/citescope/citescope/pkg/platform"
	"github.com/citescope/citescope/pkg/scoring"
	"github.com/citescope/citescope/pkg/suggest"
)

// ErrNoValidPlatforms is returned when not a single platform could be
// analyzed. The report is still returned with per-platform errors.
var ErrNoValidPlatforms = errors.New("no valid platforms analyzed")

// MLScorer abstracts the statistical scorer so the engine does not depend
// on how models are stored or trained.
type MLScorer interface {
	PredictVector(ctx context.Context, vec features.Vector) (float64, error)
	FeatureImportance(ctx context.Context, p platform.Platform) (map[string]float64, error)
	Mode(p platform.Platform) ml.Mode
}

// Engine orchestrates a multi-platform analysis. It is safe for concurrent
// use.
type Engine struct {
	analyzers       map[platform.Platform]scoring.PlatformAnalyzer
	scorer          MLScorer
	evaluator       Evaluator
	logger          zerolog.Logger
	suggestionLimit int
	promoteAbove    float64
}

// Option configures an Engine.
type Option func(*Engine)

// WithEvaluator enables triple hybrid scoring with an external evaluator.
func WithEvaluator(ev Evaluator) Option {
	return func(e *Engine) { e.evaluator = ev }
}

// WithLogger sets the engine's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.logger = l.With().Str("component", "engine").Logger() }
}

// WithSuggestionLimit caps suggestions per platform after promotion.
func WithSuggestionLimit(n int) Option {
	return func(e *Engine) { e.suggestionLimit = n }
}

// WithPromotionThreshold sets the feature importance above which
// suggestions are promoted to very_high.
func WithPromotionThreshold(pct float64) Option {
	return func(e *Engine) { e.promoteAbove = pct }
}

// New creates an engine over the given analyzers and scorer.
func New(analyzers map[platform.Platform]scoring.PlatformAnalyzer, scorer MLScorer, opts ...Option) *Engine {
	e := &Engine{
		analyzers:       analyzers,
		scorer:          scorer,
		logger:          zerolog.Nop(),
		suggestionLimit: scoring.DefaultSuggestionLimit,
		promoteAbove:    suggest.ImportanceThreshold,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// With returns a copy of the engine with opts applied. The copy shares
// analyzers and scorer with e.
func (e *Engine) With(opts ...Option) *Engine {
	c := *e
	for _, opt := range opts {
		opt(&c)
	}
	return &c
}

// AnalyzeAll analyzes doc for every supported platform.
func (e *Engine) AnalyzeAll(ctx context.Context, doc *content.Document) (*Report, error) {
	return e.AnalyzePlatforms(ctx, doc, platform.Names())
}

// AnalyzePlatforms analyzes doc for the named platforms. Each platform
// fails independently: unknown names and per-platform errors are recorded
// in the report. Repeated names are analyzed once.
func (e *Engine) AnalyzePlatforms(ctx context.Context, doc *content.Document, names []string) (*Report, error) {
	start := time.Now()
	defer func() {
		metrics.AnalysisDuration.WithLabelValues("single").Observe(time.Since(start).Seconds())
	}()

	if doc == nil {
		doc = &content.Document{}
	}
	report := &Report{
		ID:                  uuid.New().String(),
		CreatedAt:           time.Now().UTC(),
		Platforms:           make([]PlatformReport, 0, len(names)),
		CommonOptimizations: []suggest.CommonOptimization{},
	}
	metricsByDoc := features.Extract(doc)
	seen := map[platform.Platform]bool{}

	for _, name := range names {
		p, err := platform.Parse(name)
		if err != nil {
			report.Platforms = append(report.Platforms, PlatformReport{Platform: name, Error: err.Error()})
			metrics.AnalysesTotal.WithLabelValues("unknown", "error").Inc()
			continue
		}
		if seen[p] {
			continue
		}
		seen[p] = true

		if err := ctx.Err(); err != nil {
			report.Partial = true
			report.Platforms = append(report.Platforms, PlatformReport{Platform: string(p), Error: err.Error()})
			continue
		}

		pr, err := e.analyzeOne(ctx, p, doc, metricsByDoc)
		if err != nil {
			e.logger.Warn().Str("platform", string(p)).Err(err).Msg("platform analysis failed")
			metrics.AnalysesTotal.WithLabelValues(string(p), "error").Inc()
			if ctx.Err() != nil {
				report.Partial = true
			}
			report.Platforms = append(report.Platforms, PlatformReport{Platform: string(p), Error: err.Error()})
			continue
		}
		metrics.AnalysesTotal.WithLabelValues(string(p), "ok").Inc()
		report.Platforms = append(report.Platforms, pr)
	}

	report.Summary = Summarize(report.Platforms)
	byPlatform := map[platform.Platform][]scoring.Suggestion{}
	for _, pr := range report.Successful() {
		byPlatform[pr.AnalyzerResult.Platform] = pr.Suggestions
	}
	report.CommonOptimizations = suggest.Common(byPlatform)

	e.logger.Debug().Str("report_id", report.ID).Int("analyzed", report.Summary.Analyzed).
		Int("failed", report.Summary.Failed).Dur("took", time.Since(start)).Msg("analysis complete")

	if report.Summary.Analyzed == 0 {
		return report, ErrNoValidPlatforms
	}
	return report, nil
}

func (e *Engine) analyzeOne(ctx context.Context, p platform.Platform, doc *content.Document, m features.Metrics) (PlatformReport, error) {
	a, ok := e.analyzers[p]
	if !ok {
		return PlatformReport{}, fmt.Errorf("no analyzer configured for %s", p)
	}
	result := a.Analyze(doc)

	vec, err := m.Select(p)
	if err != nil {
		return PlatformReport{}, err
	}
	mlScore, err := e.scorer.PredictVector(ctx, vec)
	if err != nil {
		return PlatformReport{}, fmt.Errorf("ml score: %w", err)
	}

	var ai *float64
	if e.evaluator != nil {
		ev, err := e.evaluator.Evaluate(ctx, doc.Text, p)
		switch {
		case err != nil:
			e.logger.Warn().Str("platform", string(p)).Err(err).Msg("evaluator failed, scoring without it")
		case ev != nil:
			ai = &ev.PlatformScore
		}
	}
	combined := combine.Combine(result.CompatibilityScore, mlScore, ai)

	importance, err := e.scorer.FeatureImportance(ctx, p)
	if err != nil {
		e.logger.Warn().Str("platform", string(p)).Err(err).Msg("feature importance unavailable")
		importance = nil
	}

	suggestions := suggest.Promote(a.Suggest(result), importance, e.promoteAbove)
	suggestions = scoring.Truncate(suggestions, e.suggestionLimit)

	return PlatformReport{
		Platform:          string(p),
		AnalyzerResult:    result,
		Result:            &combined,
		MLMode:            e.scorer.Mode(p),
		FeatureImportance: importance,
		Suggestions:       suggestions,
	}, nil
}

// BatchResult is one document's outcome in AnalyzeBatch.
type BatchResult struct {
	Index  int
	Report *Report
	Err    error
}

// AnalyzeBatch analyzes documents for the named platforms (all when names
// is empty) with at most workers concurrent analyses. Results are in input
// order. Per-document failures are reported in BatchResult.Err; the returned
// error is only set when ctx ends.
func (e *Engine) AnalyzeBatch(ctx context.Context, docs []*content.Document, names []string, workers int) ([]BatchResult, error) {
	start := time.Now()
	defer func() {
		metrics.AnalysisDuration.WithLabelValues("batch").Observe(time.Since(start).Seconds())
	}()

	if workers <= 0 {
		workers = 1
	}
	if len(names) == 0 {
		names = platform.Names()
	}
	results := make([]BatchResult, len(docs))
	var g errgroup.Group
	g.SetLimit(workers)

	for i, doc := range docs {
		if ctx.Err() != nil {
			results[i] = BatchResult{Index: i, Err: ctx.Err()}
			continue
		}
		g.Go(func() error {
			report, err := e.AnalyzePlatforms(ctx, doc, names)
			results[i] = BatchResult{Index: i, Report: report, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results, ctx.Err()
}
