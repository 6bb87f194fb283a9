package engine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citescope/citescope/pkg/combine"
	"github.com/citescope/citescope/pkg/content"
	"github.com/citescope/citescope/pkg/engine"
	"github.com/citescope/citescope/pkg/ml"
	"github.com/citescope/citescope/pkg/platform"
	"github.com/citescope/citescope/pkg/scoring"
)

const espressoGuide = `Setting up espresso at home is easier than it looks. First, decide which drinks you want. Then follow the steps below. What do you need to get started? Which grinder should you buy?

Step 1: Choose a machine that fits your budget.

Step 2: Buy a burr grinder and a scale.

Step 3: Dial in the grind with a test shot.

Equipment checklist

1. Espresso machine
2. Burr grinder
3. Digital scale
4. Tamper
5. Milk jug

Daily routine

1. Warm up the machine
2. Weigh the beans
3. Grind and tamp
4. Pull the shot
5. Clean the group head`

func guideDoc() *content.Document {
	return content.FromCounts(espressoGuide, content.StructuralCounts{Lists: 2, Headings: 3})
}

func newEngine(t *testing.T, backend ml.Backend, opts ...engine.Option) *engine.Engine {
	t.Helper()
	analyzers, err := scoring.DefaultAnalyzers(nil)
	require.NoError(t, err)
	reg := ml.NewRegistry(ml.RegistryConfig{
		Provider: ml.SyntheticProvider{Seed: 42, Size: 300, Noise: 5},
		Backend:  backend,
	})
	return engine.New(analyzers, ml.NewScorer(reg), opts...)
}

type failingEvaluator struct{}

func (failingEvaluator) Evaluate(context.Context, string, platform.Platform) (*engine.Evaluation, error) {
	return nil, errors.New("evaluator offline")
}

func TestAnalyzeAll_StepGuide(t *testing.T) {
	e := newEngine(t, ml.RidgeBackend{L2: 1})

	report, err := e.AnalyzeAll(context.Background(), guideDoc())
	require.NoError(t, err)
	require.Len(t, report.Platforms, 4)
	assert.NotEmpty(t, report.ID)
	assert.False(t, report.Partial)

	for i, pr := range report.Platforms {
		require.True(t, pr.OK(), pr.Error)
		assert.Equal(t, platform.All()[i], pr.AnalyzerResult.Platform)
		for _, v := range []float64{pr.CompatibilityScore, pr.MLScore, pr.HybridScore, pr.FinalScore} {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 100.0)
		}
		assert.Equal(t, scoring.Round1((pr.TraditionalScore+pr.MLScore)/2), pr.HybridScore)
		assert.Equal(t, combine.MethodHybridML, pr.ScoringMethod)
		assert.Equal(t, ml.ModeModel, pr.MLMode)
		assert.NotEmpty(t, pr.FeatureImportance)
		assert.LessOrEqual(t, len(pr.Suggestions), scoring.DefaultSuggestionLimit)
	}

	chatgpt := report.Platform("chatgpt")
	require.NotNil(t, chatgpt)
	assert.Equal(t, 77.1, chatgpt.CompatibilityScore)
	assert.Equal(t, 3, chatgpt.DetailedScores["step_indicators"].Count)
	assert.GreaterOrEqual(t, chatgpt.OptimizationLevel.Rank(), scoring.LevelGood.Rank())

	s := report.Summary
	assert.Equal(t, 4, s.Analyzed)
	assert.Equal(t, 0, s.Failed)
	require.Len(t, s.Ranking, 4)
	for i := 1; i < len(s.Ranking); i++ {
		assert.GreaterOrEqual(t, s.Ranking[i-1].FinalScore, s.Ranking[i].FinalScore)
	}
	assert.Equal(t, s.Ranking[0].Platform, s.BestPlatform)
	assert.Equal(t, scoring.Round1(s.Ranking[0].FinalScore-s.Ranking[3].FinalScore), s.ImprovementPotential)
}

func TestAnalyzeAll_Deterministic(t *testing.T) {
	e := newEngine(t, ml.RidgeBackend{L2: 1})
	ctx := context.Background()

	a, err := e.AnalyzeAll(ctx, guideDoc())
	require.NoError(t, err)
	b, err := e.AnalyzeAll(ctx, guideDoc())
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, a.Platforms, b.Platforms)
	assert.Equal(t, a.Summary, b.Summary)
}

func TestAnalyzePlatforms_UnknownPlatformIsIsolated(t *testing.T) {
	e := newEngine(t, ml.RidgeBackend{L2: 1})

	report, err := e.AnalyzePlatforms(context.Background(), guideDoc(), []string{"chatgpt", "mastodon-bot", "Claude"})
	require.NoError(t, err)
	require.Len(t, report.Platforms, 3)

	bad := report.Platform("mastodon-bot")
	require.NotNil(t, bad)
	assert.Equal(t, "Unknown platform: mastodon-bot", bad.Error)
	assert.False(t, bad.OK())

	assert.True(t, report.Platform("chatgpt").OK())
	assert.True(t, report.Platform("claude").OK())
	assert.Equal(t, 2, report.Summary.Analyzed)
	assert.Equal(t, 1, report.Summary.Failed)
}

func TestAnalyzePlatforms_NoValidPlatforms(t *testing.T) {
	e := newEngine(t, ml.RidgeBackend{L2: 1})

	report, err := e.AnalyzePlatforms(context.Background(), guideDoc(), []string{"myspace", "friendster"})
	assert.ErrorIs(t, err, engine.ErrNoValidPlatforms)
	require.NotNil(t, report)
	assert.Len(t, report.Platforms, 2)
	assert.Empty(t, report.Summary.Ranking)
}

func TestAnalyzePlatforms_DuplicatesAnalyzedOnce(t *testing.T) {
	e := newEngine(t, ml.RidgeBackend{L2: 1})

	report, err := e.AnalyzePlatforms(context.Background(), guideDoc(), []string{"bing", "BING", " bing "})
	require.NoError(t, err)
	assert.Len(t, report.Platforms, 1)
}

func TestAnalyzeAll_WeakDocumentIsPoorForChatGPT(t *testing.T) {
	e := newEngine(t, ml.RidgeBackend{L2: 1})

	report, err := e.AnalyzeAll(context.Background(), content.FromCounts("Coffee is nice.", content.StructuralCounts{}))
	require.NoError(t, err)
	assert.Equal(t, scoring.LevelPoor, report.Platform("chatgpt").OptimizationLevel)
}

func TestAnalyzeAll_Evaluator(t *testing.T) {
	e := newEngine(t, ml.RidgeBackend{L2: 1}, engine.WithEvaluator(engine.StaticEvaluator{platform.ChatGPT: 50}))

	report, err := e.AnalyzeAll(context.Background(), guideDoc())
	require.NoError(t, err)

	chatgpt := report.Platform("chatgpt")
	assert.Equal(t, combine.MethodTripleHybrid, chatgpt.ScoringMethod)
	want := scoring.Round1(chatgpt.TraditionalScore*0.4 + chatgpt.MLScore*0.4 + 50*0.2)
	assert.Equal(t, want, chatgpt.FinalScore)

	assert.Equal(t, combine.MethodHybridML, report.Platform("claude").ScoringMethod)
}

func TestAnalyzeAll_EvaluatorFailureIsIgnored(t *testing.T) {
	e := newEngine(t, ml.RidgeBackend{L2: 1}, engine.WithEvaluator(failingEvaluator{}))

	report, err := e.AnalyzeAll(context.Background(), guideDoc())
	require.NoError(t, err)
	for _, pr := range report.Platforms {
		assert.Equal(t, combine.MethodHybridML, pr.ScoringMethod)
	}
}

func TestAnalyzeAll_FallbackWithoutBackend(t *testing.T) {
	e := newEngine(t, nil)

	report, err := e.AnalyzeAll(context.Background(), guideDoc())
	require.NoError(t, err)
	for _, pr := range report.Platforms {
		require.True(t, pr.OK())
		assert.Equal(t, ml.ModeFallback, pr.MLMode)
		assert.Empty(t, pr.FeatureImportance)
		assert.GreaterOrEqual(t, pr.MLScore, 0.0)
		assert.LessOrEqual(t, pr.MLScore, 100.0)
		assert.NotEmpty(t, pr.MLConfidence)
	}
}

func TestAnalyzeAll_CancelledContext(t *testing.T) {
	e := newEngine(t, ml.RidgeBackend{L2: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := e.AnalyzeAll(ctx, guideDoc())
	assert.ErrorIs(t, err, engine.ErrNoValidPlatforms)
	require.NotNil(t, report)
	assert.True(t, report.Partial)
	for _, pr := range report.Platforms {
		assert.Equal(t, context.Canceled.Error(), pr.Error)
	}
}

func TestAnalyzeAll_SuggestionLimit(t *testing.T) {
	e := newEngine(t, ml.RidgeBackend{L2: 1}, engine.WithSuggestionLimit(2))

	report, err := e.AnalyzeAll(context.Background(), content.FromCounts("Coffee is nice.", content.StructuralCounts{}))
	require.NoError(t, err)
	for _, pr := range report.Platforms {
		assert.Len(t, pr.Suggestions, 2)
	}
}

func TestAnalyzeBatch(t *testing.T) {
	e := newEngine(t, ml.RidgeBackend{L2: 1})
	docs := []*content.Document{
		guideDoc(),
		content.FromCounts("Short note.", content.StructuralCounts{}),
		nil,
	}

	results, err := e.AnalyzeBatch(context.Background(), docs, nil, 2)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i, r := range results {
		assert.Equal(t, i, r.Index)
		assert.NoError(t, r.Err)
		require.NotNil(t, r.Report)
		assert.Len(t, r.Report.Platforms, 4)
	}
	assert.Equal(t, 77.1, results[0].Report.Platform("chatgpt").CompatibilityScore)

	subset, err := e.AnalyzeBatch(context.Background(), docs[:1], []string{"gemini"}, 4)
	require.NoError(t, err)
	assert.Len(t, subset[0].Report.Platforms, 1)
}
