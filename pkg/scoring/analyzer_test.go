package scoring_test

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/citescope/citescope/pkg/content"
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

func analyzer(t *testing.T, p platform.Platform) *scoring.Analyzer {
	t.Helper()
	table, err := scoring.DefaultTable(p)
	if err != nil {
		t.Fatalf("DefaultTable(%s): %v", p, err)
	}
	a, err := scoring.NewAnalyzer(table)
	if err != nil {
		t.Fatalf("NewAnalyzer(%s): %v", p, err)
	}
	return a
}

func TestAnalyze_StepListDocumentIsGoodForChatGPT(t *testing.T) {
	result := analyzer(t, platform.ChatGPT).Analyze(guideDoc())

	steps := result.DetailedScores["step_indicators"]
	if steps.Count != 3 {
		t.Errorf("expected 3 step indicators, got %d", steps.Count)
	}
	if len(steps.Examples) != 3 || steps.Examples[0] != "Step 1:" {
		t.Errorf("unexpected examples %q", steps.Examples)
	}
	if result.OptimizationLevel.Rank() < scoring.LevelGood.Rank() {
		t.Errorf("expected at least Good, got %s (%.1f)", result.OptimizationLevel, result.CompatibilityScore)
	}
	if result.CompatibilityScore != 77.1 {
		t.Errorf("expected score 77.1, got %.1f", result.CompatibilityScore)
	}

	found := false
	for _, s := range result.Strengths {
		if s == "Strong step-by-step markers (3 found)" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected step strength, got %v", result.Strengths)
	}
	if len(result.Weaknesses) != 0 {
		t.Errorf("expected no weaknesses, got %v", result.Weaknesses)
	}
}

func TestAnalyze_WeakDocumentIsPoor(t *testing.T) {
	doc := content.FromCounts("Just a quick note.", content.StructuralCounts{})

	for _, p := range platform.All() {
		result := analyzer(t, p).Analyze(doc)
		if result.OptimizationLevel != scoring.LevelPoor {
			t.Errorf("%s: expected Poor, got %s (%.1f)", p, result.OptimizationLevel, result.CompatibilityScore)
		}
	}

	result := analyzer(t, platform.ChatGPT).Analyze(doc)
	if result.DetailedScores["missing_structure"].Score != 100 {
		t.Errorf("expected missing_structure penalty, got %+v", result.DetailedScores["missing_structure"])
	}
	if result.CompatibilityScore != 0 {
		t.Errorf("penalties should clamp the score at 0, got %.1f", result.CompatibilityScore)
	}
}

func TestAnalyze_EmptyText(t *testing.T) {
	for _, text := range []string{"", "   \n\t "} {
		for _, p := range platform.All() {
			result := analyzer(t, p).Analyze(content.FromCounts(text, content.StructuralCounts{Images: 4}))
			if result.CompatibilityScore != 0 {
				t.Errorf("%s: expected 0, got %.1f", p, result.CompatibilityScore)
			}
			if len(result.DetailedScores) != 0 {
				t.Errorf("%s: expected empty detail, got %d entries", p, len(result.DetailedScores))
			}
			if result.OptimizationLevel != scoring.LevelPoor {
				t.Errorf("%s: expected Poor, got %s", p, result.OptimizationLevel)
			}
		}
	}
}

func TestAnalyze_MonotonicInStepMarkers(t *testing.T) {
	a := analyzer(t, platform.ChatGPT)

	var b strings.Builder
	b.WriteString("Brewing tea takes a few minutes.")
	prev := a.Analyze(content.FromCounts(b.String(), content.StructuralCounts{Lists: 1})).CompatibilityScore

	for i := 1; i <= 6; i++ {
		fmt.Fprintf(&b, "\n\nStep %d: Do task number %d.", i, i)
		score := a.Analyze(content.FromCounts(b.String(), content.StructuralCounts{Lists: 1})).CompatibilityScore
		if score < prev {
			t.Fatalf("adding step %d lowered the score from %.1f to %.1f", i, prev, score)
		}
		prev = score
	}
}

func TestAnalyze_ScoresBounded(t *testing.T) {
	docs := []*content.Document{
		guideDoc(),
		content.FromCounts(strings.Repeat("word ", 2000), content.StructuralCounts{}),
		content.FromCounts(strings.Repeat("Step 1: go. According to [1] 50% in 2024? ", 200),
			content.StructuralCounts{ExternalLinks: 50, Images: 50, Lists: 50, Tables: 50, Headings: 50, SchemaBlocks: 50}),
	}

	for _, p := range platform.All() {
		a := analyzer(t, p)
		for i, doc := range docs {
			r := a.Analyze(doc)
			if r.CompatibilityScore < 0 || r.CompatibilityScore > 100 {
				t.Errorf("%s doc %d: score %.1f out of range", p, i, r.CompatibilityScore)
			}
			for key, ss := range r.DetailedScores {
				if ss.Score < 0 || ss.Score > 100 {
					t.Errorf("%s doc %d: %s score %.1f out of range", p, i, key, ss.Score)
				}
				if len(ss.Examples) > 3 {
					t.Errorf("%s doc %d: %s has %d examples", p, i, key, len(ss.Examples))
				}
			}
		}
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	a := analyzer(t, platform.Bing)
	doc := guideDoc()
	want := a.Analyze(doc)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := a.Analyze(doc)
			if got.CompatibilityScore != want.CompatibilityScore {
				t.Errorf("concurrent analysis diverged: %.1f vs %.1f", got.CompatibilityScore, want.CompatibilityScore)
			}
		}()
	}
	wg.Wait()
}

func TestNewAnalyzer_InvalidTables(t *testing.T) {
	base := scoring.SignalWeightTable{
		Platform: platform.ChatGPT,
		Signals:  []scoring.Signal{{Key: "headings", Name: "Headings", Source: scoring.SourceHeadings, Weight: 1, Saturation: 1}},
	}

	tests := []struct {
		name   string
		mutate func(t *scoring.SignalWeightTable)
	}{
		{"bad regex", func(t *scoring.SignalWeightTable) {
			t.Signals = append(t.Signals, scoring.Signal{Key: "bad", Patterns: []string{"("}, Weight: 1, Saturation: 1})
		}},
		{"zero weight", func(t *scoring.SignalWeightTable) { t.Signals[0].Weight = 0 }},
		{"zero saturation", func(t *scoring.SignalWeightTable) { t.Signals[0].Saturation = 0 }},
		{"duplicate key", func(t *scoring.SignalWeightTable) {
			t.Penalties = []scoring.Penalty{{Key: "headings", Kind: scoring.PenaltyMissingMedia, Weight: 1}}
		}},
		{"nothing to count", func(t *scoring.SignalWeightTable) {
			t.Signals = append(t.Signals, scoring.Signal{Key: "empty", Weight: 1, Saturation: 1})
		}},
		{"unknown platform", func(t *scoring.SignalWeightTable) { t.Platform = "mastodon-bot" }},
	}

	if _, err := scoring.NewAnalyzer(base); err != nil {
		t.Fatalf("base table should compile: %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := base
			table.Signals = append([]scoring.Signal(nil), base.Signals...)
			tt.mutate(&table)
			if _, err := scoring.NewAnalyzer(table); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestWithWeights(t *testing.T) {
	table, _ := scoring.DefaultTable(platform.ChatGPT)

	heavier, err := table.WithWeights(map[string]float64{"step_indicators": 10})
	if err != nil {
		t.Fatalf("WithWeights: %v", err)
	}
	if table.Signals[0].Weight != 3 {
		t.Error("WithWeights must not modify the original table")
	}

	a, _ := scoring.NewAnalyzer(table)
	b, _ := scoring.NewAnalyzer(heavier)
	doc := guideDoc()
	if b.Analyze(doc).CompatibilityScore <= a.Analyze(doc).CompatibilityScore {
		t.Error("raising the weight of a saturated signal should raise the score")
	}

	if _, err := table.WithWeights(map[string]float64{"no_such_signal": 1}); err == nil {
		t.Error("expected error for unknown signal key")
	}
}

func TestDefaultAnalyzers(t *testing.T) {
	analyzers, err := scoring.DefaultAnalyzers(nil)
	if err != nil {
		t.Fatalf("DefaultAnalyzers: %v", err)
	}
	if len(analyzers) != 4 {
		t.Fatalf("expected 4 analyzers, got %d", len(analyzers))
	}
	for _, p := range platform.All() {
		if analyzers[p].Platform() != p {
			t.Errorf("analyzer for %s reports %s", p, analyzers[p].Platform())
		}
	}

	if _, err := scoring.DefaultAnalyzers(map[string]map[string]float64{"mastodon-bot": {"x": 1}}); err == nil {
		t.Error("expected error for unknown platform override")
	}
}

func TestLevelFromScore(t *testing.T) {
	tests := []struct {
		score float64
		want  scoring.OptimizationLevel
	}{
		{100, scoring.LevelExcellent},
		{85, scoring.LevelExcellent},
		{84.9, scoring.LevelGood},
		{70, scoring.LevelGood},
		{50, scoring.LevelAverage},
		{30, scoring.LevelNeedsWork},
		{29.9, scoring.LevelPoor},
		{0, scoring.LevelPoor},
	}
	for _, tt := range tests {
		if got := scoring.LevelFromScore(tt.score); got != tt.want {
			t.Errorf("LevelFromScore(%.1f) = %s, want %s", tt.score, got, tt.want)
		}
	}
}
