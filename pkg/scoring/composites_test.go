package scoring_test

import (
	"strings"
	"testing"

	"github.com/citescope/citescope/pkg/content"
	"github.com/citescope/citescope/pkg/scoring"
)

func evidence(text string, counts content.StructuralCounts) *scoring.Evidence {
	return scoring.NewEvidence(content.FromCounts(text, counts))
}

func TestStepDepthMetric(t *testing.T) {
	m := &scoring.StepDepthMetric{Share: 2, TargetSteps: 4, GapFactor: 0.5}

	tests := []struct {
		name string
		text string
		want float64
	}{
		{"none", "No steps here.", 0},
		{"sequential", "Step 1: a. Step 2: b.", 50},
		{"gap", "Step 1: a. Step 3: b.", 25},
		{"saturated", "Step 1: a. Step 2: b. Step 3: c. Step 4: d. Step 5: e.", 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Evaluate(evidence(tt.text, content.StructuralCounts{}))
			if got.Score != tt.want {
				t.Errorf("score = %.1f, want %.1f", got.Score, tt.want)
			}
		})
	}
}

func TestListStructureMetric(t *testing.T) {
	m := &scoring.ListStructureMetric{Share: 1, TargetItemsPerList: 5}
	items := "1. a\n2. b\n3. c\n4. d\n5. e"

	if got := m.Evaluate(evidence(items, content.StructuralCounts{Lists: 1})); got.Score != 100 || got.Count != 5 {
		t.Errorf("one full list: got %+v", got)
	}
	if got := m.Evaluate(evidence(items, content.StructuralCounts{Lists: 2})); got.Score != 50 {
		t.Errorf("two half lists: got %.1f, want 50", got.Score)
	}
	// List-like lines without list markup are capped
	if got := m.Evaluate(evidence(items, content.StructuralCounts{})); got.Score != 40 {
		t.Errorf("unmarked items: got %.1f, want 40", got.Score)
	}
}

func TestCitationDensityMetric(t *testing.T) {
	m := &scoring.CitationDensityMetric{Share: 1, PerWords: 500, TargetDensity: 3}
	text := strings.Repeat("word ", 497) + "[1] [2] [3]"

	got := m.Evaluate(evidence(text, content.StructuralCounts{}))
	if got.Count != 3 || got.Score != 100 {
		t.Errorf("expected full density, got %+v", got)
	}

	got = m.Evaluate(evidence(text, content.StructuralCounts{ExternalLinks: 3}))
	if got.Count != 6 {
		t.Errorf("external links should count as references, got %d", got.Count)
	}
}

func TestFreshnessMetric(t *testing.T) {
	m := &scoring.FreshnessMetric{Share: 1}

	if got := m.Evaluate(evidence("Nothing dated.", content.StructuralCounts{})); got.Score != 0 {
		t.Errorf("undated: got %.1f", got.Score)
	}
	if got := m.Evaluate(evidence("Prices as of 2024.", content.StructuralCounts{})); got.Score != 35 {
		t.Errorf("one year: got %.1f, want 35", got.Score)
	}
	// "Updated" counts as a date marker and as an update note
	if got := m.Evaluate(evidence("Updated March 2025.", content.StructuralCounts{})); got.Score != 100 {
		t.Errorf("updated with year: got %.1f, want 100", got.Score)
	}
}

func TestMultimodalAndStructuredData(t *testing.T) {
	ev := evidence("Some text.", content.StructuralCounts{Images: 2, Tables: 1, SchemaBlocks: 1, Lists: 1})

	if got := (&scoring.MultimodalMetric{Share: 1}).Evaluate(ev); got.Score != 60 {
		t.Errorf("multimodal: got %.1f, want 60", got.Score)
	}
	if got := (&scoring.StructuredDataMetric{Share: 1}).Evaluate(ev); got.Score != 50 {
		t.Errorf("structured data: got %.1f, want 50", got.Score)
	}
}

func TestBalancedReasoningMetric(t *testing.T) {
	m := &scoring.BalancedReasoningMetric{Share: 1}
	text := "This works because of caching. Therefore it is fast. However, memory grows. Although rare, limitations exist."

	got := m.Evaluate(evidence(text, content.StructuralCounts{}))
	// 2 reasoning markers (25) and 3 nuance markers (50)
	if got.Count != 5 || got.Score != 75 {
		t.Errorf("got %+v", got)
	}
}
