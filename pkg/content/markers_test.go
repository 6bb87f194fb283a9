package content_test

import (
	"testing"

	"github.com/citescope/citescope/pkg/content"
)

func TestCountMarkers(t *testing.T) {
	text := `Step 1: Open the app. Step 2: Sign up for an account.
Step 2) Confirm the email.

What is a token? A token refers to a credential, for example an API key.

1. First item
2. Second item
- bullet

According to the 2024 report, 45% of users churn [1]. However, this varies because plans differ.`

	m := content.FromCounts(text, content.StructuralCounts{}).CountMarkers()

	checks := []struct {
		name string
		got  int
		want int
	}{
		{"steps", m.Steps, 3},
		{"distinct steps", len(m.StepNumbers), 2},
		{"list items", m.ListItems, 3},
		{"questions", m.Questions, 1},
		{"citations", m.Citations, 2},
		{"statistics", m.Statistics, 1},
		{"dates", m.Dates, 1},
		{"definitions", m.Definitions, 1},
		{"examples", m.Examples, 1},
		{"ctas", m.CTAs, 1},
		{"reasoning", m.Reasoning, 1},
		{"nuance", m.Nuance, 1},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s: got %d, want %d", c.name, c.got, c.want)
		}
	}
	if !m.SequentialSteps() {
		t.Errorf("steps %v should be sequential", m.StepNumbers)
	}
}

func TestSequentialSteps_Gap(t *testing.T) {
	m := content.FromCounts("Step 1: a. Step 3: c.", content.StructuralCounts{}).CountMarkers()
	if m.SequentialSteps() {
		t.Error("1,3 should not be sequential")
	}
	if (content.Markers{}).SequentialSteps() {
		t.Error("no steps should not be sequential")
	}
}
