package features_test

import (
	"errors"
	"testing"

	"github.com/citescope/citescope/pkg/content"
	"github.com/citescope/citescope/pkg/features"
	"github.com/citescope/citescope/pkg/platform"
)

func TestForPlatform(t *testing.T) {
	doc := content.FromCounts(
		"Step 1: Open it. Step 2: Close it.\n\n1. one\n2. two\n\nWhy? Because it works, for example here.",
		content.StructuralCounts{Lists: 1, Headings: 2, Images: 3},
	)

	v, err := features.ForPlatform(doc, platform.ChatGPT)
	if err != nil {
		t.Fatalf("ForPlatform: %v", err)
	}
	if len(v.Names) != len(v.Values) || len(v.Values) != 8 {
		t.Fatalf("expected 8 dimensions, got %d names / %d values", len(v.Names), len(v.Values))
	}

	want := map[string]float64{
		features.StepCount:     2,
		features.ListCount:     1,
		features.ListItemCount: 2,
		features.QuestionCount: 1,
		features.HeadingCount:  2,
		features.ExampleCount:  1,
	}
	for name, w := range want {
		got, ok := v.Get(name)
		if !ok {
			t.Errorf("missing feature %s", name)
			continue
		}
		if got != w {
			t.Errorf("%s = %v, want %v", name, got, w)
		}
	}

	gv, _ := features.ForPlatform(doc, platform.Gemini)
	if img, _ := gv.Get(features.ImageCount); img != 3 {
		t.Errorf("gemini image_count = %v, want 3", img)
	}
}

func TestForPlatform_Deterministic(t *testing.T) {
	doc := content.FromCounts("According to [1], 40% of sites updated in 2024.", content.StructuralCounts{ExternalLinks: 2})
	for _, p := range platform.All() {
		a, _ := features.ForPlatform(doc, p)
		b, _ := features.ForPlatform(doc, p)
		for i := range a.Values {
			if a.Values[i] != b.Values[i] {
				t.Errorf("%s: %s differs between runs", p, a.Names[i])
			}
		}
	}
}

func TestForPlatform_Unknown(t *testing.T) {
	_, err := features.ForPlatform(content.FromCounts("x", content.StructuralCounts{}), "mastodon-bot")
	if !errors.Is(err, platform.ErrUnknownPlatform) {
		t.Errorf("expected ErrUnknownPlatform, got %v", err)
	}
}

func TestExtract_Empty(t *testing.T) {
	m := features.Extract(content.FromCounts("", content.StructuralCounts{Images: 5}))
	for name, v := range m {
		if v != 0 {
			t.Errorf("%s = %v for empty document", name, v)
		}
	}
	// Every platform vector is still available
	for _, p := range platform.All() {
		if _, err := m.Select(p); err != nil {
			t.Errorf("%s: %v", p, err)
		}
	}
}
