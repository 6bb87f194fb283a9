package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citescope/citescope/pkg/features"
	"github.com/citescope/citescope/pkg/platform"
	"github.com/citescope/citescope/pkg/scoring"
)

func sug(typ string, prio scoring.Priority, impact float64) scoring.Suggestion {
	return scoring.Suggestion{Type: typ, Priority: prio, Description: typ + " help", ExpectedImpact: impact}
}

func TestCommon(t *testing.T) {
	by := map[platform.Platform][]scoring.Suggestion{
		platform.ChatGPT: {sug("headings", scoring.PriorityHigh, 60), sug("examples", scoring.PriorityLow, 10)},
		platform.Claude:  {sug("headings", scoring.PriorityHigh, 40), sug("citations", scoring.PriorityHigh, 70)},
		platform.Gemini:  {sug("headings", scoring.PriorityMedium, 20)},
		platform.Bing:    {sug("citations", scoring.PriorityHigh, 50)},
	}

	got := Common(by)
	require.Len(t, got, 2)

	assert.Equal(t, "headings", got[0].Type)
	assert.Equal(t, []platform.Platform{platform.ChatGPT, platform.Claude, platform.Gemini}, got[0].Platforms)
	assert.Equal(t, scoring.PriorityHigh, got[0].Priority)
	assert.Equal(t, 40.0, got[0].AverageImpact)

	assert.Equal(t, "citations", got[1].Type)
	assert.Equal(t, scoring.PriorityMedium, got[1].Priority)
	assert.Equal(t, 60.0, got[1].AverageImpact)
}

func TestCommon_Empty(t *testing.T) {
	got := Common(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	single := Common(map[platform.Platform][]scoring.Suggestion{
		platform.Bing: {sug("faq", scoring.PriorityHigh, 50), sug("faq", scoring.PriorityHigh, 50)},
	})
	assert.Empty(t, single, "repeats within one platform are not common")
}

func TestPromote(t *testing.T) {
	in := []scoring.Suggestion{
		sug("headings", scoring.PriorityHigh, 60),
		sug("step_indicators", scoring.PriorityLow, 20),
		sug("examples", scoring.PriorityMedium, 30),
	}
	imp := map[string]float64{
		features.StepCount:    26.4,
		features.HeadingCount: 15.0,
		features.ExampleCount: 4.2,
	}

	out := Promote(in, imp, ImportanceThreshold)
	require.Len(t, out, 3)
	assert.Equal(t, "step_indicators", out[0].Type)
	assert.Equal(t, scoring.PriorityVeryHigh, out[0].Priority)
	assert.Contains(t, out[0].MLInsight, "26.4%")

	// Exactly at the threshold is not promoted.
	assert.Equal(t, "headings", out[1].Type)
	assert.Equal(t, scoring.PriorityHigh, out[1].Priority)
	assert.Empty(t, out[1].MLInsight)

	assert.Equal(t, scoring.PriorityLow, in[1].Priority, "input must not change")
}

func TestPromote_NoImportance(t *testing.T) {
	in := []scoring.Suggestion{sug("headings", scoring.PriorityHigh, 60)}
	assert.Equal(t, in, Promote(in, map[string]float64{}, ImportanceThreshold))
}

func TestFeatureForType_MapsToKnownFeatures(t *testing.T) {
	known := map[string]bool{}
	for _, p := range platform.All() {
		names, err := features.Names(p)
		require.NoError(t, err)
		for _, n := range names {
			known[n] = true
		}
	}
	for typ := range typeFeatures {
		f, ok := FeatureForType(typ)
		require.True(t, ok)
		assert.True(t, known[f], "%s maps to %s which no platform vector uses", typ, f)
	}

	_, ok := FeatureForType("conversational_tone")
	assert.False(t, ok)
}
