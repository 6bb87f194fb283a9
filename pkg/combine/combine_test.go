package combine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestConfidenceBands(t *testing.T) {
	tests := []struct {
		name        string
		traditional float64
		ml          float64
		want        Confidence
	}{
		{"diff 9", 70, 61, ConfidenceHigh},
		{"diff 10 is medium", 70, 60, ConfidenceMedium},
		{"diff 19.9", 70, 50.1, ConfidenceMedium},
		{"diff 20 is low", 70, 50, ConfidenceLow},
		{"diff 21", 70, 49, ConfidenceLow},
		{"order does not matter", 49, 70, ConfidenceLow},
		{"equal", 42, 42, ConfidenceHigh},
		// 9.96 rounds to 10.0 before banding.
		{"rounded up into medium", 70, 60.04, ConfidenceMedium},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConfidenceFor(tt.traditional, tt.ml))
		})
	}
}

func TestCombine_Hybrid(t *testing.T) {
	r := Combine(77.1, 64.3, nil)
	assert.Equal(t, 70.7, r.HybridScore)
	assert.Equal(t, r.HybridScore, r.FinalScore)
	assert.Equal(t, MethodHybridML, r.ScoringMethod)
	assert.Equal(t, ConfidenceMedium, r.MLConfidence)
	assert.Nil(t, r.AIScore)
}

func TestCombine_TripleHybrid(t *testing.T) {
	r := Combine(80, 60, ptr(50))
	assert.Equal(t, 66.0, r.FinalScore)
	assert.Equal(t, 70.0, r.HybridScore)
	assert.Equal(t, MethodTripleHybrid, r.ScoringMethod)
	require.NotNil(t, r.AIScore)
	assert.Equal(t, 50.0, *r.AIScore)
}

func TestCombine_NaNEvaluatorIgnored(t *testing.T) {
	r := Combine(80, 60, ptr(math.NaN()))
	assert.Equal(t, MethodHybridML, r.ScoringMethod)
	assert.Equal(t, 70.0, r.FinalScore)
}

func TestCombine_Clamped(t *testing.T) {
	r := Combine(140, -20, ptr(300))
	assert.Equal(t, 100.0, r.TraditionalScore)
	assert.Equal(t, 0.0, r.MLScore)
	assert.Equal(t, 50.0, r.HybridScore)
	assert.Equal(t, ConfidenceLow, r.MLConfidence)
	assert.Equal(t, 60.0, r.FinalScore)
}

func TestCombine_HybridIsRoundedMean(t *testing.T) {
	for trad := 0.0; trad <= 100; trad += 7.3 {
		for ml := 0.0; ml <= 100; ml += 11.1 {
			r := Combine(trad, ml, nil)
			want := math.Round((r.TraditionalScore+r.MLScore)/2*10) / 10
			assert.Equal(t, want, r.HybridScore, "trad=%v ml=%v", trad, ml)
			assert.GreaterOrEqual(t, r.FinalScore, 0.0)
			assert.LessOrEqual(t, r.FinalScore, 100.0)
		}
	}
}
