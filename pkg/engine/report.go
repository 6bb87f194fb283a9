package engine

import (
	"sort"
	"time"

	"github.com/citescope/citescope/pkg/combine"
	"github.com/citescope/citescope/pkg/ml"
	"github.com/citescope/citescope/pkg/platform"
	"github.com/citescope/citescope/pkg/scoring"
	"github.com/citescope/citescope/pkg/suggest"
)

// Report is the result of analyzing one document for a set of platforms.
type Report struct {
	ID                  string                       `json:"id"`
	CreatedAt           time.Time                    `json:"created_at"`
	Platforms           []PlatformReport             `json:"platforms"`
	Summary             Summary                      `json:"summary"`
	CommonOptimizations []suggest.CommonOptimization `json:"common_optimizations"`
	// Partial is set when the context ended before every platform ran.
	Partial bool `json:"partial,omitempty"`
}

// PlatformReport holds one platform's outcome. Exactly one of Error or the
// embedded results is set.
type PlatformReport struct {
	Platform string `json:"platform"`
	Error    string `json:"error,omitempty"`

	*scoring.AnalyzerResult
	*combine.Result
	MLMode            ml.Mode              `json:"ml_mode,omitempty"`
	FeatureImportance map[string]float64   `json:"feature_importance,omitempty"`
	Suggestions       []scoring.Suggestion `json:"suggestions,omitempty"`
}

// OK reports whether the platform was analyzed successfully.
func (p *PlatformReport) OK() bool {
	return p.Error == "" && p.AnalyzerResult != nil && p.Result != nil
}

// Platform returns the report for the named platform, or nil.
func (r *Report) Platform(name string) *PlatformReport {
	for i := range r.Platforms {
		if r.Platforms[i].Platform == name {
			return &r.Platforms[i]
		}
	}
	return nil
}

// Successful returns the successfully analyzed platforms in report order.
func (r *Report) Successful() []*PlatformReport {
	var out []*PlatformReport
	for i := range r.Platforms {
		if r.Platforms[i].OK() {
			out = append(out, &r.Platforms[i])
		}
	}
	return out
}

// RankEntry is one row of the platform ranking.
type RankEntry struct {
	Platform   platform.Platform `json:"platform"`
	FinalScore float64           `json:"final_score"`
}

// Summary aggregates the successful platforms.
type Summary struct {
	AverageCompatibility float64           `json:"average_compatibility"`
	AverageML            float64           `json:"average_ml"`
	AverageHybrid        float64           `json:"average_hybrid"`
	AverageFinal         float64           `json:"average_final"`
	BestPlatform         platform.Platform `json:"best_platform,omitempty"`
	WorstPlatform        platform.Platform `json:"worst_platform,omitempty"`
	Ranking              []RankEntry       `json:"ranking"`
	ImprovementPotential float64           `json:"improvement_potential"`
	Analyzed             int               `json:"analyzed"`
	Failed               int               `json:"failed"`
}

// Summarize computes the summary over the successful platforms. Ties are
// broken by platform enumeration order.
func Summarize(platforms []PlatformReport) Summary {
	sum := Summary{Ranking: []RankEntry{}}

	var ok []*PlatformReport
	for i := range platforms {
		if platforms[i].OK() {
			ok = append(ok, &platforms[i])
		} else {
			sum.Failed++
		}
	}
	sum.Analyzed = len(ok)
	if len(ok) == 0 {
		return sum
	}
	sort.SliceStable(ok, func(i, j int) bool {
		return ok[i].AnalyzerResult.Platform.Ordinal() < ok[j].AnalyzerResult.Platform.Ordinal()
	})

	var comp, mlTotal, hybrid, final float64
	best, worst := ok[0], ok[0]
	for _, p := range ok {
		comp += p.CompatibilityScore
		mlTotal += p.MLScore
		hybrid += p.HybridScore
		final += p.FinalScore
		if p.FinalScore > best.FinalScore {
			best = p
		}
		if p.FinalScore < worst.FinalScore {
			worst = p
		}
		sum.Ranking = append(sum.Ranking, RankEntry{Platform: p.AnalyzerResult.Platform, FinalScore: p.FinalScore})
	}
	n := float64(len(ok))
	sum.AverageCompatibility = scoring.Round1(comp / n)
	sum.AverageML = scoring.Round1(mlTotal / n)
	sum.AverageHybrid = scoring.Round1(hybrid / n)
	sum.AverageFinal = scoring.Round1(final / n)
	sum.BestPlatform = best.AnalyzerResult.Platform
	sum.WorstPlatform = worst.AnalyzerResult.Platform
	sum.ImprovementPotential = scoring.Round1(best.FinalScore - worst.FinalScore)

	sort.SliceStable(sum.Ranking, func(i, j int) bool {
		return sum.Ranking[i].FinalScore > sum.Ranking[j].FinalScore
	})
	return sum
}
