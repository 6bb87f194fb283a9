package surface

import (
	"fmt"
	"io"
	"strings"

	"github.com/citescope/citescope/pkg/engine"
	"github.com/citescope/citescope/pkg/scoring"
)

// MarkdownRenderer renders a report as a Markdown summary, suitable for a
// PR comment or a wiki page.
type MarkdownRenderer struct{}

func (r *MarkdownRenderer) Render(w io.Writer, report *engine.Report) error {
	_, err := io.WriteString(w, BuildMarkdown(report))
	return err
}

// BuildMarkdown returns the Markdown summary of a report.
func BuildMarkdown(report *engine.Report) string {
	var sb strings.Builder
	s := report.Summary

	sb.WriteString(fmt.Sprintf("## Citescope: average %.1f across %d platforms\n\n", s.AverageFinal, s.Analyzed))

	sb.WriteString("### Scores\n\n")
	sb.WriteString("| Platform | Final | Traditional | ML | Confidence | Level |\n")
	sb.WriteString("|----------|-------|-------------|----|------------|-------|\n")
	for i := range report.Platforms {
		pr := &report.Platforms[i]
		if !pr.OK() {
			sb.WriteString(fmt.Sprintf("| %s | — | — | — | — | %s |\n", pr.Platform, pr.Error))
			continue
		}
		sb.WriteString(fmt.Sprintf("| %s | %.1f | %.1f | %.1f | %s | %s %s |\n",
			pr.AnalyzerResult.Platform.DisplayName(), pr.FinalScore, pr.TraditionalScore, pr.MLScore,
			pr.MLConfidence, levelIcon(pr.OptimizationLevel), pr.OptimizationLevel))
	}
	sb.WriteString("\n")

	if s.Analyzed > 0 {
		sb.WriteString(fmt.Sprintf("Best: **%s**, worst: **%s**, improvement potential %.1f\n\n",
			s.BestPlatform.DisplayName(), s.WorstPlatform.DisplayName(), s.ImprovementPotential))
	}

	// Top 3 suggestions per platform
	sb.WriteString("### Suggestions\n\n")
	wrote := false
	for i := range report.Platforms {
		pr := &report.Platforms[i]
		if !pr.OK() || len(pr.Suggestions) == 0 {
			continue
		}
		wrote = true
		sb.WriteString(fmt.Sprintf("**%s**\n\n", pr.AnalyzerResult.Platform.DisplayName()))
		max := 3
		if len(pr.Suggestions) < max {
			max = len(pr.Suggestions)
		}
		for _, sg := range pr.Suggestions[:max] {
			sb.WriteString(fmt.Sprintf("- %s %s (+%.1f)\n", priorityLabel(sg.Priority), sg.Description, sg.ExpectedImpact))
		}
		sb.WriteString("\n")
	}
	if !wrote {
		sb.WriteString("_No suggestions._\n\n")
	}

	if len(report.CommonOptimizations) > 0 {
		sb.WriteString("### Common optimizations\n\n")
		for _, c := range report.CommonOptimizations {
			sb.WriteString(fmt.Sprintf("- **%s** (%d platforms, avg +%.1f): %s\n",
				c.Type, len(c.Platforms), c.AverageImpact, c.Description))
		}
	}
	return sb.String()
}

func levelIcon(level scoring.OptimizationLevel) string {
	switch level {
	case scoring.LevelExcellent, scoring.LevelGood:
		return ":green_circle:"
	case scoring.LevelAverage:
		return ":yellow_circle:"
	case scoring.LevelNeedsWork:
		return ":orange_circle:"
	default:
		return ":red_circle:"
	}
}

func priorityLabel(p scoring.Priority) string {
	switch p {
	case scoring.PriorityVeryHigh:
		return "**VERY HIGH**"
	case scoring.PriorityHigh:
		return "**HIGH**"
	case scoring.PriorityMedium:
		return "MEDIUM"
	default:
		return "LOW"
	}
}
