package surface

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/citescope/citescope/pkg/engine"
	"github.com/citescope/citescope/pkg/scoring"
)

// TerminalRenderer renders a report as colored terminal output.
type TerminalRenderer struct{}

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

func levelColor(level scoring.OptimizationLevel) string {
	if noColor() {
		return ""
	}
	switch level {
	case scoring.LevelExcellent, scoring.LevelGood:
		return colorGreen
	case scoring.LevelAverage:
		return colorYellow
	case scoring.LevelNeedsWork, scoring.LevelPoor:
		return colorRed
	default:
		return ""
	}
}

func noColor() bool {
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}

func bold(s string) string {
	if noColor() {
		return s
	}
	return colorBold + s + colorReset
}

func dim(s string) string {
	if noColor() {
		return s
	}
	return colorDim + s + colorReset
}

func colored(s, color string) string {
	if noColor() || color == "" {
		return s
	}
	return color + s + colorReset
}

func (r *TerminalRenderer) Render(w io.Writer, report *engine.Report) error {
	s := report.Summary
	fmt.Fprintf(w, "%s\n\n", bold(fmt.Sprintf("Citescope: %d platforms analyzed, average %.1f", s.Analyzed, s.AverageFinal)))

	for i := range report.Platforms {
		renderPlatform(w, &report.Platforms[i])
	}

	if s.Analyzed > 0 {
		fmt.Fprintln(w, "Ranking:")
		for i, e := range s.Ranking {
			fmt.Fprintf(w, "  %d. %-8s %5.1f\n", i+1, e.Platform.DisplayName(), e.FinalScore)
		}
		fmt.Fprintf(w, "  Best %s, worst %s, improvement potential %.1f\n\n",
			bold(s.BestPlatform.DisplayName()), s.WorstPlatform.DisplayName(), s.ImprovementPotential)
	}

	if len(report.CommonOptimizations) > 0 {
		fmt.Fprintln(w, "Common optimizations:")
		for _, c := range report.CommonOptimizations {
			names := make([]string, len(c.Platforms))
			for i, p := range c.Platforms {
				names[i] = p.DisplayName()
			}
			fmt.Fprintf(w, "  • %s [%s] %s\n", c.Type, c.Priority, dim(strings.Join(names, ", ")))
		}
		fmt.Fprintln(w)
	}

	if report.Partial {
		fmt.Fprintln(w, colored("Analysis was interrupted; results are partial.", colorYellow))
	}
	return nil
}

func renderPlatform(w io.Writer, pr *engine.PlatformReport) {
	if !pr.OK() {
		fmt.Fprintf(w, "%s %s\n\n", colored("✗", colorRed), bold(pr.Platform)+": "+pr.Error)
		return
	}

	lc := levelColor(pr.OptimizationLevel)
	fmt.Fprintf(w, "%s — %s (%s)\n",
		bold(pr.AnalyzerResult.Platform.DisplayName()),
		colored(fmt.Sprintf("%.1f", pr.FinalScore), lc),
		colored(string(pr.OptimizationLevel), lc))
	fmt.Fprintf(w, "  traditional %.1f / ml %.1f (%s) / hybrid %.1f, confidence %s",
		pr.TraditionalScore, pr.MLScore, pr.MLMode, pr.HybridScore, pr.MLConfidence)
	if pr.AIScore != nil {
		fmt.Fprintf(w, " / ai %.1f", *pr.AIScore)
	}
	fmt.Fprintf(w, " [%s]\n", pr.ScoringMethod)

	for _, s := range pr.Strengths {
		fmt.Fprintf(w, "  %s %s\n", colored("+", colorGreen), s)
	}
	for _, s := range pr.Weaknesses {
		fmt.Fprintf(w, "  %s %s\n", colored("-", colorRed), s)
	}

	if top := topFeatures(pr.FeatureImportance, 3); len(top) > 0 {
		fmt.Fprintf(w, "  %s\n", dim("model drivers: "+strings.Join(top, ", ")))
	}

	if len(pr.Suggestions) > 0 {
		fmt.Fprintln(w, "  Suggested fixes:")
		for _, sg := range pr.Suggestions {
			fmt.Fprintf(w, "    • [%s] %s (+%.1f)\n", sg.Priority, sg.Description, sg.ExpectedImpact)
			for _, line := range wrapText(sg.ImplementationHint, 70) {
				fmt.Fprintf(w, "      %s\n", dim(line))
			}
			if sg.MLInsight != "" {
				fmt.Fprintf(w, "      %s\n", dim(sg.MLInsight))
			}
		}
	}
	fmt.Fprintln(w)
}

// topFeatures returns up to n features by descending importance.
func topFeatures(importance map[string]float64, n int) []string {
	names := make([]string, 0, len(importance))
	for k := range importance {
		names = append(names, k)
	}
	sort.Slice(names, func(i, j int) bool {
		if importance[names[i]] != importance[names[j]] {
			return importance[names[i]] > importance[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > n {
		names = names[:n]
	}
	out := make([]string, len(names))
	for i, k := range names {
		out[i] = fmt.Sprintf("%s %.1f%%", k, importance[k])
	}
	return out
}

// wrapText wraps a string at the given width, returning lines.
func wrapText(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]

	for _, word := range words[1:] {
		if len(current)+1+len(word) > width {
			lines = append(lines, current)
			current = word
		} else {
			current += " " + word
		}
	}
	lines = append(lines, current)
	return lines
}
