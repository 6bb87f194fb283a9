package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/citescope/citescope/pkg/content"
	"github.com/citescope/citescope/pkg/engine"
	"github.com/citescope/citescope/pkg/platform"
	"github.com/citescope/citescope/pkg/surface"
)

type analyzeOpts struct {
	input     string
	platforms []string
	aiScores  []string
	outputFmt string
	baseURL   string
	workers   int
}

func newAnalyzeCmd(g *globalOpts) *cobra.Command {
	var opts analyzeOpts

	cmd := &cobra.Command{
		Use:   "analyze <file>...",
		Short: "Score content for every platform",
		Long: `Scores one or more files (HTML, extracted JSON documents or plain text) and
prints per-platform scores, a summary and suggestions. Use "-" to read stdin.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd.Context(), g, opts, args, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.input, "input", inputAuto, "Input format: auto, html, json or text")
	cmd.Flags().StringSliceVar(&opts.platforms, "platform", nil, "Platforms to analyze (default: all)")
	cmd.Flags().StringArrayVar(&opts.aiScores, "ai-score", nil, "External AI evaluator score as platform=score (repeatable)")
	cmd.Flags().StringVar(&opts.outputFmt, "output", "text", "Output format: text, json or markdown")
	cmd.Flags().StringVar(&opts.baseURL, "base-url", "", "Page URL, used to tell external links from internal ones")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "Concurrent analyses for multiple files (default: from config)")

	return cmd
}

func runAnalyze(ctx context.Context, g *globalOpts, opts analyzeOpts, paths []string, stdin io.Reader, out io.Writer) error {
	renderer, err := surface.ForFormat(opts.outputFmt)
	if err != nil {
		return err
	}
	evaluator, err := parseAIScores(opts.aiScores)
	if err != nil {
		return err
	}

	docs := make([]*content.Document, len(paths))
	for i, p := range paths {
		doc, err := readDocument(p, opts.input, opts.baseURL, stdin)
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		docs[i] = doc
	}

	a, cfg, _, err := openApp(ctx, g)
	if err != nil {
		return err
	}
	defer a.Close()

	eng := a.Engine
	if len(evaluator) > 0 {
		eng = eng.With(engine.WithEvaluator(evaluator))
	}
	names := opts.platforms
	if len(names) == 0 {
		names = platform.Names()
	}

	if len(docs) == 1 {
		report, err := eng.AnalyzePlatforms(ctx, docs[0], names)
		if report != nil {
			if rerr := renderer.Render(out, report); rerr != nil {
				return rerr
			}
		}
		return err
	}

	workers := opts.workers
	if workers <= 0 {
		workers = cfg.Engine.Workers
	}
	results, err := eng.AnalyzeBatch(ctx, docs, names, workers)
	if err != nil {
		return err
	}

	var errs []error
	for _, res := range results {
		if _, ok := renderer.(*surface.TerminalRenderer); ok {
			fmt.Fprintf(out, "==> %s\n", paths[res.Index])
		}
		if res.Report != nil {
			if err := renderer.Render(out, res.Report); err != nil {
				return err
			}
		}
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", paths[res.Index], res.Err))
		}
	}
	return errors.Join(errs...)
}
