package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/citescope/citescope/pkg/ml"
	"github.com/citescope/citescope/pkg/platform"
)

func newModelCmd(g *globalOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "model",
		Short: "Train, inspect and retrain the per-platform models",
	}
	cmd.AddCommand(
		newModelTrainCmd(g),
		newModelImportanceCmd(g),
		newModelRetrainCmd(g),
	)
	return cmd
}

func newModelTrainCmd(g *globalOpts) *cobra.Command {
	var (
		platforms []string
		force     bool
	)

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Load or train every platform model and persist it",
		Long: `Loads each platform's model from the model store, training and persisting
it when absent. With --force, models are rebuilt from the training data
provider even when a stored model exists.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModelTrain(cmd.Context(), g, platforms, force, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringSliceVar(&platforms, "platform", nil, "Platforms to train (default: all)")
	cmd.Flags().BoolVar(&force, "force", false, "Rebuild models even if stored ones exist")

	return cmd
}

func runModelTrain(ctx context.Context, g *globalOpts, names []string, force bool, out io.Writer) error {
	ps, err := parsePlatforms(names)
	if err != nil {
		return err
	}
	a, _, _, err := openApp(ctx, g)
	if err != nil {
		return err
	}
	defer a.Close()

	for _, p := range ps {
		if force {
			if err := a.Registry.Rebuild(ctx, p); err != nil {
				return err
			}
		} else if _, err := a.Registry.Model(ctx, p); err != nil {
			return err
		}

		state := a.Registry.State(p)
		if reason := a.Registry.FallbackReason(p); reason != nil {
			fmt.Fprintf(out, "%-12s %s (%v)\n", p.DisplayName(), state, reason)
			continue
		}
		fmt.Fprintf(out, "%-12s %s\n", p.DisplayName(), state)
	}
	return nil
}

func newModelImportanceCmd(g *globalOpts) *cobra.Command {
	var (
		platforms []string
		outputFmt string
	)

	cmd := &cobra.Command{
		Use:   "importance",
		Short: "Print each platform model's feature importance",
		RunE: func(cmd *cobra.Command, args []string) error {
			ps, err := parsePlatforms(platforms)
			if err != nil {
				return err
			}
			a, _, _, err := openApp(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer a.Close()

			result := map[platform.Platform]map[string]float64{}
			for _, p := range ps {
				imp, err := a.Scorer.FeatureImportance(cmd.Context(), p)
				if err != nil {
					return err
				}
				result[p] = imp
			}
			return writeImportance(cmd.OutOrStdout(), ps, result, outputFmt)
		},
	}

	cmd.Flags().StringSliceVar(&platforms, "platform", nil, "Platforms to show (default: all)")
	cmd.Flags().StringVar(&outputFmt, "output", "text", "Output format: text or json")

	return cmd
}

func writeImportance(w io.Writer, ps []platform.Platform, result map[platform.Platform]map[string]float64, outputFmt string) error {
	if outputFmt == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, p := range ps {
		imp := result[p]
		fmt.Fprintf(tw, "%s\n", p.DisplayName())
		if len(imp) == 0 {
			fmt.Fprintln(tw, "  (heuristic fallback, no model)")
			continue
		}
		names := make([]string, 0, len(imp))
		for n := range imp {
			names = append(names, n)
		}
		sort.Slice(names, func(i, j int) bool {
			if imp[names[i]] != imp[names[j]] {
				return imp[names[i]] > imp[names[j]]
			}
			return names[i] < names[j]
		})
		for _, n := range names {
			fmt.Fprintf(tw, "  %s\t%5.1f%%\n", n, imp[n])
		}
	}
	return tw.Flush()
}

func newModelRetrainCmd(g *globalOpts) *cobra.Command {
	var (
		platformName string
		examplesPath string
	)

	cmd := &cobra.Command{
		Use:   "retrain",
		Short: "Refit a platform model with additional labeled examples",
		Long: `Reads a JSON array of {"features": [...], "target": N} examples, in the
platform's feature order (see "citescope features"), appends them to the
training set and refits the model.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := platform.Parse(platformName)
			if err != nil {
				return err
			}
			examples, err := loadExamples(examplesPath)
			if err != nil {
				return err
			}

			a, _, _, err := openApp(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Scorer.Retrain(cmd.Context(), p, examples); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Retrained %s with %d examples\n", p.DisplayName(), len(examples))
			return nil
		},
	}

	cmd.Flags().StringVar(&platformName, "platform", "", "Platform to retrain (required)")
	cmd.Flags().StringVar(&examplesPath, "examples", "", "Path to examples JSON (required)")
	_ = cmd.MarkFlagRequired("platform")
	_ = cmd.MarkFlagRequired("examples")

	return cmd
}

func loadExamples(path string) ([]ml.Example, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading examples: %w", err)
	}
	var examples []ml.Example
	if err := json.Unmarshal(data, &examples); err != nil {
		return nil, fmt.Errorf("parsing examples: %w", err)
	}
	return examples, nil
}
