// Package main provides the citescope CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	var g globalOpts

	rootCmd := &cobra.Command{
		Use:   "citescope",
		Short: "Score how well content fits generative AI assistants",
		Long: `Citescope scores a page against the signals ChatGPT, Claude, Gemini and
Bing Copilot favor, blends rule-based and model scores, and suggests the
changes most likely to improve each platform's score.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", "", "Path to config file (default: search for .citescope/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level override: debug, info, warn, error")

	rootCmd.AddCommand(
		newAnalyzeCmd(&g),
		newExtractCmd(),
		newFeaturesCmd(),
		newModelCmd(&g),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
