package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/citescope/citescope/pkg/content"
	"github.com/citescope/citescope/pkg/features"
)

func newFeaturesCmd() *cobra.Command {
	var (
		input     string
		baseURL   string
		platforms []string
		outputFmt string
	)

	cmd := &cobra.Command{
		Use:   "features <file>",
		Short: "Print the model feature vectors for a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(args[0], input, baseURL, cmd.InOrStdin())
			if err != nil {
				return err
			}
			return runFeatures(cmd.OutOrStdout(), doc, platforms, outputFmt)
		},
	}

	cmd.Flags().StringVar(&input, "input", inputAuto, "Input format: auto, html, json or text")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "Page URL, used to tell external links from internal ones")
	cmd.Flags().StringSliceVar(&platforms, "platform", nil, "Platforms to show (default: all)")
	cmd.Flags().StringVar(&outputFmt, "output", "text", "Output format: text or json")

	return cmd
}

func runFeatures(w io.Writer, doc *content.Document, names []string, outputFmt string) error {
	ps, err := parsePlatforms(names)
	if err != nil {
		return err
	}
	m := features.Extract(doc)

	vectors := make([]features.Vector, 0, len(ps))
	for _, p := range ps {
		v, err := m.Select(p)
		if err != nil {
			return err
		}
		vectors = append(vectors, v)
	}

	switch outputFmt {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(vectors)
	case "text", "":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, v := range vectors {
			fmt.Fprintf(tw, "%s\n", v.Platform.DisplayName())
			for i, n := range v.Names {
				fmt.Fprintf(tw, "  %s\t%g\n", n, v.Values[i])
			}
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown output format %q (want text or json)", outputFmt)
	}
}
