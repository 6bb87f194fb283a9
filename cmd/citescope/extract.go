package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/citescope/citescope/pkg/content"
)

func newExtractCmd() *cobra.Command {
	var (
		input   string
		baseURL string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "extract <file>",
		Short: "Extract the text and structural counts of a page",
		Long: `Parses an HTML page into the document the analyzers score: visible text
with navigation and boilerplate removed, plus link, image, list, table,
heading and structured data counts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(args[0], input, baseURL, cmd.InOrStdin())
			if err != nil {
				return err
			}
			if output != "" {
				return content.SaveDocument(output, doc)
			}
			return writeDocument(cmd.OutOrStdout(), doc)
		},
	}

	cmd.Flags().StringVar(&input, "input", inputHTML, "Input format: auto, html, json or text")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "Page URL, used to tell external links from internal ones")
	cmd.Flags().StringVar(&output, "output", "", "Write the document JSON to this file instead of stdout")

	return cmd
}

func writeDocument(w io.Writer, doc *content.Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	return nil
}
