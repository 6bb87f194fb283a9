package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/citescope/citescope/internal/app"
	"github.com/citescope/citescope/internal/logging"
	"github.com/citescope/citescope/pkg/config"
	"github.com/citescope/citescope/pkg/content"
	"github.com/citescope/citescope/pkg/engine"
	"github.com/citescope/citescope/pkg/platform"
)

// globalOpts are the root command's persistent flags.
type globalOpts struct {
	configPath string
	logLevel   string
}

func loadConfig(g *globalOpts) *config.Config {
	cfgFile := g.configPath
	if cfgFile == "" {
		if cwd, err := os.Getwd(); err == nil {
			cfgFile = config.FindConfigFile(cwd)
		}
	}
	if cfgFile == "" {
		return config.DefaultConfig()
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		return config.DefaultConfig()
	}
	return cfg
}

func newLogger(g *globalOpts, cfg *config.Config) zerolog.Logger {
	lc := cfg.Log.Logging()
	lc.Level = firstNonEmpty(g.logLevel, lc.Level)
	lc.Output = os.Stderr
	return logging.New(lc)
}

// openApp loads config and builds the runtime.
func openApp(ctx context.Context, g *globalOpts) (*app.App, *config.Config, zerolog.Logger, error) {
	cfg := loadConfig(g)
	logger := newLogger(g, cfg)
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return nil, nil, logger, err
	}
	return a, cfg, logger, nil
}

// Input formats for readDocument.
const (
	inputAuto = "auto"
	inputHTML = "html"
	inputJSON = "json"
	inputText = "text"
)

// detectInput picks a format from the file extension.
func detectInput(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm", ".xhtml":
		return inputHTML
	case ".json":
		return inputJSON
	default:
		return inputText
	}
}

// readDocument loads a document from path ("-" for stdin) in the given
// input format.
func readDocument(path, input, baseURL string, stdin io.Reader) (*content.Document, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}

	if input == "" || input == inputAuto {
		input = detectInput(path)
	}
	switch input {
	case inputHTML:
		return content.ExtractString(string(data), content.ExtractOptions{
			BaseURL: baseURL,
			OnMalformed: func(err error) {
				fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			},
		})
	case inputJSON:
		return content.DecodeDocument(data)
	case inputText:
		return content.FromCounts(string(data), content.StructuralCounts{}), nil
	default:
		return nil, fmt.Errorf("unknown input format %q (want auto, html, json or text)", input)
	}
}

// parseAIScores parses repeated platform=score flags.
func parseAIScores(vals []string) (engine.StaticEvaluator, error) {
	ev := engine.StaticEvaluator{}
	for _, v := range vals {
		name, raw, ok := strings.Cut(v, "=")
		if !ok {
			return nil, fmt.Errorf("--ai-score %q: want platform=score", v)
		}
		p, err := platform.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("--ai-score: %w", err)
		}
		score, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || score < 0 || score > 100 {
			return nil, fmt.Errorf("--ai-score %q: score must be a number between 0 and 100", v)
		}
		ev[p] = score
	}
	return ev, nil
}

// parsePlatforms resolves --platform values; empty means all.
func parsePlatforms(names []string) ([]platform.Platform, error) {
	if len(names) == 0 {
		return platform.All(), nil
	}
	out := make([]platform.Platform, 0, len(names))
	for _, n := range names {
		p, err := platform.Parse(n)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
