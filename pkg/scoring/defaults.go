package scoring

import (
	"fmt"

	"github.com/citescope/citescope/pkg/platform"
)

// DefaultTables returns the built-in signal weight table for every platform,
// in enumeration order.
func DefaultTables() []SignalWeightTable {
	return []SignalWeightTable{
		chatGPTTable(),
		claudeTable(),
		geminiTable(),
		bingTable(),
	}
}

// DefaultTable returns the built-in table for one platform.
func DefaultTable(p platform.Platform) (SignalWeightTable, error) {
	for _, t := range DefaultTables() {
		if t.Platform == p {
			return t, nil
		}
	}
	return SignalWeightTable{}, &platform.UnknownError{Name: string(p)}
}

// DefaultAnalyzers compiles the built-in tables, applying per-platform weight
// overrides keyed by platform name then signal key.
func DefaultAnalyzers(overrides map[string]map[string]float64, opts ...Option) (map[platform.Platform]PlatformAnalyzer, error) {
	for name := range overrides {
		if _, err := platform.Parse(name); err != nil {
			return nil, fmt.Errorf("weight overrides: %w", err)
		}
	}

	analyzers := make(map[platform.Platform]PlatformAnalyzer)
	for _, table := range DefaultTables() {
		if w := overrides[string(table.Platform)]; len(w) > 0 {
			var err error
			if table, err = table.WithWeights(w); err != nil {
				return nil, fmt.Errorf("weight overrides: %w", err)
			}
		}
		a, err := NewAnalyzer(table, opts...)
		if err != nil {
			return nil, err
		}
		analyzers[table.Platform] = a
	}
	return analyzers, nil
}
