package scoring

import (
	"fmt"
	"math"

	"github.com/citescope/citescope/pkg/content"
	"github.com/citescope/citescope/pkg/platform"
)

// SignalWeightTable is the data that defines one platform analyzer.
type SignalWeightTable struct {
	Platform   platform.Platform
	Signals    []Signal
	Penalties  []Penalty
	Composites []Composite
}

// Signal is a positive content signal. Its count is the number of pattern
// matches, plus distinct keyword phrases found, plus an optional structural
// count. The signal scores 100 once the count reaches Saturation.
type Signal struct {
	Key        string
	Name       string
	Patterns   []string
	Keywords   []string
	Source     CountSource
	Weight     float64
	Saturation float64
}

// CountSource selects a structural count from the document.
type CountSource string

const (
	SourceNone          CountSource = ""
	SourceExternalLinks CountSource = "external_links"
	SourceImages        CountSource = "images"
	SourceLists         CountSource = "lists"
	SourceTables        CountSource = "tables"
	SourceHeadings      CountSource = "headings"
	SourceSchemaBlocks  CountSource = "schema_blocks"
)

// Count reads the selected structural count.
func (s CountSource) Count(c content.StructuralCounts) int {
	switch s {
	case SourceExternalLinks:
		return c.ExternalLinks
	case SourceImages:
		return c.Images
	case SourceLists:
		return c.Lists
	case SourceTables:
		return c.Tables
	case SourceHeadings:
		return c.Headings
	case SourceSchemaBlocks:
		return c.SchemaBlocks
	default:
		return 0
	}
}

// Penalty subtracts from the weighted total when a document shows a
// platform-specific anti-pattern.
type Penalty struct {
	Key       string
	Name      string
	Kind      PenaltyKind
	Threshold float64 // word threshold for length-based kinds
	Unit      float64 // penalty points per occurrence, for counted kinds
	Weight    float64
}

// PenaltyKind selects how a penalty is measured.
type PenaltyKind string

const (
	PenaltyLongParagraphs   PenaltyKind = "long_paragraphs"
	PenaltyComplexSentences PenaltyKind = "complex_sentences"
	PenaltyMissingStructure PenaltyKind = "missing_structure"
	PenaltyThinContent      PenaltyKind = "thin_content"
	PenaltyMissingMedia     PenaltyKind = "missing_media"
	PenaltyMissingSources   PenaltyKind = "missing_sources"
)

// MaxWeighted is the theoretical maximum weighted score of the table.
func (t *SignalWeightTable) MaxWeighted() float64 {
	var total float64
	for _, s := range t.Signals {
		total += s.Weight * 100
	}
	for _, c := range t.Composites {
		total += c.Weight() * 100
	}
	return total
}

// Validate checks that the table can be compiled into an analyzer.
func (t *SignalWeightTable) Validate() error {
	if !t.Platform.Valid() {
		return fmt.Errorf("table platform %q: %w", t.Platform, platform.ErrUnknownPlatform)
	}
	seen := make(map[string]bool)
	check := func(key string, weight float64) error {
		if key == "" {
			return fmt.Errorf("%s: empty signal key", t.Platform)
		}
		if seen[key] {
			return fmt.Errorf("%s: duplicate signal key %q", t.Platform, key)
		}
		seen[key] = true
		if weight <= 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
			return fmt.Errorf("%s: signal %q has invalid weight %v", t.Platform, key, weight)
		}
		return nil
	}

	for _, s := range t.Signals {
		if err := check(s.Key, s.Weight); err != nil {
			return err
		}
		if s.Saturation <= 0 {
			return fmt.Errorf("%s: signal %q needs a positive saturation", t.Platform, s.Key)
		}
		if len(s.Patterns) == 0 && len(s.Keywords) == 0 && s.Source == SourceNone {
			return fmt.Errorf("%s: signal %q has nothing to count", t.Platform, s.Key)
		}
	}
	for _, c := range t.Composites {
		if err := check(c.Key(), c.Weight()); err != nil {
			return err
		}
	}
	for _, p := range t.Penalties {
		if err := check(p.Key, p.Weight); err != nil {
			return err
		}
	}
	if t.MaxWeighted() == 0 {
		return fmt.Errorf("%s: table has no positive signals", t.Platform)
	}
	return nil
}

// WithWeights returns a copy of the table with signal and penalty weights
// replaced by the given overrides. Unknown keys are reported as an error.
// Composite weights are fixed.
func (t SignalWeightTable) WithWeights(overrides map[string]float64) (SignalWeightTable, error) {
	out := t
	out.Signals = append([]Signal(nil), t.Signals...)
	out.Penalties = append([]Penalty(nil), t.Penalties...)

	for key, w := range overrides {
		found := false
		for i := range out.Signals {
			if out.Signals[i].Key == key {
				out.Signals[i].Weight = w
				found = true
			}
		}
		for i := range out.Penalties {
			if out.Penalties[i].Key == key {
				out.Penalties[i].Weight = w
				found = true
			}
		}
		if !found {
			return SignalWeightTable{}, fmt.Errorf("%s: no overridable signal %q", t.Platform, key)
		}
	}
	return out, nil
}
