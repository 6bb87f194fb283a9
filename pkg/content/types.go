// Package content holds the normalized representation of a web document and
// the extractor that produces it from HTML.
package content

import (
	"regexp"
	"strings"
	"unicode"
)

// Document is the input to every analysis: visible text plus a handful of
// structural counts. Immutable once constructed.
type Document struct {
	Text   string           `json:"text"`
	Counts StructuralCounts `json:"structural_counts"`
}

// StructuralCounts are DOM-derived counts that the text alone cannot carry.
type StructuralCounts struct {
	ExternalLinks int `json:"external_links"`
	Images        int `json:"images"`
	Lists         int `json:"lists"`
	Tables        int `json:"tables"`
	Headings      int `json:"headings"`
	SchemaBlocks  int `json:"schema_blocks"`
}

// FromCounts builds a Document from already-extracted text and counts.
// Negative counts are treated as zero.
func FromCounts(text string, counts StructuralCounts) *Document {
	counts.ExternalLinks = max(counts.ExternalLinks, 0)
	counts.Images = max(counts.Images, 0)
	counts.Lists = max(counts.Lists, 0)
	counts.Tables = max(counts.Tables, 0)
	counts.Headings = max(counts.Headings, 0)
	counts.SchemaBlocks = max(counts.SchemaBlocks, 0)
	return &Document{Text: text, Counts: counts}
}

// Empty reports whether the document has no visible text.
func (d *Document) Empty() bool {
	return d == nil || strings.TrimSpace(d.Text) == ""
}

// Stats are text statistics derived from a Document.
type Stats struct {
	Paragraphs []string
	Sentences  []string
	WordCount  int
	// Lower is the lower-cased text, used for case-insensitive phrase matching.
	Lower string
}

var (
	paragraphSep = regexp.MustCompile(`\n\s*\n`)
	sentenceEnd  = regexp.MustCompile(`[.!?]+(?:\s+|$)`)
)

// Stats computes paragraph, sentence and word statistics. It is pure and
// cheap enough to call once per analysis.
func (d *Document) Stats() Stats {
	if d.Empty() {
		return Stats{}
	}

	s := Stats{Lower: strings.ToLower(d.Text)}
	for _, p := range paragraphSep.Split(d.Text, -1) {
		p = strings.TrimSpace(p)
		if p != "" {
			s.Paragraphs = append(s.Paragraphs, p)
		}
	}

	for _, line := range strings.Split(d.Text, "\n") {
		for _, frag := range sentenceEnd.Split(line, -1) {
			frag = strings.TrimSpace(frag)
			// "1." list markers split into digit-only fragments; they are not sentences.
			if frag == "" || !strings.ContainsFunc(frag, unicode.IsLetter) {
				continue
			}
			s.Sentences = append(s.Sentences, frag)
		}
	}

	s.WordCount = len(strings.Fields(d.Text))
	return s
}

// WordCount returns the number of whitespace-separated words in s.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// AverageSentenceLength is the mean sentence length in words, or 0.
func (s Stats) AverageSentenceLength() float64 {
	if len(s.Sentences) == 0 {
		return 0
	}
	total := 0
	for _, sent := range s.Sentences {
		total += WordCount(sent)
	}
	return float64(total) / float64(len(s.Sentences))
}
