package content

import (
	"regexp"
	"sort"
	"strconv"
)

// Text marker patterns shared by the platform analyzers and the feature
// extractor. They operate on Document.Text.
const (
	StepPattern         = `(?i)\bstep\s+(\d+)\s*[:.)\-]`
	NumberedItemPattern = `(?m)^\s*\d+[.)]\s+\S`
	BulletItemPattern   = `(?m)^\s*[-*•]\s+\S`
	QuestionPattern     = `[^.!?\n]+\?`
	CitationPattern     = `\[\d+\]|\([A-Z][A-Za-z]+(?: et al\.)?,? (?:19|20)\d{2}\)|(?i:\baccording to\b)|(?i:\bsource:)`
	StatisticPattern    = `\b\d+(?:\.\d+)?\s?(?:%|(?i:percent)\b)|\$\d[\d,]*(?:\.\d+)?|\b\d{1,3}(?:,\d{3})+\b`
	DatePattern         = `\b(?:19|20)\d{2}\b|(?i:\b(?:updated|published|last reviewed)\b)`
	DefinitionPattern   = `(?i)\b(?:is defined as|refers to|is a type of|means that|is the process of)\b`
	ExamplePattern      = `(?i)(?:\bfor example\b|\bfor instance\b|\be\.g\.|\bsuch as\b)`
	CTAPattern          = `(?i)\b(?:get started|sign up|learn more|try it|download now|contact us|subscribe)\b`
	FAQPattern          = `(?im)^\s*(?:q:|question:|faq\b|frequently asked questions)`
	TransitionPattern   = `(?i)\b(?:first|second|third|next|then|finally|afterwards|lastly)\b`
	ReasoningPattern    = `(?i)\b(?:because|therefore|consequently|as a result|this means|which is why)\b`
	NuancePattern       = `(?i)\b(?:however|although|on the other hand|it depends|trade-?offs?|limitations?|caveats?)\b`
)

var (
	stepRe         = regexp.MustCompile(StepPattern)
	numberedItemRe = regexp.MustCompile(NumberedItemPattern)
	bulletItemRe   = regexp.MustCompile(BulletItemPattern)
	questionRe     = regexp.MustCompile(QuestionPattern)
	citationRe     = regexp.MustCompile(CitationPattern)
	statisticRe    = regexp.MustCompile(StatisticPattern)
	dateRe         = regexp.MustCompile(DatePattern)
	definitionRe   = regexp.MustCompile(DefinitionPattern)
	exampleRe      = regexp.MustCompile(ExamplePattern)
	ctaRe          = regexp.MustCompile(CTAPattern)
	faqRe          = regexp.MustCompile(FAQPattern)
	reasoningRe    = regexp.MustCompile(ReasoningPattern)
	nuanceRe       = regexp.MustCompile(NuancePattern)
)

// Markers are counts of text-level markers in a document.
type Markers struct {
	Steps       int
	StepNumbers []int // distinct step numbers in ascending order
	ListItems   int   // numbered plus bulleted lines
	Questions   int
	Citations   int
	Statistics  int
	Dates       int
	Definitions int
	Examples    int
	CTAs        int
	FAQs        int
	Reasoning   int
	Nuance      int
}

// CountMarkers scans the document text once per marker kind.
func (d *Document) CountMarkers() Markers {
	if d.Empty() {
		return Markers{}
	}
	text := d.Text

	var m Markers
	seen := make(map[int]bool)
	for _, sub := range stepRe.FindAllStringSubmatch(text, -1) {
		m.Steps++
		if n, err := strconv.Atoi(sub[1]); err == nil && !seen[n] {
			seen[n] = true
			m.StepNumbers = append(m.StepNumbers, n)
		}
	}
	sort.Ints(m.StepNumbers)

	m.ListItems = len(numberedItemRe.FindAllStringIndex(text, -1)) + len(bulletItemRe.FindAllStringIndex(text, -1))
	m.Questions = len(questionRe.FindAllStringIndex(text, -1))
	m.Citations = len(citationRe.FindAllStringIndex(text, -1))
	m.Statistics = len(statisticRe.FindAllStringIndex(text, -1))
	m.Dates = len(dateRe.FindAllStringIndex(text, -1))
	m.Definitions = len(definitionRe.FindAllStringIndex(text, -1))
	m.Examples = len(exampleRe.FindAllStringIndex(text, -1))
	m.CTAs = len(ctaRe.FindAllStringIndex(text, -1))
	m.FAQs = len(faqRe.FindAllStringIndex(text, -1))
	m.Reasoning = len(reasoningRe.FindAllStringIndex(text, -1))
	m.Nuance = len(nuanceRe.FindAllStringIndex(text, -1))
	return m
}

// SequentialSteps reports whether the step numbers form 1..n without gaps.
func (m Markers) SequentialSteps() bool {
	if len(m.StepNumbers) == 0 {
		return false
	}
	for i, n := range m.StepNumbers {
		if n != i+1 {
			return false
		}
	}
	return true
}
