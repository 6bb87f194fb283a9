package scoring

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	ahocorasick "github.com/cloudflare/ahocorasick"

	"github.com/citescope/citescope/pkg/content"
	"github.com/citescope/citescope/pkg/platform"
)

// PlatformAnalyzer scores documents for a single platform.
type PlatformAnalyzer interface {
	Platform() platform.Platform
	Analyze(doc *content.Document) *AnalyzerResult
	Suggest(result *AnalyzerResult) []Suggestion
}

// Composite is a derived sub-metric built from several raw counts.
type Composite interface {
	// Key returns the machine-readable metric identifier.
	Key() string
	// Name returns the human-readable metric name.
	Name() string
	// Weight is the composite's share of the weighted total.
	Weight() float64
	// Evaluate computes the composite's 0-100 score.
	Evaluate(ev *Evidence) SignalScore
}

// Evidence bundles everything derived from a document once per analysis.
type Evidence struct {
	Doc     *content.Document
	Stats   content.Stats
	Markers content.Markers
}

// NewEvidence derives text statistics and markers from doc.
func NewEvidence(doc *content.Document) *Evidence {
	return &Evidence{Doc: doc, Stats: doc.Stats(), Markers: doc.CountMarkers()}
}

// maxExamples caps the examples kept per signal.
const maxExamples = 3

// Analyzer is a compiled SignalWeightTable. Safe for concurrent use.
type Analyzer struct {
	table          SignalWeightTable
	signals        []compiledSignal
	maxWeighted    float64
	suggestLimit   int
	remediationFor func(key string) Remediation
}

type compiledSignal struct {
	Signal
	patterns []*regexp.Regexp
	keywords []string

	// ahocorasick.Matcher keeps per-call state; Match is serialized.
	mu      sync.Mutex
	matcher *ahocorasick.Matcher
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithSuggestionLimit caps the number of suggestions Suggest returns.
func WithSuggestionLimit(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.suggestLimit = n
		}
	}
}

// NewAnalyzer validates and compiles a table.
func NewAnalyzer(table SignalWeightTable, opts ...Option) (*Analyzer, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}

	a := &Analyzer{
		table:          table,
		maxWeighted:    table.MaxWeighted(),
		suggestLimit:   DefaultSuggestionLimit,
		remediationFor: RemediationFor,
	}
	a.signals = make([]compiledSignal, len(table.Signals))
	for i, s := range table.Signals {
		cs := &a.signals[i]
		cs.Signal = s
		for _, p := range s.Patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, fmt.Errorf("%s: compiling pattern for %q: %w", table.Platform, s.Key, err)
			}
			cs.patterns = append(cs.patterns, re)
		}
		if len(s.Keywords) > 0 {
			for _, k := range s.Keywords {
				cs.keywords = append(cs.keywords, strings.ToLower(k))
			}
			cs.matcher = ahocorasick.NewStringMatcher(cs.keywords)
		}
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Platform returns the analyzer's platform.
func (a *Analyzer) Platform() platform.Platform { return a.table.Platform }

// Table returns the analyzer's signal weight table.
func (a *Analyzer) Table() SignalWeightTable { return a.table }

// Analyze scores doc. Empty text scores 0 with no detail.
func (a *Analyzer) Analyze(doc *content.Document) *AnalyzerResult {
	result := &AnalyzerResult{
		Platform:       a.table.Platform,
		DetailedScores: make(map[string]SignalScore),
		Strengths:      []string{},
		Weaknesses:     []string{},
	}
	if doc.Empty() {
		result.OptimizationLevel = LevelFromScore(0)
		return result
	}

	ev := NewEvidence(doc)
	var total float64

	for i := range a.signals {
		ss := a.signals[i].evaluate(ev)
		result.DetailedScores[ss.Key] = ss
		total += ss.Weight * ss.Score
	}
	for _, c := range a.table.Composites {
		ss := c.Evaluate(ev)
		ss.Key, ss.Name, ss.Kind, ss.Weight = c.Key(), c.Name(), KindComposite, c.Weight()
		ss.Score = Round1(Clamp(ss.Score))
		result.DetailedScores[ss.Key] = ss
		total += ss.Weight * ss.Score
	}
	for _, p := range a.table.Penalties {
		ss := evaluatePenalty(p, ev)
		result.DetailedScores[ss.Key] = ss
		total -= ss.Weight * ss.Score
	}

	// Clamp only once, after every contribution is in.
	result.CompatibilityScore = Round1(Clamp(total / a.maxWeighted * 100))
	result.OptimizationLevel = LevelFromScore(result.CompatibilityScore)
	result.Strengths, result.Weaknesses = a.assess(result.DetailedScores)

	return result
}

func (cs *compiledSignal) evaluate(ev *Evidence) SignalScore {
	ss := SignalScore{Key: cs.Key, Name: cs.Name, Kind: KindSignal, Weight: cs.Weight}

	for _, re := range cs.patterns {
		matches := re.FindAllString(ev.Doc.Text, -1)
		ss.Count += len(matches)
		for _, m := range matches {
			ss.Examples = appendExample(ss.Examples, m)
		}
	}
	if cs.matcher != nil {
		cs.mu.Lock()
		hits := cs.matcher.Match([]byte(ev.Stats.Lower))
		cs.mu.Unlock()
		ss.Count += len(hits)
		for _, h := range hits {
			ss.Examples = appendExample(ss.Examples, cs.keywords[h])
		}
	}
	ss.Count += cs.Source.Count(ev.Doc.Counts)

	ss.Score = Round1(Clamp(float64(ss.Count) / cs.Saturation * 100))
	return ss
}

func evaluatePenalty(p Penalty, ev *Evidence) SignalScore {
	ss := SignalScore{Key: p.Key, Name: p.Name, Kind: KindPenalty, Weight: p.Weight}
	counts := ev.Doc.Counts

	switch p.Kind {
	case PenaltyLongParagraphs:
		if len(ev.Stats.Paragraphs) == 0 {
			break
		}
		for _, para := range ev.Stats.Paragraphs {
			if float64(content.WordCount(para)) > p.Threshold {
				ss.Count++
				ss.Examples = appendExample(ss.Examples, para)
			}
		}
		ss.Score = float64(ss.Count) / float64(len(ev.Stats.Paragraphs)) * 100
	case PenaltyComplexSentences:
		for _, sent := range ev.Stats.Sentences {
			if float64(content.WordCount(sent)) > p.Threshold {
				ss.Count++
				ss.Examples = appendExample(ss.Examples, sent)
			}
		}
		ss.Score = float64(ss.Count) * p.Unit
	case PenaltyMissingStructure:
		if counts.Headings == 0 && counts.Lists == 0 && ev.Markers.ListItems == 0 {
			ss.Count = 1
			ss.Score = 100
		}
	case PenaltyThinContent:
		if p.Threshold > 0 && float64(ev.Stats.WordCount) < p.Threshold {
			ss.Count = 1
			ss.Score = (p.Threshold - float64(ev.Stats.WordCount)) / p.Threshold * 100
		}
	case PenaltyMissingMedia:
		if counts.Images == 0 {
			ss.Count = 1
			ss.Score = 100
		}
	case PenaltyMissingSources:
		if counts.ExternalLinks == 0 && ev.Markers.Citations == 0 {
			ss.Count = 1
			ss.Score = 100
		}
	}

	ss.Score = Round1(Clamp(ss.Score))
	return ss
}

// Thresholds for strengths and weaknesses.
const (
	strengthCutoff        = 80.0
	compositeWeakCutoff   = 25.0
	penaltyWeakCutoff     = 50.0
	keySignalWeightCutoff = 2.0
)

// assess derives strengths and weaknesses in table order.
func (a *Analyzer) assess(detail map[string]SignalScore) (strengths, weaknesses []string) {
	strengths, weaknesses = []string{}, []string{}

	for _, s := range a.table.Signals {
		ss := detail[s.Key]
		switch {
		case ss.Score >= strengthCutoff:
			strengths = append(strengths, fmt.Sprintf("Strong %s (%d found)", strings.ToLower(ss.Name), ss.Count))
		case ss.Count == 0 && ss.Weight >= keySignalWeightCutoff:
			weaknesses = append(weaknesses, fmt.Sprintf("No %s detected", strings.ToLower(ss.Name)))
		}
	}
	for _, c := range a.table.Composites {
		ss := detail[c.Key()]
		switch {
		case ss.Score >= strengthCutoff:
			strengths = append(strengths, fmt.Sprintf("%s is strong (%.0f/100)", ss.Name, ss.Score))
		case ss.Score < compositeWeakCutoff:
			weaknesses = append(weaknesses, fmt.Sprintf("%s is weak (%.0f/100)", ss.Name, ss.Score))
		}
	}
	for _, p := range a.table.Penalties {
		ss := detail[p.Key]
		if ss.Score >= penaltyWeakCutoff {
			weaknesses = append(weaknesses, penaltyWeakness(p, ss))
		}
	}
	return strengths, weaknesses
}

func penaltyWeakness(p Penalty, ss SignalScore) string {
	switch p.Kind {
	case PenaltyLongParagraphs:
		return fmt.Sprintf("%d paragraphs exceed %.0f words", ss.Count, p.Threshold)
	case PenaltyComplexSentences:
		return fmt.Sprintf("%d sentences exceed %.0f words", ss.Count, p.Threshold)
	case PenaltyMissingStructure:
		return "No headings or lists to structure the content"
	case PenaltyThinContent:
		return fmt.Sprintf("Content is shorter than %.0f words", p.Threshold)
	case PenaltyMissingMedia:
		return "No images or other media"
	case PenaltyMissingSources:
		return "No sources or external references cited"
	default:
		return ss.Name
	}
}

func appendExample(examples []string, s string) []string {
	if len(examples) >= maxExamples {
		return examples
	}
	s = strings.TrimSpace(s)
	if r := []rune(s); len(r) > 80 {
		s = strings.TrimSpace(string(r[:77])) + "..."
	}
	return append(examples, s)
}
