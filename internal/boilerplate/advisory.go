package boilerplate

import "strings"

// Verdict is the advisory's judgement on one paragraph.
type Verdict uint8

const (
	// Continue keeps the paragraph.
	Continue Verdict = iota
	// Reject drops the paragraph as boilerplate.
	Reject
	// Complete marks the end of the content proper. The paragraph and
	// everything after it are dropped.
	Complete
)

func (v Verdict) String() string {
	switch v {
	case Continue:
		return "continue"
	case Reject:
		return "reject"
	case Complete:
		return "complete"
	default:
		return "unknown"
	}
}

// Advisory inspects one paragraph of source text at a time. The scope names
// the source being segmented, for implementations that track patterns per
// document.
type Advisory interface {
	// Probe judges one paragraph. On a Complete verdict the second result
	// names the matched pattern; it is empty for every other verdict.
	Probe(text, scope string) (Verdict, string)
}

// Nop returns an advisory that keeps every paragraph.
func Nop() Advisory { return nopAdvisory{} }

type nopAdvisory struct{}

func (nopAdvisory) Probe(string, string) (Verdict, string) { return Continue, "" }

const (
	defaultThreshold = 0.85
	defaultMinTerms  = 8
)

// Filter is a fingerprint-backed Advisory. Reject patterns match by cosine
// similarity over whole paragraphs; terminal markers match as normalized
// term prefixes, since closing lines carry a variable title after a fixed
// opening.
type Filter struct {
	threshold float64
	minTerms  int
	reject    []*Fingerprint
	terminal  []string
}

// NewFilter builds an empty filter. Out-of-range arguments fall back to the
// package defaults.
func NewFilter(threshold float64, minTerms int) *Filter {
	if threshold <= 0 || threshold > 1 {
		threshold = defaultThreshold
	}
	if minTerms <= 0 {
		minTerms = defaultMinTerms
	}
	return &Filter{threshold: threshold, minTerms: minTerms}
}

// DefaultFilter builds a filter preloaded with the stock license and
// transcription patterns.
func DefaultFilter(threshold float64, minTerms int) *Filter {
	f := NewFilter(threshold, minTerms)
	f.AddPattern("this ebook is for the use of anyone anywhere in the united states and " +
		"most other parts of the world at no cost and with almost no restrictions " +
		"whatsoever you may copy it give it away or re-use it under the terms of " +
		"the license included with this ebook")
	f.AddPattern("produced by volunteers from page images generously made available " +
		"by the internet archive")
	f.AddPattern("updated editions will replace the previous one the old editions " +
		"will be renamed")
	f.AddTerminal("end of the project gutenberg ebook")
	f.AddTerminal("end of project gutenberg")
	return f
}

// AddPattern registers a reject pattern. Text that fingerprints to nothing
// is ignored.
func (f *Filter) AddPattern(text string) {
	if fp := NewFingerprint(text); fp != nil {
		f.reject = append(f.reject, fp)
	}
}

// AddTerminal registers a terminal marker matched as a term prefix.
func (f *Filter) AddTerminal(text string) {
	if terms := Terms(text); len(terms) > 0 {
		f.terminal = append(f.terminal, strings.Join(terms, " "))
	}
}

// Probe classifies one paragraph. Terminal markers win over reject
// patterns; paragraphs with fewer distinct terms than the filter's minimum
// are never rejected, so short dialogue lines pass untouched. The filter's
// patterns apply in every scope.
func (f *Filter) Probe(text, _ string) (Verdict, string) {
	terms := Terms(text)
	if len(terms) == 0 {
		return Continue, ""
	}
	joined := strings.Join(terms, " ")
	for _, marker := range f.terminal {
		if strings.HasPrefix(joined, marker) {
			return Complete, marker
		}
	}
	fp := NewFingerprint(text)
	if fp.TermCount() < f.minTerms {
		return Continue, ""
	}
	for _, pat := range f.reject {
		if Cosine(fp, pat) >= f.threshold {
			return Reject, ""
		}
	}
	return Continue, ""
}
