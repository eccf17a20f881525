package boilerplate

import (
	"math"
	"regexp"
	"strings"
)

// termSplitPattern matches non-alphanumeric character runs for term splitting.
var termSplitPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Terms splits text into lowercase terms, dropping terms shorter than three
// characters. Both probed paragraphs and stored patterns go through this, so
// punctuation and casing differences never affect a comparison.
func Terms(text string) []string {
	lowered := strings.ToLower(text)
	raw := termSplitPattern.Split(lowered, -1)
	terms := make([]string, 0, len(raw))
	for _, term := range raw {
		if len(term) < 3 {
			continue
		}
		terms = append(terms, term)
	}
	return terms
}

// Fingerprint is a term-frequency vector over one block of text.
type Fingerprint struct {
	terms map[string]float64
	norm  float64
}

// NewFingerprint builds a fingerprint from text. It returns nil when the
// text yields no terms.
func NewFingerprint(text string) *Fingerprint {
	terms := Terms(text)
	if len(terms) == 0 {
		return nil
	}
	counts := make(map[string]float64, len(terms))
	for _, term := range terms {
		counts[term]++
	}
	var norm float64
	for _, count := range counts {
		norm += count * count
	}
	return &Fingerprint{terms: counts, norm: math.Sqrt(norm)}
}

// TermCount returns the number of distinct terms in the fingerprint.
func (f *Fingerprint) TermCount() int {
	if f == nil {
		return 0
	}
	return len(f.terms)
}

// Cosine computes the cosine similarity between two fingerprints. Either
// operand being nil or empty yields 0.
func Cosine(a, b *Fingerprint) float64 {
	if a == nil || b == nil || a.norm == 0 || b.norm == 0 {
		return 0
	}
	var dot float64
	for term, count := range a.terms {
		if other, ok := b.terms[term]; ok {
			dot += count * other
		}
	}
	if dot == 0 {
		return 0
	}
	return dot / (a.norm * b.norm)
}
