package resolve

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"loom/internal/render"
	"loom/internal/scan"
	"loom/internal/token"
	"loom/internal/vocab"
)

// DefaultMaxWordLength bounds lookup candidates when the caller supplies no
// limit. Longer runs of letters escape without touching the vocabulary.
const DefaultMaxWordLength = 64

// Context tells the resolver how the renderer will treat the next word.
// The segmenter derives it from block structure, so the resolver itself
// stays free of any document state.
type Context struct {
	// CapitalPosition is true when the renderer capitalizes the next word:
	// block starts, heading interiors, and after sentence-final punctuation.
	CapitalPosition bool
	// InHeading is true inside a heading block, where the renderer restores
	// the capital position after every word and every neutral mark.
	InHeading bool
}

// Resolver turns lexemes into token addresses against one vocabulary
// snapshot. A document must resolve and render against the same snapshot
// version, so a Resolver is built per encoding run and never outlives it.
type Resolver struct {
	snap          *vocab.Snapshot
	gaps          *vocab.GapReporter
	maxWordLength int
}

// New builds a resolver over snap. gaps may be nil when unresolved surfaces
// are not being collected. maxWordLength values below one fall back to
// DefaultMaxWordLength.
func New(snap *vocab.Snapshot, gaps *vocab.GapReporter, maxWordLength int) *Resolver {
	if maxWordLength <= 0 {
		maxWordLength = DefaultMaxWordLength
	}
	return &Resolver{snap: snap, gaps: gaps, maxWordLength: maxWordLength}
}

// Snapshot returns the snapshot the resolver was built over.
func (r *Resolver) Snapshot() *vocab.Snapshot {
	return r.snap
}

// Resolve maps one lexeme onto the token run that renders back to its text
// at the given position. It never fails: lexemes the vocabulary cannot carry
// come back as anomaly spans. Emphasis markers resolve to the literal
// underscore; pairing them is the segmenter's concern. Line breaks carry no
// content and resolve to nothing.
func (r *Resolver) Resolve(lx scan.Lexeme, ctx Context) []token.Address {
	switch lx.Kind {
	case scan.KindWord:
		return r.resolveWord(lx.Text, ctx)
	case scan.KindDigits:
		return escape(lx.Text)
	case scan.KindPunct, scan.KindIdiom:
		if addr, ok := token.PunctAddress(lx.Text); ok {
			return []token.Address{addr}
		}
		return escape(lx.Text)
	case scan.KindEmphasis:
		return []token.Address{token.Underscore}
	default:
		return nil
	}
}

func (r *Resolver) resolveWord(text string, ctx Context) []token.Address {
	if text == "" {
		return nil
	}
	if utf8.RuneCountInString(text) > r.maxWordLength {
		return escape(text)
	}
	if toks, ok := r.tryBare(text, ctx.CapitalPosition); ok {
		return toks
	}
	if toks, ok := r.tryPossessive(text, ctx.CapitalPosition); ok {
		return toks
	}
	if toks, ok := r.tryCompound(text, ctx); ok {
		return toks
	}
	r.reportGap(text)
	return escape(text)
}

// tryBare covers the exact lookup and the positional lowercase retry. At a
// capital position a stored surface that would not survive the renderer's
// capitalization picks up a preceding case override instead.
func (r *Resolver) tryBare(text string, capital bool) ([]token.Address, bool) {
	if r.snap == nil {
		return nil, false
	}
	if addr, ok := r.snap.Lookup(text); ok {
		if capital && render.TitleFirst(text) != text {
			return []token.Address{token.CaseLower, addr}, true
		}
		return []token.Address{addr}, true
	}
	// The retry is reserved for title-case forms. An all-caps or mixed-case
	// word cannot be rebuilt from a lowercase surface, so it falls through.
	if capital && titleForm(text) {
		cand := lowerFirst(text)
		if addr, ok := r.snap.Lookup(cand); ok && render.TitleFirst(cand) == text {
			return []token.Address{addr}, true
		}
	}
	return nil, false
}

// tryPossessive splits a straight-quote possessive suffix off and resolves
// the base on its own. Curly apostrophes never match here, so typographic
// possessives stay byte-exact through an escape.
func (r *Resolver) tryPossessive(text string, capital bool) ([]token.Address, bool) {
	if base, ok := strings.CutSuffix(text, "'s"); ok && base != "" {
		if toks, ok := r.tryBare(base, capital); ok {
			return append(toks, token.PossessiveS), true
		}
		return nil, false
	}
	if base, ok := strings.CutSuffix(text, "'"); ok && base != "" {
		last, _ := utf8.DecodeLastRuneInString(base)
		if last != 's' && last != 'S' {
			return nil, false
		}
		if toks, ok := r.tryBare(base, capital); ok {
			return append(toks, token.PossessiveBare), true
		}
	}
	return nil, false
}

// tryCompound resolves hyphenated words part by part, joined by hyphen
// tokens. All parts must resolve or the whole word escapes. Parts after the
// first sit in a non-capital position outside headings and a capital one
// inside them, matching what the renderer does after a hyphen.
func (r *Resolver) tryCompound(text string, ctx Context) ([]token.Address, bool) {
	parts := strings.Split(text, "-")
	if len(parts) < 2 {
		return nil, false
	}
	var out []token.Address
	for i, part := range parts {
		if part == "" {
			return nil, false
		}
		if i > 0 {
			out = append(out, token.Hyphen)
		}
		capital := ctx.CapitalPosition
		if i > 0 {
			capital = ctx.InHeading
		}
		toks, ok := r.tryBare(part, capital)
		if !ok && i == len(parts)-1 {
			toks, ok = r.tryPossessive(part, capital)
		}
		if !ok {
			return nil, false
		}
		out = append(out, toks...)
	}
	return out, true
}

// reportGap feeds plausible vocabulary candidates to the gap reporter.
// Title-case forms report their lowercase surface, everything that could
// never be a stored surface is dropped.
func (r *Resolver) reportGap(text string) {
	surface := text
	if titleForm(text) {
		surface = lowerFirst(text)
	}
	if !plausibleSurface(surface) {
		return
	}
	r.gaps.Report(surface, text)
}

func plausibleSurface(s string) bool {
	letters := 0
	for _, ru := range s {
		switch {
		case unicode.IsUpper(ru) || unicode.IsTitle(ru):
			return false
		case unicode.IsLetter(ru):
			letters++
		case ru == '\'' || ru == '-':
		default:
			return false
		}
	}
	return letters > 0
}

// titleForm reports whether s is an uppercase first rune followed by no
// further uppercase. Only such forms can round trip through the lowercase
// retry.
func titleForm(s string) bool {
	first, size := utf8.DecodeRuneInString(s)
	if !unicode.IsUpper(first) && !unicode.IsTitle(first) {
		return false
	}
	for _, ru := range s[size:] {
		if unicode.IsUpper(ru) || unicode.IsTitle(ru) {
			return false
		}
	}
	return true
}

func lowerFirst(s string) string {
	first, size := utf8.DecodeRuneInString(s)
	lower := unicode.ToLower(first)
	if lower == first {
		return s
	}
	return string(lower) + s[size:]
}

// escape wraps text in an anomaly span, one character token per rune. The
// renderer replays the runes verbatim, so an escape is exact for any input.
func escape(text string) []token.Address {
	out := make([]token.Address, 0, utf8.RuneCountInString(text)+2)
	out = append(out, token.AnomalyStart)
	for _, ru := range text {
		out = append(out, token.CharAddress(ru))
	}
	return append(out, token.AnomalyEnd)
}
