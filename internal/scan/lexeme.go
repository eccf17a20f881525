package scan

import "strings"

// Kind classifies a lexeme.
type Kind uint8

const (
	// KindWord is an alphabetic run, possibly with fused apostrophes or
	// in-word hyphens.
	KindWord Kind = iota
	// KindDigits is a run of decimal digits.
	KindDigits
	// KindPunct is a single punctuation or symbol character.
	KindPunct
	// KindIdiom is a multi-character mark: the "--" dash or "..." ellipsis.
	KindIdiom
	// KindEmphasis is an underscore sitting on a word edge.
	KindEmphasis
	// KindLineBreak is a run of newlines; whitespace-only lines fold into it.
	KindLineBreak
)

func (k Kind) String() string {
	switch k {
	case KindWord:
		return "word"
	case KindDigits:
		return "digits"
	case KindPunct:
		return "punct"
	case KindIdiom:
		return "idiom"
	case KindEmphasis:
		return "emphasis"
	case KindLineBreak:
		return "linebreak"
	}
	return "unknown"
}

// Position locates a lexeme in the normalized input.
type Position struct {
	Line   int // 1-based
	Column int // 1-based, in runes
	Offset int // bytes
}

// Lexeme is one lexical unit.
type Lexeme struct {
	Kind Kind
	// Text is the exact normalized source text of the unit. For line
	// breaks it is the newline run.
	Text string
	// Capitalized reports whether a word's first rune is upper or title
	// case.
	Capitalized bool
	Pos         Position
	// Gap is the horizontal whitespace width immediately before the lexeme
	// on its line; after a line break it is the indent width.
	Gap int
}

// Newlines reports the height of a line-break lexeme.
func (l Lexeme) Newlines() int {
	if l.Kind != KindLineBreak {
		return 0
	}
	return strings.Count(l.Text, "\n")
}
