package scan

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// tabWidth is the column width a tab contributes to gap and indent
// measurement. Indents replay as spaces on render.
const tabWidth = 4

// Normalize applies the documented input normalization: NFC composition and
// LF line endings. The verifier applies the same normalization to source
// text before comparison.
func Normalize(input string) string {
	input = norm.NFC.String(input)
	input = strings.ReplaceAll(input, "\r\n", "\n")
	return strings.ReplaceAll(input, "\r", "\n")
}

// Scan normalizes input and splits it into lexemes. It never fails.
func Scan(input string) []Lexeme {
	s := &scanner{src: []rune(Normalize(input)), line: 1, col: 1}
	s.run()
	return s.out
}

type scanner struct {
	src    []rune
	pos    int
	line   int
	col    int
	offset int
	gap    int
	out    []Lexeme
}

func (s *scanner) run() {
	for s.pos < len(s.src) {
		r := s.src[s.pos]
		switch {
		case r == '\n':
			s.scanLineBreak()
		case r == ' ':
			s.gap++
			s.advance()
		case r == '\t':
			s.gap += tabWidth
			s.advance()
		case unicode.IsLetter(r):
			s.scanWord()
		case unicode.IsDigit(r):
			s.scanDigits()
		case r == '_':
			s.scanUnderscore()
		case r == '.':
			s.scanDots()
		case r == '-':
			s.scanHyphens()
		default:
			s.emit(KindPunct, string(r), false)
			s.advance()
		}
	}
}

// scanLineBreak consumes a run of newlines, folding whitespace-only line
// content into the break. Trailing whitespace before a newline is dropped,
// which matches the verifier's normalization.
func (s *scanner) scanLineBreak() {
	pos := s.position()
	count := 0
	for s.pos < len(s.src) {
		r := s.src[s.pos]
		if r == '\n' {
			count++
			s.advance()
			continue
		}
		if r == ' ' || r == '\t' {
			// Only fold the whitespace if another newline follows it.
			probe := s.pos
			for probe < len(s.src) && (s.src[probe] == ' ' || s.src[probe] == '\t') {
				probe++
			}
			if probe < len(s.src) && s.src[probe] == '\n' {
				for s.pos < probe {
					s.advance()
				}
				continue
			}
		}
		break
	}
	s.gap = 0
	s.out = append(s.out, Lexeme{
		Kind: KindLineBreak,
		Text: strings.Repeat("\n", count),
		Pos:  pos,
	})
}

func (s *scanner) scanWord() {
	start := s.pos
	first := s.src[s.pos]
	capitalized := unicode.IsUpper(first) || unicode.IsTitle(first)
	pos := s.position()
	s.advance()

	for s.pos < len(s.src) {
		r := s.src[s.pos]
		if unicode.IsLetter(r) {
			s.advance()
			continue
		}
		if r == '\'' {
			prev := s.src[s.pos-1]
			if s.pos+1 < len(s.src) && unicode.IsLetter(s.src[s.pos+1]) {
				// Contraction interior: don't, o'clock.
				s.advance()
				continue
			}
			if prev == 's' || prev == 'S' {
				// Plural possessive tail: dogs'.
				s.advance()
			}
			break
		}
		if r == '-' && s.pos+1 < len(s.src) && unicode.IsLetter(s.src[s.pos+1]) {
			// Single in-word hyphen fuses; "--" is always the dash idiom.
			s.advance()
			continue
		}
		break
	}

	s.emitAt(KindWord, string(s.src[start:s.pos]), capitalized, pos)
}

func (s *scanner) scanDigits() {
	start := s.pos
	pos := s.position()
	for s.pos < len(s.src) && unicode.IsDigit(s.src[s.pos]) {
		s.advance()
	}
	s.emitAt(KindDigits, string(s.src[start:s.pos]), false, pos)
}

// scanUnderscore classifies "_" as an emphasis mark when exactly one side
// touches a word, and as plain punctuation otherwise.
func (s *scanner) scanUnderscore() {
	prevWord := s.pos > 0 && isWordRune(s.src[s.pos-1])
	nextWord := s.pos+1 < len(s.src) && isWordRune(s.src[s.pos+1])
	kind := KindPunct
	if prevWord != nextWord {
		kind = KindEmphasis
	}
	s.emit(kind, "_", false)
	s.advance()
}

func (s *scanner) scanDots() {
	count := 0
	for s.pos+count < len(s.src) && s.src[s.pos+count] == '.' {
		count++
	}
	if count == 3 {
		pos := s.position()
		for i := 0; i < 3; i++ {
			s.advance()
		}
		s.emitAt(KindIdiom, "...", false, pos)
		return
	}
	for i := 0; i < count; i++ {
		s.emit(KindPunct, ".", false)
		s.advance()
	}
}

func (s *scanner) scanHyphens() {
	count := 0
	for s.pos+count < len(s.src) && s.src[s.pos+count] == '-' {
		count++
	}
	for count >= 2 {
		pos := s.position()
		s.advance()
		s.advance()
		s.emitAt(KindIdiom, "--", false, pos)
		count -= 2
	}
	if count == 1 {
		s.emit(KindPunct, "-", false)
		s.advance()
	}
}

func (s *scanner) emit(kind Kind, text string, capitalized bool) {
	s.emitAt(kind, text, capitalized, s.position())
}

func (s *scanner) emitAt(kind Kind, text string, capitalized bool, pos Position) {
	s.out = append(s.out, Lexeme{
		Kind:        kind,
		Text:        text,
		Capitalized: capitalized,
		Pos:         pos,
		Gap:         s.gap,
	})
	s.gap = 0
}

func (s *scanner) position() Position {
	return Position{Line: s.line, Column: s.col, Offset: s.offset}
}

func (s *scanner) advance() {
	r := s.src[s.pos]
	s.pos++
	s.offset += utf8.RuneLen(r)
	if r == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
