package token

// Punctuation ordinals. Append-only for the same reason as the structural
// table. Surface forms are exact: the renderer emits them byte for byte.
const (
	ordPeriod uint32 = iota
	ordComma
	ordSemicolon
	ordColon
	ordExclaim
	ordQuestion
	ordApostrophe
	ordQuote
	ordParenOpen
	ordParenClose
	ordBracketOpen
	ordBracketClose
	ordBraceOpen
	ordBraceClose
	ordHyphen
	ordDash     // the "--" idiom
	ordEllipsis // the "..." idiom
	ordUnderscore
	ordAsterisk
	ordSlash
	ordBackslash
	ordAmpersand
	ordAt
	ordHash
	ordPercent
	ordPlus
	ordEquals
	ordLess
	ordGreater
	ordTilde
	ordBacktick
	ordDollar
	ordPipe
	ordCaret
	ordQuoteOpenDouble  // U+201C
	ordQuoteCloseDouble // U+201D
	ordQuoteOpenSingle  // U+2018
	ordQuoteCloseSingle // U+2019
	ordEmDash           // U+2014
	ordEnDash           // U+2013
	ordEllipsisChar     // U+2026
	ordPossessiveS      // the "'s" marker produced by possessive decomposition
	ordPossessiveBare   // the trailing "'" marker after a plural s
)

// Named punctuation addresses used directly by scanner, resolver, and
// renderer logic. Everything else goes through PunctAddress.
var (
	Period         = MustNew(NamespacePunct, ordPeriod)
	Comma          = MustNew(NamespacePunct, ordComma)
	Exclaim        = MustNew(NamespacePunct, ordExclaim)
	Question       = MustNew(NamespacePunct, ordQuestion)
	Apostrophe     = MustNew(NamespacePunct, ordApostrophe)
	Hyphen         = MustNew(NamespacePunct, ordHyphen)
	Dash           = MustNew(NamespacePunct, ordDash)
	Ellipsis       = MustNew(NamespacePunct, ordEllipsis)
	Underscore     = MustNew(NamespacePunct, ordUnderscore)
	PossessiveS    = MustNew(NamespacePunct, ordPossessiveS)
	PossessiveBare = MustNew(NamespacePunct, ordPossessiveBare)
)

var punctSurfaces = map[uint32]string{
	ordPeriod:           ".",
	ordComma:            ",",
	ordSemicolon:        ";",
	ordColon:            ":",
	ordExclaim:          "!",
	ordQuestion:         "?",
	ordApostrophe:       "'",
	ordQuote:            `"`,
	ordParenOpen:        "(",
	ordParenClose:       ")",
	ordBracketOpen:      "[",
	ordBracketClose:     "]",
	ordBraceOpen:        "{",
	ordBraceClose:       "}",
	ordHyphen:           "-",
	ordDash:             "--",
	ordEllipsis:         "...",
	ordUnderscore:       "_",
	ordAsterisk:         "*",
	ordSlash:            "/",
	ordBackslash:        `\`,
	ordAmpersand:        "&",
	ordAt:               "@",
	ordHash:             "#",
	ordPercent:          "%",
	ordPlus:             "+",
	ordEquals:           "=",
	ordLess:             "<",
	ordGreater:          ">",
	ordTilde:            "~",
	ordBacktick:         "`",
	ordDollar:           "$",
	ordPipe:             "|",
	ordCaret:            "^",
	ordQuoteOpenDouble:  "“",
	ordQuoteCloseDouble: "”",
	ordQuoteOpenSingle:  "‘",
	ordQuoteCloseSingle: "’",
	ordEmDash:           "—",
	ordEnDash:           "–",
	ordEllipsisChar:     "…",
	ordPossessiveS:      "'s",
	ordPossessiveBare:   "'",
}

var punctBySurface = func() map[string]Address {
	m := make(map[string]Address, len(punctSurfaces))
	for ord, surface := range punctSurfaces {
		// The possessive markers share surfaces with apostrophe forms; the
		// first-class marks win the surface lookup.
		if ord == ordPossessiveS || ord == ordPossessiveBare {
			continue
		}
		m[surface] = MustNew(NamespacePunct, ord)
	}
	return m
}()

// PunctAddress resolves a punctuation surface form against the fixed table.
func PunctAddress(surface string) (Address, bool) {
	a, ok := punctBySurface[surface]
	return a, ok
}

// PunctSurface returns the exact surface form of a punctuation address.
func (a Address) PunctSurface() (string, bool) {
	if a.ns != NamespacePunct {
		return "", false
	}
	s, ok := punctSurfaces[a.Ordinal()]
	return s, ok
}

// SentenceFinal reports whether a ends a sentence for the purposes of
// positional capitalization.
func (a Address) SentenceFinal() bool {
	if a.ns != NamespacePunct {
		return false
	}
	switch a.Ordinal() {
	case ordPeriod, ordExclaim, ordQuestion, ordEllipsis, ordEllipsisChar:
		return true
	}
	return false
}

// ClosingMark reports whether a is a closing quote or bracket, which may
// sit between a sentence-final mark and the next sentence without breaking
// positional capitalization.
func (a Address) ClosingMark() bool {
	if a.ns != NamespacePunct {
		return false
	}
	switch a.Ordinal() {
	case ordQuote, ordParenClose, ordBracketClose, ordBraceClose,
		ordQuoteCloseDouble, ordQuoteCloseSingle, ordApostrophe:
		return true
	}
	return false
}

// OpeningMark reports whether a is an opening quote or bracket; the
// renderer suppresses the space after these.
func (a Address) OpeningMark() bool {
	if a.ns != NamespacePunct {
		return false
	}
	switch a.Ordinal() {
	case ordQuote, ordParenOpen, ordBracketOpen, ordBraceOpen,
		ordQuoteOpenDouble, ordQuoteOpenSingle:
		return true
	}
	return false
}

// NoSpaceBefore reports whether the renderer's default suppresses the space
// before this mark.
func (a Address) NoSpaceBefore() bool {
	if a.ns != NamespacePunct {
		return false
	}
	switch a.Ordinal() {
	case ordPeriod, ordComma, ordSemicolon, ordColon, ordExclaim, ordQuestion,
		ordParenClose, ordBracketClose, ordBraceClose, ordQuoteCloseDouble,
		ordQuoteCloseSingle, ordPossessiveS, ordPossessiveBare, ordEllipsis,
		ordEllipsisChar, ordHyphen, ordDash, ordEmDash, ordEnDash, ordApostrophe:
		return true
	}
	return false
}

// NoSpaceAfter reports whether the renderer's default suppresses the space
// after this mark.
func (a Address) NoSpaceAfter() bool {
	if a.ns != NamespacePunct {
		return false
	}
	switch a.Ordinal() {
	case ordParenOpen, ordBracketOpen, ordBraceOpen, ordQuoteOpenDouble,
		ordQuoteOpenSingle, ordHyphen, ordDash, ordEmDash, ordEnDash, ordApostrophe:
		return true
	}
	return false
}
