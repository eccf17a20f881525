package render

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"loom/internal/faults"
	"loom/internal/token"
	"loom/internal/vocab"
)

// Options carries the per-document context a sequence renders against.
type Options struct {
	// Snapshot supplies word surfaces. It must be the snapshot version the
	// document was encoded with.
	Snapshot *vocab.Snapshot
	// IndentWidths maps ordinal indent levels to the literal widths recorded
	// in document provenance. Missing levels fall back to four columns each.
	IndentWidths map[int]int
}

type blockState uint8

const (
	blockNone  blockState = iota // mid-line, junctions apply
	blockStart                   // document start, no separator
	blockBreak                   // blank-line separator owed
)

// Render produces the text of a canonical sequence. Anchor markers are
// accepted anywhere and ignored, so sub-sequences render too.
func Render(seq []token.Address, opts Options) (string, error) {
	r := renderer{
		snap:    opts.Snapshot,
		widths:  opts.IndentWidths,
		block:   blockStart,
		capital: true,
	}
	for _, tok := range seq {
		if err := r.feed(tok); err != nil {
			return "", err
		}
	}
	return r.finish(), nil
}

type renderer struct {
	out    strings.Builder
	snap   *vocab.Snapshot
	widths map[int]int

	block         blockState
	pendingIndent int
	prev          token.Address
	glue          bool
	spaceMarks    int
	capital       bool
	caseLower     bool
	inHeading     bool
	inAnomaly     bool
}

func (r *renderer) feed(tok token.Address) error {
	if r.inAnomaly && tok != token.AnomalyEnd {
		ch, ok := tok.CharOf()
		if !ok {
			return faults.Wrap(faults.ErrIntegrity, "render", "anomaly span", fmt.Sprintf("non-character token %s inside span", tok), nil)
		}
		r.out.WriteRune(ch)
		return nil
	}

	switch tok {
	case token.AnchorStart, token.AnchorEnd:
		return nil
	case token.ParagraphBreak:
		r.startBlock()
		return nil
	case token.HeadingStart:
		r.startBlock()
		r.inHeading = true
		return nil
	case token.HeadingEnd:
		r.startBlock()
		r.inHeading = false
		return nil
	case token.CaseLower:
		r.caseLower = true
		return nil
	case token.Glue:
		r.glue = true
		return nil
	case token.SpaceMark:
		r.spaceMarks++
		return nil
	case token.EmphasisStart, token.EmphasisEnd:
		r.writeContent(tok, "_")
		return nil
	case token.AnomalyStart:
		r.writeGap(tok)
		r.inAnomaly = true
		return nil
	case token.AnomalyEnd:
		r.inAnomaly = false
		r.prev = tok
		return nil
	}

	if level, ok := tok.IndentLevel(); ok {
		r.pendingIndent = r.indentWidth(level)
		return nil
	}

	switch tok.Category() {
	case token.CategoryWord:
		return r.word(tok)
	case token.CategoryPunct:
		return r.punct(tok)
	case token.CategoryAnomaly:
		// A stray character token outside a span still renders its rune.
		ch, _ := tok.CharOf()
		r.writeContent(tok, string(ch))
		return nil
	case token.CategoryStruct:
		return faults.Wrap(faults.ErrIntegrity, "render", "sequence", fmt.Sprintf("unhandled structural token %s", tok), nil)
	default:
		return faults.Wrap(faults.ErrIntegrity, "render", "sequence", fmt.Sprintf("document address %s inside sequence", tok), nil)
	}
}

func (r *renderer) word(tok token.Address) error {
	if r.snap == nil {
		return faults.Wrap(faults.ErrValidation, "render", "word", "no vocabulary snapshot supplied", nil)
	}
	surface, ok := r.snap.Surface(tok)
	if !ok {
		return faults.Wrap(faults.ErrIntegrity, "render", "word", fmt.Sprintf("address %s absent from snapshot %.12s", tok, r.snap.Version()), nil)
	}
	text := surface
	if r.capital && !r.caseLower {
		text = TitleFirst(surface)
	}
	r.caseLower = false
	r.writeContent(tok, text)
	r.capital = r.inHeading
	return nil
}

func (r *renderer) punct(tok token.Address) error {
	surface, ok := tok.PunctSurface()
	if !ok {
		return faults.Wrap(faults.ErrIntegrity, "render", "punctuation", fmt.Sprintf("address %s outside the punctuation table", tok), nil)
	}
	r.writeContent(tok, surface)
	switch {
	case tok.SentenceFinal():
		r.capital = true
	case tok.OpeningMark() || tok.ClosingMark():
		// Quote-like marks keep a pending capital position alive.
	default:
		r.capital = r.inHeading
	}
	return nil
}

// startBlock queues a blank-line separator and resets line state.
func (r *renderer) startBlock() {
	if r.block != blockStart {
		r.block = blockBreak
	}
	r.prev = token.Address{}
	r.glue = false
	r.spaceMarks = 0
	r.pendingIndent = 0
	r.capital = true
	r.caseLower = false
}

func (r *renderer) writeContent(tok token.Address, text string) {
	r.writeGap(tok)
	r.out.WriteString(text)
	r.prev = tok
}

// writeGap settles the junction before a content atom: block separator and
// indent first, otherwise default spacing modified by overrides.
func (r *renderer) writeGap(next token.Address) {
	if r.block != blockNone {
		if r.block == blockBreak {
			r.out.WriteString("\n\n")
		}
		if r.pendingIndent > 0 {
			r.out.WriteString(strings.Repeat(" ", r.pendingIndent))
			r.pendingIndent = 0
		}
		r.block = blockNone
		r.glue = false
		r.spaceMarks = 0
		return
	}
	gap := DefaultGap(r.prev, next)
	if r.glue {
		gap = 0
	}
	if r.spaceMarks > 0 {
		gap = r.spaceMarks
	}
	r.glue = false
	r.spaceMarks = 0
	if gap > 0 {
		r.out.WriteString(strings.Repeat(" ", gap))
	}
}

func (r *renderer) indentWidth(level int) int {
	if w, ok := r.widths[level]; ok && w > 0 {
		return w
	}
	return level * 4
}

func (r *renderer) finish() string {
	if r.out.Len() == 0 {
		return ""
	}
	return r.out.String() + "\n"
}

// TitleFirst is the capitalization the renderer applies at a capital
// position. Encoding consults it to predict how a word will render, so both
// directions share the one transform.
func TitleFirst(s string) string {
	if s == "" {
		return s
	}
	first, size := utf8.DecodeRuneInString(s)
	upper := unicode.ToTitle(first)
	if upper == first {
		return s
	}
	return string(upper) + s[size:]
}
