package segment

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"loom/internal/boilerplate"
	"loom/internal/faults"
	"loom/internal/render"
	"loom/internal/resolve"
	"loom/internal/scan"
	"loom/internal/token"
)

// Options carries the optional collaborators of a segmentation run.
type Options struct {
	// Advisory screens paragraphs for boilerplate. nil probes nothing.
	Advisory boilerplate.Advisory
	// Scope names the source document for the advisory's probes.
	Scope string
}

// Result is the canonical sequence of one document plus its provenance.
type Result struct {
	// Sequence is the token sequence, bracketed by the anchor markers.
	Sequence []token.Address
	// IndentWidths maps each assigned indent level to the literal column
	// width it stands for. The renderer replays it.
	IndentWidths map[int]int
	// Blocks counts emitted blocks, Headings the subset marked as headings.
	Blocks   int
	Headings int
	// Dropped counts blocks excluded on the advisory's verdict. Truncated is
	// set when a terminal verdict ended the document early, and TerminalMatch
	// names the advisory pattern that ended it.
	Dropped       int
	Truncated     bool
	TerminalMatch string
}

// Segment builds the canonical sequence for a lexeme stream. Resolution
// runs against the given resolver, so the sequence is tied to that
// resolver's vocabulary snapshot.
func Segment(lexemes []scan.Lexeme, resolver *resolve.Resolver, opts Options) (*Result, error) {
	if resolver == nil {
		return nil, faults.Wrap(faults.ErrValidation, "segment", "segment", "resolver is required", nil)
	}

	blocks := splitBlocks(lexemes)
	res := &Result{IndentWidths: make(map[int]int)}
	levels := indentLevels{byWidth: make(map[int]int), widths: res.IndentWidths}
	seq := []token.Address{token.AnchorStart}
	e := emitter{resolver: resolver}

	prevHeading := false
	for bi, b := range blocks {
		if opts.Advisory != nil {
			verdict, match := opts.Advisory.Probe(b.plainText(), opts.Scope)
			switch verdict {
			case boilerplate.Reject:
				res.Dropped++
				continue
			case boilerplate.Complete:
				res.Dropped += len(blocks) - bi
				res.Truncated = true
				res.TerminalMatch = match
			}
		}
		if res.Truncated {
			break
		}

		heading := b.isHeading()
		switch {
		case heading:
			seq = append(seq, token.HeadingStart)
		case res.Blocks > 0 && !prevHeading:
			// A heading's end marker already implies the block break.
			seq = append(seq, token.ParagraphBreak)
		}
		if b.indent > 0 {
			seq = append(seq, token.Indent(levels.assign(b.indent)))
		}
		seq = e.emitBlock(seq, b, heading)
		if heading {
			seq = append(seq, token.HeadingEnd)
			res.Headings++
		}
		res.Blocks++
		prevHeading = heading
	}

	res.Sequence = append(seq, token.AnchorEnd)
	return res, nil
}

// block is one paragraph's worth of lexemes. Soft wraps stay inside as
// line-break lexemes; the blank lines that delimit blocks do not.
type block struct {
	lexemes []scan.Lexeme
	// indent is the leading column width of the block's first line.
	indent int
}

func splitBlocks(lexemes []scan.Lexeme) []block {
	var blocks []block
	var cur block
	flush := func() {
		for len(cur.lexemes) > 0 && cur.lexemes[len(cur.lexemes)-1].Kind == scan.KindLineBreak {
			cur.lexemes = cur.lexemes[:len(cur.lexemes)-1]
		}
		if len(cur.lexemes) > 0 {
			blocks = append(blocks, cur)
		}
		cur = block{}
	}
	for _, lx := range lexemes {
		if lx.Kind == scan.KindLineBreak {
			if lx.Newlines() >= 2 {
				flush()
			} else if len(cur.lexemes) > 0 {
				cur.lexemes = append(cur.lexemes, lx)
			}
			continue
		}
		if len(cur.lexemes) == 0 {
			cur.indent = lx.Gap
		}
		cur.lexemes = append(cur.lexemes, lx)
	}
	flush()
	return blocks
}

func (b block) plainText() string {
	var sb strings.Builder
	for _, lx := range b.lexemes {
		if lx.Kind == scan.KindLineBreak {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(lx.Text)
	}
	return sb.String()
}

// headingLabel matches the conventional sectioning words a heading line
// leads with.
var headingLabel = regexp.MustCompile(`(?i)^(chapter|part|book|section)$`)

// isHeading applies the heading heuristic: an isolated single line that
// either leads with a sectioning label or is a short run of capitalized
// words without a sentence ending. Misreads are harmless to fidelity, since
// headings and paragraphs render with the same block separation.
func (b block) isHeading() bool {
	words := 0
	for _, lx := range b.lexemes {
		switch lx.Kind {
		case scan.KindLineBreak:
			return false
		case scan.KindWord:
			words++
		}
	}
	if words == 0 {
		return false
	}
	first := b.lexemes[0]
	if first.Kind == scan.KindWord && headingLabel.MatchString(first.Text) &&
		len(b.lexemes) > 1 && words < 8 {
		return true
	}
	if words >= 5 {
		return false
	}
	for _, lx := range b.lexemes {
		if lx.Kind == scan.KindWord && !startsUpper(lx.Text) {
			return false
		}
	}
	last := b.lexemes[len(b.lexemes)-1]
	if last.Kind == scan.KindPunct || last.Kind == scan.KindIdiom {
		if addr, ok := token.PunctAddress(last.Text); ok && addr.SentenceFinal() {
			return false
		}
	}
	return true
}

func startsUpper(s string) bool {
	first, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(first) || unicode.IsTitle(first)
}

// indentLevels assigns ordinal levels to literal widths in first-seen order.
type indentLevels struct {
	byWidth map[int]int
	widths  map[int]int
}

func (l *indentLevels) assign(width int) int {
	if lvl, ok := l.byWidth[width]; ok {
		return lvl
	}
	lvl := len(l.byWidth) + 1
	if lvl > token.MaxIndentLevel {
		lvl = token.MaxIndentLevel
	}
	l.byWidth[width] = lvl
	if _, ok := l.widths[lvl]; !ok {
		l.widths[lvl] = width
	}
	return lvl
}

// emitter walks one block and mirrors the renderer's capital-position state
// so each word resolves with the position the renderer will give it.
type emitter struct {
	resolver  *resolve.Resolver
	inHeading bool
	capital   bool
	prev      token.Address
	havePrev  bool
}

func (e *emitter) emitBlock(seq []token.Address, b block, heading bool) []token.Address {
	e.inHeading = heading
	e.capital = true
	e.prev = token.Address{}
	e.havePrev = false

	pairs := emphasisPairs(b.lexemes)
	atWrap := false
	for i, lx := range b.lexemes {
		if lx.Kind == scan.KindLineBreak {
			atWrap = true
			continue
		}
		var run []token.Address
		if mark, ok := pairs[i]; ok {
			run = []token.Address{mark}
		} else {
			run = e.resolver.Resolve(lx, resolve.Context{CapitalPosition: e.capital, InHeading: heading})
		}
		if len(run) == 0 {
			continue
		}
		if e.havePrev && !atWrap {
			seq = appendOverrides(seq, lx.Gap, e.prev, firstContent(run))
		}
		atWrap = false
		seq = append(seq, run...)
		e.replay(run)
		e.prev = run[len(run)-1]
		e.havePrev = true
	}
	return seq
}

// appendOverrides emits Glue or SpaceMark runs where the source spacing at
// a junction diverges from the renderer's default.
func appendOverrides(seq []token.Address, gap int, prev, next token.Address) []token.Address {
	d := render.DefaultGap(prev, next)
	if gap == d {
		return seq
	}
	if gap == 0 {
		return append(seq, token.Glue)
	}
	for i := 0; i < gap; i++ {
		seq = append(seq, token.SpaceMark)
	}
	return seq
}

// firstContent returns the token the renderer settles the junction gap
// against, skipping a leading case override.
func firstContent(run []token.Address) token.Address {
	for _, tk := range run {
		if tk != token.CaseLower {
			return tk
		}
	}
	return run[len(run)-1]
}

// replay advances the capital-position state over an emitted run, applying
// the same rules the renderer does.
func (e *emitter) replay(run []token.Address) {
	for _, tk := range run {
		switch tk {
		case token.CaseLower, token.Glue, token.SpaceMark,
			token.AnomalyStart, token.AnomalyEnd,
			token.EmphasisStart, token.EmphasisEnd:
			continue
		}
		switch tk.Category() {
		case token.CategoryWord:
			e.capital = e.inHeading
		case token.CategoryPunct:
			switch {
			case tk.SentenceFinal():
				e.capital = true
			case tk.OpeningMark() || tk.ClosingMark():
			default:
				e.capital = e.inHeading
			}
		}
	}
}

// emphasisPairs pairs emphasis markers within a block in reading order. An
// odd trailing marker stays unpaired and resolves as a literal underscore.
func emphasisPairs(lexemes []scan.Lexeme) map[int]token.Address {
	var idx []int
	for i, lx := range lexemes {
		if lx.Kind == scan.KindEmphasis {
			idx = append(idx, i)
		}
	}
	pairs := make(map[int]token.Address, len(idx))
	for i := 0; i+1 < len(idx); i += 2 {
		pairs[idx[i]] = token.EmphasisStart
		pairs[idx[i+1]] = token.EmphasisEnd
	}
	return pairs
}
