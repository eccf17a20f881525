package verify

import (
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"

	"loom/internal/bondgraph"
	"loom/internal/decode"
	"loom/internal/render"
	"loom/internal/token"
	"loom/internal/vocab"
)

// Status is the round-trip verdict stored with a document.
type Status string

const (
	StatusPass           Status = "pass"
	StatusNormalizedPass Status = "normalized_pass"
	StatusFail           Status = "fail"
)

// AcceptedBy reports whether the verdict satisfies a configured verify
// mode: "strict" accepts only a byte-exact pass, "normalized" also accepts
// a normalized match, and "off" accepts anything.
func (s Status) AcceptedBy(mode string) bool {
	switch mode {
	case "off":
		return true
	case "normalized":
		return s != StatusFail
	default:
		return s == StatusPass
	}
}

// Divergence locates the first token position where two sequences differ.
// A zero Expected or Actual address means that side ended early.
type Divergence struct {
	Position int
	Expected token.Address
	Actual   token.Address
}

// Report is the outcome of one round-trip verification.
type Report struct {
	Status        Status
	TokensChecked int
	Divergence    *Divergence
	// TextChecked is false when the text comparison was skipped, which
	// happens for documents encoded with content filtering: their source
	// no longer matches what was kept, so only the token walk is checked.
	TextChecked bool
	// PathUnique is set when the rank-free lexical walk reproduces the
	// ranked walk, meaning the graph's structure alone forces the order.
	PathUnique bool
	Rendered   string
}

// Input carries everything RoundTrip compares.
type Input struct {
	Graph        *bondgraph.Graph
	Want         []token.Address
	Original     string
	Snapshot     *vocab.Snapshot
	IndentWidths map[int]int
	// SkipText restricts the check to token level.
	SkipText bool
}

// RoundTrip replays the graph, compares the walk with the encoder's
// sequence, renders it, and compares the text with the original.
func RoundTrip(in Input) (*Report, error) {
	got, err := decode.Ranked(in.Graph)
	if err != nil {
		return nil, err
	}

	rendered, err := render.Render(got, render.Options{
		Snapshot:     in.Snapshot,
		IndentWidths: in.IndentWidths,
	})
	if err != nil {
		return nil, err
	}

	report := &Report{
		TokensChecked: len(got),
		Divergence:    Sequences(in.Want, got),
		Rendered:      rendered,
	}
	if in.SkipText {
		report.Status = StatusPass
	} else {
		report.TextChecked = true
		report.Status = Text(in.Original, rendered)
	}
	if report.Divergence != nil {
		report.Status = StatusFail
	}

	if lexical, err := decode.Lexical(in.Graph); err == nil {
		report.PathUnique = slices.Equal(lexical, got)
	}

	return report, nil
}

// StoredInput describes a document replayed from the library rather than
// freshly encoded. The canonical sequence is never stored, so the ranked
// walk itself is the integrity evidence; the source text is optional.
type StoredInput struct {
	Graph        *bondgraph.Graph
	Original     string
	Snapshot     *vocab.Snapshot
	IndentWidths map[int]int
}

// Stored replays a stored graph. The walk and the render must both
// succeed; when the caller still has the source text it is compared the
// same way encode-time verification compares it.
func Stored(in StoredInput) (*Report, error) {
	got, err := decode.Ranked(in.Graph)
	if err != nil {
		return nil, err
	}
	rendered, err := render.Render(got, render.Options{
		Snapshot:     in.Snapshot,
		IndentWidths: in.IndentWidths,
	})
	if err != nil {
		return nil, err
	}

	report := &Report{
		Status:        StatusPass,
		TokensChecked: len(got),
		Rendered:      rendered,
	}
	if in.Original != "" {
		report.TextChecked = true
		report.Status = Text(in.Original, rendered)
	}
	if lexical, err := decode.Lexical(in.Graph); err == nil {
		report.PathUnique = slices.Equal(lexical, got)
	}
	return report, nil
}

// Sequences compares two token sequences and returns the first divergence,
// or nil when they are identical.
func Sequences(want, got []token.Address) *Divergence {
	limit := min(len(want), len(got))
	for i := 0; i < limit; i++ {
		if want[i] != got[i] {
			return &Divergence{Position: i, Expected: want[i], Actual: got[i]}
		}
	}
	if len(want) == len(got) {
		return nil
	}
	d := &Divergence{Position: limit}
	if limit < len(want) {
		d.Expected = want[limit]
	}
	if limit < len(got) {
		d.Actual = got[limit]
	}
	return d
}

// Text compares rendered output with the original source.
func Text(original, rendered string) Status {
	if original == rendered {
		return StatusPass
	}
	if Normalize(original) == Normalize(rendered) {
		return StatusNormalizedPass
	}
	return StatusFail
}

// Normalize reduces text to the form both sides of a text comparison are
// held to: NFC, LF line endings, no trailing whitespace, blank-line runs
// collapsed to one paragraph break, and soft-wrapped lines rejoined with a
// single space.
func Normalize(text string) string {
	text = norm.NFC.String(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var paragraphs []string
	var current []string
	flush := func() {
		if len(current) > 0 {
			paragraphs = append(paragraphs, strings.Join(current, " "))
			current = nil
		}
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			flush()
			continue
		}
		if len(current) > 0 {
			// Continuation of a wrapped line: its leading indent is
			// layout, not content.
			line = strings.TrimLeft(line, " \t")
		}
		current = append(current, line)
	}
	flush()

	if len(paragraphs) == 0 {
		return ""
	}
	return strings.Join(paragraphs, "\n\n") + "\n"
}
