package render_test

import (
	"errors"
	"strings"
	"testing"

	"loom/internal/faults"
	"loom/internal/render"
	"loom/internal/token"
	"loom/internal/vocab"
)

func testSnapshot(t *testing.T) *vocab.Snapshot {
	t.Helper()
	list := "the\ndog\nran\ncat\nsat\nhello\nchapter\none\na\nfine\nday\nsaid\ndogs\nbone\nhe\n"
	snap, err := vocab.Build(strings.NewReader(list))
	if err != nil {
		t.Fatalf("build snapshot: %v", err)
	}
	return snap
}

func word(t *testing.T, snap *vocab.Snapshot, surface string) token.Address {
	t.Helper()
	addr, ok := snap.Lookup(surface)
	if !ok {
		t.Fatalf("test vocabulary missing %q", surface)
	}
	return addr
}

func TestRenderSimpleSentence(t *testing.T) {
	snap := testSnapshot(t)
	seq := []token.Address{
		token.AnchorStart,
		word(t, snap, "the"), word(t, snap, "dog"), word(t, snap, "ran"), token.Period,
		token.AnchorEnd,
	}
	got, err := render.Render(seq, render.Options{Snapshot: snap})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if got != "The dog ran.\n" {
		t.Fatalf("Render = %q", got)
	}
}

func TestRenderTwoSentences(t *testing.T) {
	snap := testSnapshot(t)
	seq := []token.Address{
		token.AnchorStart,
		word(t, snap, "the"), word(t, snap, "dog"), word(t, snap, "ran"), token.Period,
		word(t, snap, "the"), word(t, snap, "cat"), word(t, snap, "sat"), token.Period,
		token.AnchorEnd,
	}
	got, err := render.Render(seq, render.Options{Snapshot: snap})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if got != "The dog ran. The cat sat.\n" {
		t.Fatalf("Render = %q", got)
	}
}

func TestRenderCaseLowerSuppressesCapital(t *testing.T) {
	snap := testSnapshot(t)
	seq := []token.Address{
		token.AnchorStart,
		token.CaseLower, word(t, snap, "the"), word(t, snap, "dog"),
		token.AnchorEnd,
	}
	got, err := render.Render(seq, render.Options{Snapshot: snap})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if got != "the dog\n" {
		t.Fatalf("Render = %q", got)
	}
}

func TestRenderGlueAndSpaceMark(t *testing.T) {
	snap := testSnapshot(t)
	quote, _ := token.PunctAddress(`"`)

	seq := []token.Address{
		token.AnchorStart,
		quote, token.Glue, word(t, snap, "hello"), token.Glue, quote,
		token.AnchorEnd,
	}
	got, err := render.Render(seq, render.Options{Snapshot: snap})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if got != "\"Hello\"\n" {
		t.Fatalf("glued quotes render = %q", got)
	}

	seq = []token.Address{
		token.AnchorStart,
		word(t, snap, "the"), token.SpaceMark, token.SpaceMark, word(t, snap, "dog"),
		token.AnchorEnd,
	}
	got, err = render.Render(seq, render.Options{Snapshot: snap})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if got != "The  dog\n" {
		t.Fatalf("double space render = %q", got)
	}
}

func TestRenderParagraphsAndIndent(t *testing.T) {
	snap := testSnapshot(t)
	seq := []token.Address{
		token.AnchorStart,
		word(t, snap, "the"), word(t, snap, "dog"), token.Period,
		token.ParagraphBreak, token.Indent(1),
		word(t, snap, "the"), word(t, snap, "cat"), token.Period,
		token.AnchorEnd,
	}
	got, err := render.Render(seq, render.Options{
		Snapshot:     snap,
		IndentWidths: map[int]int{1: 2},
	})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if got != "The dog.\n\n  The cat.\n" {
		t.Fatalf("Render = %q", got)
	}
}

func TestRenderHeadingTitleCase(t *testing.T) {
	snap := testSnapshot(t)
	seq := []token.Address{
		token.AnchorStart,
		token.HeadingStart, word(t, snap, "chapter"), word(t, snap, "one"), token.HeadingEnd,
		word(t, snap, "the"), word(t, snap, "dog"), token.Period,
		token.AnchorEnd,
	}
	got, err := render.Render(seq, render.Options{Snapshot: snap})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if got != "Chapter One\n\nThe dog.\n" {
		t.Fatalf("Render = %q", got)
	}
}

func TestRenderEmphasis(t *testing.T) {
	snap := testSnapshot(t)
	seq := []token.Address{
		token.AnchorStart,
		word(t, snap, "a"),
		token.EmphasisStart, word(t, snap, "fine"), token.EmphasisEnd,
		word(t, snap, "day"),
		token.AnchorEnd,
	}
	got, err := render.Render(seq, render.Options{Snapshot: snap})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if got != "A _fine_ day\n" {
		t.Fatalf("Render = %q", got)
	}
}

func TestRenderAnomalySpans(t *testing.T) {
	snap := testSnapshot(t)
	seq := []token.Address{
		token.AnchorStart,
		word(t, snap, "the"),
		token.AnomalyStart, token.CharAddress('§'), token.CharAddress('5'), token.AnomalyEnd,
		word(t, snap, "dog"),
		token.AnchorEnd,
	}
	got, err := render.Render(seq, render.Options{Snapshot: snap})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if got != "The §5 dog\n" {
		t.Fatalf("Render = %q", got)
	}
}

func TestRenderCapitalSurvivesSpan(t *testing.T) {
	snap := testSnapshot(t)
	// A span at the start of a paragraph leaves the capital position alive,
	// so a lowercase continuation needs its override marker.
	seq := []token.Address{
		token.AnchorStart,
		token.AnomalyStart, token.CharAddress('3'), token.AnomalyEnd,
		token.CaseLower, word(t, snap, "dogs"), word(t, snap, "ran"),
		token.AnchorEnd,
	}
	got, err := render.Render(seq, render.Options{Snapshot: snap})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if got != "3 dogs ran\n" {
		t.Fatalf("Render = %q", got)
	}
}

func TestRenderPossessive(t *testing.T) {
	snap := testSnapshot(t)
	seq := []token.Address{
		token.AnchorStart,
		word(t, snap, "the"), word(t, snap, "dog"), token.PossessiveS, word(t, snap, "bone"),
		token.AnchorEnd,
	}
	got, err := render.Render(seq, render.Options{Snapshot: snap})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if got != "The dog's bone\n" {
		t.Fatalf("Render = %q", got)
	}
}

func TestRenderCapitalAfterQuote(t *testing.T) {
	snap := testSnapshot(t)
	quote, _ := token.PunctAddress(`"`)
	seq := []token.Address{
		token.AnchorStart,
		word(t, snap, "he"), word(t, snap, "said"), token.Period,
		quote, token.Glue, word(t, snap, "the"), word(t, snap, "dog"),
		token.AnchorEnd,
	}
	got, err := render.Render(seq, render.Options{Snapshot: snap})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if got != "He said. \"The dog\n" {
		t.Fatalf("Render = %q", got)
	}
}

func TestRenderErrors(t *testing.T) {
	snap := testSnapshot(t)

	unknown := token.MustNew(token.NamespaceWord, token.MaxOrdinal)
	_, err := render.Render([]token.Address{token.AnchorStart, unknown}, render.Options{Snapshot: snap})
	if !errors.Is(err, faults.ErrIntegrity) {
		t.Fatalf("expected integrity error for unknown word, got %v", err)
	}

	doc := token.MustNew(token.NamespaceDocument, 1)
	_, err = render.Render([]token.Address{doc}, render.Options{Snapshot: snap})
	if !errors.Is(err, faults.ErrIntegrity) {
		t.Fatalf("expected integrity error for document address, got %v", err)
	}

	inSpan := []token.Address{token.AnomalyStart, word(t, snap, "the"), token.AnomalyEnd}
	_, err = render.Render(inSpan, render.Options{Snapshot: snap})
	if !errors.Is(err, faults.ErrIntegrity) {
		t.Fatalf("expected integrity error for word inside span, got %v", err)
	}

	_, err = render.Render([]token.Address{word(t, snap, "the")}, render.Options{})
	if !errors.Is(err, faults.ErrValidation) {
		t.Fatalf("expected validation error without snapshot, got %v", err)
	}
}

func TestRenderEmptySequence(t *testing.T) {
	got, err := render.Render(nil, render.Options{})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if got != "" {
		t.Fatalf("empty sequence should render empty, got %q", got)
	}
}

func TestDefaultGap(t *testing.T) {
	snap := testSnapshot(t)
	the := word(t, snap, "the")
	dog := word(t, snap, "dog")
	parenOpen, _ := token.PunctAddress("(")

	cases := []struct {
		name       string
		prev, next token.Address
		want       int
	}{
		{"word word", the, dog, 1},
		{"word period", the, token.Period, 0},
		{"period word", token.Period, the, 1},
		{"open paren word", parenOpen, the, 0},
		{"word open paren", the, parenOpen, 1},
		{"hyphen word", token.Hyphen, the, 0},
		{"word hyphen", the, token.Hyphen, 0},
		{"emphasis start word", token.EmphasisStart, the, 0},
		{"word emphasis end", the, token.EmphasisEnd, 0},
		{"emphasis end word", token.EmphasisEnd, the, 1},
		{"block start", token.Address{}, the, 0},
		{"span start after word", the, token.AnomalyStart, 1},
		{"span end before word", token.AnomalyEnd, the, 1},
		{"span end before period", token.AnomalyEnd, token.Period, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := render.DefaultGap(tc.prev, tc.next); got != tc.want {
				t.Fatalf("DefaultGap = %d, want %d", got, tc.want)
			}
		})
	}
}
