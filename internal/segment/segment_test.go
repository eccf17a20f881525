package segment_test

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"loom/internal/boilerplate"
	"loom/internal/faults"
	"loom/internal/render"
	"loom/internal/resolve"
	"loom/internal/scan"
	"loom/internal/segment"
	"loom/internal/token"
	"loom/internal/vocab"
)

const testWords = `the
dog
ran
cat
sat
a
fine
day
it
was
well
known
he
said
she
i
first
second
line
over
away
left
stayed
room
cold
end
`

func testSnapshot(t *testing.T) *vocab.Snapshot {
	t.Helper()
	snap, err := vocab.Build(strings.NewReader(testWords))
	if err != nil {
		t.Fatalf("build snapshot: %v", err)
	}
	return snap
}

func segmentSource(t *testing.T, src string, opts segment.Options) (*segment.Result, *vocab.Snapshot) {
	t.Helper()
	snap := testSnapshot(t)
	res, err := segment.Segment(scan.Scan(scan.Normalize(src)), resolve.New(snap, nil, 0), opts)
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	return res, snap
}

// assertRoundTrip encodes src and renders the sequence back, comparing
// against want.
func assertRoundTrip(t *testing.T, src, want string) *segment.Result {
	t.Helper()
	res, snap := segmentSource(t, src, segment.Options{})
	got, err := render.Render(res.Sequence, render.Options{Snapshot: snap, IndentWidths: res.IndentWidths})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != want {
		t.Fatalf("round trip of %q produced %q, want %q", src, got, want)
	}
	return res
}

func TestSegmentSimpleParagraph(t *testing.T) {
	res := assertRoundTrip(t, "The dog ran. The cat sat.", "The dog ran. The cat sat.\n")
	if res.Blocks != 1 || res.Headings != 0 {
		t.Fatalf("blocks = %d headings = %d, want 1 and 0", res.Blocks, res.Headings)
	}
	if res.Sequence[0] != token.AnchorStart || res.Sequence[len(res.Sequence)-1] != token.AnchorEnd {
		t.Fatalf("sequence not anchored: %v", res.Sequence)
	}
}

func TestSegmentParagraphBreak(t *testing.T) {
	res := assertRoundTrip(t, "The dog ran.\n\nThe cat sat.\n", "The dog ran.\n\nThe cat sat.\n")
	if res.Blocks != 2 {
		t.Fatalf("blocks = %d, want 2", res.Blocks)
	}
	breaks := 0
	for _, tk := range res.Sequence {
		if tk == token.ParagraphBreak {
			breaks++
		}
	}
	if breaks != 1 {
		t.Fatalf("paragraph breaks = %d, want 1", breaks)
	}
}

func TestSegmentSoftWrapJoins(t *testing.T) {
	// Hard-wrapped lines join with a single space.
	assertRoundTrip(t, "The dog\nran away.\n", "The dog ran away.\n")
}

func TestSegmentLabelHeading(t *testing.T) {
	res := assertRoundTrip(t, "CHAPTER I\n\nThe dog ran.\n", "CHAPTER I\n\nThe dog ran.\n")
	if res.Headings != 1 {
		t.Fatalf("headings = %d, want 1", res.Headings)
	}
	// The heading's end marker implies the break, so no separator follows.
	if slices.Contains(res.Sequence, token.ParagraphBreak) {
		t.Fatalf("unexpected paragraph break in %v", res.Sequence)
	}
}

func TestSegmentTitleCaseHeading(t *testing.T) {
	res := assertRoundTrip(t, "The End\n\nIt was over.\n", "The End\n\nIt was over.\n")
	if res.Headings != 1 {
		t.Fatalf("headings = %d, want 1", res.Headings)
	}
}

func TestSegmentIndentLevels(t *testing.T) {
	src := "  The dog ran.\n\n      The cat sat.\n\n  It was over.\n"
	res := assertRoundTrip(t, src, src)
	if res.IndentWidths[1] != 2 || res.IndentWidths[2] != 6 {
		t.Fatalf("indent widths = %v, want level 1 at 2 and level 2 at 6", res.IndentWidths)
	}
}

func TestSegmentSpaceMarks(t *testing.T) {
	// Doubled spacing after a sentence survives exactly.
	assertRoundTrip(t, "The dog ran.  The cat sat.", "The dog ran.  The cat sat.\n")
}

func TestSegmentGlueJoins(t *testing.T) {
	assertRoundTrip(t, "the_dog ran", "the_dog ran\n")
}

func TestSegmentEmphasis(t *testing.T) {
	assertRoundTrip(t, "It was a _fine_ day.", "It was a _fine_ day.\n")
	// An unpaired marker stays a literal underscore.
	assertRoundTrip(t, "_fine day.", "_fine day.\n")
}

func TestSegmentAnomalies(t *testing.T) {
	assertRoundTrip(t, "Room 101 was cold.", "Room 101 was cold.\n")
	// A surface with no vocabulary entry survives verbatim through its span.
	assertRoundTrip(t, "The dog Zqxlon ran.", "The dog Zqxlon ran.\n")
	// Escaped spans leave the capital position pending for the next word.
	assertRoundTrip(t, "§5 The dog ran.", "§5 The dog ran.\n")
}

func TestSegmentQuotedSpeech(t *testing.T) {
	assertRoundTrip(t, `He said, "the dog ran."`, "He said, \"the dog ran.\"\n")
}

func TestSegmentPossessiveAndCompound(t *testing.T) {
	assertRoundTrip(t, "The dog's day was well-known.", "The dog's day was well-known.\n")
}

func TestSegmentLowercaseAfterSentence(t *testing.T) {
	assertRoundTrip(t, "He left. she stayed.", "He left. she stayed.\n")
}

type stubAdvisory struct{}

func (stubAdvisory) Probe(text, _ string) (boilerplate.Verdict, string) {
	if strings.Contains(text, "license") {
		return boilerplate.Reject, ""
	}
	if strings.Contains(text, "THE VERY END") {
		return boilerplate.Complete, "the very end"
	}
	return boilerplate.Continue, ""
}

func TestSegmentAdvisoryVerdicts(t *testing.T) {
	src := "The dog ran.\n\nfree license text here\n\nThe cat sat.\n\nTHE VERY END\n\nThe dog sat.\n"
	res, snap := segmentSource(t, src, segment.Options{Advisory: stubAdvisory{}})

	if res.Blocks != 2 || res.Dropped != 3 || !res.Truncated {
		t.Fatalf("blocks = %d dropped = %d truncated = %v, want 2, 3, true",
			res.Blocks, res.Dropped, res.Truncated)
	}
	if res.TerminalMatch != "the very end" {
		t.Fatalf("terminal match = %q, want %q", res.TerminalMatch, "the very end")
	}
	got, err := render.Render(res.Sequence, render.Options{Snapshot: snap, IndentWidths: res.IndentWidths})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "The dog ran.\n\nThe cat sat.\n" {
		t.Fatalf("rendered %q", got)
	}
}

func TestSegmentEmptyInput(t *testing.T) {
	res, _ := segmentSource(t, "", segment.Options{})
	if len(res.Sequence) != 2 || res.Sequence[0] != token.AnchorStart || res.Sequence[1] != token.AnchorEnd {
		t.Fatalf("empty input sequence = %v", res.Sequence)
	}
	res, _ = segmentSource(t, "\n   \n\t\n", segment.Options{})
	if res.Blocks != 0 {
		t.Fatalf("whitespace input produced %d blocks", res.Blocks)
	}
}

func TestSegmentRequiresResolver(t *testing.T) {
	_, err := segment.Segment(nil, nil, segment.Options{})
	if !errors.Is(err, faults.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
