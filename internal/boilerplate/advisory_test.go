package boilerplate

import (
	"math"
	"testing"
)

func TestCosineNil(t *testing.T) {
	tests := []struct {
		name string
		a    *Fingerprint
		b    *Fingerprint
	}{
		{"both nil", nil, nil},
		{"a nil", nil, NewFingerprint("hello world")},
		{"b nil", NewFingerprint("hello world"), nil},
		{"empty text", NewFingerprint("a b"), NewFingerprint("hello world")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Cosine(tt.a, tt.b); got != 0 {
				t.Errorf("Cosine() = %v, want 0", got)
			}
		})
	}
}

func TestCosineIdentical(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog"
	got := Cosine(NewFingerprint(text), NewFingerprint(text))
	if math.Abs(got-1.0) > 1e-9 {
		t.Errorf("Cosine(identical) = %v, want 1.0", got)
	}
}

func TestCosineDisjoint(t *testing.T) {
	a := NewFingerprint("completely unrelated material about sailing ships")
	b := NewFingerprint("quarterly finance report with numbers")
	if got := Cosine(a, b); got != 0 {
		t.Errorf("Cosine(disjoint) = %v, want 0", got)
	}
}

func TestTermsDropShort(t *testing.T) {
	got := Terms("An Ox, a fox -- and 1234 bees!")
	want := []string{"fox", "and", "1234", "bees"}
	if len(got) != len(want) {
		t.Fatalf("Terms() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Terms()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFilterRejectsNearDuplicate(t *testing.T) {
	f := NewFilter(0.8, 5)
	f.AddPattern("this electronic text is distributed free of charge for the use of readers anywhere with no restrictions on copying or redistribution")

	reject := "This electronic text is distributed free of charge for the use of readers anywhere, with no restrictions on copying!"
	if got, _ := f.Probe(reject, "tale.txt"); got != Reject {
		t.Fatalf("Probe(near duplicate) = %v, want reject", got)
	}

	keep := "The dog ran across the meadow and the children followed it laughing all the way home."
	if got, _ := f.Probe(keep, "tale.txt"); got != Continue {
		t.Fatalf("Probe(prose) = %v, want continue", got)
	}
}

func TestFilterMinTermsGuard(t *testing.T) {
	f := NewFilter(0.5, 8)
	f.AddPattern("free charge readers")

	// Matches the pattern well but carries too few distinct terms to judge.
	if got, _ := f.Probe("Free charge readers", ""); got != Continue {
		t.Fatalf("Probe(short block) = %v, want continue", got)
	}
}

func TestDefaultFilterTerminalMarker(t *testing.T) {
	f := DefaultFilter(0, 0)

	closing := "*** END OF THE PROJECT GUTENBERG EBOOK A DOG'S TALE ***"
	verdict, match := f.Probe(closing, "tale.txt")
	if verdict != Complete {
		t.Fatalf("Probe(closing marker) = %v, want complete", verdict)
	}
	if match != "end the project gutenberg ebook" {
		t.Fatalf("matched pattern = %q", match)
	}

	prose := "It was the schooner Hesperus that sailed the wintry sea."
	if got, _ := f.Probe(prose, "tale.txt"); got != Continue {
		t.Fatalf("Probe(prose) = %v, want continue", got)
	}
}

func TestNopKeepsEverything(t *testing.T) {
	adv := Nop()
	if got, _ := adv.Probe("anything at all", ""); got != Continue {
		t.Fatalf("Nop().Probe = %v, want continue", got)
	}
}

func TestVerdictString(t *testing.T) {
	cases := map[Verdict]string{
		Continue:   "continue",
		Reject:     "reject",
		Complete:   "complete",
		Verdict(9): "unknown",
	}
	for v, want := range cases {
		if got := v.String(); got != want {
			t.Errorf("Verdict(%d).String() = %q, want %q", v, got, want)
		}
	}
}
