package vocab_test

import (
	"strings"
	"testing"

	"loom/internal/logging"
	"loom/internal/token"
	"loom/internal/vocab"
)

func TestBuildAssignsSequentialAddresses(t *testing.T) {
	list := "the\ndog\nran\n"
	snap, err := vocab.Build(strings.NewReader(list))
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if snap.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", snap.Len())
	}

	for i, surface := range []string{"the", "dog", "ran"} {
		addr, ok := snap.Lookup(surface)
		if !ok {
			t.Fatalf("Lookup(%q) missed", surface)
		}
		want := token.MustNew(token.NamespaceWord, uint32(i))
		if addr != want {
			t.Fatalf("Lookup(%q) = %s, want %s", surface, addr, want)
		}
		back, ok := snap.Surface(addr)
		if !ok || back != surface {
			t.Fatalf("Surface(%s) = %q ok=%v, want %q", addr, back, ok, surface)
		}
	}

	if _, ok := snap.Lookup("cat"); ok {
		t.Fatal("Lookup should miss surfaces outside the list")
	}
}

func TestBuildSkipsCommentsAndDuplicates(t *testing.T) {
	list := "# header\n\nthe\nthe\n  dog  \n# tail\n"
	snap, err := vocab.Build(strings.NewReader(list))
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if snap.Len() != 2 {
		t.Fatalf("expected 2 entries after dedup, got %d", snap.Len())
	}
	addr, ok := snap.Lookup("dog")
	if !ok {
		t.Fatal("Lookup(dog) missed")
	}
	// The duplicate "the" keeps its first address and consumes no ordinal.
	if want := token.MustNew(token.NamespaceWord, 1); addr != want {
		t.Fatalf("Lookup(dog) = %s, want %s", addr, want)
	}
}

func TestBuildRejectsWhitespaceSurfaces(t *testing.T) {
	if _, err := vocab.Build(strings.NewReader("two words\n")); err == nil {
		t.Fatal("expected error for surface with embedded whitespace")
	}
}

func TestVersionTracksBytes(t *testing.T) {
	a, err := vocab.Build(strings.NewReader("the\ndog\n"))
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	b, err := vocab.Build(strings.NewReader("the\ndog\n"))
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	c, err := vocab.Build(strings.NewReader("the\ncat\n"))
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	if a.Version() != b.Version() {
		t.Fatal("identical bytes should share a version")
	}
	if a.Version() == c.Version() {
		t.Fatal("different bytes should differ in version")
	}
	if len(a.Version()) != 64 {
		t.Fatalf("version should be sha256 hex, got %q", a.Version())
	}
}

func TestCoreListResolvesScenarioWords(t *testing.T) {
	snap := vocab.Core()
	for _, surface := range []string{"the", "dog", "ran", "cat", "sat", "don't", "o'clock"} {
		if _, ok := snap.Lookup(surface); !ok {
			t.Fatalf("core list missing %q", surface)
		}
	}
	if snap.Len() < 500 {
		t.Fatalf("core list surprisingly small: %d entries", snap.Len())
	}
}

func TestLookupCharacterIsTotal(t *testing.T) {
	snap := vocab.Core()
	for _, r := range []rune{'a', '€', '山'} {
		addr := snap.LookupCharacter(r)
		if addr.Namespace() != token.NamespaceChar {
			t.Fatalf("LookupCharacter(%q) in namespace %c", r, addr.Namespace())
		}
		back, ok := addr.CharOf()
		if !ok || back != r {
			t.Fatalf("character round trip for %q failed", r)
		}
	}
}

func TestGapReporterAggregates(t *testing.T) {
	reporter := vocab.NewGapReporter(logging.NewNop(), true)
	reporter.Report("Quixote", "chapter one")
	reporter.Report("Quixote", "chapter two")
	reporter.Report("Dulcinea", "chapter one")
	reporter.Report("", "ignored")

	gaps := reporter.Gaps()
	if len(gaps) != 2 {
		t.Fatalf("expected 2 gaps, got %d", len(gaps))
	}
	if gaps[0].Surface != "Quixote" || gaps[0].Count != 2 {
		t.Fatalf("unexpected first gap: %+v", gaps[0])
	}
	if gaps[0].Example != "chapter one" {
		t.Fatalf("example should keep first context, got %q", gaps[0].Example)
	}
	if gaps[1].Surface != "Dulcinea" || gaps[1].Count != 1 {
		t.Fatalf("unexpected second gap: %+v", gaps[1])
	}
}

func TestGapReporterDisabled(t *testing.T) {
	reporter := vocab.NewGapReporter(nil, false)
	reporter.Report("Quixote", "x")
	if gaps := reporter.Gaps(); len(gaps) != 0 {
		t.Fatalf("disabled reporter collected %d gaps", len(gaps))
	}
}
