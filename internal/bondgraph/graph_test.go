package bondgraph_test

import (
	"errors"
	"slices"
	"testing"

	"loom/internal/bondgraph"
	"loom/internal/faults"
	"loom/internal/token"
)

func word(n uint32) token.Address {
	return token.MustNew(token.NamespaceWord, n)
}

func anchored(middle ...token.Address) []token.Address {
	seq := make([]token.Address, 0, len(middle)+2)
	seq = append(seq, token.AnchorStart)
	seq = append(seq, middle...)
	return append(seq, token.AnchorEnd)
}

func findBond(t *testing.T, g *bondgraph.Graph, from, to token.Address) *bondgraph.Bond {
	t.Helper()
	fh, ok := g.HandleOf(from)
	if !ok {
		t.Fatalf("hub %s missing", from)
	}
	th, ok := g.HandleOf(to)
	if !ok {
		t.Fatalf("hub %s missing", to)
	}
	for _, b := range g.Outgoing(fh) {
		if b.To == th {
			return b
		}
	}
	t.Fatalf("bond %s->%s missing", from, to)
	return nil
}

func TestEncodeSimpleSequence(t *testing.T) {
	a, b, c := word(1), word(2), word(3)
	g, err := bondgraph.Encode(anchored(a, b, c))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	if g.HubCount() != 5 || g.BondCount() != 4 {
		t.Fatalf("hubs = %d bonds = %d, want 5 and 4", g.HubCount(), g.BondCount())
	}
	if g.EdgeCount() != 4 {
		t.Fatalf("edge count = %d, want sequence length minus one", g.EdgeCount())
	}
	if g.SeedAddress() != a {
		t.Fatalf("seed = %s, want %s", g.SeedAddress(), a)
	}
	for _, bond := range g.Bonds() {
		if bond.Count != 1 || !slices.Equal(bond.Ranks, []int64{1}) {
			t.Fatalf("bond %+v, want count 1 rank [1]", bond)
		}
	}
	if err := g.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestEncodeAggregatesRepeats(t *testing.T) {
	a, b := word(1), word(2)
	// a b a b: the a->b bond is traversed at both of a's departures.
	g, err := bondgraph.Encode(anchored(a, b, a, b))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	ab := findBond(t, g, a, b)
	if ab.Count != 2 || !slices.Equal(ab.Ranks, []int64{1, 2}) {
		t.Fatalf("a->b = %+v, want count 2 ranks [1 2]", ab)
	}
	ba := findBond(t, g, b, a)
	if ba.Count != 1 || !slices.Equal(ba.Ranks, []int64{1}) {
		t.Fatalf("b->a = %+v, want count 1 ranks [1]", ba)
	}
	// b leaves to a first, then to the end anchor.
	bEnd := findBond(t, g, b, token.AnchorEnd)
	if !slices.Equal(bEnd.Ranks, []int64{2}) {
		t.Fatalf("b->end ranks = %v, want [2]", bEnd.Ranks)
	}
	if err := g.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestEncodeSelfLoop(t *testing.T) {
	a := word(7)
	g, err := bondgraph.Encode(anchored(a, a, a))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	loop := findBond(t, g, a, a)
	if loop.Count != 2 || !slices.Equal(loop.Ranks, []int64{1, 2}) {
		t.Fatalf("self loop = %+v, want count 2 ranks [1 2]", loop)
	}
	ah, _ := g.HandleOf(a)
	in, out := g.Degrees(ah)
	if in != 3 || out != 3 {
		t.Fatalf("degrees = %d/%d, want 3/3", in, out)
	}
	if err := g.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestEncodeEmptyDocument(t *testing.T) {
	g, err := bondgraph.Encode(anchored())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if g.HubCount() != 2 || g.BondCount() != 1 || g.EdgeCount() != 1 {
		t.Fatalf("empty document graph: %d hubs %d bonds", g.HubCount(), g.BondCount())
	}
	if g.SeedAddress() != token.AnchorEnd {
		t.Fatalf("seed = %s", g.SeedAddress())
	}
	if err := g.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestEncodeRejectsUnanchoredSequences(t *testing.T) {
	a, b := word(1), word(2)
	cases := [][]token.Address{
		nil,
		{a},
		{a, b},
		{token.AnchorStart, a},
		{a, token.AnchorEnd},
		{token.AnchorStart, a, token.AnchorStart, b, token.AnchorEnd},
		{token.AnchorStart, a, token.AnchorEnd, b, token.AnchorEnd},
	}
	for i, seq := range cases {
		if _, err := bondgraph.Encode(seq); !errors.Is(err, faults.ErrValidation) {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestBondsCanonicalOrder(t *testing.T) {
	a, b, c := word(3), word(1), word(2)
	g, err := bondgraph.Encode(anchored(a, b, c, a))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	bonds := g.Bonds()
	for i := 1; i < len(bonds); i++ {
		prev, cur := bonds[i-1], bonds[i]
		pf, cf := g.Address(prev.From), g.Address(cur.From)
		if d := pf.Compare(cf); d > 0 || (d == 0 && g.Address(prev.To).Compare(g.Address(cur.To)) >= 0) {
			t.Fatalf("bonds out of canonical order at %d: %s->%s before %s->%s",
				i, pf, g.Address(prev.To), cf, g.Address(cur.To))
		}
	}
}

func TestBuilderRoundTrip(t *testing.T) {
	a, b := word(1), word(2)
	src, err := bondgraph.Encode(anchored(a, b, a, b, a))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	bl := bondgraph.NewBuilder()
	for _, addr := range src.Hubs() {
		if _, err := bl.AddHub(addr); err != nil {
			t.Fatalf("AddHub: %v", err)
		}
	}
	for _, bond := range src.Bonds() {
		if err := bl.AddBond(bond.From, bond.To, bond.Count, slices.Clone(bond.Ranks)); err != nil {
			t.Fatalf("AddBond: %v", err)
		}
	}
	got, err := bl.Finish(src.Seed())
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}

	if got.SeedAddress() != src.SeedAddress() || got.BondCount() != src.BondCount() {
		t.Fatalf("rebuilt graph differs: seed %s bonds %d", got.SeedAddress(), got.BondCount())
	}
	for i, want := range src.Bonds() {
		have := got.Bonds()[i]
		if have.From != want.From || have.To != want.To || have.Count != want.Count || !slices.Equal(have.Ranks, want.Ranks) {
			t.Fatalf("bond %d differs: %+v vs %+v", i, have, want)
		}
	}
	if err := got.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestBuilderRejectsBadRows(t *testing.T) {
	bl := bondgraph.NewBuilder()
	start, _ := bl.AddHub(token.AnchorStart)
	end, _ := bl.AddHub(token.AnchorEnd)
	if _, err := bl.AddHub(token.AnchorStart); !errors.Is(err, faults.ErrIntegrity) {
		t.Fatalf("duplicate hub: %v", err)
	}
	if err := bl.AddBond(start, 9, 1, []int64{1}); !errors.Is(err, faults.ErrIntegrity) {
		t.Fatalf("unknown hub: %v", err)
	}
	if err := bl.AddBond(start, end, 2, []int64{1}); !errors.Is(err, faults.ErrIntegrity) {
		t.Fatalf("count mismatch: %v", err)
	}
	if err := bl.AddBond(start, end, 2, []int64{2, 2}); !errors.Is(err, faults.ErrIntegrity) {
		t.Fatalf("non-ascending ranks: %v", err)
	}
	if err := bl.AddBond(start, end, 1, []int64{1}); err != nil {
		t.Fatalf("AddBond: %v", err)
	}
	if err := bl.AddBond(start, end, 1, []int64{1}); !errors.Is(err, faults.ErrIntegrity) {
		t.Fatalf("duplicate bond: %v", err)
	}
}

func TestValidateDetectsImbalance(t *testing.T) {
	a, b := word(1), word(2)

	// a emits twice but is entered once.
	bl := bondgraph.NewBuilder()
	start, _ := bl.AddHub(token.AnchorStart)
	end, _ := bl.AddHub(token.AnchorEnd)
	ah, _ := bl.AddHub(a)
	bh, _ := bl.AddHub(b)
	mustAdd := func(from, to bondgraph.Handle, count int64, ranks []int64) {
		t.Helper()
		if err := bl.AddBond(from, to, count, ranks); err != nil {
			t.Fatalf("AddBond: %v", err)
		}
	}
	mustAdd(start, ah, 1, []int64{1})
	mustAdd(ah, bh, 2, []int64{1, 2})
	mustAdd(bh, end, 1, []int64{1})
	g, err := bl.Finish(ah)
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if err := g.CheckConservation(); !errors.Is(err, faults.ErrIntegrity) {
		t.Fatalf("expected integrity error, got %v", err)
	}
}

func TestValidateDetectsRankGaps(t *testing.T) {
	a, b := word(1), word(2)

	bl := bondgraph.NewBuilder()
	start, _ := bl.AddHub(token.AnchorStart)
	end, _ := bl.AddHub(token.AnchorEnd)
	ah, _ := bl.AddHub(a)
	bh, _ := bl.AddHub(b)
	// Flow balances, but a's departures are numbered 1 and 3.
	steps := []struct {
		from, to bondgraph.Handle
		count    int64
		ranks    []int64
	}{
		{start, ah, 1, []int64{1}},
		{ah, bh, 1, []int64{1}},
		{bh, ah, 1, []int64{1}},
		{ah, end, 1, []int64{3}},
	}
	for _, s := range steps {
		if err := bl.AddBond(s.from, s.to, s.count, s.ranks); err != nil {
			t.Fatalf("AddBond: %v", err)
		}
	}
	g, err := bl.Finish(ah)
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if err := g.CheckConservation(); err != nil {
		t.Fatalf("conservation should pass: %v", err)
	}
	if err := g.Validate(); !errors.Is(err, faults.ErrIntegrity) {
		t.Fatalf("expected rank integrity error, got %v", err)
	}
}

func TestMissingAnchorHub(t *testing.T) {
	bl := bondgraph.NewBuilder()
	ah, _ := bl.AddHub(word(1))
	bh, _ := bl.AddHub(word(2))
	if err := bl.AddBond(ah, bh, 1, []int64{1}); err != nil {
		t.Fatalf("AddBond: %v", err)
	}
	g, err := bl.Finish(ah)
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if err := g.CheckConservation(); !errors.Is(err, faults.ErrIntegrity) {
		t.Fatalf("expected missing anchor error, got %v", err)
	}
}
