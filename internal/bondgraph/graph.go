package bondgraph

import (
	"fmt"
	"slices"
	"sort"

	"loom/internal/faults"
	"loom/internal/token"
)

// Handle indexes a hub in a graph's arena. Handles are dense, stable for
// the life of the graph, and shared with the store's per-document hub ids.
type Handle int32

// Bond is one directed edge with its aggregated traversals. Ranks holds the
// 1-based departure ordinals of the source hub at which this bond was
// taken, strictly ascending, with len(Ranks) always equal to Count.
type Bond struct {
	From  Handle
	To    Handle
	Count int64
	Ranks []int64
}

type pairKey struct{ from, to Handle }

// Graph is an immutable bond graph over a hub arena.
type Graph struct {
	hubs   []token.Address
	index  map[token.Address]Handle
	bonds  []*Bond
	byPair map[pairKey]*Bond
	out    [][]*Bond
	outDeg []int64
	inDeg  []int64
	seed   Handle
}

// HubCount returns the number of hubs in the arena.
func (g *Graph) HubCount() int { return len(g.hubs) }

// BondCount returns the number of distinct bonds.
func (g *Graph) BondCount() int { return len(g.bonds) }

// EdgeCount returns the total traversal count over all bonds, which for an
// encoded sequence is its length minus one.
func (g *Graph) EdgeCount() int64 {
	var n int64
	for _, b := range g.bonds {
		n += b.Count
	}
	return n
}

// Address returns the token address of a hub.
func (g *Graph) Address(h Handle) token.Address {
	return g.hubs[h]
}

// HandleOf looks a token address up in the arena.
func (g *Graph) HandleOf(addr token.Address) (Handle, bool) {
	h, ok := g.index[addr]
	return h, ok
}

// Hubs returns the arena in handle order. The caller must not modify it.
func (g *Graph) Hubs() []token.Address { return g.hubs }

// Bonds returns all bonds in canonical order: ascending by source address,
// then by target address. The caller must not modify them.
func (g *Graph) Bonds() []*Bond { return g.bonds }

// Outgoing returns a hub's bonds in canonical order.
func (g *Graph) Outgoing(h Handle) []*Bond {
	if int(h) >= len(g.out) {
		return nil
	}
	return g.out[h]
}

// Seed returns the handle of the first token after the start anchor.
func (g *Graph) Seed() Handle { return g.seed }

// SeedAddress returns the seed hub's token address.
func (g *Graph) SeedAddress() token.Address { return g.hubs[g.seed] }

// Degrees returns a hub's total inbound and outbound traversal counts.
func (g *Graph) Degrees(h Handle) (in, out int64) {
	return g.inDeg[h], g.outDeg[h]
}

// CheckConservation verifies the flow balance that makes a graph walkable
// end to end: every ordinary hub consumes as many traversals as it emits,
// the start anchor emits exactly one surplus, and the end anchor absorbs
// exactly one.
func (g *Graph) CheckConservation() error {
	start, ok := g.index[token.AnchorStart]
	if !ok {
		return faults.Wrap(faults.ErrIntegrity, "bondgraph", "conservation", "start anchor hub missing", nil)
	}
	end, ok := g.index[token.AnchorEnd]
	if !ok {
		return faults.Wrap(faults.ErrIntegrity, "bondgraph", "conservation", "end anchor hub missing", nil)
	}
	if g.inDeg[start] != 0 || g.outDeg[end] != 0 {
		return faults.Wrap(faults.ErrIntegrity, "bondgraph", "conservation",
			fmt.Sprintf("anchors are not terminal: start in %d, end out %d", g.inDeg[start], g.outDeg[end]), nil)
	}
	for h := range g.hubs {
		in, out := g.inDeg[h], g.outDeg[h]
		switch Handle(h) {
		case start:
			if out-in != 1 {
				return faults.Wrap(faults.ErrIntegrity, "bondgraph", "conservation",
					fmt.Sprintf("start anchor flow %+d, want +1", out-in), nil)
			}
		case end:
			if in-out != 1 {
				return faults.Wrap(faults.ErrIntegrity, "bondgraph", "conservation",
					fmt.Sprintf("end anchor flow %+d, want +1", in-out), nil)
			}
		default:
			if in != out {
				return faults.Wrap(faults.ErrIntegrity, "bondgraph", "conservation",
					fmt.Sprintf("hub %s: in %d, out %d", g.hubs[h], in, out), nil)
			}
		}
	}
	return nil
}

// Validate runs the conservation check and then verifies rank integrity:
// each bond carries one rank per traversal, and each hub's outgoing ranks
// cover 1..out-degree with no gap or duplicate.
func (g *Graph) Validate() error {
	if err := g.CheckConservation(); err != nil {
		return err
	}
	for _, b := range g.bonds {
		if int64(len(b.Ranks)) != b.Count {
			return faults.Wrap(faults.ErrIntegrity, "bondgraph", "ranks",
				fmt.Sprintf("bond %s->%s: count %d, ranks %d", g.hubs[b.From], g.hubs[b.To], b.Count, len(b.Ranks)), nil)
		}
	}
	for h := range g.hubs {
		var ranks []int64
		for _, b := range g.out[h] {
			ranks = append(ranks, b.Ranks...)
		}
		slices.Sort(ranks)
		for i, r := range ranks {
			if r != int64(i)+1 {
				return faults.Wrap(faults.ErrIntegrity, "bondgraph", "ranks",
					fmt.Sprintf("hub %s: departure ordinals have a gap at %d", g.hubs[h], i+1), nil)
			}
		}
		if int64(len(ranks)) != g.outDeg[h] {
			return faults.Wrap(faults.ErrIntegrity, "bondgraph", "ranks",
				fmt.Sprintf("hub %s: %d ranks for out-degree %d", g.hubs[h], len(ranks), g.outDeg[h]), nil)
		}
	}
	return nil
}

// handle interns addr in the arena.
func (g *Graph) handle(addr token.Address) Handle {
	if h, ok := g.index[addr]; ok {
		return h
	}
	h := Handle(len(g.hubs))
	g.hubs = append(g.hubs, addr)
	g.index[addr] = h
	g.outDeg = append(g.outDeg, 0)
	g.inDeg = append(g.inDeg, 0)
	return h
}

func (g *Graph) bond(from, to Handle) *Bond {
	key := pairKey{from, to}
	if b, ok := g.byPair[key]; ok {
		return b
	}
	b := &Bond{From: from, To: to}
	g.byPair[key] = b
	g.bonds = append(g.bonds, b)
	return b
}

// finalize sorts bonds into canonical order and builds the adjacency lists.
func (g *Graph) finalize() {
	sort.Slice(g.bonds, func(i, j int) bool {
		bi, bj := g.bonds[i], g.bonds[j]
		if c := g.hubs[bi.From].Compare(g.hubs[bj.From]); c != 0 {
			return c < 0
		}
		return g.hubs[bi.To].Compare(g.hubs[bj.To]) < 0
	})
	g.out = make([][]*Bond, len(g.hubs))
	for _, b := range g.bonds {
		g.out[b.From] = append(g.out[b.From], b)
	}
}

func newGraph() *Graph {
	return &Graph{
		index:  make(map[token.Address]Handle),
		byPair: make(map[pairKey]*Bond),
	}
}
