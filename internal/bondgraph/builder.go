package bondgraph

import (
	"fmt"

	"loom/internal/faults"
	"loom/internal/token"
)

// Builder reassembles a graph from stored rows. Hubs must be added in
// handle order before the bonds that refer to them; Finish seals the graph.
type Builder struct {
	g      *Graph
	sealed bool
}

func NewBuilder() *Builder {
	return &Builder{g: newGraph()}
}

// AddHub appends a hub to the arena and returns its handle. A duplicate
// address means the stored arena is corrupt.
func (b *Builder) AddHub(addr token.Address) (Handle, error) {
	if _, ok := b.g.index[addr]; ok {
		return 0, faults.Wrap(faults.ErrIntegrity, "bondgraph", "build",
			fmt.Sprintf("duplicate hub %s", addr), nil)
	}
	return b.g.handle(addr), nil
}

// AddBond records one stored bond. Ranks must be strictly ascending,
// 1-based, and one per traversal.
func (b *Builder) AddBond(from, to Handle, count int64, ranks []int64) error {
	if !b.valid(from) || !b.valid(to) {
		return faults.Wrap(faults.ErrIntegrity, "bondgraph", "build",
			fmt.Sprintf("bond %d->%d references an unknown hub", from, to), nil)
	}
	if count <= 0 || int64(len(ranks)) != count {
		return faults.Wrap(faults.ErrIntegrity, "bondgraph", "build",
			fmt.Sprintf("bond %s->%s: count %d with %d ranks", b.g.hubs[from], b.g.hubs[to], count, len(ranks)), nil)
	}
	prev := int64(0)
	for _, r := range ranks {
		if r <= prev {
			return faults.Wrap(faults.ErrIntegrity, "bondgraph", "build",
				fmt.Sprintf("bond %s->%s: ranks not ascending", b.g.hubs[from], b.g.hubs[to]), nil)
		}
		prev = r
	}
	if _, ok := b.g.byPair[pairKey{from, to}]; ok {
		return faults.Wrap(faults.ErrIntegrity, "bondgraph", "build",
			fmt.Sprintf("duplicate bond %s->%s", b.g.hubs[from], b.g.hubs[to]), nil)
	}
	bond := b.g.bond(from, to)
	bond.Count = count
	bond.Ranks = ranks
	b.g.outDeg[from] += count
	b.g.inDeg[to] += count
	return nil
}

// Finish seals the graph with its seed hub. The builder must not be used
// afterwards.
func (b *Builder) Finish(seed Handle) (*Graph, error) {
	if b.sealed {
		return nil, faults.Wrap(faults.ErrValidation, "bondgraph", "build", "builder already finished", nil)
	}
	if !b.valid(seed) {
		return nil, faults.Wrap(faults.ErrIntegrity, "bondgraph", "build",
			fmt.Sprintf("seed handle %d out of range", seed), nil)
	}
	b.sealed = true
	b.g.seed = seed
	b.g.finalize()
	return b.g, nil
}

func (b *Builder) valid(h Handle) bool {
	return h >= 0 && int(h) < len(b.g.hubs)
}
