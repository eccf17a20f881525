package bondgraph

import (
	"fmt"

	"loom/internal/faults"
	"loom/internal/token"
)

// Encode folds a canonical sequence into its bond graph. The sequence must
// be anchored: it starts with the start anchor, ends with the end anchor,
// and contains neither anywhere else. The resulting graph is valid by
// construction.
func Encode(seq []token.Address) (*Graph, error) {
	if len(seq) < 2 {
		return nil, faults.Wrap(faults.ErrValidation, "bondgraph", "encode",
			fmt.Sprintf("sequence of %d tokens cannot be anchored", len(seq)), nil)
	}
	if seq[0] != token.AnchorStart || seq[len(seq)-1] != token.AnchorEnd {
		return nil, faults.Wrap(faults.ErrValidation, "bondgraph", "encode", "sequence is not anchored", nil)
	}
	for i, tk := range seq[1 : len(seq)-1] {
		if tk == token.AnchorStart || tk == token.AnchorEnd {
			return nil, faults.Wrap(faults.ErrValidation, "bondgraph", "encode",
				fmt.Sprintf("interior anchor at position %d", i+1), nil)
		}
	}

	g := newGraph()
	for i := 0; i+1 < len(seq); i++ {
		from := g.handle(seq[i])
		to := g.handle(seq[i+1])
		b := g.bond(from, to)
		g.outDeg[from]++
		g.inDeg[to]++
		b.Count++
		// The hub's running out-degree is exactly this departure's ordinal.
		b.Ranks = append(b.Ranks, g.outDeg[from])
	}
	g.seed = g.index[seq[1]]
	g.finalize()
	return g, nil
}
