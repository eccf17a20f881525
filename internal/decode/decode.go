package decode

import (
	"fmt"

	"loom/internal/bondgraph"
	"loom/internal/faults"
	"loom/internal/token"
)

const noDestination = bondgraph.Handle(-1)

// Ranked replays the unique Eulerian walk recorded by departure ranks and
// returns the full anchored token sequence.
func Ranked(g *bondgraph.Graph) ([]token.Address, error) {
	start, end, err := anchors(g)
	if err != nil {
		return nil, err
	}
	tables, err := rankTables(g)
	if err != nil {
		return nil, err
	}

	total := g.EdgeCount()
	seq := make([]token.Address, 0, total+1)
	seq = append(seq, token.AnchorStart)
	next := make([]int64, g.HubCount())

	cur := start
	steps := int64(0)
	for cur != end {
		if steps >= total {
			return nil, faults.Wrap(faults.ErrIntegrity, "decode", "ranked",
				fmt.Sprintf("walk exceeded %d edges without reaching the end anchor", total), nil)
		}
		table := tables[cur]
		k := next[cur]
		if k >= int64(len(table)) {
			return nil, faults.Wrap(faults.ErrIntegrity, "decode", "ranked",
				fmt.Sprintf("stuck at hub %s: departure %d of %d", g.Address(cur), k+1, len(table)), nil)
		}
		next[cur] = k + 1
		dest := table[k]
		if steps == 0 && dest != g.Seed() {
			return nil, faults.Wrap(faults.ErrIntegrity, "decode", "ranked",
				fmt.Sprintf("first departure %s disagrees with stored seed %s",
					g.Address(dest), g.SeedAddress()), nil)
		}
		seq = append(seq, g.Address(dest))
		cur = dest
		steps++
	}
	if steps != total {
		return nil, faults.Wrap(faults.ErrIntegrity, "decode", "ranked",
			fmt.Sprintf("walk consumed %d of %d edges", steps, total), nil)
	}
	return seq, nil
}

// Lexical walks the graph following the smallest unconsumed destination at
// every hub, ignoring ranks.
func Lexical(g *bondgraph.Graph) ([]token.Address, error) {
	start, end, err := anchors(g)
	if err != nil {
		return nil, err
	}

	remaining := make(map[*bondgraph.Bond]int64, g.BondCount())
	for _, b := range g.Bonds() {
		remaining[b] = b.Count
	}

	total := g.EdgeCount()
	seq := make([]token.Address, 0, total+1)
	seq = append(seq, token.AnchorStart)

	cur := start
	steps := int64(0)
	for cur != end {
		if steps >= total {
			return nil, faults.Wrap(faults.ErrIntegrity, "decode", "lexical",
				fmt.Sprintf("walk exceeded %d edges without reaching the end anchor", total), nil)
		}
		var chosen *bondgraph.Bond
		// Outgoing bonds are ordered by destination address, so the
		// first one with traversals left is the smallest.
		for _, b := range g.Outgoing(cur) {
			if remaining[b] > 0 {
				chosen = b
				break
			}
		}
		if chosen == nil {
			return nil, faults.Wrap(faults.ErrIntegrity, "decode", "lexical",
				fmt.Sprintf("stuck at hub %s after %d steps", g.Address(cur), steps), nil)
		}
		remaining[chosen]--
		seq = append(seq, g.Address(chosen.To))
		cur = chosen.To
		steps++
	}
	if steps != total {
		return nil, faults.Wrap(faults.ErrIntegrity, "decode", "lexical",
			fmt.Sprintf("walk consumed %d of %d edges", steps, total), nil)
	}
	return seq, nil
}

func anchors(g *bondgraph.Graph) (start, end bondgraph.Handle, err error) {
	start, ok := g.HandleOf(token.AnchorStart)
	if !ok {
		return 0, 0, faults.Wrap(faults.ErrIntegrity, "decode", "walk", "graph has no start anchor", nil)
	}
	end, ok = g.HandleOf(token.AnchorEnd)
	if !ok {
		return 0, 0, faults.Wrap(faults.ErrIntegrity, "decode", "walk", "graph has no end anchor", nil)
	}
	return start, end, nil
}

// rankTables flattens each hub's rank sets into one departure table:
// entry k-1 names where the k-th departure goes.
func rankTables(g *bondgraph.Graph) ([][]bondgraph.Handle, error) {
	tables := make([][]bondgraph.Handle, g.HubCount())
	for i := range tables {
		h := bondgraph.Handle(i)
		_, out := g.Degrees(h)
		table := make([]bondgraph.Handle, out)
		for j := range table {
			table[j] = noDestination
		}
		for _, b := range g.Outgoing(h) {
			for _, r := range b.Ranks {
				if r < 1 || r > out {
					return nil, faults.Wrap(faults.ErrIntegrity, "decode", "ranked",
						fmt.Sprintf("hub %s holds rank %d outside 1..%d", g.Address(h), r, out), nil)
				}
				if table[r-1] != noDestination {
					return nil, faults.Wrap(faults.ErrIntegrity, "decode", "ranked",
						fmt.Sprintf("hub %s assigns rank %d twice", g.Address(h), r), nil)
				}
				table[r-1] = b.To
			}
		}
		for j, dest := range table {
			if dest == noDestination {
				return nil, faults.Wrap(faults.ErrIntegrity, "decode", "ranked",
					fmt.Sprintf("hub %s is missing rank %d", g.Address(h), j+1), nil)
			}
		}
		tables[i] = table
	}
	return tables, nil
}
