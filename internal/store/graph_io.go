package store

import (
	"context"

	"loom/internal/bondgraph"
	"loom/internal/faults"
	"loom/internal/token"
)

// LoadGraph rebuilds a document's bond graph from its stored rows and
// revalidates it before handing it to a decoder.
func (s *Store) LoadGraph(ctx context.Context, docID int64) (*bondgraph.Graph, error) {
	doc, err := s.GetDocumentByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	builder := bondgraph.NewBuilder()
	index := make(map[token.Address]bondgraph.Handle, doc.HubCount)

	rows, err := s.db.QueryContext(ctx,
		`SELECT hub_id, address FROM hubs WHERE document_id = ? ORDER BY hub_id`, docID)
	if err != nil {
		return nil, faults.Wrap(faults.ErrTransient, "store", "load", "query hubs", err)
	}
	for rows.Next() {
		var (
			hubID int64
			raw   string
		)
		if err := rows.Scan(&hubID, &raw); err != nil {
			rows.Close()
			return nil, faults.Wrap(faults.ErrTransient, "store", "load", "scan hub row", err)
		}
		addr, err := token.Parse(raw)
		if err != nil {
			rows.Close()
			return nil, faults.Wrap(faults.ErrIntegrity, "store", "load", "stored hub address", err)
		}
		handle, err := builder.AddHub(addr)
		if err != nil {
			rows.Close()
			return nil, err
		}
		if int64(handle) != hubID {
			rows.Close()
			return nil, faults.Wrap(faults.ErrIntegrity, "store", "load",
				"hub ids are not dense in storage order", nil)
		}
		index[addr] = handle
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, faults.Wrap(faults.ErrTransient, "store", "load", "iterate hubs", err)
	}
	rows.Close()

	rows, err = s.db.QueryContext(ctx, `SELECT g.from_hub, g.prefix, b.tail, b.count, b.ranks
		FROM bond_groups g
		JOIN bonds b ON b.group_id = g.id
		WHERE g.document_id = ?
		ORDER BY g.from_hub, g.prefix, b.tail`, docID)
	if err != nil {
		return nil, faults.Wrap(faults.ErrTransient, "store", "load", "query bonds", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			fromHub int64
			prefix  string
			tail    string
			count   int64
			blob    []byte
		)
		if err := rows.Scan(&fromHub, &prefix, &tail, &count, &blob); err != nil {
			return nil, faults.Wrap(faults.ErrTransient, "store", "load", "scan bond row", err)
		}
		dest, err := token.Join(prefix, tail)
		if err != nil {
			return nil, faults.Wrap(faults.ErrIntegrity, "store", "load", "rejoin bond destination", err)
		}
		to, ok := index[dest]
		if !ok {
			return nil, faults.Wrap(faults.ErrIntegrity, "store", "load",
				"bond destination "+dest.String()+" is not a hub", nil)
		}
		ranks, err := decodeRanks(blob, count)
		if err != nil {
			return nil, err
		}
		if err := builder.AddBond(bondgraph.Handle(fromHub), to, count, ranks); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, faults.Wrap(faults.ErrTransient, "store", "load", "iterate bonds", err)
	}

	g, err := builder.Finish(bondgraph.Handle(doc.SeedHub))
	if err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// StreamBonds walks a document's bonds in canonical order with full
// addresses rejoined, without materializing the graph. It serves export
// and inspection paths.
func (s *Store) StreamBonds(ctx context.Context, docID int64, fn func(from, to token.Address, count int64, ranks []int64) error) error {
	rows, err := s.db.QueryContext(ctx, `SELECT h.address, g.prefix, b.tail, b.count, b.ranks
		FROM bond_groups g
		JOIN bonds b ON b.group_id = g.id
		JOIN hubs h ON h.document_id = g.document_id AND h.hub_id = g.from_hub
		WHERE g.document_id = ?
		ORDER BY h.address, g.prefix, b.tail`, docID)
	if err != nil {
		return faults.Wrap(faults.ErrTransient, "store", "stream", "query bonds", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			fromRaw string
			prefix  string
			tail    string
			count   int64
			blob    []byte
		)
		if err := rows.Scan(&fromRaw, &prefix, &tail, &count, &blob); err != nil {
			return faults.Wrap(faults.ErrTransient, "store", "stream", "scan bond row", err)
		}
		from, err := token.Parse(fromRaw)
		if err != nil {
			return faults.Wrap(faults.ErrIntegrity, "store", "stream", "stored hub address", err)
		}
		to, err := token.Join(prefix, tail)
		if err != nil {
			return faults.Wrap(faults.ErrIntegrity, "store", "stream", "rejoin bond destination", err)
		}
		ranks, err := decodeRanks(blob, count)
		if err != nil {
			return err
		}
		if err := fn(from, to, count, ranks); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return faults.Wrap(faults.ErrTransient, "store", "stream", "iterate bonds", err)
	}
	return nil
}
