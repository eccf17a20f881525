package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"loom/internal/bondgraph"
	"loom/internal/faults"
	"loom/internal/token"
)

// DefaultCategory keys the document address counter when an append names no
// category of its own.
const DefaultCategory = "document"

// Document is one stored encoding with its provenance.
type Document struct {
	ID           int64
	Address      token.Address
	Category     string
	Title        string
	Rights       string
	SourceSHA256 string
	VocabVersion string
	TokenCount   int64
	HubCount     int64
	BondCount    int64
	EdgeCount    int64
	SeedHub      int64
	IndentWidths map[int]int
	VerifyStatus string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AppendRequest carries everything AppendDocument persists.
type AppendRequest struct {
	Title        string
	Category     string
	Rights       string
	SourceSHA256 string
	VocabVersion string
	TokenCount   int
	IndentWidths map[int]int
	Graph        *bondgraph.Graph
}

const documentColumns = `id, address, category, title, rights, source_sha256, vocab_version,
	token_count, hub_count, bond_count, edge_count, seed_hub,
	indent_widths_json, verify_status, created_at, updated_at`

// AppendDocument stores a graph and its provenance in one transaction,
// allocating the document address from the counters table. Appending the
// same source digest under the same vocabulary version returns the already
// stored document instead of writing a duplicate.
func (s *Store) AppendDocument(ctx context.Context, req AppendRequest) (*Document, error) {
	if req.Graph == nil {
		return nil, faults.Wrap(faults.ErrValidation, "store", "append", "nil graph", nil)
	}
	if req.SourceSHA256 == "" {
		return nil, faults.Wrap(faults.ErrValidation, "store", "append", "missing source digest", nil)
	}
	if err := req.Graph.Validate(); err != nil {
		return nil, err
	}
	category := req.Category
	if category == "" {
		category = DefaultCategory
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, faults.Wrap(faults.ErrTransient, "store", "append", "begin transaction", err)
	}
	defer tx.Rollback()

	if existing, err := findBySource(ctx, tx, req.SourceSHA256, req.VocabVersion); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	addr, err := allocateAddress(ctx, tx, category)
	if err != nil {
		return nil, err
	}

	indentJSON := "{}"
	if len(req.IndentWidths) > 0 {
		raw, err := json.Marshal(req.IndentWidths)
		if err != nil {
			return nil, faults.Wrap(faults.ErrValidation, "store", "append", "encode indent widths", err)
		}
		indentJSON = string(raw)
	}

	g := req.Graph
	now := time.Now().UTC()
	stamp := now.Format(time.RFC3339Nano)

	res, err := tx.ExecContext(ctx, `INSERT INTO documents
		(address, category, title, rights, source_sha256, vocab_version,
		 token_count, hub_count, bond_count, edge_count, seed_hub,
		 indent_widths_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		addr.String(), category, req.Title, req.Rights, req.SourceSHA256, req.VocabVersion,
		req.TokenCount, g.HubCount(), g.BondCount(), g.EdgeCount(), int64(g.Seed()),
		indentJSON, stamp, stamp)
	if err != nil {
		return nil, faults.Wrap(faults.ErrTransient, "store", "append", "insert document row", err)
	}
	docID, err := res.LastInsertId()
	if err != nil {
		return nil, faults.Wrap(faults.ErrTransient, "store", "append", "read document id", err)
	}

	if err := insertGraph(ctx, tx, docID, g); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, faults.Wrap(faults.ErrTransient, "store", "append", "commit document", err)
	}

	return &Document{
		ID:           docID,
		Address:      addr,
		Category:     category,
		Title:        req.Title,
		Rights:       req.Rights,
		SourceSHA256: req.SourceSHA256,
		VocabVersion: req.VocabVersion,
		TokenCount:   int64(req.TokenCount),
		HubCount:     int64(g.HubCount()),
		BondCount:    int64(g.BondCount()),
		EdgeCount:    g.EdgeCount(),
		SeedHub:      int64(g.Seed()),
		IndentWidths: req.IndentWidths,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func insertGraph(ctx context.Context, tx *sql.Tx, docID int64, g *bondgraph.Graph) error {
	hubStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO hubs (document_id, hub_id, address) VALUES (?, ?, ?)`)
	if err != nil {
		return faults.Wrap(faults.ErrTransient, "store", "append", "prepare hub insert", err)
	}
	defer hubStmt.Close()
	for i, hub := range g.Hubs() {
		if _, err := hubStmt.ExecContext(ctx, docID, i, hub.String()); err != nil {
			return faults.Wrap(faults.ErrTransient, "store", "append", "insert hub "+hub.String(), err)
		}
	}

	groupStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO bond_groups (document_id, from_hub, prefix) VALUES (?, ?, ?)`)
	if err != nil {
		return faults.Wrap(faults.ErrTransient, "store", "append", "prepare group insert", err)
	}
	defer groupStmt.Close()
	bondStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO bonds (group_id, tail, count, ranks) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return faults.Wrap(faults.ErrTransient, "store", "append", "prepare bond insert", err)
	}
	defer bondStmt.Close()

	type groupKey struct {
		from   bondgraph.Handle
		prefix string
	}
	groups := make(map[groupKey]int64)

	// Bonds arrive in canonical order, so all rows of one group are
	// adjacent and group ids ascend with (hub, prefix).
	for _, b := range g.Bonds() {
		dest := g.Address(b.To)
		key := groupKey{from: b.From, prefix: dest.GroupPrefix()}
		groupID, ok := groups[key]
		if !ok {
			res, err := groupStmt.ExecContext(ctx, docID, int64(key.from), key.prefix)
			if err != nil {
				return faults.Wrap(faults.ErrTransient, "store", "append", "insert bond group "+key.prefix, err)
			}
			groupID, err = res.LastInsertId()
			if err != nil {
				return faults.Wrap(faults.ErrTransient, "store", "append", "read group id", err)
			}
			groups[key] = groupID
		}
		if _, err := bondStmt.ExecContext(ctx, groupID, dest.Tail(), b.Count, encodeRanks(b.Ranks)); err != nil {
			return faults.Wrap(faults.ErrTransient, "store", "append", "insert bond to "+dest.String(), err)
		}
	}
	return nil
}

// allocateAddress hands out the next document address for category and
// advances the per-category counter. The category's slot claims the leading
// address segment, so two categories never produce the same address even
// though each one's sequence starts at zero. Runs inside the caller's
// transaction; sequence numbers of deleted documents are never reissued.
func allocateAddress(ctx context.Context, tx *sql.Tx, category string) (token.Address, error) {
	slot, err := categorySlot(ctx, tx, category)
	if err != nil {
		return token.Address{}, err
	}
	ns := string(token.NamespaceDocument)
	if _, err := tx.ExecContext(ctx, `INSERT INTO counters (namespace, category, next_ordinal)
		VALUES (?, ?, 0) ON CONFLICT (namespace, category) DO NOTHING`,
		ns, category); err != nil {
		return token.Address{}, faults.Wrap(faults.ErrTransient, "store", "append", "seed counter", err)
	}
	var seq int64
	if err := tx.QueryRowContext(ctx,
		`SELECT next_ordinal FROM counters WHERE namespace = ? AND category = ?`,
		ns, category).Scan(&seq); err != nil {
		return token.Address{}, faults.Wrap(faults.ErrTransient, "store", "append", "read counter", err)
	}
	if seq > token.MaxCategorySeq {
		return token.Address{}, faults.Wrap(faults.ErrIntegrity, "store", "append",
			fmt.Sprintf("counter %s/%s exhausted", ns, category), nil)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE counters SET next_ordinal = next_ordinal + 1 WHERE namespace = ? AND category = ?`,
		ns, category); err != nil {
		return token.Address{}, faults.Wrap(faults.ErrTransient, "store", "append", "advance counter", err)
	}
	addr, err := token.DocumentAddress(slot, uint32(seq))
	if err != nil {
		return token.Address{}, faults.Wrap(faults.ErrIntegrity, "store", "append", "compose document address", err)
	}
	return addr, nil
}

// categorySlot resolves a category name to its address slot, registering the
// category on first use. Slots are permanent: a category keeps its slot even
// after every document in it is deleted.
func categorySlot(ctx context.Context, tx *sql.Tx, category string) (int, error) {
	var slot int
	err := tx.QueryRowContext(ctx,
		`SELECT slot FROM categories WHERE name = ?`, category).Scan(&slot)
	if err == nil {
		return slot, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, faults.Wrap(faults.ErrTransient, "store", "append", "read category slot", err)
	}
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM categories`).Scan(&slot); err != nil {
		return 0, faults.Wrap(faults.ErrTransient, "store", "append", "count categories", err)
	}
	if slot >= token.MaxCategorySlots {
		return 0, faults.Wrap(faults.ErrValidation, "store", "append",
			fmt.Sprintf("category %q would exceed the %d address slots", category, token.MaxCategorySlots), nil)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO categories (name, slot) VALUES (?, ?)`, category, slot); err != nil {
		return 0, faults.Wrap(faults.ErrTransient, "store", "append", "register category "+category, err)
	}
	return slot, nil
}

func findBySource(ctx context.Context, tx *sql.Tx, digest, vocabVersion string) (*Document, error) {
	row := tx.QueryRowContext(ctx, `SELECT `+documentColumns+` FROM documents
		WHERE source_sha256 = ? AND vocab_version = ? ORDER BY id LIMIT 1`,
		digest, vocabVersion)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// GetDocument looks a document up by its address.
func (s *Store) GetDocument(ctx context.Context, addr token.Address) (*Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE address = ?`, addr.String())
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, faults.Wrap(faults.ErrNotFound, "store", "get", "document "+addr.String(), nil)
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// GetDocumentByID looks a document up by its row id.
func (s *Store) GetDocumentByID(ctx context.Context, id int64) (*Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE id = ?`, id)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, faults.Wrap(faults.ErrNotFound, "store", "get", fmt.Sprintf("document id %d", id), nil)
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// ListDocuments returns every stored document in append order.
func (s *Store) ListDocuments(ctx context.Context) ([]*Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+documentColumns+` FROM documents ORDER BY id`)
	if err != nil {
		return nil, faults.Wrap(faults.ErrTransient, "store", "list", "query documents", err)
	}
	defer rows.Close()

	var docs []*Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, faults.Wrap(faults.ErrTransient, "store", "list", "iterate documents", err)
	}
	return docs, nil
}

// SetVerifyStatus records the round-trip verdict for a document.
func (s *Store) SetVerifyStatus(ctx context.Context, id int64, status string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE documents SET verify_status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().UTC().Format(time.RFC3339Nano), id)
	if err != nil {
		return faults.Wrap(faults.ErrTransient, "store", "verify_status", "update document", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return faults.Wrap(faults.ErrTransient, "store", "verify_status", "read affected rows", err)
	}
	if n == 0 {
		return faults.Wrap(faults.ErrNotFound, "store", "verify_status", fmt.Sprintf("document id %d", id), nil)
	}
	return nil
}

// DeleteDocument removes a document and, through foreign keys, its hubs,
// groups, and bonds. The document's address ordinal is not reused.
func (s *Store) DeleteDocument(ctx context.Context, addr token.Address) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE address = ?`, addr.String())
	if err != nil {
		return faults.Wrap(faults.ErrTransient, "store", "delete", "delete document", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return faults.Wrap(faults.ErrTransient, "store", "delete", "read affected rows", err)
	}
	if n == 0 {
		return faults.Wrap(faults.ErrNotFound, "store", "delete", "document "+addr.String(), nil)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(sc scanner) (*Document, error) {
	var (
		doc        Document
		addr       string
		indentJSON string
		verify     sql.NullString
		created    string
		updated    string
	)
	err := sc.Scan(&doc.ID, &addr, &doc.Category, &doc.Title, &doc.Rights,
		&doc.SourceSHA256, &doc.VocabVersion, &doc.TokenCount, &doc.HubCount,
		&doc.BondCount, &doc.EdgeCount, &doc.SeedHub, &indentJSON, &verify,
		&created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, faults.Wrap(faults.ErrTransient, "store", "scan", "scan document row", err)
	}

	doc.Address, err = token.Parse(addr)
	if err != nil {
		return nil, faults.Wrap(faults.ErrIntegrity, "store", "scan", "stored document address", err)
	}
	if indentJSON != "" && indentJSON != "{}" {
		if err := json.Unmarshal([]byte(indentJSON), &doc.IndentWidths); err != nil {
			return nil, faults.Wrap(faults.ErrIntegrity, "store", "scan", "stored indent widths", err)
		}
	}
	doc.VerifyStatus = verify.String
	doc.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return nil, faults.Wrap(faults.ErrIntegrity, "store", "scan", "stored created_at", err)
	}
	doc.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated)
	if err != nil {
		return nil, faults.Wrap(faults.ErrIntegrity, "store", "scan", "stored updated_at", err)
	}
	return &doc, nil
}
