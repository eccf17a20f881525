package testsupport

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"loom/internal/bondgraph"
	"loom/internal/config"
	"loom/internal/store"
	"loom/internal/token"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// MustEncode builds a graph from an anchored sequence, failing the test on
// any validation error.
func MustEncode(t testing.TB, seq []token.Address) *bondgraph.Graph {
	t.Helper()

	g, err := bondgraph.Encode(seq)
	if err != nil {
		t.Fatalf("bondgraph.Encode: %v", err)
	}
	return g
}

// AppendDocument stores a graph under a digest derived from the title,
// returning the stored document.
func AppendDocument(t testing.TB, st *store.Store, title string, g *bondgraph.Graph) *store.Document {
	t.Helper()

	sum := sha256.Sum256([]byte(title))
	doc, err := st.AppendDocument(context.Background(), store.AppendRequest{
		Title:        title,
		SourceSHA256: hex.EncodeToString(sum[:]),
		VocabVersion: "test",
		TokenCount:   g.HubCount(),
		Graph:        g,
	})
	if err != nil {
		t.Fatalf("store.AppendDocument: %v", err)
	}
	return doc
}
