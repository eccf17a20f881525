package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteCorpus writes source text to the target path, creating parent
// directories as needed, and returns the path.
func WriteCorpus(t testing.TB, path, text string) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// Corpus writes source text to a fresh temp file and returns its path.
func Corpus(t testing.TB, text string) string {
	t.Helper()

	return WriteCorpus(t, filepath.Join(t.TempDir(), "source.txt"), text)
}
