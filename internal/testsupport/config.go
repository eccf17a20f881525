package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"loom/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.LibraryDir = filepath.Join(base, "library")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.ExportDir = filepath.Join(base, "export")
	cfgVal.Workflow.Workers = 1
	cfgVal.Workflow.RetryDelayMS = 1

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithWordlist writes the given words to a wordlist file, one per line, and
// points the config at it.
func WithWordlist(words ...string) ConfigOption {
	return func(b *configBuilder) {
		path := filepath.Join(b.baseDir, "wordlist.txt")
		content := ""
		for _, w := range words {
			content += w + "\n"
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			b.t.Fatalf("write wordlist: %v", err)
		}
		b.cfg.Vocabulary.WordlistPath = path
	}
}

// WithWorkers overrides the batch worker count on the test config.
func WithWorkers(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Workflow.Workers = n
	}
}

// WithVerifyMode overrides the encode-time verification mode.
func WithVerifyMode(mode string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Workflow.Verify = mode
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.LibraryDir)
}
