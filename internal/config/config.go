package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	LibraryDir string `toml:"library_dir"`
	LogDir     string `toml:"log_dir"`
	ExportDir  string `toml:"export_dir"`
}

// Vocabulary contains configuration for the word lookup table.
type Vocabulary struct {
	// WordlistPath points at an external newline-separated wordlist. When
	// empty the embedded core list is used.
	WordlistPath string `toml:"wordlist_path"`
	// MaxWordLength caps the surface length the resolver will attempt to
	// match before escaping to anomaly characters.
	MaxWordLength int `toml:"max_word_length"`
	// ReportUnresolved controls whether vocabulary gaps are logged.
	ReportUnresolved bool `toml:"report_unresolved"`
}

// Workflow contains configuration for batch encoding.
type Workflow struct {
	// Workers bounds how many documents encode concurrently.
	Workers int `toml:"workers"`
	// RetryAttempts bounds retries of transient store failures.
	RetryAttempts int `toml:"retry_attempts"`
	// RetryDelayMS is the initial backoff between retries.
	RetryDelayMS int `toml:"retry_delay_ms"`
	// LockTimeoutSeconds bounds how long a batch waits for the library lock.
	LockTimeoutSeconds int `toml:"lock_timeout_seconds"`
	// Verify selects the encode-time round-trip check: "strict",
	// "normalized", or "off".
	Verify string `toml:"verify"`
}

// Boilerplate contains configuration for the advisory repeated-block probe.
type Boilerplate struct {
	Enabled             bool    `toml:"enabled"`
	SimilarityThreshold float64 `toml:"similarity_threshold"`
	// MinTokens is the shortest prefix worth probing.
	MinTokens int `toml:"min_tokens"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for loom.
//
// Configuration sections by subsystem:
//   - Paths: library, log, and export directories
//   - Vocabulary: wordlist source and resolver guards
//   - Workflow: batch concurrency, retries, locking, verification mode
//   - Boilerplate: advisory repeated-block probe thresholds
//   - Logging: log format and level
type Config struct {
	Paths       Paths       `toml:"paths"`
	Vocabulary  Vocabulary  `toml:"vocabulary"`
	Workflow    Workflow    `toml:"workflow"`
	Boilerplate Boilerplate `toml:"boilerplate"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/loom/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("loom.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// StorePath returns the location of the library database.
func (c *Config) StorePath() string {
	return filepath.Join(c.Paths.LibraryDir, "library.db")
}

// LockPath returns the location of the batch encode lock file.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.LibraryDir, ".loom.lock")
}

// RetryDelay returns the initial store retry backoff as a duration.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.Workflow.RetryDelayMS) * time.Millisecond
}

// LockTimeout returns the library lock wait bound as a duration.
func (c *Config) LockTimeout() time.Duration {
	return time.Duration(c.Workflow.LockTimeoutSeconds) * time.Second
}

// EnsureDirectories creates required directories for encode and decode runs.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.LibraryDir, c.Paths.LogDir, c.Paths.ExportDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
