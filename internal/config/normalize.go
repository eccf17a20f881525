package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeVocabulary(); err != nil {
		return err
	}
	c.normalizeWorkflow()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LibraryDir) == "" {
		c.Paths.LibraryDir = defaultLibraryDir
	}
	if c.Paths.LibraryDir, err = expandPath(c.Paths.LibraryDir); err != nil {
		return fmt.Errorf("paths.library_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ExportDir) == "" {
		c.Paths.ExportDir = defaultExportDir
	}
	if c.Paths.ExportDir, err = expandPath(c.Paths.ExportDir); err != nil {
		return fmt.Errorf("paths.export_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeVocabulary() error {
	c.Vocabulary.WordlistPath = strings.TrimSpace(c.Vocabulary.WordlistPath)
	if c.Vocabulary.WordlistPath == "" {
		if value, ok := os.LookupEnv("LOOM_WORDLIST"); ok {
			c.Vocabulary.WordlistPath = strings.TrimSpace(value)
		}
	}
	if c.Vocabulary.WordlistPath != "" {
		expanded, err := expandPath(c.Vocabulary.WordlistPath)
		if err != nil {
			return fmt.Errorf("vocabulary.wordlist_path: %w", err)
		}
		c.Vocabulary.WordlistPath = expanded
	}
	if c.Vocabulary.MaxWordLength <= 0 {
		c.Vocabulary.MaxWordLength = defaultMaxWordLength
	}
	return nil
}

func (c *Config) normalizeWorkflow() {
	if c.Workflow.Workers <= 0 {
		c.Workflow.Workers = defaultWorkers
	}
	if c.Workflow.RetryAttempts <= 0 {
		c.Workflow.RetryAttempts = defaultRetryAttempts
	}
	if c.Workflow.RetryDelayMS <= 0 {
		c.Workflow.RetryDelayMS = defaultRetryDelayMS
	}
	if c.Workflow.LockTimeoutSeconds <= 0 {
		c.Workflow.LockTimeoutSeconds = defaultLockTimeoutSeconds
	}
	c.Workflow.Verify = strings.ToLower(strings.TrimSpace(c.Workflow.Verify))
	if c.Workflow.Verify == "" {
		c.Workflow.Verify = defaultVerifyMode
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
