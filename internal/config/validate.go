package config

import (
	"errors"
	"fmt"
	"os"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateVocabulary(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	if err := c.validateBoilerplate(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateVocabulary() error {
	if c.Vocabulary.WordlistPath != "" {
		info, err := os.Stat(c.Vocabulary.WordlistPath)
		if err != nil {
			return fmt.Errorf("vocabulary.wordlist_path: %w", err)
		}
		if info.IsDir() {
			return fmt.Errorf("vocabulary.wordlist_path %q is a directory", c.Vocabulary.WordlistPath)
		}
	}
	if c.Vocabulary.MaxWordLength <= 0 {
		return errors.New("vocabulary.max_word_length must be positive")
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	if err := ensurePositiveMap(map[string]int{
		"workflow.workers":              c.Workflow.Workers,
		"workflow.retry_attempts":       c.Workflow.RetryAttempts,
		"workflow.retry_delay_ms":       c.Workflow.RetryDelayMS,
		"workflow.lock_timeout_seconds": c.Workflow.LockTimeoutSeconds,
	}); err != nil {
		return err
	}
	switch c.Workflow.Verify {
	case "strict", "normalized", "off":
		return nil
	default:
		return fmt.Errorf("workflow.verify must be one of strict, normalized, off (got %q)", c.Workflow.Verify)
	}
}

func (c *Config) validateBoilerplate() error {
	if !c.Boilerplate.Enabled {
		return nil
	}
	if c.Boilerplate.SimilarityThreshold <= 0 || c.Boilerplate.SimilarityThreshold > 1 {
		return errors.New("boilerplate.similarity_threshold must be between 0 and 1")
	}
	if c.Boilerplate.MinTokens <= 0 {
		return errors.New("boilerplate.min_tokens must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error (got %q)", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
		return nil
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
