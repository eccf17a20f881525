package logging_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"loom/internal/logging"
)

func TestNewConsoleWritesSingleLine(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "console.log")

	logger, err := logging.New(logging.Options{
		Level:       "info",
		Format:      "console",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	component := logging.NewComponentLogger(logger, "encoder")
	component.Info("document stored", logging.String("document", "D:AAAb"), logging.Int("tokens", 42))

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := strings.TrimSpace(string(data))
	if strings.Count(line, "\n") != 0 {
		t.Fatalf("expected one line, got %q", line)
	}
	if !strings.Contains(line, "INFO encoder: document stored") {
		t.Errorf("missing component prefix in %q", line)
	}
	if !strings.Contains(line, "document=D:AAAb") {
		t.Errorf("missing document attr in %q", line)
	}
	if !strings.Contains(line, "tokens=42") {
		t.Errorf("missing tokens attr in %q", line)
	}
}

func TestNewJSONFormat(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "json.log")

	logger, err := logging.New(logging.Options{
		Level:       "debug",
		Format:      "json",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("probe", logging.String("stage", "decode"))

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := strings.TrimSpace(string(data))
	if !strings.HasPrefix(line, "{") || !strings.HasSuffix(line, "}") {
		t.Fatalf("expected JSON object, got %q", line)
	}
	for _, want := range []string{`"ts"`, `"level":"debug"`, `"msg":"probe"`, `"stage":"decode"`} {
		if !strings.Contains(line, want) {
			t.Errorf("missing %s in %q", want, line)
		}
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestLevelFiltering(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "filtered.log")

	logger, err := logging.New(logging.Options{
		Level:       "warn",
		Format:      "console",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("suppressed")
	logger.Warn("kept")

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	content := string(data)
	if strings.Contains(content, "suppressed") {
		t.Errorf("info record should have been filtered: %q", content)
	}
	if !strings.Contains(content, "kept") {
		t.Errorf("warn record missing: %q", content)
	}
}

func TestWithContextAddsFields(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "context.log")

	logger, err := logging.New(logging.Options{
		Level:       "info",
		Format:      "console",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := logging.WithDocument(context.Background(), "D:AAAc")
	ctx = logging.WithStage(ctx, "segment")
	ctx = logging.WithRun(ctx, "run-1")

	logging.WithContext(ctx, logger).Info("stage complete")

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := strings.TrimSpace(string(data))
	for _, want := range []string{"document=D:AAAc", "stage=segment", "run_id=run-1"} {
		if !strings.Contains(line, want) {
			t.Errorf("missing %s in %q", want, line)
		}
	}
}

func TestNewNopDiscards(t *testing.T) {
	logger := logging.NewNop()
	if logger == nil {
		t.Fatal("expected logger instance")
	}
	logger.Error("should not panic", logging.Error(nil))
}

func TestNewComponentLoggerNilBase(t *testing.T) {
	logger := logging.NewComponentLogger(nil, "verify")
	if logger == nil {
		t.Fatal("expected logger instance")
	}
	logger.Info("noop")
}
