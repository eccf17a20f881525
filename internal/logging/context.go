package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldDocument is the standardized structured logging key for document token addresses.
	FieldDocument = "document"
	// FieldStage is the standardized structured logging key for pipeline stage names.
	FieldStage = "stage"
	// FieldRun is the standardized structured logging key for pipeline run identifiers.
	FieldRun = "run_id"
	// FieldSource is the standardized structured logging key for source file paths.
	FieldSource = "source"
)

type contextKey int

const (
	documentKey contextKey = iota
	stageKey
	runKey
)

// WithDocument attaches a document token address to the context for logging.
func WithDocument(ctx context.Context, document string) context.Context {
	return context.WithValue(ctx, documentKey, document)
}

// WithStage attaches a pipeline stage name to the context for logging.
func WithStage(ctx context.Context, stage string) context.Context {
	return context.WithValue(ctx, stageKey, stage)
}

// WithRun attaches a pipeline run identifier to the context for logging.
func WithRun(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runKey, runID)
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if doc, ok := ctx.Value(documentKey).(string); ok && doc != "" {
		fields = append(fields, slog.String(FieldDocument, doc))
	}
	if stage, ok := ctx.Value(stageKey).(string); ok && stage != "" {
		fields = append(fields, slog.String(FieldStage, stage))
	}
	if run, ok := ctx.Value(runKey).(string); ok && run != "" {
		fields = append(fields, slog.String(FieldRun, run))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
