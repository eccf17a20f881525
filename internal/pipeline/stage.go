package pipeline

import (
	"context"
	"time"

	"loom/internal/bondgraph"
	"loom/internal/resolve"
	"loom/internal/scan"
	"loom/internal/segment"
	"loom/internal/store"
	"loom/internal/verify"
)

// Stage is one step of the per-document chain. Prepare validates that the
// job carries what the stage needs; Execute does the work and advances the
// job's state.
type Stage interface {
	Name() string
	Prepare(ctx context.Context, job *Job) error
	Execute(ctx context.Context, job *Job) error
}

// Batch names the sources of one encode run plus the provenance applied to
// every document it stores.
type Batch struct {
	Sources  []string
	Category string
	Rights   string
}

// Job is one document moving through the chain. Stages fill it in order;
// later fields stay nil until their stage has run.
type Job struct {
	RunID    string
	Source   string
	Title    string
	Category string
	Rights   string

	// Filled by scan.
	Text    string
	Digest  string
	Lexemes []scan.Lexeme

	// Filled by resolve.
	Resolver *resolve.Resolver

	// Filled by segment.
	Segments *segment.Result

	// Filled by encode.
	Graph *bondgraph.Graph

	// Filled by persist.
	Document *store.Document

	// Filled by verify (nil when verification is off).
	Report *verify.Report
}

// Result is the outcome of one document in a batch.
type Result struct {
	Source   string
	Document *store.Document
	Report   *verify.Report
	Tokens   int
	Dropped  int
	Elapsed  time.Duration
	Err      error
}

// Summary aggregates a batch run.
type Summary struct {
	RunID     string
	Results   []Result
	Completed int
	Failed    int
	Elapsed   time.Duration
}
