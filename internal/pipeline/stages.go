package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"loom/internal/bondgraph"
	"loom/internal/boilerplate"
	"loom/internal/config"
	"loom/internal/faults"
	"loom/internal/resolve"
	"loom/internal/scan"
	"loom/internal/segment"
	"loom/internal/store"
	"loom/internal/verify"
	"loom/internal/vocab"
)

type scanStage struct{}

func (scanStage) Name() string { return "scan" }

func (scanStage) Prepare(_ context.Context, job *Job) error {
	info, err := os.Stat(job.Source)
	if err != nil {
		return faults.Wrap(faults.ErrValidation, "pipeline", "scan", "source "+job.Source, err)
	}
	if info.IsDir() {
		return faults.Wrap(faults.ErrValidation, "pipeline", "scan", job.Source+" is a directory", nil)
	}
	return nil
}

func (scanStage) Execute(_ context.Context, job *Job) error {
	raw, err := os.ReadFile(job.Source)
	if err != nil {
		return faults.Wrap(faults.ErrTransient, "pipeline", "scan", "read "+job.Source, err)
	}
	job.Text = scan.Normalize(string(raw))
	sum := sha256.Sum256([]byte(job.Text))
	job.Digest = hex.EncodeToString(sum[:])
	if job.Title == "" {
		job.Title = titleFromPath(job.Source)
	}
	job.Lexemes = scan.Scan(job.Text)
	return nil
}

func titleFromPath(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.ReplaceAll(base, "_", " ")
	return strings.TrimSpace(base)
}

type resolveStage struct {
	snapshot      *vocab.Snapshot
	gaps          *vocab.GapReporter
	maxWordLength int
}

func (resolveStage) Name() string { return "resolve" }

func (s resolveStage) Prepare(_ context.Context, _ *Job) error {
	if s.snapshot == nil {
		return faults.Wrap(faults.ErrValidation, "pipeline", "resolve", "no vocabulary snapshot", nil)
	}
	return nil
}

func (s resolveStage) Execute(_ context.Context, job *Job) error {
	job.Resolver = resolve.New(s.snapshot, s.gaps, s.maxWordLength)
	return nil
}

type segmentStage struct {
	advisory boilerplate.Advisory
}

func (segmentStage) Name() string { return "segment" }

func (segmentStage) Prepare(_ context.Context, job *Job) error {
	if job.Resolver == nil {
		return faults.Wrap(faults.ErrValidation, "pipeline", "segment", "job has no resolver", nil)
	}
	return nil
}

func (s segmentStage) Execute(_ context.Context, job *Job) error {
	result, err := segment.Segment(job.Lexemes, job.Resolver, segment.Options{
		Advisory: s.advisory,
		Scope:    job.Source,
	})
	if err != nil {
		return err
	}
	job.Segments = result
	return nil
}

type encodeStage struct{}

func (encodeStage) Name() string { return "encode" }

func (encodeStage) Prepare(_ context.Context, job *Job) error {
	if job.Segments == nil {
		return faults.Wrap(faults.ErrValidation, "pipeline", "encode", "job has no token sequence", nil)
	}
	return nil
}

func (encodeStage) Execute(_ context.Context, job *Job) error {
	g, err := bondgraph.Encode(job.Segments.Sequence)
	if err != nil {
		return err
	}
	job.Graph = g
	return nil
}

type persistStage struct {
	store        *store.Store
	vocabVersion string
	retry        faults.RetryPolicy
}

func (persistStage) Name() string { return "persist" }

func (s persistStage) Prepare(_ context.Context, job *Job) error {
	if job.Graph == nil {
		return faults.Wrap(faults.ErrValidation, "pipeline", "persist", "job has no graph", nil)
	}
	return nil
}

func (s persistStage) Execute(ctx context.Context, job *Job) error {
	return faults.Retry(ctx, s.retry, func() error {
		doc, err := s.store.AppendDocument(ctx, store.AppendRequest{
			Title:        job.Title,
			Category:     job.Category,
			Rights:       job.Rights,
			SourceSHA256: job.Digest,
			VocabVersion: s.vocabVersion,
			TokenCount:   len(job.Segments.Sequence),
			IndentWidths: job.Segments.IndentWidths,
			Graph:        job.Graph,
		})
		if err != nil {
			return err
		}
		job.Document = doc
		return nil
	})
}

type verifyStage struct {
	store    *store.Store
	snapshot *vocab.Snapshot
	mode     string
	retry    faults.RetryPolicy
}

func (verifyStage) Name() string { return "verify" }

func (s verifyStage) Prepare(_ context.Context, job *Job) error {
	if job.Document == nil {
		return faults.Wrap(faults.ErrValidation, "pipeline", "verify", "job has no stored document", nil)
	}
	return nil
}

func (s verifyStage) Execute(ctx context.Context, job *Job) error {
	if s.mode == "off" {
		return nil
	}
	report, err := verify.RoundTrip(verify.Input{
		Graph:        job.Graph,
		Want:         job.Segments.Sequence,
		Original:     job.Text,
		Snapshot:     s.snapshot,
		IndentWidths: job.Segments.IndentWidths,
		// Filtered documents no longer correspond to their source text.
		SkipText: job.Segments.Dropped > 0 || job.Segments.Truncated,
	})
	if err != nil {
		return err
	}
	job.Report = report

	if err := faults.Retry(ctx, s.retry, func() error {
		return s.store.SetVerifyStatus(ctx, job.Document.ID, string(report.Status))
	}); err != nil {
		return err
	}

	if !report.Status.AcceptedBy(s.mode) {
		msg := fmt.Sprintf("round trip %s under %s mode", report.Status, s.mode)
		if report.Divergence != nil {
			msg = fmt.Sprintf("%s: first divergence at token %d (%s vs %s)",
				msg, report.Divergence.Position, report.Divergence.Expected, report.Divergence.Actual)
		}
		return faults.Wrap(faults.ErrIntegrity, "pipeline", "verify", msg, nil)
	}
	return nil
}

func buildStages(cfg *config.Config, st *store.Store, snapshot *vocab.Snapshot, gaps *vocab.GapReporter, advisory boilerplate.Advisory) []Stage {
	retry := faults.RetryPolicy{
		Attempts: cfg.Workflow.RetryAttempts,
		Delay:    cfg.RetryDelay(),
		MaxDelay: 2 * time.Second,
	}
	return []Stage{
		scanStage{},
		resolveStage{
			snapshot:      snapshot,
			gaps:          gaps,
			maxWordLength: cfg.Vocabulary.MaxWordLength,
		},
		segmentStage{advisory: advisory},
		encodeStage{},
		persistStage{store: st, vocabVersion: snapshot.Version(), retry: retry},
		verifyStage{store: st, snapshot: snapshot, mode: cfg.Workflow.Verify, retry: retry},
	}
}
