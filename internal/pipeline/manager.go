package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"loom/internal/boilerplate"
	"loom/internal/config"
	"loom/internal/faults"
	"loom/internal/logging"
	"loom/internal/store"
	"loom/internal/vocab"
)

// Manager coordinates batch encoding over a shared store and a pinned
// vocabulary snapshot.
type Manager struct {
	cfg    *config.Config
	store  *store.Store
	logger *slog.Logger

	snapshot *vocab.Snapshot
	gaps     *vocab.GapReporter
	stages   []Stage
}

// NewManager loads the configured vocabulary, builds the stage chain, and
// returns a manager ready to run batches.
func NewManager(cfg *config.Config, st *store.Store, logger *slog.Logger) (*Manager, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	snapshot, err := loadSnapshot(cfg)
	if err != nil {
		return nil, err
	}
	gaps := vocab.NewGapReporter(
		logging.NewComponentLogger(logger, "vocab"),
		cfg.Vocabulary.ReportUnresolved,
	)

	advisory := boilerplate.Nop()
	if cfg.Boilerplate.Enabled {
		advisory = boilerplate.DefaultFilter(
			cfg.Boilerplate.SimilarityThreshold,
			cfg.Boilerplate.MinTokens,
		)
	}

	return &Manager{
		cfg:      cfg,
		store:    st,
		logger:   logger,
		snapshot: snapshot,
		gaps:     gaps,
		stages:   buildStages(cfg, st, snapshot, gaps, advisory),
	}, nil
}

func loadSnapshot(cfg *config.Config) (*vocab.Snapshot, error) {
	if path := cfg.Vocabulary.WordlistPath; path != "" {
		return vocab.FromFile(path)
	}
	return vocab.Core(), nil
}

// Snapshot returns the batch's pinned vocabulary snapshot.
func (m *Manager) Snapshot() *vocab.Snapshot { return m.snapshot }

// Run encodes a batch of source files under one run id. The library lock is
// held for the whole batch. Document failures are recorded per result; Run
// itself fails only on lock acquisition or cancellation.
func (m *Manager) Run(ctx context.Context, batch Batch) (*Summary, error) {
	sources := batch.Sources
	if len(sources) == 0 {
		return nil, faults.Wrap(faults.ErrValidation, "pipeline", "run", "no source files", nil)
	}

	lock := flock.New(m.cfg.LockPath())
	lockCtx, cancel := context.WithTimeout(ctx, m.cfg.LockTimeout())
	defer cancel()
	locked, err := lock.TryLockContext(lockCtx, 250*time.Millisecond)
	if err != nil || !locked {
		return nil, faults.Wrap(faults.ErrTransient, "pipeline", "run",
			"another loom process holds the library lock", err)
	}
	defer lock.Unlock()

	runID := uuid.NewString()
	ctx = logging.WithRun(ctx, runID)
	logger := logging.WithContext(ctx, m.logger)

	workers := m.cfg.Workflow.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(sources) {
		workers = len(sources)
	}

	start := time.Now()
	logger.Info("batch started",
		logging.Int("documents", len(sources)),
		logging.Int("workers", workers),
		logging.String("vocab_version", m.snapshot.Version()),
	)

	results := make([]Result, len(sources))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = m.process(ctx, runID, batch, sources[idx])
			}
		}()
	}

feed:
	for i := range sources {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	summary := &Summary{
		RunID:   runID,
		Results: results,
		Elapsed: time.Since(start),
	}
	for i := range results {
		switch {
		case results[i].Err != nil:
			summary.Failed++
		case results[i].Document != nil:
			summary.Completed++
		}
	}

	if gaps := m.gaps.Gaps(); len(gaps) > 0 {
		logger.Info("vocabulary gaps observed", logging.Int("surfaces", len(gaps)))
	}
	logger.Info("batch finished",
		logging.Int("completed", summary.Completed),
		logging.Int("failed", summary.Failed),
		logging.Duration("batch_duration", summary.Elapsed),
	)
	return summary, ctx.Err()
}

// process runs one document through the stage chain.
func (m *Manager) process(ctx context.Context, runID string, batch Batch, source string) Result {
	start := time.Now()
	job := &Job{
		RunID:    runID,
		Source:   source,
		Category: batch.Category,
		Rights:   batch.Rights,
	}
	docLogger := m.logger.With(logging.String(logging.FieldSource, source))

	for _, stage := range m.stages {
		stageCtx := logging.WithStage(ctx, stage.Name())
		if job.Document != nil {
			stageCtx = logging.WithDocument(stageCtx, job.Document.Address.String())
		}
		stageLogger := logging.WithContext(stageCtx, docLogger)
		stageStart := time.Now()
		stageLogger.Debug("stage started")

		err := stage.Prepare(stageCtx, job)
		if err == nil {
			err = stage.Execute(stageCtx, job)
		}
		if err != nil {
			stageLogger.Error("stage failed", logging.Error(err))
			return m.result(job, start, err)
		}
		stageLogger.Debug("stage completed",
			logging.Duration("stage_duration", time.Since(stageStart)))
	}

	result := m.result(job, start, nil)
	fields := []logging.Attr{
		logging.String(logging.FieldSource, source),
		logging.Int("tokens", result.Tokens),
		logging.Duration("document_duration", result.Elapsed),
	}
	if job.Document != nil {
		fields = append(fields, logging.String(logging.FieldDocument, job.Document.Address.String()))
	}
	if job.Segments != nil && job.Segments.Truncated {
		fields = append(fields, logging.String("terminal_match", job.Segments.TerminalMatch))
	}
	if job.Report != nil {
		fields = append(fields, logging.String("verify_status", string(job.Report.Status)))
	}
	logging.WithContext(ctx, m.logger).Info("document encoded", logging.Args(fields...)...)
	return result
}

func (m *Manager) result(job *Job, start time.Time, err error) Result {
	res := Result{
		Source:   job.Source,
		Document: job.Document,
		Report:   job.Report,
		Elapsed:  time.Since(start),
		Err:      err,
	}
	if job.Segments != nil {
		res.Tokens = len(job.Segments.Sequence)
		res.Dropped = job.Segments.Dropped
	}
	return res
}
