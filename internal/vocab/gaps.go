package vocab

import (
	"log/slog"
	"sort"
	"sync"

	"loom/internal/logging"
)

// Gap is one unresolved surface and how often it was seen.
type Gap struct {
	Surface string
	Count   int
	// Example is the first context line the surface was seen in.
	Example string
}

// GapReporter collects unresolved-but-plausible surfaces encountered during
// resolution. Reporting is fire-and-forget: it never fails and never blocks
// encoding. Safe for concurrent use.
type GapReporter struct {
	mu      sync.Mutex
	logger  *slog.Logger
	enabled bool
	seen    map[string]*Gap
}

// NewGapReporter builds a reporter. A nil logger discards per-gap records;
// disabled reporters drop everything.
func NewGapReporter(logger *slog.Logger, enabled bool) *GapReporter {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &GapReporter{
		logger:  logging.NewComponentLogger(logger, "vocab"),
		enabled: enabled,
		seen:    make(map[string]*Gap),
	}
}

// Report records one unresolved surface with the context it appeared in.
func (g *GapReporter) Report(surface, context string) {
	if g == nil || !g.enabled || surface == "" {
		return
	}
	g.mu.Lock()
	entry, ok := g.seen[surface]
	if !ok {
		entry = &Gap{Surface: surface, Example: context}
		g.seen[surface] = entry
	}
	entry.Count++
	first := entry.Count == 1
	g.mu.Unlock()

	if first {
		g.logger.Debug("vocabulary gap",
			logging.String("surface", surface),
			logging.String("context", context))
	}
}

// Gaps returns the collected gaps, most frequent first, ties by surface.
func (g *GapReporter) Gaps() []Gap {
	if g == nil {
		return nil
	}
	g.mu.Lock()
	out := make([]Gap, 0, len(g.seen))
	for _, entry := range g.seen {
		out = append(out, *entry)
	}
	g.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Surface < out[j].Surface
	})
	return out
}
