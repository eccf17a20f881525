package render

import "loom/internal/token"

// DefaultGap is the space the renderer inserts between two adjacent content
// tokens when no override marker sits at the junction: 0 or 1. prev is the
// zero Address at a block start.
//
// Anomaly spans take part through their boundary markers: AnomalyStart as
// next and AnomalyEnd as prev both behave like plain content, so spans are
// spaced like words by default.
func DefaultGap(prev, next token.Address) int {
	if prev.IsZero() {
		return 0
	}
	if prev == token.EmphasisStart || next == token.EmphasisEnd {
		return 0
	}
	if prev.NoSpaceAfter() || next.NoSpaceBefore() {
		return 0
	}
	return 1
}
