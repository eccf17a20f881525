// Package verify checks that a stored graph still reproduces the document
// it was built from.
//
// The check runs at two levels. Token verification replays the graph under
// the ranked policy and compares the walk against the encoder's sequence,
// reporting the first divergent position. Text verification renders the
// replayed walk and compares it with the source text, first byte for byte
// and then under a documented normalization (NFC, line endings, trailing
// whitespace, blank-line runs, soft wraps). A document whose text only
// matches after normalization is reported as such rather than silently
// accepted.
package verify
