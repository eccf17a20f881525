// Package scan splits raw text into lexical units.
//
// The scanner is total: every input byte lands in some lexeme, and
// unclassifiable characters become single-character punctuation. Input is
// NFC-normalized and line endings are folded to LF before scanning; both are
// documented normalizations shared with the verifier. The scanner performs
// no vocabulary lookups and never fails.
package scan
