// Package resolve maps scanned lexemes onto token addresses against a
// pinned vocabulary snapshot.
//
// Resolution is total. A word is tried against the snapshot directly, then
// through the positional lowercase retry, then as a possessive, then as a
// hyphenated compound; whatever remains leaves as an anomaly span that the
// renderer replays character for character. Every resolved form is chosen so
// that rendering it at the same position reproduces the source text exactly.
package resolve
