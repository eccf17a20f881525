// Package pipeline drives documents through the encode chain.
//
// Each document runs its stages strictly in order: scan, resolve, segment,
// encode, persist, verify. A batch fans documents out to a bounded worker
// pool; the vocabulary snapshot is pinned once per batch and shared
// read-only, so every document in a run encodes against the same
// vocabulary version. The library lock file keeps two processes from
// interleaving writes into one library.
//
// Failures stay with their document. A stage error marks that document's
// result and the batch moves on; only lock acquisition and cancellation
// end a run early.
package pipeline
