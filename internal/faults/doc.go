// Package faults classifies failures across the codec.
//
// Components wrap their errors with one sentinel marker (integrity,
// transient, validation, not-found) plus component context; the pipeline and
// CLI branch on the marker via errors.Is instead of matching message text.
// The Retry helper implements the bounded-backoff contract for transient
// store I/O; integrity and validation failures are never retried.
package faults
