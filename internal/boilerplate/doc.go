// Package boilerplate screens paragraphs for licensing and transcription
// scaffolding before they reach the encoder.
//
// The advisory is consulted once per paragraph during segmentation. It
// compares term-frequency fingerprints against known boilerplate patterns
// and recognizes terminal markers that end the content proper, such as an
// archive's closing license block. The advisory is advisory only: encoding
// proceeds regardless of its availability.
package boilerplate
