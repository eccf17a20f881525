// Package render turns canonical sequences back into text.
//
// Rendering is deterministic: inter-token spacing comes from DefaultGap plus
// explicit Glue/SpaceMark overrides in the sequence, and capitalization is
// computed from position (suppressed by CaseLower), never stored. The
// segmenter consults the same DefaultGap while encoding, which is what makes
// the round trip exact: an override marker exists precisely where the
// default would diverge from the source.
//
// Non-empty output always ends with a single newline.
package render
