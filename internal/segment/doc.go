// Package segment turns a scanned lexeme stream into the canonical token
// sequence of a document.
//
// The segmenter owns block structure: it splits lexemes into paragraphs,
// recognizes headings, assigns indent levels, pairs emphasis markers, and
// drives per-lexeme resolution with the capital-position hint each word
// needs. At every junction between lexemes it compares the source spacing
// against the renderer's defaults and emits override markers where the two
// disagree, which is what makes rendering a sequence reproduce its source.
//
// Paragraph breaks separate plain blocks; a heading's start marker implies
// its own break, so no separator precedes it. Soft line wraps inside a
// paragraph carry no marker and render as a single space.
package segment
