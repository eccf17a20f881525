package token

// Reserved structural ordinals. The table is append-only: published
// documents reference these addresses forever, so existing entries never
// renumber.
const (
	ordAnchorStart uint32 = iota
	ordAnchorEnd
	ordParagraphBreak
	ordHeadingStart
	ordHeadingEnd
	ordEmphasisStart
	ordEmphasisEnd
	ordAnomalyStart
	ordAnomalyEnd
	ordCaseLower
	ordGlue
	ordSpaceMark
	ordIndentBase // IndentL1..IndentL8 occupy the next MaxIndentLevel slots
)

// MaxIndentLevel bounds the ordinal indent markers. Deeper literal
// indentation clamps to this level.
const MaxIndentLevel = 8

// Reserved structural markers. AnchorStart and AnchorEnd bound every
// canonical sequence; the rest delimit regions or override the renderer's
// default spacing and capitalization.
var (
	AnchorStart    = MustNew(NamespaceStruct, ordAnchorStart)
	AnchorEnd      = MustNew(NamespaceStruct, ordAnchorEnd)
	ParagraphBreak = MustNew(NamespaceStruct, ordParagraphBreak)
	HeadingStart   = MustNew(NamespaceStruct, ordHeadingStart)
	HeadingEnd     = MustNew(NamespaceStruct, ordHeadingEnd)
	EmphasisStart  = MustNew(NamespaceStruct, ordEmphasisStart)
	EmphasisEnd    = MustNew(NamespaceStruct, ordEmphasisEnd)
	AnomalyStart   = MustNew(NamespaceStruct, ordAnomalyStart)
	AnomalyEnd     = MustNew(NamespaceStruct, ordAnomalyEnd)
	CaseLower      = MustNew(NamespaceStruct, ordCaseLower)
	Glue           = MustNew(NamespaceStruct, ordGlue)
	SpaceMark      = MustNew(NamespaceStruct, ordSpaceMark)
)

// Indent returns the marker for an ordinal indent level in 1..MaxIndentLevel.
// Levels outside the range clamp.
func Indent(level int) Address {
	if level < 1 {
		level = 1
	}
	if level > MaxIndentLevel {
		level = MaxIndentLevel
	}
	return MustNew(NamespaceStruct, ordIndentBase+uint32(level-1))
}

// IndentLevel reports the level of an indent marker, or false for any other
// address.
func (a Address) IndentLevel() (int, bool) {
	if a.ns != NamespaceStruct {
		return 0, false
	}
	ord := a.Ordinal()
	if ord < ordIndentBase || ord >= ordIndentBase+MaxIndentLevel {
		return 0, false
	}
	return int(ord-ordIndentBase) + 1, true
}

var structuralNames = map[uint32]string{
	ordAnchorStart:    "anchor-start",
	ordAnchorEnd:      "anchor-end",
	ordParagraphBreak: "paragraph-break",
	ordHeadingStart:   "heading-start",
	ordHeadingEnd:     "heading-end",
	ordEmphasisStart:  "emphasis-start",
	ordEmphasisEnd:    "emphasis-end",
	ordAnomalyStart:   "anomaly-start",
	ordAnomalyEnd:     "anomaly-end",
	ordCaseLower:      "case-lower",
	ordGlue:           "glue",
	ordSpaceMark:      "space-mark",
}

// StructuralName returns a diagnostic label for a structural address, or
// false when a is not structural.
func (a Address) StructuralName() (string, bool) {
	if a.ns != NamespaceStruct {
		return "", false
	}
	if name, ok := structuralNames[a.Ordinal()]; ok {
		return name, true
	}
	if level, ok := a.IndentLevel(); ok {
		return "indent-l" + string(rune('0'+level)), true
	}
	return "", false
}
