package token

// Category is the closed set of token kinds consumers switch over.
// Word, punctuation, structural, and anomaly-escape tokens appear in
// canonical sequences; document addresses never do.
type Category uint8

const (
	CategoryWord Category = iota
	CategoryPunct
	CategoryStruct
	CategoryAnomaly
	CategoryDocument
)

// Category derives the kind from the namespace. The mapping is total: every
// valid address has exactly one category.
func (a Address) Category() Category {
	switch a.ns {
	case NamespaceWord:
		return CategoryWord
	case NamespacePunct:
		return CategoryPunct
	case NamespaceStruct:
		return CategoryStruct
	case NamespaceChar:
		return CategoryAnomaly
	default:
		return CategoryDocument
	}
}

func (c Category) String() string {
	switch c {
	case CategoryWord:
		return "word"
	case CategoryPunct:
		return "punctuation"
	case CategoryStruct:
		return "structural"
	case CategoryAnomaly:
		return "anomaly"
	case CategoryDocument:
		return "document"
	}
	return "unknown"
}
