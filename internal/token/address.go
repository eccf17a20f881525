package token

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// The segment alphabet holds exactly 50 symbols: 'A'..'Z' then 'a'..'x'.
// ASCII order matches alphabet order, so byte-wise comparison of encoded
// addresses equals ordinal comparison.
const (
	alphabetSize = 50
	upperCount   = 26

	// SegmentCount is the number of segment symbols following the namespace.
	SegmentCount = 4

	// MaxOrdinal is the largest value one address can carry in its segments.
	MaxOrdinal = alphabetSize*alphabetSize*alphabetSize*alphabetSize - 1

	// MaxCategorySlots is how many document categories the document namespace
	// can keep apart: the leading segment of a document address holds the
	// category slot.
	MaxCategorySlots = alphabetSize

	// MaxCategorySeq is the largest per-category document sequence number;
	// the trailing three segments of a document address hold the sequence.
	MaxCategorySeq = alphabetSize*alphabetSize*alphabetSize - 1
)

// Namespace identifies the address family a token belongs to.
type Namespace byte

const (
	NamespaceWord     Namespace = 'W'
	NamespacePunct    Namespace = 'P'
	NamespaceStruct   Namespace = 'S'
	NamespaceChar     Namespace = 'C'
	NamespaceDocument Namespace = 'D'
)

// Valid reports whether n is one of the five known namespaces.
func (n Namespace) Valid() bool {
	switch n {
	case NamespaceWord, NamespacePunct, NamespaceStruct, NamespaceChar, NamespaceDocument:
		return true
	}
	return false
}

// Address is a token address: namespace plus four alphabet segments.
// The zero Address is invalid and reports IsZero.
type Address struct {
	ns   Namespace
	segs [SegmentCount]byte
}

// New builds an address in ns carrying ordinal, base-50 encoded into the
// four segments, outermost segment first.
func New(ns Namespace, ordinal uint32) (Address, error) {
	if !ns.Valid() {
		return Address{}, fmt.Errorf("token: unknown namespace %q", string(ns))
	}
	if ordinal > MaxOrdinal {
		return Address{}, fmt.Errorf("token: ordinal %d exceeds namespace capacity %d", ordinal, MaxOrdinal)
	}
	a := Address{ns: ns}
	rem := ordinal
	for i := SegmentCount - 1; i >= 0; i-- {
		a.segs[i] = symbolAt(int(rem % alphabetSize))
		rem /= alphabetSize
	}
	return a, nil
}

// MustNew is New for ordinals known to be in range, such as entries of the
// fixed structural and punctuation tables.
func MustNew(ns Namespace, ordinal uint32) Address {
	a, err := New(ns, ordinal)
	if err != nil {
		panic(err)
	}
	return a
}

// DocumentAddress composes a document address from a category slot and a
// per-category sequence number. The slot occupies the leading segment and
// the sequence the trailing three, so documents in different categories can
// never collide while each category's tail advances sequentially.
func DocumentAddress(slot int, seq uint32) (Address, error) {
	if slot < 0 || slot >= MaxCategorySlots {
		return Address{}, fmt.Errorf("token: category slot %d outside 0..%d", slot, MaxCategorySlots-1)
	}
	if seq > MaxCategorySeq {
		return Address{}, fmt.Errorf("token: document sequence %d exceeds category capacity %d", seq, MaxCategorySeq)
	}
	return New(NamespaceDocument, uint32(slot)*(MaxCategorySeq+1)+seq)
}

// Parse reads the canonical string form "N:ssss".
func Parse(s string) (Address, error) {
	if len(s) != SegmentCount+2 || s[1] != ':' {
		return Address{}, fmt.Errorf("token: malformed address %q", s)
	}
	ns := Namespace(s[0])
	if !ns.Valid() {
		return Address{}, fmt.Errorf("token: unknown namespace in %q", s)
	}
	a := Address{ns: ns}
	for i := 0; i < SegmentCount; i++ {
		c := s[i+2]
		if _, ok := symbolIndex(c); !ok {
			return Address{}, fmt.Errorf("token: symbol %q outside alphabet in %q", string(c), s)
		}
		a.segs[i] = c
	}
	return a, nil
}

// String renders the canonical form, e.g. "W:ABcd".
func (a Address) String() string {
	var b strings.Builder
	b.Grow(SegmentCount + 2)
	b.WriteByte(byte(a.ns))
	b.WriteByte(':')
	b.Write(a.segs[:])
	return b.String()
}

// Namespace returns the address family.
func (a Address) Namespace() Namespace { return a.ns }

// IsZero reports whether a is the invalid zero value.
func (a Address) IsZero() bool { return a.ns == 0 }

// Ordinal decodes the base-50 value carried by the segments.
func (a Address) Ordinal() uint32 {
	var v uint32
	for i := 0; i < SegmentCount; i++ {
		idx, _ := symbolIndex(a.segs[i])
		v = v*alphabetSize + uint32(idx)
	}
	return v
}

// Compare orders addresses by namespace, then segment by segment.
// It returns -1, 0, or 1.
func (a Address) Compare(b Address) int {
	switch {
	case a.ns < b.ns:
		return -1
	case a.ns > b.ns:
		return 1
	}
	for i := 0; i < SegmentCount; i++ {
		switch {
		case a.segs[i] < b.segs[i]:
			return -1
		case a.segs[i] > b.segs[i]:
			return 1
		}
	}
	return 0
}

// Less reports a < b under Compare's total order. It is the decoder's
// documented tie-break order.
func (a Address) Less(b Address) bool { return a.Compare(b) < 0 }

// PrefixWidth is the number of leading segments shared by a storage group;
// the trailing SegmentCount-PrefixWidth segments distinguish edges inside
// the group.
const PrefixWidth = 2

// GroupPrefix returns the storage group key: namespace plus the leading
// segments, e.g. "W:AB".
func (a Address) GroupPrefix() string {
	var b strings.Builder
	b.Grow(PrefixWidth + 2)
	b.WriteByte(byte(a.ns))
	b.WriteByte(':')
	b.Write(a.segs[:PrefixWidth])
	return b.String()
}

// Tail returns the distinguishing trailing segments, e.g. "cd".
func (a Address) Tail() string {
	return string(a.segs[PrefixWidth:])
}

// Join rebuilds a full address from a stored group prefix and edge tail.
func Join(prefix, tail string) (Address, error) {
	if len(prefix) != PrefixWidth+2 || len(tail) != SegmentCount-PrefixWidth {
		return Address{}, fmt.Errorf("token: cannot join prefix %q with tail %q", prefix, tail)
	}
	return Parse(prefix + tail)
}

// CharAddress maps any rune into the total character namespace. Invalid
// runes collapse to utf8.RuneError so the mapping never fails.
func CharAddress(r rune) Address {
	if r < 0 || r > utf8.MaxRune {
		r = utf8.RuneError
	}
	a, _ := New(NamespaceChar, uint32(r))
	return a
}

// CharOf inverts CharAddress. The second result is false when a is not a
// character address or decodes outside the rune range.
func (a Address) CharOf() (rune, bool) {
	if a.ns != NamespaceChar {
		return 0, false
	}
	v := a.Ordinal()
	if v > utf8.MaxRune {
		return 0, false
	}
	return rune(v), true
}

func symbolAt(idx int) byte {
	if idx < upperCount {
		return byte('A' + idx)
	}
	return byte('a' + idx - upperCount)
}

func symbolIndex(c byte) (int, bool) {
	switch {
	case c >= 'A' && c <= 'Z':
		return int(c - 'A'), true
	case c >= 'a' && c <= 'x':
		return upperCount + int(c-'a'), true
	}
	return 0, false
}
