package vocab

import (
	"loom/internal/token"
)

// Snapshot is an immutable, versioned word table. All lookups are safe for
// concurrent use; a new wordlist requires building a new snapshot.
type Snapshot struct {
	version   string
	bySurface map[string]token.Address
	byAddress map[token.Address]string
}

// Version identifies the wordlist this snapshot was built from: the
// lowercase hex SHA-256 of its bytes.
func (s *Snapshot) Version() string { return s.version }

// Len reports the number of word entries.
func (s *Snapshot) Len() int { return len(s.bySurface) }

// Lookup resolves an exact surface form to its word address.
func (s *Snapshot) Lookup(surface string) (token.Address, bool) {
	a, ok := s.bySurface[surface]
	return a, ok
}

// LookupCharacter maps a rune into the total character namespace. It cannot
// fail; invalid runes collapse to the replacement character.
func (s *Snapshot) LookupCharacter(r rune) token.Address {
	return token.CharAddress(r)
}

// Surface returns the canonical surface form of a word address.
func (s *Snapshot) Surface(addr token.Address) (string, bool) {
	surface, ok := s.byAddress[addr]
	return surface, ok
}

// Counts tallies word entries per namespace. Word snapshots normally map
// into a single namespace, but the breakdown keeps mixed tables visible.
func (s *Snapshot) Counts() map[token.Namespace]int {
	counts := make(map[token.Namespace]int)
	for addr := range s.byAddress {
		counts[addr.Namespace()]++
	}
	return counts
}
