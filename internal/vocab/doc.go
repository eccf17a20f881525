// Package vocab owns the word lookup table used to resolve surfaces into
// word token addresses.
//
// A Snapshot is immutable and versioned: the version is the SHA-256 of the
// wordlist bytes it was built from, so two processes holding the same version
// resolve identically. Word addresses are assigned sequentially in list
// order, which makes the list itself the authority for address stability.
// Lookups never mutate the snapshot; unresolved surfaces flow to a
// GapReporter instead.
package vocab
