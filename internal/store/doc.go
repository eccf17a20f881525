// Package store persists encoded documents in a SQLite library.
//
// A document row carries provenance and the decode seed; its graph is laid
// out across three tables. Hub rows hold each hub's full address once.
// Bond rows are grouped by (hub, destination prefix): the shared leading
// segments of the destination addresses live on the bond_groups row and
// each bond stores only the distinguishing tail, the traversal count, and
// the departure ranks as a delta-encoded varint blob. Document addresses
// are allocated from the counters table inside the append transaction, so
// a rolled-back append never burns an ordinal.
//
// The store never repairs what it reads. Reloading a graph revalidates
// flow conservation and rank coverage, and any mismatch surfaces as an
// integrity fault.
package store
