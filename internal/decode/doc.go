// Package decode replays a bond graph back into its token sequence.
//
// The ranked policy is the exact inverse of encoding: each hub keeps a
// departure counter, and the k-th departure follows the one bond whose
// rank set contains k. A graph that validated cleanly yields exactly the
// sequence it was built from.
//
// The lexical policy ignores ranks and always follows the smallest
// unconsumed destination address. It exists as a diagnostic: on graphs
// whose walk order is forced by structure it must agree with the ranked
// policy, and where it diverges or dead-ends it shows how much of the
// document's order is carried by the ranks alone.
//
// Neither policy repairs anything. A walk that sticks, finishes with
// edges unconsumed, or contradicts the stored seed is reported as an
// integrity fault.
package decode
