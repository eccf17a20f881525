// Package bondgraph holds the weighted directed multigraph a document's
// token sequence compresses into.
//
// Every distinct token address in a sequence becomes a hub in an arena and
// is referred to by its integer handle from then on. Each adjacent pair in
// the sequence becomes one traversal of a bond between two hubs; a bond
// aggregates its traversals into a count and remembers at which departure
// ordinals of its source hub they happened. Those ordinals, the ranks, are
// what lets a decoder walk the graph back into the original sequence
// instead of just any flow-conserving sequence.
//
// Graphs are immutable once built. Encode builds one from a sequence; a
// Builder reassembles one from stored rows.
package bondgraph
