// Package group derives the structural groupings that the segment layout
// draws: class-with-methods stacks and folder/file buckets.
//
// # Ownership
//
// A method belongs to a class when an "includes" edge points from an id
// carrying a class marker to an id carrying the method marker. Both ends are
// resolved against the whole catalog, because a method can be declared in a
// different file than its owner. Methods no edge claims fall back to the
// id-prefix relationship: the node whose id is the method id minus its last
// segment, when that node is class-like.
//
// The edge is authoritative. When the id prefix names a different class the
// edge owner is kept and the disagreement is reported in
// [Owners.Divergences] so callers can surface it.
//
// All results are sorted, so repeated calls produce identical output.
package group
