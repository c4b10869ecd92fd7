/*
Package tst implements a sorted string set stored as a ternary search tree
in a single flat integer array.

Each node is four consecutive slots holding a Unicode code point with an
end-of-string flag and the offsets of the less, equal and greater
children. The flat layout keeps the tree compact and pointer-free, and a
traversal always produces words in ascending order.

Beyond exact membership, the set answers prefix, suffix, wildcard and
subset-anagram queries, bounded Hamming and edit distance searches, and
regular expression matches narrowed by the expression's literal prefix.

Two transformations restructure the array in place. Balance rebuilds the
tree by recursive bisection of the sorted members so no branch chain is
deeper than necessary. Compact merges structurally identical subtrees
into a minimal suffix-sharing DAG; a compacted set answers every query
unchanged but is rebalanced automatically before the next mutation, since
its nodes are shared.

A set can be serialized to a versioned binary buffer with variable-width
node records and read back with UnmarshalBinary or Load, including
buffers written by the two earlier format generations.
*/
package tst
