package tst

// nodeKey is the canonical identity of a node within one compaction pass:
// its value word and the canonical targets of its three children. Two
// nodes with equal keys head structurally identical subtrees and are
// interchangeable.
type nodeKey struct {
	value                int32
	less, equal, greater int32
}

// Compact rewrites the tree as a minimal suffix-sharing DAG: structurally
// identical subtrees are stored once. Lookups and traversals work
// unchanged on the compacted form, but the array must not be edited in
// place, so the next mutating call rebalances first.
//
// Each pass deduplicates nodes whose children are already shared; the
// first pass can only merge leaves, the next their parents, and so on
// upward until a pass no longer shrinks the array.
func (s *Set) Compact() {
	if s.compact {
		return
	}
	for len(s.tree) > 0 {
		out := compactPass(s.tree)
		shrunk := len(out) < len(s.tree)
		s.tree = out
		if !shrunk {
			break
		}
	}
	s.compact = true
}

// compactPass performs one canonicalization pass, returning an array no
// larger than the input that recognizes the same string language.
func compactPass(tree []int32) []int32 {
	// canon maps each input node offset to its output offset. Nodes are
	// processed in array order; parents precede their children, so a
	// child's canonical slot is normally still unassigned when its
	// parent's key is built. Such a child is keyed by its input offset,
	// encoded as -off-2 to stay disjoint from both nul and the assigned
	// output offsets.
	canon := make(map[int32]int32, len(tree)/nodeWidth)
	slots := make(map[nodeKey]int32, len(tree)/nodeWidth)

	target := func(child int32) int32 {
		if child == nul {
			return nul
		}
		if slot, ok := canon[child]; ok {
			return slot
		}
		return -child - 2
	}

	next := int32(0)
	for off := int32(0); off < int32(len(tree)); off += nodeWidth {
		key := nodeKey{
			value:   tree[off],
			less:    target(tree[off+1]),
			equal:   target(tree[off+2]),
			greater: target(tree[off+3]),
		}
		slot, ok := slots[key]
		if !ok {
			slot = next
			next += nodeWidth
			slots[key] = slot
		}
		canon[off] = slot
	}

	resolve := func(child int32) int32 {
		if child == nul {
			return nul
		}
		return canon[child]
	}

	out := make([]int32, next)
	written := make(map[int32]bool, len(canon))
	for off := int32(0); off < int32(len(tree)); off += nodeWidth {
		slot := canon[off]
		if written[slot] {
			continue
		}
		written[slot] = true
		out[slot] = tree[off]
		out[slot+1] = resolve(tree[off+1])
		out[slot+2] = resolve(tree[off+2])
		out[slot+3] = resolve(tree[off+3])
	}
	return out
}
