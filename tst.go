package tst

import (
	"fmt"
	"math"
	"strings"
)

// A node is four consecutive int32 slots in the tree array: the value word
// followed by the less, equal and greater child offsets. The value word
// packs the code point shifted left one bit with the end-of-string flag in
// bit zero. Child slots hold the byte offset of the child node, or nul.
const (
	nodeWidth = 4
	nul       = int32(-1)
	eosBit    = int32(1)

	// maxOffset bounds the set's capacity: a child slot must be able to
	// hold any node offset.
	maxOffset = math.MaxInt32 - (nodeWidth - 1)

	// noPath is returned by locate when the word is not a path in the
	// tree at all. It cannot collide with any -off-1 failure encoding.
	noPath = int32(math.MinInt32)
)

func wordOf(r rune) int32 { return int32(r) << 1 }

// Set is a sorted string set stored as a ternary search tree in one flat
// int32 array. The zero value is an empty set ready for use.
//
// A Set is not safe for concurrent mutation. Concurrent readers are fine
// as long as no mutation, compaction or balancing is in flight.
type Set struct {
	tree     []int32
	size     int
	hasEmpty bool
	compact  bool
}

// New returns a set containing the given words. Words may be given in any
// order; they are inserted in bisection order so that pre-sorted input
// does not degrade the tree. Use AddAll to observe capacity errors.
func New(words ...string) *Set {
	s := &Set{}
	_ = s.AddAll(words)
	return s
}

// Len returns the number of words in the set.
func (s *Set) Len() int { return s.size }

// NodeCount returns the number of nodes in the backing array. Compaction
// reduces this whenever words share suffixes.
func (s *Set) NodeCount() int { return len(s.tree) / nodeWidth }

// IsCompact reports whether the set is in its suffix-sharing compacted
// form. A compacted set answers queries normally; the next mutation
// rebuilds it as a plain tree first.
func (s *Set) IsCompact() bool { return s.compact }

// Clear removes all words.
func (s *Set) Clear() {
	s.tree = s.tree[:0]
	s.size = 0
	s.hasEmpty = false
	s.compact = false
}

func (s *Set) char(n int32) rune   { return rune(s.tree[n] >> 1) }
func (s *Set) eos(n int32) bool    { return s.tree[n]&eosBit != 0 }
func (s *Set) less(n int32) int32  { return s.tree[n+1] }
func (s *Set) equal(n int32) int32 { return s.tree[n+2] }
func (s *Set) greater(n int32) int32 { return s.tree[n+3] }

// arenaLimit is the highest offset newNode may hand out, normally
// maxOffset. A variable so tests can exercise capacity errors on a
// small arena.
var arenaLimit = maxOffset

func (s *Set) newNode(r rune) (int32, error) {
	off := len(s.tree)
	if off > arenaLimit {
		return 0, ErrCapacity
	}
	s.tree = append(s.tree, wordOf(r), nul, nul, nul)
	return int32(off), nil
}

// decompact rebuilds a compacted set as a plain balanced tree. Shared
// nodes cannot be edited in place without corrupting unrelated words, so
// every mutating operation calls this first.
func (s *Set) decompact() {
	if s.compact {
		s.Balance()
	}
}

// Add inserts a word. Adding a word already present leaves the set
// unchanged. The only possible error is ErrCapacity.
func (s *Set) Add(word string) error {
	s.decompact()
	return s.add(word)
}

func (s *Set) add(word string) error {
	if word == "" {
		if !s.hasEmpty {
			s.hasEmpty = true
			s.size++
		}
		return nil
	}

	runes := []rune(word)
	n := int32(0)
	if len(s.tree) == 0 {
		root, err := s.newNode(runes[0])
		if err != nil {
			return err
		}
		n = root
	}

	// link is the tree index of the child slot that must receive the
	// offset of the next node appended, or -1 at the root.
	link := int32(-1)
	for i := 0; i < len(runes); {
		if n == nul {
			off, err := s.newNode(runes[i])
			if err != nil {
				return err
			}
			s.tree[link] = off
			n = off
		}
		c := s.char(n)
		switch {
		case runes[i] < c:
			link, n = n+1, s.less(n)
		case runes[i] > c:
			link, n = n+3, s.greater(n)
		default:
			i++
			if i == len(runes) {
				if !s.eos(n) {
					s.tree[n] |= eosBit
					s.size++
				}
				return nil
			}
			link, n = n+2, s.equal(n)
		}
	}
	return nil
}

// Has reports whether word is in the set.
func (s *Set) Has(word string) bool {
	if word == "" {
		return s.hasEmpty
	}
	return s.locate(word) >= 0
}

// locate walks the tree for word and returns the offset of the node
// reached after consuming every code point. A word that is present is
// reported as the plain offset. A path that exists but where no word ends
// is reported as -off-1, so prefix-based queries can still reach the
// subtree. noPath means the word is not even a partial path.
func (s *Set) locate(word string) int32 {
	if len(s.tree) == 0 || word == "" {
		return noPath
	}
	n := int32(0)
	prev := nul
	for _, r := range word {
		if prev != nul {
			n = s.equal(prev)
		}
		for {
			if n == nul {
				return noPath
			}
			c := s.char(n)
			if r == c {
				break
			}
			if r < c {
				n = s.less(n)
			} else {
				n = s.greater(n)
			}
		}
		prev = n
	}
	if s.eos(prev) {
		return prev
	}
	return -prev - 1
}

// Delete removes a word, reporting whether it was present. Nodes are not
// reclaimed; only the end-of-string flag is cleared. Dead nodes persist
// until the next Balance or Compact.
func (s *Set) Delete(word string) bool {
	s.decompact()
	if word == "" {
		if !s.hasEmpty {
			return false
		}
		s.hasEmpty = false
		s.size--
		return true
	}
	n := s.locate(word)
	if n < 0 {
		return false
	}
	s.tree[n] &^= eosBit
	s.size--
	return true
}

// DeleteAll removes every word in the slice, reporting whether all of
// them were present. Absent words do not stop the remaining removals.
func (s *Set) DeleteAll(words []string) bool {
	all := true
	for _, w := range words {
		if !s.Delete(w) {
			all = false
		}
	}
	return all
}

// walk is the in-order traversal every query is built on: less subtree,
// the node's own word if one ends here, the equal subtree, then the
// greater subtree. The prefix buffer grows by the node's code point on
// descent into equal and is shared down the recursion. visit returning
// false stops the walk.
func (s *Set) walk(n int32, prefix []rune, visit func(word []rune) bool) bool {
	if n == nul {
		return true
	}
	if !s.walk(s.less(n), prefix, visit) {
		return false
	}
	withC := append(prefix, s.char(n))
	if s.eos(n) && !visit(withC) {
		return false
	}
	if !s.walk(s.equal(n), withC, visit) {
		return false
	}
	return s.walk(s.greater(n), prefix, visit)
}

// Each calls visit for every word in ascending order, the empty word
// first if present. visit returning false stops the iteration.
func (s *Set) Each(visit func(word string) bool) {
	if visit == nil {
		panic(ErrNilArgument)
	}
	if s.hasEmpty && !visit("") {
		return
	}
	if len(s.tree) == 0 {
		return
	}
	s.walk(0, make([]rune, 0, 16), func(w []rune) bool {
		return visit(string(w))
	})
}

// Words returns the members in ascending order.
func (s *Set) Words() []string {
	out := make([]string, 0, s.size)
	s.Each(func(w string) bool {
		out = append(out, w)
		return true
	})
	return out
}

// String renders the node array for debugging, one record per line.
func (s *Set) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "tst.Set size=%d nodes=%d hasEmpty=%v compact=%v\n",
		s.size, s.NodeCount(), s.hasEmpty, s.compact)
	for off := 0; off < len(s.tree); off += nodeWidth {
		n := int32(off)
		mark := ' '
		if s.eos(n) {
			mark = '!'
		}
		fmt.Fprintf(&b, "%6d %q%c l=%d e=%d g=%d\n",
			off, s.char(n), mark, s.less(n), s.equal(n), s.greater(n))
	}
	return b.String()
}
