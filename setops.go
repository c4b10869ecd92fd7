package tst

import (
	"iter"

	"github.com/google/btree"
)

// Set algebra accepts iter.Seq[string] so that the other operand can be
// another Set (via All), a slice (slices.Values), or any caller-defined
// sequence. Result sets are built through the bisection path and are
// never compacted.

const btreeDegree = 16

func newCollector() *btree.BTreeG[string] {
	return btree.NewG(btreeDegree, func(a, b string) bool { return a < b })
}

func collected(tr *btree.BTreeG[string]) []string {
	out := make([]string, 0, tr.Len())
	tr.Ascend(func(w string) bool {
		out = append(out, w)
		return true
	})
	return out
}

// All returns the members as a range-over-func sequence in ascending
// order, the empty word first when present.
func (s *Set) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		if s.hasEmpty && !yield("") {
			return
		}
		if len(s.tree) == 0 {
			return
		}
		s.walk(0, make([]rune, 0, 16), func(w []rune) bool {
			return yield(string(w))
		})
	}
}

// FromSeq builds a set from any string sequence.
func FromSeq(words iter.Seq[string]) *Set {
	if words == nil {
		panic(ErrNilArgument)
	}
	tr := newCollector()
	for w := range words {
		tr.ReplaceOrInsert(w)
	}
	s := &Set{}
	_, _ = s.addSorted(collected(tr))
	return s
}

// Union returns a new set holding every member of s and of other.
func (s *Set) Union(other iter.Seq[string]) *Set {
	if other == nil {
		panic(ErrNilArgument)
	}
	tr := newCollector()
	for w := range s.All() {
		tr.ReplaceOrInsert(w)
	}
	for w := range other {
		tr.ReplaceOrInsert(w)
	}
	out := &Set{}
	_, _ = out.addSorted(collected(tr))
	return out
}

// Intersect returns a new set holding the members of s that also occur
// in other.
func (s *Set) Intersect(other iter.Seq[string]) *Set {
	if other == nil {
		panic(ErrNilArgument)
	}
	tr := newCollector()
	for w := range other {
		if s.Has(w) {
			tr.ReplaceOrInsert(w)
		}
	}
	out := &Set{}
	_, _ = out.addSorted(collected(tr))
	return out
}

// Difference returns a new set holding the members of s that do not
// occur in other.
func (s *Set) Difference(other iter.Seq[string]) *Set {
	if other == nil {
		panic(ErrNilArgument)
	}
	drop := make(map[string]struct{})
	for w := range other {
		drop[w] = struct{}{}
	}
	var words []string
	s.Each(func(w string) bool {
		if _, ok := drop[w]; !ok {
			words = append(words, w)
		}
		return true
	})
	out := &Set{}
	_, _ = out.addSorted(words)
	return out
}

// SymmetricDifference returns a new set holding the members in exactly
// one of s and other.
func (s *Set) SymmetricDifference(other iter.Seq[string]) *Set {
	if other == nil {
		panic(ErrNilArgument)
	}
	inOther := make(map[string]struct{})
	tr := newCollector()
	for w := range other {
		inOther[w] = struct{}{}
		if !s.Has(w) {
			tr.ReplaceOrInsert(w)
		}
	}
	s.Each(func(w string) bool {
		if _, ok := inOther[w]; !ok {
			tr.ReplaceOrInsert(w)
		}
		return true
	})
	out := &Set{}
	_, _ = out.addSorted(collected(tr))
	return out
}

// IsSubsetOf reports whether every member of s occurs in other.
func (s *Set) IsSubsetOf(other iter.Seq[string]) bool {
	if other == nil {
		panic(ErrNilArgument)
	}
	members := make(map[string]struct{})
	for w := range other {
		members[w] = struct{}{}
	}
	ok := true
	s.Each(func(w string) bool {
		_, ok = members[w]
		return ok
	})
	return ok
}

// IsSupersetOf reports whether every word in other is a member of s.
func (s *Set) IsSupersetOf(other iter.Seq[string]) bool {
	if other == nil {
		panic(ErrNilArgument)
	}
	for w := range other {
		if !s.Has(w) {
			return false
		}
	}
	return true
}

// IsDisjointFrom reports whether no word in other is a member of s.
func (s *Set) IsDisjointFrom(other iter.Seq[string]) bool {
	if other == nil {
		panic(ErrNilArgument)
	}
	for w := range other {
		if s.Has(w) {
			return false
		}
	}
	return true
}
