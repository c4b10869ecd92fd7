package tst

// Traversal wrappers over the canonical ascending order of Each.

// Find returns the first word, in ascending order, satisfying pred.
func (s *Set) Find(pred func(string) bool) (string, bool) {
	if pred == nil {
		panic(ErrNilArgument)
	}
	var found string
	ok := false
	s.Each(func(w string) bool {
		if pred(w) {
			found, ok = w, true
			return false
		}
		return true
	})
	return found, ok
}

// Some reports whether any word satisfies pred, stopping at the first
// success.
func (s *Set) Some(pred func(string) bool) bool {
	_, ok := s.Find(pred)
	return ok
}

// Every reports whether all words satisfy pred, stopping at the first
// failure.
func (s *Set) Every(pred func(string) bool) bool {
	if pred == nil {
		panic(ErrNilArgument)
	}
	all := true
	s.Each(func(w string) bool {
		all = pred(w)
		return all
	})
	return all
}

// Filter returns a new mutable set holding the words satisfying pred.
// The copy keeps the node array and clears end-of-string flags rather
// than removing nodes; when most words are filtered out the result is
// rebalanced so dead nodes do not linger.
func (s *Set) Filter(pred func(string) bool) *Set {
	if pred == nil {
		panic(ErrNilArgument)
	}
	out := s.cloneMutable()
	var drop []string
	s.Each(func(w string) bool {
		if !pred(w) {
			drop = append(drop, w)
		}
		return true
	})
	for _, w := range drop {
		out.Delete(w)
	}
	if out.size < s.size/2 {
		out.Balance()
	}
	return out
}

// cloneMutable copies the set, rebalancing compacted state away so the
// copy can be edited in place.
func (s *Set) cloneMutable() *Set {
	out := &Set{
		tree:     make([]int32, len(s.tree)),
		size:     s.size,
		hasEmpty: s.hasEmpty,
		compact:  s.compact,
	}
	copy(out.tree, s.tree)
	out.decompact()
	return out
}

// MapStrings returns a new set of fn applied to every word. All mapped
// values are collected before the result is built: a mapping that
// preserves ordering would otherwise feed the new tree sorted input one
// word at a time, the degenerate insertion case the balancer exists to
// avoid.
func (s *Set) MapStrings(fn func(string) string) *Set {
	if fn == nil {
		panic(ErrNilArgument)
	}
	tr := newCollector()
	s.Each(func(w string) bool {
		tr.ReplaceOrInsert(fn(w))
		return true
	})
	out := &Set{}
	_, _ = out.addSorted(collected(tr))
	return out
}

// Map collects fn applied to every word, in ascending word order.
func Map[T any](s *Set, fn func(string) T) []T {
	if fn == nil {
		panic(ErrNilArgument)
	}
	out := make([]T, 0, s.Len())
	s.Each(func(w string) bool {
		out = append(out, fn(w))
		return true
	})
	return out
}

// Reduce folds the words in ascending order into an accumulator.
func Reduce[T any](s *Set, fn func(acc T, word string) T, initial T) T {
	if fn == nil {
		panic(ErrNilArgument)
	}
	acc := initial
	s.Each(func(w string) bool {
		acc = fn(acc, w)
		return true
	})
	return acc
}
