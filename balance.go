package tst

import (
	"fmt"
	"slices"
)

// Balance rebuilds the tree from its own sorted traversal using recursive
// bisection: the middle word of each range is inserted before its halves.
// The resulting less/greater structure is depth-minimal at every code
// point position; depth along equal chains is the word length and cannot
// be reduced. Balancing always leaves the set in its mutable,
// non-compacted form.
func (s *Set) Balance() {
	words := s.Words()
	s.Clear()
	// Reinserting the same members cannot exceed capacity.
	_, _ = s.addSorted(words)
}

// AddAll inserts the words in bisection order over a sorted copy, so a
// caller handing over pre-sorted input does not build a linked list. On
// error the set keeps the words inserted so far; the error names the
// offending word and its position in the input.
func (s *Set) AddAll(words []string) error {
	if len(words) == 0 {
		return nil
	}
	s.decompact()
	sorted := make([]string, len(words))
	copy(sorted, words)
	slices.Sort(sorted)
	if at, err := s.addSorted(sorted); err != nil {
		return fmt.Errorf("word %d (%q): %w", slices.Index(words, sorted[at]), sorted[at], err)
	}
	return nil
}

// addSorted inserts a sorted slice by recursive bisection, the middle
// word of each range before its halves. On error it reports the index of
// the offending word within words.
func (s *Set) addSorted(words []string) (int, error) {
	if len(words) == 0 {
		return 0, nil
	}
	mid := len(words) / 2
	if err := s.add(words[mid]); err != nil {
		return mid, err
	}
	if at, err := s.addSorted(words[:mid]); err != nil {
		return at, err
	}
	at, err := s.addSorted(words[mid+1:])
	return mid + 1 + at, err
}
