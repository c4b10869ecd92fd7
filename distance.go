package tst

import (
	"fmt"

	"github.com/emirpasic/gods/sets/treeset"
)

// NoLimit is the explicit unbounded-distance sentinel for WithinHammingOf
// and WithinEditOf. Any other negative distance is a range error.
const NoLimit = -1

func checkDistance(distance int) error {
	if distance < 0 && distance != NoLimit {
		return fmt.Errorf("%w: %d", ErrDistanceRange, distance)
	}
	return nil
}

// WithinHammingOf returns, in ascending order, every word of exactly the
// pattern's length differing from it in at most distance positions.
func (s *Set) WithinHammingOf(pattern string, distance int) ([]string, error) {
	if err := checkDistance(distance); err != nil {
		return nil, err
	}
	pat := []rune(pattern)
	var out []string
	if len(pat) == 0 {
		if s.hasEmpty {
			out = append(out, "")
		}
		return out, nil
	}
	if len(s.tree) == 0 {
		return out, nil
	}
	if distance == NoLimit || distance >= len(pat) {
		// Every position may mismatch; the query degenerates to
		// collecting all words of the pattern's length.
		s.walk(0, make([]rune, 0, len(pat)), func(w []rune) bool {
			if len(w) == len(pat) {
				out = append(out, string(w))
			}
			return true
		})
		return out, nil
	}
	s.hammingAt(0, pat, 0, distance, make([]rune, 0, len(pat)), &out)
	return out, nil
}

// hammingAt explores the tree with a remaining mismatch budget. Siblings
// are free moves but are only worth visiting unconditionally while budget
// remains; with none left the walk must follow the pattern exactly.
func (s *Set) hammingAt(n int32, pat []rune, i, budget int, prefix []rune, out *[]string) {
	if n == nul || i == len(pat) {
		return
	}
	c := s.char(n)
	p := pat[i]
	if budget > 0 || p < c {
		s.hammingAt(s.less(n), pat, i, budget, prefix, out)
	}
	cost := 0
	if p != c {
		cost = 1
	}
	if budget >= cost {
		withC := append(prefix, c)
		if i == len(pat)-1 && s.eos(n) {
			*out = append(*out, string(withC))
		}
		s.hammingAt(s.equal(n), pat, i+1, budget-cost, withC, out)
	}
	if budget > 0 || p > c {
		s.hammingAt(s.greater(n), pat, i, budget, prefix, out)
	}
}

// WithinEditOf returns, in ascending order, every word within the given
// Levenshtein distance of pattern (insertions, deletions and
// substitutions each costing one).
//
// Deletions from the pattern are factored out up front: the pattern's
// deletion neighborhood — every distinct string obtainable by removing up
// to distance code points — is computed once, and each variant is then
// matched against the tree allowing only substitutions and insertions on
// the remaining budget. Edits can surface words out of traversal order,
// so results accumulate in an ordered auxiliary set rather than a list.
func (s *Set) WithinEditOf(pattern string, distance int) ([]string, error) {
	if err := checkDistance(distance); err != nil {
		return nil, err
	}
	if distance == NoLimit {
		// An unlimited budget reaches every word.
		return s.Words(), nil
	}
	pat := []rune(pattern)
	results := treeset.NewWithStringComparator()
	if s.hasEmpty && len(pat) <= distance {
		results.Add("")
	}
	if len(s.tree) > 0 {
		for variant, deleted := range deletionNeighborhood(pat, distance) {
			s.editAt(0, []rune(variant), 0, distance-deleted, make([]rune, 0, len(pat)+distance), results)
		}
	}
	out := make([]string, 0, results.Size())
	for _, v := range results.Values() {
		out = append(out, v.(string))
	}
	return out, nil
}

// deletionNeighborhood maps each string reachable by deleting up to
// distance code points from pat to the minimum number of deletions used.
func deletionNeighborhood(pat []rune, distance int) map[string]int {
	out := map[string]int{string(pat): 0}
	frontier := []string{string(pat)}
	for level := 1; level <= distance && len(frontier) > 0; level++ {
		var next []string
		for _, w := range frontier {
			runes := []rune(w)
			for i := range runes {
				variant := string(runes[:i]) + string(runes[i+1:])
				if _, seen := out[variant]; !seen {
					out[variant] = level
					next = append(next, variant)
				}
			}
		}
		frontier = next
	}
	return out
}

// editAt aligns pat against the tree allowing substitutions and
// insertions only. A word is collected at the moment the node spelling
// its last code point is consumed with the pattern fully used up.
func (s *Set) editAt(n int32, pat []rune, i, budget int, prefix []rune, results *treeset.Set) {
	if n == nul {
		return
	}
	c := s.char(n)
	if budget > 0 || (i < len(pat) && pat[i] < c) {
		s.editAt(s.less(n), pat, i, budget, prefix, results)
	}

	withC := append(prefix, c)
	if i < len(pat) && pat[i] == c {
		if s.eos(n) && i+1 == len(pat) {
			results.Add(string(withC))
		}
		s.editAt(s.equal(n), pat, i+1, budget, withC, results)
	}
	if budget > 0 {
		if i < len(pat) && pat[i] != c {
			// substitute pat[i] with c
			if s.eos(n) && i+1 == len(pat) {
				results.Add(string(withC))
			}
			s.editAt(s.equal(n), pat, i+1, budget-1, withC, results)
		}
		// insert c into the pattern
		if s.eos(n) && i == len(pat) {
			results.Add(string(withC))
		}
		s.editAt(s.equal(n), pat, i, budget-1, withC, results)
	}

	if budget > 0 || (i < len(pat) && pat[i] > c) {
		s.editAt(s.greater(n), pat, i, budget, prefix, results)
	}
}
