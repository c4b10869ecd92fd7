package tst

// StartingWith returns, in ascending order, every word that begins with
// prefix, including prefix itself when it is a member. An empty prefix
// returns all words.
func (s *Set) StartingWith(prefix string) []string {
	if prefix == "" {
		return s.Words()
	}
	loc := s.locate(prefix)
	if loc == noPath {
		return nil
	}
	var out []string
	n := loc
	if loc >= 0 {
		out = append(out, prefix)
	} else {
		n = -loc - 1
	}
	s.walk(s.equal(n), []rune(prefix), func(w []rune) bool {
		out = append(out, string(w))
		return true
	})
	return out
}

// EndingWith returns, in ascending order, every word that ends with
// suffix. There is no suffix index; the whole tree is traversed and the
// trailing code points of each word are compared.
func (s *Set) EndingWith(suffix string) []string {
	var out []string
	tail := []rune(suffix)
	if s.hasEmpty && len(tail) == 0 {
		out = append(out, "")
	}
	if len(s.tree) == 0 {
		return out
	}
	s.walk(0, make([]rune, 0, 16), func(w []rune) bool {
		if hasTail(w, tail) {
			out = append(out, string(w))
		}
		return true
	})
	return out
}

func hasTail(w, tail []rune) bool {
	if len(w) < len(tail) {
		return false
	}
	off := len(w) - len(tail)
	for i, r := range tail {
		if w[off+i] != r {
			return false
		}
	}
	return true
}

// Matching returns every word of the same length as pattern whose code
// points equal the pattern's at every position where the pattern is not
// '?'. MatchingRune accepts a different wildcard for inputs where '?' is
// a literal.
func (s *Set) Matching(pattern string) []string {
	return s.MatchingRune(pattern, '?')
}

// MatchingRune is Matching with an explicit wildcard code point.
func (s *Set) MatchingRune(pattern string, wildcard rune) []string {
	pat := []rune(pattern)
	var out []string
	if len(pat) == 0 {
		if s.hasEmpty {
			out = append(out, "")
		}
		return out
	}
	if len(s.tree) > 0 {
		s.wildcardAt(0, pat, 0, wildcard, make([]rune, 0, len(pat)), &out)
	}
	return out
}

func (s *Set) wildcardAt(n int32, pat []rune, i int, wildcard rune, prefix []rune, out *[]string) {
	if n == nul || i == len(pat) {
		return
	}
	c := s.char(n)
	p := pat[i]
	if p == wildcard || p < c {
		s.wildcardAt(s.less(n), pat, i, wildcard, prefix, out)
	}
	if p == wildcard || p == c {
		withC := append(prefix, c)
		if i == len(pat)-1 && s.eos(n) {
			*out = append(*out, string(withC))
		}
		s.wildcardAt(s.equal(n), pat, i+1, wildcard, withC, out)
	}
	if p == wildcard || p > c {
		s.wildcardAt(s.greater(n), pat, i, wildcard, prefix, out)
	}
}

// ArrangementsOf returns every word that can be spelled with a subset of
// the given letters, each used at most as often as it appears. The empty
// word trivially qualifies when present.
func (s *Set) ArrangementsOf(letters string) []string {
	var out []string
	if s.hasEmpty {
		out = append(out, "")
	}
	if len(s.tree) == 0 {
		return out
	}
	remaining := make(map[rune]int)
	for _, r := range letters {
		remaining[r]++
	}
	s.arrangeAt(0, remaining, make([]rune, 0, len(letters)), &out)
	return out
}

func (s *Set) arrangeAt(n int32, remaining map[rune]int, prefix []rune, out *[]string) {
	if n == nul {
		return
	}
	s.arrangeAt(s.less(n), remaining, prefix, out)
	c := s.char(n)
	if remaining[c] > 0 {
		remaining[c]--
		withC := append(prefix, c)
		if s.eos(n) {
			*out = append(*out, string(withC))
		}
		s.arrangeAt(s.equal(n), remaining, withC, out)
		remaining[c]++
	}
	s.arrangeAt(s.greater(n), remaining, prefix, out)
}
