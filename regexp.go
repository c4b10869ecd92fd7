package tst

import (
	"regexp"
	"strings"
)

// MatchingRegexp returns, in ascending order, every word the regular
// expression matches in full. A literal prefix extracted from the
// pattern source narrows the traversal to one subtree when possible;
// without one the whole tree is scanned. The expression uses the regexp
// package's syntax and is anchored at both ends before matching, so a
// candidate must be spanned entirely.
func (s *Set) MatchingRegexp(expr string) ([]string, error) {
	re, err := regexp.Compile(`\A(?:` + expr + `)\z`)
	if err != nil {
		return nil, err
	}
	var out []string
	if s.hasEmpty && re.MatchString("") {
		out = append(out, "")
	}
	if len(s.tree) == 0 {
		return out, nil
	}

	collect := func(w []rune) bool {
		if c := string(w); re.MatchString(c) {
			out = append(out, c)
		}
		return true
	}

	prefix := literalPrefix(expr)
	if prefix == "" {
		s.walk(0, make([]rune, 0, 16), collect)
		return out, nil
	}
	loc := s.locate(prefix)
	if loc == noPath {
		return out, nil
	}
	n := loc
	if loc >= 0 {
		if re.MatchString(prefix) {
			out = append(out, prefix)
		}
	} else {
		n = -loc - 1
	}
	s.walk(s.equal(n), []rune(prefix), collect)
	return out, nil
}

const regexpMeta = `.*+?|\{}()[]^$`

// literalPrefix scans the pattern source for the run of literal
// characters it must begin with. The scan stops at the first
// metacharacter; the last literal is dropped when that metacharacter is
// a zero-or-more-than-once quantifier, since the literal might not
// appear exactly once. A leading anchor is skipped, and any alternation
// makes the prefix unusable because the pattern's other arms need not
// share it.
func literalPrefix(expr string) string {
	expr = strings.TrimPrefix(expr, "^")
	if strings.ContainsRune(expr, '|') {
		return ""
	}
	runes := []rune(expr)
	for i, c := range runes {
		if !strings.ContainsRune(regexpMeta, c) {
			continue
		}
		prefix := runes[:i]
		if (c == '*' || c == '?' || c == '{') && len(prefix) > 0 {
			prefix = prefix[:len(prefix)-1]
		}
		return string(prefix)
	}
	return expr
}
