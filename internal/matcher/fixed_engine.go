package matcher

import (
	"bytes"
	"regexp"
	"strings"
)

// fixedMatcher implements -F fixed-string matching: a plain bytes.Index
// scan over one or more literal alternatives, the optimization the
// teacher's own regex.go already applies for single-pattern literal
// searches (isLiteralPattern / bytes.Contains), generalized here to a set
// of patterns since -F accepts multiple -e occurrences.
type fixedMatcher struct {
	literals   [][]byte
	ignoreCase bool
}

func newFixedMatcher(patterns []string, opts Options) (Matcher, error) {
	// Whole-word/whole-line semantics need boundary checks a plain
	// substring scan can't express cheaply; fall back to the regexp
	// engine with each literal quoted so metacharacters stay literal.
	if opts.WholeWord || opts.WholeLine {
		quoted := make([]string, len(patterns))
		for i, p := range patterns {
			quoted[i] = regexp.QuoteMeta(p)
		}
		return newRegexpMatcher(quoted, opts)
	}

	m := &fixedMatcher{ignoreCase: opts.IgnoreCase}
	for _, p := range patterns {
		if opts.IgnoreCase {
			p = strings.ToLower(p)
		}
		m.literals = append(m.literals, []byte(p))
	}
	return m, nil
}

func (m *fixedMatcher) Execute(haystack []byte, matchLen *int) int {
	hay := haystack
	if m.ignoreCase {
		hay = bytes.ToLower(haystack)
	}

	best := -1
	bestLen := 0
	for _, lit := range m.literals {
		if len(lit) == 0 {
			// An empty pattern matches at the earliest position, zero width.
			if best == -1 || 0 < best {
				best = 0
				bestLen = 0
			}
			continue
		}
		idx := bytes.Index(hay, lit)
		if idx < 0 {
			continue
		}
		if best == -1 || idx < best {
			best = idx
			bestLen = len(lit)
		}
	}
	if best == -1 {
		*matchLen = 0
		return NoMatch
	}
	*matchLen = bestLen
	return best
}
