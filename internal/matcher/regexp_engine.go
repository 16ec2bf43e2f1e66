package matcher

import (
	"regexp"
	"strings"
)

// regexpMatcher wraps the standard library's RE2 engine. It serves both
// the "extended" and "perl" kinds (Go's regexp syntax is a superset of
// POSIX ERE for the constructs grep.c actually exercises, and covers the
// common PCRE idioms like \d/\w/\s/non-greedy quantifiers; backreferences
// and lookaround are not supported by RE2 and are rejected at Compile
// time like any other invalid pattern).
type regexpMatcher struct {
	re *regexp.Regexp
}

func newRegexpMatcher(patterns []string, opts Options) (Matcher, error) {
	joined := strings.Join(patterns, "|")
	joined = applyModifiers(joined, opts)

	re, err := regexp.Compile(joined)
	if err != nil {
		return nil, err
	}
	return &regexpMatcher{re: re}, nil
}

// applyModifiers wraps the alternation with the case/word/line modifiers
// that apply identically regardless of engine kind.
func applyModifiers(pattern string, opts Options) string {
	wrapped := "(?:" + pattern + ")"
	if opts.WholeWord {
		wrapped = `\b` + wrapped + `\b`
	}
	if opts.WholeLine {
		wrapped = "(?m)^" + wrapped + "$"
	}
	if opts.IgnoreCase {
		wrapped = "(?i)" + wrapped
	}
	return wrapped
}

func (m *regexpMatcher) Execute(haystack []byte, matchLen *int) int {
	loc := m.re.FindIndex(haystack)
	if loc == nil {
		*matchLen = 0
		return NoMatch
	}
	*matchLen = loc[1] - loc[0]
	return loc[0]
}

// translateBasic converts a POSIX Basic Regular Expression into the
// Extended syntax Go's regexp package accepts: in a BRE the metacharacters
// ( ) { } + ? | are literal unless backslash-escaped, the opposite of ERE.
// Backreferences (\1..\9) are not translatable to RE2 and pass through
// unchanged, which Compile will reject as invalid — consistent with the
// interface being a narrow external collaborator, not a full BRE engine.
func translateBasic(patterns []string) []string {
	out := make([]string, len(patterns))
	for i, p := range patterns {
		out[i] = translateBasicOne(p)
	}
	return out
}

func translateBasicOne(pattern string) string {
	var b strings.Builder
	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if c == '\\' && i+1 < len(runes) {
			next := runes[i+1]
			switch next {
			case '(', ')', '{', '}', '+', '?', '|':
				// Escaped metachar in BRE means "this is special" in ERE.
				b.WriteRune(next)
				i++
				continue
			default:
				b.WriteRune(c)
				b.WriteRune(next)
				i++
				continue
			}
		}
		switch c {
		case '(', ')', '{', '}', '+', '?', '|':
			// Bare metachar in BRE is literal; escape it for ERE.
			b.WriteRune('\\')
			b.WriteRune(c)
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}
