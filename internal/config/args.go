package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/oss-mirror/grep/internal/matcher"
)

// ErrVersion and ErrHelp are returned by Parse when -V/--version or --help
// was given, so main can print the requested text and exit 0 without
// treating the absence of a pattern as an error.
var (
	ErrVersion = errors.New("version requested")
	ErrHelp    = errors.New("help requested")
)

// Args mirrors the teacher's own Args helper struct: raw, mutable flag
// destinations filled in by the flag parser, later folded into the frozen
// Config by Parse. Keeping this as a distinct type (rather than parsing
// straight into Config) is what lets Config stay immutable once built, per
// spec.md §9's design notes.
type Args struct {
	Extended bool
	Fixed    bool
	Basic    bool
	Perl     bool
	ByName   string

	Patterns     []string
	PatternFiles []string

	IgnoreCase bool
	WholeWord  bool
	WholeLine  bool
	Invert     bool

	CountOnly   bool
	ListWith    bool
	ListWithout bool
	Quiet       bool
	Suppress    bool

	LineNumber   bool
	ByteOffset   bool
	WithFilename bool
	NoFilename   bool

	After    int
	Before   int
	Context  int
	MaxCount int

	NullData     bool
	EOLNul       bool
	BinaryFiles  string
	Text         bool
	WithoutMatch bool

	DirAction string
	Recurse   bool

	Mmap bool

	OnlyMatching bool
	LineBuffered bool
	InitialTab   bool

	Version bool
	Help    bool

	Files []string
}

// Parse builds a FlagSet the way the teacher's cmd/dgrep builds its flags
// (one *Var call per option), but on pflag so POSIX bundling, --long=value,
// and repeatable -e work; and folds the result into an immutable Config.
func Parse(argv []string) (*Config, error) {
	argv = expandEnvArgs(argv)

	var a Args
	fs := pflag.NewFlagSet("grep", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.BoolVarP(&a.Extended, "extended-regexp", "E", false, "PATTERN is an extended regular expression")
	fs.BoolVarP(&a.Fixed, "fixed-strings", "F", false, "PATTERN is a set of newline-separated fixed strings")
	fs.BoolVarP(&a.Basic, "basic-regexp", "G", false, "PATTERN is a basic regular expression")
	fs.BoolVarP(&a.Perl, "perl-regexp", "P", false, "PATTERN is a Perl-compatible regular expression")
	fs.StringVarP(&a.ByName, "matcher", "X", "", "select the matcher engine by name")

	fs.StringArrayVarP(&a.Patterns, "regexp", "e", nil, "use PATTERN for matching")
	fs.StringArrayVarP(&a.PatternFiles, "file", "f", nil, "read patterns from FILE")

	fs.BoolVarP(&a.IgnoreCase, "ignore-case", "i", false, "case insensitive match")
	fs.BoolVarP(&a.IgnoreCase, "case-insensitive", "y", false, "same as -i")
	fs.BoolVarP(&a.WholeWord, "word-regexp", "w", false, "match only whole words")
	fs.BoolVarP(&a.WholeLine, "line-regexp", "x", false, "match only whole lines")
	fs.BoolVarP(&a.Invert, "invert-match", "v", false, "select non-matching lines")

	fs.BoolVarP(&a.CountOnly, "count", "c", false, "print only a count of matching lines")
	fs.BoolVarP(&a.ListWith, "files-with-matches", "l", false, "print only names of files with matches")
	fs.BoolVarP(&a.ListWithout, "files-without-match", "L", false, "print only names of files without matches")
	fs.BoolVarP(&a.Quiet, "quiet", "q", false, "suppress all normal output")
	fs.BoolVarP(&a.Suppress, "no-messages", "s", false, "suppress error messages")

	fs.BoolVarP(&a.LineNumber, "line-number", "n", false, "print line number with output lines")
	fs.BoolVarP(&a.ByteOffset, "byte-offset", "b", false, "print byte offset with output lines")
	fs.BoolVarP(&a.WithFilename, "with-filename", "H", false, "print filename with output lines")
	fs.BoolVarP(&a.NoFilename, "no-filename", "h", false, "suppress the filename prefix")

	fs.IntVarP(&a.After, "after-context", "A", 0, "print NUM lines of trailing context")
	fs.IntVarP(&a.Before, "before-context", "B", 0, "print NUM lines of leading context")
	fs.IntVarP(&a.Context, "context", "C", 0, "print NUM lines of output context")
	fs.IntVarP(&a.MaxCount, "max-count", "m", 0, "stop after NUM matching lines")

	fs.BoolVarP(&a.NullData, "null", "Z", false, "terminate filenames with NUL")
	fs.BoolVarP(&a.EOLNul, "null-data", "z", false, "lines are NUL-terminated")
	fs.StringVar(&a.BinaryFiles, "binary-files", "", "binary policy: binary, text, or without-match")
	fs.BoolVarP(&a.Text, "text", "a", false, "treat binary files as text")
	fs.BoolVarP(&a.WithoutMatch, "binary-without-match", "I", false, "treat binary files as without-match")

	fs.StringVarP(&a.DirAction, "directories", "d", "read", "directory policy: read, skip, or recurse")
	fs.BoolVarP(&a.Recurse, "recursive", "r", false, "recurse into directories")

	fs.BoolVar(&a.Mmap, "mmap", false, "use memory-mapped I/O when possible")

	fs.BoolVarP(&a.OnlyMatching, "only-matching", "o", false, "print only the matched part of lines")
	fs.BoolVar(&a.LineBuffered, "line-buffered", false, "flush output after every line")
	fs.BoolVarP(&a.InitialTab, "initial-tab", "T", false, "align tabs after the prefix")

	fs.BoolVarP(&a.Version, "version", "V", false, "print version information")
	fs.BoolVar(&a.Help, "help", false, "print usage information")

	// Bare digit forms (-3 accumulates into -C, per spec.md §6) need a
	// pre-pass since pflag has no native support for an option that is
	// only ever a run of digits; this mirrors how the original grep folds
	// -N into the default context before its own getopt loop runs.
	argv, contextDigits := extractDigitFlags(argv)
	a.Context += contextDigits

	if err := fs.Parse(argv); err != nil {
		return nil, err
	}
	a.Files = fs.Args()
	if !fs.Changed("max-count") {
		a.MaxCount = -1
	}

	if a.Version {
		return nil, ErrVersion
	}
	if a.Help {
		return nil, ErrHelp
	}

	return a.toConfig()
}

// extractDigitFlags pulls bare "-N" (N all digits) arguments out of argv
// and sums them, leaving everything else untouched, so pflag never sees
// an option it doesn't recognize.
func extractDigitFlags(argv []string) ([]string, int) {
	var out []string
	sum := 0
	for _, arg := range argv {
		if len(arg) > 1 && arg[0] == '-' && isAllDigits(arg[1:]) {
			var n int
			fmt.Sscanf(arg[1:], "%d", &n)
			sum += n
			continue
		}
		out = append(out, arg)
	}
	return out, sum
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func (a *Args) toConfig() (*Config, error) {
	kind, err := a.resolveKind()
	if err != nil {
		return nil, err
	}

	patterns, emptyPatternFile, err := a.resolvePatterns()
	if err != nil {
		return nil, err
	}

	// spec.md §9 Open Questions: the original's keycc==0 handling disables
	// match_words/match_lines along with inverting the match, so -w/-x -f
	// /dev/null still ends up matching nothing rather than wrapping the
	// "$^" sentinel in a \b...\b or ^...$ that could behave unexpectedly.
	wholeWord, wholeLine := a.WholeWord, a.WholeLine
	if emptyPatternFile {
		wholeWord, wholeLine = false, false
	}

	m, err := matcher.Compile(kind, patterns, matcher.Options{
		IgnoreCase: a.IgnoreCase,
		WholeWord:  wholeWord,
		WholeLine:  wholeLine,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid pattern: %w", err)
	}

	before, after := a.Before, a.After
	if a.Context > 0 {
		before, after = a.Context, a.Context
	}

	binPolicy := BinaryPolicyBinary
	switch {
	case a.Text:
		binPolicy = BinaryPolicyText
	case a.WithoutMatch:
		binPolicy = BinaryPolicyWithoutMatch
	case a.BinaryFiles != "":
		p, ok := ParseBinaryPolicy(a.BinaryFiles)
		if !ok {
			return nil, fmt.Errorf("invalid --binary-files value %q", a.BinaryFiles)
		}
		binPolicy = p
	}

	dirPolicy := DirPolicyRead
	if a.Recurse {
		dirPolicy = DirPolicyRecurse
	} else if a.DirAction != "" {
		p, ok := ParseDirPolicy(a.DirAction)
		if !ok {
			return nil, fmt.Errorf("invalid -d value %q", a.DirAction)
		}
		dirPolicy = p
	}

	listFiles := ListFilesNone
	switch {
	case a.ListWith:
		listFiles = ListFilesWithMatch
	case a.ListWithout:
		listFiles = ListFilesWithoutMatch
	}

	quiet := a.Quiet || a.CountOnly || listFiles != ListFilesNone
	exitOnMatch := a.Quiet
	doneOnMatch := a.Quiet || listFiles != ListFilesNone

	eol := byte('\n')
	if a.EOLNul {
		eol = 0
	}

	return &Config{
		Matcher:           m,
		MatcherKind:       kind,
		Invert:            a.Invert,
		CountOnly:         a.CountOnly,
		ListFiles:         listFiles,
		Quiet:             quiet,
		ExitOnMatch:       exitOnMatch,
		DoneOnMatch:       doneOnMatch,
		Suppress:          a.Suppress,
		OutLine:           a.LineNumber,
		OutByte:           a.ByteOffset,
		ForceFilename:     a.WithFilename,
		NoFilename:        a.NoFilename,
		BeforeContext:     before,
		AfterContext:      after,
		MaxCount:          a.MaxCount,
		NullTerminateName: a.NullData,
		EOLByte:           eol,
		BinaryPolicy:      binPolicy,
		DirPolicy:         dirPolicy,
		Mmap:              a.Mmap,
		OnlyMatching:      a.OnlyMatching,
		LineBuffered:      a.LineBuffered,
		InitialTab:        a.InitialTab,
		Files:             a.Files,
	}, nil
}

func (a *Args) resolveKind() (matcher.Kind, error) {
	selected := 0
	kind := matcher.Basic
	if a.Extended {
		selected++
		kind = matcher.Extended
	}
	if a.Fixed {
		selected++
		kind = matcher.Fixed
	}
	if a.Basic {
		selected++
		kind = matcher.Basic
	}
	if a.Perl {
		selected++
		kind = matcher.Perl
	}
	if a.ByName != "" {
		selected++
		k, err := matcher.ByName(a.ByName)
		if err != nil {
			return 0, err
		}
		kind = k
	}
	if selected > 1 {
		return 0, fmt.Errorf("conflicting matcher selections")
	}
	return kind, nil
}

// emptyPatternSentinel is substituted for a -f FILE that yields zero pattern
// bytes, per spec.md §9 Open Questions (matches nothing rather than the
// empty-regexp "match every position" behavior an empty pattern would
// normally give).
const emptyPatternSentinel = "$^"

// resolvePatterns assembles the pattern set per spec.md §6: -e occurrences
// (possibly multiple) take precedence over a bare positional pattern; -f
// FILE (possibly "-" for stdin) appends one pattern per line, and an -e or
// positional pattern containing newlines is likewise split into one pattern
// per line. If neither
// -e nor -f was given, the first positional argument is the pattern and is
// consumed out of a.Files. The second return reports whether the resulting
// pattern set is solely the empty-pattern-file sentinel, so toConfig can
// also disable word/line matching the way the original's keycc==0 handling
// does for that case.
func (a *Args) resolvePatterns() ([]string, bool, error) {
	var patterns []string
	for _, p := range a.Patterns {
		patterns = append(patterns, strings.Split(p, "\n")...)
	}

	sawEmptyFile := false
	for _, path := range a.PatternFiles {
		lines, err := readPatternFile(path)
		if err != nil {
			return nil, false, err
		}
		if len(lines) == 1 && lines[0] == emptyPatternSentinel {
			sawEmptyFile = true
		} else {
			sawEmptyFile = false
		}
		patterns = append(patterns, lines...)
	}
	emptyPatternFile := sawEmptyFile && len(a.Patterns) == 0 && len(a.PatternFiles) == 1

	if len(patterns) == 0 {
		if len(a.Files) == 0 {
			return nil, false, fmt.Errorf("no pattern given")
		}
		patterns = append(patterns, strings.Split(a.Files[0], "\n")...)
		a.Files = a.Files[1:]
	}

	return patterns, emptyPatternFile, nil
}

func readPatternFile(path string) ([]string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	text := strings.TrimSuffix(string(data), "\n")
	if text == "" {
		// spec.md §9 Open Questions: an empty pattern file reproduces the
		// original's surprising behavior of matching nothing.
		return []string{emptyPatternSentinel}, nil
	}
	return strings.Split(text, "\n"), nil
}
