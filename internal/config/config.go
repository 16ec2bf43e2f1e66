// Package config turns argv (plus the GREP_OPTIONS environment variable)
// into a single immutable Config, the way the teacher's own internal/config
// turns flags and environment into a frozen ClientConfig/ServerConfig before
// any processing starts. Parse is the package's only entry point; nothing
// below it is reachable without going through flag validation first.
package config

import "github.com/oss-mirror/grep/internal/matcher"

// Config is the frozen result of Parse. Every field corresponds to a
// resolved decision (matcher compiled, patterns read, policies parsed) so
// that the rest of the program never re-examines raw flags.
type Config struct {
	Matcher     matcher.Matcher
	MatcherKind matcher.Kind
	Invert      bool

	CountOnly bool
	ListFiles ListFiles
	Quiet     bool
	Suppress  bool

	// ExitOnMatch and DoneOnMatch both short-circuit the Match Driver, but
	// for different reasons: ExitOnMatch is -q's "first match is enough to
	// know the answer", DoneOnMatch additionally covers -l/-L. The -m budget
	// is enforced separately, through MaxCount.
	ExitOnMatch bool
	DoneOnMatch bool

	OutLine       bool
	OutByte       bool
	ForceFilename bool
	NoFilename    bool

	BeforeContext int
	AfterContext  int
	MaxCount      int

	NullTerminateName bool
	EOLByte           byte

	BinaryPolicy BinaryPolicy
	DirPolicy    DirPolicy
	Mmap         bool

	OnlyMatching bool
	LineBuffered bool
	InitialTab   bool

	Files []string
}

// MultipleFiles reports whether the filename prefix should be printed by
// default (spec.md §4.7): more than one input, or a directory being walked.
func (c *Config) MultipleFiles() bool {
	return len(c.Files) > 1 || c.DirPolicy == DirPolicyRecurse
}

// ShowFilename resolves -H/-h against the file count, mirroring the
// teacher's pattern of deriving display booleans once instead of
// re-checking flag combinations at print time.
func (c *Config) ShowFilename() bool {
	if c.NoFilename {
		return false
	}
	return c.ForceFilename || c.MultipleFiles()
}
