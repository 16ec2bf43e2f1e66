package engine

import "github.com/oss-mirror/grep/internal/config"

// Session is the per-input Scan Session: everything that resets between
// files, as opposed to the Buffer, which is process-wide and reused.
type Session struct {
	cfg *config.Config
	buf *Buffer

	path string

	totalcc int64 // bytes consumed before the current buffer window
	totalnl int64 // newline count preceding lastnl
	lastnl  int   // buffer offset up to which totalnl has been counted

	outleft int // remaining match budget (max_count); -1 means unlimited
	pending int // trailing-context lines still owed after the last match

	lastout int // buffer offset one past the last byte emitted, -1 if none

	// matchBeg/matchEnd bound the current line's raw match span, used by
	// the Output Formatter under -o to narrow what gets printed.
	matchBeg, matchEnd int

	afterLastMatch int64 // bufoffset at the point outleft hit zero

	linesPrinted int64
	matched      bool

	// ExitNow is set by Continue when quiet mode's first match fires; the
	// caller must flush output and terminate the process with status 0.
	ExitNow bool

	firstFillDone bool
	firstN        int

	// quiet/doneOnMatch may be overridden for the duration of a binary
	// "announce and suppress" scan (spec.md §4.5 step 5); restored after.
	quiet       bool
	doneOnMatch bool

	out *Formatter
}

// NewSession resets session counters ahead of the first Fill, per the File
// Driver contract step 4.
func NewSession(cfg *config.Config, buf *Buffer, path string, out *Formatter) *Session {
	s := &Session{
		cfg:         cfg,
		buf:         buf,
		path:        path,
		lastout:     -1,
		outleft:     cfg.MaxCount,
		quiet:       cfg.Quiet,
		doneOnMatch: cfg.DoneOnMatch,
		out:         out,
	}
	return s
}

// Matched reports whether any line was printed (or, for -c, would have
// been) during this session.
func (s *Session) Matched() bool { return s.matched }

// LinesPrinted returns the number of lines emitted, used by -c.
func (s *Session) LinesPrinted() int64 { return s.linesPrinted }

// Path returns the input's display label, used for the "Binary file ...
// matches" announcement.
func (s *Session) Path() string { return s.path }

// SeekOffset is the position standard input should be left at afterward,
// per spec.md §4.5 step 7: bufoffset if the budget was never exhausted,
// else the offset right after the last match.
func (s *Session) SeekOffset() int64 {
	if s.outleft != 0 {
		return s.buf.BufOffset()
	}
	return s.afterLastMatch
}

// ForceQuietForBinary and RestoreAfterBinary implement the temporary
// "announce and suppress" override from spec.md §4.5 step 5: while
// scanning a file classified binary under the "binary" policy, quiet mode
// and done-on-match are forced on so the scan still counts a match
// without printing any line content, then restored afterward.
func (s *Session) ForceQuietForBinary() (wasQuiet, wasDone bool) {
	wasQuiet, wasDone = s.quiet, s.doneOnMatch
	s.quiet = true
	s.doneOnMatch = true
	return
}

func (s *Session) RestoreAfterBinary(wasQuiet, wasDone bool) {
	s.quiet = wasQuiet
	s.doneOnMatch = wasDone
}

// carryPointers applies the buffer's most recent shift to the absolute
// offsets this session holds across a Fill. A pointer that predates the
// preserved save window is clamped to the new window start rather than
// followed into data that Fill has since overwritten.
func (s *Session) carryPointers() {
	shift := s.buf.Shift()
	base := s.buf.Base()
	if s.lastout >= 0 {
		s.lastout += shift
		if s.lastout < base {
			s.lastout = -1
		}
	}
	if s.out.lastOutPos >= 0 {
		s.out.lastOutPos += shift
	}
	s.lastnl += shift
	if s.lastnl < base {
		s.lastnl = base
	}
}
