package engine

import (
	"bufio"
	"io"
	"strconv"

	"github.com/oss-mirror/grep/internal/pool"
)

// separator bytes for the three kinds of prefix, per spec.md §4.4/§6.
const (
	sepMatch   = ':'
	sepContext = '-'
	groupBreak = "--"
)

// Formatter is the Output Formatter: it owns the standard-output writer and
// the last-output position, and uses the Session's running totals (totalnl,
// totalcc) to print filename/line-number/byte-offset prefixes without
// re-scanning from the start of the file on every line.
type Formatter struct {
	w          *bufio.Writer
	cfg        *formatConfig
	anyOutput  bool
	lastOutPos int // buffer offset one past the last byte emitted, -1 if none
}

type formatConfig struct {
	path         string
	showFilename bool
	outLine      bool
	outByte      bool
	nulFilename  bool
	onlyMatching bool
	initialTab   bool
	lineBuffered bool
	eol          byte
}

// NewFormatter wraps w (ordinarily os.Stdout) for a single input's output.
// lineBuffered is the --line-buffered supplement (SPEC_FULL.md §5): when
// set, the bufio.Writer is flushed after every line instead of being left
// to fill, so output reaches a slow downstream consumer promptly.
func NewFormatter(w io.Writer, path string, showFilename, outLine, outByte, nulFilename, onlyMatching, initialTab, lineBuffered bool, eol byte) *Formatter {
	return &Formatter{
		w: bufio.NewWriter(w),
		cfg: &formatConfig{
			path:         path,
			showFilename: showFilename,
			outLine:      outLine,
			outByte:      outByte,
			nulFilename:  nulFilename,
			onlyMatching: onlyMatching,
			initialTab:   initialTab,
			lineBuffered: lineBuffered,
			eol:          eol,
		},
		lastOutPos: -1,
	}
}

func (f *Formatter) fileSep() byte {
	if f.cfg.nulFilename {
		return 0
	}
	return ':'
}

// prline emits one line [beg, lim) from data (the line's prefix fields are
// always computed from the whole line's bounds, even under -o, so that
// line numbers and byte offsets stay correct) with the given separator
// byte following each prefix field, per spec.md §4.4.
func (f *Formatter) prline(s *Session, data []byte, beg, lim int, printBeg, printLim int, sep byte) {
	c := f.cfg
	if s.quiet {
		s.lastnl = beg
		f.lastOutPos = lim
		return
	}
	if c.showFilename || c.outLine || c.outByte {
		prefix := pool.Get()
		if c.showFilename {
			*prefix = append(*prefix, c.path...)
			*prefix = append(*prefix, f.fileSep())
		}
		if c.outLine {
			s.totalnl += countNewlines(data, s.lastnl, beg, c.eol)
			s.lastnl = beg
			*prefix = strconv.AppendInt(*prefix, s.totalnl+1, 10)
			*prefix = append(*prefix, sep)
		}
		if c.outByte {
			*prefix = strconv.AppendInt(*prefix, s.totalcc+int64(printBeg-s.buf.Base()), 10)
			*prefix = append(*prefix, sep)
		}
		f.w.Write(*prefix)
		pool.Put(prefix)
	}
	if c.initialTab && (c.outLine || c.outByte || c.showFilename) {
		f.w.WriteByte('\t')
	}
	f.w.Write(data[printBeg:printLim])
	f.w.WriteByte(c.eol)
	f.anyOutput = true
	f.lastOutPos = lim
	if c.lineBuffered {
		f.w.Flush()
	}
}

// prtext is the entry point used by the Match Driver: it handles the
// discontiguous-group "--" separator and the context bookkeeping described
// in §4.4, then delegates the actual bytes to prline. beg/lim bound the
// whole line; under -o a match additionally narrows what's printed to
// [matchBeg, matchEnd).
func (f *Formatter) prtext(s *Session, data []byte, beg, lim int, isMatch bool) {
	f.maybeGroupBreak(beg, s.cfg.BeforeContext > 0 || s.cfg.AfterContext > 0)

	sep := byte(sepContext)
	printBeg, printLim := beg, trimTerminator(data, beg, lim, f.cfg.eol)
	if isMatch {
		sep = sepMatch
		s.matched = true
		if f.cfg.onlyMatching {
			printBeg, printLim = s.matchBeg, s.matchEnd
		}
	}
	f.prline(s, data, beg, lim, printBeg, printLim, sep)

	if isMatch {
		if s.quiet {
			s.pending = 0
		} else {
			s.pending = s.cfg.AfterContext
		}
	}
}

// trimTerminator drops the trailing line-terminator byte from [beg,lim)
// before printing it, since prline writes its own terminator afterward
// (keeping the synthesized final-line case and NUL-terminated lines from
// needing special-case handling at the call site).
func trimTerminator(data []byte, beg, lim int, eol byte) int {
	if lim > beg && data[lim-1] == eol {
		return lim - 1
	}
	return lim
}

// maybeGroupBreak prints a literal "--" line when the new group starts
// somewhere other than immediately after the last printed byte and context
// is in play, matching the original's rule for marking discontiguous runs.
func (f *Formatter) maybeGroupBreak(beg int, contextOn bool) {
	if !contextOn || !f.anyOutput {
		return
	}
	if f.lastOutPos == beg {
		return
	}
	f.w.WriteString(groupBreak)
	f.w.WriteByte(f.cfg.eol)
}

// Flush flushes buffered output; a failure here raises the exit status to
// 2 per spec.md §5.
func (f *Formatter) Flush() error {
	return f.w.Flush()
}
