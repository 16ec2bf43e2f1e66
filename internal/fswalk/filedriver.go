// Package fswalk implements the File Driver and Directory Walker: opening
// and classifying each input, handing it to the scanning engine, and
// recursing into directories while watching for traversal loops.
package fswalk

import (
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/oss-mirror/grep/internal/config"
	"github.com/oss-mirror/grep/internal/diag"
	"github.com/oss-mirror/grep/internal/engine"
)

// Status mirrors the File Driver's three-way result: 0 a match was
// printed, 1 no match, 2 trouble.
type Status int

const (
	StatusMatch   Status = 0
	StatusNoMatch Status = 1
	StatusTrouble Status = 2
)

// Driver owns the process-wide Buffer and drives every input through it in
// turn, per spec.md §5's single-threaded scheduling model.
type Driver struct {
	cfg *config.Config
	buf *engine.Buffer
	out io.Writer
}

func NewDriver(cfg *config.Config, out io.Writer) *Driver {
	return &Driver{cfg: cfg, buf: engine.NewBuffer(cfg.Mmap), out: out}
}

// Run scans every configured input (or standard input, if none) left to
// right and composes the overall exit status, per spec.md §5's ordering
// guarantee and §7's propagation rule.
func (d *Driver) Run() int {
	files := d.cfg.Files
	if len(files) == 0 {
		files = []string{"-"}
	}

	overall := StatusNoMatch
	for _, path := range files {
		st := d.grepPath(path, nil)
		if st == StatusMatch {
			overall = StatusMatch
		}
	}
	if diag.Seen {
		return int(StatusTrouble)
	}
	return int(overall)
}

// grepPath dispatches a single command-line entry: a directory goes to the
// Directory Walker (if the policy allows), anything else to grepFile.
func (d *Driver) grepPath(path string, chain *statNode) Status {
	if path == "-" {
		return d.grepFile("-", "(standard input)")
	}

	// Stat, not Lstat: a symlink to a directory must be classified as a
	// directory too, otherwise the Directory Walker's cycle guard (below,
	// via the Stats Chain) could never trigger, since ordinary filesystems
	// only grow directory cycles through symlinks in the first place.
	info, err := os.Stat(path)
	if err != nil {
		if !d.cfg.Suppress {
			diag.ReportPath(path, err)
		} else {
			diag.Seen = true
		}
		return StatusTrouble
	}

	if info.IsDir() {
		switch d.cfg.DirPolicy {
		case config.DirPolicySkip:
			return StatusNoMatch
		case config.DirPolicyRecurse:
			return d.grepDir(path, chain)
		default:
			if !d.cfg.Suppress {
				diag.Report("%s: Is a directory", path)
			} else {
				diag.Seen = true
			}
			return StatusTrouble
		}
	}

	return d.grepFile(path, path)
}

// grepFile is the File Driver proper: open, reset the Buffer, classify
// binary content, and drive the fill/scan loop to completion, per
// spec.md §4.5. Filename display (forced while inside the Directory
// Walker, per spec.md §4.6) is resolved once on Config, since -r applies
// for the whole run rather than per path.
func (d *Driver) grepFile(path, label string) Status {
	var rc io.ReadCloser
	var err error

	if path == "-" {
		rc = os.Stdin
	} else {
		f, openErr := os.Open(path)
		if openErr != nil {
			isEISDIR := errors.Is(openErr, syscall.EISDIR)
			if d.cfg.DirPolicy == config.DirPolicySkip && (errors.Is(openErr, os.ErrPermission) || isEISDIR) {
				return StatusNoMatch
			}
			if !d.cfg.Suppress {
				diag.ReportPath(path, openErr)
			} else {
				diag.Seen = true
			}
			return StatusTrouble
		}
		rc = f
	}
	defer rc.Close()

	rc, err = wrapReader(rc, path)
	if err != nil {
		diag.ReportPath(path, err)
		return StatusTrouble
	}

	if !d.buf.Reset(rc, path) {
		return StatusTrouble
	}

	formatter := engine.NewFormatter(d.out, label, d.cfg.ShowFilename(), d.cfg.OutLine, d.cfg.OutByte,
		d.cfg.NullTerminateName, d.cfg.OnlyMatching, d.cfg.InitialTab, d.cfg.LineBuffered, d.cfg.EOLByte)
	sess := engine.NewSession(d.cfg, d.buf, label, formatter)

	status, err := d.scanWithBinaryPolicy(sess)
	if err != nil {
		diag.ReportPath(path, err)
		formatter.Flush()
		return StatusTrouble
	}

	if path == "-" {
		d.buf.SeekTo(sess.SeekOffset())
	}

	if d.cfg.CountOnly {
		fmt.Fprintf(d.out, "%d\n", sess.LinesPrinted())
	}
	nameEnd := "\n"
	if d.cfg.NullTerminateName {
		nameEnd = "\x00"
	}
	switch d.cfg.ListFiles {
	case config.ListFilesWithMatch:
		if sess.Matched() {
			fmt.Fprintf(d.out, "%s%s", label, nameEnd)
		}
	case config.ListFilesWithoutMatch:
		if !sess.Matched() {
			fmt.Fprintf(d.out, "%s%s", label, nameEnd)
		}
	}

	if err := formatter.Flush(); err != nil {
		diag.Report("write error: %s", err)
		return StatusTrouble
	}

	if sess.ExitNow {
		formatter.Flush()
		diag.Flush()
		os.Exit(0)
	}

	return status
}

// scanWithBinaryPolicy performs the first fill, applies the binary
// detection heuristic from spec.md §4.5 step 5, then runs the rest of the
// scan.
func (d *Driver) scanWithBinaryPolicy(sess *engine.Session) (Status, error) {
	n, err := sess.FirstFill()
	if err != nil {
		return StatusTrouble, err
	}
	if n == 0 && d.buf.Lim() == d.buf.Base() {
		return StatusNoMatch, nil
	}

	// Under the "binary" policy the probe is skipped in quiet mode (-q, -l,
	// -L, -c), so no announcement is printed there.
	if d.cfg.BinaryPolicy == config.BinaryPolicyWithoutMatch ||
		(d.cfg.BinaryPolicy == config.BinaryPolicyBinary && !d.cfg.Quiet) {
		eolIsNul := d.cfg.EOLByte == 0
		if looksBinary(d.buf.Bytes(), eolIsNul) {
			switch d.cfg.BinaryPolicy {
			case config.BinaryPolicyWithoutMatch:
				return StatusNoMatch, nil
			case config.BinaryPolicyBinary:
				wasQuiet, wasDone := sess.ForceQuietForBinary()
				if err := sess.Continue(); err != nil {
					return StatusTrouble, err
				}
				sess.RestoreAfterBinary(wasQuiet, wasDone)
				if sess.Matched() {
					fmt.Fprintf(d.out, "Binary file %s matches\n", sess.Path())
					return StatusMatch, nil
				}
				return StatusNoMatch, nil
			}
		}
	}

	if err := sess.Continue(); err != nil {
		return StatusTrouble, err
	}
	if sess.Matched() {
		return StatusMatch, nil
	}
	return StatusNoMatch, nil
}
