package engine

import "github.com/oss-mirror/grep/internal/diag"

// contextReserveCap bounds how far back the scan looks to estimate the
// leading context to carry into the next Fill, so a pathological run of
// one-byte lines can't make that scan itself O(n^2).
const contextReserveCap = 64 * 1024

// FirstFill performs the initial Fill (File Driver step 5) and returns the
// number of bytes read, so the caller can run the binary-content heuristic
// against the freshly filled window before committing to a full scan.
func (s *Session) FirstFill() (int, error) {
	n, err := s.buf.Fill(0)
	if err != nil {
		diag.ReportPath(s.path, err)
		return 0, err
	}
	s.carryPointers()
	s.firstN = n
	s.firstFillDone = true
	return n, nil
}

// Run performs FirstFill followed by the full scan loop; it is the
// convenience entry point for inputs that don't need the binary-detection
// pause between the two.
func (s *Session) Run() error {
	if s.outleft == 0 {
		// -m 0: stop before scanning anything at all.
		return nil
	}
	if !s.firstFillDone {
		if _, err := s.FirstFill(); err != nil {
			return err
		}
	}
	return s.Continue()
}

// Continue resumes the fill/scan loop using whatever the buffer already
// holds from FirstFill, then keeps filling and scanning until end-of-data,
// budget exhaustion, or a fatal read error, per spec.md §4.5 step 6. If
// the Config's ExitOnMatch is set and a match is found, Continue returns
// with s.ExitNow set; the caller must flush output and terminate the
// process with status 0, since this package must not reach across package
// boundaries to do so itself.
func (s *Session) Continue() error {
	if s.outleft == 0 {
		return nil
	}

	n := s.firstN
	first := true
	save := 0

	for {
		if !first {
			var err error
			n, err = s.buf.Fill(save)
			if err != nil {
				diag.ReportPath(s.path, err)
				return err
			}
			s.carryPointers()
		}
		first = false

		data := s.buf.Data()
		base := s.buf.Base()
		lim := s.buf.Lim()
		final := n == 0

		complete := lastComplete(data[base:lim], s.cfg.EOLByte)
		var scanLim int
		switch {
		case complete < 0 && !final:
			// No complete line yet; carry everything forward and read more.
			save = lim - base
			continue
		case complete < 0 && final:
			if lim == base {
				s.flushTrailingContext(data, base)
				return nil
			}
			s.buf.PutTerminator(s.cfg.EOLByte)
			scanLim = s.buf.Lim()
		case final && base+complete < lim:
			s.buf.PutTerminator(s.cfg.EOLByte)
			scanLim = s.buf.Lim()
		default:
			scanLim = base + complete
		}

		reason := s.grepbuf(s.buf.Data(), base, scanLim)

		if reason == stopExitOnMatch {
			s.ExitNow = true
			return nil
		}
		if reason == stopBudget {
			return nil
		}

		s.flushTrailingContext(s.buf.Data(), scanLim)
		if final {
			return nil
		}

		save = s.residueWithContext(data, scanLim, s.buf.Lim())
		// Bytes before keep leave the window with the next Fill; fold them
		// into the running byte and newline totals first.
		keep := s.buf.Lim() - save
		if s.cfg.OutLine && s.lastnl < keep {
			s.totalnl += countNewlines(data, s.lastnl, keep, s.cfg.EOLByte)
			s.lastnl = keep
		}
		s.totalcc += int64(keep - base)
	}
}

// residueWithContext computes how many trailing bytes of [scanLim, lim)
// (the unterminated residue) plus preceding complete lines must survive
// into the next Fill to serve as leading context for a match that may
// occur in the very next segment.
func (s *Session) residueWithContext(data []byte, scanLim, lim int) int {
	residue := lim - scanLim
	if s.cfg.BeforeContext == 0 {
		return residue
	}
	eol := s.cfg.EOLByte
	start := scanLim
	floor := scanLim - contextReserveCap
	if floor < s.buf.Base() {
		floor = s.buf.Base()
	}
	for i := 0; i < s.cfg.BeforeContext && start > floor; i++ {
		start = lineBegin(data, start-1, floor, eol)
		if start <= floor {
			start = floor
			break
		}
	}
	return lim - start
}
