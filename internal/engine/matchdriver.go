package engine

import "github.com/oss-mirror/grep/internal/matcher"

// stopReason distinguishes why grepbuf returned early, so the fill/scan
// loop in scan.go knows whether to keep reading.
type stopReason int

const (
	stopNone stopReason = iota
	stopBudget
	stopExitOnMatch
)

// grepbuf is the Match Driver: it walks [beg, lim) invoking the matcher
// repeatedly, emitting whole lines through the Output Formatter and
// honoring invert-match, context, and the match budget, per spec.md §4.3.
func (s *Session) grepbuf(data []byte, beg, lim int) stopReason {
	eol := s.cfg.EOLByte
	p := beg

	for p < lim {
		matchLen := 0
		offset := s.cfg.Matcher.Execute(data[p:lim], &matchLen)
		if offset == matcher.NoMatch {
			break
		}
		b := p + offset
		endp := b + matchLen

		if b == lim && matchLen == 0 {
			// Empty match exactly at lim: avoid matching the implicit
			// empty final line.
			break
		}

		if s.cfg.Invert {
			// Print the complete lines before the matching line, then skip
			// the matching line as a whole.
			s.emitComplete(data, p, lineBegin(data, b, p, eol), eol)
			p = lineEnd(data, endp, lim, eol)
			continue
		}

		lineBeg := lineBegin(data, b, floorFor(s), eol)
		lineLim := lineEnd(data, endp, lim, eol)
		s.matchBeg, s.matchEnd = b, endp
		s.emitMatch(data, lineBeg, lineLim, eol)

		if s.outleft > 0 {
			s.outleft--
		}
		if s.outleft == 0 || s.doneOnMatch {
			s.afterLastMatch = s.buf.BufOffset() - int64(s.buf.Lim()-lineLim)
			if s.cfg.ExitOnMatch {
				return stopExitOnMatch
			}
			return stopBudget
		}
		p = lineLim
	}

	if s.cfg.Invert {
		s.emitComplete(data, p, lim, eol)
	}
	return stopNone
}

// flushTrailingContext emits outstanding pending trailing-context lines up
// to the end of the scanned segment: called by Session.Continue after every
// segment whose grepbuf call returns stopNone, so context lines that follow
// a segment's last match are printed before the next Fill slides them out
// of the buffer. Whatever budget remains carries into the next segment.
// Invert mode needs no equivalent call: its trailing gap is already fully
// printed by emitComplete above, line by line, as "matches" in their own
// right.
func (s *Session) flushTrailingContext(data []byte, lim int) {
	if s.cfg.Invert {
		return
	}
	s.flushPendingContext(data, lim, s.cfg.EOLByte)
}

// floorFor returns the earliest offset lineBegin/emitLeadingContext may
// read back to: lastout if it still falls inside the current buffer
// window, otherwise the window's own start. lastout can predate the
// window after a Fill slides the save region past it, in which case
// clamping to Base() is what keeps every backward scan inside valid data.
func floorFor(s *Session) int {
	floor := s.buf.Base()
	if s.lastout > floor {
		return s.lastout
	}
	return floor
}

// emitComplete prints every complete line inside [from, to), used by the
// invert-match branch of grepbuf: each such line is a non-match by
// definition (the matcher already told us [from,to) is between matches),
// so every one of them is printed.
func (s *Session) emitComplete(data []byte, from, to int, eol byte) {
	p := from
	for p < to {
		e := lineEnd(data, p, to, eol)
		if e == p {
			break
		}
		s.emitMatch(data, p, e, eol)
		p = e
	}
}

// emitMatch prints one matching (or, under -v, non-matching) line together
// with whatever pending trailing context and fresh leading context the
// Output Formatter contract requires, per spec.md §4.4.
func (s *Session) emitMatch(data []byte, lineBeg, lineLim int, eol byte) {
	s.flushPendingContext(data, lineBeg, eol)

	if s.cfg.BeforeContext > 0 {
		s.emitLeadingContext(data, lineBeg, eol)
	}

	s.out.prtext(s, data, lineBeg, lineLim, true)
	s.linesPrinted++
	s.lastout = lineLim
}

// flushPendingContext prints up to `pending` trailing-context lines between
// the last printed line and upTo (either the start of the upcoming match
// line, from emitMatch, or the end of the scanned segment, from
// flushTrailingContext). Every line in [lastout, upTo) is known non-matching
// by construction — grepbuf's Execute call already scanned exactly that span
// and returned either this later match or NoMatch — so there is no "this
// line is itself a match" case to special-case here; the loop simply prints
// complete lines until the budget or the span runs out, advancing lastout
// past each printed line. Budget left when the span runs out stays in
// pending (a following match resets it anyway).
func (s *Session) flushPendingContext(data []byte, upTo int, eol byte) {
	if s.pending <= 0 || s.lastout < 0 {
		return
	}
	p := s.lastout
	for p < upTo && s.pending > 0 {
		e := lineEnd(data, p, upTo, eol)
		if e == p {
			break
		}
		s.out.prtext(s, data, p, e, false)
		s.linesPrinted++
		s.pending--
		s.lastout = e
		p = e
	}
}

// emitLeadingContext prints up to BeforeContext lines preceding lineBeg,
// drawn from [lastout-or-bufbeg, lineBeg).
func (s *Session) emitLeadingContext(data []byte, lineBeg int, eol byte) {
	floor := floorFor(s)
	if lineBeg <= floor {
		return
	}
	// Walk backward collecting up to BeforeContext line-start offsets.
	starts := make([]int, 0, s.cfg.BeforeContext)
	pos := lineBeg
	for len(starts) < s.cfg.BeforeContext && pos > floor {
		start := lineBegin(data, pos-1, floor, eol)
		starts = append(starts, start)
		pos = start
	}
	for i := len(starts) - 1; i >= 0; i-- {
		start := starts[i]
		end := lineEnd(data, start, lineBeg, eol)
		s.out.prtext(s, data, start, end, false)
		s.linesPrinted++
	}
}
