package engine

import "bytes"

// lastComplete returns the index one past the last end-of-line byte in
// data, or -1 if data contains no terminator at all (the Line Scanner
// contract's "lim"). Callers treat data[:lim] as the segment of complete
// lines and data[lim:] as the residue carried into the next Fill.
func lastComplete(data []byte, eol byte) int {
	i := bytes.LastIndexByte(data, eol)
	if i < 0 {
		return -1
	}
	return i + 1
}

// lineBegin rewinds from b over non-terminator bytes to the start of the
// line containing b, stopping no earlier than floor (either lastout or
// bufbeg, per the Match Driver contract).
func lineBegin(data []byte, b, floor int, eol byte) int {
	for b > floor && data[b-1] != eol {
		b--
	}
	return b
}

// lineEnd returns the index one past the next terminator at or after pos,
// or lim if the line reaching pos has no terminator within [pos, lim).
func lineEnd(data []byte, pos, lim int, eol byte) int {
	idx := bytes.IndexByte(data[pos:lim], eol)
	if idx < 0 {
		return lim
	}
	return pos + idx + 1
}

// countNewlines counts terminator bytes in data[from:to], used to keep
// totalnl current in O(bytes between matches) as the Output Formatter
// contract requires.
func countNewlines(data []byte, from, to int, eol byte) int64 {
	return int64(bytes.Count(data[from:to], []byte{eol}))
}
