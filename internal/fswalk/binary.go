package fswalk

// looksBinary implements the heuristic from spec.md §4.5 step 5 / §9: a
// buffer is classified binary if it contains a NUL byte, or byte 0x80 when
// the line terminator itself is NUL (so NUL can no longer serve as the
// binary signal).
func looksBinary(data []byte, eolIsNul bool) bool {
	marker := byte(0)
	if eolIsNul {
		marker = 0x80
	}
	for _, b := range data {
		if b == marker {
			return true
		}
	}
	return false
}
