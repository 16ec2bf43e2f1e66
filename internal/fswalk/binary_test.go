package fswalk

import "testing"

func TestLooksBinaryDetectsNul(t *testing.T) {
	if !looksBinary([]byte("abc\x00def"), false) {
		t.Fatal("expected a NUL byte to be classified binary")
	}
	if looksBinary([]byte("plain text\n"), false) {
		t.Fatal("plain text must not be classified binary")
	}
}

func TestLooksBinaryNulAsEOLSwitchesMarker(t *testing.T) {
	// When the line terminator itself is NUL (-z), NUL can no longer serve
	// as the binary signal; 0x80 takes over (spec.md §4.5 step 5 / §9).
	data := []byte("a\x00b\x00c")
	if looksBinary(data, true) {
		t.Fatal("NUL-terminated lines must not be classified binary under -z")
	}
	if !looksBinary(append(data, 0x80), true) {
		t.Fatal("expected 0x80 to be classified binary under -z")
	}
}
