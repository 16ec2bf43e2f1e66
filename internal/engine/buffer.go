// Package engine implements the scanning core: the Buffer Manager, Line
// Scanner, Match Driver, and Output Formatter described for a line-oriented
// search tool. It is the one package in this repository with no equivalent
// in the teacher's own code (the teacher streams lines over channels rather
// than driving a pluggable matcher across a page-aligned buffer), so its
// shapes are grounded directly in the algorithm description rather than an
// existing Go file; its naming (bufalloc, bufsalloc, bufbeg, buflim) follows
// that description term for term so the two stay easy to cross-check.
package engine

import (
	"io"
	"os"

	"golang.org/x/sys/unix"

	"github.com/oss-mirror/grep/internal/diag"
)

// preferredSaveFactor is the ratio of total buffer size to save-region size
// used when first allocating and whenever the save region grows.
const preferredSaveFactor = 5

const minSaveRegion = 8 * 1024

// Buffer is the process-wide, page-aligned scanning buffer. It is allocated
// once and reset (never freed) between inputs, per the "shared resources"
// rule: the buffer is reused across files and simply grows monotonically.
type Buffer struct {
	pageSize int

	// data holds bufalloc bytes. [0:bufsalloc) is the save region (the
	// previous fill's carried-over tail plus leading-context reserve);
	// [bufsalloc:bufalloc) is the most recently read data. One extra byte
	// past the nominal capacity is always reserved so the Line Scanner can
	// synthesize a trailing terminator without a bounds check.
	data      []byte
	bufsalloc int
	bufalloc  int

	bufbeg int // offset into data: start of user-visible content
	buflim int // offset into data: one past the last user-visible byte

	// lastShift is how far the most recent Fill moved the preserved save
	// bytes: newPos = oldPos + lastShift, for any absolute offset a caller
	// was holding into the previously preserved region.
	lastShift int

	// reader is the general read source for fillRead; file is non-nil only
	// when reader is a regular, seekable *os.File, enabling the mmap path.
	// A zstd-decompressed stream (internal/fswalk's transparent .zst
	// support) or standard input sets reader without file.
	reader     io.Reader
	file       *os.File
	bufoffset  int64 // file offset corresponding to buflim
	size       int64 // file size from fstat, -1 if unknown (e.g. a pipe)
	regular    bool
	mapped     bool // true once this session successfully used mmap at least once
	mmapWanted bool
}

// NewBuffer allocates the initial buffer. Called once per process.
func NewBuffer(mmapWanted bool) *Buffer {
	b := &Buffer{pageSize: unix.Getpagesize(), mmapWanted: mmapWanted}
	b.bufsalloc = alignUp(minSaveRegion, b.pageSize)
	b.bufalloc = preferredSaveFactor * b.bufsalloc
	b.data = make([]byte, b.bufalloc+1)
	return b
}

func alignUp(n, align int) int {
	if n%align == 0 {
		return n
	}
	return n - n%align + align
}

// Reset associates r with the buffer ahead of scanning a new input. It
// mirrors the teacher's per-session reset pattern (grepprocessor.go
// rebuilds its reader state per file rather than carrying stale fields
// across inputs): bufbeg/buflim/bufoffset all return to zero here. When r
// is a regular *os.File it is also kept for the mmap fast path; any other
// io.Reader (standard input, a decompressed .zst stream) is scanned with
// plain reads only.
func (b *Buffer) Reset(r io.Reader, path string) bool {
	b.reader = r
	b.file = nil
	b.bufbeg = 0
	b.buflim = 0
	b.bufoffset = 0
	b.lastShift = 0
	b.mapped = false
	b.regular = false
	b.size = -1

	f, ok := r.(*os.File)
	if !ok {
		return true
	}
	info, err := f.Stat()
	if err != nil {
		diag.ReportPath(path, err)
		return false
	}
	if info.Mode().IsRegular() {
		b.file = f
		b.regular = true
		b.size = info.Size()
	}
	return true
}

// mmapEligible reports whether the remainder of the file can be mapped:
// a regular file, mapping requested, and the current read offset aligned
// to the page size.
func (b *Buffer) mmapEligible() bool {
	return b.mmapWanted && b.regular && b.bufoffset%int64(b.pageSize) == 0 && b.size >= 0
}

// Fill preserves the last `save` bytes of prior content (the residue plus
// any leading-context reserve) and reads more, per the Buffer Manager
// contract: grow the save region if needed, slide the saved bytes to the
// top of the save region, then fill the read region either by mapping or
// by a plain read.
// Fill returns the number of fresh bytes read (0 meaning end-of-input) and
// any fatal read error.
func (b *Buffer) Fill(save int) (int, error) {
	if b.bufsalloc < save {
		b.grow(save)
	}

	// Slide the saved tail to [bufsalloc-save, bufsalloc). Any absolute
	// offset a caller held into [buflim-save, buflim) now lives at that
	// same distance from dst instead; lastShift records the delta so
	// Session can carry lastout/lastnl forward correctly.
	dst := b.bufsalloc - save
	oldSaveStart := b.buflim - save
	b.lastShift = dst - oldSaveStart
	copy(b.data[dst:b.bufsalloc], b.data[oldSaveStart:b.buflim])

	var n int
	var err error
	if b.mmapEligible() {
		n, err = b.fillMapped()
		if err != nil {
			// Fall back silently to read for the remainder of this file,
			// re-seeking to the byte we were about to map (open question
			// resolved in DESIGN.md: no diagnostic on mmap failure).
			b.mmapWanted = false
			if _, seekErr := b.file.Seek(b.bufoffset, io.SeekStart); seekErr != nil {
				return 0, seekErr
			}
			n, err = b.fillRead()
		}
	} else {
		n, err = b.fillRead()
	}
	if err != nil {
		return 0, err
	}

	b.bufoffset += int64(n)
	b.bufbeg = dst
	b.buflim = b.bufsalloc + n
	return n, nil
}

func (b *Buffer) fillRead() (int, error) {
	for {
		n, err := b.reader.Read(b.data[b.bufsalloc:b.bufalloc])
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			if isEINTR(err) {
				continue
			}
			return n, err
		}
		return n, nil
	}
}

// fillMapped maps as many whole pages as remain in the file directly into
// a scratch mapping and copies them into the read region, then reads the
// final partial page normally. A true fixed-address mapping placed
// directly inside data's backing array (as the original does) is not a
// safe operation to expose from pure Go, since nothing guarantees the
// slice's backing memory can be targeted by MAP_FIXED; copying out of a
// throwaway mapping keeps the page-aligned-read win (the kernel still
// avoids an extra buffer hop for whole pages) without that risk.
func (b *Buffer) fillMapped() (int, error) {
	remaining := b.size - b.bufoffset
	if remaining <= 0 {
		return 0, nil
	}
	mapLen := (int(remaining) / b.pageSize) * b.pageSize
	avail := b.bufalloc - b.bufsalloc
	if mapLen > avail {
		mapLen = (avail / b.pageSize) * b.pageSize
	}

	total := 0
	if mapLen > 0 {
		mapped, err := unix.Mmap(int(b.file.Fd()), b.bufoffset, mapLen, unix.PROT_READ, unix.MAP_PRIVATE)
		if err != nil {
			return 0, err
		}
		copy(b.data[b.bufsalloc:b.bufsalloc+mapLen], mapped)
		unix.Munmap(mapped)
		b.mapped = true
		total += mapLen
	}

	// Final partial page, if any room remains, via a normal read.
	if total < avail {
		n, err := b.reader.Read(b.data[b.bufsalloc+total : b.bufalloc])
		if err != nil && err != io.EOF {
			if isEINTR(err) {
				err = nil
			} else {
				return total, err
			}
		}
		total += n
	}
	return total, nil
}

// grow doubles the save region (or, on overflow, rounds up to the next
// page-aligned multiple of save) and resizes the whole buffer to
// preferredSaveFactor times the new save region, reallocation failure
// being fatal per the Buffer Manager's failure semantics.
func (b *Buffer) grow(save int) {
	newSalloc := b.bufsalloc * 2
	if newSalloc < b.bufsalloc || newSalloc < save {
		newSalloc = alignUp(save, b.pageSize)
	}
	newAlloc := preferredSaveFactor * newSalloc
	if b.size >= 0 {
		cap := int(b.size-b.bufoffset) + newSalloc + b.pageSize
		if newAlloc > cap {
			newAlloc = alignUp(cap, b.pageSize)
		}
	}

	defer func() {
		if r := recover(); r != nil {
			diag.Fatal("memory exhausted")
		}
	}()
	fresh := make([]byte, newAlloc+1)
	copy(fresh, b.data[:b.buflim])
	b.data = fresh
	b.bufsalloc = newSalloc
	b.bufalloc = newAlloc
}

// Bytes returns the scanner-visible window [bufbeg, buflim).
func (b *Buffer) Bytes() []byte { return b.data[b.bufbeg:b.buflim] }

// Data returns the full backing array; the Line Scanner and Match Driver
// address content by absolute offset (bufbeg/buflim) into this array so
// that lastout and other bookkeeping positions stay valid across a Fill
// that slides the save region.
func (b *Buffer) Data() []byte { return b.data }

// Base returns the absolute offset (bufbeg) into the backing array, used by
// callers that need to translate a slice index back into buffer coordinates.
func (b *Buffer) Base() int { return b.bufbeg }

// Lim returns buflim, the absolute offset one past user-visible content.
func (b *Buffer) Lim() int { return b.buflim }

// Shift returns the delta the most recent Fill applied to the preserved
// save region: an absolute offset held from before that Fill should have
// Shift() added to remain valid, provided it fell within the preserved
// window (callers must still clamp against Base() otherwise).
func (b *Buffer) Shift() int { return b.lastShift }

// SeekTo reconciles the underlying descriptor's position after scanning,
// per spec.md §4.5 step 7. It is a no-op on non-regular files (pipes,
// decompressed streams), whose position can't meaningfully be rewound.
func (b *Buffer) SeekTo(offset int64) error {
	if b.file == nil {
		return nil
	}
	_, err := b.file.Seek(offset, io.SeekStart)
	return err
}

// Mapped reports whether this session used mmap at least once, for tests.
func (b *Buffer) Mapped() bool { return b.mapped }

// PutTerminator writes the synthesized end-of-line byte one past buflim,
// into the reserved trailing byte, and extends the visible window to
// include it. Called when the final read of a file doesn't end in one.
func (b *Buffer) PutTerminator(eol byte) {
	b.data[b.buflim] = eol
	b.buflim++
}

// BufOffset is the file offset one past the last byte obtained so far.
func (b *Buffer) BufOffset() int64 { return b.bufoffset }

func isEINTR(err error) bool {
	return err == unix.EINTR
}
