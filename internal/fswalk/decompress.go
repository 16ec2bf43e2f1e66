package fswalk

import (
	"io"
	"strings"

	"github.com/DataDog/zstd"
)

// wrapReader takes the already opened r for path and transparently
// decompresses it if the name carries a .zst suffix; any other path gets r
// back unchanged. A decompressed
// stream is never mmap-eligible (engine.Buffer detects this itself, since
// the returned reader is not an *os.File), so it always takes the plain
// read path.
func wrapReader(r io.ReadCloser, path string) (io.ReadCloser, error) {
	if !strings.HasSuffix(path, ".zst") {
		return r, nil
	}
	zr := zstd.NewReader(r)
	return &zstdReadCloser{Reader: zr, under: r}, nil
}

type zstdReadCloser struct {
	io.ReadCloser
	under io.Closer
}

func (z *zstdReadCloser) Close() error {
	err := z.ReadCloser.Close()
	if uerr := z.under.Close(); err == nil {
		err = uerr
	}
	return err
}
