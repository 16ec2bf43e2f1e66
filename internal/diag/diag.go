// Package diag reports per-input and fatal diagnostics to standard error.
//
// The teacher's internal/io/logger fans out through buffered channels
// because it serves many concurrent remote sessions. A single-process,
// single-threaded scanner (spec.md §5) has no such concurrency to hide
// latency behind, so this keeps the teacher's buffered-writer idiom
// (a package-level *bufio.Writer guarded by a mutex, flushed on exit)
// without the goroutines.
package diag

import (
	"bufio"
	"fmt"
	"os"
	"sync"
)

var (
	mutex  sync.Mutex
	writer = bufio.NewWriter(os.Stderr)
	// Seen latches true the first time any diagnostic is reported, so the
	// File Driver can force the final exit status to 2 (spec.md §7).
	Seen bool
	// Prog is the program name used as the diagnostic prefix.
	Prog = "grep"
)

// Report prints "<prog>: <message>" and marks Seen.
func Report(format string, args ...interface{}) {
	mutex.Lock()
	defer mutex.Unlock()
	Seen = true
	fmt.Fprintf(writer, "%s: %s\n", Prog, fmt.Sprintf(format, args...))
}

// ReportPath prints "<prog>: <path>: <description>" and marks Seen.
func ReportPath(path string, err error) {
	mutex.Lock()
	defer mutex.Unlock()
	Seen = true
	fmt.Fprintf(writer, "%s: %s: %s\n", Prog, path, err)
}

// Fatal prints the message and terminates the process with status 2. Used
// for allocation failure and other errors that cannot be attributed to a
// single input.
func Fatal(format string, args ...interface{}) {
	Report(format, args...)
	Flush()
	os.Exit(2)
}

// Flush must be called before process exit so buffered diagnostics are not
// lost; a flush failure itself raises the exit status to 2 (spec.md §5).
func Flush() bool {
	mutex.Lock()
	defer mutex.Unlock()
	if err := writer.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: error writing diagnostics: %s\n", Prog, err)
		return false
	}
	return true
}

// Reset clears Seen between Driver runs sharing this process, which only
// happens under `go test` (a real invocation exits after one run). Package
// tests that drive fswalk.Driver in-process must call this first so one
// scenario's diagnostics don't latch the next one's exit status to 2.
func Reset() {
	mutex.Lock()
	defer mutex.Unlock()
	Seen = false
}
