package fswalk

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/oss-mirror/grep/internal/diag"
)

// grepDir is the Directory Walker (spec.md §4.6): it descends into path,
// visiting entries in name order, recursing into subdirectories and handing
// everything else to grepPath. A directory already present in chain (same
// device and inode, reached through a symlink or bind mount) is reported
// and skipped rather than walked again.
func (d *Driver) grepDir(path string, chain *statNode) Status {
	// Stat, not Lstat, so the (dev, ino) pair identifies the real directory
	// a symlink resolves to — the thing that can actually repeat along an
	// ancestor chain — rather than the symlink entry itself.
	info, err := os.Stat(path)
	if err != nil {
		diag.ReportPath(path, err)
		return StatusTrouble
	}
	node := newStatNode(info, chain)
	if node.loops() {
		diag.Report("%s: recursive directory loop", path)
		return StatusTrouble
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		diag.ReportPath(path, err)
		return StatusTrouble
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	// Trouble from any entry already latches diag.Seen, which overrides the
	// whole run's exit status at the top level (spec.md §7); here only
	// whether something matched needs tracking.
	overall := StatusNoMatch
	for _, entry := range entries {
		child := filepath.Join(path, entry.Name())
		if d.grepPath(child, node) == StatusMatch {
			overall = StatusMatch
		}
	}
	return overall
}
