package fswalk

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/oss-mirror/grep/internal/config"
	"github.com/oss-mirror/grep/internal/diag"
	"github.com/oss-mirror/grep/internal/testutil"
)

func run(t *testing.T, cfg *config.Config) (string, int) {
	t.Helper()
	diag.Reset()
	var out bytes.Buffer
	d := NewDriver(cfg, &out)
	return out.String(), d.Run()
}

func TestGrepFileFindsMatch(t *testing.T) {
	path := testutil.TempFile(t, "a\nbb\nccc\n")
	cfg, err := config.Parse([]string{"-n", "b", path})
	testutil.AssertNoError(t, err)

	out, status := run(t, cfg)
	testutil.AssertEqual(t, "2:bb\n", out)
	testutil.AssertEqual(t, 0, status)
}

func TestGrepFileNoMatchExitsOne(t *testing.T) {
	path := testutil.TempFile(t, "a\nb\nc\n")
	cfg, err := config.Parse([]string{"zzz", path})
	testutil.AssertNoError(t, err)

	out, status := run(t, cfg)
	testutil.AssertEqual(t, "", out)
	testutil.AssertEqual(t, 1, status)
}

func TestGrepMissingFileExitsTwo(t *testing.T) {
	cfg, err := config.Parse([]string{"pattern", "/nonexistent/path/should/not/exist"})
	testutil.AssertNoError(t, err)

	_, status := run(t, cfg)
	testutil.AssertEqual(t, 2, status)
}

func TestGrepBinaryFileAnnouncesMatch(t *testing.T) {
	path := testutil.TempFile(t, "abc\x00def\nmatchme\n")
	cfg, err := config.Parse([]string{"matchme", path})
	testutil.AssertNoError(t, err)

	out, status := run(t, cfg)
	testutil.AssertContains(t, out, "Binary file")
	testutil.AssertContains(t, out, "matches")
	testutil.AssertEqual(t, 0, status)
}

func TestGrepBinaryFileWithoutMatchPolicy(t *testing.T) {
	path := testutil.TempFile(t, "abc\x00def\nmatchme\n")
	cfg, err := config.Parse([]string{"-I", "matchme", path})
	testutil.AssertNoError(t, err)

	out, status := run(t, cfg)
	testutil.AssertEqual(t, "", out)
	testutil.AssertEqual(t, 1, status)
}

func TestGrepDirectoryReportedByDefault(t *testing.T) {
	dir := testutil.TempDir(t)
	testutil.CreateFileTree(t, dir, map[string]string{"f.txt": "hello\n"})

	cfg, err := config.Parse([]string{"hello", dir})
	testutil.AssertNoError(t, err)

	_, status := run(t, cfg)
	testutil.AssertEqual(t, 2, status)
}

func TestGrepDirectoryRecurseFindsNestedMatch(t *testing.T) {
	dir := testutil.TempDir(t)
	testutil.CreateFileTree(t, dir, map[string]string{
		"a.txt":       "nothing here\n",
		"sub/b.txt":   "needle in a haystack\n",
		"sub/c/d.txt": "more nothing\n",
	})

	cfg, err := config.Parse([]string{"-r", "needle", dir})
	testutil.AssertNoError(t, err)

	out, status := run(t, cfg)
	testutil.AssertContains(t, out, filepath.Join(dir, "sub", "b.txt"))
	testutil.AssertContains(t, out, "needle in a haystack")
	testutil.AssertEqual(t, 0, status)
}

func TestGrepListFilesWithoutMatch(t *testing.T) {
	dir := testutil.TempDir(t)
	testutil.CreateFileTree(t, dir, map[string]string{
		"has.txt":  "needle\n",
		"none.txt": "nothing\n",
	})

	cfg, err := config.Parse([]string{"-L", "needle",
		filepath.Join(dir, "has.txt"), filepath.Join(dir, "none.txt")})
	testutil.AssertNoError(t, err)

	out, status := run(t, cfg)
	testutil.AssertContains(t, out, "none.txt")
	// has.txt matched internally even though -L suppresses its name, so
	// the overall run still reports "a match was found" per spec.md §8's
	// exit-status composition rule.
	testutil.AssertEqual(t, 0, status)
}
