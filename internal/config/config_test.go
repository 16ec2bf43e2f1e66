package config

import "testing"

func TestShowFilenameSingleFile(t *testing.T) {
	c := &Config{Files: []string{"a.txt"}}
	if c.ShowFilename() {
		t.Fatal("a single file with no -H/-r should not show a filename prefix")
	}
}

func TestShowFilenameMultipleFiles(t *testing.T) {
	c := &Config{Files: []string{"a.txt", "b.txt"}}
	if !c.ShowFilename() {
		t.Fatal("multiple files should show a filename prefix")
	}
}

func TestShowFilenameForced(t *testing.T) {
	c := &Config{Files: []string{"a.txt"}, ForceFilename: true}
	if !c.ShowFilename() {
		t.Fatal("-H should force the filename prefix even for a single file")
	}
}

func TestShowFilenameSuppressed(t *testing.T) {
	c := &Config{Files: []string{"a.txt", "b.txt"}, NoFilename: true}
	if c.ShowFilename() {
		t.Fatal("-h should suppress the filename prefix even with multiple files")
	}
}

func TestShowFilenameRecurse(t *testing.T) {
	c := &Config{Files: []string{"a.txt"}, DirPolicy: DirPolicyRecurse}
	if !c.ShowFilename() {
		t.Fatal("-r should show filenames even with a single command-line argument")
	}
}
