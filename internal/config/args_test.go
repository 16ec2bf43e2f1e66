package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/oss-mirror/grep/internal/matcher"
)

func TestParseBasicPattern(t *testing.T) {
	cfg, err := Parse([]string{"hello", "a.txt", "b.txt"})
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Files) != 2 || cfg.Files[0] != "a.txt" || cfg.Files[1] != "b.txt" {
		t.Fatalf("unexpected files: %v", cfg.Files)
	}
}

func TestParseMaxCountUnlimitedByDefault(t *testing.T) {
	cfg, err := Parse([]string{"pattern", "file"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MaxCount != -1 {
		t.Fatalf("expected -1 (unlimited) when -m is not given, got %d", cfg.MaxCount)
	}
}

func TestParseMaxCountExplicitZero(t *testing.T) {
	cfg, err := Parse([]string{"-m", "0", "pattern", "file"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MaxCount != 0 {
		t.Fatalf("expected explicit -m 0 to stay 0, got %d", cfg.MaxCount)
	}
}

func TestParseContextFolding(t *testing.T) {
	cfg, err := Parse([]string{"-C", "3", "pattern", "file"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BeforeContext != 3 || cfg.AfterContext != 3 {
		t.Fatalf("expected -C to fold into both before/after, got before=%d after=%d",
			cfg.BeforeContext, cfg.AfterContext)
	}
}

func TestParseBareDigitContext(t *testing.T) {
	cfg, err := Parse([]string{"-2", "pattern", "file"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BeforeContext != 2 || cfg.AfterContext != 2 {
		t.Fatalf("expected bare -2 to set context to 2, got before=%d after=%d",
			cfg.BeforeContext, cfg.AfterContext)
	}
}

func TestParseConflictingMatchers(t *testing.T) {
	_, err := Parse([]string{"-E", "-F", "pattern", "file"})
	if err == nil {
		t.Fatal("expected an error for conflicting matcher selection")
	}
}

func TestParseNoPattern(t *testing.T) {
	_, err := Parse(nil)
	if err == nil {
		t.Fatal("expected an error when no pattern is given")
	}
}

func TestParseVersionAndHelp(t *testing.T) {
	if _, err := Parse([]string{"-V"}); !errors.Is(err, ErrVersion) {
		t.Fatalf("expected ErrVersion, got %v", err)
	}
	if _, err := Parse([]string{"--help"}); !errors.Is(err, ErrHelp) {
		t.Fatalf("expected ErrHelp, got %v", err)
	}
}

func TestParseQuietImpliesExitOnMatch(t *testing.T) {
	cfg, err := Parse([]string{"-q", "pattern", "file"})
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Quiet || !cfg.ExitOnMatch || !cfg.DoneOnMatch {
		t.Fatalf("expected -q to set Quiet, ExitOnMatch and DoneOnMatch")
	}
}

func TestParseRecurseSetsDirPolicy(t *testing.T) {
	cfg, err := Parse([]string{"-r", "pattern", "dir"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DirPolicy != DirPolicyRecurse {
		t.Fatalf("expected -r to select DirPolicyRecurse, got %v", cfg.DirPolicy)
	}
}

func TestParseEOLNul(t *testing.T) {
	cfg, err := Parse([]string{"-z", "pattern", "file"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.EOLByte != 0 {
		t.Fatalf("expected -z to set the line terminator to NUL, got %q", cfg.EOLByte)
	}
}

// TestParseEmptyPatternFileDisablesWordAndLineMatch covers spec.md §9's
// keycc==0 case together with -w/-x: the original disables match_words and
// match_lines along with inverting the match, so the "$^" sentinel this
// module substitutes for an empty -f FILE must not end up wrapped in a
// \b...\b or ^...$ that could behave differently than "matches nothing".
func TestParseEmptyPatternFileDisablesWordAndLineMatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty-patterns")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Parse([]string{"-w", "-f", path, "file"})
	if err != nil {
		t.Fatal(err)
	}

	var matchLen int
	if off := cfg.Matcher.Execute([]byte("anything at all"), &matchLen); off != matcher.NoMatch {
		t.Fatalf("expected an empty pattern file under -w to match nothing, got offset %d", off)
	}
}
