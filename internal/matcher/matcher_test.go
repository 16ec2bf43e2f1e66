package matcher

import "testing"

func exec(t *testing.T, m Matcher, s string) (int, int) {
	t.Helper()
	var n int
	off := m.Execute([]byte(s), &n)
	return off, n
}

func TestExtendedBasicMatch(t *testing.T) {
	m, err := Compile(Extended, []string{"b+"}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	off, n := exec(t, m, "a\nbb\nccc\n")
	if off != 2 || n != 2 {
		t.Fatalf("got offset=%d len=%d", off, n)
	}
}

func TestFixedMultiplePatterns(t *testing.T) {
	m, err := Compile(Fixed, []string{"ccc", "bb"}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	off, n := exec(t, m, "a\nbb\nccc\n")
	if off != 2 || n != 2 {
		t.Fatalf("expected earliest match 'bb' at 2, got offset=%d len=%d", off, n)
	}
}

func TestFixedNoMatch(t *testing.T) {
	m, err := Compile(Fixed, []string{"zzz"}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	off, _ := exec(t, m, "a\nbb\nccc\n")
	if off != NoMatch {
		t.Fatalf("expected NoMatch, got %d", off)
	}
}

func TestIgnoreCase(t *testing.T) {
	m, err := Compile(Fixed, []string{"BB"}, Options{IgnoreCase: true})
	if err != nil {
		t.Fatal(err)
	}
	off, _ := exec(t, m, "a\nbb\nccc\n")
	if off != 2 {
		t.Fatalf("expected case-insensitive match at 2, got %d", off)
	}
}

func TestWholeWord(t *testing.T) {
	m, err := Compile(Extended, []string{"cat"}, Options{WholeWord: true})
	if err != nil {
		t.Fatal(err)
	}
	if off, _ := exec(t, m, "concatenate"); off != NoMatch {
		t.Fatalf("expected no match inside a larger word, got offset %d", off)
	}
	if off, _ := exec(t, m, "the cat sat"); off == NoMatch {
		t.Fatal("expected match on standalone word")
	}
}

func TestWholeLine(t *testing.T) {
	m, err := Compile(Extended, []string{"bb"}, Options{WholeLine: true})
	if err != nil {
		t.Fatal(err)
	}
	if off, _ := exec(t, m, "a\nbb\nccc\n"); off == NoMatch {
		t.Fatal("expected whole-line match")
	}
	if off, _ := exec(t, m, "a\nbbx\nccc\n"); off != NoMatch {
		t.Fatalf("expected no match when line isn't exactly the pattern, got %d", off)
	}
}

func TestBasicTranslation(t *testing.T) {
	// In BRE, "a\+" means one-or-more; bare "+" is literal.
	m, err := Compile(Basic, []string{`a\+b`}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if off, _ := exec(t, m, "xaaab y"); off == NoMatch {
		t.Fatal("expected BRE \\+ to mean one-or-more")
	}

	m2, err := Compile(Basic, []string{`a+b`}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if off, _ := exec(t, m2, "a+b"); off == NoMatch {
		t.Fatal("expected bare + to be literal in BRE")
	}
	if off, _ := exec(t, m2, "aab"); off != NoMatch {
		t.Fatalf("bare + must not mean repetition in BRE, got match at %d", off)
	}
}

func TestByName(t *testing.T) {
	cases := map[string]Kind{
		"extended": Extended,
		"egrep":    Extended,
		"basic":    Basic,
		"grep":     Basic,
		"fixed":    Fixed,
		"fgrep":    Fixed,
		"perl":     Perl,
		"pcre":     Perl,
	}
	for name, want := range cases {
		got, err := ByName(name)
		if err != nil || got != want {
			t.Fatalf("ByName(%q) = %v, %v; want %v", name, got, err, want)
		}
	}
	if _, err := ByName("nope"); err == nil {
		t.Fatal("expected error for unknown matcher name")
	}
}
