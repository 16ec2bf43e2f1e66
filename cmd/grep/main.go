// Command grep is a line-oriented pattern search tool: it reads each named
// file (or standard input) and prints the lines that match a pattern, in
// the spirit of the original Unix grep.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/oss-mirror/grep/internal/config"
	"github.com/oss-mirror/grep/internal/diag"
	"github.com/oss-mirror/grep/internal/fswalk"
	"github.com/oss-mirror/grep/internal/version"
)

func main() {
	diag.Prog = version.Name

	cfg, err := config.Parse(os.Args[1:])
	switch {
	case errors.Is(err, config.ErrVersion):
		version.PrintAndExit()
	case errors.Is(err, config.ErrHelp):
		printUsage(os.Stdout)
		os.Exit(0)
	case err != nil:
		fmt.Fprintf(os.Stderr, "%s: %s\n", version.Name, err)
		printUsage(os.Stderr)
		os.Exit(2)
	}

	driver := fswalk.NewDriver(cfg, os.Stdout)
	status := driver.Run()
	if !diag.Flush() {
		status = 2
	}
	os.Exit(status)
}

func printUsage(w *os.File) {
	fmt.Fprintf(w, "Usage: %s [OPTION]... PATTERN [FILE]...\n", version.Name)
	fmt.Fprintln(w, "Search for PATTERN in each FILE or standard input.")
	fmt.Fprintln(w, "Example: grep -i 'hello world' menu.h main.c")
}
