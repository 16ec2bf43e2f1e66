// Package version provides the program's name and version string for -V.
package version

import (
	"fmt"
	"os"
)

const (
	// Name of the program, used as the diagnostic prefix and in -V output.
	Name string = "grep"
	// Version of the program.
	Version string = "1.0.0"
)

// String returns the plain-text version line printed by -V/--version.
func String() string {
	return fmt.Sprintf("%s %s", Name, Version)
}

// Print writes the version line to standard output.
func Print() {
	fmt.Println(String())
}

// PrintAndExit prints the version line and terminates with status 0, per
// spec.md §6's -V/--version contract.
func PrintAndExit() {
	Print()
	os.Exit(0)
}
