// Package version holds build metadata injected at link time.
package version

import "fmt"

// Set via -ldflags at build time.
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

// Short returns just the version string.
func Short() string {
	return Version
}

// Info returns a human-readable version line.
func Info() string {
	s := "switchmap " + Version
	if Commit != "" {
		s += fmt.Sprintf(" (%s)", Commit)
	}
	if Date != "" {
		s += " built " + Date
	}
	return s
}
