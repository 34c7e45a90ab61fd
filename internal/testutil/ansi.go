// Package testutil provides shared testing utilities used across the project.
package testutil

import "regexp"

// ansiRegex matches CSI escape sequences (ESC [ ... letter) emitted by the
// colour themes.
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// StripAnsiCodes removes ANSI escape codes so tests can compare CLI output
// without caring about the active theme.
func StripAnsiCodes(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}
