// Package ui holds the colour themes used by the terminal front end. Colour is
// a presentation concern only: the report written to stdout is never coloured,
// so the themes apply to status lines, progress and the details summary.
package ui

import (
	"os"
	"sync"

	"golang.org/x/term"
)

// Theme is a set of ANSI escape codes, one per kind of output.
type Theme struct {
	Name      string
	Primary   string // headings and highlighted values
	Secondary string // labels and the progress bar track
	Success   string
	Warning   string
	Error     string
	Info      string
	Bold      string
	Reset     string
}

var (
	// DarkTheme suits dark terminal backgrounds.
	DarkTheme = Theme{
		Name:      "dark",
		Primary:   "\033[38;5;39m",
		Secondary: "\033[38;5;245m",
		Success:   "\033[38;5;82m",
		Warning:   "\033[38;5;220m",
		Error:     "\033[38;5;196m",
		Info:      "\033[38;5;141m",
		Bold:      "\033[1m",
		Reset:     "\033[0m",
	}

	// LightTheme suits light terminal backgrounds.
	LightTheme = Theme{
		Name:      "light",
		Primary:   "\033[38;5;27m",
		Secondary: "\033[38;5;240m",
		Success:   "\033[38;5;28m",
		Warning:   "\033[38;5;130m",
		Error:     "\033[38;5;124m",
		Info:      "\033[38;5;54m",
		Bold:      "\033[1m",
		Reset:     "\033[0m",
	}

	// NoColorTheme produces plain text.
	NoColorTheme = Theme{Name: "none"}

	currentTheme = DarkTheme
	themeMutex   sync.RWMutex

	// isTerminal is replaced in tests.
	isTerminal = func(fd int) bool { return term.IsTerminal(fd) }
)

// GetCurrentTheme returns the active theme.
func GetCurrentTheme() Theme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	return currentTheme
}

// SetCurrentTheme replaces the active theme. Tests use it to restore state.
func SetCurrentTheme(t Theme) {
	themeMutex.Lock()
	defer themeMutex.Unlock()
	currentTheme = t
}

// ThemeByName returns the theme called name ("dark", "light" or "none").
// The boolean is false for unknown names.
func ThemeByName(name string) (Theme, bool) {
	switch name {
	case "dark":
		return DarkTheme, true
	case "light":
		return LightTheme, true
	case "none":
		return NoColorTheme, true
	default:
		return Theme{}, false
	}
}

// SetTheme activates the theme called name. Unknown names select DarkTheme.
func SetTheme(name string) {
	t, ok := ThemeByName(name)
	if !ok {
		t = DarkTheme
	}
	SetCurrentTheme(t)
}

// InitTheme picks the theme for a session writing decorations to out.
// Colour is disabled when noColor is set, when NO_COLOR is present in the
// environment (https://no-color.org/), or when out is not a terminal.
func InitTheme(noColor bool, out *os.File) {
	SetCurrentTheme(SelectTheme(noColor, out))
}

// SelectTheme returns the theme InitTheme would activate, without
// changing the active one.
func SelectTheme(noColor bool, out *os.File) Theme {
	if noColor {
		return NoColorTheme
	}
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return NoColorTheme
	}
	if out == nil || !isTerminal(int(out.Fd())) {
		return NoColorTheme
	}
	if t, ok := ThemeByName(os.Getenv("LFSRSCAN_THEME")); ok {
		return t
	}
	return DarkTheme
}
