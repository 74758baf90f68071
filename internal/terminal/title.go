// Package terminal provides terminal integration features.
package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// TitleFields are the values substituted into a title format.
type TitleFields struct {
	Org    string
	Repo   string // "owner/repo"
	Branch string
	Name   string // container name
}

// SetTabTitle sets the terminal tab title using OSC 1.
func SetTabTitle(w io.Writer, title string) {
	fmt.Fprintf(w, "\033]1;%s\007", title)
}

// Title formats a tab title. Supported placeholders:
//   - {repo}: repository (e.g., "runnable/api")
//   - {short_repo}: repository name without owner (e.g., "api")
//   - {branch}: branch name
//   - {name}: container name
//   - {org}: organization
func Title(format string, f TitleFields) string {
	shortRepo := f.Repo
	if i := strings.LastIndex(f.Repo, "/"); i >= 0 {
		shortRepo = f.Repo[i+1:]
	}

	r := strings.NewReplacer(
		"{repo}", f.Repo,
		"{short_repo}", shortRepo,
		"{branch}", f.Branch,
		"{name}", f.Name,
		"{org}", f.Org,
	)
	return r.Replace(format)
}

// IsSupportedTerminal returns true if the terminal supports OSC escape sequences.
func IsSupportedTerminal() bool {
	termProgram := os.Getenv("TERM_PROGRAM")
	term := os.Getenv("TERM")

	supported := []string{
		"ghostty",
		"iTerm.app",
		"Apple_Terminal",
		"WezTerm",
		"Alacritty",
		"kitty",
	}

	for _, t := range supported {
		if termProgram == t || strings.Contains(term, strings.ToLower(t)) {
			return true
		}
	}

	// Most xterm-compatible terminals support OSC
	return strings.HasPrefix(term, "xterm")
}
