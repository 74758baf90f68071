// Package prompt reads answers from the user: plain lines, hidden secrets and
// choices from a numbered list.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var ErrNoChoices = errors.New("nothing to choose from")

var retryStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))

// Prompter asks questions on out and reads answers from in.
type Prompter struct {
	in     *bufio.Reader
	inFile *os.File
	out    io.Writer
}

// New returns a Prompter. When in is a terminal, secrets are read without
// echo.
func New(in io.Reader, out io.Writer) *Prompter {
	p := &Prompter{in: bufio.NewReader(in), out: out}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.inFile = f
	}
	return p
}

// Interactive reports whether input comes from a terminal.
func (p *Prompter) Interactive() bool { return p.inFile != nil }

// Ask prints label and returns the line typed, without the newline.
func (p *Prompter) Ask(label string) (string, error) {
	fmt.Fprint(p.out, label+" ")
	return p.readLine()
}

// AskDefault is Ask with an answer used when the line is empty.
func (p *Prompter) AskDefault(label, def string) (string, error) {
	answer, err := p.Ask(fmt.Sprintf("%s (%s)", label, def))
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// AskSecret is Ask without echoing the answer on a terminal.
func (p *Prompter) AskSecret(label string) (string, error) {
	if p.inFile == nil {
		return p.Ask(label)
	}
	fmt.Fprint(p.out, label+" ")
	secret, err := term.ReadPassword(int(p.inFile.Fd()))
	fmt.Fprintln(p.out)
	if err != nil {
		return "", err
	}
	return string(secret), nil
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		if err == io.EOF {
			return "", io.ErrUnexpectedEOF
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Choose asks for one of choices by number or by case-insensitive name,
// asking again until the answer matches.
func (p *Prompter) Choose(header string, choices []string) (string, error) {
	if len(choices) == 0 {
		return "", ErrNoChoices
	}

	var list strings.Builder
	for i, c := range choices {
		fmt.Fprintf(&list, "  %d) %s\n", i+1, c)
	}
	question := fmt.Sprintf("%s [1-%d]\n\n%s\n>", header, len(choices), list.String())

	for {
		answer, err := p.Ask(question)
		if err != nil {
			return "", err
		}
		if choice, ok := match(choices, answer); ok {
			return choice, nil
		}
		fmt.Fprintf(p.out, "\n%s\n\n", retryStyle.Render("Could not parse your selection. Try again?"))
	}
}

func match(choices []string, answer string) (string, bool) {
	answer = strings.TrimSpace(answer)
	if n, err := strconv.Atoi(answer); err == nil {
		if n >= 1 && n <= len(choices) {
			return choices[n-1], true
		}
		return "", false
	}
	for _, c := range choices {
		if strings.EqualFold(c, answer) {
			return c, true
		}
	}
	return "", false
}
