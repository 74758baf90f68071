package prompt

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestAsk(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("bkendall\r\nhunter2"), &out)

	user, err := p.Ask("GitHub username:")
	if err != nil || user != "bkendall" {
		t.Fatalf("Ask() = %q, %v", user, err)
	}

	// Not a terminal: the secret is read as a plain line, even without a
	// trailing newline.
	pass, err := p.AskSecret("GitHub password:")
	if err != nil || pass != "hunter2" {
		t.Fatalf("AskSecret() = %q, %v", pass, err)
	}

	if out.String() != "GitHub username: GitHub password: " {
		t.Errorf("output = %q", out.String())
	}

	if _, err := p.Ask("again:"); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("Ask() at EOF: err = %v", err)
	}
	if p.Interactive() {
		t.Error("a strings.Reader is not interactive")
	}
}

func TestAskDefault(t *testing.T) {
	p := New(strings.NewReader("\nfeature\n"), io.Discard)

	got, err := p.AskDefault("What branch would you like isolated:", "master")
	if err != nil || got != "master" {
		t.Errorf("AskDefault() with empty answer = %q, %v", got, err)
	}
	got, err = p.AskDefault("What branch would you like isolated:", "master")
	if err != nil || got != "feature" {
		t.Errorf("AskDefault() = %q, %v", got, err)
	}
}

func TestChoose(t *testing.T) {
	orgs := []string{"Runnable", "bkendall", "CodeNow"}

	tests := []struct {
		name    string
		input   string
		want    string
		retries int
	}{
		{"by number", "2\n", "bkendall", 0},
		{"by name", "codenow\n", "CodeNow", 0},
		{"out of range then valid", "0\n4\nrunnable\n", "Runnable", 2},
		{"garbage then number", "nope\n3\n", "CodeNow", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := New(strings.NewReader(tt.input), &out)

			got, err := p.Choose("Choose a GitHub organization to use with Runnable", orgs)
			if err != nil {
				t.Fatalf("Choose() failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Choose() = %q, want %q", got, tt.want)
			}
			if n := strings.Count(out.String(), "Could not parse your selection. Try again?"); n != tt.retries {
				t.Errorf("retried %d times, want %d", n, tt.retries)
			}
		})
	}
}

func TestChooseListing(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("1\n"), &out)
	if _, err := p.Choose("Pick one", []string{"a", "b"}); err != nil {
		t.Fatal(err)
	}

	want := "Pick one [1-2]\n\n  1) a\n  2) b\n\n> "
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestChooseErrors(t *testing.T) {
	p := New(strings.NewReader(""), io.Discard)
	if _, err := p.Choose("Pick", nil); !errors.Is(err, ErrNoChoices) {
		t.Errorf("empty choices: err = %v", err)
	}
	if _, err := p.Choose("Pick", []string{"a"}); err == nil {
		t.Error("EOF should end the prompt loop with an error")
	}
}

func TestPickerModel(t *testing.T) {
	var m tea.Model = newPicker("Organizations", []string{"a", "b", "c"})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})

	if !strings.Contains(m.View(), "> b") {
		t.Errorf("cursor should be on b:\n%s", m.View())
	}

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Error("enter should quit")
	}
	if got := m.(pickerModel).chosen; got != "b" {
		t.Errorf("chosen = %q, want b", got)
	}

	m = newPicker("Organizations", []string{"a"})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if !m.(pickerModel).cancelled {
		t.Error("q should cancel")
	}
}
