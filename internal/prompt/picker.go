package prompt

import (
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var ErrCancelled = errors.New("selection cancelled")

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#E07A5F")).Bold(true)
	itemStyle     = lipgloss.NewStyle().PaddingLeft(2)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

// pickerModel is a single-choice list.
type pickerModel struct {
	title     string
	choices   []string
	cursor    int
	chosen    string
	cancelled bool
}

func newPicker(title string, choices []string) pickerModel {
	return pickerModel{title: title, choices: choices}
}

// Init implements tea.Model
func (m pickerModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		}
	case "enter":
		m.chosen = m.choices[m.cursor]
		return m, tea.Quit
	case "q", "esc", "ctrl+c":
		m.cancelled = true
		return m, tea.Quit
	}
	return m, nil
}

// View implements tea.Model
func (m pickerModel) View() string {
	if m.chosen != "" || m.cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")
	for i, c := range m.choices {
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + c))
		} else {
			b.WriteString(itemStyle.Render(c))
		}
		b.WriteByte('\n')
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ move • enter select • q quit"))
	b.WriteByte('\n')
	return b.String()
}

// Pick shows an interactive list and returns the highlighted choice.
func Pick(title string, choices []string, in io.Reader, out io.Writer) (string, error) {
	if len(choices) == 0 {
		return "", ErrNoChoices
	}

	final, err := tea.NewProgram(newPicker(title, choices), tea.WithInput(in), tea.WithOutput(out)).Run()
	if err != nil {
		return "", fmt.Errorf("picker failed: %w", err)
	}
	m := final.(pickerModel)
	if m.cancelled {
		return "", ErrCancelled
	}
	return m.chosen, nil
}
