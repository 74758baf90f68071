// Package table prints aligned text tables with a bold header row.
package table

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const separator = "  "

// HeaderStyle is applied to header cells.
var HeaderStyle = lipgloss.NewStyle().Bold(true)

// Table collects rows under a fixed set of headers.
type Table struct {
	headers []string
	rows    [][]string
	style   lipgloss.Style
}

// New returns a table with the given column headers.
func New(headers ...string) *Table {
	return &Table{headers: headers, style: HeaderStyle}
}

// WithHeaderStyle overrides the header style.
func (t *Table) WithHeaderStyle(s lipgloss.Style) *Table {
	t.style = s
	return t
}

// AddRow appends a row. Missing cells are empty; extra cells are dropped.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.headers))
	copy(row, cells)
	t.rows = append(t.rows, row)
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// String renders the table. A table without rows renders as "".
func (t *Table) String() string {
	if len(t.rows) == 0 {
		return ""
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	last := len(t.headers) - 1
	for i, h := range t.headers {
		b.WriteString(t.style.Render(h))
		if i < last {
			b.WriteString(strings.Repeat(" ", widths[i]-runewidth.StringWidth(h)))
			b.WriteString(separator)
		}
	}
	b.WriteByte('\n')

	for _, row := range t.rows {
		for i, cell := range row {
			if i < last {
				b.WriteString(runewidth.FillRight(cell, widths[i]))
				b.WriteString(separator)
			} else {
				b.WriteString(cell)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Render writes the table to w.
func (t *Table) Render(w io.Writer) error {
	_, err := io.WriteString(w, t.String())
	return err
}
