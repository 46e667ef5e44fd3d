package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// SimpleTable is a simple table component for rendering static data.
// Columns can be right-aligned (amounts) and individual cells can carry
// their own style (credit green, debit red).
type SimpleTable struct {
	Title      string
	Headers    []string
	Rows       [][]Cell
	RightAlign []bool // per column; missing entries mean left
}

// Cell is one table cell with optional styling.
type Cell struct {
	Text  string
	Style *lipgloss.Style
}

// PlainCell returns an unstyled cell.
func PlainCell(text string) Cell {
	return Cell{Text: text}
}

// StyledCell returns a cell rendered with the given style.
func StyledCell(text string, style lipgloss.Style) Cell {
	return Cell{Text: text, Style: &style}
}

// NewSimpleTable creates a new SimpleTable with the given title and headers.
func NewSimpleTable(title string, headers []string) *SimpleTable {
	return &SimpleTable{
		Title:      title,
		Headers:    headers,
		Rows:       make([][]Cell, 0),
		RightAlign: make([]bool, len(headers)),
	}
}

// AlignRight marks a column as right-aligned.
func (t *SimpleTable) AlignRight(col int) {
	if col >= 0 && col < len(t.RightAlign) {
		t.RightAlign[col] = true
	}
}

// AddRow adds a row to the table.
func (t *SimpleTable) AddRow(cells ...Cell) {
	t.Rows = append(t.Rows, cells)
}

// View renders the table using the provided styles.
func (t *SimpleTable) View(styles Styles) string {
	if len(t.Rows) == 0 {
		return ""
	}

	var sb strings.Builder

	if t.Title != "" {
		sb.WriteString(styles.Title.Render(t.Title))
		sb.WriteString("\n")
	}

	// Column widths from headers and cells
	colWidths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		colWidths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(colWidths) {
				if w := lipgloss.Width(cell.Text); w > colWidths[i] {
					colWidths[i] = w
				}
			}
		}
	}
	for i := range colWidths {
		colWidths[i] += 2
	}

	headerStyle := styles.Bold.Padding(0, 1)
	rowStyle := styles.Body.Padding(0, 1)
	sepStyle := styles.Muted

	// Header
	for i, h := range t.Headers {
		hs := headerStyle.Width(colWidths[i])
		if t.align(i) {
			hs = hs.Align(lipgloss.Right)
		}
		sb.WriteString(hs.Render(h))
		if i < len(t.Headers)-1 {
			sb.WriteString(sepStyle.Render("|"))
		}
	}
	sb.WriteString("\n")

	// Divider
	totalWidth := len(t.Headers) - 1
	for _, w := range colWidths {
		totalWidth += w
	}
	sb.WriteString(sepStyle.Render(strings.Repeat("-", totalWidth)) + "\n")

	// Rows
	for _, row := range t.Rows {
		for i, cell := range row {
			if i >= len(colWidths) {
				continue
			}
			cs := rowStyle
			if cell.Style != nil {
				cs = cell.Style.Padding(0, 1)
			}
			cs = cs.Width(colWidths[i])
			if t.align(i) {
				cs = cs.Align(lipgloss.Right)
			}
			sb.WriteString(cs.Render(cell.Text))
			if i < len(row)-1 {
				sb.WriteString(sepStyle.Render("|"))
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func (t *SimpleTable) align(col int) bool {
	return col < len(t.RightAlign) && t.RightAlign[col]
}
