package output

import (
	"io"
	"strings"
	"unicode/utf8"
)

// ellipsis marks a truncated cell.
const ellipsis = "..."

// Table renders tabular data for text output.
type Table struct {
	headers   []string
	rows      [][]string
	noHeader  bool
	separator string
	maxWidth  int
}

// NewTable creates a new table with the given headers.
func NewTable(headers ...string) *Table {
	return &Table{
		headers:   headers,
		separator: "  ",
	}
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// SetNoHeader suppresses the header row.
func (t *Table) SetNoHeader(noHeader bool) {
	t.noHeader = noHeader
}

// SetSeparator sets the column separator.
func (t *Table) SetSeparator(sep string) {
	t.separator = sep
}

// SetMaxWidth truncates cells longer than n runes. Zero disables truncation.
func (t *Table) SetMaxWidth(n int) {
	t.maxWidth = n
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Render writes the table to w. Columns are padded by rune count.
func (t *Table) Render(w io.Writer) error {
	if len(t.headers) == 0 && len(t.rows) == 0 {
		return nil
	}

	rows := make([][]string, 0, len(t.rows)+2)
	if !t.noHeader && len(t.headers) > 0 {
		rows = append(rows, t.headers, nil)
	}
	rows = append(rows, t.rows...)

	widths := t.columnWidths(rows)

	var sb strings.Builder
	for _, row := range rows {
		if row == nil {
			t.writeRule(&sb, widths)
			continue
		}
		t.writeRow(&sb, row, widths)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// String returns the table as a string.
func (t *Table) String() string {
	var sb strings.Builder
	_ = t.Render(&sb)
	return sb.String()
}

func (t *Table) columnWidths(rows [][]string) []int {
	var widths []int
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], utf8.RuneCountInString(t.clip(cell)))
		}
	}
	return widths
}

func (t *Table) writeRow(sb *strings.Builder, cells []string, widths []int) {
	for i, width := range widths {
		if i > 0 {
			sb.WriteString(t.separator)
		}
		cell := ""
		if i < len(cells) {
			cell = t.clip(cells[i])
		}
		sb.WriteString(cell)
		if i < len(widths)-1 {
			sb.WriteString(strings.Repeat(" ", width-utf8.RuneCountInString(cell)))
		}
	}
	sb.WriteByte('\n')
}

func (t *Table) writeRule(sb *strings.Builder, widths []int) {
	for i, width := range widths {
		if i > 0 {
			sb.WriteString(t.separator)
		}
		sb.WriteString(strings.Repeat("-", width))
	}
	sb.WriteByte('\n')
}

// clip shortens s to maxWidth runes, ending in an ellipsis.
func (t *Table) clip(s string) string {
	if t.maxWidth <= len(ellipsis) || utf8.RuneCountInString(s) <= t.maxWidth {
		return s
	}
	runes := []rune(s)
	return string(runes[:t.maxWidth-len(ellipsis)]) + ellipsis
}
