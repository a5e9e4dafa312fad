package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Align is the horizontal alignment of a column.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// Column describes a table column.
type Column struct {
	Title string
	Align Align
}

// Table lays out rows in aligned columns. Widths are measured in terminal
// cells so currency symbols and wide runes in descriptions line up.
type Table struct {
	columns []Column
	rows    [][]string
}

// NewTable creates a table with the given columns.
func NewTable(columns ...Column) *Table {
	return &Table{columns: columns}
}

// AddRow appends a row. Missing cells are blank, extra cells are dropped.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.columns))
	copy(row, cells)
	t.rows = append(t.rows, row)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Render writes the header, a rule and every row to w. The last column is
// never padded so lines carry no trailing spaces.
func (t *Table) Render(w io.Writer, styles *Styles) error {
	widths := make([]int, len(t.columns))
	for i, c := range t.columns {
		widths[i] = runewidth.StringWidth(c.Title)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if cw := runewidth.StringWidth(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	header := make([]string, len(t.columns))
	rule := make([]string, len(t.columns))
	for i, c := range t.columns {
		header[i] = t.pad(c.Title, i, widths[i])
		rule[i] = strings.Repeat("─", widths[i])
	}

	if _, err := fmt.Fprintln(w, styles.Keyword(joinCells(header))); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, styles.Dim(joinCells(rule))); err != nil {
		return err
	}

	for _, row := range t.rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = t.pad(cell, i, widths[i])
		}
		if _, err := fmt.Fprintln(w, joinCells(cells)); err != nil {
			return err
		}
	}

	return nil
}

func (t *Table) pad(cell string, col, width int) string {
	if t.columns[col].Align == AlignRight {
		return runewidth.FillLeft(cell, width)
	}
	if col == len(t.columns)-1 {
		return cell
	}
	return runewidth.FillRight(cell, width)
}

func joinCells(cells []string) string {
	return strings.TrimRight(strings.Join(cells, "  "), " ")
}
