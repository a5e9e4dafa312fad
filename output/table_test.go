package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestTableRender(t *testing.T) {
	var buf bytes.Buffer
	styles := NewStyles(&buf)

	table := NewTable(
		Column{Title: "ID", Align: AlignRight},
		Column{Title: "Amount", Align: AlignRight},
		Column{Title: "Description"},
	)
	table.AddRow("1", "₹5.00", "Tea")
	table.AddRow("12", "₹1200.00", "寿司")
	assert.Equal(t, 2, table.Len())

	assert.NoError(t, table.Render(&buf, styles))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Equal(t, 4, len(lines))
	assert.Equal(t, "ID    Amount  Description", lines[0])
	assert.Equal(t, " 1     ₹5.00  Tea", lines[2])
	assert.Equal(t, "12  ₹1200.00  寿司", lines[3])
}

func TestTableShortRows(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(Column{Title: "A"}, Column{Title: "B"})
	table.AddRow("x")
	table.AddRow("y", "z", "dropped")

	assert.NoError(t, table.Render(&buf, NewStyles(&buf)))
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "y  z")
}
