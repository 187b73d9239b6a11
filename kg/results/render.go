package results

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

// Render writes the table in markdown form for terminal display.
func (t *Table) Render(w io.Writer) error {
	if len(t.Rows) == 0 {
		_, err := fmt.Fprintf(w, "_Columns: %v_\n\n_No rows_\n", t.Columns)
		return err
	}

	alignment := make([]tw.Align, len(t.Columns))
	for i := range alignment {
		alignment[i] = tw.AlignNone
	}

	table := tablewriter.NewTable(w,
		tablewriter.WithRenderer(renderer.NewMarkdown()),
		tablewriter.WithAlignment(alignment),
		tablewriter.WithHeaderAutoFormat(tw.Off),
	)
	table.Header(t.Columns)

	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = FormatCell(cell)
		}
		table.Append(cells)
	}
	table.Render()

	_, err := fmt.Fprintf(w, "\n_%d rows_\n", len(t.Rows))
	return err
}
