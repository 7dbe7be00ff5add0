package format

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/hiveline/hiveline/core"
)

var _ core.Formatter = (*Table)(nil)

// Table renders results as a human readable bordered table.
type Table struct{}

func NewTable() *Table {
	return &Table{}
}

func (tf *Table) Format(header core.Header, rows []core.Row, _ *core.FormatterOptions) ([]byte, error) {
	var tableHeader table.Row
	for _, h := range header {
		tableHeader = append(tableHeader, h)
	}

	var tableRows []table.Row
	for _, row := range rows {
		var tr table.Row
		for _, val := range row {
			tr = append(tr, fmt.Sprint(val))
		}
		tableRows = append(tableRows, tr)
	}

	t := table.NewWriter()
	t.AppendHeader(tableHeader)
	t.AppendRows(tableRows)
	t.AppendSeparator()
	t.SetStyle(table.StyleLight)
	t.Style().Format = table.FormatOptions{
		Footer: text.FormatDefault,
		Header: text.FormatDefault,
		Row:    text.FormatDefault,
	}
	t.Style().Options.DrawBorder = false

	return []byte(t.Render()), nil
}
