package format

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/trelvik/kustoresp/core"
)

var _ Formatter = (*Table)(nil)

// Table renders a bordered text table.
type Table struct{}

func NewTable() *Table {
	return &Table{}
}

func (tf *Table) Name() string {
	return "table"
}

func (tf *Table) Format(t *core.Table, w io.Writer) error {
	var header []any
	for _, c := range t.Columns() {
		header = append(header, fmt.Sprintf("%s:%s", c.Name, c.Type))
	}

	var rows []table.Row
	for _, row := range t.Rows() {
		cells := make(table.Row, 0, row.Len())
		for _, v := range row.Values() {
			cells = append(cells, cellText(v))
		}
		rows = append(rows, cells)
	}

	tw := table.NewWriter()
	tw.AppendHeader(table.Row(header))
	tw.AppendRows(rows)
	tw.AppendSeparator()
	tw.SetStyle(table.StyleLight)
	tw.Style().Format = table.FormatOptions{
		Footer: text.FormatDefault,
		Header: text.FormatDefault,
		Row:    text.FormatDefault,
	}
	tw.Style().Options.DrawBorder = false

	if _, err := w.Write([]byte(tw.Render() + "\n")); err != nil {
		return err
	}
	return nil
}
