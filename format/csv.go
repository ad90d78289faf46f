package format

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/trelvik/kustoresp/core"
)

var _ Formatter = (*CSV)(nil)

type CSV struct{}

func NewCSV() *CSV {
	return &CSV{}
}

func (cf *CSV) Name() string {
	return "csv"
}

func (cf *CSV) Format(t *core.Table, w io.Writer) error {
	cw := csv.NewWriter(w)

	data := make([][]string, 0, t.Len()+1)
	var header []string
	for _, c := range t.Columns() {
		header = append(header, c.Name)
	}
	data = append(data, header)

	for _, row := range t.Rows() {
		csvRow := make([]string, 0, row.Len())
		for _, v := range row.Values() {
			csvRow = append(csvRow, cellText(v))
		}
		data = append(data, csvRow)
	}

	if err := cw.WriteAll(data); err != nil {
		return fmt.Errorf("cw.WriteAll: %w", err)
	}
	return nil
}
