package format

import (
	"fmt"
	"io"
	"time"

	"github.com/goccy/go-json"
	"github.com/trelvik/kustoresp/core"
)

var _ Formatter = (*JSON)(nil)

type JSON struct{}

func NewJSON() *JSON {
	return &JSON{}
}

func (jf *JSON) Name() string {
	return "json"
}

func (jf *JSON) Format(t *core.Table, w io.Writer) error {
	columns := t.Columns()

	data := make([]map[string]any, 0, t.Len())
	for _, row := range t.Rows() {
		record := make(map[string]any, row.Len())
		for i, v := range row.Values() {
			record[columns[i].Name] = jsonCell(v)
		}
		data = append(data, record)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("enc.Encode: %w", err)
	}
	return nil
}

// jsonCell keeps most typed values as-is (time.Time and decimals marshal
// fine), but durations would otherwise print as bare nanosecond counts.
func jsonCell(v any) any {
	if d, ok := v.(time.Duration); ok {
		return d.String()
	}
	return v
}
