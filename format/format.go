// Package format renders decoded result tables for humans and simple
// pipelines. It is a debug-grade consumer: values are printed through the
// same typed cells the row model exposes, so by-name and by-position
// access always agree with what gets rendered.
package format

import (
	"fmt"
	"io"
	"time"

	"github.com/trelvik/kustoresp/core"
)

// Formatter renders one materialized table to a writer.
type Formatter interface {
	Name() string
	Format(t *core.Table, w io.Writer) error
}

// cellText renders a single coerced cell. Absent values print empty, so
// they stay distinguishable from zero values in the output.
func cellText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case time.Time:
		return t.Format(time.RFC3339Nano)
	case time.Duration:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
