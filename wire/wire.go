// Package wire decodes the raw JSON layouts of the query service's two
// response variants: the single-document "v1" format and the frame-based
// "v2" format. It produces raw tables and frames only - cell values stay
// in their undecoded JSON form and are interpreted by the core package.
package wire

import "github.com/goccy/go-json"

// Column is the wire-level column metadata. v2 responses carry the type
// under "ColumnType", v1 management responses may use "DataType" with CLR
// type names instead.
type Column struct {
	Name     string `json:"ColumnName"`
	Type     string `json:"ColumnType"`
	DataType string `json:"DataType"`
}

// TypeName returns whichever type name the wire supplied.
func (c Column) TypeName() string {
	if c.Type != "" {
		return c.Type
	}
	return c.DataType
}

// Row is a single undecoded row.
type Row []json.RawMessage

// Table is one raw table as produced by either wire variant.
type Table struct {
	ID      int
	Name    string
	Kind    string // set by v2 frames; empty for v1, resolved by position
	Columns []Column
	Rows    []Row
}

// Validate checks that every row matches the declared column count.
func (t *Table) Validate() error {
	for _, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return &SchemaError{Table: t.Name, Columns: len(t.Columns), Arity: len(row)}
		}
	}
	return nil
}
