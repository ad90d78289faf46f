package core

import (
	"fmt"

	"github.com/trelvik/kustoresp/wire"
)

// Table is a fully materialized result table. Column order is fixed at
// construction and rows are randomly accessible.
type Table struct {
	id    int
	name  string
	kind  Kind
	index *columnIndex
	rows  []Row
}

// newTable binds a raw wire table and its resolved kind, coercing every
// cell. A row arity mismatch surfaces as a *wire.SchemaError scoped to
// this table.
func newTable(raw *wire.Table, kind Kind) (*Table, error) {
	if err := raw.Validate(); err != nil {
		return nil, err
	}

	index := newColumnIndex(resultColumns(raw.Columns))
	rows := make([]Row, len(raw.Rows))
	for ri, rawRow := range raw.Rows {
		values, err := coerceRow(rawRow, index)
		if err != nil {
			return nil, fmt.Errorf("table %q row %d: %w", raw.Name, ri, err)
		}
		rows[ri] = Row{index: index, values: values}
	}

	return &Table{
		id:    raw.ID,
		name:  raw.Name,
		kind:  kind,
		index: index,
		rows:  rows,
	}, nil
}

func resultColumns(wireColumns []wire.Column) []Column {
	columns := make([]Column, len(wireColumns))
	for i, c := range wireColumns {
		columns[i] = Column{
			Name:     c.Name,
			Type:     ParseTypeTag(c.TypeName()),
			WireType: c.TypeName(),
		}
	}
	return columns
}

func coerceRow(rawRow wire.Row, index *columnIndex) ([]any, error) {
	values := make([]any, len(rawRow))
	for i, cell := range rawRow {
		v, err := Coerce(cell, index.columns[i].Type)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", index.columns[i].Name, err)
		}
		values[i] = v
	}
	return values, nil
}

func (t *Table) ID() int {
	return t.id
}

func (t *Table) Name() string {
	return t.name
}

func (t *Table) Kind() Kind {
	return t.kind
}

func (t *Table) Columns() []Column {
	return t.index.columns
}

// ColumnIndex returns the position of a named column, case-sensitive.
func (t *Table) ColumnIndex(name string) (int, error) {
	return t.index.position(name)
}

func (t *Table) Len() int {
	return len(t.rows)
}

func (t *Table) Rows() []Row {
	return t.rows
}

// Row returns the row at the given position, bounds-checked.
func (t *Table) Row(i int) (Row, error) {
	if i < 0 || i >= len(t.rows) {
		return Row{}, fmt.Errorf("%w: row %d of %d", ErrRowOutOfRange, i, len(t.rows))
	}
	return t.rows[i], nil
}
