package core

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownColumn = errors.New("unknown column")
	ErrRowOutOfRange = errors.New("row index out of range")
	ErrNoNextRow     = errors.New("no next row")
)

// columnIndex is the shared name-to-position map of one table. It is
// built once per table and referenced by every row, so both access paths
// resolve through the same index.
type columnIndex struct {
	columns []Column
	byName  map[string]int
}

func newColumnIndex(columns []Column) *columnIndex {
	byName := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, taken := byName[c.Name]; !taken {
			byName[c.Name] = i
		}
	}
	return &columnIndex{columns: columns, byName: byName}
}

// position is case-sensitive.
func (ci *columnIndex) position(name string) (int, error) {
	i, ok := ci.byName[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	return i, nil
}

// Row is one decoded result row: an ordered value sequence plus the
// owning table's column index.
type Row struct {
	index  *columnIndex
	values []any
}

func (r Row) Len() int {
	return len(r.values)
}

// Values returns the coerced cells in column order.
func (r Row) Values() []any {
	return r.values
}

// Value returns the cell at the given position, bounds-checked.
func (r Row) Value(i int) (any, error) {
	if i < 0 || i >= len(r.values) {
		return nil, fmt.Errorf("%w: cell %d of %d", ErrRowOutOfRange, i, len(r.values))
	}
	return r.values[i], nil
}

// ValueByName returns the cell under the given column name. Lookup is
// case-sensitive and fails for names the table does not declare.
func (r Row) ValueByName(name string) (any, error) {
	i, err := r.index.position(name)
	if err != nil {
		return nil, err
	}
	return r.values[i], nil
}
