package core

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/trelvik/kustoresp/wire"
)

// DataSet is the eager, fully materialized form of one response: every
// table is decoded before the value is returned, so tables support random
// access by index and by kind.
type DataSet struct {
	tables    []*Table
	tableErrs []error // schema errors scoped to single dropped tables

	exceptions []string
	diagnosed  bool
}

// ParseV1 decodes a complete v1 response document. Table kinds follow the
// v1 positional convention: a lone table is the primary result, a second
// table carries query properties, and responses with more tables end with
// a table-of-contents that names every other table's kind.
func ParseV1(data []byte) (*DataSet, error) {
	raws, err := wire.DecodeV1(data)
	if err != nil {
		return nil, err
	}
	kinds, err := classifyV1(raws)
	if err != nil {
		return nil, err
	}
	return assemble(raws, kinds), nil
}

// ParseV2 decodes a complete v2 frame document into an eager dataset. It
// drives the same frame machinery as Stream, so fragmented tables are
// handled identically in both modes.
func ParseV2(data []byte) (*DataSet, error) {
	s, err := NewStream(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return s.ToDataSet()
}

func assemble(raws []wire.Table, kinds []Kind) *DataSet {
	ds := &DataSet{}
	for i := range raws {
		t, err := newTable(&raws[i], kinds[i])
		if err != nil {
			// scoped to this table; siblings stay valid
			ds.tableErrs = append(ds.tableErrs, err)
			continue
		}
		ds.tables = append(ds.tables, t)
	}
	return ds
}

// classifyV1 resolves v1 table kinds by position. For responses with more
// than two tables the last table is the TOC: one row per preceding table,
// carrying its ordinal and kind name.
func classifyV1(raws []wire.Table) ([]Kind, error) {
	kinds := make([]Kind, len(raws))
	for i := range kinds {
		kinds[i] = KindUnknown
	}

	if len(raws) <= 2 {
		kinds[0] = KindPrimaryResult
		if len(raws) == 2 {
			kinds[1] = KindQueryProperties
		}
		return kinds, nil
	}

	toc := raws[len(raws)-1]
	kinds[len(raws)-1] = KindTableOfContents

	ordinalCol, kindCol := -1, -1
	for i, c := range toc.Columns {
		switch c.Name {
		case "Ordinal":
			ordinalCol = i
		case "Kind":
			kindCol = i
		}
	}
	if ordinalCol < 0 || kindCol < 0 {
		return nil, &wire.ParseError{State: "Document", Err: errors.New("table of contents lacks Ordinal/Kind columns")}
	}

	for _, row := range toc.Rows {
		if len(row) <= ordinalCol || len(row) <= kindCol {
			return nil, &wire.ParseError{State: "Document", Err: errors.New("malformed table of contents row")}
		}
		var ordinal int
		if err := json.Unmarshal(row[ordinalCol], &ordinal); err != nil {
			return nil, &wire.ParseError{State: "Document", Err: fmt.Errorf("table of contents ordinal: %w", err)}
		}
		var kindName string
		if err := json.Unmarshal(row[kindCol], &kindName); err != nil {
			return nil, &wire.ParseError{State: "Document", Err: fmt.Errorf("table of contents kind: %w", err)}
		}
		if ordinal < 0 || ordinal >= len(raws)-1 {
			continue
		}
		kinds[ordinal] = v1KindFromName(kindName)
	}
	return kinds, nil
}

// v1KindFromName maps the kind names a v1 TOC uses. "QueryResult" names
// the primary result there.
func v1KindFromName(name string) Kind {
	switch name {
	case "QueryResult":
		return KindPrimaryResult
	case "QueryProperties":
		return KindQueryProperties
	case "QueryStatus":
		return KindQueryCompletionInformation
	default:
		return KindUnknown
	}
}

// Len returns the number of tables.
func (d *DataSet) Len() int {
	return len(d.tables)
}

func (d *DataSet) Tables() []*Table {
	return d.tables
}

// ErrTableOutOfRange is returned for positional table lookups past the end.
var ErrTableOutOfRange = errors.New("table index out of range")

// Table returns the table at the given position, bounds-checked.
func (d *DataSet) Table(i int) (*Table, error) {
	if i < 0 || i >= len(d.tables) {
		return nil, fmt.Errorf("%w: table %d of %d", ErrTableOutOfRange, i, len(d.tables))
	}
	return d.tables[i], nil
}

// TablesByKind returns all tables of the given kind, in dataset order.
func (d *DataSet) TablesByKind(kind Kind) []*Table {
	var out []*Table
	for _, t := range d.tables {
		if t.kind == kind {
			out = append(out, t)
		}
	}
	return out
}

// PrimaryResults returns the primary result tables.
func (d *DataSet) PrimaryResults() []*Table {
	return d.TablesByKind(KindPrimaryResult)
}

// TableErrors reports schema errors of tables that were dropped during
// assembly. The surviving tables are unaffected.
func (d *DataSet) TableErrors() []error {
	return d.tableErrs
}

// Exceptions returns the service-reported error diagnostics, one entry
// per error-severity row of the completion-information tables. Computed
// on first use.
func (d *DataSet) Exceptions() []string {
	if !d.diagnosed {
		for _, t := range d.TablesByKind(KindQueryCompletionInformation) {
			for _, row := range t.Rows() {
				if msg, ok := diagnosticFromRow(row); ok {
					d.exceptions = append(d.exceptions, msg)
				}
			}
		}
		d.diagnosed = true
	}
	return d.exceptions
}

// ErrorsCount reports how many error-severity diagnostics the service
// attached to the response. Partial failures (such as a truncated primary
// result) surface here, never as a decoding error.
func (d *DataSet) ErrorsCount() int {
	return len(d.Exceptions())
}
