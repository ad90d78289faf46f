package core

import (
	"errors"
	"io"

	"github.com/trelvik/kustoresp/wire"
)

var ErrStreamConsumed = errors.New("stream table already consumed")

// Stream is the lazy, single-pass form of a v2 response. Tables are
// yielded one at a time as their frames complete; once a table has been
// iterated it cannot be replayed. The caller drives everything - each
// pull may buffer more input from the underlying reader, and no
// goroutines are involved. Abandoning the stream before the final frame
// is a supported, non-error termination, but ErrorsCount and Exceptions
// are only exact after the stream has been fully drained.
type Stream struct {
	fr         *wire.FrameReader
	header     *wire.DataSetHeader
	completion *wire.DataSetCompletion

	current *StreamTable
	pending *StreamTable

	exceptions []string
	failed     error
	drained    bool
}

// NewStream reads the DataSetHeader and returns a lazy dataset over the
// remaining frames. Progressive responses are not supported.
func NewStream(r io.Reader) (*Stream, error) {
	fr := wire.NewFrameReader(r)
	frame, err := fr.Next()
	if err != nil {
		return nil, err
	}
	header, ok := frame.(*wire.DataSetHeader)
	if !ok {
		// the frame reader enforces ordering, this is belt and braces
		return nil, &wire.ParseError{State: "AwaitDataSetHeader", Frame: "non-header frame"}
	}
	if header.IsProgressive {
		return nil, &wire.ParseError{State: "AwaitDataSetHeader", Err: errors.New("progressive responses are not supported")}
	}
	return &Stream{fr: fr, header: header}, nil
}

func (s *Stream) Header() *wire.DataSetHeader {
	return s.header
}

// Completion returns the final frame, available once the stream has been
// drained.
func (s *Stream) Completion() *wire.DataSetCompletion {
	return s.completion
}

// HasNext reports whether another table can be pulled. Advancing past the
// current table discards its remaining rows.
func (s *Stream) HasNext() bool {
	if s.failed != nil || s.drained {
		return false
	}
	if s.pending == nil {
		s.advance()
	}
	return s.pending != nil
}

// Next yields the next table. The previous table, if not fully iterated,
// is drained and marked consumed first.
func (s *Stream) Next() (*StreamTable, error) {
	if !s.HasNext() {
		if s.failed != nil {
			return nil, s.failed
		}
		return nil, io.EOF
	}
	t := s.pending
	s.pending = nil
	s.current = t
	return t, nil
}

// advance drains the current table and reads frames until the next table
// opens or the dataset completes.
func (s *Stream) advance() {
	if s.current != nil {
		s.current.drain()
		s.current = nil
		if s.failed != nil {
			return
		}
	}

	for {
		frame, err := s.fr.Next()
		if err != nil {
			if err != io.EOF {
				s.failed = err
			}
			s.drained = true
			return
		}

		switch f := frame.(type) {
		case *wire.DataTable:
			raw := f.Raw()
			s.pending = &StreamTable{
				stream:    s,
				id:        raw.ID,
				name:      raw.Name,
				kind:      KindFromName(raw.Kind),
				index:     newColumnIndex(resultColumns(raw.Columns)),
				buffered:  raw.Rows,
				completed: true,
			}
			return
		case *wire.TableHeader:
			s.pending = &StreamTable{
				stream: s,
				id:     f.TableID,
				name:   f.TableName,
				kind:   KindFromName(f.TableKind),
				index:  newColumnIndex(resultColumns(f.Columns)),
			}
			return
		case *wire.DataSetCompletion:
			s.completion = f
			s.drained = true
			return
		}
	}
}

// Err returns the fatal stream error, if any.
func (s *Stream) Err() error {
	return s.failed
}

// Exceptions returns the error diagnostics observed so far. The value is
// only guaranteed complete after the stream has been fully drained - the
// completion-information table typically arrives after primary results.
func (s *Stream) Exceptions() []string {
	return s.exceptions
}

// ErrorsCount is only exact once the stream has been fully drained.
func (s *Stream) ErrorsCount() int {
	return len(s.exceptions)
}

// ToDataSet materializes the remaining stream into an eager dataset.
// Tables already consumed are not recoverable.
func (s *Stream) ToDataSet() (*DataSet, error) {
	ds := &DataSet{}
	for s.HasNext() {
		st, err := s.Next()
		if err != nil {
			return nil, err
		}
		t, err := st.Materialize()
		if err != nil {
			var schemaErr *wire.SchemaError
			if errors.As(err, &schemaErr) {
				// scoped to this table; the stream keeps going
				ds.tableErrs = append(ds.tableErrs, err)
				continue
			}
			return nil, err
		}
		ds.tables = append(ds.tables, t)
	}
	if s.failed != nil {
		return nil, s.failed
	}
	return ds, nil
}

// StreamTable is a single-pass view over one table's rows. Rows arrive
// across one or more fragment frames; pulling the next row may require
// reading more frames from the parent stream.
type StreamTable struct {
	stream *Stream

	id    int
	name  string
	kind  Kind
	index *columnIndex

	buffered  []wire.Row
	pos       int
	completed bool
	consumed  bool
}

func (t *StreamTable) ID() int {
	return t.id
}

func (t *StreamTable) Name() string {
	return t.name
}

func (t *StreamTable) Kind() Kind {
	return t.kind
}

func (t *StreamTable) Columns() []Column {
	return t.index.columns
}

// Consumed reports whether the table's rows have been handed out (or
// discarded by advancing past the table).
func (t *StreamTable) Consumed() bool {
	return t.consumed
}

// HasNext reports whether another row is available, pulling fragment
// frames as needed. A consumed table never yields again.
func (t *StreamTable) HasNext() bool {
	if t.consumed {
		return false
	}
	for t.pos >= len(t.buffered) && !t.completed {
		t.pull()
	}
	if t.pos >= len(t.buffered) {
		t.consumed = true
		return false
	}
	return true
}

// Next returns the next coerced row. Arity mismatches surface as a
// *wire.SchemaError for that row; iteration may continue past them.
func (t *StreamTable) Next() (Row, error) {
	if !t.HasNext() {
		if t.stream.failed != nil {
			return Row{}, t.stream.failed
		}
		return Row{}, ErrNoNextRow
	}

	rawRow := t.buffered[t.pos]
	t.pos++

	if len(rawRow) != len(t.index.columns) {
		return Row{}, &wire.SchemaError{Table: t.name, Columns: len(t.index.columns), Arity: len(rawRow)}
	}
	values, err := coerceRow(rawRow, t.index)
	if err != nil {
		return Row{}, err
	}
	row := Row{index: t.index, values: values}

	// diagnostics are recorded as they pass through, so the stream's
	// error counters are exact once everything has been drained
	if t.kind == KindQueryCompletionInformation {
		if msg, ok := diagnosticFromRow(row); ok {
			t.stream.exceptions = append(t.stream.exceptions, msg)
		}
	}
	return row, nil
}

// Materialize drains the remaining rows into an eager Table. The first
// row error aborts and surfaces it.
func (t *StreamTable) Materialize() (*Table, error) {
	rows := make([]Row, 0, len(t.buffered))
	for t.HasNext() {
		row, err := t.Next()
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	if t.stream.failed != nil {
		return nil, t.stream.failed
	}
	return &Table{
		id:    t.id,
		name:  t.name,
		kind:  t.kind,
		index: t.index,
		rows:  rows,
	}, nil
}

// pull reads the next frame of this table from the parent stream.
func (t *StreamTable) pull() {
	frame, err := t.stream.fr.Next()
	if err != nil {
		t.completed = true
		if err != io.EOF {
			t.stream.failed = err
		}
		return
	}
	switch f := frame.(type) {
	case *wire.TableFragment:
		t.buffered = f.Rows
		t.pos = 0
	case *wire.TableProgress:
		// informational only
	case *wire.TableCompletion:
		t.completed = true
	}
}

// drain discards the remaining rows, still recording diagnostics, and
// marks the table consumed.
func (t *StreamTable) drain() {
	for t.HasNext() {
		if _, err := t.Next(); err != nil {
			if t.stream.failed != nil {
				return
			}
			// row-scoped error, keep draining
		}
	}
	t.consumed = true
}
