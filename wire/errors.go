package wire

import "fmt"

// ParseError is fatal to the dataset: the payload is malformed or the
// frame sequence violates the v2 state machine. The raw decoder error, if
// any, is wrapped so callers never see it undressed.
type ParseError struct {
	State string // reader state at the time of the violation
	Frame string // offending frame type, if known
	Err   error
}

func (e *ParseError) Error() string {
	if e.Frame != "" {
		return fmt.Sprintf("response parse error in state %q: unexpected frame %q", e.State, e.Frame)
	}
	if e.Err != nil {
		return fmt.Sprintf("response parse error in state %q: %v", e.State, e.Err)
	}
	return fmt.Sprintf("response parse error in state %q", e.State)
}

func (e *ParseError) Unwrap() error { return e.Err }

// SchemaError is scoped to a single table: a row's arity does not match
// the declared column count. Sibling tables stay valid.
type SchemaError struct {
	Table   string
	Columns int
	Arity   int
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("table %q: row arity %d does not match column count %d", e.Table, e.Arity, e.Columns)
}
