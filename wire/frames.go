package wire

import (
	"fmt"

	"github.com/goccy/go-json"
)

type FrameType string

const (
	DataSetHeaderFrameType     FrameType = "DataSetHeader"
	DataTableFrameType         FrameType = "DataTable"
	TableHeaderFrameType       FrameType = "TableHeader"
	TableFragmentFrameType     FrameType = "TableFragment"
	TableProgressFrameType     FrameType = "TableProgress"
	TableCompletionFrameType   FrameType = "TableCompletion"
	DataSetCompletionFrameType FrameType = "DataSetCompletion"
)

// Frame is one discrete unit of the v2 wire format.
type Frame interface {
	frameType() FrameType
}

// DataSetHeader is always the first frame of a v2 response.
type DataSetHeader struct {
	Version                 string
	IsProgressive           bool
	IsFragmented            bool
	ErrorReportingPlacement string
}

// DataTable carries a complete table in a single frame.
type DataTable struct {
	TableID   int `json:"TableId"`
	TableKind string
	TableName string
	Columns   []Column
	Rows      []Row
}

// TableHeader opens a fragmented table; its rows follow in
// TableFragment frames until a TableCompletion closes it.
type TableHeader struct {
	TableID   int `json:"TableId"`
	TableKind string
	TableName string
	Columns   []Column
}

type TableFragment struct {
	TableID           int `json:"TableId"`
	FieldCount        int
	TableFragmentType string
	Rows              []Row
}

// TableProgress is informational only.
type TableProgress struct {
	TableID       int `json:"TableId"`
	TableProgress float64
}

type TableCompletion struct {
	TableID  int `json:"TableId"`
	RowCount int
}

// DataSetCompletion is the final frame of a v2 response.
type DataSetCompletion struct {
	HasErrors    bool
	Cancelled    bool
	OneAPIErrors []json.RawMessage `json:"OneApiErrors"`
}

func (DataSetHeader) frameType() FrameType     { return DataSetHeaderFrameType }
func (DataTable) frameType() FrameType         { return DataTableFrameType }
func (TableHeader) frameType() FrameType       { return TableHeaderFrameType }
func (TableFragment) frameType() FrameType     { return TableFragmentFrameType }
func (TableProgress) frameType() FrameType     { return TableProgressFrameType }
func (TableCompletion) frameType() FrameType   { return TableCompletionFrameType }
func (DataSetCompletion) frameType() FrameType { return DataSetCompletionFrameType }

// decodeFrame resolves a raw array element into its typed frame.
func decodeFrame(raw json.RawMessage) (Frame, error) {
	var head struct {
		FrameType FrameType
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, fmt.Errorf("frame envelope: %w", err)
	}

	var frame Frame
	switch head.FrameType {
	case DataSetHeaderFrameType:
		frame = &DataSetHeader{}
	case DataTableFrameType:
		frame = &DataTable{}
	case TableHeaderFrameType:
		frame = &TableHeader{}
	case TableFragmentFrameType:
		frame = &TableFragment{}
	case TableProgressFrameType:
		frame = &TableProgress{}
	case TableCompletionFrameType:
		frame = &TableCompletion{}
	case DataSetCompletionFrameType:
		frame = &DataSetCompletion{}
	default:
		return nil, fmt.Errorf("unknown frame type %q", head.FrameType)
	}

	if err := json.Unmarshal(raw, frame); err != nil {
		return nil, fmt.Errorf("frame %q: %w", head.FrameType, err)
	}
	return frame, nil
}

// Raw returns a wire table view of a complete-table frame.
func (dt *DataTable) Raw() *Table {
	return &Table{
		ID:      dt.TableID,
		Name:    dt.TableName,
		Kind:    dt.TableKind,
		Columns: dt.Columns,
		Rows:    dt.Rows,
	}
}
