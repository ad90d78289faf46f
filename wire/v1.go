package wire

import (
	"errors"

	"github.com/goccy/go-json"
)

var errNoTables = errors.New("response contains no tables")

type v1Table struct {
	TableName string
	Columns   []Column
	Rows      []Row
}

type v1Document struct {
	Tables []v1Table
}

// DecodeV1 parses a complete v1 response document into raw tables, in
// wire order. Table kinds are not resolved here - v1 assigns them by
// position, which is the assembler's job.
func DecodeV1(data []byte) ([]Table, error) {
	var doc v1Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{State: "Document", Err: err}
	}
	if len(doc.Tables) == 0 {
		return nil, &ParseError{State: "Document", Err: errNoTables}
	}

	tables := make([]Table, len(doc.Tables))
	for i, t := range doc.Tables {
		tables[i] = Table{
			ID:      i,
			Name:    t.TableName,
			Columns: t.Columns,
			Rows:    t.Rows,
		}
	}
	return tables, nil
}
