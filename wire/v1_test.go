package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeV1(t *testing.T) {
	r := require.New(t)

	doc := `{"Tables":[
	 {"TableName":"Table_0",
	  "Columns":[{"ColumnName":"x","DataType":"Int64"},{"ColumnName":"s","DataType":"String"}],
	  "Rows":[[1,"one"],[2,"two"]]},
	 {"TableName":"Table_1",
	  "Columns":[{"ColumnName":"Value","DataType":"String"}],
	  "Rows":[["{}"]]}
	]}`

	tables, err := DecodeV1([]byte(doc))
	r.NoError(err)
	r.Len(tables, 2)

	r.Equal(0, tables[0].ID)
	r.Equal("Table_0", tables[0].Name)
	r.Len(tables[0].Columns, 2)
	r.Equal("Int64", tables[0].Columns[0].TypeName())
	r.Len(tables[0].Rows, 2)

	r.Equal(1, tables[1].ID)
	r.NoError(tables[0].Validate())
}

func TestDecodeV1Errors(t *testing.T) {
	r := require.New(t)

	testCases := []struct {
		name string
		doc  string
	}{
		{"garbage", `not json`},
		{"no tables key", `{}`},
		{"empty tables", `{"Tables":[]}`},
	}

	for _, tc := range testCases {
		_, err := DecodeV1([]byte(tc.doc))
		var parseErr *ParseError
		r.ErrorAs(err, &parseErr, tc.name)
	}
}

func TestColumnTypeName(t *testing.T) {
	r := require.New(t)

	r.Equal("long", Column{Name: "x", Type: "long"}.TypeName())
	r.Equal("Int64", Column{Name: "x", DataType: "Int64"}.TypeName())
	// the v2 name wins when both are present
	r.Equal("long", Column{Name: "x", Type: "long", DataType: "Int64"}.TypeName())
}

func TestTableValidate(t *testing.T) {
	r := require.New(t)

	table := Table{
		Name:    "PrimaryResult",
		Columns: []Column{{Name: "x", Type: "long"}},
		Rows:    []Row{{[]byte(`1`)}, {[]byte(`2`), []byte(`3`)}},
	}

	err := table.Validate()
	var schemaErr *SchemaError
	r.ErrorAs(err, &schemaErr)
	r.Equal("PrimaryResult", schemaErr.Table)
	r.Equal(1, schemaErr.Columns)
	r.Equal(2, schemaErr.Arity)
}
