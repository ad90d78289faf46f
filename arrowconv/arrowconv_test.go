package arrowconv

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/require"
	"github.com/trelvik/kustoresp/core"
)

func sampleTable(t *testing.T) *core.Table {
	t.Helper()
	r := require.New(t)

	doc := `[
	 {"FrameType":"DataSetHeader","IsProgressive":false,"Version":"v2.0"},
	 {"FrameType":"DataTable","TableId":0,"TableKind":"PrimaryResult","TableName":"PrimaryResult",
	  "Columns":[
	   {"ColumnName":"flag","ColumnType":"bool"},
	   {"ColumnName":"count","ColumnType":"long"},
	   {"ColumnName":"ratio","ColumnType":"real"},
	   {"ColumnName":"label","ColumnType":"string"},
	   {"ColumnName":"amount","ColumnType":"decimal"},
	   {"ColumnName":"payload","ColumnType":"dynamic"}
	  ],
	  "Rows":[
	   [true,0,0.5,"a","2.00000000000001",{"k":1}],
	   [null,null,null,null,null,null]
	  ]},
	 {"FrameType":"DataSetCompletion","HasErrors":false,"Cancelled":false}
	]`

	ds, err := core.ParseV2([]byte(doc))
	r.NoError(err)
	return ds.PrimaryResults()[0]
}

func TestSchema(t *testing.T) {
	r := require.New(t)

	schema := Schema(sampleTable(t))
	r.Equal(6, schema.NumFields())

	r.Equal(arrow.FixedWidthTypes.Boolean, schema.Field(0).Type)
	r.Equal(arrow.PrimitiveTypes.Int64, schema.Field(1).Type)
	r.Equal(arrow.PrimitiveTypes.Float64, schema.Field(2).Type)
	r.Equal(arrow.BinaryTypes.String, schema.Field(3).Type)
	// decimals and dynamics keep their text form
	r.Equal(arrow.BinaryTypes.String, schema.Field(4).Type)
	r.Equal(arrow.BinaryTypes.String, schema.Field(5).Type)

	for i := 0; i < schema.NumFields(); i++ {
		r.True(schema.Field(i).Nullable)
	}
}

func TestRecordKeepsNullsDistinctFromZeros(t *testing.T) {
	r := require.New(t)

	mem := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer mem.AssertSize(t, 0)

	rec, err := Record(mem, sampleTable(t))
	r.NoError(err)
	defer rec.Release()

	r.EqualValues(2, rec.NumRows())
	r.EqualValues(6, rec.NumCols())

	flags := rec.Column(0).(*array.Boolean)
	r.True(flags.Value(0))
	r.True(flags.IsNull(1))

	counts := rec.Column(1).(*array.Int64)
	r.Equal(int64(0), counts.Value(0))
	r.False(counts.IsNull(0))
	r.True(counts.IsNull(1))

	amounts := rec.Column(4).(*array.String)
	r.Equal("2.00000000000001", amounts.Value(0))

	payloads := rec.Column(5).(*array.String)
	r.Equal(`{"k":1}`, payloads.Value(0))
	r.True(payloads.IsNull(1))
}

func TestRecordWithDefaultAllocator(t *testing.T) {
	r := require.New(t)

	rec, err := Record(nil, sampleTable(t))
	r.NoError(err)
	defer rec.Release()
	r.EqualValues(2, rec.NumRows())
}
