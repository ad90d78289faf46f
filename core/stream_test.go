package core

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/trelvik/kustoresp/wire"
)

func TestStreamYieldsTablesInOrder(t *testing.T) {
	r := require.New(t)

	s, err := NewStream(bytes.NewReader(loadFixture(t, "sanity_v2.json")))
	r.NoError(err)
	r.False(s.Header().IsProgressive)

	var names []string
	var rowCounts []int
	for s.HasNext() {
		st, err := s.Next()
		r.NoError(err)

		count := 0
		for st.HasNext() {
			_, err := st.Next()
			r.NoError(err)
			count++
		}
		names = append(names, st.Name())
		rowCounts = append(rowCounts, count)
		r.True(st.Consumed())
	}

	r.NoError(s.Err())
	r.Equal([]string{"@ExtendedProperties", "PrimaryResult", "QueryCompletionInformation"}, names)
	r.Equal([]int{1, 10, 1}, rowCounts)
	r.NotNil(s.Completion())
	r.False(s.Completion().HasErrors)
}

func TestStreamSinglePass(t *testing.T) {
	r := require.New(t)

	s, err := NewStream(bytes.NewReader(loadFixture(t, "sanity_v2.json")))
	r.NoError(err)

	st, err := s.Next()
	r.NoError(err)

	_, err = st.Materialize()
	r.NoError(err)
	r.True(st.Consumed())

	// a materialized table cannot be iterated again
	r.False(st.HasNext())
	_, err = st.Next()
	r.ErrorIs(err, ErrNoNextRow)
}

func TestStreamAdvancingDiscardsCurrentTable(t *testing.T) {
	r := require.New(t)

	s, err := NewStream(bytes.NewReader(loadFixture(t, "sanity_v2.json")))
	r.NoError(err)

	first, err := s.Next()
	r.NoError(err)
	r.False(first.Consumed())

	// skipping ahead drains the untouched table
	second, err := s.Next()
	r.NoError(err)
	r.True(first.Consumed())
	r.Equal("PrimaryResult", second.Name())

	row, err := second.Next()
	r.NoError(err)
	num, err := row.ValueByName("rownumber")
	r.NoError(err)
	r.Equal(int32(0), num)
}

func TestStreamFragmentedTable(t *testing.T) {
	r := require.New(t)

	s, err := NewStream(bytes.NewReader(loadFixture(t, "partial_failure_v2.json")))
	r.NoError(err)
	r.True(s.Header().IsFragmented)

	var primary *StreamTable
	for s.HasNext() {
		st, err := s.Next()
		r.NoError(err)
		if st.Kind() == KindPrimaryResult {
			primary = st
			// rows span two fragments with a progress frame between them
			var xs []int64
			for st.HasNext() {
				row, err := st.Next()
				r.NoError(err)
				x, err := row.ValueByName("x")
				r.NoError(err)
				xs = append(xs, x.(int64))
			}
			r.Equal([]int64{1, 2, 3, 4, 5}, xs)
		}
	}
	r.NotNil(primary)
	r.NoError(s.Err())

	// errors_count is exact only once the stream has been drained
	r.Equal(1, s.ErrorsCount())
	r.Len(s.Exceptions(), 1)
	r.Contains(s.Exceptions()[0], "E_QUERY_RESULT_SET_TOO_LARGE")
	r.True(s.Completion().HasErrors)
}

func TestStreamEarlyAbandon(t *testing.T) {
	r := require.New(t)

	s, err := NewStream(bytes.NewReader(loadFixture(t, "partial_failure_v2.json")))
	r.NoError(err)

	// read a single row of the first table, then walk away
	st, err := s.Next()
	r.NoError(err)
	r.True(st.HasNext())
	_, err = st.Next()
	r.NoError(err)

	// nothing was drained, so no completion and no exact counters
	r.NoError(s.Err())
	r.Nil(s.Completion())
	r.Zero(s.ErrorsCount())
}

func TestStreamRejectsProgressive(t *testing.T) {
	r := require.New(t)

	doc := `[{"FrameType":"DataSetHeader","IsProgressive":true,"Version":"v2.0"}]`
	_, err := NewStream(strings.NewReader(doc))
	var parseErr *wire.ParseError
	r.ErrorAs(err, &parseErr)
}

func TestStreamToDataSetMatchesEager(t *testing.T) {
	r := require.New(t)

	data := loadFixture(t, "sanity_v2.json")

	eager, err := ParseV2(data)
	r.NoError(err)

	s, err := NewStream(bytes.NewReader(data))
	r.NoError(err)
	streamed, err := s.ToDataSet()
	r.NoError(err)

	r.Equal(eager.Len(), streamed.Len())
	for i := 0; i < eager.Len(); i++ {
		et, err := eager.Table(i)
		r.NoError(err)
		st, err := streamed.Table(i)
		r.NoError(err)
		r.Equal(et.Name(), st.Name())
		r.Equal(et.Kind(), st.Kind())
		r.Equal(et.Len(), st.Len())
		for ri := 0; ri < et.Len(); ri++ {
			er, err := et.Row(ri)
			r.NoError(err)
			sr, err := st.Row(ri)
			r.NoError(err)
			r.Equal(er.Values(), sr.Values())
		}
	}
}

func TestStreamSchemaErrorScopedToTable(t *testing.T) {
	r := require.New(t)

	doc := `[
	 {"FrameType":"DataSetHeader","IsProgressive":false,"Version":"v2.0"},
	 {"FrameType":"DataTable","TableId":0,"TableKind":"QueryProperties","TableName":"@ExtendedProperties",
	  "Columns":[{"ColumnName":"Key","ColumnType":"string"}],"Rows":[["a","stray cell"]]},
	 {"FrameType":"DataTable","TableId":1,"TableKind":"PrimaryResult","TableName":"PrimaryResult",
	  "Columns":[{"ColumnName":"x","ColumnType":"long"}],"Rows":[[1],[2]]},
	 {"FrameType":"DataSetCompletion","HasErrors":false,"Cancelled":false}
	]`

	ds, err := ParseV2([]byte(doc))
	r.NoError(err)

	// the malformed table is dropped, its siblings survive
	r.Equal(1, ds.Len())
	r.Len(ds.TableErrors(), 1)
	var schemaErr *wire.SchemaError
	r.ErrorAs(ds.TableErrors()[0], &schemaErr)

	primaries := ds.PrimaryResults()
	r.Len(primaries, 1)
	r.Equal(2, primaries[0].Len())
}

func TestStreamTruncatedInput(t *testing.T) {
	r := require.New(t)

	doc := `[
	 {"FrameType":"DataSetHeader","IsProgressive":false,"Version":"v2.0"},
	 {"FrameType":"DataTable","TableId":0,"TableKind":"PrimaryResult","TableName":"PrimaryResult",
	  "Columns":[{"ColumnName":"x","ColumnType":"long"}],"Rows":[[1]]}
	]`

	s, err := NewStream(strings.NewReader(doc))
	r.NoError(err)

	_, err = s.ToDataSet()
	var parseErr *wire.ParseError
	r.ErrorAs(err, &parseErr)
	r.NotErrorIs(err, io.EOF)
}
