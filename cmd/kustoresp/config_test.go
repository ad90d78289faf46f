package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	r := require.New(t)

	cfg, err := loadConfig("")
	r.NoError(err)
	r.Equal("table", cfg.Format)
	r.False(cfg.PrimaryOnly)
	r.False(cfg.Verbose)
}

func TestLoadConfigOverlaysDefinedKeysOnly(t *testing.T) {
	r := require.New(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	r.NoError(os.WriteFile(path, []byte("format = \"csv\"\nverbose = true\n"), 0o644))

	cfg, err := loadConfig(path)
	r.NoError(err)
	r.Equal("csv", cfg.Format)
	r.True(cfg.Verbose)
	// absent keys keep their defaults
	r.False(cfg.PrimaryOnly)
}

func TestLoadConfigMissingFile(t *testing.T) {
	r := require.New(t)

	_, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	r.Error(err)
}

func TestNewFormatter(t *testing.T) {
	r := require.New(t)

	for _, name := range []string{"table", "csv", "json"} {
		f, err := newFormatter(name)
		r.NoError(err)
		r.Equal(name, f.Name())
	}

	_, err := newFormatter("yaml")
	r.Error(err)
}

func TestDecodeDetectsWireVariant(t *testing.T) {
	r := require.New(t)

	v2 := `[
	 {"FrameType":"DataSetHeader","IsProgressive":false,"Version":"v2.0"},
	 {"FrameType":"DataTable","TableId":0,"TableKind":"PrimaryResult","TableName":"PrimaryResult",
	  "Columns":[{"ColumnName":"x","ColumnType":"long"}],"Rows":[[1]]},
	 {"FrameType":"DataSetCompletion","HasErrors":false,"Cancelled":false}
	]`
	ds, err := decode([]byte(v2))
	r.NoError(err)
	r.Equal(1, ds.Len())

	v1 := `{"Tables":[{"TableName":"Table_0","Columns":[{"ColumnName":"x","DataType":"Int64"}],"Rows":[[1]]}]}`
	ds, err = decode([]byte("  " + v1))
	r.NoError(err)
	r.Equal(1, ds.Len())

	_, err = decode([]byte("garbage"))
	r.Error(err)
}
