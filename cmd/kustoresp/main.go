// kustoresp decodes a saved query service response (v1 document or v2
// frame array) and renders its tables. Transport and auth are someone
// else's job - this tool starts from bytes on disk or stdin.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/trelvik/kustoresp/core"
	"github.com/trelvik/kustoresp/format"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "kustoresp: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath  = flag.String("config", "", "path to optional TOML config")
		formatName  = flag.String("format", "", "output format: table, csv or json")
		primaryOnly = flag.Bool("primary", false, "render only primary result tables")
		verbose     = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *formatName != "" {
		cfg.Format = *formatName
	}
	if *primaryOnly {
		cfg.PrimaryOnly = true
	}
	if *verbose {
		cfg.Verbose = true
	}

	level := zerolog.WarnLevel
	if cfg.Verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	formatter, err := newFormatter(cfg.Format)
	if err != nil {
		return err
	}

	data, err := readInput(flag.Arg(0))
	if err != nil {
		return err
	}

	ds, err := decode(data)
	if err != nil {
		return err
	}

	log.Debug().Int("tables", ds.Len()).Msg("response decoded")

	for _, t := range ds.Tables() {
		if cfg.PrimaryOnly && t.Kind() != core.KindPrimaryResult {
			continue
		}
		log.Debug().
			Str("name", t.Name()).
			Stringer("kind", t.Kind()).
			Int("rows", t.Len()).
			Msg("rendering table")
		if err := formatter.Format(t, os.Stdout); err != nil {
			return fmt.Errorf("formatter.Format: %w", err)
		}
	}

	for _, err := range ds.TableErrors() {
		log.Warn().Err(err).Msg("table dropped")
	}
	if ds.ErrorsCount() > 0 {
		for _, exc := range ds.Exceptions() {
			log.Warn().Str("exception", exc).Msg("service reported a partial failure")
		}
	}
	return nil
}

func newFormatter(name string) (format.Formatter, error) {
	switch name {
	case "table":
		return format.NewTable(), nil
	case "csv":
		return format.NewCSV(), nil
	case "json":
		return format.NewJSON(), nil
	default:
		return nil, fmt.Errorf("unknown format %q", name)
	}
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}

// decode picks the wire variant from the payload's first token: a v2
// response is a frame array, a v1 response a single document.
func decode(data []byte) (*core.DataSet, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return core.ParseV2(trimmed)
	}
	return core.ParseV1(trimmed)
}
