package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// fileConfig maps the optional config.toml keys.
type fileConfig struct {
	Format      string `toml:"format"`
	PrimaryOnly bool   `toml:"primary_only"`
	Verbose     bool   `toml:"verbose"`
}

type config struct {
	Format      string
	PrimaryOnly bool
	Verbose     bool
}

func defaultConfig() config {
	return config{Format: "table"}
}

// loadConfig overlays a TOML file onto the defaults. Keys that are not
// present keep their default.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config{}, fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("format") {
		cfg.Format = raw.Format
	}
	if meta.IsDefined("primary_only") {
		cfg.PrimaryOnly = raw.PrimaryOnly
	}
	if meta.IsDefined("verbose") {
		cfg.Verbose = raw.Verbose
	}
	return cfg, nil
}
