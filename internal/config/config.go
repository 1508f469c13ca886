// Package config provides configuration loading and validation for the CLI
// and the HTTP server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/RaulQD/kontrak-backend-sub001/internal/types"
)

// Config is the service configuration, loadable from a JSON file with
// environment overrides. All fields are optional; missing values use
// defaults.
type Config struct {
	Port          int    `json:"port,omitempty"`
	Concurrency   int    `json:"concurrency,omitempty"`    // records per scheduler group
	MappingPath   string `json:"mapping_path,omitempty"`   // field-mapping table JSON
	RenderTimeout int    `json:"render_timeout,omitempty"` // seconds per document render
	Verbose       bool   `json:"verbose,omitempty"`

	Signers types.Signers `json:"signers,omitempty"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port:          8080,
		Concurrency:   3,
		RenderTimeout: 30,
		Signers: types.Signers{
			Representative: types.Signer{
				Name:  "REPRESENTANTE LEGAL",
				DNI:   "00000000",
				Title: "Gerente General",
			},
			HumanResources: types.Signer{
				Name:  "JEFE DE RECURSOS HUMANOS",
				DNI:   "00000000",
				Title: "Jefe de RRHH",
			},
		},
	}
}

// Load reads a JSON config file and fills unset fields with defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return cfg, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg.normalized(), nil
}

// ApplyEnv overlays KONTRAK_* environment variables on the config.
func (c Config) ApplyEnv() Config {
	if v := os.Getenv("KONTRAK_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
	if v := os.Getenv("KONTRAK_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Concurrency = n
		}
	}
	if v := os.Getenv("KONTRAK_MAPPING_PATH"); v != "" {
		c.MappingPath = v
	}
	if v := os.Getenv("KONTRAK_VERBOSE"); v != "" {
		c.Verbose = v == "1" || v == "true"
	}
	return c.normalized()
}

func (c Config) normalized() Config {
	d := Default()
	if c.Port <= 0 {
		c.Port = d.Port
	}
	if c.Concurrency <= 0 {
		c.Concurrency = d.Concurrency
	}
	if c.RenderTimeout <= 0 {
		c.RenderTimeout = d.RenderTimeout
	}
	if c.Signers.Representative.Name == "" {
		c.Signers.Representative = d.Signers.Representative
	}
	if c.Signers.HumanResources.Name == "" {
		c.Signers.HumanResources = d.Signers.HumanResources
	}
	return c
}
