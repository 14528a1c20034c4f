// Package config loads the YAML settings file shared by the CLI and the
// session service.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/wildfunctions/sci_calc/pkg/calculator"
	"github.com/wildfunctions/sci_calc/pkg/server"
)

// File is the on-disk configuration. Keys left out of the file keep their
// default values.
type File struct {
	Calculator calculator.Config `yaml:"calculator"`
	Server     server.Config     `yaml:"server"`
	LogLevel   string            `yaml:"log_level"`
	Format     string            `yaml:"format"` // text | json
}

// Default returns the configuration used when no file is given.
func Default() File {
	return File{
		Calculator: calculator.DefaultConfig(),
		Server:     server.DefaultConfig(),
		LogLevel:   "info",
		Format:     "text",
	}
}

// Load reads and validates the file at path.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("reading config: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes YAML over the defaults and validates the result. Unknown
// keys are rejected.
func Parse(data []byte) (File, error) {
	f := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return File{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := f.Validate(); err != nil {
		return File{}, err
	}
	return f, nil
}

// Validate rejects values no component could run with.
func (f File) Validate() error {
	if err := f.Calculator.Validate(); err != nil {
		return fmt.Errorf("calculator: %w", err)
	}
	if f.Server.Addr == "" {
		return fmt.Errorf("server: addr must not be empty")
	}
	if f.Server.MaxSessions < 0 {
		return fmt.Errorf("server: max_sessions must be >= 0, got %d", f.Server.MaxSessions)
	}
	if f.Server.SessionTTL < 0 {
		return fmt.Errorf("server: session_ttl must be >= 0, got %s", f.Server.SessionTTL)
	}
	if _, err := zerolog.ParseLevel(f.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if f.Format != "text" && f.Format != "json" {
		return fmt.Errorf("format must be text or json, got %q", f.Format)
	}
	return nil
}

// ServerConfig returns the server settings with the calculator section
// applied to every session.
func (f File) ServerConfig() server.Config {
	cfg := f.Server
	cfg.Calculator = f.Calculator
	return cfg
}
