package calculator

import (
	"fmt"

	"github.com/wildfunctions/sci_calc/pkg/syntax"
)

// Config holds the limits and presentation settings of a calculator session.
type Config struct {
	HistoryCap     int    `yaml:"history_cap" json:"history_cap"`           // 0 = unbounded
	MaxDepth       int    `yaml:"max_depth" json:"max_depth"`               // parser nesting limit
	MaxInputLength int    `yaml:"max_input_length" json:"max_input_length"` // bytes
	ErrorSentinel  string `yaml:"error_sentinel" json:"error_sentinel"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		HistoryCap:     100,
		MaxDepth:       syntax.DefaultMaxDepth,
		MaxInputLength: 4096,
		ErrorSentinel:  "Error",
	}
}

// Validate rejects settings no session could run with.
func (c Config) Validate() error {
	if c.HistoryCap < 0 {
		return fmt.Errorf("history_cap must be >= 0, got %d", c.HistoryCap)
	}
	if c.MaxDepth <= 0 {
		return fmt.Errorf("max_depth must be > 0, got %d", c.MaxDepth)
	}
	if c.MaxInputLength <= 0 {
		return fmt.Errorf("max_input_length must be > 0, got %d", c.MaxInputLength)
	}
	if c.ErrorSentinel == "" {
		return fmt.Errorf("error_sentinel must not be empty")
	}
	return nil
}
