// Package config holds run configuration for the blockmark CLI.
// Configuration errors (bad block count, unknown hash algorithm) are
// caught here before any file is opened.
package config

import (
	"fmt"

	"github.com/blockmark/blockmark/internal/blockmap"
)

// Config collects the knobs shared by the write and read commands.
type Config struct {
	BlockCount         int
	HashAlgorithm      string
	ExcerptSize        int // bytes; negative means derive from file size
	CheckTransposition bool
	MetricsAddress     string
	LogLevel           string
}

// Default returns the configuration used when no flags override it.
func Default() *Config {
	return &Config{
		BlockCount:    16,
		HashAlgorithm: "blake3",
		ExcerptSize:   -1,
		LogLevel:      "info",
	}
}

// Validate rejects configurations that can never produce a usable run.
func (c *Config) Validate() error {
	if c.BlockCount <= 0 {
		return fmt.Errorf("block count must be positive, got %d", c.BlockCount)
	}
	if _, err := blockmap.ResolveAlgorithm(c.HashAlgorithm); err != nil {
		return err
	}
	return nil
}
