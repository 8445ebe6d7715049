// Package config loads the YAML configuration shared by the command-line tools.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/philipparndt/printbase/pkg/convert"
	"github.com/philipparndt/printbase/pkg/foundation"
	"github.com/philipparndt/printbase/pkg/repair"
	"gopkg.in/yaml.v3"
)

// maxFileSize bounds how much of a config file is read
const maxFileSize = 1 * 1024 * 1024

// Config holds every tunable of the tools. Fields missing from a file keep
// their Default values.
type Config struct {
	Foundation Foundation `yaml:"foundation"`
	Repair     Repair     `yaml:"repair"`
	Tools      Tools      `yaml:"tools"`
	// TempDir is where per-run temp directories are created; empty means the OS default
	TempDir string `yaml:"temp_dir"`
}

// Foundation sizes the base cylinder
type Foundation struct {
	MarginRatio    float64 `yaml:"margin_ratio"`
	ThicknessRatio float64 `yaml:"thickness_ratio"`
	MinThickness   float64 `yaml:"min_thickness"`
	Segments       int     `yaml:"segments"`
}

// Repair selects and tunes the mesh repair backend
type Repair struct {
	Backend          string  `yaml:"backend"`
	SmoothLambda     float64 `yaml:"smooth_lambda"`
	SmoothIterations int     `yaml:"smooth_iterations"`
}

// Tools locates external programs
type Tools struct {
	Converter string `yaml:"converter"`
	Assimp    string `yaml:"assimp"`
	Python    string `yaml:"python"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	params := foundation.DefaultParams()
	opts := repair.DefaultOptions()
	return &Config{
		Foundation: Foundation{
			MarginRatio:    params.MarginRatio,
			ThicknessRatio: params.ThicknessRatio,
			MinThickness:   params.MinThickness,
			Segments:       params.Segments,
		},
		Repair: Repair{
			Backend:          repair.NameTrimesh,
			SmoothLambda:     opts.SmoothLambda,
			SmoothIterations: opts.SmoothIterations,
		},
		Tools: Tools{
			Converter: convert.NameAssimp,
			Assimp:    convert.DefaultAssimpBinary,
			Python:    repair.DefaultPython,
		},
	}
}

// Load reads a YAML config file on top of the defaults and validates it
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("config file must have .yaml or .yml extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config %s: %w", cleanPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the values that no later stage would catch with a clear message
func (c *Config) Validate() error {
	if err := c.FoundationParams().Validate(); err != nil {
		return err
	}
	if c.Repair.SmoothLambda < 0 || c.Repair.SmoothLambda > 1 {
		return fmt.Errorf("repair.smooth_lambda must be between 0 and 1, got %g", c.Repair.SmoothLambda)
	}
	if c.Repair.SmoothIterations < 0 {
		return fmt.Errorf("repair.smooth_iterations must not be negative, got %d", c.Repair.SmoothIterations)
	}
	switch c.Repair.Backend {
	case repair.NameTrimesh, repair.NameNative:
	default:
		return fmt.Errorf("repair.backend must be %s or %s, got %q", repair.NameTrimesh, repair.NameNative, c.Repair.Backend)
	}
	switch c.Tools.Converter {
	case convert.NameAssimp, convert.NameNative:
	default:
		return fmt.Errorf("tools.converter must be %s or %s, got %q", convert.NameAssimp, convert.NameNative, c.Tools.Converter)
	}
	return nil
}

// FoundationParams returns the foundation section as stage parameters
func (c *Config) FoundationParams() foundation.Params {
	return foundation.Params{
		MarginRatio:    c.Foundation.MarginRatio,
		ThicknessRatio: c.Foundation.ThicknessRatio,
		MinThickness:   c.Foundation.MinThickness,
		Segments:       c.Foundation.Segments,
	}
}

// RepairOptions returns the smoothing settings
func (c *Config) RepairOptions() repair.Options {
	return repair.Options{
		SmoothLambda:     c.Repair.SmoothLambda,
		SmoothIterations: c.Repair.SmoothIterations,
	}
}
