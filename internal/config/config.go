// Package config handles loading of the viewer configuration file.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the root configuration file structure.
type Config struct {
	// StartDir is the directory the file sidebar opens in; empty means the
	// working directory.
	StartDir string `yaml:"start_dir,omitempty"`
	Help     *bool  `yaml:"help,omitempty"`
	Layers   Layers `yaml:"layers"`
	Map      Map    `yaml:"map"`
}

// Layers sets the initial layer visibility.
type Layers struct {
	Points   *bool `yaml:"points,omitempty"`
	Lines    *bool `yaml:"lines,omitempty"`
	Polygons *bool `yaml:"polygons,omitempty"`
}

// Map tunes map navigation.
type Map struct {
	ZoomStep float64 `yaml:"zoom_step,omitempty"`
	MaxZoom  float64 `yaml:"max_zoom,omitempty"`
	MinZoom  float64 `yaml:"min_zoom,omitempty"`
}

const (
	DefaultZoomStep = 1.2
	DefaultMaxZoom  = 64
	DefaultMinZoom  = 0.05
)

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads and parses the YAML configuration file from the specified path.
// An empty path returns Default().
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Help == nil {
		c.Help = boolPtr(true)
	}
	if c.Layers.Points == nil {
		c.Layers.Points = boolPtr(true)
	}
	if c.Layers.Lines == nil {
		c.Layers.Lines = boolPtr(true)
	}
	if c.Layers.Polygons == nil {
		c.Layers.Polygons = boolPtr(true)
	}
	if c.Map.ZoomStep <= 1 {
		c.Map.ZoomStep = DefaultZoomStep
	}
	if c.Map.MaxZoom <= 0 {
		c.Map.MaxZoom = DefaultMaxZoom
	}
	if c.Map.MinZoom <= 0 || c.Map.MinZoom >= c.Map.MaxZoom {
		c.Map.MinZoom = DefaultMinZoom
	}
}

func boolPtr(b bool) *bool { return &b }
