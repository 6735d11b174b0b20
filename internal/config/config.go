package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config carries one render invocation, assembled by the CLI.
type Config struct {
	InputPath    string
	TemplatePath string // empty derives the paired .json from InputPath
	OutputPath   string
	Texts        []string
	Workers      int
	Delay        int // frame delay for still-image inputs, 100ths of a second
	FontDir      string
	QRContent    string
	QRSize       int
}

// FileConfig is the optional YAML overrides file. Values fill in
// settings the command line left unset.
type FileConfig struct {
	FontDir string `yaml:"font_dir"`
	Workers int    `yaml:"workers"`
	Delay   int    `yaml:"delay"`
	QRSize  int    `yaml:"qr_size"`
}

// LoadFile reads a YAML overrides file.
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &fc, nil
}

// Apply fills zero-valued settings from the overrides file. Explicit
// command-line values always win.
func (c *Config) Apply(fc *FileConfig) {
	if fc == nil {
		return
	}
	if c.FontDir == "" {
		c.FontDir = fc.FontDir
	}
	if c.Workers == 0 {
		c.Workers = fc.Workers
	}
	if c.Delay == 0 {
		c.Delay = fc.Delay
	}
	if c.QRSize == 0 {
		c.QRSize = fc.QRSize
	}
}
