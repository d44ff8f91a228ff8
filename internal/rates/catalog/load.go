package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// DefaultConfig returns the bundled game data.
func DefaultConfig() (Config, error) {
	var cfg Config
	if err := decodeYAML(defaultYAML, &cfg); err != nil {
		return Config{}, fmt.Errorf("decoding default catalog: %w", err)
	}
	return cfg, nil
}

// Default builds a catalog from the bundled game data.
func Default() (*Catalog, error) {
	cfg, err := DefaultConfig()
	if err != nil {
		return nil, err
	}
	return New(cfg)
}

// LoadConfig reads a catalog file. Files ending in .json are decoded as JSON,
// anything else as YAML.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading catalog file: %w", err)
	}

	var cfg Config
	if strings.EqualFold(filepath.Ext(path), ".json") {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", path, err)
		}
		return cfg, nil
	}
	if err := decodeYAML(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Load reads and validates a catalog file.
func Load(path string) (*Catalog, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return New(cfg)
}

func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(cfg)
}
