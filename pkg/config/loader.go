// Package config loads declarative seed fixtures from YAML or JSON files.
// A fixture file holds the same mapping a SeedFunc returns: model name to
// an array of records (collection) or a single record (singleton). Fixture
// data is plain values only; computed fields must be declared in Go.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ohler55/ojg/oj"
	"gopkg.in/yaml.v3"
)

// Common errors for fixture loading.
var (
	ErrFileNotFound = errors.New("fixture file not found")
	ErrInvalidJSON  = errors.New("invalid JSON syntax")
	ErrInvalidYAML  = errors.New("invalid YAML syntax")
	ErrEmptyFile    = errors.New("fixture file is empty")
)

// LoadSeedFile reads a seed mapping from a JSON or YAML file. The format is
// auto-detected from the extension (.yaml/.yml for YAML, otherwise JSON).
func LoadSeedFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".yaml" || ext == ".yml" {
		return parseYAML(data)
	}
	return parseJSON(data)
}

// MustSeed wraps LoadSeedFile into a seed function, panicking on load
// failure. A broken fixture is a programmer mistake in test setup.
func MustSeed(path string) func() map[string]any {
	return func() map[string]any {
		seed, err := LoadSeedFile(path)
		if err != nil {
			panic(err)
		}
		return seed
	}
}

func parseYAML(data []byte) (map[string]any, error) {
	var seed map[string]any
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}
	return seed, nil
}

func parseJSON(data []byte) (map[string]any, error) {
	value, err := oj.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	seed, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: top level must be an object", ErrInvalidJSON)
	}
	return seed, nil
}
