package schema

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrEmptyDocument is returned when a definition file parses to nothing.
var ErrEmptyDocument = errors.New("empty definition document")

// Parse decodes a flow definition from raw YAML. Malformed YAML and empty
// documents are hard load failures.
func Parse(data []byte) (*FlowDefinition, error) {
	var probe any
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	if probe == nil {
		return nil, ErrEmptyDocument
	}

	var def FlowDefinition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("invalid definition: %w", err)
	}
	return &def, nil
}

// Load reads and parses a flow definition file.
func Load(path string) (*FlowDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("definition not found: %w", err)
	}
	def, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// LoadDefaults reads a defaults file and returns its `defaults` mapping.
func LoadDefaults(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("defaults file not found: %w", err)
	}
	var file DefaultsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("invalid defaults file %s: %w", path, err)
	}
	return file.Defaults, nil
}
