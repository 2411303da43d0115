package narration

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// WriteScript writes a script to a YAML file
func WriteScript(script *Script, path string) error {
	data, err := yaml.Marshal(script)
	if err != nil {
		return fmt.Errorf("marshal script: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// ReadScript reads a script from a YAML file
func ReadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse script %s: %w", path, err)
	}

	return &script, nil
}
