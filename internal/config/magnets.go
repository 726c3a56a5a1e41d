package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadMagnetsFile reads a YAML mapping of keyword to URL:
//
//	n8n: https://n8n.io/
//	make: https://example.com/make-guide
func LoadMagnetsFile(path string) (KeywordMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lead magnets file: %w", err)
	}

	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse lead magnets file %s: %w", path, err)
	}

	out := make(KeywordMap, len(raw))
	for k, v := range raw {
		if err := out.add(k, v); err != nil {
			return nil, fmt.Errorf("lead magnets file %s: %w", path, err)
		}
	}
	return out, nil
}
