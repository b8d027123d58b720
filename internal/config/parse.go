package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseValue interprets a command-line argument as a document value using
// YAML scalar rules: "42" is an int, "0.5" a float, "true" a bool and
// anything else a string. Flow lists ("[a, b]") and maps are accepted too.
func ParseValue(s string) (interface{}, error) {
	if strings.TrimSpace(s) == "" {
		return s, nil
	}

	var value interface{}
	if err := yaml.Unmarshal([]byte(s), &value); err != nil {
		return nil, fmt.Errorf("invalid value %q: %w", s, err)
	}
	if value == nil {
		return s, nil
	}
	return normalizeValue(value), nil
}
