package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	yaml "go.yaml.in/yaml/v3"
)

// coerceToJSON rewrites a YAML config as JSON bytes so one strict JSON
// decoder (DisallowUnknownFields) covers both formats. Files without a
// .yaml/.yml extension pass through untouched.
//
// yaml.v3 decodes mappings into map[string]any, which json.Marshal accepts
// directly; no key normalization is needed.
func coerceToJSON(path string, data []byte) ([]byte, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return data, nil
	}

	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}
	j, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("yaml->json marshal: %w", err)
	}
	return j, nil
}
