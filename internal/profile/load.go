package profile

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Load reads a profile from a YAML (.yaml, .yml) or JSON (.json) file.
// The returned profile has defaults applied but is not validated.
func Load(path string) (ActivityProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ActivityProfile{}, fmt.Errorf("reading profile %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return DecodeJSON(data)
	case ".yaml", ".yml", "":
		return DecodeYAML(data)
	default:
		return ActivityProfile{}, fmt.Errorf("reading profile %s: unsupported extension %q", path, ext)
	}
}

// DecodeYAML parses a YAML profile. Unknown fields are rejected.
func DecodeYAML(data []byte) (ActivityProfile, error) {
	var p ActivityProfile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return ActivityProfile{}, fmt.Errorf("decoding profile yaml: %w", err)
	}
	return p.WithDefaults(), nil
}

// DecodeJSON parses a JSON profile. Unknown fields are rejected.
func DecodeJSON(data []byte) (ActivityProfile, error) {
	var p ActivityProfile
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return ActivityProfile{}, fmt.Errorf("decoding profile json: %w", err)
	}
	return p.WithDefaults(), nil
}
