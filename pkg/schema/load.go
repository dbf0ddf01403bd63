package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Format identifies the encoding of a definition document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the format from the file extension. Anything that is not
// ".json" is read as YAML.
func FormatFromPath(path string) Format {
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		return FormatJSON
	}
	return FormatYAML
}

// Parse decodes a definition document.
func Parse(data []byte, format Format) (*domain.Machine, error) {
	raw := make(map[string]any)

	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: failed to parse json: %v", domain.ErrMalformedMachine, err)
		}
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: failed to parse yaml: %v", domain.ErrMalformedMachine, err)
		}
	}

	return FromMap(raw)
}

// LoadFile reads and decodes a definition file. The machine name defaults to the
// file name without its extension.
func LoadFile(path string) (*domain.Machine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read machine definition: %w", err)
	}

	m, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if m.Name == "" {
		m.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return m, nil
}

// Marshal encodes a machine as a definition document.
func Marshal(m *domain.Machine, format Format) ([]byte, error) {
	doc := ToDocument(m)
	if format == FormatJSON {
		return json.MarshalIndent(doc, "", "  ")
	}
	return yaml.Marshal(doc)
}

// FromValue decodes a definition embedded in a larger payload: either a document
// string (YAML or JSON) or an already-decoded object.
func FromValue(v any) (*domain.Machine, error) {
	switch val := v.(type) {
	case string:
		return Parse([]byte(val), FormatYAML)
	case []byte:
		return Parse(val, FormatYAML)
	case map[string]any:
		return FromMap(val)
	case nil:
		return nil, fmt.Errorf("%w: missing definition", domain.ErrMalformedMachine)
	}
	return nil, fmt.Errorf("%w: unsupported definition type %T", domain.ErrMalformedMachine, v)
}
