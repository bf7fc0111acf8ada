package typed

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Serializer defines how a value is encoded into a stored blob.
type Serializer interface {
	// Name identifies the format ("json", "yaml").
	Name() string
	// Extension is the file extension used by file-backed stores.
	Extension() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// DefaultSerializers returns the standard set of serializers keyed by name.
func DefaultSerializers() map[string]Serializer {
	return map[string]Serializer{
		"json": NewJSONSerializer(false),
		"yaml": NewYAMLSerializer(),
	}
}

// SerializerFor resolves a serializer by name or extension.
func SerializerFor(name string) (Serializer, error) {
	key := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), ".")
	if key == "" {
		key = "json"
	}
	if key == "yml" {
		key = "yaml"
	}
	if s, ok := DefaultSerializers()[key]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("unknown serializer %q (available: %s)", name, strings.Join(SerializerNames(), ", "))
}

// SerializerNames lists the registered serializer names.
func SerializerNames() []string {
	names := make([]string, 0, 2)
	for name := range DefaultSerializers() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// --- JSON Serializer ---

// JSONSerializer encodes values as indented JSON.
type JSONSerializer struct {
	// Strict decodes numbers into json.Number when the target is untyped,
	// avoiding float64 precision loss.
	Strict bool
}

// NewJSONSerializer creates a new JSON serializer.
func NewJSONSerializer(strict bool) *JSONSerializer {
	return &JSONSerializer{Strict: strict}
}

func (s *JSONSerializer) Name() string      { return "json" }
func (s *JSONSerializer) Extension() string { return ".json" }

func (s *JSONSerializer) Marshal(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

func (s *JSONSerializer) Unmarshal(data []byte, v any) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	if s.Strict {
		decoder.UseNumber()
	}
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}

// --- YAML Serializer ---

// YAMLSerializer encodes values as YAML documents.
type YAMLSerializer struct{}

// NewYAMLSerializer creates a new YAML serializer.
func NewYAMLSerializer() *YAMLSerializer {
	return &YAMLSerializer{}
}

func (s *YAMLSerializer) Name() string      { return "yaml" }
func (s *YAMLSerializer) Extension() string { return ".yaml" }

func (s *YAMLSerializer) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return nil, err
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *YAMLSerializer) Unmarshal(data []byte, v any) error {
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("invalid yaml: %w", err)
	}
	return nil
}
