package codec

import (
	"errors"
	"fmt"
	"io"

	"contractlens/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec handles YAML import/export
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// ContentType returns the media type of exported documents
func (c *YAMLCodec) ContentType() string {
	return "application/yaml"
}

// Parse imports a payload from YAML. An empty document is an empty graph.
func (c *YAMLCodec) Parse(r io.Reader) (*domain.GraphPayload, error) {
	var payload domain.GraphPayload
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	payload.Normalize()
	return &payload, nil
}

// Export exports a payload to YAML
func (c *YAMLCodec) Export(payload *domain.GraphPayload, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	if err := encoder.Encode(payload); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to flush YAML: %w", err)
	}

	return nil
}
