package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"contractlens/internal/domain"
)

// JSONCodec handles JSON import/export
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// ContentType returns the media type of exported documents
func (c *JSONCodec) ContentType() string {
	return "application/json"
}

// Parse imports a payload from JSON
func (c *JSONCodec) Parse(r io.Reader) (*domain.GraphPayload, error) {
	var payload domain.GraphPayload
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	payload.Normalize()
	return &payload, nil
}

// Export exports a payload to JSON
func (c *JSONCodec) Export(payload *domain.GraphPayload, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(payload); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
