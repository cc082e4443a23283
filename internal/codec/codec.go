// Package codec reads and writes dependency payloads in the formats the
// server and CLI accept.
package codec

import (
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"contractlens/internal/domain"
)

// Importer interface for importing payloads from various formats
type Importer interface {
	Parse(r io.Reader) (*domain.GraphPayload, error)
	Format() string
}

// Exporter interface for exporting payloads to various formats
type Exporter interface {
	Export(payload *domain.GraphPayload, w io.Writer) error
	Format() string
	ContentType() string
}

// Codec both imports and exports a format
type Codec interface {
	Importer
	Exporter
}

// ForFormat returns the codec for a format name ("json", "yaml" or "yml")
func ForFormat(format string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	}
	return nil, fmt.Errorf("unsupported format: %s", format)
}

// ForContentType picks a codec from a Content-Type header, defaulting to JSON
func ForContentType(contentType string) Codec {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return NewJSONCodec()
	}
	switch mediaType {
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return NewYAMLCodec()
	}
	return NewJSONCodec()
}

// ForPath picks a codec from a file extension, defaulting to JSON
func ForPath(path string) Codec {
	c, err := ForFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return NewJSONCodec()
	}
	return c
}
