// Package loader reads dependency payloads from files.
package loader

import (
	"fmt"
	"io"
	"os"

	"contractlens/internal/codec"
	"contractlens/internal/domain"
)

// Load decodes a payload from r in the given format ("json", "yaml" or "yml")
func Load(r io.Reader, format string) (*domain.GraphPayload, error) {
	c, err := codec.ForFormat(format)
	if err != nil {
		return nil, err
	}
	return c.Parse(r)
}

// LoadFile decodes a payload file. An empty format is taken from the file
// extension, defaulting to JSON.
func LoadFile(path, format string) (*domain.GraphPayload, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open payload: %w", err)
	}
	defer f.Close()

	var c codec.Codec
	if format == "" {
		c = codec.ForPath(path)
	} else if c, err = codec.ForFormat(format); err != nil {
		return nil, err
	}

	payload, err := c.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return payload, nil
}
