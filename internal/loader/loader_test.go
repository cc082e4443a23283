package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const yamlDoc = `address: "0xAA"
edges:
  - source: "0xAA"
    target: "0xBB"
    types:
      call: 2
nodes:
  "0xBB": Token
`

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("format from extension", func(t *testing.T) {
		path := filepath.Join(dir, "graph.yml")
		if err := os.WriteFile(path, []byte(yamlDoc), 0644); err != nil {
			t.Fatal(err)
		}

		payload, err := LoadFile(path, "")
		if err != nil {
			t.Fatalf("LoadFile() error: %v", err)
		}
		if payload.Address != "0xAA" {
			t.Errorf("Address = %s, want 0xAA", payload.Address)
		}
		if len(payload.Edges) != 1 || payload.Edges[0].Types["call"] != 2 {
			t.Errorf("Edges = %+v", payload.Edges)
		}
		if name, ok := payload.Name("0xbb"); !ok || name != "Token" {
			t.Errorf("Name(0xbb) = %q, %v", name, ok)
		}
	})

	t.Run("explicit format wins", func(t *testing.T) {
		path := filepath.Join(dir, "graph.txt")
		if err := os.WriteFile(path, []byte(`{"address":"0xCC","edges":[]}`), 0644); err != nil {
			t.Fatal(err)
		}

		payload, err := LoadFile(path, "json")
		if err != nil {
			t.Fatalf("LoadFile() error: %v", err)
		}
		if payload.Address != "0xCC" {
			t.Errorf("Address = %s, want 0xCC", payload.Address)
		}
	})

	t.Run("errors", func(t *testing.T) {
		if _, err := LoadFile(filepath.Join(dir, "missing.json"), ""); err == nil {
			t.Error("LoadFile() should fail for a missing file")
		}

		path := filepath.Join(dir, "broken.json")
		os.WriteFile(path, []byte("{"), 0644)
		if _, err := LoadFile(path, ""); err == nil {
			t.Error("LoadFile() should fail for malformed JSON")
		}

		if _, err := LoadFile(path, "toml"); err == nil {
			t.Error("LoadFile() should reject an unknown format")
		}
	})
}

func TestLoad(t *testing.T) {
	payload, err := Load(strings.NewReader(yamlDoc), "yaml")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(payload.Edges) != 1 {
		t.Errorf("len(Edges) = %d, want 1", len(payload.Edges))
	}

	payload, err = Load(strings.NewReader(""), "yaml")
	if err != nil {
		t.Fatalf("Load() of an empty document error: %v", err)
	}
	if payload.Edges == nil || len(payload.Edges) != 0 {
		t.Errorf("empty document should give an empty edge list, got %v", payload.Edges)
	}
}
