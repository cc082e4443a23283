package codec

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contractlens/internal/domain"
)

const yamlPayload = `
address: "0xAAA"
from_block: 100
edges:
  - source: "0xAAA"
    target: "0xBBB"
    types:
      call: 3
      staticcall: 1
nodes:
  "0xBBB": Router
`

func TestYAMLCodec(t *testing.T) {
	t.Run("parses and normalizes", func(t *testing.T) {
		payload, err := NewYAMLCodec().Parse(strings.NewReader(yamlPayload))

		require.NoError(t, err)
		assert.Equal(t, "0xAAA", payload.Address)
		require.NotNil(t, payload.FromBlock)
		assert.Equal(t, int64(100), *payload.FromBlock)
		assert.Nil(t, payload.ToBlock)
		require.Len(t, payload.Edges, 1)
		assert.Equal(t, map[string]int{"call": 3, "staticcall": 1}, payload.Edges[0].Types)
		assert.Equal(t, "Router", payload.Nodes["0xbbb"])
	})

	t.Run("empty document is an empty graph", func(t *testing.T) {
		payload, err := NewYAMLCodec().Parse(strings.NewReader(""))

		require.NoError(t, err)
		assert.NotNil(t, payload.Edges)
		assert.Empty(t, payload.Edges)
	})

	t.Run("invalid YAML", func(t *testing.T) {
		_, err := NewYAMLCodec().Parse(strings.NewReader("edges: [unclosed"))
		assert.Error(t, err)
	})

	t.Run("exports what it parses", func(t *testing.T) {
		c := NewYAMLCodec()
		payload, err := c.Parse(strings.NewReader(yamlPayload))
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, c.Export(payload, &buf))
		again, err := c.Parse(&buf)

		require.NoError(t, err)
		assert.Equal(t, payload, again)
	})
}

func TestJSONCodec(t *testing.T) {
	t.Run("parses and normalizes", func(t *testing.T) {
		payload, err := NewJSONCodec().Parse(strings.NewReader(`{"address":"0xA","edges":[{"source":"0xA","target":"0xB"}]}`))

		require.NoError(t, err)
		require.Len(t, payload.Edges, 1)
		assert.NotNil(t, payload.Edges[0].Types)
		assert.NotNil(t, payload.Nodes)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		_, err := NewJSONCodec().Parse(strings.NewReader(`{"edges":`))
		assert.Error(t, err)
	})

	t.Run("export is indented", func(t *testing.T) {
		payload := domain.NewGraphPayload("0xA")
		payload.AddEdge("0xA", "0xB", map[string]int{"call": 1})

		var buf bytes.Buffer
		require.NoError(t, NewJSONCodec().Export(payload, &buf))

		assert.Contains(t, buf.String(), "\n  \"address\": \"0xA\"")
	})
}

func TestSelection(t *testing.T) {
	c, err := ForFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, "yaml", c.Format())

	c, err = ForFormat("json")
	require.NoError(t, err)
	assert.Equal(t, "json", c.Format())

	_, err = ForFormat("toml")
	assert.Error(t, err)

	assert.Equal(t, "yaml", ForContentType("application/yaml; charset=utf-8").Format())
	assert.Equal(t, "json", ForContentType("application/json").Format())
	assert.Equal(t, "json", ForContentType("").Format())

	assert.Equal(t, "yaml", ForPath("graph.yaml").Format())
	assert.Equal(t, "json", ForPath("graph.json").Format())
	assert.Equal(t, "json", ForPath("graph").Format())
}
