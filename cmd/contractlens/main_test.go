package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contractlens/internal/codec"
	"contractlens/internal/config"
	"contractlens/internal/domain"
	"contractlens/internal/layout"
	"contractlens/internal/scene"
)

func samplePayload() *domain.GraphPayload {
	payload := domain.NewGraphPayload("0xAAAAAAAAAAAAAAAA")
	payload.AddEdge("0xAAAAAAAAAAAAAAAA", "0xBBBBBBBBBBBBBBBB", map[string]int{"call": 4, "staticcall": 1})
	payload.AddEdge("0xAAAAAAAAAAAAAAAA", "0xCCCCCCCCCCCCCCCC", map[string]int{"call": 1})
	payload.AddEdge("0xBBBBBBBBBBBBBBBB", "0xDDDDDDDDDDDDDDDD", map[string]int{"delegatecall": 7})
	payload.Nodes = map[string]string{"0xBBBBBBBBBBBBBBBB": "Router"}
	return payload
}

// runCLI executes the root command with a config file in a temp dir
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "config.yaml")
	require.NoError(t, config.DefaultConfig().Save(cfgFile))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", cfgFile}, args...))
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return out.String(), err
}

func TestLayoutPayload(t *testing.T) {
	t.Run("runs until the simulation stops", func(t *testing.T) {
		frame, err := layoutPayload(samplePayload(), scene.DefaultOptions(), layoutOptions{MaxFrames: 2000})
		require.NoError(t, err)

		assert.Equal(t, layout.Stopped, frame.State)
		assert.Len(t, frame.Nodes, 4)
		assert.Len(t, frame.Links, 3)
		assert.Empty(t, frame.Markers)
		for _, node := range frame.Nodes {
			assert.False(t, node.X != node.X || node.Y != node.Y, "node %s has NaN position", node.ID)
		}
	})

	t.Run("frame budget bounds the run", func(t *testing.T) {
		frame, err := layoutPayload(samplePayload(), scene.DefaultOptions(), layoutOptions{MaxFrames: 3})
		require.NoError(t, err)

		assert.Equal(t, 3, frame.Ticks)
		assert.NotEqual(t, layout.Stopped, frame.State)
	})

	t.Run("highlight and flow", func(t *testing.T) {
		frame, err := layoutPayload(samplePayload(), scene.DefaultOptions(), layoutOptions{
			MaxFrames: 200,
			Flow:      true,
			Highlight: "0xBBBBBBBBBBBBBBBB",
		})
		require.NoError(t, err)

		assert.True(t, frame.FlowVisible)
		assert.Equal(t, "0xbbbbbbbbbbbbbbbb", frame.Focus)
	})
}

func TestReadPayload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.yaml")
	doc := "address: \"0xAA\"\nedges:\n  - source: \"0xAA\"\n    target: \"0xBB\"\n    types:\n      call: 1\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	payload, err := readPayload(path, "")
	require.NoError(t, err)
	assert.Equal(t, "0xAA", payload.Address)
	assert.Len(t, payload.Edges, 1)

	_, err = readPayload(path, "json")
	assert.Error(t, err)

	_, err = readPayload(filepath.Join(dir, "missing.json"), "")
	assert.Error(t, err)
}

func TestPrintInteractions(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	var buf bytes.Buffer
	printInteractions(&buf, samplePayload(), domain.InteractionFilter{IncludeIndirect: true}, "call", domain.SortDesc)
	out := buf.String()

	assert.Contains(t, out, "Direct dependencies")
	assert.Contains(t, out, "KIND")
	assert.Contains(t, out, "Router")
	assert.Contains(t, out, "Indirect")

	lines := strings.Split(out, "\n")
	var rows []string
	for _, line := range lines {
		if strings.HasPrefix(line, "  Direct  ") || strings.HasPrefix(line, "  Indirect  ") {
			rows = append(rows, line)
		}
	}
	require.Len(t, rows, 3)
	assert.Contains(t, rows[0], "Router")

	buf.Reset()
	printInteractions(&buf, samplePayload(), domain.InteractionFilter{Query: "nothing"}, "", domain.SortAsc)
	assert.Contains(t, buf.String(), "No interactions")
}

func TestRenderCommand(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	dir := t.TempDir()
	input := filepath.Join(dir, "graph.json")
	output := filepath.Join(dir, "graph.svg")

	f, err := os.Create(input)
	require.NoError(t, err)
	require.NoError(t, codec.NewJSONCodec().Export(samplePayload(), f))
	f.Close()

	out, err := runCLI(t, "render", input, "-o", output, "--max-frames", "50")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+output)

	svg, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(svg), "<svg")
	assert.Contains(t, string(svg), "Router")
}

func TestInteractionsCommandRequiresInput(t *testing.T) {
	_, err := runCLI(t, "interactions")
	assert.Error(t, err)
}

func TestConfigInit(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	path := filepath.Join(t.TempDir(), "sub", "contractlens.yaml")
	_, err := runCLI(t, "config", "init", path)
	require.NoError(t, err)

	cfg, _, err := config.LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, ":3000", cfg.Server.Addr)

	_, err = runCLI(t, "config", "init", path)
	assert.Error(t, err)
}
