package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contractlens/internal/domain"
	"contractlens/internal/loop"
	"contractlens/internal/scene"
)

func testFrame(t *testing.T, visible bool) *scene.Frame {
	t.Helper()
	l := loop.New(loop.DefaultFrameInterval)
	st := scene.NewStage(l, scene.DefaultOptions(), nil)

	payload := domain.NewGraphPayload("0xAAAAAAAAAAAAAAAA")
	payload.AddEdge("0xAAAAAAAAAAAAAAAA", "0xBBBBBBBBBBBBBBBB", map[string]int{"call": 16})
	payload.Nodes = map[string]string{"0xbbbbbbbbbbbbbbbb": "Vault <v2>"}
	st.Load(payload)
	l.Advance(700 * time.Millisecond)
	require.NoError(t, st.SetFlowVisible(visible))
	require.NoError(t, st.Pan(10, 20))

	frame, err := st.Snapshot()
	require.NoError(t, err)
	return frame
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestSVG(t *testing.T) {
	t.Run("draws the scene", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, SVG(&buf, testFrame(t, true)))

		out := buf.String()
		assert.True(t, strings.HasPrefix(out, "<?xml"))
		assert.Contains(t, out, `width="800"`)
		assert.Contains(t, out, `height="600"`)
		assert.Contains(t, out, `transform="translate(10,20) scale(1)"`)
		assert.Contains(t, out, "#C5BAFF")
		assert.Contains(t, out, "#91b8ff")
		assert.Contains(t, out, "stroke-width:4.000")
		assert.Contains(t, out, "Vault &lt;v2&gt;")
		assert.Contains(t, out, "0xAAAA...AAAA")
		assert.Contains(t, out, `r="10"`)
		assert.Contains(t, out, `r="5"`)
		assert.Contains(t, out, `r="2"`)
		assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "</svg>"))
	})

	t.Run("hidden markers are not drawn", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, SVG(&buf, testFrame(t, false)))
		assert.NotContains(t, buf.String(), `r="2"`)
	})

	t.Run("nil frame", func(t *testing.T) {
		assert.Error(t, SVG(&bytes.Buffer{}, nil))
	})

	t.Run("write errors are reported", func(t *testing.T) {
		err := SVG(failingWriter{}, testFrame(t, true))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
	})
}
