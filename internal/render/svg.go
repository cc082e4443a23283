// Package render draws scene frames as standalone SVG documents.
package render

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"contractlens/internal/scene"
)

const (
	background  = "white"
	cornerRound = 8
	markerFill  = "#fff"
	markerSize  = 2
	labelSize   = 10
	labelOffset = 8
)

// errWriter remembers the first write error so a render can be checked once
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) Write(p []byte) (int, error) {
	if ew.err != nil {
		return 0, ew.err
	}
	n, err := ew.w.Write(p)
	ew.err = err
	return n, err
}

// SVG writes a frame as an SVG document sized to the frame's canvas. Nodes
// and links are drawn inside a group carrying the viewport transform, links
// first so nodes sit on top of them.
func SVG(w io.Writer, frame *scene.Frame) error {
	if frame == nil {
		return fmt.Errorf("render svg: nil frame")
	}

	ew := &errWriter{w: w}
	width, height := int(math.Round(frame.Width)), int(math.Round(frame.Height))

	canvas := svg.New(ew)
	canvas.Start(width, height)
	canvas.Title(fmt.Sprintf("Dependencies of %s", frame.Address))
	canvas.Roundrect(0, 0, width, height, cornerRound, cornerRound, "fill:"+background)

	canvas.Gtransform(frame.Transform.String())

	canvas.Gid("links")
	for _, link := range frame.Links {
		canvas.Line(px(link.X1), px(link.Y1), px(link.X2), px(link.Y2),
			fmt.Sprintf("stroke:%s;stroke-opacity:%g;stroke-width:%.3f", link.Style.Stroke, link.Style.Opacity, link.Width))
	}
	canvas.Gend()

	canvas.Gid("flow")
	if frame.FlowVisible {
		for _, marker := range frame.Markers {
			canvas.Circle(px(marker.X), px(marker.Y), markerSize,
				fmt.Sprintf("fill:%s;opacity:%.3f", markerFill, marker.Opacity))
		}
	}
	canvas.Gend()

	canvas.Gid("nodes")
	for _, node := range frame.Nodes {
		canvas.Circle(px(node.X), px(node.Y), int(node.Radius),
			fmt.Sprintf("fill:%s;stroke:#fff;stroke-width:%g;opacity:%g", node.Fill, node.Style.StrokeWidth, node.Style.Opacity))
	}
	canvas.Gend()

	canvas.Gid("labels")
	for _, node := range frame.Nodes {
		canvas.Text(px(node.X)+labelOffset, px(node.Y), node.Label,
			fmt.Sprintf("font-size:%dpx;font-family:sans-serif;dominant-baseline:middle;opacity:%g", labelSize, node.Style.Opacity))
	}
	canvas.Gend()

	canvas.Gend()
	canvas.End()

	if ew.err != nil {
		return fmt.Errorf("render svg: %w", ew.err)
	}
	return nil
}

func px(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(math.Round(v))
}
