// Package dot renders the Graphviz DOT text a FrameGraph already
// produces (see FrameGraph.ExportGraphviz) into an SVG image, for
// visual debugging of pass culling decisions.
package dot

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
)

// RenderSVG parses dotText — as produced by FrameGraph.ExportGraphviz —
// and renders it to a complete SVG document.
//
// Errors are wrapped with fmt.Errorf's %w, suitable for errors.Is/As.
func RenderSVG(dotText string) ([]byte, error) {
	gv, err := graphviz.New(context.Background())
	if err != nil {
		return nil, fmt.Errorf("dot: init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dotText))
	if err != nil {
		return nil, fmt.Errorf("dot: parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(context.Background(), g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("dot: render: %w", err)
	}
	return buf.Bytes(), nil
}
