// Command fgdemo builds a small depth-prepass-then-color frame graph,
// compiles it, and writes out the Graphviz DOT (and optionally SVG)
// describing which passes survived culling.
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/framegraph"
	"github.com/gogpu/framegraph/driver"
	"github.com/gogpu/framegraph/internal/dot"
	"github.com/gogpu/framegraph/resource"
)

func main() {
	var (
		dotOut  = flag.String("dot", "fgdemo.dot", "output path for the Graphviz DOT text")
		svgOut  = flag.String("svg", "", "output path for an SVG render of the graph (requires graphviz)")
		verbose = flag.Bool("v", false, "enable debug logging")
		skipCol = flag.Bool("skip-color-pass", false, "omit the color pass, forcing the depth prepass to be culled")
	)
	flag.Parse()

	if *verbose {
		framegraph.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	fg := framegraph.New(&stubAllocator{})
	buildDepthPrepassDemo(fg, *skipCol)
	fg.Compile()

	text := fg.ExportGraphviz("fgdemo")
	if err := os.WriteFile(*dotOut, []byte(text), 0o644); err != nil {
		log.Fatalf("fgdemo: write dot: %v", err)
	}
	log.Printf("fgdemo: wrote %s", *dotOut)

	if *svgOut != "" {
		svg, err := dot.RenderSVG(text)
		if err != nil {
			log.Fatalf("fgdemo: render svg: %v", err)
		}
		if err := os.WriteFile(*svgOut, svg, 0o644); err != nil {
			log.Fatalf("fgdemo: write svg: %v", err)
		}
		log.Printf("fgdemo: wrote %s", *svgOut)
	}

	if err := fg.Execute(&loggingDriver{}); err != nil {
		log.Fatalf("fgdemo: execute: %v", err)
	}
}

// buildDepthPrepassDemo is scenario S5: a depth prepass writes D, the
// color pass reads D, writes D again, and writes the final color
// target, which is presented. With skipColorPass set, nothing ever
// reads the depth pass's output and it should be culled entirely.
func buildDepthPrepassDemo(fg *framegraph.FrameGraph, skipColorPass bool) {
	var depth framegraph.Handle[resource.TextureResource]

	fg.AddPass("depth-prepass", func(b *framegraph.Builder) {
		depth = framegraph.CreateTexture(b, "depth", resource.TextureDescriptor{
			Width: 1920, Height: 1080, Format: resource.TextureFormatDepth32Float,
		})
		depth = framegraph.WriteTexture(b, depth, resource.TextureUsageDepthStencilAttachment)
	}, func(r *framegraph.Resources, d driver.Driver) error {
		log.Printf("fgdemo: depth-prepass executing against %s", r.PassName())
		return nil
	})

	if skipColorPass {
		return
	}

	var color framegraph.Handle[resource.TextureResource]
	fg.AddPass("color-pass", func(b *framegraph.Builder) {
		depth = framegraph.ReadTexture(b, depth, resource.TextureUsageSampled)
		depth = framegraph.WriteTexture(b, depth, resource.TextureUsageDepthStencilAttachment)
		color = framegraph.CreateTexture(b, "color", resource.TextureDescriptor{
			Width: 1920, Height: 1080, Format: resource.TextureFormatRGBA8Unorm,
		})
		color = framegraph.WriteTexture(b, color, resource.TextureUsageColorAttachment)
	}, func(r *framegraph.Resources, d driver.Driver) error {
		log.Printf("fgdemo: color-pass executing against %s", r.PassName())
		return nil
	})

	framegraph.Present(fg, color, resource.TextureUsageColorAttachment)
}

// stubAllocator logs every (de)allocation instead of touching a real
// GPU, so this demo has no dependency on a live device.
type stubAllocator struct{}

func (stubAllocator) CreateTexture(name string, desc resource.TextureDescriptor, usage resource.TextureUsage) (*resource.TextureBackend, error) {
	log.Printf("fgdemo: create texture %q (%dx%d)", name, desc.Width, desc.Height)
	return &resource.TextureBackend{Desc: desc}, nil
}

func (stubAllocator) DestroyTexture(tex *resource.TextureBackend) error {
	log.Printf("fgdemo: destroy texture")
	return nil
}

func (stubAllocator) CreateBuffer(name string, desc resource.BufferDescriptor, usage resource.BufferUsage) (*resource.BufferBackend, error) {
	log.Printf("fgdemo: create buffer %q (%d bytes)", name, desc.Size)
	return &resource.BufferBackend{Desc: desc}, nil
}

func (stubAllocator) DestroyBuffer(buf *resource.BufferBackend) error {
	log.Printf("fgdemo: destroy buffer")
	return nil
}

// loggingDriver prints group markers instead of submitting to a real
// command queue.
type loggingDriver struct{}

func (loggingDriver) PushGroupMarker(name string) { log.Printf("fgdemo: > %s", name) }
func (loggingDriver) PopGroupMarker()             { log.Printf("fgdemo: <") }
func (loggingDriver) Flush()                      { log.Printf("fgdemo: flush") }
