package sink

import (
	"context"

	"github.com/matzehuels/codematrix/pkg/layout"
	"github.com/matzehuels/codematrix/pkg/render"
)

// ConvertOption configures PNG and PDF output.
type ConvertOption func(*converted)

type converted struct {
	svgOpts []SVGOption
	scale   float64
}

// WithSVGOptions passes options through to the SVG that gets converted.
func WithSVGOptions(opts ...SVGOption) ConvertOption {
	return func(c *converted) { c.svgOpts = append(c.svgOpts, opts...) }
}

// WithScale sets the PNG scale factor. Ignored for PDF.
func WithScale(s float64) ConvertOption {
	return func(c *converted) { c.scale = s }
}

func newConverted(opts []ConvertOption) converted {
	c := converted{scale: 2}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// RenderPNG draws the layout as SVG and rasterizes it with rsvg-convert.
func RenderPNG(ctx context.Context, l *layout.Layout, opts ...ConvertOption) ([]byte, error) {
	c := newConverted(opts)
	return render.ToPNG(ctx, RenderSVG(l, c.svgOpts...), c.scale)
}

// RenderPDF draws the layout as SVG and converts it with rsvg-convert.
func RenderPDF(ctx context.Context, l *layout.Layout, opts ...ConvertOption) ([]byte, error) {
	c := newConverted(opts)
	return render.ToPDF(ctx, RenderSVG(l, c.svgOpts...))
}
