package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/codematrix/pkg/catalog"
	"github.com/matzehuels/codematrix/pkg/config"
	"github.com/matzehuels/codematrix/pkg/errors"
	"github.com/matzehuels/codematrix/pkg/layout"
	"github.com/matzehuels/codematrix/pkg/render/nodelink"
	"github.com/matzehuels/codematrix/pkg/render/sink"
)

// Render produces every requested format concurrently. Matrix runs need l;
// nodelink runs draw from cat alone.
func Render(ctx context.Context, cat *catalog.Catalog, l *layout.Layout, docHash string, opts Options) (map[string][]byte, error) {
	var renderOne func(ctx context.Context, format string) ([]byte, error)
	if opts.IsNodelink() {
		dot := nodelink.ToDOT(cat, nodelink.Options{Detailed: opts.Detailed, Clusters: true})
		renderOne = func(ctx context.Context, format string) ([]byte, error) {
			return renderNodelink(ctx, dot, docHash, format)
		}
	} else {
		if l == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "matrix rendering needs a layout")
		}
		svgOpts := []sink.SVGOption{sink.WithCatalog(cat), sink.WithTitle(opts.Source)}
		if opts.ShowEdges {
			svgOpts = append(svgOpts, sink.WithEdges(catalog.EdgeCalls))
		}
		renderOne = func(ctx context.Context, format string) ([]byte, error) {
			return renderMatrix(ctx, l, svgOpts, docHash, format)
		}
	}

	var mu sync.Mutex
	artifacts := make(map[string][]byte, len(opts.Formats))
	g, gctx := errgroup.WithContext(ctx)
	for _, format := range opts.Formats {
		g.Go(func() error {
			data, err := renderOne(gctx, format)
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

func renderMatrix(ctx context.Context, l *layout.Layout, svgOpts []sink.SVGOption, docHash, format string) ([]byte, error) {
	switch format {
	case config.FormatSVG:
		return sink.RenderSVG(l, svgOpts...), nil
	case config.FormatJSON:
		return sink.RenderJSON(l, sink.WithSource(docHash))
	case config.FormatPNG:
		return sink.RenderPNG(ctx, l, sink.WithSVGOptions(svgOpts...), sink.WithScale(DefaultPNGScale))
	case config.FormatPDF:
		return sink.RenderPDF(ctx, l, sink.WithSVGOptions(svgOpts...))
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported matrix format %q", format)
}

// nodelinkJSON is the JSON artifact of a nodelink run.
type nodelinkJSON struct {
	VizType string `json:"viz_type"`
	Source  string `json:"source,omitempty"`
	DOT     string `json:"dot"`
}

func renderNodelink(ctx context.Context, dot, docHash, format string) ([]byte, error) {
	switch format {
	case config.FormatSVG:
		return nodelink.RenderSVG(ctx, dot)
	case config.FormatJSON:
		return json.MarshalIndent(nodelinkJSON{VizType: config.VizNodelink, Source: docHash, DOT: dot}, "", "  ")
	case config.FormatPNG:
		return nodelink.RenderPNG(ctx, dot, DefaultPNGScale)
	case config.FormatPDF:
		return nodelink.RenderPDF(ctx, dot)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported nodelink format %q", format)
}
