// Package pipeline runs the load → classify → layout → render pipeline for
// codematrix.
//
// The CLI and the HTTP API both go through a [Runner], so caching, logging
// and validation behave the same at every entry point.
//
// # Stages
//
//  1. Load: decode and index a catalog document, hash it for cache keys
//  2. Classify: bucket nodes into the 16 matrix segments
//  3. Layout: place every classified node (matrix only)
//  4. Render: produce SVG, JSON, PNG or PDF artifacts
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Document: data,
//	    Formats:  []string{"svg", "json"},
//	})
//	svg := result.Artifacts["svg"]
//
// Stages also run on their own:
//
//	cat, hash, err := runner.Load(ctx, opts)
//	l, err := runner.Layout(ctx, cat, hash, opts)
//	artifacts, err := runner.Render(ctx, cat, l, hash, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/codematrix/pkg/cache"
	"github.com/matzehuels/codematrix/pkg/catalog"
	"github.com/matzehuels/codematrix/pkg/config"
	"github.com/matzehuels/codematrix/pkg/errors"
	"github.com/matzehuels/codematrix/pkg/layout"
)

// =============================================================================
// Defaults
// =============================================================================

// DefaultVizType is the default visualization type.
const DefaultVizType = config.VizMatrix

// DefaultPNGScale is the resolution multiplier for PNG output.
const DefaultPNGScale = 2.0

// =============================================================================
// Options
// =============================================================================

// Options configures one pipeline run. It is JSON-encodable so the HTTP API
// can accept it in request bodies.
type Options struct {
	// Document is the raw catalog JSON.
	Document []byte `json:"-"`
	// Source names the document in logs and metrics, e.g. a file path.
	Source string `json:"source,omitempty"`

	Layout  layout.Config `json:"layout"`
	VizType string        `json:"viz_type,omitempty"`

	Formats   []string `json:"formats,omitempty"`
	ShowEdges bool     `json:"show_edges,omitempty"`
	// Detailed adds type and location to nodelink labels.
	Detailed bool `json:"detailed,omitempty"`

	// Refresh skips cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// Result holds the outputs of [Runner.Execute].
type Result struct {
	Catalog *catalog.Catalog
	// DocHash is the content hash of the canonical document encoding.
	DocHash string
	// Layout is nil for nodelink runs.
	Layout    *layout.Layout
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	Placements int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation
// =============================================================================

// ValidateAndSetDefaults checks every stage's options and applies defaults.
// Calling it again is a no-op.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad requires a document.
func (o *Options) ValidateForLoad() error {
	if len(o.Document) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "catalog document is required")
	}
	if o.Source == "" {
		o.Source = "input"
	}
	o.setLogger()
	return nil
}

// SetLayoutDefaults fills in the built-in layout configuration and viz type.
func (o *Options) SetLayoutDefaults() {
	if o.Layout == (layout.Config{}) {
		o.Layout = layout.DefaultConfig()
	}
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	o.setLogger()
}

// ValidateForLayout applies defaults and checks the viz type and layout
// configuration.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := (config.Render{VizType: o.VizType}).Validate(); err != nil {
		return err
	}
	return o.Layout.Validate()
}

// SetRenderDefaults renders SVG when no format is given.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{config.FormatSVG}
	}
	o.setLogger()
}

// ValidateForRender applies defaults and checks formats.
func (o *Options) ValidateForRender() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	return (config.Render{VizType: o.VizType, Formats: o.Formats}).Validate()
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// IsNodelink reports whether this run draws the node-link diagram.
func (o *Options) IsNodelink() bool {
	return o.VizType == config.VizNodelink
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() (cache.LayoutKeyOpts, error) {
	h, err := cache.HashJSON(o.Layout)
	if err != nil {
		return cache.LayoutKeyOpts{}, err
	}
	return cache.LayoutKeyOpts{VizType: o.VizType, ConfigHash: h}, nil
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:    format,
		VizType:   o.VizType,
		ShowEdges: o.ShowEdges,
		Detailed:  o.Detailed,
	}
}
