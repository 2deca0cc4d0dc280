package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/codematrix/pkg/cache"
	"github.com/matzehuels/codematrix/pkg/catalog"
	"github.com/matzehuels/codematrix/pkg/layout"
	"github.com/matzehuels/codematrix/pkg/observability"
)

// Cache key types reported to [observability.CacheHooks].
const (
	keyClassify = "classify"
	keyLayout   = "layout"
	keyArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner holds no per-run state; multiple goroutines can share one
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// A nil keyer means [cache.DefaultKeyer]; a nil cache disables caching.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	cat, docHash, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Catalog, result.DocHash = cat, docHash
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.NodeCount = cat.NodeCount()
	result.Stats.EdgeCount = cat.EdgeCount()

	// Stage 2: Layout
	if !opts.IsNodelink() {
		layoutStart := time.Now()
		l, hit, err := r.LayoutWithCacheInfo(ctx, cat, docHash, opts)
		if err != nil {
			return nil, fmt.Errorf("layout: %w", err)
		}
		result.Layout = l
		result.Stats.LayoutTime = time.Since(layoutStart)
		result.Stats.Placements = len(l.Placements)
		result.CacheInfo.LayoutHit = hit
	}

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, cat, result.Layout, docHash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = hit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load decodes the document in opts and returns the catalog and its hash.
// Loading is never cached; it is cheaper than a cache round trip.
func (r *Runner) Load(ctx context.Context, opts Options) (*catalog.Catalog, string, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLoad(); err != nil {
		return nil, "", err
	}

	start := time.Now()
	cat, hash, err := LoadCatalog(opts.Document)
	dur := time.Since(start)
	if err != nil {
		observability.Pipeline().OnLoadComplete(ctx, opts.Source, 0, 0, dur, err)
		return nil, "", err
	}
	observability.Pipeline().OnLoadComplete(ctx, opts.Source, cat.NodeCount(), cat.EdgeCount(), dur, nil)

	opts.Logger.Info("loaded catalog",
		"source", opts.Source,
		"nodes", cat.NodeCount(),
		"edges", cat.EdgeCount(),
		"duration", dur)
	return cat, hash, nil
}

// ClassifyWithCacheInfo buckets the catalog into segments with caching and
// reports whether the result came from cache.
func (r *Runner) ClassifyWithCacheInfo(ctx context.Context, cat *catalog.Catalog, docHash string, opts Options) (Classification, bool, error) {
	key := r.Keyer.ClassifyKey(docHash)

	if !opts.Refresh {
		if data, ok := r.get(ctx, keyClassify, key); ok {
			var cached Classification
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, true, nil
			}
		}
	}

	c := Classify(cat)
	if data, err := json.Marshal(c); err == nil {
		r.set(ctx, keyClassify, key, data, cache.TTLClassify)
	}
	return c, false, nil
}

// Classify is [Runner.ClassifyWithCacheInfo] without the cache hit info.
func (r *Runner) Classify(ctx context.Context, cat *catalog.Catalog, docHash string, opts Options) (Classification, error) {
	c, _, err := r.ClassifyWithCacheInfo(ctx, cat, docHash, opts)
	return c, err
}

// LayoutWithCacheInfo computes the matrix layout with caching and reports
// whether it came from cache.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, cat *catalog.Catalog, docHash string, opts Options) (*layout.Layout, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, false, err
	}

	keyOpts, err := opts.LayoutKeyOpts()
	if err != nil {
		return nil, false, fmt.Errorf("layout cache key: %w", err)
	}
	key := r.Keyer.LayoutKey(docHash, keyOpts)

	if !opts.Refresh {
		if data, ok := r.get(ctx, keyLayout, key); ok {
			var cached layout.Layout
			if err := json.Unmarshal(data, &cached); err == nil {
				attachNodes(&cached, cat)
				logDivergences(opts.Logger, &cached)
				return &cached, true, nil
			}
			// Undecodable entries are recomputed and overwritten.
		}
	}

	observability.Pipeline().OnLayoutStart(ctx, opts.VizType, cat.NodeCount())
	start := time.Now()
	l, err := ComputeLayout(cat, opts)
	dur := time.Since(start)
	if err != nil {
		observability.Pipeline().OnLayoutComplete(ctx, opts.VizType, 0, dur, err)
		return nil, false, err
	}
	observability.Pipeline().OnLayoutComplete(ctx, opts.VizType, len(l.Placements), dur, nil)

	opts.Logger.Info("computed layout",
		"placements", len(l.Placements),
		"duration", dur)
	logDivergences(opts.Logger, l)

	if data, err := json.Marshal(l); err == nil {
		r.set(ctx, keyLayout, key, data, cache.TTLLayout)
	}
	return l, false, nil
}

// logDivergences warns about every ownership divergence of l, whether it was
// computed or read from cache.
func logDivergences(logger *log.Logger, l *layout.Layout) {
	for _, d := range l.Divergences {
		logger.Warn("method ownership diverges",
			"method", d.Method,
			"edge_owner", d.EdgeOwner,
			"other_owner", d.OtherOwner,
			"reason", d.Reason)
	}
}

// Layout is [Runner.LayoutWithCacheInfo] without the cache hit info.
func (r *Runner) Layout(ctx context.Context, cat *catalog.Catalog, docHash string, opts Options) (*layout.Layout, error) {
	l, _, err := r.LayoutWithCacheInfo(ctx, cat, docHash, opts)
	return l, err
}

// RenderWithCacheInfo renders every requested format with caching. The hit
// flag is set only when all formats came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, cat *catalog.Catalog, l *layout.Layout, docHash string, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	// Matrix artifacts depend on the layout, nodelink ones on the document.
	base := docHash
	if !opts.IsNodelink() && l != nil {
		data, err := json.Marshal(l)
		if err != nil {
			return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
		}
		base = cache.Hash(data)
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	if !opts.Refresh {
		for _, format := range opts.Formats {
			data, ok := r.get(ctx, keyArtifact, r.Keyer.ArtifactKey(base, opts.ArtifactKeyOpts(format)))
			if !ok {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := Render(ctx, cat, l, docHash, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		r.set(ctx, keyArtifact, r.Keyer.ArtifactKey(base, opts.ArtifactKeyOpts(format)), data, cache.TTLArtifact)
	}
	return rendered, false, nil
}

// Render is [Runner.RenderWithCacheInfo] without the cache hit info.
func (r *Runner) Render(ctx context.Context, cat *catalog.Catalog, l *layout.Layout, docHash string, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, cat, l, docHash, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// get reads key and reports the lookup. Read errors count as misses.
func (r *Runner) get(ctx context.Context, keyType, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Debug("cache read failed", "key", key, "error", err)
		hit = false
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, keyType)
	} else {
		observability.Cache().OnCacheMiss(ctx, keyType)
	}
	return data, hit
}

// set writes key. Write errors are logged, never returned.
func (r *Runner) set(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
