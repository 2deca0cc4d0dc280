package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/matzehuels/codematrix/pkg/cache"
	"github.com/matzehuels/codematrix/pkg/config"
	"github.com/matzehuels/codematrix/pkg/errors"
	"github.com/matzehuels/codematrix/pkg/pipeline"
	"github.com/matzehuels/codematrix/pkg/render/sink"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string
	vizType   string
	showEdges bool
	detailed  bool
	noCache   bool
	refresh   bool
	watch     bool
}

// renderCommand creates the render command. It accepts a catalog, or a
// layout written by the layout command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		ro         renderOpts
		lf         layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "render [catalog.json | layout.json]",
		Short: "Render a catalog or a computed layout",
		Long: `Render a catalog as a matrix (default) or as a node-link diagram.

A catalog input runs the full pipeline: classify, layout, render. A layout
input (from 'codematrix layout') is rendered directly. Outputs are written
next to the input as <name>.<type>.<format> unless -o is given.

PNG and PDF output need rsvg-convert on PATH.`,
		Example: `  codematrix render catalog.json
  codematrix render catalog.json -f svg,png --edges
  codematrix render catalog.json -t nodelink --detailed
  codematrix render catalog.json --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := lf.apply(cmd, &cfg.Layout); err != nil {
				return err
			}
			if f := parseFormats(formatsStr); f != nil {
				cfg.Render.Formats = f
			}
			if cmd.Flags().Changed("type") {
				cfg.Render.VizType = ro.vizType
			}
			if cmd.Flags().Changed("edges") {
				cfg.Render.ShowEdges = ro.showEdges
			}
			if err := cfg.Render.Validate(); err != nil {
				return err
			}

			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, cfg, ro.noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			input := args[0]
			if ro.watch {
				if input == stdinName {
					return errors.New(errors.ErrCodeInvalidInput, "--watch needs a file, not stdin")
				}
				// Render once up front; a broken file still starts the watch.
				if err := c.runRender(ctx, runner, cfg, input, ro); err != nil {
					printError("%v", err)
				}
				return watchFile(ctx, input, watchDebounce, c.Logger, func(ctx context.Context) error {
					return c.runRender(ctx, runner, cfg, input, ro)
				})
			}
			return c.runRender(ctx, runner, cfg, input, ro)
		},
	}

	cmd.Flags().StringVarP(&ro.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&ro.vizType, "type", "t", config.VizMatrix, "visualization type: matrix, nodelink")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, png, pdf (comma-separated)")
	cmd.Flags().BoolVar(&ro.showEdges, "edges", false, "draw call edges between boxes (matrix)")
	cmd.Flags().BoolVar(&ro.detailed, "detailed", false, "show type, file and segment in node labels (nodelink)")
	cmd.Flags().BoolVar(&ro.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&ro.refresh, "refresh", false, "recompute and overwrite cached results")
	cmd.Flags().BoolVarP(&ro.watch, "watch", "w", false, "re-render whenever the input changes")
	lf.register(cmd)

	return cmd
}

// runRender renders input once and writes every artifact.
func (c *CLI) runRender(ctx context.Context, runner *pipeline.Runner, cfg config.Config, input string, ro renderOpts) error {
	prog := newProgress(c.Logger)
	data, err := readInput(input)
	if err != nil {
		return err
	}

	opts := c.pipelineOptions(cfg, data, input)
	opts.Detailed = ro.detailed
	opts.Refresh = ro.refresh
	opts.SetLayoutDefaults()

	spinner := newSpinner(ctx, fmt.Sprintf("Rendering %s...", opts.VizType))
	spinner.Start()

	var (
		artifacts map[string][]byte
		stats     pipeline.Stats
		hit       bool
	)
	if isLayoutDocument(data) {
		artifacts, stats, hit, err = renderLayout(ctx, runner, data, opts)
	} else {
		var res *pipeline.Result
		res, err = runner.Execute(ctx, opts)
		if err == nil {
			artifacts, stats, hit = res.Artifacts, res.Stats, res.CacheInfo.RenderHit
		}
	}
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	paths, err := writeArtifacts(artifacts, opts.VizType, input, ro.output)
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", opts.VizType)
	for _, p := range paths {
		printFile(p)
	}
	printStats(stats.NodeCount, stats.EdgeCount, stats.Placements, hit)
	prog.done(fmt.Sprintf("Wrote %d files", len(paths)))
	return nil
}

// renderLayout renders a decoded layout document. Only matrix output is
// possible since the catalog edges are gone.
func renderLayout(ctx context.Context, runner *pipeline.Runner, data []byte, opts pipeline.Options) (map[string][]byte, pipeline.Stats, bool, error) {
	if opts.IsNodelink() {
		return nil, pipeline.Stats{}, false, errors.New(errors.ErrCodeInvalidVizType, "a layout file can only be rendered as matrix")
	}
	l, err := sink.ReadJSON(data)
	if err != nil {
		return nil, pipeline.Stats{}, false, err
	}
	opts.ShowEdges = false
	artifacts, hit, err := runner.RenderWithCacheInfo(ctx, nil, l, cache.Hash(data), opts)
	if err != nil {
		return nil, pipeline.Stats{}, false, err
	}
	return artifacts, pipeline.Stats{Placements: len(l.Placements)}, hit, nil
}

// isLayoutDocument reports whether data looks like layout output rather
// than a catalog: it has placements and no nodes.
func isLayoutDocument(data []byte) bool {
	var shape struct {
		Nodes      json.RawMessage `json:"nodes"`
		Placements json.RawMessage `json:"placements"`
	}
	if err := json.Unmarshal(data, &shape); err != nil {
		return false
	}
	return shape.Placements != nil && shape.Nodes == nil
}

// writeArtifacts writes each artifact and returns the paths in format
// order. A single artifact with an explicit output path is written there
// as-is; otherwise files are named <base>.<vizType>.<format>.
func writeArtifacts(artifacts map[string][]byte, vizType, input, output string) ([]string, error) {
	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		path := artifactPath(f, vizType, input, output, len(formats) == 1)
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return paths, fmt.Errorf("create %s: %w", dir, err)
			}
		}
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func artifactPath(format, vizType, input, output string, single bool) string {
	if single && output != "" && filepath.Ext(output) != "" {
		return output
	}
	if input == stdinName && output == "" {
		input = "catalog.json"
	}
	return basePath(output, input) + "." + vizType + "." + format
}
