package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/codematrix/pkg/config"
	"github.com/matzehuels/codematrix/pkg/render/sink"
)

// layoutCommand creates the layout command for computing matrix layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
		lf      layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [catalog.json]",
		Short: "Compute the matrix layout of a catalog",
		Long: `Compute the matrix layout of a catalog.

The layout command classifies every node, groups classes with their methods,
and packs each segment. The output is a layout.json file (same format as
'render -f json') that 'render' accepts in place of a catalog.

Results are cached for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := lf.apply(cmd, &cfg.Layout); err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), cfg, args[0], output, noCache, refresh)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>"+layoutSuffix+")")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute and overwrite cached results")
	lf.register(cmd)

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, cfg config.Config, input, output string, noCache, refresh bool) error {
	data, err := readInput(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := c.pipelineOptions(cfg, data, input)
	opts.VizType = config.VizMatrix
	opts.Refresh = refresh

	cat, docHash, err := runner.Load(ctx, opts)
	if err != nil {
		return err
	}

	spinner := newSpinner(ctx, "Computing matrix layout...")
	spinner.Start()
	l, cacheHit, err := runner.LayoutWithCacheInfo(ctx, cat, docHash, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	out, err := sink.RenderJSON(l, sink.WithSource(docHash))
	if err != nil {
		return err
	}

	outputPath := output
	if outputPath == "" {
		if input == stdinName {
			outputPath = "catalog" + layoutSuffix
		} else {
			outputPath = basePath("", input) + layoutSuffix
		}
	}
	if err := os.WriteFile(outputPath, out, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(cat.NodeCount(), cat.EdgeCount(), len(l.Placements), cacheHit)
	if n := len(l.Divergences); n > 0 {
		printWarning("%d methods are owned by a different class than their id suggests", n)
	}
	printNewline()
	printNextStep("Render", appName+" render "+outputPath)

	return nil
}
