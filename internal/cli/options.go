package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/codematrix/pkg/config"
	"github.com/matzehuels/codematrix/pkg/errors"
	"github.com/matzehuels/codematrix/pkg/layout"
	"github.com/matzehuels/codematrix/pkg/pack"
	"github.com/matzehuels/codematrix/pkg/pipeline"
)

// stdinName reads the catalog from standard input.
const stdinName = "-"

// readInput reads a catalog or layout document from path, or from stdin
// when path is "-".
func readInput(path string) ([]byte, error) {
	if path == stdinName {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read stdin")
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "input file not found: %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return data, nil
}

// layoutFlags override layout.Config values from the config file. Only
// flags the user set are applied.
type layoutFlags struct {
	columnWidth float64
	rowHeight   float64
	padding     float64
	strategy    string
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	def := layout.DefaultConfig()
	fs.Float64Var(&f.columnWidth, "column-width", def.ColumnWidth, "segment column width in pixels")
	fs.Float64Var(&f.rowHeight, "row-height", def.RowHeight, "segment row height in pixels")
	fs.Float64Var(&f.padding, "padding", def.Padding, "gap between boxes")
	fs.StringVar(&f.strategy, "strategy", string(def.RowStrategy), "packer for data type and function rows: shelf, guillotine, column")
}

func (f *layoutFlags) apply(cmd *cobra.Command, cfg *layout.Config) error {
	fs := cmd.Flags()
	if fs.Changed("column-width") {
		cfg.ColumnWidth = f.columnWidth
	}
	if fs.Changed("row-height") {
		cfg.RowHeight = f.rowHeight
	}
	if fs.Changed("padding") {
		cfg.Padding = f.padding
	}
	if fs.Changed("strategy") {
		s, err := pack.ParseStrategy(f.strategy)
		if err != nil {
			return err
		}
		cfg.RowStrategy = s
	}
	return nil
}

// pipelineOptions seeds runner options from the loaded config.
func (c *CLI) pipelineOptions(cfg config.Config, data []byte, source string) pipeline.Options {
	return pipeline.Options{
		Document:  data,
		Source:    source,
		Layout:    cfg.Layout,
		VizType:   cfg.Render.VizType,
		Formats:   cfg.Render.Formats,
		ShowEdges: cfg.Render.ShowEdges,
		Logger:    c.Logger,
	}
}
