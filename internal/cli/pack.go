package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/codematrix/pkg/errors"
	"github.com/matzehuels/codematrix/pkg/pack"
	"github.com/matzehuels/codematrix/pkg/render/sink"
)

// packItem is one rectangle of an items file.
type packItem struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Label  string  `json:"label,omitempty"`
}

// packCommand creates the pack command for trying the packers on raw
// rectangles.
func (c *CLI) packCommand() *cobra.Command {
	var (
		output   string
		strategy string
		width    float64
		noSort   bool
	)
	opts := pack.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "pack [items.json]",
		Short: "Pack rectangles with a chosen strategy (debug tool)",
		Long: `Pack a list of rectangles into a container of fixed width and draw the
result as SVG. The items file is a JSON array of {"width", "height", "label"}
objects.`,
		Example: `  # Shelf packing into a 600px container
  codematrix pack items.json -o shelf.svg

  # Compare with guillotine packing
  codematrix pack items.json --strategy guillotine -o guillotine.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := pack.ParseStrategy(strategy)
			if err != nil {
				return err
			}
			opts.SortByHeight = !noSort

			data, err := readInput(args[0])
			if err != nil {
				return err
			}
			items, err := parsePackItems(data)
			if err != nil {
				return err
			}

			res, err := pack.Pack(s, items, width, opts)
			if err != nil {
				return fmt.Errorf("pack: %w", err)
			}

			svg := sink.RenderPacking(res, width, s)
			if output == "" {
				_, err = cmd.OutOrStdout().Write(svg)
				return err
			}
			if err := os.WriteFile(output, svg, 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}

			printSuccess("Packed %d items", len(res.Placements))
			printKeyValue("Strategy", string(s))
			printKeyValue("Container", fmt.Sprintf("%.0f x %.0f", width, res.Height))
			printKeyValue("Fill", fmt.Sprintf("%.1f%%", 100*fillRatio(res, width)))
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&strategy, "strategy", string(pack.StrategyShelf), "packing strategy: shelf, guillotine, column")
	cmd.Flags().Float64Var(&width, "width", 600, "container width")
	cmd.Flags().Float64Var(&opts.Padding, "padding", opts.Padding, "gap between items and around the edge")
	cmd.Flags().BoolVar(&noSort, "no-sort", false, "keep input order on shelves instead of sorting by height")
	cmd.Flags().Float64Var(&opts.MinColumnWidth, "min-column-width", opts.MinColumnWidth, "minimum column width (column strategy)")
	cmd.Flags().IntVar(&opts.MaxColumns, "max-columns", opts.MaxColumns, "maximum column count (column strategy)")

	return cmd
}

func parsePackItems(data []byte) ([]pack.Item[string], error) {
	var raw []packItem
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode items")
	}
	if len(raw) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "items file is empty")
	}
	items := make([]pack.Item[string], len(raw))
	for i, r := range raw {
		items[i] = pack.Item[string]{Width: r.Width, Height: r.Height, Payload: r.Label}
	}
	return items, nil
}

// fillRatio is the share of the container area covered by items.
func fillRatio(res pack.Result[string], width float64) float64 {
	if res.Height <= 0 || width <= 0 {
		return 0
	}
	area := 0.0
	for _, p := range res.Placements {
		area += p.Width * p.Height
	}
	return area / (width * res.Height)
}
