package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/matzehuels/codematrix/pkg/catalog"
	"github.com/matzehuels/codematrix/pkg/errors"
	"github.com/matzehuels/codematrix/pkg/matrix"
	"github.com/matzehuels/codematrix/pkg/pipeline"
)

// classifyCommand creates the classify command.
func (c *CLI) classifyCommand() *cobra.Command {
	var (
		explain string
		asJSON  bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "classify [catalog.json]",
		Short: "Show how nodes distribute over the matrix segments",
		Long: `Classify every node of a catalog into one of the 16 matrix segments and
print the node count per segment. Crate nodes are containers and are not
counted.

Use --explain <node id> to see which column and row rule decided a single
node, or --json for the full segment → node id mapping.`,
		Example: `  codematrix classify catalog.json
  codematrix classify catalog.json --explain "crate::api::handlers::create_user"
  cat catalog.json | codematrix classify - --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if explain != "" {
				return runExplain(cmd.OutOrStdout(), args[0], explain)
			}
			return c.runClassify(cmd.Context(), cmd.OutOrStdout(), args[0], asJSON, noCache)
		},
	}

	cmd.Flags().StringVar(&explain, "explain", "", "explain the classification of one node id")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the segment mapping as JSON")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runClassify(ctx context.Context, out io.Writer, input string, asJSON, noCache bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
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
	cat, docHash, err := runner.Load(ctx, opts)
	if err != nil {
		return err
	}
	classified, hit, err := runner.ClassifyWithCacheInfo(ctx, cat, docHash, opts)
	if err != nil {
		return fmt.Errorf("classify: %w", err)
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(classified)
	}

	placed := classified.Total()
	printSuccess("Classified %d of %d nodes", placed, cat.NodeCount())
	printStats(cat.NodeCount(), cat.EdgeCount(), 0, hit)
	fmt.Fprintln(out, segmentTable(classified.Counts()))
	if dropped := cat.NodeCount() - placed; dropped > 0 {
		printDetail("%d crate nodes are containers and not placed", dropped)
	}
	return nil
}

// runExplain prints the rules that placed one node.
func runExplain(out io.Writer, input, id string) error {
	data, err := readInput(input)
	if err != nil {
		return err
	}
	cat, _, err := pipeline.LoadCatalog(data)
	if err != nil {
		return err
	}
	n, ok := cat.Node(id)
	if !ok {
		return errors.New(errors.ErrCodeNodeNotFound, "node %q not in catalog%s", id, suggestIDs(cat, id))
	}

	for _, kv := range explainLines(n, matrix.Explain(n)) {
		fmt.Fprintf(out, "%-10s %s\n", kv[0]+":", kv[1])
	}
	return nil
}

func explainLines(n *catalog.Node, e matrix.Explanation) [][2]string {
	lines := [][2]string{
		{"node", n.ID},
		{"type", n.Type},
	}
	if n.Filename != "" {
		lines = append(lines, [2]string{"file", n.Filename})
	}
	if e.Dropped {
		return append(lines, [2]string{"segment", "none (crates are not placed)"})
	}
	return append(lines,
		[2]string{"segment", fmt.Sprintf("%s (%s / %s)", e.Segment.Key(), e.Segment.Column.Label(), e.Segment.Row.Label())},
		[2]string{"column", e.ColumnRule},
		[2]string{"row", e.RowRule},
	)
}

// suggestIDs lists up to three ids that end with the requested id's last
// segment, for typo recovery.
func suggestIDs(cat *catalog.Catalog, id string) string {
	want := catalog.LastSegment(id)
	var hits []string
	for _, n := range cat.Nodes() {
		if catalog.LastSegment(n.ID) == want {
			hits = append(hits, n.ID)
		}
	}
	if len(hits) == 0 {
		return ""
	}
	sort.Strings(hits)
	if len(hits) > 3 {
		hits = hits[:3]
	}
	return fmt.Sprintf(" (did you mean %q?)", hits)
}
