package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/codematrix/pkg/catalog"
	"github.com/matzehuels/codematrix/pkg/group"
	"github.com/matzehuels/codematrix/pkg/matrix"
	"github.com/matzehuels/codematrix/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds type, source location and segment to node labels.
	// When false, only the node name is shown.
	Detailed bool
	// EdgeTypes limits the drawn edges. Empty means all types.
	EdgeTypes []string
	// Clusters groups nodes into one box per matrix segment, with one
	// nested box per source file inside it.
	Clusters bool
}

var edgeStyle = map[string]string{
	catalog.EdgeCalls:     `style=solid`,
	catalog.EdgeReference: `style=dashed, color="#555555"`,
	catalog.EdgeIncludes:  `style=dotted, arrowhead=diamond`,
}

// ToDOT converts a catalog to Graphviz DOT source. Edges whose endpoints are
// not in the catalog are dropped.
func ToDOT(cat *catalog.Catalog, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.15,0.05\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.25;\n")
	buf.WriteString("\n")

	if opts.Clusters {
		writeClusters(&buf, cat, opts)
	} else {
		for _, n := range cat.Nodes() {
			writeNode(&buf, "  ", n, opts.Detailed)
		}
	}

	buf.WriteString("\n")
	for _, e := range cat.Edges() {
		if len(opts.EdgeTypes) > 0 && !slices.Contains(opts.EdgeTypes, e.Type) {
			continue
		}
		if _, ok := cat.Node(e.From); !ok {
			continue
		}
		if _, ok := cat.Node(e.To); !ok {
			continue
		}
		if style, ok := edgeStyle[e.Type]; ok {
			fmt.Fprintf(&buf, "  %s -> %s [%s];\n", quote(e.From), quote(e.To), style)
		} else {
			fmt.Fprintf(&buf, "  %s -> %s;\n", quote(e.From), quote(e.To))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeClusters(buf *bytes.Buffer, cat *catalog.Catalog, opts Options) {
	buckets := matrix.Classify(cat.Nodes())
	placed := make(map[*catalog.Node]bool, cat.NodeCount())

	for _, seg := range matrix.All() {
		nodes := buckets[seg]
		if len(nodes) == 0 {
			continue
		}
		fmt.Fprintf(buf, "  subgraph %s {\n", quote("cluster_"+seg.Key()))
		fmt.Fprintf(buf, "    label=%s;\n", quote(seg.Column.Label()+" / "+seg.Row.Label()))
		buf.WriteString("    style=\"rounded\";\n    color=\"#aaaaaa\";\n")
		i := 0
		for _, folder := range group.ByFolder(nodes) {
			for _, file := range folder.Files {
				fmt.Fprintf(buf, "    subgraph %s {\n", quote(fmt.Sprintf("cluster_%s_%d", seg.Key(), i)))
				fmt.Fprintf(buf, "      label=%s;\n", quote(fileLabel(folder.Path, file.Name)))
				buf.WriteString("      style=\"dashed\";\n      color=\"#cccccc\";\n      fontsize=11;\n")
				for _, n := range file.Nodes {
					writeNode(buf, "      ", n, opts.Detailed)
					placed[n] = true
				}
				buf.WriteString("    }\n")
				i++
			}
		}
		buf.WriteString("  }\n")
	}
	// Unclassified nodes (crates) sit outside every cluster.
	for _, n := range cat.Nodes() {
		if !placed[n] {
			writeNode(buf, "  ", n, opts.Detailed)
		}
	}
}

// fileLabel names a file cluster by its slash-separated path.
func fileLabel(dir, file string) string {
	switch {
	case file == "":
		return "(no file)"
	case dir == "":
		return file
	}
	return path.Join(dir, file)
}

func writeNode(buf *bytes.Buffer, indent string, n *catalog.Node, detailed bool) {
	attrs := []string{"label=" + quote(fmtLabel(n, detailed))}
	switch {
	case n.IsMethod():
		attrs = append(attrs, "shape=ellipse", `fillcolor="#fef3c7"`)
	case n.IsClassLike():
		attrs = append(attrs, `fillcolor="#fde68a"`)
	case n.Type == catalog.TypeFunction:
		attrs = append(attrs, `fillcolor="#bbf7d0"`)
	case n.Type == catalog.TypeEnum:
		attrs = append(attrs, `fillcolor="#dbeafe"`)
	case n.Type == catalog.TypeCrate:
		attrs = append(attrs, "shape=folder", "fillcolor=lightgrey")
	}
	fmt.Fprintf(buf, "%s%s [%s];\n", indent, quote(n.ID), strings.Join(attrs, ", "))
}

func fmtLabel(n *catalog.Node, detailed bool) string {
	name := n.Name
	if name == "" {
		name = catalog.LastSegment(n.ID)
	}
	if !detailed {
		return name
	}

	parts := []string{name, "type: " + n.Type}
	if n.Filename != "" {
		loc := n.Filename
		if n.StartLine > 0 {
			loc += ":" + strconv.Itoa(n.StartLine)
		}
		parts = append(parts, loc)
	}
	if seg, ok := matrix.ClassifyNode(n); ok {
		parts = append(parts, "segment: "+seg.Key())
	}
	return strings.Join(parts, "\n")
}

// quote renders s as a DOT double-quoted string.
func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return `"` + r.Replace(s) + `"`
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with one whose
// width and height match the viewBox.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPDF renders DOT source as PDF via SVG conversion.
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders DOT source as PNG via SVG conversion.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
