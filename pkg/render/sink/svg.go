package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/codematrix/pkg/catalog"
	"github.com/matzehuels/codematrix/pkg/layout"
	"github.com/matzehuels/codematrix/pkg/matrix"
)

const matrixCSS = `
    .segment { fill: #fafafa; stroke: #c8c8c8; stroke-width: 1; }
    .header { font-size: 14px; font-weight: bold; fill: #333; }
    .node rect { stroke: #555; stroke-width: 1; }
    .node text { fill: #222; }
    .kind-class text { font-weight: bold; }
    .edge { stroke: #7a7a7a; stroke-width: 1; fill: none; opacity: 0.6; }`

// Box fills per kind.
var kindFill = map[layout.Kind]string{
	layout.KindDataType: "#dbeafe",
	layout.KindClass:    "#fde68a",
	layout.KindMethod:   "#fef3c7",
	layout.KindGeneric:  "#e9d5ff",
	layout.KindFunction: "#bbf7d0",
}

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	catalog   *catalog.Catalog
	showEdges bool
	title     string
	edgeType  string
}

// WithCatalog attaches the catalog the layout was computed from. Edges are
// drawn only when a catalog is present.
func WithCatalog(c *catalog.Catalog) SVGOption { return func(r *svgRenderer) { r.catalog = c } }

// WithEdges draws edges of the given type between placed boxes. An empty type
// means "calls".
func WithEdges(edgeType string) SVGOption {
	return func(r *svgRenderer) {
		r.showEdges = true
		r.edgeType = edgeType
	}
}

func WithTitle(t string) SVGOption { return func(r *svgRenderer) { r.title = t } }

// RenderSVG draws the matrix: one framed cell per segment with column and row
// headers, and one labelled box per placement.
func RenderSVG(l *layout.Layout, opts ...SVGOption) []byte {
	r := svgRenderer{edgeType: catalog.EdgeCalls}
	for _, opt := range opts {
		opt(&r)
	}
	if r.edgeType == "" {
		r.edgeType = catalog.EdgeCalls
	}

	f := newFrame(l)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" font-family="Helvetica, Arial, sans-serif">`+"\n",
		f.width, f.height, f.width, f.height)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escapeXML(r.title))
	}
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", matrixCSS)
	buf.WriteString(`  <defs><marker id="arrow" viewBox="0 0 10 10" refX="10" refY="5" markerWidth="6" markerHeight="6" orient="auto-start-reverse"><path d="M 0 0 L 10 5 L 0 10 z" fill="#7a7a7a"/></marker></defs>` + "\n")
	fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%.1f" height="%.1f" fill="white"/>`+"\n", f.width, f.height)

	renderGrid(&buf, f)
	centers := renderBoxes(&buf, f)
	if r.showEdges && r.catalog != nil {
		renderEdges(&buf, r.catalog.EdgesOfType(r.edgeType), centers)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderGrid(buf *bytes.Buffer, f frame) {
	buf.WriteString(`  <g class="grid">` + "\n")
	for _, seg := range matrix.All() {
		x, y, w, h := f.cell(seg)
		count := f.l.Counts[seg.Key()]
		fmt.Fprintf(buf, `    <rect class="segment" id="segment-%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f"><title>%s / %s (%d)</title></rect>`+"\n",
			seg.Key(), x, y, w, h, seg.Column.Label(), seg.Row.Label(), count)
	}
	for i, c := range matrix.Columns {
		fmt.Fprintf(buf, `    <text class="header" x="%.1f" y="%.1f" text-anchor="middle">%s</text>`+"\n",
			f.colX[i]+f.colW[i]/2, gutterTop-12, escapeXML(c.Label()))
	}
	for i, r := range matrix.Rows {
		fmt.Fprintf(buf, `    <text class="header" x="%.1f" y="%.1f" dominant-baseline="middle">%s</text>`+"\n",
			margin, f.rowY[i]+f.rowH[i]/2, escapeXML(r.Label()))
	}
	buf.WriteString("  </g>\n")
}

type point struct{ x, y float64 }

func renderBoxes(buf *bytes.Buffer, f frame) map[string]point {
	centers := make(map[string]point, len(f.l.Placements))
	buf.WriteString(`  <g class="nodes">` + "\n")
	for i, p := range f.l.Placements {
		x, y := f.place(p)
		centers[p.ID] = point{x + p.Width/2, y + p.Height/2}

		label := p.Name
		if label == "" {
			label = catalog.LastSegment(p.ID)
		}
		size := fontSize(p.Width, p.Height, label)
		text := truncateLabel(label, p.Width, size)

		fill, ok := kindFill[p.Kind]
		if !ok {
			fill = "#eeeeee"
		}
		fmt.Fprintf(buf, `    <g class="node kind-%s" id="node-%d" data-id="%s">`, p.Kind, i, escapeXML(p.ID))
		fmt.Fprintf(buf, `<title>%s</title>`, escapeXML(p.ID))
		fmt.Fprintf(buf, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="3" fill="%s"/>`, x, y, p.Width, p.Height, fill)
		fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" font-size="%.1f" text-anchor="middle" dominant-baseline="middle">%s</text>`,
			x+p.Width/2, y+p.Height/2, size, escapeXML(text))
		buf.WriteString("</g>\n")
	}
	buf.WriteString("  </g>\n")
	return centers
}

// renderEdges draws straight arrows between box centres. Edges with an
// endpoint that was not placed are skipped.
func renderEdges(buf *bytes.Buffer, edges []catalog.Edge, centers map[string]point) {
	buf.WriteString(`  <g class="edges">` + "\n")
	for _, e := range edges {
		from, ok1 := centers[e.From]
		to, ok2 := centers[e.To]
		if !ok1 || !ok2 || e.From == e.To {
			continue
		}
		fmt.Fprintf(buf, `    <line class="edge" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" marker-end="url(#arrow)"/>`+"\n",
			from.x, from.y, to.x, to.y)
	}
	buf.WriteString("  </g>\n")
}
