// Package sink writes a computed [layout.Layout] in its output formats.
//
//   - SVG: the 4×4 matrix with framed segments, column and row headers and
//     one labelled box per placement
//   - JSON: the geometry export consumed by external renderers, readable
//     again with [ReadJSON]
//   - PNG and PDF: the SVG converted with rsvg-convert
//
// Column widths in the SVG come from the layout's allocator weights: each
// column gets its proportional share of the layout width, widened when its
// boxes need more. Rows likewise grow to fit stacks that overflow them.
//
//	svg := sink.RenderSVG(l,
//	    sink.WithCatalog(cat),
//	    sink.WithEdges(catalog.EdgeCalls),
//	)
//
// Labels that don't fit their box are truncated with "..".
package sink
