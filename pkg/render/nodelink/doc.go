// Package nodelink draws a catalog as a plain node-link diagram with
// Graphviz, as an alternative to the matrix view.
//
//	dot := nodelink.ToDOT(cat, nodelink.Options{Clusters: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Methods are ellipses, everything else rounded boxes coloured by type.
// Edge types are told apart by line style: calls solid, references dashed,
// includes dotted with a diamond head. With [Options.Clusters] each matrix
// segment becomes a labelled Graphviz cluster holding one sub-cluster per
// source file, ordered by folder and then file name.
//
// SVG rendering runs Graphviz in-process through go-graphviz; PDF and PNG
// need rsvg-convert, see [render.ToPDF].
package nodelink
