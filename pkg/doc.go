// Package pkg provides the core libraries for Codematrix code catalog
// visualization.
//
// # Overview
//
// Codematrix places the entities of a code catalog (data types, classes and
// their methods, free functions) on a 4x4 architecture matrix. Columns are
// layers (left, middle, right, gateway), rows are element kinds (data types,
// classes and methods, functions, tests). Each cell is packed into
// non-overlapping boxes and the result is rendered as SVG, PNG, PDF, JSON or
// plain text.
//
// # Architecture
//
// The data flow through Codematrix:
//
//	catalog.json
//	     ↓
//	[catalog] package (nodes, edges, hierarchical ids)
//	     ↓
//	[matrix] package (column and row rules → segment)
//	     ↓
//	[group] package (method ownership, folder groups)
//	     ↓
//	[layout] package (per-segment packing via [pack])
//	     ↓
//	[render/sink] package (SVG/PNG/PDF/JSON/text)
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/codematrix/pkg/catalog"
//	    "github.com/matzehuels/codematrix/pkg/layout"
//	    "github.com/matzehuels/codematrix/pkg/render/sink"
//	)
//
//	doc, _ := catalog.ReadFile("catalog.json")
//	l, _ := layout.Full(catalog.FromDocument(doc), layout.DefaultConfig())
//	svg := sink.RenderSVG(l)
//
// # Main Packages
//
// [catalog] - The catalog document: typed nodes with "|"-separated
// hierarchical ids and typed edges (includes, calls, ...).
//
// [matrix] - Ordered column and row rules that assign every non-crate node
// to exactly one of sixteen segments, with an explanation of which rule
// fired.
//
// [group] - Method-to-class ownership from includes edges and id prefixes,
// folder grouping of functions, and the divergence report between the two.
//
// [pack] - Rectangle packers: shelf, guillotine and column.
//
// [layout] - Box sizing, column widths and the full matrix layout.
//
// [render/sink] - Output formats for a layout. [render/nodelink] renders
// the catalog as a Graphviz graph instead.
//
// ## Infrastructure
//
// [pipeline] - The load → classify → layout → render pipeline shared by the
// CLI and the HTTP API, with per-stage caching.
//
// [cache] - Cache backends (file, Redis, MongoDB, null) and content-hash
// keys.
//
// [config] - TOML/YAML configuration files and their validation.
//
// [errors] - Coded errors shared by the CLI and the HTTP API.
//
// [observability] - Hooks for metrics on pipeline stages.
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test -run Example ./pkg/...       # Examples only
//	go test -tags integration ./pkg/...  # Include Redis/MongoDB backends
package pkg
