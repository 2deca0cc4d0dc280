package pipeline

import (
	"github.com/matzehuels/codematrix/pkg/catalog"
	"github.com/matzehuels/codematrix/pkg/layout"
	"github.com/matzehuels/codematrix/pkg/matrix"
)

// Classification maps every segment key to the ids of its nodes, in
// classification order. All sixteen keys are present.
type Classification map[string][]string

// Classify buckets the catalog's nodes into segments.
func Classify(cat *catalog.Catalog) Classification {
	out := make(Classification, 16)
	for key, nodes := range matrix.Classify(cat.Nodes()).Keyed() {
		ids := make([]string, len(nodes))
		for i, n := range nodes {
			ids[i] = n.ID
		}
		out[key] = ids
	}
	return out
}

// Counts returns the number of nodes per segment key.
func (c Classification) Counts() map[string]int {
	out := make(map[string]int, len(c))
	for key, ids := range c {
		out[key] = len(ids)
	}
	return out
}

// Total returns the number of classified nodes.
func (c Classification) Total() int {
	n := 0
	for _, ids := range c {
		n += len(ids)
	}
	return n
}

// ComputeLayout lays out the full matrix.
func ComputeLayout(cat *catalog.Catalog, opts Options) (*layout.Layout, error) {
	return layout.Full(cat, opts.Layout)
}

// attachNodes restores the catalog node of every placement of a layout
// decoded from cache.
func attachNodes(l *layout.Layout, cat *catalog.Catalog) {
	for i := range l.Placements {
		l.Placements[i].Node, _ = cat.Node(l.Placements[i].ID)
	}
}
