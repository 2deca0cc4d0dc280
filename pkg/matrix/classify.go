package matrix

import "github.com/matzehuels/codematrix/pkg/catalog"

// Buckets maps every segment to the nodes assigned to it, in input order.
// All 16 segments are always present.
type Buckets map[Segment][]*catalog.Node

// Classify assigns each node to exactly one segment. Crate nodes are dropped.
// The returned map always holds all 16 segments, empty ones included.
func Classify(nodes []*catalog.Node) Buckets {
	b := make(Buckets, 16)
	for _, seg := range All() {
		b[seg] = []*catalog.Node{}
	}
	for _, n := range nodes {
		seg, ok := ClassifyNode(n)
		if !ok {
			continue
		}
		b[seg] = append(b[seg], n)
	}
	return b
}

// ClassifyNode returns the segment for n. It reports false for crate nodes,
// which are containers and never placed.
func ClassifyNode(n *catalog.Node) (Segment, bool) {
	e := Explain(n)
	return e.Segment, !e.Dropped
}

// Explanation records how a node was classified.
type Explanation struct {
	Segment    Segment `json:"segment"`
	Dropped    bool    `json:"dropped,omitempty"`
	ColumnRule string  `json:"column_rule,omitempty"`
	RowRule    string  `json:"row_rule,omitempty"`
}

// Explain classifies n and names the column and row rules that decided it.
func Explain(n *catalog.Node) Explanation {
	if n.Type == catalog.TypeCrate {
		return Explanation{Dropped: true}
	}

	e := Explanation{
		Segment:    Segment{Column: ColumnMiddle, Row: RowMiddle},
		ColumnRule: DefaultColumnRule,
		RowRule:    DefaultRowRule,
	}
	for _, r := range ColumnRules {
		if r.Match(n) {
			e.Segment.Column, e.ColumnRule = r.Column, r.Name
			break
		}
	}
	for _, r := range RowRules {
		if r.Match(n) {
			e.Segment.Row, e.RowRule = r.Row, r.Name
			break
		}
	}
	return e
}

// Keyed returns the buckets keyed by segment key, for serialization.
func (b Buckets) Keyed() map[string][]*catalog.Node {
	out := make(map[string][]*catalog.Node, len(b))
	for seg, nodes := range b {
		out[seg.Key()] = nodes
	}
	return out
}

// Total returns the number of classified nodes.
func (b Buckets) Total() int {
	total := 0
	for _, nodes := range b {
		total += len(nodes)
	}
	return total
}

// ColumnTotal returns the number of nodes in column c across all rows.
func (b Buckets) ColumnTotal(c Column) int {
	total := 0
	for _, r := range Rows {
		total += len(b[Segment{Column: c, Row: r}])
	}
	return total
}
