package layout

import (
	"github.com/matzehuels/codematrix/pkg/catalog"
	"github.com/matzehuels/codematrix/pkg/group"
	"github.com/matzehuels/codematrix/pkg/matrix"
)

// Kind names the box a node is drawn with.
type Kind string

const (
	KindDataType Kind = "data_type"
	KindClass    Kind = "class"
	KindMethod   Kind = "method"
	KindGeneric  Kind = "struct_with_methods"
	KindFunction Kind = "function"
)

// Placement is one positioned node box in absolute matrix coordinates.
type Placement struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Type    string         `json:"type"`
	Segment matrix.Segment `json:"segment"`
	Kind    Kind           `json:"kind"`
	// Owner is the class id of an attached method.
	Owner  string  `json:"owner,omitempty"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	Node *catalog.Node `json:"-"`
}

// Bottom returns Y + Height.
func (p Placement) Bottom() float64 { return p.Y + p.Height }

// Right returns X + Width.
func (p Placement) Right() float64 { return p.X + p.Width }

// Layout is the full matrix layout of one catalog.
type Layout struct {
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	ColumnWidth float64 `json:"column_width"`
	RowHeight   float64 `json:"row_height"`

	// Rows is the top edge of each matrix row. A row is at least RowHeight
	// tall and grows to fit its content, pushing later rows down.
	Rows []float64 `json:"rows,omitempty"`

	Placements []Placement `json:"placements"`

	// Counts is the number of classified nodes per segment key.
	Counts  map[string]int `json:"counts"`
	Columns []ColumnWidth  `json:"columns"`

	Divergences []group.Divergence `json:"divergences,omitempty"`
}

// RowTop returns the top edge of row r. Layouts without Rows use the
// nominal r × RowHeight.
func (l *Layout) RowTop(r matrix.Row) float64 {
	if len(l.Rows) == len(matrix.Rows) && int(r) >= 0 && int(r) < len(l.Rows) {
		return l.Rows[r]
	}
	return float64(r) * l.RowHeight
}

// InSegment returns the placements of seg in layout order.
func (l *Layout) InSegment(seg matrix.Segment) []Placement {
	var out []Placement
	for _, p := range l.Placements {
		if p.Segment == seg {
			out = append(out, p)
		}
	}
	return out
}

// Full classifies every node of cat and lays out all sixteen segments.
func Full(cat *catalog.Catalog, cfg Config) (*Layout, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := newEngine(cat)
	buckets := matrix.Classify(cat.Nodes())

	l := &Layout{
		Width:       4 * cfg.ColumnWidth,
		ColumnWidth: cfg.ColumnWidth,
		RowHeight:   cfg.RowHeight,
		Placements:  make([]Placement, 0, cat.NodeCount()),
		Counts:      make(map[string]int, 16),
		Columns:     AllocateColumnWidths(StatsFromBuckets(buckets)),
		Divergences: e.owners.Divergences,
	}
	bySeg := make(map[matrix.Segment][]Placement, len(matrix.Columns)*len(matrix.Rows))
	top := 0.0
	for _, r := range matrix.Rows {
		l.Rows = append(l.Rows, top)
		height := cfg.RowHeight
		for _, c := range matrix.Columns {
			seg := matrix.Segment{Column: c, Row: r}
			ps, err := e.segment(seg, buckets[seg], cfg, top)
			if err != nil {
				return nil, err
			}
			bySeg[seg] = ps
			for _, p := range ps {
				height = max(height, p.Bottom()-top+cfg.Padding)
			}
		}
		top += height
	}
	l.Height = top

	for _, seg := range matrix.All() {
		l.Counts[seg.Key()] = len(buckets[seg])
		l.Placements = append(l.Placements, bySeg[seg]...)
	}
	return l, nil
}
