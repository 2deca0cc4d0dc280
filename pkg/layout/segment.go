package layout

import (
	"fmt"

	"github.com/matzehuels/codematrix/pkg/catalog"
	"github.com/matzehuels/codematrix/pkg/group"
	"github.com/matzehuels/codematrix/pkg/matrix"
	"github.com/matzehuels/codematrix/pkg/pack"
)

// Segment lays out the nodes of one segment. Nodes are normally the bucket
// [matrix.Classify] produced for seg; ownership is resolved against the
// whole catalog. Positions are absolute.
func Segment(cat *catalog.Catalog, seg matrix.Segment, nodes []*catalog.Node, cfg Config) ([]Placement, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newEngine(cat).segment(seg, nodes, cfg, float64(seg.Row)*cfg.RowHeight)
}

// engine carries the per-catalog state shared by all segments.
type engine struct {
	owners   *group.Owners
	attached map[string]string // method id -> owner id
}

func newEngine(cat *catalog.Catalog) *engine {
	e := &engine{
		owners:   group.Ownership(cat),
		attached: make(map[string]string),
	}
	for _, n := range cat.Nodes() {
		if !n.IsMethod() {
			continue
		}
		ownerID, ok := e.owners.Owner(n.ID)
		if !ok {
			continue
		}
		owner, ok := cat.Node(ownerID)
		if !ok || !owner.IsClassLike() {
			continue
		}
		if seg, ok := matrix.ClassifyNode(owner); ok && stacksClasses(seg.Row) {
			e.attached[n.ID] = ownerID
		}
	}
	return e
}

func stacksClasses(r matrix.Row) bool {
	return r == matrix.RowMiddle || r == matrix.RowTests
}

// segment lays out one cell whose top edge is at rowTop.
func (e *engine) segment(seg matrix.Segment, nodes []*catalog.Node, cfg Config, rowTop float64) ([]Placement, error) {
	free := make([]*catalog.Node, 0, len(nodes))
	for _, n := range nodes {
		if _, ok := e.attached[n.ID]; !ok {
			free = append(free, n)
		}
	}

	c := cell{
		seg: seg,
		cfg: cfg,
		x:   float64(seg.Column) * cfg.ColumnWidth,
		y:   rowTop,
	}
	switch seg.Row {
	case matrix.RowTop:
		return c.wrap(group.SortByFolder(free), cfg.DataType, KindDataType, 0)
	case matrix.RowBottom:
		return c.wrap(group.SortByName(free), cfg.Function, KindFunction, 0)
	case matrix.RowMiddle, matrix.RowTests:
		return e.stacks(c, free)
	}
	return nil, fmt.Errorf("unknown row %d", seg.Row)
}

// cell is one segment's origin and configuration.
type cell struct {
	seg  matrix.Segment
	cfg  Config
	x, y float64
}

func (c cell) place(n *catalog.Node, kind Kind, box BoxSize, x, y float64) Placement {
	return Placement{
		ID:      n.ID,
		Name:    n.Name,
		Type:    n.Type,
		Segment: c.seg,
		Kind:    kind,
		X:       c.x + x,
		Y:       c.y + y,
		Width:   box.Width,
		Height:  box.Height,
		Node:    n,
	}
}

// wrap packs equally sized boxes left to right across the column width,
// starting top pixels below the segment's top edge plus Padding.
func (c cell) wrap(nodes []*catalog.Node, box BoxSize, kind Kind, top float64) ([]Placement, error) {
	if len(nodes) == 0 {
		return nil, nil
	}
	items := make([]pack.Item[*catalog.Node], len(nodes))
	for i, n := range nodes {
		items[i] = pack.Item[*catalog.Node]{Width: box.Width, Height: box.Height, Payload: n}
	}
	opts := pack.Options{
		Padding:        c.cfg.Padding,
		MinColumnWidth: box.Width + c.cfg.Padding,
	}
	s := c.cfg.strategy()
	res, err := pack.Pack(s, items, c.cfg.ColumnWidth, opts)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", c.seg, err)
	}

	// Guillotine and column already inset their output by Padding.
	if s == pack.StrategyShelf {
		top += c.cfg.Padding
	}
	out := make([]Placement, len(res.Placements))
	for i, p := range res.Placements {
		out[i] = c.place(p.Payload, kind, box, p.X, top+p.Y)
	}
	return out, nil
}

// stacks lays out class groups as vertical stacks, then orphans below the
// lowest stack. Stacks fill in-segment columns left to right; when the next
// column would cross the segment's right edge, a new band of columns starts
// below everything placed so far.
func (e *engine) stacks(c cell, nodes []*catalog.Node) ([]Placement, error) {
	cfg := c.cfg
	p := cfg.Padding

	groups := e.owners.Classes(nodes, func(m *catalog.Node) bool {
		_, ok := e.attached[m.ID]
		return ok
	})

	var out []Placement
	x, y := p, p
	bandTop := p
	colWidth := 0.0 // widest stack in the current in-segment column
	bottom := 0.0   // lowest stack edge
	for _, g := range groups {
		h := cfg.Class.Height + float64(len(g.Methods))*cfg.Method.Height
		w := cfg.Class.Width
		if len(g.Methods) > 0 {
			w = max(w, cfg.Method.Width)
		}
		// Stacks taller than the row overflow it, alone in their column.
		if y > bandTop && y+h-bandTop > cfg.RowHeight-2*p {
			x += colWidth + p
			y = bandTop
			colWidth = 0
		}
		if x > p && x+w > cfg.ColumnWidth-p {
			bandTop = bottom + p
			x, y = p, bandTop
			colWidth = 0
		}

		out = append(out, c.place(g.Class, KindClass, cfg.Class, x, y))
		my := y + cfg.Class.Height
		for _, m := range g.Methods {
			pl := c.place(m, KindMethod, cfg.Method, x, my)
			pl.Owner = g.Class.ID
			out = append(out, pl)
			my += cfg.Method.Height
		}

		bottom = max(bottom, y+h)
		y += h + p
		colWidth = max(colWidth, w)
	}

	var orphans []*catalog.Node
	for _, n := range nodes {
		if !n.IsClassLike() {
			orphans = append(orphans, n)
		}
	}
	rest, err := c.wrap(group.SortByName(orphans), cfg.StructWithMethods, KindGeneric, bottom)
	if err != nil {
		return nil, err
	}
	return append(out, rest...), nil
}
