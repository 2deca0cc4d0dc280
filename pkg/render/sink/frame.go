package sink

import (
	"github.com/matzehuels/codematrix/pkg/layout"
	"github.com/matzehuels/codematrix/pkg/matrix"
)

const (
	gutterLeft = 110.0
	gutterTop  = 36.0
	margin     = 10.0
)

// frame is the drawn grid. Columns take their share of the layout width from
// the allocator but never shrink below their content; rows grow to fit
// stacks that overflow the configured row height.
type frame struct {
	colX, colW []float64
	rowY, rowH []float64
	width      float64
	height     float64
	l          *layout.Layout
}

func newFrame(l *layout.Layout) frame {
	nc, nr := len(matrix.Columns), len(matrix.Rows)
	f := frame{
		colX: make([]float64, nc), colW: make([]float64, nc),
		rowY: make([]float64, nr), rowH: make([]float64, nr),
		l: l,
	}

	alloc := layout.Distribute(l.Columns, l.Width)
	if len(alloc) != nc {
		alloc = make([]float64, nc)
		for i := range alloc {
			alloc[i] = l.ColumnWidth
		}
	}
	copy(f.colW, alloc)
	for i := range f.rowH {
		f.rowH[i] = l.RowHeight
		if i+1 < nr {
			f.rowH[i] = max(f.rowH[i], l.RowTop(matrix.Row(i+1))-l.RowTop(matrix.Row(i)))
		}
	}

	for _, p := range l.Placements {
		c, r := int(p.Segment.Column), int(p.Segment.Row)
		if c < 0 || c >= nc || r < 0 || r >= nr {
			continue
		}
		f.colW[c] = max(f.colW[c], p.Right()-float64(c)*l.ColumnWidth+margin)
		f.rowH[r] = max(f.rowH[r], p.Bottom()-l.RowTop(matrix.Row(r))+margin)
	}

	x := gutterLeft
	for i, w := range f.colW {
		f.colX[i] = x
		x += w
	}
	y := gutterTop
	for i, h := range f.rowH {
		f.rowY[i] = y
		y += h
	}
	f.width, f.height = x+margin, y+margin
	return f
}

// place maps a placement from layout coordinates into the frame.
func (f frame) place(p layout.Placement) (x, y float64) {
	c, r := int(p.Segment.Column), int(p.Segment.Row)
	x = f.colX[c] + p.X - float64(c)*f.l.ColumnWidth
	y = f.rowY[r] + p.Y - f.l.RowTop(p.Segment.Row)
	return x, y
}

func (f frame) cell(seg matrix.Segment) (x, y, w, h float64) {
	c, r := int(seg.Column), int(seg.Row)
	return f.colX[c], f.rowY[r], f.colW[c], f.rowH[r]
}
