package matrix

import (
	"fmt"
	"strings"

	"github.com/matzehuels/codematrix/pkg/errors"
)

// Column is an architectural layer. The numeric value is the column index
// used for layout.
type Column int

const (
	ColumnLeft Column = iota
	ColumnMiddle
	ColumnRight
	ColumnGateway
)

// Columns lists every column in index order.
var Columns = []Column{ColumnLeft, ColumnMiddle, ColumnRight, ColumnGateway}

var columnNames = [...]string{"left", "middle", "right", "gateway"}
var columnLabels = [...]string{"API", "Service", "Repository", "Gateway"}

func (c Column) String() string {
	if c < 0 || int(c) >= len(columnNames) {
		return fmt.Sprintf("column(%d)", int(c))
	}
	return columnNames[c]
}

// Label is the human-facing layer name.
func (c Column) Label() string {
	if c < 0 || int(c) >= len(columnLabels) {
		return c.String()
	}
	return columnLabels[c]
}

// Row is an element-kind band. The numeric value is the row index used for
// layout.
type Row int

const (
	RowTop Row = iota
	RowMiddle
	RowBottom
	RowTests
)

// Rows lists every row in index order.
var Rows = []Row{RowTop, RowMiddle, RowBottom, RowTests}

var rowNames = [...]string{"top", "middle", "bottom", "tests"}
var rowLabels = [...]string{"Data types", "Classes", "Functions", "Tests"}

func (r Row) String() string {
	if r < 0 || int(r) >= len(rowNames) {
		return fmt.Sprintf("row(%d)", int(r))
	}
	return rowNames[r]
}

// Label is the human-facing row name.
func (r Row) Label() string {
	if r < 0 || int(r) >= len(rowLabels) {
		return r.String()
	}
	return rowLabels[r]
}

// Segment is one cell of the matrix.
type Segment struct {
	Column Column
	Row    Row
}

// Key returns the canonical "<column>-<row>" identifier, e.g. "left-top".
func (s Segment) Key() string {
	return s.Column.String() + "-" + s.Row.String()
}

func (s Segment) String() string { return s.Key() }

// MarshalText encodes the segment as its key.
func (s Segment) MarshalText() ([]byte, error) {
	return []byte(s.Key()), nil
}

// UnmarshalText decodes a segment key.
func (s *Segment) UnmarshalText(b []byte) error {
	seg, err := ParseSegment(string(b))
	if err != nil {
		return err
	}
	*s = seg
	return nil
}

// All returns the 16 segments in their fixed order: column by column, and
// top to tests within a column.
func All() []Segment {
	out := make([]Segment, 0, len(Columns)*len(Rows))
	for _, c := range Columns {
		for _, r := range Rows {
			out = append(out, Segment{Column: c, Row: r})
		}
	}
	return out
}

// ParseSegment parses a key produced by [Segment.Key].
func ParseSegment(key string) (Segment, error) {
	col, row, ok := strings.Cut(key, "-")
	if !ok {
		return Segment{}, errors.New(errors.ErrCodeInvalidInput, "invalid segment key %q", key)
	}
	var seg Segment
	ci := indexOf(columnNames[:], col)
	ri := indexOf(rowNames[:], row)
	if ci < 0 || ri < 0 {
		return Segment{}, errors.New(errors.ErrCodeInvalidInput, "invalid segment key %q", key)
	}
	seg.Column, seg.Row = Column(ci), Row(ri)
	return seg, nil
}

func indexOf(names []string, s string) int {
	for i, n := range names {
		if n == s {
			return i
		}
	}
	return -1
}
