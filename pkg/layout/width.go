package layout

import "github.com/matzehuels/codematrix/pkg/matrix"

// Width weights handed to renderers.
const (
	NarrowWeight = 1
	FillWeight   = 3
)

// WidthMode says how a column should be sized.
type WidthMode string

const (
	ModeNarrow WidthMode = "narrow"
	ModeFill   WidthMode = "fill"
)

// ColumnStats counts a column's nodes per row.
type ColumnStats struct {
	DataTypes int `json:"data_types"`
	Classes   int `json:"classes"`
	Functions int `json:"functions"`
	Tests     int `json:"tests"`
}

// Total returns the node count over all rows.
func (s ColumnStats) Total() int {
	return s.DataTypes + s.Classes + s.Functions + s.Tests
}

// ColumnWidth is the relative width of one matrix column.
type ColumnWidth struct {
	Column matrix.Column `json:"column"`
	Mode   WidthMode     `json:"mode"`
	Weight float64       `json:"weight"`
}

// AllocateColumnWidths returns one entry per column in index order. The
// gateway column and empty columns are narrow; all others fill. Columns
// missing from stats count as empty.
func AllocateColumnWidths(stats map[matrix.Column]ColumnStats) []ColumnWidth {
	out := make([]ColumnWidth, len(matrix.Columns))
	for i, c := range matrix.Columns {
		w := ColumnWidth{Column: c, Mode: ModeFill, Weight: FillWeight}
		if c == matrix.ColumnGateway || stats[c].Total() == 0 {
			w.Mode, w.Weight = ModeNarrow, NarrowWeight
		}
		out[i] = w
	}
	return out
}

// StatsFromBuckets counts classified nodes per column and row.
func StatsFromBuckets(b matrix.Buckets) map[matrix.Column]ColumnStats {
	out := make(map[matrix.Column]ColumnStats, len(matrix.Columns))
	for _, c := range matrix.Columns {
		out[c] = ColumnStats{
			DataTypes: len(b[matrix.Segment{Column: c, Row: matrix.RowTop}]),
			Classes:   len(b[matrix.Segment{Column: c, Row: matrix.RowMiddle}]),
			Functions: len(b[matrix.Segment{Column: c, Row: matrix.RowBottom}]),
			Tests:     len(b[matrix.Segment{Column: c, Row: matrix.RowTests}]),
		}
	}
	return out
}

// Distribute splits total pixels across columns in proportion to their
// weights. The result always sums to total.
func Distribute(widths []ColumnWidth, total float64) []float64 {
	out := make([]float64, len(widths))
	sum := 0.0
	for _, w := range widths {
		sum += w.Weight
	}
	if sum <= 0 {
		return out
	}
	used := 0.0
	for i, w := range widths {
		if i == len(widths)-1 {
			out[i] = total - used
			break
		}
		out[i] = total * w.Weight / sum
		used += out[i]
	}
	return out
}
