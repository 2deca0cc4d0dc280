package layout

import (
	"testing"

	"github.com/matzehuels/codematrix/pkg/catalog"
	"github.com/matzehuels/codematrix/pkg/matrix"
)

func TestAllocateColumnWidths(t *testing.T) {
	tests := []struct {
		name  string
		stats map[matrix.Column]ColumnStats
		want  []WidthMode
	}{
		{
			name:  "all empty",
			stats: nil,
			want:  []WidthMode{ModeNarrow, ModeNarrow, ModeNarrow, ModeNarrow},
		},
		{
			name: "gateway always narrow",
			stats: map[matrix.Column]ColumnStats{
				matrix.ColumnLeft:    {DataTypes: 1},
				matrix.ColumnMiddle:  {Classes: 4},
				matrix.ColumnRight:   {Functions: 2},
				matrix.ColumnGateway: {Classes: 50},
			},
			want: []WidthMode{ModeFill, ModeFill, ModeFill, ModeNarrow},
		},
		{
			name: "empty middle",
			stats: map[matrix.Column]ColumnStats{
				matrix.ColumnLeft:  {Tests: 1},
				matrix.ColumnRight: {DataTypes: 3},
			},
			want: []WidthMode{ModeFill, ModeNarrow, ModeFill, ModeNarrow},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AllocateColumnWidths(tt.stats)
			if len(got) != 4 {
				t.Fatalf("len = %d, want 4", len(got))
			}
			for i, w := range got {
				if w.Column != matrix.Columns[i] {
					t.Errorf("[%d].Column = %s", i, w.Column)
				}
				if w.Mode != tt.want[i] {
					t.Errorf("%s mode = %s, want %s", w.Column, w.Mode, tt.want[i])
				}
				wantWeight := float64(FillWeight)
				if tt.want[i] == ModeNarrow {
					wantWeight = NarrowWeight
				}
				if w.Weight != wantWeight {
					t.Errorf("%s weight = %v, want %v", w.Column, w.Weight, wantWeight)
				}
			}
		})
	}
}

func TestStatsFromBuckets(t *testing.T) {
	nodes := []*catalog.Node{
		{ID: "a", Type: catalog.TypeEnum, Name: "A", Filename: "src/api/a.rs"},
		{ID: "b", Type: catalog.TypeFunction, Name: "b", Filename: "src/api/b.rs"},
		{ID: "c", Type: catalog.TypeFunction, Name: "c", Filename: "src/infra/c.rs"},
		{ID: "d", Type: catalog.TypeFunction, Name: "test_d", Filename: "src/infra/c.rs"},
	}
	stats := StatsFromBuckets(matrix.Classify(nodes))

	if got := stats[matrix.ColumnLeft]; got != (ColumnStats{DataTypes: 1, Functions: 1}) {
		t.Errorf("left = %+v", got)
	}
	if got := stats[matrix.ColumnRight]; got != (ColumnStats{Functions: 1, Tests: 1}) {
		t.Errorf("right = %+v", got)
	}
	if got := stats[matrix.ColumnMiddle].Total(); got != 0 {
		t.Errorf("middle total = %d", got)
	}
}

func TestDistribute(t *testing.T) {
	widths := AllocateColumnWidths(map[matrix.Column]ColumnStats{
		matrix.ColumnLeft:  {Classes: 1},
		matrix.ColumnRight: {Classes: 1},
	})
	got := Distribute(widths, 800)
	want := []float64{300, 100, 300, 100}
	sum := 0.0
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Distribute()[%d] = %v, want %v", i, got[i], want[i])
		}
		sum += got[i]
	}
	if sum != 800 {
		t.Errorf("sum = %v, want 800", sum)
	}

	if got := Distribute(nil, 100); len(got) != 0 {
		t.Errorf("Distribute(nil) = %v", got)
	}
}
