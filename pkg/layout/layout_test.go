package layout

import (
	"fmt"
	"math/rand/v2"
	"reflect"
	"testing"

	"github.com/matzehuels/codematrix/pkg/catalog"
	"github.com/matzehuels/codematrix/pkg/errors"
	"github.com/matzehuels/codematrix/pkg/group"
	"github.com/matzehuels/codematrix/pkg/matrix"
	"github.com/matzehuels/codematrix/pkg/pack"
)

func TestFullDimensionsAndCounts(t *testing.T) {
	cat := catalog.New([]catalog.Node{
		{ID: "crate::x", Type: catalog.TypeCrate, Name: "x"},
		{ID: "h", Type: catalog.TypeStruct, Name: "Handler", Filename: "src/api/handler.rs"},
		{ID: "e", Type: catalog.TypeClassStruct, Name: "Email", Filename: "src/gateways/email_client.rs"},
		{ID: "f", Type: catalog.TypeFunction, Name: "main", Filename: "src/main.rs"},
	}, nil)

	cfg := testConfig()
	l, err := Full(cat, cfg)
	if err != nil {
		t.Fatalf("Full() error: %v", err)
	}
	if l.Width != 1200 || l.Height != 800 {
		t.Errorf("size = %vx%v, want 1200x800", l.Width, l.Height)
	}
	if len(l.Counts) != 16 {
		t.Errorf("len(Counts) = %d, want 16", len(l.Counts))
	}
	want := map[string]int{"left-top": 1, "gateway-middle": 1, "middle-bottom": 1}
	total := 0
	for key, n := range l.Counts {
		total += n
		if n != want[key] {
			t.Errorf("Counts[%s] = %d, want %d", key, n, want[key])
		}
	}
	if total != 3 || len(l.Placements) != 3 {
		t.Errorf("total = %d, placements = %d, want 3 (crate dropped)", total, len(l.Placements))
	}

	modes := []WidthMode{ModeFill, ModeFill, ModeNarrow, ModeNarrow}
	for i, c := range l.Columns {
		if c.Mode != modes[i] {
			t.Errorf("column %s mode = %s, want %s", c.Column, c.Mode, modes[i])
		}
	}

	h := byID(l.Placements)["h"]
	if h.X != 10 || h.Y != 10 {
		t.Errorf("Handler at (%v,%v), want (10,10)", h.X, h.Y)
	}
	e := byID(l.Placements)["e"]
	if e.X != 900+10 || e.Y != 200+10 {
		t.Errorf("Email at (%v,%v), want (910,210)", e.X, e.Y)
	}
}

func TestFullPlacementOrderFollowsSegments(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	cat := randomCatalog(rng, 80)
	l, err := Full(cat, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	index := make(map[matrix.Segment]int)
	for i, seg := range matrix.All() {
		index[seg] = i
	}
	for i := 1; i < len(l.Placements); i++ {
		if index[l.Placements[i].Segment] < index[l.Placements[i-1].Segment] {
			t.Fatalf("placement %d (%s) after %s", i, l.Placements[i].Segment, l.Placements[i-1].Segment)
		}
	}
}

func TestFullDeterministic(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 5))
	cat := randomCatalog(rng, 120)

	a, err := Full(cat, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	for range 5 {
		b, err := Full(cat, DefaultConfig())
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(a, b) {
			t.Fatal("Full() is not deterministic")
		}
	}
}

func TestFullEveryNodePlacedOnce(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	for range 20 {
		cat := randomCatalog(rng, 50)
		l, err := Full(cat, DefaultConfig())
		if err != nil {
			t.Fatal(err)
		}
		seen := make(map[string]int)
		for _, p := range l.Placements {
			seen[p.ID]++
		}
		for _, n := range cat.Nodes() {
			if n.Type == catalog.TypeCrate {
				continue
			}
			if seen[n.ID] != 1 {
				t.Fatalf("%s placed %d times", n.ID, seen[n.ID])
			}
		}
	}
}

func TestFullReportsDivergences(t *testing.T) {
	cat := catalog.New([]catalog.Node{
		{ID: "crate::x|class_struct::A", Type: catalog.TypeClassStruct, Name: "A"},
		{ID: "crate::x|class_struct::B", Type: catalog.TypeClassStruct, Name: "B"},
		{ID: "crate::x|class_struct::B|method::m", Type: catalog.TypeMethod, Name: "m"},
	}, []catalog.Edge{
		{From: "crate::x|class_struct::A", To: "crate::x|class_struct::B|method::m", Type: catalog.EdgeIncludes},
	})

	l, err := Full(cat, testConfig())
	if err != nil {
		t.Fatal(err)
	}
	want := []group.Divergence{{
		Method:     "crate::x|class_struct::B|method::m",
		EdgeOwner:  "crate::x|class_struct::A",
		OtherOwner: "crate::x|class_struct::B",
		Reason:     group.ReasonPrefixOwner,
	}}
	if !reflect.DeepEqual(l.Divergences, want) {
		t.Errorf("Divergences = %+v, want %+v", l.Divergences, want)
	}
	if m := byID(l.Placements)["crate::x|class_struct::B|method::m"]; m.Owner != "crate::x|class_struct::A" {
		t.Errorf("method owner = %q, want the edge owner", m.Owner)
	}
}

func TestFullInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Padding = -1
	_, err := Full(catalog.New(nil, nil), cfg)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("error = %v, want INVALID_CONFIG", err)
	}
}

// crowdedCatalog has six classes with eight methods each in the service
// layer, next to one class in the infra layer.
func crowdedCatalog() *catalog.Catalog {
	var nodes []catalog.Node
	var edges []catalog.Edge
	for i := range 6 {
		id := fmt.Sprintf("crate::x|class_struct::C%d", i)
		nodes = append(nodes, catalog.Node{ID: id, Type: catalog.TypeClassStruct, Name: fmt.Sprintf("C%d", i), Filename: "src/core/c.rs"})
		for j := range 8 {
			mid := fmt.Sprintf("%s|method::m%d", id, j)
			nodes = append(nodes, catalog.Node{ID: mid, Type: catalog.TypeMethod, Name: fmt.Sprintf("m%d", j), Filename: "src/core/c.rs"})
			edges = append(edges, catalog.Edge{From: id, To: mid, Type: catalog.EdgeIncludes})
		}
	}
	nodes = append(nodes,
		catalog.Node{ID: "crate::x|class_struct::Repo", Type: catalog.TypeClassStruct, Name: "Repo", Filename: "src/infra/repo.rs"},
		catalog.Node{ID: "crate::x|function::run", Type: catalog.TypeFunction, Name: "run", Filename: "src/core/main.rs"},
	)
	return catalog.New(nodes, edges)
}

// assertInsideCells checks that every placement stays within its segment's
// column and row band, and that no two placements overlap anywhere.
func assertInsideCells(t *testing.T, l *Layout) {
	t.Helper()
	for _, p := range l.Placements {
		left := float64(p.Segment.Column) * l.ColumnWidth
		if p.X < left || p.Right() > left+l.ColumnWidth {
			t.Fatalf("%s in %s spans x %v..%v, outside %v..%v", p.Name, p.Segment, p.X, p.Right(), left, left+l.ColumnWidth)
		}
		top := l.RowTop(p.Segment.Row)
		end := l.Height
		if next := int(p.Segment.Row) + 1; next < len(matrix.Rows) {
			end = l.RowTop(matrix.Rows[next])
		}
		if p.Y < top || p.Bottom() > end {
			t.Fatalf("%s in %s spans y %v..%v, outside %v..%v", p.Name, p.Segment, p.Y, p.Bottom(), top, end)
		}
	}
	assertNoOverlap(t, l.Placements)
}

func TestFullCrowdedSegmentStaysInside(t *testing.T) {
	cfg := DefaultConfig()
	l, err := Full(crowdedCatalog(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	assertInsideCells(t, l)

	// Three stacks fit side by side in 600px; C3 opens a second band below.
	got := byID(l.Placements)
	c3 := got["crate::x|class_struct::C3"]
	middleTop := l.RowTop(matrix.RowMiddle)
	if c3.X != 600+10 || c3.Y != middleTop+248 {
		t.Errorf("C3 at (%v,%v), want (610,%v)", c3.X, c3.Y, middleTop+248)
	}

	// The middle row outgrew RowHeight, so the bottom row moved down.
	if bottom := l.RowTop(matrix.RowBottom); bottom <= middleTop+cfg.RowHeight {
		t.Errorf("bottom row top = %v, want below %v", bottom, middleTop+cfg.RowHeight)
	}
	if run := got["crate::x|function::run"]; run.Y < l.RowTop(matrix.RowBottom) {
		t.Errorf("run at y %v, above the bottom row", run.Y)
	}
	if l.Height <= 4*cfg.RowHeight {
		t.Errorf("Height = %v, want more than %v", l.Height, 4*cfg.RowHeight)
	}
}

func TestFullNoOverlapAcrossSegments(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 5))
	for round := range 30 {
		cat := randomCatalog(rng, 20+rng.IntN(150))
		for _, s := range pack.Strategies {
			cfg := testConfig()
			cfg.RowStrategy = s
			l, err := Full(cat, cfg)
			if err != nil {
				t.Fatalf("round %d %s: %v", round, s, err)
			}
			assertInsideCells(t, l)
		}
	}
}
