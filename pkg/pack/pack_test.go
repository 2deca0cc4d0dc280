package pack

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/matzehuels/codematrix/pkg/errors"
)

func TestShelfWrapsToNewShelf(t *testing.T) {
	for _, padding := range []float64{0, 4, 10} {
		t.Run(fmt.Sprintf("padding=%v", padding), func(t *testing.T) {
			items := []Item[string]{
				{Width: 50, Height: 30, Payload: "first"},
				{Width: 50, Height: 30, Payload: "second"},
			}
			opts := DefaultOptions()
			opts.Padding = padding

			res, err := Shelf(items, 60, opts)
			if err != nil {
				t.Fatalf("Shelf() error: %v", err)
			}
			first, second := res.Placements[0], res.Placements[1]
			if first.X != padding || first.Y != 0 {
				t.Errorf("first at (%v,%v), want (%v,0)", first.X, first.Y, padding)
			}
			if second.X != padding || second.Y != 30+padding {
				t.Errorf("second at (%v,%v), want (%v,%v)", second.X, second.Y, padding, 30+padding)
			}
			if want := 30 + padding + 30 + padding; res.Height != want {
				t.Errorf("Height = %v, want %v", res.Height, want)
			}
		})
	}
}

func TestShelfFirstFit(t *testing.T) {
	items := []Item[int]{
		{Width: 40, Height: 50, Payload: 0},
		{Width: 40, Height: 20, Payload: 1},
		{Width: 80, Height: 10, Payload: 2},
		{Width: 10, Height: 10, Payload: 3},
	}
	opts := Options{Padding: 0, SortByHeight: false}

	res, err := Shelf(items, 100, opts)
	if err != nil {
		t.Fatal(err)
	}
	got := make(map[int][2]float64)
	for _, p := range res.Placements {
		got[p.Payload] = [2]float64{p.X, p.Y}
	}
	want := map[int][2]float64{
		0: {0, 0},
		1: {40, 0}, // fits beside item 0, shorter than the shelf
		2: {0, 50}, // too wide for the first shelf
		3: {80, 0}, // back-fills the first shelf
	}
	for k, w := range want {
		if got[k] != w {
			t.Errorf("item %d at %v, want %v", k, got[k], w)
		}
	}
	if res.Height != 60 {
		t.Errorf("Height = %v, want 60", res.Height)
	}
}

func TestShelfTallerItemOpensShelf(t *testing.T) {
	items := []Item[int]{{Width: 10, Height: 10}, {Width: 10, Height: 20}}
	res, err := Shelf(items, 100, Options{Padding: 5})
	if err != nil {
		t.Fatal(err)
	}
	if res.Placements[1].Y != 15 {
		t.Errorf("taller item Y = %v, want 15 (new shelf)", res.Placements[1].Y)
	}
}

func TestShelfSortByHeight(t *testing.T) {
	items := []Item[string]{
		{Width: 10, Height: 10, Payload: "short"},
		{Width: 10, Height: 30, Payload: "tall"},
		{Width: 10, Height: 10, Payload: "short2"},
	}
	res, err := Shelf(items, 100, Options{Padding: 2, SortByHeight: true})
	if err != nil {
		t.Fatal(err)
	}
	order := []string{res.Placements[0].Payload, res.Placements[1].Payload, res.Placements[2].Payload}
	if order[0] != "tall" || order[1] != "short" || order[2] != "short2" {
		t.Errorf("order = %v, want [tall short short2]", order)
	}
	// All three share the tall shelf.
	for _, p := range res.Placements {
		if p.Y != 0 {
			t.Errorf("%s at y=%v, want 0", p.Payload, p.Y)
		}
	}
	if res.Placements[1].Index != 0 {
		t.Errorf("Index = %d, want 0", res.Placements[1].Index)
	}
}

func TestGuillotineBestShortSideFit(t *testing.T) {
	items := []Item[string]{
		{Width: 60, Height: 40, Payload: "big"},
		{Width: 30, Height: 30, Payload: "fill"},
	}
	res, err := Guillotine(items, 100, Options{Padding: 0})
	if err != nil {
		t.Fatal(err)
	}
	big, fill := res.Placements[0], res.Placements[1]
	if big.Payload != "big" || big.X != 0 || big.Y != 0 {
		t.Errorf("big at (%v,%v)", big.X, big.Y)
	}
	// The right remainder (40x40) leaves a short side of 10; the bottom
	// remainder is unbounded with a short side of 70.
	if fill.X != 60 || fill.Y != 0 {
		t.Errorf("fill at (%v,%v), want (60,0)", fill.X, fill.Y)
	}
	if res.Height != 40 {
		t.Errorf("Height = %v, want 40", res.Height)
	}
}

func TestGuillotineAreaOrderAndPadding(t *testing.T) {
	items := []Item[string]{
		{Width: 10, Height: 10, Payload: "small"},
		{Width: 50, Height: 50, Payload: "large"},
	}
	res, err := Guillotine(items, 100, Options{Padding: 5})
	if err != nil {
		t.Fatal(err)
	}
	if res.Placements[0].Payload != "large" {
		t.Errorf("first placed = %s, want large", res.Placements[0].Payload)
	}
	if res.Placements[0].X != 5 || res.Placements[0].Y != 5 {
		t.Errorf("large at (%v,%v), want (5,5)", res.Placements[0].X, res.Placements[0].Y)
	}
	small := res.Placements[1]
	if small.X != 60 || small.Y != 5 {
		t.Errorf("small at (%v,%v), want (60,5)", small.X, small.Y)
	}
	if res.Height != 60 {
		t.Errorf("Height = %v, want 60", res.Height)
	}
}

func TestColumnRoundRobin(t *testing.T) {
	items := make([]Item[int], 5)
	for i := range items {
		items[i] = Item[int]{Width: 50, Height: float64(10 * (i + 1)), Payload: i}
	}
	opts := Options{Padding: 5, MinColumnWidth: 100, MaxColumns: 2}

	res, err := Column(items, 300, opts)
	if err != nil {
		t.Fatal(err)
	}
	// floor(300/100) = 3 capped to 2 columns of 150.
	want := [][2]float64{{5, 5}, {155, 5}, {5, 20}, {155, 30}, {5, 55}}
	for i, p := range res.Placements {
		if p.X != want[i][0] || p.Y != want[i][1] {
			t.Errorf("item %d at (%v,%v), want %v", i, p.X, p.Y, want[i])
		}
	}
	// Column 0: 5 + (10+5) + (30+5) + (50+5) = 110
	if res.Height != 110 {
		t.Errorf("Height = %v, want 110", res.Height)
	}
}

func TestColumns(t *testing.T) {
	tests := []struct {
		width float64
		opts  Options
		want  int
	}{
		{300, Options{MinColumnWidth: 100}, 3},
		{300, Options{MinColumnWidth: 100, MaxColumns: 2}, 2},
		{50, Options{MinColumnWidth: 100}, 1},
		{1000, Options{MinColumnWidth: 100, MaxColumns: 0}, 10},
	}
	for _, tt := range tests {
		if got := Columns(tt.width, tt.opts); got != tt.want {
			t.Errorf("Columns(%v, %+v) = %d, want %d", tt.width, tt.opts, got, tt.want)
		}
	}
}

func TestEmptyInput(t *testing.T) {
	for _, s := range Strategies {
		t.Run(string(s), func(t *testing.T) {
			res, err := Pack[int](s, nil, 100, DefaultOptions())
			if err != nil {
				t.Fatalf("Pack() error: %v", err)
			}
			if len(res.Placements) != 0 || res.Height != 0 {
				t.Errorf("result = %+v, want empty", res)
			}
		})
	}
}

func TestInvalidInput(t *testing.T) {
	opts := DefaultOptions()
	tests := []struct {
		name  string
		items []Item[int]
		width float64
		opts  Options
	}{
		{"zero width container", []Item[int]{{Width: 1, Height: 1}}, 0, opts},
		{"zero width item", []Item[int]{{Width: 0, Height: 1}}, 100, opts},
		{"negative height item", []Item[int]{{Width: 1, Height: -1}}, 100, opts},
		{"item wider than container", []Item[int]{{Width: 95, Height: 1}}, 100, opts},
		{"negative padding", []Item[int]{{Width: 1, Height: 1}}, 100, Options{Padding: -1, MinColumnWidth: 10}},
	}
	for _, s := range Strategies {
		for _, tt := range tests {
			t.Run(string(s)+"/"+tt.name, func(t *testing.T) {
				_, err := Pack(s, tt.items, tt.width, tt.opts)
				if !errors.Is(err, errors.ErrCodeInvalidInput) {
					t.Errorf("error = %v, want INVALID_INPUT", err)
				}
			})
		}
	}

	_, err := Column([]Item[int]{{Width: 1, Height: 1}}, 100, Options{})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Column without min width: error = %v", err)
	}
}

func TestParseStrategy(t *testing.T) {
	for _, s := range []string{"", "shelf", "guillotine", "column"} {
		if _, err := ParseStrategy(s); err != nil {
			t.Errorf("ParseStrategy(%q) error: %v", s, err)
		}
	}
	if _, err := ParseStrategy("maxrects"); !errors.Is(err, errors.ErrCodeInvalidStrategy) {
		t.Errorf("ParseStrategy(maxrects) error = %v", err)
	}
	if _, err := Pack[int]("maxrects", nil, 10, Options{}); !errors.Is(err, errors.ErrCodeInvalidStrategy) {
		t.Errorf("Pack(maxrects) error = %v", err)
	}
}

func TestPruneContained(t *testing.T) {
	rects := []Rect{
		{0, 0, 10, 10},
		{2, 2, 3, 3},
		{0, 0, 10, 10},
		{20, 0, 5, 5},
	}
	got := pruneContained(rects)
	if len(got) != 2 {
		t.Fatalf("pruneContained() = %v, want 2 rects", got)
	}
	if got[0] != (Rect{0, 0, 10, 10}) || got[1] != (Rect{20, 0, 5, 5}) {
		t.Errorf("pruneContained() = %v", got)
	}
}

func TestOverlaps(t *testing.T) {
	a := Rect{0, 0, 10, 10}
	if Overlaps(a, Rect{10, 0, 5, 5}) {
		t.Error("touching rects overlap")
	}
	if !Overlaps(a, Rect{9, 9, 5, 5}) {
		t.Error("intersecting rects do not overlap")
	}
}

// TestPackInvariants checks the packing guarantees over random input for
// every strategy.
func TestPackInvariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 1))

	for round := range 200 {
		width := 100 + rng.Float64()*900
		opts := Options{
			Padding:        float64(rng.IntN(12)),
			SortByHeight:   rng.IntN(2) == 0,
			MinColumnWidth: 80 + rng.Float64()*200,
			MaxColumns:     rng.IntN(6),
		}
		colWidth := width / float64(Columns(width, opts))
		limit := min(colWidth-opts.Padding, width-2*opts.Padding)

		n := rng.IntN(40)
		items := make([]Item[int], n)
		for i := range items {
			items[i] = Item[int]{
				Width:   1 + rng.Float64()*(limit-1),
				Height:  1 + rng.Float64()*120,
				Payload: i,
			}
		}

		for _, s := range Strategies {
			res, err := Pack(s, items, width, opts)
			if err != nil {
				t.Fatalf("round %d %s: %v", round, s, err)
			}
			checkInvariants(t, fmt.Sprintf("round %d %s", round, s), items, width, res)
		}
	}
}

func checkInvariants(t *testing.T, label string, items []Item[int], width float64, res Result[int]) {
	t.Helper()
	if len(res.Placements) != len(items) {
		t.Fatalf("%s: placed %d of %d items", label, len(res.Placements), len(items))
	}
	seen := make(map[int]bool)
	for i, a := range res.Placements {
		if seen[a.Payload] {
			t.Fatalf("%s: item %d placed twice", label, a.Payload)
		}
		seen[a.Payload] = true
		if a.Index != a.Payload {
			t.Errorf("%s: Index %d for payload %d", label, a.Index, a.Payload)
		}
		if a.X < 0 || a.Y < 0 {
			t.Errorf("%s: item %d at negative position (%v,%v)", label, a.Payload, a.X, a.Y)
		}
		if a.X+a.Width > width+1e-9 {
			t.Errorf("%s: item %d exceeds width: %v > %v", label, a.Payload, a.X+a.Width, width)
		}
		if a.Y+a.Height > res.Height+1e-9 {
			t.Errorf("%s: item %d bottom %v below reported height %v", label, a.Payload, a.Y+a.Height, res.Height)
		}
		for _, b := range res.Placements[i+1:] {
			if Overlaps(a.Rect(), b.Rect()) {
				t.Fatalf("%s: items %d and %d overlap: %+v %+v", label, a.Payload, b.Payload, a.Rect(), b.Rect())
			}
		}
	}
}

func TestDeterministic(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 9))
	items := make([]Item[int], 30)
	for i := range items {
		items[i] = Item[int]{Width: 5 + float64(rng.IntN(40)), Height: 5 + float64(rng.IntN(40)), Payload: i}
	}
	opts := DefaultOptions()
	for _, s := range Strategies {
		a, errA := Pack(s, items, 400, opts)
		b, errB := Pack(s, items, 400, opts)
		if errA != nil || errB != nil {
			t.Fatalf("%s: %v %v", s, errA, errB)
		}
		for i := range a.Placements {
			if a.Placements[i] != b.Placements[i] {
				t.Fatalf("%s: placement %d differs", s, i)
			}
		}
		if a.Height != b.Height {
			t.Errorf("%s: heights differ", s)
		}
	}
}
