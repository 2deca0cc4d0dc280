package pack

import (
	"cmp"
	"math"
	"slices"

	"github.com/matzehuels/codematrix/pkg/errors"
)

// Guillotine places items into free rectangles.
//
// Items are taken in descending area order (stable). The free set starts as
// one rectangle spanning the container's interior width, inset by Padding,
// with unbounded height. Each item goes at the origin of the free rectangle
// that minimizes the shorter leftover side; the first such rectangle wins
// ties. The item consumes a slot of its size plus Padding, clipped to the
// rectangle, and the rest of the rectangle splits into a right part as tall
// as the slot and a bottom part spanning the full width. Free rectangles
// therefore never overlap each other or a placed item.
//
// After each split, rectangles contained in another are pruned. This is a
// pairwise pass, not a merge of adjacent rectangles, so free space can
// fragment over many insertions.
//
// The reported height is the lowest item bottom plus Padding.
func Guillotine[T any](items []Item[T], width float64, opts Options) (Result[T], error) {
	p := opts.Padding
	if err := validate(items, width, opts, width-2*p); err != nil {
		return Result[T]{}, err
	}

	order := indexes(len(items))
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(items[b].Width*items[b].Height, items[a].Width*items[a].Height)
	})

	free := []Rect{{X: p, Y: p, W: width - 2*p, H: math.Inf(1)}}
	res := Result[T]{Placements: make([]Placement[T], 0, len(items))}
	bottom := 0.0

	for _, i := range order {
		it := items[i]
		best := -1
		bestScore := math.Inf(1)
		for r, fr := range free {
			if it.Width > fr.W || it.Height > fr.H {
				continue
			}
			score := math.Min(fr.W-it.Width, fr.H-it.Height)
			if score < bestScore {
				best, bestScore = r, score
			}
		}
		// An unbounded rectangle spanning the usable width always survives,
		// so validated items cannot miss.
		if best < 0 {
			return Result[T]{}, errors.New(errors.ErrCodeInternal, "no free rectangle for item %d", i)
		}

		fr := free[best]
		res.Placements = append(res.Placements, Placement[T]{Item: it, Index: i, X: fr.X, Y: fr.Y})
		bottom = math.Max(bottom, fr.Y+it.Height)

		free = slices.Delete(free, best, best+1)
		free = append(free, split(fr, it.Width+p, it.Height+p)...)
		free = pruneContained(free)
	}

	if len(res.Placements) > 0 {
		res.Height = bottom + p
	}
	return res, nil
}

// split carves a w×h slot from the top-left of r and returns the non-empty
// right and bottom remainders.
func split(r Rect, w, h float64) []Rect {
	cw, ch := math.Min(w, r.W), math.Min(h, r.H)
	var out []Rect
	if r.W-cw > 0 {
		out = append(out, Rect{X: r.X + cw, Y: r.Y, W: r.W - cw, H: ch})
	}
	if r.H-ch > 0 {
		out = append(out, Rect{X: r.X, Y: r.Y + ch, W: r.W, H: r.H - ch})
	}
	return out
}

// pruneContained drops rectangles that lie inside another. Of two identical
// rectangles the earlier is kept.
func pruneContained(rects []Rect) []Rect {
	if len(rects) <= 1 {
		return rects
	}
	kept := make([]Rect, 0, len(rects))
	for i, a := range rects {
		contained := false
		for j, b := range rects {
			if i == j || !Contains(b, a) {
				continue
			}
			if a == b && i < j {
				continue
			}
			contained = true
			break
		}
		if !contained {
			kept = append(kept, a)
		}
	}
	return kept
}
