package pack

import (
	"cmp"
	"slices"
)

type shelf struct {
	y, height, x float64
}

// Shelf places items on horizontal shelves.
//
// Items are taken in descending height order when opts.SortByHeight is set
// (stable, so equal heights keep input order), else in input order. Each
// item goes on the first shelf, in creation order, that still has room for
// its width and is at least as tall. Otherwise a new shelf as tall as the
// item opens below the previous one. Items start at x = Padding; the first
// shelf sits at y = 0 and consecutive shelves are Padding apart.
//
// The reported height is the bottom of the last shelf plus Padding.
func Shelf[T any](items []Item[T], width float64, opts Options) (Result[T], error) {
	p := opts.Padding
	if err := validate(items, width, opts, width-p); err != nil {
		return Result[T]{}, err
	}

	order := indexes(len(items))
	if opts.SortByHeight {
		slices.SortStableFunc(order, func(a, b int) int {
			return cmp.Compare(items[b].Height, items[a].Height)
		})
	}

	var shelves []shelf
	res := Result[T]{Placements: make([]Placement[T], 0, len(items))}
	for _, i := range order {
		it := items[i]
		placed := false
		for s := range shelves {
			sh := &shelves[s]
			if sh.x+it.Width <= width && sh.height >= it.Height {
				res.Placements = append(res.Placements, Placement[T]{Item: it, Index: i, X: sh.x, Y: sh.y})
				sh.x += it.Width + p
				placed = true
				break
			}
		}
		if placed {
			continue
		}

		y := 0.0
		if n := len(shelves); n > 0 {
			y = shelves[n-1].y + shelves[n-1].height + p
		}
		shelves = append(shelves, shelf{y: y, height: it.Height, x: p + it.Width + p})
		res.Placements = append(res.Placements, Placement[T]{Item: it, Index: i, X: p, Y: y})
	}

	if n := len(shelves); n > 0 {
		res.Height = shelves[n-1].y + shelves[n-1].height + p
	}
	return res, nil
}

func indexes(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
