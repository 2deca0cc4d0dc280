package pack

import (
	"math"

	"github.com/matzehuels/codematrix/pkg/errors"
)

// Column stacks items into equal-width columns.
//
// The column count is floor(width / MinColumnWidth), clamped to
// [1, MaxColumns] (no upper bound when MaxColumns <= 0). Items are dealt to
// columns round-robin in input order and stack top to bottom within their
// column, starting at y = Padding with Padding between items. Each item sits
// Padding from its column's left edge and must fit inside the column.
//
// The reported height is the tallest column, trailing Padding included.
func Column[T any](items []Item[T], width float64, opts Options) (Result[T], error) {
	if !(opts.MinColumnWidth > 0) {
		return Result[T]{}, errors.New(errors.ErrCodeInvalidInput, "min column width must be positive, got %v", opts.MinColumnWidth)
	}
	n := Columns(width, opts)
	colWidth := width / float64(n)
	p := opts.Padding
	if err := validate(items, width, opts, colWidth-p); err != nil {
		return Result[T]{}, err
	}

	heights := make([]float64, n)
	for c := range heights {
		heights[c] = p
	}

	res := Result[T]{Placements: make([]Placement[T], 0, len(items))}
	for i, it := range items {
		c := i % n
		res.Placements = append(res.Placements, Placement[T]{
			Item:  it,
			Index: i,
			X:     float64(c)*colWidth + p,
			Y:     heights[c],
		})
		heights[c] += it.Height + p
	}

	if len(items) > 0 {
		for _, h := range heights {
			res.Height = math.Max(res.Height, h)
		}
	}
	return res, nil
}

// Columns returns the column count the column packer uses for width.
func Columns(width float64, opts Options) int {
	if !(opts.MinColumnWidth > 0) || !(width > 0) {
		return 1
	}
	n := int(math.Floor(width / opts.MinColumnWidth))
	if opts.MaxColumns > 0 && n > opts.MaxColumns {
		n = opts.MaxColumns
	}
	return max(n, 1)
}
