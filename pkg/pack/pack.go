package pack

import (
	"math"

	"github.com/matzehuels/codematrix/pkg/errors"
)

// Item is a rectangle to place. Width and Height must be positive.
type Item[T any] struct {
	Width   float64
	Height  float64
	Payload T
}

// Placement is an item with its top-left position. Index is the item's
// position in the input slice.
type Placement[T any] struct {
	Item[T]
	Index int
	X     float64
	Y     float64
}

// Rect returns the occupied rectangle.
func (p Placement[T]) Rect() Rect {
	return Rect{X: p.X, Y: p.Y, W: p.Width, H: p.Height}
}

// Result is the output of a packer. Placements are in placement order.
type Result[T any] struct {
	Placements []Placement[T]
	Height     float64
}

// Options tunes the packers. Fields a strategy does not use are ignored.
type Options struct {
	// Padding is the gap between items and around the container edge.
	Padding float64 `json:"padding" toml:"padding" yaml:"padding"`

	// SortByHeight pre-sorts shelf input by descending height.
	SortByHeight bool `json:"sort_by_height" toml:"sort_by_height" yaml:"sort_by_height"`

	// MinColumnWidth bounds the column count of the column packer.
	MinColumnWidth float64 `json:"min_column_width" toml:"min_column_width" yaml:"min_column_width"`

	// MaxColumns caps the column count; zero or less means no cap.
	MaxColumns int `json:"max_columns" toml:"max_columns" yaml:"max_columns"`
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		Padding:        10,
		SortByHeight:   true,
		MinColumnWidth: 200,
		MaxColumns:     4,
	}
}

// Strategy names a packer.
type Strategy string

const (
	StrategyShelf      Strategy = "shelf"
	StrategyGuillotine Strategy = "guillotine"
	StrategyColumn     Strategy = "column"
)

// Strategies lists every strategy.
var Strategies = []Strategy{StrategyShelf, StrategyGuillotine, StrategyColumn}

// ParseStrategy validates a strategy name. The empty string selects shelf.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "", StrategyShelf:
		return StrategyShelf, nil
	case StrategyGuillotine, StrategyColumn:
		return Strategy(s), nil
	}
	return "", errors.New(errors.ErrCodeInvalidStrategy, "unknown packing strategy %q (must be shelf, guillotine or column)", s)
}

// Pack dispatches to the packer named by s.
func Pack[T any](s Strategy, items []Item[T], width float64, opts Options) (Result[T], error) {
	switch s {
	case StrategyShelf, "":
		return Shelf(items, width, opts)
	case StrategyGuillotine:
		return Guillotine(items, width, opts)
	case StrategyColumn:
		return Column(items, width, opts)
	}
	return Result[T]{}, errors.New(errors.ErrCodeInvalidStrategy, "unknown packing strategy %q", s)
}

// validate checks the container and every item. maxItemWidth is the widest
// item the strategy can place.
func validate[T any](items []Item[T], width float64, opts Options, maxItemWidth float64) error {
	if !(width > 0) || math.IsInf(width, 0) {
		return errors.New(errors.ErrCodeInvalidInput, "container width must be positive and finite, got %v", width)
	}
	if opts.Padding < 0 || math.IsNaN(opts.Padding) {
		return errors.New(errors.ErrCodeInvalidInput, "padding must not be negative, got %v", opts.Padding)
	}
	for i, it := range items {
		if !(it.Width > 0) || !(it.Height > 0) || math.IsInf(it.Width, 0) || math.IsInf(it.Height, 0) {
			return errors.New(errors.ErrCodeInvalidInput, "item %d has invalid size %vx%v", i, it.Width, it.Height)
		}
		if it.Width > maxItemWidth {
			return errors.New(errors.ErrCodeInvalidInput, "item %d is %v wide, exceeds usable width %v", i, it.Width, maxItemWidth)
		}
	}
	return nil
}
