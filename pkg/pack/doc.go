// Package pack implements three interchangeable 2D rectangle packers over
// items of arbitrary payload:
//
//   - [Shelf]: first-fit shelves, optionally sorted by descending height
//   - [Guillotine]: best-short-side-fit over a set of free rectangles
//   - [Column]: round-robin stacking into equal-width columns
//
// Every packer takes a fixed container width and returns each item's
// top-left position plus the height the placement needs. For every result,
// no two placed rectangles overlap and every item satisfies
// x + width <= container width.
//
// None of the packers is optimal. They are deterministic first-fit style
// heuristics; identical input yields identical output.
//
// # Usage
//
//	items := []pack.Item[string]{{Width: 50, Height: 30, Payload: "a"}, {Width: 50, Height: 30, Payload: "b"}}
//	res, err := pack.Shelf(items, 60, pack.DefaultOptions())
//	// res.Placements[1].Y == 30 + padding: the second item opened a new shelf
package pack
