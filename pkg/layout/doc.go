// Package layout positions classified nodes inside the 4×4 segment matrix.
//
// # Overview
//
// The matrix has one column per architectural layer (API, Service,
// Repository, Gateway) and one row per element kind (data types, classes,
// functions, tests). Every segment is a cell of [Config.ColumnWidth] by
// [Config.RowHeight] whose origin is (column index × ColumnWidth, row index ×
// RowHeight). [Segment] lays out one cell; [Full] classifies a whole catalog
// and concatenates all sixteen cells in [matrix.All] order. In [Full], a row
// whose content is taller than RowHeight grows and pushes later rows down
// ([Layout.Rows]), so placements never overlap across segments.
//
// # Row Policies
//
// Each row kind has its own policy:
//
//   - Top row: data-type boxes ordered by folder, then name, packed left to
//     right and wrapped to a new line when the column width runs out.
//   - Middle and tests rows: every class-like node forms a vertical stack of
//     its header box with one method box per owned method directly beneath.
//     A stack that does not fit the remaining height of the current
//     in-segment column starts a new one; when that column would cross the
//     segment's right edge, a new band of columns starts below the lowest
//     stack. Remaining nodes ("orphans") are packed below the lowest stack,
//     ordered by name.
//   - Bottom row: function boxes ordered by name, wrapped like the top row.
//
// Wrapping is done by a [pack] strategy chosen with [Config.RowStrategy];
// the default shelf strategy reproduces the line-wrap rule exactly.
//
// A method whose owner (see [group.Ownership]) is class-like and lands in a
// middle or tests row is attached: it is drawn under its owner and never
// appears as an orphan, even when classified into another segment.
//
// # Column Widths
//
// [AllocateColumnWidths] turns per-column node counts into relative width
// weights. Empty columns and the gateway column are narrow; the rest share
// the remaining space equally. [Distribute] converts weights to pixels.
//
// The package performs no I/O and never mutates its inputs. Identical input
// and configuration always produce identical output.
package layout
