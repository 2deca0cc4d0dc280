// Package matrix classifies catalog nodes into the 16 segments of the
// architecture matrix.
//
// # Columns and Rows
//
// The matrix has four columns, one per architectural layer:
//
//   - left: API and contract surfaces
//   - middle: services (the default)
//   - right: repositories and infrastructure
//   - gateway: outbound gateways and clients
//
// and four rows, one per element kind:
//
//   - top: data types (enums and plain structs)
//   - middle: classes and methods (the default)
//   - bottom: free functions
//   - tests: anything that looks like test code
//
// # Rules
//
// Column and row selection are ordered lists of named predicates,
// [ColumnRules] and [RowRules]. The first matching rule wins and the order is
// the tie-break policy, so reordering the lists changes output. Each rule is
// exported so it can be tested alone, and [Explain] reports which rules fired
// for a node.
//
// Classification is pure: it reads nodes, never mutates them, and returns
// identical buckets for identical input.
package matrix
