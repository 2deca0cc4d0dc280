package matrix

import (
	"slices"
	"strings"

	"github.com/matzehuels/codematrix/pkg/catalog"
)

// =============================================================================
// Rule Types
// =============================================================================

// ColumnRule assigns a column when Match reports true.
type ColumnRule struct {
	Name   string
	Column Column
	Match  func(n *catalog.Node) bool
}

// RowRule assigns a row when Match reports true.
type RowRule struct {
	Name  string
	Row   Row
	Match func(n *catalog.Node) bool
}

// Names reported by [Explain] when no rule matched.
const (
	DefaultColumnRule = "default-column"
	DefaultRowRule    = "default-row"
)

// =============================================================================
// Column Rules
// =============================================================================

// ColumnRules are evaluated in order; the first match wins. Nodes matching no
// rule land in [ColumnMiddle].
var ColumnRules = []ColumnRule{
	{Name: "gateway-folder", Column: ColumnGateway, Match: InFolder("gateway", "gateways", "client", "clients")},
	{Name: "gateway-name", Column: ColumnGateway, Match: NameContains("gateway", "client")},
	{Name: "infra-folder", Column: ColumnRight, Match: InFolder("infra")},
	{Name: "api-folder", Column: ColumnLeft, Match: InFolder("api", "contract")},
}

// InFolder matches nodes whose filename has a directory component equal to
// one of names. Comparison is case-sensitive and both slash styles separate
// components; the final (file) component is not a folder.
func InFolder(names ...string) func(*catalog.Node) bool {
	return func(n *catalog.Node) bool {
		for _, f := range Folders(n.Filename) {
			if slices.Contains(names, f) {
				return true
			}
		}
		return false
	}
}

// NameContains matches nodes whose lower-cased name contains any of subs.
func NameContains(subs ...string) func(*catalog.Node) bool {
	return func(n *catalog.Node) bool {
		name := strings.ToLower(n.Name)
		for _, s := range subs {
			if strings.Contains(name, s) {
				return true
			}
		}
		return false
	}
}

// Folders splits filename on '/' and '\' and drops the final component.
// Empty components are skipped.
func Folders(filename string) []string {
	parts := strings.FieldsFunc(filename, func(r rune) bool { return r == '/' || r == '\\' })
	if len(parts) <= 1 {
		return nil
	}
	return parts[:len(parts)-1]
}

// =============================================================================
// Row Rules
// =============================================================================

// RowRules are evaluated in order; the first match wins. Nodes matching no
// rule land in [RowMiddle]. The test rules come first so that test code is
// separated regardless of its type tag.
var RowRules = []RowRule{
	{Name: "tests-folder", Row: RowTests, Match: inLowerFolder("tests")},
	{Name: "test-folder", Row: RowTests, Match: inLowerFolder("test")},
	{Name: "test-hierarchy", Row: RowTests, Match: HierarchyMentionsTest},
	{Name: "test-name", Row: RowTests, Match: NameMarksTest},
	{Name: "test-module", Row: RowTests, Match: IDHasTestModule},
	{Name: "enum", Row: RowTop, Match: TypeIs(catalog.TypeEnum)},
	{Name: "plain-struct", Row: RowTop, Match: PlainStruct},
	{Name: "class-or-method", Row: RowMiddle, Match: TypeIs(catalog.TypeClassStruct, catalog.TypeMethod)},
	{Name: "struct-with-behaviour", Row: RowMiddle, Match: StructWithBehaviour},
	{Name: "function", Row: RowBottom, Match: TypeIs(catalog.TypeFunction)},
}

func inLowerFolder(name string) func(*catalog.Node) bool {
	return func(n *catalog.Node) bool {
		return slices.Contains(Folders(strings.ToLower(n.Filename)), name)
	}
}

// HierarchyMentionsTest matches nodes whose details.hierarchy text contains
// "test" (which covers "tests").
func HierarchyMentionsTest(n *catalog.Node) bool {
	return strings.Contains(n.Hierarchy(), "test")
}

// NameMarksTest matches nodes whose lower-cased name or id contains "_test"
// or "test_".
func NameMarksTest(n *catalog.Node) bool {
	for _, s := range []string{strings.ToLower(n.Name), strings.ToLower(n.ID)} {
		if strings.Contains(s, "_test") || strings.Contains(s, "test_") {
			return true
		}
	}
	return false
}

// IDHasTestModule matches ids with a module path segment named test or tests.
func IDHasTestModule(n *catalog.Node) bool {
	id := n.ID
	return strings.Contains(id, "::test::") ||
		strings.Contains(id, "::tests::") ||
		strings.HasPrefix(id, "test::") ||
		strings.HasPrefix(id, "tests::")
}

// TypeIs matches nodes whose type tag equals one of types exactly.
func TypeIs(types ...string) func(*catalog.Node) bool {
	return func(n *catalog.Node) bool {
		return slices.Contains(types, n.Type)
	}
}

// PlainStruct matches struct and dto nodes without methods or functions.
func PlainStruct(n *catalog.Node) bool {
	return isStructOrDTO(n) && !hasBehaviour(n)
}

// StructWithBehaviour matches struct and dto nodes that carry methods or
// functions.
func StructWithBehaviour(n *catalog.Node) bool {
	return isStructOrDTO(n) && hasBehaviour(n)
}

func isStructOrDTO(n *catalog.Node) bool {
	return n.Type == catalog.TypeStruct || n.Type == catalog.TypeDTO
}

func hasBehaviour(n *catalog.Node) bool {
	return n.Has(catalog.DetailMethods) || n.Has(catalog.DetailFunctions)
}
