package matrix

import (
	"slices"
	"testing"

	"github.com/matzehuels/codematrix/pkg/catalog"
)

func TestFolders(t *testing.T) {
	tests := []struct {
		path string
		want []string
	}{
		{"", nil},
		{"main.rs", nil},
		{"src/api/handler.rs", []string{"src", "api"}},
		{`src\infra\db.rs`, []string{"src", "infra"}},
		{"/abs//gateway/x.rs", []string{"abs", "gateway"}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := Folders(tt.path); !slices.Equal(got, tt.want) {
				t.Errorf("Folders(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestRulesInIsolation(t *testing.T) {
	tests := []struct {
		name  string
		match func(*catalog.Node) bool
		node  catalog.Node
		want  bool
	}{
		{"gateway folder", InFolder("gateway", "gateways"), catalog.Node{Filename: "a/gateways/b.rs"}, true},
		{"gateway substring is not a folder", InFolder("gateway"), catalog.Node{Filename: "a/gateway_impl/b.rs"}, false},
		{"client in name", NameContains("gateway", "client"), catalog.Node{Name: "RedisClient"}, true},
		{"client absent", NameContains("gateway", "client"), catalog.Node{Name: "Store"}, false},
		{"tests folder lower-cased", inLowerFolder("tests"), catalog.Node{Filename: "Tests/a.rs"}, true},
		{"test folder", inLowerFolder("test"), catalog.Node{Filename: "src/test/a.rs"}, true},
		{"contest is not test", inLowerFolder("test"), catalog.Node{Filename: "src/contest/a.rs"}, false},
		{"hierarchy", HierarchyMentionsTest, catalog.Node{Details: map[string]any{"hierarchy": "unit_tests"}}, true},
		{"name suffix", NameMarksTest, catalog.Node{Name: "parser_test"}, true},
		{"id prefix", NameMarksTest, catalog.Node{ID: "crate::x|function::test_parse"}, true},
		{"upper-case name", NameMarksTest, catalog.Node{Name: "TEST_CASE"}, true},
		{"latest is not a test", NameMarksTest, catalog.Node{Name: "latest"}, false},
		{"module mid", IDHasTestModule, catalog.Node{ID: "crate::x::test::y"}, true},
		{"module leading", IDHasTestModule, catalog.Node{ID: "tests::y|function::z"}, true},
		{"module absent", IDHasTestModule, catalog.Node{ID: "crate::testing::y"}, false},
		{"plain struct", PlainStruct, catalog.Node{Type: "struct"}, true},
		{"plain dto with attributes", PlainStruct, catalog.Node{Type: "dto", Details: map[string]any{"attributes": []any{}}}, true},
		{"struct with methods is not plain", PlainStruct, catalog.Node{Type: "struct", Details: map[string]any{"methods": []any{}}}, false},
		{"behaviour", StructWithBehaviour, catalog.Node{Type: "dto", Details: map[string]any{"functions": []any{"f"}}}, true},
		{"enum is not a struct", StructWithBehaviour, catalog.Node{Type: "enum", Details: map[string]any{"methods": []any{}}}, false},
		{"type exact", TypeIs("function"), catalog.Node{Type: "Function"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.match(&tt.node); got != tt.want {
				t.Errorf("match = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRuleOrder(t *testing.T) {
	colNames := make([]string, len(ColumnRules))
	for i, r := range ColumnRules {
		colNames[i] = r.Name
	}
	wantCols := []string{"gateway-folder", "gateway-name", "infra-folder", "api-folder"}
	if !slices.Equal(colNames, wantCols) {
		t.Errorf("column rule order = %v, want %v", colNames, wantCols)
	}

	// Test rules must precede every type rule.
	lastTest, firstType := -1, len(RowRules)
	for i, r := range RowRules {
		if r.Row == RowTests {
			lastTest = i
		} else if i < firstType {
			firstType = i
		}
	}
	if lastTest > firstType {
		t.Errorf("test rule at %d after type rule at %d", lastTest, firstType)
	}
}

func TestSegmentKeys(t *testing.T) {
	all := All()
	if len(all) != 16 {
		t.Fatalf("len(All()) = %d, want 16", len(all))
	}
	seen := make(map[string]bool)
	for _, seg := range all {
		key := seg.Key()
		if seen[key] {
			t.Errorf("duplicate key %s", key)
		}
		seen[key] = true

		parsed, err := ParseSegment(key)
		if err != nil {
			t.Errorf("ParseSegment(%q) error: %v", key, err)
		}
		if parsed != seg {
			t.Errorf("ParseSegment(%q) = %v, want %v", key, parsed, seg)
		}
	}
	if all[0].Key() != "left-top" || all[15].Key() != "gateway-tests" {
		t.Errorf("order = %s .. %s", all[0], all[15])
	}

	for _, bad := range []string{"", "left", "north-top", "left-side"} {
		if _, err := ParseSegment(bad); err == nil {
			t.Errorf("ParseSegment(%q) error = nil", bad)
		}
	}
}

func TestLabels(t *testing.T) {
	if ColumnRight.Label() != "Repository" || RowBottom.Label() != "Functions" {
		t.Errorf("labels = %s/%s", ColumnRight.Label(), RowBottom.Label())
	}
	if Column(9).String() != "column(9)" {
		t.Errorf("out of range = %s", Column(9))
	}
}
