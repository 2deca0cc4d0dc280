package group

import (
	"testing"

	"github.com/matzehuels/codematrix/pkg/catalog"
)

func TestByFolder(t *testing.T) {
	nodes := []*catalog.Node{
		{ID: "1", Name: "b", Filename: "src/service/user.rs"},
		{ID: "2", Name: "a", Filename: "src/api/handler.rs"},
		{ID: "3", Name: "c", Filename: `src\service\auth.rs`},
		{ID: "4", Name: "d"},
		{ID: "5", Name: "e", Filename: "main.rs"},
		{ID: "6", Name: "f", Filename: "src/service/user.rs"},
	}

	folders := ByFolder(nodes)

	var paths []string
	for _, f := range folders {
		paths = append(paths, f.Path)
	}
	if !equal(paths, []string{"", "src/api", "src/service"}) {
		t.Fatalf("folders = %q", paths)
	}

	root := folders[0]
	if len(root.Files) != 2 || root.Files[0].Name != "" || root.Files[1].Name != "main.rs" {
		t.Errorf("default folder files = %+v", root.Files)
	}

	svc := folders[2]
	if len(svc.Files) != 2 || svc.Files[0].Name != "auth.rs" || svc.Files[1].Name != "user.rs" {
		t.Fatalf("service files = %+v", svc.Files)
	}
	if got := names(svc.Files[1].Nodes); !equal(got, []string{"b", "f"}) {
		t.Errorf("user.rs nodes = %v, want input order [b f]", got)
	}
}

func TestSortByFolder(t *testing.T) {
	nodes := []*catalog.Node{
		{ID: "1", Name: "zz", Filename: "b/x.rs"},
		{ID: "2", Name: "yy", Filename: "a/x.rs"},
		{ID: "3", Name: "aa", Filename: "b/y.rs"},
		{ID: "4", Name: "mm"},
	}
	got := names(SortByFolder(nodes))
	if !equal(got, []string{"mm", "yy", "aa", "zz"}) {
		t.Errorf("SortByFolder = %v", got)
	}
}

func TestFolderOf(t *testing.T) {
	tests := []struct{ filename, folder, file string }{
		{"", "", ""},
		{"lib.rs", "", "lib.rs"},
		{"src/lib.rs", "src", "lib.rs"},
		{`src\a\lib.rs`, "src/a", "lib.rs"},
	}
	for _, tt := range tests {
		n := &catalog.Node{Filename: tt.filename}
		if got := FolderOf(n); got != tt.folder {
			t.Errorf("FolderOf(%q) = %q, want %q", tt.filename, got, tt.folder)
		}
		if got := FileOf(n); got != tt.file {
			t.Errorf("FileOf(%q) = %q, want %q", tt.filename, got, tt.file)
		}
	}
}
