package group

import (
	"cmp"
	"path"
	"slices"
	"strings"

	"github.com/matzehuels/codematrix/pkg/catalog"
)

// Folder is the set of nodes sharing a directory.
type Folder struct {
	Path  string
	Files []File
}

// File is the set of nodes sharing a source file within a folder.
type File struct {
	Name  string
	Nodes []*catalog.Node
}

// FolderOf returns the directory part of a node's filename, with backslashes
// normalized. Nodes without a filename, or with a bare filename, share the
// default folder "".
func FolderOf(n *catalog.Node) string {
	if n.Filename == "" {
		return ""
	}
	dir := path.Dir(strings.ReplaceAll(n.Filename, `\`, "/"))
	if dir == "." {
		return ""
	}
	return dir
}

// FileOf returns the final path component of a node's filename, or "".
func FileOf(n *catalog.Node) string {
	if n.Filename == "" {
		return ""
	}
	return path.Base(strings.ReplaceAll(n.Filename, `\`, "/"))
}

// ByFolder buckets nodes by folder and then by file. Folders and files are
// sorted lexicographically; nodes keep their input order within a file.
func ByFolder(nodes []*catalog.Node) []Folder {
	files := make(map[string]map[string][]*catalog.Node)
	for _, n := range nodes {
		dir, file := FolderOf(n), FileOf(n)
		if files[dir] == nil {
			files[dir] = make(map[string][]*catalog.Node)
		}
		files[dir][file] = append(files[dir][file], n)
	}

	folders := make([]Folder, 0, len(files))
	for dir, byFile := range files {
		f := Folder{Path: dir}
		for name, ns := range byFile {
			f.Files = append(f.Files, File{Name: name, Nodes: ns})
		}
		slices.SortFunc(f.Files, func(a, b File) int { return cmp.Compare(a.Name, b.Name) })
		folders = append(folders, f)
	}
	slices.SortFunc(folders, func(a, b Folder) int { return cmp.Compare(a.Path, b.Path) })
	return folders
}

// SortByFolder returns a copy of nodes ordered by folder, then by name, with
// id breaking ties.
func SortByFolder(nodes []*catalog.Node) []*catalog.Node {
	out := slices.Clone(nodes)
	slices.SortStableFunc(out, func(a, b *catalog.Node) int {
		return cmp.Or(cmp.Compare(FolderOf(a), FolderOf(b)), byName(a, b))
	})
	return out
}
