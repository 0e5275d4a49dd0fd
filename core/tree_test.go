package core

import (
	"testing"

	"pkt.systems/adecon/schema"
)

func TestBuildFileTreeSortsFoldersFirstThenByteWise(t *testing.T) {
	entries := []schema.FileEntry{
		{Path: "a/b.py", Name: "b.py", Parent: "a", Kind: schema.FileKindFile},
		{Path: "a/A.py", Name: "A.py", Parent: "a", Kind: schema.FileKindFile},
		{Path: "a/sub", Name: "sub", Parent: "a", Kind: schema.FileKindDir},
		{Path: "a/sub/c.py", Name: "c.py", Parent: "a/sub", Kind: schema.FileKindFile},
		{Path: "a", Name: "a", Parent: "", Kind: schema.FileKindDir},
	}
	root := BuildFileTree(entries, "")

	folder := FindNode(root, "a")
	if folder == nil || !folder.IsDir() {
		t.Fatalf("expected folder a, got %+v", folder)
	}
	if len(folder.Children) != 3 {
		t.Fatalf("expected 3 children, got %d", len(folder.Children))
	}
	got := []string{folder.Children[0].Name, folder.Children[1].Name, folder.Children[2].Name}
	want := []string{"sub", "A.py", "b.py"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestBuildFileTreeAttachesOrphansToRoot(t *testing.T) {
	entries := []schema.FileEntry{
		{Path: "pkg/main.py", Name: "main.py", Parent: "pkg", Kind: schema.FileKindFile},
		{Path: "stray.py", Name: "stray.py", Parent: "../outside", Kind: schema.FileKindFile},
	}
	root := BuildFileTree(entries, "")
	stray := FindNode(root, "stray.py")
	if stray == nil {
		t.Fatalf("expected orphan to attach under root")
	}
	for _, child := range root.Children {
		if child.ID == "stray.py" {
			return
		}
	}
	t.Fatalf("expected stray.py to be a direct child of the root")
}

func TestBuildFileTreeCreatesMissingAncestors(t *testing.T) {
	entries := []schema.FileEntry{
		{Path: "readme.md", Name: "readme.md", Parent: "", Kind: schema.FileKindFile},
		{Path: "deep/nested/file.yaml", Name: "file.yaml", Parent: "deep/nested", Kind: schema.FileKindFile},
	}
	root := BuildFileTree(entries, "")
	if FindNode(root, "deep") == nil || FindNode(root, "deep/nested") == nil {
		t.Fatalf("expected intermediate folders to be synthesized")
	}
	node := FindNode(root, "deep/nested/file.yaml")
	if node == nil || node.Language != "yaml" {
		t.Fatalf("expected yaml file node, got %+v", node)
	}
}

func TestFirstFilePrefersFolderTraversalOrder(t *testing.T) {
	entries := []schema.FileEntry{
		{Path: "z.py", Name: "z.py", Kind: schema.FileKindFile},
		{Path: "dir", Name: "dir", Kind: schema.FileKindDir},
		{Path: "dir/a.py", Name: "a.py", Parent: "dir", Kind: schema.FileKindFile},
	}
	root := BuildFileTree(entries, "")
	first := FirstFile(root)
	if first == nil || first.ID != "dir/a.py" {
		t.Fatalf("expected dir/a.py first, got %+v", first)
	}
}

func TestCanonicalPathNormalizes(t *testing.T) {
	cases := map[string]string{
		"a\\b\\c.py": "a/b/c.py",
		"/a/b/":      "a/b",
		"a/./b":      "a/b",
		"a/../b":     "b",
		".":          "",
		"":           "",
	}
	for in, want := range cases {
		if got := canonicalPath(in); got != want {
			t.Fatalf("canonicalPath(%q) = %q, want %q", in, got, want)
		}
	}
}
