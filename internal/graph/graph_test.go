package graph

import (
	"testing"
)

func TestAddDirectoryIsIdempotent(t *testing.T) {
	g := NewGraph()
	root := g.AddDirectory("src", "src", NoParent)
	a := g.AddDirectory("src/a", "a", root)

	again := g.AddDirectory("src/a", "a", root)
	if again != a {
		t.Fatalf("expected re-adding src/a to return %d, got %d", a, again)
	}
	if g.Len() != 2 {
		t.Fatalf("expected 2 nodes, got %d", g.Len())
	}
	if got := g.Nodes[root].SubtreeDirCount; got != 1 {
		t.Fatalf("expected root subtree count 1 after duplicate add, got %d", got)
	}
	if len(g.Nodes[root].Children) != 1 {
		t.Fatalf("expected root to keep a single child, got %v", g.Nodes[root].Children)
	}

	f := g.AddFile("src/a/x.h", "x.h", a)
	if g.AddFile("src/a/x.h", "x.h", a) != f {
		t.Fatalf("expected AddFile to return the existing id")
	}
	if g.FindOrAddFile("src/a/x.h", a) != f {
		t.Fatalf("expected FindOrAddFile to return the existing id")
	}
	if g.Len() != 3 {
		t.Fatalf("expected 3 nodes, got %d", g.Len())
	}
}

func TestSubtreeDirCountMatchesRecount(t *testing.T) {
	g := NewGraph()
	paths := []string{"r", "r/a", "r/a/b", "r/a/b/c", "r/d", "r/d/e", "r/a/f"}
	for _, p := range paths {
		parent := NoParent
		if idx := lastSlash(p); idx != -1 {
			id, ok := g.FindByPath(p[:idx])
			if !ok {
				t.Fatalf("parent of %s missing", p)
			}
			parent = id
		}
		g.FindOrAddDirectory(p, parent)
	}
	a, _ := g.FindByPath("r/a")
	g.FindOrAddFile("r/a/file.h", a)

	recount := g.RecountSubtreeDirs()
	for id := range g.Nodes {
		if g.Nodes[id].SubtreeDirCount != recount[id] {
			t.Fatalf("node %s: incremental=%d recount=%d", g.Nodes[id].Path, g.Nodes[id].SubtreeDirCount, recount[id])
		}
	}

	root, _ := g.FindByPath("r")
	if g.Nodes[root].SubtreeDirCount != 6 {
		t.Fatalf("expected root to have 6 descendant dirs, got %d", g.Nodes[root].SubtreeDirCount)
	}
	if g.Nodes[a].SubtreeDirCount != 3 {
		t.Fatalf("expected r/a to have 3 descendant dirs, got %d", g.Nodes[a].SubtreeDirCount)
	}
}

func TestAddLinkIgnoresInvalidPairs(t *testing.T) {
	g := NewGraph()
	a := g.AddDirectory("a", "a", NoParent)
	b := g.AddFile("a/b.h", "b.h", a)

	g.AddLink(a, a, 10, 1)
	g.AddLink(-1, b, 10, 1)
	g.AddLink(a, -3, 10, 1)
	if len(g.Links) != 0 {
		t.Fatalf("expected invalid links to be ignored, got %d", len(g.Links))
	}

	g.AddLink(a, b, 10, 1)
	g.AddLink(a, b, 10, 1)
	if len(g.Links) != 2 {
		t.Fatalf("expected duplicate links to be kept, got %d", len(g.Links))
	}
}

func TestFindOrAddDerivesName(t *testing.T) {
	g := NewGraph()
	id := g.FindOrAddDirectory("src/core", NoParent)
	if g.Nodes[id].Name != "core" {
		t.Fatalf("expected name core, got %q", g.Nodes[id].Name)
	}
	f := g.FindOrAddFile(`src\core\x.hpp`, id)
	if g.Nodes[f].Name != "x.hpp" {
		t.Fatalf("expected name x.hpp, got %q", g.Nodes[f].Name)
	}
	if _, ok := g.FindByPath("missing"); ok {
		t.Fatalf("expected missing path lookup to fail")
	}
}

func TestStatsAndCategories(t *testing.T) {
	g := NewGraph()
	dir := g.AddDirectory("d", "d", NoParent)
	sub := g.AddDirectory("d/s", "s", dir)
	x := g.AddFile("d/x.h", "x.h", dir)
	y := g.AddFile("d/s/y.h", "y.h", sub)

	g.AddLink(dir, sub, DirDirRestLength(&g.Nodes[dir], &g.Nodes[sub], 1), DirDirStiffness)
	g.AddLink(dir, x, DirFileRestLength(&g.Nodes[dir], 1), DirFileStiffness)
	g.AddLink(x, y, 80, 1)

	stats := g.Stats()
	if stats.Directories != 2 || stats.Files != 2 {
		t.Fatalf("unexpected node stats: %+v", stats)
	}
	if stats.DirLinks != 2 || stats.IncludeLinks != 1 || stats.Links != 3 {
		t.Fatalf("unexpected link stats: %+v", stats)
	}

	if _, ok := g.Category(Link{A: 0, B: 99}); ok {
		t.Fatalf("expected out-of-range link to be uncategorized")
	}
}

func TestRestLengthFormulas(t *testing.T) {
	parent := &Node{SubtreeDirCount: 3}
	child := &Node{SubtreeDirCount: 1}
	if got := DirDirRestLength(parent, child, 2); got != (40+4+2*2)*2 {
		t.Fatalf("unexpected dir-dir rest length %v", got)
	}
	dir := &Node{Children: []int{1, 2, 3}}
	if got := DirFileRestLength(dir, 0.5); got != 16.5 {
		t.Fatalf("unexpected dir-file rest length %v", got)
	}
}

func lastSlash(p string) int {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i] == '/' {
			return i
		}
	}
	return -1
}
