// Package graph holds the directory and file nodes of a scanned tree and the
// links between them.
package graph

import (
	"strings"
)

// NoParent marks a root node (no owning directory).
const NoParent = -1

// NodeKind distinguishes directories from files.
type NodeKind int

const (
	KindDirectory NodeKind = iota
	KindFile
)

func (k NodeKind) String() string {
	switch k {
	case KindDirectory:
		return "dir"
	case KindFile:
		return "file"
	default:
		return "unknown"
	}
}

const (
	directoryColor uint32 = 0xFF7FE07F
	fileColor      uint32 = 0xFF7FB2FF
)

// Node represents a directory or a file in the layout graph
type Node struct {
	ID              int
	Kind            NodeKind
	Name            string // last path segment
	Path            string // forward-slash path, unique across the graph
	Parent          int    // owning directory ID or NoParent
	Children        []int  // child directories and files, in discovery order
	SubtreeDirCount int    // descendant directories, excluding self

	// physics state
	X, Y         float64
	PrevX, PrevY float64
	Mass         float64
	Fixed        bool

	Color uint32
}

// IsDir reports whether the node is a directory.
func (n *Node) IsDir() bool {
	return n.Kind == KindDirectory
}

// Link is an undirected spring between two nodes.
type Link struct {
	A, B       int
	RestLength float64
	Stiffness  float64 // 0..1
}

// Graph owns the node and link sequences plus the path index.
// Nodes are indexed by ID; both sequences are append-only.
type Graph struct {
	Nodes []Node
	Links []Link

	byPath map[string]int
}

// NewGraph creates a new empty graph
func NewGraph() *Graph {
	return &Graph{
		Nodes:  make([]Node, 0),
		Links:  make([]Link, 0),
		byPath: make(map[string]int),
	}
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.Nodes)
}

// Node returns the node with the given ID, or nil when out of range.
func (g *Graph) Node(id int) *Node {
	if !g.valid(id) {
		return nil
	}
	return &g.Nodes[id]
}

func (g *Graph) valid(id int) bool {
	return id >= 0 && id < len(g.Nodes)
}

// AddDirectory returns the ID of the directory at path, creating it under
// parent when missing. Creation increments SubtreeDirCount on every ancestor.
func (g *Graph) AddDirectory(path, name string, parent int) int {
	if id, ok := g.FindByPath(path); ok {
		return id
	}
	id := g.appendNode(KindDirectory, path, name, parent)
	for cur := g.Nodes[id].Parent; g.valid(cur); cur = g.Nodes[cur].Parent {
		g.Nodes[cur].SubtreeDirCount++
	}
	return id
}

// AddFile returns the ID of the file at path, creating it under parent
// when missing.
func (g *Graph) AddFile(path, name string, parent int) int {
	if id, ok := g.FindByPath(path); ok {
		return id
	}
	return g.appendNode(KindFile, path, name, parent)
}

func (g *Graph) appendNode(kind NodeKind, path, name string, parent int) int {
	if g.byPath == nil {
		g.byPath = make(map[string]int)
	}
	if !g.valid(parent) {
		parent = NoParent
	}

	color := fileColor
	if kind == KindDirectory {
		color = directoryColor
	}

	id := len(g.Nodes)
	g.Nodes = append(g.Nodes, Node{
		ID:     id,
		Kind:   kind,
		Name:   name,
		Path:   path,
		Parent: parent,
		Mass:   1,
		Color:  color,
	})
	g.byPath[path] = id
	g.AddChild(parent, id)
	return id
}

// AddChild appends childID to the children of dirID.
func (g *Graph) AddChild(dirID, childID int) {
	if g.valid(dirID) {
		g.Nodes[dirID].Children = append(g.Nodes[dirID].Children, childID)
	}
}

// FindOrAddDirectory is AddDirectory with the name taken from the last path segment.
func (g *Graph) FindOrAddDirectory(path string, parent int) int {
	if id, ok := g.FindByPath(path); ok {
		return id
	}
	return g.AddDirectory(path, BaseName(path), parent)
}

// FindOrAddFile is AddFile with the name taken from the last path segment.
func (g *Graph) FindOrAddFile(path string, parent int) int {
	if id, ok := g.FindByPath(path); ok {
		return id
	}
	return g.AddFile(path, BaseName(path), parent)
}

// AddLink appends a link between a and b. Self links and negative IDs are ignored.
func (g *Graph) AddLink(a, b int, restLength, stiffness float64) {
	if a < 0 || b < 0 || a == b {
		return
	}
	g.Links = append(g.Links, Link{
		A:          a,
		B:          b,
		RestLength: restLength,
		Stiffness:  stiffness,
	})
}

// FindByPath returns the ID registered for path.
func (g *Graph) FindByPath(path string) (int, bool) {
	id, ok := g.byPath[path]
	return id, ok
}

// BaseName returns the last segment of a slash or backslash separated path.
func BaseName(path string) string {
	if idx := strings.LastIndexAny(path, `/\`); idx != -1 {
		return path[idx+1:]
	}
	return path
}
