package graph

// LinkCategory groups links for enable/disable switches.
type LinkCategory int

const (
	// CategoryDirectory covers dir-dir and dir-file links.
	CategoryDirectory LinkCategory = iota
	// CategoryInclude covers file-file include links.
	CategoryInclude
)

func (c LinkCategory) String() string {
	if c == CategoryInclude {
		return "include"
	}
	return "directory"
}

const (
	DirDirStiffness  = 0.5
	DirFileStiffness = 0.6
)

// Category classifies a link by the kinds of its endpoints. Links with an
// endpoint outside the graph report ok=false.
func (g *Graph) Category(l Link) (LinkCategory, bool) {
	if !g.valid(l.A) || !g.valid(l.B) {
		return 0, false
	}
	if g.Nodes[l.A].IsDir() || g.Nodes[l.B].IsDir() {
		return CategoryDirectory, true
	}
	return CategoryInclude, true
}

// DirDirRestLength is the rest length of a parent/child directory link,
// derived from both subtree sizes.
func DirDirRestLength(parent, child *Node, coef float64) float64 {
	sizeParent := float64(parent.SubtreeDirCount + 1)
	sizeChild := float64(child.SubtreeDirCount + 1)
	return (40 + sizeParent + sizeChild*2) * coef
}

// DirFileRestLength is the rest length of a directory/file link, derived
// from the directory's child count.
func DirFileRestLength(dir *Node, coef float64) float64 {
	return (30 + float64(len(dir.Children))) * coef
}

// RecountSubtreeDirs recomputes every node's descendant directory count from
// the children lists, independently of the incremental bookkeeping.
func (g *Graph) RecountSubtreeDirs() []int {
	counts := make([]int, len(g.Nodes))
	// Children are always created after their parent, so walking IDs in
	// reverse visits every subtree before its root.
	for id := len(g.Nodes) - 1; id >= 0; id-- {
		for _, child := range g.Nodes[id].Children {
			if !g.valid(child) || !g.Nodes[child].IsDir() {
				continue
			}
			counts[id] += 1 + counts[child]
		}
	}
	return counts
}

// Stats summarizes graph size.
type Stats struct {
	Directories  int `json:"directories"`
	Files        int `json:"files"`
	Links        int `json:"links"`
	DirLinks     int `json:"directory_links"`
	IncludeLinks int `json:"include_links"`
}

// Stats counts nodes by kind and links by category.
func (g *Graph) Stats() Stats {
	var s Stats
	for i := range g.Nodes {
		switch g.Nodes[i].Kind {
		case KindDirectory:
			s.Directories++
		case KindFile:
			s.Files++
		}
	}
	s.Links = len(g.Links)
	for _, l := range g.Links {
		category, ok := g.Category(l)
		if !ok {
			continue
		}
		switch category {
		case CategoryDirectory:
			s.DirLinks++
		case CategoryInclude:
			s.IncludeLinks++
		}
	}
	return s
}
