package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morozRed/codegraph/internal/config"
	"github.com/morozRed/codegraph/internal/graph"
)

// treeGraph builds src/{a,b}, src/a/{x.h,y.h}, src/z.cpp with directory links.
func treeGraph() *graph.Graph {
	g := graph.NewGraph()
	src := g.AddDirectory("src", "src", graph.NoParent)
	a := g.AddDirectory("src/a", "a", src)
	b := g.AddDirectory("src/b", "b", src)
	x := g.AddFile("src/a/x.h", "x.h", a)
	y := g.AddFile("src/a/y.h", "y.h", a)
	z := g.AddFile("src/z.cpp", "z.cpp", src)

	g.AddLink(src, a, graph.DirDirRestLength(&g.Nodes[src], &g.Nodes[a], 1), graph.DirDirStiffness)
	g.AddLink(src, b, graph.DirDirRestLength(&g.Nodes[src], &g.Nodes[b], 1), graph.DirDirStiffness)
	g.AddLink(a, x, graph.DirFileRestLength(&g.Nodes[a], 1), graph.DirFileStiffness)
	g.AddLink(a, y, graph.DirFileRestLength(&g.Nodes[a], 1), graph.DirFileStiffness)
	g.AddLink(src, z, graph.DirFileRestLength(&g.Nodes[src], 1), graph.DirFileStiffness)
	g.AddLink(z, x, 80, 1)
	return g
}

func positions(g *graph.Graph) [][2]float64 {
	out := make([][2]float64, len(g.Nodes))
	for i, n := range g.Nodes {
		out[i] = [2]float64{n.X, n.Y}
	}
	return out
}

func TestNewEngineSpiralAndMass(t *testing.T) {
	g := treeGraph()
	e := NewEngine(config.Default(), g)
	assert.Same(t, g, e.Graph())

	for i, n := range g.Nodes {
		angle := float64(i) * 0.618
		radius := 5 * math.Sqrt(float64(i))
		assert.InDelta(t, radius*math.Cos(angle), n.X, 1e-12, "node %d x", i)
		assert.InDelta(t, radius*math.Sin(angle), n.Y, 1e-12, "node %d y", i)
		assert.Equal(t, n.X, n.PrevX)
		assert.Equal(t, n.Y, n.PrevY)
	}

	// src holds a, b, x.h, y.h, z.cpp.
	assert.InDelta(t, 1+math.Sqrt(5), g.Nodes[0].Mass, 1e-12)
	assert.InDelta(t, 1+math.Sqrt(2), g.Nodes[1].Mass, 1e-12)
	assert.InDelta(t, 1.0, g.Nodes[2].Mass, 1e-12, "empty directory")
	assert.Equal(t, 1.0, g.Nodes[3].Mass)
}

func TestDescendantCountsDeepChain(t *testing.T) {
	g := graph.NewGraph()
	parent := graph.NoParent
	path := "d"
	for i := 0; i < 5000; i++ {
		parent = g.AddDirectory(path, "d", parent)
		path += "/d"
	}

	counts := descendantCounts(g)
	assert.Equal(t, 4999, counts[0])
	assert.Equal(t, 0, counts[len(counts)-1])
}

func TestDescendantCountsSurvivesCycle(t *testing.T) {
	g := graph.NewGraph()
	a := g.AddDirectory("a", "a", graph.NoParent)
	b := g.AddDirectory("a/b", "b", a)
	g.AddChild(b, a)

	counts := descendantCounts(g)
	assert.Equal(t, 1, counts[a])
	assert.Equal(t, 0, counts[b])
}

func TestIntegrateFixedPointAndClamp(t *testing.T) {
	g := treeGraph()
	cfg := config.Default()
	e := NewEngine(cfg, g)

	before := positions(g)
	e.IntegrateOnly()
	assert.Equal(t, before, positions(g), "nodes at rest must not move")

	free := config.Default()
	free.Physics.Damping = 0
	free.Physics.MaxDisplacement = math.Inf(1)
	NewEngine(free, g).IntegrateOnly()
	NewEngine(free, g).IntegrateOnly()
	assert.Equal(t, before, positions(g), "zero velocity is a fixed point without damping or clamping")

	n := &g.Nodes[1]
	n.X, n.Y, n.PrevX, n.PrevY = 10, 0, 0, 0
	m := &g.Nodes[2]
	m.X, m.Y, m.PrevX, m.PrevY = 0, 0, 0, 500

	e.IntegrateOnly()
	assert.InDelta(t, 10+10*(1-cfg.Physics.Damping), g.Nodes[1].X, 1e-12)
	assert.Equal(t, 10.0, g.Nodes[1].PrevX)
	assert.InDelta(t, -cfg.Physics.MaxDisplacement, g.Nodes[2].Y, 1e-12, "displacement is clamped")
}

func TestRepulsionIsSymmetric(t *testing.T) {
	g := graph.NewGraph()
	a := g.AddDirectory("a", "a", graph.NoParent)
	b := g.AddDirectory("b", "b", graph.NoParent)
	f := g.AddFile("c.h", "c.h", graph.NoParent)

	cfg := config.Default()
	e := NewEngine(cfg, g)
	g.Nodes[a].X, g.Nodes[a].Y = 0, 0
	g.Nodes[b].X, g.Nodes[b].Y = 10, 0
	g.Nodes[f].X, g.Nodes[f].Y = 5, 0

	e.RepulsionOnly()

	moveA := g.Nodes[a].X - 0
	moveB := g.Nodes[b].X - 10
	assert.Less(t, moveA, 0.0)
	assert.Greater(t, moveB, 0.0)
	assert.InDelta(t, -moveA, moveB, 1e-9)
	assert.InDelta(t, 0, g.Nodes[a].Y, 1e-12)
	assert.Equal(t, 5.0, g.Nodes[f].X, "files are not repelled")

	dist := math.Sqrt(100 + 1e-6)
	want := cfg.Physics.RepulsionStrength * (1 - dist/cfg.Physics.RepulsionRadius) * 0.5
	assert.InDelta(t, want, moveB, 1e-6)
}

func TestRepulsionAcrossCells(t *testing.T) {
	g := graph.NewGraph()
	far := g.AddDirectory("far", "far", graph.NoParent)
	a := g.AddDirectory("a", "a", graph.NoParent)
	b := g.AddDirectory("b", "b", graph.NoParent)

	e := NewEngine(config.Default(), g)
	for i := range g.Nodes {
		g.Nodes[i].Y = 0
	}
	// With cells of 30 starting at 0, a and b land in adjacent cells.
	g.Nodes[far].X = 0
	g.Nodes[a].X = 50
	g.Nodes[b].X = 65

	e.RepulsionOnly()

	// The pair is processed once: each end moves half of strength*(1-15/30).
	assert.InDelta(t, 0, g.Nodes[a].X, 1e-6)
	assert.InDelta(t, 65+50, g.Nodes[b].X, 1e-6)
	assert.Equal(t, 0.0, g.Nodes[far].X)
}

func TestRepulsionSpreadsARow(t *testing.T) {
	g := graph.NewGraph()
	for i := 0; i < 50; i++ {
		g.AddDirectory(string(rune('a'+i%26))+string(rune('a'+i/26)), "d", graph.NoParent)
	}
	e := NewEngine(config.Default(), g)
	for i := range g.Nodes {
		g.Nodes[i].X = float64(i) * 20
		g.Nodes[i].Y = 0
	}

	e.RepulsionOnly()

	assert.Less(t, g.Nodes[0].X, 0.0)
	assert.Greater(t, g.Nodes[49].X, 49*20.0)
	for _, n := range g.Nodes {
		assert.Equal(t, 0.0, n.Y)
	}
}

func TestRepulsionWithHugeSpread(t *testing.T) {
	g := graph.NewGraph()
	a := g.AddDirectory("a", "a", graph.NoParent)
	b := g.AddDirectory("b", "b", graph.NoParent)
	c := g.AddDirectory("c", "c", graph.NoParent)

	e := NewEngine(config.Default(), g)
	g.Nodes[a].X = -1e300
	g.Nodes[b].X = 1e300
	g.Nodes[c].X = 1e300 + 1

	require.NotPanics(t, e.RepulsionOnly)
	for _, n := range g.Nodes {
		assert.False(t, math.IsNaN(n.X) || math.IsNaN(n.Y))
	}
}

func TestZeroStrengthPassesAreNoOps(t *testing.T) {
	g := treeGraph()
	cfg := config.Default()
	cfg.Physics.RepulsionStrength = 0
	cfg.Physics.DirChildrenAngleStrength = 0
	e := NewEngine(cfg, g)

	before := positions(g)
	e.RepulsionOnly()
	e.AngleEqualizationOnly()
	assert.Equal(t, before, positions(g))

	cfg = config.Default()
	cfg.Physics.RepulsionRadius = 0
	e = NewEngine(cfg, g)
	before = positions(g)
	e.RepulsionOnly()
	assert.Equal(t, before, positions(g), "zero radius disables repulsion")
}

func TestFixedNodesNeverMove(t *testing.T) {
	g := treeGraph()
	e := NewEngine(config.Default(), g)
	for i := range g.Nodes {
		g.Nodes[i].Fixed = true
		g.Nodes[i].PrevX = g.Nodes[i].X - 7
	}

	before := positions(g)
	for i := 0; i < 10; i++ {
		e.Step()
		e.IntegrateOnly()
		e.ConstraintsOnly()
		e.RepulsionOnly()
		e.AngleEqualizationOnly()
	}
	assert.Equal(t, before, positions(g))
}

func TestConstraintsPullTowardRestLength(t *testing.T) {
	g := graph.NewGraph()
	a := g.AddFile("a.cpp", "a.cpp", graph.NoParent)
	b := g.AddFile("b.h", "b.h", graph.NoParent)
	g.AddLink(a, b, 80, 1)

	cfg := config.Default()
	cfg.Graph.EnableIncludeLinks = true
	e := NewEngine(cfg, g)
	g.Nodes[a].X, g.Nodes[a].Y = 0, 0
	g.Nodes[b].X, g.Nodes[b].Y = 200, 0

	e.ConstraintsOnly()
	// Equal masses and stiffness 1 close half the error: each end moves 30.
	assert.InDelta(t, 30, g.Nodes[a].X, 1e-6)
	assert.InDelta(t, 170, g.Nodes[b].X, 1e-6)

	cfg.Graph.EnableIncludeLinks = false
	e = NewEngine(cfg, g)
	g.Nodes[a].X, g.Nodes[b].X = 0, 200
	e.ConstraintsOnly()
	assert.Equal(t, 0.0, g.Nodes[a].X, "disabled include links are skipped")
	assert.Equal(t, 200.0, g.Nodes[b].X)
}

func TestConstraintsWeightByInverseMass(t *testing.T) {
	g := graph.NewGraph()
	dir := g.AddDirectory("d", "d", graph.NoParent)
	file := g.AddFile("d/f.h", "f.h", dir)
	g.AddLink(dir, file, graph.DirFileRestLength(&g.Nodes[dir], 1), graph.DirFileStiffness)

	e := NewEngine(config.Default(), g)
	g.Nodes[dir].X, g.Nodes[dir].Y = 0, 0
	g.Nodes[file].X, g.Nodes[file].Y = 100, 0

	e.ConstraintsOnly()
	dirMove := math.Abs(g.Nodes[dir].X)
	fileMove := math.Abs(g.Nodes[file].X - 100)
	// Mass of d is 2, of f.h is 1.
	assert.InDelta(t, 2*dirMove, fileMove, 1e-9)
}

func TestAngleEqualizationSpreadsChildren(t *testing.T) {
	g := graph.NewGraph()
	p := g.AddDirectory("p", "p", graph.NoParent)
	var kids []int
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		kids = append(kids, g.AddDirectory("p/"+name, name, p))
	}

	e := NewEngine(config.Default(), g)
	g.Nodes[p].X, g.Nodes[p].Y = 0, 0
	for i, id := range kids {
		angle := 0.2 * float64(i)
		g.Nodes[id].X = 50 * math.Cos(angle)
		g.Nodes[id].Y = 50 * math.Sin(angle)
	}

	initial := gapVariance(g, p, kids)
	last := initial
	for i := 0; i < 50; i++ {
		e.AngleEqualizationOnly()
		v := gapVariance(g, p, kids)
		assert.LessOrEqual(t, v, last+1e-9, "pass %d", i)
		last = v
	}
	assert.Less(t, last, initial/2)
	assert.Equal(t, 0.0, g.Nodes[p].X, "parent does not move")
}

func TestAngleEqualizationAlignsSingleChild(t *testing.T) {
	g := graph.NewGraph()
	root := g.AddDirectory("r", "r", graph.NoParent)
	mid := g.AddDirectory("r/m", "m", root)
	leaf := g.AddDirectory("r/m/l", "l", mid)

	cfg := config.Default()
	cfg.Physics.DirChildrenAngleStrength = 1
	e := NewEngine(cfg, g)
	g.Nodes[root].X, g.Nodes[root].Y = 0, 0
	g.Nodes[mid].X, g.Nodes[mid].Y = 10, 0
	g.Nodes[leaf].X, g.Nodes[leaf].Y = 10, 10

	e.AngleEqualizationOnly()
	// A full-strength quarter turn clockwise about m.
	assert.InDelta(t, 10+10*math.Pi/2, g.Nodes[leaf].X, 1e-9)
	assert.InDelta(t, 10, g.Nodes[leaf].Y, 1e-9)
}

func TestStepSurvivesDegenerateInput(t *testing.T) {
	empty := graph.NewGraph()
	e := NewEngine(config.Default(), empty)
	require.NotPanics(t, e.Step)

	g := treeGraph()
	g.AddLink(0, 0, 10, 1)
	g.Links = append(g.Links, graph.Link{A: 0, B: 99, RestLength: 1, Stiffness: 1})
	e = NewEngine(config.Default(), g)

	// Coincident nodes and a NaN node.
	g.Nodes[1].X, g.Nodes[1].Y = g.Nodes[0].X, g.Nodes[0].Y
	g.Nodes[3].X = math.NaN()

	require.NotPanics(t, func() {
		for i := 0; i < 20; i++ {
			e.Step()
		}
	})
	for i, n := range g.Nodes {
		if i == 3 {
			continue
		}
		assert.True(t, finite(n.X, n.Y), "node %d became non-finite", i)
	}
}

func TestStepRunsSolverIterations(t *testing.T) {
	cfg := config.Default()
	cfg.Physics.SolverIterations = 0

	g := treeGraph()
	e := NewEngine(cfg, g)
	before := positions(g)
	e.Step()
	assert.Equal(t, before, positions(g), "no iterations and no velocity leaves nodes in place")

	cfg.Physics.SolverIterations = 8
	e = NewEngine(cfg, g)
	e.Step()
	assert.NotEqual(t, before, positions(g))
}

func gapVariance(g *graph.Graph, parent int, kids []int) float64 {
	angles := make([]float64, 0, len(kids))
	for _, id := range kids {
		angles = append(angles, math.Atan2(g.Nodes[id].Y-g.Nodes[parent].Y, g.Nodes[id].X-g.Nodes[parent].X))
	}
	for i := 1; i < len(angles); i++ {
		for j := i; j > 0 && angles[j] < angles[j-1]; j-- {
			angles[j], angles[j-1] = angles[j-1], angles[j]
		}
	}

	n := len(angles)
	mean := 2 * math.Pi / float64(n)
	var sum float64
	for i := range angles {
		gap := angles[(i+1)%n] - angles[i]
		if i == n-1 {
			gap += 2 * math.Pi
		}
		sum += (gap - mean) * (gap - mean)
	}
	return sum / float64(n)
}
