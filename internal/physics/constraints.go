package physics

import (
	"math"

	"github.com/morozRed/codegraph/internal/graph"
)

const (
	distanceEpsilon = 1e-6
	minMass         = 1e-4
)

// satisfyConstraints moves both endpoints of every enabled link toward its
// desired length, splitting the correction by inverse mass.
func (e *Engine) satisfyConstraints() {
	for _, l := range e.g.Links {
		a, b := e.g.Node(l.A), e.g.Node(l.B)
		if a == nil || b == nil || l.A == l.B {
			continue
		}

		desired, ok := e.desiredLength(l, a, b)
		if !ok {
			continue
		}

		dx := b.X - a.X
		dy := b.Y - a.Y
		dist := math.Sqrt(dx*dx + dy*dy + distanceEpsilon)

		correction := (dist - desired) / dist * l.Stiffness * 0.5
		ox := dx * correction
		oy := dy * correction
		if !finite(ox, oy) {
			continue
		}

		invA := 1 / massOf(a)
		invB := 1 / massOf(b)
		total := invA + invB
		if !(total > 0) {
			continue
		}
		weightA := invA / total
		weightB := invB / total

		if !a.Fixed {
			a.X += ox * weightA
			a.Y += oy * weightA
		}
		if !b.Fixed {
			b.X -= ox * weightB
			b.Y -= oy * weightB
		}
	}
}

// desiredLength reports the rest length for l, or false when the link's
// category is disabled. Directory link lengths are recomputed from the
// current topology; include links use the configured length and fall back
// to the stored one when that is not positive.
func (e *Engine) desiredLength(l graph.Link, a, b *graph.Node) (float64, bool) {
	switch {
	case a.IsDir() && b.IsDir():
		if !e.cfg.Graph.EnableDirectoryLinks {
			return 0, false
		}
		parent, child := a, b
		if a.Parent == l.B {
			parent, child = b, a
		}
		return graph.DirDirRestLength(parent, child, e.cfg.Graph.DirDirLengthCoef), true

	case a.IsDir() || b.IsDir():
		if !e.cfg.Graph.EnableDirectoryLinks {
			return 0, false
		}
		dir := a
		if b.IsDir() {
			dir = b
		}
		return graph.DirFileRestLength(dir, e.cfg.Graph.DirFileLengthCoef), true

	default:
		if !e.cfg.Graph.EnableIncludeLinks {
			return 0, false
		}
		if e.cfg.Physics.LinkRestLength > 0 {
			return e.cfg.Physics.LinkRestLength, true
		}
		return l.RestLength, true
	}
}

func massOf(n *graph.Node) float64 {
	if !(n.Mass > minMass) {
		return minMass
	}
	return n.Mass
}
