package physics

import (
	"math"
	"slices"

	"github.com/morozRed/codegraph/internal/graph"
)

const (
	twoPi     = 2 * math.Pi
	minRadius = 1e-6
)

type childAngle struct {
	id     int
	angle  float64
	radius float64
}

// equalizeChildAngles nudges the child directories of every directory
// toward equal angular spacing around it. Children move tangentially only,
// so their distance to the parent is preserved to first order.
func (e *Engine) equalizeChildAngles() {
	strength := e.cfg.Physics.DirChildrenAngleStrength
	if !(strength > 0) || !finite(strength) {
		return
	}

	var children []childAngle
	for pid := range e.g.Nodes {
		parent := &e.g.Nodes[pid]
		if !parent.IsDir() || !finite(parent.X, parent.Y) {
			continue
		}

		children = children[:0]
		for _, cid := range parent.Children {
			child := e.g.Node(cid)
			if child == nil || !child.IsDir() || !finite(child.X, child.Y) {
				continue
			}
			dx := child.X - parent.X
			dy := child.Y - parent.Y
			r := math.Hypot(dx, dy)
			if r < minRadius {
				continue
			}
			children = append(children, childAngle{id: cid, angle: math.Atan2(dy, dx), radius: r})
		}

		switch len(children) {
		case 0:
		case 1:
			e.alignSingleChild(parent, children[0], strength)
		default:
			e.spreadChildren(children, strength)
		}
	}
}

// alignSingleChild pulls a lone child directory onto the line from the
// grandparent through the parent.
func (e *Engine) alignSingleChild(parent *graph.Node, c childAngle, strength float64) {
	grand := e.g.Node(parent.Parent)
	if grand == nil || !finite(grand.X, grand.Y) {
		return
	}
	gx := parent.X - grand.X
	gy := parent.Y - grand.Y
	if math.Hypot(gx, gy) < minRadius {
		return
	}

	desired := math.Atan2(gy, gx)
	e.rotate(c, wrapSigned(desired-c.angle)*strength)
}

// spreadChildren moves each child by the mean of the errors of its two
// adjacent gaps, measured against the ideal spacing 2π/n.
func (e *Engine) spreadChildren(children []childAngle, strength float64) {
	slices.SortFunc(children, func(a, b childAngle) int {
		switch {
		case a.angle < b.angle:
			return -1
		case a.angle > b.angle:
			return 1
		}
		return a.id - b.id
	})

	n := len(children)
	target := twoPi / float64(n)
	gapErr := make([]float64, n)
	for i := range children {
		// Gap between child i and its counter-clockwise neighbour.
		gap := children[(i+1)%n].angle - children[i].angle
		if i == n-1 {
			gap += twoPi
		}
		gapErr[i] = gap - target
	}

	for i, c := range children {
		prev := gapErr[(i-1+n)%n]
		next := gapErr[i]
		e.rotate(c, 0.5*(next-prev)*strength)
	}
}

// rotate moves a child tangentially by delta radians at its radius.
func (e *Engine) rotate(c childAngle, delta float64) {
	child := &e.g.Nodes[c.id]
	if child.Fixed || delta == 0 || !finite(delta) {
		return
	}
	child.X += -math.Sin(c.angle) * c.radius * delta
	child.Y += math.Cos(c.angle) * c.radius * delta
}

// wrapSigned maps an angle into (-π, π].
func wrapSigned(a float64) float64 {
	a = math.Mod(a, twoPi)
	if a > math.Pi {
		a -= twoPi
	} else if a <= -math.Pi {
		a += twoPi
	}
	return a
}
