// Package physics positions graph nodes with position-based Verlet
// integration, link constraints, directory repulsion and angular balancing
// of sibling directories.
//
// An Engine is single-threaded: the caller owns the graph for the duration
// of every call and topology must not change between steps.
package physics

import (
	"math"

	"github.com/morozRed/codegraph/internal/config"
	"github.com/morozRed/codegraph/internal/graph"
)

const (
	spiralAngleStep  = 0.618
	spiralRadiusStep = 5.0
)

// Engine mutates node positions of a scanned graph.
type Engine struct {
	cfg config.Config
	g   *graph.Graph
}

// NewEngine places every node on a deterministic spiral and assigns masses.
func NewEngine(cfg config.Config, g *graph.Graph) *Engine {
	e := &Engine{cfg: cfg, g: g}

	for i := range g.Nodes {
		angle := float64(i) * spiralAngleStep
		radius := spiralRadiusStep * math.Sqrt(float64(i))

		n := &g.Nodes[i]
		n.X = radius * math.Cos(angle)
		n.Y = radius * math.Sin(angle)
		n.PrevX, n.PrevY = n.X, n.Y
	}

	e.initMasses()
	return e
}

// Graph returns the graph being laid out.
func (e *Engine) Graph() *graph.Graph {
	return e.g
}

// Step runs one integration pass followed by solver_iterations rounds of
// constraints, angle equalization and repulsion.
func (e *Engine) Step() {
	e.integrate()

	for i := 0; i < e.cfg.Physics.SolverIterations; i++ {
		e.satisfyConstraints()
		e.equalizeChildAngles()
		e.applyRepulsion()
	}
}

// IntegrateOnly runs the Verlet integration pass alone.
func (e *Engine) IntegrateOnly() { e.integrate() }

// ConstraintsOnly runs one link constraint pass.
func (e *Engine) ConstraintsOnly() { e.satisfyConstraints() }

// RepulsionOnly runs one directory repulsion pass.
func (e *Engine) RepulsionOnly() { e.applyRepulsion() }

// AngleEqualizationOnly runs one sibling angle equalization pass.
func (e *Engine) AngleEqualizationOnly() { e.equalizeChildAngles() }

// integrate advances every free node by its implicit velocity. TimeStep is
// not applied; position Verlet absorbs it.
func (e *Engine) integrate() {
	keep := 1 - e.cfg.Physics.Damping
	limit := e.cfg.Physics.MaxDisplacement

	for i := range e.g.Nodes {
		n := &e.g.Nodes[i]
		if n.Fixed {
			continue
		}

		vx := (n.X - n.PrevX) * keep
		vy := (n.Y - n.PrevY) * keep
		if !finite(vx) || !finite(vy) {
			vx, vy = 0, 0
		}
		vx = clamp(vx, limit)
		vy = clamp(vy, limit)

		n.PrevX, n.PrevY = n.X, n.Y
		n.X += vx
		n.Y += vy
	}
}

func clamp(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
