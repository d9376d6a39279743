package physics

import (
	"math"

	"github.com/morozRed/codegraph/internal/graph"
)

const (
	unvisited = iota
	visiting
	counted
)

// initMasses gives directories 1+sqrt(descendants) and files 1.
func (e *Engine) initMasses() {
	counts := descendantCounts(e.g)
	for i := range e.g.Nodes {
		n := &e.g.Nodes[i]
		if n.IsDir() {
			n.Mass = 1 + math.Sqrt(float64(counts[i]))
		} else {
			n.Mass = 1
		}
	}
}

// descendantCounts returns, per node, the number of nodes below it in the
// children hierarchy. The traversal is an explicit post-order stack so deep
// trees cannot exhaust the goroutine stack; a child that is already on the
// stack contributes nothing.
func descendantCounts(g *graph.Graph) []int {
	counts := make([]int, len(g.Nodes))
	state := make([]uint8, len(g.Nodes))

	type frame struct {
		id       int
		expanded bool
	}
	var stack []frame

	for root := range g.Nodes {
		if state[root] != unvisited {
			continue
		}
		stack = append(stack[:0], frame{id: root})

		for len(stack) > 0 {
			top := stack[len(stack)-1]

			if !top.expanded {
				stack[len(stack)-1].expanded = true
				state[top.id] = visiting
				pushed := false
				for _, child := range g.Nodes[top.id].Children {
					if g.Node(child) != nil && state[child] == unvisited {
						stack = append(stack, frame{id: child})
						pushed = true
					}
				}
				if pushed {
					continue
				}
			}

			total := 0
			for _, child := range g.Nodes[top.id].Children {
				if g.Node(child) != nil && state[child] == counted {
					total += 1 + counts[child]
				}
			}
			counts[top.id] = total
			state[top.id] = counted
			stack = stack[:len(stack)-1]
		}
	}
	return counts
}
