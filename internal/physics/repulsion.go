package physics

import (
	"math"
)

// maxGridCells bounds the dense grid; beyond it cells grow instead, which
// keeps every pair within the radius in adjacent cells.
const maxGridCells = 1 << 20

// spatialGrid buckets node IDs into square cells at least as wide as the
// repulsion radius.
type spatialGrid struct {
	minX, minY float64
	cellSize   float64
	cols, rows int
	cells      [][]int
}

func newSpatialGrid(minX, minY, maxX, maxY, cellSize float64, items int) *spatialGrid {
	limit := max(4*items, 1024)
	limit = min(limit, maxGridCells)

	spanX, spanY := maxX-minX, maxY-minY
	cols, rows := 1, 1
	for finite(spanX, spanY, cellSize) {
		fx := spanX/cellSize + 1
		fy := spanY/cellSize + 1
		if fx*fy <= float64(limit) {
			cols, rows = int(fx), int(fy)
			break
		}
		cellSize *= 2
	}

	return &spatialGrid{
		minX:     minX,
		minY:     minY,
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		cells:    make([][]int, cols*rows),
	}
}

func (sg *spatialGrid) cell(x, y float64) (int, int) {
	return cellIndex((x-sg.minX)/sg.cellSize, sg.cols), cellIndex((y-sg.minY)/sg.cellSize, sg.rows)
}

func cellIndex(f float64, n int) int {
	if !(f > 0) {
		return 0
	}
	if f >= float64(n-1) {
		return n - 1
	}
	return int(f)
}

func (sg *spatialGrid) insert(id int, x, y float64) {
	cx, cy := sg.cell(x, y)
	idx := cy*sg.cols + cx
	sg.cells[idx] = append(sg.cells[idx], id)
}

// applyRepulsion pushes apart every pair of directories closer than the
// repulsion radius. Files never take part.
func (e *Engine) applyRepulsion() {
	radius := e.cfg.Physics.RepulsionRadius
	strength := e.cfg.Physics.RepulsionStrength
	if !(radius > 0) || math.IsInf(radius, 1) || strength == 0 || !finite(strength) {
		return
	}

	dirs := make([]int, 0, len(e.g.Nodes))
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i := range e.g.Nodes {
		n := &e.g.Nodes[i]
		if !n.IsDir() || !finite(n.X, n.Y) {
			continue
		}
		dirs = append(dirs, i)
		minX, maxX = min(minX, n.X), max(maxX, n.X)
		minY, maxY = min(minY, n.Y), max(maxY, n.Y)
	}
	if len(dirs) < 2 {
		return
	}

	grid := newSpatialGrid(minX, minY, maxX, maxY, radius, len(dirs))
	for _, id := range dirs {
		grid.insert(id, e.g.Nodes[id].X, e.g.Nodes[id].Y)
	}

	radiusSq := radius * radius
	for cy := 0; cy < grid.rows; cy++ {
		for cx := 0; cx < grid.cols; cx++ {
			bucket := grid.cells[cy*grid.cols+cx]
			if len(bucket) == 0 {
				continue
			}

			for i := 0; i < len(bucket); i++ {
				for j := i + 1; j < len(bucket); j++ {
					e.repelPair(bucket[i], bucket[j], radius, radiusSq, strength)
				}
			}

			for ny := max(cy-1, 0); ny <= min(cy+1, grid.rows-1); ny++ {
				for nx := max(cx-1, 0); nx <= min(cx+1, grid.cols-1); nx++ {
					if nx == cx && ny == cy {
						continue
					}
					for _, a := range bucket {
						for _, b := range grid.cells[ny*grid.cols+nx] {
							// Each cross-cell pair is seen from both cells.
							if a < b {
								e.repelPair(a, b, radius, radiusSq, strength)
							}
						}
					}
				}
			}
		}
	}
}

func (e *Engine) repelPair(ia, ib int, radius, radiusSq, strength float64) {
	a, b := &e.g.Nodes[ia], &e.g.Nodes[ib]

	dx := b.X - a.X
	dy := b.Y - a.Y
	distSq := dx*dx + dy*dy + distanceEpsilon
	if !(distSq <= radiusSq) {
		return
	}

	dist := math.Sqrt(distSq)
	force := strength * (1 - dist/radius)
	ox := dx / dist * force * 0.5
	oy := dy / dist * force * 0.5
	if !finite(ox, oy) {
		return
	}

	if !a.Fixed {
		a.X -= ox
		a.Y -= oy
	}
	if !b.Fixed {
		b.X += ox
		b.Y += oy
	}
}
