// Package systems provides the per-frame batch stages of the simulation.
package systems

import "menagerie/world"

// Grid is a uniform spatial index over the square world. It is rebuilt from
// scratch every frame; buckets keep insertion order, and insertion runs in
// ascending agent index, so queries are reproducible.
type Grid struct {
	size     int
	cellSize float32
	cells    [][]uint32 // flat [cx*size+cy]
}

// NewGrid creates a size x size grid of square cells with the given side
// length, covering a world of side size*cellSize.
func NewGrid(size int, cellSize float32) *Grid {
	cells := make([][]uint32, size*size)
	for i := range cells {
		cells[i] = make([]uint32, 0, 8)
	}
	return &Grid{
		size:     size,
		cellSize: cellSize,
		cells:    cells,
	}
}

// CellSize returns the side length of one cell.
func (g *Grid) CellSize() float32 {
	return g.cellSize
}

// Clear empties all cell buckets, keeping capacity.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert appends an agent to the bucket for (x, y). The cell coordinate is
// truncated-division modulo the grid size: a coordinate exactly on the far
// world edge wraps to cell 0, while negative cells (impossible for clamped
// positions) are dropped.
func (g *Grid) Insert(id uint32, x, y float32) {
	cx := int(x/g.cellSize) % g.size
	cy := int(y/g.cellSize) % g.size
	if cx < 0 || cy < 0 {
		return
	}
	idx := cx*g.size + cy
	g.cells[idx] = append(g.cells[idx], id)
}

// AppendNeighborhood appends the contents of the 3x3 block of cells around
// (x, y) to dst and returns it. Each axis offset is wrapped independently by
// truncated modulo: past the high edge the block wraps to cell 0, past the
// low edge the wrapped index is negative and the cell is skipped. This
// asymmetry is load-bearing for replay fidelity; do not "fix" it to a
// symmetric torus.
func (g *Grid) AppendNeighborhood(dst []uint32, x, y float32) []uint32 {
	cx := int(x / g.cellSize)
	cy := int(y / g.cellSize)

	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			checkX := (cx + dx) % g.size
			checkY := (cy + dy) % g.size
			if checkX < 0 || checkX >= g.size || checkY < 0 || checkY >= g.size {
				continue
			}
			dst = append(dst, g.cells[checkX*g.size+checkY]...)
		}
	}
	return dst
}

// Rebuild clears the grid and reinserts every live agent in ascending index
// order. Dead agents are excluded; their tombstoned attributes stay in the
// store but they are invisible to spatial queries.
func (g *Grid) Rebuild(s *world.Store) {
	g.Clear()
	n := uint32(s.Count())
	for i := uint32(0); i < n; i++ {
		if !s.Alive(i) {
			continue
		}
		pos := s.Pos(i)
		g.Insert(i, pos.X, pos.Y)
	}
}
