package physics

import "math"

// SpatialGrid is a uniform grid for broad-phase collision detection.
// Items are inserted by position and index, then nearby items are found
// through a 3x3 neighbourhood lookup around a query point.
//
// Cell size must be >= the maximum interaction distance between any two
// colliding objects so that every candidate lies within the neighbourhood.
// Positions outside the covered area are clamped into the border cells,
// which keeps objects that straddle the screen edge queryable.
type SpatialGrid struct {
	cellSize    float64
	invCellSize float64
	cols        int
	rows        int
	cells       [][]int
}

// NewSpatialGrid creates a grid covering width x height.
func NewSpatialGrid(width, height, cellSize float64) *SpatialGrid {
	cols := int(math.Ceil(width / cellSize))
	rows := int(math.Ceil(height / cellSize))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	return &SpatialGrid{
		cellSize:    cellSize,
		invCellSize: 1.0 / cellSize,
		cols:        cols,
		rows:        rows,
		cells:       make([][]int, cols*rows),
	}
}

// CellSize returns the edge length of one cell.
func (g *SpatialGrid) CellSize() float64 {
	return g.cellSize
}

// Clear removes all items without releasing cell memory.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds an item (identified by index) at the given position.
func (g *SpatialGrid) Insert(p Vec2, index int) {
	col, row := g.cellOf(p)
	idx := row*g.cols + col
	g.cells[idx] = append(g.cells[idx], index)
}

// QueryAround calls fn for each item index in the 3x3 neighbourhood of p.
// Iteration stops early when fn returns true.
func (g *SpatialGrid) QueryAround(p Vec2, fn func(index int) bool) {
	col, row := g.cellOf(p)

	for r := row - 1; r <= row+1; r++ {
		if r < 0 || r >= g.rows {
			continue
		}
		for c := col - 1; c <= col+1; c++ {
			if c < 0 || c >= g.cols {
				continue
			}
			for _, item := range g.cells[r*g.cols+c] {
				if fn(item) {
					return
				}
			}
		}
	}
}

// cellOf converts a position to grid coordinates, clamped to the grid.
func (g *SpatialGrid) cellOf(p Vec2) (col, row int) {
	col = clampIndex(int(math.Floor(p.X*g.invCellSize)), g.cols)
	row = clampIndex(int(math.Floor(p.Y*g.invCellSize)), g.rows)
	return col, row
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
