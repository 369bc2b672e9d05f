// Package spatial provides cache-efficient spatial data structures for
// broad-phase ray and neighbor queries.
//
// All structures use preallocated slices with integer indices (not pointers)
// to minimize GC pressure and maximize cache locality.
package spatial

import (
	"math"
)

// Grid provides O(1) average spatial queries via fixed-size cells on the
// ground plane (X, Z). Height is ignored in the broad phase.
//
// Memory layout: cells are stored in row-major order (cells[row*cols+col])
type Grid struct {
	cellSize    float64
	invCellSize float64 // 1/cellSize for faster division
	cols, rows  int
	cells       [][]uint32 // cells[row*cols+col] = list of entity indices
	scratch     []uint32   // reusable buffer for query results

	// Per-entity query stamp for deduplicating entities spanning several cells
	seen  []uint32
	stamp uint32
}

// NewGrid creates a grid for the given world bounds.
// maxEntities is used to preallocate cell capacity.
func NewGrid(worldWidth, worldDepth, cellSize float64, maxEntities int) *Grid {
	if cellSize <= 0 {
		cellSize = 1
	}
	cols := int(math.Ceil(worldWidth / cellSize))
	rows := int(math.Ceil(worldDepth / cellSize))

	// Ensure at least 1x1 grid
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	cells := make([][]uint32, cols*rows)
	avgPerCell := maxEntities / len(cells)
	if avgPerCell < 4 {
		avgPerCell = 4
	}
	for i := range cells {
		cells[i] = make([]uint32, 0, avgPerCell)
	}

	return &Grid{
		cellSize:    cellSize,
		invCellSize: 1.0 / cellSize,
		cols:        cols,
		rows:        rows,
		cells:       cells,
		scratch:     make([]uint32, 0, 64),
		seen:        make([]uint32, maxEntities),
	}
}

// Clear resets all cells without deallocating underlying memory.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0] // Keep capacity, reset length
	}
}

// Insert adds a point entity at (x, z).
func (g *Grid) Insert(entityID uint32, x, z float64) {
	col, row := g.cellCoords(x, z)
	g.add(entityID, row*g.cols+col)
}

// InsertBounds adds an entity to every cell overlapping the rectangle.
func (g *Grid) InsertBounds(entityID uint32, minX, minZ, maxX, maxZ float64) {
	minCol, minRow := g.cellCoords(minX, minZ)
	maxCol, maxRow := g.cellCoords(maxX, maxZ)

	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			g.add(entityID, row*g.cols+col)
		}
	}
}

func (g *Grid) add(entityID uint32, idx int) {
	if int(entityID) >= len(g.seen) {
		grown := make([]uint32, int(entityID)*2+1)
		copy(grown, g.seen)
		g.seen = grown
	}
	g.cells[idx] = append(g.cells[idx], entityID)
}

// cellCoords computes the clamped cell for a position.
func (g *Grid) cellCoords(x, z float64) (col, row int) {
	col = int(math.Floor(x * g.invCellSize))
	row = int(math.Floor(z * g.invCellSize))

	if col < 0 {
		col = 0
	}
	if col >= g.cols {
		col = g.cols - 1
	}
	if row < 0 {
		row = 0
	}
	if row >= g.rows {
		row = g.rows - 1
	}
	return col, row
}

// QueryRadius returns all entity IDs potentially within radius of (cx, cz).
//
// IMPORTANT: The returned slice is reused on subsequent calls.
// The caller must perform a precise check (narrow phase).
func (g *Grid) QueryRadius(cx, cz, radius float64) []uint32 {
	g.beginQuery()

	minCol, minRow := g.cellCoords(cx-radius, cz-radius)
	maxCol, maxRow := g.cellCoords(cx+radius, cz+radius)

	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			g.collect(row*g.cols + col)
		}
	}

	return g.scratch
}

// QueryRay returns entity IDs in every cell crossed by the ray from
// (ox, oz) along (dx, dz) up to maxDist, walking cells in order
// (Amanatides & Woo traversal). dx, dz are the ground-plane components of a
// unit 3D direction, so maxDist is measured along the full ray.
//
// IMPORTANT: The returned slice is reused on subsequent calls.
func (g *Grid) QueryRay(ox, oz, dx, dz, maxDist float64) []uint32 {
	g.beginQuery()

	col, row := g.cellCoords(ox, oz)
	stepCol, stepRow := 0, 0
	tMaxX, tMaxZ := math.Inf(1), math.Inf(1)
	tDeltaX, tDeltaZ := math.Inf(1), math.Inf(1)

	if dx > 0 {
		stepCol = 1
		tMaxX = (float64(col+1)*g.cellSize - ox) / dx
		tDeltaX = g.cellSize / dx
	} else if dx < 0 {
		stepCol = -1
		tMaxX = (float64(col)*g.cellSize - ox) / dx
		tDeltaX = -g.cellSize / dx
	}
	if dz > 0 {
		stepRow = 1
		tMaxZ = (float64(row+1)*g.cellSize - oz) / dz
		tDeltaZ = g.cellSize / dz
	} else if dz < 0 {
		stepRow = -1
		tMaxZ = (float64(row)*g.cellSize - oz) / dz
		tDeltaZ = -g.cellSize / dz
	}

	for {
		g.collect(row*g.cols + col)

		if tMaxX < tMaxZ {
			if tMaxX > maxDist {
				break
			}
			col += stepCol
			tMaxX += tDeltaX
		} else {
			if tMaxZ > maxDist {
				break
			}
			row += stepRow
			tMaxZ += tDeltaZ
		}

		if col < 0 || col >= g.cols || row < 0 || row >= g.rows {
			break
		}
	}

	return g.scratch
}

func (g *Grid) beginQuery() {
	g.scratch = g.scratch[:0]
	g.stamp++
	if g.stamp == 0 {
		// Wrapped: old stamps could collide
		for i := range g.seen {
			g.seen[i] = 0
		}
		g.stamp = 1
	}
}

func (g *Grid) collect(idx int) {
	for _, id := range g.cells[idx] {
		if g.seen[id] == g.stamp {
			continue
		}
		g.seen[id] = g.stamp
		g.scratch = append(g.scratch, id)
	}
}

// Stats returns grid statistics for debugging/profiling.
func (g *Grid) Stats() GridStats {
	var totalEntries, maxInCell, nonEmpty int
	for _, cell := range g.cells {
		count := len(cell)
		totalEntries += count
		if count > maxInCell {
			maxInCell = count
		}
		if count > 0 {
			nonEmpty++
		}
	}

	avgPerCell := 0.0
	if nonEmpty > 0 {
		avgPerCell = float64(totalEntries) / float64(nonEmpty)
	}

	return GridStats{
		TotalCells:     len(g.cells),
		NonEmptyCells:  nonEmpty,
		TotalEntries:   totalEntries,
		MaxInCell:      maxInCell,
		AvgPerNonEmpty: avgPerCell,
	}
}

// GridStats contains grid statistics for debugging.
type GridStats struct {
	TotalCells     int
	NonEmptyCells  int
	TotalEntries   int // an entity spanning N cells counts N times
	MaxInCell      int
	AvgPerNonEmpty float64
}

// Dimensions returns the grid dimensions.
func (g *Grid) Dimensions() (cols, rows int, cellSize float64) {
	return g.cols, g.rows, g.cellSize
}
