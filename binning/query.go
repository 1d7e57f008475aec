package binning

import (
	"github.com/chfi/gfaestus/geometry"
	"github.com/chfi/gfaestus/graph"
)

// RectQuery returns the IDs of nodes whose segment midpoint lies inside
// the rectangle. Only cells overlapping the rectangle are visited; a
// rectangle outside the grid returns an empty result.
func (g *GridIndex) RectQuery(layout *graph.Layout, r geometry.Rect) []graph.NodeID {
	if !g.built {
		return nil
	}

	minRow, minCol, ok := g.clampCell(r.Min)
	if !ok {
		return nil
	}
	maxRow, maxCol, ok := g.clampCell(r.Max)
	if !ok {
		return nil
	}

	var hits []graph.NodeID
	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			for _, node := range g.NodesInBin(row*g.cfg.Cols + col) {
				id := graph.NodeID(node + 1)
				if r.Contains(layout.Midpoint(id)) {
					hits = append(hits, id)
				}
			}
		}
	}
	return hits
}

// NearestNode returns the binned node whose midpoint is closest to p.
// Returns NoNode and false when the index holds no nodes.
//
// The search walks cell rings outward from p's cell and stops once the
// nearest possible point of the next ring is farther than the best hit.
func (g *GridIndex) NearestNode(layout *graph.Layout, p geometry.Point) (graph.NodeID, bool) {
	if !g.built || g.BinnedCount() == 0 {
		return graph.NoNode, false
	}

	startRow, startCol := g.nearestCell(p)

	best := graph.NoNode
	bestDist := float32(0)

	maxRadius := g.cfg.Rows
	if g.cfg.Cols > maxRadius {
		maxRadius = g.cfg.Cols
	}

	for radius := uint32(0); radius <= maxRadius; radius++ {
		if best != graph.NoNode && radius > 0 {
			// Cells in this ring are at least (radius-1) cell spans away.
			minSpan := g.cfg.CellWidth
			if g.cfg.CellHeight < minSpan {
				minSpan = g.cfg.CellHeight
			}
			ringDist := float32(radius-1) * minSpan
			if ringDist*ringDist > bestDist {
				break
			}
		}

		g.visitRing(startRow, startCol, radius, func(bin uint32) {
			for _, node := range g.NodesInBin(bin) {
				id := graph.NodeID(node + 1)
				d := layout.Midpoint(id).DistanceSquared(p)
				if best == graph.NoNode || d < bestDist {
					best = id
					bestDist = d
				}
			}
		})
	}

	return best, best != graph.NoNode
}

// clampCell returns the cell containing p clamped to the grid, reporting
// false only when the grid is degenerate.
func (g *GridIndex) clampCell(p geometry.Point) (row, col uint32, ok bool) {
	if g.cfg.Rows == 0 || g.cfg.Cols == 0 {
		return 0, 0, false
	}
	row, col = g.nearestCell(p)
	return row, col, true
}

// nearestCell returns the cell whose rectangle is closest to p, clamping
// out-of-range coordinates to the border cells.
func (g *GridIndex) nearestCell(p geometry.Point) (row, col uint32) {
	dx := p.X - g.cfg.Origin.X
	dy := p.Y - g.cfg.Origin.Y
	if dx > 0 {
		col = uint32(dx / g.cfg.CellWidth)
		if col >= g.cfg.Cols {
			col = g.cfg.Cols - 1
		}
	}
	if dy > 0 {
		row = uint32(dy / g.cfg.CellHeight)
		if row >= g.cfg.Rows {
			row = g.cfg.Rows - 1
		}
	}
	return row, col
}

// visitRing calls fn for every in-grid cell at Chebyshev distance radius
// from the center cell.
func (g *GridIndex) visitRing(centerRow, centerCol, radius uint32, fn func(bin uint32)) {
	r0 := int64(centerRow) - int64(radius)
	r1 := int64(centerRow) + int64(radius)
	c0 := int64(centerCol) - int64(radius)
	c1 := int64(centerCol) + int64(radius)

	visit := func(row, col int64) {
		if row < 0 || col < 0 || row >= int64(g.cfg.Rows) || col >= int64(g.cfg.Cols) {
			return
		}
		fn(uint32(row)*g.cfg.Cols + uint32(col))
	}

	if radius == 0 {
		visit(r0, c0)
		return
	}

	for col := c0; col <= c1; col++ {
		visit(r0, col)
		visit(r1, col)
	}
	for row := r0 + 1; row < r1; row++ {
		visit(row, c0)
		visit(row, c1)
	}
}
