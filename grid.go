package catchment

import (
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
)

// GridCell is one cell of a grid-type catchment area result
type GridCell struct {
	Cell CellID  `json:"cell"`
	Cost float64 `json:"cost"`
}

// EvaluateGrid projects the arrival-cost field onto a fixed spatial grid:
// each cell's cost is the minimal arrival cost of any node falling inside it.
// Cells containing no reached node are absent. Car catchments use a coarser
// zoom than active modes since they span far larger areas.
func EvaluateGrid(nodeCost map[NodeID]float64, nodePoints map[NodeID]orb.Point, zoom maptile.Zoom) map[CellID]float64 {
	grid := make(map[CellID]float64)
	for node, cost := range nodeCost {
		pt, ok := nodePoints[node]
		if !ok {
			continue
		}
		cell := CellAt(pt, zoom)
		if prev, ok := grid[cell]; !ok || cost < prev {
			grid[cell] = cost
		}
	}
	return grid
}

// GridCells flattens the cost grid into a deterministic cell list
func GridCells(grid map[CellID]float64) []GridCell {
	cells := make([]GridCell, 0, len(grid))
	for cell, cost := range grid {
		cells = append(cells, GridCell{Cell: cell, Cost: cost})
	}
	sort.Slice(cells, func(i, j int) bool { return cells[i].Cell < cells[j].Cell })
	return cells
}
