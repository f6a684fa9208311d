package catchment

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
	"github.com/paulmach/orb/planar"
)

// IsochroneBand is one threshold band of a polygon-type catchment area
type IsochroneBand struct {
	Threshold float64
	Polygons  orb.MultiPolygon
}

// Isochrone is an ordered sequence of threshold bands, thresholds strictly
// increasing. Without the ring-difference transform later bands cover
// supersets of earlier ones.
type Isochrone []IsochroneBand

// costRaster is the arrival-cost field rasterized onto a uniform tile grid
type costRaster struct {
	zoom   maptile.Zoom
	minX   uint32
	minY   uint32
	width  int
	height int
	cost   []float64 // +Inf where no node was reached
}

func rasterize(grid map[CellID]float64, zoom maptile.Zoom) *costRaster {
	if len(grid) == 0 {
		return &costRaster{zoom: zoom}
	}
	minX, minY := uint32(math.MaxUint32), uint32(math.MaxUint32)
	maxX, maxY := uint32(0), uint32(0)
	for cell := range grid {
		t := unpackCell(cell)
		if t.X < minX {
			minX = t.X
		}
		if t.Y < minY {
			minY = t.Y
		}
		if t.X > maxX {
			maxX = t.X
		}
		if t.Y > maxY {
			maxY = t.Y
		}
	}
	r := &costRaster{
		zoom:   zoom,
		minX:   minX,
		minY:   minY,
		width:  int(maxX-minX) + 1,
		height: int(maxY-minY) + 1,
	}
	r.cost = make([]float64, r.width*r.height)
	for i := range r.cost {
		r.cost[i] = math.Inf(1)
	}
	for cell, cost := range grid {
		t := unpackCell(cell)
		r.cost[int(t.Y-minY)*r.width+int(t.X-minX)] = cost
	}
	return r
}

func (r *costRaster) at(x, y int) float64 {
	if x < 0 || y < 0 || x >= r.width || y >= r.height {
		return math.Inf(1)
	}
	return r.cost[y*r.width+x]
}

// smoothedAt returns the percentile-th percentile of the 3x3 neighborhood
// cost around (x, y). Low percentiles make sparse coverage contiguous; high
// percentiles suppress single-cell islands.
func (r *costRaster) smoothedAt(x, y, percentile int) float64 {
	neighborhood := make([]float64, 0, 9)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			neighborhood = append(neighborhood, r.at(x+dx, y+dy))
		}
	}
	sort.Float64s(neighborhood)
	return neighborhood[percentile*(len(neighborhood)-1)/100]
}

// vertex of the tile corner lattice
type latticePoint struct {
	x, y int
}

func (r *costRaster) geoPoint(v latticePoint) orb.Point {
	b := maptile.Tile{X: r.minX + uint32(v.x), Y: r.minY + uint32(v.y), Z: r.zoom}.Bound()
	return orb.Point{b.Min[0], b.Max[1]} // north-west tile corner
}

// traceMask extracts the boundary rings of a boolean cell mask. Boundary
// segments keep the inside on their right in grid space; since grid Y grows
// south, geographic outer rings come out counter-clockwise and holes clockwise.
func (r *costRaster) traceMask(mask []bool) []orb.Ring {
	inside := func(x, y int) bool {
		if x < 0 || y < 0 || x >= r.width || y >= r.height {
			return false
		}
		return mask[y*r.width+x]
	}

	type segment struct {
		from, to latticePoint
		used     bool
	}
	segments := []segment{}
	outgoing := make(map[latticePoint][]int)
	emit := func(from, to latticePoint) {
		outgoing[from] = append(outgoing[from], len(segments))
		segments = append(segments, segment{from: from, to: to})
	}
	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			if !inside(x, y) {
				continue
			}
			if !inside(x, y-1) {
				emit(latticePoint{x + 1, y}, latticePoint{x, y})
			}
			if !inside(x-1, y) {
				emit(latticePoint{x, y}, latticePoint{x, y + 1})
			}
			if !inside(x, y+1) {
				emit(latticePoint{x, y + 1}, latticePoint{x + 1, y + 1})
			}
			if !inside(x+1, y) {
				emit(latticePoint{x + 1, y + 1}, latticePoint{x + 1, y})
			}
		}
	}

	// Prefer the sharpest turn toward the inside at shared corners so
	// diagonally touching components trace as separate rings.
	next := func(at latticePoint, dir latticePoint) int {
		preference := []latticePoint{
			{dir.y, -dir.x},  // toward the inside
			dir,              // straight
			{-dir.y, dir.x},  // away from the inside
			{-dir.x, -dir.y}, // reversal, cannot happen on a valid mask
		}
		for _, want := range preference {
			for _, idx := range outgoing[at] {
				seg := &segments[idx]
				if seg.used {
					continue
				}
				d := latticePoint{seg.to.x - seg.from.x, seg.to.y - seg.from.y}
				if d == want {
					return idx
				}
			}
		}
		return -1
	}

	rings := []orb.Ring{}
	for start := range segments {
		if segments[start].used {
			continue
		}
		ring := orb.Ring{}
		idx := start
		for {
			seg := &segments[idx]
			seg.used = true
			ring = append(ring, r.geoPoint(seg.from))
			if seg.to == segments[start].from {
				break
			}
			idx = next(seg.to, latticePoint{seg.to.x - seg.from.x, seg.to.y - seg.from.y})
			if idx < 0 {
				break
			}
		}
		if len(ring) >= 3 {
			ring = append(ring, ring[0]) // close the ring
			rings = append(rings, ring)
		}
	}
	return rings
}

// assemblePolygons groups boundary rings into valid polygons: geographic
// counter-clockwise rings are exteriors, clockwise rings become holes of the
// smallest exterior containing them.
func assemblePolygons(rings []orb.Ring) orb.MultiPolygon {
	polygons := orb.MultiPolygon{}
	holes := []orb.Ring{}
	for _, ring := range rings {
		if ring.Orientation() == orb.CCW {
			polygons = append(polygons, orb.Polygon{ring})
		} else {
			holes = append(holes, ring)
		}
	}
	for _, hole := range holes {
		bestIdx := -1
		bestArea := math.Inf(1)
		for i, polygon := range polygons {
			if planar.RingContains(polygon[0], hole[0]) {
				if area := planar.Area(polygon[0]); area < bestArea {
					bestArea = area
					bestIdx = i
				}
			}
		}
		if bestIdx >= 0 {
			polygons[bestIdx] = append(polygons[bestIdx], hole)
		}
	}
	return polygons
}

// GenerateIsolines converts the arrival-cost grid into nested contour
// polygons at steps evenly spaced thresholds between 0 and the budget.
// With ringDifference each band covers only the area beyond the previous
// band (donut rings) instead of the full nested region; this is a
// presentation transform, the underlying field is unchanged. Degenerate
// bands are omitted. A field with zero reachable cells yields an empty
// isochrone, which is a legitimate reportable state.
func GenerateIsolines(grid map[CellID]float64, zoom maptile.Zoom, budget CostBudget, steps, percentile int, ringDifference bool) Isochrone {
	iso := Isochrone{}
	if len(grid) == 0 || steps < 1 {
		return iso
	}
	raster := rasterize(grid, zoom)

	smoothed := make([]float64, raster.width*raster.height)
	for y := 0; y < raster.height; y++ {
		for x := 0; x < raster.width; x++ {
			smoothed[y*raster.width+x] = raster.smoothedAt(x, y, percentile)
		}
	}

	prevMask := make([]bool, raster.width*raster.height)
	for step := 1; step <= steps; step++ {
		threshold := budget.Value * float64(step) / float64(steps)
		mask := make([]bool, raster.width*raster.height)
		band := make([]bool, raster.width*raster.height)
		for i, v := range smoothed {
			mask[i] = v <= threshold
			band[i] = mask[i] && (!ringDifference || !prevMask[i])
		}
		polygons := assemblePolygons(raster.traceMask(band))
		if len(polygons) > 0 {
			iso = append(iso, IsochroneBand{Threshold: threshold, Polygons: polygons})
		}
		prevMask = mask
	}
	return iso
}
