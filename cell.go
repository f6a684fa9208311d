package catchment

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/maptile"
)

const (
	// CellZoomCoarse is the web-mercator tile zoom used as partition key of the network store
	CellZoomCoarse = maptile.Zoom(8)
	// CellZoomFine is the web-mercator tile zoom used for sub-network filtering
	CellZoomFine = maptile.Zoom(12)
)

// CellID is a packed web-mercator tile identifier: zoom in the upper bits,
// X and Y in 29 bits each. Cells form the hierarchical spatial index of
// the street network.
type CellID uint64

// packCell encodes tile into single integer key
func packCell(t maptile.Tile) CellID {
	return CellID(uint64(t.Z)<<58 | uint64(t.X)<<29 | uint64(t.Y))
}

// unpackCell decodes integer key back to tile
func unpackCell(c CellID) maptile.Tile {
	return maptile.Tile{
		Z: maptile.Zoom(uint64(c) >> 58),
		X: uint32((uint64(c) >> 29) & ((1 << 29) - 1)),
		Y: uint32(uint64(c) & ((1 << 29) - 1)),
	}
}

// Zoom returns zoom level encoded in the cell id
func (c CellID) Zoom() maptile.Zoom {
	return unpackCell(c).Z
}

// Bound returns geographic extent of the cell
func (c CellID) Bound() orb.Bound {
	return unpackCell(c).Bound()
}

// Center returns geographic center of the cell
func (c CellID) Center() orb.Point {
	return unpackCell(c).Bound().Center()
}

// CellAt returns cell containing given EPSG:4326 point at requested zoom
func CellAt(pt orb.Point, zoom maptile.Zoom) CellID {
	return packCell(maptile.At(pt, zoom))
}

// CoverBound returns every cell at requested zoom intersecting given bound
func CoverBound(b orb.Bound, zoom maptile.Zoom) []CellID {
	min := maptile.At(orb.Point{b.Min[0], b.Max[1]}, zoom) // north-west corner: smallest X and Y
	max := maptile.At(orb.Point{b.Max[0], b.Min[1]}, zoom)
	cells := make([]CellID, 0, int(max.X-min.X+1)*int(max.Y-min.Y+1))
	for x := min.X; x <= max.X; x++ {
		for y := min.Y; y <= max.Y; y++ {
			cells = append(cells, packCell(maptile.Tile{X: x, Y: y, Z: zoom}))
		}
	}
	return cells
}

// CoverBuffer returns every cell at requested zoom intersecting circular
// buffer of radiusM meters around given point
func CoverBuffer(pt orb.Point, radiusM float64, zoom maptile.Zoom) []CellID {
	return CoverBound(geo.NewBoundAroundPoint(pt, radiusM), zoom)
}
