package catchment

import (
	geojson "github.com/paulmach/go.geojson"
	"github.com/paulmach/orb"
)

func lineCoordinates(line orb.LineString) [][]float64 {
	coords := make([][]float64, len(line))
	for i, pt := range line {
		coords[i] = []float64{pt.Lon(), pt.Lat()}
	}
	return coords
}

func polygonCoordinates(polygon orb.Polygon) [][][]float64 {
	rings := make([][][]float64, len(polygon))
	for i, ring := range polygon {
		rings[i] = lineCoordinates(orb.LineString(ring))
	}
	return rings
}

// PolygonFeatures returns GeoJSON representation of an isochrone: one
// multipolygon feature per threshold band, ordered by ascending threshold
func PolygonFeatures(iso Isochrone) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, band := range iso {
		coords := make([][][][]float64, len(band.Polygons))
		for i, polygon := range band.Polygons {
			coords[i] = polygonCoordinates(polygon)
		}
		feature := geojson.NewMultiPolygonFeature(coords...)
		feature.SetProperty("threshold", band.Threshold)
		fc.AddFeature(feature)
	}
	return fc
}

// NetworkFeatures returns GeoJSON representation of the reachable
// sub-network: one linestring feature per traversed edge with its arrival cost
func NetworkFeatures(result *ReachabilityResult) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, reached := range result.Edges {
		feature := geojson.NewLineStringFeature(lineCoordinates(reached.Edge.Geom))
		feature.SetProperty("cost", reached.Cost)
		fc.AddFeature(feature)
	}
	return fc
}

// GridFeatures returns GeoJSON representation of a grid-type result: one
// polygon feature per grid cell carrying its cell id and minimal arrival cost
func GridFeatures(cells []GridCell) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, cell := range cells {
		ring := orb.Ring(cell.Cell.Bound().ToPolygon()[0])
		feature := geojson.NewPolygonFeature(polygonCoordinates(orb.Polygon{ring}))
		feature.SetProperty("cell", uint64(cell.Cell))
		feature.SetProperty("cost", cell.Cost)
		fc.AddFeature(feature)
	}
	return fc
}
