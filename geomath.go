package catchment

import (
	"math"

	"github.com/paulmach/orb"
)

const (
	earthRadius = 6370.986884258304
	earthR      = 20037508.34
	pi180       = math.Pi / 180.0
	pi180Rev    = 180.0 / math.Pi
)

// degreesToRadians deg = r * pi / 180
func degreesToRadians(d float64) float64 {
	return d * pi180
}

// epsg4326To3857 projects lon/lat point to web-mercator plane
func epsg4326To3857(pt orb.Point) orb.Point {
	x := pt.Lon() * earthR / 180
	y := math.Log(math.Tan((90+pt.Lat())*math.Pi/360)) / (math.Pi / 180)
	y = y * earthR / 180
	return orb.Point{x, y}
}

// greatCircleDistance returns distance between two geo-points (meters)
func greatCircleDistance(p, q orb.Point) float64 {
	lat1 := degreesToRadians(p.Lat())
	lon1 := degreesToRadians(p.Lon())
	lat2 := degreesToRadians(q.Lat())
	lon2 := degreesToRadians(q.Lon())
	diffLat := lat2 - lat1
	diffLon := lon2 - lon1
	a := math.Pow(math.Sin(diffLat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(diffLon/2), 2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return c * earthRadius * 1000.0
}

// getSphericalLength returns length for given line (meters)
func getSphericalLength(line orb.LineString) float64 {
	totalLength := 0.0
	if len(line) < 2 {
		return totalLength
	}
	for i := 1; i < len(line); i++ {
		totalLength += greatCircleDistance(line[i-1], line[i])
	}
	return totalLength
}

// getProjectedLength returns length for given line on the web-mercator plane
func getProjectedLength(line orb.LineString) float64 {
	totalLength := 0.0
	if len(line) < 2 {
		return totalLength
	}
	prev := epsg4326To3857(line[0])
	for i := 1; i < len(line); i++ {
		curr := epsg4326To3857(line[i])
		dx := curr[0] - prev[0]
		dy := curr[1] - prev[1]
		totalLength += math.Sqrt(dx*dx + dy*dy)
		prev = curr
	}
	return totalLength
}

// pointOnSegmentByFraction returns a point on given segment using known fraction
func pointOnSegmentByFraction(p, q orb.Point, fraction float64) orb.Point {
	return orb.Point{
		(1-fraction)*p.Lon() + fraction*q.Lon(),
		(1-fraction)*p.Lat() + fraction*q.Lat(),
	}
}

// projectOnSegment returns closest point of segment [p, q] to given point
// and fraction of the segment at which it lies
func projectOnSegment(pt, p, q orb.Point) (orb.Point, float64) {
	dx := q.Lon() - p.Lon()
	dy := q.Lat() - p.Lat()
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return p, 0.0
	}
	fraction := ((pt.Lon()-p.Lon())*dx + (pt.Lat()-p.Lat())*dy) / lenSq
	if fraction < 0 {
		fraction = 0
	} else if fraction > 1 {
		fraction = 1
	}
	return pointOnSegmentByFraction(p, q, fraction), fraction
}

// projectOnLine returns closest point of given polyline to given point,
// index of the segment it lies on and distance to it (meters)
func projectOnLine(pt orb.Point, line orb.LineString) (orb.Point, int, float64) {
	bestDist := math.Inf(1)
	bestIdx := 0
	var bestPt orb.Point
	for i := 1; i < len(line); i++ {
		candidate, _ := projectOnSegment(pt, line[i-1], line[i])
		dist := greatCircleDistance(pt, candidate)
		if dist < bestDist {
			bestDist = dist
			bestIdx = i - 1
			bestPt = candidate
		}
	}
	return bestPt, bestIdx, bestDist
}

// splitLineAt splits polyline at a point lying on segment segIdx.
// Both halves share the split point.
func splitLineAt(line orb.LineString, segIdx int, at orb.Point) (orb.LineString, orb.LineString) {
	head := make(orb.LineString, 0, segIdx+2)
	head = append(head, line[:segIdx+1]...)
	head = append(head, at)
	tail := make(orb.LineString, 0, len(line)-segIdx)
	tail = append(tail, at)
	tail = append(tail, line[segIdx+1:]...)
	return head, tail
}
