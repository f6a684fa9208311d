package catchment

import (
	"context"
	"math"

	"github.com/paulmach/orb"
)

// testWalkConfig makes walking speed exactly 1.4 m/s for readable expectations
func testWalkConfig() *Config {
	cfg := DefaultConfig()
	cfg.WalkSpeedKmh = 5.04 // 1.4 m/s
	return cfg
}

func testPoint(lon, lat float64) orb.Point {
	return orb.Point{lon, lat}
}

// offsetPoint shifts a point by approximately eastM/northM meters
func offsetPoint(p orb.Point, eastM, northM float64) orb.Point {
	dLat := northM / (earthRadius * 1000.0) * pi180Rev
	dLon := eastM / (earthRadius * 1000.0 * math.Cos(degreesToRadians(p.Lat()))) * pi180Rev
	return orb.Point{p.Lon() + dLon, p.Lat() + dLat}
}

// testEdge builds a straight two-point edge with lengths and cells derived
// from its geometry
func testEdge(id, source, target int64, a, b orb.Point, class EdgeClass) Edge {
	geom := orb.LineString{a, b}
	mid := geom[len(geom)/2]
	return Edge{
		ID:              EdgeID(id),
		Source:          NodeID(source),
		Target:          NodeID(target),
		LengthM:         getSphericalLength(geom),
		LengthProjected: getProjectedLength(geom),
		Class:           class,
		Geom:            geom,
		CellCoarse:      CellAt(mid, CellZoomCoarse),
		CellFine:        CellAt(mid, CellZoomFine),
	}
}

// fakeNetworkDatabase is an in-memory NetworkDatabase for tests. Snapping
// links the origin to the nearest eligible edge endpoint with a zero-length
// connector, keeping cost expectations exact.
type fakeNetworkDatabase struct {
	edges       []Edge
	overlays    map[string]*ScenarioOverlay
	snapRadiusM float64
	fetchCalls  int
	snapCalls   int
	unavailable bool
}

func newFakeNetworkDatabase(snapRadiusM float64, edges ...Edge) *fakeNetworkDatabase {
	return &fakeNetworkDatabase{
		edges:       edges,
		overlays:    make(map[string]*ScenarioOverlay),
		snapRadiusM: snapRadiusM,
	}
}

func (f *fakeNetworkDatabase) FetchPartition(ctx context.Context, cell CellID) ([]Edge, error) {
	f.fetchCalls++
	if f.unavailable {
		return nil, context.DeadlineExceeded
	}
	partition := []Edge{}
	for _, e := range f.edges {
		if e.CellCoarse == cell {
			partition = append(partition, e)
		}
	}
	return partition, nil
}

func (f *fakeNetworkDatabase) FetchScenarioOverlay(ctx context.Context, scenarioID string) (*ScenarioOverlay, error) {
	overlay, ok := f.overlays[scenarioID]
	if !ok {
		return nil, ErrInvalidScenario
	}
	return overlay, nil
}

func (f *fakeNetworkDatabase) SnapPoint(ctx context.Context, pt orb.Point, mode Mode) ([]OriginConnector, error) {
	bestDist := f.snapRadiusM
	var bestNode NodeID
	var bestPt orb.Point
	found := false
	for _, e := range f.edges {
		if !mode.ClassEligible(e.Class) {
			continue
		}
		for _, candidate := range []struct {
			node NodeID
			pt   orb.Point
		}{{e.Source, e.SourcePoint()}, {e.Target, e.TargetPoint()}} {
			if d := greatCircleDistance(pt, candidate.pt); d <= bestDist {
				bestDist = d
				bestNode = candidate.node
				bestPt = candidate.pt
				found = true
			}
		}
	}
	if !found {
		return nil, nil
	}
	f.snapCalls++
	originNode := NodeID(-(2*f.snapCalls - 1))
	connector := Edge{
		ID:         EdgeID(-f.snapCalls),
		Source:     originNode,
		Target:     bestNode,
		LengthM:    0,
		Class:      mode.ConnectorClass(),
		Geom:       orb.LineString{pt, bestPt},
		CellCoarse: CellAt(bestPt, CellZoomCoarse),
		CellFine:   CellAt(bestPt, CellZoomFine),
	}
	return []OriginConnector{{OriginNode: originNode, Edges: []Edge{connector}}}, nil
}

// buildSubNetwork wires a sub-network directly for engine-level tests
func buildSubNetwork(roots []NodeID, edges ...Edge) *SubNetwork {
	sn := newSubNetwork()
	for _, e := range edges {
		sn.add(e)
	}
	sn.Roots = roots
	return sn
}
