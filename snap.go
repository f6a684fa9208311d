package catchment

import (
	"sync/atomic"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/quadtree"
)

// snapCandidates is how many indexed vertices are inspected around an origin
// point before projecting onto their polylines
const snapCandidates = 16

// connectorSpeedKmh is assigned to synthetic connector segments so the car
// cost model treats them as slow access roads
const connectorSpeedKmh = 30.0

// edgeVertex is a quadtree payload pointing back to the indexed edge
type edgeVertex struct {
	pt      orb.Point
	edgeIdx int
}

func (v edgeVertex) Point() orb.Point {
	return v.pt
}

// edgeSnapper matches arbitrary points to the nearest network segment using a
// quadtree over segment vertices. Synthetic node and edge ids are allocated
// from the negative id space so they can never collide with stored network ids.
type edgeSnapper struct {
	edges   []Edge
	qt      *quadtree.Quadtree
	radiusM float64
	nextSyn int64
}

// newEdgeSnapper indexes given edge set for snapping within radiusM meters
func newEdgeSnapper(edges []Edge, radiusM float64) *edgeSnapper {
	s := &edgeSnapper{
		edges:   edges,
		radiusM: radiusM,
	}
	if len(edges) == 0 {
		return s
	}
	bound := edges[0].Geom.Bound()
	for i := 1; i < len(edges); i++ {
		bound = bound.Union(edges[i].Geom.Bound())
	}
	s.qt = quadtree.New(bound)
	for i := range edges {
		for _, pt := range edges[i].Geom {
			s.qt.Add(edgeVertex{pt: pt, edgeIdx: i})
		}
	}
	return s
}

func (s *edgeSnapper) synID() int64 {
	return atomic.AddInt64(&s.nextSyn, -1)
}

// Snap produces origin connectors for given point: the nearest eligible
// segment is split at the projection point and a synthetic connector edge
// links the origin to the split node. Returns an empty slice when no eligible
// segment lies within the snapping radius.
func (s *edgeSnapper) Snap(pt orb.Point, mode Mode) ([]OriginConnector, error) {
	if s.qt == nil {
		return nil, nil
	}
	nearest := s.qt.KNearest(nil, pt, snapCandidates)
	seen := make(map[int]struct{}, len(nearest))

	bestDist := s.radiusM
	bestIdx := -1
	var bestPt orb.Point
	bestSeg := 0
	for _, ptr := range nearest {
		v := ptr.(edgeVertex)
		if _, ok := seen[v.edgeIdx]; ok {
			continue
		}
		seen[v.edgeIdx] = struct{}{}
		edge := &s.edges[v.edgeIdx]
		if !mode.ClassEligible(edge.Class) {
			continue
		}
		proj, segIdx, dist := projectOnLine(pt, edge.Geom)
		if dist <= bestDist {
			bestDist = dist
			bestIdx = v.edgeIdx
			bestPt = proj
			bestSeg = segIdx
		}
	}
	if bestIdx < 0 {
		return nil, nil
	}
	return []OriginConnector{s.buildConnector(pt, mode, bestIdx, bestSeg, bestPt)}, nil
}

func (s *edgeSnapper) buildConnector(origin orb.Point, mode Mode, edgeIdx, segIdx int, split orb.Point) OriginConnector {
	base := s.edges[edgeIdx]
	originNode := NodeID(s.synID())
	splitNode := NodeID(s.synID())

	head, tail := splitLineAt(base.Geom, segIdx, split)

	half := func(id int64, source, target NodeID, geom orb.LineString) Edge {
		e := base
		e.ID = EdgeID(id)
		e.Source = source
		e.Target = target
		e.Geom = geom
		e.LengthM = getSphericalLength(geom)
		e.LengthProjected = getProjectedLength(geom)
		e.CellFine = CellAt(split, CellZoomFine)
		e.CellCoarse = CellAt(split, CellZoomCoarse)
		return e
	}

	connGeom := orb.LineString{origin, split}
	connector := Edge{
		ID:              EdgeID(s.synID()),
		Source:          originNode,
		Target:          splitNode,
		LengthM:         getSphericalLength(connGeom),
		LengthProjected: getProjectedLength(connGeom),
		Class:           mode.ConnectorClass(),
		MaxSpeedFwd:     connectorSpeedKmh,
		MaxSpeedRev:     connectorSpeedKmh,
		Geom:            connGeom,
		CellCoarse:      CellAt(split, CellZoomCoarse),
		CellFine:        CellAt(split, CellZoomFine),
	}

	return OriginConnector{
		OriginNode:   originNode,
		ReplacesEdge: base.ID,
		Edges: []Edge{
			connector,
			half(s.synID(), base.Source, splitNode, head),
			half(s.synID(), splitNode, base.Target, tail),
		},
	}
}
