package catchment

import (
	"github.com/paulmach/orb"
)

// EdgeID identifies a street network segment
type EdgeID int64

// NodeID identifies a street network vertex
type NodeID int64

// EdgeClass represents category of a street network segment
type EdgeClass uint16

const (
	CLASS_MOTORWAY = EdgeClass(iota + 1)
	CLASS_MOTORWAY_LINK
	CLASS_TRUNK
	CLASS_TRUNK_LINK
	CLASS_PRIMARY
	CLASS_SECONDARY
	CLASS_TERTIARY
	CLASS_RESIDENTIAL
	CLASS_LIVING_STREET
	CLASS_UNCLASSIFIED
	CLASS_SERVICE
	CLASS_TRACK
	CLASS_CYCLEWAY
	CLASS_PATH
	CLASS_PEDESTRIAN
	CLASS_FOOTWAY
	CLASS_STEPS
	CLASS_CROSSWALK
)

func (iotaIdx EdgeClass) String() string {
	return [...]string{"motorway", "motorway_link", "trunk", "trunk_link", "primary", "secondary", "tertiary", "residential", "living_street", "unclassified", "service", "track", "cycleway", "path", "pedestrian", "footway", "steps", "crosswalk"}[iotaIdx-1]
}

// Edge represents a single street network segment.
// Values loaded from the network store are immutable: scenario overlays and
// origin connectors always produce fresh Edge values.
type Edge struct {
	ID                EdgeID         `json:"id"`
	Source            NodeID         `json:"source"`
	Target            NodeID         `json:"target"`
	LengthM           float64        `json:"length_m"`
	LengthProjected   float64        `json:"length_projected"`
	Class             EdgeClass      `json:"class"`
	SlopeImpedanceFwd float64        `json:"impedance_slope"`
	SlopeImpedanceRev float64        `json:"impedance_slope_reverse"`
	SurfaceImpedance  float64        `json:"impedance_surface"`
	MaxSpeedFwd       float64        `json:"maxspeed_forward"`  // km/h, 0 if unknown
	MaxSpeedRev       float64        `json:"maxspeed_backward"` // km/h, 0 marks a one-way segment
	Geom              orb.LineString `json:"geom"`              // EPSG:4326 polyline
	CellCoarse        CellID         `json:"cell_coarse"`
	CellFine          CellID         `json:"cell_fine"`
}

// SourcePoint returns geometry of the source vertex
func (e *Edge) SourcePoint() orb.Point {
	return e.Geom[0]
}

// TargetPoint returns geometry of the target vertex
func (e *Edge) TargetPoint() orb.Point {
	return e.Geom[len(e.Geom)-1]
}
