package catchment

import (
	"context"

	"github.com/paulmach/orb"
)

// OriginConnector represents synthetic segments linking one origin point to
// the street network: the connector edge itself plus the halves of the
// snapped segment it splits. Created per request and discarded afterwards.
type OriginConnector struct {
	OriginNode   NodeID // search root for the multi-source shortest path run
	ReplacesEdge EdgeID // base segment superseded by the split halves
	Edges        []Edge
}

// NetworkDatabase is the narrow interface to the backing street network
// storage. The catchment core never talks to the database in any other way.
type NetworkDatabase interface {
	// FetchPartition returns every edge whose coarse cell equals given id.
	// An unknown-but-valid cell yields an empty slice, not an error.
	FetchPartition(ctx context.Context, cell CellID) ([]Edge, error)
	// FetchScenarioOverlay resolves a scenario id into its edit records.
	// Unknown ids yield ErrInvalidScenario.
	FetchScenarioOverlay(ctx context.Context, scenarioID string) (*ScenarioOverlay, error)
	// SnapPoint matches an origin point to the nearest segment(s) eligible
	// for the mode, producing origin connectors. An origin with no eligible
	// segment within the snapping radius yields an empty slice.
	SnapPoint(ctx context.Context, pt orb.Point, mode Mode) ([]OriginConnector, error)
}
