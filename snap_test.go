package catchment

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func snapFixtureEdges() []Edge {
	a := testPoint(13.40, 52.52)
	b := offsetPoint(a, 100.0, 0.0)
	return []Edge{testEdge(101, 1, 2, a, b, CLASS_FOOTWAY)}
}

func TestSnapSplitsNearestEdge(t *testing.T) {
	edges := snapFixtureEdges()
	snapper := newEdgeSnapper(edges, 100.0)

	origin := offsetPoint(testPoint(13.40, 52.52), 50.0, -10.0) // 10m south of the midpoint
	connectors, err := snapper.Snap(origin, MODE_PEDESTRIAN)
	require.NoError(t, err)
	require.Len(t, connectors, 1)

	connector := connectors[0]
	require.Equal(t, EdgeID(101), connector.ReplacesEdge)
	require.Len(t, connector.Edges, 3, "connector plus two halves of the split edge")

	link := connector.Edges[0]
	require.Equal(t, connector.OriginNode, link.Source)
	require.Negative(t, int64(connector.OriginNode), "synthetic ids come from the negative space")
	require.Negative(t, int64(link.ID))
	require.InDelta(t, 10.0, link.LengthM, 1.0)

	halves := connector.Edges[1].LengthM + connector.Edges[2].LengthM
	require.InDelta(t, edges[0].LengthM, halves, 0.5, "split halves preserve the base edge length")
	require.Equal(t, edges[0].Source, connector.Edges[1].Source)
	require.Equal(t, edges[0].Target, connector.Edges[2].Target)
	require.Equal(t, connector.Edges[1].Target, connector.Edges[2].Source, "halves meet at the split node")
}

func TestSnapRespectsRadius(t *testing.T) {
	snapper := newEdgeSnapper(snapFixtureEdges(), 100.0)
	farAway := offsetPoint(testPoint(13.40, 52.52), 0.0, -500.0)
	connectors, err := snapper.Snap(farAway, MODE_PEDESTRIAN)
	require.NoError(t, err)
	require.Empty(t, connectors)
}

func TestSnapRespectsModeEligibility(t *testing.T) {
	// a footway is no use to a car
	snapper := newEdgeSnapper(snapFixtureEdges(), 100.0)
	origin := offsetPoint(testPoint(13.40, 52.52), 50.0, -10.0)
	connectors, err := snapper.Snap(origin, MODE_CAR)
	require.NoError(t, err)
	require.Empty(t, connectors)
}

func TestSnapEmptyNetwork(t *testing.T) {
	snapper := newEdgeSnapper(nil, 100.0)
	connectors, err := snapper.Snap(testPoint(13.40, 52.52), MODE_PEDESTRIAN)
	require.NoError(t, err)
	require.Empty(t, connectors)
}

func TestSnapConnectorCarriesSpeed(t *testing.T) {
	a := testPoint(13.40, 52.52)
	b := offsetPoint(a, 100.0, 0.0)
	road := testEdge(201, 1, 2, a, b, CLASS_RESIDENTIAL)
	road.MaxSpeedFwd = 50.0
	road.MaxSpeedRev = 50.0

	snapper := newEdgeSnapper([]Edge{road}, 100.0)
	connectors, err := snapper.Snap(offsetPoint(a, 50.0, -10.0), MODE_CAR)
	require.NoError(t, err)
	require.Len(t, connectors, 1)

	link := connectors[0].Edges[0]
	require.Equal(t, connectorSpeedKmh, link.MaxSpeedFwd)
	require.Equal(t, connectorSpeedKmh, link.MaxSpeedRev)
	require.Equal(t, CLASS_SERVICE, link.Class)
	fwd, rev := EdgeCost(&link, MODE_CAR, ModeParams{}, BUDGET_TIME)
	require.False(t, math.IsInf(fwd, 1))
	require.False(t, math.IsInf(rev, 1), "connectors are traversable both ways")
}
