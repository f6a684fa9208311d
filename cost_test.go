package catchment

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPedestrianCost(t *testing.T) {
	params := ModeParams{SpeedKmh: 5.04} // 1.4 m/s
	e := &Edge{LengthM: 100.0, Class: CLASS_FOOTWAY}
	fwd, rev := EdgeCost(e, MODE_PEDESTRIAN, params, BUDGET_TIME)
	require.InDelta(t, 100.0/1.4, fwd, 1e-9)
	require.Equal(t, fwd, rev)
}

func TestBicycleCost(t *testing.T) {
	params := ModeParams{SpeedKmh: 15.0, DismountSpeedKmh: 5.0}
	e := &Edge{
		LengthM:           100.0,
		Class:             CLASS_RESIDENTIAL,
		SlopeImpedanceFwd: 0.1,
		SlopeImpedanceRev: 0.2,
		SurfaceImpedance:  0.05,
	}
	fwd, rev := EdgeCost(e, MODE_BICYCLE, params, BUDGET_TIME)
	speed := 15.0 / 3.6
	require.InDelta(t, 100.0*1.15/speed, fwd, 1e-9)
	require.InDelta(t, 100.0*1.25/speed, rev, 1e-9)
	require.Greater(t, rev, fwd, "steeper reverse slope must cost more")

	// dismount classes are walked at dismount speed, impedances ignored
	e.Class = CLASS_PEDESTRIAN
	fwd, rev = EdgeCost(e, MODE_BICYCLE, params, BUDGET_TIME)
	require.InDelta(t, 100.0/(5.0/3.6), fwd, 1e-9)
	require.Equal(t, fwd, rev)
}

func TestPedelecCostIgnoresSlope(t *testing.T) {
	params := ModeParams{SpeedKmh: 23.0, DismountSpeedKmh: 5.0}
	e := &Edge{
		LengthM:           100.0,
		Class:             CLASS_RESIDENTIAL,
		SlopeImpedanceFwd: 0.5,
		SlopeImpedanceRev: 0.9,
		SurfaceImpedance:  0.05,
	}
	fwd, rev := EdgeCost(e, MODE_PEDELEC, params, BUDGET_TIME)
	require.InDelta(t, 100.0*1.05/(23.0/3.6), fwd, 1e-9)
	require.Equal(t, fwd, rev, "slope must not affect pedelec cost")
}

func TestCarCost(t *testing.T) {
	e := &Edge{LengthM: 200.0, Class: CLASS_RESIDENTIAL, MaxSpeedFwd: 50.0, MaxSpeedRev: 50.0}
	fwd, rev := EdgeCost(e, MODE_CAR, ModeParams{}, BUDGET_TIME)
	require.InDelta(t, 200.0/(50.0*0.7/3.6), fwd, 1e-9)
	require.Equal(t, fwd, rev)
}

func TestCarCostOneWay(t *testing.T) {
	e := &Edge{LengthM: 200.0, Class: CLASS_RESIDENTIAL, MaxSpeedFwd: 50.0, MaxSpeedRev: 0.0}
	fwd, rev := EdgeCost(e, MODE_CAR, ModeParams{}, BUDGET_TIME)
	require.InDelta(t, 20.571428571, fwd, 1e-6)
	require.True(t, math.IsInf(rev, 1), "one-way reverse must be infeasible")
}

func TestCarCostFallbackSpeed(t *testing.T) {
	e := &Edge{LengthM: 100.0, Class: CLASS_RESIDENTIAL, MaxSpeedFwd: 0.0, MaxSpeedRev: 0.0}
	fwd, _ := EdgeCost(e, MODE_CAR, ModeParams{}, BUDGET_TIME)
	require.InDelta(t, 100.0/(carFallbackSpeedKmh*carSpeedFactor/3.6), fwd, 1e-9)
}

func TestDistanceBudgetCost(t *testing.T) {
	e := &Edge{
		LengthM:           123.0,
		Class:             CLASS_RESIDENTIAL,
		SlopeImpedanceFwd: 0.5,
		SurfaceImpedance:  0.5,
		MaxSpeedFwd:       50.0,
		MaxSpeedRev:       50.0,
	}
	for _, mode := range []Mode{MODE_PEDESTRIAN, MODE_BICYCLE, MODE_PEDELEC, MODE_CAR} {
		fwd, rev := EdgeCost(e, mode, ModeParams{SpeedKmh: 5.0, DismountSpeedKmh: 5.0}, BUDGET_DISTANCE)
		require.Equal(t, 123.0, fwd, "distance cost must be plain length for %s", mode)
		require.Equal(t, 123.0, rev)
	}
}

func TestBufferRadius(t *testing.T) {
	params := ModeParams{BufferSpeedKmh: 5.04}
	b := CostBudget{Kind: BUDGET_TIME, Value: 600.0}
	require.InDelta(t, 840.0, b.BufferRadiusM(params), 1e-9)

	b = CostBudget{Kind: BUDGET_DISTANCE, Value: 500.0}
	require.Equal(t, 500.0, b.BufferRadiusM(params))
}
