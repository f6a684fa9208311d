package catchment

import (
	"math"
)

// Infeasible marks a traversal direction excluded from the search entirely
// (one-way segments). It is a pruning sentinel, never a traversable cost.
var Infeasible = math.Inf(1)

// BudgetKind discriminates travel-time and travel-distance budgets
type BudgetKind uint8

const (
	BUDGET_TIME = BudgetKind(iota + 1) // seconds
	BUDGET_DISTANCE                    // meters
)

func (iotaIdx BudgetKind) String() string {
	return [...]string{"time", "distance"}[iotaIdx-1]
}

// CostBudget is the reachability ceiling of a request: travel seconds or
// travel meters, exactly one kind per request
type CostBudget struct {
	Kind  BudgetKind
	Value float64
}

// BufferRadiusM estimates how far the catchment can possibly reach, used to
// pick the spatial cells worth loading
func (b CostBudget) BufferRadiusM(params ModeParams) float64 {
	if b.Kind == BUDGET_DISTANCE {
		return b.Value
	}
	return b.Value * params.BufferSpeedKmh / 3.6
}

// carSpeedFactor discounts signed speed limits to realistic driving speed
const carSpeedFactor = 0.7

// carFallbackSpeedKmh substitutes a missing forward speed limit
const carFallbackSpeedKmh = 30.0

// EdgeCost returns forward and reverse traversal cost of a single edge:
// seconds for time budgets, meters for distance budgets. Pure function of its
// inputs; missing impedance values contribute 0.
func EdgeCost(e *Edge, mode Mode, params ModeParams, kind BudgetKind) (float64, float64) {
	if kind == BUDGET_DISTANCE {
		return e.LengthM, e.LengthM
	}
	switch mode {
	case MODE_PEDESTRIAN:
		cost := e.LengthM / (params.SpeedKmh / 3.6)
		return cost, cost
	case MODE_BICYCLE:
		if DismountRequired(e.Class) {
			cost := e.LengthM / (params.DismountSpeedKmh / 3.6)
			return cost, cost
		}
		speed := params.SpeedKmh / 3.6
		fwd := e.LengthM * (1 + e.SlopeImpedanceFwd + e.SurfaceImpedance) / speed
		rev := e.LengthM * (1 + e.SlopeImpedanceRev + e.SurfaceImpedance) / speed
		return fwd, rev
	case MODE_PEDELEC:
		// Motor assistance neutralizes grade: slope term omitted.
		if DismountRequired(e.Class) {
			cost := e.LengthM / (params.DismountSpeedKmh / 3.6)
			return cost, cost
		}
		cost := e.LengthM * (1 + e.SurfaceImpedance) / (params.SpeedKmh / 3.6)
		return cost, cost
	case MODE_CAR:
		speedFwd := e.MaxSpeedFwd
		if speedFwd <= 0 {
			speedFwd = carFallbackSpeedKmh
		}
		fwd := e.LengthM / (speedFwd * carSpeedFactor / 3.6)
		if e.MaxSpeedRev <= 0 {
			return fwd, Infeasible
		}
		return fwd, e.LengthM / (e.MaxSpeedRev * carSpeedFactor / 3.6)
	}
	return Infeasible, Infeasible
}

// ApplyCosts populates traversal cost of every active edge of the sub-network
func (sn *SubNetwork) ApplyCosts(mode Mode, params ModeParams, kind BudgetKind) {
	sn.fwd = make([]float64, len(sn.Edges))
	sn.rev = make([]float64, len(sn.Edges))
	for i := range sn.Edges {
		if sn.deleted[i] {
			continue
		}
		sn.fwd[i], sn.rev[i] = EdgeCost(&sn.Edges[i], mode, params, kind)
	}
}
