package catchment

import (
	"context"
	"log/slog"
	"time"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

// SubNetwork is the request-scoped edge set the search runs over: base edges
// filtered by cell and mode, minus overlay deletions, plus overlay additions
// and origin connectors. One arena slice with a side id index and a deleted
// bitset keeps overlay application O(1) per edit. Owned exclusively by one
// request, never shared.
type SubNetwork struct {
	Edges []Edge
	Roots []NodeID // origin connector nodes, search sources

	fwd     []float64 // populated by ApplyCosts
	rev     []float64
	index   map[EdgeID]int
	deleted []bool
}

func newSubNetwork() *SubNetwork {
	return &SubNetwork{
		index: make(map[EdgeID]int),
	}
}

// add appends an edge to the arena; a previous edge with the same id is superseded
func (sn *SubNetwork) add(e Edge) {
	if prev, ok := sn.index[e.ID]; ok {
		sn.deleted[prev] = true
	}
	sn.index[e.ID] = len(sn.Edges)
	sn.Edges = append(sn.Edges, e)
	sn.deleted = append(sn.deleted, false)
}

// drop marks the edge with given id deleted; unknown ids are ignored
func (sn *SubNetwork) drop(id EdgeID) {
	if i, ok := sn.index[id]; ok {
		sn.deleted[i] = true
	}
}

// ActiveCount returns number of edges not superseded or deleted
func (sn *SubNetwork) ActiveCount() int {
	n := 0
	for i := range sn.Edges {
		if !sn.deleted[i] {
			n++
		}
	}
	return n
}

// Contains checks if the edge with given id is part of the sub-network
func (sn *SubNetwork) Contains(id EdgeID) bool {
	i, ok := sn.index[id]
	return ok && !sn.deleted[i]
}

// eachActive visits every non-deleted edge in arena order
func (sn *SubNetwork) eachActive(fn func(i int, e *Edge)) {
	for i := range sn.Edges {
		if !sn.deleted[i] {
			fn(i, &sn.Edges[i])
		}
	}
}

// NodePoints returns geometry of every vertex of the active edge set
func (sn *SubNetwork) NodePoints() map[NodeID]orb.Point {
	pts := make(map[NodeID]orb.Point)
	sn.eachActive(func(i int, e *Edge) {
		pts[e.Source] = e.SourcePoint()
		pts[e.Target] = e.TargetPoint()
	})
	return pts
}

// Assembler materializes request-specific sub-networks from the partitioned
// network store
type Assembler struct {
	store *NetworkStore
	db    NetworkDatabase
	cfg   *Config
	log   *slog.Logger
}

// NewAssembler returns an assembler over given store and backing database
func NewAssembler(store *NetworkStore, db NetworkDatabase, cfg *Config, log *slog.Logger) *Assembler {
	if log == nil {
		log = slog.Default()
	}
	return &Assembler{store: store, db: db, cfg: cfg, log: log}
}

// Assemble builds the sub-network for given origins, mode and budget,
// optionally patched by a scenario overlay.
func (a *Assembler) Assemble(ctx context.Context, origins []orb.Point, mode Mode, budget CostBudget, scenarioID string) (*SubNetwork, error) {
	st := time.Now()
	params := a.cfg.ParamsFor(mode)
	radius := budget.BufferRadiusM(params)

	// Enumerate cells intersected by the buffered origins.
	coarseSeen := make(map[CellID]struct{})
	coarseCells := []CellID{}
	fineCells := make(map[CellID]struct{})
	for _, origin := range origins {
		for _, cell := range CoverBuffer(origin, radius, CellZoomCoarse) {
			if _, ok := coarseSeen[cell]; !ok {
				coarseSeen[cell] = struct{}{}
				coarseCells = append(coarseCells, cell)
			}
		}
		for _, cell := range CoverBuffer(origin, radius, CellZoomFine) {
			fineCells[cell] = struct{}{}
		}
	}

	sn := newSubNetwork()
	populatedCells := 0
	for _, cell := range coarseCells {
		partition, err := a.store.Partition(ctx, cell)
		if err != nil {
			return nil, err
		}
		if len(partition) > 0 {
			populatedCells++
		}
		for i := range partition {
			edge := &partition[i]
			if _, ok := fineCells[edge.CellFine]; !ok {
				continue
			}
			if !mode.ClassEligible(edge.Class) {
				continue
			}
			sn.add(*edge)
		}
	}
	if populatedCells == 0 {
		return nil, errors.Wrapf(ErrBufferExceedsNetwork, "radius %.0fm around %d origin(s)", radius, len(origins))
	}

	// Scenario overlay: last-write-wins patch over the base edge set.
	if scenarioID != "" {
		overlay, err := a.db.FetchScenarioOverlay(ctx, scenarioID)
		if err != nil {
			return nil, err
		}
		for _, edit := range overlay.collapse() {
			switch edit.Action {
			case OVERLAY_DELETE:
				sn.drop(edit.EdgeID)
			case OVERLAY_MODIFY, OVERLAY_ADD:
				if mode.ClassEligible(edit.Edge.Class) {
					sn.add(*edit.Edge)
				} else {
					sn.drop(edit.EdgeID)
				}
			}
		}
	}

	// Origin connectors: every origin must reach the network.
	for _, origin := range origins {
		connectors, err := a.db.SnapPoint(ctx, origin, mode)
		if err != nil {
			return nil, errors.Wrap(err, "Can't snap origin point")
		}
		if len(connectors) == 0 {
			return nil, errors.Wrapf(ErrDisconnectedOrigin, "origin (%f, %f)", origin.Lon(), origin.Lat())
		}
		for _, connector := range connectors {
			sn.drop(connector.ReplacesEdge)
			for _, edge := range connector.Edges {
				sn.add(edge)
			}
			sn.Roots = append(sn.Roots, connector.OriginNode)
		}
	}

	a.log.Debug("sub-network assembled",
		"mode", mode.String(),
		"radius_m", radius,
		"coarse_cells", len(coarseCells),
		"edges", sn.ActiveCount(),
		"roots", len(sn.Roots),
		"elapsed", time.Since(st))
	return sn, nil
}
