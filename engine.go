package catchment

import (
	"container/heap"
	"math"
)

// ReachedEdge is an edge of the reachable sub-network annotated with the
// minimal arrival cost at its traversed endpoint
type ReachedEdge struct {
	Edge    *Edge
	Cost    float64
	Forward bool
}

// ReachabilityResult maps every node reachable within the budget to its
// minimal arrival cost from any origin connector. Unreachable nodes are
// absent. An empty result is a valid outcome, distinct from a disconnected
// origin (which fails earlier, during assembly).
type ReachabilityResult struct {
	NodeCost map[NodeID]float64
	Edges    []ReachedEdge
}

// Empty reports whether any node beyond the origin connectors was reached
func (r *ReachabilityResult) Empty() bool {
	return len(r.Edges) == 0
}

type arc struct {
	to      NodeID
	cost    float64
	edgeIdx int
	forward bool
}

// frontierItem orders the priority queue by cost, then hop count (stabilizes
// equal-cost labels), then node id (full determinism for a fixed input)
type frontierItem struct {
	cost float64
	hops int
	node NodeID
}

type frontier []frontierItem

func (f frontier) Len() int { return len(f) }
func (f frontier) Less(i, j int) bool {
	if f[i].cost != f[j].cost {
		return f[i].cost < f[j].cost
	}
	if f[i].hops != f[j].hops {
		return f[i].hops < f[j].hops
	}
	return f[i].node < f[j].node
}
func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }
func (f *frontier) Push(x interface{}) {
	*f = append(*f, x.(frontierItem))
}
func (f *frontier) Pop() interface{} {
	old := *f
	n := len(old)
	item := old[n-1]
	*f = old[:n-1]
	return item
}

// ComputeReachability runs a budget-bounded multi-source label-setting
// shortest-path search over the sub-network's directed arcs. Every origin
// connector node starts at cost 0. A relaxation that would exceed the budget
// is skipped outright, which bounds the explored region. Uses a lazy
// decrease-key min-heap: stale entries are dropped on extraction.
func ComputeReachability(sn *SubNetwork, mode Mode, budget CostBudget) *ReachabilityResult {
	// Forward and reverse cost become two directed arcs per edge. Infeasible
	// reverse arcs of one-way segments are pruned here, before the search,
	// for car; for active modes the arcs never carry the sentinel.
	adjacency := make(map[NodeID][]arc)
	sn.eachActive(func(i int, e *Edge) {
		if fwd := sn.fwd[i]; !math.IsInf(fwd, 1) && fwd <= budget.Value {
			adjacency[e.Source] = append(adjacency[e.Source], arc{to: e.Target, cost: fwd, edgeIdx: i, forward: true})
		}
		if rev := sn.rev[i]; !math.IsInf(rev, 1) && rev <= budget.Value {
			adjacency[e.Target] = append(adjacency[e.Target], arc{to: e.Source, cost: rev, edgeIdx: i, forward: false})
		}
	})

	dist := make(map[NodeID]float64)
	hops := make(map[NodeID]int)
	visited := make(map[NodeID]struct{})

	pq := make(frontier, 0, len(sn.Roots))
	heap.Init(&pq)
	for _, root := range sn.Roots {
		dist[root] = 0
		hops[root] = 0
		heap.Push(&pq, frontierItem{cost: 0, hops: 0, node: root})
	}

	for pq.Len() > 0 {
		item := heap.Pop(&pq).(frontierItem)
		if _, ok := visited[item.node]; ok {
			continue
		}
		visited[item.node] = struct{}{}
		for _, a := range adjacency[item.node] {
			candidate := item.cost + a.cost
			if candidate > budget.Value {
				continue
			}
			prev, known := dist[a.to]
			if !known || candidate < prev || (candidate == prev && item.hops+1 < hops[a.to]) {
				dist[a.to] = candidate
				hops[a.to] = item.hops + 1
				heap.Push(&pq, frontierItem{cost: candidate, hops: item.hops + 1, node: a.to})
			}
		}
	}

	return &ReachabilityResult{
		NodeCost: dist,
		Edges:    collectReachedEdges(sn, budget, dist),
	}
}

// collectReachedEdges annotates every traversable edge with the minimal
// arrival cost at its far endpoint, honoring direction feasibility: a one-way
// segment never appears as traversed in reverse.
func collectReachedEdges(sn *SubNetwork, budget CostBudget, dist map[NodeID]float64) []ReachedEdge {
	reached := []ReachedEdge{}
	sn.eachActive(func(i int, e *Edge) {
		best := math.Inf(1)
		forward := true
		if src, ok := dist[e.Source]; ok && !math.IsInf(sn.fwd[i], 1) {
			if arrival := src + sn.fwd[i]; arrival <= budget.Value {
				best = arrival
			}
		}
		if tgt, ok := dist[e.Target]; ok && !math.IsInf(sn.rev[i], 1) {
			if arrival := tgt + sn.rev[i]; arrival <= budget.Value && arrival < best {
				best = arrival
				forward = false
			}
		}
		if !math.IsInf(best, 1) {
			reached = append(reached, ReachedEdge{Edge: &sn.Edges[i], Cost: best, Forward: forward})
		}
	})
	return reached
}
