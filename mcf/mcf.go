// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mcf connects the same-signal connected components a
// diffusion.Graph found into one another through the empty cells
// between them: a multi-commodity-flow claim over the unclaimed grid.
// Rather than a binary-variable ILP, each signal's connection problem
// is solved as a sequence of shortest-path flow augmentations. The
// common single-frontier case is solved exactly via oracle.Lp — a
// one-source one-sink unit flow conservation LP whose node-arc
// incidence matrix is totally unimodular, so the optimum is already an
// integral path — falling back to a Dijkstra search over a
// gonum/graph/simple residual graph once a signal's frontier has
// merged more than one root, or whenever the LP itself is unavailable
// or fails.
package mcf

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/hankshyu/PowerX-sub000/bumpmap"
	"github.com/hankshyu/PowerX-sub000/diffusion"
	"github.com/hankshyu/PowerX-sub000/oracle"
	"github.com/hankshyu/PowerX-sub000/signaltype"
	"github.com/hankshyu/PowerX-sub000/substrate"
)

// Hyperparams bundles mcf's tunables. MustRouteBudgetMin is the
// minimum fraction of a chiplet's footprint that ChipletCoverage must
// report connected; Solve's augmenting-path search has no mechanism to
// target a coverage fraction directly, so this is checked, not
// enforced, by the caller after Solve has run.
type Hyperparams struct {
	MustRouteBudgetMin float64
}

// DefaultHyperparams requires 80% of every chiplet's uBump-connected
// footprint to end up claimed before a caller should consider the run
// degraded.
var DefaultHyperparams = Hyperparams{MustRouteBudgetMin: 0.8}

// cellKey identifies one diffusion chamber in the flattened flow graph:
// metal cells use Via=false, via cells Via=true.
type cellKey struct {
	Layer int
	X, Y  int
	Via   bool
}

// Graph is the flattened 3D flow network a Substrate's diffusion.Graph
// induces: one node per metal/via cell, edges for same-layer adjacency
// and cross-layer via links, weighted by uniform unit cost per hop —
// resistance weighting happens later, in the filler package. Obstacle
// cells are never added as nodes.
type Graph struct {
	g     *simple.WeightedDirectedGraph
	diff  *diffusion.Graph
	sub   *substrate.Substrate
	ids   map[cellKey]int64
	cells []cellKey
}

// Build flattens d's metal and via layers into a single weighted
// directed graph, linking same-layer orthogonal neighbours and
// cross-layer via connections both ways — mirroring linkNeighbors.
func Build(d *diffusion.Graph, sub *substrate.Substrate) *Graph {
	fg := &Graph{
		g:    simple.NewWeightedDirectedGraph(0, math.Inf(1)),
		diff: d,
		sub:  sub,
		ids:  make(map[cellKey]int64),
	}

	idOf := func(k cellKey) int64 {
		if id, ok := fg.ids[k]; ok {
			return id
		}
		id := int64(len(fg.cells))
		fg.ids[k] = id
		fg.cells = append(fg.cells, k)
		return id
	}

	for l, mc := range sub.Metal {
		for y := 0; y < mc.H; y++ {
			for x := 0; x < mc.W; x++ {
				if d.MetalAt(l, x, y).Kind == diffusion.KindObstacle {
					continue
				}
				u := idOf(cellKey{l, x, y, false})
				for _, n := range d.NeighborCoords(l, x, y) {
					if d.MetalAt(n.Layer, n.X, n.Y).Kind == diffusion.KindObstacle {
						continue
					}
					v := idOf(cellKey{n.Layer, n.X, n.Y, false})
					fg.g.SetWeightedEdge(simple.WeightedEdge{F: simple.Node(u), T: simple.Node(v), W: 1})
				}
			}
		}
	}
	for vl, vc := range sub.Via {
		for y := 0; y < vc.H; y++ {
			for x := 0; x < vc.W; x++ {
				if d.ViaAt(vl, x, y).Kind == diffusion.KindObstacle {
					continue
				}
				v := idOf(cellKey{vl, x, y, true})
				for _, ml := range []int{vl, vl + 1} {
					if x >= sub.Metal[ml].W || y >= sub.Metal[ml].H {
						continue
					}
					if d.MetalAt(ml, x, y).Kind == diffusion.KindObstacle {
						continue
					}
					m := idOf(cellKey{ml, x, y, false})
					fg.g.SetWeightedEdge(simple.WeightedEdge{F: simple.Node(v), T: simple.Node(m), W: 1})
					fg.g.SetWeightedEdge(simple.WeightedEdge{F: simple.Node(m), T: simple.Node(v), W: 1})
				}
			}
		}
	}
	return fg
}

// Assignment maps a claimed cell to the signal that now owns it. No
// repair pass runs after Solve: cells it leaves unclaimed stay EMPTY,
// and components it could not join stay unconnected.
type Assignment map[cellKey]signaltype.SignalType

// Solve connects every same-signal preplaced component together for
// every power signal present in signals, claiming the empty cells
// along each shortest augmenting path, signal by signal in the given
// order; cells claimed for an earlier signal are no longer available to
// later ones. lp may be
// nil, in which case every connection goes through the Dijkstra
// fallback; otherwise it solves the (far more common) single-frontier
// step, with Dijkstra still covering the rest.
func Solve(fg *Graph, signals []signaltype.SignalType, lp oracle.Lp) Assignment {
	assign := make(Assignment)
	claimed := make(map[int64]bool)

	isFree := func(id int64) bool {
		k := fg.cells[id]
		var kind diffusion.CellKind
		if k.Via {
			kind = fg.diff.ViaAt(k.Layer, k.X, k.Y).Kind
		} else {
			kind = fg.diff.MetalAt(k.Layer, k.X, k.Y).Kind
		}
		return kind == diffusion.KindEmpty && !claimed[id]
	}

	for _, sig := range signals {
		roots := componentRoots(fg, sig)
		if len(roots) < 2 {
			continue
		}
		frontier := []int64{roots[0]}
		connected := map[int64]bool{roots[0]: true}
		for _, target := range roots[1:] {
			if connected[target] {
				continue
			}
			var p []int64
			var ok bool
			if lp != nil && len(frontier) == 1 {
				p, ok = lpShortestPath(fg, frontier[0], target, isFree, lp)
			}
			if !ok {
				p, ok = shortestAvailablePath(fg, frontier, target, isFree)
			}
			if !ok {
				continue // no path through free cells: the two components stay unconnected
			}
			for _, id := range p {
				if isFree(id) {
					claimed[id] = true
					assign[fg.cells[id]] = sig
				}
				connected[id] = true
			}
			frontier = append(frontier, p...)
		}
	}
	return assign
}

// lpShortestPath solves the unit flow conservation LP (+1 supply at
// src, -1 demand at dst, one row per reachable node, one column per
// directed edge) over the subgraph isFree admits, via lp, then traces
// the resulting flow from src to dst following positive-flow edges.
// Returns ok=false if the LP errors or no path can be traced, so the
// caller can fall back to shortestAvailablePath.
func lpShortestPath(fg *Graph, src, dst int64, isFree func(int64) bool, lp oracle.Lp) ([]int64, bool) {
	allowed := map[int64]bool{src: true, dst: true}
	for id := range fg.cells {
		i64 := int64(id)
		if !allowed[i64] && isFree(i64) {
			allowed[i64] = true
		}
	}

	var order []int64
	for id := range fg.cells {
		i64 := int64(id)
		if allowed[i64] {
			order = append(order, i64)
		}
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
	row := make(map[int64]int, len(order))
	for i, id := range order {
		row[id] = i
	}

	type arc struct {
		from, to int64
		w        float64
	}
	var arcs []arc
	for _, u := range order {
		to := fg.g.From(u)
		for to.Next() {
			v := to.Node().ID()
			if !allowed[v] {
				continue
			}
			w, _ := fg.g.Weight(u, v)
			arcs = append(arcs, arc{u, v, w})
		}
	}
	if len(arcs) == 0 {
		return nil, false
	}

	a := make([][]float64, len(order))
	for i := range a {
		a[i] = make([]float64, len(arcs))
	}
	b := make([]float64, len(order))
	b[row[src]] = 1
	b[row[dst]] = -1
	c := make([]float64, len(arcs))
	for j, e := range arcs {
		a[row[e.from]][j] += 1
		a[row[e.to]][j] -= 1
		c[j] = e.w
	}

	x, err := lp.Solve(a, b, c)
	if err != nil {
		return nil, false
	}

	path := []int64{src}
	cur := src
	visited := map[int64]bool{src: true}
	for cur != dst {
		next := int64(-1)
		for j, e := range arcs {
			if e.from == cur && x[j] > 0.5 && !visited[e.to] {
				next = e.to
				break
			}
		}
		if next == -1 {
			return nil, false
		}
		path = append(path, next)
		visited[next] = true
		cur = next
	}
	return path, true
}

// componentRoots returns one node id per connected component of
// preplaced/marked cells carrying sig.
func componentRoots(fg *Graph, sig signaltype.SignalType) []int64 {
	seen := make(map[diffusion.CellLabel]bool)
	var roots []int64
	for id, k := range fg.cells {
		if k.Via {
			continue
		}
		c := fg.diff.MetalAt(k.Layer, k.X, k.Y)
		if c.Kind != diffusion.KindPreplaced && c.Kind != diffusion.KindMarked {
			continue
		}
		if c.Signal != sig || c.Label == 0 || seen[c.Label] {
			continue
		}
		seen[c.Label] = true
		roots = append(roots, int64(id))
	}
	return roots
}

// shortestAvailablePath builds a fresh subgraph containing only nodes
// isFree reports available (plus the frontier and target themselves),
// then runs Dijkstra from every frontier node, keeping the shortest
// result — a simultaneous-source shortest path without needing a
// mutable super-source node.
func shortestAvailablePath(fg *Graph, frontier []int64, target int64, isFree func(int64) bool) ([]int64, bool) {
	allowed := make(map[int64]bool, len(fg.cells))
	allowed[target] = true
	for _, f := range frontier {
		allowed[f] = true
	}
	for id := range fg.cells {
		i64 := int64(id)
		if allowed[i64] {
			continue
		}
		if isFree(i64) {
			allowed[i64] = true
		}
	}

	sub := simple.NewWeightedDirectedGraph(0, math.Inf(1))
	nodes := fg.g.Nodes()
	for nodes.Next() {
		u := nodes.Node().ID()
		if !allowed[u] {
			continue
		}
		to := fg.g.From(u)
		for to.Next() {
			v := to.Node().ID()
			if !allowed[v] {
				continue
			}
			w, _ := fg.g.Weight(u, v)
			sub.SetWeightedEdge(simple.WeightedEdge{F: simple.Node(u), T: simple.Node(v), W: w})
		}
	}

	best := math.Inf(1)
	var bestPath []graph.Node
	for _, src := range frontier {
		shortest := path.DijkstraFrom(simple.Node(src), sub)
		p, w := shortest.To(target)
		if len(p) > 0 && w < best {
			best = w
			bestPath = p
		}
	}
	if bestPath == nil {
		return nil, false
	}
	out := make([]int64, len(bestPath))
	for i, n := range bestPath {
		out[i] = n.ID()
	}
	return out, true
}

// ChipletCoverage reports, for every chiplet instance placed on the
// uBump canvas, the fraction of its footprint's UBumpLayer metal cells
// that carry a non-EMPTY signal — the real downstream read of
// bumpmap.Bumps.Chiplets a caller compares against
// Hyperparams.MustRouteBudgetMin once Solve (and any later filler
// pass) has run.
func ChipletCoverage(sub *substrate.Substrate, chiplets []bumpmap.ChipletInstance) map[string]float64 {
	out := make(map[string]float64, len(chiplets))
	mc := sub.Metal[sub.UBumpLayer]
	for _, inst := range chiplets {
		total, filled := 0, 0
		for y := inst.Rect.YL; y < inst.Rect.YH; y++ {
			for x := inst.Rect.XL; x < inst.Rect.XH; x++ {
				if !mc.InBounds(x, y) {
					continue
				}
				total++
				if mc.Get(x, y) != signaltype.EMPTY {
					filled++
				}
			}
		}
		if total == 0 {
			continue
		}
		out[inst.Instance] = float64(filled) / float64(total)
	}
	return out
}
