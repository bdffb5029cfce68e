// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package filler implements the resistor-network gain heuristic that
// fills whatever empty cells the mcf package leaves unclaimed: a
// per-signal SignalTree assembles a graph Laplacian over its
// occupied cells, CandVertex speculatively extends it one empty
// neighbour at a time, and the top-gain fraction is committed each
// cycle — the same factor-once/solve-many life-cycle fem.Domain drives
// its own oracle.Ksp through every Newton iteration, but rebuilding
// instead of reusing a single Triplet since the sparsity pattern
// changes at every promotion.
package filler

import (
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
	"gonum.org/v1/gonum/floats"

	"github.com/hankshyu/PowerX-sub000/diffusion"
	"github.com/hankshyu/PowerX-sub000/oracle"
	"github.com/hankshyu/PowerX-sub000/signaltype"
	"github.com/hankshyu/PowerX-sub000/substrate"
	"github.com/hankshyu/PowerX-sub000/techfile"
)

// Hyperparams bounds one filler run's gain-commit-promote cycle.
type Hyperparams struct {
	MinCommitRate         float64 // lower bound of the per-cycle commit fraction
	MaxCommitRate         float64 // upper bound of the per-cycle commit fraction
	IterationCommitLBPctg float64 // minimum cells committed per cycle, as a fraction of totalEmptyArea
	MaxFillingRate        float64 // cumulative stop condition, as a fraction of totalEmptyArea
	ExpectedFillingCycles int     // hard cap on cycles regardless of gain
}

// DefaultHyperparams mirrors the conservative middle-of-range values the
// source ships, tuned for the synthetic test substrates exercised here.
var DefaultHyperparams = Hyperparams{
	MinCommitRate:         0.05,
	MaxCommitRate:         0.25,
	IterationCommitLBPctg: 0.02,
	MaxFillingRate:        0.98,
	ExpectedFillingCycles: 200,
}

// node addresses one metal or via chamber participating in a SignalTree.
type node struct {
	layer int
	x, y  int
	via   bool
}

// SignalTree is one power signal's resistor network: every MARKED or
// PREPLACED chamber carrying sig is a node, every same-layer/cross-layer
// adjacency an edge weighted by its conductance, with a virtual input
// node (index 0) feeding current into every C4-connected cell.
type SignalTree struct {
	sig   signaltype.SignalType
	nodes []node
	index map[node]int // nodes[index[n]] == n, index[n]+1 is the Laplacian row (0 reserved for the virtual source)
	edges []edge
	tech  *techfile.Technology
}

type edge struct {
	a, b int // node indices (tree-local, not Laplacian rows)
	cond float64
}

// metalConductance and viaConductance fall back to unit conductance when
// the technology file carries no resistivity record, keeping the gain
// heuristic well-defined over the synthetic substrates the package's
// own tests build.
func metalConductance(t *techfile.Technology) float64 {
	if t == nil {
		return 1
	}
	if p := t.Prms().Find("METAL_RESISTIVITY"); p != nil && p.V > 0 {
		return 1 / p.V
	}
	return 1
}

func viaConductance(t *techfile.Technology) float64 {
	if t == nil {
		return 1
	}
	if p := t.Prms().Find("VIA_RESISTIVITY"); p != nil && p.V > 0 {
		return 1 / p.V
	}
	return 1
}

// BuildSignalTree walks every metal and via chamber of d, collecting
// the ones marked or preplaced with sig and the conductive edges
// between them, the per-signal graph-Laplacian assembly that precedes
// the gain iteration.
func BuildSignalTree(d *diffusion.Graph, sub *substrate.Substrate, sig signaltype.SignalType, tech *techfile.Technology) *SignalTree {
	st := &SignalTree{sig: sig, index: make(map[node]int), tech: tech}

	owned := func(n node) bool {
		var c *diffusion.Chamber
		if n.via {
			c = d.ViaAt(n.layer, n.x, n.y)
		} else {
			c = d.MetalAt(n.layer, n.x, n.y)
		}
		return c.Signal == sig && (c.Kind == diffusion.KindPreplaced || c.Kind == diffusion.KindMarked)
	}

	add := func(n node) int {
		if i, ok := st.index[n]; ok {
			return i
		}
		i := len(st.nodes)
		st.index[n] = i
		st.nodes = append(st.nodes, n)
		return i
	}

	for l, mc := range sub.Metal {
		for y := 0; y < mc.H; y++ {
			for x := 0; x < mc.W; x++ {
				n := node{layer: l, x: x, y: y}
				if !owned(n) {
					continue
				}
				u := add(n)
				for _, nb := range d.NeighborCoords(l, x, y) {
					m := node{layer: nb.Layer, x: nb.X, y: nb.Y}
					if !owned(m) {
						continue
					}
					v := add(m)
					if u < v {
						st.edges = append(st.edges, edge{u, v, metalConductance(tech)})
					}
				}
			}
		}
	}
	for vl, vc := range sub.Via {
		for y := 0; y < vc.H; y++ {
			for x := 0; x < vc.W; x++ {
				vn := node{layer: vl, x: x, y: y, via: true}
				if !owned(vn) {
					continue
				}
				u := add(vn)
				for _, ml := range []int{vl, vl + 1} {
					if ml >= len(sub.Metal) || x >= sub.Metal[ml].W || y >= sub.Metal[ml].H {
						continue
					}
					mn := node{layer: ml, x: x, y: y}
					if !owned(mn) {
						continue
					}
					v := add(mn)
					st.edges = append(st.edges, edge{u, v, viaConductance(tech)})
				}
			}
		}
	}
	return st
}

// assemble builds the (n+1)x(n+1) Laplacian (row/col 0 is the virtual
// source, grounded by a large conductance to every node so the system
// is non-singular even when the network is a forest) and the current
// vector, one unit of demand per node.
func (st *SignalTree) assemble() (*la.Triplet, []float64) {
	n := len(st.nodes)
	const groundCond = 1e-6
	nnz := 2*len(st.edges) + 2*n + n
	k := new(la.Triplet)
	k.Init(n+1, n+1, nnz)

	diag := make([]float64, n+1)
	for _, e := range st.edges {
		a, b := e.a+1, e.b+1
		k.Put(a, b, -e.cond)
		k.Put(b, a, -e.cond)
		diag[a] += e.cond
		diag[b] += e.cond
	}
	for i := 1; i <= n; i++ {
		k.Put(0, i, -groundCond)
		k.Put(i, 0, -groundCond)
		diag[0] += groundCond
		diag[i] += groundCond
	}
	for i := 0; i <= n; i++ {
		k.Put(i, i, diag[i])
	}

	f := make([]float64, n+1)
	for i := 1; i <= n; i++ {
		f[i] = 1
	}
	return k, f
}

// weightedAvgVdrop solves the network and returns its mean node voltage
// drop from the virtual source, the quantity P7 requires to be
// non-increasing at every committed cycle.
func weightedAvgVdrop(st *SignalTree, ksp oracle.Ksp) (float64, error) {
	if len(st.nodes) == 0 {
		return 0, nil
	}
	k, f := st.assemble()
	x, err := ksp.Solve(k, f)
	if err != nil {
		return 0, chk.Err("filler: signal %s: %v", st.sig, err)
	}
	return floats.Sum(x[1:]) / float64(len(st.nodes)), nil
}

// CandVertex is one empty cell adjacent to a SignalTree's current
// footprint, scored by the weighted-average-drop reduction it would
// contribute if promoted.
type CandVertex struct {
	N    node
	Gain float64
}

// candidates returns every EMPTY metal cell that is a same-layer
// neighbour of one of st's metal nodes or sits directly above or below
// one of st's via nodes, each scored by speculatively adding it (and its
// connecting edge) and re-solving. EMPTY via cells are never candidates.
func candidates(st *SignalTree, d *diffusion.Graph, sub *substrate.Substrate, ksp oracle.Ksp, baseline float64) ([]CandVertex, error) {
	seen := make(map[node]bool)
	var cands []CandVertex

	tryAdd := func(owner node, cand node, cond float64) error {
		if seen[cand] {
			return nil
		}
		var c *diffusion.Chamber
		if cand.via {
			c = d.ViaAt(cand.layer, cand.x, cand.y)
		} else {
			c = d.MetalAt(cand.layer, cand.x, cand.y)
		}
		if c.Kind != diffusion.KindEmpty {
			return nil
		}
		seen[cand] = true

		ext := &SignalTree{sig: st.sig, tech: st.tech}
		ext.nodes = append(append([]node(nil), st.nodes...), cand)
		ext.edges = append(append([]edge(nil), st.edges...), edge{st.index[owner], len(ext.nodes) - 1, cond})

		drop, err := weightedAvgVdrop(ext, ksp)
		if err != nil {
			return err
		}
		cands = append(cands, CandVertex{N: cand, Gain: baseline - drop})
		return nil
	}

	for _, owner := range st.nodes {
		if owner.via {
			for _, ml := range []int{owner.layer, owner.layer + 1} {
				if ml >= len(sub.Metal) || owner.x >= sub.Metal[ml].W || owner.y >= sub.Metal[ml].H {
					continue
				}
				if err := tryAdd(owner, node{layer: ml, x: owner.x, y: owner.y}, viaConductance(st.tech)); err != nil {
					return nil, err
				}
			}
			continue
		}
		for _, nb := range d.NeighborCoords(owner.layer, owner.x, owner.y) {
			if err := tryAdd(owner, node{layer: nb.Layer, x: nb.X, y: nb.Y}, metalConductance(st.tech)); err != nil {
				return nil, err
			}
		}
	}
	return cands, nil
}

// Run executes the gain/commit/promote cycle for one signal until a
// stop condition fires, promoting committed candidates to
// diffusion.KindMarked. It returns the number of cells filled and the
// weighted-average-drop curve sampled once per cycle, the series
// DumpPressureSimulatorDrop/plotDropCurve render.
func Run(d *diffusion.Graph, sub *substrate.Substrate, sig signaltype.SignalType, tech *techfile.Technology, hp Hyperparams, ksp oracle.Ksp, totalEmptyArea int) (int, []float64, error) {
	if totalEmptyArea <= 0 {
		return 0, nil, nil
	}
	filled := 0
	var drops []float64
	maxFilled := int(hp.MaxFillingRate * float64(totalEmptyArea))
	lowerBound := int(hp.IterationCommitLBPctg * float64(totalEmptyArea))
	if lowerBound < 1 {
		lowerBound = 1
	}

	for cycle := 0; cycle < hp.ExpectedFillingCycles && filled < maxFilled; cycle++ {
		st := BuildSignalTree(d, sub, sig, tech)
		if len(st.nodes) == 0 {
			break
		}
		baseline, err := weightedAvgVdrop(st, ksp)
		if err != nil {
			return filled, drops, err
		}
		drops = append(drops, baseline)
		cands, err := candidates(st, d, sub, ksp, baseline)
		if err != nil {
			return filled, drops, err
		}
		if len(cands) == 0 {
			break
		}
		sort.Slice(cands, func(i, j int) bool { return cands[i].Gain > cands[j].Gain })

		positive := 0
		for _, c := range cands {
			if c.Gain > 0 {
				positive++
			}
		}
		if positive == 0 {
			break
		}

		commitN := int(hp.MaxCommitRate * float64(len(cands)))
		if min := int(hp.MinCommitRate * float64(len(cands))); min > commitN {
			commitN = min
		}
		if commitN < lowerBound {
			commitN = lowerBound
		}
		if commitN > positive {
			commitN = positive
		}
		if commitN > maxFilled-filled {
			commitN = maxFilled - filled
		}
		if commitN <= 0 {
			break
		}

		for i := 0; i < commitN; i++ {
			n := cands[i].N
			if n.via {
				*d.ViaAt(n.layer, n.x, n.y) = diffusion.Chamber{Signal: sig, Kind: diffusion.KindMarked}
			} else {
				*d.MetalAt(n.layer, n.x, n.y) = diffusion.Chamber{Signal: sig, Kind: diffusion.KindMarked}
			}
			filled++
		}
	}
	return filled, drops, nil
}
