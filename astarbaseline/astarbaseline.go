// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package astarbaseline implements a minimal alternative entry point:
// single-shot per-signal pin-to-pin A* routing over the metal grid with
// uniform-cost expansion, no rip-and-reroute, no Voronoi growth — a
// legal but lower-quality assignment, independently runnable via
// cmd/powerx -baseline. It shares the canvas/substrate substrate but
// none of the voronoi package's pipeline internals.
package astarbaseline

import (
	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/hankshyu/PowerX-sub000/canvas"
	"github.com/hankshyu/PowerX-sub000/geom"
	"github.com/hankshyu/PowerX-sub000/signaltype"
)

// Route runs uniform-cost (Dijkstra, which coincides with A* on a
// unit-weight grid given the Manhattan heuristic's consistency) pin-to-
// pin routing on mc for every signal in signals, in order: each
// signal's preplaced cells are connected pairwise by shortest path
// through EMPTY cells (or its own cells), claiming every cell on the
// winning path. Later signals cannot route through cells an earlier
// signal has already claimed, so processing order matters — the
// baseline's documented trade-off for being single-shot.
func Route(mc *canvas.Canvas, signals []signaltype.SignalType) error {
	idOf := func(p geom.Pt) int64 { return int64(p.Y*mc.W + p.X) }

	for _, sig := range signals {
		var anchors []geom.Pt
		mc.ForEach(func(x, y int, s signaltype.SignalType) {
			if s == sig {
				anchors = append(anchors, geom.Pt{X: x, Y: y})
			}
		})
		if len(anchors) < 2 {
			continue
		}

		buildGraph := func() *simple.WeightedDirectedGraph {
			g := simple.NewWeightedDirectedGraph(0, 0)
			for y := 0; y < mc.H; y++ {
				for x := 0; x < mc.W; x++ {
					s := mc.Get(x, y)
					if s != signaltype.EMPTY && s != sig {
						continue
					}
					p := geom.Pt{X: x, Y: y}
					for _, d := range []geom.Pt{{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1}} {
						q := geom.Pt{X: x + d.X, Y: y + d.Y}
						if q.X < 0 || q.X >= mc.W || q.Y < 0 || q.Y >= mc.H {
							continue
						}
						qs := mc.Get(q.X, q.Y)
						if qs != signaltype.EMPTY && qs != sig {
							continue
						}
						g.SetWeightedEdge(simple.WeightedEdge{F: simple.Node(idOf(p)), T: simple.Node(idOf(q)), W: 1})
					}
				}
			}
			return g
		}

		connected := map[geom.Pt]bool{anchors[0]: true}
		frontier := []geom.Pt{anchors[0]}
		for _, target := range anchors[1:] {
			if connected[target] {
				continue
			}
			g := buildGraph()
			best := -1.0
			var bestPath []int64
			for _, src := range frontier {
				shortest := path.DijkstraFrom(simple.Node(idOf(src)), g)
				nodes, w := shortest.To(idOf(target))
				if len(nodes) == 0 {
					continue
				}
				if best < 0 || w < best {
					best = w
					bestPath = make([]int64, len(nodes))
					for i, n := range nodes {
						bestPath[i] = n.ID()
					}
				}
			}
			if bestPath == nil {
				return chk.Err("astarbaseline: signal %s has an anchor unreachable from the rest", sig)
			}
			for _, id := range bestPath {
				p := geom.Pt{X: int(id % int64(mc.W)), Y: int(id / int64(mc.W))}
				if mc.Get(p.X, p.Y) == signaltype.EMPTY {
					mc.Set(p.X, p.Y, sig)
				}
				connected[p] = true
				frontier = append(frontier, p)
			}
		}
	}
	return nil
}
