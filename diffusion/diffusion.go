// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package diffusion builds the 3D cell graph the diffusion/MCF/filler
// pipeline operates on: one Chamber per metal cell and per via cell,
// same-layer neighbour links plus cross-layer via links,
// connected-component labelling per signal, and the enclosed-region
// fill/half-occupied-pin marking passes that run before the flow solve.
package diffusion

import (
	"github.com/cpmech/gosl/chk"
	"github.com/hankshyu/PowerX-sub000/canvas"
	"github.com/hankshyu/PowerX-sub000/signaltype"
	"github.com/hankshyu/PowerX-sub000/substrate"
)

// CellLabel is a connected-component id: 0 means unlabelled, 1..n label
// the n components found so far.
type CellLabel uint16

// CellKind distinguishes a chamber's planar role, mirroring CellType.
type CellKind uint8

const (
	KindEmpty CellKind = iota
	KindObstacle
	KindPreplaced
	KindMarked
)

// Chamber is one cell of the diffusion substrate: either a metal cell
// (2D position on a metal layer) or a via cell (2D position spanning
// the via layer between two metal layers). DiffusionChamber in the
// source.
type Chamber struct {
	Signal signaltype.SignalType
	Kind   CellKind
	Label  CellLabel
}

// Graph is the full 3D cell graph: one Chamber per (layer,x,y) metal
// cell and one per (vialayer,x,y) via cell, addressable by a flat
// index, plus same-layer and cross-layer adjacency.
type Graph struct {
	sub *substrate.Substrate

	// metal[layer] is GridWidth*GridHeight chambers, row-major.
	metal [][]Chamber
	// via[layer] is PinWidth*PinHeight chambers, row-major.
	via [][]Chamber

	nextLabel CellLabel
}

// Build allocates a Graph sized to sub and classifies every cell's
// CellKind from the substrate's preprocessed signal (OBSTACLE cells
// become KindObstacle, any other non-EMPTY signal KindPreplaced).
func Build(sub *substrate.Substrate) *Graph {
	g := &Graph{sub: sub}
	g.metal = make([][]Chamber, len(sub.Metal))
	for l, mc := range sub.Metal {
		g.metal[l] = make([]Chamber, mc.W*mc.H)
		mc.ForEach(func(x, y int, s signaltype.SignalType) {
			g.metal[l][y*mc.W+x] = classify(s)
		})
	}
	g.via = make([][]Chamber, len(sub.Via))
	for l, vc := range sub.Via {
		g.via[l] = make([]Chamber, vc.W*vc.H)
		vc.ForEach(func(x, y int, s signaltype.SignalType) {
			g.via[l][y*vc.W+x] = classify(s)
		})
	}
	return g
}

func classify(s signaltype.SignalType) Chamber {
	switch s {
	case signaltype.EMPTY:
		return Chamber{Signal: s, Kind: KindEmpty}
	case signaltype.OBSTACLE:
		return Chamber{Signal: s, Kind: KindObstacle}
	default:
		return Chamber{Signal: s, Kind: KindPreplaced}
	}
}

// MetalAt returns the chamber at (layer,x,y) of the metal stack.
func (g *Graph) MetalAt(layer, x, y int) *Chamber {
	w := g.sub.Metal[layer].W
	return &g.metal[layer][y*w+x]
}

// ViaAt returns the chamber at (vialayer,x,y) of the via stack.
func (g *Graph) ViaAt(layer, x, y int) *Chamber {
	w := g.sub.Via[layer].W
	return &g.via[layer][y*w+x]
}

// Coord3 addresses one metal chamber.
type Coord3 struct{ Layer, X, Y int }

// NeighborCoords returns the same-layer orthogonal neighbours of
// (layer,x,y), mirroring DiffusionEngine::linkNeighbors' planar pass.
func (g *Graph) NeighborCoords(layer, x, y int) []Coord3 {
	w, h := g.sub.Metal[layer].W, g.sub.Metal[layer].H
	out := make([]Coord3, 0, 4)
	for _, p := range canvas.Neighbors4(x, y, w, h) {
		out = append(out, Coord3{layer, p.X, p.Y})
	}
	return out
}

// CrossLayerVia returns the via-stack coordinate crossing between
// metal layer `layer` and `layer+1` at pin-grid corner (x,y), and
// whether that via layer exists.
func (g *Graph) CrossLayerVia(layer, x, y int) (Coord3, bool) {
	if layer < 0 || layer >= len(g.via) {
		return Coord3{}, false
	}
	return Coord3{layer, x, y}, true
}

// graphNode addresses one chamber, either a metal cell or a via cell,
// letting InitialiseIndexing's flood fill walk both stacks as a single
// graph.
type graphNode struct {
	Via   bool
	Layer int
	X, Y  int
}

func (g *Graph) chamberAt(n graphNode) *Chamber {
	if n.Via {
		return g.ViaAt(n.Layer, n.X, n.Y)
	}
	return g.MetalAt(n.Layer, n.X, n.Y)
}

// sameLayerNeighbors returns n's orthogonal neighbours within its own
// stack and layer.
func (g *Graph) sameLayerNeighbors(n graphNode) []graphNode {
	var w, h int
	if n.Via {
		w, h = g.sub.Via[n.Layer].W, g.sub.Via[n.Layer].H
	} else {
		w, h = g.sub.Metal[n.Layer].W, g.sub.Metal[n.Layer].H
	}
	out := make([]graphNode, 0, 4)
	for _, p := range canvas.Neighbors4(n.X, n.Y, w, h) {
		out = append(out, graphNode{Via: n.Via, Layer: n.Layer, X: p.X, Y: p.Y})
	}
	return out
}

// crossLayerNeighbors returns the cells on the other stack that touch
// n through via corner-adjacency: a via cell's up to eight corner metal
// cells across the two layers it spans, or a metal cell's up to four
// touching via corners in the via layer(s) straddling it.
func (g *Graph) crossLayerNeighbors(n graphNode) []graphNode {
	var out []graphNode
	if n.Via {
		for _, ml := range []int{n.Layer, n.Layer + 1} {
			mw, mh := g.sub.Metal[ml].W, g.sub.Metal[ml].H
			for _, c := range cornerMetalCells(n.X, n.Y, mw, mh) {
				out = append(out, graphNode{Layer: ml, X: c.X, Y: c.Y})
			}
		}
		return out
	}
	for _, vl := range []int{n.Layer - 1, n.Layer} {
		if vl < 0 || vl >= len(g.via) {
			continue
		}
		vw, vh := g.sub.Via[vl].W, g.sub.Via[vl].H
		for _, c := range metalCellToViaCorners(n.X, n.Y) {
			if c.X >= vw || c.Y >= vh {
				continue
			}
			out = append(out, graphNode{Via: true, Layer: vl, X: c.X, Y: c.Y})
		}
	}
	return out
}

// metalCellToViaCorners returns the (in bounds whenever via canvases
// are exactly one cell wider and taller than metal canvases, the
// substrate invariant) via-grid corners touching metal cell (mx,my).
func metalCellToViaCorners(mx, my int) []cellXY {
	return []cellXY{{mx, my}, {mx + 1, my}, {mx, my + 1}, {mx + 1, my + 1}}
}

// InitialiseIndexing runs BFS connected-component labelling across the
// whole graph, metal and via cells alike, one label sequence shared
// across every layer, treating via corner-adjacency as a graph edge so
// two same-signal regions on adjacent metal layers connected only
// through a via merge into one component, skipping obstacle/empty
// cells.
func (g *Graph) InitialiseIndexing() {
	g.nextLabel = 0

	metalVisited := make([][]bool, len(g.metal))
	for l, mc := range g.metal {
		metalVisited[l] = make([]bool, len(mc))
	}
	viaVisited := make([][]bool, len(g.via))
	for l, vc := range g.via {
		viaVisited[l] = make([]bool, len(vc))
	}

	visited := func(n graphNode) bool {
		if n.Via {
			return viaVisited[n.Layer][n.Y*g.sub.Via[n.Layer].W+n.X]
		}
		return metalVisited[n.Layer][n.Y*g.sub.Metal[n.Layer].W+n.X]
	}
	markVisited := func(n graphNode) {
		if n.Via {
			viaVisited[n.Layer][n.Y*g.sub.Via[n.Layer].W+n.X] = true
			return
		}
		metalVisited[n.Layer][n.Y*g.sub.Metal[n.Layer].W+n.X] = true
	}

	flood := func(start graphNode) {
		g.nextLabel++
		label := g.nextLabel
		sig := g.chamberAt(start).Signal
		queue := []graphNode{start}
		markVisited(start)
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			g.chamberAt(cur).Label = label
			neighbors := append(g.sameLayerNeighbors(cur), g.crossLayerNeighbors(cur)...)
			for _, n := range neighbors {
				if visited(n) {
					continue
				}
				c := g.chamberAt(n)
				if c.Signal != sig || c.Kind == KindEmpty || c.Kind == KindObstacle {
					continue
				}
				markVisited(n)
				queue = append(queue, n)
			}
		}
	}

	for l, mc := range g.metal {
		w := g.sub.Metal[l].W
		for idx := range mc {
			n := graphNode{Layer: l, X: idx % w, Y: idx / w}
			if visited(n) || mc[idx].Kind == KindEmpty || mc[idx].Kind == KindObstacle {
				continue
			}
			flood(n)
		}
	}
	for l, vc := range g.via {
		w := g.sub.Via[l].W
		for idx := range vc {
			n := graphNode{Via: true, Layer: l, X: idx % w, Y: idx / w}
			if visited(n) || vc[idx].Kind == KindEmpty || vc[idx].Kind == KindObstacle {
				continue
			}
			flood(n)
		}
	}
}

// LabelCount returns how many connected components InitialiseIndexing
// found (0 until it has run).
func (g *Graph) LabelCount() int { return int(g.nextLabel) }

// FillEnclosedRegions promotes any EMPTY metal cell whose every
// same-layer neighbour (that exists), excluding OBSTACLE, carries the
// same single signal to that signal, iterating to a fixed point,
// preventing isolated unreachable empty pockets from starving the flow
// solve of area.
func (g *Graph) FillEnclosedRegions() int {
	promoted := 0
	for l, mc := range g.metal {
		w, h := g.sub.Metal[l].W, g.sub.Metal[l].H
		changed := true
		for changed {
			changed = false
			for idx := range mc {
				if mc[idx].Kind != KindEmpty {
					continue
				}
				x, y := idx%w, idx/w
				neigh := canvas.Neighbors4(x, y, w, h)
				if len(neigh) == 0 {
					continue
				}
				var sig signaltype.SignalType
				uniform := true
				sigSet := false
				for _, p := range neigh {
					n := mc[p.Y*w+p.X]
					if n.Kind == KindObstacle {
						continue
					}
					if n.Kind == KindEmpty {
						uniform = false
						break
					}
					if !sigSet {
						sig = n.Signal
						sigSet = true
					} else if n.Signal != sig {
						uniform = false
						break
					}
				}
				if uniform && sigSet {
					mc[idx] = Chamber{Signal: sig, Kind: KindMarked}
					promoted++
					changed = true
				}
			}
		}
	}
	return promoted
}

// MarkHalfOccupiedMetalsAndPins promotes every EMPTY via whose up to
// eight corner metal cells (across both metal layers it spans) carry
// exactly one distinct PREPLACED signal to KindMarked with that signal,
// then promotes those same corner cells to KindMarked wherever they are
// still EMPTY — the pin-overhang half-occupancy rule the source applies
// before flow assembly.
func (g *Graph) MarkHalfOccupiedMetalsAndPins() error {
	if len(g.via) == 0 {
		return nil
	}
	for vl, vc := range g.via {
		if vl >= len(g.metal)-1 {
			return chk.Err("diffusion: via layer %d has no metal layer below it", vl)
		}
		vw := g.sub.Via[vl].W
		mw0, mh0 := g.sub.Metal[vl].W, g.sub.Metal[vl].H
		mw1, mh1 := g.sub.Metal[vl+1].W, g.sub.Metal[vl+1].H
		for idx := range vc {
			if vc[idx].Kind != KindEmpty {
				continue
			}
			px, py := idx%vw, idx/vw

			var sig signaltype.SignalType
			distinct := 0
			check := func(ml, mw, mh int) {
				for _, c := range cornerMetalCells(px, py, mw, mh) {
					mc := g.MetalAt(ml, c.X, c.Y)
					if mc.Kind != KindPreplaced {
						continue
					}
					if distinct == 0 {
						sig = mc.Signal
						distinct = 1
					} else if mc.Signal != sig {
						distinct = 2
					}
				}
			}
			check(vl, mw0, mh0)
			check(vl+1, mw1, mh1)
			if distinct != 1 {
				continue
			}

			vc[idx] = Chamber{Signal: sig, Kind: KindMarked}
			for _, ml := range []int{vl, vl + 1} {
				mw, mh := g.sub.Metal[ml].W, g.sub.Metal[ml].H
				for _, c := range cornerMetalCells(px, py, mw, mh) {
					mc := g.MetalAt(ml, c.X, c.Y)
					if mc.Kind == KindEmpty {
						*mc = Chamber{Signal: sig, Kind: KindMarked}
					}
				}
			}
		}
	}
	return nil
}

type cellXY struct{ X, Y int }

func cornerMetalCells(px, py, metalW, metalH int) []cellXY {
	var out []cellXY
	if px > 0 && py > 0 {
		out = append(out, cellXY{px - 1, py - 1})
	}
	if px > 0 && py < metalH {
		out = append(out, cellXY{px - 1, py})
	}
	if px < metalW && py > 0 {
		out = append(out, cellXY{px, py - 1})
	}
	if px < metalW && py < metalH {
		out = append(out, cellXY{px, py})
	}
	return out
}
