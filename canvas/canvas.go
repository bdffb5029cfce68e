// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package canvas implements the per-layer grid of SignalType cells: the
// flat 2D array every metal and via layer carries, the import path for
// blockage files, and the read/write primitives the substrate and
// pipelines share.
package canvas

import (
	"github.com/cpmech/gosl/chk"
	"github.com/hankshyu/PowerX-sub000/geom"
	"github.com/hankshyu/PowerX-sub000/signaltype"
)

// Canvas is a W×H array of signaltype.SignalType, row-major by y then x.
// Metal canvases are W×H; via canvases (corner-adjacent, §3) are
// (W+1)×(H+1), built with the same type.
type Canvas struct {
	W, H  int
	cells []signaltype.SignalType
}

// New allocates a w×h canvas, every cell EMPTY.
func New(w, h int) *Canvas {
	if w <= 0 || h <= 0 {
		chk.Panic("canvas: invalid dimensions %dx%d", w, h)
	}
	return &Canvas{W: w, H: h, cells: make([]signaltype.SignalType, w*h)}
}

func (c *Canvas) idx(x, y int) int { return y*c.W + x }

// InBounds reports whether (x,y) is a valid cell.
func (c *Canvas) InBounds(x, y int) bool {
	return x >= 0 && x < c.W && y >= 0 && y < c.H
}

// Get returns the signal at (x,y).
func (c *Canvas) Get(x, y int) signaltype.SignalType {
	if !c.InBounds(x, y) {
		chk.Panic("canvas: (%d,%d) out of bounds %dx%d", x, y, c.W, c.H)
	}
	return c.cells[c.idx(x, y)]
}

// GetP returns the signal at p.
func (c *Canvas) GetP(p geom.Pt) signaltype.SignalType { return c.Get(p.X, p.Y) }

// Set assigns the signal at (x,y).
func (c *Canvas) Set(x, y int, s signaltype.SignalType) {
	if !c.InBounds(x, y) {
		chk.Panic("canvas: (%d,%d) out of bounds %dx%d", x, y, c.W, c.H)
	}
	c.cells[c.idx(x, y)] = s
}

// SetP assigns the signal at p.
func (c *Canvas) SetP(p geom.Pt, s signaltype.SignalType) { c.Set(p.X, p.Y, s) }

// ForEach visits every cell in row-major order.
func (c *Canvas) ForEach(fn func(x, y int, s signaltype.SignalType)) {
	for y := 0; y < c.H; y++ {
		for x := 0; x < c.W; x++ {
			fn(x, y, c.cells[c.idx(x, y)])
		}
	}
}

// ImportBlockage stamps every cell in cells with signal s; points
// outside the canvas are skipped.
func (c *Canvas) ImportBlockage(cells []geom.Pt, s signaltype.SignalType) {
	for _, p := range cells {
		if c.InBounds(p.X, p.Y) {
			c.Set(p.X, p.Y, s)
		}
	}
}

// Count returns the number of cells carrying signal s.
func (c *Canvas) Count(s signaltype.SignalType) int {
	n := 0
	for _, v := range c.cells {
		if v == s {
			n++
		}
	}
	return n
}

// Clone returns a deep copy.
func (c *Canvas) Clone() *Canvas {
	cp := &Canvas{W: c.W, H: c.H, cells: make([]signaltype.SignalType, len(c.cells))}
	copy(cp.cells, c.cells)
	return cp
}

// PreprocessPowerLayer folds GROUND/SIGNAL/OVERLAP into OBSTACLE on every
// cell, the closed-world rule power layers operate under.
func (c *Canvas) PreprocessPowerLayer() {
	for i, v := range c.cells {
		c.cells[i] = v.PreprocessOnPowerLayer()
	}
}

// Neighbors4 returns the up-to-four orthogonal neighbours of (x,y) that
// are InBounds, in N,S,E,W order (dropping absent ones) — used by the
// diffusion substrate's same-layer linking and by legalisation border
// polling.
func Neighbors4(x, y, w, h int) []geom.Pt {
	cand := []geom.Pt{{x, y + 1}, {x, y - 1}, {x + 1, y}, {x - 1, y}}
	out := make([]geom.Pt, 0, 4)
	for _, p := range cand {
		if p.X >= 0 && p.X < w && p.Y >= 0 && p.Y < h {
			out = append(out, p)
		}
	}
	return out
}
