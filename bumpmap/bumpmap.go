// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bumpmap implements the signal-labelled bump arrays: the uBump
// (top) and c4 (bottom) sides, each a W×H grid of signaltype.SignalType
// with per-signal occupied-cell indices, optional 0/90/180/270
// rotation, and (uBump only) a list of chiplet instances.
package bumpmap

import (
	"github.com/cpmech/gosl/chk"
	"github.com/hankshyu/PowerX-sub000/geom"
	"github.com/hankshyu/PowerX-sub000/signaltype"
)

// Rotation is one of the four axis-aligned ballout rotations.
type Rotation uint8

const (
	R0 Rotation = iota
	R90
	R180
	R270
)

// BumpMap is a W×H array of SignalType with a per-signal occupied-cell
// index, the shared representation for both uBump and c4 sides.
type BumpMap struct {
	W, H    int
	cells   []signaltype.SignalType
	bySig   map[signaltype.SignalType]map[geom.Pt]bool
	Name    string
	rotated Rotation
}

// New allocates a w×h bump map, every cell EMPTY.
func New(name string, w, h int) *BumpMap {
	if w <= 0 || h <= 0 {
		chk.Panic("bumpmap: invalid dimensions %dx%d", w, h)
	}
	return &BumpMap{
		Name:  name,
		W:     w,
		H:     h,
		cells: make([]signaltype.SignalType, w*h),
		bySig: make(map[signaltype.SignalType]map[geom.Pt]bool),
	}
}

func (b *BumpMap) idx(x, y int) int { return y*b.W + x }

// Get returns the signal at (x,y).
func (b *BumpMap) Get(x, y int) signaltype.SignalType {
	if x < 0 || x >= b.W || y < 0 || y >= b.H {
		chk.Panic("bumpmap: (%d,%d) out of bounds %dx%d", x, y, b.W, b.H)
	}
	return b.cells[b.idx(x, y)]
}

// Set assigns the signal at (x,y) and maintains the per-signal index.
func (b *BumpMap) Set(x, y int, s signaltype.SignalType) {
	if x < 0 || x >= b.W || y < 0 || y >= b.H {
		chk.Panic("bumpmap: (%d,%d) out of bounds %dx%d", x, y, b.W, b.H)
	}
	old := b.cells[b.idx(x, y)]
	if old != signaltype.EMPTY {
		delete(b.bySig[old], geom.Pt{X: x, Y: y})
	}
	b.cells[b.idx(x, y)] = s
	if s != signaltype.EMPTY {
		if b.bySig[s] == nil {
			b.bySig[s] = make(map[geom.Pt]bool)
		}
		b.bySig[s][geom.Pt{X: x, Y: y}] = true
	}
}

// CellsOf returns the set of cells occupied by signal s.
func (b *BumpMap) CellsOf(s signaltype.SignalType) []geom.Pt {
	set := b.bySig[s]
	out := make([]geom.Pt, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	return out
}

// Signals returns every non-EMPTY signal present on this bump map (power
// nets as well as GROUND, SIGNAL or any other tag), in no set order.
func (b *BumpMap) Signals() []signaltype.SignalType {
	out := make([]signaltype.SignalType, 0, len(b.bySig))
	for s, cells := range b.bySig {
		if len(cells) > 0 {
			out = append(out, s)
		}
	}
	return out
}

// Rotated returns a new BumpMap equal to b rotated by r (composed with
// b's own rotation state, so applying R90 four times returns to the
// original content).
func (b *BumpMap) Rotated(r Rotation) *BumpMap {
	switch r {
	case R0:
		return b.Clone()
	case R180:
		return b.Rotated(R90).Rotated(R90)
	case R270:
		return b.Rotated(R90).Rotated(R90).Rotated(R90)
	}
	// R90: (x,y) in an W×H grid maps to (y, W-1-x) in an H×W grid.
	out := New(b.Name, b.H, b.W)
	out.rotated = (b.rotated + 1) % 4
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			nx, ny := y, b.W-1-x
			out.Set(nx, ny, b.Get(x, y))
		}
	}
	return out
}

// Clone returns a deep copy.
func (b *BumpMap) Clone() *BumpMap {
	out := New(b.Name, b.W, b.H)
	out.rotated = b.rotated
	copy(out.cells, b.cells)
	for s, cells := range b.bySig {
		cp := make(map[geom.Pt]bool, len(cells))
		for p := range cells {
			cp[p] = true
		}
		out.bySig[s] = cp
	}
	return out
}

// ChipletInstance is a rectangular sub-region of the uBump canvas
// occupied by a named ballout at a given rotation.
type ChipletInstance struct {
	BallOutName string
	Rect        geom.Rect
	Rotation    Rotation
	Instance    string
}

// Side distinguishes the two bump planes of the PDN.
type Side uint8

const (
	UBump Side = iota
	C4
)

// Bumps bundles the uBump and c4 sides of §3's "Bump map", enforcing the
// invariant that both sides share width/height and that every chiplet
// rectangle is contained in the uBump canvas.
type Bumps struct {
	UBump     *BumpMap
	C4        *BumpMap
	Chiplets  []ChipletInstance
}

// NewBumps validates the equal-dimensions invariant and returns a Bumps.
func NewBumps(uBump, c4 *BumpMap, chiplets []ChipletInstance) (*Bumps, error) {
	if uBump.W != c4.W || uBump.H != c4.H {
		return nil, chk.Err("bumpmap: uBump (%dx%d) and c4 (%dx%d) must have equal dimensions",
			uBump.W, uBump.H, c4.W, c4.H)
	}
	envelope := geom.NewRect(0, 0, uBump.W, uBump.H)
	for _, ch := range chiplets {
		if !envelope.ContainsRect(ch.Rect) {
			return nil, chk.Err("bumpmap: chiplet %q rectangle %v is not contained in the uBump canvas %v",
				ch.Instance, ch.Rect, envelope)
		}
	}
	return &Bumps{UBump: uBump, C4: c4, Chiplets: chiplets}, nil
}
