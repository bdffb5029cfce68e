// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bumpmap

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/hankshyu/PowerX-sub000/geom"
	"github.com/hankshyu/PowerX-sub000/signaltype"
)

func Test_bumpmap01_cellsof_index(tst *testing.T) {

	chk.PrintTitle("bumpmap. per-signal occupied cell index")

	b := New("top", 4, 4)
	b.Set(0, 0, signaltype.POWER_1)
	b.Set(3, 3, signaltype.POWER_1)
	b.Set(1, 1, signaltype.POWER_2)

	cells := b.CellsOf(signaltype.POWER_1)
	if len(cells) != 2 {
		tst.Errorf("expected 2 POWER_1 cells, got %d", len(cells))
	}

	// re-painting a cell removes it from the old signal's index
	b.Set(0, 0, signaltype.POWER_2)
	if len(b.CellsOf(signaltype.POWER_1)) != 1 {
		tst.Errorf("re-painting should remove the cell from the old signal's index")
	}
}

func Test_bumpmap02_rotation_four_times_identity(tst *testing.T) {

	chk.PrintTitle("bumpmap. B3: four 90-degree rotations return the original")

	b := New("top", 3, 5)
	b.Set(0, 0, signaltype.POWER_1)
	b.Set(2, 4, signaltype.POWER_3)

	r := b.Rotated(R90).Rotated(R90).Rotated(R90).Rotated(R90)
	if r.W != b.W || r.H != b.H {
		tst.Fatalf("four rotations must restore original dimensions, got %dx%d want %dx%d", r.W, r.H, b.W, b.H)
	}
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			if r.Get(x, y) != b.Get(x, y) {
				tst.Errorf("cell (%d,%d) changed after 4 rotations: got %v want %v", x, y, r.Get(x, y), b.Get(x, y))
			}
		}
	}
}

func Test_bumpmap03_bumps_equal_dims_invariant(tst *testing.T) {

	chk.PrintTitle("bumpmap. uBump/c4 equal-dimension invariant")

	u := New("u", 4, 4)
	c := New("c", 5, 5)
	if _, err := NewBumps(u, c, nil); err == nil {
		tst.Errorf("NewBumps should reject mismatched uBump/c4 dimensions")
	}

	c2 := New("c", 4, 4)
	if _, err := NewBumps(u, c2, nil); err != nil {
		tst.Errorf("NewBumps should accept matching dimensions: %v", err)
	}
}

func Test_bumpmap04_chiplet_containment_invariant(tst *testing.T) {

	chk.PrintTitle("bumpmap. chiplet rectangle containment invariant")

	u := New("u", 10, 10)
	c := New("c", 10, 10)
	bad := []ChipletInstance{{BallOutName: "x", Instance: "x0", Rect: geom.NewRect(5, 5, 15, 15)}}
	if _, err := NewBumps(u, c, bad); err == nil {
		tst.Errorf("NewBumps should reject a chiplet rectangle that exceeds the canvas")
	}

	good := []ChipletInstance{{BallOutName: "x", Instance: "x0", Rect: geom.NewRect(5, 5, 9, 9)}}
	if _, err := NewBumps(u, c, good); err != nil {
		tst.Errorf("NewBumps should accept a contained chiplet: %v", err)
	}
}
