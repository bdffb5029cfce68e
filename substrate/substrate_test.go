// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package substrate

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/hankshyu/PowerX-sub000/bumpmap"
	"github.com/hankshyu/PowerX-sub000/canvas"
	"github.com/hankshyu/PowerX-sub000/signaltype"
)

func Test_substrate01_corner_cells(tst *testing.T) {
	chk.PrintTitle("substrate. pin-grid corner to metal-cell mapping")

	// interior corner touches all 4 metal cells
	cells := cornerCells(1, 1, 2, 2)
	if len(cells) != 4 {
		tst.Errorf("interior corner should touch 4 metal cells, got %d", len(cells))
	}
	// a corner of a 0x0 metal grid touches none
	if len(cornerCells(0, 0, 0, 0)) != 0 {
		tst.Errorf("degenerate metal grid should touch no cells")
	}
	// lower-left corner of a 2x2 grid touches exactly the (0,0) cell
	ll := cornerCells(0, 0, 2, 2)
	if len(ll) != 1 || ll[0] != (cellXY{0, 0}) {
		tst.Errorf("lower-left pin corner should touch only metal cell (0,0), got %v", ll)
	}
}

func Test_substrate02_mark_preplaced_pads(tst *testing.T) {
	chk.PrintTitle("substrate. bump pads project onto the connected metal layer")

	u := bumpmap.New("u", 3, 3)
	u.Set(0, 0, signaltype.POWER_1)
	c := bumpmap.New("c", 3, 3)
	bumps, err := bumpmap.NewBumps(u, c, nil)
	if err != nil {
		tst.Fatalf("NewBumps failed: %v", err)
	}

	s := &Substrate{
		GridWidth: 2, GridHeight: 2,
		Metal: []*canvas.Canvas{canvas.New(2, 2), canvas.New(2, 2)},
		Via:   []*canvas.Canvas{canvas.New(3, 3)},
		Bumps: bumps, UBumpLayer: 0, C4Layer: 1,
	}
	markPreplacedAndInsertPads(s)
	if s.Metal[0].Get(0, 0) != signaltype.POWER_1 {
		tst.Errorf("expected uBump pad at (0,0) to project POWER_1 onto metal layer 0")
	}
}

func Test_substrate04_via_corner_projects_onto_both_straddling_layers(tst *testing.T) {
	chk.PrintTitle("substrate. a preplaced via corner projects onto the metal layers above and below it")

	u := bumpmap.New("u", 3, 3)
	c := bumpmap.New("c", 3, 3)
	bumps, err := bumpmap.NewBumps(u, c, nil)
	if err != nil {
		tst.Fatalf("NewBumps failed: %v", err)
	}

	via := canvas.New(3, 3)
	via.Set(0, 0, signaltype.POWER_2)

	s := &Substrate{
		GridWidth: 2, GridHeight: 2,
		Metal: []*canvas.Canvas{canvas.New(2, 2), canvas.New(2, 2)},
		Via:   []*canvas.Canvas{via},
		Bumps: bumps, UBumpLayer: 0, C4Layer: 1,
	}
	markPreplacedAndInsertPads(s)

	if s.Metal[0].Get(0, 0) != signaltype.POWER_2 {
		tst.Errorf("expected via corner (0,0) to project POWER_2 onto metal layer 0 (above), got %v", s.Metal[0].Get(0, 0))
	}
	if s.Metal[1].Get(0, 0) != signaltype.POWER_2 {
		tst.Errorf("expected via corner (0,0) to project POWER_2 onto metal layer 1 (below), got %v", s.Metal[1].Get(0, 0))
	}
}

func Test_substrate03_validate(tst *testing.T) {
	chk.PrintTitle("substrate. layer-count invariant validation")

	u := bumpmap.New("u", 3, 3)
	c := bumpmap.New("c", 3, 3)
	bumps, _ := bumpmap.NewBumps(u, c, nil)
	s := &Substrate{
		GridWidth: 2, GridHeight: 2,
		Metal: []*canvas.Canvas{canvas.New(2, 2)},
		Via:   []*canvas.Canvas{},
		Bumps: bumps,
	}
	if err := s.Validate(); err == nil {
		tst.Errorf("a single metal layer should fail validation")
	}
}
