// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mcf

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/hankshyu/PowerX-sub000/bumpmap"
	"github.com/hankshyu/PowerX-sub000/canvas"
	"github.com/hankshyu/PowerX-sub000/diffusion"
	"github.com/hankshyu/PowerX-sub000/geom"
	"github.com/hankshyu/PowerX-sub000/oracle"
	"github.com/hankshyu/PowerX-sub000/signaltype"
	"github.com/hankshyu/PowerX-sub000/substrate"
)

func lineSubstrate(tst *testing.T) *substrate.Substrate {
	u := bumpmap.New("u", 5, 5)
	c := bumpmap.New("c", 5, 5)
	bumps, err := bumpmap.NewBumps(u, c, nil)
	if err != nil {
		tst.Fatalf("NewBumps: %v", err)
	}
	return &substrate.Substrate{
		GridWidth: 5, GridHeight: 1,
		Metal: []*canvas.Canvas{canvas.New(5, 1)},
		Via:   nil,
		Bumps: bumps,
	}
}

func Test_mcf01_connects_two_components_through_empty_cells(tst *testing.T) {
	chk.PrintTitle("mcf. straight-line component connects through empty cells")

	sub := lineSubstrate(tst)
	sub.Metal[0].Set(0, 0, signaltype.POWER_1)
	sub.Metal[0].Set(4, 0, signaltype.POWER_1)
	// (1,0)..(3,0) left EMPTY

	d := diffusion.Build(sub)
	d.InitialiseIndexing()

	fg := Build(d, sub)
	assign := Solve(fg, []signaltype.SignalType{signaltype.POWER_1}, nil)

	for x := 1; x <= 3; x++ {
		k := cellKey{Layer: 0, X: x, Y: 0}
		if assign[k] != signaltype.POWER_1 {
			tst.Errorf("expected cell (%d,0) to be claimed for POWER_1, got %v", x, assign[k])
		}
	}
}

func Test_mcf02_no_path_leaves_assignment_untouched(tst *testing.T) {
	chk.PrintTitle("mcf. a signal with a single component claims nothing")

	sub := lineSubstrate(tst)
	sub.Metal[0].Set(0, 0, signaltype.POWER_1)

	d := diffusion.Build(sub)
	d.InitialiseIndexing()

	fg := Build(d, sub)
	assign := Solve(fg, []signaltype.SignalType{signaltype.POWER_1}, nil)
	if len(assign) != 0 {
		tst.Errorf("expected no claims with a single component, got %d", len(assign))
	}
}

func Test_mcf03_obstacle_blocks_the_only_path(tst *testing.T) {
	chk.PrintTitle("mcf. an obstacle wall leaves two components unconnected")

	sub := lineSubstrate(tst)
	sub.Metal[0].Set(0, 0, signaltype.POWER_1)
	sub.Metal[0].Set(4, 0, signaltype.POWER_1)
	sub.Metal[0].Set(2, 0, signaltype.OBSTACLE)

	d := diffusion.Build(sub)
	d.InitialiseIndexing()

	fg := Build(d, sub)
	assign := Solve(fg, []signaltype.SignalType{signaltype.POWER_1}, nil)
	if len(assign) != 0 {
		tst.Errorf("expected no claims when the only path is blocked, got %d", len(assign))
	}
}

func Test_mcf04_lp_oracle_solves_the_single_frontier_case(tst *testing.T) {
	chk.PrintTitle("mcf. SimplexLP connects a two-component straight line")

	sub := lineSubstrate(tst)
	sub.Metal[0].Set(0, 0, signaltype.POWER_1)
	sub.Metal[0].Set(4, 0, signaltype.POWER_1)

	d := diffusion.Build(sub)
	d.InitialiseIndexing()

	fg := Build(d, sub)
	assign := Solve(fg, []signaltype.SignalType{signaltype.POWER_1}, oracle.SimplexLP{})

	for x := 1; x <= 3; x++ {
		k := cellKey{Layer: 0, X: x, Y: 0}
		if assign[k] != signaltype.POWER_1 {
			tst.Errorf("expected cell (%d,0) to be claimed for POWER_1 via the LP path, got %v", x, assign[k])
		}
	}
}

func Test_mcf05_chiplet_coverage_reports_footprint_fraction(tst *testing.T) {
	chk.PrintTitle("mcf. ChipletCoverage reports the connected share of a chiplet's footprint")

	sub := lineSubstrate(tst)
	sub.UBumpLayer = 0
	sub.Metal[0].Set(0, 0, signaltype.POWER_1)
	sub.Metal[0].Set(1, 0, signaltype.POWER_1)
	// (2,0)..(4,0) left EMPTY

	chiplets := []bumpmap.ChipletInstance{
		{Instance: "u0", Rect: geom.NewRect(0, 0, 5, 1)},
	}
	cov := ChipletCoverage(sub, chiplets)
	if got, want := cov["u0"], 0.4; got != want {
		tst.Errorf("expected coverage %v, got %v", want, got)
	}
}
