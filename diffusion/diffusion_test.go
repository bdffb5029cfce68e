// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diffusion

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/hankshyu/PowerX-sub000/bumpmap"
	"github.com/hankshyu/PowerX-sub000/canvas"
	"github.com/hankshyu/PowerX-sub000/signaltype"
	"github.com/hankshyu/PowerX-sub000/substrate"
)

func smallSubstrate(tst *testing.T) *substrate.Substrate {
	u := bumpmap.New("u", 4, 4)
	c := bumpmap.New("c", 4, 4)
	bumps, err := bumpmap.NewBumps(u, c, nil)
	if err != nil {
		tst.Fatalf("NewBumps: %v", err)
	}
	return &substrate.Substrate{
		GridWidth: 3, GridHeight: 3,
		Metal: []*canvas.Canvas{canvas.New(3, 3), canvas.New(3, 3)},
		Via:   []*canvas.Canvas{canvas.New(4, 4)},
		Bumps: bumps,
	}
}

func Test_diffusion01_labelling(tst *testing.T) {
	chk.PrintTitle("diffusion. connected-component labelling within a signal")

	sub := smallSubstrate(tst)
	sub.Metal[0].Set(0, 0, signaltype.POWER_1)
	sub.Metal[0].Set(1, 0, signaltype.POWER_1)
	sub.Metal[0].Set(2, 2, signaltype.POWER_1) // disconnected from the first run

	g := Build(sub)
	g.InitialiseIndexing()

	l1 := g.MetalAt(0, 0, 0).Label
	l2 := g.MetalAt(0, 1, 0).Label
	l3 := g.MetalAt(0, 2, 2).Label
	if l1 == 0 || l2 == 0 || l3 == 0 {
		tst.Fatalf("expected every occupied cell to receive a non-zero label")
	}
	if l1 != l2 {
		tst.Errorf("orthogonally adjacent same-signal cells should share a label")
	}
	if l1 == l3 {
		tst.Errorf("disconnected same-signal runs should receive distinct labels")
	}
	if g.LabelCount() != 2 {
		tst.Errorf("expected 2 components total, got %d", g.LabelCount())
	}
}

func Test_diffusion02_fill_enclosed_regions(tst *testing.T) {
	chk.PrintTitle("diffusion. enclosed empty cell surrounded by one signal is filled")

	sub := smallSubstrate(tst)
	// surround the centre cell (1,1) on all four sides with POWER_2
	sub.Metal[0].Set(1, 0, signaltype.POWER_2)
	sub.Metal[0].Set(1, 2, signaltype.POWER_2)
	sub.Metal[0].Set(0, 1, signaltype.POWER_2)
	sub.Metal[0].Set(2, 1, signaltype.POWER_2)

	g := Build(sub)
	n := g.FillEnclosedRegions()
	// the centre plus the four corner cells, each bordered only by POWER_2
	if n != 5 {
		tst.Errorf("expected exactly 5 promoted cells, got %d", n)
	}
	centre := g.MetalAt(0, 1, 1)
	if centre.Kind != KindMarked || centre.Signal != signaltype.POWER_2 {
		tst.Errorf("centre cell should be promoted to POWER_2, got %+v", centre)
	}
}

func Test_diffusion03_via_merges_components_across_layers(tst *testing.T) {
	chk.PrintTitle("diffusion. a via corner merges same-signal regions on adjacent metal layers")

	sub := smallSubstrate(tst)
	sub.Metal[0].Set(0, 0, signaltype.POWER_1)
	sub.Metal[1].Set(0, 0, signaltype.POWER_1)
	sub.Via[0].Set(0, 0, signaltype.POWER_1)

	g := Build(sub)
	g.InitialiseIndexing()

	l0 := g.MetalAt(0, 0, 0).Label
	l1 := g.MetalAt(1, 0, 0).Label
	if l0 == 0 || l1 == 0 {
		tst.Fatalf("expected every occupied cell to receive a non-zero label")
	}
	if l0 != l1 {
		tst.Errorf("a via corner touching both layers should merge them into one component, got labels %d and %d", l0, l1)
	}
	if g.LabelCount() != 1 {
		tst.Errorf("expected 1 component total, got %d", g.LabelCount())
	}
}

func Test_diffusion04_fill_enclosed_regions_skips_obstacle_neighbour(tst *testing.T) {
	chk.PrintTitle("diffusion. an empty cell bordered by one obstacle and one signal still fills")

	sub := smallSubstrate(tst)
	// centre cell (1,1) bordered by OBSTACLE on one side and POWER_2 elsewhere
	sub.Metal[0].Set(1, 0, signaltype.OBSTACLE)
	sub.Metal[0].Set(1, 2, signaltype.POWER_2)
	sub.Metal[0].Set(0, 1, signaltype.POWER_2)
	sub.Metal[0].Set(2, 1, signaltype.POWER_2)

	g := Build(sub)
	n := g.FillEnclosedRegions()
	// the centre plus the four corner cells, each bordered only by POWER_2
	// and, for the two corners beside (1,0), the obstacle
	if n != 5 {
		tst.Errorf("expected exactly 5 promoted cells, got %d", n)
	}
	centre := g.MetalAt(0, 1, 1)
	if centre.Kind != KindMarked || centre.Signal != signaltype.POWER_2 {
		tst.Errorf("centre cell bordered by an obstacle should still be promoted to POWER_2, got %+v", centre)
	}
}

func Test_diffusion05_mark_half_occupied_via_with_one_signal(tst *testing.T) {
	chk.PrintTitle("diffusion. an empty via ringed by exactly one preplaced signal is marked")

	sub := smallSubstrate(tst)
	// via corner (1,1) touches cells (0,0),(0,1),(1,0),(1,1) of each
	// 3x3-grid metal layer; seed one preplaced corner on each layer,
	// both POWER_1, leaving the rest of the ring EMPTY.
	sub.Metal[0].Set(0, 0, signaltype.POWER_1)
	sub.Metal[1].Set(1, 1, signaltype.POWER_1)

	g := Build(sub)
	if err := g.MarkHalfOccupiedMetalsAndPins(); err != nil {
		tst.Fatalf("MarkHalfOccupiedMetalsAndPins: %v", err)
	}

	via := g.ViaAt(0, 1, 1)
	if via.Kind != KindMarked || via.Signal != signaltype.POWER_1 {
		tst.Errorf("via corner touching a single preplaced signal should be marked POWER_1, got %+v", via)
	}
	for _, c := range []struct{ layer, x, y int }{
		{0, 0, 1}, {0, 1, 0}, {0, 1, 1}, {1, 0, 0}, {1, 0, 1}, {1, 1, 0},
	} {
		mc := g.MetalAt(c.layer, c.x, c.y)
		if mc.Kind != KindMarked || mc.Signal != signaltype.POWER_1 {
			tst.Errorf("metal cell (%d,%d,%d) touching the marked via should be promoted to POWER_1, got %+v", c.layer, c.x, c.y, mc)
		}
	}
	if seed := g.MetalAt(0, 0, 0); seed.Kind != KindPreplaced || seed.Signal != signaltype.POWER_1 {
		tst.Errorf("the original preplaced seed should stay PREPLACED, got %+v", seed)
	}
	if seed := g.MetalAt(1, 1, 1); seed.Kind != KindPreplaced || seed.Signal != signaltype.POWER_1 {
		tst.Errorf("the original preplaced seed should stay PREPLACED, got %+v", seed)
	}
}

func Test_diffusion06_mark_half_occupied_via_with_two_signals_stays_empty(tst *testing.T) {
	chk.PrintTitle("diffusion. an empty via ringed by two distinct preplaced signals is left untouched")

	sub := smallSubstrate(tst)
	sub.Metal[0].Set(0, 0, signaltype.POWER_1)
	sub.Metal[1].Set(1, 1, signaltype.POWER_2)

	g := Build(sub)
	if err := g.MarkHalfOccupiedMetalsAndPins(); err != nil {
		tst.Fatalf("MarkHalfOccupiedMetalsAndPins: %v", err)
	}

	via := g.ViaAt(0, 1, 1)
	if via.Kind != KindEmpty {
		tst.Errorf("via corner ringed by two distinct signals should stay EMPTY, got %+v", via)
	}
}
