// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package filler

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/hankshyu/PowerX-sub000/bumpmap"
	"github.com/hankshyu/PowerX-sub000/canvas"
	"github.com/hankshyu/PowerX-sub000/diffusion"
	"github.com/hankshyu/PowerX-sub000/oracle"
	"github.com/hankshyu/PowerX-sub000/signaltype"
	"github.com/hankshyu/PowerX-sub000/substrate"
)

func rowSubstrate(tst *testing.T, w int) *substrate.Substrate {
	u := bumpmap.New("u", w, 1)
	c := bumpmap.New("c", w, 1)
	bumps, err := bumpmap.NewBumps(u, c, nil)
	if err != nil {
		tst.Fatalf("NewBumps: %v", err)
	}
	return &substrate.Substrate{
		GridWidth: w, GridHeight: 1,
		Metal: []*canvas.Canvas{canvas.New(w, 1)},
		Bumps: bumps,
	}
}

func Test_filler01_build_signal_tree_counts_owned_cells(tst *testing.T) {
	chk.PrintTitle("filler. SignalTree collects exactly the owned cells")

	sub := rowSubstrate(tst, 4)
	sub.Metal[0].Set(0, 0, signaltype.POWER_1)
	sub.Metal[0].Set(1, 0, signaltype.POWER_1)
	sub.Metal[0].Set(3, 0, signaltype.POWER_2)

	d := diffusion.Build(sub)
	st := BuildSignalTree(d, sub, signaltype.POWER_1, nil)
	if len(st.nodes) != 2 {
		tst.Fatalf("expected 2 owned nodes, got %d", len(st.nodes))
	}
	if len(st.edges) != 1 {
		tst.Errorf("expected 1 edge between the adjacent owned cells, got %d", len(st.edges))
	}
}

func Test_filler02_run_fills_reachable_empty_cells(tst *testing.T) {
	chk.PrintTitle("filler. gain cycle fills an adjacent empty run")

	sub := rowSubstrate(tst, 4)
	sub.Metal[0].Set(0, 0, signaltype.POWER_1)
	// (1,0)..(3,0) start EMPTY

	d := diffusion.Build(sub)
	hp := DefaultHyperparams
	hp.MaxFillingRate = 1.0
	hp.MinCommitRate = 1.0
	hp.MaxCommitRate = 1.0

	filled, drops, err := Run(d, sub, signaltype.POWER_1, nil, hp, oracle.CholeskySolver{}, 3)
	if err != nil {
		tst.Fatalf("Run: %v", err)
	}
	if filled == 0 {
		tst.Errorf("expected at least one cell to be filled")
	}
	if len(drops) == 0 {
		tst.Errorf("expected at least one sampled drop value")
	}
	if d.MetalAt(0, 1, 0).Kind != diffusion.KindMarked {
		tst.Errorf("expected the immediate neighbour to be promoted first")
	}
}
