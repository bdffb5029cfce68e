// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package voronoi

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/hankshyu/PowerX-sub000/bumpmap"
	"github.com/hankshyu/PowerX-sub000/canvas"
	"github.com/hankshyu/PowerX-sub000/signaltype"
	"github.com/hankshyu/PowerX-sub000/substrate"
)

func twoLayerSubstrate(tst *testing.T) *substrate.Substrate {
	u := bumpmap.New("u", 4, 4)
	c := bumpmap.New("c", 4, 4)
	bumps, err := bumpmap.NewBumps(u, c, nil)
	if err != nil {
		tst.Fatalf("NewBumps: %v", err)
	}
	return &substrate.Substrate{
		GridWidth: 4, GridHeight: 4,
		Metal: []*canvas.Canvas{canvas.New(4, 4), canvas.New(4, 4)},
		Via:   []*canvas.Canvas{canvas.New(5, 5)},
		Bumps: bumps,
	}
}

func Test_pipeline01_run_pipeline_covers_every_layer(tst *testing.T) {
	chk.PrintTitle("voronoi. RunPipeline fills every metal layer across the whole stack")

	sub := twoLayerSubstrate(tst)
	sub.Metal[0].Set(0, 0, signaltype.POWER_1)
	sub.Metal[0].Set(3, 3, signaltype.POWER_2)
	sub.Metal[1].Set(0, 0, signaltype.POWER_1)
	sub.Metal[1].Set(3, 3, signaltype.POWER_2)

	RunPipeline(sub, []signaltype.SignalType{signaltype.POWER_1, signaltype.POWER_2}, DefaultHyperparams)

	for _, mc := range sub.Metal {
		mc.ForEach(func(x, y int, s signaltype.SignalType) {
			if s == signaltype.EMPTY {
				tst.Errorf("cell (%d,%d) left EMPTY after RunPipeline", x, y)
			}
		})
	}
}

func Test_pipeline02_cross_layer_connect_does_not_trade_away_preplaced_cells(tst *testing.T) {
	chk.PrintTitle("voronoi. cross-layer via insertion and stacking enhancement keep preplaced cells intact")

	sub := twoLayerSubstrate(tst)
	// POWER_1 is preplaced only on layer 0, POWER_2 only on layer 1:
	// Step B should plant a via anchor connecting the two layers.
	sub.Metal[0].Set(0, 0, signaltype.POWER_1)
	sub.Metal[1].Set(3, 3, signaltype.POWER_2)

	RunPipeline(sub, []signaltype.SignalType{signaltype.POWER_1, signaltype.POWER_2}, DefaultHyperparams)

	if got := sub.Metal[0].Get(0, 0); got != signaltype.POWER_1 {
		tst.Errorf("expected the preplaced POWER_1 cell to survive the pipeline, got %v", got)
	}
	if got := sub.Metal[1].Get(3, 3); got != signaltype.POWER_2 {
		tst.Errorf("expected the preplaced POWER_2 cell to survive the pipeline, got %v", got)
	}
}
