// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package canvas

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/hankshyu/PowerX-sub000/geom"
	"github.com/hankshyu/PowerX-sub000/signaltype"
)

func Test_canvas01_get_set(tst *testing.T) {

	chk.PrintTitle("canvas. get/set round-trip")

	c := New(4, 4)
	c.Set(2, 2, signaltype.POWER_1)
	if c.Get(2, 2) != signaltype.POWER_1 {
		tst.Errorf("set/get round trip failed")
	}
	if c.Get(0, 0) != signaltype.EMPTY {
		tst.Errorf("fresh canvas must be all EMPTY")
	}
}

func Test_canvas02_preprocess_power_layer(tst *testing.T) {

	chk.PrintTitle("canvas. GROUND/SIGNAL/OVERLAP fold to OBSTACLE")

	c := New(2, 2)
	c.Set(0, 0, signaltype.GROUND)
	c.Set(0, 1, signaltype.SIGNAL)
	c.Set(1, 0, signaltype.OVERLAP)
	c.Set(1, 1, signaltype.POWER_2)
	c.PreprocessPowerLayer()

	if c.Get(0, 0) != signaltype.OBSTACLE || c.Get(0, 1) != signaltype.OBSTACLE || c.Get(1, 0) != signaltype.OBSTACLE {
		tst.Errorf("GROUND/SIGNAL/OVERLAP must fold to OBSTACLE")
	}
	if c.Get(1, 1) != signaltype.POWER_2 {
		tst.Errorf("power signals must not be altered")
	}
}

func Test_canvas03_neighbors4_clips_to_bounds(tst *testing.T) {

	chk.PrintTitle("canvas. 4-neighbour clipping at the border")

	ns := Neighbors4(0, 0, 4, 4)
	if len(ns) != 2 {
		tst.Errorf("corner cell should have exactly 2 in-bounds neighbours, got %d", len(ns))
	}

	ns = Neighbors4(2, 2, 4, 4)
	if len(ns) != 4 {
		tst.Errorf("interior cell should have 4 neighbours, got %d", len(ns))
	}
}

func Test_canvas04_import_blockage(tst *testing.T) {

	chk.PrintTitle("canvas. import blockage stamps cells")

	c := New(5, 5)
	cells := []geom.Pt{{1, 1}, {1, 2}, {1, 3}}
	c.ImportBlockage(cells, signaltype.OBSTACLE)
	if c.Count(signaltype.OBSTACLE) != 3 {
		tst.Errorf("expected 3 OBSTACLE cells, got %d", c.Count(signaltype.OBSTACLE))
	}
}
