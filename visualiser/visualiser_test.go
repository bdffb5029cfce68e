// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package visualiser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/hankshyu/PowerX-sub000/bumpmap"
	"github.com/hankshyu/PowerX-sub000/canvas"
	"github.com/hankshyu/PowerX-sub000/diffusion"
	"github.com/hankshyu/PowerX-sub000/signaltype"
	"github.com/hankshyu/PowerX-sub000/substrate"
)

func smallSub(tst *testing.T) *substrate.Substrate {
	u := bumpmap.New("u", 2, 2)
	c := bumpmap.New("c", 2, 2)
	bumps, err := bumpmap.NewBumps(u, c, nil)
	if err != nil {
		tst.Fatalf("NewBumps: %v", err)
	}
	return &substrate.Substrate{
		GridWidth: 2, GridHeight: 2,
		Metal: []*canvas.Canvas{canvas.New(2, 2)},
		Via:   []*canvas.Canvas{canvas.New(3, 3)},
		Bumps: bumps,
	}
}

func Test_visualiser01_grid_pin_dump_has_count_header(tst *testing.T) {
	chk.PrintTitle("visualiser. GRID_PIN dump carries an explicit count header")

	sub := smallSub(tst)
	sub.Metal[0].Set(0, 0, signaltype.POWER_1)
	path := filepath.Join(tst.TempDir(), "grid.txt")

	DumpGridPinVisualisation(path, sub)
	data, err := os.ReadFile(path)
	if err != nil {
		tst.Fatalf("ReadFile: %v", err)
	}
	if len(data) == 0 {
		tst.Fatalf("expected non-empty dump")
	}
}

func Test_visualiser02_diffusion_dump_covers_metal_and_via(tst *testing.T) {
	chk.PrintTitle("visualiser. DiffusionEngineMetalAndVia dumps both layers")

	sub := smallSub(tst)
	d := diffusion.Build(sub)
	path := filepath.Join(tst.TempDir(), "diff.txt")

	DumpDiffusionEngineMetalAndVia(path, d, sub)
	data, err := os.ReadFile(path)
	if err != nil {
		tst.Fatalf("ReadFile: %v", err)
	}
	if len(data) == 0 {
		tst.Fatalf("expected non-empty dump")
	}
}
