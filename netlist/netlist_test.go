// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package netlist

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

func Test_netlist01_writes_one_file_per_signal(tst *testing.T) {
	chk.PrintTitle("netlist. WriteSubCircuits emits one .sp file per signal")

	u := bumpmap.New("u", 3, 1)
	c := bumpmap.New("c", 3, 1)
	bumps, err := bumpmap.NewBumps(u, c, nil)
	if err != nil {
		tst.Fatalf("NewBumps: %v", err)
	}
	sub := &substrate.Substrate{
		GridWidth: 3, GridHeight: 1,
		Metal: []*canvas.Canvas{canvas.New(3, 1)},
		Bumps: bumps,
	}
	sub.Metal[0].Set(0, 0, signaltype.POWER_1)
	sub.Metal[0].Set(1, 0, signaltype.POWER_1)

	d := diffusion.Build(sub)
	dir := tst.TempDir()

	if err := WriteSubCircuits(dir, "pdn", d, sub, nil, []signaltype.SignalType{signaltype.POWER_1}); err != nil {
		tst.Fatalf("WriteSubCircuits: %v", err)
	}
	path := filepath.Join(dir, "pdn_POWER_1.sp")
	data, err := os.ReadFile(path)
	if err != nil {
		tst.Fatalf("expected %s to exist: %v", path, err)
	}
	if len(data) == 0 {
		tst.Errorf("expected non-empty sub-circuit file")
	}
}
