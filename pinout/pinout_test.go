// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pinout

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/hankshyu/PowerX-sub000/geom"
	"github.com/hankshyu/PowerX-sub000/signaltype"
)

func write(tst *testing.T, dir, name, contents string) string {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		tst.Fatalf("cannot write %q: %v", name, err)
	}
	return path
}

func Test_pinout01_full_parse(tst *testing.T) {
	chk.PrintTitle("pinout. composite .pinout file end-to-end parse")

	dir := tst.TempDir()

	ballout3x3 := "BEGIN_CHIPLET chip 3 3\n" +
		"A1,POWER_1 A2,POWER_1 A3,POWER_1\n" +
		"B1,POWER_1 B2,POWER_1 B3,POWER_1\n" +
		"C1,POWER_1 C2,POWER_1 C3,POWER_1\n"
	write(tst, dir, "chip.ballout", ballout3x3)
	write(tst, dir, "c4chip.ballout", ballout3x3)

	write(tst, dir, "metal0.blk", "BEGIN_PREPLACE\nSIGNAL: GROUND\nCord(0, 0)\nEND_PREPLACE\n")

	pin := "TECHNOLOGY_BEGIN\n" +
		"GRID_WIDTH = 2\n" +
		"GRID_HEIGHT = 2\n" +
		"PIN_WIDTH = 3\n" +
		"PIN_HEIGHT = 3\n" +
		"LAYERS = 2\n" +
		"TECHNOLOGY_END\n" +
		"PDN_PREPLACE_START\n" +
		"METAL_LAYER 0 \"metal0.blk\"\n" +
		"PDN_PREPLACE_END\n" +
		"MICROBUMP_START\n" +
		"include \"chip.ballout\"\n" +
		"CHIPLET chip inst0 R0 (0, 0)\n" +
		"MICROBUMP_END\n" +
		"C4_START\n" +
		"C4_WIDTH = 1\n" +
		"C4_HEIGHT = 1\n" +
		"C4_PITCH_WIDTH = 1\n" +
		"C4_PITCH_HEIGHT = 1\n" +
		"C4_COUNT_WIDTH = 3\n" +
		"C4_COUNT_HEIGHT = 3\n" +
		"C4_LEFT_BORDER = 0\n" +
		"C4_RIGHT_BORDER = 0\n" +
		"C4_DOWN_BORDER = 0\n" +
		"C4_UP_BORDER = 0\n" +
		"include \"c4chip.ballout\"\n" +
		"C4_END\n"
	path := write(tst, dir, "top.pinout", pin)

	cfg, err := Parse(path)
	if err != nil {
		tst.Fatalf("Parse failed: %v", err)
	}
	if cfg.Tech.ViaLayerCount != 1 {
		tst.Errorf("expected 1 via layer, got %d", cfg.Tech.ViaLayerCount)
	}
	if cfg.MetalBlockages[0] == nil || cfg.MetalBlockages[0].ByCord[geom.Pt{X: 0, Y: 0}] != signaltype.GROUND {
		tst.Errorf("expected metal layer 0 preplace blockage to mark (0,0) GROUND")
	}
	if cfg.Bumps.UBump.Get(1, 1) != signaltype.POWER_1 {
		tst.Errorf("expected uBump chiplet to be placed at origin")
	}
	if cfg.Bumps.C4.Get(1, 1) != signaltype.POWER_1 {
		tst.Errorf("expected C4 cluster grid to be fully populated")
	}
	if len(cfg.Bumps.Chiplets) != 1 {
		tst.Errorf("expected 1 chiplet instance, got %d", len(cfg.Bumps.Chiplets))
	}
}
