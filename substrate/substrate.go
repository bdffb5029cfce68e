// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package substrate assembles the metal/via canvas stack and bump maps
// parsed by pinout/ballout/techfile/blockage into the single working
// grid both synthesis pipelines operate on.
package substrate

import (
	"github.com/cpmech/gosl/chk"
	"github.com/hankshyu/PowerX-sub000/bumpmap"
	"github.com/hankshyu/PowerX-sub000/canvas"
	"github.com/hankshyu/PowerX-sub000/pinout"
	"github.com/hankshyu/PowerX-sub000/signaltype"
)

// Substrate is the fully assembled PDN working grid: one canvas per
// metal layer, one canvas per via layer (corner-adjacent to the metal
// grid, W+1 × H+1), and the uBump/C4 bump maps bracketing the stack.
type Substrate struct {
	GridWidth, GridHeight int
	Metal                 []*canvas.Canvas // len == MetalLayerCount
	Via                   []*canvas.Canvas // len == ViaLayerCount, (W+1)x(H+1)
	Bumps                 *bumpmap.Bumps
	UBumpLayer            int
	C4Layer               int
}

// Build assembles a Substrate from a parsed .pinout configuration:
// allocates every metal/via canvas, stamps preplaced blockages, then
// marks bump pads and derived obstacles per markPreplacedAndInsertPads
// and markObstaclesOnCanvas.
func Build(cfg *pinout.Config) (*Substrate, error) {
	s := &Substrate{
		GridWidth:  cfg.Tech.GridWidth,
		GridHeight: cfg.Tech.GridHeight,
		Metal:      make([]*canvas.Canvas, cfg.Tech.MetalLayerCount),
		Via:        make([]*canvas.Canvas, cfg.Tech.ViaLayerCount),
		Bumps:      cfg.Bumps,
		UBumpLayer: cfg.Tech.UBumpConnectedMetalLayerIdx,
		C4Layer:    cfg.Tech.C4ConnectedMetalLayerIdx,
	}
	for i := range s.Metal {
		s.Metal[i] = canvas.New(cfg.Tech.GridWidth, cfg.Tech.GridHeight)
	}
	for i := range s.Via {
		s.Via[i] = canvas.New(cfg.Tech.PinWidth, cfg.Tech.PinHeight)
	}

	for i, bs := range cfg.MetalBlockages {
		if bs == nil {
			continue
		}
		bs.Apply(s.Metal[i].Set)
	}
	for i, bs := range cfg.ViaBlockages {
		if bs == nil {
			continue
		}
		bs.Apply(s.Via[i].Set)
	}

	markPreplacedAndInsertPads(s)
	markObstaclesOnCanvas(s)
	return s, nil
}

// markPreplacedAndInsertPads projects the uBump/C4 bump maps onto the
// metal layers they connect to: every pin-grid cell (pinCanvas is
// (W+1)x(H+1), metal is WxH) propagates its signal onto the up-to-four
// metal cells sharing that corner, mirroring markPinPadsWithoutSignals
// and markPinPadsWithSignals. The same corner rule applies to every via
// layer's own preplaced cells, onto the metal layers straddling it.
func markPreplacedAndInsertPads(s *Substrate) {
	project := func(metal *canvas.Canvas, pin *bumpmap.BumpMap, avoidSignal bool) {
		for py := 0; py < pin.H; py++ {
			for px := 0; px < pin.W; px++ {
				st := pin.Get(px, py)
				if st == signaltype.EMPTY {
					continue
				}
				if avoidSignal && st == signaltype.SIGNAL {
					continue
				}
				for _, mc := range cornerCells(px, py, metal.W, metal.H) {
					metal.Set(mc.X, mc.Y, st)
				}
			}
		}
	}
	project(s.Metal[s.UBumpLayer], s.Bumps.UBump, false)
	project(s.Metal[s.C4Layer], s.Bumps.C4, false)

	for vl, vc := range s.Via {
		projectViaCorners(s.Metal[vl], vc)
		projectViaCorners(s.Metal[vl+1], vc)
	}
}

// projectViaCorners propagates every preplaced (non-EMPTY, non-OBSTACLE)
// via-grid cell's signal onto the up-to-four metal cells sharing that
// corner on metal, the via-layer counterpart of markPreplacedAndInsertPads'
// uBump/C4 projection.
func projectViaCorners(metal *canvas.Canvas, vc *canvas.Canvas) {
	vc.ForEach(func(px, py int, st signaltype.SignalType) {
		if st == signaltype.EMPTY || st == signaltype.OBSTACLE {
			return
		}
		for _, mc := range cornerCells(px, py, metal.W, metal.H) {
			metal.Set(mc.X, mc.Y, st)
		}
	})
}

type cellXY struct{ X, Y int }

// cornerCells returns the up-to-four metal cells sharing the pin-grid
// corner (px,py) on a metal canvas of the given dimensions.
func cornerCells(px, py, metalW, metalH int) []cellXY {
	var out []cellXY
	if px > 0 {
		if py > 0 {
			out = append(out, cellXY{px - 1, py - 1})
		}
		if py < metalH {
			out = append(out, cellXY{px - 1, py})
		}
	}
	if px < metalW {
		if py > 0 {
			out = append(out, cellXY{px, py - 1})
		}
		if py < metalH {
			out = append(out, cellXY{px, py})
		}
	}
	return out
}

// markObstaclesOnCanvas folds GROUND/SIGNAL/OVERLAP into OBSTACLE on
// every metal layer, the closed-world rule power layers operate under;
// via layers carry no such folding since they route every signal
// equally.
func markObstaclesOnCanvas(s *Substrate) {
	for _, m := range s.Metal {
		m.PreprocessPowerLayer()
	}
}

// Validate checks the layer-count/dimension invariants a Substrate must
// hold before any synthesis pipeline runs.
func (s *Substrate) Validate() error {
	if len(s.Metal) < 2 {
		return chk.Err("substrate: at least 2 metal layers required, got %d", len(s.Metal))
	}
	if len(s.Via) != len(s.Metal)-1 {
		return chk.Err("substrate: via layer count %d must be metal layer count - 1 (%d)", len(s.Via), len(s.Metal)-1)
	}
	for i, v := range s.Via {
		if v.W != s.GridWidth+1 || v.H != s.GridHeight+1 {
			return chk.Err("substrate: via layer %d has wrong dimensions %dx%d, want %dx%d", i, v.W, v.H, s.GridWidth+1, s.GridHeight+1)
		}
	}
	return nil
}
