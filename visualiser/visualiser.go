// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package visualiser writes line-oriented text dumps: an explicit count
// header followed by one record per line, structurally compatible with
// upstream renderers without being byte-exact — the same VTU/PVD
// emission style gofem's own `out` package uses (buffer, then a single
// WriteFileV).
package visualiser

import (
	"bytes"
	"path/filepath"

	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/plt"

	"github.com/hankshyu/PowerX-sub000/diffusion"
	"github.com/hankshyu/PowerX-sub000/geom"
	"github.com/hankshyu/PowerX-sub000/signaltype"
	"github.com/hankshyu/PowerX-sub000/substrate"
)

// Debug gates the optional plt-backed renderers below, the same
// commented-out-by-default convention fem/t_diffu_test.go follows for
// its plt.Plot calls.
var Debug = false

// DumpGridPinVisualisation writes one line per metal-layer cell:
// "x y layer signal", preceded by a count header — the
// "GRID_PIN VISUALISATION" family.
func DumpGridPinVisualisation(path string, sub *substrate.Substrate) {
	var buf bytes.Buffer
	total := 0
	for _, mc := range sub.Metal {
		total += mc.W * mc.H
	}
	io.Ff(&buf, "GRID_PIN_VISUALISATION %d\n", total)
	for l, mc := range sub.Metal {
		mc.ForEach(func(x, y int, s signaltype.SignalType) {
			io.Ff(&buf, "%d %d %d %s\n", x, y, l, s.String())
		})
	}
	io.WriteFileV(path, &buf)
}

// DumpPinGridPinVisualisation writes the via-grid analogue of
// DumpGridPinVisualisation: one line per via cell.
func DumpPinGridPinVisualisation(path string, sub *substrate.Substrate) {
	var buf bytes.Buffer
	total := 0
	for _, vc := range sub.Via {
		total += vc.W * vc.H
	}
	io.Ff(&buf, "PIN_GRID_PIN_VISUALISATION %d\n", total)
	for l, vc := range sub.Via {
		vc.ForEach(func(x, y int, s signaltype.SignalType) {
			io.Ff(&buf, "%d %d %d %s\n", x, y, l, s.String())
		})
	}
	io.WriteFileV(path, &buf)
}

// DumpVoronoiPointsSegments writes the POI/segment dump: one line per
// point "P x y signal", one line per segment "S x1 y1 x2 y2 signal".
type Point struct {
	P   geom.Pt
	Sig signaltype.SignalType
}

type SegmentRecord struct {
	A, B geom.Pt
	Sig  signaltype.SignalType
}

func DumpVoronoiPointsSegments(path string, points []Point, segments []SegmentRecord) {
	var buf bytes.Buffer
	io.Ff(&buf, "VORONOI_POINTS_SEGMENTS %d %d\n", len(points), len(segments))
	for _, p := range points {
		io.Ff(&buf, "P %d %d %s\n", p.P.X, p.P.Y, p.Sig.String())
	}
	for _, s := range segments {
		io.Ff(&buf, "S %d %d %d %d %s\n", s.A.X, s.A.Y, s.B.X, s.B.Y, s.Sig.String())
	}
	io.WriteFileV(path, &buf)
}

// DumpVoronoiPolygon writes one record per rasterised fragment: its
// bounding rectangle and owning signal.
func DumpVoronoiPolygon(path string, fragments []geom.Rect, sigs []signaltype.SignalType) {
	var buf bytes.Buffer
	io.Ff(&buf, "VORONOI_POLYGON %d\n", len(fragments))
	for i, r := range fragments {
		io.Ff(&buf, "%d %d %d %d %s\n", r.XL, r.YL, r.XH, r.YH, sigs[i].String())
	}
	io.WriteFileV(path, &buf)
}

// DumpPressureSimulatorDrop writes the filler's per-signal weighted-
// average-drop curve across cycles, one line per (cycle, drop) sample
// — the "PRESSURE_SIMULATOR_*" family.
func DumpPressureSimulatorDrop(path string, sig signaltype.SignalType, drops []float64) {
	var buf bytes.Buffer
	io.Ff(&buf, "PRESSURE_SIMULATOR_DROP %s %d\n", sig.String(), len(drops))
	for cycle, d := range drops {
		io.Ff(&buf, "%d %.6g\n", cycle, d)
	}
	io.WriteFileV(path, &buf)
	if Debug {
		plotDropCurve(path, sig, drops)
	}
}

// plotDropCurve renders the same curve DumpPressureSimulatorDrop writes
// as text, as a PNG alongside it, when Debug is set.
func plotDropCurve(path string, sig signaltype.SignalType, drops []float64) {
	cycles := make([]float64, len(drops))
	for i := range drops {
		cycles[i] = float64(i)
	}
	plt.Reset()
	plt.Plot(cycles, drops, "'b-'")
	plt.Gll("cycle", "weighted-avg drop", "")
	plt.SaveD(filepath.Dir(path), sig.String()+"_drop.png")
}

// DumpDiffusionEngineMetal writes one line per metal cell with its
// kind, signal and label.
func DumpDiffusionEngineMetal(path string, d *diffusion.Graph, sub *substrate.Substrate) {
	dumpDiffusion(path, "DiffusionEngineMetal", d, sub, true, false)
}

// DumpDiffusionEngineVia writes one line per via cell.
func DumpDiffusionEngineVia(path string, d *diffusion.Graph, sub *substrate.Substrate) {
	dumpDiffusion(path, "DiffusionEngineVia", d, sub, false, true)
}

// DumpDiffusionEngineMetalAndVia writes both families in one file.
func DumpDiffusionEngineMetalAndVia(path string, d *diffusion.Graph, sub *substrate.Substrate) {
	dumpDiffusion(path, "DiffusionEngineMetalAndVia", d, sub, true, true)
}

func dumpDiffusion(path, header string, d *diffusion.Graph, sub *substrate.Substrate, metal, via bool) {
	var buf bytes.Buffer
	total := 0
	if metal {
		for _, mc := range sub.Metal {
			total += mc.W * mc.H
		}
	}
	if via {
		for _, vc := range sub.Via {
			total += vc.W * vc.H
		}
	}
	io.Ff(&buf, "%s %d\n", header, total)
	if metal {
		for l, mc := range sub.Metal {
			for y := 0; y < mc.H; y++ {
				for x := 0; x < mc.W; x++ {
					c := d.MetalAt(l, x, y)
					io.Ff(&buf, "M %d %d %d %d %s %d\n", l, x, y, int(c.Kind), c.Signal.String(), c.Label)
				}
			}
		}
	}
	if via {
		for l, vc := range sub.Via {
			for y := 0; y < vc.H; y++ {
				for x := 0; x < vc.W; x++ {
					c := d.ViaAt(l, x, y)
					io.Ff(&buf, "V %d %d %d %d %s %d\n", l, x, y, int(c.Kind), c.Signal.String(), c.Label)
				}
			}
		}
	}
	io.WriteFileV(path, &buf)
}
