// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package netlist emits SPICE equivalent-circuit sub-circuits: one `.sp`
// sub-circuit per power signal, instantiating pcb/c4/tsv/ubump
// sub-circuits by name only (their definitions and element values are
// not emitted), plus one R/L pair per occupied metal-layer edge and one
// RT/LT pair per occupied via site, walked layer by layer, then y, then
// x for deterministic output, building the whole sub-circuit in a buffer
// before a single io.WriteFileV call.
package netlist

import (
	"bytes"

	"github.com/cpmech/gosl/io"

	"github.com/hankshyu/PowerX-sub000/diffusion"
	"github.com/hankshyu/PowerX-sub000/signaltype"
	"github.com/hankshyu/PowerX-sub000/substrate"
	"github.com/hankshyu/PowerX-sub000/techfile"
)

// WriteSubCircuits emits one <dir>/<netPrefix>_<signal>.sp file per
// power signal present in signals, each instantiating the pcb/c4/tsv/
// ubump sub-circuits by name (tech does not feed them; it only supplies
// the metal and via R/L values) and the per-edge equivalent RL network
// extracted from d/sub.
func WriteSubCircuits(dir, netPrefix string, d *diffusion.Graph, sub *substrate.Substrate, tech *techfile.Technology, signals []signaltype.SignalType) error {
	for _, sig := range signals {
		var buf bytes.Buffer
		writeHeader(&buf, sig, tech)
		writeMetalEdges(&buf, d, sub, sig, tech)
		writeViaSites(&buf, d, sub, sig, tech)
		io.Ff(&buf, ".ENDS\n")
		path := io.Sf("%s/%s_%s.sp", dir, netPrefix, sig.String())
		io.WriteFileV(path, &buf)
	}
	return nil
}

func writeHeader(buf *bytes.Buffer, sig signaltype.SignalType, tech *techfile.Technology) {
	io.Ff(buf, "* equivalent circuit for %s\n", sig.String())
	io.Ff(buf, ".SUBCKT %s_NET IN OUT\n", sig.String())
	io.Ff(buf, "XPCB pcb_in pcb_out PCB_SUBCKT\n")
	io.Ff(buf, "XC4 c4_in c4_out C4_SUBCKT\n")
	io.Ff(buf, "XTSV tsv_in tsv_out TSV_SUBCKT\n")
	io.Ff(buf, "XUBUMP ubump_in ubump_out UBUMP_SUBCKT\n")
}

func metalRL(tech *techfile.Technology) (r, l float64) {
	r, l = 1e-3, 1e-12
	if tech != nil {
		if v, ok := tech.Params["METAL_RESISTIVITY"]; ok {
			r = v
		}
		if v, ok := tech.Params["METAL_INDUCTANCE"]; ok {
			l = v
		}
	}
	return
}

func viaRL(tech *techfile.Technology) (r, l float64) {
	r, l = 1e-2, 1e-11
	if tech != nil {
		if v, ok := tech.Params["VIA_RESISTIVITY"]; ok {
			r = v
		}
		if v, ok := tech.Params["VIA_INDUCTANCE"]; ok {
			l = v
		}
	}
	return
}

// writeMetalEdges walks every metal layer, then y, then x (layer-major)
// emitting one R/L pair for each occupied cell's link to its east and
// north same-signal neighbours, so every edge appears exactly once.
func writeMetalEdges(buf *bytes.Buffer, d *diffusion.Graph, sub *substrate.Substrate, sig signaltype.SignalType, tech *techfile.Technology) {
	r, l := metalRL(tech)
	n := 0
	for ly, mc := range sub.Metal {
		for y := 0; y < mc.H; y++ {
			for x := 0; x < mc.W; x++ {
				c := d.MetalAt(ly, x, y)
				if c.Signal != sig || !occupied(c.Kind) {
					continue
				}
				for _, dd := range [][2]int{{1, 0}, {0, 1}} {
					nx, ny := x+dd[0], y+dd[1]
					if nx >= mc.W || ny >= mc.H {
						continue
					}
					nc := d.MetalAt(ly, nx, ny)
					if nc.Signal != sig || !occupied(nc.Kind) {
						continue
					}
					io.Ff(buf, "R%d n_%d_%d_%d n_%d_%d_%d %.6g\n", n, ly, x, y, ly, nx, ny, r)
					io.Ff(buf, "L%d n_%d_%d_%d_l n_%d_%d_%d %.6g\n", n, ly, x, y, ly, nx, ny, l)
					n++
				}
			}
		}
	}
}

// writeViaSites walks every via layer, then y, then x, emitting one RT/LT
// pair per occupied via site linking its two bracketing metal layers.
func writeViaSites(buf *bytes.Buffer, d *diffusion.Graph, sub *substrate.Substrate, sig signaltype.SignalType, tech *techfile.Technology) {
	r, l := viaRL(tech)
	n := 0
	for vl, vc := range sub.Via {
		for y := 0; y < vc.H; y++ {
			for x := 0; x < vc.W; x++ {
				c := d.ViaAt(vl, x, y)
				if c.Signal != sig || !occupied(c.Kind) {
					continue
				}
				io.Ff(buf, "RT%d n_via_%d_%d_%d n_%d_%d_%d %.6g\n", n, vl, x, y, vl, x, y, r)
				io.Ff(buf, "LT%d n_via_%d_%d_%d_l n_%d_%d_%d %.6g\n", n, vl, x, y, vl+1, x, y, l)
				n++
			}
		}
	}
}

func occupied(k diffusion.CellKind) bool {
	return k == diffusion.KindPreplaced || k == diffusion.KindMarked
}
