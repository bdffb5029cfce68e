// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package engine wires the full PowerX synthesis run — substrate
// assembly, pipeline selection (Voronoi or Diffusion/MCF), filler
// refinement, and netlist/visualiser export — mirroring fem.Main's
// single entry point over inp.Simulation/fem.Domain.
package engine

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/hankshyu/PowerX-sub000/diffusion"
	"github.com/hankshyu/PowerX-sub000/filler"
	"github.com/hankshyu/PowerX-sub000/mcf"
	"github.com/hankshyu/PowerX-sub000/netlist"
	"github.com/hankshyu/PowerX-sub000/oracle"
	"github.com/hankshyu/PowerX-sub000/pinout"
	"github.com/hankshyu/PowerX-sub000/signaltype"
	"github.com/hankshyu/PowerX-sub000/substrate"
	"github.com/hankshyu/PowerX-sub000/techfile"
	"github.com/hankshyu/PowerX-sub000/visualiser"
	"github.com/hankshyu/PowerX-sub000/voronoi"
)

// Pipeline selects which of the two alternative PDN synthesis
// strategies a Run executes.
type Pipeline int

const (
	PipelineDiffusion Pipeline = iota
	PipelineVoronoi
)

// Hyperparams bundles every pipeline's tunables into one run-level
// configuration, loaded the way inp.Simulation loads solver/element
// hyperparameters from the .sim file.
type Hyperparams struct {
	Filler  filler.Hyperparams
	Voronoi voronoi.Hyperparams
	MCF     mcf.Hyperparams
}

// DefaultHyperparams mirrors each sub-package's own defaults.
var DefaultHyperparams = Hyperparams{
	Filler:  filler.DefaultHyperparams,
	Voronoi: voronoi.DefaultHyperparams,
	MCF:     mcf.DefaultHyperparams,
}

// Config is one synthesis run's full input: the parsed .pinout
// configuration, technology parameters, pipeline choice and
// hyperparameters, plus the output directory for netlist/visualiser
// artefacts.
type Config struct {
	Pinout      *pinout.Config
	Tech        *techfile.Technology
	Pipeline    Pipeline
	Hyperparams Hyperparams
	OutDir      string
	NetPrefix   string
	Ksp         oracle.Ksp
	Lp          oracle.Lp
}

// LoadConfig parses a .pinout file and a .tch technology file into a
// ready-to-run Config, defaulting the KSP oracle to CholeskySolver and
// the Diffusion/MCF/Filler pipeline, the same "construct once from
// disk" pattern inp.ReadSim follows for fem.Main.
func LoadConfig(pinoutPath, techPath, outDir string) (*Config, error) {
	pcfg, err := pinout.Parse(pinoutPath)
	if err != nil {
		return nil, chk.Err("engine: cannot parse pinout file: %v", err)
	}
	tech, err := techfile.Parse(techPath)
	if err != nil {
		return nil, chk.Err("engine: cannot parse technology file: %v", err)
	}
	return &Config{
		Pinout:      pcfg,
		Tech:        tech,
		Pipeline:    PipelineDiffusion,
		Hyperparams: DefaultHyperparams,
		OutDir:      outDir,
		NetPrefix:   "pdn",
		Ksp:         oracle.CholeskySolver{},
		Lp:          oracle.SimplexLP{},
	}, nil
}

// Result summarises one completed Run, for callers (cmd/powerx, tests)
// that want to assert on outcomes without re-walking the substrate.
type Result struct {
	Sub        *substrate.Substrate
	Diff       *diffusion.Graph
	CellsFilled map[signaltype.SignalType]int
}

// Run executes cfg.Pipeline end to end: substrate assembly, the chosen
// synthesis pipeline, filler refinement of whatever remains EMPTY, and
// netlist/visualiser export — fem.Main's NewMain+Run rolled into one
// call since PowerX has no time-stepping loop to separate them from.
func Run(cfg *Config) (*Result, error) {
	sub, err := substrate.Build(cfg.Pinout)
	if err != nil {
		return nil, chk.Err("engine: substrate.Build: %v", err)
	}

	signals := presentPowerSignals(sub)

	switch cfg.Pipeline {
	case PipelineVoronoi:
		if err := runVoronoiPipeline(sub, signals, cfg.Hyperparams.Voronoi); err != nil {
			return nil, err
		}
	default:
		if err := runDiffusionPipeline(sub, signals, cfg.Lp); err != nil {
			return nil, err
		}
	}

	d := diffusion.Build(sub)
	d.InitialiseIndexing()

	filled := make(map[signaltype.SignalType]int, len(signals))
	totalEmpty := countEmpty(sub)
	for _, sig := range signals {
		n, drops, err := filler.Run(d, sub, sig, cfg.Tech, cfg.Hyperparams.Filler, cfg.Ksp, totalEmpty)
		if err != nil {
			return nil, chk.Err("engine: filler.Run(%s): %v", sig, err)
		}
		filled[sig] = n
		if cfg.OutDir != "" && len(drops) > 0 {
			visualiser.DumpPressureSimulatorDrop(cfg.OutDir+"/"+sig.String()+"_drop.txt", sig, drops)
		}
	}
	d.InitialiseIndexing()

	for name, frac := range mcf.ChipletCoverage(sub, cfg.Pinout.Bumps.Chiplets) {
		if frac < cfg.Hyperparams.MCF.MustRouteBudgetMin {
			io.Pfred("engine: chiplet %q must-route coverage %.2f below budget %.2f\n", name, frac, cfg.Hyperparams.MCF.MustRouteBudgetMin)
		}
	}

	if cfg.OutDir != "" {
		if err := netlist.WriteSubCircuits(cfg.OutDir, cfg.NetPrefix, d, sub, cfg.Tech, signals); err != nil {
			io.Pfred("engine: netlist export failed: %v\n", err)
		}
		visualiser.DumpDiffusionEngineMetalAndVia(cfg.OutDir+"/diffusion.txt", d, sub)
		visualiser.DumpGridPinVisualisation(cfg.OutDir+"/grid.txt", sub)
	}

	return &Result{Sub: sub, Diff: d, CellsFilled: filled}, nil
}

// runDiffusionPipeline builds the diffusion substrate, labels
// components, fills enclosed regions and half-occupied pins, then
// claims the remaining empty cells via mcf.
func runDiffusionPipeline(sub *substrate.Substrate, signals []signaltype.SignalType, lp oracle.Lp) error {
	d := diffusion.Build(sub)
	d.InitialiseIndexing()
	d.FillEnclosedRegions()
	if err := d.MarkHalfOccupiedMetalsAndPins(); err != nil {
		return chk.Err("engine: MarkHalfOccupiedMetalsAndPins: %v", err)
	}
	d.InitialiseIndexing()

	for l, mc := range sub.Metal {
		mc.ForEach(func(x, y int, s signaltype.SignalType) {
			if c := d.MetalAt(l, x, y); c.Kind == diffusion.KindMarked {
				mc.Set(x, y, c.Signal)
			}
		})
	}
	for vl, vc := range sub.Via {
		vc.ForEach(func(x, y int, s signaltype.SignalType) {
			if c := d.ViaAt(vl, x, y); c.Kind == diffusion.KindMarked {
				vc.Set(x, y, c.Signal)
			}
		})
	}

	fg := mcf.Build(d, sub)
	assign := mcf.Solve(fg, signals, lp)
	for k, sig := range assign {
		if k.Via {
			sub.Via[k.Layer].Set(k.X, k.Y, sig)
		} else {
			sub.Metal[k.Layer].Set(k.X, k.Y, sig)
		}
	}
	return nil
}

// runVoronoiPipeline runs the full lettered Voronoi synthesis pass —
// per-layer routing/rasterisation, cross-layer via insertion, legalise
// and reconnect, and the final cross-layer stacking enhancement —
// across every metal layer in sub.
func runVoronoiPipeline(sub *substrate.Substrate, signals []signaltype.SignalType, hp voronoi.Hyperparams) error {
	voronoi.RunPipeline(sub, signals, hp)
	return nil
}

func presentPowerSignals(sub *substrate.Substrate) []signaltype.SignalType {
	present := make(map[signaltype.SignalType]bool)
	for _, mc := range sub.Metal {
		mc.ForEach(func(x, y int, s signaltype.SignalType) {
			if s.IsPower() {
				present[s] = true
			}
		})
	}
	var out []signaltype.SignalType
	for _, s := range signaltype.PowerSignalSet {
		if present[s] {
			out = append(out, s)
		}
	}
	return out
}

func countEmpty(sub *substrate.Substrate) int {
	n := 0
	for _, mc := range sub.Metal {
		mc.ForEach(func(x, y int, s signaltype.SignalType) {
			if s == signaltype.EMPTY {
				n++
			}
		})
	}
	return n
}
