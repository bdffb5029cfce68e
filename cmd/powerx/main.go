// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command powerx is the synthesis tool's single entry point: parse a
// .pinout/.tch pair, run the chosen pipeline, and emit netlist and
// visualiser artefacts to an output directory — the PowerX analogue of
// gofem's own main.go, minus mpi (PowerX has no partitioned-domain
// parallelism to start/stop) and minus the profiling flag (there is no
// time-stepping loop to profile).
package main

import (
	"flag"
	"os"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/hankshyu/PowerX-sub000/astarbaseline"
	"github.com/hankshyu/PowerX-sub000/engine"
	"github.com/hankshyu/PowerX-sub000/pinout"
	"github.com/hankshyu/PowerX-sub000/signaltype"
	"github.com/hankshyu/PowerX-sub000/substrate"
)

func main() {

	pipelineFlag := flag.String("pipeline", "diffusion", "synthesis pipeline: diffusion or voronoi")
	outDir := flag.String("out", ".", "output directory for netlist and visualiser dumps")
	netPrefix := flag.String("netprefix", "pdn", "sub-circuit name prefix for emitted netlists")
	baseline := flag.Bool("baseline", false, "run the A* baseline router instead of a full pipeline")
	techPath := flag.String("tech", "", "technology (.tch) file, required unless -baseline is set")

	defer func() {
		if err := recover(); err != nil {
			chk.Verbose = true
			for i := 8; i > 3; i-- {
				chk.CallerInfo(i)
			}
			io.PfRed("ERROR: %v\n", err)
			panic(err)
		}
	}()

	flag.Parse()
	if len(flag.Args()) < 1 {
		chk.Panic("Please, provide a .pinout file. Ex.: chip.pinout")
	}
	pinoutPath := flag.Arg(0)

	io.PfWhite("\nPowerX -- power distribution network synthesis\n\n")

	if *baseline {
		runBaseline(pinoutPath)
		return
	}

	cfg, err := engine.LoadConfig(pinoutPath, *techPath, *outDir)
	if err != nil {
		io.PfRed("ERROR: %v\n", err)
		os.Exit(4)
	}
	cfg.NetPrefix = *netPrefix
	if *pipelineFlag == "voronoi" {
		cfg.Pipeline = engine.PipelineVoronoi
	}

	res, err := engine.Run(cfg)
	if err != nil {
		chk.Panic("%v", err)
	}
	io.Pf("synthesis done: %d metal layer(s), %d via layer(s)\n", len(res.Sub.Metal), len(res.Sub.Via))
	for sig, n := range res.CellsFilled {
		io.Pf("  filler claimed %d empty cell(s) for %s\n", n, sig.String())
	}
}

// runBaseline exercises astarbaseline.Route directly on every metal
// layer of the parsed substrate, skipping the Voronoi/diffusion
// pipelines and filler entirely — a legal but lower-quality assignment.
func runBaseline(pinoutPath string) {
	pcfg, err := pinout.Parse(pinoutPath)
	if err != nil {
		chk.Panic("%v", err)
	}
	sub, err := substrate.Build(pcfg)
	if err != nil {
		chk.Panic("%v", err)
	}
	signals := presentPowerSignals(sub)
	for l, mc := range sub.Metal {
		if err := astarbaseline.Route(mc, signals); err != nil {
			io.Pfred("baseline layer %d: %v\n", l, err)
		}
	}
	io.Pf("baseline routing done on %d metal layer(s)\n", len(sub.Metal))
}

// presentPowerSignals scans every metal layer for power signals already
// placed there, mirroring engine.presentPowerSignals (unexported, and
// this command needs it ahead of any pipeline run).
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
