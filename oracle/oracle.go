// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package oracle defines the two external-solver seams the synthesis
// pipelines call through: a linear-program oracle
// for the diffusion pipeline's multi-commodity-flow solve, and a
// sparse-Cholesky oracle for the filler's per-signal Laplacian systems.
// Both are interfaces so fem/inp-style callers can be swapped for a
// faster external LP/solver without touching pipeline code, the same
// seam fem.Solver gives the FEM time-integration loop.
package oracle

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
)

// Lp is a linear-program oracle in standard equality form: minimise
// c·x subject to A x = b, x >= 0. mcf.Solve builds one row per node in
// a component's candidate subgraph (flow conservation: +1 supply at
// the source cell, -1 demand at the target) and one column per
// directed edge, then traces the resulting unit flow back into a path.
type Lp interface {
	Solve(a [][]float64, b, c []float64) (x []float64, err error)
}

// Ksp is a sparse linear-system oracle: solve K x = f for a symmetric
// positive-definite K. The filler package assembles one Laplacian per
// signal and resolves it through this interface every gain-heuristic
// iteration.
type Ksp interface {
	Solve(k *la.Triplet, f []float64) (x []float64, err error)
}

// CholeskySolver is the in-process Ksp backed by gosl/la's sparse
// solver registry — the same la.GetSolver seam fem.Solver uses to pick
// between "umfpack" and "mumps".
type CholeskySolver struct {
	// SolverKind names the registered gosl/la solver ("umfpack" by
	// default); left empty it falls back to gosl's own default.
	SolverKind string
}

// Solve factorises k and resolves x from f via gosl/la's direct sparse
// solver, mirroring the Init/Fact/Solve/Free life-cycle fem.Domain
// drives its own o.LinSol through every time step.
func (c CholeskySolver) Solve(k *la.Triplet, f []float64) ([]float64, error) {
	n := len(f)
	kind := c.SolverKind
	if kind == "" {
		kind = "umfpack"
	}
	lis := la.GetSolver(kind)
	defer lis.Free()
	symPosDef := true
	verbose := false
	if err := lis.Init(k, symPosDef, verbose, ""); err != nil {
		return nil, chk.Err("oracle: solver init failed: %v", err)
	}
	if err := lis.Fact(); err != nil {
		return nil, chk.Err("oracle: factorisation failed: %v", err)
	}
	x := make([]float64, n)
	if err := lis.Solve(x, f, false); err != nil {
		return nil, chk.Err("oracle: solve failed: %v", err)
	}
	return x, nil
}
