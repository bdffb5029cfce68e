// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package oracle

import "github.com/cpmech/gosl/chk"

// SimplexLP is a reference, in-process Lp: a two-phase dense primal
// simplex. No library in the retrieved corpus ships a linear-program
// solver, so this is a plain-Go implementation — the one concern
// SPEC_FULL.md's Design Notes call out as having no third-party home.
// mcf's per-component flow LPs are small (tens to low hundreds of
// edges), so a dense tableau is adequate; nothing here is meant to
// scale to FEM-sized systems, which go through oracle.Ksp instead.
type SimplexLP struct {
	MaxIter int // 0 selects a generous default
}

const simplexEps = 1e-9

// Solve minimises c·x subject to A x = b, x >= 0, via two-phase
// simplex with Bland's rule to avoid cycling.
func (s SimplexLP) Solve(a [][]float64, b, c []float64) ([]float64, error) {
	m := len(a)
	if m == 0 {
		return nil, chk.Err("oracle: SimplexLP: empty constraint matrix")
	}
	n := len(a[0])
	if len(b) != m || len(c) != n {
		return nil, chk.Err("oracle: SimplexLP: dimension mismatch (A is %dx%d, b has %d, c has %d)", m, n, len(b), len(c))
	}
	maxIter := s.MaxIter
	if maxIter <= 0 {
		maxIter = 5000
	}

	// normalise every row to b_i >= 0
	rows := make([][]float64, m)
	rb := make([]float64, m)
	for i := 0; i < m; i++ {
		row := append([]float64(nil), a[i]...)
		bi := b[i]
		if bi < 0 {
			for j := range row {
				row[j] = -row[j]
			}
			bi = -bi
		}
		rows[i] = row
		rb[i] = bi
	}

	// phase 1 tableau: [rows | I_m | rb], minimise sum of artificials
	totalCols := n + m
	tab := make([][]float64, m+1)
	for i := 0; i < m; i++ {
		r := make([]float64, totalCols+1)
		copy(r, rows[i])
		r[n+i] = 1
		r[totalCols] = rb[i]
		tab[i] = r
	}
	basis := make([]int, m)
	for i := range basis {
		basis[i] = n + i
	}

	objRow := func(costs []float64) []float64 {
		r := make([]float64, totalCols+1)
		copy(r, costs)
		// reduced-cost row z_j - c_j, starting as -c (maximise -cost via min)
		for j := range r {
			r[j] = -r[j]
		}
		for i := 0; i < m; i++ {
			cb := costs[basis[i]]
			if cb == 0 {
				continue
			}
			for j := 0; j <= totalCols; j++ {
				r[j] += cb * tab[i][j]
			}
		}
		return r
	}

	phase1Cost := make([]float64, totalCols+1)
	for i := 0; i < m; i++ {
		phase1Cost[n+i] = 1
	}
	tab[m] = objRow(phase1Cost[:totalCols])

	if err := pivotToOptimum(tab, basis, totalCols, maxIter); err != nil {
		return nil, err
	}
	if tab[m][totalCols] > simplexEps {
		return nil, chk.Err("oracle: SimplexLP: infeasible (phase 1 objective %.6g > 0)", tab[m][totalCols])
	}

	// drop artificial columns, rebuild phase-2 objective over original costs
	fullC := make([]float64, totalCols)
	copy(fullC, c)
	tab[m] = objRow(fullC)
	for j := n; j < totalCols; j++ {
		tab[m][j] = 0
	}

	if err := pivotToOptimum(tab, basis, totalCols, maxIter); err != nil {
		return nil, err
	}

	x := make([]float64, n)
	for i, bj := range basis {
		if bj < n {
			x[bj] = tab[i][totalCols]
		}
	}
	return x, nil
}

// pivotToOptimum runs the simplex method (Bland's rule: smallest-index
// entering/leaving variable) on tab[0..m-1] with objective row tab[m]
// until no improving column remains or maxIter is exhausted.
func pivotToOptimum(tab [][]float64, basis []int, totalCols, maxIter int) error {
	m := len(basis)
	for iter := 0; iter < maxIter; iter++ {
		enter := -1
		for j := 0; j < totalCols; j++ {
			if tab[m][j] < -simplexEps {
				enter = j
				break
			}
		}
		if enter == -1 {
			return nil
		}
		leave := -1
		best := 0.0
		for i := 0; i < m; i++ {
			if tab[i][enter] > simplexEps {
				ratio := tab[i][totalCols] / tab[i][enter]
				if leave == -1 || ratio < best-simplexEps || (ratio < best+simplexEps && basis[i] < basis[leave]) {
					leave = i
					best = ratio
				}
			}
		}
		if leave == -1 {
			return chk.Err("oracle: SimplexLP: unbounded")
		}
		pivot := tab[leave][enter]
		for j := 0; j <= totalCols; j++ {
			tab[leave][j] /= pivot
		}
		for i := 0; i <= m; i++ {
			if i == leave {
				continue
			}
			factor := tab[i][enter]
			if factor == 0 {
				continue
			}
			for j := 0; j <= totalCols; j++ {
				tab[i][j] -= factor * tab[leave][j]
			}
		}
		basis[leave] = enter
	}
	return chk.Err("oracle: SimplexLP: exceeded %d iterations", maxIter)
}
