// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

import "sort"

// PolySet is a rectilinear polygon set represented as a normalised slice
// of non-overlapping Rects, with no dependency on any general polygon
// clipping library. Boolean operations are implemented by coordinate
// compression into a boolean membership grid followed by maximal
// rectangle re-tiling — exact on integer coordinates.
type PolySet struct {
	Rects []Rect
}

// NewPolySet normalises an arbitrary (possibly overlapping) set of rects
// into a PolySet by unioning them.
func NewPolySet(rects ...Rect) PolySet {
	return unionAll(rects)
}

// Empty reports whether the set covers no area.
func (p PolySet) Empty() bool { return len(p.Rects) == 0 }

// Area returns the total area of the set (its members are disjoint by
// construction so this is a plain sum).
func (p PolySet) Area() int {
	total := 0
	for _, r := range p.Rects {
		total += r.Area()
	}
	return total
}

// Perimeter returns the total outer+inner perimeter of the set — computed
// as the boundary length of the membership grid, which is correct even
// across disjoint rectangle tiles.
func (p PolySet) Perimeter() int {
	grid, xs, ys := p.membershipGrid()
	perim := 0
	nx, ny := len(xs)-1, len(ys)-1
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			if !grid[j][i] {
				continue
			}
			w := xs[i+1] - xs[i]
			h := ys[j+1] - ys[j]
			if i == 0 || !grid[j][i-1] {
				perim += h
			}
			if i == nx-1 || !grid[j][i+1] {
				perim += h
			}
			if j == 0 || !grid[j-1][i] {
				perim += w
			}
			if j == ny-1 || !grid[j+1][i] {
				perim += w
			}
		}
	}
	return perim
}

// BoundingBox returns the minimal rectangle covering the set.
func (p PolySet) BoundingBox() (Rect, bool) {
	if len(p.Rects) == 0 {
		return Rect{}, false
	}
	bb := p.Rects[0]
	for _, r := range p.Rects[1:] {
		bb = bb.BoundingBox(r)
	}
	return bb, true
}

// Contains reports whether p contains point q.
func (ps PolySet) Contains(q Pt) bool {
	for _, r := range ps.Rects {
		if q.X >= r.XL && q.X < r.XH && q.Y >= r.YL && q.Y < r.YH {
			return true
		}
	}
	return false
}

// Union returns the union of p and o.
func (p PolySet) Union(o PolySet) PolySet {
	return booleanOp(p, o, func(a, b bool) bool { return a || b })
}

// Intersect returns the intersection of p and o.
func (p PolySet) Intersect(o PolySet) PolySet {
	return booleanOp(p, o, func(a, b bool) bool { return a && b })
}

// Subtract returns p minus o.
func (p PolySet) Subtract(o PolySet) PolySet {
	return booleanOp(p, o, func(a, b bool) bool { return a && !b })
}

func unionAll(rects []Rect) PolySet {
	if len(rects) == 0 {
		return PolySet{}
	}
	acc := PolySet{Rects: []Rect{rects[0]}}
	for _, r := range rects[1:] {
		acc = acc.Union(PolySet{Rects: []Rect{r}})
	}
	return acc
}

func booleanOp(a, b PolySet, keep func(inA, inB bool) bool) PolySet {
	all := append(append([]Rect{}, a.Rects...), b.Rects...)
	if len(all) == 0 {
		return PolySet{}
	}
	xs := compressAxis(all, true)
	ys := compressAxis(all, false)
	nx, ny := len(xs)-1, len(ys)-1
	if nx <= 0 || ny <= 0 {
		return PolySet{}
	}
	inA := markGrid(a.Rects, xs, ys)
	inB := markGrid(b.Rects, xs, ys)
	grid := make([][]bool, ny)
	for j := 0; j < ny; j++ {
		grid[j] = make([]bool, nx)
		for i := 0; i < nx; i++ {
			grid[j][i] = keep(inA[j][i], inB[j][i])
		}
	}
	return tileGrid(grid, xs, ys)
}

// membershipGrid rasterises p's own cells on its own coordinate
// compression, for perimeter/hole computation.
func (p PolySet) membershipGrid() (grid [][]bool, xs, ys []int) {
	xs = compressAxis(p.Rects, true)
	ys = compressAxis(p.Rects, false)
	nx, ny := len(xs)-1, len(ys)-1
	if nx <= 0 || ny <= 0 {
		return nil, xs, ys
	}
	grid = markGrid(p.Rects, xs, ys)
	return
}

func compressAxis(rects []Rect, xAxis bool) []int {
	set := map[int]bool{}
	for _, r := range rects {
		if xAxis {
			set[r.XL] = true
			set[r.XH] = true
		} else {
			set[r.YL] = true
			set[r.YH] = true
		}
	}
	out := make([]int, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

func markGrid(rects []Rect, xs, ys []int) [][]bool {
	nx, ny := len(xs)-1, len(ys)-1
	grid := make([][]bool, ny)
	for j := range grid {
		grid[j] = make([]bool, nx)
	}
	xi := indexOf(xs)
	yi := indexOf(ys)
	for _, r := range rects {
		x0, x1 := xi[r.XL], xi[r.XH]
		y0, y1 := yi[r.YL], yi[r.YH]
		for j := y0; j < y1; j++ {
			for i := x0; i < x1; i++ {
				grid[j][i] = true
			}
		}
	}
	return grid
}

func indexOf(sorted []int) map[int]int {
	m := make(map[int]int, len(sorted))
	for i, v := range sorted {
		m[v] = i
	}
	return m
}

// tileGrid re-tiles a boolean membership grid into maximal horizontal
// strips, merging vertically adjacent rows with identical column spans.
func tileGrid(grid [][]bool, xs, ys []int) PolySet {
	ny := len(grid)
	if ny == 0 {
		return PolySet{}
	}
	nx := len(grid[0])
	var rects []Rect
	// row-wise: merge contiguous true columns into intervals
	rowIntervals := make([][][2]int, ny)
	for j := 0; j < ny; j++ {
		i := 0
		for i < nx {
			if !grid[j][i] {
				i++
				continue
			}
			start := i
			for i < nx && grid[j][i] {
				i++
			}
			rowIntervals[j] = append(rowIntervals[j], [2]int{start, i})
		}
	}
	// stack-merge identical intervals across consecutive rows
	used := make([][]bool, ny)
	for j := range used {
		used[j] = make([]bool, len(rowIntervals[j]))
	}
	for j := 0; j < ny; j++ {
		for k, iv := range rowIntervals[j] {
			if used[j][k] {
				continue
			}
			top := j
			for top+1 < ny {
				next := findInterval(rowIntervals[top+1], iv)
				if next < 0 || used[top+1][next] {
					break
				}
				used[top+1][next] = true
				top++
			}
			rects = append(rects, Rect{xs[iv[0]], ys[j], xs[iv[1]], ys[top+1]})
		}
	}
	return PolySet{Rects: rects}
}

func findInterval(list [][2]int, target [2]int) int {
	for i, v := range list {
		if v == target {
			return i
		}
	}
	return -1
}

// GetRectangles returns the set's own rectangle tiling (horizontal
// slabbing as stored), satisfying the kernel's get_rectangles contract.
func (p PolySet) GetRectangles() []Rect {
	return append([]Rect{}, p.Rects...)
}

// VerticalSlabbing returns a re-tiling of the same area using maximal
// vertical strips instead of horizontal ones.
func (p PolySet) VerticalSlabbing() []Rect {
	grid, xs, ys := p.membershipGrid()
	if grid == nil {
		return nil
	}
	transposed := transpose(grid)
	tiled := tileGrid(transposed, ys, xs)
	out := make([]Rect, len(tiled.Rects))
	for i, r := range tiled.Rects {
		out[i] = Rect{r.YL, r.XL, r.YH, r.XH}
	}
	return out
}

func transpose(grid [][]bool) [][]bool {
	if len(grid) == 0 {
		return nil
	}
	ny, nx := len(grid), len(grid[0])
	out := make([][]bool, nx)
	for i := 0; i < nx; i++ {
		out[i] = make([]bool, ny)
		for j := 0; j < ny; j++ {
			out[i][j] = grid[j][i]
		}
	}
	return out
}

// LenTMin is the sentinel the source returns for minInnerWidth of an
// empty set.
const LenTMin = -1 << 31

// MinInnerWidth returns the minimum dimension across both the horizontal
// and vertical rectangle tilings, or LenTMin for the empty set.
func (p PolySet) MinInnerWidth() int {
	if p.Empty() {
		return LenTMin
	}
	min := 1 << 31
	for _, r := range p.GetRectangles() {
		if d := minInt(r.Width(), r.Height()); d < min {
			min = d
		}
	}
	for _, r := range p.VerticalSlabbing() {
		if d := minInt(r.Width(), r.Height()); d < min {
			min = d
		}
	}
	return min
}

// HoleCount returns the number of enclosed holes in the set, computed by
// flood-filling the complement of the set within its bounding box and
// counting components that do not touch the bounding box border (an
// interior hole, vs. the unbounded exterior component).
func (p PolySet) HoleCount() int {
	grid, xs, ys := p.membershipGrid()
	if grid == nil {
		return 0
	}
	ny := len(grid)
	nx := len(grid[0])
	visited := make([][]bool, ny)
	for j := range visited {
		visited[j] = make([]bool, nx)
	}
	holes := 0
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			if grid[j][i] || visited[j][i] {
				continue
			}
			touchesBorder := false
			stack := [][2]int{{j, i}}
			visited[j][i] = true
			for len(stack) > 0 {
				c := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				cj, ci := c[0], c[1]
				if cj == 0 || cj == ny-1 || ci == 0 || ci == nx-1 {
					touchesBorder = true
				}
				for _, d := range [][2]int{{cj - 1, ci}, {cj + 1, ci}, {cj, ci - 1}, {cj, ci + 1}} {
					nj, ni := d[0], d[1]
					if nj < 0 || nj >= ny || ni < 0 || ni >= nx {
						continue
					}
					if grid[nj][ni] || visited[nj][ni] {
						continue
					}
					visited[nj][ni] = true
					stack = append(stack, [2]int{nj, ni})
				}
			}
			if !touchesBorder {
				holes++
			}
		}
	}
	_ = xs
	_ = ys
	return holes
}

// RasterizeCells returns the set of unit-square grid cells (by
// lower-left corner) whose interior is contained in the set.
func (p PolySet) RasterizeCells() []Pt {
	var cells []Pt
	for _, r := range p.Rects {
		cells = append(cells, r.Cells()...)
	}
	return cells
}
