// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_rect01(tst *testing.T) {

	chk.PrintTitle("rect. basic ops")

	a := NewRect(0, 0, 10, 10)
	b := NewRect(5, 5, 15, 15)
	if !a.Intersects(b) {
		tst.Errorf("a and b should intersect")
	}
	inter, ok := a.Intersection(b)
	if !ok || inter != NewRect(5, 5, 10, 10) {
		tst.Errorf("wrong intersection: %v", inter)
	}
	if a.Area() != 100 {
		tst.Errorf("wrong area: %d", a.Area())
	}
}

func Test_polyset01(tst *testing.T) {

	chk.PrintTitle("polyset. union/intersect/subtract")

	a := NewPolySet(NewRect(0, 0, 10, 10))
	b := NewPolySet(NewRect(5, 5, 15, 15))

	u := a.Union(b)
	if u.Area() != 175 {
		tst.Errorf("union area wrong: %d", u.Area())
	}

	i := a.Intersect(b)
	if i.Area() != 25 {
		tst.Errorf("intersection area wrong: %d", i.Area())
	}

	d := a.Subtract(b)
	if d.Area() != 75 {
		tst.Errorf("subtraction area wrong: %d", d.Area())
	}
}

func Test_polyset02_hole(tst *testing.T) {

	chk.PrintTitle("polyset. hole counting on a ring")

	outer := NewPolySet(NewRect(0, 0, 10, 10))
	inner := NewPolySet(NewRect(3, 3, 7, 7))
	ring := outer.Subtract(inner)

	if ring.HoleCount() != 1 {
		tst.Errorf("ring should have exactly one hole, got %d", ring.HoleCount())
	}
	if outer.HoleCount() != 0 {
		tst.Errorf("solid rectangle should have no holes")
	}
}

func Test_polyset03_empty_min_inner_width(tst *testing.T) {

	chk.PrintTitle("polyset. minInnerWidth of empty set")

	var empty PolySet
	if empty.MinInnerWidth() != LenTMin {
		tst.Errorf("minInnerWidth of the empty set must be LenTMin")
	}

	sq := NewPolySet(NewRect(0, 0, 4, 3))
	if w := sq.MinInnerWidth(); w != 3 {
		tst.Errorf("minInnerWidth of a 4x3 rect should be 3, got %d", w)
	}
}

func Test_segment01_intersect_inclusive_touch(tst *testing.T) {

	chk.PrintTitle("segment. touching counts as intersecting")

	s1 := NewSegment(Pt{0, 0}, Pt{10, 0})
	s2 := NewSegment(Pt{10, 0}, Pt{10, 10})
	if !s1.Intersects(s2) {
		tst.Errorf("segments touching at an endpoint must count as intersecting")
	}

	s3 := NewSegment(Pt{0, 5}, Pt{10, 5})
	if s3.Intersects(s1) {
		tst.Errorf("parallel, non-touching segments must not intersect")
	}
}

func Test_voronoi01_nearest(tst *testing.T) {

	chk.PrintTitle("voronoi. nearest-generator partition")

	sites := []Generator{
		{P: FPt{0, 0}, Owner: 1},
		{P: FPt{10, 10}, Owner: 2},
	}
	v := NewVoronoi(sites, NewRect(0, 0, 10, 10))
	assign := v.RasterizeNearest(4)
	if assign[Pt{0, 0}] != 1 {
		tst.Errorf("cell near (0,0) should be owned by generator 1")
	}
	if assign[Pt{9, 9}] != 2 {
		tst.Errorf("cell near (9,9) should be owned by generator 2")
	}
}
