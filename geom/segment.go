// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

import "math"

// Segment is an ordered line segment — endpoints are canonicalised at
// construction so Low<=High lexicographically (x, then y).
type Segment struct {
	Low, High Pt
}

// NewSegment canonicalises the endpoint order.
func NewSegment(a, b Pt) Segment {
	if lexLess(b, a) {
		a, b = b, a
	}
	return Segment{Low: a, High: b}
}

func lexLess(a, b Pt) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	return a.Y < b.Y
}

// Length returns the Euclidean length of the segment.
func (s Segment) Length() float64 {
	return EuclideanDist(s.Low, s.High)
}

// ManhattanLength returns the Manhattan length of the segment.
func (s Segment) ManhattanLength() int {
	return ManhattanDist(s.Low, s.High)
}

// Midpoint returns the segment's floating midpoint.
func (s Segment) Midpoint() FPt {
	return FPt{
		X: (float64(s.Low.X) + float64(s.High.X)) / 2,
		Y: (float64(s.Low.Y) + float64(s.High.Y)) / 2,
	}
}

// IsHorizontal reports whether both endpoints share a y-coordinate.
func (s Segment) IsHorizontal() bool { return s.Low.Y == s.High.Y }

// IsVertical reports whether both endpoints share an x-coordinate.
func (s Segment) IsVertical() bool { return s.Low.X == s.High.X }

// Intersects reports whether two segments intersect, inclusive of
// touching at an endpoint.
func (s Segment) Intersects(o Segment) bool {
	d1 := direction(o.Low, o.High, s.Low)
	d2 := direction(o.Low, o.High, s.High)
	d3 := direction(s.Low, s.High, o.Low)
	d4 := direction(s.Low, s.High, o.High)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	if d1 == 0 && onSegment(o.Low, o.High, s.Low) {
		return true
	}
	if d2 == 0 && onSegment(o.Low, o.High, s.High) {
		return true
	}
	if d3 == 0 && onSegment(s.Low, s.High, o.Low) {
		return true
	}
	if d4 == 0 && onSegment(s.Low, s.High, o.High) {
		return true
	}
	return false
}

func direction(a, b, c Pt) int {
	return (c.X-a.X)*(b.Y-a.Y) - (b.X-a.X)*(c.Y-a.Y)
}

func onSegment(a, b, p Pt) bool {
	return minInt(a.X, b.X) <= p.X && p.X <= maxInt(a.X, b.X) &&
		minInt(a.Y, b.Y) <= p.Y && p.Y <= maxInt(a.Y, b.Y)
}

// ThalesDiscContains reports whether p lies within (or on) the closed
// disc whose diameter is the segment (the Thales-disc test).
func (s Segment) ThalesDiscContains(p FPt) bool {
	mid := s.Midpoint()
	r := s.Length() / 2
	d := EuclideanDistF(mid, p)
	return d <= r+1e-9
}

// ProjectPoint projects p orthogonally onto the infinite line through
// the segment and returns the projection, clamped to lie within the
// segment's bounding box.
func (s Segment) ProjectPoint(p FPt) FPt {
	ax, ay := float64(s.Low.X), float64(s.Low.Y)
	bx, by := float64(s.High.X), float64(s.High.Y)
	dx, dy := bx-ax, by-ay
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return FPt{ax, ay}
	}
	t := ((p.X-ax)*dx + (p.Y-ay)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return FPt{ax + t*dx, ay + t*dy}
}

// InflateOffset45 returns the 45°-inflated blockage envelope (as a Rect)
// around the segment, used by the rip-and-reroute blockage test (§4.3
// Step D). Per the Design Notes' open question, the exact offset shape
// is left open subject to being a proper superset of the segment's
// 1-cell Minkowski neighbourhood; this implementation inflates the
// segment's bounding box by margin cells in every direction, plus one
// extra cell on every side when the segment is neither horizontal nor
// vertical, which with margin >= 1 satisfies that superset property for
// horizontal, vertical and diagonal segments alike.
func (s Segment) InflateOffset45(margin int) Rect {
	xl := minInt(s.Low.X, s.High.X) - margin
	yl := minInt(s.Low.Y, s.High.Y) - margin
	xh := maxInt(s.Low.X, s.High.X) + margin
	yh := maxInt(s.Low.Y, s.High.Y) + margin
	if !s.IsHorizontal() && !s.IsVertical() {
		xl--
		yl--
		xh++
		yh++
	}
	return Rect{xl, yl, xh, yh}
}
