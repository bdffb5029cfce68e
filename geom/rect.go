// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

// Rect is an axis-aligned integer rectangle, half-open on its high
// edges: it covers grid cells with XL<=x<XH, YL<=y<YH.
type Rect struct {
	XL, YL, XH, YH int
}

// NewRect builds a Rect and panics if the bounds are inverted — callers
// that accept untrusted coordinates must order them first.
func NewRect(xl, yl, xh, yh int) Rect {
	if xh < xl || yh < yl {
		panic("geom: inverted rectangle bounds")
	}
	return Rect{xl, yl, xh, yh}
}

// Width returns XH-XL.
func (r Rect) Width() int { return r.XH - r.XL }

// Height returns YH-YL.
func (r Rect) Height() int { return r.YH - r.YL }

// Area returns the rectangle's area.
func (r Rect) Area() int { return r.Width() * r.Height() }

// Perimeter returns 2*(width+height).
func (r Rect) Perimeter() int { return 2 * (r.Width() + r.Height()) }

// Empty reports whether the rectangle covers no cell.
func (r Rect) Empty() bool { return r.Width() <= 0 || r.Height() <= 0 }

// LL, LR, UL, UR return the four corners.
func (r Rect) LL() Pt { return Pt{r.XL, r.YL} }
func (r Rect) LR() Pt { return Pt{r.XH, r.YL} }
func (r Rect) UL() Pt { return Pt{r.XL, r.YH} }
func (r Rect) UR() Pt { return Pt{r.XH, r.YH} }

// Contains reports whether p lies within the closed rectangle.
func (r Rect) Contains(p Pt) bool {
	return p.X >= r.XL && p.X <= r.XH && p.Y >= r.YL && p.Y <= r.YH
}

// ContainsRect reports whether o is fully contained in r.
func (r Rect) ContainsRect(o Rect) bool {
	return o.XL >= r.XL && o.XH <= r.XH && o.YL >= r.YL && o.YH <= r.YH
}

// Intersects reports whether r and o share any area (touching edges do
// not count as intersecting area, but do count for adjacency tests —
// use IntersectsInclusive for that).
func (r Rect) Intersects(o Rect) bool {
	return r.XL < o.XH && o.XL < r.XH && r.YL < o.YH && o.YL < r.YH
}

// IntersectsInclusive reports whether r and o touch or overlap.
func (r Rect) IntersectsInclusive(o Rect) bool {
	return r.XL <= o.XH && o.XL <= r.XH && r.YL <= o.YH && o.YL <= r.YH
}

// Intersection returns the overlapping rectangle and whether one exists.
func (r Rect) Intersection(o Rect) (Rect, bool) {
	xl, yl := maxInt(r.XL, o.XL), maxInt(r.YL, o.YL)
	xh, yh := minInt(r.XH, o.XH), minInt(r.YH, o.YH)
	if xh <= xl || yh <= yl {
		return Rect{}, false
	}
	return Rect{xl, yl, xh, yh}, true
}

// BoundingBox returns the minimal rectangle covering both r and o.
func (r Rect) BoundingBox(o Rect) Rect {
	return Rect{minInt(r.XL, o.XL), minInt(r.YL, o.YL), maxInt(r.XH, o.XH), maxInt(r.YH, o.YH)}
}

// Cells returns every unit-square grid cell (identified by its
// lower-left corner) whose interior is contained in r — the kernel's
// grid-rasterisation primitive for axis-aligned rectangles.
func (r Rect) Cells() []Pt {
	if r.Empty() {
		return nil
	}
	cells := make([]Pt, 0, r.Area())
	for y := r.YL; y < r.YH; y++ {
		for x := r.XL; x < r.XH; x++ {
			cells = append(cells, Pt{x, y})
		}
	}
	return cells
}
