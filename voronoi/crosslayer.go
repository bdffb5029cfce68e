// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package voronoi

import (
	"github.com/cpmech/gosl/utl"

	"github.com/hankshyu/PowerX-sub000/geom"
	"github.com/hankshyu/PowerX-sub000/signaltype"
	"github.com/hankshyu/PowerX-sub000/substrate"
)

// ConnectLayers implements Step B: for every power signal whose POIs
// lie on exactly one of two adjacent metal layers, pick at most one
// candidate pin-grid site maximising
// min_competitor_distance - friendly_distance, where friendly_distance
// is the Euclidean distance to the nearest same-signal POI on the layer
// that carries the signal, and return that point for both layers' POI
// sets (as extraUp/extraDown, so the later Steps C-G see it as an
// anchor). The via canvas itself is not written.
func ConnectLayers(sub *substrate.Substrate, upLayer, viaLayer int, upPOIs, downPOIs []poi) (extraUp, extraDown []poi) {
	vc := sub.Via[viaLayer]
	up, down := sub.Metal[upLayer], sub.Metal[upLayer+1]

	upBySig := groupBySig(upPOIs)
	downBySig := groupBySig(downPOIs)

	onlyOnOneSide := make(map[signaltype.SignalType]bool)
	for sig := range upBySig {
		if len(downBySig[sig]) == 0 {
			onlyOnOneSide[sig] = true
		}
	}
	for sig := range downBySig {
		if len(upBySig[sig]) == 0 {
			onlyOnOneSide[sig] = true
		}
	}

	for sig := range onlyOnOneSide {
		friendly := upBySig[sig]
		if len(friendly) == 0 {
			friendly = downBySig[sig]
		}
		var competitors []poi
		for s, pts := range upBySig {
			if s != sig {
				competitors = append(competitors, pts...)
			}
		}
		for s, pts := range downBySig {
			if s != sig {
				competitors = append(competitors, pts...)
			}
		}

		best := -1.0
		var bestPt geom.Pt
		found := false
		for py := 0; py <= vc.H-1; py++ {
			for px := 0; px <= vc.W-1; px++ {
				if px >= up.W+1 || py >= up.H+1 || px >= down.W+1 || py >= down.H+1 {
					continue
				}
				cand := geom.Pt{X: px, Y: py}
				minCompetitor := minDistTo(cand, competitors)
				maxFriendly := minDistTo(cand, friendly)
				score := minCompetitor - maxFriendly
				if !found || score > best {
					found = true
					best = score
					bestPt = cand
				}
			}
		}
		if found {
			extraUp = append(extraUp, poi{P: bestPt, Sig: sig})
			extraDown = append(extraDown, poi{P: bestPt, Sig: sig})
		}
	}
	return extraUp, extraDown
}

func groupBySig(pts []poi) map[signaltype.SignalType][]poi {
	out := make(map[signaltype.SignalType][]poi)
	for _, p := range pts {
		out[p.Sig] = append(out[p.Sig], p)
	}
	return out
}

// minDistTo returns the smallest Euclidean distance from p to any point
// in pts, or a large sentinel if pts is empty (no competitor/friendly
// anchors at all leaves the candidate unconstrained on that term).
func minDistTo(p geom.Pt, pts []poi) float64 {
	const none = 1e18
	best := none
	for _, q := range pts {
		best = utl.Min(best, geom.EuclideanDist(p, q.P))
	}
	return best
}
