// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package voronoi

import (
	"github.com/hankshyu/PowerX-sub000/canvas"
	"github.com/hankshyu/PowerX-sub000/signaltype"
	"github.com/hankshyu/PowerX-sub000/substrate"
)

// RunPipeline runs every lettered step across sub's whole metal stack:
// Steps A-G per layer (with Step B's cross-layer via insertion folded
// in before each layer's routing/rasterisation runs), Steps H-I per
// layer, and finally Step J's cross-layer stacking enhancement across
// the full stack.
func RunPipeline(sub *substrate.Substrate, signals []signaltype.SignalType, hp Hyperparams) {
	poisByLayer := make([][]poi, len(sub.Metal))
	for l, mc := range sub.Metal {
		poisByLayer[l] = collectPOIs(mc, signals)
	}

	for vl := range sub.Via {
		extraUp, extraDown := ConnectLayers(sub, vl, vl, poisByLayer[vl], poisByLayer[vl+1])
		poisByLayer[vl] = append(poisByLayer[vl], extraUp...)
		poisByLayer[vl+1] = append(poisByLayer[vl+1], extraDown...)
	}

	snapshots := make([]*canvas.Canvas, len(sub.Metal))
	for l, mc := range sub.Metal {
		snapshots[l] = mc.Clone()
		runLayerFromPOIs(mc, signals, poisByLayer[l], hp)
	}

	for l, mc := range sub.Metal {
		Legalise(mc, snapshots[l])
		Reconnect(mc)
	}

	globalCount := make(map[signaltype.SignalType]int)
	for _, mc := range sub.Metal {
		mc.ForEach(func(x, y int, s signaltype.SignalType) {
			if s.IsPower() {
				globalCount[s]++
			}
		})
	}
	EnhanceCrossLayer(sub.Metal, globalCount)
}
