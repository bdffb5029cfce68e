// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package blockage parses the preplaced-coordinate block shared by the
// .pinout METAL_LAYER/VIA_LAYER includes: a BEGIN_PREPLACE /
// END_PREPLACE section of "SIGNAL: <name>" headers, each followed by
// zero or more "Cord(x, y)" or "Cord(x1, y1) to Cord(x2, y2)" run
// records.
package blockage

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/hankshyu/PowerX-sub000/geom"
	"github.com/hankshyu/PowerX-sub000/signaltype"
)

// Set maps a signal type to the set of preplaced grid coordinates it
// occupies, already de-duplicated across every run in the file.
type Set struct {
	W, H    int
	ByCord  map[geom.Pt]signaltype.SignalType
	BySig   map[signaltype.SignalType][]geom.Pt
}

var singlePattern = regexp.MustCompile(`^\s*Cord\(\s*([^\s,]+)\s*,\s*([^\s\)]+)\s*\)\s*$`)
var doublePattern = regexp.MustCompile(`^\s*Cord\(\s*([^\s,]+)\s*,\s*([^\s\)]+)\s*\)\s*to\s*Cord\(\s*([^\s,]+)\s*,\s*([^\s\)]+)\s*\)\s*$`)

// Parse reads a blockage file against a W×H canvas, returning the
// preplaced signal assignment. W or H of 0 disables range checking
// (used when the canvas dimensions are not yet known to the caller).
func Parse(path string, w, h int) (*Set, error) {
	lines, err := io.ReadLines(path)
	if err != nil {
		return nil, chk.Err("blockage: cannot read %q: %v", path, err)
	}

	s := &Set{W: w, H: h, ByCord: make(map[geom.Pt]signaltype.SignalType), BySig: make(map[signaltype.SignalType][]geom.Pt)}

	reading := false
	haveSignal := false
	var cur signaltype.SignalType

	addCord := func(x, y int) error {
		if w > 0 && (x < 0 || x >= w) {
			return chk.Err("blockage: %q: x coordinate %d out of range [0,%d]", path, x, w-1)
		}
		if h > 0 && (y < 0 || y >= h) {
			return chk.Err("blockage: %q: y coordinate %d out of range [0,%d]", path, y, h-1)
		}
		c := geom.Pt{X: x, Y: y}
		if _, dup := s.ByCord[c]; dup {
			return nil
		}
		s.ByCord[c] = cur
		s.BySig[cur] = append(s.BySig[cur], c)
		return nil
	}

	for _, raw := range lines {
		line := raw
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if trimmed == "BEGIN_PREPLACE" {
			reading = true
			continue
		}
		if !reading {
			continue
		}
		if trimmed == "END_PREPLACE" {
			break
		}

		if strings.HasPrefix(trimmed, "SIGNAL:") {
			rest := strings.TrimSpace(strings.TrimPrefix(trimmed, "SIGNAL:"))
			sig, serr := signaltype.Parse(rest)
			if serr != nil || sig == signaltype.UNKNOWN {
				return nil, chk.Err("blockage: %q: unknown preplace SignalType %q", path, rest)
			}
			cur = sig
			haveSignal = true
			continue
		}
		if !haveSignal {
			return nil, chk.Err("blockage: %q: Cord record before any SIGNAL: header", path)
		}

		if m := singlePattern.FindStringSubmatch(trimmed); m != nil {
			x, xerr := strconv.Atoi(m[1])
			y, yerr := strconv.Atoi(m[2])
			if xerr != nil || yerr != nil {
				return nil, chk.Err("blockage: %q: coordinates must be integers: %q", path, trimmed)
			}
			if err := addCord(x, y); err != nil {
				return nil, err
			}
			continue
		}

		if m := doublePattern.FindStringSubmatch(trimmed); m != nil {
			x1, e1 := strconv.Atoi(m[1])
			y1, e2 := strconv.Atoi(m[2])
			x2, e3 := strconv.Atoi(m[3])
			y2, e4 := strconv.Atoi(m[4])
			if e1 != nil || e2 != nil || e3 != nil || e4 != nil {
				return nil, chk.Err("blockage: %q: coordinates must be integers: %q", path, trimmed)
			}
			switch {
			case x1 == x2:
				if y1 > y2 {
					y1, y2 = y2, y1
				}
				for y := y1; y <= y2; y++ {
					if err := addCord(x1, y); err != nil {
						return nil, err
					}
				}
			case y1 == y2:
				if x1 > x2 {
					x1, x2 = x2, x1
				}
				for x := x1; x <= x2; x++ {
					if err := addCord(x, y1); err != nil {
						return nil, err
					}
				}
			default:
				return nil, chk.Err("blockage: %q: only horizontal or vertical runs accepted: %q", path, trimmed)
			}
			continue
		}

		return nil, chk.Err("blockage: %q: unrecognised blockage record: %q", path, trimmed)
	}

	return s, nil
}

// Apply paints every preplaced coordinate of s onto a canvas.Canvas-like
// setter, mirroring ObjectArray::markPreplacedToCanvas.
func (s *Set) Apply(set func(x, y int, st signaltype.SignalType)) {
	for c, st := range s.ByCord {
		set(c.X, c.Y, st)
	}
}
