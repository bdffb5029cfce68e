// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ballout parses the .ballout file: header
// BEGIN_CHIPLET <name> <W> <H>, optional private attributes, then W·H
// entries "<CSV-cell>,<signal>" in spreadsheet (top-left-origin) order,
// stored bottom-left-origin internally.
package ballout

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/hankshyu/PowerX-sub000/bumpmap"
	"github.com/hankshyu/PowerX-sub000/signaltype"
)

// BallOut is a parsed chiplet ballout: a W×H grid of power signals plus
// any private attributes declared in the header block.
type BallOut struct {
	Name       string
	W, H       int
	Grid       *bumpmap.BumpMap
	MaxCurrent float64 // amperes; 0 if not declared
}

// privateAttributeUnit is the set of recognised private attributes and
// the unit they must be declared in, mirroring m_privateAttributeStandardUnits.
var privateAttributeUnit = map[string]string{
	"MAX_CURRENT": "A",
}

// Parse reads a .ballout file.
func Parse(path string) (*BallOut, error) {
	lines, err := io.ReadLines(path)
	if err != nil {
		return nil, chk.Err("ballout: cannot read %q: %v", path, err)
	}

	bo := &BallOut{}
	lineIdx := 0
	for ; lineIdx < len(lines); lineIdx++ {
		tokens := strings.Fields(lines[lineIdx])
		if len(tokens) == 0 {
			continue
		}
		if tokens[0] == "BEGIN_CHIPLET" {
			if len(tokens) < 4 {
				return nil, chk.Err("ballout: %q: malformed BEGIN_CHIPLET header", path)
			}
			bo.Name = tokens[1]
			bo.W, err = strconv.Atoi(tokens[2])
			if err != nil {
				return nil, chk.Err("ballout: %q: bad width %q", path, tokens[2])
			}
			bo.H, err = strconv.Atoi(tokens[3])
			if err != nil {
				return nil, chk.Err("ballout: %q: bad height %q", path, tokens[3])
			}
			bo.Grid = bumpmap.New(bo.Name, bo.W, bo.H)
			lineIdx++
			break
		}
		unit, ok := privateAttributeUnit[tokens[0]]
		if !ok {
			return nil, chk.Err("ballout: %q: unrecognised private attribute %q", path, tokens[0])
		}
		if len(tokens) < 4 || tokens[3] != unit {
			return nil, chk.Err("ballout: %q: attribute %q must use standard unit %q", path, tokens[0], unit)
		}
		if tokens[0] == "MAX_CURRENT" {
			bo.MaxCurrent, err = strconv.ParseFloat(tokens[2], 64)
			if err != nil {
				return nil, chk.Err("ballout: %q: bad MAX_CURRENT value %q", path, tokens[2])
			}
		}
	}
	if bo.Grid == nil {
		return nil, chk.Err("ballout: %q: missing BEGIN_CHIPLET header", path)
	}

	// remaining whitespace-separated tokens are the W*H CSV-cell,signal entries
	var entries []string
	for ; lineIdx < len(lines); lineIdx++ {
		entries = append(entries, strings.Fields(lines[lineIdx])...)
	}
	if len(entries) != bo.W*bo.H {
		return nil, chk.Err("ballout: %q: expected %d entries, found %d", path, bo.W*bo.H, len(entries))
	}

	idx := 0
	for j := 0; j < bo.H; j++ {
		for i := 0; i < bo.W; i++ {
			entry := entries[idx]
			idx++
			comma := strings.IndexByte(entry, ',')
			if comma < 0 {
				return nil, chk.Err("ballout: %q: malformed entry %q", path, entry)
			}
			x, y, cerr := CSVCellToCord(entry[:comma])
			if cerr != nil {
				return nil, chk.Err("ballout: %q: %v", path, cerr)
			}
			if x != i || y != j {
				return nil, chk.Err("ballout: %q: discontinuous CSV cell position %q, expected (%d,%d)", path, entry[:comma], i, j)
			}
			sig, serr := signaltype.Parse(entry[comma+1:])
			if serr != nil || sig == signaltype.EMPTY {
				return nil, chk.Err("ballout: %q: unknown signal type %q", path, entry[comma+1:])
			}
			// top-left-origin input stored bottom-left-origin internally
			bo.Grid.Set(x, bo.H-y-1, sig)
		}
	}
	return bo, nil
}

// CSVCellToCord converts a spreadsheet-style cell reference ("A1",
// "AA12") into zero-based (x,y), top-left-origin coordinates.
func CSVCellToCord(cell string) (x, y int, err error) {
	yValue := 0
	i := 0
	for ; i < len(cell); i++ {
		c := cell[i]
		switch {
		case unicode.IsLower(rune(c)):
			yValue = yValue*26 + int(c-'a'+1)
		case unicode.IsUpper(rune(c)):
			yValue = yValue*26 + int(c-'A'+1)
		case unicode.IsDigit(rune(c)):
			xValue, perr := strconv.Atoi(cell[i:])
			if perr != nil {
				return 0, 0, chk.Err("unknown CSV cell position value %q", cell)
			}
			return xValue - 1, yValue - 1, nil
		default:
			return 0, 0, chk.Err("unknown CSV cell position value %q", cell)
		}
	}
	return 0, 0, chk.Err("unknown CSV cell position value %q", cell)
}

// Rotated returns a new BallOut rotated by the bump map's rotation rule;
// B3 (four 90° rotations return the original) follows from bumpmap's own
// property.
func (b *BallOut) Rotated(r bumpmap.Rotation) *BallOut {
	g := b.Grid.Rotated(r)
	return &BallOut{Name: b.Name, W: g.W, H: g.H, Grid: g, MaxCurrent: b.MaxCurrent}
}
