// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pinout parses the composite .pinout file: a
// TECHNOLOGY_BEGIN/END block, a PDN_PREPLACE_START/END block of
// METAL_LAYER/VIA_LAYER blockage includes, a MICROBUMP_START/END block
// of ballout includes placed at chiplet instances, and a C4_START/END
// cluster-grid block, all fused into a single parse pass over one file.
package pinout

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/hankshyu/PowerX-sub000/ballout"
	"github.com/hankshyu/PowerX-sub000/blockage"
	"github.com/hankshyu/PowerX-sub000/bumpmap"
	"github.com/hankshyu/PowerX-sub000/geom"
)

// Technology holds the PDN canvas dimensions declared by the
// TECHNOLOGY_BEGIN/END block: a metal grid of GridWidth×GridHeight
// cells with a PinWidth×PinHeight (= grid+1) cross-layer via grid.
type Technology struct {
	GridWidth, GridHeight           int
	PinWidth, PinHeight             int
	MetalLayerCount, ViaLayerCount  int
	UBumpConnectedMetalLayerIdx     int
	C4ConnectedMetalLayerIdx        int
}

// Config is the fully parsed .pinout file: technology sizing, per-layer
// preplaced blockages, and the micro-bump/C4 bump maps.
type Config struct {
	Tech           Technology
	MetalBlockages []*blockage.Set // len == Tech.MetalLayerCount, nil entries allowed
	ViaBlockages   []*blockage.Set // len == Tech.ViaLayerCount, nil entries allowed
	Bumps          *bumpmap.Bumps
}

// c4Params accumulates the KEY = value records of the C4_START/END
// block before it is expanded into a bump-map grid at C4_END.
type c4Params struct {
	pinCountWidth, pinCountHeight int // pins per cluster (C4_WIDTH / C4_HEIGHT)
	pitchWidth, pitchHeight       int
	countWidth, countHeight       int // clusters across the plane
	leftBorder, rightBorder       int
	downBorder, upBorder          int
	rotation                      bumpmap.Rotation
	ballOut                       *ballout.BallOut
}

// Parse reads a .pinout file, resolving every include path relative to
// the directory the file lives in.
func Parse(path string) (*Config, error) {
	dir := filepath.Dir(path)
	lines, err := io.ReadLines(path)
	if err != nil {
		return nil, chk.Err("pinout: cannot read %q: %v", path, err)
	}

	cfg := &Config{}
	var chiplets []bumpmap.ChipletInstance
	var uBump *bumpmap.BumpMap

	var (
		readTechnology, finishTechnology bool
		readPreplace                     bool
		readMicrobump                    bool
		readC4                           bool
		c4                                c4Params
		includedBallouts                  = map[string]*ballout.BallOut{}
	)

	for _, raw := range lines {
		line := raw
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		tokens := strings.Fields(trimmed)

		// --- TECHNOLOGY_BEGIN ... TECHNOLOGY_END -----------------------
		if !finishTechnology {
			if !readTechnology {
				if trimmed == "TECHNOLOGY_BEGIN" {
					readTechnology = true
				}
				continue
			}
			if trimmed == "TECHNOLOGY_END" {
				if cfg.Tech.GridWidth <= 0 || cfg.Tech.GridHeight <= 0 {
					return nil, chk.Err("pinout: %q: GRID_WIDTH/GRID_HEIGHT must be set before TECHNOLOGY_END", path)
				}
				if cfg.Tech.PinWidth != cfg.Tech.GridWidth+1 || cfg.Tech.PinHeight != cfg.Tech.GridHeight+1 {
					return nil, chk.Err("pinout: %q: PIN_WIDTH/PIN_HEIGHT must equal GRID_WIDTH/GRID_HEIGHT + 1", path)
				}
				if cfg.Tech.MetalLayerCount < 2 {
					return nil, chk.Err("pinout: %q: LAYERS must be >= 2", path)
				}
				cfg.Tech.ViaLayerCount = cfg.Tech.MetalLayerCount - 1
				cfg.Tech.UBumpConnectedMetalLayerIdx = 0
				cfg.Tech.C4ConnectedMetalLayerIdx = cfg.Tech.MetalLayerCount - 1
				cfg.MetalBlockages = make([]*blockage.Set, cfg.Tech.MetalLayerCount)
				cfg.ViaBlockages = make([]*blockage.Set, cfg.Tech.ViaLayerCount)
				uBump = bumpmap.New("uBump", cfg.Tech.PinWidth, cfg.Tech.PinHeight)
				finishTechnology = true
				continue
			}
			if len(tokens) < 3 {
				return nil, chk.Err("pinout: %q: malformed technology record %q", path, trimmed)
			}
			val, verr := strconv.Atoi(tokens[2])
			if verr != nil {
				return nil, chk.Err("pinout: %q: bad integer value in %q", path, trimmed)
			}
			switch tokens[0] {
			case "GRID_WIDTH":
				cfg.Tech.GridWidth = val
			case "GRID_HEIGHT":
				cfg.Tech.GridHeight = val
			case "PIN_WIDTH":
				cfg.Tech.PinWidth = val
			case "PIN_HEIGHT":
				cfg.Tech.PinHeight = val
			case "LAYERS":
				cfg.Tech.MetalLayerCount = val
			default:
				return nil, chk.Err("pinout: %q: unrecognised technology detail %q", path, trimmed)
			}
			continue
		}

		// --- PDN_PREPLACE_START ... PDN_PREPLACE_END -------------------
		if trimmed == "PDN_PREPLACE_START" {
			readPreplace = true
			continue
		}
		if readPreplace && trimmed != "PDN_PREPLACE_END" {
			if tokens[0] == "METAL_LAYER" || tokens[0] == "VIA_LAYER" {
				if len(tokens) < 3 {
					return nil, chk.Err("pinout: %q: malformed %s record", path, tokens[0])
				}
				idx, ierr := strconv.Atoi(tokens[1])
				if ierr != nil {
					return nil, chk.Err("pinout: %q: bad layer index in %q", path, trimmed)
				}
				file := strings.Trim(tokens[2], `"`)
				if tokens[0] == "METAL_LAYER" {
					if idx >= cfg.Tech.MetalLayerCount {
						return nil, chk.Err("pinout: %q: metal preplace layer %d >= layer count %d", path, idx, cfg.Tech.MetalLayerCount)
					}
					if file != "" {
						bs, berr := blockage.Parse(filepath.Join(dir, file), cfg.Tech.GridWidth, cfg.Tech.GridHeight)
						if berr != nil {
							return nil, berr
						}
						cfg.MetalBlockages[idx] = bs
					}
				} else {
					if idx >= cfg.Tech.ViaLayerCount {
						return nil, chk.Err("pinout: %q: via preplace layer %d >= layer count %d", path, idx, cfg.Tech.ViaLayerCount)
					}
					if file != "" {
						bs, berr := blockage.Parse(filepath.Join(dir, file), cfg.Tech.PinWidth, cfg.Tech.PinHeight)
						if berr != nil {
							return nil, berr
						}
						cfg.ViaBlockages[idx] = bs
					}
				}
			} else {
				return nil, chk.Err("pinout: %q: unrecognised label in PDN preplace area: %q", path, trimmed)
			}
			continue
		}
		if trimmed == "PDN_PREPLACE_END" {
			readPreplace = false
			continue
		}

		// --- MICROBUMP_START ... MICROBUMP_END -------------------------
		if trimmed == "MICROBUMP_START" {
			readMicrobump = true
			continue
		}
		if readMicrobump && trimmed != "MICROBUMP_END" {
			switch tokens[0] {
			case "include":
				if len(tokens) < 2 {
					return nil, chk.Err("pinout: %q: malformed include record", path)
				}
				file := strings.Trim(tokens[1], `"`)
				bo, berr := ballout.Parse(filepath.Join(dir, file))
				if berr != nil {
					return nil, berr
				}
				if _, dup := includedBallouts[bo.Name]; dup {
					continue
				}
				includedBallouts[bo.Name] = bo
			case "CHIPLET":
				if len(tokens) < 6 {
					return nil, chk.Err("pinout: %q: malformed CHIPLET record %q", path, trimmed)
				}
				proto, ok := includedBallouts[tokens[1]]
				if !ok {
					return nil, chk.Err("pinout: %q: unknown chiplet ballout %q", path, tokens[1])
				}
				rot, rerr := parseRotation(tokens[3])
				if rerr != nil {
					return nil, rerr
				}
				if rot != bumpmap.R0 {
					proto = proto.Rotated(rot)
				}
				xDiff, xerr := strconv.Atoi(strings.Trim(tokens[4], "(,"))
				yDiff, yerr := strconv.Atoi(strings.Trim(tokens[5], ")"))
				if xerr != nil || yerr != nil {
					return nil, chk.Err("pinout: %q: malformed chiplet position %q", path, trimmed)
				}
				rect := geom.NewRect(xDiff, yDiff, xDiff+proto.W, yDiff+proto.H)
				if !geom.NewRect(0, 0, uBump.W, uBump.H).ContainsRect(rect) {
					return nil, chk.Err("pinout: %q: chiplet %q exceeds interposer bounds", path, tokens[2])
				}
				for y := 0; y < proto.H; y++ {
					for x := 0; x < proto.W; x++ {
						uBump.Set(xDiff+x, yDiff+y, proto.Grid.Get(x, y))
					}
				}
				chiplets = append(chiplets, bumpmap.ChipletInstance{
					BallOutName: proto.Name,
					Instance:    tokens[2],
					Rect:        rect,
					Rotation:    rot,
				})
			default:
				return nil, chk.Err("pinout: %q: unmatched microbump record %q", path, trimmed)
			}
			continue
		}
		if trimmed == "MICROBUMP_END" {
			readMicrobump = false
			continue
		}

		// --- C4_START ... C4_END ---------------------------------------
		if trimmed == "C4_START" {
			readC4 = true
			c4 = c4Params{}
			continue
		}
		if readC4 && trimmed != "C4_END" {
			key := strings.ToUpper(tokens[0])
			switch key {
			case "C4_WIDTH":
				c4.pinCountWidth = atoiField(tokens)
			case "C4_HEIGHT":
				c4.pinCountHeight = atoiField(tokens)
			case "C4_PITCH_WIDTH":
				c4.pitchWidth = atoiField(tokens)
			case "C4_PITCH_HEIGHT":
				c4.pitchHeight = atoiField(tokens)
			case "C4_COUNT_WIDTH":
				c4.countWidth = atoiField(tokens)
			case "C4_COUNT_HEIGHT":
				c4.countHeight = atoiField(tokens)
			case "C4_LEFT_BORDER":
				c4.leftBorder = atoiField(tokens)
			case "C4_RIGHT_BORDER":
				c4.rightBorder = atoiField(tokens)
			case "C4_DOWN_BORDER":
				c4.downBorder = atoiField(tokens)
			case "C4_UP_BORDER":
				c4.upBorder = atoiField(tokens)
			default:
				if tokens[0] == "include" {
					file := strings.Trim(tokens[1], `"`)
					bo, berr := ballout.Parse(filepath.Join(dir, file))
					if berr != nil {
						return nil, berr
					}
					c4.ballOut = bo
				} else if tokens[0] == "ROTATION" {
					rot, rerr := parseRotation(tokens[2])
					if rerr != nil {
						return nil, rerr
					}
					c4.rotation = rot
				}
			}
			continue
		}
		if trimmed == "C4_END" {
			readC4 = false
			c4Map, cerr := expandC4(&c4, cfg.Tech.PinWidth, cfg.Tech.PinHeight)
			if cerr != nil {
				return nil, cerr
			}
			bumps, berr := bumpmap.NewBumps(uBump, c4Map, chiplets)
			if berr != nil {
				return nil, berr
			}
			cfg.Bumps = bumps
			continue
		}
	}

	if !finishTechnology {
		return nil, chk.Err("pinout: %q: missing TECHNOLOGY_BEGIN/END block", path)
	}
	if cfg.Bumps == nil {
		return nil, chk.Err("pinout: %q: missing C4_START/END block", path)
	}
	return cfg, nil
}

func atoiField(tokens []string) int {
	if len(tokens) < 3 {
		return 0
	}
	v, _ := strconv.Atoi(tokens[2])
	return v
}

func parseRotation(tok string) (bumpmap.Rotation, error) {
	switch tok {
	case "R0":
		return bumpmap.R0, nil
	case "R90":
		return bumpmap.R90, nil
	case "R180":
		return bumpmap.R180, nil
	case "R270":
		return bumpmap.R270, nil
	}
	return bumpmap.R0, chk.Err("pinout: unknown rotation %q", tok)
}

// expandC4 lays out the cluster grid declared by a C4_START/END block
// onto a width×height bump map (the interposer's pin grid): countWidth ×
// countHeight clusters, each pinCountWidth × pinCountHeight pins wide,
// spaced by the declared pitch and offset by the declared borders —
// mirroring C4Bump's cluster expansion at C4_END.
func expandC4(c *c4Params, width, height int) (*bumpmap.BumpMap, error) {
	if c.ballOut == nil {
		return nil, chk.Err("pinout: C4 block missing ballout include")
	}
	if c.countWidth <= 0 || c.countHeight <= 0 {
		return nil, chk.Err("pinout: C4 block missing cluster count")
	}
	if c.pitchWidth < c.pinCountWidth || c.pitchHeight < c.pinCountHeight {
		return nil, chk.Err("pinout: C4 cluster pitch smaller than pin count")
	}

	verifyWidth := c.leftBorder + c.rightBorder + c.pinCountWidth
	if c.countWidth != 1 {
		verifyWidth += c.pitchWidth * (c.countWidth - 1)
	}
	if verifyWidth != width {
		return nil, chk.Err("pinout: C4 width mismatch: declared %d, computed %d", width, verifyWidth)
	}
	verifyHeight := c.downBorder + c.upBorder + c.pinCountHeight
	if c.countHeight != 1 {
		verifyHeight += c.pitchHeight * (c.countHeight - 1)
	}
	if verifyHeight != height {
		return nil, chk.Err("pinout: C4 height mismatch: declared %d, computed %d", height, verifyHeight)
	}

	bo := c.ballOut
	if c.rotation != bumpmap.R0 {
		bo = bo.Rotated(c.rotation)
	}
	if bo.W != c.countWidth || bo.H != c.countHeight {
		return nil, chk.Err("pinout: C4 ballout dimensions (%dx%d) must equal cluster counts (%dx%d)", bo.W, bo.H, c.countWidth, c.countHeight)
	}

	out := bumpmap.New("c4", width, height)
	llXInit := c.leftBorder
	llY := c.downBorder
	for j := 0; j < c.countHeight; j++ {
		llX := llXInit
		for i := 0; i < c.countWidth; i++ {
			st := bo.Grid.Get(i, j)
			for n := 0; n < c.pinCountHeight; n++ {
				for m := 0; m < c.pinCountWidth; m++ {
					out.Set(llX+m, llY+n, st)
				}
			}
			llX += c.pitchWidth
		}
		llY += c.pitchHeight
	}
	return out, nil
}
