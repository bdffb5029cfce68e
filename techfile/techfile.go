// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package techfile parses the .tch technology file: a flat sequence of
// newline-delimited "KEY = value UNIT" records, comments starting at
// '#', where the unit suffix prefix maps to a power of ten.
package techfile

import (
	"sort"
	"strconv"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/io"
)

// unitPrefixExponent maps recognised SI prefixes to powers of ten.
var unitPrefixExponent = map[byte]float64{
	'f': -15, 'p': -12, 'n': -9, 'u': -6, 'm': -3, 'c': -2,
}

// Technology holds every scalar parameter of the .tch file, keyed by its
// record name, already scaled to the base SI unit (metres, ohms,
// henries, farads, seconds) implied by its unit suffix.
type Technology struct {
	Params map[string]float64
}

// Get returns a parameter's scaled value, panicking (a contract
// violation per §7) if it is absent — callers that need an optional
// parameter should check Params directly.
func (t *Technology) Get(key string) float64 {
	v, ok := t.Params[key]
	if !ok {
		chk.Panic("techfile: required parameter %q is missing", key)
	}
	return v
}

// Prms rebuilds the named-parameter record callers in the mdl/* style
// expect (mdl/diffusion.M1.Init's prms.Find("k") idiom), keys sorted for
// a deterministic iteration order.
func (t *Technology) Prms() fun.Prms {
	keys := make([]string, 0, len(t.Params))
	for k := range t.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	prms := make(fun.Prms, 0, len(keys))
	for _, k := range keys {
		prms = append(prms, &fun.Prm{N: k, V: t.Params[k]})
	}
	return prms
}

// Parse reads a .tch file's contents and returns its scaled parameters.
func Parse(path string) (*Technology, error) {
	lines, err := io.ReadLines(path)
	if err != nil {
		return nil, chk.Err("techfile: cannot read %q: %v", path, err)
	}
	t := &Technology{Params: make(map[string]float64)}
	for lineNo, raw := range lines {
		line := stripComment(raw)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key, val, err := parseRecord(line)
		if err != nil {
			return nil, chk.Err("techfile: %q line %d: %v", path, lineNo+1, err)
		}
		t.Params[key] = val
	}
	return t, nil
}

func stripComment(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		return line[:i]
	}
	return line
}

// parseRecord parses one "KEY = value UNIT" record.
func parseRecord(line string) (key string, val float64, err error) {
	parts := strings.Fields(line)
	// KEY = value [unit]
	if len(parts) < 3 || parts[1] != "=" {
		return "", 0, chk.Err("malformed record %q, want 'KEY = value [unit]'", line)
	}
	key = parts[0]
	num, uerr := strconv.ParseFloat(parts[2], 64)
	if uerr != nil {
		return "", 0, chk.Err("cannot parse numeric value %q: %v", parts[2], uerr)
	}
	if len(parts) >= 4 {
		scale, serr := unitScale(parts[3])
		if serr != nil {
			return "", 0, serr
		}
		num *= scale
	}
	return key, num, nil
}

// unitScale resolves a unit token's prefix character to its power-of-ten
// multiplier. A bare unit with no recognised prefix scales by 1.
func unitScale(unit string) (float64, error) {
	if unit == "" {
		return 1, nil
	}
	exp, ok := unitPrefixExponent[unit[0]]
	if !ok {
		return 1, nil
	}
	return pow10(exp), nil
}

func pow10(exp float64) float64 {
	v := 1.0
	n := int(exp)
	neg := n < 0
	if neg {
		n = -n
	}
	for i := 0; i < n; i++ {
		v *= 10
	}
	if neg {
		return 1 / v
	}
	return v
}
