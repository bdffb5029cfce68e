// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package signaltype implements the closed enumeration of net/obstacle
// tags that every grid cell of every metal and via layer carries.
package signaltype

import "github.com/cpmech/gosl/chk"

// SignalType tags a single grid cell with the net (or non-net state) it
// belongs to.
type SignalType uint8

// the closed enumeration
const (
	EMPTY SignalType = iota
	POWER_1
	POWER_2
	POWER_3
	POWER_4
	POWER_5
	POWER_6
	POWER_7
	POWER_8
	POWER_9
	POWER_10
	GROUND
	SIGNAL
	OBSTACLE
	OVERLAP
	UNKNOWN
)

// PowerSignalSet lists the distinguished power nets, in declaration order.
var PowerSignalSet = []SignalType{
	POWER_1, POWER_2, POWER_3, POWER_4, POWER_5,
	POWER_6, POWER_7, POWER_8, POWER_9, POWER_10,
}

// names is the String() lookup table.
var names = map[SignalType]string{
	EMPTY: "EMPTY",
	POWER_1: "POWER_1", POWER_2: "POWER_2", POWER_3: "POWER_3", POWER_4: "POWER_4", POWER_5: "POWER_5",
	POWER_6: "POWER_6", POWER_7: "POWER_7", POWER_8: "POWER_8", POWER_9: "POWER_9", POWER_10: "POWER_10",
	GROUND: "GROUND", SIGNAL: "SIGNAL", OBSTACLE: "OBSTACLE", OVERLAP: "OVERLAP", UNKNOWN: "UNKNOWN",
}

// aliases recognises the PWR_n/GND/SIG/OBST/P<n> alternate spellings.
var aliases = map[string]SignalType{
	"EMPTY": EMPTY,
	"POWER_1": POWER_1, "PWR_1": POWER_1, "P1": POWER_1,
	"POWER_2": POWER_2, "PWR_2": POWER_2, "P2": POWER_2,
	"POWER_3": POWER_3, "PWR_3": POWER_3, "P3": POWER_3,
	"POWER_4": POWER_4, "PWR_4": POWER_4, "P4": POWER_4,
	"POWER_5": POWER_5, "PWR_5": POWER_5, "P5": POWER_5,
	"POWER_6": POWER_6, "PWR_6": POWER_6, "P6": POWER_6,
	"POWER_7": POWER_7, "PWR_7": POWER_7, "P7": POWER_7,
	"POWER_8": POWER_8, "PWR_8": POWER_8, "P8": POWER_8,
	"POWER_9": POWER_9, "PWR_9": POWER_9, "P9": POWER_9,
	"POWER_10": POWER_10, "PWR_10": POWER_10, "P10": POWER_10,
	"GROUND": GROUND, "GND": GROUND,
	"SIGNAL": SIGNAL, "SIG": SIGNAL,
	"OBSTACLE": OBSTACLE, "OBSTACLES": OBSTACLE, "OBST": OBSTACLE,
	"OVERLAP": OVERLAP,
	"UNKNOWN": UNKNOWN,
}

// String implements fmt.Stringer.
func (s SignalType) String() string {
	if n, ok := names[s]; ok {
		return n
	}
	return "UNKNOWN"
}

// Parse converts a token from a .tch/.ballout/blockage file into a SignalType.
// Unrecognised tokens are a contract violation (§7): the caller aborts with exit(4).
func Parse(tok string) (SignalType, error) {
	if s, ok := aliases[tok]; ok {
		return s, nil
	}
	return UNKNOWN, chk.Err("signalType: %q is not a recognised signal token", tok)
}

// IsPower reports whether s is one of POWER_1..POWER_10.
func (s SignalType) IsPower() bool {
	return s >= POWER_1 && s <= POWER_10
}

// PreprocessOnPowerLayer implements the §3 rule that GROUND/SIGNAL/OVERLAP
// on a power layer are folded into OBSTACLE before synthesis.
func (s SignalType) PreprocessOnPowerLayer() SignalType {
	switch s {
	case GROUND, SIGNAL, OVERLAP:
		return OBSTACLE
	default:
		return s
	}
}
