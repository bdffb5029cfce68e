// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package signaltype

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_signaltype01(tst *testing.T) {

	chk.PrintTitle("signaltype. aliases and round-trip")

	cases := map[string]SignalType{
		"POWER_3": POWER_3, "PWR_3": POWER_3, "P3": POWER_3,
		"GND": GROUND, "SIG": SIGNAL, "OBST": OBSTACLE,
	}
	for tok, want := range cases {
		got, err := Parse(tok)
		if err != nil {
			tst.Errorf("Parse(%q) failed: %v", tok, err)
		}
		if got != want {
			tst.Errorf("Parse(%q) = %v, want %v", tok, got, want)
		}
	}

	if _, err := Parse("NOT_A_SIGNAL"); err == nil {
		tst.Errorf("Parse should have failed on an unrecognised token")
	}
}

func Test_signaltype02(tst *testing.T) {

	chk.PrintTitle("signaltype. preprocessing on power layers")

	for _, s := range []SignalType{GROUND, SIGNAL, OVERLAP} {
		if got := s.PreprocessOnPowerLayer(); got != OBSTACLE {
			tst.Errorf("%v should fold into OBSTACLE on a power layer, got %v", s, got)
		}
	}
	if POWER_1.PreprocessOnPowerLayer() != POWER_1 {
		tst.Errorf("POWER_1 must not be altered by PreprocessOnPowerLayer")
	}

	if len(PowerSignalSet) != 10 {
		tst.Errorf("PowerSignalSet must have 10 members, got %d", len(PowerSignalSet))
	}
	for _, s := range PowerSignalSet {
		if !s.IsPower() {
			tst.Errorf("%v should be IsPower()", s)
		}
	}
	if EMPTY.IsPower() || OBSTACLE.IsPower() {
		tst.Errorf("EMPTY/OBSTACLE must not be IsPower()")
	}
}
