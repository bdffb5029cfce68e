// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package oracle

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_oracle01_cholesky_implements_ksp(tst *testing.T) {
	chk.PrintTitle("oracle. CholeskySolver satisfies the Ksp seam")

	var _ Ksp = CholeskySolver{}
	var _ Ksp = CholeskySolver{SolverKind: "mumps"}
}
