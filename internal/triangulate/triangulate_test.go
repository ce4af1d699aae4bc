// Copyright 2024 The Cartoflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package triangulate

import (
	"testing"

	"github.com/cartoflow/cartoflow/internal/lattice"
	"github.com/cpmech/gosl/chk"
)

// Test_identity_diagonals01 checks that with no flow applied (proj is
// the identity), every cell is convex and a diagonal is always chosen.
func Test_identity_diagonals01(tst *testing.T) {
	chk.PrintTitle("identity_diagonals01")
	lat, err := lattice.New(6, 6)
	if err != nil {
		tst.Fatalf("New failed: %v", err)
	}
	if err := PickDiagonals(lat); err != nil {
		tst.Fatalf("PickDiagonals failed: %v", err)
	}
	for i := range lat.Diagonals {
		for j := range lat.Diagonals[i] {
			if lat.Diagonals[i][j] == lattice.Unset {
				tst.Errorf("cell (%d,%d) should have a chosen diagonal", i, j)
			}
		}
	}
}
