// Copyright 2024 The Cartoflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lattice

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_roundtrip01(tst *testing.T) {
	chk.PrintTitle("roundtrip01")
	lx, ly := 8, 8
	lat, err := New(lx, ly)
	if err != nil {
		tst.Fatalf("New failed: %v", err)
	}
	var maxAbs float64
	for i := 0; i < lx; i++ {
		for j := 0; j < ly; j++ {
			v := math.Sin(float64(i)) * math.Cos(float64(j)) * 3.7
			lat.RhoInit[i][j] = v
			if math.Abs(v) > maxAbs {
				maxAbs = math.Abs(v)
			}
		}
	}
	original := make([][]float64, lx)
	for i := range original {
		original[i] = append([]float64(nil), lat.RhoInit[i]...)
	}

	lat.Forward()
	lat.Backward()

	tol := 1e-10 * maxAbs
	for i := 0; i < lx; i++ {
		for j := 0; j < ly; j++ {
			diff := math.Abs(lat.RhoInit[i][j] - original[i][j])
			if diff > tol && diff > 1e-9 {
				tst.Errorf("roundtrip mismatch at (%d,%d): got %.12f want %.12f", i, j, lat.RhoInit[i][j], original[i][j])
			}
		}
	}
}

func Test_boundary_fixity01(tst *testing.T) {
	chk.PrintTitle("boundary_fixity01")
	lat, err := New(6, 6)
	if err != nil {
		tst.Fatalf("New failed: %v", err)
	}
	for j := 0; j < lat.Ly; j++ {
		chk.Scalar(tst, "cum_proj[0][j].x", 1e-12, lat.CumProj[0][j].X, 0.5)
	}
	for i := 0; i < lat.Lx; i++ {
		chk.Scalar(tst, "cum_proj[i][0].y", 1e-12, lat.CumProj[i][0].Y, 0.5)
	}
}

func Test_diagonal_enum01(tst *testing.T) {
	chk.PrintTitle("diagonal_enum01")
	lat, err := New(4, 4)
	if err != nil {
		tst.Fatalf("New failed: %v", err)
	}
	for i := range lat.Diagonals {
		for j := range lat.Diagonals[i] {
			if lat.Diagonals[i][j] != Unset {
				tst.Errorf("freshly allocated diagonal at (%d,%d) should be Unset", i, j)
			}
		}
	}
}
