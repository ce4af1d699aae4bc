// Copyright 2024 The Cartoflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package blur implements C3: a separable Gaussian blur applied in the
// cosine-basis domain, following the same attenuation-then-backward-
// transform shape as the teacher's retention-model smoothing passes.
package blur

import (
	"math"

	"github.com/cartoflow/cartoflow/internal/lattice"
)

// Apply multiplies lat.RhoFT by the cosine-basis Gaussian kernel of the
// given width and executes the backward transform, leaving the blurred
// density in lat.RhoInit. The 1/(4*lx*ly) backward-transform
// normalization is absorbed into the per-coefficient multiplication and
// BackwardRaw, which does not divide, is used, so the normalization is
// applied once, not twice.
func Apply(lat *lattice.Lattice, width float64) {
	lx, ly := float64(lat.Lx), float64(lat.Ly)
	prefactor := -0.5 * width * width * math.Pi * math.Pi
	norm := 4 * lx * ly
	for i := 0; i < lat.Lx; i++ {
		si := float64(i) / lx
		si2 := si * si
		for j := 0; j < lat.Ly; j++ {
			sj := float64(j) / ly
			sj2 := sj * sj
			lat.RhoFT[i][j] *= math.Exp(prefactor*(si2+sj2)) / norm
		}
	}
	lat.BackwardRaw()
}
