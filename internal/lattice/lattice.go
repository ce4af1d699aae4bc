// Copyright 2024 The Cartoflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lattice implements C1: the lx x ly real field and the
// cosine-basis forward/backward transform pair used by the blur (C3)
// and flow (C4) stages. The basis is the type-II/type-III discrete
// cosine transform, which is the orthogonal basis diagonalizing the
// Laplacian under Neumann (zero-flux) boundary conditions -- exactly the
// boundary condition the diffusion problem in C4 requires.
package lattice

import (
	"math"

	"github.com/cartoflow/cartoflow/internal/geom"
	"github.com/cartoflow/cartoflow/internal/matutil"
	"github.com/cpmech/gosl/chk"
)

// Lattice owns every lx x ly field of one inset: the density in real
// space and in cosine-basis space, the per-step and cumulative
// projection grids, and the cached graticule diagonal choice. It is
// allocated once per inset and released when the integration loop
// exits; RhoInit and RhoFT share the same shape and lifetime.
type Lattice struct {
	Lx, Ly int

	RhoInit [][]float64   // C2 writes here, C3's backward transform overwrites it
	RhoFT   [][]float64   // cosine-basis coefficients; forward() writes here
	Proj    [][]geom.Point // per-step projection, rewritten every integration
	CumProj [][]geom.Point // cumulative projection, never reset between steps

	Diagonals [][]Diagonal // (lx-1) x (ly-1) cached C7 choice
}

// Diagonal is the tiny tagged variant recording which diagonal C7 chose
// for a graticule cell. It is never allowed to escape as a bare integer.
type Diagonal int

const (
	// Unset marks a cell whose diagonal has not yet been chosen.
	Unset Diagonal = iota
	// Diag02 splits the cell along the corners v0-v2 (bottom-left to
	// top-right).
	Diag02
	// Diag13 splits the cell along the corners v1-v3 (bottom-right to
	// top-left).
	Diag13
)

// New allocates a Lattice of the given dimensions with cum_proj
// initialized to the identity mapping cum_proj[i][j] = (i+0.5, j+0.5).
func New(lx, ly int) (*Lattice, error) {
	if lx < 2 || ly < 2 {
		return nil, chk.Err("lattice dimensions must be >= 2, got lx=%d ly=%d", lx, ly)
	}
	l := &Lattice{
		Lx:      lx,
		Ly:      ly,
		RhoInit: matutil.Alloc(lx, ly),
		RhoFT:   matutil.Alloc(lx, ly),
		Proj:    matutil.AllocPoints(lx, ly),
		CumProj: matutil.AllocPoints(lx, ly),
	}
	matutil.FillIdentity(l.CumProj)
	matutil.FillIdentity(l.Proj)
	if lx > 1 && ly > 1 {
		l.Diagonals = make([][]Diagonal, lx-1)
		for i := range l.Diagonals {
			l.Diagonals[i] = make([]Diagonal, ly-1)
		}
	}
	return l, nil
}

// dct2 performs a 1D type-II DCT of x into dst (dst and x may alias).
func dct2(dst, x []float64) {
	n := len(x)
	tmp := make([]float64, n)
	for k := 0; k < n; k++ {
		var sum float64
		for i := 0; i < n; i++ {
			sum += x[i] * math.Cos(math.Pi/float64(n)*(float64(i)+0.5)*float64(k))
		}
		tmp[k] = 2 * sum
	}
	copy(dst, tmp)
}

// dct3 performs a 1D type-III DCT (the unnormalized inverse of dct2) of
// x into dst. dct3 applied to dct2's output multiplies by 2n.
func dct3(dst, x []float64) {
	n := len(x)
	tmp := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := x[0]
		for k := 1; k < n; k++ {
			sum += 2 * x[k] * math.Cos(math.Pi/float64(n)*float64(k)*(float64(i)+0.5))
		}
		tmp[i] = sum
	}
	copy(dst, tmp)
}

// Forward transforms RhoInit into RhoFT using a 2D separable DCT-II
// (rows then columns). RhoInit is left unmodified.
func (l *Lattice) Forward() {
	rowT := matutil.Clone(l.RhoInit)
	for i := 0; i < l.Lx; i++ {
		dct2(rowT[i], rowT[i])
	}
	col := make([]float64, l.Lx)
	colOut := make([]float64, l.Lx)
	for j := 0; j < l.Ly; j++ {
		for i := 0; i < l.Lx; i++ {
			col[i] = rowT[i][j]
		}
		dct2(colOut, col)
		for i := 0; i < l.Lx; i++ {
			l.RhoFT[i][j] = colOut[i]
		}
	}
}

// Backward transforms RhoFT into RhoInit using the paired 2D separable
// DCT-III, dividing by 4*lx*ly so that Forward followed by Backward is
// the identity (up to floating point error).
func (l *Lattice) Backward() {
	l.BackwardRaw()
	norm := 4.0 * float64(l.Lx) * float64(l.Ly)
	for i := 0; i < l.Lx; i++ {
		for j := 0; j < l.Ly; j++ {
			l.RhoInit[i][j] /= norm
		}
	}
}

// BackwardRaw transforms RhoFT into RhoInit using the 2D separable
// DCT-III without the 1/(4*lx*ly) normalization. Callers that fold the
// normalization into a per-coefficient step beforehand (C3's blur, which
// divides while applying the Gaussian kernel) use this instead of
// Backward to avoid normalizing twice.
func (l *Lattice) BackwardRaw() {
	rowT := matutil.Clone(l.RhoFT)
	for i := 0; i < l.Lx; i++ {
		dct3(rowT[i], rowT[i])
	}
	col := make([]float64, l.Lx)
	colOut := make([]float64, l.Lx)
	for j := 0; j < l.Ly; j++ {
		for i := 0; i < l.Lx; i++ {
			col[i] = rowT[i][j]
		}
		dct3(colOut, col)
		for i := 0; i < l.Lx; i++ {
			l.RhoInit[i][j] = colOut[i]
		}
	}
}
