// Copyright 2024 The Cartoflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package matutil provides the row-major 2D allocation helpers used for
// every lattice-shaped field in the engine, following the allocation
// convention of gosl's utl.Alloc / la.MatAlloc ([][]float64 of equal-
// length rows) rather than a flat-slice-plus-stride scheme.
package matutil

import "github.com/cartoflow/cartoflow/internal/geom"

// Alloc allocates an lx x ly matrix of float64, all zeroed.
func Alloc(lx, ly int) [][]float64 {
	m := make([][]float64, lx)
	for i := range m {
		m[i] = make([]float64, ly)
	}
	return m
}

// Fill sets every entry of m to v.
func Fill(m [][]float64, v float64) {
	for i := range m {
		for j := range m[i] {
			m[i][j] = v
		}
	}
}

// Clone returns a deep copy of m.
func Clone(m [][]float64) [][]float64 {
	out := make([][]float64, len(m))
	for i, row := range m {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

// AllocPoints allocates an lx x ly matrix of geom.Point.
func AllocPoints(lx, ly int) [][]geom.Point {
	m := make([][]geom.Point, lx)
	for i := range m {
		m[i] = make([]geom.Point, ly)
	}
	return m
}

// FillIdentity sets m[i][j] = (i+0.5, j+0.5), the initial cum_proj state.
func FillIdentity(m [][]geom.Point) {
	for i := range m {
		for j := range m[i] {
			m[i][j] = geom.Point{X: float64(i) + 0.5, Y: float64(j) + 0.5}
		}
	}
}

// ClonePoints returns a deep copy of m.
func ClonePoints(m [][]geom.Point) [][]geom.Point {
	out := make([][]geom.Point, len(m))
	for i, row := range m {
		out[i] = append([]geom.Point(nil), row...)
	}
	return out
}

// Max returns the largest entry of m.
func Max(m [][]float64) float64 {
	max := m[0][0]
	for _, row := range m {
		for _, v := range row {
			if v > max {
				max = v
			}
		}
	}
	return max
}
