// Copyright 2024 The Cartoflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package triangulate implements C7: choosing, per graticule cell, the
// diagonal whose image lies inside the cell's projected (possibly
// non-convex) quadrilateral.
package triangulate

import (
	"github.com/cartoflow/cartoflow/internal/cartoerr"
	"github.com/cartoflow/cartoflow/internal/geom"
	"github.com/cartoflow/cartoflow/internal/lattice"
)

// PickDiagonals fills lat.Diagonals for every graticule cell. Returns a
// *cartoerr.Error of kind InvalidGraticule at the first cell where
// neither diagonal's midpoint lies inside the projected quadrilateral.
func PickDiagonals(lat *lattice.Lattice) error {
	for i := 0; i < lat.Lx-1; i++ {
		for j := 0; j < lat.Ly-1; j++ {
			v, vp := corners(lat, i, j)
			mid02 := vp[0].Add(vp[2]).Scale(0.5)
			if pointInQuad(mid02, vp) {
				lat.Diagonals[i][j] = lattice.Diag02
				continue
			}
			mid13 := vp[1].Add(vp[3]).Scale(0.5)
			if pointInQuad(mid13, vp) {
				lat.Diagonals[i][j] = lattice.Diag13
				continue
			}
			_ = v
			return cartoerr.New(cartoerr.InvalidGraticule, "cell (%d,%d): neither diagonal midpoint lies inside its projected image", i, j)
		}
	}
	return nil
}

// corners returns the identity and projected corners of cell (i,j),
// ordered CCW from bottom-left: v0=(i,j), v1=(i+1,j), v2=(i+1,j+1),
// v3=(i,j+1). Corners on the lattice boundary equal the unprojected
// corner, since the Neumann basis pins the boundary to itself.
func corners(lat *lattice.Lattice, i, j int) (v, vp [4]geom.Point) {
	v = [4]geom.Point{
		{X: float64(i), Y: float64(j)},
		{X: float64(i + 1), Y: float64(j)},
		{X: float64(i + 1), Y: float64(j + 1)},
		{X: float64(i), Y: float64(j + 1)},
	}
	for k, c := range v {
		vp[k] = projectedCorner(lat, int(c.X), int(c.Y))
	}
	return
}

func projectedCorner(lat *lattice.Lattice, i, j int) geom.Point {
	if i == 0 || i == lat.Lx || j == 0 || j == lat.Ly {
		return geom.Point{X: float64(i), Y: float64(j)}
	}
	var sum geom.Point
	n := 0
	for _, c := range [][2]int{{i - 1, j - 1}, {i, j - 1}, {i - 1, j}, {i, j}} {
		if c[0] >= 0 && c[0] < lat.Lx && c[1] >= 0 && c[1] < lat.Ly {
			sum = sum.Add(lat.Proj[c[0]][c[1]])
			n++
		}
	}
	if n == 0 {
		return geom.Point{X: float64(i), Y: float64(j)}
	}
	return sum.Scale(1 / float64(n))
}

// pointInQuad reports whether p lies inside the (possibly non-convex)
// quadrilateral q, tested as the union of its two canonical triangles
// q0-q1-q2 and q0-q2-q3.
func pointInQuad(p geom.Point, q [4]geom.Point) bool {
	return geom.InTriangle(p, q[0], q[1], q[2]) || geom.InTriangle(p, q[0], q[2], q[3])
}
