// Copyright 2024 The Cartoflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package advect implements C5: displacement of polygon vertices (and
// cum_proj nodes) through the projection grid produced by C4, either by
// bilinear interpolation of the displacement field or by a per-triangle
// affine map selected by the cached C7 diagonal.
package advect

import (
	"github.com/cartoflow/cartoflow/internal/geom"
	"github.com/cartoflow/cartoflow/internal/lattice"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
)

// Mode selects the advection strategy for one integration step.
type Mode int

const (
	Bilinear Mode = iota
	Triangulated
)

// clampCell returns the cell indices (i,j) containing (x,y), clamped to
// the valid range [0, lx-2] x [0, ly-2] so that every point -- including
// ones exactly on the upper boundary -- resolves to a real cell.
func clampCell(x, y float64, lx, ly int) (int, int, float64, float64) {
	i := int(x)
	j := int(y)
	if i < 0 {
		i = 0
	}
	if i > lx-2 {
		i = lx - 2
	}
	if j < 0 {
		j = 0
	}
	if j > ly-2 {
		j = ly - 2
	}
	fx := x - float64(i)
	fy := y - float64(j)
	if fx < 0 {
		fx = 0
	}
	if fx > 1 {
		fx = 1
	}
	if fy < 0 {
		fy = 0
	}
	if fy > 1 {
		fy = 1
	}
	return i, j, fx, fy
}

// bilinearAdvect interpolates the displacement field (lat.Proj - identity)
// over the cell containing p and returns p's new position.
func bilinearAdvect(lat *lattice.Lattice, p geom.Point) geom.Point {
	// coordinates here are in cell units (cell centers at i+0.5), so
	// shift by -0.5 before locating the surrounding cell of corners.
	i, j, fx, fy := clampCell(p.X-0.5, p.Y-0.5, lat.Lx, lat.Ly)
	d00 := disp(lat, i, j)
	d10 := disp(lat, i+1, j)
	d01 := disp(lat, i, j+1)
	d11 := disp(lat, i+1, j+1)
	dx := (1-fx)*(1-fy)*d00.X + fx*(1-fy)*d10.X + (1-fx)*fy*d01.X + fx*fy*d11.X
	dy := (1-fx)*(1-fy)*d00.Y + fx*(1-fy)*d10.Y + (1-fx)*fy*d01.Y + fx*fy*d11.Y
	return geom.Point{X: p.X + dx, Y: p.Y + dy}
}

func disp(lat *lattice.Lattice, i, j int) geom.Point {
	pr := lat.Proj[i][j]
	id := geom.Point{X: float64(i) + 0.5, Y: float64(j) + 0.5}
	return pr.Sub(id)
}

// cellCorners returns the four identity corners of graticule cell (i,j)
// (i.e. the lattice nodes themselves, which sit at integer coordinates
// 0..lx, 0..ly -- not the cell-center nodes) in CCW order from
// bottom-left, and their projected images.
func cellCorners(lat *lattice.Lattice, i, j int) (v, vp [4]geom.Point) {
	v = [4]geom.Point{
		{X: float64(i), Y: float64(j)},
		{X: float64(i + 1), Y: float64(j)},
		{X: float64(i + 1), Y: float64(j + 1)},
		{X: float64(i), Y: float64(j + 1)},
	}
	for k, c := range v {
		vp[k] = cornerProjection(lat, int(c.X), int(c.Y))
	}
	return
}

// cornerProjection looks up the projected position of lattice-edge
// intersection (i,j) (0<=i<=lx, 0<=j<=ly) by averaging the projections
// of the up-to-4 surrounding cell-center nodes, clamped at the grid
// border where the Neumann basis pins the boundary to itself.
func cornerProjection(lat *lattice.Lattice, i, j int) geom.Point {
	if i == 0 || i == lat.Lx || j == 0 || j == lat.Ly {
		return geom.Point{X: float64(i), Y: float64(j)}
	}
	// average the four cell-center projections diagonally adjacent to
	// this lattice-edge intersection
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

// triangles returns the two triangles of cell (i,j) for the given
// diagonal choice, as (original triangle, projected triangle) pairs.
func triangles(lat *lattice.Lattice, i, j int, diag lattice.Diagonal) (origA, projA, origB, projB [3]geom.Point) {
	v, vp := cellCorners(lat, i, j)
	if diag == lattice.Diag02 {
		origA = [3]geom.Point{v[0], v[1], v[2]}
		projA = [3]geom.Point{vp[0], vp[1], vp[2]}
		origB = [3]geom.Point{v[0], v[2], v[3]}
		projB = [3]geom.Point{vp[0], vp[2], vp[3]}
	} else {
		origA = [3]geom.Point{v[0], v[1], v[3]}
		projA = [3]geom.Point{vp[0], vp[1], vp[3]}
		origB = [3]geom.Point{v[1], v[2], v[3]}
		projB = [3]geom.Point{vp[1], vp[2], vp[3]}
	}
	return
}

// affineMap applies the unique affine transform T with T(a)=p, T(b)=q,
// T(c)=r to (x,y), via the barycentric coordinates of (x,y) in a,b,c.
// The 3x3 system is allocated with la.MatAlloc and solved by Cramer's
// rule in solve3.
func affineMap(a, b, c, p, q, r geom.Point, x, y float64) (float64, float64) {
	// Barycentric coordinates of (x,y) w.r.t. a,b,c.
	mat := la.MatAlloc(3, 3)
	mat[0] = []float64{a.X, b.X, c.X}
	mat[1] = []float64{a.Y, b.Y, c.Y}
	mat[2] = []float64{1, 1, 1}
	rhs := []float64{x, y, 1}
	bary, err := solve3(mat, rhs)
	if err != nil {
		// degenerate triangle: fall back to the image of vertex a
		return p.X, p.Y
	}
	nx := bary[0]*p.X + bary[1]*q.X + bary[2]*r.X
	ny := bary[0]*p.Y + bary[1]*q.Y + bary[2]*r.Y
	return nx, ny
}

// solve3 solves a 3x3 linear system by Cramer's rule.
func solve3(m [][]float64, b []float64) ([]float64, error) {
	det := det3(m)
	if det == 0 {
		return nil, chk.Err("singular triangle matrix")
	}
	x := make([]float64, 3)
	for col := 0; col < 3; col++ {
		mc := cloneWithCol(m, col, b)
		x[col] = det3(mc) / det
	}
	return x, nil
}

func cloneWithCol(m [][]float64, col int, b []float64) [][]float64 {
	out := la.MatAlloc(3, 3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if j == col {
				out[i][j] = b[i]
			} else {
				out[i][j] = m[i][j]
			}
		}
	}
	return out
}

func det3(m [][]float64) float64 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// triangulatedAdvect locates the cell and triangle containing p using
// the cached diagonal from the previous C7 pass and maps p through the
// corresponding affine transform.
func triangulatedAdvect(lat *lattice.Lattice, p geom.Point) geom.Point {
	// cells here have integer corners (see cellCorners), so p is not
	// shifted; clamping to [0, lx-1] x [0, ly-1] keeps corners <= lx, ly.
	i, j, _, _ := clampCell(p.X, p.Y, lat.Lx+1, lat.Ly+1)
	diag := lattice.Unset
	if lat.Diagonals != nil && i < len(lat.Diagonals) && j < len(lat.Diagonals[i]) {
		diag = lat.Diagonals[i][j]
	}
	if diag == lattice.Unset {
		diag = lattice.Diag02
	}
	oa, pa, ob, pb := triangles(lat, i, j, diag)
	if geom.InTriangle(p, oa[0], oa[1], oa[2]) {
		x, y := affineMap(oa[0], oa[1], oa[2], pa[0], pa[1], pa[2], p.X, p.Y)
		return geom.Point{X: x, Y: y}
	}
	x, y := affineMap(ob[0], ob[1], ob[2], pb[0], pb[1], pb[2], p.X, p.Y)
	return geom.Point{X: x, Y: y}
}

// Point advects a single point using the chosen mode.
func Point(lat *lattice.Lattice, p geom.Point, mode Mode) geom.Point {
	if mode == Triangulated {
		return triangulatedAdvect(lat, p)
	}
	return bilinearAdvect(lat, p)
}

// Ring advects every vertex of r and returns them as a new Ring; r is
// left unchanged.
func Ring(lat *lattice.Lattice, r geom.Ring, mode Mode) geom.Ring {
	out := make([]geom.Point, len(r.Pts))
	for i, p := range r.Pts {
		out[i] = Point(lat, p, mode)
	}
	return geom.Ring{Pts: out}
}

// PWH advects every ring of a polygon-with-holes.
func PWH(lat *lattice.Lattice, p geom.PWH, mode Mode) geom.PWH {
	holes := make([]geom.Ring, len(p.Holes))
	for i, h := range p.Holes {
		holes[i] = Ring(lat, h, mode)
	}
	return geom.PWH{Outer: Ring(lat, p.Outer, mode), Holes: holes}
}

// GeoDiv advects every polygon of g.
func GeoDiv(lat *lattice.Lattice, g geom.GeoDiv, mode Mode) geom.GeoDiv {
	pwhs := make([]geom.PWH, len(g.PWHs))
	for i, p := range g.PWHs {
		pwhs[i] = PWH(lat, p, mode)
	}
	return geom.GeoDiv{ID: g.ID, PWHs: pwhs, AdjacentIDs: g.AdjacentIDs}
}

// UpdateCumProj advects every node of lat.CumProj through the same rule
// used for the polygon vertices this step, composing the new step with
// every prior one. This must run after vertex advection, per the spec's
// resolution of the cum_proj-ordering open question.
func UpdateCumProj(lat *lattice.Lattice, mode Mode) {
	next := make([][]geom.Point, lat.Lx)
	for i := range next {
		next[i] = make([]geom.Point, lat.Ly)
		for j := range next[i] {
			next[i][j] = Point(lat, lat.CumProj[i][j], mode)
		}
	}
	lat.CumProj = next
}
