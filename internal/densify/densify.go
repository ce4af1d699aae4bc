// Copyright 2024 The Cartoflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package densify implements C6: subdividing long polygon segments so
// that the piecewise-affine maps used by triangulated advection (C5)
// never have to carry a segment across more than one cell's diagonal
// without an intermediate vertex.
package densify

import (
	"math"
	"sort"

	"github.com/cartoflow/cartoflow/internal/geom"
)

// snap is the reciprocal cell-fraction used to canonicalize
// intersection points for deduplication, per the approx_eq design note:
// two points whose coordinates round to the same multiple of 1/snap
// collapse to the same key.
const snap = 1e6

// Ring densifies every segment of r against the lattice grid lines and
// cell diagonals, inserting new vertices as needed. Orientation and
// endpoints are preserved; only interior points are added.
func Ring(r geom.Ring, lx, ly int) geom.Ring {
	n := len(r.Pts)
	if n < 2 {
		return r
	}
	out := make([]geom.Point, 0, n*2)
	for i := 0; i < n; i++ {
		a := r.Pts[i]
		b := r.Pts[(i+1)%n]
		out = append(out, a)
		out = append(out, segmentInteriorPoints(a, b, lx, ly)...)
	}
	return geom.Ring{Pts: out}
}

// segmentInteriorPoints returns the interior intersection points of
// segment a-b with the lattice's grid lines and cell diagonals, sorted
// by distance from a and deduplicated.
func segmentInteriorPoints(a, b geom.Point, lx, ly int) []geom.Point {
	seen := map[[2]int64]bool{}
	seen[a.Key(snap)] = true
	seen[b.Key(snap)] = true

	var pts []geom.Point
	add := func(p geom.Point) {
		k := p.Key(snap)
		if seen[k] {
			return
		}
		seen[k] = true
		pts = append(pts, p)
	}

	xlo, xhi := minMax(a.X, b.X)
	ylo, yhi := minMax(a.Y, b.Y)

	// grid lines x = k+0.5
	for k := int(math.Floor(xlo - 0.5)); float64(k)+0.5 <= xhi; k++ {
		x := float64(k) + 0.5
		if x < 0 || x > float64(lx) {
			continue
		}
		if p, ok := intersectVertical(a, b, x); ok {
			add(p)
		}
	}
	// grid lines y = k+0.5
	for k := int(math.Floor(ylo - 0.5)); float64(k)+0.5 <= yhi; k++ {
		y := float64(k) + 0.5
		if y < 0 || y > float64(ly) {
			continue
		}
		if p, ok := intersectHorizontal(a, b, y); ok {
			add(p)
		}
	}

	// cell diagonals: normal/antinormal slope +-1 everywhere, plus
	// steep/antisteep (+-2) near x in {0,lx} and gentle/antigentle
	// (+-0.5) near y in {0,ly}, per the densify design.
	addDiagonalFamily(a, b, 1, 0, 1, lx, ly, add)
	addDiagonalFamily(a, b, -1, 0, 1, lx, ly, add)
	addDiagonalFamily(a, b, 2, 0.5, 1, lx, ly, add)
	addDiagonalFamily(a, b, -2, 0.5, 1, lx, ly, add)
	addDiagonalFamily(a, b, 0.5, 0.25, 1, lx, ly, add)
	addDiagonalFamily(a, b, -0.5, 0.25, 1, lx, ly, add)

	sort.Slice(pts, func(i, j int) bool {
		return distSq(a, pts[i]) < distSq(a, pts[j])
	})
	return pts
}

func distSq(a, b geom.Point) float64 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx + dy*dy
}

func minMax(a, b float64) (float64, float64) {
	if a < b {
		return a, b
	}
	return b, a
}

// intersectVertical returns the intersection of segment a-b with the
// vertical line x=xv, if it lies strictly between a and b.
func intersectVertical(a, b geom.Point, xv float64) (geom.Point, bool) {
	if a.X == b.X {
		return geom.Point{}, false
	}
	t := (xv - a.X) / (b.X - a.X)
	if t <= 0 || t >= 1 {
		return geom.Point{}, false
	}
	return geom.Point{X: xv, Y: a.Y + t*(b.Y-a.Y)}, true
}

// intersectHorizontal returns the intersection of segment a-b with the
// horizontal line y=yv, if it lies strictly between a and b.
func intersectHorizontal(a, b geom.Point, yv float64) (geom.Point, bool) {
	if a.Y == b.Y {
		return geom.Point{}, false
	}
	t := (yv - a.Y) / (b.Y - a.Y)
	if t <= 0 || t >= 1 {
		return geom.Point{}, false
	}
	return geom.Point{X: a.X + t*(b.X-a.X), Y: yv}, true
}

// addDiagonalFamily finds intersections of segment a-b with every
// diagonal line y = slope*x + d + base, where d ranges over the integers
// (scaled by step) spanning the segment, and reports those that fall
// within the valid x/y range for that slope family (steep/gentle
// diagonals only extend the grid near the lattice edges).
func addDiagonalFamily(a, b geom.Point, slope, base, step float64, lx, ly int, add func(geom.Point)) {
	interceptA := a.Y - slope*a.X
	interceptB := b.Y - slope*b.X
	lo, hi := minMax(interceptA, interceptB)
	start := math.Floor(lo) + base
	for d := start; d <= hi; d += step {
		p, ok := intersectLine(a, b, slope, d)
		if !ok {
			continue
		}
		switch {
		case math.Abs(slope) == 2:
			if p.X < 0.5 || p.X > float64(lx)-0.5 {
				add(p)
			}
		case math.Abs(slope) == 0.5:
			if p.Y < 0.5 || p.Y > float64(ly)-0.5 {
				add(p)
			}
		case math.Abs(slope) == 1:
			if p.X >= 0.5 && p.X <= float64(lx)-0.5 && p.Y >= 0.5 && p.Y <= float64(ly)-0.5 {
				add(p)
			}
		}
	}
}

// intersectLine returns the intersection of segment a-b with line
// y = slope*x + intercept, if it lies strictly between a and b.
func intersectLine(a, b geom.Point, slope, intercept float64) (geom.Point, bool) {
	// Solve for t in a + t(b-a) satisfying (a.Y+t*dy) = slope*(a.X+t*dx)+intercept
	dx := b.X - a.X
	dy := b.Y - a.Y
	denom := dy - slope*dx
	if denom == 0 {
		return geom.Point{}, false
	}
	t := (slope*a.X + intercept - a.Y) / denom
	if t <= 0 || t >= 1 {
		return geom.Point{}, false
	}
	return geom.Point{X: a.X + t*dx, Y: a.Y + t*dy}, true
}

// PWH densifies every ring of a polygon-with-holes.
func PWH(p geom.PWH, lx, ly int) geom.PWH {
	holes := make([]geom.Ring, len(p.Holes))
	for i, h := range p.Holes {
		holes[i] = Ring(h, lx, ly)
	}
	return geom.PWH{Outer: Ring(p.Outer, lx, ly), Holes: holes}
}

// GeoDiv densifies every polygon of g.
func GeoDiv(g geom.GeoDiv, lx, ly int) geom.GeoDiv {
	pwhs := make([]geom.PWH, len(g.PWHs))
	for i, p := range g.PWHs {
		pwhs[i] = PWH(p, lx, ly)
	}
	return geom.GeoDiv{ID: g.ID, PWHs: pwhs, AdjacentIDs: g.AdjacentIDs}
}
