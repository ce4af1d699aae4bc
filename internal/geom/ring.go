// Copyright 2024 The Cartoflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

import "github.com/cpmech/gosl/chk"

// Ring is an ordered sequence of vertices. The first vertex is not
// repeated at the end. Orientation is material: outer rings are
// counterclockwise, holes are clockwise.
type Ring struct {
	Pts []Point
}

// NewRing builds a Ring, stripping a duplicated closing vertex if present.
func NewRing(pts []Point) Ring {
	n := len(pts)
	if n >= 2 && pts[0].ApproxEqual(pts[n-1], 1e-12) {
		pts = pts[:n-1]
	}
	return Ring{Pts: append([]Point(nil), pts...)}
}

// SignedArea returns the standard shoelace signed area (positive for CCW
// rings, negative for CW).
func (r Ring) SignedArea() float64 {
	n := len(r.Pts)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		a := r.Pts[i]
		b := r.Pts[(i+1)%n]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}

// Area is the absolute area enclosed by the ring.
func (r Ring) Area() float64 {
	a := r.SignedArea()
	if a < 0 {
		return -a
	}
	return a
}

// IsCCW reports whether the ring winds counterclockwise.
func (r Ring) IsCCW() bool {
	return r.SignedArea() > 0
}

// Reversed returns r with vertex order flipped (used to canonicalize
// orientation; the engine itself never receives a wrongly-oriented ring,
// per spec design note — this helper exists for the Reader collaborator).
func (r Ring) Reversed() Ring {
	out := make([]Point, len(r.Pts))
	n := len(r.Pts)
	for i, p := range r.Pts {
		out[n-1-i] = p
	}
	return Ring{Pts: out}
}

// Bounds returns the ring's axis-aligned bounding box.
func (r Ring) Bounds() Bounds {
	b := EmptyBounds()
	for _, p := range r.Pts {
		b.Extend(p)
	}
	return b
}

// IsSimple reports whether the ring is free of self-intersections,
// checked by brute-force segment-pair testing. Adjacent segments (which
// legitimately share an endpoint) are skipped.
func (r Ring) IsSimple() bool {
	n := len(r.Pts)
	if n < 3 {
		return false
	}
	for i := 0; i < n; i++ {
		a0, a1 := r.Pts[i], r.Pts[(i+1)%n]
		for j := i + 1; j < n; j++ {
			if j == i {
				continue
			}
			adjacent := (j == i+1) || (i == 0 && j == n-1)
			if adjacent {
				continue
			}
			b0, b1 := r.Pts[j], r.Pts[(j+1)%n]
			if segmentsCross(a0, a1, b0, b1) {
				return false
			}
		}
	}
	return true
}

func orient(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

func onSegment(a, b, p Point) bool {
	if orient(a, b, p) != 0 {
		return false
	}
	return p.X >= min2(a.X, b.X) && p.X <= max2(a.X, b.X) &&
		p.Y >= min2(a.Y, b.Y) && p.Y <= max2(a.Y, b.Y)
}

func min2(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max2(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func segmentsCross(a0, a1, b0, b1 Point) bool {
	d1 := orient(b0, b1, a0)
	d2 := orient(b0, b1, a1)
	d3 := orient(a0, a1, b0)
	d4 := orient(a0, a1, b1)
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	if d1 == 0 && onSegment(b0, b1, a0) {
		return true
	}
	if d2 == 0 && onSegment(b0, b1, a1) {
		return true
	}
	if d3 == 0 && onSegment(a0, a1, b0) {
		return true
	}
	if d4 == 0 && onSegment(a0, a1, b1) {
		return true
	}
	return false
}

// ContainsPoint reports whether p lies inside r using the even-odd
// ray-casting rule. Used to check that holes lie inside their outer ring.
func (r Ring) ContainsPoint(p Point) bool {
	n := len(r.Pts)
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := r.Pts[i], r.Pts[j]
		if (pi.Y > p.Y) != (pj.Y > p.Y) {
			xint := pj.X + (p.Y-pi.Y)/(pj.Y-pi.Y)*(pj.X-pi.X)
			if p.X < xint {
				inside = !inside
			}
		}
	}
	return inside
}

// ContainsRing reports whether every vertex of inner lies inside r. This
// is a practical, not exhaustive, topological containment check: it is
// sufficient for the densified grid-scale polygons the engine produces,
// where rings do not interleave without sharing a vertex.
func (r Ring) ContainsRing(inner Ring) bool {
	if len(inner.Pts) == 0 {
		return false
	}
	for _, p := range inner.Pts {
		if !r.ContainsPoint(p) {
			return false
		}
	}
	return true
}

// CheckValid returns an error if the ring is degenerate or self-crossing.
func (r Ring) CheckValid() error {
	if len(r.Pts) < 3 {
		return chk.Err("ring has fewer than 3 vertices: %d", len(r.Pts))
	}
	if !r.IsSimple() {
		return chk.Err("ring is not simple (self-intersecting)")
	}
	return nil
}
