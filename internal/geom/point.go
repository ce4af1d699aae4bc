// Copyright 2024 The Cartoflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package geom implements the polygon data model used throughout the
// cartogram flow engine: points, rings, polygons-with-holes and the
// GeoDiv collections the rasterizer and advection stages operate on.
package geom

import "math"

// Point is a 2D coordinate. Equality is approximate; use ApproxEqual
// rather than ==.
type Point struct {
	X, Y float64
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Scale returns p scaled by s.
func (p Point) Scale(s float64) Point {
	return Point{p.X * s, p.Y * s}
}

// ApproxEqual reports whether p and q are within eps of each other in
// both coordinates. It is the named approximate comparison (NewRing uses
// it to detect a repeated closing vertex); densification dedup uses Key
// instead.
func (p Point) ApproxEqual(q Point, eps float64) bool {
	return math.Abs(p.X-q.X) <= eps && math.Abs(p.Y-q.Y) <= eps
}

// Key returns a canonicalized integer key for p, obtained by rounding
// each coordinate to the nearest 1/snap fraction of a cell. Points whose
// coordinates round to the same multiples of 1/snap share a key; two
// points that are ApproxEqual under eps = 1/snap can still get different
// keys when they lie on either side of a rounding boundary. Key is used
// as a hash-map key during densification deduplication without
// overriding comparison globally.
func (p Point) Key(snap float64) [2]int64 {
	return [2]int64{
		int64(math.Round(p.X * snap)),
		int64(math.Round(p.Y * snap)),
	}
}

// cross returns the z-component of (b-a) x (p-a).
func cross(p, a, b Point) float64 {
	return (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
}

// InTriangle reports whether p lies inside (or on) triangle a,b,c.
// Shared by the C5 advection and C7 triangulation stages, which both
// need the same point-in-triangle test against their own pair of
// candidate triangles.
func InTriangle(p, a, b, c Point) bool {
	d1 := cross(p, a, b)
	d2 := cross(p, b, c)
	d3 := cross(p, c, a)
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min, Max Point
}

// EmptyBounds returns a Bounds primed for repeated Extend calls.
func EmptyBounds() Bounds {
	return Bounds{
		Min: Point{math.Inf(1), math.Inf(1)},
		Max: Point{math.Inf(-1), math.Inf(-1)},
	}
}

// Extend grows b to include p.
func (b *Bounds) Extend(p Point) {
	b.Min.X = math.Min(b.Min.X, p.X)
	b.Min.Y = math.Min(b.Min.Y, p.Y)
	b.Max.X = math.Max(b.Max.X, p.X)
	b.Max.Y = math.Max(b.Max.Y, p.Y)
}

// OverlapsY reports whether b's Y-extent includes y.
func (b Bounds) OverlapsY(y float64) bool {
	return y >= b.Min.Y && y <= b.Max.Y
}
