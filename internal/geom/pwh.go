// Copyright 2024 The Cartoflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

import "github.com/cpmech/gosl/chk"

// PWH is a polygon with holes: one outer ring plus zero or more hole
// rings, all strictly inside the outer ring and pairwise disjoint.
type PWH struct {
	Outer Ring
	Holes []Ring
}

// Area is the outer ring's area minus the area of every hole.
func (p PWH) Area() float64 {
	a := p.Outer.Area()
	for _, h := range p.Holes {
		a -= h.Area()
	}
	return a
}

// Bounds returns the PWH's bounding box (holes never extend it).
func (p PWH) Bounds() Bounds {
	return p.Outer.Bounds()
}

// CheckValid enforces the PWH invariants from the data model: the outer
// ring is simple and CCW, every hole is simple, CW, and lies inside the
// outer ring.
func (p PWH) CheckValid() error {
	if err := p.Outer.CheckValid(); err != nil {
		return chk.Err("outer ring invalid: %v", err)
	}
	if !p.Outer.IsCCW() {
		return chk.Err("outer ring is not counterclockwise")
	}
	for i, h := range p.Holes {
		if err := h.CheckValid(); err != nil {
			return chk.Err("hole %d invalid: %v", i, err)
		}
		if h.IsCCW() {
			return chk.Err("hole %d is not clockwise", i)
		}
		if !p.Outer.ContainsRing(h) {
			return chk.Err("hole %d is not contained in outer ring", i)
		}
	}
	for i := 0; i < len(p.Holes); i++ {
		for j := i + 1; j < len(p.Holes); j++ {
			if ringsIntersect(p.Holes[i], p.Holes[j]) {
				return chk.Err("holes %d and %d are not disjoint", i, j)
			}
		}
	}
	return nil
}

func ringsIntersect(a, b Ring) bool {
	na, nb := len(a.Pts), len(b.Pts)
	for i := 0; i < na; i++ {
		a0, a1 := a.Pts[i], a.Pts[(i+1)%na]
		for j := 0; j < nb; j++ {
			b0, b1 := b.Pts[j], b.Pts[(j+1)%nb]
			if segmentsCross(a0, a1, b0, b1) {
				return true
			}
		}
	}
	return false
}

// GeoDiv is a single administrative region, identified by id, made up of
// one or more polygons-with-holes, and aware of which other GeoDivs it
// borders.
type GeoDiv struct {
	ID          string
	PWHs        []PWH
	AdjacentIDs map[string]bool
}

// Area sums the area of every PWH belonging to g.
func (g GeoDiv) Area() float64 {
	var a float64
	for _, p := range g.PWHs {
		a += p.Area()
	}
	return a
}

// Bounds returns the union of the bounding boxes of every PWH in g.
func (g GeoDiv) Bounds() Bounds {
	b := EmptyBounds()
	for _, p := range g.PWHs {
		pb := p.Bounds()
		b.Extend(pb.Min)
		b.Extend(pb.Max)
	}
	return b
}

// CheckValid validates every PWH owned by g.
func (g GeoDiv) CheckValid() error {
	for i, p := range g.PWHs {
		if err := p.CheckValid(); err != nil {
			return chk.Err("geodiv %q pwh %d: %v", g.ID, i, err)
		}
	}
	return nil
}

// MissingTarget is the sentinel value used in the target-area mapping to
// encode "no target for this GeoDiv" (any value <= 0 qualifies, but the
// engine always writes this exact constant).
const MissingTarget = -1.0

// HasTarget reports whether t represents a present (non-missing) target.
func HasTarget(t float64) bool {
	return t > 0
}
