// Copyright 2024 The Cartoflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package raster implements C2: conversion of a polygon set and a
// per-GeoDiv target area into a lattice density field by horizontal
// scanline fill, using half-cell rays (y = j+0.5) as the spec requires.
package raster

import (
	"math"
	"sort"

	"github.com/cartoflow/cartoflow/internal/cartoerr"
	"github.com/cartoflow/cartoflow/internal/geom"
	"github.com/cartoflow/cartoflow/internal/lattice"
)

// rayEps is the sub-lattice offset applied to a scanline that would
// otherwise graze a vertex exactly, per spec 4.2 point 4.
const rayEps = 1e-6

type crossing struct {
	x     float64
	dir   bool // edge direction at the crossing (a.Y < b.Y); tie-break only
	geoID int  // index into divs; -1 is never stored
}

// Fill rasterizes divs (with their per-GeoDiv target areas, aligned by
// index with targets) into lat.RhoInit. A target <= 0 is treated as
// missing (contributes zero density). Returns a *cartoerr.Error of kind
// ZeroTargetSum or InvalidTopology on failure.
func Fill(lat *lattice.Lattice, divs []geom.GeoDiv, targets []float64) error {
	if len(divs) != len(targets) {
		return cartoerr.New(cartoerr.InvalidTopology, "divs/targets length mismatch: %d vs %d", len(divs), len(targets))
	}

	var totalArea, totalTarget float64
	areas := make([]float64, len(divs))
	for i, g := range divs {
		areas[i] = g.Area()
		totalArea += areas[i]
		if geom.HasTarget(targets[i]) {
			totalTarget += targets[i]
		}
	}
	if totalTarget == 0 {
		return cartoerr.New(cartoerr.ZeroTargetSum, "sum of target areas is zero")
	}
	rhoMean := totalTarget / totalArea

	densities := make([]float64, len(divs))
	for i := range divs {
		if !geom.HasTarget(targets[i]) || areas[i] == 0 {
			densities[i] = 0
			continue
		}
		densities[i] = targets[i]/areas[i] - rhoMean
	}

	for i := range lat.RhoInit {
		for j := range lat.RhoInit[i] {
			lat.RhoInit[i][j] = 0
		}
	}

	for j := 0; j < lat.Ly; j++ {
		y := float64(j) + 0.5
		crossings, err := scanline(divs, y)
		if err != nil {
			return err
		}
		if len(crossings)%2 != 0 {
			// retry once with a sub-lattice offset, as prescribed for a
			// ray grazing a vertex
			crossings, err = scanline(divs, y+rayEps)
			if err != nil {
				return err
			}
			if len(crossings)%2 != 0 {
				return cartoerr.New(cartoerr.InvalidTopology, "odd scanline intersection count at y=%.6f", y)
			}
		}
		// Sort on (x, direction) rather than x alone: two GeoDivs sharing
		// a border exactly on this ray produce crossings tied on x, and
		// sort.Slice's pairing of (k, k+1) into "inside" intervals only
		// stays correct if ties resolve the same way every time. The
		// direction flag (per-edge, assigned before this merge) makes
		// the ordering deterministic regardless of append order or
		// slice length, instead of relying on accidental sort stability.
		sort.Slice(crossings, func(a, b int) bool {
			if crossings[a].x != crossings[b].x {
				return crossings[a].x < crossings[b].x
			}
			// the upward edge closes a CCW outer ring's interval, so it
			// must come before the downward edge opening the neighbour's
			return crossings[a].dir && !crossings[b].dir
		})
		for k := 0; k+1 < len(crossings); k += 2 {
			xl, xr := crossings[k].x, crossings[k+1].x
			gi := crossings[k].geoID
			d := densities[gi]
			if d == 0 {
				continue
			}
			iStart := int(math.Ceil(xl - 0.5))
			iEnd := int(math.Floor(xr - 0.5))
			if iStart < 0 {
				iStart = 0
			}
			if iEnd > lat.Lx-1 {
				iEnd = lat.Lx - 1
			}
			for i := iStart; i <= iEnd; i++ {
				lat.RhoInit[i][j] += d
			}
		}
	}
	return nil
}

// scanline returns every edge crossing of the horizontal line y=const
// against every ring of every PWH of every GeoDiv, tagged with the
// owning GeoDiv's index.
func scanline(divs []geom.GeoDiv, y float64) ([]crossing, error) {
	var out []crossing
	for gi, g := range divs {
		for _, pwh := range g.PWHs {
			rings := append([]geom.Ring{pwh.Outer}, pwh.Holes...)
			for _, r := range rings {
				n := len(r.Pts)
				for i := 0; i < n; i++ {
					a := r.Pts[i]
					b := r.Pts[(i+1)%n]
					if (a.Y > y) == (b.Y > y) {
						continue
					}
					t := (y - a.Y) / (b.Y - a.Y)
					x := a.X + t*(b.X-a.X)
					out = append(out, crossing{x: x, dir: a.Y < b.Y, geoID: gi})
				}
			}
		}
	}
	return out, nil
}
