// Copyright 2024 The Cartoflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package collab declares the three external collaborator interfaces
// named in spec §6 (Reader, Projector, Renderer) and ships minimal,
// honestly-partial implementations sufficient to drive the end-to-end
// scenarios in this repository's tests. None of these aim to be a
// general-purpose GeoJSON/CSV library or a cartographic renderer: that
// remains out of scope per spec.md §1.
package collab

import (
	"context"

	"github.com/cartoflow/cartoflow/internal/geom"
	"github.com/cpmech/gosl/io"
)

// Reader produces GeoDivs and the target-area mapping.
type Reader interface {
	Read(ctx context.Context) ([]geom.GeoDiv, map[string]float64, error)
}

// Projector applies a map projection before the engine sees coordinates.
// The engine itself is projection-agnostic; this interface exists only
// so a caller can plug in Albers/Smyth equal-area projection upstream.
type Projector interface {
	Project(divs []geom.GeoDiv) ([]geom.GeoDiv, error)
}

// Renderer consumes the final GeoDivs and optionally the cumulative
// projection grid.
type Renderer interface {
	Render(divs []geom.GeoDiv, cumProj [][]geom.Point) error
}

// LiteralReader serves a fixed, in-memory set of GeoDivs and targets,
// such as the literal S1 fixture from DefaultScenario. It stands in
// for a GeoJSON/CSV Reader without attempting to parse either format.
type LiteralReader struct {
	Divs    []geom.GeoDiv
	Targets map[string]float64
}

// Read implements Reader.
func (r LiteralReader) Read(ctx context.Context) ([]geom.GeoDiv, map[string]float64, error) {
	select {
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	default:
	}
	return r.Divs, r.Targets, nil
}

// DefaultScenario returns the literal S1 "uniform" fixture from the
// testable-properties scenarios: a single square GeoDiv on a 16x16
// lattice targeting an area of 64, used as cartoflow's zero-argument
// default run.
func DefaultScenario() LiteralReader {
	square := geom.GeoDiv{
		ID: "square",
		PWHs: []geom.PWH{{
			Outer: geom.NewRing([]geom.Point{
				{X: 1, Y: 1}, {X: 9, Y: 1}, {X: 9, Y: 9}, {X: 1, Y: 9},
			}),
		}},
		AdjacentIDs: map[string]bool{},
	}
	return LiteralReader{
		Divs:    []geom.GeoDiv{square},
		Targets: map[string]float64{"square": 64},
	}
}

// IdentityProjector returns its input unchanged. Real Albers/Smyth
// equal-area projection is out of scope for this engine (spec.md §1).
type IdentityProjector struct{}

// Project implements Projector as a no-op.
func (IdentityProjector) Project(divs []geom.GeoDiv) ([]geom.GeoDiv, error) {
	return divs, nil
}

// SummaryRenderer writes a per-GeoDiv area table via gosl/io rather than
// producing PostScript/PNG/PDF output (also out of scope).
type SummaryRenderer struct {
	AreaError map[string]float64
}

// Render implements Renderer.
func (r SummaryRenderer) Render(divs []geom.GeoDiv, cumProj [][]geom.Point) error {
	io.Pf("%-12s %12s %12s\n", "geodiv", "area", "area_error")
	for _, g := range divs {
		ae := r.AreaError[g.ID]
		io.Pf("%-12s %12.4f %12.6f\n", g.ID, g.Area(), ae)
	}
	return nil
}
