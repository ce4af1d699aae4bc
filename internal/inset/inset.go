// Copyright 2024 The Cartoflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package inset implements C9: the per-inset orchestrator. InsetState is
// modeled directly on the teacher's fem.Domain -- a mutable struct
// owning every sub-component's state, built by Init (there is no Free;
// the fields are released with the State) and driven by a single entry
// point (here, the driver package's Run) that plays the
// role of Domain's solve loop.
package inset

import (
	"github.com/cartoflow/cartoflow/internal/cartoerr"
	"github.com/cartoflow/cartoflow/internal/geom"
	"github.com/cartoflow/cartoflow/internal/lattice"
)

// State is the unit of work for the engine: one inset's GeoDivs, target
// areas, lattice fields, and bookkeeping, per the spec's data model.
type State struct {
	Name   string
	Divs   []geom.GeoDiv
	Target map[string]float64 // id -> target area; missing encoded via geom.MissingTarget

	Lat *lattice.Lattice

	AreaError            map[string]float64
	NFinishedIntegrations int
}

// Init does not rescale: divs must already lie in [0,lx] x [0,ly]. It
// allocates the lattice, copies the target map, and rejects any GeoDiv
// that fails CheckValid with an InvalidTopology error.
func Init(name string, divs []geom.GeoDiv, target map[string]float64, lx, ly int) (*State, error) {
	lat, err := lattice.New(lx, ly)
	if err != nil {
		return nil, err
	}
	tcopy := make(map[string]float64, len(target))
	for k, v := range target {
		tcopy[k] = v
	}
	s := &State{
		Name:      name,
		Divs:      divs,
		Target:    tcopy,
		Lat:       lat,
		AreaError: make(map[string]float64, len(divs)),
	}
	for _, g := range divs {
		if err := g.CheckValid(); err != nil {
			return nil, cartoerr.New(cartoerr.InvalidTopology, "%v", err).WithGeoDiv(g.ID)
		}
	}
	return s, nil
}

// TargetsAligned returns the per-GeoDiv target slice aligned by index
// with s.Divs, using geom.MissingTarget for any GeoDiv absent from
// s.Target.
func (s *State) TargetsAligned() []float64 {
	out := make([]float64, len(s.Divs))
	for i, g := range s.Divs {
		if t, ok := s.Target[g.ID]; ok {
			out[i] = t
		} else {
			out[i] = geom.MissingTarget
		}
	}
	return out
}

// NormalizedTarget returns target*(g): target(g) scaled so that
// sum(target*) == sum(area), which is what area_error is measured
// against (spec's area_error formula normalizes across missing
// targets).
func (s *State) NormalizedTarget() map[string]float64 {
	var totalArea, totalTarget float64
	for _, g := range s.Divs {
		totalArea += g.Area()
		if t, ok := s.Target[g.ID]; ok && geom.HasTarget(t) {
			totalTarget += t
		}
	}
	out := make(map[string]float64, len(s.Divs))
	if totalTarget == 0 {
		return out
	}
	scale := totalArea / totalTarget
	for _, g := range s.Divs {
		if t, ok := s.Target[g.ID]; ok && geom.HasTarget(t) {
			out[g.ID] = t * scale
		}
	}
	return out
}

// RecomputeAreaErrors recomputes s.AreaError for every GeoDiv carrying a
// target, as |area/target* - 1|.
func (s *State) RecomputeAreaErrors() {
	targets := s.NormalizedTarget()
	for _, g := range s.Divs {
		t, ok := targets[g.ID]
		if !ok || t == 0 {
			continue
		}
		a := g.Area()
		s.AreaError[g.ID] = abs(a/t - 1)
	}
}

// MaxAreaError returns the largest entry of s.AreaError, or 0 if empty.
func (s *State) MaxAreaError() float64 {
	var max float64
	for _, v := range s.AreaError {
		if v > max {
			max = v
		}
	}
	return max
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// Result is what the driver returns: the final state, plus a non-fatal
// warning when NonConvergent was hit.
type Result struct {
	State   *State
	Warning *cartoerr.Error
}
