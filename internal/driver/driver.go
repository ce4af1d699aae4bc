// Copyright 2024 The Cartoflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package driver implements C8 (the integration driver, iterating
// C2->C5 until area-error converges) and the multi-inset concurrency
// model of spec §5.
package driver

import (
	"math"
	"runtime"
	"sync"

	"github.com/cartoflow/cartoflow/internal/advect"
	"github.com/cartoflow/cartoflow/internal/blur"
	"github.com/cartoflow/cartoflow/internal/cartoerr"
	"github.com/cartoflow/cartoflow/internal/config"
	"github.com/cartoflow/cartoflow/internal/densify"
	"github.com/cartoflow/cartoflow/internal/flow"
	"github.com/cartoflow/cartoflow/internal/geom"
	"github.com/cartoflow/cartoflow/internal/inset"
	"github.com/cartoflow/cartoflow/internal/raster"
	"github.com/cartoflow/cartoflow/internal/triangulate"
	"github.com/cpmech/gosl/io"
)

// sigmaSchedule returns the blur width at integration step n, per the
// spec's resolution of the open question: 2^(5-n), floored at a
// positive configured value rather than stepping to zero.
func sigmaSchedule(n int, floor float64) float64 {
	s := math.Pow(2, float64(5-n))
	if s < floor {
		return floor
	}
	return s
}

// Run executes C8 for one inset: rasterize, blur, integrate the flow,
// optionally triangulate/densify, advect, recompute area errors, repeat
// until convergence or cfg.MaxIntegrations is exhausted.
func Run(s *inset.State, cfg config.Data) (*inset.Result, error) {
	mode := advect.Bilinear
	if cfg.Triangulation {
		mode = advect.Triangulated
	}
	flowParams := flow.Params{
		Method:      cfg.ODEMethod,
		AbsTol:      cfg.ODEAbsTol,
		HorizonTol:  1e-7,
		MaxHalvings: cfg.MaxHalvings,
	}

	s.RecomputeAreaErrors()
	var bestDivs []geom.GeoDiv
	bestErr := math.Inf(1)

	for n := 0; n < cfg.MaxIntegrations; n++ {
		if s.MaxAreaError() <= cfg.EpsArea && n > 0 {
			break
		}
		sigma := sigmaSchedule(n, cfg.SigmaFloor)

		if err := raster.Fill(s.Lat, s.Divs, s.TargetsAligned()); err != nil {
			return nil, err
		}
		s.Lat.Forward()
		blur.Apply(s.Lat, sigma)

		if err := flow.Integrate(s.Lat, flowParams); err != nil {
			return nil, err
		}

		if cfg.Triangulation {
			if err := triangulate.PickDiagonals(s.Lat); err != nil {
				return nil, err
			}
			if cfg.Densify {
				for i, g := range s.Divs {
					s.Divs[i] = densify.GeoDiv(g, s.Lat.Lx, s.Lat.Ly)
				}
			}
		}

		newDivs := make([]geom.GeoDiv, len(s.Divs))
		for i, g := range s.Divs {
			newDivs[i] = advect.GeoDiv(s.Lat, g, mode)
		}
		for _, g := range newDivs {
			if err := g.CheckValid(); err != nil {
				return nil, cartoerr.New(cartoerr.InvalidTopology, "%v", err).WithGeoDiv(g.ID)
			}
		}
		s.Divs = newDivs

		// cum_proj is advanced strictly after vertex advection, per the
		// spec's resolution of the cum_proj-ordering open question.
		advect.UpdateCumProj(s.Lat, mode)

		s.RecomputeAreaErrors()
		s.NFinishedIntegrations++

		if s.MaxAreaError() < bestErr {
			bestErr = s.MaxAreaError()
			bestDivs = cloneDivs(s.Divs)
		}

		io.Pf("inset %s: integration %d done, max area error = %.6g (sigma=%.4g)\n", s.Name, n, s.MaxAreaError(), sigma)
	}

	if s.MaxAreaError() > cfg.EpsArea {
		if bestDivs != nil && bestErr < s.MaxAreaError() {
			s.Divs = bestDivs
			s.RecomputeAreaErrors()
		}
		warn := cartoerr.New(cartoerr.NonConvergent, "max area error %.6g exceeds threshold %.6g after %d integrations", s.MaxAreaError(), cfg.EpsArea, cfg.MaxIntegrations)
		return &inset.Result{State: s, Warning: warn}, nil
	}
	return &inset.Result{State: s}, nil
}

func cloneDivs(divs []geom.GeoDiv) []geom.GeoDiv {
	out := make([]geom.GeoDiv, len(divs))
	copy(out, divs)
	return out
}

// RunInsets executes Run for every inset concurrently, one goroutine per
// inset, since each InsetState is independent and no two insets share
// mutable state (spec §5). Concurrency is bounded by GOMAXPROCS so a
// large batch of insets does not oversubscribe the machine.
func RunInsets(states []*inset.State, cfg config.Data) ([]*inset.Result, []error) {
	n := len(states)
	results := make([]*inset.Result, n)
	errs := make([]error, n)

	sem := make(chan struct{}, runtime.GOMAXPROCS(0))
	var wg sync.WaitGroup
	for i, s := range states {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, s *inset.State) {
			defer wg.Done()
			defer func() { <-sem }()
			res, err := Run(s, cfg)
			results[i] = res
			errs[i] = err
		}(i, s)
	}
	wg.Wait()
	return results, errs
}
