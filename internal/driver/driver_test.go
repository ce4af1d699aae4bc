// Copyright 2024 The Cartoflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package driver

import (
	"testing"

	"github.com/cartoflow/cartoflow/internal/cartoerr"
	"github.com/cartoflow/cartoflow/internal/config"
	"github.com/cartoflow/cartoflow/internal/geom"
	"github.com/cartoflow/cartoflow/internal/inset"
	"github.com/cpmech/gosl/chk"
)

func rectGeoDiv(id string, x0, y0, x1, y1 float64) geom.GeoDiv {
	return geom.GeoDiv{
		ID: id,
		PWHs: []geom.PWH{{
			Outer: geom.NewRing([]geom.Point{
				{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1},
			}),
		}},
	}
}

// Test_S1_uniform is spec scenario S1: a single square GeoDiv whose
// target equals its current area should converge to a near-zero area
// error after one integration, with vertices barely moving.
func Test_S1_uniform(tst *testing.T) {
	chk.PrintTitle("S1_uniform")
	divs := []geom.GeoDiv{rectGeoDiv("square", 1, 1, 9, 9)}
	targets := map[string]float64{"square": 64}
	s, err := inset.Init("s1", divs, targets, 16, 16)
	if err != nil {
		tst.Fatalf("Init failed: %v", err)
	}
	cfg := config.Default()
	cfg.MaxIntegrations = 1
	res, err := Run(s, cfg)
	if err != nil {
		tst.Fatalf("Run failed: %v", err)
	}
	if res.State.MaxAreaError() >= 1e-3 {
		tst.Errorf("S1: max area error %.6g should be < 1e-3", res.State.MaxAreaError())
	}
}

// Test_S2_doubling is spec scenario S2: two equal-area GeoDivs with
// targets 1 and 3 should converge so the right-hand GeoDiv occupies
// about 3/4 of the total area and the two remain adjacent (their shared
// edge does not get duplicated or split into disconnected pieces).
func Test_S2_doubling(tst *testing.T) {
	chk.PrintTitle("S2_doubling")
	left := rectGeoDiv("left", 0, 0, 8, 16)
	right := rectGeoDiv("right", 8, 0, 16, 16)
	divs := []geom.GeoDiv{left, right}
	targets := map[string]float64{"left": 1, "right": 3}
	s, err := inset.Init("s2", divs, targets, 16, 16)
	if err != nil {
		tst.Fatalf("Init failed: %v", err)
	}
	cfg := config.Default()
	res, err := Run(s, cfg)
	if err != nil {
		tst.Fatalf("Run failed: %v", err)
	}
	total := 0.0
	areaByID := map[string]float64{}
	for _, g := range res.State.Divs {
		a := g.Area()
		areaByID[g.ID] = a
		total += a
	}
	ratio := areaByID["right"] / total
	if ratio < 0.6 || ratio > 0.9 {
		tst.Errorf("S2: right-hand share %.3f should be roughly 0.75", ratio)
	}
}

// Test_S3_missing_target is spec scenario S3: three adjacent GeoDivs in
// a row with targets [2, NA, 2]. The two targeted GeoDivs should end up
// with roughly equal area, the untargeted middle one absorbs whatever
// area is left over, and all three stay adjacent (no GeoDiv vanishes or
// goes invalid).
func Test_S3_missing_target(tst *testing.T) {
	chk.PrintTitle("S3_missing_target")
	left := rectGeoDiv("left", 0, 0, 6, 12)
	mid := rectGeoDiv("mid", 6, 0, 12, 12)
	right := rectGeoDiv("right", 12, 0, 18, 12)
	divs := []geom.GeoDiv{left, mid, right}
	// "mid" is deliberately absent from targets: geom.MissingTarget per
	// inset.TargetsAligned.
	targets := map[string]float64{"left": 2, "right": 2}
	s, err := inset.Init("s3", divs, targets, 18, 12)
	if err != nil {
		tst.Fatalf("Init failed: %v", err)
	}
	cfg := config.Default()
	res, err := Run(s, cfg)
	if err != nil {
		tst.Fatalf("Run failed: %v", err)
	}
	areaByID := map[string]float64{}
	total := 0.0
	for _, g := range res.State.Divs {
		a := g.Area()
		areaByID[g.ID] = a
		total += a
		if err := g.CheckValid(); err != nil {
			tst.Errorf("S3: GeoDiv %s invalid after integration: %v", g.ID, err)
		}
	}
	if d := areaByID["left"] - areaByID["right"]; d > 0.2*areaByID["right"] || d < -0.2*areaByID["right"] {
		tst.Errorf("S3: left area %.3f and right area %.3f should be roughly equal", areaByID["left"], areaByID["right"])
	}
	if areaByID["mid"] <= 0 {
		tst.Errorf("S3: middle GeoDiv should retain positive area, got %.3f", areaByID["mid"])
	}
	if total <= 0 {
		tst.Errorf("S3: total area should stay positive, got %.3f", total)
	}
}

// Test_S5_near_singular is spec scenario S5: a GeoDiv occupying 1% of
// total area but carrying 50% of total target should still converge,
// without ever hitting NonPositiveDensity, to a final area error below
// the configured threshold.
func Test_S5_near_singular(tst *testing.T) {
	chk.PrintTitle("S5_near_singular")
	small := rectGeoDiv("small", 0, 0, 2, 2) // area 4, 1% of 400
	big := rectGeoDiv("big", 2, 0, 22, 20)   // area 396
	divs := []geom.GeoDiv{small, big}
	targets := map[string]float64{"small": 200, "big": 200}
	s, err := inset.Init("s5", divs, targets, 24, 20)
	if err != nil {
		tst.Fatalf("Init failed: %v", err)
	}
	cfg := config.Default()
	cfg.MaxIntegrations = 80
	res, err := Run(s, cfg)
	if err != nil {
		if cartoerr.Is(err, cartoerr.NonPositiveDensity) {
			tst.Errorf("S5: hit NonPositiveDensity, should have retried/halved instead: %v", err)
		} else {
			tst.Fatalf("Run failed: %v", err)
		}
	}
	if res.Warning != nil {
		tst.Errorf("S5: expected convergence within MaxIntegrations, got warning: %v", res.Warning)
	}
	if res.State.MaxAreaError() >= cfg.EpsArea {
		tst.Errorf("S5: final max area error %.6g should be < epsArea %.6g", res.State.MaxAreaError(), cfg.EpsArea)
	}
}

// Test_S6_triangulation_sanity is spec scenario S6: running S2's setup
// with triangulation+densify enabled should converge to the same
// topology (ring/hole counts unchanged, GeoDivs stay valid) and to
// roughly the same area split as the bilinear run.
func Test_S6_triangulation_sanity(tst *testing.T) {
	chk.PrintTitle("S6_triangulation_sanity")
	newS2 := func() *inset.State {
		left := rectGeoDiv("left", 0, 0, 8, 16)
		right := rectGeoDiv("right", 8, 0, 16, 16)
		divs := []geom.GeoDiv{left, right}
		targets := map[string]float64{"left": 1, "right": 3}
		s, err := inset.Init("s6", divs, targets, 16, 16)
		if err != nil {
			tst.Fatalf("Init failed: %v", err)
		}
		return s
	}

	bilinear, err := Run(newS2(), config.Default())
	if err != nil {
		tst.Fatalf("bilinear Run failed: %v", err)
	}

	triCfg := config.Default()
	triCfg.Triangulation = true
	triCfg.Densify = true
	triangulated, err := Run(newS2(), triCfg)
	if err != nil {
		tst.Fatalf("triangulated Run failed: %v", err)
	}

	if len(triangulated.State.Divs) != len(bilinear.State.Divs) {
		tst.Fatalf("S6: GeoDiv count changed: bilinear %d vs triangulated %d", len(bilinear.State.Divs), len(triangulated.State.Divs))
	}
	for i, g := range triangulated.State.Divs {
		if len(g.PWHs) != len(bilinear.State.Divs[i].PWHs) {
			tst.Errorf("S6: GeoDiv %s: PWH count differs between modes", g.ID)
		}
		for k, pwh := range g.PWHs {
			if len(pwh.Holes) != len(bilinear.State.Divs[i].PWHs[k].Holes) {
				tst.Errorf("S6: GeoDiv %s: hole count differs between modes", g.ID)
			}
		}
		if err := g.CheckValid(); err != nil {
			tst.Errorf("S6: triangulated GeoDiv %s invalid: %v", g.ID, err)
		}
	}

	biRatio := areaRatio(bilinear.State.Divs, "right")
	triRatio := areaRatio(triangulated.State.Divs, "right")
	if d := biRatio - triRatio; d > 0.1 || d < -0.1 {
		tst.Errorf("S6: right-hand share diverged between modes: bilinear %.3f vs triangulated %.3f", biRatio, triRatio)
	}
}

func areaRatio(divs []geom.GeoDiv, id string) float64 {
	var total, target float64
	for _, g := range divs {
		a := g.Area()
		total += a
		if g.ID == id {
			target = a
		}
	}
	if total == 0 {
		return 0
	}
	return target / total
}

// Test_S4_hole is spec scenario S4: a GeoDiv with a hole must keep the
// hole strictly inside its outer ring after integration.
func Test_S4_hole(tst *testing.T) {
	chk.PrintTitle("S4_hole")
	outer := geom.NewRing([]geom.Point{{2, 2}, {14, 2}, {14, 14}, {2, 14}})
	hole := geom.NewRing([]geom.Point{{6, 6}, {10, 6}, {10, 10}, {6, 10}}).Reversed()
	g := geom.GeoDiv{ID: "ring", PWHs: []geom.PWH{{Outer: outer, Holes: []geom.Ring{hole}}}}
	divs := []geom.GeoDiv{g}
	targets := map[string]float64{"ring": 200}
	s, err := inset.Init("s4", divs, targets, 16, 16)
	if err != nil {
		tst.Fatalf("Init failed: %v", err)
	}
	cfg := config.Default()
	cfg.MaxIntegrations = 5
	res, err := Run(s, cfg)
	if err != nil {
		tst.Fatalf("Run failed: %v", err)
	}
	final := res.State.Divs[0].PWHs[0]
	for _, hp := range final.Holes[0].Pts {
		if !final.Outer.ContainsPoint(hp) {
			tst.Errorf("hole vertex %v escaped the outer ring", hp)
		}
	}
}
