// Copyright 2024 The Cartoflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_ring_area01(tst *testing.T) {
	chk.PrintTitle("ring_area01")
	r := NewRing([]Point{{0, 0}, {8, 0}, {8, 8}, {0, 8}})
	chk.Scalar(tst, "area", 1e-15, r.Area(), 64)
	if !r.IsCCW() {
		tst.Errorf("square ring should be CCW")
	}
}

func Test_ring_simple01(tst *testing.T) {
	chk.PrintTitle("ring_simple01")
	square := NewRing([]Point{{0, 0}, {8, 0}, {8, 8}, {0, 8}})
	if !square.IsSimple() {
		tst.Errorf("square should be simple")
	}
	bowtie := NewRing([]Point{{0, 0}, {8, 8}, {8, 0}, {0, 8}})
	if bowtie.IsSimple() {
		tst.Errorf("bowtie should not be simple")
	}
}

func Test_pwh_hole01(tst *testing.T) {
	chk.PrintTitle("pwh_hole01")
	outer := NewRing([]Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}})
	hole := NewRing([]Point{{2, 2}, {4, 2}, {4, 4}, {2, 4}}).Reversed() // make CW
	p := PWH{Outer: outer, Holes: []Ring{hole}}
	if err := p.CheckValid(); err != nil {
		tst.Errorf("valid PWH reported invalid: %v", err)
	}
	chk.Scalar(tst, "area", 1e-15, p.Area(), 100-4)
}

func Test_pwh_hole_outside01(tst *testing.T) {
	chk.PrintTitle("pwh_hole_outside01")
	outer := NewRing([]Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}})
	hole := NewRing([]Point{{20, 20}, {24, 20}, {24, 24}, {20, 24}}).Reversed()
	p := PWH{Outer: outer, Holes: []Ring{hole}}
	if err := p.CheckValid(); err == nil {
		tst.Errorf("hole outside outer ring should be reported invalid")
	}
}

func Test_point_approxequal01(tst *testing.T) {
	chk.PrintTitle("point_approxequal01")
	a := Point{1.00000001, 2.00000001}
	b := Point{1.0, 2.0}
	if !a.ApproxEqual(b, 1e-6) {
		tst.Errorf("points should be approximately equal")
	}
	if a.Key(1e6) != b.Key(1e6) {
		tst.Errorf("keys of approximately-equal points should match")
	}
}
