// Copyright 2024 The Cartoflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package flow implements C4: the diffusion-driven flow integrator.
// Given the cosine-basis coefficients of a (blurred) density field, it
// reconstructs rho and grad-rho analytically at any time t, integrates
// the Lagrangian trajectory of every lattice node along v = -grad(rho)/rho
// from t=0 to a horizon t_end, and stores the result in lat.Proj.
package flow

import (
	"math"

	"github.com/cartoflow/cartoflow/internal/cartoerr"
	"github.com/cartoflow/cartoflow/internal/geom"
	"github.com/cartoflow/cartoflow/internal/lattice"
	"github.com/cpmech/gosl/num"
	"github.com/cpmech/gosl/ode"
)

// Params configures one C4 integration pass.
type Params struct {
	// Method names the gosl/ode scheme; empty defaults to "Dopri5", an
	// explicit embedded adaptive Runge-Kutta pair with built-in error
	// control, following the gosl/ode usage shown in the teacher's
	// ana.ColumnFluidPressure.
	Method string
	// AbsTol is the absolute error tolerance handed to the ODE solver
	// (spec's epsilon_abs).
	AbsTol float64
	// HorizonTol is the tolerance used to pick t_end: integration stops
	// once the slowest-decaying mode's decay factor exp(-rate*t) has
	// fallen below HorizonTol.
	HorizonTol float64
	// MaxHalvings bounds the non-positive-density retry loop.
	MaxHalvings int
}

// DefaultParams returns sane defaults matching the teacher's tolerance
// conventions (fem solvers default Atol/Rtol to 1e-6-ish magnitudes).
func DefaultParams() Params {
	return Params{
		Method:      "Dopri5",
		AbsTol:      1e-6,
		HorizonTol:  1e-7,
		MaxHalvings: 8,
	}
}

// field reconstructs rho and its gradient at continuous (x,y,t) from the
// cosine-basis coefficients in coef, decaying mode (p,q) as
// exp(-(p^2/lx^2+q^2/ly^2)*pi^2*t).
type field struct {
	coef   [][]float64
	lx, ly int
}

func basis(idx float64, k, n int) float64 {
	if k == 0 {
		return 1
	}
	return 2 * math.Cos(math.Pi/float64(n)*float64(k)*(idx+0.5))
}

func dbasis(idx float64, k, n int) float64 {
	if k == 0 {
		return 0
	}
	c := math.Pi * float64(k) / float64(n)
	return -2 * c * math.Sin(c*(idx+0.5))
}

// rhoAndGrad returns rho(x,y,t), d(rho)/dx, d(rho)/dy.
func (f field) rhoAndGrad(x, y, t float64) (rho, gx, gy float64) {
	lxf, lyf := float64(f.lx), float64(f.ly)
	for p := 0; p < f.lx; p++ {
		cx := basis(x, p, f.lx)
		dcx := dbasis(x, p, f.lx)
		decayP := float64(p) * float64(p) / (lxf * lxf)
		for q := 0; q < f.ly; q++ {
			c := f.coef[p][q]
			if c == 0 {
				continue
			}
			decay := math.Exp(-(decayP + float64(q)*float64(q)/(lyf*lyf)) * math.Pi * math.Pi * t)
			cy := basis(y, q, f.ly)
			dcy := dbasis(y, q, f.ly)
			rho += c * decay * cx * cy
			gx += c * decay * dcx * cy
			gy += c * decay * cx * dcy
		}
	}
	return
}

// slowestDecayRate returns the smallest nonzero decay rate among modes,
// i.e. pi^2 * min(1/lx^2, 1/ly^2), used to pick a default t_end.
func slowestDecayRate(lx, ly int) float64 {
	lxf, lyf := float64(lx), float64(ly)
	r1 := math.Pi * math.Pi / (lxf * lxf)
	r2 := math.Pi * math.Pi / (lyf * lyf)
	if r1 < r2 {
		return r1
	}
	return r2
}

// pickHorizon finds a time horizon beyond which the residual of the
// slowest-decaying mode has fallen below tol, via bracketing-plus-bisect
// using gosl/num, mirroring num's bracketed-root-finder idiom for a
// monotone function.
func pickHorizon(rate, tol float64) float64 {
	if tol <= 0 {
		tol = 1e-7
	}
	g := func(t float64) float64 {
		return math.Exp(-rate*t) - tol
	}
	lo, hi := 0.0, 1.0
	for g(hi) > 0 && hi < 1e9 {
		hi *= 2
	}
	root, err := num.Bisection(g, lo, hi, 1e-10, 1e-12, 100, nil)
	if err != nil {
		return hi
	}
	return root
}

// Integrate runs C4 for the whole lattice: it picks a horizon t_end,
// then for every node X_ij(0) = (i+0.5, j+0.5) integrates dX/dt = v(X,t)
// from 0 to t_end, writing the result into lat.Proj. rho(X,t) must stay
// strictly positive throughout; whenever a node's destination would
// imply a non-positive density, the remaining sub-interval is retried
// with half the step, up to MaxHalvings times.
func Integrate(lat *lattice.Lattice, p Params) error {
	if p.Method == "" {
		p.Method = DefaultParams().Method
	}
	rate := slowestDecayRate(lat.Lx, lat.Ly)
	tEnd := pickHorizon(rate, p.HorizonTol)
	f := field{coef: lat.RhoFT, lx: lat.Lx, ly: lat.Ly}

	for i := 0; i < lat.Lx; i++ {
		for j := 0; j < lat.Ly; j++ {
			x0 := float64(i) + 0.5
			y0 := float64(j) + 0.5
			// boundary nodes stay on the boundary: the Neumann basis
			// enforces zero normal flux there, so only the coordinate
			// parallel to the edge is integrated and the normal one is
			// held fixed (avoids roundoff drift off-edge).
			if i == 0 || i == lat.Lx-1 {
				py, err := integrateBoundaryAxis(f, x0, y0, tEnd, p, false)
				if err != nil {
					return err
				}
				lat.Proj[i][j] = geom.Point{X: x0, Y: py}
				continue
			}
			if j == 0 || j == lat.Ly-1 {
				px, err := integrateBoundaryAxis(f, x0, y0, tEnd, p, true)
				if err != nil {
					return err
				}
				lat.Proj[i][j] = geom.Point{X: px, Y: y0}
				continue
			}
			pt, err := integrateNode(f, x0, y0, tEnd, p)
			if err != nil {
				return err
			}
			lat.Proj[i][j] = pt
		}
	}
	return nil
}

// integrateBoundaryAxis integrates only the free coordinate of a node
// pinned to one lattice edge, the one parallel to that edge: freeIsX
// true integrates x holding y fixed (nodes on a j=0/ly-1 edge), false
// integrates y holding x fixed (nodes on an i=0/lx-1 edge).
func integrateBoundaryAxis(f field, x0, y0, tEnd float64, p Params, freeIsX bool) (float64, error) {
	result := x0
	if !freeIsX {
		result = y0
	}
	fcn := func(fv []float64, dt, t float64, xi []float64, args ...interface{}) error {
		var rho, g float64
		if freeIsX {
			r, gx, _ := f.rhoAndGrad(xi[0], y0, t)
			rho, g = r, gx
		} else {
			r, _, gy := f.rhoAndGrad(x0, xi[0], t)
			rho, g = r, gy
		}
		if rho <= 0 {
			return cartoerr.New(cartoerr.NonPositiveDensity, "rho<=0 on boundary axis at t=%.6g", t)
		}
		fv[0] = -g / rho
		return nil
	}
	xi := []float64{result}
	res, err := solveWithRetry(fcn, xi, tEnd, p)
	if err != nil {
		return 0, err
	}
	return res[0], nil
}

// integrateNode solves the 2-equation trajectory ODE for one interior
// lattice node using gosl/ode, in the exact Init/Solve call shape used
// throughout the corpus's numerical analytics (ode.ODE{}.Init(method,
// ndim, fcn, jac, out, M, silent); sol.Solve(y, x0, x1, xmax, fixstp,
// args...)).
func integrateNode(f field, x0, y0, tEnd float64, p Params) (geom.Point, error) {
	fcn := func(fv []float64, dt, t float64, xi []float64, args ...interface{}) error {
		rho, gx, gy := f.rhoAndGrad(xi[0], xi[1], t)
		if rho <= 0 {
			return cartoerr.New(cartoerr.NonPositiveDensity, "rho<=0 at (%.4f,%.4f) t=%.6g", xi[0], xi[1], t)
		}
		fv[0] = -gx / rho
		fv[1] = -gy / rho
		return nil
	}
	xi := []float64{x0, y0}
	res, err := solveWithRetry(fcn, xi, tEnd, p)
	if err != nil {
		return geom.Point{}, err
	}
	return geom.Point{X: res[0], Y: res[1]}, nil
}

// solveWithRetry drives xi from t=0 to tEnd through ode.ODE, halving the
// remaining sub-interval whenever the solve reports a non-positive
// density, up to MaxHalvings times (spec's bounded-retry design note:
// detect, roll back, retry with smaller step, never goto/exception).
func solveWithRetry(fcn ode.Cb_fcn, xi []float64, tEnd float64, p Params) ([]float64, error) {
	ndim := len(xi)
	t0 := 0.0
	remaining := tEnd
	halvings := 0
	for t0 < tEnd {
		t1 := math.Min(t0+remaining, tEnd)
		var sol ode.ODE
		sol.Init(p.Method, ndim, fcn, nil, nil, nil, true)
		sol.Atol = p.AbsTol
		sol.Rtol = p.AbsTol
		trial := append([]float64(nil), xi...)
		err := sol.Solve(trial, t0, t1, t1, false)
		if err == nil {
			copy(xi, trial)
			t0 = t1
			continue
		}
		if !cartoerr.Is(err, cartoerr.NonPositiveDensity) {
			return nil, err
		}
		halvings++
		if halvings > p.MaxHalvings {
			return nil, cartoerr.New(cartoerr.NonPositiveDensity, "persisted after %d halvings", p.MaxHalvings)
		}
		remaining /= 2
	}
	return xi, nil
}
