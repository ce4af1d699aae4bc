// Copyright 2024 The Cartoflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cartoerr implements the typed error/result values used across
// the engine boundary (spec §7): every fatal condition is reported
// through a single Error type carrying a Kind, never as an ad-hoc string
// or a language exception.
package cartoerr

import "fmt"

// Kind identifies one of the error kinds named in the error handling
// design.
type Kind int

const (
	// InvalidTopology: odd scanline intersection count, a hole outside
	// its outer ring, or a non-simple ring.
	InvalidTopology Kind = iota + 1
	// InvalidGraticule: C7 found neither diagonal's midpoint inside the
	// projected cell.
	InvalidGraticule
	// NonPositiveDensity: rho(X,t) <= 0 during C4, persisting after N
	// halvings.
	NonPositiveDensity
	// ZeroTargetSum: sum of target areas is zero.
	ZeroTargetSum
	// NonConvergent: max_integrations reached with area_error > epsilon.
	// Non-fatal: callers surface this as a warning, not an error return.
	NonConvergent
)

func (k Kind) String() string {
	switch k {
	case InvalidTopology:
		return "InvalidTopology"
	case InvalidGraticule:
		return "InvalidGraticule"
	case NonPositiveDensity:
		return "NonPositiveDensity"
	case ZeroTargetSum:
		return "ZeroTargetSum"
	case NonConvergent:
		return "NonConvergent"
	default:
		return "Unknown"
	}
}

// Error is the single typed result value that crosses the engine
// boundary. GeoDivID is set when the offending condition is traceable to
// one region; it is empty otherwise.
type Error struct {
	Kind     Kind
	Detail   string
	GeoDivID string
}

func (e *Error) Error() string {
	if e.GeoDivID != "" {
		return fmt.Sprintf("%s (geodiv %q): %s", e.Kind, e.GeoDivID, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// New builds an *Error with a formatted detail message, mirroring the
// chk.Err formatting convention used across the rest of the engine.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// WithGeoDiv attaches a GeoDiv id to e and returns it for chaining.
func (e *Error) WithGeoDiv(id string) *Error {
	e.GeoDivID = id
	return e
}

// Is reports whether err is a *Error of the given kind, so callers can
// use errors.Is-style checks without a type assertion at every call site.
func Is(err error, kind Kind) bool {
	ce, ok := err.(*Error)
	return ok && ce.Kind == kind
}
