// Copyright 2026 The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package body

import (
	"math"

	"github.com/coldiron/substrate/vecmath"
)

// massProperties is the derived mass, diagonal inertia (local frame), and
// their inverses for one shape/density pair (spec.md §4.F).
type massProperties struct {
	Mass            float64
	InertiaDiag     vecmath.V3
	InvMass         float64
	InvInertiaDiag  vecmath.V3
}

// staticMassProperties marks a body as infinitely massive: zero inverse
// mass and inverse inertia (spec.md §4.F "plane/static").
func staticMassProperties() massProperties {
	return massProperties{}
}

// computeMassProperties derives mass and inertia from shape and density
// using the closed forms spec.md §4.F gives for each shape kind. Plane
// shapes are always static. A non-positive density or a degenerate shape
// (non-positive radius/extent) is treated as static rather than aborting,
// since it is the caller's default-construction path, not a reachable
// runtime invariant violation; set_shape callers that pass a genuinely
// malformed shape on purpose get the same deterministic fallback.
func computeMassProperties(shape Shape, density float64) massProperties {
	if shape.Kind == Plane || density <= 0 {
		return staticMassProperties()
	}
	switch shape.Kind {
	case Sphere:
		return sphereMassProperties(shape.Radius, density)
	case Box:
		return boxMassProperties(shape.HalfExtent, density)
	case Capsule:
		return capsuleMassProperties(shape.Radius, shape.HalfHeight, density)
	default:
		return staticMassProperties()
	}
}

func sphereMassProperties(r, rho float64) massProperties {
	if r <= 0 {
		return staticMassProperties()
	}
	m := rho * (4.0 / 3.0) * math.Pi * r * r * r
	i := 0.4 * m * r * r // (2/5) m r^2
	return fromScalarInertia(m, i)
}

func boxMassProperties(ext vecmath.V3, rho float64) massProperties {
	ex, ey, ez := ext.X, ext.Y, ext.Z
	if ex <= 0 || ey <= 0 || ez <= 0 {
		return staticMassProperties()
	}
	m := rho * 8 * ex * ey * ez
	ix := m * (ey*ey + ez*ez) / 3
	iy := m * (ex*ex + ez*ez) / 3
	iz := m * (ex*ex + ey*ey) / 3
	return fromDiagInertia(m, vecmath.V3{X: ix, Y: iy, Z: iz})
}

// capsuleMassProperties approximates the capsule as a cylinder (the
// central segment, length 2*halfHeight) plus two hemispherical caps, each
// contributing their own mass and parallel-axis-shifted inertia, matching
// spec.md §4.F "cylinder + two hemispheres; inertia approximated
// analytically". The capsule's long axis is local Y.
func capsuleMassProperties(r, halfHeight, rho float64) massProperties {
	if r <= 0 || halfHeight <= 0 {
		return staticMassProperties()
	}
	h := 2 * halfHeight

	cylMass := rho * math.Pi * r * r * h
	cylIy := 0.5 * cylMass * r * r
	cylIxz := cylMass * (3*r*r+h*h) / 12

	capMass := rho * (2.0 / 3.0) * math.Pi * r * r * r // one hemisphere
	// Hemisphere inertia about its own flat-face-centered axis of symmetry
	// (Y) and the perpendicular axes through its center of mass, shifted by
	// the parallel-axis theorem to the capsule's center, offset halfHeight
	// plus the hemisphere's own centroid offset (3/8 r) along Y.
	capIy := 0.4 * capMass * r * r
	centroidOffset := halfHeight + (3.0/8.0)*r
	capIxzOwn := capMass * (83.0/320.0) * r * r // about the hemisphere's own centroid, transverse axis
	capIxz := capIxzOwn + capMass*centroidOffset*centroidOffset

	totalMass := cylMass + 2*capMass
	iy := cylIy + 2*capIy
	ixz := cylIxz + 2*capIxz

	return fromDiagInertia(totalMass, vecmath.V3{X: ixz, Y: iy, Z: ixz})
}

func fromScalarInertia(m, i float64) massProperties {
	return fromDiagInertia(m, vecmath.V3{X: i, Y: i, Z: i})
}

func fromDiagInertia(m float64, i vecmath.V3) massProperties {
	if m <= 0 {
		return staticMassProperties()
	}
	return massProperties{
		Mass:           m,
		InertiaDiag:    i,
		InvMass:        1 / m,
		InvInertiaDiag: vecmath.V3{X: invOrZero(i.X), Y: invOrZero(i.Y), Z: invOrZero(i.Z)},
	}
}

func invOrZero(x float64) float64 {
	if x <= 1e-12 {
		return 0
	}
	return 1 / x
}
