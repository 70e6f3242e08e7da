// Copyright 2026 The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package narrowphase

import (
	"github.com/coldiron/substrate/body"
	"github.com/coldiron/substrate/vecmath"
)

// Config bounds the GJK/EPA search, resolved once from config.Params by
// the caller (spec.md §4.H: "<= 32 iterations", "tolerance of 10^-4").
type Config struct {
	GJKMaxIterations int
	EPATolerance     float64
}

// Collide dispatches (a, b) to the specialized closed-form routine when
// one exists, or the general GJK+EPA path otherwise, via a switch over the
// pair of shape discriminants; there is no (i,j) -> fn lookup table.
// Returns (manifold, false) when the shapes do not overlap.
func Collide(bodies *body.Set, idA, idB int, cfg Config) (Manifold, bool) {
	a := infoOf(bodies, idA)
	b := infoOf(bodies, idB)

	switch {
	case a.Shape.Kind == body.Sphere && b.Shape.Kind == body.Sphere:
		return sphereSphere(a, b)
	case a.Shape.Kind == body.Sphere && b.Shape.Kind == body.Box:
		return sphereBox(a, b)
	case a.Shape.Kind == body.Box && b.Shape.Kind == body.Sphere:
		m, ok := sphereBox(b, a)
		return flip(m), ok
	case a.Shape.Kind == body.Sphere && b.Shape.Kind == body.Plane:
		return spherePlane(a, b)
	case a.Shape.Kind == body.Plane && b.Shape.Kind == body.Sphere:
		m, ok := spherePlane(b, a)
		return flip(m), ok
	case a.Shape.Kind == body.Box && b.Shape.Kind == body.Plane:
		return boxPlane(a, b)
	case a.Shape.Kind == body.Plane && b.Shape.Kind == body.Box:
		m, ok := boxPlane(b, a)
		return flip(m), ok
	case a.Shape.Kind == body.Capsule && b.Shape.Kind == body.Plane:
		return capsulePlane(a, b)
	case a.Shape.Kind == body.Plane && b.Shape.Kind == body.Capsule:
		m, ok := capsulePlane(b, a)
		return flip(m), ok
	case a.Shape.Kind == body.Capsule && b.Shape.Kind == body.Sphere:
		return capsuleSphere(a, b)
	case a.Shape.Kind == body.Sphere && b.Shape.Kind == body.Capsule:
		m, ok := capsuleSphere(b, a)
		return flip(m), ok
	case a.Shape.Kind == body.Plane && b.Shape.Kind == body.Plane:
		return Manifold{}, false // two static infinite planes never meaningfully collide
	default:
		return genericConvexConvex(a, b, cfg)
	}
}

// flip reverses a manifold's body order and negates its normal, used when
// a closed-form routine was invoked with its arguments swapped to reuse
// one implementation for both orderings of a pair.
func flip(m Manifold) Manifold {
	m.BodyA, m.BodyB = m.BodyB, m.BodyA
	m.Normal = vecmath.Neg(m.Normal)
	return m
}

// genericConvexConvex is the GJK+EPA fallback for every shape-pair
// combination without a closed form (box/box, capsule/box, capsule/capsule).
func genericConvexConvex(a, b bodyInfo, cfg Config) (Manifold, bool) {
	res, overlap := gjk(a, b, cfg.GJKMaxIterations)
	if !overlap {
		return Manifold{}, false
	}
	normal, depth, ok := epaExpand(a, b, res.simplex, cfg.GJKMaxIterations, cfg.EPATolerance)
	if !ok {
		return Manifold{}, false
	}

	pointOnA := supportPoint(a, normal)
	pointOnB := supportPoint(b, vecmath.Neg(normal))
	point := vecmath.Scale(vecmath.Add(pointOnA, pointOnB), 0.5)

	var m Manifold
	m.Normal = normal
	m.Count = 1
	m.Points[0] = ContactPoint{Point: point, Penetration: depth}
	finalize(&m, a, b)
	return m, true
}
