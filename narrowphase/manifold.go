// Copyright 2026 The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package narrowphase builds contact manifolds for the shape-pair
// combinations named in spec.md §4.H: closed-form sphere/sphere and
// sphere/box, closed-form plane pairs needed for a body to ever rest on
// the ground, and a general GJK+EPA path for every other convex/convex
// combination. Dispatch is a switch over the two shape discriminants (not
// a lookup table), never open inheritance.
package narrowphase

import "github.com/coldiron/substrate/vecmath"

// MaxContactPoints is the manifold point cap spec.md §4.H names ("a
// manifold carries up to 4 points").
const MaxContactPoints = 4

// ContactPoint is one point of a manifold, carrying the accumulated
// impulses the solver warm-starts from step to step.
type ContactPoint struct {
	Point       vecmath.V3
	Penetration float64

	NormalImpulse    float64
	TangentImpulse1  float64
	TangentImpulse2  float64
}

// Manifold is the result of a narrow-phase test between two bodies: a
// shared normal (from A to B), up to MaxContactPoints contact points, the
// combined material response, and a right-handed tangent basis for
// friction (spec.md §4.H).
type Manifold struct {
	BodyA, BodyB int
	Normal       vecmath.V3
	Points       [MaxContactPoints]ContactPoint
	Count        int

	Restitution float64
	Friction    float64

	Tangent1, Tangent2 vecmath.V3
}

// buildTangentBasis derives two tangents from normal forming a
// right-handed orthonormal basis (normal, Tangent1, Tangent2), per spec.md
// §4.H.
func buildTangentBasis(normal vecmath.V3) (t1, t2 vecmath.V3) {
	ref := vecmath.V3{X: 1}
	if abs(normal.X) > 0.9 {
		ref = vecmath.V3{Y: 1}
	}
	t1 = vecmath.Normalize(vecmath.Cross(ref, normal))
	t2 = vecmath.Cross(normal, t1)
	return t1, t2
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
