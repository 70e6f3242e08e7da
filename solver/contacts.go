// Copyright 2026 The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"github.com/coldiron/substrate/body"
	"github.com/coldiron/substrate/config"
	"github.com/coldiron/substrate/narrowphase"
	"github.com/coldiron/substrate/vecmath"
)

// solveContact runs one sequential-impulse iteration over a single contact
// point of manifold m, per spec.md §4.I steps 1-5: effective mass along
// the normal, relative normal velocity, a velocity target combining
// restitution and Baumgarte bias, a clamped accumulated normal impulse,
// then the same along both tangents with a Coulomb-cone friction clamp.
func solveContact(bodies *body.Set, m *narrowphase.Manifold, pt *narrowphase.ContactPoint, p config.Params, dt float64) {
	a, b := m.BodyA, m.BodyB
	rA := vecmath.Sub(pt.Point, bodies.Position(a))
	rB := vecmath.Sub(pt.Point, bodies.Position(b))

	relVel := relativeVelocity(bodies, a, b, rA, rB)
	vn := vecmath.Dot(relVel, m.Normal)

	effMass := effectiveMass(bodies, a, b, rA, rB, m.Normal)
	if effMass <= 0 {
		return
	}

	bias := 0.0
	if vn < -p.RestitutionSpeed {
		bias -= m.Restitution * vn
	}
	penetrationError := pt.Penetration - p.Slop
	if penetrationError > 0 {
		bias += p.BaumgarteBeta * penetrationError / dt
	}

	lambda := -(vn - bias) * effMass

	newImpulse := pt.NormalImpulse + lambda
	if newImpulse < 0 {
		newImpulse = 0
	}
	delta := newImpulse - pt.NormalImpulse
	pt.NormalImpulse = newImpulse

	applyImpulseAtPoints(bodies, a, b, rA, rB, vecmath.Scale(m.Normal, delta))

	solveFriction(bodies, m, pt, rA, rB)
}

func solveFriction(bodies *body.Set, m *narrowphase.Manifold, pt *narrowphase.ContactPoint, rA, rB vecmath.V3) {
	maxFriction := m.Friction * pt.NormalImpulse

	for i, tangent := range [2]vecmath.V3{m.Tangent1, m.Tangent2} {
		relVel := relativeVelocity(bodies, m.BodyA, m.BodyB, rA, rB)
		vt := vecmath.Dot(relVel, tangent)
		effMass := effectiveMass(bodies, m.BodyA, m.BodyB, rA, rB, tangent)
		if effMass <= 0 {
			continue
		}
		lambda := -vt * effMass

		var accum *float64
		if i == 0 {
			accum = &pt.TangentImpulse1
		} else {
			accum = &pt.TangentImpulse2
		}
		newImpulse := clampF(*accum+lambda, -maxFriction, maxFriction)
		delta := newImpulse - *accum
		*accum = newImpulse

		applyImpulseAtPoints(bodies, m.BodyA, m.BodyB, rA, rB, vecmath.Scale(tangent, delta))
	}
}

func relativeVelocity(bodies *body.Set, a, b int, rA, rB vecmath.V3) vecmath.V3 {
	velA := vecmath.Add(bodies.LinVel(a), vecmath.Cross(bodies.AngVel(a), rA))
	velB := vecmath.Add(bodies.LinVel(b), vecmath.Cross(bodies.AngVel(b), rB))
	return vecmath.Sub(velB, velA)
}

// effectiveMass computes 1 / (invMassA + invMassB + cross terms through
// inverse inertia) along axis, per spec.md §4.I step 1.
func effectiveMass(bodies *body.Set, a, b int, rA, rB, axis vecmath.V3) float64 {
	invMassSum := bodies.InvMass(a) + bodies.InvMass(b)
	rACrossN := vecmath.Cross(rA, axis)
	rBCrossN := vecmath.Cross(rB, axis)
	angTermA := vecmath.Dot(rACrossN, bodies.WorldInvInertia(a, rACrossN))
	angTermB := vecmath.Dot(rBCrossN, bodies.WorldInvInertia(b, rBCrossN))
	denom := invMassSum + angTermA + angTermB
	if denom <= 1e-12 {
		return 0
	}
	return 1 / denom
}

// applyImpulseAtPoints applies +impulse to B and -impulse to A at their
// respective contact arms, mutating linear and angular velocity directly
// (this is an already-computed delta impulse, not a force, so it bypasses
// body.Set.ApplyImpulse's force-accumulator semantics).
func applyImpulseAtPoints(bodies *body.Set, a, b int, rA, rB, impulse vecmath.V3) {
	if !bodies.IsStatic(a) {
		bodies.SetLinVelRaw(a, vecmath.Sub(bodies.LinVel(a), vecmath.Scale(impulse, bodies.InvMass(a))))
		bodies.SetAngVelRaw(a, vecmath.Sub(bodies.AngVel(a), bodies.WorldInvInertia(a, vecmath.Cross(rA, impulse))))
	}
	if !bodies.IsStatic(b) {
		bodies.SetLinVelRaw(b, vecmath.Add(bodies.LinVel(b), vecmath.Scale(impulse, bodies.InvMass(b))))
		bodies.SetAngVelRaw(b, vecmath.Add(bodies.AngVel(b), bodies.WorldInvInertia(b, vecmath.Cross(rB, impulse))))
	}
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
