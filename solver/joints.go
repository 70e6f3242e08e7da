// Copyright 2026 The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"github.com/coldiron/substrate/body"
	"github.com/coldiron/substrate/config"
	"github.com/coldiron/substrate/vecmath"
)

// JointKind discriminates the joint union (spec.md §4.I "joints").
type JointKind int

const (
	JointDistance JointKind = iota
	JointBallSocket
	JointHinge
)

// Joint is a tagged-union constraint between two bodies, resolved
// alongside contacts in the same Gauss-Seidel pass. BodyB may be -1 to
// anchor BodyA to a fixed world point (AnchorA is then a world-space
// point rather than a local offset).
type Joint struct {
	Kind JointKind

	BodyA, BodyB int
	AnchorA      vecmath.V3 // local offset from BodyA's center, or world point if BodyB < 0
	AnchorB      vecmath.V3 // local offset from BodyB's center

	// JointDistance
	RestLength float64

	// JointHinge: scaffolding only (spec.md §9 open question on joint
	// limits). The axis pair and limits are stored but not enforced; a
	// hinge solves as a ball-socket.
	AxisA, AxisB     vecmath.V3
	LimitLo, LimitHi float64
}

func (j *Joint) anchorWorld(bodies *body.Set) (pA, pB vecmath.V3) {
	if j.BodyB < 0 {
		return bodies.Position(j.BodyA), j.AnchorA
	}
	pA = worldPoint(bodies, j.BodyA, j.AnchorA)
	pB = worldPoint(bodies, j.BodyB, j.AnchorB)
	return pA, pB
}

func worldPoint(bodies *body.Set, id int, local vecmath.V3) vecmath.V3 {
	q := bodies.Orientation(id)
	return vecmath.Add(bodies.Position(id), vecmath.QRotateVec(q, local))
}

// solveJoint runs one sequential-impulse iteration over j. Distance
// resolves a scalar constraint along the anchor axis; BallSocket and the
// Hinge scaffold both resolve the full positional coincidence of the two
// anchors (a hinge additionally carries AxisA/AxisB/LimitLo/LimitHi for a
// future angular constraint, not yet enforced here).
func solveJoint(bodies *body.Set, j *Joint, p config.Params, dt float64) {
	switch j.Kind {
	case JointDistance:
		solveDistance(bodies, j, p, dt)
	default:
		solvePositional(bodies, j, p, dt)
	}
}

func solveDistance(bodies *body.Set, j *Joint, p config.Params, dt float64) {
	pA, pB := j.anchorWorld(bodies)
	delta := vecmath.Sub(pB, pA)
	dist := vecmath.Length(delta)
	if dist < 1e-9 {
		return
	}
	axis := vecmath.Scale(delta, 1/dist)

	rA := vecmath.Sub(pA, bodies.Position(j.BodyA))
	rB := jointArmB(bodies, j, pB)

	relVel := jointRelativeVelocity(bodies, j, rA, rB)
	vn := vecmath.Dot(relVel, axis)

	effMass := jointEffectiveMass(bodies, j, rA, rB, axis)
	if effMass <= 0 {
		return
	}

	c := dist - j.RestLength
	bias := p.BaumgarteBeta * c / dt

	lambda := -(vn + bias) * effMass

	applyJointImpulse(bodies, j, rA, rB, vecmath.Scale(axis, lambda))
}

// solvePositional drives both anchors to coincide along all three axes,
// used for BallSocket and as the Hinge scaffold's interim behavior.
func solvePositional(bodies *body.Set, j *Joint, p config.Params, dt float64) {
	pA, pB := j.anchorWorld(bodies)
	c := vecmath.Sub(pB, pA)

	rA := vecmath.Sub(pA, bodies.Position(j.BodyA))
	rB := jointArmB(bodies, j, pB)

	relVel := jointRelativeVelocity(bodies, j, rA, rB)

	for axisIdx := 0; axisIdx < 3; axisIdx++ {
		axis := unitAxis(axisIdx)
		vn := vecmath.Dot(relVel, axis)
		effMass := jointEffectiveMass(bodies, j, rA, rB, axis)
		if effMass <= 0 {
			continue
		}
		bias := p.BaumgarteBeta * component(c, axisIdx) / dt
		lambda := -(vn + bias) * effMass
		applyJointImpulse(bodies, j, rA, rB, vecmath.Scale(axis, lambda))
		relVel = jointRelativeVelocity(bodies, j, rA, rB)
	}
}

func jointArmB(bodies *body.Set, j *Joint, pB vecmath.V3) vecmath.V3 {
	if j.BodyB < 0 {
		return vecmath.Zero3
	}
	return vecmath.Sub(pB, bodies.Position(j.BodyB))
}

func jointRelativeVelocity(bodies *body.Set, j *Joint, rA, rB vecmath.V3) vecmath.V3 {
	velA := vecmath.Add(bodies.LinVel(j.BodyA), vecmath.Cross(bodies.AngVel(j.BodyA), rA))
	if j.BodyB < 0 {
		return vecmath.Neg(velA)
	}
	velB := vecmath.Add(bodies.LinVel(j.BodyB), vecmath.Cross(bodies.AngVel(j.BodyB), rB))
	return vecmath.Sub(velB, velA)
}

func jointEffectiveMass(bodies *body.Set, j *Joint, rA, rB, axis vecmath.V3) float64 {
	invMassSum := bodies.InvMass(j.BodyA)
	rACrossN := vecmath.Cross(rA, axis)
	denom := invMassSum + vecmath.Dot(rACrossN, bodies.WorldInvInertia(j.BodyA, rACrossN))
	if j.BodyB >= 0 {
		rBCrossN := vecmath.Cross(rB, axis)
		denom += bodies.InvMass(j.BodyB) + vecmath.Dot(rBCrossN, bodies.WorldInvInertia(j.BodyB, rBCrossN))
	}
	if denom <= 1e-12 {
		return 0
	}
	return 1 / denom
}

func applyJointImpulse(bodies *body.Set, j *Joint, rA, rB, impulse vecmath.V3) {
	if !bodies.IsStatic(j.BodyA) {
		bodies.SetLinVelRaw(j.BodyA, vecmath.Sub(bodies.LinVel(j.BodyA), vecmath.Scale(impulse, bodies.InvMass(j.BodyA))))
		bodies.SetAngVelRaw(j.BodyA, vecmath.Sub(bodies.AngVel(j.BodyA), bodies.WorldInvInertia(j.BodyA, vecmath.Cross(rA, impulse))))
	}
	if j.BodyB >= 0 && !bodies.IsStatic(j.BodyB) {
		bodies.SetLinVelRaw(j.BodyB, vecmath.Add(bodies.LinVel(j.BodyB), vecmath.Scale(impulse, bodies.InvMass(j.BodyB))))
		bodies.SetAngVelRaw(j.BodyB, vecmath.Add(bodies.AngVel(j.BodyB), bodies.WorldInvInertia(j.BodyB, vecmath.Cross(rB, impulse))))
	}
}

func unitAxis(i int) vecmath.V3 {
	switch i {
	case 0:
		return vecmath.V3{X: 1}
	case 1:
		return vecmath.V3{Y: 1}
	default:
		return vecmath.V3{Z: 1}
	}
}

func component(v vecmath.V3, i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}
