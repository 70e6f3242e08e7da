// Copyright 2026 The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vecmath

import "math"

// Quat is a quaternion in (x, y, z, w) order, representing an orientation
// when unit-length.
type Quat struct {
	X, Y, Z, W float64
}

// QIdentity is the no-rotation quaternion.
func QIdentity() Quat { return Quat{0, 0, 0, 1} }

// QFromAxisAngle builds a unit quaternion rotating by angle radians about
// axis. A near-zero axis falls back to QIdentity.
func QFromAxisAngle(axis V3, angle float64) Quat {
	n := Normalize(axis)
	if Length(axis) < 1e-12 {
		return QIdentity()
	}
	h := angle * 0.5
	s := math.Sin(h)
	return Quat{n.X * s, n.Y * s, n.Z * s, math.Cos(h)}
}

// QMul composes two rotations: applying the result to a vector is
// equivalent to applying b then a.
func QMul(a, b Quat) Quat {
	return Quat{
		X: a.W*b.X + a.X*b.W + a.Y*b.Z - a.Z*b.Y,
		Y: a.W*b.Y - a.X*b.Z + a.Y*b.W + a.Z*b.X,
		Z: a.W*b.Z + a.X*b.Y - a.Y*b.X + a.Z*b.W,
		W: a.W*b.W - a.X*b.X - a.Y*b.Y - a.Z*b.Z,
	}
}

func QLengthSq(q Quat) float64 { return q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W }

// QNormalize renormalizes q. Degenerate (near-zero norm) input falls back
// to identity, matching the "degenerate numerics" policy: never propagate
// NaN.
func QNormalize(q Quat) Quat {
	l2 := QLengthSq(q)
	if l2 < 1e-20 {
		return QIdentity()
	}
	inv := 1 / math.Sqrt(l2)
	return Quat{q.X * inv, q.Y * inv, q.Z * inv, q.W * inv}
}

// QRotateVec rotates v by unit quaternion q.
func QRotateVec(q Quat, v V3) V3 {
	u := V3{q.X, q.Y, q.Z}
	uv := Cross(u, v)
	uuv := Cross(u, uv)
	return Add(v, Scale(Add(Scale(uv, q.W), uuv), 2))
}

// QIntegrate advances orientation q by angular velocity omega over dt using
// the small-angle quaternion derivative q' = 0.5 * omega_quat * q, then
// renormalizes. This is the integrator used by component J each fixed
// step (spec.md §4.J: "rotate q <- normalize(q . Δq(ω, dt))").
func QIntegrate(q Quat, omega V3, dt float64) Quat {
	dq := Quat{omega.X * dt * 0.5, omega.Y * dt * 0.5, omega.Z * dt * 0.5, 0}
	p := QMul(dq, q)
	sum := Quat{q.X + p.X, q.Y + p.Y, q.Z + p.Z, q.W + p.W}
	return QNormalize(sum)
}
