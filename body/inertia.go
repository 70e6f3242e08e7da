// Copyright 2026 The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package body

import "github.com/coldiron/substrate/vecmath"

// WorldInvInertia applies id's world-space inverse inertia tensor to v:
// I_inv_world * v = R * (invInertiaDiag ⊙ (R^-1 * v)), built from the
// local diagonal inverse inertia and the body's current orientation,
// without ever materializing the dense 3x3 tensor. Static bodies always
// return the zero vector.
func (s *Set) WorldInvInertia(id int, v vecmath.V3) vecmath.V3 {
	s.requireAlive(id)
	if s.static[id] {
		return vecmath.Zero3
	}
	q := s.orientation[id]
	local := vecmath.QRotateVec(conjugate(q), v)
	scaled := vecmath.V3{
		X: local.X * s.invInertia[id].X,
		Y: local.Y * s.invInertia[id].Y,
		Z: local.Z * s.invInertia[id].Z,
	}
	return vecmath.QRotateVec(q, scaled)
}

// conjugate returns the inverse rotation of a unit quaternion.
func conjugate(q vecmath.Quat) vecmath.Quat {
	return vecmath.Quat{X: -q.X, Y: -q.Y, Z: -q.Z, W: q.W}
}
