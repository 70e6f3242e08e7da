// Copyright 2026 The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package integrate

import (
	"github.com/coldiron/substrate/body"
	"github.com/coldiron/substrate/vecmath"
)

// IntegrateVelocities runs the pre-solver half of one fixed step (spec.md
// §4.J steps 1-3): gravity impulse, multiplicative damping, then force/
// torque integration, clearing the accumulators afterward. Static and
// sleeping bodies are left untouched.
func IntegrateVelocities(bodies *body.Set, gravity vecmath.V3, dt float64) {
	bodies.Each(func(id int) {
		if bodies.IsStatic(id) || bodies.IsSleeping(id) {
			return
		}

		invMass := bodies.InvMass(id)
		linVel := bodies.LinVel(id)
		angVel := bodies.AngVel(id)
		mat := bodies.MaterialOf(id)

		linVel = vecmath.Add(linVel, vecmath.Scale(gravity, dt*invMass))

		linVel = vecmath.Scale(linVel, dampingFactor(mat.LinearDamping, dt))
		angVel = vecmath.Scale(angVel, dampingFactor(mat.AngularDamping, dt))

		linVel = vecmath.Add(linVel, vecmath.Scale(bodies.Force(id), dt*invMass))
		angVel = vecmath.Add(angVel, vecmath.Scale(bodies.WorldInvInertia(id, bodies.Torque(id)), dt))

		bodies.SetLinVelRaw(id, linVel)
		bodies.SetAngVelRaw(id, angVel)
		bodies.ClearForces(id)
	})
}

// dampingFactor is (1 - c*dt), floored at 0 (spec.md §4.F "damping ...
// [0, 1/dt)" keeps this factor non-negative for any valid c).
func dampingFactor(c, dt float64) float64 {
	f := 1 - c*dt
	if f < 0 {
		return 0
	}
	return f
}
