// Copyright 2026 The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package integrate

import (
	"github.com/coldiron/substrate/body"
	"github.com/coldiron/substrate/vecmath"
)

// IntegratePositions runs the post-solver half of one fixed step (spec.md
// §4.J steps 5-6): semi-implicit Euler position update, quaternion
// integration from angular velocity, then an AABB refresh. Static and
// sleeping bodies are left untouched.
func IntegratePositions(bodies *body.Set, dt float64) {
	bodies.Each(func(id int) {
		if bodies.IsStatic(id) || bodies.IsSleeping(id) {
			return
		}

		pos := vecmath.Add(bodies.Position(id), vecmath.Scale(bodies.LinVel(id), dt))
		orient := vecmath.QNormalize(vecmath.QIntegrate(bodies.Orientation(id), bodies.AngVel(id), dt))

		bodies.SetPositionRaw(id, pos)
		bodies.SetOrientationRaw(id, orient)
		bodies.RecomputeAABB(id)
	})
}
