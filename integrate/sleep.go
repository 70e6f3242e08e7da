// Copyright 2026 The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package integrate

import (
	"github.com/coldiron/substrate/body"
	"github.com/coldiron/substrate/config"
	"github.com/coldiron/substrate/vecmath"
)

// UpdateSleep advances the sleep state machine for every dynamic body
// (spec.md §4.J): a body whose linear and angular speed both stay below
// their thresholds for at least p.SleepTime seconds transitions to
// sleeping with velocities snapped exactly to zero. Waking (on force,
// impulse, or contact with a non-sleeping body) is the responsibility of
// the caller that applies that force/impulse/contact, not of this pass.
func UpdateSleep(bodies *body.Set, p config.Params, dt float64) {
	bodies.Each(func(id int) {
		if bodies.IsStatic(id) || bodies.IsSleeping(id) {
			return
		}

		linSpeed := vecmath.Length(bodies.LinVel(id))
		angSpeed := vecmath.Length(bodies.AngVel(id))

		if linSpeed < p.SleepLinThreshold && angSpeed < p.SleepAngThreshold {
			t := bodies.SleepTimer(id) + dt
			bodies.SetSleepTimer(id, t)
			if t >= p.SleepTime {
				bodies.SetLinVelRaw(id, vecmath.Zero3)
				bodies.SetAngVelRaw(id, vecmath.Zero3)
				bodies.SetSleeping(id, true)
			}
			return
		}
		bodies.SetSleepTimer(id, 0)
	})
}
