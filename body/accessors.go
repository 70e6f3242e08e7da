// Copyright 2026 The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package body

import "github.com/coldiron/substrate/vecmath"

// View is a read-only snapshot of one body, returned by Get for
// component K's debug/introspection port (spec.md §4.K) and for tests.
// It copies out of the SoA rather than aliasing it, so holding one across
// a step never observes a half-updated body.
type View struct {
	Position    vecmath.V3
	Orientation vecmath.Quat
	LinVel      vecmath.V3
	AngVel      vecmath.V3
	InvMass     float64
	Shape       Shape
	Material    Material
	Box         AABB
	Static      bool
	Sleeping    bool
}

// Get returns a read-only copy of id's state.
func (s *Set) Get(id int) View {
	s.requireAlive(id)
	return View{
		Position:    s.position[id],
		Orientation: s.orientation[id],
		LinVel:      s.linVel[id],
		AngVel:      s.angVel[id],
		InvMass:     s.invMass[id],
		Shape:       s.shape[id],
		Material:    s.material[id],
		Box:         s.box[id],
		Static:      s.static[id],
		Sleeping:    s.sleeping[id],
	}
}

func (s *Set) Position(id int) vecmath.V3      { return s.position[id] }
func (s *Set) Orientation(id int) vecmath.Quat { return s.orientation[id] }
func (s *Set) LinVel(id int) vecmath.V3        { return s.linVel[id] }
func (s *Set) AngVel(id int) vecmath.V3        { return s.angVel[id] }
func (s *Set) Force(id int) vecmath.V3         { return s.force[id] }
func (s *Set) Torque(id int) vecmath.V3        { return s.torque[id] }
func (s *Set) InvMass(id int) float64          { return s.invMass[id] }
func (s *Set) ShapeOf(id int) Shape            { return s.shape[id] }
func (s *Set) MaterialOf(id int) Material      { return s.material[id] }
func (s *Set) AABBOf(id int) AABB              { return s.box[id] }

func (s *Set) SetPositionRaw(id int, v vecmath.V3)      { s.position[id] = v }
func (s *Set) SetOrientationRaw(id int, q vecmath.Quat) { s.orientation[id] = q }
func (s *Set) SetLinVelRaw(id int, v vecmath.V3)        { s.linVel[id] = v }
func (s *Set) SetAngVelRaw(id int, v vecmath.V3)        { s.angVel[id] = v }
func (s *Set) ClearForces(id int) {
	s.force[id] = vecmath.Zero3
	s.torque[id] = vecmath.Zero3
}

func (s *Set) SetSleeping(id int, sleeping bool) { s.sleeping[id] = sleeping }
func (s *Set) SleepTimer(id int) float64         { return s.sleepTimer[id] }
func (s *Set) SetSleepTimer(id int, t float64)   { s.sleepTimer[id] = t }

// Each iterates f over every currently alive body id in ascending order.
// The fixed iteration order (array index, not insertion order) keeps every
// downstream pass — broad phase, narrow phase, integration — a
// deterministic function of body id alone (spec.md §5).
func (s *Set) Each(f func(id int)) {
	for id, alive := range s.alive {
		if alive {
			f(id)
		}
	}
}
