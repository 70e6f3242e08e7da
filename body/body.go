// Copyright 2026 The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package body

import (
	"github.com/coldiron/substrate/arena"
	"github.com/coldiron/substrate/vecmath"
	"github.com/cpmech/gosl/chk"
)

// Set is the fixed-capacity, arena-backed structure-of-arrays body table a
// World owns exclusively (spec.md §5 "shared resources inside a world").
// Ids are stable array indices, reused from a free list after
// destroy_body, never reassigned while a body is alive.
type Set struct {
	position    []vecmath.V3
	orientation []vecmath.Quat
	linVel      []vecmath.V3
	angVel      []vecmath.V3
	force       []vecmath.V3
	torque      []vecmath.V3
	invMass     []float64
	invInertia  []vecmath.V3 // local-frame diagonal
	shape       []Shape
	material    []Material
	box         []AABB
	static      []bool
	sleeping    []bool
	sleepTimer  []float64
	alive       []bool

	free  []int
	count int // number of currently-alive bodies
}

// NewSet reserves room for capacity bodies from a. Every field array is a
// single arena allocation; create_body/destroy_body never grow it.
func NewSet(a *arena.Arena, capacity int) *Set {
	s := &Set{
		position:    arena.PushSlice[vecmath.V3](a, capacity),
		orientation: arena.PushSlice[vecmath.Quat](a, capacity),
		linVel:      arena.PushSlice[vecmath.V3](a, capacity),
		angVel:      arena.PushSlice[vecmath.V3](a, capacity),
		force:       arena.PushSlice[vecmath.V3](a, capacity),
		torque:      arena.PushSlice[vecmath.V3](a, capacity),
		invMass:     arena.PushSlice[float64](a, capacity),
		invInertia:  arena.PushSlice[vecmath.V3](a, capacity),
		shape:       arena.PushSlice[Shape](a, capacity),
		material:    arena.PushSlice[Material](a, capacity),
		box:         arena.PushSlice[AABB](a, capacity),
		static:      arena.PushSlice[bool](a, capacity),
		sleeping:    arena.PushSlice[bool](a, capacity),
		sleepTimer:  arena.PushSlice[float64](a, capacity),
		alive:       arena.PushSlice[bool](a, capacity),
	}
	s.free = make([]int, capacity) // id free list: small, setup-time only
	for i := range s.free {
		s.free[i] = capacity - 1 - i
	}
	return s
}

// Capacity returns the maximum number of simultaneously live bodies.
func (s *Set) Capacity() int { return len(s.alive) }

// Count returns the number of currently alive bodies.
func (s *Set) Count() int { return s.count }

// Create allocates a body id at position/orientation with zero velocities
// and accumulators, the default unit-sphere shape, and the default
// material (spec.md §4.F "create_body"). Returns (-1, false) if the table
// is full — a capacity saturation, not an invariant violation (spec.md
// §7).
func (s *Set) Create(position vecmath.V3, orientation vecmath.Quat) (int, bool) {
	if len(s.free) == 0 {
		return -1, false
	}
	id := s.free[len(s.free)-1]
	s.free = s.free[:len(s.free)-1]

	s.position[id] = position
	s.orientation[id] = orientation
	s.linVel[id] = vecmath.Zero3
	s.angVel[id] = vecmath.Zero3
	s.force[id] = vecmath.Zero3
	s.torque[id] = vecmath.Zero3
	s.shape[id] = UnitSphere()
	s.material[id] = DefaultMaterial()
	s.static[id] = false
	s.sleeping[id] = false
	s.sleepTimer[id] = 0
	s.alive[id] = true
	s.count++

	s.deriveMass(id)
	s.deriveAABB(id)
	return id, true
}

// Destroy releases id back to the free list. Destroying an id that is not
// currently alive is a fatal invariant violation: callers must not hold
// onto a stale id past destroy_body.
func (s *Set) Destroy(id int) {
	s.requireAlive(id)
	s.alive[id] = false
	s.count--
	s.free = append(s.free, id)
}

func (s *Set) requireAlive(id int) {
	if id < 0 || id >= len(s.alive) || !s.alive[id] {
		chk.Panic("body: operation on invalid or dead body id %d\n", id)
	}
}

// IsAlive reports whether id currently names a live body.
func (s *Set) IsAlive(id int) bool {
	return id >= 0 && id < len(s.alive) && s.alive[id]
}

// SetShape replaces id's shape and recomputes mass properties and AABB
// from it (spec.md §4.F "set_shape recomputes mass properties and AABB").
// density is read from the body's current material.
func (s *Set) SetShape(id int, shape Shape) {
	s.requireAlive(id)
	s.shape[id] = shape
	s.deriveMass(id)
	s.deriveAABB(id)
}

// SetMaterial replaces id's material and re-derives mass properties, since
// density lives on Material.
func (s *Set) SetMaterial(id int, mat Material) {
	s.requireAlive(id)
	s.material[id] = mat
	s.deriveMass(id)
}

// SetTransform overwrites id's position and orientation directly (e.g. for
// a kinematic reset or scene load) and re-derives its AABB. It does not
// clear velocity or wake the body; callers that want both call
// SetVelocity too.
func (s *Set) SetTransform(id int, position vecmath.V3, orientation vecmath.Quat) {
	s.requireAlive(id)
	s.position[id] = position
	s.orientation[id] = vecmath.QNormalize(orientation)
	s.deriveAABB(id)
}

// SetVelocity overwrites id's linear and angular velocity directly.
func (s *Set) SetVelocity(id int, lin, ang vecmath.V3) {
	s.requireAlive(id)
	s.linVel[id] = lin
	s.angVel[id] = ang
}

// ApplyForce accumulates F into id's force and (point-position)xF into its
// torque (spec.md §4.F), and wakes id: a non-trivial applied force clears
// the sleep state (spec.md §4.J). Static bodies ignore it.
func (s *Set) ApplyForce(id int, f, point vecmath.V3) {
	s.requireAlive(id)
	if s.static[id] {
		return
	}
	s.force[id] = vecmath.Add(s.force[id], f)
	arm := vecmath.Sub(point, s.position[id])
	s.torque[id] = vecmath.Add(s.torque[id], vecmath.Cross(arm, f))
	s.Wake(id)
}

// ApplyImpulse mutates id's velocities directly from an impulse J applied
// at point, and wakes the body (spec.md §4.F). Static bodies ignore it.
func (s *Set) ApplyImpulse(id int, j, point vecmath.V3) {
	s.requireAlive(id)
	if s.static[id] {
		return
	}
	s.linVel[id] = vecmath.Add(s.linVel[id], vecmath.Scale(j, s.invMass[id]))
	arm := vecmath.Sub(point, s.position[id])
	angularImpulse := vecmath.Cross(arm, j)
	s.angVel[id] = vecmath.Add(s.angVel[id], s.WorldInvInertia(id, angularImpulse))
	s.Wake(id)
}

// Wake clears id's sleep state unconditionally.
func (s *Set) Wake(id int) {
	s.requireAlive(id)
	s.sleeping[id] = false
	s.sleepTimer[id] = 0
}

// IsStatic reports whether id is flagged static (infinite mass).
func (s *Set) IsStatic(id int) bool {
	s.requireAlive(id)
	return s.static[id]
}

// SetStatic flags id static or dynamic. A static body's inverse mass and
// inverse inertia read as zero regardless of its shape/material.
func (s *Set) SetStatic(id int, static bool) {
	s.requireAlive(id)
	s.static[id] = static
	s.deriveMass(id)
}

// IsSleeping reports id's sleep flag.
func (s *Set) IsSleeping(id int) bool {
	s.requireAlive(id)
	return s.sleeping[id]
}

func (s *Set) deriveMass(id int) {
	if s.static[id] {
		s.invMass[id] = 0
		s.invInertia[id] = vecmath.Zero3
		return
	}
	mp := computeMassProperties(s.shape[id], s.material[id].Density)
	s.invMass[id] = mp.InvMass
	s.invInertia[id] = mp.InvInertiaDiag
}

func (s *Set) deriveAABB(id int) {
	s.box[id] = computeAABB(s.shape[id], s.position[id], s.orientation[id])
}

// RecomputeAABB refreshes id's cached AABB from its current transform; the
// integrator calls this once per body per fixed step.
func (s *Set) RecomputeAABB(id int) {
	s.deriveAABB(id)
}
