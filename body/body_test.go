// Copyright 2026 The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package body

import (
	"math"
	"testing"

	"github.com/coldiron/substrate/arena"
	"github.com/coldiron/substrate/vecmath"
	"github.com/cpmech/gosl/chk"
)

func Test_create_body_defaults(tst *testing.T) {
	chk.PrintTitle("create_body_defaults")
	a := arena.NewSized(1 << 16)
	s := NewSet(a, 4)
	id, ok := s.Create(vecmath.V3{X: 1, Y: 2, Z: 3}, vecmath.QIdentity())
	if !ok {
		tst.Fatalf("create should succeed on an empty table")
	}
	v := s.Get(id)
	if v.LinVel != vecmath.Zero3 || v.AngVel != vecmath.Zero3 {
		tst.Errorf("new body should start with zero velocities, got %+v %+v", v.LinVel, v.AngVel)
	}
	if v.Shape.Kind != Sphere || v.Shape.Radius != 1 {
		tst.Errorf("default shape should be a unit sphere, got %+v", v.Shape)
	}
	if v.InvMass <= 0 {
		tst.Errorf("default unit sphere with default density should have positive inverse mass")
	}
}

func Test_create_body_saturates_table(tst *testing.T) {
	chk.PrintTitle("create_body_saturates_table")
	a := arena.NewSized(1 << 14)
	s := NewSet(a, 2)
	if _, ok := s.Create(vecmath.Zero3, vecmath.QIdentity()); !ok {
		tst.Fatalf("first create should succeed")
	}
	if _, ok := s.Create(vecmath.Zero3, vecmath.QIdentity()); !ok {
		tst.Fatalf("second create should succeed")
	}
	if _, ok := s.Create(vecmath.Zero3, vecmath.QIdentity()); ok {
		tst.Errorf("create on a full table should fail, not grow or panic")
	}
}

func Test_destroy_and_reuse_id(tst *testing.T) {
	chk.PrintTitle("destroy_and_reuse_id")
	a := arena.NewSized(1 << 14)
	s := NewSet(a, 2)
	id0, _ := s.Create(vecmath.Zero3, vecmath.QIdentity())
	s.Destroy(id0)
	if s.IsAlive(id0) {
		tst.Errorf("destroyed id should no longer be alive")
	}
	id1, ok := s.Create(vecmath.V3{X: 5}, vecmath.QIdentity())
	if !ok {
		tst.Fatalf("create after destroy should reuse the freed slot")
	}
	if s.Get(id1).Position.X != 5 {
		tst.Errorf("reused slot should reflect the new create's state")
	}
}

func Test_static_body_has_zero_inverse_mass(tst *testing.T) {
	chk.PrintTitle("static_body_has_zero_inverse_mass")
	a := arena.NewSized(1 << 14)
	s := NewSet(a, 2)
	id, _ := s.Create(vecmath.Zero3, vecmath.QIdentity())
	s.SetShape(id, NewPlane(vecmath.V3{Y: 1}, 0))
	if s.InvMass(id) != 0 {
		tst.Errorf("a plane shape should derive zero inverse mass, got %v", s.InvMass(id))
	}
}

func Test_sphere_mass_matches_closed_form(tst *testing.T) {
	chk.PrintTitle("sphere_mass_matches_closed_form")
	a := arena.NewSized(1 << 14)
	s := NewSet(a, 2)
	id, _ := s.Create(vecmath.Zero3, vecmath.QIdentity())
	s.SetMaterial(id, Material{Density: 2, Restitution: 0, Friction: 0.5})
	s.SetShape(id, NewSphere(3))
	wantMass := 2 * (4.0 / 3.0) * math.Pi * 27
	gotInvMass := s.InvMass(id)
	if math.Abs(gotInvMass-1/wantMass) > 1e-9 {
		tst.Errorf("inv mass = %v, want %v", gotInvMass, 1/wantMass)
	}
}

func Test_apply_force_accumulates_torque(tst *testing.T) {
	chk.PrintTitle("apply_force_accumulates_torque")
	a := arena.NewSized(1 << 14)
	s := NewSet(a, 2)
	id, _ := s.Create(vecmath.Zero3, vecmath.QIdentity())
	s.ApplyForce(id, vecmath.V3{X: 0, Y: 0, Z: 1}, vecmath.V3{X: 1, Y: 0, Z: 0})
	torque := s.Torque(id)
	// arm (1,0,0) x force (0,0,1) = (0*1-0*0, 0*0-1*1, 1*0-0*0) = (0,-1,0)
	if math.Abs(torque.Y-(-1)) > 1e-9 {
		tst.Errorf("torque.Y = %v, want -1", torque.Y)
	}
}

func Test_static_body_ignores_force_and_impulse(tst *testing.T) {
	chk.PrintTitle("static_body_ignores_force_and_impulse")
	a := arena.NewSized(1 << 14)
	s := NewSet(a, 2)
	id, _ := s.Create(vecmath.Zero3, vecmath.QIdentity())
	s.SetStatic(id, true)
	s.ApplyForce(id, vecmath.V3{X: 1}, vecmath.Zero3)
	s.ApplyImpulse(id, vecmath.V3{X: 1}, vecmath.Zero3)
	if s.Force(id) != vecmath.Zero3 {
		tst.Errorf("static body should ignore apply_force")
	}
	if s.LinVel(id) != vecmath.Zero3 {
		tst.Errorf("static body should ignore apply_impulse")
	}
}

func Test_apply_impulse_wakes_body(tst *testing.T) {
	chk.PrintTitle("apply_impulse_wakes_body")
	a := arena.NewSized(1 << 14)
	s := NewSet(a, 2)
	id, _ := s.Create(vecmath.Zero3, vecmath.QIdentity())
	s.SetSleeping(id, true)
	s.ApplyImpulse(id, vecmath.V3{X: 1}, vecmath.Zero3)
	if s.IsSleeping(id) {
		tst.Errorf("apply_impulse should wake a sleeping body")
	}
}

func Test_aabb_overlap_is_symmetric(tst *testing.T) {
	chk.PrintTitle("aabb_overlap_is_symmetric")
	cases := []struct{ a, b AABB }{
		{AABB{vecmath.V3{X: -1, Y: -1, Z: -1}, vecmath.V3{X: 1, Y: 1, Z: 1}}, AABB{vecmath.V3{X: 0, Y: 0, Z: 0}, vecmath.V3{X: 2, Y: 2, Z: 2}}},
		{AABB{vecmath.V3{X: -1, Y: -1, Z: -1}, vecmath.V3{X: 1, Y: 1, Z: 1}}, AABB{vecmath.V3{X: 5, Y: 5, Z: 5}, vecmath.V3{X: 6, Y: 6, Z: 6}}},
	}
	for i, c := range cases {
		if Overlap(c.a, c.b) != Overlap(c.b, c.a) {
			tst.Errorf("case %d: Overlap not symmetric", i)
		}
	}
}

func Test_aabb_rotation_grows_box_extent(tst *testing.T) {
	chk.PrintTitle("aabb_rotation_grows_box_extent")
	a := arena.NewSized(1 << 14)
	s := NewSet(a, 2)
	id, _ := s.Create(vecmath.Zero3, vecmath.QIdentity())
	s.SetShape(id, NewBox(vecmath.V3{X: 1, Y: 0.1, Z: 0.1}))
	axisAligned := s.AABBOf(id)
	q := vecmath.QFromAxisAngle(vecmath.V3{Z: 1}, math.Pi/4)
	s.SetTransform(id, vecmath.Zero3, q)
	rotated := s.AABBOf(id)
	if rotated.Max.Y-rotated.Min.Y <= axisAligned.Max.Y-axisAligned.Min.Y+1e-9 {
		tst.Errorf("45-degree rotation about Z should grow the box's Y extent: axis-aligned=%v rotated=%v",
			axisAligned.Max.Y-axisAligned.Min.Y, rotated.Max.Y-rotated.Min.Y)
	}
}
