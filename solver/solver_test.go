// Copyright 2026 The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"math"
	"testing"

	"github.com/coldiron/substrate/arena"
	"github.com/coldiron/substrate/body"
	"github.com/coldiron/substrate/config"
	"github.com/coldiron/substrate/narrowphase"
	"github.com/coldiron/substrate/vecmath"
	"github.com/cpmech/gosl/chk"
)

func Test_sphere_resting_on_plane_stops_penetrating(tst *testing.T) {
	chk.PrintTitle("sphere_resting_on_plane_stops_penetrating")
	a := arena.NewSized(1 << 20)
	bodies := body.NewSet(a, 4)
	p := config.Default()
	sv := NewSolver(a, p)

	sphere, _ := bodies.Create(vecmath.V3{Y: 0.95}, vecmath.QIdentity())
	plane, _ := bodies.Create(vecmath.Zero3, vecmath.QIdentity())
	bodies.SetShape(plane, body.NewPlane(vecmath.V3{Y: 1}, 0))
	bodies.SetStatic(plane, true)
	bodies.SetVelocity(sphere, vecmath.V3{Y: -2}, vecmath.Zero3)

	m, ok := narrowphase.Collide(bodies, sphere, plane, narrowphase.Config{GJKMaxIterations: 32, EPATolerance: 1e-4})
	if !ok {
		tst.Fatalf("expected sphere/plane overlap")
	}
	sv.BeginStep()
	sv.AddManifold(m)
	sv.Solve(bodies, p.FixedStep)

	vn := vecmath.Dot(bodies.LinVel(sphere), vecmath.V3{Y: 1})
	if vn < -1e-6 {
		tst.Errorf("resolved normal velocity = %v, want >= 0 (no further penetration)", vn)
	}
}

func Test_warm_start_carries_impulse_between_steps(tst *testing.T) {
	chk.PrintTitle("warm_start_carries_impulse_between_steps")
	a := arena.NewSized(1 << 20)
	bodies := body.NewSet(a, 4)
	p := config.Default()
	sv := NewSolver(a, p)

	sphere, _ := bodies.Create(vecmath.V3{Y: 0.95}, vecmath.QIdentity())
	plane, _ := bodies.Create(vecmath.Zero3, vecmath.QIdentity())
	bodies.SetShape(plane, body.NewPlane(vecmath.V3{Y: 1}, 0))
	bodies.SetStatic(plane, true)

	cfg := narrowphase.Config{GJKMaxIterations: 32, EPATolerance: 1e-4}

	sv.BeginStep()
	m1, _ := narrowphase.Collide(bodies, sphere, plane, cfg)
	sv.AddManifold(m1)
	sv.Solve(bodies, p.FixedStep)

	sv.BeginStep()
	m2, _ := narrowphase.Collide(bodies, sphere, plane, cfg)
	sv.AddManifold(m2)

	got := sv.Manifolds.Current()[0].Points[0].NormalImpulse
	if got == 0 {
		tst.Errorf("expected warm-started normal impulse carried from previous step, got 0")
	}
}

func Test_distance_joint_holds_rest_length(tst *testing.T) {
	chk.PrintTitle("distance_joint_holds_rest_length")
	a := arena.NewSized(1 << 20)
	bodies := body.NewSet(a, 4)
	p := config.Default()
	sv := NewSolver(a, p)

	anchor, _ := bodies.Create(vecmath.Zero3, vecmath.QIdentity())
	bodies.SetStatic(anchor, true)
	bob, _ := bodies.Create(vecmath.V3{X: 3}, vecmath.QIdentity())
	bodies.SetVelocity(bob, vecmath.V3{X: 1}, vecmath.Zero3)

	sv.AddJoint(Joint{Kind: JointDistance, BodyA: anchor, BodyB: bob, RestLength: 2})

	sv.BeginStep()
	sv.Solve(bodies, p.FixedStep)

	relVel := vecmath.Dot(bodies.LinVel(bob), vecmath.V3{X: 1})
	if relVel > 0.5 {
		tst.Errorf("distance joint should brake outward radial velocity, got %v", relVel)
	}
}

func Test_ball_socket_joint_pulls_anchors_together(tst *testing.T) {
	chk.PrintTitle("ball_socket_joint_pulls_anchors_together")
	a := arena.NewSized(1 << 20)
	bodies := body.NewSet(a, 4)
	p := config.Default()
	sv := NewSolver(a, p)

	anchor, _ := bodies.Create(vecmath.Zero3, vecmath.QIdentity())
	bodies.SetStatic(anchor, true)
	bob, _ := bodies.Create(vecmath.V3{X: 1}, vecmath.QIdentity())
	bodies.SetVelocity(bob, vecmath.V3{Y: -3}, vecmath.Zero3)

	sv.AddJoint(Joint{Kind: JointBallSocket, BodyA: anchor, BodyB: bob})

	sv.BeginStep()
	for i := 0; i < 4; i++ {
		sv.Solve(bodies, p.FixedStep)
	}

	vy := bodies.LinVel(bob).Y
	if math.Abs(vy) > 1.5 {
		tst.Errorf("ball socket constraint should damp free fall at the anchored body, vy = %v", vy)
	}
}

func Test_hinge_scaffold_behaves_as_positional_constraint(tst *testing.T) {
	chk.PrintTitle("hinge_scaffold_behaves_as_positional_constraint")
	a := arena.NewSized(1 << 20)
	bodies := body.NewSet(a, 4)
	p := config.Default()
	sv := NewSolver(a, p)

	anchor, _ := bodies.Create(vecmath.Zero3, vecmath.QIdentity())
	bodies.SetStatic(anchor, true)
	bob, _ := bodies.Create(vecmath.V3{X: 1}, vecmath.QIdentity())

	idx := sv.AddJoint(Joint{
		Kind:    JointHinge,
		BodyA:   anchor,
		BodyB:   bob,
		AxisA:   vecmath.V3{Z: 1},
		AxisB:   vecmath.V3{Z: 1},
		LimitLo: -math.Pi / 4,
		LimitHi: math.Pi / 4,
	})
	if idx != 0 {
		tst.Fatalf("expected joint index 0, got %d", idx)
	}

	bodies.SetVelocity(bob, vecmath.V3{X: -2}, vecmath.Zero3)
	sv.BeginStep()
	sv.Solve(bodies, p.FixedStep)

	vx := bodies.LinVel(bob).X
	if vx < -1.5 {
		tst.Errorf("hinge scaffold should resist inward radial velocity like a ball socket, vx = %v", vx)
	}
}

func Test_manifold_table_overflow_reports_dropped(tst *testing.T) {
	chk.PrintTitle("manifold_table_overflow_reports_dropped")
	a := arena.NewSized(1 << 20)
	p := config.Default()
	p.MaxManifoldsPerStep = 2
	sv := NewSolver(a, p)

	sv.BeginStep()
	for i := 0; i < 4; i++ {
		sv.AddManifold(narrowphase.Manifold{BodyA: i, BodyB: i + 10, Count: 1})
	}
	if sv.Manifolds.Dropped() != 2 {
		tst.Errorf("dropped = %d, want 2", sv.Manifolds.Dropped())
	}
}
