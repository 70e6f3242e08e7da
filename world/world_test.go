// Copyright 2026 The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package world

import (
	"math"
	"testing"

	"github.com/coldiron/substrate/arena"
	"github.com/coldiron/substrate/body"
	"github.com/coldiron/substrate/vecmath"
	"github.com/cpmech/gosl/chk"
)

func Test_S1_sphere_on_plane_settles_and_sleeps(tst *testing.T) {
	chk.PrintTitle("S1_sphere_on_plane_settles_and_sleeps")
	a := arena.NewSized(1 << 22)
	w := CreateWorld(a, 8)
	w.SetGravity(vecmath.V3{Y: -9.81})

	plane, _ := w.CreateBody(vecmath.Zero3, vecmath.QIdentity())
	w.SetShape(plane, body.NewPlane(vecmath.V3{Y: 1}, 0))
	w.SetStatic(plane, true)

	sphere, _ := w.CreateBody(vecmath.V3{Y: 5}, vecmath.QIdentity())
	w.SetShape(sphere, body.NewSphere(1))

	const dt = 1.0 / 60.0
	for i := 0; i < 120; i++ {
		w.StepSimulation(dt)
	}

	y := w.GetBody(sphere).Position.Y
	if y < 0.99 || y > 1.02 {
		tst.Errorf("y_sphere = %v, want [0.99, 1.02]", y)
	}
	speed := vecmath.Length(w.GetBody(sphere).LinVel)
	if speed >= 0.01 {
		tst.Errorf("|v| = %v, want < 0.01", speed)
	}
	if !w.IsSleeping(sphere) {
		tst.Errorf("expected sphere to be asleep after 2s settled on the plane")
	}
}

func Test_S2_stacked_boxes_settle_without_interpenetration(tst *testing.T) {
	chk.PrintTitle("S2_stacked_boxes_settle_without_interpenetration")
	a := arena.NewSized(1 << 22)
	w := CreateWorld(a, 8)
	w.SetGravity(vecmath.V3{Y: -9.81})

	plane, _ := w.CreateBody(vecmath.Zero3, vecmath.QIdentity())
	w.SetShape(plane, body.NewPlane(vecmath.V3{Y: 1}, 0))
	w.SetStatic(plane, true)

	bottom, _ := w.CreateBody(vecmath.V3{Y: 1}, vecmath.QIdentity())
	w.SetShape(bottom, body.NewBox(vecmath.V3{X: 1, Y: 1, Z: 1}))

	top, _ := w.CreateBody(vecmath.V3{Y: 3.01}, vecmath.QIdentity())
	w.SetShape(top, body.NewBox(vecmath.V3{X: 1, Y: 1, Z: 1}))

	const dt = 1.0 / 60.0
	for i := 0; i < 180; i++ {
		w.StepSimulation(dt)
	}

	topY := w.GetBody(top).Position.Y
	if topY < 3.00 || topY > 3.02 {
		tst.Errorf("top box y = %v, want [3.00, 3.02]", topY)
	}

	bottomTop := w.GetBody(bottom).Position.Y + 1
	topBottom := topY - 1
	if bottomTop-topBottom > 0.01 {
		tst.Errorf("interpenetration of %v m between stacked boxes exceeds 1 cm", bottomTop-topBottom)
	}
}

func Test_S3_raycast_hits_sphere(tst *testing.T) {
	chk.PrintTitle("S3_raycast_hits_sphere")
	a := arena.NewSized(1 << 20)
	w := CreateWorld(a, 4)

	sphere, _ := w.CreateBody(vecmath.V3{X: 2}, vecmath.QIdentity())
	w.SetShape(sphere, body.NewSphere(0.5))
	w.StepSimulation(1.0 / 60.0) // rebuild the grid once so the query has candidates

	hit := w.Raycast(vecmath.Zero3, vecmath.V3{X: 1}, 5)
	if !hit.Found {
		tst.Fatalf("expected a hit")
	}
	if math.Abs(hit.Point.X-1.5) > 1e-3 {
		tst.Errorf("hit.Point.X = %v, want 1.5", hit.Point.X)
	}
	if math.Abs(hit.Normal.X-(-1)) > 1e-6 {
		tst.Errorf("hit.Normal = %+v, want (-1,0,0)", hit.Normal)
	}
}

func Test_static_body_bit_identical_across_step(tst *testing.T) {
	chk.PrintTitle("static_body_bit_identical_across_step")
	a := arena.NewSized(1 << 20)
	w := CreateWorld(a, 4)
	w.SetGravity(vecmath.V3{Y: -9.81})

	plane, _ := w.CreateBody(vecmath.V3{X: 1, Y: 2, Z: 3}, vecmath.QIdentity())
	w.SetShape(plane, body.NewPlane(vecmath.V3{Y: 1}, 0))
	w.SetStatic(plane, true)

	before := w.GetBody(plane)
	w.StepSimulation(1.0 / 60.0)
	after := w.GetBody(plane)

	if before.Position != after.Position || before.LinVel != after.LinVel {
		tst.Errorf("static body changed across step: before=%+v after=%+v", before, after)
	}
}

func Test_reentrant_step_panics(tst *testing.T) {
	chk.PrintTitle("reentrant_step_panics")
	a := arena.NewSized(1 << 20)
	w := CreateWorld(a, 4)
	w.stepping = true
	defer func() {
		if recover() == nil {
			tst.Errorf("expected a panic on re-entrant step_simulation")
		}
	}()
	w.StepSimulation(1.0 / 60.0)
}

func Test_reset_world_clears_bodies(tst *testing.T) {
	chk.PrintTitle("reset_world_clears_bodies")
	a := arena.NewSized(1 << 20)
	w := CreateWorld(a, 4)
	id, _ := w.CreateBody(vecmath.Zero3, vecmath.QIdentity())
	if !w.Bodies.IsAlive(id) {
		tst.Fatalf("expected body to be alive after create")
	}
	w.ResetWorld()
	if w.Bodies.Count() != 0 {
		tst.Errorf("expected 0 bodies after reset_world, got %d", w.Bodies.Count())
	}
}

func Test_raycast_miss_returns_not_found(tst *testing.T) {
	chk.PrintTitle("raycast_miss_returns_not_found")
	a := arena.NewSized(1 << 20)
	w := CreateWorld(a, 4)
	id, _ := w.CreateBody(vecmath.V3{X: 100}, vecmath.QIdentity())
	w.SetShape(id, body.NewSphere(0.5))
	w.StepSimulation(1.0 / 60.0)

	hit := w.Raycast(vecmath.Zero3, vecmath.V3{X: 1}, 5)
	if hit.Found {
		tst.Errorf("expected no hit at max distance 5 against a sphere at x=100")
	}
}
