// Copyright 2026 The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package narrowphase

import (
	"math"
	"testing"

	"github.com/coldiron/substrate/arena"
	"github.com/coldiron/substrate/body"
	"github.com/coldiron/substrate/vecmath"
	"github.com/cpmech/gosl/chk"
)

var defaultCfg = Config{GJKMaxIterations: 32, EPATolerance: 1e-4}

func Test_sphere_sphere_overlap(tst *testing.T) {
	chk.PrintTitle("sphere_sphere_overlap")
	a := arena.NewSized(1 << 16)
	bodies := body.NewSet(a, 4)
	id1, _ := bodies.Create(vecmath.Zero3, vecmath.QIdentity())
	id2, _ := bodies.Create(vecmath.V3{X: 1.5}, vecmath.QIdentity())

	m, ok := Collide(bodies, id1, id2, defaultCfg)
	if !ok {
		tst.Fatalf("expected overlap")
	}
	wantPenetration := 2 - 1.5
	if math.Abs(m.Points[0].Penetration-wantPenetration) > 1e-9 {
		tst.Errorf("penetration = %v, want %v", m.Points[0].Penetration, wantPenetration)
	}
	if math.Abs(m.Normal.X-1) > 1e-9 {
		tst.Errorf("normal = %+v, want (1,0,0)", m.Normal)
	}
}

func Test_sphere_sphere_no_overlap(tst *testing.T) {
	chk.PrintTitle("sphere_sphere_no_overlap")
	a := arena.NewSized(1 << 16)
	bodies := body.NewSet(a, 4)
	id1, _ := bodies.Create(vecmath.Zero3, vecmath.QIdentity())
	id2, _ := bodies.Create(vecmath.V3{X: 10}, vecmath.QIdentity())

	_, ok := Collide(bodies, id1, id2, defaultCfg)
	if ok {
		tst.Errorf("expected no overlap at distance 10 between two unit spheres")
	}
}

func Test_sphere_plane_rests_at_radius(tst *testing.T) {
	chk.PrintTitle("sphere_plane_rests_at_radius")
	a := arena.NewSized(1 << 16)
	bodies := body.NewSet(a, 4)
	sphere, _ := bodies.Create(vecmath.V3{Y: 0.9}, vecmath.QIdentity())
	plane, _ := bodies.Create(vecmath.Zero3, vecmath.QIdentity())
	bodies.SetShape(plane, body.NewPlane(vecmath.V3{Y: 1}, 0))
	bodies.SetStatic(plane, true)

	m, ok := Collide(bodies, sphere, plane, defaultCfg)
	if !ok {
		tst.Fatalf("sphere at y=0.9 with radius 1 should penetrate the y=0 plane")
	}
	if math.Abs(m.Points[0].Penetration-0.1) > 1e-9 {
		tst.Errorf("penetration = %v, want 0.1", m.Points[0].Penetration)
	}
}

func Test_box_plane_produces_four_contacts_when_flat(tst *testing.T) {
	chk.PrintTitle("box_plane_produces_four_contacts_when_flat")
	a := arena.NewSized(1 << 16)
	bodies := body.NewSet(a, 4)
	boxID, _ := bodies.Create(vecmath.V3{Y: 0.9}, vecmath.QIdentity())
	bodies.SetShape(boxID, body.NewBox(vecmath.V3{X: 1, Y: 1, Z: 1}))
	planeID, _ := bodies.Create(vecmath.Zero3, vecmath.QIdentity())
	bodies.SetShape(planeID, body.NewPlane(vecmath.V3{Y: 1}, 0))
	bodies.SetStatic(planeID, true)

	m, ok := Collide(bodies, boxID, planeID, defaultCfg)
	if !ok {
		tst.Fatalf("expected box resting 0.1 below the plane to collide")
	}
	if m.Count != 4 {
		tst.Errorf("a box flat on a plane should produce 4 contacts, got %d", m.Count)
	}
}

func Test_manifold_tangent_basis_orthonormal(tst *testing.T) {
	chk.PrintTitle("manifold_tangent_basis_orthonormal")
	a := arena.NewSized(1 << 16)
	bodies := body.NewSet(a, 4)
	id1, _ := bodies.Create(vecmath.Zero3, vecmath.QIdentity())
	id2, _ := bodies.Create(vecmath.V3{X: 1.5}, vecmath.QIdentity())
	m, ok := Collide(bodies, id1, id2, defaultCfg)
	if !ok {
		tst.Fatalf("expected overlap")
	}
	if math.Abs(vecmath.Dot(m.Normal, m.Tangent1)) > 1e-9 {
		tst.Errorf("tangent1 not orthogonal to normal")
	}
	if math.Abs(vecmath.Dot(m.Normal, m.Tangent2)) > 1e-9 {
		tst.Errorf("tangent2 not orthogonal to normal")
	}
	if math.Abs(vecmath.Dot(m.Tangent1, m.Tangent2)) > 1e-9 {
		tst.Errorf("tangent1 not orthogonal to tangent2")
	}
	cross := vecmath.Cross(m.Normal, m.Tangent1)
	if vecmath.Dot(cross, m.Tangent2) < 0 {
		tst.Errorf("tangent basis is not right-handed")
	}
}

func Test_box_box_generic_path_detects_overlap(tst *testing.T) {
	chk.PrintTitle("box_box_generic_path_detects_overlap")
	a := arena.NewSized(1 << 16)
	bodies := body.NewSet(a, 4)
	id1, _ := bodies.Create(vecmath.Zero3, vecmath.QIdentity())
	bodies.SetShape(id1, body.NewBox(vecmath.V3{X: 1, Y: 1, Z: 1}))
	id2, _ := bodies.Create(vecmath.V3{X: 1.5}, vecmath.QIdentity())
	bodies.SetShape(id2, body.NewBox(vecmath.V3{X: 1, Y: 1, Z: 1}))

	_, ok := Collide(bodies, id1, id2, defaultCfg)
	if !ok {
		tst.Errorf("two unit boxes 1.5 apart on X should overlap (combined half-extent 2)")
	}

	id3, _ := bodies.Create(vecmath.V3{X: 10}, vecmath.QIdentity())
	bodies.SetShape(id3, body.NewBox(vecmath.V3{X: 1, Y: 1, Z: 1}))
	_, ok2 := Collide(bodies, id1, id3, defaultCfg)
	if ok2 {
		tst.Errorf("two unit boxes 10 apart should not overlap")
	}
}

func Test_combined_material_response(tst *testing.T) {
	chk.PrintTitle("combined_material_response")
	a := arena.NewSized(1 << 16)
	bodies := body.NewSet(a, 4)
	id1, _ := bodies.Create(vecmath.Zero3, vecmath.QIdentity())
	bodies.SetMaterial(id1, body.Material{Density: 1, Restitution: 0.2, Friction: 0.4})
	id2, _ := bodies.Create(vecmath.V3{X: 1.5}, vecmath.QIdentity())
	bodies.SetMaterial(id2, body.Material{Density: 1, Restitution: 0.8, Friction: 0.9})

	m, ok := Collide(bodies, id1, id2, defaultCfg)
	if !ok {
		tst.Fatalf("expected overlap")
	}
	if math.Abs(m.Restitution-0.5) > 1e-9 {
		tst.Errorf("combined restitution = %v, want mean 0.5", m.Restitution)
	}
	wantFriction := math.Sqrt(0.4 * 0.9)
	if math.Abs(m.Friction-wantFriction) > 1e-9 {
		tst.Errorf("combined friction = %v, want geometric mean %v", m.Friction, wantFriction)
	}
}
