// Copyright 2026 The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package broadphase

import (
	"math"
	"testing"

	"github.com/coldiron/substrate/arena"
	"github.com/coldiron/substrate/body"
	"github.com/coldiron/substrate/config"
	"github.com/coldiron/substrate/vecmath"
	"github.com/cpmech/gosl/chk"
)

func setupWorldBodies(a *arena.Arena, capacity int) *body.Set {
	return body.NewSet(a, capacity)
}

func Test_enumerate_pairs_finds_overlapping_bodies(tst *testing.T) {
	chk.PrintTitle("enumerate_pairs_finds_overlapping_bodies")
	a := arena.NewSized(1 << 20)
	p := config.Default()
	bodies := setupWorldBodies(a, 4)
	g := NewGrid(a, p)
	pairs := NewPairs(a, p)

	idA, _ := bodies.Create(vecmath.Zero3, vecmath.QIdentity())
	idB, _ := bodies.Create(vecmath.V3{X: 1}, vecmath.QIdentity())
	idC, _ := bodies.Create(vecmath.V3{X: 50}, vecmath.QIdentity())
	_ = idC

	g.Rebuild(bodies)
	pairs.Enumerate(g)

	found := false
	for _, pr := range pairs.List() {
		if (pr.A == idA && pr.B == idB) || (pr.A == idB && pr.B == idA) {
			found = true
		}
	}
	if !found {
		tst.Errorf("expected pair (%d,%d) among %v", idA, idB, pairs.List())
	}
	for _, pr := range pairs.List() {
		if pr.A == idC || pr.B == idC {
			tst.Errorf("distant body %d should not pair with anything: %v", idC, pairs.List())
		}
	}
}

func Test_enumerate_pairs_no_duplicates(tst *testing.T) {
	chk.PrintTitle("enumerate_pairs_no_duplicates")
	a := arena.NewSized(1 << 20)
	p := config.Default()
	p.GridCellSize = 0.5 // force the bodies' AABBs to span many shared cells
	bodies := setupWorldBodies(a, 4)
	g := NewGrid(a, p)
	pairs := NewPairs(a, p)

	bodies.Create(vecmath.Zero3, vecmath.QIdentity())
	bodies.Create(vecmath.V3{X: 0.2}, vecmath.QIdentity())

	g.Rebuild(bodies)
	pairs.Enumerate(g)

	seen := map[[2]int]int{}
	for _, pr := range pairs.List() {
		seen[[2]int{pr.A, pr.B}]++
	}
	for k, n := range seen {
		if n > 1 {
			tst.Errorf("pair %v emitted %d times, want at most 1", k, n)
		}
	}
}

func Test_sleeping_bodies_excluded_from_grid(tst *testing.T) {
	chk.PrintTitle("sleeping_bodies_excluded_from_grid")
	a := arena.NewSized(1 << 20)
	p := config.Default()
	bodies := setupWorldBodies(a, 4)
	g := NewGrid(a, p)
	pairs := NewPairs(a, p)

	idA, _ := bodies.Create(vecmath.Zero3, vecmath.QIdentity())
	idB, _ := bodies.Create(vecmath.V3{X: 0.5}, vecmath.QIdentity())
	bodies.SetSleeping(idB, true)

	g.Rebuild(bodies)
	pairs.Enumerate(g)

	for _, pr := range pairs.List() {
		if pr.A == idB || pr.B == idB {
			tst.Errorf("sleeping body %d should not appear in any pair: %v", idB, pairs.List())
		}
	}
	_ = idA
}

func Test_raycast_hits_sphere(tst *testing.T) {
	chk.PrintTitle("raycast_hits_sphere")
	a := arena.NewSized(1 << 20)
	p := config.Default()
	bodies := setupWorldBodies(a, 4)
	g := NewGrid(a, p)

	id, _ := bodies.Create(vecmath.V3{X: 2}, vecmath.QIdentity())
	bodies.SetShape(id, body.NewSphere(0.5))
	g.Rebuild(bodies)

	hit := Raycast(g, bodies, vecmath.Zero3, vecmath.V3{X: 1}, 5)
	if !hit.Found {
		tst.Fatalf("expected a hit")
	}
	if math.Abs(hit.Point.X-1.5) > 1e-3 {
		tst.Errorf("hit point x = %v, want ~1.5", hit.Point.X)
	}
	if math.Abs(hit.Normal.X-(-1)) > 1e-9 {
		tst.Errorf("hit normal = %+v, want (-1,0,0)", hit.Normal)
	}
}

func Test_raycast_miss_reports_not_found(tst *testing.T) {
	chk.PrintTitle("raycast_miss_reports_not_found")
	a := arena.NewSized(1 << 20)
	p := config.Default()
	bodies := setupWorldBodies(a, 4)
	g := NewGrid(a, p)

	id, _ := bodies.Create(vecmath.V3{X: 2, Y: 10}, vecmath.QIdentity())
	bodies.SetShape(id, body.NewSphere(0.5))
	g.Rebuild(bodies)

	hit := Raycast(g, bodies, vecmath.Zero3, vecmath.V3{X: 1}, 5)
	if hit.Found {
		tst.Errorf("expected no hit, got %+v", hit)
	}
}

func Test_overlap_sphere_finds_candidate(tst *testing.T) {
	chk.PrintTitle("overlap_sphere_finds_candidate")
	a := arena.NewSized(1 << 20)
	p := config.Default()
	bodies := setupWorldBodies(a, 4)
	g := NewGrid(a, p)

	id, _ := bodies.Create(vecmath.V3{X: 1}, vecmath.QIdentity())
	g.Rebuild(bodies)

	out := make([]int, 4)
	n := g.OverlapSphere(bodies, vecmath.Zero3, 2, out)
	if n != 1 || out[0] != id {
		tst.Errorf("OverlapSphere found %d bodies %v, want [%d]", n, out[:n], id)
	}
}

func Test_pairs_sort_by_proximity(tst *testing.T) {
	chk.PrintTitle("pairs_sort_by_proximity")
	a := arena.NewSized(1 << 20)
	p := config.Default()
	p.GridCellSize = 20
	bodies := setupWorldBodies(a, 6)
	g := NewGrid(a, p)
	pairs := NewPairs(a, p)

	bodies.Create(vecmath.Zero3, vecmath.QIdentity())
	bodies.Create(vecmath.V3{X: 5}, vecmath.QIdentity())
	bodies.Create(vecmath.V3{X: 0.5}, vecmath.QIdentity())

	g.Rebuild(bodies)
	pairs.Enumerate(g)
	pairs.SortByProximity(bodies)

	list := pairs.List()
	for i := 1; i < len(list); i++ {
		if centerDistSq(bodies, list[i]) < centerDistSq(bodies, list[i-1])-1e-9 {
			tst.Errorf("pairs not sorted by ascending distance: %v", list)
		}
	}
}
