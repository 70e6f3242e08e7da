// Copyright 2026 The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package world

import (
	"github.com/coldiron/substrate/broadphase"
	"github.com/coldiron/substrate/vecmath"
)

// Raycast casts a ray against the world's current grid (spec.md §6
// "raycast(origin, dir, max_dist) -> (hit?, body_id, point, normal)"). The
// grid reflects positions as of the last StepSimulation call; queries
// between steps are valid but will not see intra-step motion.
func (w *World) Raycast(origin, dir vecmath.V3, maxDist float64) broadphase.RaycastHit {
	return broadphase.Raycast(w.grid, w.Bodies, origin, dir, maxDist)
}

// OverlapSphere writes up to len(out) overlapping body ids into out,
// returning the count found (spec.md §6 "overlap_sphere").
func (w *World) OverlapSphere(center vecmath.V3, radius float64, out []int) int {
	return w.grid.OverlapSphere(w.Bodies, center, radius, out)
}

// OverlapBox writes up to len(out) overlapping body ids into out,
// returning the count found (spec.md §6 "overlap_box").
func (w *World) OverlapBox(center, halfExtent vecmath.V3, q vecmath.Quat, out []int) int {
	return w.grid.OverlapBox(w.Bodies, center, halfExtent, q, out)
}
