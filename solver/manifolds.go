// Copyright 2026 The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package solver implements the sequential-impulse contact and joint
// solver of spec.md §4.I: warm-started accumulated impulses, Baumgarte
// penetration bias, a restitution bias gated on inbound speed, and
// Coulomb-cone friction, all resolved in one unified Gauss-Seidel pass
// per fixed step.
package solver

import (
	"github.com/coldiron/substrate/arena"
	"github.com/coldiron/substrate/narrowphase"
	"github.com/coldiron/substrate/vecmath"
)

// ManifoldSet is the world's fixed-capacity manifold table for one fixed
// step, plus the previous step's table retained for warm-starting (spec.md
// §7 "manifold array full" is a capacity saturation, not an error).
type ManifoldSet struct {
	current  []narrowphase.Manifold
	previous []narrowphase.Manifold
	count    int
	prevCount int

	dropped int
}

// NewManifoldSet reserves room for maxManifolds manifolds in each of the
// current and previous tables.
func NewManifoldSet(a *arena.Arena, maxManifolds int) *ManifoldSet {
	return &ManifoldSet{
		current:  arena.PushSlice[narrowphase.Manifold](a, maxManifolds),
		previous: arena.PushSlice[narrowphase.Manifold](a, maxManifolds),
	}
}

// Dropped reports how many manifolds were discarded this step because the
// table was full.
func (ms *ManifoldSet) Dropped() int { return ms.dropped }

// Current returns the live prefix of this step's manifolds.
func (ms *ManifoldSet) Current() []narrowphase.Manifold { return ms.current[:ms.count] }

// BeginStep swaps current into previous (for the next step's
// warm-starting) and resets the current table and drop counter.
func (ms *ManifoldSet) BeginStep() {
	ms.current, ms.previous = ms.previous, ms.current
	ms.prevCount, ms.count = ms.count, 0
	ms.dropped = 0
}

// Add appends m to the current table, applying warm-started impulses from
// the matching manifold (same body pair, nearest contact point) in the
// previous step's table if one exists (spec.md §4.I "warm-started from
// last step where possible"). Returns false if the table is full.
func (ms *ManifoldSet) Add(m narrowphase.Manifold) bool {
	if ms.count >= len(ms.current) {
		ms.dropped++
		return false
	}
	ms.warmStart(&m)
	ms.current[ms.count] = m
	ms.count++
	return true
}

// warmStart looks for a manifold in the previous step's table with the
// same body pair and, for each of m's contact points, copies the
// accumulated impulses of the previous manifold's nearest point within a
// small tolerance.
func (ms *ManifoldSet) warmStart(m *narrowphase.Manifold) {
	for i := 0; i < ms.prevCount; i++ {
		prev := &ms.previous[i]
		if !samePair(prev, m) {
			continue
		}
		for pi := range m.Points[:m.Count] {
			best, bestDist := -1, 0.05*0.05
			for qi := range prev.Points[:prev.Count] {
				d := distSq(m.Points[pi].Point, prev.Points[qi].Point)
				if d < bestDist {
					bestDist = d
					best = qi
				}
			}
			if best >= 0 {
				m.Points[pi].NormalImpulse = prev.Points[best].NormalImpulse
				m.Points[pi].TangentImpulse1 = prev.Points[best].TangentImpulse1
				m.Points[pi].TangentImpulse2 = prev.Points[best].TangentImpulse2
			}
		}
		return
	}
}

func samePair(a *narrowphase.Manifold, b *narrowphase.Manifold) bool {
	return (a.BodyA == b.BodyA && a.BodyB == b.BodyB) || (a.BodyA == b.BodyB && a.BodyB == b.BodyA)
}

func distSq(a, b vecmath.V3) float64 {
	dx, dy, dz := a.X-b.X, a.Y-b.Y, a.Z-b.Z
	return dx*dx + dy*dy + dz*dz
}
