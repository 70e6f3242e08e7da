// Copyright 2026 The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"github.com/coldiron/substrate/arena"
	"github.com/coldiron/substrate/body"
	"github.com/coldiron/substrate/config"
	"github.com/coldiron/substrate/narrowphase"
)

// Solver owns the fixed-capacity manifold table and the world's joint
// list, and runs config.Params.SolverIterations Gauss-Seidel sweeps over
// both per fixed step (spec.md §4.I: "contacts and joints are resolved
// together in one unified iteration loop").
type Solver struct {
	Manifolds *ManifoldSet
	joints    []Joint
	params    config.Params
}

// NewSolver reserves the manifold table from a and starts with an empty
// joint list.
func NewSolver(a *arena.Arena, p config.Params) *Solver {
	return &Solver{
		Manifolds: NewManifoldSet(a, p.MaxManifoldsPerStep),
		params:    p,
	}
}

// AddJoint appends j to the world's joint list, returning its index for
// later removal. Joints are few relative to contacts, so the list is a
// plain growable slice rather than an arena table.
func (sv *Solver) AddJoint(j Joint) int {
	sv.joints = append(sv.joints, j)
	return len(sv.joints) - 1
}

// RemoveJoint swaps index out of the joint list.
func (sv *Solver) RemoveJoint(index int) {
	n := len(sv.joints)
	sv.joints[index] = sv.joints[n-1]
	sv.joints = sv.joints[:n-1]
}

// BeginStep resets the manifold table for a new step, retaining the
// previous step's manifolds for warm-starting.
func (sv *Solver) BeginStep() {
	sv.Manifolds.BeginStep()
}

// AddManifold feeds one narrow-phase result into this step's table.
func (sv *Solver) AddManifold(m narrowphase.Manifold) bool {
	return sv.Manifolds.Add(m)
}

// Solve runs SolverIterations Gauss-Seidel sweeps over every manifold's
// contact points and every joint, in that order within each sweep
// (spec.md §4.I).
func (sv *Solver) Solve(bodies *body.Set, dt float64) {
	manifolds := sv.Manifolds.Current()
	for iter := 0; iter < sv.params.SolverIterations; iter++ {
		for mi := range manifolds {
			m := &manifolds[mi]
			for pi := 0; pi < m.Count; pi++ {
				solveContact(bodies, m, &m.Points[pi], sv.params, dt)
			}
		}
		for ji := range sv.joints {
			solveJoint(bodies, &sv.joints[ji], sv.params, dt)
		}
	}
}
