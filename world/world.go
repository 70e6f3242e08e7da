// Copyright 2026 The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package world ties components F through K into the single entry point
// a host drives: create_world/step_simulation/destroy_world and the body,
// query, neural, and EWC surfaces listed in spec.md §6. A World owns its
// arena, body table, spatial grid, broad-phase pair set, and solver
// exclusively (spec.md §5): nothing here is shared across worlds.
package world

import (
	"github.com/coldiron/substrate/arena"
	"github.com/coldiron/substrate/body"
	"github.com/coldiron/substrate/broadphase"
	"github.com/coldiron/substrate/config"
	"github.com/coldiron/substrate/integrate"
	"github.com/coldiron/substrate/internal/diag"
	"github.com/coldiron/substrate/narrowphase"
	"github.com/coldiron/substrate/solver"
	"github.com/coldiron/substrate/vecmath"
	"github.com/cpmech/gosl/chk"
)

// Profiler is the per-step counters component K exposes: cycles are
// reported as wall-independent pass counts (spec.md has no clock
// primitive; these are pass/entity counters, not timings), reset at the
// start of every StepSimulation call; each fixed step that call runs
// overwrites the per-step fields, and FixedStepsRun counts the fixed steps
// of the call.
type Profiler struct {
	ActiveBodyCount int
	PairCount       int
	ManifoldCount   int
	DroppedPairs    int
	DroppedManifolds int
	OverflowedCells int
	FixedStepsRun   int
}

func (p *Profiler) reset() { *p = Profiler{} }

// World is the fixed-capacity simulation instance spec.md §6 names
// create_world/destroy_world/reset_world/set_gravity/step_simulation for.
type World struct {
	arena *arena.Arena
	p     config.Params

	Bodies *body.Set
	grid   *broadphase.Grid
	pairs  *broadphase.Pairs
	sv     *solver.Solver
	acc    integrate.Accumulator

	narrowCfg narrowphase.Config
	gravity   vecmath.V3

	stepping bool // re-entrance guard, spec.md §5

	log diag.Logger

	Profile Profiler
}

// CreateWorld builds a World from a caller-owned arena region and body
// capacity, with the default Params (spec.md §6 "create_world(arena_bytes,
// arena_ptr) -> world*"; arena_bytes/arena_ptr become a []byte the caller
// passes to arena.New before calling this).
func CreateWorld(a *arena.Arena, bodyCapacity int) *World {
	return CreateWorldWithParams(a, bodyCapacity, config.Default())
}

// CreateWorldWithParams is CreateWorld with an explicit, already-resolved
// Params (e.g. built via config.FromPrms).
func CreateWorldWithParams(a *arena.Arena, bodyCapacity int, p config.Params) *World {
	w := &World{
		arena:  a,
		p:      p,
		Bodies: body.NewSet(a, bodyCapacity),
		grid:   broadphase.NewGrid(a, p),
		pairs:  broadphase.NewPairs(a, p),
		sv:     solver.NewSolver(a, p),
		narrowCfg: narrowphase.Config{
			GJKMaxIterations: p.GJKMaxIterations,
			EPATolerance:     p.EPATolerance,
		},
		log: diag.New("world"),
	}
	return w
}

// SetGravity sets the constant linear acceleration applied to every
// non-static, non-sleeping body each internal step.
func (w *World) SetGravity(g vecmath.V3) { w.gravity = g }

// SetVerbose toggles the opt-in per-step trace line emitted by stepOnce,
// mirroring msolid.Driver's Silent/VerD switch.
func (w *World) SetVerbose(v bool) { w.log.Verbose = v }

// ResetWorld rewinds the world's arena-backed state to empty: every body
// destroyed, the accumulator cleared, gravity left as last set (spec.md §6
// "reset_world"). The released ids go back onto the body free list in
// ascending order and are reused from there; the first id handed out
// after a reset is not necessarily 0.
func (w *World) ResetWorld() {
	w.Bodies.Each(func(id int) {
		w.Bodies.Destroy(id)
	})
	w.acc.Reset()
	w.sv.BeginStep() // drop any stale warm-start history across the reset
	w.Profile.reset()
}

// StepSimulation advances the world by dt, internally running as many
// FixedStep-sized steps as the accumulator allows (spec.md §4.J). Each
// internal step runs the strict ordering from spec.md §5: broad phase,
// narrow phase, velocity integration, constraint solve, position
// integration, sleep. Re-entrance (calling StepSimulation from within an
// already-running call on the same World) is a fatal invariant violation.
func (w *World) StepSimulation(dt float64) {
	if w.stepping {
		chk.Panic("world: step_simulation re-entered\n")
	}
	w.stepping = true
	defer func() { w.stepping = false }()

	w.Profile.reset()
	n := w.acc.Consume(dt, w.p.FixedStep)
	for i := 0; i < n; i++ {
		w.stepOnce()
		w.Profile.FixedStepsRun++
	}
}

func (w *World) stepOnce() {
	w.grid.Rebuild(w.Bodies)
	w.pairs.Enumerate(w.grid)
	w.pairs.SortByProximity(w.Bodies)

	w.sv.BeginStep()
	for _, pr := range w.pairs.List() {
		m, ok := narrowphase.Collide(w.Bodies, pr.A, pr.B, w.narrowCfg)
		if !ok {
			continue
		}
		w.wakeOnContact(pr.A, pr.B)
		w.sv.AddManifold(m)
	}

	integrate.IntegrateVelocities(w.Bodies, w.gravity, w.p.FixedStep)
	w.sv.Solve(w.Bodies, w.p.FixedStep)
	integrate.IntegratePositions(w.Bodies, w.p.FixedStep)
	integrate.UpdateSleep(w.Bodies, w.p, w.p.FixedStep)

	w.Profile.ActiveBodyCount = w.Bodies.Count()
	w.Profile.PairCount = len(w.pairs.List())
	w.Profile.ManifoldCount = len(w.sv.Manifolds.Current())
	w.Profile.DroppedPairs = w.pairs.Dropped()
	w.Profile.DroppedManifolds = w.sv.Manifolds.Dropped()
	w.Profile.OverflowedCells = w.grid.OverflowedCells()

	w.log.Tracef("bodies=%d pairs=%d manifolds=%d\n",
		w.Profile.ActiveBodyCount, w.Profile.PairCount, w.Profile.ManifoldCount)
}

// wakeOnContact clears the sleep flag of whichever body in (a, b) is
// asleep while the other is awake (spec.md §4.J "any ... contact with a
// non-sleeping body clears the sleep state").
func (w *World) wakeOnContact(a, b int) {
	aSleep, bSleep := w.Bodies.IsSleeping(a), w.Bodies.IsSleeping(b)
	if aSleep && !bSleep {
		w.Bodies.Wake(a)
	}
	if bSleep && !aSleep {
		w.Bodies.Wake(b)
	}
}

// AddJoint exposes the solver's joint list to the host.
func (w *World) AddJoint(j solver.Joint) int { return w.sv.AddJoint(j) }

// RemoveJoint removes a previously added joint by index.
func (w *World) RemoveJoint(index int) { w.sv.RemoveJoint(index) }
