// Copyright 2026 The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ewc implements Elastic Weight Consolidation (SPEC_FULL.md
// component E): sparse diagonal Fisher-information matrices, per-task θ*
// snapshots, the EWC penalty and its gradient contribution, and an
// adaptive λ.
package ewc

import "github.com/coldiron/substrate/arena"

// TaskState is the per-task lifecycle state machine of spec.md §4.E:
// unused -> active -> completed -> active-retained.
type TaskState int

const (
	Unused TaskState = iota
	Active
	Completed
	ActiveRetained
)

func (s TaskState) String() string {
	switch s {
	case Active:
		return "active"
	case Completed:
		return "completed"
	case ActiveRetained:
		return "active-retained"
	default:
		return "unused"
	}
}

// Task is one entry in the EWC task table: a name, an importance weight,
// a lifecycle state, a θ* snapshot of the parameters at completion time,
// and a sparse Fisher matrix the caller fills in via ComputeFisher before
// (or instead of) calling CompleteTask.
type Task struct {
	Name  string
	Alpha float64
	State TaskState

	Theta  []float64 // θ*, length ParamCount, arena-allocated
	Fisher *Fisher
}

// newTask allocates an unused task slot's backing storage: a θ* snapshot
// of the given parameter count and a Fisher matrix with room for
// maxFisherEntries. Both come from a; nothing here allocates again once
// the state is constructed.
func newTask(a *arena.Arena, paramCount, maxFisherEntries int) *Task {
	return &Task{
		State:  Unused,
		Theta:  arena.PushSlice[float64](a, paramCount),
		Fisher: NewFisher(a, maxFisherEntries),
	}
}
