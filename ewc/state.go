// Copyright 2026 The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ewc

import (
	"github.com/coldiron/substrate/arena"
	"github.com/cpmech/gosl/chk"
)

// DefaultMaxTasks bounds the EWC task table; begin_task beyond this many
// concurrently-unused-or-active slots is a capacity saturation (spec.md
// §7), not an error.
const DefaultMaxTasks = 16

// DefaultLambdaMin/Max are the adaptive-λ clamp bounds used when a caller
// doesn't call SetLambdaRange explicitly.
const (
	DefaultLambdaMin = 0.1
	DefaultLambdaMax = 100.0
)

// State is the EWC subsystem for one network: a fixed task table plus the
// scratch buffers every operation below needs, all sized to ParamCount and
// allocated once from an arena (spec.md §3 "EWC state", §6 "init_ewc").
type State struct {
	ParamCount int
	Tasks      []*Task

	LambdaMin, LambdaMax, Lambda float64

	// CurrentParams is the scratch vector spec.md §3 names explicitly:
	// "a scratch current_parameters vector of length P is used when
	// reading weights out of a network for penalty/gradient computation."
	CurrentParams []float64

	scratchGrad  []float64 // ParamCount-length scratch for gradient estimation
	scratchSumSq []float64 // ParamCount-length scratch for Fisher averaging

	droppedTasks int // profiling counter: begin_task calls rejected for a full table
}

// InitEWC allocates an EWC state for a network with the given parameter
// count, with room for maxTasks tasks each holding up to
// maxFisherEntriesPerTask sparse Fisher entries. λ starts at
// DefaultLambdaMin and is clamped to [DefaultLambdaMin, DefaultLambdaMax]
// until SetLambdaRange is called.
func InitEWC(a *arena.Arena, parameterCount, maxTasks, maxFisherEntriesPerTask int) *State {
	s := &State{
		ParamCount:    parameterCount,
		LambdaMin:     DefaultLambdaMin,
		LambdaMax:     DefaultLambdaMax,
		Lambda:        DefaultLambdaMin,
		CurrentParams: arena.PushSlice[float64](a, parameterCount),
		scratchGrad:   arena.PushSlice[float64](a, parameterCount),
		scratchSumSq:  arena.PushSlice[float64](a, parameterCount),
	}
	s.Tasks = make([]*Task, maxTasks) // task table itself: fixed-size, not per-step hot path
	for i := range s.Tasks {
		s.Tasks[i] = newTask(a, parameterCount, maxFisherEntriesPerTask)
	}
	return s
}

// InitEWCDefault is InitEWC with DefaultMaxTasks tasks, each sized to hold
// up to parameterCount Fisher entries (the worst case: a fully dense
// diagonal).
func InitEWCDefault(a *arena.Arena, parameterCount int) *State {
	return InitEWC(a, parameterCount, DefaultMaxTasks, parameterCount)
}

// DroppedTaskCount reports how many begin_task calls were rejected because
// the task table was full, for the profiling port (component K).
func (s *State) DroppedTaskCount() int { return s.droppedTasks }

// BeginTask allocates a task slot, returning its id, and transitions it
// unused -> active. Returns (-1, false) if every slot is in use — a
// capacity saturation, not an invariant violation (spec.md §7).
func (s *State) BeginTask(name string) (int, bool) {
	for id, t := range s.Tasks {
		if t.State == Unused {
			t.Name = name
			t.Alpha = 0
			t.State = Active
			t.Fisher.reset()
			for i := range t.Theta {
				t.Theta[i] = 0
			}
			return id, true
		}
	}
	s.droppedTasks++
	return -1, false
}

// Task returns the task at id for read access, nil if out of range.
func (s *State) Task(id int) *Task {
	if id < 0 || id >= len(s.Tasks) {
		return nil
	}
	return s.Tasks[id]
}

// TaskFisher returns id's Fisher matrix so a caller can populate it with
// ComputeFisher before calling CompleteTask.
func (s *State) TaskFisher(id int) *Fisher {
	t := s.Task(id)
	if t == nil {
		return nil
	}
	return t.Fisher
}

// readParams reads net's current parameters into s.CurrentParams, the
// shared scratch vector spec.md §3 names. net is any type exposing
// ReadParams([]float64) — satisfied by *nnet.Network.
func (s *State) readParams(net interface{ ReadParams([]float64) }) {
	net.ReadParams(s.CurrentParams)
}

// CompleteTask snapshots net's current parameters into the task's θ*,
// flags it Completed, and — only when the caller has already populated the
// task's Fisher matrix via TaskFisher/ComputeFisher — retains it for
// future penalties by transitioning to ActiveRetained (spec.md §4.E).
// Completing an unused slot is a fatal invariant violation: begin_task
// must precede complete_task.
func (s *State) CompleteTask(id int, net interface{ ReadParams([]float64) }, loss float64) {
	t := s.Task(id)
	if t == nil || t.State == Unused {
		chk.Panic("ewc: complete_task on unused or out-of-range task id %d\n", id)
	}
	net.ReadParams(t.Theta)
	if t.Fisher.Count() > 0 {
		t.State = ActiveRetained
	} else {
		t.State = Completed
	}
}

// SetImportance mutates a task's α at any time after creation.
func (s *State) SetImportance(id int, alpha float64) {
	t := s.Task(id)
	if t == nil {
		chk.Panic("ewc: set_importance on out-of-range task id %d\n", id)
	}
	t.Alpha = alpha
}

// ListTasks is the read-only accessor over the task table used by
// component K and by save/load (SPEC_FULL.md "EWC task listing").
func (s *State) ListTasks() []*Task {
	return s.Tasks
}
