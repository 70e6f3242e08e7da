// Copyright 2026 The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rnn

import (
	"github.com/coldiron/substrate/arena"
	"github.com/cpmech/gosl/chk"
)

// Pool holds up to N agents' LSTM states, with memory per agent fixed and
// known at pool creation (spec.md §4.D). Allocate/Release are the pool's
// side of the arena.Pool free-list contract; Reset additionally zeros an
// agent's recurrent memory without returning its slot.
type Pool struct {
	cell  *Cell
	slots *arena.Pool[State]
	names map[string]int
}

// NewPool builds a pool of up to capacity agents sharing cell's weights.
func NewPool(a *arena.Arena, cell *Cell, capacity int) *Pool {
	p := &Pool{cell: cell, names: make(map[string]int, capacity)}
	p.slots = arena.NewPool[State](a, capacity)
	// Each slot's slices must themselves come from the arena; arena.Pool
	// zero-values State on carve-out, so wire up its buffers once here.
	for i := 0; i < capacity; i++ {
		st := p.slots.At(i)
		st.HiddenSize = cell.HiddenSize
		st.C = arena.PushSlice[float32](a, cell.HiddenSize)
		st.H = arena.PushSlice[float32](a, cell.HiddenSize)
		st.Forget = arena.PushSlice[float32](a, cell.HiddenSize)
		st.Input = arena.PushSlice[float32](a, cell.HiddenSize)
		st.Candidate = arena.PushSlice[float32](a, cell.HiddenSize)
		st.Output = arena.PushSlice[float32](a, cell.HiddenSize)
		st.Concat = arena.PushSlice[float32](a, cell.InputSize+cell.HiddenSize)
	}
	return p
}

// Cap returns the pool's agent capacity.
func (p *Pool) Cap() int { return p.slots.Cap() }

// Allocate reserves a slot for name and returns its agent id. Allocating
// the same name twice returns the existing id rather than consuming a
// second slot.
func (p *Pool) Allocate(name string) (int, bool) {
	if id, ok := p.names[name]; ok {
		return id, true
	}
	st, idx, ok := p.slots.Alloc()
	if !ok {
		return -1, false
	}
	st.AgentID = idx
	st.Reset() // zero cell/hidden memory and step count left behind by a prior tenant
	p.names[name] = idx
	return idx, true
}

// Release returns agentID's slot to the free list, the inverse of
// Allocate (SPEC_FULL.md "LSTM pool eviction").
func (p *Pool) Release(agentID int) {
	for name, id := range p.names {
		if id == agentID {
			delete(p.names, name)
			break
		}
	}
	p.slots.Free(agentID)
}

// Reset zeros agentID's cell/hidden state without releasing its slot.
func (p *Pool) Reset(agentID int) {
	if !p.slots.InUseAt(agentID) {
		chk.Panic("rnn: reset of unallocated agent id %d\n", agentID)
	}
	p.slots.At(agentID).Reset()
}

// State returns agentID's state for direct use with Forward, or nil if the
// id is out of range.
func (p *Pool) State(agentID int) *State {
	if agentID < 0 || agentID >= p.slots.Cap() {
		return nil
	}
	return p.slots.At(agentID)
}

// Update runs one Forward step for agentID, guaranteeing (by construction:
// each agent's State owns disjoint arena slices) that it never touches any
// other agent's state.
func (p *Pool) Update(agentID int, input, output []float32) {
	st := p.State(agentID)
	if st == nil || !p.slots.InUseAt(agentID) {
		chk.Panic("rnn: update of unallocated agent id %d\n", agentID)
	}
	Forward(p.cell, st, input, output)
}

// Cell exposes the shared weights for introspection and training.
func (p *Pool) Cell() *Cell { return p.cell }
