// Copyright 2026 The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rnn

import "github.com/coldiron/substrate/arena"

// State is one agent's recurrent memory: cell state, hidden state, the
// last gate activations (exposed for introspection, component K), a
// scratch concat buffer, a step counter, and the owning agent id
// (spec.md §3 "LSTM state").
type State struct {
	AgentID    int
	HiddenSize int

	C []float32 // cell state, HiddenSize
	H []float32 // hidden state, HiddenSize

	Forget    []float32 // last forget-gate activation, HiddenSize
	Input     []float32 // last input-gate activation, HiddenSize
	Candidate []float32 // last candidate activation, HiddenSize
	Output    []float32 // last output-gate activation, HiddenSize

	Concat []float32 // scratch [input ++ previous hidden], InputSize+HiddenSize
	Step   int64
}

// NewState allocates one agent's state from a for a cell with the given
// input/hidden sizes. The pool (see pool.go) is the normal way to obtain
// one of these; this constructor is exposed directly for standalone use
// and for init_lstm_state in spec.md §6.
func NewState(a *arena.Arena, inputSize, hiddenSize, agentID int) *State {
	return &State{
		AgentID:    agentID,
		HiddenSize: hiddenSize,
		C:          arena.PushSlice[float32](a, hiddenSize),
		H:          arena.PushSlice[float32](a, hiddenSize),
		Forget:     arena.PushSlice[float32](a, hiddenSize),
		Input:      arena.PushSlice[float32](a, hiddenSize),
		Candidate:  arena.PushSlice[float32](a, hiddenSize),
		Output:     arena.PushSlice[float32](a, hiddenSize),
		Concat:     arena.PushSlice[float32](a, inputSize+hiddenSize),
	}
}

// Reset zeros cell and hidden state and resets the step counter, per
// spec.md §4.D: "reset(agent_id) zeros c and h". Gate-activation and
// concat scratch buffers are left as-is; they are fully overwritten by the
// next Forward call before they are read.
func (s *State) Reset() {
	zero(s.C)
	zero(s.H)
	s.Step = 0
}

func zero(x []float32) {
	for i := range x {
		x[i] = 0
	}
}
