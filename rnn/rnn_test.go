// Copyright 2026 The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rnn

import (
	"math"
	"testing"

	"github.com/coldiron/substrate/arena"
	"github.com/cpmech/gosl/chk"
)

func seedCell(c *Cell) {
	cs := c.InputSize + c.HiddenSize
	for gate := 0; gate < numGates; gate++ {
		for h := 0; h < c.HiddenSize; h++ {
			for j := 0; j < cs; j++ {
				c.SetGateWeight(gate, h, j, float32(0.01*float64((gate*13+h*7+j)%11-5)))
			}
		}
	}
	for i := 0; i < c.HiddenSize; i++ {
		c.Bf[i] = 0.1
		c.Bi[i] = 0
		c.Bg[i] = 0
		c.Bo[i] = 0
	}
}

func Test_lstm_forward_converges(tst *testing.T) {
	chk.PrintTitle("lstm_forward_converges")

	a := arena.NewSized(1 << 20)
	cell := NewCell(a, 8, 32)
	seedCell(cell)
	st := NewState(a, 8, 32, 0)

	input := make([]float32, 8)
	for i := range input {
		input[i] = float32(i) / 8
	}

	var prevH []float32
	var lastDelta float64 = math.Inf(1)
	out := make([]float32, 32)
	for iter := 0; iter < 5; iter++ {
		Forward(cell, st, input, out)
		if prevH != nil {
			var norm float64
			for i := range out {
				d := float64(out[i] - prevH[i])
				norm += d * d
			}
			norm = math.Sqrt(norm)
			if iter >= 2 && norm > lastDelta+1e-3 {
				tst.Errorf("iteration %d: ||h_t - h_t-1|| grew from %v to %v", iter, lastDelta, norm)
			}
			lastDelta = norm
		}
		prevH = append([]float32(nil), out...)
	}
}

func Test_lstm_reset_zeroes_state(tst *testing.T) {
	chk.PrintTitle("lstm_reset_zeroes_state")

	a := arena.NewSized(1 << 20)
	cell := NewCell(a, 4, 16)
	seedCell(cell)
	st := NewState(a, 4, 16, 0)

	input := []float32{0.5, -0.2, 0.1, 0.9}
	out := make([]float32, 16)
	for i := 0; i < 3; i++ {
		Forward(cell, st, input, out)
	}

	st.Reset()
	for i, v := range st.H {
		if v != 0 {
			tst.Errorf("H[%d] not zero after reset: %v", i, v)
		}
	}
	for i, v := range st.C {
		if v != 0 {
			tst.Errorf("C[%d] not zero after reset: %v", i, v)
		}
	}
}

func Test_pool_agents_are_isolated(tst *testing.T) {
	chk.PrintTitle("pool_agents_are_isolated")

	a := arena.NewSized(1 << 21)
	cell := NewCell(a, 4, 8)
	seedCell(cell)
	pool := NewPool(a, cell, 4)

	idA, _ := pool.Allocate("alice")
	idB, _ := pool.Allocate("bob")

	inA := []float32{1, 0, 0, 0}
	inB := []float32{0, 0, 0, 1}
	outA := make([]float32, 8)
	outB := make([]float32, 8)

	for i := 0; i < 3; i++ {
		pool.Update(idA, inA, outA)
	}
	beforeB := append([]float32(nil), pool.State(idB).H...)
	pool.Update(idB, inB, outB)
	_ = beforeB

	// agent A's state must be untouched by agent B's updates
	pool.Update(idA, inA, outA)
	if pool.State(idA).AgentID != idA {
		tst.Errorf("state AgentID should match allocated id")
	}
	if pool.State(idB).Step != 1 {
		tst.Errorf("agent B should have taken exactly 1 step, got %d", pool.State(idB).Step)
	}
	if pool.State(idA).Step != 4 {
		tst.Errorf("agent A should have taken exactly 4 steps, got %d", pool.State(idA).Step)
	}
}

func Test_pool_exhaustion_and_release(tst *testing.T) {
	chk.PrintTitle("pool_exhaustion_and_release")

	a := arena.NewSized(1 << 20)
	cell := NewCell(a, 2, 4)
	pool := NewPool(a, cell, 2)

	id0, ok0 := pool.Allocate("a")
	id1, ok1 := pool.Allocate("b")
	if !ok0 || !ok1 {
		tst.Errorf("expected both allocations to succeed")
	}
	if _, ok := pool.Allocate("c"); ok {
		tst.Errorf("expected pool exhaustion on third allocation")
	}

	pool.Release(id0)
	id2, ok := pool.Allocate("c")
	if !ok || id2 != id0 {
		tst.Errorf("expected released slot %d to be reused, got %d (ok=%v)", id0, id2, ok)
	}

	in := []float32{1, 0}
	out := make([]float32, 4)
	pool.Update(id2, in, out) // must not panic on the reused slot's buffers
	st := pool.State(id2)
	if st.C == nil || st.H == nil || st.Forget == nil || st.Input == nil || st.Candidate == nil || st.Output == nil || st.Concat == nil {
		tst.Fatalf("reused slot has a nil buffer: %+v", st)
	}
	if st.Step != 1 {
		tst.Errorf("reused slot should have taken exactly 1 step, got %d", st.Step)
	}
	_ = id1
}
