// Copyright 2026 The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package arena

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_arena_lifo(tst *testing.T) {

	chk.PrintTitle("arena_lifo")

	a := NewSized(1024).Named("test")

	s1 := a.BeginScope()
	_ = PushSlice[float32](a, 10)
	used1 := a.Used()

	s2 := a.BeginScope()
	_ = PushSlice[float32](a, 20)
	a.EndScope(s2)

	if a.Used() != used1 {
		tst.Errorf("closing s2 should restore used to %d, got %d", used1, a.Used())
	}

	a.EndScope(s1)
	if a.Used() != 0 {
		tst.Errorf("closing s1 should restore used to 0, got %d", a.Used())
	}
}

func Test_arena_nonlifo_panics(tst *testing.T) {

	chk.PrintTitle("arena_nonlifo_panics")

	defer func() {
		if r := recover(); r == nil {
			tst.Errorf("expected panic on non-LIFO scope close")
		}
	}()

	a := NewSized(256)
	s1 := a.BeginScope()
	_ = a.BeginScope()
	a.EndScope(s1) // closing s1 while s2 is still open: fatal
}

func Test_arena_overflow_panics(tst *testing.T) {

	chk.PrintTitle("arena_overflow_panics")

	defer func() {
		if r := recover(); r == nil {
			tst.Errorf("expected panic on capacity overflow")
		}
	}()

	a := NewSized(16)
	_ = PushSlice[float64](a, 100)
}

func Test_arena_push_zero_fills(tst *testing.T) {

	chk.PrintTitle("arena_push_zero_fills")

	a := NewSized(64)
	xs := PushSlice[float32](a, 4)
	for i, x := range xs {
		if x != 0 {
			tst.Errorf("element %d not zero-filled: %v", i, x)
		}
	}
	xs[0] = 1
	xs[1] = 2
	if xs[0] != 1 || xs[1] != 2 {
		tst.Errorf("pushed slice does not alias arena memory")
	}
}

func Test_pool_alloc_free(tst *testing.T) {

	chk.PrintTitle("pool_alloc_free")

	a := NewSized(4096)
	p := NewPool[int](a, 4)

	var idxs []int
	for i := 0; i < 4; i++ {
		_, idx, ok := p.Alloc()
		if !ok {
			tst.Errorf("alloc %d should have succeeded", i)
		}
		idxs = append(idxs, idx)
	}

	if _, _, ok := p.Alloc(); ok {
		tst.Errorf("pool should be exhausted")
	}

	p.Free(idxs[0])
	ptr, idx, ok := p.Alloc()
	if !ok || idx != idxs[0] {
		tst.Errorf("expected freed index %d to be reused, got %d (ok=%v)", idxs[0], idx, ok)
	}
	*ptr = 42
	if *p.At(idxs[0]) != 42 {
		tst.Errorf("pool slab not aliased correctly")
	}
}

func Test_pool_double_free_panics(tst *testing.T) {

	chk.PrintTitle("pool_double_free_panics")

	defer func() {
		if r := recover(); r == nil {
			tst.Errorf("expected panic on double-free")
		}
	}()

	a := NewSized(256)
	p := NewPool[int](a, 2)
	_, idx, _ := p.Alloc()
	p.Free(idx)
	p.Free(idx)
}
