// Copyright 2026 The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package arena implements the linear bump allocator and fixed-block pool
// that every other package in this module builds on. Nothing in the hot
// simulation/inference path calls the Go allocator: callers reserve a byte
// region once up front, via New, and every subsequent Push/PushSlice just
// advances a high-water mark inside that region.
package arena

import (
	"unsafe"

	"github.com/cpmech/gosl/chk"
)

// Arena is a contiguous byte region with a bump-pointer allocator and
// nestable scopes. It owns no memory beyond the slice passed to New: the
// one true allocation happens at construction, never afterwards.
type Arena struct {
	buf   []byte
	used  int
	scope []int // stack of 'used' marks recorded by BeginScope
	name  string
}

// Scope is an opaque token returned by BeginScope; it must be passed back
// to EndScope, and scopes must close in LIFO order.
type Scope struct {
	mark  int
	depth int
}

// New wraps buf as an arena. The caller owns buf's lifetime; the arena
// never grows or reallocates it.
func New(buf []byte) *Arena {
	return &Arena{buf: buf}
}

// NewSized allocates a single byte slice of the given size and wraps it.
// This is the one heap allocation the arena ever performs; every Push
// afterwards is a pointer bump into that slice.
func NewSized(size int) *Arena {
	return New(make([]byte, size))
}

// Named attaches a label used only in panic/diagnostic messages.
func (a *Arena) Named(name string) *Arena {
	a.name = name
	return a
}

// Capacity returns the total number of bytes the arena owns.
func (a *Arena) Capacity() int { return len(a.buf) }

// Used returns the current high-water mark.
func (a *Arena) Used() int { return a.used }

// HighWater reports the current high-water mark (Used) as a fraction of
// capacity, for profiling and capacity-planning diagnostics (SPEC_FULL.md,
// "Arena/Pool diagnostics"). EndScope and Reset rewind the mark, so this
// is the usage at the time of the call, not the peak reached so far. It
// never allocates and never mutates state.
func (a *Arena) HighWater() float64 {
	if len(a.buf) == 0 {
		return 0
	}
	return float64(a.used) / float64(len(a.buf))
}

func alignUp(x, align int) int {
	if align <= 1 {
		return x
	}
	return (x + align - 1) &^ (align - 1)
}

// push reserves size bytes aligned to align, zero-fills them, and returns
// the slice. It aborts (invariant violation) if capacity would be
// exceeded: the arena never allocates lazily or falls back to the heap.
func (a *Arena) push(size, align int) []byte {
	if size == 0 {
		return nil
	}
	start := alignUp(a.used, align)
	end := start + size
	if end > len(a.buf) {
		chk.Panic("arena %q: out of memory: requested %d bytes at offset %d, capacity %d\n", a.name, size, start, len(a.buf))
	}
	out := a.buf[start:end]
	for i := range out {
		out[i] = 0
	}
	a.used = end
	return out
}

// Push reserves a raw zero-filled byte region of the given size and
// alignment.
func (a *Arena) Push(size, align int) []byte {
	return a.push(size, align)
}

// PushSlice reserves n elements of T, aligned to T's natural alignment,
// zero-initialized, as a contiguous slice backed by arena memory. This is
// the primary entry point used to stand up the Structure-of-Arrays
// buffers every component (bodies, layers, LSTM pools, Fisher entries)
// allocates at construction time.
func PushSlice[T any](a *Arena, n int) []T {
	if n == 0 {
		return nil
	}
	var zero T
	size := int(unsafe.Sizeof(zero))
	align := int(unsafe.Alignof(zero))
	raw := a.push(size*n, align)
	return unsafe.Slice((*T)(unsafe.Pointer(&raw[0])), n)
}

// PushOne reserves a single zero-valued T and returns a pointer into arena
// memory.
func PushOne[T any](a *Arena) *T {
	s := PushSlice[T](a, 1)
	return &s[0]
}

// BeginScope records the current high-water mark so it can later be
// restored by EndScope. Scopes nest like stack frames: the most recently
// opened scope must be the next one closed.
func (a *Arena) BeginScope() Scope {
	a.scope = append(a.scope, a.used)
	return Scope{mark: a.used, depth: len(a.scope)}
}

// EndScope restores the arena's high-water mark to what it was when s was
// opened. Closing anything but the top-of-stack scope is a fatal
// invariant violation: scopes are LIFO, not a free-form set.
func (a *Arena) EndScope(s Scope) {
	if len(a.scope) == 0 || s.depth != len(a.scope) {
		chk.Panic("arena %q: non-LIFO scope close: expected depth %d, got %d\n", a.name, len(a.scope), s.depth)
	}
	top := a.scope[len(a.scope)-1]
	if top != s.mark {
		chk.Panic("arena %q: scope mark mismatch: opened at %d, stack has %d\n", a.name, s.mark, top)
	}
	a.scope = a.scope[:len(a.scope)-1]
	a.used = s.mark
}

// Reset discards all outstanding scopes and rewinds used to zero. Intended
// for world/network teardown, not for use mid-step.
func (a *Arena) Reset() {
	a.scope = a.scope[:0]
	a.used = 0
}
