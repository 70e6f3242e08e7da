// Copyright 2026 The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package diag is the module's opt-in tracing convention (used by the
// world package): colored progress/warning output via gosl/io, gated by a
// caller-owned Verbose flag, the same split msolid.Driver keeps between
// Silent/VerD and its io.Pf/io.Pfred calls.
package diag

import (
	"log"

	"github.com/cpmech/gosl/io"
)

// Logger wraps a Verbose flag; World holds one rather than reading a
// package-level global, so verbosity is per-owner like
// everything else in this module.
type Logger struct {
	Verbose bool
	prefix  string
}

// New returns a Logger tagged with prefix (e.g. "world", "ewc") for its
// trace lines.
func New(prefix string) Logger {
	return Logger{prefix: prefix}
}

// Tracef prints a progress line only when Verbose is set.
func (l Logger) Tracef(format string, args ...interface{}) {
	if !l.Verbose {
		return
	}
	io.Pf("[%s] "+format, append([]interface{}{l.prefix}, args...)...)
}

// Warnf always prints, in yellow, regardless of Verbose.
func (l Logger) Warnf(format string, args ...interface{}) {
	io.Pfyel("[%s] "+format, append([]interface{}{l.prefix}, args...)...)
}

// Fatalf logs via the standard library logger then terminates the
// process. Reserved for the handful of paths that precede an unrecoverable
// condition outside the chk.Panic taxonomy (e.g. a corrupt persisted
// record discovered at process startup, before any World/Network exists
// to panic through).
func (l Logger) Fatalf(format string, args ...interface{}) {
	log.Fatalf("["+l.prefix+"] "+format, args...)
}
