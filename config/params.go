// Copyright 2026 The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config resolves the tunable numeric knobs named throughout
// spec.md (solver iteration count, Baumgarte coefficients, sleep
// thresholds, spatial-hash sizing, EWC λ bounds) from a fun.Prms-style
// parameter list, the way msolid.Driver.Init resolves a model's constants
// from []*fun.Prm. Params is resolved once, at create_world/init_network/
// init_ewc time, and never re-read per step.
package config

import (
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/utl"
)

// Params holds every tunable named in spec.md §4, defaulted to the values
// the spec gives in prose ("default 10", "β ≈ 0.2", "slop ≈ 1 cm", ...).
type Params struct {
	SolverIterations int     // §4.I: sequential-impulse iteration count, default 10
	BaumgarteBeta    float64 // §4.I: penetration bias coefficient, default 0.2
	Slop             float64 // §4.I: penetration slop, default 0.01 m
	RestitutionSpeed float64 // §4.I: minimum inbound speed for a restitution bias, default 1 m/s

	SleepLinThreshold float64 // §4.J: linear speed below which a body may sleep
	SleepAngThreshold float64 // §4.J: angular speed below which a body may sleep
	SleepTime         float64 // §4.J: seconds under both thresholds before sleeping, default 1

	FixedStep float64 // §4.J: accumulator step size, default 1/60

	GridCellSize float64 // §4.G: spatial hash cell edge length
	GridBuckets  uint32  // §4.G: G in h(ix,iy,iz) mod G
	GridPrime1   uint32  // §4.G: p1
	GridPrime2   uint32  // §4.G: p2
	GridPrime3   uint32  // §4.G: p3

	MaxPairsPerStep        int // §7: broad-phase pair table capacity
	MaxManifoldsPerStep    int // §7: manifold table capacity
	MaxBodyListPerCell     int // §7: per-cell body list capacity
	MaxContactsPerManifold int // §4.H: manifold carries up to 4 points

	GJKMaxIterations int     // §4.H: GJK terminates after at most this many iterations
	EPATolerance     float64 // §4.H: EPA convergence tolerance, default 1e-4

	LambdaMin, LambdaMax, LambdaMargin, LambdaFactor float64 // §4.E / §9 open question
}

// Default returns the parameter set spec.md's prose describes, the
// starting point every create_world/init_network/init_ewc caller gets
// unless it supplies an explicit override list via FromPrms.
func Default() Params {
	return Params{
		SolverIterations: 10,
		BaumgarteBeta:    0.2,
		Slop:             0.01,
		RestitutionSpeed: 1.0,

		SleepLinThreshold: 0.05,
		SleepAngThreshold: 0.05,
		SleepTime:         1.0,

		FixedStep: 1.0 / 60.0,

		GridCellSize: 2.0,
		GridBuckets:  1 << 10,
		GridPrime1:   73856093,
		GridPrime2:   19349663,
		GridPrime3:   83492791,

		MaxPairsPerStep:        512,
		MaxManifoldsPerStep:    256,
		MaxBodyListPerCell:     16,
		MaxContactsPerManifold: 4,

		GJKMaxIterations: 32,
		EPATolerance:     1e-4,

		LambdaMin:    0.1,
		LambdaMax:    100.0,
		LambdaMargin: 0.01,
		LambdaFactor: 1.1,
	}
}

// FromPrms overrides Default() with any name the caller supplies, in the
// same style as msolid model Init methods: unknown names are ignored
// rather than rejected, since a caller may pass one shared list across
// several subsystems' config.FromPrms calls.
func FromPrms(prms fun.Prms) Params {
	p := Default()
	for _, prm := range prms {
		switch prm.N {
		case "solverIterations":
			p.SolverIterations = utl.Imax(1, int(prm.V))
		case "baumgarteBeta":
			p.BaumgarteBeta = prm.V
		case "slop":
			p.Slop = prm.V
		case "restitutionSpeed":
			p.RestitutionSpeed = prm.V
		case "sleepLinThreshold":
			p.SleepLinThreshold = prm.V
		case "sleepAngThreshold":
			p.SleepAngThreshold = prm.V
		case "sleepTime":
			p.SleepTime = prm.V
		case "fixedStep":
			p.FixedStep = prm.V
		case "gridCellSize":
			p.GridCellSize = prm.V
		case "gridBuckets":
			p.GridBuckets = uint32(prm.V)
		case "maxPairsPerStep":
			p.MaxPairsPerStep = utl.Imax(1, int(prm.V))
		case "maxManifoldsPerStep":
			p.MaxManifoldsPerStep = utl.Imax(1, int(prm.V))
		case "maxBodyListPerCell":
			p.MaxBodyListPerCell = utl.Imax(1, int(prm.V))
		case "gjkMaxIterations":
			p.GJKMaxIterations = int(prm.V)
		case "epaTolerance":
			p.EPATolerance = prm.V
		case "lambdaMin":
			p.LambdaMin = prm.V
		case "lambdaMax":
			p.LambdaMax = prm.V
		case "lambdaMargin":
			p.LambdaMargin = prm.V
		case "lambdaFactor":
			p.LambdaFactor = prm.V
		}
	}
	return p
}
