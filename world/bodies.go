// Copyright 2026 The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package world

import (
	"github.com/coldiron/substrate/body"
	"github.com/coldiron/substrate/vecmath"
)

// CreateBody, DestroyBody, and the rest below are thin pass-throughs to
// the world's body.Set (spec.md §6 "Bodies"), kept on World rather than
// exposing Bodies' methods directly so a host only ever imports the
// world package for the physics surface.

func (w *World) CreateBody(position vecmath.V3, orientation vecmath.Quat) (int, bool) {
	return w.Bodies.Create(position, orientation)
}

func (w *World) DestroyBody(id int) { w.Bodies.Destroy(id) }

func (w *World) SetShape(id int, shape body.Shape) { w.Bodies.SetShape(id, shape) }

func (w *World) SetMaterial(id int, mat body.Material) { w.Bodies.SetMaterial(id, mat) }

func (w *World) SetTransform(id int, position vecmath.V3, orientation vecmath.Quat) {
	w.Bodies.SetTransform(id, position, orientation)
}

func (w *World) SetVelocity(id int, lin, ang vecmath.V3) { w.Bodies.SetVelocity(id, lin, ang) }

func (w *World) ApplyForce(id int, f, point vecmath.V3) { w.Bodies.ApplyForce(id, f, point) }

func (w *World) ApplyImpulse(id int, j, point vecmath.V3) { w.Bodies.ApplyImpulse(id, j, point) }

func (w *World) GetBody(id int) body.View { return w.Bodies.Get(id) }

func (w *World) IsStatic(id int) bool { return w.Bodies.IsStatic(id) }

func (w *World) IsSleeping(id int) bool { return w.Bodies.IsSleeping(id) }

func (w *World) SetStatic(id int, static bool) { w.Bodies.SetStatic(id, static) }
