// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package scene

import (
	"github.com/gviegas/road/anim"
	"github.com/gviegas/road/linear"
	"github.com/gviegas/road/node"
)

// Object is a positioned entity in a Scene.
// It may hold a Geometry, a Camera and a looping
// animation. The zero value is not valid; use NewObject.
type Object struct {
	Name     string
	Geometry *Geometry
	Camera   *Camera

	pos     linear.V3
	euler   linear.V3
	offset  linear.V3
	loop    *anim.Loop
	local   linear.M4
	changed bool

	scene *Scene
	node  node.Node
}

// NewObject creates an object at the origin.
func NewObject(name string) *Object {
	o := &Object{Name: name, changed: true}
	o.local.I()
	return o
}

// SetPosition sets the base position of o.
func (o *Object) SetPosition(p linear.V3) {
	o.pos = p
	o.changed = true
}

// Position returns the base position of o.
// It does not include animation.
func (o *Object) Position() linear.V3 { return o.pos }

// Current returns the position of o as of the last
// Scene.Update, animation included.
func (o *Object) Current() (p linear.V3) {
	p.Add(&o.pos, &o.offset)
	return
}

// SetEuler sets the orientation of o as Euler angles
// (pitch, yaw and roll, in radians).
func (o *Object) SetEuler(e linear.V3) {
	o.euler = e
	o.changed = true
}

// Euler returns the orientation of o.
func (o *Object) Euler() linear.V3 { return o.euler }

// Rotation returns the orientation of o as a quaternion.
func (o *Object) Rotation() (q linear.Q) {
	q.Euler(&o.euler)
	return
}

// SetLoop attaches a looping animation to o.
// A nil l detaches it.
func (o *Object) SetLoop(l *anim.Loop) {
	o.loop = l
	o.offset = linear.V3{}
	o.changed = true
}

// Loop returns the animation attached to o, if any.
func (o *Object) Loop() *anim.Loop { return o.loop }

// animate sets the animation offset of o.
func (o *Object) animate(v linear.V3) {
	if v != o.offset {
		o.offset = v
		o.changed = true
	}
}

// Local implements node.Interface.
func (o *Object) Local() *linear.M4 {
	if o.changed {
		var t, r linear.M4
		p := o.Current()
		t.Translate(p[0], p[1], p[2])
		q := o.Rotation()
		r.Rotate(&q)
		o.local.Mul(&t, &r)
		o.changed = false
	}
	return &o.local
}

// Changed implements node.Interface.
func (o *Object) Changed() bool { return o.changed }

// Scene returns the scene that contains o.
// It returns nil if o has not been inserted.
func (o *Object) Scene() *Scene { return o.scene }

// Parent returns the immediate ancestor of o.
// It returns nil for the scene's root and for objects
// not in a scene.
func (o *Object) Parent() *Object {
	if o.scene == nil {
		return nil
	}
	p := o.scene.graph.Parent(o.node)
	if p == node.Nil {
		return nil
	}
	return o.scene.graph.Get(p).(*Object)
}

// World returns the world transform of o as computed
// by the last Scene.Update.
// It returns nil if o has not been inserted.
func (o *Object) World() *linear.M4 {
	if o.scene == nil {
		return nil
	}
	return o.scene.graph.World(o.node)
}
