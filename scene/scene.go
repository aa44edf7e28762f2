// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package scene provides functionality for creating and
// updating scene graphs.
package scene

import (
	"errors"
	"time"

	"github.com/gviegas/road/node"
)

const prefix = "scene: "

func newErr(reason string) error { return errors.New(prefix + reason) }

var (
	errInserted    = newErr("object already in a scene")
	errNotInserted = newErr("object not in this scene")
	errRoot        = newErr("cannot remove the root")
	errNoCamera    = newErr("object has no camera")
)

// Display holds flags a renderer honours when presenting
// the scene.
type Display struct {
	// Show frame statistics.
	ShowStats bool
	// Let the viewer move the camera.
	AllowCameraControl bool
	// Advance animations.
	Playing bool
	// Light the scene from the point of view when
	// it has no lights of its own.
	DefaultLighting bool
}

// Scene defines a scene graph.
// Every object is a descendant of Root.
type Scene struct {
	Display Display

	graph node.Graph
	root  *Object
	pov   *Object
	time  time.Duration
}

// New creates an initialized scene.
func New() *Scene { return new(Scene).Init() }

// Init initializes a scene.
func (s *Scene) Init() *Scene {
	*s = Scene{}
	s.root = NewObject("root")
	s.root.scene = s
	s.root.node = s.graph.Insert(s.root, node.Nil)
	return s
}

// Root returns the root object.
func (s *Scene) Root() *Object { return s.root }

// Len returns the number of objects in s, the root
// included.
func (s *Scene) Len() int { return s.graph.Len() }

// Insert inserts obj as immediate descendant of parent.
// If parent is nil, obj is inserted under the root.
// The first object holding a Camera becomes the point
// of view.
func (s *Scene) Insert(obj, parent *Object) error {
	if obj.scene != nil {
		return errInserted
	}
	if parent == nil {
		parent = s.root
	} else if parent.scene != s {
		return errNotInserted
	}
	obj.scene = s
	obj.changed = true
	obj.node = s.graph.Insert(obj, parent.node)
	if s.pov == nil && obj.Camera != nil {
		s.pov = obj
	}
	return nil
}

// Remove removes obj and its descendants from s.
func (s *Scene) Remove(obj *Object) error {
	switch {
	case obj == s.root:
		return errRoot
	case obj.scene != s:
		return errNotInserted
	}
	s.graph.ForEach(obj.node, func(n node.Node) bool {
		s.graph.Get(n).(*Object).detach()
		return true
	})
	s.graph.Remove(obj.node)
	obj.detach()
	return nil
}

func (o *Object) detach() {
	if s := o.scene; s != nil && s.pov == o {
		s.pov = nil
	}
	o.scene = nil
	o.node = node.Nil
}

// PointOfView returns the camera object the scene is
// viewed from, or nil if there is none.
func (s *Scene) PointOfView() *Object { return s.pov }

// SetPointOfView sets the camera object the scene is
// viewed from.
func (s *Scene) SetPointOfView(obj *Object) error {
	switch {
	case obj.scene != s:
		return errNotInserted
	case obj.Camera == nil:
		return errNoCamera
	}
	s.pov = obj
	return nil
}

// ForEach calls f for every object other than the root,
// depth-first and in insertion order.
// Traversal stops when f returns false.
func (s *Scene) ForEach(f func(*Object) bool) {
	s.graph.ForEach(s.root.node, func(n node.Node) bool {
		return f(s.graph.Get(n).(*Object))
	})
}

// Find returns the first object named name, or nil.
func (s *Scene) Find(name string) (obj *Object) {
	s.ForEach(func(o *Object) bool {
		if o.Name == name {
			obj = o
			return false
		}
		return true
	})
	return
}

// Update sets the scene time to t, evaluates every
// animation at that time and recomputes world transforms.
// When s.Display.Playing is false, animations are held at
// their initial offset.
func (s *Scene) Update(t time.Duration) {
	s.time = t
	s.ForEach(func(o *Object) bool {
		if o.loop != nil {
			if s.Display.Playing {
				o.animate(o.loop.Offset(t))
			} else {
				o.animate(o.loop.Offset(0))
			}
		}
		return true
	})
	s.graph.Update()
}

// Time returns the time of the last Update.
func (s *Scene) Time() time.Duration { return s.time }
