// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package scene

import (
	"math"
	"testing"
	"time"

	"github.com/gviegas/road/anim"
	"github.com/gviegas/road/linear"
)

func TestNew(t *testing.T) {
	s := New()
	if n := s.Len(); n != 1 {
		t.Fatalf("New().Len:\nhave %d\nwant 1", n)
	}
	if r := s.Root(); r == nil || r.Parent() != nil || r.Scene() != s {
		t.Fatal("New().Root: root must have no parent and belong to the scene")
	}
	if s.PointOfView() != nil {
		t.Fatal("New().PointOfView: want nil")
	}
	if s.Display != (Display{}) {
		t.Fatalf("New().Display:\nhave %+v\nwant zero", s.Display)
	}
}

func TestInsertRemove(t *testing.T) {
	s := New()
	a := NewObject("a")
	b := NewObject("b")
	cam := NewObject("cam")
	cam.Camera = &Camera{Aperture: 0.5}

	if err := s.Insert(a, nil); err != nil {
		t.Fatalf("Scene.Insert failed:\n%#v", err)
	}
	if err := s.Insert(b, a); err != nil {
		t.Fatalf("Scene.Insert failed:\n%#v", err)
	}
	if err := s.Insert(cam, nil); err != nil {
		t.Fatalf("Scene.Insert failed:\n%#v", err)
	}
	if err := s.Insert(a, nil); err == nil {
		t.Fatal("Scene.Insert: expected error for object already inserted")
	}
	if err := s.Insert(NewObject("c"), NewObject("orphan")); err == nil {
		t.Fatal("Scene.Insert: expected error for parent not in scene")
	}
	if n := s.Len(); n != 4 {
		t.Fatalf("Scene.Len:\nhave %d\nwant 4", n)
	}
	if p := b.Parent(); p != a {
		t.Fatalf("Object.Parent:\nhave %v\nwant %v", p, a)
	}
	if p := a.Parent(); p != s.Root() {
		t.Fatalf("Object.Parent:\nhave %v\nwant root", p)
	}
	if s.PointOfView() != cam {
		t.Fatal("Scene.PointOfView: want the first camera object")
	}
	if s.Find("b") != b || s.Find("nope") != nil {
		t.Fatal("Scene.Find: unexpected result")
	}

	var names []string
	s.ForEach(func(o *Object) bool {
		names = append(names, o.Name)
		return true
	})
	if len(names) != 3 || names[0] != "a" || names[1] != "b" || names[2] != "cam" {
		t.Fatalf("Scene.ForEach:\nhave %v\nwant [a b cam]", names)
	}

	if err := s.Remove(s.Root()); err == nil {
		t.Fatal("Scene.Remove: expected error for root")
	}
	if err := s.Remove(a); err != nil {
		t.Fatalf("Scene.Remove failed:\n%#v", err)
	}
	if a.Scene() != nil || b.Scene() != nil {
		t.Fatal("Scene.Remove: removed objects must be detached")
	}
	if err := s.Remove(a); err == nil {
		t.Fatal("Scene.Remove: expected error for detached object")
	}
	if err := s.Remove(cam); err != nil {
		t.Fatalf("Scene.Remove failed:\n%#v", err)
	}
	if s.PointOfView() != nil {
		t.Fatal("Scene.Remove: point of view must be cleared")
	}
	if n := s.Len(); n != 1 {
		t.Fatalf("Scene.Len:\nhave %d\nwant 1", n)
	}
	if err := s.Insert(a, nil); err != nil {
		t.Fatalf("Scene.Insert (reinsert) failed:\n%#v", err)
	}
}

func TestSetPointOfView(t *testing.T) {
	s := New()
	a := NewObject("a")
	a.Camera = &Camera{Aperture: 0.5}
	b := NewObject("b")
	b.Camera = &Camera{Aperture: 0.25}
	plain := NewObject("plain")
	for _, o := range [...]*Object{a, b, plain} {
		if err := s.Insert(o, nil); err != nil {
			t.Fatalf("Scene.Insert failed:\n%#v", err)
		}
	}
	if pov := s.PointOfView(); pov != a {
		t.Fatalf("Scene.PointOfView:\nhave %v\nwant %v", pov, a)
	}
	if err := s.SetPointOfView(plain); err != errNoCamera {
		t.Fatalf("Scene.SetPointOfView: no camera\nhave %v\nwant %v", err, errNoCamera)
	}
	if err := s.SetPointOfView(NewObject("detached")); err != errNotInserted {
		t.Fatalf("Scene.SetPointOfView: detached\nhave %v\nwant %v", err, errNotInserted)
	}
	if pov := s.PointOfView(); pov != a {
		t.Fatalf("Scene.PointOfView after failed switch:\nhave %v\nwant %v", pov, a)
	}
	if err := s.SetPointOfView(b); err != nil {
		t.Fatalf("Scene.SetPointOfView failed:\n%#v", err)
	}
	if pov := s.PointOfView(); pov != b {
		t.Fatalf("Scene.PointOfView:\nhave %v\nwant %v", pov, b)
	}
}

func TestUpdate(t *testing.T) {
	s := New()
	s.Display.Playing = true
	lane := NewObject("lane")
	lane.SetPosition(linear.V3{0, 0, -21})
	lane.SetLoop(anim.Repeat(
		anim.MoveBy(0, 0, 5, 300*time.Millisecond),
		anim.MoveBy(0, 0, -5, 0),
	))
	if err := s.Insert(lane, nil); err != nil {
		t.Fatalf("Scene.Insert failed:\n%#v", err)
	}

	for _, x := range [...]struct {
		t time.Duration
		z float32
	}{
		{0, -21},
		{150 * time.Millisecond, -18.5},
		{300 * time.Millisecond, -21},
		{time.Minute + 150*time.Millisecond, -18.5},
	} {
		s.Update(x.t)
		if z := lane.Current()[2]; math.Abs(float64(z-x.z)) > 1e-4 {
			t.Fatalf("Object.Current at %v:\nhave %v\nwant %v", x.t, z, x.z)
		}
		if z := lane.World().Point(&linear.V3{})[2]; math.Abs(float64(z-x.z)) > 1e-4 {
			t.Fatalf("Object.World at %v:\nhave %v\nwant %v", x.t, z, x.z)
		}
		if p := lane.Position(); p != (linear.V3{0, 0, -21}) {
			t.Fatalf("Object.Position:\nhave %v\nwant [0 0 -21]", p)
		}
		if s.Time() != x.t {
			t.Fatalf("Scene.Time:\nhave %v\nwant %v", s.Time(), x.t)
		}
	}

	s.Display.Playing = false
	s.Update(150 * time.Millisecond)
	if z := lane.Current()[2]; z != -21 {
		t.Fatalf("Object.Current (paused):\nhave %v\nwant -21", z)
	}
}

func TestBox(t *testing.T) {
	b := Box{Width: 0.2, Height: 0.1, Length: 1}
	lo, hi := b.Bounds()
	if hi != (linear.V3{0.1, 0.05, 0.5}) || lo != (linear.V3{-0.1, -0.05, -0.5}) {
		t.Fatalf("Box.Bounds:\nhave %v %v", lo, hi)
	}
	c := b.Corners()
	if c[0] != lo || c[7] != hi {
		t.Fatalf("Box.Corners:\nhave %v", c)
	}
	if c[4] != (linear.V3{-0.1, -0.05, 0.5}) {
		t.Fatalf("Box.Corners[4]:\nhave %v\nwant [-0.1 -0.05 0.5]", c[4])
	}
	if lo, hi := (Floor{}).Bounds(); lo != hi {
		t.Fatal("Floor.Bounds: want an empty box")
	}
}
