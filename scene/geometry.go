// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package scene

import (
	"github.com/gviegas/road/linear"
)

// Material defines the surface of a Geometry.
// Color is linear RGBA. A transparent material is not
// drawn at all, regardless of Color.
type Material struct {
	Color       [4]float32
	Transparent bool
}

// Common materials.
var (
	Black = Material{Color: [4]float32{0, 0, 0, 1}}
	White = Material{Color: [4]float32{1, 1, 1, 1}}
	Clear = Material{Transparent: true}
)

// Shape describes the form of a Geometry.
// It is implemented by Box and Floor.
type Shape interface {
	// Bounds returns the local-space bounding box.
	// Infinite shapes report an empty box.
	Bounds() (min, max linear.V3)
}

// Box is a rectangular cuboid centered at the origin.
// Width is along x, Height along y and Length along z.
type Box struct {
	Width   float32
	Height  float32
	Length  float32
	Chamfer float32
}

// Bounds implements Shape.
func (b Box) Bounds() (min, max linear.V3) {
	max = linear.V3{b.Width / 2, b.Height / 2, b.Length / 2}
	min.Scale(-1, &max)
	return
}

// Corners returns the eight corners of b.
// Bit 0 of the index selects +x, bit 1 +y and bit 2 +z.
func (b Box) Corners() (c [8]linear.V3) {
	lo, hi := b.Bounds()
	for i := range c {
		for j := 0; j < 3; j++ {
			if i&(1<<j) != 0 {
				c[i][j] = hi[j]
			} else {
				c[i][j] = lo[j]
			}
		}
	}
	return
}

// Face is a quad of a Box.
// Corners index the result of Box.Corners and are in
// counter-clockwise order when seen from outside.
type Face struct {
	Corners [4]int
	Normal  linear.V3
}

// BoxFaces lists the six faces of a Box.
var BoxFaces = [6]Face{
	{[4]int{0, 4, 6, 2}, linear.V3{-1, 0, 0}},
	{[4]int{1, 3, 7, 5}, linear.V3{1, 0, 0}},
	{[4]int{0, 1, 5, 4}, linear.V3{0, -1, 0}},
	{[4]int{2, 6, 7, 3}, linear.V3{0, 1, 0}},
	{[4]int{0, 2, 3, 1}, linear.V3{0, 0, -1}},
	{[4]int{4, 5, 7, 6}, linear.V3{0, 0, 1}},
}

// Floor is an infinite plane at y = 0 facing +y.
// Reflectivity is in the range [0, 1].
type Floor struct {
	Reflectivity float32
}

// Bounds implements Shape.
func (Floor) Bounds() (min, max linear.V3) { return }

// Geometry is a Shape with a Material.
type Geometry struct {
	Shape    Shape
	Material Material
}

// Camera defines a perspective camera.
// The camera looks down its local -z axis.
type Camera struct {
	// Aperture as the reciprocal of the f-number.
	Aperture float32
	// Vertical field of view in radians.
	YFov  float32
	ZNear float32
	ZFar  float32
}

// DefaultCamera returns a Camera with a 60 degree
// field of view and a [1, 100] depth range.
func DefaultCamera() Camera {
	return Camera{
		Aperture: 1.0 / 8,
		YFov:     1.0471976,
		ZNear:    1,
		ZFar:     100,
	}
}
