// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package render presents scenes.
package render

import (
	"context"
	"errors"
	"time"

	"github.com/gviegas/road/scene"
)

// ErrNoCamera means that the scene has no point of view.
var ErrNoCamera = errors.New("render: scene has no point of view")

// Stats describes a rendered frame.
type Stats struct {
	// Objects in the scene, root excluded.
	Objects int
	// Faces drawn, reflections included.
	Faces int
	// Faces discarded by culling.
	Culled int
	// Time spent rendering.
	Elapsed time.Duration
}

// Renderer is the interface that renders a scene.
//
// Render advances s to time t (see scene.Scene.Update)
// and draws it from s.PointOfView().
// It is the only place where scene time moves forward.
type Renderer interface {
	Render(ctx context.Context, s *scene.Scene, t time.Duration) (Stats, error)
}
