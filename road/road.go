// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package road builds a scene of a road whose lane
// markings scroll towards the viewer indefinitely.
package road

import (
	"strconv"

	"github.com/gviegas/road/anim"
	"github.com/gviegas/road/linear"
	"github.com/gviegas/road/scene"
)

// Names of the objects created by New.
const (
	CameraName = "camera"
	GroundName = "ground"
	LanePrefix = "lane"
)

// LaneName returns the name of lane segment i.
func LaneName(i int) string { return LanePrefix + strconv.Itoa(i) }

// Build creates the road scene using the default
// configuration.
func Build() *scene.Scene {
	config := DefaultConfig()
	s, err := New(&config)
	if err != nil {
		// Should never happen.
		panic(err)
	}
	return s
}

// New creates the road scene described by config.
func New(config *Config) (*scene.Scene, error) {
	if err := config.check(); err != nil {
		return nil, err
	}
	s := createScene()
	for _, f := range [...]func(*scene.Scene, *Config) error{
		createCamera,
		createGround,
		createScenario,
	} {
		if err := f(s, config); err != nil {
			return nil, err
		}
	}
	s.Update(0)
	return s, nil
}

// Transparent returns whether lane segment i is a gap
// in the default pattern.
func Transparent(i int) bool {
	config := DefaultConfig()
	return config.transparent(i)
}

func createScene() *scene.Scene {
	s := scene.New()
	s.Display = scene.Display{
		ShowStats:          true,
		AllowCameraControl: true,
		Playing:            true,
		DefaultLighting:    true,
	}
	return s
}

func createCamera(s *scene.Scene, config *Config) error {
	cam := scene.DefaultCamera()
	cam.Aperture = config.Aperture
	obj := scene.NewObject(CameraName)
	obj.Camera = &cam
	obj.SetPosition(config.CameraPosition)
	obj.SetEuler(config.CameraEuler)
	return s.Insert(obj, nil)
}

func createGround(s *scene.Scene, config *Config) error {
	obj := scene.NewObject(GroundName)
	obj.Geometry = &scene.Geometry{
		Shape:    scene.Floor{Reflectivity: config.Reflectivity},
		Material: scene.White,
	}
	return s.Insert(obj, nil)
}

func createScenario(s *scene.Scene, config *Config) error {
	box := scene.Box{
		Width:  config.LaneWidth,
		Height: config.LaneHeight,
		Length: config.LaneLength,
	}
	loop := anim.Repeat(
		anim.MoveBy(0, 0, config.Advance, config.StepDuration),
		anim.MoveBy(0, 0, -config.Advance, 0),
	)
	for i := config.First; i <= config.Last; i++ {
		mat := scene.Black
		if config.transparent(i) {
			mat = scene.Clear
		}
		obj := scene.NewObject(LaneName(i))
		obj.Geometry = &scene.Geometry{Shape: box, Material: mat}
		obj.SetPosition(linear.V3{0, 0, -float32(i)})
		obj.SetLoop(loop)
		if err := s.Insert(obj, nil); err != nil {
			return err
		}
	}
	return nil
}

// Lanes returns the lane segments of s in creation order.
func Lanes(s *scene.Scene) (lanes []*scene.Object) {
	s.ForEach(func(o *scene.Object) bool {
		if o.Loop() != nil && o.Geometry != nil {
			if _, ok := o.Geometry.Shape.(scene.Box); ok {
				lanes = append(lanes, o)
			}
		}
		return true
	})
	return
}
