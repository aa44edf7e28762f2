// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package road

import (
	"errors"
	"time"

	"github.com/gviegas/road/linear"
)

const (
	dflFirst        = 20
	dflLast         = 70
	dflPeriod       = 5
	dflGap          = 2
	dflLaneWidth    = 0.2
	dflLaneHeight   = 0.1
	dflLaneLength   = 1
	dflAdvance      = 5
	dflStepDuration = 300 * time.Millisecond
	dflAperture     = 1.0 / 2
	dflReflectivity = 0.5
)

// Config is used to configure the road.
type Config struct {
	// Index of the nearest lane segment.
	// Segment i is placed at z = -i.
	//
	// Default is 20.
	First int

	// Index of the farthest lane segment.
	//
	// Default is 70.
	Last int

	// Segments repeat a painted/gap pattern every
	// Period indices; the first Gap of each period
	// are left unpainted.
	//
	// Defaults are 5 and 2.
	Period int
	Gap    int

	// Dimensions of each segment.
	//
	// Defaults are 0.2, 0.1 and 1.
	LaneWidth  float32
	LaneHeight float32
	LaneLength float32

	// Distance travelled towards the viewer by each
	// segment before it resets.
	//
	// Default is 5.
	Advance float32

	// Time it takes a segment to travel Advance.
	//
	// Default is 300ms.
	StepDuration time.Duration

	// Placement of the camera.
	//
	// Defaults are (0, 25, -18) and (-1, 0, 0).
	CameraPosition linear.V3
	CameraEuler    linear.V3

	// Camera aperture (reciprocal of the f-number).
	//
	// Default is 0.5.
	Aperture float32

	// Reflectivity of the ground.
	//
	// Default is 0.5.
	Reflectivity float32
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		First:          dflFirst,
		Last:           dflLast,
		Period:         dflPeriod,
		Gap:            dflGap,
		LaneWidth:      dflLaneWidth,
		LaneHeight:     dflLaneHeight,
		LaneLength:     dflLaneLength,
		Advance:        dflAdvance,
		StepDuration:   dflStepDuration,
		CameraPosition: linear.V3{0, 25, -18},
		CameraEuler:    linear.V3{-1, 0, 0},
		Aperture:       dflAperture,
		Reflectivity:   dflReflectivity,
	}
}

func newErr(reason string) error { return errors.New("road: " + reason) }

// check checks that c is a valid configuration.
func (c *Config) check() error {
	switch {
	case c.Last < c.First:
		return newErr("Config.Last less than Config.First")
	case c.Period < 1:
		return newErr("Config.Period less than 1")
	case c.Gap < 0 || c.Gap > c.Period:
		return newErr("Config.Gap out of range")
	case c.LaneWidth <= 0 || c.LaneHeight <= 0 || c.LaneLength <= 0:
		return newErr("non-positive lane dimensions")
	case c.StepDuration < 0:
		return newErr("negative Config.StepDuration")
	case c.Aperture <= 0:
		return newErr("non-positive Config.Aperture")
	case c.Reflectivity < 0 || c.Reflectivity > 1:
		return newErr("Config.Reflectivity out of range")
	}
	return nil
}

// transparent returns whether segment i is a gap.
func (c *Config) transparent(i int) bool {
	m := i % c.Period
	if m < 0 {
		m += c.Period
	}
	return m < c.Gap
}
