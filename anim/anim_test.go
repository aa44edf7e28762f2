// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package anim

import (
	"math"
	"testing"
	"time"

	"github.com/gviegas/road/linear"
)

func road() *Loop {
	return Repeat(
		MoveBy(0, 0, 5, 300*time.Millisecond),
		MoveBy(0, 0, -5, 0),
	)
}

func TestLoop(t *testing.T) {
	l := road()
	if p := l.Period(); p != 300*time.Millisecond {
		t.Fatalf("Loop.Period:\nhave %v\nwant 300ms", p)
	}
	if n := l.Net(); n != (linear.V3{}) {
		t.Fatalf("Loop.Net:\nhave %v\nwant [0 0 0]", n)
	}
	if n := len(l.Steps()); n != 2 {
		t.Fatalf("Loop.Steps: len\nhave %d\nwant 2", n)
	}
	for _, x := range [...]struct {
		t time.Duration
		z float32
	}{
		{0, 0},
		{-time.Second, 0},
		{150 * time.Millisecond, 2.5},
		{300 * time.Millisecond, 0},
		{450 * time.Millisecond, 2.5},
		{60 * time.Millisecond, 1},
		{time.Hour + 150*time.Millisecond, 2.5},
	} {
		o := l.Offset(x.t)
		if o[0] != 0 || o[1] != 0 || math.Abs(float64(o[2]-x.z)) > 1e-5 {
			t.Fatalf("Loop.Offset(%v):\nhave %v\nwant [0 0 %v]", x.t, o, x.z)
		}
	}
}

func TestLoopBounded(t *testing.T) {
	l := road()
	for d := time.Duration(0); d < 10*time.Second; d += 7 * time.Millisecond {
		if z := l.Offset(d)[2]; z < 0 || z >= 5 {
			t.Fatalf("Loop.Offset(%v):\nhave z=%v\nwant 0 <= z < 5", d, z)
		}
	}
}

func TestLoopZeroPeriod(t *testing.T) {
	l := Repeat(MoveBy(1, 0, 0, 0), MoveBy(0, 2, 0, -time.Second))
	if p := l.Period(); p != 0 {
		t.Fatalf("Loop.Period:\nhave %v\nwant 0", p)
	}
	if o := l.Offset(time.Second); o != (linear.V3{1, 2, 0}) {
		t.Fatalf("Loop.Offset:\nhave %v\nwant [1 2 0]", o)
	}
	if o := Repeat().Offset(time.Second); o != (linear.V3{}) {
		t.Fatalf("Repeat().Offset:\nhave %v\nwant [0 0 0]", o)
	}
}
