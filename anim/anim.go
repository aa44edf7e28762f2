// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package anim implements looping translation sequences.
//
// A Loop is evaluated as a function of elapsed time rather
// than by accumulating moves, so a position driven by a
// Loop stays bounded no matter how long it runs.
package anim

import (
	"time"

	"github.com/gviegas/road/linear"
)

// Step is a linear translation by Delta over Duration.
// A zero Duration makes the translation instantaneous.
type Step struct {
	Delta    linear.V3
	Duration time.Duration
}

// MoveBy creates a Step.
func MoveBy(x, y, z float32, d time.Duration) Step {
	return Step{Delta: linear.V3{x, y, z}, Duration: max(0, d)}
}

// Loop is a sequence of steps repeated forever.
type Loop struct {
	steps  []Step
	period time.Duration
}

// Repeat creates a Loop from the given steps.
func Repeat(steps ...Step) *Loop {
	l := &Loop{steps: append([]Step(nil), steps...)}
	for _, s := range l.steps {
		l.period += s.Duration
	}
	return l
}

// Steps returns a copy of the loop's steps.
func (l *Loop) Steps() []Step { return append([]Step(nil), l.steps...) }

// Period returns the duration of one full cycle.
func (l *Loop) Period() time.Duration { return l.period }

// Net returns the displacement of one full cycle.
func (l *Loop) Net() (v linear.V3) {
	for i := range l.steps {
		v.Add(&v, &l.steps[i].Delta)
	}
	return
}

// Offset returns the displacement at time t.
// Time is taken modulo the period, so the result repeats
// every cycle. Instantaneous steps take effect at their
// start instant, which means a cycle ending with a reset
// jumps back to the cycle's initial offset.
// Negative times are treated as zero.
// A loop with a zero period always returns its net
// displacement.
func (l *Loop) Offset(t time.Duration) (v linear.V3) {
	if l.period <= 0 {
		return l.Net()
	}
	t = max(0, t) % l.period
	for i := range l.steps {
		s := &l.steps[i]
		if t < s.Duration {
			var w linear.V3
			w.Scale(float32(float64(t)/float64(s.Duration)), &s.Delta)
			v.Add(&v, &w)
			return
		}
		t -= s.Duration
		v.Add(&v, &s.Delta)
	}
	return
}
