// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

import (
	"math"
	"testing"
)

func near(a, b float32) bool { return math.Abs(float64(a-b)) < 1e-5 }

func nearV3(v, w V3) bool { return near(v[0], w[0]) && near(v[1], w[1]) && near(v[2], w[2]) }

func TestV(t *testing.T) {
	var u V3
	v := V3{1, 2, 4}
	w := V3{0, -1, 2}

	if u.Add(&v, &w); u != (V3{1, 1, 6}) {
		t.Fatalf("V3.Add\nhave %v\nwant [1 1 6]", u)
	}
	if u.Sub(&v, &w); u != (V3{1, 3, 2}) {
		t.Fatalf("V3.Sub\nhave %v\nwant [1 3 2]", u)
	}
	if u.Scale(-1, &v); u != (V3{-1, -2, -4}) {
		t.Fatalf("V3.Scale\nhave %v\nwant [-1 -2 -4]", u)
	}
	if d := v.Dot(&w); d != 6 {
		t.Fatalf("V3.Dot\nhave %v\nwant 6\n", d)
	}
	if l := v.Len(); l != float32(math.Sqrt(21)) {
		t.Fatalf("V3.Len\nhave %v\nwant %v\n", l, math.Sqrt(21))
	}

	v = V3{0, 0, -2}
	w = V3{0, 4, 0}

	if v.Norm(&v); v != (V3{0, 0, -1}) {
		t.Fatalf("V3.Norm\nhave %v\nwant [0 0 -1]", v)
	}
	if w.Norm(&w); w != (V3{0, 1, 0}) {
		t.Fatalf("V3.Norm\nhave %v\nwant [0 1 0]", w)
	}
	if u.Cross(&v, &w); u != (V3{1, 0, 0}) {
		t.Fatalf("V3.Cross\nhave %v\nwant [1 0 0]", u)
	}
	if v.Cross(&w, &v); v != (V3{-1, 0, 0}) {
		t.Fatalf("V3.Cross (aliased)\nhave %v\nwant [-1 0 0]", v)
	}
	if u.Lerp(&V3{0, 0, 0}, &V3{0, 0, 5}, 0.5); u != (V3{0, 0, 2.5}) {
		t.Fatalf("V3.Lerp\nhave %v\nwant [0 0 2.5]", u)
	}
}

func TestM(t *testing.T) {
	var m, n, o M4
	m.I()
	n.Translate(1, 2, 3)
	if o.Mul(&m, &n); o != n {
		t.Fatalf("M4.Mul\nhave %v\nwant %v", o, n)
	}
	o.Invert(&n)
	if p := o.Point(&V3{1, 2, 3}); !nearV3(p, V3{}) {
		t.Fatalf("M4.Invert\nhave %v\nwant [0 0 0]", p)
	}
	if d := n.Dir(&V3{0, 0, 1}); d != (V3{0, 0, 1}) {
		t.Fatalf("M4.Dir\nhave %v\nwant [0 0 1]", d)
	}
	o.Transpose(&n)
	if o[0][3] != 1 || o[1][3] != 2 || o[2][3] != 3 {
		t.Fatalf("M4.Transpose\nhave %v", o)
	}

	m.Mul(&n, &n)
	if p := m.Point(&V3{}); p != (V3{2, 4, 6}) {
		t.Fatalf("M4.Mul (aliased)\nhave %v\nwant [2 4 6]", p)
	}

	var p M4
	p.Perspective(math.Pi/3, 1, 1, 100)
	for _, x := range [...]struct {
		z, depth float32
	}{
		{-1, 0},
		{-100, 1},
	} {
		var v V4
		v.Mul(&p, &V4{0, 0, x.z, 1})
		if d := v[2] / v[3]; !near(d, x.depth) {
			t.Fatalf("M4.Perspective: depth at z=%v\nhave %v\nwant %v", x.z, d, x.depth)
		}
	}
}

func TestQ(t *testing.T) {
	var q Q
	q.I()
	var m M4
	if m.Rotate(&q); m != (M4{{1}, {0, 1}, {0, 0, 1}, {0, 0, 0, 1}}) {
		t.Fatalf("M4.Rotate(identity)\nhave %v", m)
	}

	q.Rotate(math.Pi/2, &V3{0, 1, 0})
	m.Rotate(&q)
	if d := m.Dir(&V3{1, 0, 0}); !nearV3(d, V3{0, 0, -1}) {
		t.Fatalf("Q.Rotate: y axis\nhave %v\nwant [0 0 -1]", d)
	}

	q.Euler(&V3{-1, 0, 0})
	m.Rotate(&q)
	want := V3{0, float32(math.Sin(-1)), float32(-math.Cos(-1))}
	if d := m.Dir(&V3{0, 0, -1}); !nearV3(d, want) {
		t.Fatalf("Q.Euler: pitch\nhave %v\nwant %v", d, want)
	}

	var r, s Q
	r.Rotate(0.5, &V3{0, 0, 1})
	s.Rotate(0.25, &V3{0, 0, 1})
	r.Mul(&r, &s)
	q.Rotate(0.75, &V3{0, 0, 1})
	if !near(r.R, q.R) || !nearV3(r.V, q.V) {
		t.Fatalf("Q.Mul\nhave %v\nwant %v", r, q)
	}
}
