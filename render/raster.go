// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package render

import (
	"cmp"
	"context"
	"image"
	"io"
	"math"
	"slices"
	"time"

	"github.com/gogpu/gg"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/gviegas/road/linear"
	"github.com/gviegas/road/scene"
)

var tracer = otel.Tracer("github.com/gviegas/road/render")

// Raster is a software Renderer.
// It draws into an in-memory image that can be encoded
// as PNG after each frame.
type Raster struct {
	// Color of pixels not covered by any geometry.
	Background gg.RGBA

	dc    *gg.Context
	polys []poly
}

// NewRaster creates a width×height software renderer.
func NewRaster(width, height int) *Raster {
	return &Raster{
		Background: gg.RGB(0.55, 0.7, 0.9),
		dc:         gg.NewContext(width, height),
	}
}

// Image returns the last rendered frame.
func (r *Raster) Image() image.Image { return r.dc.Image() }

// EncodePNG encodes the last rendered frame into w.
func (r *Raster) EncodePNG(w io.Writer) error { return r.dc.EncodePNG(w) }

// SavePNG writes the last rendered frame to a file.
func (r *Raster) SavePNG(path string) error { return r.dc.SavePNG(path) }

// Close releases the drawing context.
func (r *Raster) Close() error { return r.dc.Close() }

// poly is a screen-space convex polygon.
type poly struct {
	pts   [5][2]float64
	n     int
	color gg.RGBA
	depth float32
}

// view holds per-frame camera state.
type view struct {
	world  linear.M4
	vp     linear.M4
	eye    linear.V3
	tx, ty float32
	znear  float32
	width  float64
	height float64
	lit    bool
}

func (v *view) init(pov *scene.Object, width, height int, lit bool) {
	cam := pov.Camera
	aspect := float32(width) / float32(height)
	v.world = *pov.World()
	v.eye = v.world.Point(&linear.V3{})
	var vw, proj linear.M4
	vw.Invert(&v.world)
	proj.Perspective(cam.YFov, aspect, cam.ZNear, cam.ZFar)
	v.vp.Mul(&proj, &vw)
	v.ty = float32(math.Tan(float64(cam.YFov) / 2))
	v.tx = v.ty * aspect
	v.znear = cam.ZNear
	v.width = float64(width)
	v.height = float64(height)
	v.lit = lit
}

// screen maps normalized device coordinates to pixels.
func (v *view) screen(x, y float32) [2]float64 {
	return [2]float64{
		(float64(x) + 1) / 2 * v.width,
		(1 - float64(y)) / 2 * v.height,
	}
}

// project projects the world-space point p.
// It fails if p is nearer than the near plane.
func (v *view) project(p *linear.V3) (s [2]float64, ok bool) {
	var c linear.V4
	c.Mul(&v.vp, &linear.V4{p[0], p[1], p[2], 1})
	if c[3] < v.znear {
		return
	}
	return v.screen(c[0]/c[3], c[1]/c[3]), true
}

// Render implements Renderer.
func (r *Raster) Render(ctx context.Context, s *scene.Scene, t time.Duration) (stats Stats, err error) {
	_, span := tracer.Start(ctx, "Raster.Render")
	defer span.End()
	if err = ctx.Err(); err != nil {
		return
	}
	start := time.Now()

	s.Update(t)
	pov := s.PointOfView()
	if pov == nil {
		return stats, ErrNoCamera
	}
	var v view
	v.init(pov, r.dc.Width(), r.dc.Height(), s.Display.DefaultLighting)

	var floors, boxes []*scene.Object
	s.ForEach(func(o *scene.Object) bool {
		stats.Objects++
		if g := o.Geometry; g != nil && !g.Material.Transparent {
			switch g.Shape.(type) {
			case scene.Floor:
				floors = append(floors, o)
			case scene.Box:
				boxes = append(boxes, o)
			}
		}
		return true
	})

	r.dc.ClearWithColor(r.Background)
	for _, f := range floors {
		if p, ok := v.ground(f); ok {
			if err = r.fill(&p); err != nil {
				return
			}
		}
	}

	// Reflections go first so that the actual faces
	// are drawn over them.
	r.polys = r.polys[:0]
	for _, f := range floors {
		refl := f.Geometry.Shape.(scene.Floor).Reflectivity
		if refl <= 0 {
			continue
		}
		var mirror linear.M4
		mirrorMatrix(&mirror, f.World())
		for _, b := range boxes {
			stats.Culled += v.box(b, &mirror, refl, &r.polys)
		}
	}
	if err = r.flush(&stats); err != nil {
		return
	}
	var id linear.M4
	id.I()
	for _, b := range boxes {
		stats.Culled += v.box(b, &id, 1, &r.polys)
	}
	if err = r.flush(&stats); err != nil {
		return
	}

	stats.Elapsed = time.Since(start)
	span.SetAttributes(
		attribute.Int("render.objects", stats.Objects),
		attribute.Int("render.faces", stats.Faces),
	)
	if s.Display.ShowStats {
		Logger().Info("frame",
			"time", t,
			"objects", stats.Objects,
			"faces", stats.Faces,
			"culled", stats.Culled,
			"elapsed", stats.Elapsed)
	}
	return
}

// flush draws the pending polygons back to front.
func (r *Raster) flush(stats *Stats) error {
	slices.SortStableFunc(r.polys, func(a, b poly) int { return cmp.Compare(b.depth, a.depth) })
	for i := range r.polys {
		if err := r.fill(&r.polys[i]); err != nil {
			return err
		}
	}
	stats.Faces += len(r.polys)
	r.polys = r.polys[:0]
	return nil
}

func (r *Raster) fill(p *poly) error {
	if p.n < 3 {
		return nil
	}
	r.dc.SetRGBA(p.color.R, p.color.G, p.color.B, p.color.A)
	r.dc.MoveTo(p.pts[0][0], p.pts[0][1])
	for _, pt := range p.pts[1:p.n] {
		r.dc.LineTo(pt[0], pt[1])
	}
	r.dc.ClosePath()
	return r.dc.Fill()
}

// mirrorMatrix sets m to contain the reflection across
// the plane of the floor whose world transform is w.
func mirrorMatrix(m *linear.M4, w *linear.M4) {
	n := w.Dir(&linear.V3{0, 1, 0})
	n.Norm(&n)
	p := w.Point(&linear.V3{})
	d := n.Dot(&p)
	m.I()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i][j] -= 2 * n[i] * n[j]
		}
		m[3][i] = 2 * d * n[i]
	}
}

// box appends the visible faces of obj, transformed by
// xform after its world transform, to polys.
// It returns the number of faces culled.
func (v *view) box(obj *scene.Object, xform *linear.M4, alpha float32, polys *[]poly) (culled int) {
	var m linear.M4
	m.Mul(xform, obj.World())
	var corners [8]linear.V3
	for i, c := range obj.Geometry.Shape.(scene.Box).Corners() {
		corners[i] = m.Point(&c)
	}
	mat := &obj.Geometry.Material
face:
	for _, f := range scene.BoxFaces {
		n := m.Dir(&f.Normal)
		n.Norm(&n)
		var center, eye linear.V3
		for _, i := range f.Corners {
			center.Add(&center, &corners[i])
		}
		center.Scale(0.25, &center)
		eye.Sub(&v.eye, &center)
		if n.Dot(&eye) <= 0 {
			culled++
			continue
		}
		p := poly{n: 4, depth: eye.Len()}
		for k, i := range f.Corners {
			s, ok := v.project(&corners[i])
			if !ok {
				culled++
				continue face
			}
			p.pts[k] = s
		}
		eye.Norm(&eye)
		p.color = v.shade(mat, n.Dot(&eye), alpha)
		*polys = append(*polys, p)
	}
	return
}

// shade computes the color of a surface whose normal
// makes an angle of acos(cosine) with the view direction.
func (v *view) shade(mat *scene.Material, cosine, alpha float32) gg.RGBA {
	k := float64(1)
	if v.lit {
		k = 0.25 + 0.75*float64(max(0, cosine))
	}
	c := mat.Color
	return gg.RGBA2(float64(c[0])*k, float64(c[1])*k, float64(c[2])*k, float64(c[3]*alpha))
}

// ground computes the screen region covered by the floor.
// The floor is infinite, so that region is the set of
// pixels whose view rays hit its plane: a half-plane in
// normalized device coordinates, clipped to the screen.
func (v *view) ground(obj *scene.Object) (p poly, ok bool) {
	w := obj.World()
	n := w.Dir(&linear.V3{0, 1, 0})
	origin := w.Point(&linear.V3{})
	var h linear.V3
	h.Sub(&v.eye, &origin)
	side := n.Dot(&h)
	if side == 0 {
		return
	}
	// Signed distance of the ray direction for the
	// NDC point (x, y); rays hit the plane where it is
	// negative.
	dist := func(x, y float32) float32 {
		d := v.world.Dir(&linear.V3{x * v.tx, y * v.ty, -1})
		if side < 0 {
			return -n.Dot(&d)
		}
		return n.Dot(&d)
	}
	in := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	var out [8][2]float32
	var cnt int
	for i := range in {
		a, b := in[i], in[(i+1)%len(in)]
		da, db := dist(a[0], a[1]), dist(b[0], b[1])
		if da < 0 {
			out[cnt] = a
			cnt++
		}
		if (da < 0) != (db < 0) {
			t := da / (da - db)
			out[cnt] = [2]float32{a[0] + (b[0]-a[0])*t, a[1] + (b[1]-a[1])*t}
			cnt++
		}
	}
	if cnt < 3 {
		return
	}
	// Clipping a quad by a half-plane yields at most
	// five vertices.
	p = poly{n: cnt, color: v.shade(&obj.Geometry.Material, 1, 1)}
	for i := 0; i < cnt; i++ {
		p.pts[i] = v.screen(out[i][0], out[i][1])
	}
	return p, true
}
