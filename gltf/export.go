// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package gltf

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"math"

	"github.com/gviegas/road/anim"
	"github.com/gviegas/road/linear"
	"github.com/gviegas/road/scene"
)

// FloorExtent is the half size of the quad that stands in
// for an infinite floor.
const FloorExtent = 100

// Generator is set as GLTF.Asset.Generator by Export.
const Generator = "github.com/gviegas/road"

// Instantaneous animation steps are exported as keyframes
// this far apart (in seconds), since keyframe times must
// be strictly increasing.
const instantStep = 1e-4

type meshKey struct {
	shape scene.Shape
	mat   scene.Material
}

type exporter struct {
	doc    GLTF
	bin    bytes.Buffer
	nodes  map[*scene.Object]int64
	meshes map[meshKey]int64
	mats   map[scene.Material]int64
	times  map[*anim.Loop]keyframes
}

// keyframes are the sampled offsets of an anim.Loop.
type keyframes struct {
	input   int64
	offsets []linear.V3
}

// Export converts s into a glTF document.
// It returns the document and the content of its single
// buffer. The buffer has no URI; call Embed to store it
// in the document, or EncodeGLB to write both as a GLB.
// Object positions are exported as of creation
// (animations are exported separately).
func Export(s *scene.Scene) (*GLTF, []byte, error) {
	e := exporter{
		nodes:  make(map[*scene.Object]int64),
		meshes: make(map[meshKey]int64),
		mats:   make(map[scene.Material]int64),
		times:  make(map[*anim.Loop]keyframes),
	}
	e.doc.Asset = Asset{Generator: Generator, Version: "2.0"}
	e.doc.Extras = map[string]any{
		"showStats":          s.Display.ShowStats,
		"allowCameraControl": s.Display.AllowCameraControl,
		"playing":            s.Display.Playing,
		"defaultLighting":    s.Display.DefaultLighting,
	}

	root := e.node(s.Root())
	var err error
	s.ForEach(func(o *scene.Object) bool {
		var idx int64
		if idx, err = e.object(o); err != nil {
			return false
		}
		p := e.nodes[o.Parent()]
		e.doc.Nodes[p].Children = append(e.doc.Nodes[p].Children, idx)
		return true
	})
	if err != nil {
		return nil, nil, err
	}
	sc := int64(0)
	e.doc.Scene = &sc
	e.doc.Scenes = []Scene{{Nodes: []int64{root}, Name: "road"}}
	if e.bin.Len() > 0 {
		e.doc.Buffers = []Buffer{{ByteLength: int64(e.bin.Len())}}
	}
	return &e.doc, e.bin.Bytes(), nil
}

// Embed stores bin in gltf's first buffer as a data URI.
func Embed(gltf *GLTF, bin []byte) {
	if len(gltf.Buffers) == 0 {
		return
	}
	gltf.Buffers[0].URI = "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(bin)
}

func ptr[T any](x T) *T { return &x }

// node appends a node holding o's transform.
func (e *exporter) node(o *scene.Object) int64 {
	n := Node{Name: o.Name}
	if p := o.Position(); p != (linear.V3{}) {
		n.Translation = ptr([3]float32(p))
	}
	if o.Euler() != (linear.V3{}) {
		q := o.Rotation()
		n.Rotation = &[4]float32{q.V[0], q.V[1], q.V[2], q.R}
	}
	idx := int64(len(e.doc.Nodes))
	e.doc.Nodes = append(e.doc.Nodes, n)
	e.nodes[o] = idx
	return idx
}

// object appends the node of o and everything it refers to.
func (e *exporter) object(o *scene.Object) (int64, error) {
	idx := e.node(o)
	if c := o.Camera; c != nil {
		e.doc.Nodes[idx].Camera = ptr(int64(len(e.doc.Cameras)))
		e.doc.Cameras = append(e.doc.Cameras, Camera{
			Perspective: &Perspective{YFOV: c.YFov, Znear: c.ZNear, Zfar: c.ZFar},
			Type:        Tperspective,
			Name:        o.Name,
			Extras:      map[string]any{"aperture": c.Aperture},
		})
	}
	if g := o.Geometry; g != nil {
		mesh, err := e.mesh(g)
		if err != nil {
			return 0, err
		}
		e.doc.Nodes[idx].Mesh = &mesh
	}
	if l := o.Loop(); l != nil && l.Period() > 0 {
		e.animation(o, idx, l)
	}
	return idx, nil
}

// view appends b to the buffer as a new buffer view.
func (e *exporter) view(b []byte, target int64) int64 {
	for e.bin.Len()%4 != 0 {
		e.bin.WriteByte(0)
	}
	idx := int64(len(e.doc.BufferViews))
	e.doc.BufferViews = append(e.doc.BufferViews, BufferView{
		ByteOffset: int64(e.bin.Len()),
		ByteLength: int64(len(b)),
		Target:     target,
	})
	e.bin.Write(b)
	return idx
}

// vec3 appends an accessor of VEC3 floats.
func (e *exporter) vec3(v []linear.V3, target int64) int64 {
	var b bytes.Buffer
	lo := [3]float32{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32}
	hi := [3]float32{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32}
	for _, x := range v {
		binary.Write(&b, binary.LittleEndian, x)
		for i := range x {
			lo[i] = min(lo[i], x[i])
			hi[i] = max(hi[i], x[i])
		}
	}
	return e.accessor(Accessor{
		BufferView:    ptr(e.view(b.Bytes(), target)),
		ComponentType: FLOAT,
		Count:         int64(len(v)),
		Type:          VEC3,
		Min:           lo[:],
		Max:           hi[:],
	})
}

// scalar appends an accessor of SCALAR floats.
func (e *exporter) scalar(v []float32) int64 {
	var b bytes.Buffer
	binary.Write(&b, binary.LittleEndian, v)
	return e.accessor(Accessor{
		BufferView:    ptr(e.view(b.Bytes(), 0)),
		ComponentType: FLOAT,
		Count:         int64(len(v)),
		Type:          SCALAR,
		Min:           []float32{v[0]},
		Max:           []float32{v[len(v)-1]},
	})
}

// indices appends an accessor of UNSIGNED_SHORT indices.
func (e *exporter) indices(v []uint16) int64 {
	var b bytes.Buffer
	binary.Write(&b, binary.LittleEndian, v)
	return e.accessor(Accessor{
		BufferView:    ptr(e.view(b.Bytes(), ELEMENT_ARRAY_BUFFER)),
		ComponentType: UNSIGNED_SHORT,
		Count:         int64(len(v)),
		Type:          SCALAR,
	})
}

func (e *exporter) accessor(a Accessor) int64 {
	e.doc.Accessors = append(e.doc.Accessors, a)
	return int64(len(e.doc.Accessors) - 1)
}

// material returns the index of the glTF material for m,
// appending it if needed.
func (e *exporter) material(m scene.Material, extras any) int64 {
	if idx, ok := e.mats[m]; ok && extras == nil {
		return idx
	}
	mat := Material{
		PBRMetallicRoughness: &PBRMetallicRoughness{
			BaseColorFactor: ptr(m.Color),
			MetallicFactor:  ptr(float32(0)),
		},
		Extras: extras,
	}
	if m.Transparent {
		mat.AlphaMode = BLEND
		mat.PBRMetallicRoughness.BaseColorFactor = &[4]float32{m.Color[0], m.Color[1], m.Color[2], 0}
	}
	idx := int64(len(e.doc.Materials))
	e.doc.Materials = append(e.doc.Materials, mat)
	if extras == nil {
		e.mats[m] = idx
	}
	return idx
}

// mesh returns the index of the glTF mesh for g,
// appending it if needed.
func (e *exporter) mesh(g *scene.Geometry) (int64, error) {
	key := meshKey{g.Shape, g.Material}
	if idx, ok := e.meshes[key]; ok {
		return idx, nil
	}
	var (
		pos, norm []linear.V3
		ind       []uint16
		mat       int64
		name      string
	)
	switch s := g.Shape.(type) {
	case scene.Box:
		corners := s.Corners()
		for _, f := range scene.BoxFaces {
			base := uint16(len(pos))
			for _, c := range f.Corners {
				pos = append(pos, corners[c])
				norm = append(norm, f.Normal)
			}
			ind = append(ind, base, base+1, base+2, base, base+2, base+3)
		}
		mat = e.material(g.Material, nil)
		name = "box"
	case scene.Floor:
		const x = FloorExtent
		pos = []linear.V3{{-x, 0, -x}, {-x, 0, x}, {x, 0, x}, {x, 0, -x}}
		norm = []linear.V3{{0, 1, 0}, {0, 1, 0}, {0, 1, 0}, {0, 1, 0}}
		ind = []uint16{0, 1, 2, 0, 2, 3}
		mat = e.material(g.Material, map[string]any{"reflectivity": s.Reflectivity})
		name = "floor"
	default:
		return 0, newErr("unsupported scene.Shape")
	}
	prim := Primitive{
		Attributes: map[string]int64{
			POSITION: e.vec3(pos, ARRAY_BUFFER),
			NORMAL:   e.vec3(norm, ARRAY_BUFFER),
		},
		Indices:  ptr(e.indices(ind)),
		Material: &mat,
	}
	idx := int64(len(e.doc.Meshes))
	e.doc.Meshes = append(e.doc.Meshes, Mesh{Primitives: []Primitive{prim}, Name: name})
	e.meshes[key] = idx
	return idx, nil
}

// keyframes samples l at the boundaries of its steps.
// A trailing instantaneous step that brings the loop back
// to its start is left out, since players wrap around to
// the first keyframe anyway.
func (e *exporter) keyframes(l *anim.Loop) keyframes {
	if k, ok := e.times[l]; ok {
		return k
	}
	steps := l.Steps()
	times := []float32{0}
	k := keyframes{offsets: []linear.V3{{}}}
	var cur linear.V3
	var elapsed float64
	for i, s := range steps {
		cur.Add(&cur, &s.Delta)
		elapsed += s.Duration.Seconds()
		if s.Duration == 0 && i == len(steps)-1 && cur == (linear.V3{}) {
			break
		}
		t := float32(elapsed)
		if last := times[len(times)-1]; t <= last {
			t = last + instantStep
		}
		times = append(times, t)
		k.offsets = append(k.offsets, cur)
	}
	k.input = e.scalar(times)
	e.times[l] = k
	return k
}

// animation appends the translation animation of o.
func (e *exporter) animation(o *scene.Object, node int64, l *anim.Loop) {
	k := e.keyframes(l)
	base := o.Position()
	out := make([]linear.V3, len(k.offsets))
	for i := range out {
		out[i].Add(&base, &k.offsets[i])
	}
	e.doc.Animations = append(e.doc.Animations, Animation{
		Channels: []AChannel{{Sampler: 0, Target: ATarget{Node: &node, Path: Ptranslation}}},
		Samplers: []ASampler{{Input: k.input, Interpolation: ILINEAR, Output: e.vec3(out, 0)}},
		Name:     o.Name,
	})
}
