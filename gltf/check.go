// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package gltf

import (
	"errors"
)

func newErr(reason string) error {
	return errors.New("gltf: " + reason)
}

// inRange returns whether idx is a valid index for a
// slice of length n.
func inRange(idx *int64, n int) bool { return idx == nil || (*idx >= 0 && *idx < int64(n)) }

// Check checks that f is valid glTF.
// Only the subset of glTF this package produces is
// considered.
func (f *GLTF) Check() error {
	if f.Asset.Version != "2.0" {
		return newErr("unsupported GLTF.Asset.Version")
	}
	if !inRange(f.Scene, len(f.Scenes)) {
		return newErr("invalid GLTF.Scene index")
	}
	for _, s := range f.Scenes {
		for i := range s.Nodes {
			if !inRange(&s.Nodes[i], len(f.Nodes)) {
				return newErr("invalid Scene.Nodes index")
			}
		}
	}
	for _, v := range f.BufferViews {
		if v.Buffer < 0 || v.Buffer >= int64(len(f.Buffers)) {
			return newErr("invalid BufferView.Buffer index")
		}
		if v.ByteOffset < 0 || v.ByteLength < 1 || v.ByteOffset+v.ByteLength > f.Buffers[v.Buffer].ByteLength {
			return newErr("BufferView out of Buffer bounds")
		}
	}
	for i := range f.Accessors {
		if err := f.Accessors[i].Check(f); err != nil {
			return err
		}
	}
	for _, m := range f.Meshes {
		if len(m.Primitives) == 0 {
			return newErr("Mesh has no primitives")
		}
		for _, p := range m.Primitives {
			if _, ok := p.Attributes[POSITION]; !ok {
				return newErr("Primitive has no POSITION")
			}
			for _, a := range p.Attributes {
				if !inRange(&a, len(f.Accessors)) {
					return newErr("invalid Primitive.Attributes index")
				}
			}
			if !inRange(p.Indices, len(f.Accessors)) {
				return newErr("invalid Primitive.Indices index")
			}
			if !inRange(p.Material, len(f.Materials)) {
				return newErr("invalid Primitive.Material index")
			}
		}
	}
	for _, n := range f.Nodes {
		if !inRange(n.Camera, len(f.Cameras)) {
			return newErr("invalid Node.Camera index")
		}
		if !inRange(n.Mesh, len(f.Meshes)) {
			return newErr("invalid Node.Mesh index")
		}
		for i := range n.Children {
			if !inRange(&n.Children[i], len(f.Nodes)) {
				return newErr("invalid Node.Children index")
			}
		}
	}
	for _, a := range f.Animations {
		for _, s := range a.Samplers {
			if !inRange(&s.Input, len(f.Accessors)) || !inRange(&s.Output, len(f.Accessors)) {
				return newErr("invalid ASampler accessor index")
			}
		}
		for _, c := range a.Channels {
			if c.Sampler < 0 || c.Sampler >= int64(len(a.Samplers)) {
				return newErr("invalid AChannel.Sampler index")
			}
			if c.Target.Node == nil || !inRange(c.Target.Node, len(f.Nodes)) {
				return newErr("invalid AChannel.Target.Node index")
			}
		}
	}
	return nil
}

// Check checks that a is valid glTF.accessors' element.
func (a *Accessor) Check(gltf *GLTF) error {
	if !inRange(a.BufferView, len(gltf.BufferViews)) {
		return newErr("invalid Accessor.BufferView index")
	}
	if a.ByteOffset < 0 {
		return newErr("invalid Accessor.ByteOffset value")
	}
	switch a.ComponentType {
	case UNSIGNED_SHORT, UNSIGNED_INT, FLOAT:
	default:
		return newErr("invalid Accessor.ComponentType value")
	}
	if a.Count < 1 {
		return newErr("invalid Accessor.Count value")
	}
	switch a.Type {
	case SCALAR, VEC3, VEC4:
	default:
		return newErr("invalid Accessor.Type value")
	}
	if len(a.Max) != len(a.Min) {
		return newErr("mismatched Accessor.Max/Min")
	}
	return nil
}
