// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package gltf

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"io"
)

// GLB header.
type glbHeader [3]uint32

// Indices in glbHeader.
const (
	headerMagic   = 0
	headerVersion = 1
	headerLength  = 2
)

// GLB chunk.
type glbChunk [2]uint32

// Indices in glbChunk.
const (
	chunkLength = 0
	chunkType   = 1
	// Then payload.
)

const (
	// glbHeader[headerMagic].
	magic = 0x46546c67

	// glbChunk[chunkType].
	typeJSON = 0x4e4f534a
	typeBIN  = 0x004e4942
)

// IsGLB returns whether r refers to a binary glTF (version 2).
// It assumes that r was positioned accordingly.
func IsGLB(r io.Reader) bool {
	var h glbHeader
	err := binary.Read(r, binary.LittleEndian, h[:])
	switch {
	case err != nil, h[headerMagic] != magic, h[headerVersion] != 2:
		return false
	default:
		return true
	}
}

// SeekJSON seeks into r until it finds the beginning
// of the JSON string.
// If successful, it returns the length of the chunk.
// r must refer to an unread GLB blob.
func SeekJSON(r io.Reader) (n int, err error) {
	if !IsGLB(r) {
		err = newErr("not a GLB blob")
		return
	}
	var c glbChunk
	err = binary.Read(r, binary.LittleEndian, c[:])
	switch {
	case err != nil:
	case c[chunkLength] == 0 || c[chunkType] != typeJSON:
		err = newErr("invalid GLB chunk")
	default:
		n = int(c[chunkLength])
	}
	return
}

// pad4 returns b padded with p to a multiple of 4 bytes.
func pad4(b []byte, p byte) []byte {
	for len(b)%4 != 0 {
		b = append(b, p)
	}
	return b
}

// EncodeGLB encodes gltf and its binary buffer bin into w
// as a GLB blob.
// gltf.Buffers[0] must describe bin and have no URI.
// bin may be empty, in which case no BIN chunk is written.
func EncodeGLB(w io.Writer, gltf *GLTF, bin []byte) error {
	js, err := json.Marshal(gltf)
	if err != nil {
		return err
	}
	js = pad4(js, ' ')
	bin = pad4(bytes.Clone(bin), 0)
	n := 12 + 8 + len(js)
	if len(bin) > 0 {
		n += 8 + len(bin)
	}
	var buf bytes.Buffer
	buf.Grow(n)
	binary.Write(&buf, binary.LittleEndian, glbHeader{magic, 2, uint32(n)})
	binary.Write(&buf, binary.LittleEndian, glbChunk{uint32(len(js)), typeJSON})
	buf.Write(js)
	if len(bin) > 0 {
		binary.Write(&buf, binary.LittleEndian, glbChunk{uint32(len(bin)), typeBIN})
		buf.Write(bin)
	}
	_, err = w.Write(buf.Bytes())
	return err
}

// DecodeGLB decodes a GLB blob from r.
// It returns the glTF document and the content of the
// BIN chunk, which is nil if the blob has none.
func DecodeGLB(r io.Reader) (*GLTF, []byte, error) {
	n, err := SeekJSON(r)
	if err != nil {
		return nil, nil, err
	}
	js := make([]byte, n)
	if _, err := io.ReadFull(r, js); err != nil {
		return nil, nil, err
	}
	gltf, err := Decode(bytes.NewReader(js))
	if err != nil {
		return nil, nil, err
	}
	var c glbChunk
	switch err := binary.Read(r, binary.LittleEndian, c[:]); {
	case err == io.EOF:
		return gltf, nil, nil
	case err != nil:
		return nil, nil, err
	case c[chunkType] != typeBIN:
		return nil, nil, newErr("invalid GLB chunk")
	}
	bin := make([]byte, c[chunkLength])
	if _, err := io.ReadFull(r, bin); err != nil {
		return nil, nil, err
	}
	return gltf, bin, nil
}
