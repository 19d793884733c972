// Package ninja rebases the Ninja scene-graph and texture-list structures
// carried by a DLC model region. Stored pointers are offsets local to the
// region's buffer; after rebasing they hold absolute addresses anchored at
// the address the buffer is resident at.
package ninja

import "encoding/binary"

// Field names one little-endian pointer field of a flat layout.
type Field struct {
	Name   string
	Offset int
	Width  int
}

func (f Field) get(buf []byte, at int) uint32 {
	return binary.LittleEndian.Uint32(buf[at+f.Offset:])
}

func (f Field) put(buf []byte, at int, v uint32) {
	binary.LittleEndian.PutUint32(buf[at+f.Offset:], v)
}

// NJS_OBJECT
var (
	ObjectModel   = Field{Name: "model", Offset: 0x04, Width: 4}
	ObjectChild   = Field{Name: "child", Offset: 0x2c, Width: 4}
	ObjectSibling = Field{Name: "sibling", Offset: 0x30, Width: 4}
)

// NJS_MODEL
var (
	ModelPoints  = Field{Name: "points", Offset: 0x00, Width: 4}
	ModelNormals = Field{Name: "normals", Offset: 0x04, Width: 4}
)

// NJS_TEXLIST and NJS_TEXNAME
var (
	TexListTextures = Field{Name: "textures", Offset: 0x00, Width: 4}
	TexListCount    = Field{Name: "nbTexture", Offset: 0x04, Width: 4}
	TexNameFilename = Field{Name: "filename", Offset: 0x00, Width: 4}
)

const (
	ObjectSize  = 0x34
	ModelSize   = 0x08 // only the pointer header is touched
	TexListSize = 0x08
	TexNameSize = 0x0c
)
