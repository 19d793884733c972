package ninja

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	c "github.com/sourcekris/kartdlc/common"
)

const testBase = 0x10000000

func put(buf []byte, at int, v uint32) { binary.LittleEndian.PutUint32(buf[at:], v) }
func get(buf []byte, at int) uint32    { return binary.LittleEndian.Uint32(buf[at:]) }

func TestLayoutSchema(t *testing.T) {
	tests := []struct {
		field  Field
		offset int
	}{
		{ObjectModel, 0x04},
		{ObjectChild, 0x2c},
		{ObjectSibling, 0x30},
		{ModelPoints, 0x00},
		{ModelNormals, 0x04},
		{TexListTextures, 0x00},
		{TexListCount, 0x04},
		{TexNameFilename, 0x00},
	}
	for _, tt := range tests {
		if tt.field.Offset != tt.offset || tt.field.Width != 4 {
			t.Errorf("%s: offset 0x%x width %d, want 0x%x width 4", tt.field.Name, tt.field.Offset, tt.field.Width, tt.offset)
		}
	}
	if ObjectSize != 0x34 || TexNameSize != 0x0c {
		t.Errorf("sizes: object 0x%x texname 0x%x", ObjectSize, TexNameSize)
	}
	if ObjectSibling.Offset+ObjectSibling.Width > ObjectSize {
		t.Error("sibling field outside object")
	}
}

func TestRebaseObjectAllZero(t *testing.T) {
	buf := make([]byte, ObjectSize)
	for i := range buf {
		buf[i] = byte(i)
	}
	put(buf, 0x04, 0)
	put(buf, 0x2c, 0)
	put(buf, 0x30, 0)
	before := bytes.Clone(buf)

	if err := RebaseObject(buf, testBase, 0, Options{}); err != nil {
		t.Fatalf("RebaseObject: %v", err)
	}
	if !bytes.Equal(buf, before) {
		t.Error("buffer changed for object with no pointers")
	}
}

func TestRebaseObjectChain(t *testing.T) {
	const root, child, grandchild = 0x00, 0x40, 0x80
	buf := make([]byte, 0xc0)
	put(buf, root+0x2c, child)
	put(buf, child+0x2c, grandchild)

	if err := RebaseObject(buf, testBase, root, Options{}); err != nil {
		t.Fatalf("RebaseObject: %v", err)
	}
	if got := get(buf, root+0x2c); got != testBase+child {
		t.Errorf("root.child = 0x%08x, want 0x%08x", got, testBase+child)
	}
	if got := get(buf, child+0x2c); got != testBase+grandchild {
		t.Errorf("child.child = 0x%08x, want 0x%08x", got, testBase+grandchild)
	}
	if got := get(buf, grandchild+0x2c); got != 0 {
		t.Errorf("grandchild.child = 0x%08x, want 0", got)
	}
}

func TestRebaseObjectModelAndSibling(t *testing.T) {
	const root, sibling, model, points, normals = 0x00, 0x40, 0x80, 0x90, 0xa0
	buf := make([]byte, 0xb0)
	put(buf, root+0x04, model)
	put(buf, root+0x30, sibling)
	put(buf, sibling+0x04, model) // shared model
	put(buf, model+0x00, points)
	put(buf, model+0x04, normals)

	if err := RebaseObject(buf, testBase, root, Options{}); err != nil {
		t.Fatalf("RebaseObject: %v", err)
	}
	checks := []struct {
		name string
		at   int
		want uint32
	}{
		{"root.model", root + 0x04, testBase + model},
		{"root.sibling", root + 0x30, testBase + sibling},
		{"sibling.model", sibling + 0x04, testBase + model},
		{"model.points", model + 0x00, testBase + points},
		{"model.normals", model + 0x04, testBase + normals},
	}
	for _, ck := range checks {
		if got := get(buf, ck.at); got != ck.want {
			t.Errorf("%s = 0x%08x, want 0x%08x", ck.name, got, ck.want)
		}
	}
}

func TestRebaseObjectNullNormals(t *testing.T) {
	const model, points = 0x40, 0x50
	buf := make([]byte, 0x60)
	put(buf, 0x04, model)
	put(buf, model, points)

	if err := RebaseObject(buf, testBase, 0, Options{}); err != nil {
		t.Fatalf("RebaseObject: %v", err)
	}
	if got := get(buf, model+4); got != 0 {
		t.Errorf("normals = 0x%08x, want 0", got)
	}
	if got := get(buf, model); got != testBase+points {
		t.Errorf("points = 0x%08x", got)
	}
}

func TestRebaseObjectCycle(t *testing.T) {
	const root, child = 0x10, 0x50
	buf := make([]byte, 0x90)
	put(buf, root+0x2c, child)
	put(buf, child+0x30, root)

	err := RebaseObject(buf, testBase, root, Options{})
	if !errors.Is(err, c.ErrCyclicGraph) {
		t.Errorf("err = %v, want ErrCyclicGraph", err)
	}
}

func TestRebaseObjectDepthLimit(t *testing.T) {
	buf := make([]byte, 6*0x40)
	for i := 0; i < 5; i++ {
		put(buf, i*0x40+0x2c, uint32((i+1)*0x40))
	}
	err := RebaseObject(buf, testBase, 0, Options{MaxDepth: 2})
	if !errors.Is(err, c.ErrCyclicGraph) {
		t.Errorf("err = %v, want ErrCyclicGraph", err)
	}

	buf = make([]byte, 6*0x40)
	for i := 0; i < 5; i++ {
		put(buf, i*0x40+0x2c, uint32((i+1)*0x40))
	}
	if err := RebaseObject(buf, testBase, 0, Options{}); err != nil {
		t.Errorf("default depth: %v", err)
	}
}

func TestRebaseObjectLongSiblingList(t *testing.T) {
	const n = 1100
	buf := make([]byte, n*ObjectSize)
	for i := 0; i < n-1; i++ {
		put(buf, i*ObjectSize+0x30, uint32((i+1)*ObjectSize))
	}
	if err := RebaseObject(buf, testBase, 0, Options{}); err != nil {
		t.Fatalf("RebaseObject: %v", err)
	}
	for i := 0; i < n-1; i++ {
		if got, want := get(buf, i*ObjectSize+0x30), testBase+uint32((i+1)*ObjectSize); got != want {
			t.Fatalf("object %d sibling = 0x%08x, want 0x%08x", i, got, want)
		}
	}
	if got := get(buf, (n-1)*ObjectSize+0x30); got != 0 {
		t.Errorf("last sibling = 0x%08x, want 0", got)
	}
}

func TestRebaseObjectSiblingCycle(t *testing.T) {
	buf := make([]byte, 3*ObjectSize)
	put(buf, 0*ObjectSize+0x30, ObjectSize)
	put(buf, 1*ObjectSize+0x30, 2*ObjectSize)
	put(buf, 2*ObjectSize+0x30, ObjectSize)
	err := RebaseObject(buf, testBase, 0, Options{})
	if !errors.Is(err, c.ErrCyclicGraph) {
		t.Errorf("err = %v, want ErrCyclicGraph", err)
	}
}

func TestRebaseObjectOutOfBounds(t *testing.T) {
	tests := []struct {
		name  string
		setup func(buf []byte)
		root  uint32
	}{
		{"root past end", func([]byte) {}, 0x40},
		{"child past end", func(buf []byte) { put(buf, 0x2c, 0x30) }, 0},
		{"model past end", func(buf []byte) { put(buf, 0x04, 0x3e) }, 0},
		{"points past end", func(buf []byte) { put(buf, 0x04, 0x34); put(buf, 0x34, 0x1000) }, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]byte, 0x40)
			tt.setup(buf)
			err := RebaseObject(buf, testBase, tt.root, Options{})
			if !errors.Is(err, c.ErrInvalidPointer) {
				t.Errorf("err = %v, want ErrInvalidPointer", err)
			}
		})
	}
}

func TestRebaseAddressOverflow(t *testing.T) {
	buf := make([]byte, 0x80)
	put(buf, 0x2c, 0x40)
	err := RebaseObject(buf, 0xffffffe0, 0, Options{})
	if !errors.Is(err, c.ErrInvalidPointer) {
		t.Errorf("err = %v, want ErrInvalidPointer", err)
	}
}

func TestRebaseTexList(t *testing.T) {
	const names, file = 0x08, 0x20
	buf := make([]byte, 0x30)
	put(buf, 0x00, names)
	put(buf, 0x04, 2)
	put(buf, names, file)
	put(buf, names+TexNameSize, 0)
	copy(buf[file:], "kart.pvr\x00")

	if err := RebaseTexList(buf, testBase, 0); err != nil {
		t.Fatalf("RebaseTexList: %v", err)
	}
	if got := get(buf, 0x00); got != testBase+names {
		t.Errorf("textures = 0x%08x", got)
	}
	if got := get(buf, 0x04); got != 2 {
		t.Errorf("count = %d, want 2", got)
	}
	if got := get(buf, names); got != testBase+file {
		t.Errorf("name[0] = 0x%08x", got)
	}
	if got := get(buf, names+TexNameSize); got != 0 {
		t.Errorf("name[1] = 0x%08x, want 0", got)
	}
}

func TestRebaseTexListEmpty(t *testing.T) {
	for _, hdr := range [][2]uint32{{0, 3}, {0x08, 0}} {
		buf := make([]byte, 0x20)
		put(buf, 0, hdr[0])
		put(buf, 4, hdr[1])
		before := bytes.Clone(buf)
		if err := RebaseTexList(buf, testBase, 0); err != nil {
			t.Fatalf("header %v: %v", hdr, err)
		}
		if !bytes.Equal(buf, before) {
			t.Errorf("header %v: buffer changed", hdr)
		}
	}
}

func TestRebaseTexListCountTooLarge(t *testing.T) {
	buf := make([]byte, 0x20)
	put(buf, 0, 0x08)
	put(buf, 4, 0xffffffff)
	err := RebaseTexList(buf, testBase, 0)
	if !errors.Is(err, c.ErrInvalidPointer) {
		t.Errorf("err = %v, want ErrInvalidPointer", err)
	}
}
