package ninja

import (
	c "github.com/sourcekris/kartdlc/common"
)

// DefaultMaxDepth bounds child recursion when Options.MaxDepth is 0.
const DefaultMaxDepth = 1024

// Options tunes a rebase.
type Options struct {
	// MaxDepth is the deepest chain of child links followed before the
	// graph is rejected as cyclic. Sibling links do not count.
	MaxDepth int
}

// rebaser rewrites one buffer. objects and models record the offsets already
// rewritten so that a revisit is detected instead of rebased twice.
type rebaser struct {
	buf      []byte
	base     uint32
	maxDepth int
	objects  map[uint32]bool
	models   map[uint32]bool
}

func newRebaser(buf []byte, base uint32, opts Options) *rebaser {
	depth := opts.MaxDepth
	if depth <= 0 {
		depth = DefaultMaxDepth
	}
	return &rebaser{
		buf:      buf,
		base:     base,
		maxDepth: depth,
		objects:  make(map[uint32]bool),
		models:   make(map[uint32]bool),
	}
}

// RebaseObject rewrites the object tree rooted at offset in buf. base is the
// address buf is resident at.
func RebaseObject(buf []byte, base, offset uint32, opts Options) error {
	return newRebaser(buf, base, opts).object(offset, 0)
}

// RebaseTexList rewrites the texture list at offset in buf and every
// texture name it references.
func RebaseTexList(buf []byte, base, offset uint32) error {
	return newRebaser(buf, base, Options{}).texList(offset)
}

// Address returns base+local, checking that a structure of size bytes at
// local fits inside a buffer of bufLen bytes and that the sum fits 32 bits.
func Address(base, local uint32, size, bufLen int) (uint32, error) {
	if int64(local)+int64(size) > int64(bufLen) {
		return 0, c.Errorf(c.ErrInvalidPointer, "offset 0x%08x (+0x%x) outside buffer of 0x%x bytes", local, size, bufLen)
	}
	addr := uint64(base) + uint64(local)
	if addr > 0xffffffff {
		return 0, c.Errorf(c.ErrInvalidPointer, "address 0x%x does not fit 32 bits", addr)
	}
	return uint32(addr), nil
}

func (r *rebaser) check(local uint32, size int) error {
	_, err := Address(r.base, local, size, len(r.buf))
	return err
}

// rewrite replaces the local value of f at the structure at `at`. visit is
// run on the target first; the target address does not depend on it.
func (r *rebaser) rewrite(at uint32, f Field, size int, visit func(uint32) error) error {
	local := f.get(r.buf, int(at))
	if local == 0 {
		return nil
	}
	addr, err := Address(r.base, local, size, len(r.buf))
	if err != nil {
		return err
	}
	if visit != nil {
		if err := visit(local); err != nil {
			return err
		}
	}
	f.put(r.buf, int(at), addr)
	return nil
}

// object rewrites the object at offset and its siblings. Only child links
// count toward maxDepth; a sibling list is walked in place.
func (r *rebaser) object(offset uint32, depth int) error {
	if depth > r.maxDepth {
		return c.Errorf(c.ErrCyclicGraph, "object chain deeper than %d", r.maxDepth)
	}
	child := func(o uint32) error { return r.object(o, depth+1) }
	for {
		if r.objects[offset] {
			return c.Errorf(c.ErrCyclicGraph, "object 0x%08x reached twice", offset)
		}
		if err := r.check(offset, ObjectSize); err != nil {
			return err
		}
		r.objects[offset] = true

		if err := r.rewrite(offset, ObjectModel, ModelSize, r.model); err != nil {
			return err
		}
		if err := r.rewrite(offset, ObjectChild, ObjectSize, child); err != nil {
			return err
		}
		sibling := ObjectSibling.get(r.buf, int(offset))
		if sibling == 0 {
			return nil
		}
		if err := r.rewrite(offset, ObjectSibling, ObjectSize, nil); err != nil {
			return err
		}
		offset = sibling
	}
}

// model rewrites the vertex and normal pointers; both point at leaf data.
// A model shared by several objects is rewritten once.
func (r *rebaser) model(offset uint32) error {
	if r.models[offset] {
		return nil
	}
	r.models[offset] = true
	if err := r.rewrite(offset, ModelPoints, 1, nil); err != nil {
		return err
	}
	return r.rewrite(offset, ModelNormals, 1, nil)
}

func (r *rebaser) texList(offset uint32) error {
	if err := r.check(offset, TexListSize); err != nil {
		return err
	}
	names := TexListTextures.get(r.buf, int(offset))
	count := TexListCount.get(r.buf, int(offset))
	if names == 0 || count == 0 {
		return nil
	}
	if uint64(count)*TexNameSize > uint64(len(r.buf)) {
		return c.Errorf(c.ErrInvalidPointer, "texlist at 0x%08x claims %d names", offset, count)
	}
	if err := r.check(names, int(count)*TexNameSize); err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		entry := names + i*TexNameSize
		if err := r.rewrite(entry, TexNameFilename, 1, nil); err != nil {
			return err
		}
	}
	return r.rewrite(offset, TexListTextures, TexNameSize, nil)
}
