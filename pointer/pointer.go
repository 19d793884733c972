// Package pointer reads the reference fields of the DLC save format: 32-bit
// values that name a position elsewhere in the same stream.
//
// Every reader consumes the field itself and leaves the stream positioned
// directly after it, whatever it had to read at the target.
package pointer

import (
	"encoding/binary"
	"fmt"
	"io"

	c "github.com/sourcekris/kartdlc/common"
)

// ReadFunc decodes a T at the current stream position.
type ReadFunc[T any] func(rs io.ReadSeeker) (T, error)

// Region is an offset+length descriptor together with the bytes it names.
type Region struct {
	Offset uint32
	Length uint32
	Data   []byte
}

// ReadUint32 reads one little-endian 32-bit value.
func ReadUint32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, c.IOError("reading u32", err)
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// Absolute reads a pointer stored as a stream position and decodes the T it
// points to. A zero pointer is never followed.
func Absolute[T any](rs io.ReadSeeker, read ReadFunc[T]) (T, error) {
	var zero T
	addr, err := ReadUint32(rs)
	if err != nil {
		return zero, fmt.Errorf("absolute pointer: %w", err)
	}
	if addr == 0 {
		return zero, c.Errorf(c.ErrInvalidPointer, "absolute pointer: null")
	}
	return follow(rs, int64(addr), read)
}

// BaseRelative reads a pointer stored as base + position. A stored value
// below base is rejected rather than wrapped.
func BaseRelative[T any](rs io.ReadSeeker, base uint32, read ReadFunc[T]) (T, error) {
	var zero T
	raw, err := ReadUint32(rs)
	if err != nil {
		return zero, fmt.Errorf("base-relative pointer: %w", err)
	}
	addr, err := Rebase(raw, base)
	if err != nil {
		return zero, err
	}
	return follow(rs, int64(addr), read)
}

// Rebase converts a stored base-relative value to a stream position.
func Rebase(raw, base uint32) (uint32, error) {
	if raw < base {
		return 0, c.Errorf(c.ErrInvalidPointer, "base-relative pointer 0x%08x below base 0x%08x", raw, base)
	}
	return raw - base, nil
}

// ReadRegion reads an offset and a length and copies exactly that many bytes
// from the offset. A zero length yields an empty region without seeking.
func ReadRegion(rs io.ReadSeeker) (Region, error) {
	offset, err := ReadUint32(rs)
	if err != nil {
		return Region{}, fmt.Errorf("region offset: %w", err)
	}
	length, err := ReadUint32(rs)
	if err != nil {
		return Region{}, fmt.Errorf("region length: %w", err)
	}
	region := Region{Offset: offset, Length: length}
	if length == 0 {
		region.Data = []byte{}
		return region, nil
	}
	if offset == 0 {
		return Region{}, c.Errorf(c.ErrInvalidPointer, "region of 0x%x bytes at null offset", length)
	}

	size, err := c.Size(rs)
	if err != nil {
		return Region{}, err
	}
	if int64(offset)+int64(length) > size {
		return Region{}, c.Errorf(c.ErrTruncatedInput, "region 0x%08x+0x%x exceeds stream of 0x%x bytes", offset, length, size)
	}

	region.Data, err = follow(rs, int64(offset), func(rs io.ReadSeeker) ([]byte, error) {
		data := make([]byte, length)
		if _, err := io.ReadFull(rs, data); err != nil {
			return nil, c.IOError("reading region data", err)
		}
		return data, nil
	})
	if err != nil {
		return Region{}, err
	}
	return region, nil
}

// ReadCString fills dst with at most len(dst) bytes, stopping at the first zero byte or at the
// end of the stream. Bytes after the terminator are left zero.
func ReadCString(rs io.Reader, dst []byte) error {
	var b [1]byte
	for i := range dst {
		_, err := io.ReadFull(rs, b[:])
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return c.IOError("reading string", err)
		}
		if b[0] == 0 {
			return nil
		}
		dst[i] = b[0]
	}
	return nil
}

// follow seeks to addr, runs read and restores the position it found.
func follow[T any](rs io.ReadSeeker, addr int64, read ReadFunc[T]) (T, error) {
	var zero T
	saved, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return zero, c.IOError("getting current position", err)
	}
	size, err := c.Size(rs)
	if err != nil {
		return zero, err
	}
	if addr >= size {
		return zero, c.Errorf(c.ErrInvalidPointer, "pointer 0x%08x beyond stream of 0x%x bytes", addr, size)
	}
	if _, err := rs.Seek(addr, io.SeekStart); err != nil {
		return zero, c.IOError(fmt.Sprintf("seeking to 0x%08x", addr), err)
	}
	value, err := read(rs)
	if err != nil {
		return zero, fmt.Errorf("at 0x%08x: %w", addr, err)
	}
	if _, err := rs.Seek(saved, io.SeekStart); err != nil {
		return zero, c.IOError("restoring position", err)
	}
	return value, nil
}
