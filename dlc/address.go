package dlc

import (
	"sync"
	"unsafe"

	c "github.com/sourcekris/kartdlc/common"
)

// Addresser reports the 32-bit address a buffer is resident at. Rebased
// pointers are computed from it, so the buffer must not be moved or freed
// while they are in use.
type Addresser interface {
	Address(buf []byte) (uint32, error)
}

// HeapAddresser returns the real address of the buffer. It only succeeds
// when the buffer lies below 4 GiB, as it does in a 32-bit host process.
type HeapAddresser struct{}

// Address returns the address of the first byte of buf.
func (HeapAddresser) Address(buf []byte) (uint32, error) {
	if len(buf) == 0 {
		return 0, c.Errorf(c.ErrInvalidPointer, "empty buffer has no address")
	}
	p := uint64(uintptr(unsafe.Pointer(unsafe.SliceData(buf))))
	if p+uint64(len(buf)) > 0xffffffff {
		return 0, c.Errorf(c.ErrInvalidPointer, "buffer at 0x%x is not 32-bit addressable", p)
	}
	return uint32(p), nil
}

// SequentialAddresser hands out consecutive aligned addresses starting at
// Next rounded up to Align, as a loader copying the buffers into a fixed
// arena would.
type SequentialAddresser struct {
	mu    sync.Mutex
	Next  uint32
	Align uint32 // 32 when zero
}

// Address returns Next rounded up to Align and advances Next past buf.
func (s *SequentialAddresser) Address(buf []byte) (uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	align := uint64(s.Align)
	if align == 0 {
		align = 32
	}
	addr := (uint64(s.Next) + align - 1) / align * align
	end := (addr + uint64(len(buf)) + align - 1) / align * align
	if end > 0xffffffff {
		return 0, c.Errorf(c.ErrInvalidPointer, "arena exhausted at 0x%08x", s.Next)
	}
	s.Next = uint32(end)
	return uint32(addr), nil
}
