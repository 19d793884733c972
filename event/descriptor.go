package event

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/sourcekris/kartdlc/dlc"
)

// DescriptorSize is the stride of the game's event table.
const DescriptorSize = 0xf3c

// Descriptor is one entry of the game's event table.
type Descriptor struct {
	Unknown1 uint32
	EventID  uint32 // non-zero marks the slot as present
	Unknown2 uint32
	Unknown3 uint32
	Unknown4 uint32
	Unknown5 uint32
	Type     uint32
	Levels   [dlc.LevelCount]uint32
	Texts    [dlc.TextSlots]dlc.TextBlock
}

// NewDescriptor builds the table entry for a decoded save.
func NewDescriptor(rec *dlc.SaveRecord) Descriptor {
	return Descriptor{
		EventID: 1,
		Type:    rec.Type,
		Levels:  rec.Levels,
		Texts:   rec.Texts,
	}
}

// MarshalBinary encodes the entry as the game lays it out.
func (d Descriptor) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(DescriptorSize)
	if err := binary.Write(&buf, binary.LittleEndian, d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteEventTable writes the descriptor of every event to w, entry i at
// table + i*DescriptorSize. w addresses the target's memory.
func (c *Catalog) WriteEventTable(w io.WriterAt, table int64) error {
	for i, e := range c.Entries {
		b, err := NewDescriptor(e.Record).MarshalBinary()
		if err != nil {
			return fmt.Errorf("encoding event %d: %w", i, err)
		}
		at := table + int64(i)*DescriptorSize
		if _, err := w.WriteAt(b, at); err != nil {
			return fmt.Errorf("writing event %d at 0x%08x: %w", i, at, err)
		}
	}
	return nil
}
