package dlc

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"
)

// image builds a little-endian byte layout with forward references patched
// in once their targets are placed.
type image struct{ b []byte }

func (im *image) u32(v uint32) int {
	off := len(im.b)
	im.b = binary.LittleEndian.AppendUint32(im.b, v)
	return off
}

func (im *image) raw(p []byte) int {
	off := len(im.b)
	im.b = append(im.b, p...)
	return off
}

func (im *image) patch(at int, v uint32) {
	binary.LittleEndian.PutUint32(im.b[at:], v)
}

func (im *image) here() uint32 { return uint32(len(im.b)) }

// saveLayout describes a save record to build.
type saveLayout struct {
	Type    uint32
	Texts   [PopulatedTextSlots][5]string
	Levels  [LevelCount]uint32
	Payload []byte
}

// buildSave lays out the save data and wraps it in a save file with the
// declared length at LengthOffset and the data at DataOffset.
func buildSave(s saveLayout) []byte {
	im := &image{}
	im.u32(s.Type)
	var blockPtrs [PopulatedTextSlots]int
	for i := range blockPtrs {
		blockPtrs[i] = im.u32(0)
	}
	for _, l := range s.Levels {
		im.u32(l)
	}
	payloadPtr := im.u32(0)

	for i, block := range s.Texts {
		im.patch(blockPtrs[i], DefaultBase+im.here())
		var fieldPtrs [5]int
		for j := range fieldPtrs {
			fieldPtrs[j] = im.u32(0)
		}
		for j, text := range block {
			im.patch(fieldPtrs[j], DefaultBase+im.here())
			im.raw(append([]byte(text), 0))
		}
	}
	im.patch(payloadPtr, DefaultBase+im.here())
	im.raw(s.Payload)

	file := make([]byte, DataOffset)
	copy(file, "KART DLC")
	binary.LittleEndian.PutUint32(file[LengthOffset:], uint32(len(im.b)))
	return append(file, im.b...)
}

// buildPayload lays out a decompressed payload: kart pointer, three region
// descriptors, then the data they name.
func buildPayload(t *testing.T, kart KartDlc, set, track, model []byte) []byte {
	t.Helper()
	kartBytes, err := kart.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	im := &image{}
	kartPtr := im.u32(0)
	var hdrs [3]int
	regions := [][]byte{set, track, model}
	for i, r := range regions {
		hdrs[i] = im.u32(0)
		im.u32(uint32(len(r)))
	}
	im.patch(kartPtr, im.here())
	im.raw(kartBytes)
	for i, r := range regions {
		if len(r) > 0 {
			im.patch(hdrs[i], im.here())
			im.raw(r)
		}
	}
	return im.b
}

// buildModelData lays out a model-data region: three descriptors followed by
// the model, texlist and texture buffers.
func buildModelData(model, texlist, texture []byte) []byte {
	im := &image{}
	var hdrs [3]int
	bufs := [][]byte{model, texlist, texture}
	for i, b := range bufs {
		hdrs[i] = im.u32(0)
		im.u32(uint32(len(b)))
	}
	for i, b := range bufs {
		im.patch(hdrs[i], im.here())
		im.raw(b)
	}
	return im.b
}

func counting(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i)
	}
	return b
}

// minimalModelData holds one object with no pointers at offset 0, an empty
// texture list at offset 0 and a texture archive of the minimum size.
func minimalModelData() []byte {
	return buildModelData(make([]byte, 0x34), make([]byte, 8), counting(0xa4))
}

type fakeDecompressor struct {
	out []byte
	err error
}

func (f fakeDecompressor) Decompress(io.Reader) ([]byte, error) {
	return bytes.Clone(f.out), f.err
}
