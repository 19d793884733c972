// Package endian corrects fields that are stored in the opposite byte order
// from the data around them. The corrections are positional: the same bytes
// are swapped whatever they hold, so applying a pass twice restores the input.
package endian

import (
	c "github.com/sourcekris/kartdlc/common"
)

// Texture archive header positions.
const (
	TextureFlagsOffset   = 0x08 // 16-bit type/flags field
	TextureCountOffset   = 0x0a // 16-bit texture count
	TextureEntryOffset   = 0x2e // first 4-byte entry field
	TextureEntryStride   = 0x26
	TextureEntryCount    = 4
	TextureArchiveMinLen = TextureEntryOffset + (TextureEntryCount-1)*TextureEntryStride + 4
)

// Set data record layout.
const (
	SetDataStart      = 32 // the first record is a header and keeps its order
	SetDataRecordSize = 32
)

// SetDataHalfwords are the record offsets of the 16-bit fields; SetDataWords
// the offsets of the 32-bit fields.
var (
	SetDataHalfwords = [...]int{0, 2, 4, 6}
	SetDataWords     = [...]int{8, 12, 16, 20, 24, 28}
)

func swap16(b []byte, at int) {
	b[at], b[at+1] = b[at+1], b[at]
}

func swap32(b []byte, at int) {
	b[at], b[at+3] = b[at+3], b[at]
	b[at+1], b[at+2] = b[at+2], b[at+1]
}

// FixTextureArchive swaps the flags and count halfwords of a texture archive
// header and reverses the four entry words. A buffer too short to hold the
// last entry word is rejected and left untouched.
func FixTextureArchive(b []byte) error {
	if len(b) < TextureArchiveMinLen {
		return c.Errorf(c.ErrTruncatedInput, "texture archive of 0x%x bytes, need 0x%x", len(b), TextureArchiveMinLen)
	}
	swap16(b, TextureFlagsOffset)
	swap16(b, TextureCountOffset)
	for i := 0; i < TextureEntryCount; i++ {
		swap32(b, TextureEntryOffset+i*TextureEntryStride)
	}
	return nil
}

// FixSetData corrects every complete 32-byte record after the header record.
// A trailing partial record is left as it is.
func FixSetData(b []byte) {
	for rec := SetDataStart; rec+SetDataRecordSize <= len(b); rec += SetDataRecordSize {
		for _, off := range SetDataHalfwords {
			swap16(b, rec+off)
		}
		for _, off := range SetDataWords {
			swap32(b, rec+off)
		}
	}
}
