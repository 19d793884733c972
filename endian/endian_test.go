package endian

import (
	"bytes"
	"errors"
	"testing"

	c "github.com/sourcekris/kartdlc/common"
)

func counting(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i)
	}
	return b
}

func TestSetDataLayoutCoversRecord(t *testing.T) {
	covered := make([]bool, SetDataRecordSize)
	for _, off := range SetDataHalfwords {
		covered[off], covered[off+1] = true, true
	}
	for _, off := range SetDataWords {
		for i := 0; i < 4; i++ {
			covered[off+i] = true
		}
	}
	for i, ok := range covered {
		if !ok {
			t.Errorf("record byte %d not covered", i)
		}
	}
}

func TestFixSetDataRecord(t *testing.T) {
	b := counting(64)
	FixSetData(b)

	if !bytes.Equal(b[:32], counting(32)) {
		t.Error("header record modified")
	}
	want := []byte{
		33, 32, 35, 34, 37, 36, 39, 38,
		43, 42, 41, 40,
		47, 46, 45, 44,
		51, 50, 49, 48,
		55, 54, 53, 52,
		59, 58, 57, 56,
		63, 62, 61, 60,
	}
	if !bytes.Equal(b[32:], want) {
		t.Errorf("record = %v\nwant     %v", b[32:], want)
	}
}

func TestFixSetDataTwiceRestores(t *testing.T) {
	orig := counting(32 * 5)
	b := bytes.Clone(orig)

	FixSetData(b)
	if bytes.Equal(b, orig) {
		t.Fatal("single pass left data unchanged")
	}
	FixSetData(b)
	if !bytes.Equal(b, orig) {
		t.Error("second pass did not restore the original")
	}
}

func TestFixSetDataPartialRecord(t *testing.T) {
	for _, n := range []int{0, 10, 32, 33, 63} {
		b := counting(n)
		FixSetData(b)
		if !bytes.Equal(b, counting(n)) {
			t.Errorf("len %d: bytes changed without a complete record", n)
		}
	}

	b := counting(32 + 32 + 20)
	FixSetData(b)
	if !bytes.Equal(b[64:], counting(84)[64:]) {
		t.Error("trailing partial record modified")
	}
	if b[32] != 33 {
		t.Error("complete record not fixed")
	}
}

func TestFixTextureArchive(t *testing.T) {
	b := counting(TextureArchiveMinLen)
	if err := FixTextureArchive(b); err != nil {
		t.Fatalf("FixTextureArchive: %v", err)
	}
	if b[8] != 9 || b[9] != 8 || b[10] != 11 || b[11] != 10 {
		t.Errorf("header halfwords = %v", b[8:12])
	}
	for i := 0; i < TextureEntryCount; i++ {
		at := TextureEntryOffset + i*TextureEntryStride
		want := []byte{byte(at + 3), byte(at + 2), byte(at + 1), byte(at)}
		if !bytes.Equal(b[at:at+4], want) {
			t.Errorf("entry %d at 0x%x = %v, want %v", i, at, b[at:at+4], want)
		}
	}
	if b[0] != 0 || b[TextureEntryOffset-1] != TextureEntryOffset-1 {
		t.Error("bytes outside corrected fields changed")
	}

	if err := FixTextureArchive(b); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b, counting(TextureArchiveMinLen)) {
		t.Error("second pass did not restore the original")
	}
}

func TestFixTextureArchiveShort(t *testing.T) {
	b := counting(TextureArchiveMinLen - 1)
	err := FixTextureArchive(b)
	if !errors.Is(err, c.ErrTruncatedInput) {
		t.Errorf("err = %v, want ErrTruncatedInput", err)
	}
	if !bytes.Equal(b, counting(TextureArchiveMinLen-1)) {
		t.Error("short buffer modified")
	}
}

func TestTextureArchiveMinLen(t *testing.T) {
	if TextureArchiveMinLen != 0xa4 {
		t.Errorf("TextureArchiveMinLen = 0x%x, want 0xa4", TextureArchiveMinLen)
	}
}
