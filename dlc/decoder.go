// Package dlc decodes kart DLC save records into a single self-contained
// record whose model pointers are valid for the buffers that hold them.
package dlc

import (
	"bytes"
	"fmt"
	"io"

	c "github.com/sourcekris/kartdlc/common"
	"github.com/sourcekris/kartdlc/logging"
	"github.com/sourcekris/kartdlc/pointer"
	"github.com/sourcekris/kartdlc/prs"
)

const (
	// DefaultBase is the address the save image is loaded at on the VMU;
	// base-relative pointers in the save are stored against it.
	DefaultBase uint32 = 0x8cb00000

	LengthOffset = 0x48  // declared length of the save data
	DataOffset   = 0x280 // start of the save data

	TextSlots          = 6
	PopulatedTextSlots = 5
	LevelCount         = 8
)

// Decompressor expands the compressed payload starting at the current
// position of r, consuming it.
type Decompressor interface {
	Decompress(r io.Reader) ([]byte, error)
}

// Options configures a Decoder. Zero values select the defaults.
type Options struct {
	Base         uint32       // DefaultBase when zero
	Decompressor Decompressor // PRS when nil
	Addresser    Addresser    // HeapAddresser when nil
	MaxDepth     int          // ninja.DefaultMaxDepth when zero
	Logger       *logging.Logger
}

// Decoder decodes save records. It holds no per-decode state, so one Decoder
// may decode independent records concurrently.
type Decoder struct {
	opts  Options
	addr  Addresser
	unzip Decompressor
	log   *logging.Logger
}

// NewDecoder returns a Decoder with the defaults filled in for zero options.
func NewDecoder(opts Options) *Decoder {
	if opts.Base == 0 {
		opts.Base = DefaultBase
	}
	d := &Decoder{
		opts:  opts,
		addr:  opts.Addresser,
		unzip: opts.Decompressor,
		log:   opts.Logger,
	}
	if d.addr == nil {
		d.addr = HeapAddresser{}
	}
	if d.unzip == nil {
		d.unzip = prs.Decompressor{}
	}
	if d.log == nil {
		d.log = logging.Discard()
	}
	return d
}

// SaveRecord is one decoded DLC save.
type SaveRecord struct {
	Type uint32
	// Only the first PopulatedTextSlots blocks are read; the last slot is
	// always zero.
	Texts  [TextSlots]TextBlock
	Levels [LevelCount]uint32
	// PayloadOffset is the position of the compressed payload in the save
	// data, after subtracting the base.
	PayloadOffset uint32
	Payload       Payload
}

// Decode decodes a save record with default options.
func Decode(rs io.ReadSeeker) (*SaveRecord, error) {
	return NewDecoder(Options{}).Decode(rs)
}

// Decode reads a whole save record from rs. Any failure aborts the decode and
// no record is returned.
func (d *Decoder) Decode(rs io.ReadSeeker) (*SaveRecord, error) {
	data, err := readSaveData(rs)
	if err != nil {
		return nil, err
	}
	vmu := bytes.NewReader(data)
	rec := &SaveRecord{}

	// 1. Type tag
	if rec.Type, err = pointer.ReadUint32(vmu); err != nil {
		return nil, fmt.Errorf("dlc type: %w", err)
	}
	d.log.Debugf("dlc type %d", rec.Type)

	// 2. Text blocks, each behind a base-relative pointer
	readBlock := func(rs io.ReadSeeker) (TextBlock, error) {
		return ReadTextBlock(rs, d.opts.Base)
	}
	for i := 0; i < PopulatedTextSlots; i++ {
		if rec.Texts[i], err = pointer.BaseRelative(vmu, d.opts.Base, readBlock); err != nil {
			return nil, fmt.Errorf("text block %d: %w", i, err)
		}
		d.log.Debugf("text block %d: %q", i, rec.Texts[i].Title.String())
	}

	// 3. Level IDs
	for i := range rec.Levels {
		if rec.Levels[i], err = pointer.ReadUint32(vmu); err != nil {
			return nil, fmt.Errorf("level %d: %w", i, err)
		}
	}

	// 4. Compressed payload
	raw, err := pointer.ReadUint32(vmu)
	if err != nil {
		return nil, fmt.Errorf("payload pointer: %w", err)
	}
	if rec.PayloadOffset, err = pointer.Rebase(raw, d.opts.Base); err != nil {
		return nil, fmt.Errorf("payload pointer: %w", err)
	}
	if int64(rec.PayloadOffset) >= int64(len(data)) {
		return nil, c.Errorf(c.ErrInvalidPointer, "payload at 0x%08x beyond save data of 0x%x bytes", rec.PayloadOffset, len(data))
	}
	if _, err := vmu.Seek(int64(rec.PayloadOffset), io.SeekStart); err != nil {
		return nil, c.IOError("seeking to payload", err)
	}
	decoded, err := d.unzip.Decompress(vmu)
	if err != nil {
		if !c.IsKind(err) {
			err = fmt.Errorf("%w: %w", c.ErrDecompression, err)
		}
		return nil, fmt.Errorf("payload at 0x%08x: %w", rec.PayloadOffset, err)
	}
	d.log.Debugf("payload at 0x%08x expanded to 0x%x bytes", rec.PayloadOffset, len(decoded))

	// 5. Decompressed payload
	if rec.Payload, err = d.readPayload(decoded); err != nil {
		return nil, fmt.Errorf("payload: %w", err)
	}
	return rec, nil
}

// readSaveData reads the declared length at LengthOffset and returns that
// many bytes starting at DataOffset.
func readSaveData(rs io.ReadSeeker) ([]byte, error) {
	size, err := c.Size(rs)
	if err != nil {
		return nil, err
	}
	if _, err := rs.Seek(LengthOffset, io.SeekStart); err != nil {
		return nil, c.IOError("seeking to data length", err)
	}
	length, err := pointer.ReadUint32(rs)
	if err != nil {
		return nil, fmt.Errorf("data length: %w", err)
	}
	if DataOffset+int64(length) > size {
		return nil, c.Errorf(c.ErrTruncatedInput, "save declares 0x%x data bytes, stream holds 0x%x", length, size-DataOffset)
	}
	if _, err := rs.Seek(DataOffset, io.SeekStart); err != nil {
		return nil, c.IOError("seeking to data", err)
	}
	data := make([]byte, length)
	if _, err := io.ReadFull(rs, data); err != nil {
		return nil, c.IOError("reading save data", err)
	}
	return data, nil
}
