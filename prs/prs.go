// Package prs implements the Sega PRS LZ77 codec used for the payload of the
// kart DLC saves.
//
// A stream is a sequence of control bits (read LSB first from control bytes
// interleaved with the data) selecting between:
//
//	1         literal byte
//	0 0 b b   short copy: length bb+2, offset byte-256
//	0 1       long copy: 16-bit word, offset (word>>3)-0x2000, length
//	          (word&7)+2, or next byte+1 when word&7 is zero; word 0 ends
//	          the stream
package prs

import (
	"bytes"
	"fmt"
	"io"

	c "github.com/sourcekris/kartdlc/common"
)

// DefaultMaxSize bounds the output of a Decompressor with no MaxSize.
const DefaultMaxSize = 16 << 20

const (
	shortWindow = 0x100
	longWindow  = 0x1fff
	maxCopy     = 0x100
)

// Decompressor reads one PRS stream from the current position of a reader.
type Decompressor struct {
	// MaxSize bounds the decompressed length.
	MaxSize int
}

// Decompress consumes exactly one PRS stream from r and returns its output.
// r is read byte by byte unless it implements io.ByteReader, so nothing past
// the end marker is consumed.
func (d Decompressor) Decompress(r io.Reader) ([]byte, error) {
	br, ok := r.(io.ByteReader)
	if !ok {
		br = &singleByteReader{r: r}
	}
	limit := d.MaxSize
	if limit <= 0 {
		limit = DefaultMaxSize
	}
	dec := decompressor{src: br, limit: limit}
	out, err := dec.run()
	if err != nil {
		return nil, fmt.Errorf("PRS: %w", err)
	}
	return out, nil
}

// Decompress expands a complete in-memory PRS stream.
func Decompress(src []byte) ([]byte, error) {
	return Decompressor{}.Decompress(bytes.NewReader(src))
}

type singleByteReader struct {
	r   io.Reader
	buf [1]byte
}

func (s *singleByteReader) ReadByte() (byte, error) {
	if _, err := io.ReadFull(s.r, s.buf[:]); err != nil {
		return 0, err
	}
	return s.buf[0], nil
}

type decompressor struct {
	src         io.ByteReader
	controlByte byte
	bitPos      int
	dst         []byte
	limit       int
}

func (d *decompressor) nextByte() (byte, error) {
	b, err := d.src.ReadByte()
	if err == io.EOF {
		return 0, c.Errorf(c.ErrDecompression, "stream ends before end marker")
	}
	if err != nil {
		return 0, c.IOError("reading PRS stream", err)
	}
	return b, nil
}

// nextBit returns the next control bit, loading a new control byte from the
// stream once the current one is used up.
func (d *decompressor) nextBit() (byte, error) {
	if d.bitPos == 0 {
		b, err := d.nextByte()
		if err != nil {
			return 0, err
		}
		d.controlByte = b
		d.bitPos = 8
	}
	bit := d.controlByte & 1
	d.controlByte >>= 1
	d.bitPos--
	return bit, nil
}

func (d *decompressor) emit(b byte) error {
	if len(d.dst) >= d.limit {
		return c.Errorf(c.ErrDecompression, "output exceeds %d bytes", d.limit)
	}
	d.dst = append(d.dst, b)
	return nil
}

func (d *decompressor) copyFrom(offset, length int) error {
	start := len(d.dst) + offset
	if start < 0 {
		return c.Errorf(c.ErrDecompression, "back-reference %d before start of output (at %d)", offset, len(d.dst))
	}
	for i := 0; i < length; i++ {
		if err := d.emit(d.dst[start+i]); err != nil {
			return err
		}
	}
	return nil
}

func (d *decompressor) run() ([]byte, error) {
	d.dst = make([]byte, 0, 4096)
	for {
		bit, err := d.nextBit()
		if err != nil {
			return nil, err
		}
		if bit == 1 {
			b, err := d.nextByte()
			if err != nil {
				return nil, err
			}
			if err := d.emit(b); err != nil {
				return nil, err
			}
			continue
		}

		long, err := d.nextBit()
		if err != nil {
			return nil, err
		}
		if long == 1 {
			lo, err := d.nextByte()
			if err != nil {
				return nil, err
			}
			hi, err := d.nextByte()
			if err != nil {
				return nil, err
			}
			word := int(lo) | int(hi)<<8
			if word == 0 {
				return d.dst, nil
			}
			offset := (word >> 3) | -0x2000
			length := word&7 + 2
			if length == 2 {
				n, err := d.nextByte()
				if err != nil {
					return nil, err
				}
				length = int(n) + 1
			}
			if err := d.copyFrom(offset, length); err != nil {
				return nil, err
			}
			continue
		}

		hi, err := d.nextBit()
		if err != nil {
			return nil, err
		}
		lo, err := d.nextBit()
		if err != nil {
			return nil, err
		}
		length := int(hi<<1|lo) + 2
		b, err := d.nextByte()
		if err != nil {
			return nil, err
		}
		if err := d.copyFrom(int(b)|-0x100, length); err != nil {
			return nil, err
		}
	}
}
