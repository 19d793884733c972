// Package dcl decompresses payloads stored as PKWare DCL implode streams.
package dcl

import (
	"fmt"
	"io"

	"github.com/JoshVarga/blast"

	c "github.com/sourcekris/kartdlc/common"
)

// DefaultMaxSize bounds the output of a Decompressor with no MaxSize.
const DefaultMaxSize = 16 << 20

// Decompressor expands a DCL stream read from the current position. The
// stream carries its own end code, so the decompressed length need not be
// known up front.
type Decompressor struct {
	// MaxSize bounds the decompressed length.
	MaxSize int64
}

// Decompress reads one DCL stream from r using the blast package.
func (d Decompressor) Decompress(r io.Reader) ([]byte, error) {
	limit := d.MaxSize
	if limit <= 0 {
		limit = DefaultMaxSize
	}

	blastReader, err := blast.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("DCL: creating blast reader: %w: %w", c.ErrDecompression, err)
	}
	defer blastReader.Close()

	data, err := io.ReadAll(io.LimitReader(blastReader, limit+1))
	if err != nil {
		return nil, fmt.Errorf("DCL: decompressing data (read %d bytes): %w: %w", len(data), c.ErrDecompression, err)
	}
	if int64(len(data)) > limit {
		return nil, c.Errorf(c.ErrDecompression, "DCL: output exceeds %d bytes", limit)
	}
	if len(data) == 0 {
		return nil, c.Errorf(c.ErrDecompression, "DCL: empty stream")
	}
	return data, nil
}
