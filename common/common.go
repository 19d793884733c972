// Package common holds the codec identifiers, error kinds and stream helpers
// shared by the kart DLC decoding packages.
package common

import (
	"fmt"
	"io"
	"strings"
)

// Codec identifies the compression used for the payload embedded in a save.
type Codec int

const (
	// CodecPRS represents the Sega PRS (LZ77) stream used by the retail saves.
	CodecPRS Codec = iota
	// CodecDCL represents a PKWare DCL implode stream.
	CodecDCL
	// CodecUnknown represents an unrecognised codec name.
	CodecUnknown
)

// String returns the string representation of the Codec
func (c Codec) String() string {
	switch c {
	case CodecPRS:
		return "PRS"
	case CodecDCL:
		return "DCL"
	default:
		return "Unknown"
	}
}

// ParseCodec maps a configuration value to a Codec.
func ParseCodec(name string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "prs":
		return CodecPRS, nil
	case "dcl", "implode", "blast":
		return CodecDCL, nil
	default:
		return CodecUnknown, fmt.Errorf("unknown codec %q", name)
	}
}

// Size reports the total length of rs and restores the current position.
func Size(rs io.Seeker) (int64, error) {
	cur, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, IOError("getting current position", err)
	}
	end, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, IOError("seeking to end", err)
	}
	if _, err := rs.Seek(cur, io.SeekStart); err != nil {
		return 0, IOError("restoring position", err)
	}
	return end, nil
}
