package dlc

import (
	"bytes"
	"encoding/binary"
	"io"

	c "github.com/sourcekris/kartdlc/common"
)

// KartStats is the kart physics tuning block. Field order is the wire order.
type KartStats struct {
	Accel          float32
	BrakeForce     float32
	NoAccelForce   float32
	MaxDriveSpeed  float32
	Gravity        float32
	Unknown1       float32
	DriftFactor    float32
	DriftThreshold float32
	Unknown2       float32
	HardSpeedCap   float32
}

// KartDlc is the kart block of a DLC payload: stats, the autorun handicaps
// for both handicap sets, whether the AI may drive the DLC kart and the song
// to play. Field order is the wire order.
type KartDlc struct {
	Stats KartStats

	AutorunSlotHandicap1     float32
	AutorunRankHandicap1     float32
	AutorunNotFirstHandicap1 float32
	AutorunSlotHandicap2     float32
	AutorunRankHandicap2     float32
	AutorunNotFirstHandicap2 float32

	AIUseDlcKart uint32
	SongName     [64]byte
}

const (
	KartStatsSize = 0x28
	KartDlcSize   = 0x84
)

// ReadKartStats reads the ten stats floats.
func ReadKartStats(r io.Reader) (KartStats, error) {
	var s KartStats
	if err := binary.Read(r, binary.LittleEndian, &s); err != nil {
		return KartStats{}, c.IOError("reading kart stats", err)
	}
	return s, nil
}

// ReadKartDlc reads a KartDlc block at the current position.
func ReadKartDlc(rs io.ReadSeeker) (KartDlc, error) {
	var k KartDlc
	if err := binary.Read(rs, binary.LittleEndian, &k); err != nil {
		return KartDlc{}, c.IOError("reading kart dlc", err)
	}
	return k, nil
}

// Song returns the song identifier up to its terminator, e.g. "a_mine.adx".
func (k KartDlc) Song() string {
	if i := bytes.IndexByte(k.SongName[:], 0); i >= 0 {
		return string(k.SongName[:i])
	}
	return string(k.SongName[:])
}

// MarshalBinary encodes the block in the layout the game reads it from.
func (k KartDlc) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(KartDlcSize)
	if err := binary.Write(&buf, binary.LittleEndian, k); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
