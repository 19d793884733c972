package dlc

import (
	"bytes"
	"fmt"

	"github.com/sourcekris/kartdlc/endian"
	"github.com/sourcekris/kartdlc/pointer"
)

// Payload is the decompressed part of a DLC save.
type Payload struct {
	Kart      KartDlc
	SetData   []byte // object placement records, byte order corrected
	TrackData []byte
	Model     ModelData
}

func (d *Decoder) readPayload(data []byte) (Payload, error) {
	rs := bytes.NewReader(data)
	var p Payload

	kart, err := pointer.Absolute(rs, ReadKartDlc)
	if err != nil {
		return Payload{}, fmt.Errorf("kart: %w", err)
	}
	p.Kart = kart
	d.log.Debugf("kart song %q, ai flag %d", kart.Song(), kart.AIUseDlcKart)

	set, err := pointer.ReadRegion(rs)
	if err != nil {
		return Payload{}, fmt.Errorf("set data: %w", err)
	}
	d.log.Debugf("set data at 0x%08x, 0x%x bytes", set.Offset, set.Length)
	endian.FixSetData(set.Data)
	p.SetData = set.Data

	track, err := pointer.ReadRegion(rs)
	if err != nil {
		return Payload{}, fmt.Errorf("track data: %w", err)
	}
	d.log.Debugf("track data at 0x%08x, 0x%x bytes", track.Offset, track.Length)
	p.TrackData = track.Data

	model, err := pointer.ReadRegion(rs)
	if err != nil {
		return Payload{}, fmt.Errorf("model data: %w", err)
	}
	d.log.Debugf("model data at 0x%08x, 0x%x bytes", model.Offset, model.Length)
	if p.Model, err = d.readModelData(model.Data); err != nil {
		return Payload{}, fmt.Errorf("model data: %w", err)
	}
	return p, nil
}
