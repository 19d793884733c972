package dlc

import (
	"bytes"
	"encoding/binary"
	"fmt"

	c "github.com/sourcekris/kartdlc/common"
	"github.com/sourcekris/kartdlc/endian"
	"github.com/sourcekris/kartdlc/ninja"
	"github.com/sourcekris/kartdlc/pointer"
)

// ModelData is the kart model carried by a DLC payload.
//
// Model and TexList have been rebased in place against ModelBase and
// TexListBase; ModelPtr and TexListPtr are the absolute addresses of their
// root structures. All four addresses stay valid only while the two buffers
// are neither moved nor freed.
type ModelData struct {
	Model   []byte
	TexList []byte
	Texture []byte

	ModelBase   uint32
	TexListBase uint32
	ModelPtr    uint32
	TexListPtr  uint32
}

func rootOffset(buf []byte, what string) (uint32, error) {
	if len(buf) < 4 {
		return 0, c.Errorf(c.ErrTruncatedInput, "%s region of %d bytes has no root offset", what, len(buf))
	}
	return binary.LittleEndian.Uint32(buf), nil
}

// readModelData parses a model-data region. Its offsets are relative to the
// start of data.
func (d *Decoder) readModelData(data []byte) (ModelData, error) {
	rs := bytes.NewReader(data)

	// 1. Regions for the object tree, the texture list and the texture archive
	var regions [3]pointer.Region
	for i, name := range []string{"model", "texlist", "texture"} {
		r, err := pointer.ReadRegion(rs)
		if err != nil {
			return ModelData{}, fmt.Errorf("%s region: %w", name, err)
		}
		d.log.Debugf("%s region at 0x%08x, 0x%x bytes", name, r.Offset, r.Length)
		regions[i] = r
	}
	m := ModelData{
		Model:   regions[0].Data,
		TexList: regions[1].Data,
		Texture: regions[2].Data,
	}

	// 2. Rebase the object tree against the model buffer
	objOffset, err := rootOffset(m.Model, "model")
	if err != nil {
		return ModelData{}, err
	}
	if m.ModelBase, err = d.addr.Address(m.Model); err != nil {
		return ModelData{}, fmt.Errorf("model buffer: %w", err)
	}
	if m.ModelPtr, err = ninja.Address(m.ModelBase, objOffset, ninja.ObjectSize, len(m.Model)); err != nil {
		return ModelData{}, fmt.Errorf("model root: %w", err)
	}
	if err := ninja.RebaseObject(m.Model, m.ModelBase, objOffset, ninja.Options{MaxDepth: d.opts.MaxDepth}); err != nil {
		return ModelData{}, fmt.Errorf("rebasing model: %w", err)
	}

	// 3. Rebase the texture list against its own buffer
	texOffset, err := rootOffset(m.TexList, "texlist")
	if err != nil {
		return ModelData{}, err
	}
	if m.TexListBase, err = d.addr.Address(m.TexList); err != nil {
		return ModelData{}, fmt.Errorf("texlist buffer: %w", err)
	}
	if m.TexListPtr, err = ninja.Address(m.TexListBase, texOffset, ninja.TexListSize, len(m.TexList)); err != nil {
		return ModelData{}, fmt.Errorf("texlist root: %w", err)
	}
	if err := ninja.RebaseTexList(m.TexList, m.TexListBase, texOffset); err != nil {
		return ModelData{}, fmt.Errorf("rebasing texlist: %w", err)
	}

	// 4. Texture archive header fields
	if err := endian.FixTextureArchive(m.Texture); err != nil {
		return ModelData{}, fmt.Errorf("texture archive: %w", err)
	}

	d.log.Debugf("model root 0x%08x, texlist root 0x%08x", m.ModelPtr, m.TexListPtr)
	return m, nil
}
