package protocol

import (
	"github.com/chrispurusha/g2edit/internal/bitstream"
	"github.com/chrispurusha/g2edit/internal/patchdb"
)

// parsePatchDescr reads a PATCH_DESCRIPTION record body into the slot's
// side tables, in wire order: two opaque fields lead, then voice count,
// bar position, a third opaque field, the seven visibility flags, mono/
// poly, active variation, category, and a trailing opaque field.
func (c *Codec) parsePatchDescr(slot byte, bs *bitstream.BitStream) {
	var d patchdb.PatchDescription
	d.Unknown1 = bs.Read(32)
	d.Unknown2 = bs.Read(29)
	d.VoiceCount = uint8(bs.Read(5))
	d.BarPosition = uint16(bs.Read(14))
	d.Unknown3 = uint8(bs.Read(3))
	d.VisRed = bs.Read(1) != 0
	d.VisBlue = bs.Read(1) != 0
	d.VisYellow = bs.Read(1) != 0
	d.VisOrange = bs.Read(1) != 0
	d.VisGreen = bs.Read(1) != 0
	d.VisPurple = bs.Read(1) != 0
	d.VisWhite = bs.Read(1) != 0
	d.MonoPoly = uint8(bs.Read(2))
	d.ActiveVariation = uint8(bs.Read(8))
	d.Category = uint8(bs.Read(8))
	d.Unknown4 = uint16(bs.Read(12))

	t := c.DB.SideTables(slot)
	t.Description = d
	c.DB.SetSideTables(slot, t)
}

// WritePatchDescr emits a PATCH_DESCRIPTION body for the slot's
// currently stored description, mirroring parsePatchDescr field for
// field.
func (c *Codec) WritePatchDescr(slot byte, bs *bitstream.BitStream) {
	d := c.DB.SideTables(slot).Description
	bs.Write(32, d.Unknown1)
	bs.Write(29, d.Unknown2)
	bs.Write(5, uint32(d.VoiceCount))
	bs.Write(14, uint32(d.BarPosition))
	bs.Write(3, uint32(d.Unknown3))
	bs.Write(1, boolBit(d.VisRed))
	bs.Write(1, boolBit(d.VisBlue))
	bs.Write(1, boolBit(d.VisYellow))
	bs.Write(1, boolBit(d.VisOrange))
	bs.Write(1, boolBit(d.VisGreen))
	bs.Write(1, boolBit(d.VisPurple))
	bs.Write(1, boolBit(d.VisWhite))
	bs.Write(2, uint32(d.MonoPoly))
	bs.Write(8, uint32(d.ActiveVariation))
	bs.Write(8, uint32(d.Category))
	bs.Write(12, uint32(d.Unknown4))
}

func boolBit(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
