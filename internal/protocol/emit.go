package protocol

import (
	"github.com/chrispurusha/g2edit/internal/bitstream"
	"github.com/chrispurusha/g2edit/internal/patchdb"
)

// writeSubRecord writes subType, a placeholder 16-bit length, runs fn to
// emit the record body, aligns to a byte boundary, then backpatches the
// length field with the number of bytes fn actually wrote.
func writeSubRecord(bs *bitstream.BitStream, subType byte, fn func()) {
	bs.Write(8, uint32(subType))
	lengthPos := bs.SavePosition()
	bs.Write(16, 0)
	bodyStart := bs.Pos()
	fn()
	bs.AlignUpToByte()
	length := (bs.Pos() - bodyStart) / 8
	bs.WriteAt(lengthPos, 16, uint32(length))
}

// WritePatchPayload assembles a full PATCH_DESCRIPTION-rooted payload
// for one slot: the description, then module/cable/param/name records
// for every location, matching what the device itself emits when asked
// for a complete patch.
func (c *Codec) WritePatchPayload(slot byte) []byte {
	bs := bitstream.NewWriter(256)

	writeSubRecord(bs, SubResponsePatchDescription, func() {
		c.WritePatchDescr(slot, bs)
	})

	locations := []patchdb.Location{patchdb.LocationFX, patchdb.LocationVoice, patchdb.LocationMorph}
	for _, loc := range locations {
		writeSubRecord(bs, SubResponseModuleList, func() { c.WriteModuleList(slot, loc, bs) })
	}
	for _, loc := range locations {
		writeSubRecord(bs, SubResponseCableList, func() { c.WriteCableList(slot, loc, bs) })
	}
	for _, loc := range locations {
		writeSubRecord(bs, SubResponseParamList, func() { c.WriteParamList(slot, loc, bs) })
	}
	for _, loc := range locations {
		writeSubRecord(bs, SubResponseParamNames, func() { c.WriteParamNames(slot, loc, bs) })
	}
	for _, loc := range locations {
		writeSubRecord(bs, SubResponseModuleNames, func() { c.WriteModuleNames(slot, loc, bs) })
	}
	writeSubRecord(bs, SubResponseMorphParams, func() { c.WriteMorphParams(slot, bs) })
	writeSubRecord(bs, SubResponseKnobs, func() { c.WriteKnobs(slot, bs, false) })
	writeSubRecord(bs, SubResponseControllers, func() { c.WriteKnobs(slot, bs, true) })

	bs.AlignUpToByte()
	return bs.Bytes()[:bs.Pos()/8]
}
