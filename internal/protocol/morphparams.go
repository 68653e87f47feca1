package protocol

import (
	"github.com/chrispurusha/g2edit/internal/bitstream"
	"github.com/chrispurusha/g2edit/internal/patchdb"
)

// morphAssignment is one "this parameter is morphed by this knob, by this
// much" binding within a MORPH_PARAMS record.
type morphAssignment struct {
	location    patchdb.Location
	moduleIndex uint8
	paramIndex  uint8
	morph       uint8
	amount      int8
}

// parseMorphParams reads a MORPH_PARAMS record: an 8-bit variation count,
// a 4-bit morph count, and 20 reserved bits, then per variation a 4-bit
// variation number, a 56-bit opaque run with no documented meaning, an
// 8-bit assignment count, that many assignments, and a trailing opaque
// nibble. The opaque fields are preserved bit-exact on round-trip.
func (c *Codec) parseMorphParams(slot byte, bs *bitstream.BitStream) {
	variationCount := bs.Read(8)
	morphCount := bs.Read(4)
	bs.Read(20) // reserved

	t := c.DB.SideTables(slot)
	t.MorphCount = uint8(morphCount)

	for v := uint32(0); v < variationCount; v++ {
		variation := bs.Read(4)

		var hdr patchdb.MorphVariationHeader
		hdr.Lead = uint8(bs.Read(4))
		for i := range hdr.Unknown {
			hdr.Unknown[i] = uint8(bs.Read(8))
		}
		hdr.Trail = uint8(bs.Read(4))

		assignmentCount := bs.Read(8)
		for a := uint32(0); a < assignmentCount; a++ {
			asn := morphAssignment{
				location:    patchdb.Location(bs.Read(2)),
				moduleIndex: uint8(bs.Read(8)),
				paramIndex:  uint8(bs.Read(7)),
				morph:       uint8(bs.Read(4)),
				amount:      int8(bs.Read(8)),
			}
			c.applyMorphAssignment(slot, int(variation), asn)
		}

		hdr.Footer = uint8(bs.Read(4))
		if int(variation) < len(t.MorphHeaders) {
			t.MorphHeaders[variation] = hdr
		}
	}

	c.DB.SetSideTables(slot, t)
}

func (c *Codec) applyMorphAssignment(slot byte, variation int, asn morphAssignment) {
	if variation >= wireVariations || asn.morph >= 4 {
		return
	}
	key := patchdb.ModuleKey{Slot: slot, Location: asn.location, Index: asn.moduleIndex}
	m, ok := c.DB.ReadModule(key)
	if !ok || int(asn.paramIndex) >= patchdb.MaxParameters {
		return
	}
	m.Param[variation][asn.paramIndex].MorphRange[asn.morph] = asn.amount
	c.DB.WriteModule(key, m)
}

// WriteMorphParams emits a MORPH_PARAMS record for a slot, recovering
// assignments from whatever ParamCell.MorphRange entries are non-zero
// and replaying each variation's stored opaque header bit-exact.
func (c *Codec) WriteMorphParams(slot byte, bs *bitstream.BitStream) {
	t := c.DB.SideTables(slot)
	bs.Write(8, uint32(wireVariations))
	bs.Write(4, uint32(t.MorphCount))
	bs.Write(20, 0)

	for v := 0; v < wireVariations; v++ {
		hdr := t.MorphHeaders[v]
		bs.Write(4, uint32(v))
		bs.Write(4, uint32(hdr.Lead))
		for _, u := range hdr.Unknown {
			bs.Write(8, uint32(u))
		}
		bs.Write(4, uint32(hdr.Trail))

		assignments := c.collectMorphAssignments(slot, v)
		bs.Write(8, uint32(len(assignments)))
		for _, asn := range assignments {
			bs.Write(2, uint32(asn.location))
			bs.Write(8, uint32(asn.moduleIndex))
			bs.Write(7, uint32(asn.paramIndex))
			bs.Write(4, uint32(asn.morph))
			bs.Write(8, uint32(uint8(asn.amount)))
		}

		bs.Write(4, uint32(hdr.Footer))
	}
}

func (c *Codec) collectMorphAssignments(slot byte, variation int) []morphAssignment {
	var out []morphAssignment
	for _, loc := range []patchdb.Location{patchdb.LocationFX, patchdb.LocationVoice, patchdb.LocationMorph} {
		for _, m := range c.modulesAt(slot, loc) {
			for p := 0; p < patchdb.MaxParameters; p++ {
				for morph := 0; morph < 4; morph++ {
					amount := m.Param[variation][p].MorphRange[morph]
					if amount != 0 {
						out = append(out, morphAssignment{
							location:    loc,
							moduleIndex: m.Key.Index,
							paramIndex:  uint8(p),
							morph:       uint8(morph),
							amount:      amount,
						})
					}
				}
			}
		}
	}
	return out
}
