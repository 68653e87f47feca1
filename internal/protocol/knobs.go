package protocol

import (
	"github.com/chrispurusha/g2edit/internal/bitstream"
	"github.com/chrispurusha/g2edit/internal/patchdb"
)

// parseKnobs reads a KNOBS or CONTROLLERS record: a flat table of
// physical-knob-to-parameter bindings for the slot.
func (c *Codec) parseKnobs(slot byte, bs *bitstream.BitStream, controllers bool) {
	count := bs.Read(8)
	assignments := make([]patchdb.KnobAssignment, 0, count)
	for i := uint32(0); i < count; i++ {
		assignments = append(assignments, patchdb.KnobAssignment{
			Location:   patchdb.Location(bs.Read(8)),
			ModuleIndex: uint8(bs.Read(8)),
			IsLED:       bs.Read(1) != 0,
			ParamIndex:  uint8(bs.Read(8)),
		})
		bs.Read(7) // reserved, byte-aligns each entry
	}
	t := c.DB.SideTables(slot)
	if controllers {
		t.Controllers = assignments
	} else {
		t.Knobs = assignments
	}
	c.DB.SetSideTables(slot, t)
}

// WriteKnobs is deliberately a stub: the device firmware this format
// targets never accepted a host-authored knob table, and the reference
// emitter it was grounded on does nothing here either.
func (c *Codec) WriteKnobs(slot byte, bs *bitstream.BitStream, controllers bool) {
}

// parseFreeformBuffer copies a raw, opaque byte buffer (current-note or
// patch-notes) straight into the slot's side tables.
func (c *Codec) parseFreeformBuffer(slot byte, bs *bitstream.BitStream, lengthBits int, notes bool) {
	n := lengthBits / 8
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = byte(bs.Read(8))
	}
	t := c.DB.SideTables(slot)
	if notes {
		t.PatchNotes = buf
	} else {
		t.Note2 = buf
	}
	c.DB.SetSideTables(slot, t)
}
