package protocol

import (
	"github.com/chrispurusha/g2edit/internal/bitstream"
	"github.com/chrispurusha/g2edit/internal/patchdb"
)

// parseCableList reads a CABLE_LIST record for one location within a slot:
// a 2-bit location, a 12-bit opaque field preserved bit-exact, a 10-bit
// cable count, and that many fixed-layout cable entries.
func (c *Codec) parseCableList(slot byte, bs *bitstream.BitStream) {
	location := patchdb.Location(bs.Read(2))
	unknown := uint16(bs.Read(12))
	count := bs.Read(10)

	t := c.DB.SideTables(slot)
	t.CableListUnknown[location] = unknown
	c.DB.SetSideTables(slot, t)

	for i := uint32(0); i < count; i++ {
		colour := uint8(bs.Read(3))
		key := patchdb.CableKey{
			Slot:                 slot,
			Location:             location,
			ModuleFromIndex:      uint8(bs.Read(8)),
			ConnectorFromIoCount: uint8(bs.Read(6)),
			LinkType:             patchdb.LinkType(bs.Read(1)),
			ModuleToIndex:        uint8(bs.Read(8)),
			ConnectorToIoCount:   uint8(bs.Read(6)),
		}
		c.DB.WriteCable(key, patchdb.Cable{Key: key, Colour: colour})
	}
}

// WriteCableList emits every live cable at the given location within a
// slot as a CABLE_LIST record body.
func (c *Codec) WriteCableList(slot byte, location patchdb.Location, bs *bitstream.BitStream) {
	cables := c.cablesAt(slot, location)
	unknown := c.DB.SideTables(slot).CableListUnknown[location]

	bs.Write(2, uint32(location))
	bs.Write(12, uint32(unknown))
	bs.Write(10, uint32(len(cables)))
	for _, cbl := range cables {
		k := cbl.Key
		bs.Write(3, uint32(cbl.Colour))
		bs.Write(8, uint32(k.ModuleFromIndex))
		bs.Write(6, uint32(k.ConnectorFromIoCount))
		bs.Write(1, uint32(k.LinkType))
		bs.Write(8, uint32(k.ModuleToIndex))
		bs.Write(6, uint32(k.ConnectorToIoCount))
	}
}

func (c *Codec) cablesAt(slot byte, location patchdb.Location) []patchdb.Cable {
	var out []patchdb.Cable
	c.DB.ResetWalkCable()
	defer c.DB.FinishWalkCable()
	for {
		cbl, ok := c.DB.WalkNextCable()
		if !ok {
			break
		}
		if cbl.Key.Slot == slot && cbl.Key.Location == location {
			out = append(out, cbl)
		}
	}
	return out
}
