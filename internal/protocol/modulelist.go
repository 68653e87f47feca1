package protocol

import (
	"github.com/chrispurusha/g2edit/internal/bitstream"
	"github.com/chrispurusha/g2edit/internal/patchdb"
)

// parseModuleList reads a MODULE_LIST record: a 2-bit location, an
// 8-bit module count, and that many fixed-layout module entries.
func (c *Codec) parseModuleList(slot byte, bs *bitstream.BitStream) {
	location := patchdb.Location(bs.Read(2))
	moduleCount := bs.Read(8)
	for i := uint32(0); i < moduleCount; i++ {
		m := patchdb.Module{
			Key: patchdb.ModuleKey{Slot: slot, Location: location},
		}
		m.Type = bs.Read(8)
		m.Key.Index = uint8(bs.Read(8))
		m.Column = uint8(bs.Read(7))
		m.Row = uint8(bs.Read(7))
		m.Colour = uint8(bs.Read(8))
		m.UpRate = bs.Read(1) != 0
		m.IsLED = bs.Read(1) != 0
		m.Unknown1 = uint8(bs.Read(6))

		modeCount := bs.Read(4)
		if modeCount > 0 {
			m.Modes = make([]uint8, modeCount)
			for j := range m.Modes {
				m.Modes[j] = uint8(bs.Read(6))
			}
		}
		c.DB.WriteModule(m.Key, m)
	}
}

// WriteModuleList emits every live module at the given location within a
// slot as a MODULE_LIST record body.
func (c *Codec) WriteModuleList(slot byte, location patchdb.Location, bs *bitstream.BitStream) {
	modules := c.modulesAt(slot, location)

	bs.Write(2, uint32(location))
	bs.Write(8, uint32(len(modules)))
	for _, m := range modules {
		bs.Write(8, m.Type)
		bs.Write(8, uint32(m.Key.Index))
		bs.Write(7, uint32(m.Column))
		bs.Write(7, uint32(m.Row))
		bs.Write(8, uint32(m.Colour))
		bs.Write(1, boolBit(m.UpRate))
		bs.Write(1, boolBit(m.IsLED))
		bs.Write(6, uint32(m.Unknown1))
		bs.Write(4, uint32(len(m.Modes)))
		for _, mode := range m.Modes {
			bs.Write(6, uint32(mode))
		}
	}
}

func (c *Codec) modulesAt(slot byte, location patchdb.Location) []patchdb.Module {
	var out []patchdb.Module
	c.DB.ResetWalkModule()
	defer c.DB.FinishWalkModule()
	for {
		m, ok := c.DB.WalkNextModule()
		if !ok {
			break
		}
		if m.Key.Slot == slot && m.Key.Location == location {
			out = append(out, m)
		}
	}
	return out
}
