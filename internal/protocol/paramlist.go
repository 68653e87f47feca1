package protocol

import (
	"github.com/chrispurusha/g2edit/internal/bitstream"
	"github.com/chrispurusha/g2edit/internal/patchdb"
)

// wireVariations is the number of variations actually carried on the
// wire: the device never transmits the 9th ("init") variation.
const wireVariations = patchdb.NumVariations - 1

// parseParamList reads a PARAM_LIST record: a 2-bit location, an 8-bit
// module count, an 8-bit variation count, then per module an 8-bit
// index and a 7-bit paramCount, followed by variationCount snapshots of
// an 8-bit variation id and paramCount 7-bit parameter values. The
// device-reported paramCount MUST equal the catalog's paramCount for a
// known module type; a mismatch is a fatal protocol error.
func (c *Codec) parseParamList(slot byte, bs *bitstream.BitStream) error {
	location := patchdb.Location(bs.Read(2))
	moduleCount := bs.Read(8)
	variationCount := bs.Read(8)
	for i := uint32(0); i < moduleCount; i++ {
		index := uint8(bs.Read(8))
		paramCount := bs.Read(7)
		key := patchdb.ModuleKey{Slot: slot, Location: location, Index: index}
		m, ok := c.DB.ReadModule(key)
		if ok {
			catalogCount := c.Catalog.ParamCount(m.Type)
			if catalogCount > 0 && paramCount != catalogCount {
				c.Log.Error("param list paramCount mismatch",
					"index", index, "location", location,
					"wireCount", paramCount, "catalogCount", catalogCount)
				return ErrProtocolInvariant
			}
		} else {
			c.Log.Warn("param list for unknown module", "index", index, "location", location)
		}
		for v := uint32(0); v < variationCount; v++ {
			bs.Read(8) // variation id
			for p := uint32(0); p < paramCount; p++ {
				value := uint8(bs.Read(7))
				if ok && int(v) < wireVariations && p < patchdb.MaxParameters {
					m.Param[v][p].Value = value
				}
			}
		}
		if ok {
			c.DB.WriteModule(key, m)
		}
	}
	return nil
}

// WriteParamList emits the PARAM_LIST body for every live module at a
// location, writing exactly wireVariations snapshots per module.
func (c *Codec) WriteParamList(slot byte, location patchdb.Location, bs *bitstream.BitStream) {
	modules := c.modulesAt(slot, location)

	bs.Write(2, uint32(location))
	bs.Write(8, uint32(len(modules)))
	bs.Write(8, uint32(wireVariations))
	for _, m := range modules {
		paramCount := c.Catalog.ParamCount(m.Type)
		bs.Write(8, uint32(m.Key.Index))
		bs.Write(7, paramCount)
		for v := 0; v < wireVariations; v++ {
			bs.Write(8, uint32(v))
			for p := uint32(0); p < paramCount && p < patchdb.MaxParameters; p++ {
				bs.Write(7, uint32(m.Param[v][p].Value))
			}
		}
	}
}
