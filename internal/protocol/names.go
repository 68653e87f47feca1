package protocol

import (
	"github.com/chrispurusha/g2edit/internal/bitstream"
	"github.com/chrispurusha/g2edit/internal/patchdb"
)

// parseParamNames reads a PARAM_NAMES record. Not every module has
// custom parameter names, so each entry is self-describing: a module
// index, a flag for whether a name follows at all, and which parameter
// it labels.
func (c *Codec) parseParamNames(slot byte, bs *bitstream.BitStream) {
	location := patchdb.Location(bs.Read(8))
	count := bs.Read(16)
	for i := uint32(0); i < count; i++ {
		moduleIndex := uint8(bs.Read(8))
		isString := bs.Read(8) != 0
		paramIndex := uint8(bs.Read(8))

		var label [paramNameLabelSize]byte
		for j := range label {
			label[j] = byte(bs.Read(8))
		}
		if !isString {
			continue
		}
		key := patchdb.ModuleKey{Slot: slot, Location: location, Index: moduleIndex}
		m, ok := c.DB.ReadModule(key)
		if !ok || int(paramIndex) >= patchdb.MaxParameters {
			continue
		}
		m.ParamName[paramIndex] = label
		c.DB.WriteModule(key, m)
	}
}

// moduleHasNames reports whether any parameter of m carries a
// non-empty custom label, matching the original's selective-emission
// check: modules with no named parameters don't get a PARAM_NAMES entry.
func moduleHasNames(m patchdb.Module) bool {
	for _, label := range m.ParamName {
		if label != ([paramNameLabelSize]byte{}) {
			return true
		}
	}
	return false
}

// WriteParamNames emits a PARAM_NAMES record with one entry per
// parameter that carries a custom label, across every module at a
// location; parameters with an empty label get no entry.
func (c *Codec) WriteParamNames(slot byte, location patchdb.Location, bs *bitstream.BitStream) {
	modules := c.modulesAt(slot, location)
	var named []patchdb.Module
	for _, m := range modules {
		if moduleHasNames(m) {
			named = append(named, m)
		}
	}

	bs.Write(8, uint32(location))
	countPos := bs.SavePosition()
	bs.Write(16, 0)
	var entries uint32
	for _, m := range named {
		for p, label := range m.ParamName {
			if label == ([paramNameLabelSize]byte{}) {
				continue
			}
			bs.Write(8, uint32(m.Key.Index))
			bs.Write(8, 1)
			bs.Write(8, uint32(p))
			for _, b := range label {
				bs.Write(8, uint32(b))
			}
			entries++
		}
	}
	bs.WriteAt(countPos, 16, entries)
}

// parseModuleNames reads a MODULE_NAMES record: a module index followed
// by a NUL-terminated name in a fixed moduleNameSize-byte field; the
// bytes after the NUL are skipped.
func (c *Codec) parseModuleNames(slot byte, bs *bitstream.BitStream) {
	location := patchdb.Location(bs.Read(8))
	count := bs.Read(16)
	for i := uint32(0); i < count; i++ {
		moduleIndex := uint8(bs.Read(8))
		name := make([]byte, 0, moduleNameSize)
		for j := 0; j < moduleNameSize; j++ {
			b := byte(bs.Read(8))
			if b == 0 {
				for k := j + 1; k < moduleNameSize; k++ {
					bs.Read(8)
				}
				break
			}
			name = append(name, b)
		}
		key := patchdb.ModuleKey{Slot: slot, Location: location, Index: moduleIndex}
		m, ok := c.DB.ReadModule(key)
		if !ok {
			continue
		}
		m.Name = string(name)
		c.DB.WriteModule(key, m)
	}
}

// WriteModuleNames emits a MODULE_NAMES record for every named module
// at a location.
func (c *Codec) WriteModuleNames(slot byte, location patchdb.Location, bs *bitstream.BitStream) {
	modules := c.modulesAt(slot, location)
	var named []patchdb.Module
	for _, m := range modules {
		if m.Name != "" {
			named = append(named, m)
		}
	}

	bs.Write(8, uint32(location))
	bs.Write(16, uint32(len(named)))
	for _, m := range named {
		bs.Write(8, uint32(m.Key.Index))
		nameBytes := []byte(m.Name)
		if len(nameBytes) > moduleNameSize-1 {
			nameBytes = nameBytes[:moduleNameSize-1]
		}
		for _, b := range nameBytes {
			bs.Write(8, uint32(b))
		}
		for j := len(nameBytes); j < moduleNameSize; j++ {
			bs.Write(8, 0)
		}
	}
}
