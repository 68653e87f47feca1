package protocol

import (
	"github.com/chrispurusha/g2edit/internal/bitstream"
	"github.com/chrispurusha/g2edit/internal/patchdb"
)

// versionSysGet and versionSysPlain are the two fixed "version" byte
// values seen on system-level (slot-independent) requests: 0x41 for
// anything read-like, 0x00 for select-slot and the second unknown
// init fetch. Neither tracks an actual patch version; only the
// per-slot GetPatchSlot/GetPatchName requests do, via DB.PatchVersion.
const (
	versionSysGet   = 0x41
	versionSysPlain = 0x00
)

// Reset builds the connection-reset frame sent once, immediately after
// claiming the interface, before any command/sub-command pair is
// meaningful.
func Reset() []byte {
	return BuildResetFrame()
}

// SelectSlot asks the device to make a slot the active one.
func SelectSlot(slot uint8) []byte {
	return BuildCommandFrame(CommandReq|CommandSys, versionSysPlain, SubCommandSelectSlot, []byte{slot})
}

// StartStop toggles the device between running and stopped; stop is
// required before any patch-structure fetch or edit, start resumes
// normal operation afterward.
func StartStop(stop bool) []byte {
	v := byte(0)
	if stop {
		v = 1
	}
	return BuildCommandFrame(CommandReq|CommandSys, versionSysGet, SubCommandStartStop, []byte{v})
}

// GetSynthSettings requests the global synth settings.
func GetSynthSettings() []byte {
	return BuildCommandFrame(CommandReq|CommandSys, versionSysGet, SubCommandGetSynthSettings, nil)
}

// GetPatchVersion requests the patch-version byte for a slot. Unlike
// GetPatchSlot/GetPatchName this is a system-level request: the slot is
// carried in the body, not the command byte.
func GetPatchVersion(slot uint8) []byte {
	return BuildCommandFrame(CommandReq|CommandSys, versionSysGet, SubCommandGetPatchVersion, []byte{slot})
}

// GetPatchSlot requests the full patch (modules, cables, params, ...)
// for a slot, tagged with the version the host last recognized for it.
func GetPatchSlot(slot, trackedVersion uint8) []byte {
	return BuildCommandFrame(CommandReq|CommandSlot(slot), trackedVersion, SubCommandGetPatchSlot, nil)
}

// GetPatchName requests the patch's display name for a slot.
func GetPatchName(slot, trackedVersion uint8) []byte {
	return BuildCommandFrame(CommandReq|CommandSlot(slot), trackedVersion, SubCommandGetPatchName, nil)
}

// SetParam writes one parameter's value immediately, with no response
// expected.
func SetParam(slot uint8, trackedVersion uint8, location patchdb.Location, moduleIndex, paramIndex, value, variation uint8) []byte {
	body := []byte{byte(location), moduleIndex, paramIndex, value, variation}
	return BuildCommandFrame(CommandWriteNoResp|CommandSlot(slot), trackedVersion, SubCommandSetParam, body)
}

// SelectVariation asks the device to make a variation the active one
// for a slot.
func SelectVariation(slot, trackedVersion, variation uint8) []byte {
	return BuildCommandFrame(CommandReq|CommandSlot(slot), trackedVersion, SubCommandSelectVariation, []byte{variation})
}

// GetUnknown1 and GetUnknown2 request the two undocumented
// initialization responses the connection sequence waits on before it
// considers the device ready; what they contain is opaque, only that
// they must be requested and answered in order.
func GetUnknown1() []byte {
	return BuildCommandFrame(CommandReq|CommandSys, versionSysGet, SubCommandGetUnknown1, nil)
}

func GetUnknown2() []byte {
	return BuildCommandFrame(CommandReq|CommandSys, versionSysPlain, SubCommandGetUnknown2, nil)
}

// WriteCable emits a cable-add command for a slot.
func WriteCable(slot, trackedVersion uint8, location patchdb.Location, fromIndex, fromIO uint8, link patchdb.LinkType, toIndex, toIO, colour uint8) []byte {
	body := []byte{
		0x10 | (byte(location) << 3),
		fromIndex,
		(byte(link) << 6) | fromIO,
		toIndex,
		toIO,
	}
	_ = colour
	return BuildCommandFrame(CommandReq|CommandSlot(slot), trackedVersion, SubCommandWriteCable, body)
}

// DeleteCable emits a cable-delete command for a slot.
func DeleteCable(slot, trackedVersion uint8, location patchdb.Location, fromIndex, fromIO uint8, link patchdb.LinkType, toIndex, toIO uint8) []byte {
	body := []byte{
		0x2 | byte(location),
		fromIndex,
		(byte(link) << 6) | fromIO,
		toIndex,
		toIO,
	}
	return BuildCommandFrame(CommandReq|CommandSlot(slot), trackedVersion, SubCommandDeleteCable, body)
}

// DeleteModule emits a module-delete command for a slot.
func DeleteModule(slot, trackedVersion uint8, location patchdb.Location, index uint8) []byte {
	body := []byte{byte(location), index}
	return BuildCommandFrame(CommandReq|CommandSlot(slot), trackedVersion, SubCommandDeleteModule, body)
}

// MoveModule emits a module-reposition command for a slot.
func MoveModule(slot, trackedVersion uint8, location patchdb.Location, index, column, row uint8) []byte {
	body := []byte{byte(location), index, column, row}
	return BuildCommandFrame(CommandReq|CommandSlot(slot), trackedVersion, SubCommandMoveModule, body)
}

// SetModuleUpRate toggles a module's audio/control up-rate flag.
func SetModuleUpRate(slot, trackedVersion uint8, location patchdb.Location, index uint8, upRate bool) []byte {
	v := byte(0)
	if upRate {
		v = 1
	}
	body := []byte{byte(location), index, v}
	return BuildCommandFrame(CommandReq|CommandSlot(slot), trackedVersion, SubCommandSetModuleUpRate, body)
}

// AddModule emits a module-creation command for a slot.
func AddModule(slot, trackedVersion uint8, moduleType uint8, location patchdb.Location, index, column, row, colour uint8, upRate, isLED bool, modes []uint8, name string) []byte {
	bs := bitstream.NewWriter(16 + len(modes) + len(name) + 1)
	bs.Write(8, uint32(moduleType))
	bs.Write(8, uint32(location))
	bs.Write(8, uint32(index))
	bs.Write(8, uint32(column))
	bs.Write(8, uint32(row))
	bs.Write(8, uint32(colour))
	bs.Write(8, uint32(boolBit(upRate)))
	bs.Write(8, uint32(boolBit(isLED)))
	for _, m := range modes {
		bs.Write(8, uint32(m))
	}
	for _, ch := range []byte(name) {
		bs.Write(8, uint32(ch))
	}
	bs.Write(8, 0)
	body := bs.Bytes()[:bs.Pos()/8]
	return BuildCommandFrame(CommandReq|CommandSlot(slot), trackedVersion, SubCommandAddModule, body)
}

// SetMorphRange writes a morph-range offset for a parameter, with no
// response expected.
func SetMorphRange(slot, trackedVersion uint8, location patchdb.Location, moduleIndex, paramIndex, morph, value uint8, negative bool, variation uint8) []byte {
	body := []byte{byte(location), moduleIndex, paramIndex, morph, value, boolByte(negative), variation}
	return BuildCommandFrame(CommandWriteNoResp|CommandSlot(slot), trackedVersion, SubCommandSetMorphRange, body)
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
