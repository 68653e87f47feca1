package protocol

// Command byte high bits, OR'd with a slot number or COMMAND_SYS.
const (
	CommandReq         = 0x20
	CommandWriteNoResp = 0x30
	CommandSys         = 0x0c
)

// CommandSlot returns the command byte for an operation targeting a slot.
func CommandSlot(slot uint8) uint8 {
	return 0x08 | (slot & 0x07)
}

// Sub-commands, host -> device.
const (
	SubCommandSelectSlot       = 0x01
	SubCommandStartStop        = 0x02 // 0 = start, 1 = stop
	SubCommandGetSynthSettings = 0x03
	SubCommandGetPatchVersion  = 0x04
	SubCommandGetPatchSlot     = 0x05
	SubCommandGetPatchName     = 0x06
	SubCommandSetParam         = 0x07
	SubCommandSetMode          = 0x08
	SubCommandWriteCable       = 0x09
	SubCommandAddModule        = 0x0a
	SubCommandMoveModule       = 0x0b
	SubCommandDeleteModule     = 0x0c
	SubCommandDeleteCable      = 0x0d
	SubCommandSetModuleUpRate  = 0x0e
	SubCommandSelectVariation  = 0x0f
	SubCommandSetMorphRange    = 0x10
	SubCommandGetUnknown1      = 0x81
	SubCommandGetUnknown2      = 0x59
)

// Interrupt-frame type nibble (low 4 bits of the first byte's low nibble).
const (
	InterruptTypeExtended = 0x01
	InterruptTypeEmbedded = 0x02
)

// Payload-level response type byte, the first byte of what parse_incoming
// sees whether it arrived embedded or via an extended fetch.
const (
	ResponseTypeInit    = 0x80
	ResponseTypeCommand = 0x01
)

// Sub-record types within an extended frame's payload.
const (
	SubResponseModuleList         = 0x10
	SubResponseCableList          = 0x11
	SubResponseParamList          = 0x12
	SubResponseParamNames         = 0x13
	SubResponseModuleNames        = 0x14
	SubResponsePatchDescription   = 0x15
	SubResponseMorphParams        = 0x16
	SubResponseKnobs              = 0x17
	SubResponseControllers        = 0x18
	SubResponseCurrentNote2       = 0x19
	SubResponsePatchNotes         = 0x1a
	SubResponseVolumeIndicator    = 0x1b
	SubResponseLEDData            = 0x1c
	SubResponseError              = 0x1d
	SubResponseResourcesUsed      = 0x1e
	SubResponseParamChange        = 0x1f
	SubResponsePatchVersion       = 0x20
	SubResponseSynthSettings      = 0x21
	SubResponseMidiCC             = 0x22
	SubResponseGlobalPage         = 0x23
	SubResponsePatchVersionChange = 0x24
	SubResponseAssignedVoices     = 0x25
	SubCommandSetAssignedVoices   = 0x26
	SubResponsePerformanceName    = 0x27
	SubResponseMasterClock        = 0x28
	SubResponsePatchName          = 0x29
	SubResponseOK                 = 0x2a
	subRecordIgnoreMarker         = 0x2d
)

// Locations (wire-level sub-context within a slot).
const (
	LocationFX    = 0
	LocationVoice = 1
	LocationMorph = 2
)

// Volume-meter kinds, mirroring catalog.VolumeType bit widths.
const (
	volumeBitsMono     = 16
	volumeBitsStereo   = 32
	volumeBitsCompress = 16
)

const (
	// NumVariations is the number of stored parameter snapshots per module
	// (one of which is "active"); the wire format only ever carries
	// NumVariations-1 of them (the 9th/init variation is not transmitted).
	NumVariations = 9

	paramNameLabelSize = 7
	moduleNameSize     = 16
)
