// Package patchdb is the in-memory mirror of a G2 patch: modules, cables,
// and the per-slot side tables (knobs, controllers, notes, patch
// description) that the session machine keeps current as it talks to the
// device.
package patchdb

const (
	NumVariations = 9
	MaxParameters = 32
	NumSlots      = 4
)

// Location is the sub-context a module or cable lives in within a slot.
type Location uint8

const (
	LocationFX    Location = 0
	LocationVoice Location = 1
	LocationMorph Location = 2
)

// ModuleKey uniquely identifies a module.
type ModuleKey struct {
	Slot     uint8
	Location Location
	Index    uint8
}

// ParamCell is one parameter's value plus its per-morph range offsets.
type ParamCell struct {
	Value      uint8
	MorphRange [4]int8
}

// Module is the full in-memory record of one module instance.
type Module struct {
	Key          ModuleKey
	Type         uint32
	Row          uint8
	Column       uint8
	Colour       uint8
	UpRate       bool
	IsLED        bool
	Unknown1     uint8 // 6 bits, preserved bit-exact from the module list entry
	Modes        []uint8 // each a 6-bit value
	Param        [NumVariations][MaxParameters]ParamCell
	ParamName    [MaxParameters][7]byte
	Name         string
	VolumeMeters [2]uint16
	LEDState     bool
}

// LinkType distinguishes the two cable orientations the wire format
// encodes.
type LinkType uint8

const (
	LinkInputToInput  LinkType = 0
	LinkOutputToInput LinkType = 1
)

// CableKey is the cable's identity; there is no separate cable ID.
type CableKey struct {
	Slot                 uint8
	Location             Location
	ModuleFromIndex      uint8
	ConnectorFromIoCount uint8
	LinkType             LinkType
	ModuleToIndex        uint8
	ConnectorToIoCount   uint8
}

// Cable is a CableKey plus its only mutable attribute, colour.
type Cable struct {
	Key    CableKey
	Colour uint8
}

// PatchDescription is the per-slot header the device reports alongside
// the module/cable lists. Field order here follows wire order.
type PatchDescription struct {
	// Opaque fields preserved bit-exact from parse to emit.
	Unknown1 uint32 // 32 bits
	Unknown2 uint32 // 29 bits

	VoiceCount  uint8  // 5 bits
	BarPosition uint16 // 14 bits

	Unknown3 uint8 // 3 bits

	VisRed    bool
	VisBlue   bool
	VisYellow bool
	VisOrange bool
	VisGreen  bool
	VisPurple bool
	VisWhite  bool

	MonoPoly        uint8 // 2 bits
	ActiveVariation uint8 // 8 bits
	Category        uint8 // 8 bits

	Unknown4 uint16 // 12 bits
}

// MorphVariationHeader is the opaque, undocumented run of bits each
// variation's morph-assignment block opens and closes with; preserved
// bit-exact from parse to emit since nothing in the corpus documents
// what these fields mean.
type MorphVariationHeader struct {
	Lead    uint8    // 4 bits, immediately after the variation number
	Unknown [6]uint8 // six 8-bit fields between Lead and Trail
	Trail   uint8    // 4 bits, immediately before the morph-param count
	Footer  uint8    // 4 bits, after the variation's assignment list
}

// KnobAssignment is one physical knob's binding to a module parameter.
type KnobAssignment struct {
	Location   Location
	ModuleIndex uint8
	IsLED       bool
	ParamIndex  uint8
}

// SlotSideTables holds the per-slot data that rides alongside the module
// and cable graph: knob/controller assignments, free-text buffers, morph
// count, and the version discipline bytes.
type SlotSideTables struct {
	Knobs        []KnobAssignment
	Controllers  []KnobAssignment
	Note2        []byte
	PatchNotes   []byte
	MorphCount   uint8
	MorphHeaders [NumVariations - 1]MorphVariationHeader
	PatchVersion uint8
	PatchName    string
	Description  PatchDescription

	// CableListUnknown is the 12-bit opaque field each CABLE_LIST record
	// carries right after its location, indexed by Location.
	CableListUnknown [3]uint16
}
