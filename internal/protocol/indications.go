package protocol

import (
	"github.com/chrispurusha/g2edit/internal/bitstream"
	"github.com/chrispurusha/g2edit/internal/catalog"
	"github.com/chrispurusha/g2edit/internal/patchdb"
)

// ParseParamChange decodes a PARAM_CHANGE indication and applies it to
// the live module in the patch database, so a caller that only cares
// about the side effect need not touch the returned event at all.
func (c *Codec) ParseParamChange(slot byte, body []byte) (ParamChangeEvent, error) {
	if len(body) < 5 {
		return ParamChangeEvent{}, ErrShortFrame
	}
	bs := bitstream.New(body)
	ev := ParamChangeEvent{
		Location: patchdb.Location(bs.Read(8)),
		Index:    uint8(bs.Read(8)),
		Param:    uint8(bs.Read(8)),
	}
	ev.Value = uint8(bs.Read(8))
	ev.Variation = uint8(bs.Read(8))
	key := patchdb.ModuleKey{Slot: slot, Location: ev.Location, Index: ev.Index}
	if m, ok := c.DB.ReadModule(key); ok && int(ev.Variation) < patchdb.NumVariations && int(ev.Param) < patchdb.MaxParameters {
		m.Param[ev.Variation][ev.Param].Value = ev.Value
		c.DB.WriteModule(key, m)
	}
	return ev, nil
}

// ParsePatchVersion decodes a PATCH_VERSION indication body: its first
// byte is the version. It stores nothing; the session machine records
// the value for the slot whose version it asked for.
func (c *Codec) ParsePatchVersion(body []byte) (uint8, error) {
	if len(body) < 1 {
		return 0, ErrShortFrame
	}
	return body[0], nil
}

// synthSettingsBannerSize is the length of the fixed Clavia identity
// string every SYNTH_SETTINGS body opens with.
const synthSettingsBannerSize = 11

// SynthSettings is the decoded body of a SYNTH_SETTINGS indication: the
// device's global, slot-independent settings (as opposed to per-patch
// state, which lives in a PatchDescription).
type SynthSettings struct {
	Banner            string
	PerfMode          uint8
	PerfBank          uint8
	PerfLocation      uint8
	MemoryProtect     bool
	MIDIChannelSlot   [4]uint8 // 16 means "off"
	GlobalMIDIChannel uint8
	SysexID           uint8
	LocalOn           bool
	ProgramChangeRcv  bool
	ProgramChangeSnd  bool
	ControllersRcv    bool
	ControllersSnd    bool
	SendClock         bool
	IgnoreExtClock    bool
	TuneCent          uint8
	GlobalShiftActive bool
	GlobalOctaveShift uint8
	TuneSemi          uint8
	PedalPolarity     bool
	ControlPedalGain  uint8
}

// ParseSynthSettings decodes a SYNTH_SETTINGS body. The trailing 17
// bytes the device sends have no known meaning and are not decoded.
func (c *Codec) ParseSynthSettings(body []byte) SynthSettings {
	bs := bitstream.New(body)
	var banner [synthSettingsBannerSize]byte
	for i := range banner {
		banner[i] = byte(bs.Read(8))
	}
	s := SynthSettings{Banner: bannerString(banner[:])}
	s.PerfMode = uint8(bs.Read(8))
	s.PerfBank = uint8(bs.Read(8))
	s.PerfLocation = uint8(bs.Read(8))
	s.MemoryProtect = bs.Read(1) != 0
	bs.Read(7)
	for i := range s.MIDIChannelSlot {
		s.MIDIChannelSlot[i] = uint8(bs.Read(8))
	}
	s.GlobalMIDIChannel = uint8(bs.Read(8))
	s.SysexID = uint8(bs.Read(8))
	s.LocalOn = bs.Read(1) != 0
	bs.Read(7)
	bs.Read(6)
	s.ProgramChangeRcv = bs.Read(1) != 0
	s.ProgramChangeSnd = bs.Read(1) != 0
	bs.Read(6)
	s.ControllersRcv = bs.Read(1) != 0
	s.ControllersSnd = bs.Read(1) != 0
	clockByte := uint8(bs.Read(8))
	s.SendClock = clockByte&0x02 != 0
	s.IgnoreExtClock = clockByte&0x04 != 0
	s.TuneCent = uint8(bs.Read(8))
	s.GlobalShiftActive = uint8(bs.Read(8))&0x01 != 0
	s.GlobalOctaveShift = uint8(bs.Read(8))
	s.TuneSemi = uint8(bs.Read(8))
	bs.Read(8) // filler
	s.PedalPolarity = uint8(bs.Read(8))&0x80 != 0
	s.ControlPedalGain = uint8(bs.Read(8))
	return s
}

// bannerString trims the fixed-width Clavia identity string to its
// printable run, matching the original's "only log in-range bytes"
// filter rather than assuming the whole field is ASCII.
func bannerString(raw []byte) string {
	out := make([]byte, 0, len(raw))
	for _, ch := range raw {
		if ch >= 0x20 && ch <= 0x7f {
			out = append(out, ch)
		}
	}
	return string(out)
}

// ParsePatchName decodes a PATCH_NAME body: a NUL-terminated string up
// to moduleNameSize bytes, the same convention as a module name.
func ParsePatchName(body []byte) string {
	n := len(body)
	if n > moduleNameSize {
		n = moduleNameSize
	}
	for i := 0; i < n; i++ {
		if body[i] == 0 {
			return string(body[:i])
		}
	}
	return string(body[:n])
}

// ParseVolumeIndicator decodes a VOLUME_INDICATOR record: a dummy byte
// of unknown purpose, then every module index 0..255 at Voice then FX
// (in that order) that declares a volume meter in the catalog, each
// contributing one or two 16-bit readings depending on meter shape.
// Module order here is driven by index, not by database iteration
// order, matching how the device enumerates them.
func (c *Codec) ParseVolumeIndicator(slot byte, body []byte) {
	bs := bitstream.New(body)
	bs.Read(8) // unexplained leading byte
	for _, location := range []patchdb.Location{patchdb.LocationVoice, patchdb.LocationFX} {
		for index := 0; index <= 255; index++ {
			key := patchdb.ModuleKey{Slot: slot, Location: location, Index: uint8(index)}
			m, ok := c.DB.ReadModule(key)
			if !ok {
				continue
			}
			switch c.Catalog.VolumeType(m.Type) {
			case catalog.VolumeMono, catalog.VolumeCompress:
				m.VolumeMeters[0] = uint16(bs.Read(16))
			case catalog.VolumeStereo:
				m.VolumeMeters[0] = uint16(bs.Read(16))
				m.VolumeMeters[1] = uint16(bs.Read(16))
			default:
				continue
			}
			c.DB.WriteModule(key, m)
		}
	}
}

// reverseBits reverses the bit order of a single byte, matching the
// device's LED indicator encoding (least-significant bit transmitted
// first within each byte, unlike every other field in the protocol).
func reverseBits(b byte) byte {
	var r byte
	for i := 0; i < 8; i++ {
		r = (r << 1) | (b & 1)
		b >>= 1
	}
	return r
}

// ParseLEDIndicator decodes an LED_DATA record. The whole remaining
// buffer is bit-reversed byte by byte before anything else reads it
// (the device transmits this record least-significant-bit first,
// unlike every other field), then a leading byte carries the location
// these LED states belong to, and each LED-bearing module at that
// location contributes one state bit plus one padding bit, in
// ascending index order.
func (c *Codec) ParseLEDIndicator(slot byte, body []byte) {
	reversed := make([]byte, len(body))
	for i, b := range body {
		reversed[i] = reverseBits(b)
	}
	bs := bitstream.New(reversed)
	if bs.Len() < 8 {
		return
	}
	location := patchdb.Location(bs.Read(8))
	for index := 0; index <= 255; index++ {
		key := patchdb.ModuleKey{Slot: slot, Location: location, Index: uint8(index)}
		m, ok := c.DB.ReadModule(key)
		if !ok {
			continue
		}
		if c.Catalog.LEDType(m.Type) != catalog.LEDYes {
			continue
		}
		if bs.Pos()+2 > bs.Len() {
			break
		}
		m.LEDState = bs.Read(1) != 0
		bs.Read(1) // padding
		c.DB.WriteModule(key, m)
	}
}
