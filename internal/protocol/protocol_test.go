package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chrispurusha/g2edit/internal/catalog"
	"github.com/chrispurusha/g2edit/internal/patchdb"
)

func newTestCodec() *Codec {
	return NewCodec(catalog.Default(), patchdb.New(), nil)
}

func TestBuildCommandFrameRoundTripsCRC(t *testing.T) {
	frame := BuildCommandFrame(0x2a, 0, SubCommandSelectSlot, []byte{2})
	body, err := StripAndVerifyCRC(frame[2:])
	require.NoError(t, err)
	require.Len(t, body, 5)
	require.Equal(t, byte(outgoingTypeNormal), body[0])
	require.Equal(t, byte(0x2a), body[1])
	require.Equal(t, byte(2), body[4])
}

func TestBuildResetFrameIsSingleByteType(t *testing.T) {
	frame := BuildResetFrame()
	body, err := StripAndVerifyCRC(frame[2:])
	require.NoError(t, err)
	require.Equal(t, []byte{outgoingTypeReset}, body)
}

func TestBuildCommandFrameCorruptionDetected(t *testing.T) {
	frame := BuildCommandFrame(0x2a, 0, SubCommandSelectSlot, []byte{2})
	frame[len(frame)-1] ^= 0xff
	if _, err := StripAndVerifyCRC(frame[2:]); err == nil {
		t.Fatal("expected CRC mismatch after corruption")
	}
}

func TestModuleListRoundTrip(t *testing.T) {
	c := newTestCodec()
	m := patchdb.Module{
		Key:      patchdb.ModuleKey{Slot: 0, Location: patchdb.LocationVoice, Index: 3},
		Type:     1,
		Row:      2,
		Column:   5,
		Colour:   7,
		UpRate:   true,
		Unknown1: 0x2a,
		Modes:    []uint8{1, 2, 3},
	}
	c.DB.WriteModule(m.Key, m)

	bs := newWriter()
	c.WriteModuleList(0, patchdb.LocationVoice, bs)

	c2 := newTestCodec()
	rd := newReaderFrom(bs)
	c2.parseModuleList(0, rd)

	got, ok := c2.DB.ReadModule(m.Key)
	if !ok {
		t.Fatal("module not found after round trip")
	}
	if got.Type != m.Type || got.Row != m.Row || got.Column != m.Column || !got.UpRate || got.Unknown1 != m.Unknown1 {
		t.Fatalf("got %+v, want %+v", got, m)
	}
	if len(got.Modes) != 3 || got.Modes[1] != 2 {
		t.Fatalf("modes not preserved: %v", got.Modes)
	}
}

func TestCableListRoundTrip(t *testing.T) {
	c := newTestCodec()
	key := patchdb.CableKey{
		Slot: 0, Location: patchdb.LocationFX,
		ModuleFromIndex: 1, ConnectorFromIoCount: 0,
		LinkType: patchdb.LinkOutputToInput,
		ModuleToIndex: 2, ConnectorToIoCount: 1,
	}
	c.DB.WriteCable(key, patchdb.Cable{Key: key, Colour: 4})
	t0 := c.DB.SideTables(0)
	t0.CableListUnknown[patchdb.LocationFX] = 0xabc
	c.DB.SetSideTables(0, t0)

	bs := newWriter()
	c.WriteCableList(0, patchdb.LocationFX, bs)

	c2 := newTestCodec()
	c2.parseCableList(0, newReaderFrom(bs))

	got, ok := c2.DB.ReadCable(key)
	if !ok || got.Colour != 4 {
		t.Fatalf("cable round trip failed: %+v ok=%v", got, ok)
	}
	if u := c2.DB.SideTables(0).CableListUnknown[patchdb.LocationFX]; u != 0xabc {
		t.Fatalf("cable list unknown field not preserved: got 0x%x, want 0xabc", u)
	}
}

func TestParamListRespectsCatalogParamCount(t *testing.T) {
	c := newTestCodec()
	m := patchdb.Module{Key: patchdb.ModuleKey{Slot: 1, Location: patchdb.LocationFX, Index: 0}, Type: 1}
	m.Param[0][0].Value = 42
	c.DB.WriteModule(m.Key, m)

	bs := newWriter()
	c.WriteParamList(1, patchdb.LocationFX, bs)

	c2 := newTestCodec()
	c2.DB.WriteModule(m.Key, patchdb.Module{Key: m.Key, Type: 1})
	if err := c2.parseParamList(1, newReaderFrom(bs)); err != nil {
		t.Fatalf("parseParamList: %v", err)
	}

	got, _ := c2.DB.ReadModule(m.Key)
	if got.Param[0][0].Value != 42 {
		t.Fatalf("param value = %d, want 42", got.Param[0][0].Value)
	}
}

func TestParamListMismatchedCountIsProtocolInvariant(t *testing.T) {
	c := newTestCodec()
	key := patchdb.ModuleKey{Slot: 1, Location: patchdb.LocationFX, Index: 0}
	m := patchdb.Module{Key: key, Type: 1}
	c.DB.WriteModule(key, m)

	bs := newWriter()
	bs.Write(2, uint32(patchdb.LocationFX))
	bs.Write(8, 1) // moduleCount
	bs.Write(8, uint32(wireVariations))
	bs.Write(8, uint32(key.Index))
	bs.Write(7, uint32(c.Catalog.ParamCount(m.Type)+1)) // deliberately wrong
	for v := 0; v < wireVariations; v++ {
		bs.Write(8, uint32(v))
	}

	if err := c.parseParamList(1, newReaderFrom(bs)); err != ErrProtocolInvariant {
		t.Fatalf("parseParamList with mismatched paramCount = %v, want ErrProtocolInvariant", err)
	}
}

func TestParamChangeAppliesToStoredModule(t *testing.T) {
	c := newTestCodec()
	key := patchdb.ModuleKey{Slot: 2, Location: patchdb.LocationMorph, Index: 5}
	c.DB.WriteModule(key, patchdb.Module{Key: key, Type: 1})

	body := BuildCommandFrame(0, 0, SubResponseParamChange, []byte{
		byte(patchdb.LocationMorph), 5, 3, 9, 1,
	})
	payload, err := StripAndVerifyCRC(body[2:])
	if err != nil {
		t.Fatal(err)
	}
	ev, err := c.ParseParamChange(2, payload[4:])
	if err != nil {
		t.Fatalf("ParseParamChange: %v", err)
	}
	if ev.Value != 9 || ev.Param != 3 {
		t.Fatalf("unexpected event %+v", ev)
	}
	got, _ := c.DB.ReadModule(key)
	if got.Param[1][3].Value != 9 {
		t.Fatalf("db not updated: %+v", got.Param[1][3])
	}
}

func TestParsePatchNameStopsAtNUL(t *testing.T) {
	body := append([]byte("Lead"), 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0)
	if got := ParsePatchName(body); got != "Lead" {
		t.Fatalf("ParsePatchName = %q, want %q", got, "Lead")
	}
}

func TestLEDIndicatorBitOrderIsReversed(t *testing.T) {
	if got := reverseBits(0b10000000); got != 0b00000001 {
		t.Fatalf("reverseBits(0x80) = %08b, want %08b", got, 1)
	}
	if got := reverseBits(0b00000001); got != 0b10000000 {
		t.Fatalf("reverseBits(0x01) = %08b, want %08b", got, 0x80)
	}
}

func TestWritePatchPayloadRoundTripsThroughDispatch(t *testing.T) {
	c := newTestCodec()
	key := patchdb.ModuleKey{Slot: 0, Location: patchdb.LocationFX, Index: 0}
	c.DB.WriteModule(key, patchdb.Module{Key: key, Type: 1, Name: "Osc"})

	payload := c.WritePatchPayload(0)

	c2 := newTestCodec()
	if err := c2.ParsePatchPayload(0, payload); err != nil {
		t.Fatalf("ParsePatchPayload: %v", err)
	}
	got, ok := c2.DB.ReadModule(key)
	if !ok || got.Name != "Osc" {
		t.Fatalf("module not recovered from full patch payload: %+v ok=%v", got, ok)
	}
}

func TestIgnoreMarkerReadsLengthThenRewindsOneByte(t *testing.T) {
	c := newTestCodec()
	// Each 0x2d marker still carries its 16-bit length field; the net
	// advance per marker is 2 bytes (read 3, rewind 1), so the next
	// record starts on the low byte of the first marker's length field,
	// which here is a second marker.
	payload := []byte{subRecordIgnoreMarker, 0x00, subRecordIgnoreMarker, 0x00, 0x00}
	if err := c.ParsePatchPayload(0, payload); err != nil {
		t.Fatalf("ParsePatchPayload with ignore markers: %v", err)
	}
}

func TestUnprocessedSubRecordStillAdvancesByLength(t *testing.T) {
	c := newTestCodec()
	bs := newWriter()
	writeSubRecord(bs, 0x7f, func() {
		bs.Write(8, 0xAA)
		bs.Write(8, 0xBB)
	})
	key := patchdb.ModuleKey{Slot: 0, Location: patchdb.LocationFX, Index: 0}
	writeSubRecord(bs, SubResponseModuleNames, func() {
		bs.Write(8, uint32(patchdb.LocationFX))
		bs.Write(16, 1)
		bs.Write(8, uint32(key.Index))
		for i := 0; i < moduleNameSize; i++ {
			bs.Write(8, 0)
		}
	})
	c.DB.WriteModule(key, patchdb.Module{Key: key, Type: 1})

	if err := c.ParsePatchPayload(0, bs.Bytes()[:bs.Pos()/8]); err != nil {
		t.Fatalf("ParsePatchPayload: %v", err)
	}
}
