// Package protocol implements the G2 wire format: framing, CRC
// validation, and the parse/emit pair for every sub-message the device
// and host exchange.
package protocol

import (
	"encoding/binary"
	"log/slog"

	"github.com/chrispurusha/g2edit/internal/bitstream"
	"github.com/chrispurusha/g2edit/internal/catalog"
	"github.com/chrispurusha/g2edit/internal/crc16"
	"github.com/chrispurusha/g2edit/internal/patchdb"
)

// Codec parses and emits G2 sub-messages against a patch database,
// consulting a module catalog for parameter/connector counts.
type Codec struct {
	Catalog *catalog.Catalog
	DB      *patchdb.DB
	Log     *slog.Logger
}

// NewCodec returns a Codec backed by the given catalog and database.
func NewCodec(cat *catalog.Catalog, db *patchdb.DB, log *slog.Logger) *Codec {
	if log == nil {
		log = slog.Default()
	}
	return &Codec{Catalog: cat, DB: db, Log: log}
}

// outgoingTypeNormal is the constant first byte of every outgoing frame
// except the connection-reset frame sent in eStateInit's place; there is
// no documented meaning beyond "this is a normal command", mirroring the
// 0x01 responseType a reply frame carries back.
const outgoingTypeNormal = 0x01

// outgoingTypeReset is the lone frame sent to reset the device's notion
// of per-slot patch versions at the start of a connection.
const outgoingTypeReset = 0x80

// BuildCommandFrame assembles an outgoing frame: a 2-byte big-endian
// length (covering itself and the trailing CRC), the constant type
// byte, command/version/sub-command bytes, the body, and a big-endian
// CRC-16 over everything from the type byte through the end of the body.
func BuildCommandFrame(commandByte, versionByte, subCommand byte, body []byte) []byte {
	inner := make([]byte, 0, 3+len(body))
	inner = append(inner, commandByte, versionByte, subCommand)
	inner = append(inner, body...)
	return buildFrame(outgoingTypeNormal, inner)
}

// BuildResetFrame assembles the single-byte reset frame sent once per
// connection, before any command/sub-command pair is meaningful.
func BuildResetFrame() []byte {
	return buildFrame(outgoingTypeReset, nil)
}

func buildFrame(typeByte byte, inner []byte) []byte {
	total := 2 + 1 + len(inner) + 2
	buf := make([]byte, total)
	binary.BigEndian.PutUint16(buf[0:2], uint16(total))
	buf[2] = typeByte
	copy(buf[3:3+len(inner)], inner)
	crc := crc16.Checksum(buf[2 : 3+len(inner)])
	binary.BigEndian.PutUint16(buf[3+len(inner):], crc)
	return buf
}

// StripAndVerifyCRC splits an extended frame's trailing big-endian CRC-16
// from its body and verifies it, returning the body on success.
func StripAndVerifyCRC(buf []byte) ([]byte, error) {
	if len(buf) < 2 {
		return nil, ErrShortFrame
	}
	body := buf[:len(buf)-2]
	trailer := binary.BigEndian.Uint16(buf[len(buf)-2:])
	if crc16.Checksum(body) != trailer {
		return nil, ErrBadCRC
	}
	return body, nil
}

// IndicationKind classifies what ParseIncoming decoded.
type IndicationKind int

const (
	IndicationInit IndicationKind = iota
	IndicationPatchDescription
	IndicationParamChange
	IndicationPatchVersion
	IndicationPatchVersionChange
	IndicationSynthSettings
	IndicationPatchName
	IndicationOK
	IndicationSelectSlot
	IndicationNoOp
	IndicationError
)

// Indication is the decoded result of one incoming frame.
type Indication struct {
	Kind IndicationKind
	Slot uint8

	ParamChange   ParamChangeEvent
	SynthSettings SynthSettings
	PatchVersion  uint8
	PatchName     string
	NoOpName      string
}

// ParamChangeEvent is the payload of a SubResponseParamChange indication.
type ParamChangeEvent struct {
	Location  patchdb.Location
	Index     uint8
	Param     uint8
	Value     uint8
	Variation uint8
}

// ParseIncoming decodes a frame payload already stripped of any CRC
// trailer, whether it arrived embedded in an interrupt buffer or via an
// extended bulk read.
func (c *Codec) ParseIncoming(buf []byte) (Indication, error) {
	if len(buf) < 1 {
		return Indication{}, ErrShortFrame
	}
	bs := bitstream.New(buf)
	responseType := byte(bs.Read(8))
	switch responseType {
	case ResponseTypeInit:
		return Indication{Kind: IndicationInit}, nil
	case ResponseTypeCommand:
		if len(buf) < 4 {
			return Indication{}, ErrShortFrame
		}
		commandResponse := byte(bs.Read(8))
		bs.Read(8) // version, unused on this path
		subCommand := byte(bs.Read(8))
		body := buf[4:]
		return c.parseCommandResponse(commandResponse, subCommand, body)
	default:
		return Indication{}, ErrUnknownResponse
	}
}

func (c *Codec) parseCommandResponse(commandResponse, subCommand byte, body []byte) (Indication, error) {
	slot := commandResponse & 0x03
	switch subCommand {
	case SubResponsePatchDescription:
		if err := c.ParsePatchPayload(slot, body); err != nil {
			return Indication{}, err
		}
		return Indication{Kind: IndicationPatchDescription, Slot: slot}, nil
	case SubResponseParamChange:
		ev, err := c.ParseParamChange(slot, body)
		if err != nil {
			return Indication{}, err
		}
		return Indication{Kind: IndicationParamChange, Slot: slot, ParamChange: ev}, nil
	case SubResponsePatchVersion:
		v, err := c.ParsePatchVersion(body)
		if err != nil {
			return Indication{}, err
		}
		return Indication{Kind: IndicationPatchVersion, Slot: slot, PatchVersion: v}, nil
	case SubResponsePatchVersionChange:
		return Indication{Kind: IndicationPatchVersionChange, Slot: slot}, nil
	case SubResponseSynthSettings:
		s := c.ParseSynthSettings(body)
		return Indication{Kind: IndicationSynthSettings, Slot: slot, SynthSettings: s}, nil
	case SubResponsePatchName:
		name := ParsePatchName(body)
		t := c.DB.SideTables(slot)
		t.PatchName = name
		c.DB.SetSideTables(slot, t)
		return Indication{Kind: IndicationPatchName, Slot: slot, PatchName: name}, nil
	case SubResponseVolumeIndicator:
		c.ParseVolumeIndicator(slot, body)
		return Indication{Kind: IndicationNoOp, Slot: slot, NoOpName: "volume"}, nil
	case SubResponseLEDData:
		c.ParseLEDIndicator(slot, body)
		return Indication{Kind: IndicationNoOp, Slot: slot, NoOpName: "led"}, nil
	case SubResponseOK:
		return Indication{Kind: IndicationOK, Slot: slot}, nil
	case SubResponseError:
		return Indication{Kind: IndicationError, Slot: slot}, nil
	case SubCommandSelectSlot:
		return Indication{Kind: IndicationSelectSlot, Slot: slot}, nil
	case SubResponseResourcesUsed, SubResponseAssignedVoices, SubCommandSetAssignedVoices,
		SubResponseMidiCC, SubResponseGlobalPage, SubResponsePerformanceName, SubResponseMasterClock:
		return Indication{Kind: IndicationNoOp, Slot: slot, NoOpName: noOpName(subCommand)}, nil
	default:
		c.Log.Warn("unknown sub-command", "subCommand", subCommand)
		return Indication{}, ErrUnknownSubCommand
	}
}

func noOpName(subCommand byte) string {
	switch subCommand {
	case SubResponseResourcesUsed:
		return "resources-used"
	case SubResponseAssignedVoices, SubCommandSetAssignedVoices:
		return "assigned-voices"
	case SubResponseMidiCC:
		return "midi-cc"
	case SubResponseGlobalPage:
		return "global-page"
	case SubResponsePerformanceName:
		return "performance-name"
	case SubResponseMasterClock:
		return "master-clock"
	default:
		return "unknown"
	}
}

// ParsePatchPayload runs the sub-record dispatch loop over an extended
// frame's payload: each record is [subType:8][length:16][body], and the
// cursor always advances by length*8 after dispatch regardless of how
// much the handler actually consumed. subType 0x2d is not a bodyless
// marker: its 16-bit length field is still read, but the cursor is then
// rewound one byte before the next record is dispatched.
func (c *Codec) ParsePatchPayload(slot byte, payload []byte) error {
	bs := bitstream.New(payload)
	limit := bs.Len()
	for bs.Pos()+8 <= limit {
		subType := byte(bs.Read(8))
		if bs.Pos()+16 > limit {
			break
		}
		length := bs.Read(16)
		if subType == subRecordIgnoreMarker {
			bs.SetPos(bs.Pos() - 8)
			continue
		}
		recordStart := bs.Pos()
		switch subType {
		case SubResponseModuleList:
			c.parseModuleList(slot, bs)
		case SubResponseCableList:
			c.parseCableList(slot, bs)
		case SubResponseParamList:
			if err := c.parseParamList(slot, bs); err != nil {
				return err
			}
		case SubResponseParamNames:
			c.parseParamNames(slot, bs)
		case SubResponseModuleNames:
			c.parseModuleNames(slot, bs)
		case SubResponsePatchDescription:
			c.parsePatchDescr(slot, bs)
		case SubResponseMorphParams:
			c.parseMorphParams(slot, bs)
		case SubResponseKnobs:
			c.parseKnobs(slot, bs, false)
		case SubResponseControllers:
			c.parseKnobs(slot, bs, true)
		case SubResponseCurrentNote2, SubResponsePatchNotes:
			c.parseFreeformBuffer(slot, bs, int(length), subType == SubResponsePatchNotes)
		default:
			c.Log.Debug("unprocessed sub-record", "subType", subType)
		}
		bs.SetPos(recordStart + int(length)*8)
	}
	return nil
}
